package tui

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
)

// ConfirmPhrase must be typed verbatim before any deletion happens.
const ConfirmPhrase = "I want to remove all repos above"

// ConfirmDeletion runs the typed double-confirmation form. It returns true
// only when the user typed the exact phrase; a mismatch or an aborted form
// is a clean decline. This is the single gate past which deletions become
// irreversible.
func ConfirmDeletion(count int) (bool, error) {
	var typed string
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(fmt.Sprintf("Permanently delete %d repositories?", count)).
				Description(fmt.Sprintf("Type '%s' to proceed. There is no undo.", ConfirmPhrase)).
				Value(&typed),
		),
	)
	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false, nil
		}
		return false, err
	}
	return typed == ConfirmPhrase, nil
}
