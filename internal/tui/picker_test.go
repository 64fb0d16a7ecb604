package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naka-gawa/repo-sweeper/internal/domain"
	"github.com/naka-gawa/repo-sweeper/internal/usecase"
)

func newTestPicker() (*Picker, *usecase.SelectionSession) {
	catalog := usecase.NewCatalog([]domain.Repository{
		{Owner: "o", Name: "a", FullName: "o/a"},
		{Owner: "o", Name: "b", FullName: "o/b"},
		{Owner: "o", Name: "c", FullName: "o/c"},
	})
	session := usecase.NewSelectionSession(catalog)
	return NewPicker(session, nil), session
}

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestPicker_SpaceTogglesTheHighlightedRepository(t *testing.T) {
	picker, session := newTestPicker()

	model, _ := picker.Update(keyMsg(" "))
	picker = model.(*Picker)
	assert.True(t, session.Selected("o/a"))

	model, _ = picker.Update(keyMsg(" "))
	picker = model.(*Picker)
	assert.False(t, session.Selected("o/a"))
	require.NoError(t, picker.Err())
}

func TestPicker_SelectAllAndClear(t *testing.T) {
	picker, session := newTestPicker()

	model, _ := picker.Update(keyMsg("a"))
	picker = model.(*Picker)
	assert.Equal(t, 3, session.Count())

	model, _ = picker.Update(keyMsg("c"))
	_ = model.(*Picker)
	assert.Zero(t, session.Count())
}

func TestPicker_EnterConfirmsOnlyWithASelection(t *testing.T) {
	picker, session := newTestPicker()

	// Empty selection: enter is a no-op.
	model, cmd := picker.Update(tea.KeyMsg{Type: tea.KeyEnter})
	picker = model.(*Picker)
	assert.False(t, picker.Confirmed)
	assert.Nil(t, cmd)

	session.SelectAll()
	model, cmd = picker.Update(tea.KeyMsg{Type: tea.KeyEnter})
	picker = model.(*Picker)
	assert.True(t, picker.Confirmed)
	assert.NotNil(t, cmd)
}

func TestPicker_QuitKeysAbortCleanly(t *testing.T) {
	for _, key := range []tea.KeyMsg{
		{Type: tea.KeyEsc},
		{Type: tea.KeyCtrlC},
		keyMsg("q"),
	} {
		picker, _ := newTestPicker()
		model, cmd := picker.Update(key)
		picker = model.(*Picker)
		assert.True(t, picker.Aborted, "key %s", key.String())
		assert.NotNil(t, cmd, "key %s", key.String())
		assert.False(t, picker.Confirmed)
	}
}
