package usecase

import (
	"fmt"

	"github.com/naka-gawa/repo-sweeper/internal/domain"
)

// SelectionSession tracks which catalog entries the user has marked for
// deletion. A session is bound to exactly one catalog for its whole
// lifetime, so every selection is validated against the same snapshot.
type SelectionSession struct {
	catalog  *Catalog
	selected map[string]struct{}
}

// NewSelectionSession creates an empty session over the given catalog.
func NewSelectionSession(catalog *Catalog) *SelectionSession {
	return &SelectionSession{
		catalog:  catalog,
		selected: make(map[string]struct{}),
	}
}

// Catalog returns the snapshot this session selects from.
func (s *SelectionSession) Catalog() *Catalog {
	return s.catalog
}

// Toggle flips membership of id in the selection and reports the new
// state. Toggling an identifier outside the catalog is a contract
// violation and returns ErrInvalidReference.
func (s *SelectionSession) Toggle(id string) (bool, error) {
	if !s.catalog.Contains(id) {
		return false, fmt.Errorf("%w: %s", domain.ErrInvalidReference, id)
	}
	if _, ok := s.selected[id]; ok {
		delete(s.selected, id)
		return false, nil
	}
	s.selected[id] = struct{}{}
	return true, nil
}

// Selected reports whether id is currently marked.
func (s *SelectionSession) Selected(id string) bool {
	_, ok := s.selected[id]
	return ok
}

// SelectAll marks every catalog entry.
func (s *SelectionSession) SelectAll() {
	for _, id := range s.catalog.IDs() {
		s.selected[id] = struct{}{}
	}
}

// Clear empties the selection.
func (s *SelectionSession) Clear() {
	s.selected = make(map[string]struct{})
}

// Count returns the number of marked entries.
func (s *SelectionSession) Count() int {
	return len(s.selected)
}

// Confirmed returns the current selection as an immutable snapshot in
// catalog order. It does not clear the selection; calling it twice
// without intervening toggles yields the same slice.
func (s *SelectionSession) Confirmed() []string {
	ids := make([]string, 0, len(s.selected))
	for _, id := range s.catalog.IDs() {
		if _, ok := s.selected[id]; ok {
			ids = append(ids, id)
		}
	}
	return ids
}
