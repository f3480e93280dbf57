// Package viewport tracks which story is selected and which part of the
// line list is on screen.
//
// Each story occupies two consecutive rows. After Reconcile both rows of
// the selected story are inside the visible window.
package viewport

import "errors"

// RowsPerItem is the number of rows one item occupies.
const RowsPerItem = 2

var (
	// ErrNoItems is returned by New for an empty list.
	ErrNoItems = errors.New("no items to show")
	// ErrViewportTooShort is returned by Reconcile when the window cannot
	// hold one item.
	ErrViewportTooShort = errors.New("viewport must be at least 2 rows high")
)

// State is the selection and scroll position over count items.
type State struct {
	count     int
	selected  int
	rowOffset int
	colOffset int
}

// New returns a State for count items with the first one selected.
func New(count int) (*State, error) {
	if count <= 0 {
		return nil, ErrNoItems
	}
	return &State{count: count}, nil
}

func (s *State) Count() int     { return s.count }
func (s *State) Selected() int  { return s.selected }
func (s *State) RowOffset() int { return s.rowOffset }
func (s *State) ColOffset() int { return s.colOffset }

// SelectNext moves the selection down one item. It reports whether the
// selection changed.
func (s *State) SelectNext() bool {
	if s.selected+1 >= s.count {
		return false
	}
	s.selected++
	return true
}

// SelectPrev moves the selection up one item. It reports whether the
// selection changed.
func (s *State) SelectPrev() bool {
	if s.selected == 0 {
		return false
	}
	s.selected--
	return true
}

// ScrollH shifts the horizontal offset by delta, clamping at zero. There
// is no upper bound. It always reports a change.
func (s *State) ScrollH(delta int) bool {
	s.colOffset = max(0, s.colOffset+delta)
	return true
}

// SelectedRows returns the half-open row range [start, end) of the
// selected item.
func (s *State) SelectedRows() (start, end int) {
	start = s.selected * RowsPerItem
	return start, start + RowsPerItem
}

// Visible returns the half-open row range shown in a window of height rows.
func (s *State) Visible(height int) (start, end int) {
	return s.rowOffset, s.rowOffset + height
}

// Reconcile scrolls vertically so the selected item is fully visible in a
// window of height rows. A selection above the window is aligned to its
// top and one below is aligned to its bottom; otherwise nothing moves.
func (s *State) Reconcile(height int) error {
	if height < RowsPerItem {
		return ErrViewportTooShort
	}
	start, end := s.SelectedRows()
	switch {
	case start < s.rowOffset:
		s.rowOffset = start
	case end > s.rowOffset+height:
		s.rowOffset = end - height
	}
	return nil
}
