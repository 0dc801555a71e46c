package grid

import "sort"

// Move is a directional navigation step, translated into a linear-index
// delta using the current column count.
type Move int

const (
	MoveLeft Move = iota
	MoveRight
	MoveUp
	MoveDown
	MovePageUp
	MovePageDown
	MoveFirst
	MoveLast
)

// pageRows is how many rows a PageUp/PageDown step jumps.
const pageRows = 5

// selectionState owns the focused identifier and the multi-select set. Every
// member must exist in the current content list; pruning happens on content
// replacement. All access is on the UI thread.
type selectionState struct {
	current  string
	selected map[string]struct{}
	anchor   int // last click index, for shift range-select
}

func newSelectionState() *selectionState {
	return &selectionState{
		selected: make(map[string]struct{}),
		anchor:   -1,
	}
}

// selectSingle replaces the selection with just id. Unknown identifiers are
// ignored.
func (s *selectionState) selectSingle(id string, index map[string]int) bool {
	idx, ok := index[id]
	if !ok {
		return false
	}
	s.selected = map[string]struct{}{id: {}}
	s.current = id
	s.anchor = idx
	return true
}

// toggle adds or removes id from the selection and moves focus to it either
// way.
func (s *selectionState) toggle(id string, index map[string]int) bool {
	idx, ok := index[id]
	if !ok {
		return false
	}
	if _, ok := s.selected[id]; ok {
		delete(s.selected, id)
	} else {
		s.selected[id] = struct{}{}
	}
	s.current = id
	s.anchor = idx
	return true
}

// extendTo selects the contiguous run between the anchor and id.
func (s *selectionState) extendTo(id string, content []string, index map[string]int) bool {
	idx, ok := index[id]
	if !ok {
		return false
	}
	if s.anchor < 0 || s.anchor >= len(content) {
		s.anchor = 0
	}

	start, end := s.anchor, idx
	if start > end {
		start, end = end, start
	}
	s.selected = make(map[string]struct{}, end-start+1)
	for i := start; i <= end; i++ {
		s.selected[content[i]] = struct{}{}
	}
	s.current = id
	return true
}

func (s *selectionState) clear() bool {
	changed := s.current != "" || len(s.selected) > 0
	s.current = ""
	s.selected = make(map[string]struct{})
	s.anchor = -1
	return changed
}

func (s *selectionState) isSelected(id string) bool {
	_, ok := s.selected[id]
	return ok
}

// prune drops entries that are no longer in the content list. Silently, per
// contract: a vanished selection is not an error.
func (s *selectionState) prune(index map[string]int) bool {
	changed := false
	for id := range s.selected {
		if _, ok := index[id]; !ok {
			delete(s.selected, id)
			changed = true
		}
	}
	if s.current != "" {
		if _, ok := index[s.current]; !ok {
			s.current = ""
			s.anchor = -1
			changed = true
		}
	}
	return changed
}

// ids returns the selected identifiers in content order.
func (s *selectionState) ids(index map[string]int) []string {
	out := make([]string, 0, len(s.selected))
	for id := range s.selected {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool {
		return index[out[i]] < index[out[j]]
	})
	return out
}

// navigateIndex resolves a move to the target linear index, clamped to the
// content bounds. Steps that resolve to the current index are absorbed by
// the caller.
func navigateIndex(current, count, columns int, move Move) int {
	if count == 0 {
		return -1
	}
	if columns < 1 {
		columns = 1
	}

	target := current
	switch move {
	case MoveLeft:
		target = current - 1
	case MoveRight:
		target = current + 1
	case MoveUp:
		target = current - columns
	case MoveDown:
		target = current + columns
	case MovePageUp:
		target = current - columns*pageRows
	case MovePageDown:
		target = current + columns*pageRows
	case MoveFirst:
		target = 0
	case MoveLast:
		target = count - 1
	}

	if target < 0 {
		target = 0
	}
	if target > count-1 {
		target = count - 1
	}
	return target
}
