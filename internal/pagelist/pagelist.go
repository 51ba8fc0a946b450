// Package pagelist provides the ordered page sequence and selection logic
// behind the document being assembled.
package pagelist

import (
	"fmt"
	"sort"
)

// PageRef identifies one page of one source document.
type PageRef struct {
	Path string // source document path
	Page int    // zero-based page index within the source
}

// Opener answers page counts for source documents. The PDF layer implements
// it; tests supply a stub.
type Opener interface {
	PageCount(path string) (int, error)
}

// List holds the working sequence of pages and the current selection.
// It is meant to be owned by a single front-end and touched from one
// goroutine only.
type List struct {
	refs     []PageRef
	selected map[int]struct{}
	opener   Opener
}

// New creates an empty list backed by the given opener.
func New(opener Opener) *List {
	return &List{
		selected: make(map[int]struct{}),
		opener:   opener,
	}
}

// Load replaces the list with the pages of the given documents, in argument
// order then page order. The load is atomic: if any document fails to open,
// the list and selection are left exactly as they were and the error is
// returned.
func (l *List) Load(paths []string) error {
	counts := make([]int, len(paths))
	for i, p := range paths {
		n, err := l.opener.PageCount(p)
		if err != nil {
			return fmt.Errorf("load %s: %w", p, err)
		}
		counts[i] = n
	}

	l.refs = l.refs[:0]
	for i, p := range paths {
		for pg := 0; pg < counts[i]; pg++ {
			l.refs = append(l.refs, PageRef{Path: p, Page: pg})
		}
	}
	l.selected = make(map[int]struct{})
	return nil
}

// Append adds the pages of one document to the end of the list. The existing
// entries and selection are untouched, even on failure.
func (l *List) Append(path string) error {
	n, err := l.opener.PageCount(path)
	if err != nil {
		return fmt.Errorf("append %s: %w", path, err)
	}
	for pg := 0; pg < n; pg++ {
		l.refs = append(l.refs, PageRef{Path: path, Page: pg})
	}
	return nil
}

// ToggleSelect flips the selection state of the entry at index i.
// Out-of-range indices are ignored.
func (l *List) ToggleSelect(i int) {
	if i < 0 || i >= len(l.refs) {
		return
	}
	if _, ok := l.selected[i]; ok {
		delete(l.selected, i)
	} else {
		l.selected[i] = struct{}{}
	}
}

// Delete removes all selected entries and clears the selection. Indices are
// processed highest first so pending removals never shift. No-op when
// nothing is selected.
func (l *List) Delete() {
	if len(l.selected) == 0 {
		return
	}
	for _, i := range l.selectionDesc() {
		l.refs = append(l.refs[:i], l.refs[i+1:]...)
	}
	l.selected = make(map[int]struct{})
}

// Move shifts every selected entry one position; delta must be -1 (up) or
// +1 (down). Entries whose target slot is outside the list, or occupied by a
// selected entry that itself could not move, stay in place; the rest of the
// selection still moves. The selection is updated to follow the entries that
// actually moved, so a contiguous block stays a contiguous block.
func (l *List) Move(delta int) {
	if delta != -1 && delta != 1 || len(l.selected) == 0 {
		return
	}

	newSel := make(map[int]struct{}, len(l.selected))
	if delta == -1 {
		// Ascending so a block walks up together. blocked is the highest
		// slot already claimed by a selected entry that could not move.
		blocked := -1
		for _, i := range l.selectionAsc() {
			if i-1 > blocked {
				l.refs[i-1], l.refs[i] = l.refs[i], l.refs[i-1]
				blocked = i - 1
				newSel[i-1] = struct{}{}
			} else {
				blocked = i
				newSel[i] = struct{}{}
			}
		}
	} else {
		blocked := len(l.refs)
		for _, i := range l.selectionDesc() {
			if i+1 < blocked {
				l.refs[i+1], l.refs[i] = l.refs[i], l.refs[i+1]
				blocked = i + 1
				newSel[i+1] = struct{}{}
			} else {
				blocked = i
				newSel[i] = struct{}{}
			}
		}
	}
	l.selected = newSel
}

// Clear empties the list and the selection.
func (l *List) Clear() {
	l.refs = nil
	l.selected = make(map[int]struct{})
}

// Export returns a copy of the list in order. It never mutates state.
func (l *List) Export() []PageRef {
	out := make([]PageRef, len(l.refs))
	copy(out, l.refs)
	return out
}

// Len returns the number of entries.
func (l *List) Len() int {
	return len(l.refs)
}

// Ref returns the entry at index i. It panics on out-of-range access, like
// a slice would.
func (l *List) Ref(i int) PageRef {
	return l.refs[i]
}

// Selected reports whether the entry at index i is selected.
func (l *List) Selected(i int) bool {
	_, ok := l.selected[i]
	return ok
}

// SelectionCount returns the number of selected entries.
func (l *List) SelectionCount() int {
	return len(l.selected)
}

// DeselectAll clears the selection without touching the list.
func (l *List) DeselectAll() {
	l.selected = make(map[int]struct{})
}

func (l *List) selectionAsc() []int {
	out := make([]int, 0, len(l.selected))
	for i := range l.selected {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}

func (l *List) selectionDesc() []int {
	out := l.selectionAsc()
	sort.Sort(sort.Reverse(sort.IntSlice(out)))
	return out
}
