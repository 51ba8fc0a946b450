//go:build !gui

package main

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/leonhenrik/pdf-merger/internal/pagelist"
)

type fakeOpener map[string]int

func (f fakeOpener) PageCount(path string) (int, error) {
	return f[path], nil
}

func testModel(t *testing.T, counts fakeOpener, paths ...string) model {
	t.Helper()
	pages := pagelist.New(counts)
	if err := pages.Load(paths); err != nil {
		t.Fatalf("Load: %v", err)
	}
	return newModel(pages, "")
}

func key(s string) tea.KeyMsg {
	if s == " " {
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestPageLabel(t *testing.T) {
	tests := []struct {
		name  string
		index int
		ref   pagelist.PageRef
		want  string
	}{
		{
			name:  "first page",
			index: 0,
			ref:   pagelist.PageRef{Path: "/docs/report.pdf", Page: 0},
			want:  "  1  report.pdf · p.1",
		},
		{
			name:  "later page strips the directory",
			index: 11,
			ref:   pagelist.PageRef{Path: "/tmp/in/scan.pdf", Page: 4},
			want:  " 12  scan.pdf · p.5",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := pageLabel(tt.index, tt.ref); got != tt.want {
				t.Errorf("pageLabel(%d, %v) = %q, want %q", tt.index, tt.ref, got, tt.want)
			}
		})
	}
}

func TestClampCursor(t *testing.T) {
	tests := []struct {
		name   string
		cursor int
		n      int
		want   int
	}{
		{"inside", 2, 5, 2},
		{"below zero", -1, 5, 0},
		{"past the end", 5, 5, 4},
		{"empty list", 3, 0, 0},
		{"single entry", 0, 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := clampCursor(tt.cursor, tt.n); got != tt.want {
				t.Errorf("clampCursor(%d, %d) = %d, want %d", tt.cursor, tt.n, got, tt.want)
			}
		})
	}
}

func TestVisibleWindow(t *testing.T) {
	tests := []struct {
		name      string
		cursor    int
		n, rows   int
		wantStart int
		wantEnd   int
	}{
		{"everything fits", 0, 5, 10, 0, 5},
		{"cursor at top", 0, 20, 10, 0, 10},
		{"cursor centered", 10, 20, 10, 5, 15},
		{"cursor at bottom", 19, 20, 10, 10, 20},
		{"empty list", 0, 0, 10, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := visibleWindow(tt.cursor, tt.n, tt.rows)
			if start != tt.wantStart || end != tt.wantEnd {
				t.Errorf("visibleWindow(%d, %d, %d) = %d, %d; want %d, %d",
					tt.cursor, tt.n, tt.rows, start, end, tt.wantStart, tt.wantEnd)
			}
		})
	}
}

func TestBrowseSelectAndDelete(t *testing.T) {
	m := testModel(t, fakeOpener{"a.pdf": 3}, "a.pdf")

	// Move the cursor to the second page and select it.
	next, _ := m.Update(key("j"))
	m = next.(model)
	next, _ = m.Update(key(" "))
	m = next.(model)

	if !m.pages.Selected(1) {
		t.Fatalf("page 1 should be selected")
	}

	next, _ = m.Update(key("d"))
	m = next.(model)

	if m.pages.Len() != 2 {
		t.Errorf("Len() = %d after delete, want 2", m.pages.Len())
	}
	if m.pages.SelectionCount() != 0 {
		t.Errorf("selection should be cleared after delete")
	}
}

func TestDeleteLastPageClampsCursor(t *testing.T) {
	m := testModel(t, fakeOpener{"a.pdf": 2}, "a.pdf")

	next, _ := m.Update(key("j"))
	m = next.(model)
	next, _ = m.Update(key(" "))
	m = next.(model)
	next, _ = m.Update(key("d"))
	m = next.(model)

	if m.cursor != 0 {
		t.Errorf("cursor = %d after deleting the last row, want 0", m.cursor)
	}
}

func TestViewShowsPagesAndSelection(t *testing.T) {
	m := testModel(t, fakeOpener{"a.pdf": 2}, "a.pdf")
	next, _ := m.Update(key(" "))
	m = next.(model)

	view := m.View()
	if !strings.Contains(view, "a.pdf · p.1") {
		t.Errorf("view should list the first page:\n%s", view)
	}
	if !strings.Contains(view, "[x]") {
		t.Errorf("view should mark the selected page:\n%s", view)
	}
	if !strings.Contains(view, "2 pages | 1 selected") {
		t.Errorf("view should show the counts:\n%s", view)
	}
}

func TestViewEmptyList(t *testing.T) {
	m := newModel(pagelist.New(fakeOpener{}), "")
	if view := m.View(); !strings.Contains(view, "(no pages loaded)") {
		t.Errorf("empty view should say so:\n%s", view)
	}
}
