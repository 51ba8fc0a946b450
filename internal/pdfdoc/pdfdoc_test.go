package pdfdoc

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/jung-kurt/gofpdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/leonhenrik/pdf-merger/internal/pagelist"
)

// makePDF writes a real PDF with the given number of pages.
func makePDF(t *testing.T, path string, pages int) {
	t.Helper()
	doc := gofpdf.New("P", "mm", "A4", "")
	doc.SetFont("Helvetica", "", 12)
	for i := 0; i < pages; i++ {
		doc.AddPage()
		doc.Text(10, 10, fmt.Sprintf("page %d", i+1))
	}
	if err := doc.OutputFileAndClose(path); err != nil {
		t.Fatalf("writing fixture %s: %v", path, err)
	}
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()

	t.Run("valid document", func(t *testing.T) {
		path := filepath.Join(dir, "three.pdf")
		makePDF(t, path, 3)

		doc, err := Open(path)
		if err != nil {
			t.Fatalf("Open: %v", err)
		}
		if doc.Pages != 3 {
			t.Errorf("Pages = %d, want 3", doc.Pages)
		}
		if doc.Path != path {
			t.Errorf("Path = %q, want %q", doc.Path, path)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Open(filepath.Join(dir, "nope.pdf"))
		var oe *OpenError
		if !errors.As(err, &oe) {
			t.Fatalf("Open error = %v, want *OpenError", err)
		}
	})

	t.Run("not a pdf", func(t *testing.T) {
		path := filepath.Join(dir, "junk.pdf")
		os.WriteFile(path, []byte("this is not a pdf"), 0644)

		_, err := Open(path)
		var oe *OpenError
		if !errors.As(err, &oe) {
			t.Fatalf("Open error = %v, want *OpenError", err)
		}
	})
}

func TestStoreCachesDocuments(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.pdf")
	makePDF(t, path, 2)

	store := NewStore()
	n, err := store.PageCount(path)
	if err != nil {
		t.Fatalf("PageCount: %v", err)
	}
	if n != 2 {
		t.Errorf("PageCount = %d, want 2", n)
	}

	// A cached document survives the file disappearing.
	os.Remove(path)
	if n, err = store.PageCount(path); err != nil || n != 2 {
		t.Errorf("cached PageCount = %d, %v; want 2, nil", n, err)
	}

	// Forget forces a re-open, which now fails.
	store.Forget(path)
	if _, err = store.PageCount(path); err == nil {
		t.Errorf("PageCount after Forget should fail for a removed file")
	}
}

func TestStoreReset(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.pdf")
	makePDF(t, path, 1)

	store := NewStore()
	if _, err := store.PageCount(path); err != nil {
		t.Fatalf("PageCount: %v", err)
	}

	os.Remove(path)
	store.Reset()
	if _, err := store.PageCount(path); err == nil {
		t.Errorf("PageCount after Reset should fail for a removed file")
	}
}

func TestAssemble(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.pdf")
	b := filepath.Join(dir, "b.pdf")
	makePDF(t, a, 3)
	makePDF(t, b, 2)

	tests := []struct {
		name      string
		refs      []pagelist.PageRef
		wantPages int
	}{
		{
			name:      "single document in order",
			refs:      []pagelist.PageRef{{Path: a, Page: 0}, {Path: a, Page: 1}, {Path: a, Page: 2}},
			wantPages: 3,
		},
		{
			name:      "trimmed and reordered",
			refs:      []pagelist.PageRef{{Path: a, Page: 2}, {Path: a, Page: 0}},
			wantPages: 2,
		},
		{
			name: "interleaved documents",
			refs: []pagelist.PageRef{
				{Path: a, Page: 0},
				{Path: b, Page: 1},
				{Path: a, Page: 2},
				{Path: b, Page: 0},
			},
			wantPages: 4,
		},
		{
			name:      "duplicate page",
			refs:      []pagelist.PageRef{{Path: b, Page: 0}, {Path: b, Page: 0}},
			wantPages: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := filepath.Join(t.TempDir(), "out.pdf")
			if err := Assemble(tt.refs, out); err != nil {
				t.Fatalf("Assemble: %v", err)
			}
			n, err := api.PageCountFile(out)
			if err != nil {
				t.Fatalf("output is not a readable PDF: %v", err)
			}
			if n != tt.wantPages {
				t.Errorf("output has %d pages, want %d", n, tt.wantPages)
			}
		})
	}
}

func TestAssembleEmptyList(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.pdf")

	err := Assemble(nil, out)
	var se *SaveError
	if !errors.As(err, &se) {
		t.Fatalf("Assemble error = %v, want *SaveError", err)
	}
	if !errors.Is(err, ErrNothingToSave) {
		t.Errorf("Assemble error = %v, want ErrNothingToSave", err)
	}
	if _, statErr := os.Stat(out); !os.IsNotExist(statErr) {
		t.Errorf("no file should be written for an empty list")
	}
}

func TestAssembleUnwritableDestination(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.pdf")
	makePDF(t, a, 1)

	out := filepath.Join(dir, "no", "such", "dir", "out.pdf")
	err := Assemble([]pagelist.PageRef{{Path: a, Page: 0}}, out)
	var se *SaveError
	if !errors.As(err, &se) {
		t.Fatalf("Assemble error = %v, want *SaveError", err)
	}
}

func TestSplitRuns(t *testing.T) {
	tests := []struct {
		name string
		refs []pagelist.PageRef
		want [][]pagelist.PageRef
	}{
		{
			name: "one run",
			refs: []pagelist.PageRef{{Path: "a", Page: 0}, {Path: "a", Page: 1}},
			want: [][]pagelist.PageRef{{{Path: "a", Page: 0}, {Path: "a", Page: 1}}},
		},
		{
			name: "alternating sources",
			refs: []pagelist.PageRef{{Path: "a", Page: 0}, {Path: "b", Page: 0}, {Path: "a", Page: 1}},
			want: [][]pagelist.PageRef{
				{{Path: "a", Page: 0}},
				{{Path: "b", Page: 0}},
				{{Path: "a", Page: 1}},
			},
		},
		{
			name: "empty",
			refs: nil,
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := splitRuns(tt.refs); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("splitRuns(%v) = %v, want %v", tt.refs, got, tt.want)
			}
		})
	}
}
