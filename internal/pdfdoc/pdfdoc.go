// Package pdfdoc wraps pdfcpu with the small document surface the rest of
// the tool needs: open a PDF, count its pages, and write an assembled
// document from an ordered list of page references.
package pdfdoc

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/leonhenrik/pdf-merger/internal/pagelist"
)

// ErrNothingToSave is returned by Assemble when the page list is empty.
var ErrNothingToSave = errors.New("nothing to save: page list is empty")

// OpenError reports a source document that could not be read or parsed.
type OpenError struct {
	Path string
	Err  error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("open %s: %v", e.Path, e.Err)
}

func (e *OpenError) Unwrap() error { return e.Err }

// SaveError reports a failure to write the assembled document.
type SaveError struct {
	Path string
	Err  error
}

func (e *SaveError) Error() string {
	return fmt.Sprintf("save %s: %v", e.Path, e.Err)
}

func (e *SaveError) Unwrap() error { return e.Err }

// Document is an opened, validated source PDF.
type Document struct {
	Path  string
	Pages int
}

func conf() *model.Configuration {
	c := model.NewDefaultConfiguration()
	c.ValidationMode = model.ValidationRelaxed
	return c
}

// Open validates the PDF at path and reads its page count.
func Open(path string) (*Document, error) {
	if err := api.ValidateFile(path, conf()); err != nil {
		return nil, &OpenError{Path: path, Err: err}
	}
	n, err := api.PageCountFile(path)
	if err != nil {
		return nil, &OpenError{Path: path, Err: err}
	}
	return &Document{Path: path, Pages: n}, nil
}

// Store caches opened documents by path and satisfies the page list's
// Opener seam.
type Store struct {
	docs map[string]*Document
}

// NewStore creates an empty document store.
func NewStore() *Store {
	return &Store{docs: make(map[string]*Document)}
}

// Open returns the cached document for path, opening it on first use.
func (s *Store) Open(path string) (*Document, error) {
	if d, ok := s.docs[path]; ok {
		return d, nil
	}
	d, err := Open(path)
	if err != nil {
		return nil, err
	}
	s.docs[path] = d
	return d, nil
}

// PageCount implements pagelist.Opener.
func (s *Store) PageCount(path string) (int, error) {
	d, err := s.Open(path)
	if err != nil {
		return 0, err
	}
	return d.Pages, nil
}

// Forget drops the cached entry for path, forcing a re-open next time.
func (s *Store) Forget(path string) {
	delete(s.docs, path)
}

// Reset drops every cached document.
func (s *Store) Reset() {
	s.docs = make(map[string]*Document)
}

// Assemble writes the pages named by refs, in order, to outPath. Pages are
// copied from their source documents; a source may contribute any number of
// pages in any order, including the same page twice. Returns a SaveError on
// an empty list or a write failure.
func Assemble(refs []pagelist.PageRef, outPath string) error {
	if len(refs) == 0 {
		return &SaveError{Path: outPath, Err: ErrNothingToSave}
	}

	runs := splitRuns(refs)
	if len(runs) == 1 {
		if err := collectRun(runs[0], outPath); err != nil {
			return &SaveError{Path: outPath, Err: err}
		}
		return nil
	}

	tmpDir, err := os.MkdirTemp("", "pdf-merger-*")
	if err != nil {
		return &SaveError{Path: outPath, Err: err}
	}
	defer os.RemoveAll(tmpDir)

	parts := make([]string, len(runs))
	for i, run := range runs {
		part := filepath.Join(tmpDir, fmt.Sprintf("part-%03d.pdf", i))
		if err := collectRun(run, part); err != nil {
			return &SaveError{Path: outPath, Err: err}
		}
		parts[i] = part
	}

	if err := api.MergeCreateFile(parts, outPath, false, conf()); err != nil {
		return &SaveError{Path: outPath, Err: err}
	}
	return nil
}

// splitRuns breaks refs into maximal runs of consecutive entries sharing a
// source document, preserving order.
func splitRuns(refs []pagelist.PageRef) [][]pagelist.PageRef {
	var runs [][]pagelist.PageRef
	start := 0
	for i := 1; i <= len(refs); i++ {
		if i == len(refs) || refs[i].Path != refs[start].Path {
			runs = append(runs, refs[start:i])
			start = i
		}
	}
	return runs
}

// collectRun copies one run's pages from its source into outPath, keeping
// the run's page order. pdfcpu page selections are one-based.
func collectRun(run []pagelist.PageRef, outPath string) error {
	pages := make([]string, len(run))
	for i, ref := range run {
		pages[i] = strconv.Itoa(ref.Page + 1)
	}
	return api.CollectFile(run[0].Path, outPath, pages, conf())
}
