// Package thumb renders page thumbnails via MuPDF (go-fitz) and caches them
// by page and target size.
package thumb

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/gen2brain/go-fitz"
)

// RenderError reports a failed thumbnail render for a single page. Callers
// are expected to fall back to Placeholder and carry on with other pages.
type RenderError struct {
	Path string
	Page int
	Err  error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render %s page %d: %v", e.Path, e.Page+1, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// Renderer produces a bitmap for one page of one document at a target pixel
// width. Implementations may hold native resources; Close releases them.
type Renderer interface {
	Render(path string, page, width int) (image.Image, error)
	Close() error
}

type cacheKey struct {
	path  string
	page  int
	width int
}

// FitzRenderer renders through MuPDF, keeping one open document per source
// path and an in-memory image cache. Not safe for concurrent use.
type FitzRenderer struct {
	docs  map[string]*fitz.Document
	cache map[cacheKey]image.Image
}

// NewFitzRenderer creates an empty renderer.
func NewFitzRenderer() *FitzRenderer {
	return &FitzRenderer{
		docs:  make(map[string]*fitz.Document),
		cache: make(map[cacheKey]image.Image),
	}
}

// Render rasterizes the zero-based page of the document at path, scaled so
// the result is about width pixels across. Results are cached.
func (r *FitzRenderer) Render(path string, page, width int) (image.Image, error) {
	key := cacheKey{path: path, page: page, width: width}
	if img, ok := r.cache[key]; ok {
		return img, nil
	}

	doc, err := r.open(path)
	if err != nil {
		return nil, &RenderError{Path: path, Page: page, Err: err}
	}

	bound, err := doc.Bound(page)
	if err != nil {
		return nil, &RenderError{Path: path, Page: page, Err: err}
	}

	// Pick the DPI that maps the page width (in points, 72/inch) onto the
	// requested pixel width.
	dpi := 72.0
	if bound.Dx() > 0 {
		dpi = 72.0 * float64(width) / float64(bound.Dx())
	}

	img, err := doc.ImageDPI(page, dpi)
	if err != nil {
		return nil, &RenderError{Path: path, Page: page, Err: err}
	}

	r.cache[key] = img
	return img, nil
}

// Invalidate closes the document for path and drops its cached thumbnails.
func (r *FitzRenderer) Invalidate(path string) {
	if doc, ok := r.docs[path]; ok {
		doc.Close()
		delete(r.docs, path)
	}
	for key := range r.cache {
		if key.path == path {
			delete(r.cache, key)
		}
	}
}

// Close releases all open documents and cached images.
func (r *FitzRenderer) Close() error {
	for _, doc := range r.docs {
		doc.Close()
	}
	r.docs = make(map[string]*fitz.Document)
	r.cache = make(map[cacheKey]image.Image)
	return nil
}

func (r *FitzRenderer) open(path string) (*fitz.Document, error) {
	if doc, ok := r.docs[path]; ok {
		return doc, nil
	}
	doc, err := fitz.New(path)
	if err != nil {
		return nil, err
	}
	r.docs[path] = doc
	return doc, nil
}

// Placeholder returns a grey page with a cross, shown for pages that failed
// to render. The height follows an A4-ish portrait aspect.
func Placeholder(width int) image.Image {
	if width < 8 {
		width = 8
	}
	height := width * 141 / 100

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	bg := color.RGBA{R: 230, G: 230, B: 230, A: 255}
	line := color.RGBA{R: 160, G: 160, B: 160, A: 255}
	draw.Draw(img, img.Bounds(), &image.Uniform{C: bg}, image.Point{}, draw.Src)

	// Border
	for x := 0; x < width; x++ {
		img.SetRGBA(x, 0, line)
		img.SetRGBA(x, height-1, line)
	}
	for y := 0; y < height; y++ {
		img.SetRGBA(0, y, line)
		img.SetRGBA(width-1, y, line)
	}

	// Diagonal cross
	for x := 0; x < width; x++ {
		y := x * (height - 1) / (width - 1)
		img.SetRGBA(x, y, line)
		img.SetRGBA(x, height-1-y, line)
	}

	return img
}
