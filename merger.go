//go:build gui

package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"os"
	"path/filepath"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/leonhenrik/pdf-merger/internal/pagelist"
	"github.com/leonhenrik/pdf-merger/internal/pdfdoc"
	"github.com/leonhenrik/pdf-merger/internal/state"
	"github.com/leonhenrik/pdf-merger/internal/thumb"
)

// Version info (injected via ldflags)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const (
	thumbWidth  = 160
	thumbHeight = 226 // A4-ish portrait for thumbWidth
	tileHeight  = thumbHeight + 36
)

var selectionColor = color.RGBA{R: 30, G: 120, B: 255, A: 255}

// ui owns the model and all the widgets that project it.
type ui struct {
	pages    *pagelist.List
	store    *pdfdoc.Store
	renderer thumb.Renderer
	session  *state.Store
	log      *slog.Logger

	win    fyne.Window
	grid   *fyne.Container
	status *widget.Label
}

// pageTile is one selectable thumbnail in the grid.
type pageTile struct {
	widget.BaseWidget
	img      image.Image
	label    string
	selected bool
	onTapped func()
}

func newPageTile(img image.Image, label string, selected bool, onTapped func()) *pageTile {
	t := &pageTile{img: img, label: label, selected: selected, onTapped: onTapped}
	t.ExtendBaseWidget(t)
	return t
}

func (t *pageTile) Tapped(*fyne.PointEvent) {
	if t.onTapped != nil {
		t.onTapped()
	}
}

func (t *pageTile) CreateRenderer() fyne.WidgetRenderer {
	pic := canvas.NewImageFromImage(t.img)
	pic.FillMode = canvas.ImageFillContain
	pic.SetMinSize(fyne.NewSize(thumbWidth, thumbHeight))

	caption := widget.NewLabel(t.label)
	caption.Alignment = fyne.TextAlignCenter

	border := canvas.NewRectangle(color.Transparent)
	border.StrokeWidth = 3
	if t.selected {
		border.StrokeColor = selectionColor
	}

	content := container.NewBorder(nil, caption, nil, nil, pic)
	return widget.NewSimpleRenderer(container.NewMax(content, border))
}

// refresh re-projects the model into the thumbnail grid and status bar.
func (u *ui) refresh() {
	tiles := make([]fyne.CanvasObject, 0, u.pages.Len())
	for i := 0; i < u.pages.Len(); i++ {
		i := i
		ref := u.pages.Ref(i)

		img, err := u.renderer.Render(ref.Path, ref.Page, thumbWidth)
		if err != nil {
			// One bad page must not take the rest of the grid with it.
			u.log.Warn("thumbnail failed", "path", ref.Path, "page", ref.Page, "err", err)
			img = thumb.Placeholder(thumbWidth)
		}

		label := fmt.Sprintf("%d · %s p.%d", i+1, filepath.Base(ref.Path), ref.Page+1)
		tiles = append(tiles, newPageTile(img, label, u.pages.Selected(i), func() {
			u.pages.ToggleSelect(i)
			u.refresh()
		}))
	}

	u.grid.Objects = tiles
	u.grid.Refresh()
	u.status.SetText(fmt.Sprintf("%d pages | %d selected", u.pages.Len(), u.pages.SelectionCount()))
}

// openDocument appends one document's pages to the list.
func (u *ui) openDocument(path string) {
	if err := u.pages.Append(path); err != nil {
		u.log.Error("open failed", "path", path, "err", err)
		dialog.ShowError(err, u.win)
		return
	}
	u.log.Info("opened document", "path", path)
	u.session.AddRecent(path)
	u.win.SetMainMenu(u.buildMenu())
	u.refresh()
}

func (u *ui) showOpenDialog() {
	fd := dialog.NewFileOpen(func(rc fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, u.win)
			return
		}
		if rc == nil {
			return
		}
		path := rc.URI().Path()
		rc.Close()
		u.openDocument(path)
	}, u.win)
	fd.SetFilter(storage.NewExtensionFileFilter([]string{".pdf"}))
	fd.Show()
}

func (u *ui) showSaveDialog() {
	fd := dialog.NewFileSave(func(wc fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, u.win)
			return
		}
		if wc == nil {
			return
		}
		path := wc.URI().Path()
		wc.Close()

		if err := pdfdoc.Assemble(u.pages.Export(), path); err != nil {
			u.log.Error("save failed", "path", path, "err", err)
			dialog.ShowError(err, u.win)
			return
		}
		u.log.Info("saved document", "path", path, "pages", u.pages.Len())
		u.session.SetLastSaveDir(filepath.Dir(path))
		u.status.SetText(fmt.Sprintf("Saved %d pages to %s", u.pages.Len(), filepath.Base(path)))
	}, u.win)
	fd.SetFileName("output.pdf")
	fd.SetFilter(storage.NewExtensionFileFilter([]string{".pdf"}))

	if dir := u.session.LastSaveDir(); dir != "" {
		if lister, err := storage.ListerForURI(storage.NewFileURI(dir)); err == nil {
			fd.SetLocation(lister)
		}
	}
	fd.Show()
}

func (u *ui) deleteSelected() {
	if u.pages.SelectionCount() == 0 {
		return
	}
	u.pages.Delete()
	u.refresh()
}

func (u *ui) moveSelected(delta int) {
	if u.pages.SelectionCount() == 0 {
		return
	}
	u.pages.Move(delta)
	u.refresh()
}

func (u *ui) clearAll() {
	u.pages.Clear()
	u.store.Reset()
	u.renderer.Close()
	u.refresh()
}

func (u *ui) buildMenu() *fyne.MainMenu {
	openItem := fyne.NewMenuItem("Open…", u.showOpenDialog)
	saveItem := fyne.NewMenuItem("Save As…", u.showSaveDialog)
	clearItem := fyne.NewMenuItem("Clear", u.clearAll)

	items := []*fyne.MenuItem{openItem}
	if recent := u.session.RecentFiles(); len(recent) > 0 {
		sub := make([]*fyne.MenuItem, 0, len(recent))
		for _, path := range recent {
			path := path
			sub = append(sub, fyne.NewMenuItem(filepath.Base(path), func() {
				u.openDocument(path)
			}))
		}
		recentItem := fyne.NewMenuItem("Open Recent", nil)
		recentItem.ChildMenu = fyne.NewMenu("Open Recent", sub...)
		items = append(items, recentItem)
	}
	items = append(items,
		saveItem,
		fyne.NewMenuItemSeparator(),
		clearItem,
	)

	return fyne.NewMainMenu(fyne.NewMenu("File", items...))
}

func main() {
	showVersion := flag.Bool("v", false, "Show version information")
	showVersionLong := flag.Bool("version", false, "Show version information")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "pdf-merger - Assemble, reorder and trim PDF documents\n\n")
		fmt.Fprintf(os.Stderr, "Usage:\n")
		fmt.Fprintf(os.Stderr, "  pdf-merger [options] [file.pdf ...]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if *showVersion || *showVersionLong {
		fmt.Printf("pdf-merger %s (commit: %s, built: %s)\n", version, commit, date)
		os.Exit(0)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	session, err := state.NewStore()
	if err != nil {
		// Run without persistence; the zero store keeps state in memory only.
		logger.Warn("session state unavailable", "err", err)
		session = &state.Store{}
	}

	store := pdfdoc.NewStore()
	u := &ui{
		pages:    pagelist.New(store),
		store:    store,
		renderer: thumb.NewFitzRenderer(),
		session:  session,
		log:      logger,
	}

	a := app.New()
	u.win = a.NewWindow("PDF Merger")
	u.win.Resize(fyne.NewSize(1000, 700))

	u.status = widget.NewLabel("No pages loaded")
	u.grid = container.NewGridWrap(fyne.NewSize(thumbWidth+16, tileHeight))

	toolbar := widget.NewToolbar(
		widget.NewToolbarAction(theme.FolderOpenIcon(), u.showOpenDialog),
		widget.NewToolbarAction(theme.DocumentSaveIcon(), u.showSaveDialog),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.DeleteIcon(), u.deleteSelected),
		widget.NewToolbarAction(theme.MoveUpIcon(), func() { u.moveSelected(-1) }),
		widget.NewToolbarAction(theme.MoveDownIcon(), func() { u.moveSelected(1) }),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.ContentClearIcon(), u.clearAll),
	)

	u.win.SetContent(container.NewBorder(
		toolbar,
		u.status,
		nil, nil,
		container.NewVScroll(u.grid),
	))
	u.win.SetMainMenu(u.buildMenu())

	u.win.Canvas().SetOnTypedKey(func(key *fyne.KeyEvent) {
		switch key.Name {
		case fyne.KeyDelete, fyne.KeyBackspace:
			u.deleteSelected()
		case fyne.KeyUp:
			u.moveSelected(-1)
		case fyne.KeyDown:
			u.moveSelected(1)
		case fyne.KeyEscape:
			u.pages.DeselectAll()
			u.refresh()
		}
	})

	// Documents named on the command line are loaded as one atomic batch.
	if flag.NArg() > 0 {
		if err := u.pages.Load(flag.Args()); err != nil {
			logger.Error("load failed", "err", err)
			dialog.ShowError(err, u.win)
		} else {
			for _, path := range flag.Args() {
				session.AddRecent(path)
			}
			u.win.SetMainMenu(u.buildMenu())
		}
	}
	u.refresh()

	u.win.SetOnClosed(func() {
		u.renderer.Close()
	})

	u.win.ShowAndRun()
}
