//go:build !gui

package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/leonhenrik/pdf-merger/internal/pagelist"
	"github.com/leonhenrik/pdf-merger/internal/pdfdoc"
)

// Version info (injected via ldflags)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF"))

	cursorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00FFFF"))

	selectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFAA00"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Padding(0, 1)

	controlsStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666")).
			Italic(true)

	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF0000"))

	savedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#00FF00"))
)

type model struct {
	pages    *pagelist.List
	cursor   int
	saving   bool
	saveTo   textinput.Model
	status   string
	quitting bool
	width    int
	height   int
}

func newModel(pages *pagelist.List, outPath string) model {
	ti := textinput.New()
	ti.Placeholder = "output.pdf"
	ti.SetValue(outPath)
	ti.CharLimit = 4096
	return model{
		pages:  pages,
		saveTo: ti,
		width:  80,
		height: 24,
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.saving {
			return m.updateSaving(msg)
		}
		return m.updateBrowsing(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}

	return m, nil
}

func (m model) updateBrowsing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		m.cursor = clampCursor(m.cursor-1, m.pages.Len())

	case "down", "j":
		m.cursor = clampCursor(m.cursor+1, m.pages.Len())

	case " ":
		m.pages.ToggleSelect(m.cursor)

	case "K", "shift+up":
		m.pages.Move(-1)
		m.status = ""

	case "J", "shift+down":
		m.pages.Move(1)
		m.status = ""

	case "d", "delete", "backspace":
		n := m.pages.SelectionCount()
		m.pages.Delete()
		m.cursor = clampCursor(m.cursor, m.pages.Len())
		if n > 0 {
			m.status = fmt.Sprintf("Deleted %d page(s)", n)
		}

	case "c":
		m.pages.Clear()
		m.cursor = 0
		m.status = "Cleared"

	case "esc":
		m.pages.DeselectAll()

	case "s":
		m.saving = true
		m.saveTo.Focus()
		return m, textinput.Blink

	case "q", "Q", "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	}

	return m, nil
}

func (m model) updateSaving(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		path := strings.TrimSpace(m.saveTo.Value())
		if path == "" {
			m.status = errorStyle.Render("No output path given")
			return m, nil
		}
		if err := pdfdoc.Assemble(m.pages.Export(), path); err != nil {
			m.status = errorStyle.Render(err.Error())
		} else {
			m.status = savedStyle.Render(fmt.Sprintf("Saved %d page(s) to %s", m.pages.Len(), path))
		}
		m.saving = false
		m.saveTo.Blur()
		return m, nil

	case "esc", "ctrl+c":
		m.saving = false
		m.saveTo.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.saveTo, cmd = m.saveTo.Update(msg)
	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	var sb strings.Builder

	sb.WriteString(titleStyle.Render("pdf-merger"))
	sb.WriteString(statusStyle.Render(fmt.Sprintf("%d pages | %d selected",
		m.pages.Len(), m.pages.SelectionCount())))
	sb.WriteString("\n\n")

	if m.pages.Len() == 0 {
		sb.WriteString("  (no pages loaded)\n")
	}

	// Keep the cursor inside the visible window.
	rows := m.height - 6
	if rows < 1 {
		rows = 1
	}
	start, end := visibleWindow(m.cursor, m.pages.Len(), rows)

	for i := start; i < end; i++ {
		prefix := "  "
		if i == m.cursor {
			prefix = cursorStyle.Render("> ")
		}

		mark := "[ ] "
		line := pageLabel(i, m.pages.Ref(i))
		if m.pages.Selected(i) {
			mark = "[x] "
			line = selectedStyle.Render(line)
		}

		sb.WriteString(prefix)
		sb.WriteString(mark)
		sb.WriteString(line)
		sb.WriteString("\n")
	}

	sb.WriteString("\n")

	if m.saving {
		sb.WriteString("Save as: ")
		sb.WriteString(m.saveTo.View())
		sb.WriteString("\n")
		sb.WriteString(controlsStyle.Render("ENTER: save  ESC: cancel"))
		return sb.String()
	}

	if m.status != "" {
		sb.WriteString(m.status)
		sb.WriteString("\n")
	}
	sb.WriteString(controlsStyle.Render("↑/↓: cursor  SPACE: select  J/K: move  D: delete  C: clear  S: save  Q: quit"))

	return sb.String()
}

// pageLabel renders one list row: position, source file, page number.
func pageLabel(i int, ref pagelist.PageRef) string {
	return fmt.Sprintf("%3d  %s · p.%d", i+1, filepath.Base(ref.Path), ref.Page+1)
}

// clampCursor keeps the cursor inside [0, n), or at 0 for an empty list.
func clampCursor(cursor, n int) int {
	if n == 0 {
		return 0
	}
	if cursor < 0 {
		return 0
	}
	if cursor >= n {
		return n - 1
	}
	return cursor
}

// visibleWindow returns the half-open row range shown for a list of n
// entries with the given number of display rows, centered on the cursor.
func visibleWindow(cursor, n, rows int) (start, end int) {
	if n <= rows {
		return 0, n
	}
	start = cursor - rows/2
	if start < 0 {
		start = 0
	}
	if start+rows > n {
		start = n - rows
	}
	return start, start + rows
}

func main() {
	outPath := flag.String("o", "", "Output PDF path (prefills the save prompt)")
	pageSpec := flag.String("pages", "", "Pages to keep, e.g. 1,3-5 (single input; writes -o and exits)")
	showVersion := flag.Bool("v", false, "Show version information")
	showVersionLong := flag.Bool("version", false, "Show version information")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "pdf-merger - Assemble, reorder and trim PDF documents\n\n")
		fmt.Fprintf(os.Stderr, "Usage:\n")
		fmt.Fprintf(os.Stderr, "  pdf-merger [options] file.pdf [file.pdf ...]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  pdf-merger a.pdf b.pdf                    Arrange pages interactively\n")
		fmt.Fprintf(os.Stderr, "  pdf-merger -o out.pdf a.pdf b.pdf         Prefill the save path\n")
		fmt.Fprintf(os.Stderr, "  pdf-merger -o out.pdf -pages 1,3-5 a.pdf  Trim without the UI\n")
		fmt.Fprintf(os.Stderr, "\nControls:\n")
		fmt.Fprintf(os.Stderr, "  ↑/↓      Move cursor\n")
		fmt.Fprintf(os.Stderr, "  SPACE    Select/deselect page\n")
		fmt.Fprintf(os.Stderr, "  J/K      Move selected pages down/up\n")
		fmt.Fprintf(os.Stderr, "  D        Delete selected pages\n")
		fmt.Fprintf(os.Stderr, "  C        Clear the list\n")
		fmt.Fprintf(os.Stderr, "  S        Save assembled PDF\n")
		fmt.Fprintf(os.Stderr, "  Q        Quit\n")
	}
	flag.Parse()

	if *showVersion || *showVersionLong {
		fmt.Printf("pdf-merger %s (commit: %s, built: %s)\n", version, commit, date)
		os.Exit(0)
	}

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: No input files. Provide one or more PDF files.")
		fmt.Fprintln(os.Stderr, "Try: pdf-merger -h")
		os.Exit(1)
	}

	store := pdfdoc.NewStore()
	pages := pagelist.New(store)
	if err := pages.Load(flag.Args()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *pageSpec != "" {
		if err := runHeadless(store, flag.Args(), *pageSpec, *outPath); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	m := newModel(pages, *outPath)
	p := tea.NewProgram(m, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// runHeadless trims a single input to the given page spec and writes it
// without entering the UI.
func runHeadless(store *pdfdoc.Store, inputs []string, spec, outPath string) error {
	if len(inputs) != 1 {
		return fmt.Errorf("-pages needs exactly one input file, got %d", len(inputs))
	}
	if outPath == "" {
		return fmt.Errorf("-pages needs -o to name the output file")
	}

	total, err := store.PageCount(inputs[0])
	if err != nil {
		return err
	}
	keep, err := pagelist.ParsePageSpec(spec, total)
	if err != nil {
		return err
	}

	refs := make([]pagelist.PageRef, len(keep))
	for i, pg := range keep {
		refs[i] = pagelist.PageRef{Path: inputs[0], Page: pg}
	}
	if err := pdfdoc.Assemble(refs, outPath); err != nil {
		return err
	}
	fmt.Printf("Wrote %d page(s) to %s\n", len(refs), outPath)
	return nil
}
