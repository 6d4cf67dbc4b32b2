package cli

import (
	"context"
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/chemdeck/chemdeck/pkg/dataset"
	"github.com/chemdeck/chemdeck/pkg/entity"
	"github.com/chemdeck/chemdeck/pkg/layout"
	"github.com/chemdeck/chemdeck/pkg/viewport"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// BrowseModel - Interactive card browser
// =============================================================================

// browseCanvas is the fixed layout space the browser computes placements in.
// Terminal cells are projected into this space, so resizing the terminal
// changes the sampling density, not the layout.
const (
	browseCanvasWidth  = 1200.0
	browseCanvasHeight = 800.0
)

// BrowseModel is the bubbletea model for the interactive card browser. It
// paints the active layout onto a character grid and hit-tests the cursor
// against the placement, so hovering works the same way it would on a real
// canvas.
type BrowseModel struct {
	source   dataset.Source
	logger   *log.Logger
	registry *layout.Registry
	view     *viewport.Transform

	categories []string
	catIdx     int
	modes      []layout.Mode
	modeIdx    int

	entities []entity.Entity
	hovered  *layout.Placed
	err      error

	cursorX, cursorY int
	width, height    int
}

// NewBrowseModel creates a browser starting on the first category in grid
// mode.
func NewBrowseModel(source dataset.Source, logger *log.Logger) *BrowseModel {
	m := &BrowseModel{
		source:     source,
		logger:     logger,
		view:       viewport.New(viewport.DefaultBounds),
		categories: dataset.Categories(),
		modes:      layout.AllModes(),
		width:      80,
		height:     24,
	}
	m.reload()
	return m
}

// reload loads the active category and recomputes the placement. The
// registry is rebuilt because each category carries its own layout config.
func (m *BrowseModel) reload() {
	category := m.categories[m.catIdx]
	m.registry = layout.NewRegistry(layout.ConfigFor(category), browseCanvasWidth, browseCanvasHeight, m.logger)

	entities, err := m.source.LoadAll(context.Background(), category)
	if err != nil {
		m.err = err
		m.entities = nil
		return
	}
	m.err = nil
	m.entities = entities
	m.recompute()
}

// recompute applies the active mode to the loaded entities.
func (m *BrowseModel) recompute() {
	if err := m.registry.SetActive(m.modes[m.modeIdx]); err != nil {
		m.err = err
		return
	}
	m.err = nil
	m.registry.Recompute(m.entities)
	m.view.Reset()
	m.updateHover()
}

// updateHover maps the cursor cell back to layout coordinates and hit-tests.
func (m *BrowseModel) updateHover() {
	sx, sy := m.cellToScreen(m.cursorX, m.cursorY)
	lx, ly := m.view.ScreenToLocal(sx, sy)
	if p, ok := m.registry.HitTest(lx, ly); ok {
		m.hovered = p
		return
	}
	m.hovered = nil
}

func (m *BrowseModel) canvasSize() (int, int) {
	w := m.width - 2
	h := m.height - 7
	if w < 20 {
		w = 20
	}
	if h < 5 {
		h = 5
	}
	return w, h
}

// cellToScreen converts a terminal cell to a point in the layout canvas,
// sampling at the cell center.
func (m *BrowseModel) cellToScreen(cx, cy int) (float64, float64) {
	w, h := m.canvasSize()
	return (float64(cx) + 0.5) * browseCanvasWidth / float64(w),
		(float64(cy) + 0.5) * browseCanvasHeight / float64(h)
}

func (m *BrowseModel) Init() tea.Cmd {
	return nil
}

func (m *BrowseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "c", "tab":
			m.catIdx = (m.catIdx + 1) % len(m.categories)
			m.reload()
		case "C", "shift+tab":
			m.catIdx = (m.catIdx - 1 + len(m.categories)) % len(m.categories)
			m.reload()
		case "m":
			m.modeIdx = (m.modeIdx + 1) % len(m.modes)
			m.recompute()
		case "M":
			m.modeIdx = (m.modeIdx - 1 + len(m.modes)) % len(m.modes)
			m.recompute()
		case "up", "k":
			if m.cursorY > 0 {
				m.cursorY--
			}
			m.updateHover()
		case "down", "j":
			if _, h := m.canvasSize(); m.cursorY < h-1 {
				m.cursorY++
			}
			m.updateHover()
		case "left", "h":
			if m.cursorX > 0 {
				m.cursorX--
			}
			m.updateHover()
		case "right", "l":
			if w, _ := m.canvasSize(); m.cursorX < w-1 {
				m.cursorX++
			}
			m.updateHover()
		case "+", "=":
			sx, sy := m.cellToScreen(m.cursorX, m.cursorY)
			m.view.ZoomAt(sx, sy, viewport.ZoomStep)
			m.updateHover()
		case "-":
			sx, sy := m.cellToScreen(m.cursorX, m.cursorY)
			m.view.ZoomAt(sx, sy, 1/viewport.ZoomStep)
			m.updateHover()
		case "pgdown", "f":
			m.view.Scroll(80, m.maxScroll())
			m.updateHover()
		case "pgup", "b":
			m.view.Scroll(-80, m.maxScroll())
			m.updateHover()
		case "r":
			m.view.Reset()
			m.updateHover()
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateHover()
	}
	return m, nil
}

// maxScroll is how far the content extends past the canvas at the current
// zoom.
func (m *BrowseModel) maxScroll() float64 {
	overflow := m.registry.ContentHeight()*m.view.Zoom - browseCanvasHeight
	if overflow < 0 {
		return 0
	}
	return overflow
}

func (m *BrowseModel) View() string {
	var b strings.Builder

	category := m.categories[m.catIdx]
	mode := m.modes[m.modeIdx]

	b.WriteString(StyleTitle.Render("chemdeck"))
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  %s · %s · %d cards · zoom %.1fx",
		category, mode, len(m.registry.Current()), m.view.Zoom)))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("arrows move  +/- zoom  pgup/pgdn scroll  c category  m mode  r reset  q quit"))
	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString(StyleWarning.Render(fmt.Sprintf("  %v", m.err)))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(m.renderCanvas())
	b.WriteString("\n")
	b.WriteString(m.renderHover())

	return b.String()
}

// renderCanvas paints the placement onto a character grid. Each cell samples
// the layout at its center; covered cells render as a block in the card's
// group color.
func (m *BrowseModel) renderCanvas() string {
	w, h := m.canvasSize()
	placed := m.registry.Current()

	var b strings.Builder
	for cy := 0; cy < h; cy++ {
		b.WriteString(" ")
		for cx := 0; cx < w; cx++ {
			if cx == m.cursorX && cy == m.cursorY {
				b.WriteString(StyleHighlight.Render("+"))
				continue
			}
			sx, sy := m.cellToScreen(cx, cy)
			lx, ly := m.view.ScreenToLocal(sx, sy)
			card := cardAt(placed, lx, ly)
			if card == nil {
				b.WriteString(" ")
				continue
			}
			style := listNormalStyle
			if card.GroupColor != "" {
				style = lipgloss.NewStyle().Foreground(lipgloss.Color(card.GroupColor))
			}
			if m.hovered != nil && card.Entity.ID == m.hovered.Entity.ID {
				b.WriteString(style.Bold(true).Render("█"))
			} else {
				b.WriteString(style.Render("▒"))
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

// cardAt finds the topmost card covering a layout-local point.
func cardAt(placed []layout.Placed, x, y float64) *layout.Placed {
	for i := len(placed) - 1; i >= 0; i-- {
		if placed[i].Contains(x, y) {
			return &placed[i]
		}
	}
	return nil
}

// renderHover shows the card under the cursor with a few of its fields.
func (m *BrowseModel) renderHover() string {
	if m.hovered == nil {
		return listDimStyle.Render("  move the cursor over a card")
	}

	parts := []string{listSelectedStyle.Render(m.hovered.Entity.Name())}
	if m.hovered.Group != "" {
		parts = append(parts, listDimStyle.Render(m.hovered.Group))
	}
	for _, field := range summaryFields(m.hovered.Entity) {
		parts = append(parts, listDimStyle.Render(field))
	}
	return "  " + strings.Join(parts, listDimStyle.Render(" · "))
}

// summaryFields picks a handful of scalar fields for the hover line, sorted
// for a stable display.
func summaryFields(e entity.Entity) []string {
	keys := make([]string, 0, len(e.Fields))
	for k, v := range e.Fields {
		if k == "Name" {
			continue
		}
		switch v.(type) {
		case string, float64, int, bool:
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	if len(keys) > 4 {
		keys = keys[:4]
	}

	fields := make([]string, len(keys))
	for i, k := range keys {
		fields[i] = fmt.Sprintf("%s=%v", k, e.Fields[k])
	}
	return fields
}
