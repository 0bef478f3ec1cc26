// Package cliplist provides a scrollable list component for displaying
// clipboard entries with a selection cursor owned by the caller.
package cliplist

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Item is one row of the list. Sensitive items render their preview in the
// Sensitive style.
type Item interface {
	ID() int64
	Icon() string
	PreviewText(maxLen int) string
	Meta() string
	Sensitive() bool
}

type Styles struct {
	Item      lipgloss.Style
	Selected  lipgloss.Style
	Marker    lipgloss.Style
	Meta      lipgloss.Style
	Sensitive lipgloss.Style
	Empty     lipgloss.Style
}

// DefaultStyles is the palette used before a theme is applied.
func DefaultStyles() Styles {
	textFaint := lipgloss.Color("#4C566A")
	return Styles{
		Item:      lipgloss.NewStyle().PaddingLeft(1),
		Selected:  lipgloss.NewStyle().PaddingLeft(1).Background(lipgloss.Color("#3B4252")),
		Marker:    lipgloss.NewStyle().Foreground(lipgloss.Color("#A3BE8C")).Bold(true),
		Meta:      lipgloss.NewStyle().Foreground(textFaint),
		Sensitive: lipgloss.NewStyle().Foreground(lipgloss.Color("#D08770")).Italic(true),
		Empty:     lipgloss.NewStyle().Foreground(textFaint).Italic(true),
	}
}

// Model renders items; the caller owns the cursor and pushes it in with Select.
type Model struct {
	items    []Item
	matches  [][]int
	selected int
	width    int
	height   int
	viewport viewport.Model
	styles   Styles

	matchFunc func(text string, positions []int) string
}

func New() Model {
	return Model{
		items:    []Item{},
		viewport: viewport.New(80, 10),
		styles:   DefaultStyles(),
	}
}

// SetItems replaces the items and their match offsets. matches may be nil.
func (m Model) SetItems(items []Item, matches [][]int) Model {
	m.items = items
	m.matches = matches
	if m.selected >= len(items) {
		m.selected = max(len(items)-1, 0)
	}
	m.updateViewport()
	return m.ensureVisible()
}

// SetSize resizes the viewport backing the list.
func (m Model) SetSize(width, height int) Model {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
	m.updateViewport()
	return m.ensureVisible()
}

func (m Model) SetStyles(s Styles) Model {
	m.styles = s
	m.updateViewport()
	return m
}

// SetMatchFunc sets how matched runes of a preview are emphasized
func (m Model) SetMatchFunc(fn func(string, []int) string) Model {
	m.matchFunc = fn
	return m
}

// Select moves the cursor to i, clamped to the list.
func (m Model) Select(i int) Model {
	if len(m.items) == 0 {
		m.selected = 0
		return m
	}
	m.selected = min(max(i, 0), len(m.items)-1)
	m.updateViewport()
	return m.ensureVisible()
}

// Selected is the cursor index. It is 0 for an empty list.
func (m Model) Selected() int {
	return m.selected
}

// SelectedItem returns nil for an empty list.
func (m Model) SelectedItem() Item {
	if m.selected >= 0 && m.selected < len(m.items) {
		return m.items[m.selected]
	}
	return nil
}

// Len returns the number of items
func (m Model) Len() int {
	return len(m.items)
}

// Update forwards scrolling messages to the viewport.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	return m.viewport.View()
}

// updateViewport re-renders every row into the viewport.
func (m *Model) updateViewport() {
	if len(m.items) == 0 {
		m.viewport.SetContent(m.styles.Empty.Render("  nothing here yet"))
		return
	}
	var sections []string
	for i := range m.items {
		sections = append(sections, m.renderItem(i))
	}
	m.viewport.SetContent(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

// renderItem draws one row: marker, icon, preview and age.
func (m *Model) renderItem(i int) string {
	if i < 0 || i >= len(m.items) {
		return ""
	}
	item := m.items[i]

	style := m.styles.Item
	marker := "  "
	if i == m.selected {
		style = m.styles.Selected
		marker = m.styles.Marker.Render("> ")
	}
	if m.width > 2 {
		style = style.Width(m.width - 2)
	}

	text := item.PreviewText(max(m.width-24, 16))
	switch {
	case item.Sensitive():
		text = m.styles.Sensitive.Render(text)
	case m.matchFunc != nil && i < len(m.matches) && len(m.matches[i]) > 0:
		text = m.matchFunc(text, m.matches[i])
	}

	var line strings.Builder
	line.WriteString(marker)
	line.WriteString(item.Icon())
	line.WriteString(" ")
	line.WriteString(text)
	line.WriteString(m.styles.Meta.Render("  " + item.Meta()))
	return style.Render(line.String())
}

// ensureVisible keeps the selected item in view
func (m Model) ensureVisible() Model {
	if len(m.items) == 0 {
		return m
	}

		top := 0
	for i := 0; i < m.selected; i++ {
		top += lipgloss.Height(m.renderItem(i))
	}

	bottom := top + lipgloss.Height(m.renderItem(m.selected))
	vTop := m.viewport.YOffset
	vBottom := vTop + m.viewport.Height

	if top < vTop {
		m.viewport.SetYOffset(top)
	} else if bottom > vBottom {
		m.viewport.SetYOffset(bottom - m.viewport.Height)
	}
	return m
}
