// Package popup provides a reusable modal confirmation popup.
package popup

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ConfirmedMsg is sent when the user accepts the popup identified by ID.
type ConfirmedMsg struct {
	ID string
}

// Styles controls how the confirmation box is drawn.
type Styles struct {
	Box    lipgloss.Style
	Header lipgloss.Style
	Body   lipgloss.Style
	Footer lipgloss.Style
}

// DefaultStyles uses a red border to flag the destructive action.
func DefaultStyles() Styles {
	return Styles{
		Box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#BF616A")).
			Padding(1, 2),
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#D8DEE9")),
		Body: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#D8DEE9")),
		Footer: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4C566A")).
			Italic(true),
	}
}

// Model is a single pending confirmation.
type Model struct {
	visible  bool
	id       string
	title    string
	content  string
	maxWidth int
	screenW  int
	screenH  int
	styles   Styles
}

func New() Model {
	return Model{
		maxWidth: 60,
		styles:   DefaultStyles(),
	}
}

func (m Model) SetStyles(s Styles) Model {
	m.styles = s
	return m
}

// SetScreenSize records the terminal size; the box is centered in it.
func (m Model) SetScreenSize(w, h int) Model {
	m.screenW = w
	m.screenH = h
	m.maxWidth = max(min(60, w-4), 20)
	return m
}

// Confirm shows a yes/no question. Accepting it emits ConfirmedMsg{ID: id}.
func (m Model) Confirm(id, title, content string) Model {
	m.visible = true
	m.id = id
	m.title = title
	m.content = content
	return m
}

// Hide drops the pending question without emitting anything.
func (m Model) Hide() Model {
	m.visible = false
	return m
}

func (m Model) Visible() bool {
	return m.visible
}

// Update handles messages. Only y and enter confirm; any other key
// dismisses.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if !m.visible {
		return m, nil
	}
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	m.visible = false
	switch keyMsg.String() {
	case "y", "Y", "enter":
		id := m.id
		return m, func() tea.Msg { return ConfirmedMsg{ID: id} }
	}
	return m, nil
}

func (m Model) View() string {
	if !m.visible {
		return ""
	}

	var b strings.Builder
	if m.title != "" {
		b.WriteString(m.styles.Header.Render(m.title))
		b.WriteString("\n\n")
	}
	b.WriteString(m.styles.Body.Render(m.content))
	b.WriteString("\n\n")
	b.WriteString(m.styles.Footer.Render("y/enter to confirm, any other key to cancel"))

	box := m.styles.Box.Width(m.maxWidth).Render(b.String())
	if m.screenW == 0 || m.screenH == 0 {
		return box
	}
	return lipgloss.Place(m.screenW, m.screenH, lipgloss.Center, lipgloss.Center, box)
}

// RenderOverlay replaces main with the box while a question is pending.
func (m Model) RenderOverlay(main string) string {
	if !m.visible {
		return main
	}
	return m.View()
}
