package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nhath/clipkeep/internal/picker"
)

func (m Model) View() string {
	if m.ctrl.State() == picker.Visible {
		return m.visibleView()
	}
	return m.hiddenView()
}

func (m Model) visibleView() string {
	var b strings.Builder
	b.WriteString(m.statusBar(ModeStyle.Render("PICK")))
	b.WriteString("\n")
	b.WriteString(InputStyle.Width(max(m.width, 20)).Render(PromptStyle.Render(">") + m.input.View()))
	b.WriteString("\n")
	b.WriteString(m.list.View())
	if m.showDetail && m.detail != "" {
		b.WriteString("\n")
		b.WriteString(DetailStyle.Width(max(m.width-2, 20)).Render(m.detail))
	}
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m Model) hiddenView() string {
	hint := MetaStyle.Render("enter or " + m.keys.Toggle.Help().Key + " to open, " +
		m.keys.Clear.Help().Key + " to clear history, q to quit")
	body := lipgloss.JoinVertical(lipgloss.Left,
		TitleStyle.Render("clipboard history"),
		m.table.View(),
		hint,
	)
	return m.confirm.RenderOverlay(m.statusBar(HiddenModeStyle.Render("HIDDEN")) + "\n" + body)
}

func (m Model) statusBar(mode string) string {
	msg := m.summary
	style := SystemMessageStyle
	if m.status != "" {
		msg = m.status
		style = SuccessStyle
		if m.statusErr {
			style = ErrorStyle
		}
	}
	bar := mode + " " + style.Render(msg)
	if m.width > 0 {
		return StatusBarStyle.Width(m.width).Render(bar)
	}
	return bar
}
