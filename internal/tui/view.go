package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// View renders the current state of the application
func (m Model) View() string {
	if m.err != nil {
		return m.renderApp(m.renderError())
	}
	if m.loading {
		return m.renderApp(m.renderLoading())
	}

	var content string
	switch m.currentScene {
	case SceneHome:
		content = m.homeModel.View()
	case SceneParameters:
		content = m.parametersModel.View()
	case SceneResults:
		content = m.resultsModel.View()
	case SceneCompare:
		content = m.compareModel.View()
	case SceneOptimize:
		content = m.optimizeModel.View()
	case SceneHelp:
		content = m.renderHelp()
	default:
		content = "Unknown scene"
	}

	return m.renderApp(content)
}

// renderApp wraps content with title bar and status bar
func (m Model) renderApp(content string) string {
	contentHeight := m.height - 4 // title (2) + status (1) + padding (1)
	if contentHeight < 1 {
		contentHeight = 1
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderTitleBar(),
		lipgloss.NewStyle().Height(contentHeight).Render(content),
		m.renderStatusBar(),
	)
}

// renderTitleBar renders the application title and breadcrumb
func (m Model) renderTitleBar() string {
	breadcrumb := m.currentScene.String()
	if m.current != nil && m.current.Name != "" {
		breadcrumb = fmt.Sprintf("%s / %s", breadcrumb, m.current.Name)
	}
	return lipgloss.JoinVertical(
		lipgloss.Left,
		TitleStyle.Render("pengo - pension projection"),
		SubtitleStyle.Render(breadcrumb),
	)
}

// renderStatusBar renders the bottom status bar with keyboard shortcuts
func (m Model) renderStatusBar() string {
	shortcuts := []string{
		formatShortcut("h", "home"),
		formatShortcut("p", "parameters"),
		formatShortcut("r", "results"),
		formatShortcut("c", "compare"),
		formatShortcut("o", "target"),
		formatShortcut("?", "help"),
		formatShortcut("q", "quit"),
	}
	statusText := strings.Join(shortcuts, " • ")

	if source := m.reference.Source(); source != "" {
		right := SubtitleStyle.Render("tables: " + source)
		gap := m.width - lipgloss.Width(statusText) - lipgloss.Width(right) - 2
		statusText += strings.Repeat(" ", max(gap, 1)) + right
	}

	return StatusBarStyle.Width(m.width).Render(statusText)
}

func formatShortcut(key, desc string) string {
	return StatusKeyStyle.Render(key) + " " + desc
}

func (m Model) renderLoading() string {
	message := m.loadingMessage
	if message == "" {
		message = "Loading..."
	}
	return BorderStyle.Render(m.spinner.WithMessage(message).Render())
}

func (m Model) renderError() string {
	return ErrorStyle.Render(fmt.Sprintf("Error: %v", m.err)) +
		"\n\n" + SubtitleStyle.Render("Press any key to continue...")
}

func (m Model) renderHelp() string {
	rows := [][2]string{
		{"h", "Home: input summary and headline figures"},
		{"p", "Parameters: edit income, retirement year, sick leave, inflation"},
		{"r", "Results: full report, balance chart, notices"},
		{"c", "Compare: run what-if templates against the current input"},
		{"o", "Target: years or starting income needed for a pension"},
		{"esc", "Go back"},
		{"q", "Quit"},
	}

	var b strings.Builder
	b.WriteString(TitleStyle.Render("Keyboard shortcuts"))
	b.WriteString("\n\n")
	for _, r := range rows {
		b.WriteString(HelpKeyStyle.Width(6).Render(r[0]))
		b.WriteString(HelpDescStyle.Render(r[1]))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(HelpDescStyle.Render("Arrow keys move and adjust; enter applies; space toggles."))
	return BorderStyle.Render(b.String())
}
