package scenes

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rgehrsitz/pengo/internal/compare"
	"github.com/rgehrsitz/pengo/internal/transform"
	"github.com/rgehrsitz/pengo/internal/tui/tuimsg"
	"github.com/rgehrsitz/pengo/internal/tui/tuistyles"
)

// CompareModel picks what-if templates and shows how they compare to the current input
type CompareModel struct {
	templates   []transform.Template
	selected    map[int]bool
	cursorIndex int
	results     *compare.ComparisonSet
	comparing   bool
	width       int
	height      int
}

// NewCompareModel creates a compare scene listing the built-in templates
func NewCompareModel(registry *transform.TemplateRegistry) *CompareModel {
	m := &CompareModel{selected: make(map[int]bool)}
	for _, name := range registry.List() {
		if t, ok := registry.Get(name); ok {
			m.templates = append(m.templates, t)
		}
	}
	return m
}

// SetResults stores comparison results
func (m *CompareModel) SetResults(results *compare.ComparisonSet) {
	m.results = results
	m.comparing = false
}

// SetComparing marks a comparison as running or finished without results
func (m *CompareModel) SetComparing(comparing bool) {
	m.comparing = comparing
}

// SetSize updates the model dimensions
func (m *CompareModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// SelectedTemplates returns the names of the selected templates in list order
func (m *CompareModel) SelectedTemplates() []string {
	var names []string
	for i, t := range m.templates {
		if m.selected[i] {
			names = append(names, t.Name)
		}
	}
	return names
}

// Update handles messages for the compare scene
func (m *CompareModel) Update(msg tea.Msg) (*CompareModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("up", "k"))):
		if m.cursorIndex > 0 {
			m.cursorIndex--
		}
	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("down", "j"))):
		if m.cursorIndex < len(m.templates)-1 {
			m.cursorIndex++
		}
	case key.Matches(keyMsg, key.NewBinding(key.WithKeys(" ", "x"))):
		m.selected[m.cursorIndex] = !m.selected[m.cursorIndex]
	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("a"))):
		for i := range m.templates {
			m.selected[i] = true
		}
	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("backspace", "delete"))):
		m.selected = make(map[int]bool)
		m.results = nil
	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("enter"))):
		names := m.SelectedTemplates()
		if len(names) == 0 || m.comparing {
			return m, nil
		}
		m.comparing = true
		return m, func() tea.Msg { return tuimsg.ComparisonRequestedMsg{Templates: names} }
	}
	return m, nil
}

// View renders the compare scene
func (m *CompareModel) View() string {
	var content strings.Builder
	content.WriteString(tuistyles.TitleStyle.Render("Compare what-if templates"))
	content.WriteString("\n\n")

	for i, t := range m.templates {
		cursor := "  "
		if i == m.cursorIndex {
			cursor = "> "
		}
		check := "[ ]"
		if m.selected[i] {
			check = "[x]"
		}
		style := tuistyles.UnselectedItemStyle
		if i == m.cursorIndex {
			style = tuistyles.SelectedItemStyle
		}
		content.WriteString(style.Render(fmt.Sprintf("%s%s %-26s", cursor, check, t.Name)))
		content.WriteString(tuistyles.SubtitleStyle.Render(t.Description))
		content.WriteString("\n")
	}

	content.WriteString("\n")
	switch {
	case m.comparing:
		content.WriteString(tuistyles.InfoStyle.Render("Comparing..."))
	case m.results != nil:
		content.WriteString(m.renderResults())
	}

	hint := lipgloss.NewStyle().Foreground(tuistyles.ColorInfo).Italic(true)
	content.WriteString("\n")
	content.WriteString(hint.Render("space select • a all • enter compare • backspace clear"))
	return content.String()
}

func (m *CompareModel) renderResults() string {
	base := m.results.BaseResult
	var b strings.Builder

	header := fmt.Sprintf("%-28s %14s %14s %8s", "Scenario", "Pension", "Δ base", "Rate")
	b.WriteString(tuistyles.TableHeaderStyle.Render(header))
	b.WriteString("\n")
	b.WriteString(tuistyles.TableHighlightStyle.Render(fmt.Sprintf("%-28s %14s %14s %7d%%",
		truncate(base.ScenarioName, 28), tuistyles.FormatPLN(base.MonthlyPension), "", base.ReplacementRate)))
	b.WriteString("\n")

	for _, alt := range m.results.AlternativeResults {
		diff := tuistyles.MetricTrendStyle(!alt.PensionDiffFromBase.IsNegative()).
			Render(fmt.Sprintf("%14s", tuistyles.FormatSignedPLN(alt.PensionDiffFromBase)))
		b.WriteString(tuistyles.TableCellStyle.Render(fmt.Sprintf("%-28s %14s ",
			truncate(alt.ScenarioName, 28), tuistyles.FormatPLN(alt.MonthlyPension))))
		b.WriteString(diff)
		b.WriteString(tuistyles.TableCellStyle.Render(fmt.Sprintf(" %7d%%", alt.ReplacementRate)))
		b.WriteString("\n")
	}

	for _, rec := range m.results.Recommendations {
		b.WriteString("\n• " + rec)
	}
	b.WriteString("\n")
	return b.String()
}

func truncate(s string, maxLen int) string {
	if len([]rune(s)) <= maxLen {
		return s
	}
	return string([]rune(s)[:maxLen-1]) + "…"
}
