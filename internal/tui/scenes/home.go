package scenes

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/rgehrsitz/pengo/internal/domain"
	"github.com/rgehrsitz/pengo/internal/tui/components"
	"github.com/rgehrsitz/pengo/internal/tui/tuistyles"
)

// HomeModel represents the home dashboard scene
type HomeModel struct {
	input    *domain.ProjectionInput
	report   *domain.ProjectionReport
	modified bool
	width    int
	height   int
}

// NewHomeModel creates a new home scene model
func NewHomeModel() *HomeModel {
	return &HomeModel{}
}

// SetInput updates the displayed input; modified marks edits made in the parameters scene
func (m *HomeModel) SetInput(input *domain.ProjectionInput, modified bool) {
	m.input = input
	m.modified = modified
}

// SetReport updates the headline figures
func (m *HomeModel) SetReport(report *domain.ProjectionReport) {
	m.report = report
}

// SetSize updates the model dimensions
func (m *HomeModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Update handles messages for the home scene
func (m *HomeModel) Update(msg tea.Msg) (*HomeModel, tea.Cmd) {
	return m, nil
}

// View renders the home dashboard
func (m *HomeModel) View() string {
	if m.input == nil {
		return tuistyles.BorderStyle.Render("Loading input...")
	}

	var content strings.Builder
	content.WriteString(tuistyles.TitleStyle.Render("Pension projection"))
	if m.modified {
		content.WriteString("  " + tuistyles.InfoStyle.Render("(edited)"))
	}
	content.WriteString("\n\n")
	content.WriteString(m.renderInput())
	content.WriteString("\n\n")

	if m.report == nil {
		content.WriteString(tuistyles.SubtitleStyle.Render("Calculating..."))
		return content.String()
	}

	cards := []*components.MetricCard{
		components.NewMoneyCard("Monthly pension", m.report.SickAdjustedMonthly).
			WithDescription(fmt.Sprintf("at age %d", m.report.RetirementAge)),
		components.NewMoneyCard("In today's money", m.report.RealMonthly),
		components.NewMetricCard("Replacement rate", fmt.Sprintf("%d%%", m.report.ReplacementRate)),
	}
	if m.report.Delayed != nil {
		diff := m.report.Delayed.MonthlyPension.Sub(m.report.SickAdjustedMonthly)
		cards = append(cards, components.NewMoneyCard(
			fmt.Sprintf("Retire at %d", m.report.Delayed.DelayedAge), m.report.Delayed.MonthlyPension).WithDelta(diff))
	}
	columns := 4
	if m.width > 0 && m.width < 120 {
		columns = 2
	}
	content.WriteString(components.MetricGrid(cards, columns))

	if n := len(m.report.Notices); n > 0 {
		content.WriteString("\n")
		content.WriteString(tuistyles.SubtitleStyle.Render(fmt.Sprintf("%d notice(s), see Results", n)))
	}
	return content.String()
}

func (m *HomeModel) renderInput() string {
	p := m.input.Parameters
	name := m.input.Name
	if name == "" {
		name = "Unnamed"
	}
	rows := [][2]string{
		{"Name", name},
		{"Gender", string(p.Gender)},
		{"Monthly income", tuistyles.FormatPLN(p.MonthlyIncome)},
		{"Working years", fmt.Sprintf("%d-%d (%d years)", p.YearWorkStart, p.YearRetirement, p.WorkYears())},
		{"Sick leave", sickLeaveLabel(m.input.Options)},
		{"Events", fmt.Sprintf("%d", len(m.input.Events))},
	}

	var lines []string
	for _, r := range rows {
		lines = append(lines, tuistyles.MetricLabelStyle.Width(16).Render(r[0])+tuistyles.MetricValueStyle.Render(r[1]))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func sickLeaveLabel(opts domain.ProjectionOptions) string {
	if !opts.IncludeSickDays {
		return "not included"
	}
	if opts.SickDaysPerYear != nil {
		return fmt.Sprintf("%s days/year", opts.SickDaysPerYear.String())
	}
	return "statutory average"
}
