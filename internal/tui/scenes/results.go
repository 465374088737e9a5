package scenes

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rgehrsitz/pengo/internal/calculation"
	"github.com/rgehrsitz/pengo/internal/domain"
	"github.com/rgehrsitz/pengo/internal/tui/components"
	"github.com/rgehrsitz/pengo/internal/tui/tuistyles"
)

// ResultsModel shows the full report of the current input
type ResultsModel struct {
	report    *domain.ProjectionReport
	showChart bool
	width     int
	height    int
}

// NewResultsModel creates a new results scene model
func NewResultsModel() *ResultsModel {
	return &ResultsModel{showChart: true}
}

// SetReport updates the displayed report
func (m *ResultsModel) SetReport(report *domain.ProjectionReport) {
	m.report = report
}

// SetSize updates the model dimensions
func (m *ResultsModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Update handles messages for the results scene
func (m *ResultsModel) Update(msg tea.Msg) (*ResultsModel, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.String() == "g" {
		m.showChart = !m.showChart
	}
	return m, nil
}

// View renders the results scene
func (m *ResultsModel) View() string {
	if m.report == nil {
		return tuistyles.BorderStyle.Render("No results yet")
	}
	r := m.report

	var content strings.Builder
	content.WriteString(tuistyles.TitleStyle.Render(fmt.Sprintf("Results: retirement in %d at age %d", r.Parameters.YearRetirement, r.RetirementAge)))
	content.WriteString("\n\n")

	cards := []*components.MetricCard{
		components.NewMoneyCard("Account total", r.IndexedTotal),
		components.NewMoneyCard("Monthly pension", r.IndexedMonthly),
		components.NewMoneyCard("Real monthly", r.RealMonthly),
		components.NewMoneyCard("Final salary", r.FinalSalary),
	}
	if r.IncludeSickDays {
		cards = append(cards,
			components.NewMoneyCard("With sick leave", r.SickAdjustedMonthly).
				WithDelta(r.SickAdjustedMonthly.Sub(r.IndexedMonthly)))
	}
	cards = append(cards, components.NewMetricCard("Replacement rate", fmt.Sprintf("%d%%", r.ReplacementRate)))
	if r.Delayed != nil {
		cards = append(cards,
			components.NewMoneyCard(fmt.Sprintf("Retire in %d", r.Delayed.DelayedYear), r.Delayed.MonthlyPension).
				WithDelta(r.Delayed.MonthlyPension.Sub(r.SickAdjustedMonthly)).
				WithDescription(fmt.Sprintf("age %d", r.Delayed.DelayedAge)))
	}
	if r.Target != nil {
		cards = append(cards,
			components.NewMetricCard("Years to target", fmt.Sprintf("%d", r.Target.YearsNeeded)).
				WithDescription(tuistyles.FormatPLN(r.Target.TargetPension)))
	}
	columns := 4
	if m.width > 0 && m.width < 120 {
		columns = 3
	}
	content.WriteString(components.MetricGrid(cards, columns))
	content.WriteString("\n")

	if m.showChart && r.Timeline != nil && len(r.Timeline.Balances) > 0 {
		content.WriteString("\n")
		content.WriteString(m.chart(r.Timeline.Balances).Render())
		content.WriteString("\n")
	}

	if len(r.Notices) > 0 {
		content.WriteString("\n")
		content.WriteString(tuistyles.SubtitleStyle.Render("Notices"))
		for _, n := range r.Notices {
			style := tuistyles.InfoStyle
			if n.Level == domain.NoticeWarning {
				style = tuistyles.ErrorStyle
			}
			content.WriteString("\n  " + style.Render(string(n.Level)) + " " + n.Message)
		}
		content.WriteString("\n")
	}

	content.WriteString("\n")
	content.WriteString(tuistyles.HelpDescStyle.Render("g toggles the balance chart"))
	return content.String()
}

func (m *ResultsModel) chart(balances []domain.YearlyBalance) *components.BalanceChart {
	series := calculation.ChartSeries(balances)
	points := make([]components.BalancePoint, len(series))
	for i, p := range series {
		points[i] = components.BalancePoint{
			Year: p.Year,
			Main: p.Main.InexactFloat64(),
			Sub:  p.Sub.InexactFloat64(),
		}
	}

	width := 80
	if m.width > 20 {
		width = min(m.width-4, 100)
	}
	return components.NewBalanceChart(points).WithSize(width, 12)
}
