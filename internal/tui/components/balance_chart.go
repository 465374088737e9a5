package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rgehrsitz/pengo/internal/tui/tuistyles"
)

const (
	mainBlock = '█'
	subBlock  = '▓'
	axisWidth = 12
)

// BalancePoint is one year of the balance chart
type BalancePoint struct {
	Year int
	Main float64
	Sub  float64
}

func (p BalancePoint) total() float64 { return p.Main + p.Sub }

// BalanceChart draws yearly balances as stacked columns, the sub-account at
// the bottom of each column and the main account above it.
type BalanceChart struct {
	Title  string
	Points []BalancePoint
	Width  int
	Height int
}

// NewBalanceChart creates a chart over the given years
func NewBalanceChart(points []BalancePoint) *BalanceChart {
	return &BalanceChart{
		Title:  "Account balances",
		Points: points,
		Width:  60,
		Height: 12,
	}
}

// WithSize sets the chart dimensions including the axis
func (c *BalanceChart) WithSize(width, height int) *BalanceChart {
	c.Width = width
	c.Height = max(height, 2)
	return c
}

// Render returns the styled chart
func (c *BalanceChart) Render() string {
	if len(c.Points) == 0 {
		return tuistyles.InfoStyle.Render("No balances to chart")
	}

	columns := c.sample(max(c.Width-axisWidth-3, 10))
	top := 0.0
	for _, p := range columns {
		top = math.Max(top, p.total())
	}
	if top <= 0 {
		top = 1
	}

	var b strings.Builder
	if c.Title != "" {
		b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(tuistyles.ColorPrimary).Render(c.Title))
		b.WriteString("\n\n")
	}

	mainStyle := lipgloss.NewStyle().Foreground(tuistyles.ColorChartLine1)
	subStyle := lipgloss.NewStyle().Foreground(tuistyles.ColorChartLine2)
	axisStyle := lipgloss.NewStyle().Foreground(tuistyles.ColorMuted).Width(axisWidth).Align(lipgloss.Right)

	for row := 0; row < c.Height; row++ {
		level := c.Height - row
		label := ""
		switch row {
		case 0:
			label = formatChartValue(top)
		case c.Height / 2:
			label = formatChartValue(top * float64(level) / float64(c.Height))
		}
		b.WriteString(axisStyle.Render(label))
		b.WriteString(" │")

		for _, p := range columns {
			totalRows := c.scale(p.total(), top)
			subRows := c.scale(p.Sub, top)
			switch {
			case level <= subRows:
				b.WriteString(subStyle.Render(string(subBlock)))
			case level <= totalRows:
				b.WriteString(mainStyle.Render(string(mainBlock)))
			default:
				b.WriteByte(' ')
			}
		}
		b.WriteString("\n")
	}

	b.WriteString(axisStyle.Render(formatChartValue(0)))
	b.WriteString(" └")
	b.WriteString(strings.Repeat("─", len(columns)))
	b.WriteString("\n")
	b.WriteString(c.yearAxis(columns))
	b.WriteString("\n\n")
	b.WriteString(mainStyle.Render(string(mainBlock)) + " Main account   " + subStyle.Render(string(subBlock)) + " Sub-account")
	return b.String()
}

// sample picks at most width points, always keeping the first and last year
func (c *BalanceChart) sample(width int) []BalancePoint {
	n := len(c.Points)
	if n <= width {
		return c.Points
	}
	out := make([]BalancePoint, width)
	for i := range out {
		out[i] = c.Points[i*(n-1)/(width-1)]
	}
	return out
}

// scale converts an amount into a number of filled rows
func (c *BalanceChart) scale(amount, top float64) int {
	if amount <= 0 {
		return 0
	}
	return int(math.Round(amount / top * float64(c.Height)))
}

func (c *BalanceChart) yearAxis(columns []BalancePoint) string {
	style := lipgloss.NewStyle().Foreground(tuistyles.ColorMuted)
	pad := strings.Repeat(" ", axisWidth+2)
	first := fmt.Sprintf("%d", columns[0].Year)
	if len(columns) == 1 {
		return pad + style.Render(first)
	}
	last := fmt.Sprintf("%d", columns[len(columns)-1].Year)
	gap := max(len(columns)-len(first)-len(last), 1)
	return pad + style.Render(first+strings.Repeat(" ", gap)+last)
}

// formatChartValue formats a balance for the axis in thousands or millions of zloty
func formatChartValue(value float64) string {
	switch {
	case math.Abs(value) >= 1000000:
		return fmt.Sprintf("%.1fM zł", value/1000000)
	case math.Abs(value) >= 1000:
		return fmt.Sprintf("%.0fk zł", value/1000)
	}
	return fmt.Sprintf("%.0f zł", value)
}
