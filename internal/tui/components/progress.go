package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rgehrsitz/pengo/internal/tui/tuistyles"
	"github.com/shopspring/decimal"
)

// TargetBar shows how far a projected pension gets toward a target amount
type TargetBar struct {
	Current decimal.Decimal
	Target  decimal.Decimal
	Width   int
	Label   string
}

// NewTargetBar creates a target bar
func NewTargetBar(current, target decimal.Decimal) *TargetBar {
	return &TargetBar{
		Current: current,
		Target:  target,
		Width:   40,
	}
}

// WithLabel sets the bar label
func (p *TargetBar) WithLabel(label string) *TargetBar {
	p.Label = label
	return p
}

// WithWidth sets the bar width
func (p *TargetBar) WithWidth(width int) *TargetBar {
	p.Width = width
	return p
}

// Percentage returns Current as a percentage of Target, capped at 100
func (p *TargetBar) Percentage() float64 {
	if !p.Target.IsPositive() {
		return 0
	}
	pct := p.Current.Div(p.Target).Mul(decimal.NewFromInt(100)).InexactFloat64()
	if pct > 100 {
		return 100
	}
	if pct < 0 {
		return 0
	}
	return pct
}

// IsReached reports whether the current pension meets the target
func (p *TargetBar) IsReached() bool {
	return p.Current.GreaterThanOrEqual(p.Target)
}

// Render returns the styled bar
func (p *TargetBar) Render() string {
	var content strings.Builder

	if p.Label != "" {
		labelStyle := lipgloss.NewStyle().
			Foreground(tuistyles.ColorForeground).
			Bold(true)
		content.WriteString(labelStyle.Render(p.Label))
		content.WriteString("\n")
	}

	percentage := p.Percentage()
	filled := int(float64(p.Width) * percentage / 100)
	if filled > p.Width {
		filled = p.Width
	}
	empty := p.Width - filled

	barColor := tuistyles.ColorAccent
	if p.IsReached() {
		barColor = tuistyles.ColorSuccess
	}
	barStyle := lipgloss.NewStyle().Foreground(barColor)
	emptyStyle := lipgloss.NewStyle().Foreground(tuistyles.ColorBorder)

	content.WriteString("[")
	if filled > 0 {
		content.WriteString(barStyle.Render(strings.Repeat("█", filled)))
	}
	if empty > 0 {
		content.WriteString(emptyStyle.Render(strings.Repeat("░", empty)))
	}
	content.WriteString("] ")

	percentStyle := lipgloss.NewStyle().
		Foreground(tuistyles.ColorPrimary).
		Bold(true)
	content.WriteString(percentStyle.Render(fmt.Sprintf("%.1f%%", percentage)))
	content.WriteString(lipgloss.NewStyle().Foreground(tuistyles.ColorMuted).Render(
		fmt.Sprintf(" %s / %s", tuistyles.FormatPLN(p.Current), tuistyles.FormatPLN(p.Target))))

	return content.String()
}

// Spinner represents an animated spinner for loading states
type Spinner struct {
	Frame   int
	Message string
}

// NewSpinner creates a new spinner
func NewSpinner() *Spinner {
	return &Spinner{}
}

// WithMessage sets the spinner message
func (s *Spinner) WithMessage(message string) *Spinner {
	s.Message = message
	return s
}

// Next advances the spinner to the next frame
func (s *Spinner) Next() {
	s.Frame++
}

// Render returns the current spinner frame
func (s *Spinner) Render() string {
	frames := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	frame := frames[s.Frame%len(frames)]

	rendered := lipgloss.NewStyle().
		Foreground(tuistyles.ColorPrimary).
		Bold(true).
		Render(frame)

	if s.Message != "" {
		rendered += " " + lipgloss.NewStyle().Foreground(tuistyles.ColorForeground).Render(s.Message)
	}
	return rendered
}
