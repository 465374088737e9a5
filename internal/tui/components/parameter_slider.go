package components

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rgehrsitz/pengo/internal/tui/tuistyles"
	"github.com/shopspring/decimal"
)

// ParameterSlider displays an adjustable parameter with visual slider
type ParameterSlider struct {
	Key         string // identifies the parameter the slider edits
	Label       string
	Value       float64
	Min         float64
	Max         float64
	Step        float64
	Unit        string // e.g. " zł", "%", " days"
	Format      string // e.g. "%.2f", "%.0f"
	Width       int
	IsFocused   bool
	Description string
}

// NewParameterSlider creates a new parameter slider
func NewParameterSlider(key, label string, value, min, max, step float64) *ParameterSlider {
	p := &ParameterSlider{
		Key:    key,
		Label:  label,
		Min:    min,
		Max:    max,
		Step:   step,
		Format: "%.2f",
		Width:  30,
	}
	p.SetValue(value)
	return p
}

// WithUnit sets the unit suffix
func (p *ParameterSlider) WithUnit(unit string) *ParameterSlider {
	p.Unit = unit
	return p
}

// WithFormat sets the value format string
func (p *ParameterSlider) WithFormat(format string) *ParameterSlider {
	p.Format = format
	return p
}

// WithWidth sets the slider width
func (p *ParameterSlider) WithWidth(width int) *ParameterSlider {
	p.Width = width
	return p
}

// SetFocused sets the focus state
func (p *ParameterSlider) SetFocused(focused bool) *ParameterSlider {
	p.IsFocused = focused
	return p
}

// WithDescription adds a description/help text
func (p *ParameterSlider) WithDescription(desc string) *ParameterSlider {
	p.Description = desc
	return p
}

// Increment increases the value by step, stopping at Max
func (p *ParameterSlider) Increment() {
	p.SetValue(p.Value + p.Step)
}

// Decrement decreases the value by step, stopping at Min
func (p *ParameterSlider) Decrement() {
	p.SetValue(p.Value - p.Step)
}

// SetValue sets the value directly, clamping to min/max
func (p *ParameterSlider) SetValue(value float64) {
	p.Value = math.Max(p.Min, math.Min(p.Max, value))
}

// Decimal returns the value rounded to the display precision of the step
func (p *ParameterSlider) Decimal() decimal.Decimal {
	places := int32(0)
	for step := p.Step; step > 0 && step < 1 && places < 6; step *= 10 {
		places++
	}
	return decimal.NewFromFloat(p.Value).Round(places)
}

// Percentage returns the value as a fraction of the range
func (p *ParameterSlider) Percentage() float64 {
	if p.Max == p.Min {
		return 0
	}
	return (p.Value - p.Min) / (p.Max - p.Min)
}

func (p *ParameterSlider) formatValue(v float64) string {
	return fmt.Sprintf(p.Format, v) + p.Unit
}

// Render returns the styled parameter slider
func (p *ParameterSlider) Render() string {
	var content strings.Builder

	labelStyle := tuistyles.ParameterLabelStyle
	valueStyle := tuistyles.ParameterValueStyle
	if p.IsFocused {
		labelStyle = labelStyle.Foreground(tuistyles.ColorPrimary)
		valueStyle = valueStyle.Foreground(tuistyles.ColorAccent)
	}
	content.WriteString(labelStyle.Render(p.Label))
	content.WriteString("  ")
	content.WriteString(valueStyle.Render(p.formatValue(p.Value)))
	content.WriteString("\n")

	content.WriteString(p.renderSliderBar())

	rangeStyle := lipgloss.NewStyle().Foreground(tuistyles.ColorMuted)
	content.WriteString(" ")
	content.WriteString(rangeStyle.Render(fmt.Sprintf("%s ─ %s", p.formatValue(p.Min), p.formatValue(p.Max))))

	if p.Description != "" && p.IsFocused {
		content.WriteString("\n")
		descStyle := lipgloss.NewStyle().
			Foreground(tuistyles.ColorMuted).
			Italic(true)
		content.WriteString(descStyle.Render(p.Description))
	}

	return content.String()
}

// renderSliderBar creates the visual slider bar
func (p *ParameterSlider) renderSliderBar() string {
	filled := int(math.Round(float64(p.Width) * p.Percentage()))
	if filled < 0 {
		filled = 0
	}
	if filled > p.Width {
		filled = p.Width
	}
	empty := p.Width - filled

	trackStyle := tuistyles.SliderTrackStyle
	thumbStyle := tuistyles.SliderThumbStyle
	if p.IsFocused {
		thumbStyle = thumbStyle.Foreground(tuistyles.ColorAccent)
	}

	var bar strings.Builder
	bar.WriteString("[")
	if filled > 1 {
		bar.WriteString(thumbStyle.Render(strings.Repeat("━", filled-1)))
	}
	bar.WriteString(thumbStyle.Render("●"))
	if empty > 1 {
		bar.WriteString(trackStyle.Render(strings.Repeat("─", empty-1)))
	}
	bar.WriteString("]")

	return bar.String()
}
