package scenes

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/pengo/internal/breakeven"
	"github.com/rgehrsitz/pengo/internal/domain"
	"github.com/rgehrsitz/pengo/internal/tui/components"
	"github.com/rgehrsitz/pengo/internal/tui/tuimsg"
	"github.com/rgehrsitz/pengo/internal/tui/tuistyles"
)

// OptimizeModel asks what it takes to reach a target monthly pension
type OptimizeModel struct {
	target  *components.ParameterSlider
	current decimal.Decimal
	running bool
	result  *tuimsg.OptimizationCompleteMsg
	spinner *components.Spinner
	width   int
	height  int
}

// NewOptimizeModel creates a new optimize scene model
func NewOptimizeModel() *OptimizeModel {
	return &OptimizeModel{
		target: components.NewParameterSlider("target", "Target monthly pension", 4000, 500, 30000, 100).
			WithUnit(" zł").
			WithFormat("%.0f").
			WithWidth(40).
			SetFocused(true),
		spinner: components.NewSpinner().WithMessage("Solving..."),
	}
}

// SetReport seeds the target from the input's own target or just above the
// projected pension, and keeps the projected pension for the progress bar.
func (m *OptimizeModel) SetReport(input *domain.ProjectionInput, report *domain.ProjectionReport) {
	if report == nil {
		return
	}
	m.current = report.SickAdjustedMonthly
	if m.result != nil {
		return
	}
	if input != nil && input.Options.TargetPension != nil {
		m.target.SetValue(input.Options.TargetPension.InexactFloat64())
		return
	}
	suggested := m.current.Div(decimal.NewFromInt(100)).Ceil().Mul(decimal.NewFromInt(100)).Add(decimal.NewFromInt(500))
	m.target.SetValue(suggested.InexactFloat64())
}

// SetResult stores the solver outcome
func (m *OptimizeModel) SetResult(msg tuimsg.OptimizationCompleteMsg) {
	m.running = false
	m.result = &msg
}

// Target returns the selected target pension
func (m *OptimizeModel) Target() decimal.Decimal {
	return m.target.Decimal()
}

// SetSize updates the model dimensions
func (m *OptimizeModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Update handles messages for the optimize scene
func (m *OptimizeModel) Update(msg tea.Msg) (*OptimizeModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("left"))):
		m.target.Decrement()
	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("right"))):
		m.target.Increment()
	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("enter"))):
		if m.running {
			return m, nil
		}
		m.running = true
		target := m.Target()
		return m, func() tea.Msg { return tuimsg.OptimizationRequestedMsg{Target: target} }
	}
	return m, nil
}

// Running reports whether a solve is in flight
func (m *OptimizeModel) Running() bool {
	return m.running
}

// Tick advances the spinner while the solver runs
func (m *OptimizeModel) Tick() {
	if m.running {
		m.spinner.Next()
	}
}

// View renders the optimize scene
func (m *OptimizeModel) View() string {
	var content strings.Builder
	content.WriteString(tuistyles.TitleStyle.Render("Reach a target pension"))
	content.WriteString("\n\n")
	content.WriteString(m.target.Render())
	content.WriteString("\n\n")

	if !m.current.IsZero() {
		content.WriteString(components.NewTargetBar(m.current, m.Target()).
			WithLabel("Projected pension").
			Render())
		content.WriteString("\n\n")
	}

	switch {
	case m.running:
		content.WriteString(m.spinner.Render())
	case m.result != nil:
		content.WriteString(m.renderResult())
	}

	hint := lipgloss.NewStyle().Foreground(tuistyles.ColorInfo).Italic(true)
	content.WriteString("\n\n")
	content.WriteString(hint.Render("← → adjust target • enter solve"))
	return content.String()
}

func (m *OptimizeModel) renderResult() string {
	r := m.result
	if r.Err != nil && r.Gap == nil && r.Income == nil {
		return tuistyles.ErrorStyle.Render(r.Err.Error())
	}

	var b strings.Builder
	b.WriteString(tuistyles.SubtitleStyle.Render(fmt.Sprintf("Target %s", tuistyles.FormatPLN(r.Target))))
	b.WriteString("\n")

	if r.Gap != nil {
		if r.Gap.YearsNeeded == 0 {
			b.WriteString(tuistyles.MetricPositiveStyle.Render("Already reached at the base retirement age"))
		} else {
			b.WriteString(fmt.Sprintf("Work %d more year(s), retiring at %d: %s",
				r.Gap.YearsNeeded, r.Gap.FinalAge, tuistyles.FormatPLN(r.Gap.ProjectedPension)))
		}
	} else {
		b.WriteString(tuistyles.ErrorStyle.Render("Not reachable by working longer"))
	}
	b.WriteString("\n")

	if r.Income != nil {
		b.WriteString(incomeLine(r.Income))
		b.WriteString("\n")
	}
	return b.String()
}

func incomeLine(res *breakeven.OptimizationResult) string {
	if !res.Success || res.OptimalIncome == nil {
		return tuistyles.ErrorStyle.Render("No starting income within the search range reaches it")
	}
	return fmt.Sprintf("Or start on %s per month: %s",
		tuistyles.FormatPLN(*res.OptimalIncome), tuistyles.FormatPLN(res.MonthlyPension))
}
