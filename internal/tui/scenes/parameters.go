package scenes

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/pengo/internal/domain"
	"github.com/rgehrsitz/pengo/internal/transform"
	"github.com/rgehrsitz/pengo/internal/tui/components"
	"github.com/rgehrsitz/pengo/internal/tui/tuimsg"
	"github.com/rgehrsitz/pengo/internal/tui/tuistyles"
)

// Slider keys
const (
	ParamIncome         = "income"
	ParamRetirementYear = "retirement_year"
	ParamSickDays       = "sick_days"
	ParamInflation      = "inflation"
)

var hundred = decimal.NewFromInt(100)

// ParametersModel edits the what-if parameters of the loaded input
type ParametersModel struct {
	base          *domain.ProjectionInput
	sliders       []*components.ParameterSlider
	initial       map[string]float64
	includeSick   bool
	focusedSlider int
	width         int
	height        int
	modified      bool
}

// NewParametersModel creates a new parameters scene model
func NewParametersModel() *ParametersModel {
	return &ParametersModel{}
}

// SetInput rebuilds the sliders from the input the edits start from
func (m *ParametersModel) SetInput(input *domain.ProjectionInput) {
	if input == nil {
		return
	}
	m.base = input
	m.includeSick = input.Options.IncludeSickDays
	m.modified = false
	m.buildSliders()
}

func (m *ParametersModel) buildSliders() {
	p := m.base.Parameters
	assumptions := domain.DefaultAssumptions()
	if m.base.Assumptions != nil {
		assumptions = m.base.Assumptions.WithDefaults()
	}

	sickDays := assumptions.DefaultSickDaysPerYear
	if m.base.Options.SickDaysPerYear != nil {
		sickDays = *m.base.Options.SickDaysPerYear
	}

	minYear := p.YearWorkStart + 1
	maxYear := p.YearRetirement + 10

	m.sliders = []*components.ParameterSlider{
		components.NewParameterSlider(ParamIncome, "Monthly income", p.MonthlyIncome.InexactFloat64(), 1000, 50000, 100).
			WithUnit(" zł").
			WithFormat("%.0f").
			WithDescription("Gross monthly salary in the first working year"),
		components.NewParameterSlider(ParamRetirementYear, "Retirement year", float64(p.YearRetirement), float64(minYear), float64(maxYear), 1).
			WithFormat("%.0f").
			WithDescription("Moving the year shifts the retirement age by the same amount"),
		components.NewParameterSlider(ParamSickDays, "Sick days per year", sickDays.InexactFloat64(), 0, 60, 1).
			WithUnit(" days").
			WithFormat("%.0f").
			WithDescription("space toggles sick-leave accounting"),
		components.NewParameterSlider(ParamInflation, "Inflation", assumptions.InflationRate.Mul(hundred).InexactFloat64(), 0, 10, 0.5).
			WithUnit("%").
			WithFormat("%.1f").
			WithDescription("Yearly inflation used for the real-value figures"),
	}
	m.initial = make(map[string]float64, len(m.sliders))
	for _, s := range m.sliders {
		s.WithWidth(36)
		m.initial[s.Key] = s.Value
	}
	m.focusedSlider = 0
	m.sliders[0].SetFocused(true)
}

// SetSize updates the scene dimensions
func (m *ParametersModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Modified reports whether any slider moved since SetInput
func (m *ParametersModel) Modified() bool {
	return m.modified
}

// Slider returns the slider for a parameter key
func (m *ParametersModel) Slider(key string) *components.ParameterSlider {
	for _, s := range m.sliders {
		if s.Key == key {
			return s
		}
	}
	return nil
}

// Update handles messages for the parameters scene
func (m *ParametersModel) Update(msg tea.Msg) (*ParametersModel, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok || len(m.sliders) == 0 {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("up", "k"))):
		m.moveFocus(-1)
	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("down", "j", "tab"))):
		m.moveFocus(1)
	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("left"))):
		m.sliders[m.focusedSlider].Decrement()
		m.modified = true
	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("right"))):
		m.sliders[m.focusedSlider].Increment()
		m.modified = true
	case key.Matches(keyMsg, key.NewBinding(key.WithKeys(" "))):
		m.includeSick = !m.includeSick
		m.modified = true
	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("enter"))):
		input, err := m.BuildInput()
		if err != nil {
			return m, func() tea.Msg { return tuimsg.ErrorMsg{Err: err} }
		}
		return m, func() tea.Msg { return tuimsg.ParametersAppliedMsg{Input: input} }
	case key.Matches(keyMsg, key.NewBinding(key.WithKeys("u"))):
		return m, func() tea.Msg { return tuimsg.ParametersResetMsg{} }
	}
	return m, nil
}

func (m *ParametersModel) moveFocus(delta int) {
	m.sliders[m.focusedSlider].SetFocused(false)
	m.focusedSlider = (m.focusedSlider + delta + len(m.sliders)) % len(m.sliders)
	m.sliders[m.focusedSlider].SetFocused(true)
}

func (m *ParametersModel) moved(key string) bool {
	return m.Slider(key).Value != m.initial[key]
}

// Transforms returns the what-if transforms that turn the base input into
// the edited one. Sliders left where they started produce no transform.
func (m *ParametersModel) Transforms() []transform.ProjectionTransform {
	if m.base == nil {
		return nil
	}
	var transforms []transform.ProjectionTransform

	if m.moved(ParamIncome) {
		transforms = append(transforms, &transform.SetIncome{Amount: m.Slider(ParamIncome).Decimal()})
	}
	if m.moved(ParamRetirementYear) {
		year := int(m.Slider(ParamRetirementYear).Decimal().IntPart())
		transforms = append(transforms, &transform.SetRetirementYear{Year: year})
	}
	if m.moved(ParamSickDays) {
		days := m.Slider(ParamSickDays).Decimal()
		transforms = append(transforms, &transform.SetSickDays{Include: m.includeSick, DaysPerYear: &days})
	} else if m.includeSick != m.base.Options.IncludeSickDays {
		transforms = append(transforms, &transform.SetSickDays{Include: m.includeSick})
	}
	if m.moved(ParamInflation) {
		rate := m.Slider(ParamInflation).Decimal().Div(hundred)
		transforms = append(transforms, &transform.ModifyInflation{NewRate: rate})
	}
	return transforms
}

// BuildInput applies the edits to a copy of the base input
func (m *ParametersModel) BuildInput() (*domain.ProjectionInput, error) {
	if m.base == nil {
		return nil, fmt.Errorf("no input loaded")
	}
	return transform.ApplyTransforms(m.base, m.Transforms())
}

// View renders the parameters scene
func (m *ParametersModel) View() string {
	if m.base == nil {
		return tuistyles.BorderStyle.Render("No input loaded")
	}

	var content strings.Builder
	content.WriteString(tuistyles.TitleStyle.Render("What-if parameters"))
	content.WriteString("\n\n")

	for _, s := range m.sliders {
		content.WriteString(s.Render())
		content.WriteString("\n\n")
	}

	sick := "off"
	if m.includeSick {
		sick = "on"
	}
	content.WriteString(tuistyles.ParameterLabelStyle.Render("Sick-leave accounting: "))
	content.WriteString(tuistyles.ParameterValueStyle.Render(sick))
	content.WriteString("\n\n")

	if transforms := m.Transforms(); len(transforms) > 0 {
		content.WriteString(tuistyles.SubtitleStyle.Render("Pending changes:"))
		for _, t := range transforms {
			content.WriteString("\n  • " + t.Description())
		}
		content.WriteString("\n\n")
	}

	hint := lipgloss.NewStyle().Foreground(tuistyles.ColorInfo).Italic(true)
	content.WriteString(hint.Render("↑↓ select • ← → adjust • space sick leave • enter recalculate • u undo all"))
	return content.String()
}
