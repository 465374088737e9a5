package tui

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/pengo/internal/breakeven"
	"github.com/rgehrsitz/pengo/internal/calculation"
	"github.com/rgehrsitz/pengo/internal/compare"
	"github.com/rgehrsitz/pengo/internal/config"
	"github.com/rgehrsitz/pengo/internal/domain"
	"github.com/rgehrsitz/pengo/internal/refdata"
	"github.com/rgehrsitz/pengo/internal/transform"
	"github.com/rgehrsitz/pengo/internal/tui/components"
	"github.com/rgehrsitz/pengo/internal/tui/scenes"
	"github.com/rgehrsitz/pengo/internal/tui/tuimsg"
)

// Model represents the entire application state
type Model struct {
	// Navigation
	currentScene  Scene
	previousScene Scene

	// Terminal dimensions
	width  int
	height int

	inputPath string
	reference *refdata.Provider
	engine    *calculation.Engine

	// loaded is the input as read from disk; current carries the applied edits
	loaded  *domain.ProjectionInput
	current *domain.ProjectionInput
	report  *domain.ProjectionReport

	homeModel       *scenes.HomeModel
	parametersModel *scenes.ParametersModel
	resultsModel    *scenes.ResultsModel
	compareModel    *scenes.CompareModel
	optimizeModel   *scenes.OptimizeModel

	err error

	loading        bool
	loadingMessage string
	spinner        *components.Spinner
}

// NewModel creates the application model for an input file
func NewModel(inputPath string, engine *calculation.Engine, ref *refdata.Provider) Model {
	return Model{
		currentScene:    SceneHome,
		inputPath:       inputPath,
		reference:       ref,
		engine:          engine,
		homeModel:       scenes.NewHomeModel(),
		parametersModel: scenes.NewParametersModel(),
		resultsModel:    scenes.NewResultsModel(),
		compareModel:    scenes.NewCompareModel(transform.CreateBuiltInTemplates()),
		optimizeModel:   scenes.NewOptimizeModel(),
		loading:         true,
		loadingMessage:  "Loading input...",
		spinner:         components.NewSpinner(),
		width:           100,
		height:          30,
	}
}

// Init initializes the model (required by tea.Model interface)
func (m Model) Init() tea.Cmd {
	return tea.Batch(loadInputCmd(m.inputPath), tickCmd())
}

// loadInputCmd returns a command that loads the input file
func loadInputCmd(path string) tea.Cmd {
	return func() tea.Msg {
		input, err := config.NewInputParser().LoadFromFile(path)
		if err != nil {
			return tuimsg.ErrorMsg{Err: err}
		}
		return tuimsg.InputLoadedMsg{Input: input}
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(120*time.Millisecond, func(time.Time) tea.Msg { return TickMsg{} })
}

// calculateCmd builds the report for an input. The timeline is always
// included so the results scene can chart the balances.
func calculateCmd(engine *calculation.Engine, ref *domain.ReferenceData, input *domain.ProjectionInput) tea.Cmd {
	return func() tea.Msg {
		in := input.DeepCopy()
		in.Options.IncludeTimeline = true
		report, err := engine.BuildReport(in, ref)
		return tuimsg.CalculationCompleteMsg{Report: report, Err: err}
	}
}

// compareCmd runs the selected templates against the current input
func compareCmd(engine *calculation.Engine, ref *domain.ReferenceData, input *domain.ProjectionInput, templates []string) tea.Cmd {
	return func() tea.Msg {
		set, err := compare.NewCompareEngine(engine).Compare(context.Background(), input, ref, compare.CompareOptions{Templates: templates})
		return tuimsg.ComparisonCompleteMsg{Set: set, Err: err}
	}
}

// optimizeCmd asks both how many extra years and what starting income reach the target
func optimizeCmd(engine *calculation.Engine, ref *domain.ReferenceData, input *domain.ProjectionInput, target decimal.Decimal) tea.Cmd {
	return func() tea.Msg {
		solver := breakeven.NewDefaultSolver(engine.ForInput(input))
		msg := tuimsg.OptimizationCompleteMsg{Target: target}

		gap, gapErr := solver.YearsToTarget(input.Parameters, ref, input.Options.IncludeSickDays, target)
		if gapErr == nil {
			msg.Gap = gap
		}

		income, incomeErr := solver.Optimize(context.Background(), breakeven.OptimizationRequest{
			Base:        input,
			Reference:   ref,
			Target:      breakeven.OptimizeIncome,
			Goal:        breakeven.GoalMatchPension,
			Constraints: breakeven.Constraints{TargetPension: &target},
		})
		if incomeErr == nil {
			msg.Income = income
		}

		if msg.Gap == nil && msg.Income == nil {
			msg.Err = errors.Join(gapErr, incomeErr)
		}
		return msg
	}
}
