package tuimsg

import (
	"github.com/rgehrsitz/pengo/internal/breakeven"
	"github.com/rgehrsitz/pengo/internal/compare"
	"github.com/rgehrsitz/pengo/internal/domain"
	"github.com/shopspring/decimal"
)

// InputLoadedMsg signals the input file has been parsed and validated
type InputLoadedMsg struct {
	Input *domain.ProjectionInput
}

// ErrorMsg displays an error to the user
type ErrorMsg struct {
	Err error
}

// ParametersAppliedMsg carries the edited input to recalculate
type ParametersAppliedMsg struct {
	Input *domain.ProjectionInput
}

// ParametersResetMsg asks to drop all edits and go back to the loaded input
type ParametersResetMsg struct{}

// CalculationStartedMsg signals a projection has begun
type CalculationStartedMsg struct{}

// CalculationCompleteMsg signals a projection has finished
type CalculationCompleteMsg struct {
	Report *domain.ProjectionReport
	Err    error
}

// ComparisonRequestedMsg asks to compare the current input against templates
type ComparisonRequestedMsg struct {
	Templates []string
}

// ComparisonCompleteMsg signals a comparison has finished
type ComparisonCompleteMsg struct {
	Set *compare.ComparisonSet
	Err error
}

// OptimizationRequestedMsg asks the solvers for a target pension
type OptimizationRequestedMsg struct {
	Target decimal.Decimal
}

// OptimizationCompleteMsg signals the solvers have finished
type OptimizationCompleteMsg struct {
	Target decimal.Decimal
	Gap    *domain.TargetGap
	Income *breakeven.OptimizationResult
	Err    error
}
