package breakeven

import (
	"github.com/rgehrsitz/pengo/internal/domain"
	"github.com/shopspring/decimal"
)

// OptimizationTarget defines what parameter to optimize
type OptimizationTarget string

const (
	OptimizeRetirementDelay OptimizationTarget = "retirement_delay"
	OptimizeIncome          OptimizationTarget = "income"
	OptimizeSickDays        OptimizationTarget = "sick_days"
	OptimizeAll             OptimizationTarget = "all"
)

// OptimizationGoal defines what outcome to achieve
type OptimizationGoal string

const (
	GoalMatchPension    OptimizationGoal = "match_pension"    // Reach a target monthly pension
	GoalMaximizePension OptimizationGoal = "maximize_pension" // Highest pension within the constraints
)

// Constraints define bounds for optimization parameters
type Constraints struct {
	// Highest age the retirement may be pushed to
	MaxRetirementAge *int `json:"max_retirement_age,omitempty"`

	// Starting monthly income search range
	MinIncome *decimal.Decimal `json:"min_income,omitempty"`
	MaxIncome *decimal.Decimal `json:"max_income,omitempty"`

	// Upper bound on the average yearly sick days
	MaxSickDays *int `json:"max_sick_days,omitempty"`

	// Pension target for match_pension goal
	TargetPension *decimal.Decimal `json:"target_pension,omitempty"`
}

// DefaultConstraints returns sensible default constraints
func DefaultConstraints() Constraints {
	maxAge := 70
	maxSick := 180
	return Constraints{
		MaxRetirementAge: &maxAge,
		MaxSickDays:      &maxSick,
	}
}

// OptimizationRequest defines the parameters for an optimization run
type OptimizationRequest struct {
	Base          *domain.ProjectionInput
	Reference     *domain.ReferenceData
	Target        OptimizationTarget
	Goal          OptimizationGoal
	Constraints   Constraints
	MaxIterations int             // Maximum solver iterations
	Tolerance     decimal.Decimal // Income convergence tolerance for binary search
}

// OptimizationResult contains the results of an optimization run
type OptimizationResult struct {
	Target          OptimizationTarget `json:"target"`
	Goal            OptimizationGoal   `json:"goal"`
	TargetPension   *decimal.Decimal   `json:"target_pension,omitempty"`
	Success         bool               `json:"success"`
	Iterations      int                `json:"iterations"`
	ConvergenceInfo string             `json:"convergence_info"`

	// Optimized parameters
	OptimalDelayYears    *int             `json:"optimal_delay_years,omitempty"`
	OptimalRetirementAge *int             `json:"optimal_retirement_age,omitempty"`
	OptimalIncome        *decimal.Decimal `json:"optimal_income,omitempty"`
	OptimalSickDays      *int             `json:"optimal_sick_days,omitempty"`

	// Results at optimal parameters
	MonthlyPension decimal.Decimal `json:"monthly_pension"`

	// Comparison to base
	BasePension         decimal.Decimal `json:"base_pension"`
	PensionDiffFromBase decimal.Decimal `json:"pension_diff_from_base"`
}

// MultiDimensionalResult contains results when optimizing multiple parameters
type MultiDimensionalResult struct {
	Results         []OptimizationResult `json:"results"`
	BestByPension   *OptimizationResult  `json:"best_by_pension,omitempty"`
	Recommendations []string             `json:"recommendations"`
}

// SolverOptions configures the solver algorithm
type SolverOptions struct {
	Tolerance     decimal.Decimal // Income convergence tolerance
	MaxIterations int             // Maximum iterations
	MaxAge        int             // Latest retirement age the delay search considers
}

// DefaultSolverOptions returns default solver configuration
func DefaultSolverOptions() SolverOptions {
	return SolverOptions{
		Tolerance:     decimal.NewFromFloat(0.01),
		MaxIterations: 60,
		MaxAge:        90,
	}
}

// Validate checks if constraints are internally consistent
func (c *Constraints) Validate() error {
	if c.MinIncome != nil && c.MaxIncome != nil && c.MinIncome.GreaterThan(*c.MaxIncome) {
		return &BreakEvenError{
			Operation: "validate_constraints",
			Message:   "min_income cannot be greater than max_income",
		}
	}
	if c.MinIncome != nil && !c.MinIncome.IsPositive() {
		return &BreakEvenError{
			Operation: "validate_constraints",
			Message:   "min_income must be positive",
		}
	}
	if c.MaxSickDays != nil && (*c.MaxSickDays < 0 || *c.MaxSickDays > 366) {
		return &BreakEvenError{
			Operation: "validate_constraints",
			Message:   "max_sick_days must be between 0 and 366",
		}
	}
	if c.TargetPension != nil && !c.TargetPension.IsPositive() {
		return &BreakEvenError{
			Operation: "validate_constraints",
			Message:   "target_pension must be positive",
		}
	}
	return nil
}

// BreakEvenError represents errors from break-even solver
type BreakEvenError struct {
	Operation string
	Message   string
	Cause     error
}

func (e *BreakEvenError) Error() string {
	if e.Cause != nil {
		return e.Operation + ": " + e.Message + ": " + e.Cause.Error()
	}
	return e.Operation + ": " + e.Message
}

func (e *BreakEvenError) Unwrap() error {
	return e.Cause
}
