package breakeven

import (
	"context"
	"fmt"

	"github.com/rgehrsitz/pengo/internal/calculation"
	"github.com/rgehrsitz/pengo/internal/domain"
	"github.com/shopspring/decimal"
)

var (
	decimalTwo   = decimal.NewFromInt(2)
	decimalCent  = decimal.NewFromFloat(0.01)
	incomeSpread = decimal.NewFromInt(20)
)

// Solver finds the parameter values at which a projection breaks even with a
// pension goal.
type Solver struct {
	Engine  *calculation.Engine
	Options SolverOptions
}

// NewSolver creates a new break-even solver
func NewSolver(engine *calculation.Engine, options SolverOptions) *Solver {
	return &Solver{
		Engine:  engine,
		Options: options,
	}
}

// NewDefaultSolver creates a solver with default options
func NewDefaultSolver(engine *calculation.Engine) *Solver {
	return NewSolver(engine, DefaultSolverOptions())
}

// YearsToTarget solves for the extra working years needed to reach the required
// pension, searching up to Options.MaxAge (or the engine's annuity bound when
// that is lower or unset).
func (s *Solver) YearsToTarget(params domain.ProjectionParameters, ref *domain.ReferenceData, includeSick bool, required decimal.Decimal) (*domain.TargetGap, error) {
	return s.Engine.YearsToTargetWithin(params, ref, includeSick, required, s.maxAge(s.Engine))
}

func (s *Solver) maxAge(engine *calculation.Engine) int {
	maxAge := engine.Assumptions.MaxAnnuityAge
	if s.Options.MaxAge > 0 && s.Options.MaxAge < maxAge {
		maxAge = s.Options.MaxAge
	}
	return maxAge
}

// evaluation is the per-request state shared by the individual optimizers
type evaluation struct {
	req         OptimizationRequest
	engine      *calculation.Engine
	params      domain.ProjectionParameters
	includeSick bool
	basePension decimal.Decimal
}

// Optimize performs optimization based on the request
func (s *Solver) Optimize(ctx context.Context, req OptimizationRequest) (*OptimizationResult, error) {
	if req.Base == nil {
		return nil, &BreakEvenError{Operation: "optimize", Message: "base input is required"}
	}
	if err := req.Constraints.Validate(); err != nil {
		return nil, err
	}

	// Apply defaults
	if req.MaxIterations == 0 {
		req.MaxIterations = s.Options.MaxIterations
	}
	if req.Tolerance.IsZero() {
		req.Tolerance = s.Options.Tolerance
	}
	if req.Goal == "" {
		req.Goal = GoalMatchPension
	}
	if req.Constraints.TargetPension == nil && req.Base.Options.TargetPension != nil {
		target := *req.Base.Options.TargetPension
		req.Constraints.TargetPension = &target
	}
	if req.Goal == GoalMatchPension && req.Constraints.TargetPension == nil {
		return nil, &BreakEvenError{Operation: "optimize", Message: "match_pension requires a target pension"}
	}

	ev := &evaluation{
		req:         req,
		engine:      s.Engine.ForInput(req.Base),
		params:      req.Base.Parameters,
		includeSick: req.Base.Options.IncludeSickDays,
	}
	base, err := ev.engine.BasePension(ev.params, req.Reference, ev.includeSick)
	if err != nil {
		return nil, &BreakEvenError{Operation: "optimize", Message: "failed to calculate base pension", Cause: err}
	}
	ev.basePension = base

	// Route to appropriate solver based on target
	switch req.Target {
	case OptimizeRetirementDelay:
		return s.optimizeRetirementDelay(ctx, ev)
	case OptimizeIncome:
		return s.optimizeIncome(ctx, ev)
	case OptimizeSickDays:
		return s.optimizeSickDays(ctx, ev)
	default:
		return nil, &BreakEvenError{
			Operation: "optimize",
			Message:   fmt.Sprintf("unsupported optimization target: %s", req.Target),
		}
	}
}

// optimizeRetirementDelay finds how long to keep working
func (s *Solver) optimizeRetirementDelay(ctx context.Context, ev *evaluation) (*OptimizationResult, error) {
	const op = "optimize_retirement_delay"
	baseAge := ev.engine.RetirementAge(ev.params)

	maxAge := s.maxAge(ev.engine)
	if c := ev.req.Constraints.MaxRetirementAge; c != nil && *c < maxAge {
		maxAge = *c
	}
	if maxAge < baseAge {
		return nil, &BreakEvenError{
			Operation: op,
			Message:   fmt.Sprintf("max retirement age %d is below the base retirement age %d", maxAge, baseAge),
		}
	}

	if ev.req.Goal == GoalMatchPension {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		gap, err := ev.engine.YearsToTargetWithin(ev.params, ev.req.Reference, ev.includeSick, *ev.req.Constraints.TargetPension, maxAge)
		if err != nil {
			return nil, &BreakEvenError{Operation: op, Message: "target not reachable by delaying retirement", Cause: err}
		}
		result := ev.newResult(gap.YearsNeeded+1, gap.ProjectedPension)
		result.OptimalDelayYears = intPtr(gap.YearsNeeded)
		result.OptimalRetirementAge = intPtr(gap.FinalAge)
		result.Success = true
		result.ConvergenceInfo = fmt.Sprintf("Target reached after %d extra years", gap.YearsNeeded)
		return result, nil
	}

	// Grid search over retirement ages (yearly granularity)
	opts := calculation.DelayOptions{BaseSickDays: ev.includeSick, ExtensionSickDays: ev.includeSick}
	var bestResult *OptimizationResult
	iterations := 0

	for age := baseAge; age <= maxAge && iterations < ev.req.MaxIterations; age++ {
		iterations++

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		pension := ev.basePension
		if age > baseAge {
			delayed, err := ev.engine.DelayedRetirement(ev.params, ev.req.Reference, age, opts)
			if err != nil {
				continue // Skip ages the annuity tables do not cover
			}
			pension = delayed.MonthlyPension
		}

		if bestResult == nil || pension.GreaterThan(bestResult.MonthlyPension) {
			bestResult = ev.newResult(iterations, pension)
			bestResult.OptimalDelayYears = intPtr(age - baseAge)
			bestResult.OptimalRetirementAge = intPtr(age)
		}
	}

	if bestResult == nil {
		return nil, &BreakEvenError{Operation: op, Message: "no valid retirement ages found"}
	}
	bestResult.Iterations = iterations
	bestResult.Success = true
	bestResult.ConvergenceInfo = fmt.Sprintf("Evaluated %d retirement ages", iterations)
	return bestResult, nil
}

// optimizeIncome finds the lowest starting income that reaches the target pension
func (s *Solver) optimizeIncome(ctx context.Context, ev *evaluation) (*OptimizationResult, error) {
	const op = "optimize_income"
	if ev.req.Goal != GoalMatchPension {
		return nil, &BreakEvenError{Operation: op, Message: fmt.Sprintf("goal %s is not supported for income", ev.req.Goal)}
	}
	target := *ev.req.Constraints.TargetPension

	lo := decimal.NewFromInt(1)
	hi := ev.params.MonthlyIncome.Mul(incomeSpread)
	if c := ev.req.Constraints.MinIncome; c != nil {
		lo = *c
	}
	if c := ev.req.Constraints.MaxIncome; c != nil {
		hi = *c
	}

	floor := lo

	pensionAt := func(income decimal.Decimal) (decimal.Decimal, error) {
		p := ev.params
		p.MonthlyIncome = income
		return ev.engine.BasePension(p, ev.req.Reference, ev.includeSick)
	}

	top, err := pensionAt(hi)
	if err != nil {
		return nil, &BreakEvenError{Operation: op, Message: "failed to calculate pension", Cause: err}
	}
	if top.LessThan(target) {
		return nil, &BreakEvenError{
			Operation: op,
			Message:   "target not reachable within the income range",
			Cause: calculation.NewTargetUnreachable(op, "income %s yields %s, below target %s",
				hi.StringFixed(2), top.StringFixed(2), target.StringFixed(2)),
		}
	}

	iterations := 1
	bottom, err := pensionAt(lo)
	if err != nil {
		return nil, &BreakEvenError{Operation: op, Message: "failed to calculate pension", Cause: err}
	}
	if bottom.GreaterThanOrEqual(target) {
		hi = lo
	}

	// Binary search keeps pension(hi) >= target > pension(lo)
	for hi.Sub(lo).GreaterThan(ev.req.Tolerance) && iterations < ev.req.MaxIterations {
		iterations++

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		mid := lo.Add(hi).Div(decimalTwo)
		pension, err := pensionAt(mid)
		if err != nil {
			return nil, &BreakEvenError{Operation: op, Message: "failed to calculate pension", Cause: err}
		}
		if pension.GreaterThanOrEqual(target) {
			hi = mid
		} else {
			lo = mid
		}
	}

	// Settle on the lowest whole-cent income that still reaches the target
	income := hi.RoundCeil(2)
	for step := 0; step < 3; step++ {
		lower := income.Sub(decimalCent)
		if !lower.IsPositive() || lower.LessThan(floor) {
			break
		}
		pension, err := pensionAt(lower)
		if err != nil || pension.LessThan(target) {
			break
		}
		income = lower
	}

	pension, err := pensionAt(income)
	if err != nil {
		return nil, &BreakEvenError{Operation: op, Message: "failed to calculate pension", Cause: err}
	}

	result := ev.newResult(iterations, pension)
	result.OptimalIncome = &income
	result.Success = hi.Sub(lo).LessThanOrEqual(ev.req.Tolerance)
	if result.Success {
		result.ConvergenceInfo = fmt.Sprintf("Converged to within %s of the break-even income", ev.req.Tolerance.String())
	} else {
		result.ConvergenceInfo = fmt.Sprintf("Max iterations (%d) reached", ev.req.MaxIterations)
	}
	return result, nil
}

// optimizeSickDays finds the largest average yearly sick leave that still
// reaches the target pension
func (s *Solver) optimizeSickDays(ctx context.Context, ev *evaluation) (*OptimizationResult, error) {
	const op = "optimize_sick_days"
	if ev.req.Goal != GoalMatchPension {
		return nil, &BreakEvenError{Operation: op, Message: fmt.Sprintf("goal %s is not supported for sick days", ev.req.Goal)}
	}
	target := *ev.req.Constraints.TargetPension

	maxDays := 366
	if c := ev.req.Constraints.MaxSickDays; c != nil {
		maxDays = *c
	}

	pensionAt := func(days int) (decimal.Decimal, error) {
		engine := ev.engine.WithSickDaysPerYear(decimal.NewFromInt(int64(days)))
		return engine.BasePension(ev.params, ev.req.Reference, true)
	}

	healthy, err := pensionAt(0)
	if err != nil {
		return nil, &BreakEvenError{Operation: op, Message: "failed to calculate pension", Cause: err}
	}
	if healthy.LessThan(target) {
		return nil, &BreakEvenError{
			Operation: op,
			Message:   "target not reachable even without sick leave",
			Cause: calculation.NewTargetUnreachable(op, "pension without sick leave is %s, below target %s",
				healthy.StringFixed(2), target.StringFixed(2)),
		}
	}

	iterations := 1
	lo, hi := 0, maxDays
	best := healthy
	worst, err := pensionAt(hi)
	if err == nil && worst.GreaterThanOrEqual(target) {
		lo, best = hi, worst
	}

	// Binary search keeps pension(lo) >= target > pension(hi)
	for hi-lo > 1 && iterations < ev.req.MaxIterations {
		iterations++

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		mid := (lo + hi) / 2
		pension, err := pensionAt(mid)
		if err == nil && pension.GreaterThanOrEqual(target) {
			lo, best = mid, pension
		} else {
			hi = mid
		}
	}

	result := ev.newResult(iterations, best)
	result.OptimalSickDays = intPtr(lo)
	result.Success = true
	result.ConvergenceInfo = fmt.Sprintf("Up to %d sick days per year keep the pension at or above target", lo)
	return result, nil
}

func (ev *evaluation) newResult(iterations int, pension decimal.Decimal) *OptimizationResult {
	result := &OptimizationResult{
		Target:              ev.req.Target,
		Goal:                ev.req.Goal,
		Iterations:          iterations,
		MonthlyPension:      pension,
		BasePension:         ev.basePension,
		PensionDiffFromBase: pension.Sub(ev.basePension),
	}
	if t := ev.req.Constraints.TargetPension; t != nil {
		target := *t
		result.TargetPension = &target
	}
	return result
}

func intPtr(v int) *int {
	return &v
}
