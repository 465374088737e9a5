package breakeven

import (
	"context"
	"errors"
	"fmt"

	"github.com/rgehrsitz/pengo/internal/calculation"
	"github.com/rgehrsitz/pengo/internal/domain"
	"github.com/shopspring/decimal"
)

// OptimizeMultiDimensional answers the same target pension along every
// optimization target and compares the answers
func (s *Solver) OptimizeMultiDimensional(
	ctx context.Context,
	base *domain.ProjectionInput,
	ref *domain.ReferenceData,
	constraints Constraints,
	goals []OptimizationGoal,
) (*MultiDimensionalResult, error) {

	if err := constraints.Validate(); err != nil {
		return nil, err
	}
	if len(goals) == 0 {
		goals = []OptimizationGoal{GoalMatchPension}
	}

	targets := []OptimizationTarget{
		OptimizeRetirementDelay,
		OptimizeIncome,
		OptimizeSickDays,
	}

	var results []OptimizationResult
	var firstErr error

	for _, target := range targets {
		for _, goal := range goals {
			req := OptimizationRequest{
				Base:          base,
				Reference:     ref,
				Target:        target,
				Goal:          goal,
				Constraints:   constraints,
				MaxIterations: s.Options.MaxIterations,
				Tolerance:     s.Options.Tolerance,
			}

			result, err := s.Optimize(ctx, req)
			if err != nil {
				if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
					return nil, err
				}
				if firstErr == nil {
					firstErr = err
				}
				continue
			}

			if result != nil && result.Success {
				results = append(results, *result)
			}
		}
	}

	if len(results) == 0 {
		return nil, &BreakEvenError{
			Operation: "optimize_multi_dimensional",
			Message:   "no successful optimizations found",
			Cause:     firstErr,
		}
	}

	mdResult := &MultiDimensionalResult{
		Results: results,
	}

	for i := range results {
		if mdResult.BestByPension == nil ||
			results[i].MonthlyPension.GreaterThan(mdResult.BestByPension.MonthlyPension) {
			mdResult.BestByPension = &results[i]
		}
	}

	mdResult.Recommendations = s.generateMultiDimensionalRecommendations(mdResult)

	return mdResult, nil
}

// generateMultiDimensionalRecommendations creates recommendations from multi-dimensional results
func (s *Solver) generateMultiDimensionalRecommendations(result *MultiDimensionalResult) []string {
	var recommendations []string

	for _, res := range result.Results {
		switch {
		case res.OptimalDelayYears != nil && res.Goal == GoalMatchPension:
			if *res.OptimalDelayYears == 0 {
				recommendations = append(recommendations, "The target is already met at the statutory retirement age")
			} else {
				recommendations = append(recommendations, fmt.Sprintf("Work %d more years (retire at %d) to reach %s",
					*res.OptimalDelayYears, *res.OptimalRetirementAge, res.MonthlyPension.StringFixed(2)))
			}
		case res.OptimalDelayYears != nil:
			recommendations = append(recommendations, fmt.Sprintf("Retiring at %d gives the highest pension (%s)",
				*res.OptimalRetirementAge, res.MonthlyPension.StringFixed(2)))
		case res.OptimalIncome != nil:
			recommendations = append(recommendations, fmt.Sprintf("A starting salary of %s reaches the target at the statutory age",
				res.OptimalIncome.StringFixed(2)))
		case res.OptimalSickDays != nil:
			recommendations = append(recommendations, fmt.Sprintf("The target holds with up to %d sick days per year",
				*res.OptimalSickDays))
		}
	}

	return recommendations
}

// SweepPoint is one row of a target sweep
type SweepPoint struct {
	TargetPension    decimal.Decimal `json:"target_pension"`
	Reachable        bool            `json:"reachable"`
	YearsNeeded      int             `json:"years_needed"`
	FinalAge         int             `json:"final_age"`
	ProjectedPension decimal.Decimal `json:"projected_pension"`
}

// SweepTargets runs the years-to-target search for each target pension. An
// unreachable target yields a row with Reachable=false; any other failure
// stops the sweep.
func (s *Solver) SweepTargets(ctx context.Context, base *domain.ProjectionInput, ref *domain.ReferenceData, targets []decimal.Decimal) ([]SweepPoint, error) {
	if base == nil {
		return nil, &BreakEvenError{Operation: "sweep_targets", Message: "base input is required"}
	}
	engine := s.Engine.ForInput(base)

	points := make([]SweepPoint, 0, len(targets))
	for _, target := range targets {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		gap, err := engine.YearsToTarget(base.Parameters, ref, base.Options.IncludeSickDays, target)
		switch {
		case err == nil:
			points = append(points, SweepPoint{
				TargetPension:    target,
				Reachable:        true,
				YearsNeeded:      gap.YearsNeeded,
				FinalAge:         gap.FinalAge,
				ProjectedPension: gap.ProjectedPension,
			})
		case errors.Is(err, calculation.ErrTargetUnreachable):
			points = append(points, SweepPoint{TargetPension: target})
		default:
			return nil, &BreakEvenError{Operation: "sweep_targets", Message: "failed to solve target " + target.StringFixed(2), Cause: err}
		}
	}
	return points, nil
}

// OptimizeAllTargets is a convenience method to optimize all targets with a single goal
func (s *Solver) OptimizeAllTargets(
	ctx context.Context,
	base *domain.ProjectionInput,
	ref *domain.ReferenceData,
	constraints Constraints,
	goal OptimizationGoal,
) (*MultiDimensionalResult, error) {
	return s.OptimizeMultiDimensional(ctx, base, ref, constraints, []OptimizationGoal{goal})
}
