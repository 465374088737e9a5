package calculation

import (
	"github.com/rgehrsitz/pengo/internal/domain"
	"github.com/shopspring/decimal"
)

// YearsToTarget finds how many extra working years lift the monthly pension to
// at least required. It steps the retirement age one year at a time and stops
// at the top of the annuity domain, returning ErrTargetUnreachable there.
// The same sick-day setting is used for the base period and every extension.
func (ce *Engine) YearsToTarget(params domain.ProjectionParameters, ref *domain.ReferenceData, includeSick bool, required decimal.Decimal) (*domain.TargetGap, error) {
	return ce.yearsToTarget(params, tablesOrEmpty(ref), includeSick, required, ce.Assumptions.MaxAnnuityAge, ce.newSink())
}

// YearsToTargetWithin is YearsToTarget with a lower age bound. maxAge is
// clamped to the annuity domain.
func (ce *Engine) YearsToTargetWithin(params domain.ProjectionParameters, ref *domain.ReferenceData, includeSick bool, required decimal.Decimal, maxAge int) (*domain.TargetGap, error) {
	return ce.yearsToTarget(params, tablesOrEmpty(ref), includeSick, required, maxAge, ce.newSink())
}

func (ce *Engine) yearsToTarget(params domain.ProjectionParameters, ref *domain.ReferenceData, includeSick bool, required decimal.Decimal, maxAge int, sink *noticeSink) (*domain.TargetGap, error) {
	const op = "years_to_target"
	if maxAge <= 0 || maxAge > ce.Assumptions.MaxAnnuityAge {
		maxAge = ce.Assumptions.MaxAnnuityAge
	}
	if required.LessThanOrEqual(decimalZero) {
		return nil, newError(op, ErrInvalidParameters, "target pension must be positive, got %s", required.String())
	}
	current, err := ce.basePension(params, ref, includeSick, sink)
	if err != nil {
		return nil, err
	}

	baseAge := ce.RetirementAge(params)
	gap := &domain.TargetGap{
		TargetPension:    required,
		CurrentPension:   current,
		ProjectedPension: current,
		BaseAge:          baseAge,
		FinalAge:         baseAge,
	}
	if current.GreaterThanOrEqual(required) {
		return gap, nil
	}

	opts := DelayOptions{BaseSickDays: includeSick, ExtensionSickDays: includeSick}
	for age := baseAge + 1; age <= maxAge; age++ {
		delayed, err := ce.delayedRetirement(params, ref, age-baseAge, opts, sink)
		if err != nil {
			return nil, err
		}
		if ce.Debug {
			ce.Logger.Debugf("age %d: projected %s (target %s)", age, delayed.MonthlyPension.StringFixed(2), required.StringFixed(2))
		}
		gap.ProjectedPension = delayed.MonthlyPension
		gap.FinalAge = age
		gap.YearsNeeded = age - baseAge
		if delayed.MonthlyPension.GreaterThanOrEqual(required) {
			return gap, nil
		}
	}

	return nil, newError(op, ErrTargetUnreachable,
		"target %s not reached by age %d (best %s)", required.StringFixed(2), maxAge, gap.ProjectedPension.StringFixed(2))
}
