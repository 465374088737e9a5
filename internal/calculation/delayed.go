package calculation

import (
	"github.com/rgehrsitz/pengo/internal/domain"
)

// DelayOptions selects sick-day reduction separately for the base working
// period and for the extension years.
type DelayOptions struct {
	BaseSickDays      bool
	ExtensionSickDays bool
}

// DelayedRetirement projects retiring at delayedAge instead of the base
// retirement age. The extension years continue the base salary trajectory and
// the combined capital is annuitized with the life expectancy of the new age.
func (ce *Engine) DelayedRetirement(params domain.ProjectionParameters, ref *domain.ReferenceData, delayedAge int, opts DelayOptions) (*domain.DelayedRetirementResult, error) {
	if err := validateParameters("delayed_retirement", params); err != nil {
		return nil, err
	}
	baseAge := ce.RetirementAge(params)
	if delayedAge <= baseAge {
		return nil, newError("delayed_retirement", ErrInvalidParameters,
			"delayed age %d must be greater than base retirement age %d", delayedAge, baseAge)
	}
	return ce.delayedRetirement(params, tablesOrEmpty(ref), delayedAge-baseAge, opts, ce.newSink())
}

// DelayedRetirementByYear is DelayedRetirement keyed by the calendar year of
// the delayed retirement.
func (ce *Engine) DelayedRetirementByYear(params domain.ProjectionParameters, ref *domain.ReferenceData, delayedYear int, opts DelayOptions) (*domain.DelayedRetirementResult, error) {
	if err := validateParameters("delayed_retirement", params); err != nil {
		return nil, err
	}
	if delayedYear <= params.YearRetirement {
		return nil, newError("delayed_retirement", ErrInvalidParameters,
			"delayed year %d must be after retirement year %d", delayedYear, params.YearRetirement)
	}
	return ce.delayedRetirement(params, tablesOrEmpty(ref), delayedYear-params.YearRetirement, opts, ce.newSink())
}

func (ce *Engine) delayedRetirement(params domain.ProjectionParameters, ref *domain.ReferenceData, delayYears int, opts DelayOptions, sink *noticeSink) (*domain.DelayedRetirementResult, error) {
	baseAge := ce.RetirementAge(params)
	delayedYear := params.YearRetirement + delayYears

	base, carried := ce.accumulate(params.MonthlyIncome, params.YearWorkStart, params.YearRetirement,
		ce.sickDaysFor(opts.BaseSickDays), ref, sink)
	extension, _ := ce.accumulate(carried, params.YearRetirement, delayedYear,
		ce.sickDaysFor(opts.ExtensionSickDays), ref, sink)

	result := &domain.DelayedRetirementResult{
		BaseYear:       params.YearRetirement,
		DelayedYear:    delayedYear,
		BaseAge:        baseAge,
		DelayedAge:     baseAge + delayYears,
		BaseTotal:      roundMoney(base),
		ExtensionTotal: roundMoney(extension),
	}
	result.Total = result.BaseTotal.Add(result.ExtensionTotal)

	monthly, err := ce.MonthlyPension(result.Total, result.DelayedAge, ref)
	if err != nil {
		return nil, err
	}
	result.MonthlyPension = monthly
	return result, nil
}
