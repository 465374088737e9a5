package calculation

import (
	"github.com/rgehrsitz/pengo/internal/domain"
	"github.com/shopspring/decimal"
)

// MonthlyPension converts accumulated capital into a monthly benefit by dividing
// it by the life expectancy in months at the given retirement age.
//
// Ages outside the annuity domain yield ErrOutOfRange. A missing table entry
// for an in-range age yields ErrMissingReferenceData: unlike wage growth there
// is no neutral value to fall back on.
func (ce *Engine) MonthlyPension(total decimal.Decimal, age int, ref *domain.ReferenceData) (decimal.Decimal, error) {
	const op = "monthly_pension"
	if total.LessThanOrEqual(decimalZero) {
		return decimalZero, newError(op, ErrInvalidParameters, "accumulated total must be positive, got %s", total.StringFixed(2))
	}
	a := ce.Assumptions
	if age < a.MinAnnuityAge || age > a.MaxAnnuityAge {
		return decimalZero, newError(op, ErrOutOfRange, "retirement age %d outside %d-%d", age, a.MinAnnuityAge, a.MaxAnnuityAge)
	}
	months, ok := tablesOrEmpty(ref).LifeExpectancy.Months(age)
	if !ok {
		return decimalZero, newError(op, ErrMissingReferenceData, "no life expectancy data for age %d", age)
	}
	months = months.Round(0)
	if months.LessThanOrEqual(decimalZero) {
		return decimalZero, newError(op, ErrMissingReferenceData, "life expectancy for age %d rounds to %s months", age, months.String())
	}
	return roundMoney(total.Div(months)), nil
}

// BasePension accumulates and annuitizes at the base retirement age
func (ce *Engine) BasePension(params domain.ProjectionParameters, ref *domain.ReferenceData, includeSick bool) (decimal.Decimal, error) {
	return ce.basePension(params, tablesOrEmpty(ref), includeSick, ce.newSink())
}

func (ce *Engine) basePension(params domain.ProjectionParameters, ref *domain.ReferenceData, includeSick bool, sink *noticeSink) (decimal.Decimal, error) {
	total, err := ce.totalAccumulation(params, ref, includeSick, sink)
	if err != nil {
		return decimalZero, err
	}
	return ce.MonthlyPension(total, ce.RetirementAge(params), ref)
}

// ReplacementRate returns the base monthly pension as a whole-number
// percentage of the final salary.
func (ce *Engine) ReplacementRate(params domain.ProjectionParameters, ref *domain.ReferenceData, includeSick bool) (int, error) {
	return ce.replacementRate(params, tablesOrEmpty(ref), includeSick, ce.newSink())
}

func (ce *Engine) replacementRate(params domain.ProjectionParameters, ref *domain.ReferenceData, includeSick bool, sink *noticeSink) (int, error) {
	monthly, err := ce.basePension(params, ref, includeSick, sink)
	if err != nil {
		return 0, err
	}
	final := roundMoney(ce.indexAmount(params.MonthlyIncome, params.YearWorkStart, params.YearRetirement, ref, false, sink))
	if final.LessThanOrEqual(decimalZero) {
		return 0, newError("replacement_rate", ErrInvalidParameters, "final salary must be positive, got %s", final.StringFixed(2))
	}
	return int(monthly.Div(final).Mul(decimalHundred).Round(0).IntPart()), nil
}
