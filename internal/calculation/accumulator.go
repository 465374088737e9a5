package calculation

import (
	"github.com/rgehrsitz/pengo/internal/domain"
	"github.com/shopspring/decimal"
)

// yearlyContribution computes one year's capped contribution.
//
// The sick-leave reduction is subtracted first and the ceiling applied after it,
// so a capped year stays capped unless absence pulls it under the ceiling.
func (ce *Engine) yearlyContribution(year int, salary, sickDays decimal.Decimal, ref *domain.ReferenceData, sink *noticeSink) decimal.Decimal {
	a := ce.Assumptions
	contribution := salary.Mul(decimalTwelve).Mul(a.ContributionRate)

	if sickDays.GreaterThan(decimalZero) {
		daily := salary.Div(a.WorkingDaysPerMonth)
		contribution = contribution.Sub(sickDays.Mul(daily).Mul(a.ContributionRate))
		if contribution.LessThan(decimalZero) {
			sink.add(domain.NoticeWarning, domain.CodeContributionFloored, year,
				"%s sick days in %d exceed the yearly contribution, using zero", sickDays.String(), year)
			contribution = decimalZero
		}
	}

	ceiling, ok := ref.AverageSalary.Ceiling(year)
	if !ok {
		sink.add(domain.NoticeWarning, domain.CodeMissingAverageSalary, year,
			"no average salary data for %d, contribution left uncapped", year)
		return contribution
	}
	maxContribution := ceiling.Mul(a.ContributionCapMultiplier)
	if contribution.GreaterThan(maxContribution) {
		sink.add(domain.NoticeInfo, domain.CodeContributionCapped, year,
			"contribution for %d capped at %s", year, maxContribution.StringFixed(2))
		contribution = maxContribution
	}
	return contribution
}

// accumulate sums contributions over [from, to) starting from salary and
// returns the unrounded total together with the salary carried into year `to`.
func (ce *Engine) accumulate(salary decimal.Decimal, from, to int, sickDays decimal.Decimal, ref *domain.ReferenceData, sink *noticeSink) (total, carried decimal.Decimal) {
	total = decimalZero
	for year := from; year < to; year++ {
		total = total.Add(ce.yearlyContribution(year, salary, sickDays, ref, sink))
		salary = salary.Mul(decimalOne.Add(ce.growthRate(year, ref, true, sink)))
	}
	return total, salary
}

func (ce *Engine) sickDaysFor(include bool) decimal.Decimal {
	if !include {
		return decimalZero
	}
	return ce.Assumptions.DefaultSickDaysPerYear
}

// TotalAccumulation returns the nominal capital accumulated over
// [YearWorkStart, YearRetirement), rounded to the cent. With includeSick every
// year is reduced by the average sick-day count.
func (ce *Engine) TotalAccumulation(params domain.ProjectionParameters, ref *domain.ReferenceData, includeSick bool) (decimal.Decimal, error) {
	return ce.totalAccumulation(params, tablesOrEmpty(ref), includeSick, ce.newSink())
}

func (ce *Engine) totalAccumulation(params domain.ProjectionParameters, ref *domain.ReferenceData, includeSick bool, sink *noticeSink) (decimal.Decimal, error) {
	if err := validateParameters("total_accumulation", params); err != nil {
		return decimalZero, err
	}
	total, _ := ce.accumulate(params.MonthlyIncome, params.YearWorkStart, params.YearRetirement, ce.sickDaysFor(includeSick), ref, sink)
	if ce.Debug {
		ce.Logger.Debugf("accumulated %s over %d-%d (sick days: %t)", total.StringFixed(2), params.YearWorkStart, params.YearRetirement, includeSick)
	}
	return roundMoney(total), nil
}
