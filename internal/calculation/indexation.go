package calculation

import (
	"github.com/rgehrsitz/pengo/internal/domain"
	"github.com/shopspring/decimal"
)

// GrowthRate returns the compounding rate for one year: the table's wage growth
// plus, when withInflation is set, the fixed inflation constant. A year missing
// from the table contributes zero wage growth and raises a warning.
func (ce *Engine) GrowthRate(year int, ref *domain.ReferenceData, withInflation bool) decimal.Decimal {
	return ce.growthRate(year, tablesOrEmpty(ref), withInflation, ce.newSink())
}

func (ce *Engine) growthRate(year int, ref *domain.ReferenceData, withInflation bool, sink *noticeSink) decimal.Decimal {
	rate, ok := ref.WageGrowth.Rate(year)
	if !ok {
		sink.add(domain.NoticeWarning, domain.CodeMissingWageGrowth, year,
			"no wage growth data for %d, assuming zero growth", year)
		rate = decimalZero
	}
	if withInflation {
		rate = rate.Add(ce.Assumptions.InflationRate)
	}
	return rate
}

// IndexAmount compounds amount over every year in [start, end), multiplying by
// (1 + rate(year)) in sequence. An empty or inverted range returns amount unchanged.
func (ce *Engine) IndexAmount(amount decimal.Decimal, start, end int, ref *domain.ReferenceData, withInflation bool) decimal.Decimal {
	return ce.indexAmount(amount, start, end, tablesOrEmpty(ref), withInflation, ce.newSink())
}

func (ce *Engine) indexAmount(amount decimal.Decimal, start, end int, ref *domain.ReferenceData, withInflation bool, sink *noticeSink) decimal.Decimal {
	for year := start; year < end; year++ {
		amount = amount.Mul(decimalOne.Add(ce.growthRate(year, ref, withInflation, sink)))
	}
	return amount
}

// FinalSalary projects the starting income across the whole work span using
// wage growth only, without inflation. This is the salary the
// replacement rate is measured against.
func (ce *Engine) FinalSalary(params domain.ProjectionParameters, ref *domain.ReferenceData) (decimal.Decimal, error) {
	if err := validateParameters("final_salary", params); err != nil {
		return decimalZero, err
	}
	final := ce.indexAmount(params.MonthlyIncome, params.YearWorkStart, params.YearRetirement, tablesOrEmpty(ref), false, ce.newSink())
	return roundMoney(final), nil
}
