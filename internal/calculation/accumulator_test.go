package calculation

import (
	"testing"

	"github.com/rgehrsitz/pengo/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTotalAccumulation_EmptyWageGrowthTable(t *testing.T) {
	engine := zeroInflationEngine()

	total, err := engine.TotalAccumulation(testParams(), testRef(), false)
	require.NoError(t, err)

	// 6500 x 12 x 0.1952 x 35 years, no growth and no cap
	assert.Equal(t, "532896.00", total.StringFixed(2))
}

func TestTotalAccumulation_CapAppliedPerYear(t *testing.T) {
	engine := zeroInflationEngine()
	ref := testRef()
	for year := 2020; year < 2055; year++ {
		ref.AverageSalary[year] = decimal.NewFromInt(400)
	}

	total, err := engine.TotalAccumulation(testParams(), ref, false)
	require.NoError(t, err)
	assert.Equal(t, "420000.00", total.StringFixed(2), "every year capped at 400 x 30")
}

func TestYearlyContribution_NeverExceedsCeiling(t *testing.T) {
	engine := NewEngine()
	ref := testRef()
	ref.WageGrowth = domain.WageGrowthTable{}
	for year := 2020; year < 2055; year++ {
		ref.WageGrowth[year] = dec("0.06")
		ref.AverageSalary[year] = decimal.NewFromInt(int64(500 + 20*(year-2020)))
	}

	sink := engine.newSink()
	salary := decimal.NewFromInt(6500)
	for year := 2020; year < 2055; year++ {
		for _, sick := range []decimal.Decimal{decimal.Zero, decimal.NewFromInt(34)} {
			contribution := engine.yearlyContribution(year, salary, sick, ref, sink)
			ceiling, _ := ref.AverageSalary.Ceiling(year)
			assert.True(t, contribution.Div(decimal.NewFromInt(30)).LessThanOrEqual(ceiling),
				"year %d: contribution %s over ceiling %s", year, contribution, ceiling)
		}
		salary = salary.Mul(decimalOne.Add(engine.GrowthRate(year, ref, true)))
	}
}

func TestTotalAccumulation_SickDays(t *testing.T) {
	engine := zeroInflationEngine()

	total, err := engine.TotalAccumulation(testParams(), testRef(), true)
	require.NoError(t, err)

	// 15225.60 - 34 x (6500 / 22) x 0.1952 per year
	assert.Equal(t, "464265.45", total.StringFixed(2))

	healthy, err := engine.TotalAccumulation(testParams(), testRef(), false)
	require.NoError(t, err)
	assert.True(t, total.LessThan(healthy))
}

func TestTotalAccumulation_SickReductionAppliedBeforeCap(t *testing.T) {
	engine := zeroInflationEngine()
	ref := testRef()
	for year := 2020; year < 2055; year++ {
		ref.AverageSalary[year] = decimal.NewFromInt(400)
	}

	withSick, err := engine.TotalAccumulation(testParams(), ref, true)
	require.NoError(t, err)
	withoutSick, err := engine.TotalAccumulation(testParams(), ref, false)
	require.NoError(t, err)

	assert.True(t, withSick.Equal(withoutSick), "reduced contribution still exceeds the cap")
}

func TestTotalAccumulation_InflationCompoundsSalary(t *testing.T) {
	flat, err := zeroInflationEngine().TotalAccumulation(testParams(), testRef(), false)
	require.NoError(t, err)
	inflated, err := NewEngine().TotalAccumulation(testParams(), testRef(), false)
	require.NoError(t, err)

	assert.True(t, inflated.GreaterThan(flat))
}

func TestTotalAccumulation_Idempotent(t *testing.T) {
	engine := NewEngine()
	ref := testRef()
	ref.WageGrowth[2030] = dec("0.043")

	first, err := engine.TotalAccumulation(testParams(), ref, true)
	require.NoError(t, err)
	second, err := engine.TotalAccumulation(testParams(), ref, true)
	require.NoError(t, err)

	assert.Equal(t, first.String(), second.String())
}

func TestTotalAccumulation_MissingDataWarnings(t *testing.T) {
	engine := zeroInflationEngine()
	logger := &TestLogger{}
	engine.SetLogger(logger)

	_, err := engine.TotalAccumulation(testParams(), testRef(), false)
	require.NoError(t, err)

	// 35 missing wage-growth years and 35 missing average-salary years
	assert.Equal(t, 70, logger.count("WARN:"))
}

func TestTotalAccumulation_NilReferenceData(t *testing.T) {
	total, err := zeroInflationEngine().TotalAccumulation(testParams(), nil, false)
	require.NoError(t, err)
	assert.Equal(t, "532896.00", total.StringFixed(2))
}
