package calculation

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDelayedRetirement(t *testing.T) {
	engine := zeroInflationEngine()

	result, err := engine.DelayedRetirement(testParams(), testRef(), 70, DelayOptions{})
	require.NoError(t, err)

	assert.Equal(t, 2055, result.BaseYear)
	assert.Equal(t, 2060, result.DelayedYear)
	assert.Equal(t, 65, result.BaseAge)
	assert.Equal(t, 70, result.DelayedAge)
	assert.Equal(t, "532896.00", result.BaseTotal.StringFixed(2))
	assert.Equal(t, "76128.00", result.ExtensionTotal.StringFixed(2))
	assert.Equal(t, "609024.00", result.Total.StringFixed(2))
	assert.Equal(t, "3139.30", result.MonthlyPension.StringFixed(2))
}

func TestDelayedRetirementByYear_MatchesAge(t *testing.T) {
	engine := zeroInflationEngine()

	byAge, err := engine.DelayedRetirement(testParams(), testRef(), 70, DelayOptions{BaseSickDays: true})
	require.NoError(t, err)
	byYear, err := engine.DelayedRetirementByYear(testParams(), testRef(), 2060, DelayOptions{BaseSickDays: true})
	require.NoError(t, err)

	assert.Equal(t, byAge, byYear)
}

func TestDelayedRetirement_IndependentSickFlags(t *testing.T) {
	engine := zeroInflationEngine()
	params, ref := testParams(), testRef()

	none, err := engine.DelayedRetirement(params, ref, 67, DelayOptions{})
	require.NoError(t, err)
	baseOnly, err := engine.DelayedRetirement(params, ref, 67, DelayOptions{BaseSickDays: true})
	require.NoError(t, err)
	extOnly, err := engine.DelayedRetirement(params, ref, 67, DelayOptions{ExtensionSickDays: true})
	require.NoError(t, err)

	assert.True(t, baseOnly.BaseTotal.LessThan(none.BaseTotal))
	assert.True(t, baseOnly.ExtensionTotal.Equal(none.ExtensionTotal))
	assert.True(t, extOnly.BaseTotal.Equal(none.BaseTotal))
	assert.True(t, extOnly.ExtensionTotal.LessThan(none.ExtensionTotal))
}

func TestDelayedRetirement_ExtensionContinuesSalaryTrajectory(t *testing.T) {
	engine := zeroInflationEngine()
	ref := testRef()
	for year := 2020; year < 2060; year++ {
		ref.WageGrowth[year] = decimal.NewFromFloat(0.02)
	}

	result, err := engine.DelayedRetirement(testParams(), ref, 66, DelayOptions{})
	require.NoError(t, err)

	final := engine.IndexAmount(decimal.NewFromInt(6500), 2020, 2055, ref, false)
	expected := roundMoney(final.Mul(decimalTwelve).Mul(engine.Assumptions.ContributionRate))
	assert.Equal(t, expected.StringFixed(2), result.ExtensionTotal.StringFixed(2))
}

func TestDelayedRetirement_Errors(t *testing.T) {
	engine := zeroInflationEngine()

	_, err := engine.DelayedRetirement(testParams(), testRef(), 65, DelayOptions{})
	assert.True(t, errors.Is(err, ErrInvalidParameters), "delayed age must exceed base age")

	_, err = engine.DelayedRetirement(testParams(), testRef(), 95, DelayOptions{})
	assert.True(t, errors.Is(err, ErrOutOfRange))

	_, err = engine.DelayedRetirementByYear(testParams(), testRef(), 2055, DelayOptions{})
	assert.True(t, errors.Is(err, ErrInvalidParameters))

	params := testParams()
	params.YearRetirement = 2010
	_, err = engine.DelayedRetirement(params, testRef(), 70, DelayOptions{})
	assert.True(t, errors.Is(err, ErrInvalidParameters))
}

func TestDelayedRetirement_MonotonicOverTestTables(t *testing.T) {
	engine := NewEngine()
	ref := testRef()
	for year := 2020; year < 2080; year++ {
		ref.WageGrowth[year] = decimal.NewFromFloat(0.03)
		ref.AverageSalary[year] = decimal.NewFromInt(int64(7000 + 150*(year-2020)))
	}

	previous := decimal.Zero
	for age := 66; age <= 90; age++ {
		result, err := engine.DelayedRetirement(testParams(), ref, age, DelayOptions{BaseSickDays: true, ExtensionSickDays: true})
		require.NoError(t, err)
		assert.True(t, result.MonthlyPension.GreaterThanOrEqual(previous), "age %d: %s < %s", age, result.MonthlyPension, previous)
		previous = result.MonthlyPension
	}
}
