package calculation

import (
	"errors"
	"testing"

	"github.com/rgehrsitz/pengo/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testInput() *domain.ProjectionInput {
	target := decimal.NewFromInt(2400)
	deposit := decimal.NewFromInt(1000)
	return &domain.ProjectionInput{
		Name:       "reference worker",
		Parameters: testParams(),
		Options: domain.ProjectionOptions{
			TargetPension:   &target,
			IncludeTimeline: true,
		},
		Events: []domain.EventSpec{
			{Type: "subAccountDeposit", Date: "2030-06-01", Amount: &deposit},
		},
		Assumptions: &domain.Assumptions{ZeroInflation: true},
		Age:         30,
		PostalCode:  "00-950",
	}
}

func TestBuildReport(t *testing.T) {
	engine := NewEngine()

	report, err := engine.BuildReport(testInput(), testRef())
	require.NoError(t, err)

	assert.Equal(t, "reference worker", report.Name)
	assert.Equal(t, 65, report.RetirementAge)
	assert.Equal(t, "6500.00", report.FinalSalary.StringFixed(2))
	assert.Equal(t, "532896.00", report.IndexedTotal.StringFixed(2))
	assert.Equal(t, "2327.06", report.IndexedMonthly.StringFixed(2))
	assert.Equal(t, "2327.06", report.RealMonthly.StringFixed(2), "no inflation to discount")
	assert.True(t, report.SickAdjustedTotal.Equal(report.IndexedTotal))
	assert.Equal(t, 36, report.ReplacementRate)

	require.NotNil(t, report.Delayed)
	assert.Equal(t, 70, report.Delayed.DelayedAge)
	assert.Equal(t, "3139.30", report.Delayed.MonthlyPension.StringFixed(2))

	require.NotNil(t, report.Target)
	assert.Equal(t, 1, report.Target.YearsNeeded)

	require.NotNil(t, report.Timeline)
	assert.Len(t, report.Timeline.Balances, 35)
	assert.Equal(t, "1000.00", report.Timeline.TotalSubBalance.StringFixed(2))
	assert.False(t, report.GeneratedAt.IsZero())
}

func TestBuildReport_SickDays(t *testing.T) {
	input := testInput()
	input.Options.IncludeSickDays = true
	days := decimal.NewFromInt(10)
	input.Options.SickDaysPerYear = &days

	report, err := NewEngine().BuildReport(input, testRef())
	require.NoError(t, err)

	assert.True(t, report.SickAdjustedTotal.LessThan(report.IndexedTotal))
	assert.True(t, report.SickAdjustedMonthly.LessThan(report.IndexedMonthly))
	y2021, ok := BalanceAt(report.Timeline.Balances, 2021)
	require.True(t, ok)
	assert.Equal(t, "10", y2021.SickDays.String(), "override replaces the default average")
}

func TestBuildReport_DegradesToNotices(t *testing.T) {
	input := testInput()
	input.Options.DelayYears = 30
	unreachable := decimal.NewFromInt(1_000_000)
	input.Options.TargetPension = &unreachable

	report, err := NewEngine().BuildReport(input, testRef())
	require.NoError(t, err)

	assert.Nil(t, report.Delayed)
	assert.Nil(t, report.Target)

	codes := map[string]bool{}
	for _, n := range report.Notices {
		codes[n.Code] = true
	}
	assert.True(t, codes[domain.CodeDelayedOutOfRange])
	assert.True(t, codes[domain.CodeTargetUnreachable])
	assert.True(t, codes[domain.CodeMissingWageGrowth])
}

func TestBuildReport_Errors(t *testing.T) {
	engine := NewEngine()

	_, err := engine.BuildReport(nil, testRef())
	assert.True(t, errors.Is(err, ErrInvalidParameters))

	input := testInput()
	input.Parameters.Gender = "other"
	_, err = engine.BuildReport(input, testRef())
	assert.True(t, errors.Is(err, ErrInvalidParameters))

	input = testInput()
	input.Parameters.YearRetirement = 2019
	_, err = engine.BuildReport(input, testRef())
	assert.True(t, errors.Is(err, ErrInvalidParameters))

	input = testInput()
	input.Events = append(input.Events, domain.EventSpec{Type: "sickLeave", StartDate: "2030-02-01", EndDate: "2030-01-01"})
	_, err = engine.BuildReport(input, testRef())
	assert.True(t, errors.Is(err, ErrInvalidParameters))

	ref := testRef()
	delete(ref.LifeExpectancy, 65)
	_, err = engine.BuildReport(testInput(), ref)
	assert.True(t, errors.Is(err, ErrMissingReferenceData))
}

func TestUsageFor(t *testing.T) {
	input := testInput()
	report, err := NewEngine().BuildReport(input, testRef())
	require.NoError(t, err)

	usage := UsageFor(input, report)
	assert.Equal(t, 30, usage.Age)
	assert.Equal(t, domain.GenderMale, usage.Gender)
	assert.Equal(t, "2400", usage.ExpectedPension.String())
	assert.Equal(t, "00-950", usage.PostalCode)
	assert.True(t, usage.AccountFunds.Equal(report.SickAdjustedTotal))
	assert.Equal(t, report.GeneratedAt, usage.CreatedAt)
}

func TestRealValue(t *testing.T) {
	engine := NewEngine()

	assert.Equal(t, "1000.00", engine.RealValue(dec("1025"), 1).StringFixed(2))
	assert.Equal(t, "1025.00", engine.RealValue(dec("1025"), 0).StringFixed(2))
}
