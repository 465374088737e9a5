package calculation

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/rgehrsitz/pengo/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// zeroInflationEngine isolates contribution arithmetic from compounding
func zeroInflationEngine() *Engine {
	return NewEngineWithAssumptions(domain.Assumptions{ZeroInflation: true})
}

// testParams is the reference worker: 6500/month from 2020, retiring in 2055 at 65
func testParams() domain.ProjectionParameters {
	return domain.ProjectionParameters{
		MonthlyIncome:  decimal.NewFromInt(6500),
		YearWorkStart:  2020,
		YearRetirement: 2055,
		Gender:         domain.GenderMale,
	}
}

// lifeExpectancy shrinks by seven months per year of age: 264 at 60, 54 at 90
func lifeExpectancy() domain.LifeExpectancyTable {
	table := domain.LifeExpectancyTable{}
	for age := 60; age <= 90; age++ {
		table[age] = decimal.NewFromInt(int64(264 - 7*(age-60)))
	}
	return table
}

func testRef() *domain.ReferenceData {
	return &domain.ReferenceData{
		WageGrowth:     domain.WageGrowthTable{},
		AverageSalary:  domain.AverageSalaryTable{},
		LifeExpectancy: lifeExpectancy(),
	}
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestNewEngine(t *testing.T) {
	engine := NewEngine()

	assert.NotNil(t, engine)
	assert.IsType(t, NopLogger{}, engine.Logger)
	assert.True(t, engine.Assumptions.ContributionRate.Equal(dec("0.1952")))
	assert.True(t, engine.Assumptions.InflationRate.Equal(dec("0.025")))
	assert.True(t, engine.Assumptions.DefaultSickDaysPerYear.Equal(decimal.NewFromInt(34)))
	assert.Equal(t, 65, engine.Assumptions.RetirementAgeMale)
	assert.Equal(t, 60, engine.Assumptions.RetirementAgeFemale)
}

func TestNewEngineWithAssumptions_PartialOverride(t *testing.T) {
	engine := NewEngineWithAssumptions(domain.Assumptions{ContributionRate: dec("0.15"), ZeroInflation: true})

	assert.True(t, engine.Assumptions.ContributionRate.Equal(dec("0.15")))
	assert.True(t, engine.Assumptions.InflationRate.IsZero())
	assert.True(t, engine.Assumptions.WorkingDaysPerMonth.Equal(decimal.NewFromInt(22)))
	assert.Equal(t, 90, engine.Assumptions.MaxAnnuityAge)
}

func TestEngine_SetLogger(t *testing.T) {
	engine := NewEngine()

	customLogger := &TestLogger{}
	engine.SetLogger(customLogger)
	assert.Equal(t, customLogger, engine.Logger)

	engine.SetLogger(nil)
	assert.IsType(t, NopLogger{}, engine.Logger)
}

func TestEngine_WithSickDaysPerYear_DoesNotMutateOriginal(t *testing.T) {
	engine := NewEngine()
	clone := engine.WithSickDaysPerYear(decimal.NewFromInt(10))

	assert.True(t, clone.Assumptions.DefaultSickDaysPerYear.Equal(decimal.NewFromInt(10)))
	assert.True(t, engine.Assumptions.DefaultSickDaysPerYear.Equal(decimal.NewFromInt(34)))
}

func TestEngine_RetirementAge(t *testing.T) {
	engine := NewEngine()
	params := testParams()

	assert.Equal(t, 65, engine.RetirementAge(params))
	params.Gender = domain.GenderFemale
	assert.Equal(t, 60, engine.RetirementAge(params))
}

func TestValidation_RejectsBeforeTableLookup(t *testing.T) {
	engine := zeroInflationEngine()
	logger := &TestLogger{}
	engine.SetLogger(logger)

	tests := []struct {
		name   string
		mutate func(*domain.ProjectionParameters)
	}{
		{"retirement before start", func(p *domain.ProjectionParameters) { p.YearRetirement = 2019 }},
		{"retirement equals start", func(p *domain.ProjectionParameters) { p.YearRetirement = p.YearWorkStart }},
		{"zero income", func(p *domain.ProjectionParameters) { p.MonthlyIncome = decimal.Zero }},
		{"negative income", func(p *domain.ProjectionParameters) { p.MonthlyIncome = decimal.NewFromInt(-1) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := testParams()
			tt.mutate(&params)

			_, err := engine.TotalAccumulation(params, nil, false)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidParameters))

			_, err = engine.ProjectTimeline(params, nil, nil, TimelineOptions{})
			assert.True(t, errors.Is(err, ErrInvalidParameters))

			_, err = engine.FinalSalary(params, nil)
			assert.True(t, errors.Is(err, ErrInvalidParameters))
		})
	}

	assert.Empty(t, logger.messages, "validation must fail before any table is consulted")
}

func TestProjectionError(t *testing.T) {
	cause := fmt.Errorf("bad date")
	err := &ProjectionError{Op: "build_report", Kind: ErrInvalidParameters, Message: "bad timeline event", Cause: cause}

	assert.True(t, errors.Is(err, ErrInvalidParameters))
	assert.False(t, errors.Is(err, ErrOutOfRange))
	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, "build_report: invalid parameters: bad timeline event: bad date", err.Error())

	var pe *ProjectionError
	wrapped := fmt.Errorf("calculate: %w", NewTargetUnreachable("solve", "gave up at %d", 90))
	require.True(t, errors.As(wrapped, &pe))
	assert.Equal(t, "solve", pe.Op)
	assert.True(t, errors.Is(wrapped, ErrTargetUnreachable))
}

func TestGrowthRate(t *testing.T) {
	engine := NewEngine()
	ref := &domain.ReferenceData{WageGrowth: domain.WageGrowthTable{2020: dec("0.05")}}

	assert.True(t, engine.GrowthRate(2020, ref, false).Equal(dec("0.05")))
	assert.True(t, engine.GrowthRate(2020, ref, true).Equal(dec("0.075")))
	assert.True(t, engine.GrowthRate(2021, ref, false).IsZero(), "missing year falls back to zero growth")
	assert.True(t, engine.GrowthRate(2021, ref, true).Equal(dec("0.025")))
}

func TestIndexAmount(t *testing.T) {
	engine := NewEngine()
	ref := &domain.ReferenceData{WageGrowth: domain.WageGrowthTable{2020: dec("0.05"), 2021: dec("0.10")}}
	amount := decimal.NewFromInt(1000)

	assert.True(t, engine.IndexAmount(amount, 2020, 2022, ref, false).Equal(dec("1155")))
	assert.True(t, engine.IndexAmount(amount, 2020, 2022, ref, true).Equal(dec("1209.375")))
	assert.True(t, engine.IndexAmount(amount, 2022, 2020, ref, true).Equal(amount), "inverted range is a no-op")
	assert.True(t, engine.IndexAmount(amount, 2020, 2020, ref, true).Equal(amount))
}

func TestIndexAmount_MissingYearWarnsOnce(t *testing.T) {
	engine := NewEngine()
	logger := &TestLogger{}
	engine.SetLogger(logger)

	engine.IndexAmount(decimal.NewFromInt(1000), 2030, 2033, nil, false)

	assert.Equal(t, 3, logger.count("WARN:"), "one warning per missing year")
}

func TestFinalSalary(t *testing.T) {
	engine := NewEngine()
	params := testParams()
	params.YearRetirement = 2022
	ref := &domain.ReferenceData{WageGrowth: domain.WageGrowthTable{2020: dec("0.05"), 2021: dec("0.10")}}

	final, err := engine.FinalSalary(params, ref)
	require.NoError(t, err)
	assert.Equal(t, "7507.50", final.StringFixed(2), "inflation is not part of the final salary")
}

// TestLogger is a test implementation of Logger
type TestLogger struct {
	messages []string
}

func (tl *TestLogger) Debugf(format string, args ...any) {
	tl.messages = append(tl.messages, "DEBUG: "+fmt.Sprintf(format, args...))
}

func (tl *TestLogger) Infof(format string, args ...any) {
	tl.messages = append(tl.messages, "INFO: "+fmt.Sprintf(format, args...))
}

func (tl *TestLogger) Warnf(format string, args ...any) {
	tl.messages = append(tl.messages, "WARN: "+fmt.Sprintf(format, args...))
}

func (tl *TestLogger) Errorf(format string, args ...any) {
	tl.messages = append(tl.messages, "ERROR: "+fmt.Sprintf(format, args...))
}

func (tl *TestLogger) count(prefix string) int {
	n := 0
	for _, m := range tl.messages {
		if strings.HasPrefix(m, prefix) {
			n++
		}
	}
	return n
}
