package compare

import (
	"context"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/rgehrsitz/pengo/internal/calculation"
	"github.com/rgehrsitz/pengo/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// baseInput projects 6500/month for 2020-2055 without inflation: 2327.06 at 65
func baseInput() *domain.ProjectionInput {
	return &domain.ProjectionInput{
		Name: "worker",
		Parameters: domain.ProjectionParameters{
			MonthlyIncome:  decimal.NewFromInt(6500),
			YearWorkStart:  2020,
			YearRetirement: 2055,
			Gender:         domain.GenderMale,
		},
		Assumptions: &domain.Assumptions{ZeroInflation: true},
	}
}

func testRef() *domain.ReferenceData {
	table := domain.LifeExpectancyTable{}
	for age := 60; age <= 90; age++ {
		table[age] = decimal.NewFromInt(int64(264 - 7*(age-60)))
	}
	return &domain.ReferenceData{LifeExpectancy: table}
}

func runTemplates(t *testing.T) *ComparisonSet {
	t.Helper()
	engine := NewCompareEngine(calculation.NewEngine())
	set, err := engine.Compare(context.Background(), baseInput(), testRef(), CompareOptions{
		Templates: []string{"postpone_1yr", "raise_10pct", "with_sick_leave"},
		InputPath: "worker.yaml",
	})
	require.NoError(t, err)
	return set
}

func TestCompare_Templates(t *testing.T) {
	set := runTemplates(t)

	assert.Equal(t, "worker", set.BaseScenarioName)
	require.NotNil(t, set.BaseResult)
	assert.Equal(t, "2327.06", set.BaseResult.MonthlyPension.StringFixed(2))
	assert.Equal(t, "532896.00", set.BaseResult.AccountTotal.StringFixed(2))
	assert.Equal(t, 36, set.BaseResult.ReplacementRate)
	assert.Equal(t, 65, set.BaseResult.RetirementAge)

	require.Len(t, set.AlternativeResults, 3)

	postpone := set.AlternativeResults[0]
	assert.Equal(t, "worker_postpone_1yr", postpone.ScenarioName)
	assert.Equal(t, "Postpone retirement by 1 year", postpone.Description)
	assert.Equal(t, 2056, postpone.RetirementYear)
	assert.Equal(t, 66, postpone.RetirementAge)
	assert.Equal(t, "2469.02", postpone.MonthlyPension.StringFixed(2))
	assert.Equal(t, "141.96", postpone.PensionDiffFromBase.StringFixed(2))
	assert.Equal(t, 2, postpone.ReplacementRateDiff)

	raise := set.AlternativeResults[1]
	assert.Equal(t, "2559.76", raise.MonthlyPension.StringFixed(2))
	assert.Equal(t, "232.70", raise.PensionDiffFromBase.StringFixed(2))
	assert.Equal(t, "10.00", raise.PensionPctFromBase.StringFixed(2))

	sick := set.AlternativeResults[2]
	assert.True(t, sick.IncludeSickDays)
	assert.Equal(t, "2027.36", sick.MonthlyPension.StringFixed(2))
	assert.Equal(t, "2027.36", sick.RealPension.StringFixed(2))
	assert.True(t, sick.PensionDiffFromBase.IsNegative())
}

func TestCompare_Recommendations(t *testing.T) {
	set := runTemplates(t)

	require.Len(t, set.Recommendations, 3)
	assert.Equal(t, "Best Pension: worker_raise_10pct pays 232.70 PLN more per month than the base projection", set.Recommendations[0])
	assert.Equal(t, "Best Replacement Rate: worker_postpone_1yr raises it to 38% (+2 points)", set.Recommendations[1])
	assert.Equal(t, "Largest Loss: worker_with_sick_leave lowers the pension by 299.70 PLN per month", set.Recommendations[2])

	assert.Empty(t, GenerateRecommendations(&ComparisonSet{BaseResult: set.BaseResult}))
}

func TestCompare_Transforms(t *testing.T) {
	engine := NewCompareEngine(calculation.NewEngine())
	set, err := engine.Compare(context.Background(), baseInput(), testRef(), CompareOptions{
		Transforms: []string{"set_income:amount=9000"},
	})
	require.NoError(t, err)
	require.Len(t, set.AlternativeResults, 1)
	assert.Equal(t, "worker_set_income", set.AlternativeResults[0].ScenarioName)
	assert.Equal(t, "3222.08", set.AlternativeResults[0].MonthlyPension.StringFixed(2))
}

func TestCompare_Errors(t *testing.T) {
	engine := NewCompareEngine(calculation.NewEngine())
	ctx := context.Background()

	_, err := engine.Compare(ctx, nil, testRef(), CompareOptions{})
	assert.Error(t, err)

	_, err = engine.Compare(ctx, baseInput(), testRef(), CompareOptions{Templates: []string{"win_lottery"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "template win_lottery not found")

	_, err = engine.Compare(ctx, baseInput(), testRef(), CompareOptions{Transforms: []string{"set_income"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid transform")

	_, err = engine.Compare(ctx, baseInput(), &domain.ReferenceData{}, CompareOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, calculation.ErrMissingReferenceData)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = engine.Compare(cancelled, baseInput(), testRef(), CompareOptions{Templates: []string{"postpone_1yr"}})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCompareInputs(t *testing.T) {
	engine := NewCompareEngine(calculation.NewEngine())

	alt := baseInput()
	alt.Parameters.MonthlyIncome = decimal.NewFromInt(7150)
	other := baseInput()
	other.Name = "colleague"

	set, err := engine.CompareInputs(context.Background(), baseInput(), []*domain.ProjectionInput{alt, other}, testRef())
	require.NoError(t, err)
	require.Len(t, set.AlternativeResults, 2)
	assert.Equal(t, "worker_1", set.AlternativeResults[0].ScenarioName)
	assert.Equal(t, "232.70", set.AlternativeResults[0].PensionDiffFromBase.StringFixed(2))
	assert.Equal(t, "colleague", set.AlternativeResults[1].ScenarioName)
	assert.True(t, set.AlternativeResults[1].PensionDiffFromBase.IsZero())
}

func TestFormatters(t *testing.T) {
	set := runTemplates(t)

	table := (&TableFormatter{}).Format(set)
	assert.Contains(t, table, "PENSION PROJECTION COMPARISON")
	assert.Contains(t, table, "worker (base)")
	assert.Contains(t, table, "Input:           worker.yaml")
	assert.Contains(t, table, "Monthly Pension:  +232.70 PLN (+10.0%)")
	assert.Contains(t, table, "Replacement Rate: +2 points")
	assert.Contains(t, table, "RECOMMENDATIONS")

	compact := (&TableFormatter{}).FormatCompact(set)
	assert.True(t, strings.HasPrefix(compact, "Base: worker | "))
	assert.Contains(t, compact, "worker_raise_10pct: +232.70")
	assert.Contains(t, compact, "worker_with_sick_leave: -299.70")

	out, err := (&CSVFormatter{}).Format(set)
	require.NoError(t, err)
	rows, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 5)
	assert.Equal(t, "Scenario", rows[0][0])
	assert.Equal(t, []string{"worker", "base", "2055", "65", "2327.06"}, rows[1][:5])
	assert.Equal(t, "alternative", rows[2][1])

	js, err := (&JSONFormatter{Pretty: true}).Format(set)
	require.NoError(t, err)
	var decoded struct {
		BaseScenarioName   string `json:"baseScenarioName"`
		AlternativeResults []struct {
			ScenarioName   string `json:"scenarioName"`
			MonthlyPension string `json:"monthlyPension"`
		} `json:"alternativeResults"`
	}
	require.NoError(t, json.Unmarshal([]byte(js), &decoded))
	assert.Equal(t, "worker", decoded.BaseScenarioName)
	require.Len(t, decoded.AlternativeResults, 3)
	assert.Equal(t, "2469.02", decoded.AlternativeResults[0].MonthlyPension)
	assert.NotContains(t, js, "generatedAt")
	assert.True(t, strings.HasSuffix(js, "}\n"))

	flat, err := (&JSONFormatter{}).Format(set)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(flat, "\n"), "compact JSON is a single line")

	_, err = (&JSONFormatter{}).Format(nil)
	assert.Error(t, err)
}
