package compare

import (
	"fmt"

	"github.com/rgehrsitz/pengo/internal/domain"
	"github.com/shopspring/decimal"
)

// ComparisonResult represents a single what-if projection with calculated metrics
type ComparisonResult struct {
	ScenarioName string                   `json:"scenarioName"`
	Description  string                   `json:"description"`
	Report       *domain.ProjectionReport `json:"-"`

	// Key Metrics
	MonthlyPension  decimal.Decimal `json:"monthlyPension"`
	RealPension     decimal.Decimal `json:"realPension"`
	AccountTotal    decimal.Decimal `json:"accountTotal"`
	FinalSalary     decimal.Decimal `json:"finalSalary"`
	ReplacementRate int             `json:"replacementRate"`
	Warnings        int             `json:"warnings"`

	// Comparison to Base
	PensionDiffFromBase      decimal.Decimal `json:"pensionDiffFromBase"`
	PensionPctFromBase       decimal.Decimal `json:"pensionPctFromBase"`
	ReplacementRateDiff      int             `json:"replacementRateDiff"`
	AccountTotalDiffFromBase decimal.Decimal `json:"accountTotalDiffFromBase"`

	// Input specifics (extracted for display)
	RetirementYear  int  `json:"retirementYear"`
	RetirementAge   int  `json:"retirementAge"`
	IncludeSickDays bool `json:"includeSickDays"`
}

// ComparisonSet represents a collection of what-if comparisons
type ComparisonSet struct {
	BaseScenarioName   string             `json:"baseScenarioName"`
	BaseResult         *ComparisonResult  `json:"baseResult"`
	AlternativeResults []ComparisonResult `json:"alternativeResults"`
	Recommendations    []string           `json:"recommendations"`
	InputPath          string             `json:"inputPath"`
}

// MetricsCalculator extracts key metrics from projection reports
type MetricsCalculator struct{}

// NewMetricsCalculator creates a new metrics calculator
func NewMetricsCalculator() *MetricsCalculator {
	return &MetricsCalculator{}
}

// CalculateMetrics computes all comparison metrics for a report. The pension
// figures follow the report's sick-day setting.
func (mc *MetricsCalculator) CalculateMetrics(name string, report *domain.ProjectionReport) ComparisonResult {
	result := ComparisonResult{
		ScenarioName:    name,
		Report:          report,
		MonthlyPension:  report.SickAdjustedMonthly,
		AccountTotal:    report.SickAdjustedTotal,
		FinalSalary:     report.FinalSalary,
		ReplacementRate: report.ReplacementRate,
		RetirementYear:  report.Parameters.YearRetirement,
		RetirementAge:   report.RetirementAge,
		IncludeSickDays: report.IncludeSickDays,
	}

	result.RealPension = report.RealMonthly
	if report.IncludeSickDays && !report.IndexedMonthly.IsZero() {
		// Scale the real figure by the same sick-day ratio as the nominal one
		result.RealPension = report.RealMonthly.Mul(report.SickAdjustedMonthly).Div(report.IndexedMonthly).Round(2)
	}

	for _, n := range report.Notices {
		if n.Level == domain.NoticeWarning {
			result.Warnings++
		}
	}

	return result
}

// CalculateComparison computes comparison metrics between a scenario and a base
func (mc *MetricsCalculator) CalculateComparison(scenario, base ComparisonResult) ComparisonResult {
	scenario.PensionDiffFromBase = scenario.MonthlyPension.Sub(base.MonthlyPension)

	if !base.MonthlyPension.IsZero() {
		scenario.PensionPctFromBase = scenario.PensionDiffFromBase.
			Div(base.MonthlyPension).
			Mul(decimal.NewFromInt(100)).
			Round(2)
	}

	scenario.ReplacementRateDiff = scenario.ReplacementRate - base.ReplacementRate
	scenario.AccountTotalDiffFromBase = scenario.AccountTotal.Sub(base.AccountTotal)

	return scenario
}

// GenerateRecommendations creates recommendations based on comparison results
func GenerateRecommendations(compSet *ComparisonSet) []string {
	recommendations := []string{}

	if len(compSet.AlternativeResults) == 0 || compSet.BaseResult == nil {
		return recommendations
	}

	// Find best scenario by monthly pension
	bestPension := compSet.BaseResult
	for i := range compSet.AlternativeResults {
		alt := &compSet.AlternativeResults[i]
		if alt.MonthlyPension.GreaterThan(bestPension.MonthlyPension) {
			bestPension = alt
		}
	}

	if bestPension != compSet.BaseResult {
		diff := bestPension.MonthlyPension.Sub(compSet.BaseResult.MonthlyPension)
		recommendations = append(recommendations,
			"Best Pension: "+bestPension.ScenarioName+" pays "+diff.StringFixed(2)+
				" PLN more per month than the base projection")
	}

	// Find best replacement rate
	bestRate := compSet.BaseResult
	for i := range compSet.AlternativeResults {
		alt := &compSet.AlternativeResults[i]
		if alt.ReplacementRate > bestRate.ReplacementRate {
			bestRate = alt
		}
	}

	if bestRate != compSet.BaseResult {
		recommendations = append(recommendations,
			"Best Replacement Rate: "+bestRate.ScenarioName+" raises it to "+
				fmt.Sprintf("%d%% (+%d points)", bestRate.ReplacementRate, bestRate.ReplacementRate-compSet.BaseResult.ReplacementRate))
	}

	// Flag the costliest change
	worst := compSet.BaseResult
	for i := range compSet.AlternativeResults {
		alt := &compSet.AlternativeResults[i]
		if alt.MonthlyPension.LessThan(worst.MonthlyPension) {
			worst = alt
		}
	}

	if worst != compSet.BaseResult {
		loss := compSet.BaseResult.MonthlyPension.Sub(worst.MonthlyPension)
		recommendations = append(recommendations,
			"Largest Loss: "+worst.ScenarioName+" lowers the pension by "+loss.StringFixed(2)+" PLN per month")
	}

	return recommendations
}
