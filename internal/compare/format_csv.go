package compare

import (
	"encoding/csv"
	"strconv"
	"strings"
)

// CSVFormatter formats comparison results as CSV
type CSVFormatter struct{}

// Format generates CSV output for comparison results
func (cf *CSVFormatter) Format(compSet *ComparisonSet) (string, error) {
	var sb strings.Builder
	writer := csv.NewWriter(&sb)

	header := []string{
		"Scenario",
		"Type",
		"Retirement Year",
		"Retirement Age",
		"Monthly Pension",
		"Real Pension",
		"Account Total",
		"Replacement Rate",
		"Pension Diff from Base",
		"Pension % Change",
		"Replacement Rate Diff",
	}
	if err := writer.Write(header); err != nil {
		return "", err
	}

	if compSet.BaseResult != nil {
		if err := writer.Write(cf.formatRow(compSet.BaseResult, "base")); err != nil {
			return "", err
		}
	}

	for i := range compSet.AlternativeResults {
		if err := writer.Write(cf.formatRow(&compSet.AlternativeResults[i], "alternative")); err != nil {
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", err
	}

	return sb.String(), nil
}

// formatRow formats a comparison result as a CSV row
func (cf *CSVFormatter) formatRow(result *ComparisonResult, scenarioType string) []string {
	return []string{
		result.ScenarioName,
		scenarioType,
		strconv.Itoa(result.RetirementYear),
		strconv.Itoa(result.RetirementAge),
		result.MonthlyPension.StringFixed(2),
		result.RealPension.StringFixed(2),
		result.AccountTotal.StringFixed(2),
		strconv.Itoa(result.ReplacementRate),
		result.PensionDiffFromBase.StringFixed(2),
		result.PensionPctFromBase.StringFixed(2),
		strconv.Itoa(result.ReplacementRateDiff),
	}
}
