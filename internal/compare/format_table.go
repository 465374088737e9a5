package compare

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
)

// TableFormatter formats comparison results as a console table
type TableFormatter struct{}

// Format generates a formatted table comparing projections
func (tf *TableFormatter) Format(compSet *ComparisonSet) string {
	var sb strings.Builder

	sb.WriteString("PENSION PROJECTION COMPARISON\n")
	sb.WriteString(strings.Repeat("=", 80) + "\n")
	sb.WriteString(fmt.Sprintf("Base Projection: %s\n", compSet.BaseScenarioName))
	if compSet.InputPath != "" {
		sb.WriteString(fmt.Sprintf("Input:           %s\n", compSet.InputPath))
	}
	sb.WriteString("\n")

	nameWidth := 28
	numWidth := 12

	sb.WriteString(fmt.Sprintf("%-*s %*s %*s %*s %*s %*s\n",
		nameWidth, "Scenario",
		6, "Retire",
		numWidth, "Pension",
		numWidth, "Real",
		numWidth, "Account",
		6, "Rate"))
	sb.WriteString(strings.Repeat("-", 80) + "\n")

	if compSet.BaseResult != nil {
		sb.WriteString(tf.formatRow(compSet.BaseResult, nameWidth, numWidth, true))
	}

	if len(compSet.AlternativeResults) > 0 {
		sb.WriteString(strings.Repeat("-", 80) + "\n")
		for i := range compSet.AlternativeResults {
			sb.WriteString(tf.formatRow(&compSet.AlternativeResults[i], nameWidth, numWidth, false))
		}
	}

	sb.WriteString(strings.Repeat("=", 80) + "\n")

	if len(compSet.AlternativeResults) > 0 {
		sb.WriteString("\nCOMPARISON TO BASE\n")
		sb.WriteString(strings.Repeat("-", 80) + "\n")

		for _, alt := range compSet.AlternativeResults {
			sb.WriteString(fmt.Sprintf("\n%s:\n", alt.ScenarioName))
			if alt.Description != "" {
				sb.WriteString(fmt.Sprintf("  %s\n", alt.Description))
			}

			sb.WriteString(fmt.Sprintf("  Monthly Pension:  %s%s PLN (%s%s%%)\n",
				tf.deltaSymbol(alt.PensionDiffFromBase),
				alt.PensionDiffFromBase.StringFixed(2),
				tf.deltaSymbol(alt.PensionPctFromBase),
				alt.PensionPctFromBase.StringFixed(1)))

			if alt.ReplacementRateDiff != 0 {
				symbol := "+"
				if alt.ReplacementRateDiff < 0 {
					symbol = ""
				}
				sb.WriteString(fmt.Sprintf("  Replacement Rate: %s%d points\n", symbol, alt.ReplacementRateDiff))
			}
		}
		sb.WriteString("\n")
	}

	if len(compSet.Recommendations) > 0 {
		sb.WriteString("\nRECOMMENDATIONS\n")
		sb.WriteString(strings.Repeat("-", 80) + "\n")
		for _, rec := range compSet.Recommendations {
			sb.WriteString(fmt.Sprintf("• %s\n", rec))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// formatRow formats a single scenario row
func (tf *TableFormatter) formatRow(result *ComparisonResult, nameWidth, numWidth int, isBase bool) string {
	name := result.ScenarioName
	if isBase {
		name += " (base)"
	}

	return fmt.Sprintf("%-*s %*d %*s %*s %*s %*s\n",
		nameWidth, tf.truncate(name, nameWidth),
		6, result.RetirementYear,
		numWidth, result.MonthlyPension.StringFixed(2),
		numWidth, result.RealPension.StringFixed(2),
		numWidth, tf.formatDecimal(result.AccountTotal),
		6, fmt.Sprintf("%d%%", result.ReplacementRate))
}

// formatDecimal abbreviates large amounts
func (tf *TableFormatter) formatDecimal(d decimal.Decimal) string {
	if d.Abs().GreaterThanOrEqual(decimal.NewFromInt(1000000)) {
		millions := d.Div(decimal.NewFromInt(1000000))
		return millions.StringFixed(2) + "M"
	} else if d.Abs().GreaterThanOrEqual(decimal.NewFromInt(1000)) {
		thousands := d.Div(decimal.NewFromInt(1000))
		return thousands.StringFixed(1) + "K"
	}
	return d.StringFixed(0)
}

// deltaSymbol returns + for gains; negative numbers carry their own sign
func (tf *TableFormatter) deltaSymbol(delta decimal.Decimal) string {
	if delta.IsPositive() {
		return "+"
	}
	return ""
}

// truncate truncates a string to maxLen
func (tf *TableFormatter) truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

// FormatCompact creates a compact single-line summary for each scenario
func (tf *TableFormatter) FormatCompact(compSet *ComparisonSet) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Base: %s | ", compSet.BaseScenarioName))

	for i, alt := range compSet.AlternativeResults {
		if i > 0 {
			sb.WriteString(" | ")
		}
		change := "="
		if alt.PensionDiffFromBase.IsPositive() {
			change = "+" + alt.PensionDiffFromBase.StringFixed(2)
		} else if alt.PensionDiffFromBase.IsNegative() {
			change = alt.PensionDiffFromBase.StringFixed(2)
		}

		sb.WriteString(fmt.Sprintf("%s: %s", alt.ScenarioName, change))
	}

	return sb.String()
}

// JSONFormatter writes the comparison set as a single newline-terminated
// JSON document. Amounts keep full decimal precision as strings.
type JSONFormatter struct {
	Pretty bool
}

func (jf *JSONFormatter) Format(compSet *ComparisonSet) (string, error) {
	if compSet == nil {
		return "", errors.New("no comparison to format")
	}
	encode := json.Marshal
	if jf.Pretty {
		encode = func(v any) ([]byte, error) { return json.MarshalIndent(v, "", "  ") }
	}
	data, err := encode(compSet)
	if err != nil {
		return "", fmt.Errorf("encode comparison %s: %w", compSet.BaseScenarioName, err)
	}
	return string(data) + "\n", nil
}
