package breakeven

import (
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
)

// TableFormatter formats optimization results as a console table
type TableFormatter struct{}

// Format generates a formatted table for optimization result
func (tf *TableFormatter) Format(result *OptimizationResult) string {
	var sb strings.Builder

	sb.WriteString("BREAK-EVEN OPTIMIZATION RESULTS\n")
	sb.WriteString(strings.Repeat("=", 80) + "\n")

	sb.WriteString(fmt.Sprintf("Optimization Target: %s\n", result.Target))
	sb.WriteString(fmt.Sprintf("Optimization Goal:   %s\n", result.Goal))
	sb.WriteString(fmt.Sprintf("Status:              %s\n", tf.formatStatus(result.Success)))
	sb.WriteString(fmt.Sprintf("Iterations:          %d\n", result.Iterations))
	if result.ConvergenceInfo != "" {
		sb.WriteString(fmt.Sprintf("Convergence:         %s\n", result.ConvergenceInfo))
	}
	sb.WriteString("\n")

	sb.WriteString("OPTIMAL PARAMETERS\n")
	sb.WriteString(strings.Repeat("-", 80) + "\n")
	if result.OptimalRetirementAge != nil {
		sb.WriteString(fmt.Sprintf("Retirement Age:      %d\n", *result.OptimalRetirementAge))
	}
	if result.OptimalDelayYears != nil {
		sb.WriteString(fmt.Sprintf("Extra Working Years: %d\n", *result.OptimalDelayYears))
	}
	if result.OptimalIncome != nil {
		sb.WriteString(fmt.Sprintf("Starting Income:     %s PLN\n", tf.formatCurrency(*result.OptimalIncome)))
	}
	if result.OptimalSickDays != nil {
		sb.WriteString(fmt.Sprintf("Sick Days per Year:  %d\n", *result.OptimalSickDays))
	}
	sb.WriteString("\n")

	sb.WriteString("PROJECTED RESULTS\n")
	sb.WriteString(strings.Repeat("-", 80) + "\n")
	sb.WriteString(fmt.Sprintf("Monthly Pension:     %s PLN\n", tf.formatCurrency(result.MonthlyPension)))
	sb.WriteString(fmt.Sprintf("Base Pension:        %s PLN\n", tf.formatCurrency(result.BasePension)))
	if !result.PensionDiffFromBase.IsZero() {
		sb.WriteString(fmt.Sprintf("Change vs Base:      %s%s PLN\n",
			tf.deltaSymbol(result.PensionDiffFromBase), tf.formatCurrency(result.PensionDiffFromBase)))
	}
	sb.WriteString("\n")

	if result.Goal == GoalMatchPension && result.TargetPension != nil {
		sb.WriteString("TARGET PENSION MATCH\n")
		sb.WriteString(strings.Repeat("-", 80) + "\n")
		sb.WriteString(fmt.Sprintf("Target Pension:   %s PLN\n", tf.formatCurrency(*result.TargetPension)))
		sb.WriteString(fmt.Sprintf("Achieved Pension: %s PLN\n", tf.formatCurrency(result.MonthlyPension)))
		diff := result.MonthlyPension.Sub(*result.TargetPension)
		sb.WriteString(fmt.Sprintf("Difference:       %s%s PLN\n", tf.deltaSymbol(diff), tf.formatCurrency(diff)))
		sb.WriteString("\n")
	}

	return sb.String()
}

// FormatMultiDimensional formats results from multiple optimizations
func (tf *TableFormatter) FormatMultiDimensional(result *MultiDimensionalResult) string {
	var sb strings.Builder

	sb.WriteString("MULTI-DIMENSIONAL OPTIMIZATION RESULTS\n")
	sb.WriteString(strings.Repeat("=", 80) + "\n\n")

	sb.WriteString("SUMMARY OF ALL OPTIMIZATIONS\n")
	sb.WriteString(strings.Repeat("-", 80) + "\n")
	sb.WriteString(fmt.Sprintf("%-20s %-20s %18s %15s\n", "Optimization", "Optimal Value", "Monthly Pension", "vs Base"))
	sb.WriteString(strings.Repeat("-", 80) + "\n")

	for _, res := range result.Results {
		sb.WriteString(fmt.Sprintf("%-20s %-20s %18s %15s\n",
			tf.truncate(string(res.Target), 20),
			tf.truncate(tf.optimalValue(res), 20),
			tf.formatCurrency(res.MonthlyPension),
			tf.deltaSymbol(res.PensionDiffFromBase)+tf.formatCurrency(res.PensionDiffFromBase)))
	}
	sb.WriteString("\n")

	if result.BestByPension != nil {
		sb.WriteString("BEST SCENARIO\n")
		sb.WriteString(strings.Repeat("-", 80) + "\n")
		sb.WriteString(fmt.Sprintf("Highest Pension: %s (%s PLN)\n",
			result.BestByPension.Target, tf.formatCurrency(result.BestByPension.MonthlyPension)))
		sb.WriteString("\n")
	}

	if len(result.Recommendations) > 0 {
		sb.WriteString("RECOMMENDATIONS\n")
		sb.WriteString(strings.Repeat("-", 80) + "\n")
		for _, rec := range result.Recommendations {
			sb.WriteString(fmt.Sprintf("• %s\n", rec))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// FormatSweep renders a target sweep as a table
func (tf *TableFormatter) FormatSweep(points []SweepPoint) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%15s %12s %10s %18s\n", "Target", "Extra Years", "Age", "Projected"))
	sb.WriteString(strings.Repeat("-", 58) + "\n")
	for _, p := range points {
		if !p.Reachable {
			sb.WriteString(fmt.Sprintf("%15s %12s %10s %18s\n", tf.formatCurrency(p.TargetPension), "-", "-", "unreachable"))
			continue
		}
		sb.WriteString(fmt.Sprintf("%15s %12d %10d %18s\n",
			tf.formatCurrency(p.TargetPension), p.YearsNeeded, p.FinalAge, tf.formatCurrency(p.ProjectedPension)))
	}
	return sb.String()
}

// JSONFormatter formats results as JSON
type JSONFormatter struct {
	Pretty bool
}

// Format generates JSON output
func (jf *JSONFormatter) Format(result *OptimizationResult) (string, error) {
	return jf.marshal(result)
}

// FormatMultiDimensional formats multi-dimensional results as JSON
func (jf *JSONFormatter) FormatMultiDimensional(result *MultiDimensionalResult) (string, error) {
	return jf.marshal(result)
}

// FormatSweep formats a target sweep as JSON
func (jf *JSONFormatter) FormatSweep(points []SweepPoint) (string, error) {
	return jf.marshal(points)
}

func (jf *JSONFormatter) marshal(v any) (string, error) {
	var data []byte
	var err error

	if jf.Pretty {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}

	if err != nil {
		return "", err
	}

	return string(data), nil
}

// Helper methods

func (tf *TableFormatter) optimalValue(res OptimizationResult) string {
	switch {
	case res.OptimalRetirementAge != nil:
		return fmt.Sprintf("retire at %d", *res.OptimalRetirementAge)
	case res.OptimalIncome != nil:
		return tf.formatCurrency(*res.OptimalIncome) + " PLN"
	case res.OptimalSickDays != nil:
		return fmt.Sprintf("%d days/yr", *res.OptimalSickDays)
	}
	return "-"
}

func (tf *TableFormatter) formatStatus(success bool) string {
	if success {
		return "✓ Converged"
	}
	return "⚠ Did not converge"
}

func (tf *TableFormatter) formatCurrency(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func (tf *TableFormatter) deltaSymbol(delta decimal.Decimal) string {
	if delta.IsPositive() {
		return "+"
	}
	return ""
}

func (tf *TableFormatter) truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
