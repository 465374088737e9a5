package output

import (
	"bytes"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/rgehrsitz/pengo/internal/domain"
	"github.com/shopspring/decimal"
)

// ConsoleFormatter prints the result-screen figures in a few lines
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console-lite" }

func (c ConsoleFormatter) Format(report *domain.ProjectionReport) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintln(&buf, "PENSION PROJECTION SUMMARY")
	fmt.Fprintln(&buf, "==========================")
	if report.Name != "" {
		fmt.Fprintf(&buf, "Name: %s\n", report.Name)
	}
	fmt.Fprintf(&buf, "Retirement: %d at age %d\n", report.Parameters.YearRetirement, report.RetirementAge)
	fmt.Fprintf(&buf, "Monthly Pension: %s\n", FormatCurrency(headlinePension(report)))
	fmt.Fprintf(&buf, "Real Value:      %s\n", FormatCurrency(report.RealMonthly))
	fmt.Fprintf(&buf, "Replacement Rate: %d%%\n", report.ReplacementRate)
	if report.Delayed != nil {
		fmt.Fprintf(&buf, "Retire at %d: %s (Δ %s)\n", report.Delayed.DelayedAge,
			FormatCurrency(report.Delayed.MonthlyPension),
			FormatCurrency(report.Delayed.MonthlyPension.Sub(headlinePension(report))))
	}
	if report.Target != nil {
		fmt.Fprintf(&buf, "Target %s: %s\n", FormatCurrency(report.Target.TargetPension), describeTarget(report.Target))
	}
	if n := countWarnings(report.Notices); n > 0 {
		fmt.Fprintf(&buf, "Warnings: %d\n", n)
	}

	return buf.Bytes(), nil
}

// JSONFormatter emits the full report as JSON
type JSONFormatter struct {
	Pretty bool
}

func (j JSONFormatter) Name() string { return "json" }

func (j JSONFormatter) Format(report *domain.ProjectionReport) ([]byte, error) {
	if j.Pretty {
		return json.MarshalIndent(report, "", "  ")
	}
	return json.Marshal(report)
}

// headlinePension is the figure the result screen leads with: sick-adjusted when
// sick days are included, otherwise the indexed pension
func headlinePension(report *domain.ProjectionReport) decimal.Decimal {
	if report.IncludeSickDays {
		return report.SickAdjustedMonthly
	}
	return report.IndexedMonthly
}

func describeTarget(gap *domain.TargetGap) string {
	if gap.YearsNeeded == 0 {
		return "already reached"
	}
	years := "years"
	if gap.YearsNeeded == 1 {
		years = "year"
	}
	return fmt.Sprintf("%d more %s of work (retire at %d, %s)", gap.YearsNeeded, years, gap.FinalAge, FormatCurrency(gap.ProjectedPension))
}

func countWarnings(notices []domain.Notice) int {
	n := 0
	for _, notice := range notices {
		if notice.Level == domain.NoticeWarning {
			n++
		}
	}
	return n
}

// FormatCurrency formats a decimal as a zloty amount
func FormatCurrency(amount decimal.Decimal) string {
	return amount.StringFixed(2) + " PLN"
}

// FormatPercentage formats a decimal as percentage
func FormatPercentage(amount decimal.Decimal) string {
	return amount.StringFixed(2) + "%"
}
