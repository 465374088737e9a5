package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/rgehrsitz/pengo/internal/domain"
)

// ConsoleVerboseFormatter renders every section of the report
type ConsoleVerboseFormatter struct{}

func (c ConsoleVerboseFormatter) Name() string { return "console" }

func (c ConsoleVerboseFormatter) Format(report *domain.ProjectionReport) ([]byte, error) {
	var buf bytes.Buffer
	params := report.Parameters

	fmt.Fprintln(&buf, strings.Repeat("=", 81))
	fmt.Fprintln(&buf, "DETAILED PENSION PROJECTION")
	fmt.Fprintln(&buf, strings.Repeat("=", 81))
	fmt.Fprintln(&buf)
	fmt.Fprintln(&buf, "KEY ASSUMPTIONS:")
	for _, a := range DescribeAssumptions(report.Assumptions) {
		fmt.Fprintf(&buf, "• %s\n", a)
	}
	fmt.Fprintln(&buf)

	fmt.Fprintln(&buf, "INPUT")
	fmt.Fprintln(&buf, "=====")
	if report.Name != "" {
		fmt.Fprintf(&buf, "Name:                %s\n", report.Name)
	}
	fmt.Fprintf(&buf, "Gender:              %s\n", params.Gender)
	fmt.Fprintf(&buf, "Starting Income:     %s\n", FormatCurrency(params.MonthlyIncome))
	fmt.Fprintf(&buf, "Work Span:           %d-%d (%d years)\n", params.YearWorkStart, params.YearRetirement, params.WorkYears())
	fmt.Fprintf(&buf, "Retirement Age:      %d\n", report.RetirementAge)
	fmt.Fprintln(&buf)

	fmt.Fprintln(&buf, "PENSION")
	fmt.Fprintln(&buf, "=======")
	fmt.Fprintf(&buf, "Account Total:       %s\n", FormatCurrency(report.IndexedTotal))
	fmt.Fprintf(&buf, "Monthly Pension:     %s\n", FormatCurrency(report.IndexedMonthly))
	fmt.Fprintf(&buf, "Real Value:          %s\n", FormatCurrency(report.RealMonthly))
	if report.IncludeSickDays {
		fmt.Fprintf(&buf, "With Sick Leave:     %s (account %s)\n",
			FormatCurrency(report.SickAdjustedMonthly), FormatCurrency(report.SickAdjustedTotal))
		fmt.Fprintf(&buf, "Sick Leave Cost:     %s per month\n",
			FormatCurrency(report.IndexedMonthly.Sub(report.SickAdjustedMonthly)))
	}
	fmt.Fprintf(&buf, "Final Salary:        %s\n", FormatCurrency(report.FinalSalary))
	fmt.Fprintf(&buf, "Replacement Rate:    %d%%\n", report.ReplacementRate)
	fmt.Fprintln(&buf)

	if d := report.Delayed; d != nil {
		fmt.Fprintln(&buf, "DELAYED RETIREMENT")
		fmt.Fprintln(&buf, "==================")
		fmt.Fprintf(&buf, "Retire in %d at %d: %s\n", d.DelayedYear, d.DelayedAge, FormatCurrency(d.MonthlyPension))
		fmt.Fprintf(&buf, "  Base Capital:      %s\n", FormatCurrency(d.BaseTotal))
		fmt.Fprintf(&buf, "  Extra Capital:     %s\n", FormatCurrency(d.ExtensionTotal))
		fmt.Fprintf(&buf, "  Gain:              %s per month\n", FormatCurrency(d.MonthlyPension.Sub(headlinePension(report))))
		fmt.Fprintln(&buf)
	}

	if report.Target != nil {
		fmt.Fprintln(&buf, "TARGET PENSION")
		fmt.Fprintln(&buf, "==============")
		fmt.Fprintf(&buf, "Target:              %s\n", FormatCurrency(report.Target.TargetPension))
		fmt.Fprintf(&buf, "Outcome:             %s\n", describeTarget(report.Target))
		fmt.Fprintln(&buf)
	}

	if tl := report.Timeline; tl != nil && len(tl.Balances) > 0 {
		fmt.Fprintln(&buf, "ACCOUNT TIMELINE")
		fmt.Fprintln(&buf, "================")
		fmt.Fprintf(&buf, "%-6s %14s %14s %14s %12s %8s\n", "Year", "Salary", "Contribution", "Main", "Sub", "Sick")
		for _, b := range tl.Balances {
			fmt.Fprintf(&buf, "%-6d %14s %14s %14s %12s %8s\n",
				b.Year,
				b.Salary.StringFixed(2),
				b.Contribution.StringFixed(2),
				b.MainBalance.StringFixed(2),
				b.SubBalance.StringFixed(2),
				b.SickDays.StringFixed(1))
		}
		fmt.Fprintf(&buf, "Totals: main %s, sub-account %s\n",
			FormatCurrency(tl.TotalMainBalance), FormatCurrency(tl.TotalSubBalance))
		fmt.Fprintln(&buf)
	}

	if len(report.Notices) > 0 {
		fmt.Fprintln(&buf, "NOTICES")
		fmt.Fprintln(&buf, "=======")
		for _, n := range report.Notices {
			if n.Year > 0 {
				fmt.Fprintf(&buf, "[%s] %d %s: %s\n", n.Level, n.Year, n.Code, n.Message)
			} else {
				fmt.Fprintf(&buf, "[%s] %s: %s\n", n.Level, n.Code, n.Message)
			}
		}
	}

	return buf.Bytes(), nil
}
