package output

import (
	"bytes"
	"encoding/csv"
	"strconv"

	"github.com/rgehrsitz/pengo/internal/domain"
)

// CSVSummarizer implements the simple summary CSV output (one figure per row).
type CSVSummarizer struct{}

func (c CSVSummarizer) Name() string { return "csv" }

func (c CSVSummarizer) Format(report *domain.ProjectionReport) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	rows := [][]string{
		{"Metric", "Value"},
		{"RetirementYear", strconv.Itoa(report.Parameters.YearRetirement)},
		{"RetirementAge", strconv.Itoa(report.RetirementAge)},
		{"AccountTotal", report.IndexedTotal.StringFixed(2)},
		{"MonthlyPension", report.IndexedMonthly.StringFixed(2)},
		{"RealPension", report.RealMonthly.StringFixed(2)},
		{"SickAdjustedTotal", report.SickAdjustedTotal.StringFixed(2)},
		{"SickAdjustedPension", report.SickAdjustedMonthly.StringFixed(2)},
		{"FinalSalary", report.FinalSalary.StringFixed(2)},
		{"ReplacementRate", strconv.Itoa(report.ReplacementRate)},
	}
	if report.Delayed != nil {
		rows = append(rows,
			[]string{"DelayedAge", strconv.Itoa(report.Delayed.DelayedAge)},
			[]string{"DelayedPension", report.Delayed.MonthlyPension.StringFixed(2)})
	}
	if report.Target != nil {
		rows = append(rows,
			[]string{"TargetPension", report.Target.TargetPension.StringFixed(2)},
			[]string{"YearsToTarget", strconv.Itoa(report.Target.YearsNeeded)})
	}
	if err := w.WriteAll(rows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DetailedCSVFormatter writes the yearly account timeline, one row per year
type DetailedCSVFormatter struct{}

func (d DetailedCSVFormatter) Name() string { return "detailed-csv" }

func (d DetailedCSVFormatter) Format(report *domain.ProjectionReport) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	if err := w.Write([]string{"Year", "Salary", "Contribution", "SickDays", "MainBalance", "SubBalance", "Total"}); err != nil {
		return nil, err
	}
	if report.Timeline != nil {
		for _, b := range report.Timeline.Balances {
			row := []string{
				strconv.Itoa(b.Year),
				b.Salary.StringFixed(2),
				b.Contribution.StringFixed(2),
				b.SickDays.StringFixed(2),
				b.MainBalance.StringFixed(2),
				b.SubBalance.StringFixed(2),
				b.Total().StringFixed(2),
			}
			if err := w.Write(row); err != nil {
				return nil, err
			}
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
