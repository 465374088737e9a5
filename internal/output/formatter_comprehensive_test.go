package output

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/rgehrsitz/pengo/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildTestReport() *domain.ProjectionReport {
	return &domain.ProjectionReport{
		Name: "Anna",
		Parameters: domain.ProjectionParameters{
			MonthlyIncome:  decimal.NewFromInt(6500),
			YearWorkStart:  2020,
			YearRetirement: 2055,
			Gender:         domain.GenderFemale,
		},
		RetirementAge:       60,
		FinalSalary:         decimal.NewFromInt(6500),
		Assumptions:         domain.DefaultAssumptions(),
		IndexedTotal:        decimal.RequireFromString("532896.00"),
		IndexedMonthly:      decimal.RequireFromString("2327.06"),
		RealMonthly:         decimal.RequireFromString("980.12"),
		IncludeSickDays:     true,
		SickAdjustedTotal:   decimal.RequireFromString("464265.45"),
		SickAdjustedMonthly: decimal.RequireFromString("2027.36"),
		ReplacementRate:     31,
		Delayed: &domain.DelayedRetirementResult{
			BaseYear:       2055,
			DelayedYear:    2060,
			BaseAge:        60,
			DelayedAge:     65,
			MonthlyPension: decimal.RequireFromString("3139.30"),
		},
		Target: &domain.TargetGap{
			TargetPension:    decimal.NewFromInt(3000),
			ProjectedPension: decimal.RequireFromString("3139.30"),
			YearsNeeded:      5,
			FinalAge:         65,
		},
		Timeline: &domain.TimelineProjection{
			Balances: []domain.YearlyBalance{
				{Year: 2020, Salary: decimal.NewFromInt(6500), Contribution: decimal.RequireFromString("15225.60"), MainBalance: decimal.RequireFromString("15225.60")},
				{Year: 2021, Salary: decimal.NewFromInt(6500), Contribution: decimal.RequireFromString("15225.60"), MainBalance: decimal.RequireFromString("30451.20"), SubBalance: decimal.NewFromInt(1000)},
			},
			TotalMainBalance: decimal.RequireFromString("30451.20"),
			TotalSubBalance:  decimal.NewFromInt(1000),
		},
		Notices: []domain.Notice{
			{Level: domain.NoticeWarning, Code: domain.CodeMissingWageGrowth, Year: 2040, Message: "no wage growth for 2040, using 0"},
			{Level: domain.NoticeInfo, Code: domain.CodeContributionCapped, Message: "capped"},
		},
		GeneratedAt: time.Date(2025, 10, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestFormatterFunc(t *testing.T) {
	called := false
	formatter := FormatterFunc{
		ID: "test-formatter",
		F: func(report *domain.ProjectionReport) ([]byte, error) {
			called = true
			return []byte("test output"), nil
		},
	}

	out, err := formatter.Format(buildTestReport())
	require.NoError(t, err)
	assert.True(t, called)
	assert.Equal(t, []byte("test output"), out)
	assert.Equal(t, "test-formatter", formatter.Name())
}

func TestWriteFormatted(t *testing.T) {
	tmpDir := t.TempDir()
	originalDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(tmpDir))
	defer os.Chdir(originalDir)

	formatter := FormatterFunc{
		ID: "test-formatter",
		F: func(report *domain.ProjectionReport) ([]byte, error) {
			return []byte("test output content"), nil
		},
	}

	filename, err := WriteFormatted(formatter, buildTestReport(), "txt")
	require.NoError(t, err)
	assert.Contains(t, filename, "pension_report_")
	assert.Contains(t, filename, ".txt")

	content, err := os.ReadFile(filename)
	require.NoError(t, err)
	assert.Equal(t, "test output content", string(content))
}

func TestWriteFormatted_FormatterError(t *testing.T) {
	formatter := FormatterFunc{
		ID: "error-formatter",
		F: func(report *domain.ProjectionReport) ([]byte, error) {
			return nil, fmt.Errorf("formatter error")
		},
	}

	filename, err := WriteFormatted(formatter, buildTestReport(), "txt")
	assert.Error(t, err)
	assert.Empty(t, filename)
	assert.Contains(t, err.Error(), "formatter error")
}

func TestConsoleFormatter_Format(t *testing.T) {
	out, err := ConsoleFormatter{}.Format(buildTestReport())
	require.NoError(t, err)

	content := string(out)
	assert.Contains(t, content, "PENSION PROJECTION SUMMARY")
	assert.Contains(t, content, "Retirement: 2055 at age 60")
	assert.Contains(t, content, "Monthly Pension: 2027.36 PLN", "sick-adjusted figure leads when sick days are on")
	assert.Contains(t, content, "Retire at 65: 3139.30 PLN (Δ 1111.94 PLN)")
	assert.Contains(t, content, "Target 3000.00 PLN: 5 more years of work (retire at 65, 3139.30 PLN)")
	assert.Contains(t, content, "Warnings: 1")
}

func TestConsoleFormatter_TargetReached(t *testing.T) {
	report := buildTestReport()
	report.IncludeSickDays = false
	report.Target.YearsNeeded = 0
	report.Notices = nil

	out, err := ConsoleFormatter{}.Format(report)
	require.NoError(t, err)
	content := string(out)
	assert.Contains(t, content, "Monthly Pension: 2327.06 PLN")
	assert.Contains(t, content, "already reached")
	assert.NotContains(t, content, "Warnings")
}

func TestConsoleVerboseFormatter_Format(t *testing.T) {
	out, err := ConsoleVerboseFormatter{}.Format(buildTestReport())
	require.NoError(t, err)

	content := string(out)
	assert.Contains(t, content, "DETAILED PENSION PROJECTION")
	assert.Contains(t, content, "Contribution rate: 19.52% of gross salary")
	assert.Contains(t, content, "Work Span:           2020-2055 (35 years)")
	assert.Contains(t, content, "Sick Leave Cost:     299.70 PLN per month")
	assert.Contains(t, content, "DELAYED RETIREMENT")
	assert.Contains(t, content, "ACCOUNT TIMELINE")
	assert.Contains(t, content, "[WARNING] 2040 MISSING_WAGE_GROWTH")
	assert.Contains(t, content, "[INFO] CONTRIBUTION_CAPPED: capped")
}

func TestCSVSummarizer_Format(t *testing.T) {
	out, err := CSVSummarizer{}.Format(buildTestReport())
	require.NoError(t, err)

	rows, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	require.NoError(t, err)
	values := map[string]string{}
	for _, r := range rows[1:] {
		values[r[0]] = r[1]
	}
	assert.Equal(t, []string{"Metric", "Value"}, rows[0])
	assert.Equal(t, "2327.06", values["MonthlyPension"])
	assert.Equal(t, "2027.36", values["SickAdjustedPension"])
	assert.Equal(t, "31", values["ReplacementRate"])
	assert.Equal(t, "65", values["DelayedAge"])
	assert.Equal(t, "5", values["YearsToTarget"])
}

func TestDetailedCSVFormatter_Format(t *testing.T) {
	out, err := DetailedCSVFormatter{}.Format(buildTestReport())
	require.NoError(t, err)

	rows, err := csv.NewReader(bytes.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Year", rows[0][0])
	assert.Equal(t, []string{"2021", "6500.00", "15225.60", "0.00", "30451.20", "1000.00", "31451.20"}, rows[2])

	report := buildTestReport()
	report.Timeline = nil
	out, err = DetailedCSVFormatter{}.Format(report)
	require.NoError(t, err)
	rows, err = csv.NewReader(bytes.NewReader(out)).ReadAll()
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestJSONFormatter_Format(t *testing.T) {
	out, err := JSONFormatter{}.Format(buildTestReport())
	require.NoError(t, err)

	var decoded domain.ProjectionReport
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, "Anna", decoded.Name)
	assert.True(t, decoded.IndexedMonthly.Equal(decimal.RequireFromString("2327.06")))
	require.NotNil(t, decoded.Timeline)
	assert.Len(t, decoded.Timeline.Balances, 2)
	assert.Contains(t, string(out), "\"replacementRate\":31")
}

func TestHTMLFormatter_Format(t *testing.T) {
	out, err := HTMLFormatter{}.Format(buildTestReport())
	require.NoError(t, err)

	content := string(out)
	assert.Contains(t, content, "<!DOCTYPE html>")
	assert.Contains(t, content, "<title>Pension Projection - Anna</title>")
	assert.Contains(t, content, "Generated on: 2025-10-01 12:00:00")
	assert.Contains(t, content, "2027.36 PLN")
	assert.Contains(t, content, "Account Timeline")
	assert.Contains(t, content, "class=\"warning\"")
}

func TestPDFFormatter_Format(t *testing.T) {
	out, err := PDFFormatter{}.Format(buildTestReport())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
}

func TestAvailableFormatterNames(t *testing.T) {
	names := AvailableFormatterNames()
	assert.Equal(t, []string{"console", "console-lite", "csv", "detailed-csv", "html", "json", "pdf"}, names)
}

func TestAvailableFormatAliases(t *testing.T) {
	aliases := AvailableFormatAliases()
	assert.Contains(t, aliases, "verbose")
	assert.Contains(t, aliases, "console-verbose")
	assert.Contains(t, aliases, "timeline-csv")
}

func TestGetFormatterByName(t *testing.T) {
	formatter := GetFormatterByName("console-lite")
	require.NotNil(t, formatter)
	assert.Equal(t, "console-lite", formatter.Name())

	verbose := GetFormatterByName(" Verbose ")
	require.NotNil(t, verbose)
	assert.Equal(t, "console", verbose.Name())

	assert.Nil(t, GetFormatterByName("non-existent"))
}

func TestExtension(t *testing.T) {
	assert.Equal(t, "csv", Extension(DetailedCSVFormatter{}))
	assert.Equal(t, "pdf", Extension(PDFFormatter{}))
	assert.Equal(t, "txt", Extension(ConsoleFormatter{}))
}
