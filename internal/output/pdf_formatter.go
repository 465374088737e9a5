package output

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/go-pdf/fpdf"
	"github.com/rgehrsitz/pengo/internal/domain"
)

const (
	pdfMarginLeft   = 15.0
	pdfMarginTop    = 15.0
	pdfMarginRight  = 15.0
	pdfMarginBottom = 20.0
	pdfContentWidth = 210.0 - pdfMarginLeft - pdfMarginRight
)

// PDFFormatter renders the report as an A4 document: a summary page followed
// by the account timeline when the report has one.
type PDFFormatter struct{}

func (p PDFFormatter) Name() string { return "pdf" }

func (p PDFFormatter) Format(report *domain.ProjectionReport) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pdfMarginLeft, pdfMarginTop, pdfMarginRight)
	pdf.SetAutoPageBreak(true, pdfMarginBottom)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	pdf.SetFont("Arial", "B", 20)
	pdf.SetTextColor(0, 51, 102)
	pdf.CellFormat(pdfContentWidth, 12, "Pension Projection Report", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.SetTextColor(100, 100, 100)
	subtitle := "Generated " + report.GeneratedAt.Format("2006-01-02 15:04")
	if report.Name != "" {
		subtitle = tr(report.Name) + " - " + subtitle
	}
	pdf.CellFormat(pdfContentWidth, 6, subtitle, "", 1, "C", false, 0, "")
	pdf.Ln(8)

	rows := [][2]string{
		{"Retirement", fmt.Sprintf("%d (age %d)", report.Parameters.YearRetirement, report.RetirementAge)},
		{"Starting income", FormatCurrency(report.Parameters.MonthlyIncome)},
		{"Account total", FormatCurrency(report.IndexedTotal)},
		{"Monthly pension", FormatCurrency(report.IndexedMonthly)},
		{"Real value", FormatCurrency(report.RealMonthly)},
	}
	if report.IncludeSickDays {
		rows = append(rows, [2]string{"With sick leave", FormatCurrency(report.SickAdjustedMonthly)})
	}
	rows = append(rows,
		[2]string{"Final salary", FormatCurrency(report.FinalSalary)},
		[2]string{"Replacement rate", strconv.Itoa(report.ReplacementRate) + "%"})
	if d := report.Delayed; d != nil {
		rows = append(rows, [2]string{fmt.Sprintf("Retire at %d", d.DelayedAge), FormatCurrency(d.MonthlyPension)})
	}
	if report.Target != nil {
		rows = append(rows, [2]string{"Target " + FormatCurrency(report.Target.TargetPension), describeTarget(report.Target)})
	}

	pdf.SetTextColor(0, 0, 0)
	for _, row := range rows {
		pdf.SetFont("Arial", "B", 11)
		pdf.CellFormat(60, 8, row[0], "B", 0, "L", false, 0, "")
		pdf.SetFont("Arial", "", 11)
		pdf.CellFormat(pdfContentWidth-60, 8, row[1], "B", 1, "L", false, 0, "")
	}

	if len(report.Notices) > 0 {
		pdf.Ln(6)
		pdf.SetFont("Arial", "B", 12)
		pdf.CellFormat(pdfContentWidth, 8, "Notices", "", 1, "L", false, 0, "")
		pdf.SetFont("Arial", "", 9)
		for _, n := range report.Notices {
			pdf.MultiCell(pdfContentWidth, 5, tr(fmt.Sprintf("[%s] %s: %s", n.Level, n.Code, n.Message)), "", "L", false)
		}
	}

	if tl := report.Timeline; tl != nil && len(tl.Balances) > 0 {
		addTimelinePage(pdf, tl)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func addTimelinePage(pdf *fpdf.Fpdf, tl *domain.TimelineProjection) {
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(pdfContentWidth, 10, "Account Timeline", "", 1, "L", false, 0, "")

	widths := []float64{20, 40, 40, 40, 40}
	header := []string{"Year", "Salary", "Contribution", "Main", "Sub-account"}
	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	for i, h := range header {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, b := range tl.Balances {
		cells := []string{
			strconv.Itoa(b.Year),
			b.Salary.StringFixed(2),
			b.Contribution.StringFixed(2),
			b.MainBalance.StringFixed(2),
			b.SubBalance.StringFixed(2),
		}
		for i, c := range cells {
			pdf.CellFormat(widths[i], 6, c, "1", 0, "R", false, 0, "")
		}
		pdf.Ln(-1)
	}
}
