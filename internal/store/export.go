package store

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/goccy/go-json"
	"github.com/rgehrsitz/pengo/internal/domain"
)

var usageHeader = []string{
	"Date", "Time", "Expected Pension", "Age", "Gender", "Salary",
	"Included Sick Periods", "Account Funds", "Real Pension", "Adjusted Pension", "Postal Code",
}

// WriteUsageCSV writes usage reports in the admin export layout
func WriteUsageCSV(w io.Writer, reports []domain.UsageReport) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(usageHeader); err != nil {
		return err
	}
	for _, u := range reports {
		row := []string{
			u.CreatedAt.Format(domain.DateLayout),
			u.CreatedAt.Format("15:04:05"),
			u.ExpectedPension.StringFixed(2),
			strconv.Itoa(u.Age),
			string(u.Gender),
			u.Salary.StringFixed(2),
			strconv.FormatBool(u.IncludedSickPeriods),
			u.AccountFunds.StringFixed(2),
			u.RealPension.StringFixed(2),
			u.AdjustedPension.StringFixed(2),
			u.PostalCode,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteUsageJSON writes usage reports as a JSON array
func WriteUsageJSON(w io.Writer, reports []domain.UsageReport) error {
	if reports == nil {
		reports = []domain.UsageReport{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(reports)
}

type balanceEntry struct {
	MainBalance json.Number `json:"mainBalance"`
	SubBalance  json.Number `json:"subBalance"`
}

// BalanceFileExporter writes a timeline to a JSON file keyed by year:
// {"2031": {"mainBalance": 1234.56, "subBalance": 0.00}}
// Readers always see a complete file; each export replaces it whole.
type BalanceFileExporter struct {
	Path string

	mu sync.Mutex
}

// NewBalanceFileExporter creates an exporter for the given file path
func NewBalanceFileExporter(path string) *BalanceFileExporter {
	return &BalanceFileExporter{Path: path}
}

// Encode renders the balances in the file layout
func (e *BalanceFileExporter) Encode(balances []domain.YearlyBalance) ([]byte, error) {
	entries := make(map[string]balanceEntry, len(balances))
	for _, b := range balances {
		entries[strconv.Itoa(b.Year)] = balanceEntry{
			MainBalance: json.Number(b.MainBalance.StringFixed(2)),
			SubBalance:  json.Number(b.SubBalance.StringFixed(2)),
		}
	}
	return json.MarshalIndent(entries, "", "  ")
}

// Export writes the balances to the exporter's path, creating parent directories.
// The file is written next to the target and renamed over it.
func (e *BalanceFileExporter) Export(balances []domain.YearlyBalance) error {
	if e.Path == "" {
		return fmt.Errorf("balance export path is empty")
	}
	data, err := e.Encode(balances)
	if err != nil {
		return fmt.Errorf("encode balances: %w", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	dir := filepath.Dir(e.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create export directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(e.Path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create balance file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write balance file: %w", err)
	}
	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		return fmt.Errorf("write balance file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write balance file: %w", err)
	}
	if err := os.Rename(tmp.Name(), e.Path); err != nil {
		return fmt.Errorf("replace balance file: %w", err)
	}
	return nil
}
