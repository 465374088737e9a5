package output

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/rgehrsitz/pengo/internal/domain"
)

// Formatter renders a projection report into one output format
type Formatter interface {
	Name() string
	Format(report *domain.ProjectionReport) ([]byte, error)
}

// FormatterFunc adapts a plain function to the Formatter interface
type FormatterFunc struct {
	ID string
	F  func(report *domain.ProjectionReport) ([]byte, error)
}

func (f FormatterFunc) Name() string { return f.ID }

func (f FormatterFunc) Format(report *domain.ProjectionReport) ([]byte, error) {
	return f.F(report)
}

var registry = map[string]Formatter{}

// aliases maps alternate names onto registered formatters
var aliases = map[string]string{
	"verbose":         "console",
	"console-verbose": "console",
	"text":            "console-lite",
	"summary":         "console-lite",
	"timeline-csv":    "detailed-csv",
}

func register(f Formatter) {
	registry[f.Name()] = f
}

func init() {
	register(ConsoleFormatter{})
	register(ConsoleVerboseFormatter{})
	register(CSVSummarizer{})
	register(DetailedCSVFormatter{})
	register(JSONFormatter{Pretty: true})
	register(HTMLFormatter{})
	register(PDFFormatter{})
}

// GetFormatterByName returns the formatter for a name or alias, nil when unknown
func GetFormatterByName(name string) Formatter {
	key := strings.ToLower(strings.TrimSpace(name))
	if target, ok := aliases[key]; ok {
		key = target
	}
	return registry[key]
}

// AvailableFormatterNames lists the registered formatter names in sorted order
func AvailableFormatterNames() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AvailableFormatAliases lists the accepted aliases in sorted order
func AvailableFormatAliases() []string {
	names := make([]string, 0, len(aliases))
	for name := range aliases {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// WriteFormatted renders the report and writes it to a timestamped file in the
// working directory, returning the file name.
func WriteFormatted(f Formatter, report *domain.ProjectionReport, ext string) (string, error) {
	data, err := f.Format(report)
	if err != nil {
		return "", err
	}
	filename := fmt.Sprintf("pension_report_%s.%s", time.Now().Format("20060102_150405"), ext)
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return "", err
	}
	return filename, nil
}

// Extension returns the file extension a formatter's output is written with
func Extension(f Formatter) string {
	switch f.Name() {
	case "csv", "detailed-csv":
		return "csv"
	case "json":
		return "json"
	case "html":
		return "html"
	case "pdf":
		return "pdf"
	default:
		return "txt"
	}
}
