package refdata

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"path"
	"time"

	"github.com/goccy/go-json"
	"github.com/rgehrsitz/pengo/internal/domain"
	"gopkg.in/yaml.v3"
)

// Table file base names; each may end in .yaml, .yml or .json
const (
	WageGrowthFile     = "wage_growth"
	AverageSalaryFile  = "average_salary"
	LifeExpectancyFile = "life_expectancy"
)

// EmbeddedSource names the built-in tables in ReferenceData.Source
const EmbeddedSource = "embedded"

//go:embed data/*.yaml
var embedded embed.FS

// tableFile is the on-disk shape of every table, in YAML or JSON
type tableFile struct {
	Style  RateStyle             `yaml:"style" json:"style"`
	Values map[string]tableValue `yaml:"values" json:"values"`
}

// tableValue is one raw table entry. JSON tables may write it as a string
// ("105.3%") or a bare number (264.2).
type tableValue string

func (v *tableValue) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*v = tableValue(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("table value %s is neither a string nor a number", data)
	}
	*v = tableValue(n.String())
	return nil
}

// LoadDefault returns the tables shipped with the binary
func LoadDefault() (*domain.ReferenceData, error) {
	sub, err := fs.Sub(embedded, "data")
	if err != nil {
		return nil, fmt.Errorf("failed to open embedded tables: %w", err)
	}
	return LoadFS(sub, EmbeddedSource)
}

// LoadDir reads the three tables from a directory
func LoadDir(dir string) (*domain.ReferenceData, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open reference data directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("reference data path %s is not a directory", dir)
	}
	return LoadFS(os.DirFS(dir), dir)
}

// LoadFS reads the three tables from fsys. Rates are converted to fractional
// deltas here and nowhere else.
func LoadFS(fsys fs.FS, source string) (*domain.ReferenceData, error) {
	ref := &domain.ReferenceData{Source: source, LoadedAt: time.Now().UTC()}

	growth, err := readTable(fsys, WageGrowthFile)
	if err != nil {
		return nil, err
	}
	ref.WageGrowth = domain.WageGrowthTable{}
	for key, raw := range growth.Values {
		year, err := parseKey(WageGrowthFile, key)
		if err != nil {
			return nil, err
		}
		rate, err := ParseRate(string(raw), growth.Style)
		if err != nil {
			return nil, fmt.Errorf("%s %d: %w", WageGrowthFile, year, err)
		}
		ref.WageGrowth[year] = rate
	}

	salaries, err := readTable(fsys, AverageSalaryFile)
	if err != nil {
		return nil, err
	}
	ref.AverageSalary = domain.AverageSalaryTable{}
	for key, raw := range salaries.Values {
		year, err := parseKey(AverageSalaryFile, key)
		if err != nil {
			return nil, err
		}
		amount, err := parseAmount(string(raw))
		if err != nil {
			return nil, fmt.Errorf("%s %d: %w", AverageSalaryFile, year, err)
		}
		ref.AverageSalary[year] = amount
	}

	life, err := readTable(fsys, LifeExpectancyFile)
	if err != nil {
		return nil, err
	}
	if len(life.Values) == 0 {
		return nil, fmt.Errorf("%s: table is empty", LifeExpectancyFile)
	}
	ref.LifeExpectancy = domain.LifeExpectancyTable{}
	for key, raw := range life.Values {
		age, err := parseKey(LifeExpectancyFile, key)
		if err != nil {
			return nil, err
		}
		months, err := parseAmount(string(raw))
		if err != nil {
			return nil, fmt.Errorf("%s age %d: %w", LifeExpectancyFile, age, err)
		}
		ref.LifeExpectancy[age] = months
	}

	return ref, nil
}

func readTable(fsys fs.FS, base string) (*tableFile, error) {
	for _, ext := range []string{".yaml", ".yml", ".json"} {
		data, err := fs.ReadFile(fsys, base+ext)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s%s: %w", base, ext, err)
		}
		var table tableFile
		if err := decodeTable(base+ext, data, &table); err != nil {
			return nil, fmt.Errorf("failed to parse %s%s: %w", base, ext, err)
		}
		return &table, nil
	}
	return nil, fmt.Errorf("%s: no .yaml, .yml or .json file found", base)
}

func decodeTable(name string, data []byte, table *tableFile) error {
	if path.Ext(name) == ".json" {
		return json.Unmarshal(data, table)
	}
	return yaml.Unmarshal(data, table)
}

func parseKey(table, key string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(key))
	if err != nil {
		return 0, fmt.Errorf("%s: key %q is not a whole number", table, key)
	}
	return n, nil
}
