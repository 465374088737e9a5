package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rgehrsitz/pengo/internal/domain"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

const (
	minYear          = 1950
	maxYear          = 2100
	maxDelayYears    = 40
	daysInLeapYear   = 366
	maxReasonableAge = 120
)

// InputParser handles parsing of projection input files
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads a projection input from a YAML or JSON file. A relative
// reference_data path is resolved against the file's directory.
func (ip *InputParser) LoadFromFile(filename string) (*domain.ProjectionInput, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	input, err := ip.Parse(data)
	if err != nil {
		return nil, err
	}
	if input.ReferenceData != "" && !filepath.IsAbs(input.ReferenceData) {
		input.ReferenceData = filepath.Join(filepath.Dir(filename), input.ReferenceData)
	}
	return input, nil
}

// Parse decodes and validates an input document
func (ip *InputParser) Parse(data []byte) (*domain.ProjectionInput, error) {
	var input domain.ProjectionInput
	if err := yaml.Unmarshal(data, &input); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := ip.ValidateProjectionInput(&input); err != nil {
		return nil, fmt.Errorf("input validation failed: %w", err)
	}
	return &input, nil
}

// ValidateProjectionInput checks the input and normalizes the gender tag in place
func (ip *InputParser) ValidateProjectionInput(input *domain.ProjectionInput) error {
	if err := ip.validateParameters(&input.Parameters); err != nil {
		return fmt.Errorf("parameters: %w", err)
	}
	if err := ip.validateOptions(&input.Options); err != nil {
		return fmt.Errorf("options: %w", err)
	}
	if _, err := domain.ParseEvents(input.Events); err != nil {
		return fmt.Errorf("events: %w", err)
	}
	if input.Assumptions != nil {
		if err := ip.validateAssumptions(input.Assumptions); err != nil {
			return fmt.Errorf("assumptions: %w", err)
		}
	}
	if input.Age < 0 || input.Age > maxReasonableAge {
		return fmt.Errorf("age must be between 0 and %d", maxReasonableAge)
	}
	return nil
}

func (ip *InputParser) validateParameters(params *domain.ProjectionParameters) error {
	gender, err := domain.ParseGender(string(params.Gender))
	if err != nil {
		return err
	}
	params.Gender = gender

	if params.MonthlyIncome.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("monthly income must be positive")
	}
	if params.YearWorkStart < minYear || params.YearWorkStart > maxYear {
		return fmt.Errorf("year_work_start must be between %d and %d", minYear, maxYear)
	}
	if params.YearRetirement < minYear || params.YearRetirement > maxYear {
		return fmt.Errorf("year_retirement must be between %d and %d", minYear, maxYear)
	}
	if params.YearWorkStart >= params.YearRetirement {
		return fmt.Errorf("year_work_start must be before year_retirement")
	}
	return nil
}

func (ip *InputParser) validateOptions(opts *domain.ProjectionOptions) error {
	if opts.SickDaysPerYear != nil {
		if opts.SickDaysPerYear.LessThan(decimal.Zero) || opts.SickDaysPerYear.GreaterThan(decimal.NewFromInt(daysInLeapYear)) {
			return fmt.Errorf("sick_days_per_year must be between 0 and %d", daysInLeapYear)
		}
	}
	if opts.DelayYears < 0 || opts.DelayYears > maxDelayYears {
		return fmt.Errorf("delay_years must be between 0 and %d", maxDelayYears)
	}
	if opts.TargetPension != nil && opts.TargetPension.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("target_pension must be positive")
	}
	return nil
}

func (ip *InputParser) validateAssumptions(a *domain.Assumptions) error {
	if a.ContributionRate.LessThan(decimal.Zero) || a.ContributionRate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return fmt.Errorf("contribution_rate must be between 0 and 1")
	}
	if a.InflationRate.LessThan(decimal.NewFromFloat(-0.10)) {
		return fmt.Errorf("inflation_rate cannot be less than -10%% (extreme deflation)")
	}
	if a.WorkingDaysPerMonth.LessThan(decimal.Zero) || a.WorkingDaysPerMonth.GreaterThan(decimal.NewFromInt(31)) {
		return fmt.Errorf("working_days_per_month must be between 0 and 31")
	}
	if a.ContributionCapMultiplier.LessThan(decimal.Zero) {
		return fmt.Errorf("contribution_cap_multiplier cannot be negative")
	}
	if a.DefaultSickDaysPerYear.LessThan(decimal.Zero) {
		return fmt.Errorf("default_sick_days_per_year cannot be negative")
	}
	filled := a.WithDefaults()
	if filled.MinAnnuityAge > filled.MaxAnnuityAge {
		return fmt.Errorf("min_annuity_age cannot exceed max_annuity_age")
	}
	for _, age := range []int{filled.RetirementAgeMale, filled.RetirementAgeFemale} {
		if age < filled.MinAnnuityAge || age > filled.MaxAnnuityAge {
			return fmt.Errorf("retirement age %d is outside the annuity range %d-%d", age, filled.MinAnnuityAge, filled.MaxAnnuityAge)
		}
	}
	return nil
}
