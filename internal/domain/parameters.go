package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Gender selects the statutory base retirement age
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// ParseGender accepts the English tags plus the Polish labels used by the
// original calculator form.
func ParseGender(s string) (Gender, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "male", "m", "mężczyzna", "mezczyzna":
		return GenderMale, nil
	case "female", "f", "kobieta":
		return GenderFemale, nil
	default:
		return "", fmt.Errorf("unknown gender %q (valid: male, female)", s)
	}
}

// ProjectionParameters are the caller-supplied facts a projection is run for
type ProjectionParameters struct {
	MonthlyIncome  decimal.Decimal `yaml:"monthly_income" json:"monthlyIncome"`
	YearWorkStart  int             `yaml:"year_work_start" json:"yearWorkStart"`
	YearRetirement int             `yaml:"year_retirement" json:"yearRetirement"`
	Gender         Gender          `yaml:"gender" json:"gender"`
}

// WorkYears returns the number of contribution years in [YearWorkStart, YearRetirement)
func (p ProjectionParameters) WorkYears() int {
	return p.YearRetirement - p.YearWorkStart
}

// Assumptions holds the fixed constants of the contribution system. Zero fields
// are filled from DefaultAssumptions by WithDefaults so partial YAML overrides work.
type Assumptions struct {
	ContributionRate          decimal.Decimal `yaml:"contribution_rate" json:"contributionRate"`
	InflationRate             decimal.Decimal `yaml:"inflation_rate" json:"inflationRate"`
	WorkingDaysPerMonth       decimal.Decimal `yaml:"working_days_per_month" json:"workingDaysPerMonth"`
	ContributionCapMultiplier decimal.Decimal `yaml:"contribution_cap_multiplier" json:"contributionCapMultiplier"`
	DefaultSickDaysPerYear    decimal.Decimal `yaml:"default_sick_days_per_year" json:"defaultSickDaysPerYear"`
	RetirementAgeMale         int             `yaml:"retirement_age_male" json:"retirementAgeMale"`
	RetirementAgeFemale       int             `yaml:"retirement_age_female" json:"retirementAgeFemale"`
	MinAnnuityAge             int             `yaml:"min_annuity_age" json:"minAnnuityAge"`
	MaxAnnuityAge             int             `yaml:"max_annuity_age" json:"maxAnnuityAge"`

	// ZeroInflation forces a zero inflation term; a zero InflationRate alone is
	// indistinguishable from "not set" and would be replaced by the default.
	ZeroInflation bool `yaml:"zero_inflation" json:"zeroInflation"`
}

// DefaultAssumptions returns the statutory constants
func DefaultAssumptions() Assumptions {
	return Assumptions{
		ContributionRate:          decimal.NewFromFloat(0.1952),
		InflationRate:             decimal.NewFromFloat(0.025),
		WorkingDaysPerMonth:       decimal.NewFromInt(22),
		ContributionCapMultiplier: decimal.NewFromInt(30),
		DefaultSickDaysPerYear:    decimal.NewFromInt(34),
		RetirementAgeMale:         65,
		RetirementAgeFemale:       60,
		MinAnnuityAge:             60,
		MaxAnnuityAge:             90,
	}
}

// WithDefaults fills every unset field from DefaultAssumptions
func (a Assumptions) WithDefaults() Assumptions {
	d := DefaultAssumptions()
	if a.ContributionRate.IsZero() {
		a.ContributionRate = d.ContributionRate
	}
	if a.ZeroInflation {
		a.InflationRate = decimal.Zero
	} else if a.InflationRate.IsZero() {
		a.InflationRate = d.InflationRate
	}
	if a.WorkingDaysPerMonth.IsZero() {
		a.WorkingDaysPerMonth = d.WorkingDaysPerMonth
	}
	if a.ContributionCapMultiplier.IsZero() {
		a.ContributionCapMultiplier = d.ContributionCapMultiplier
	}
	if a.DefaultSickDaysPerYear.IsZero() {
		a.DefaultSickDaysPerYear = d.DefaultSickDaysPerYear
	}
	if a.RetirementAgeMale == 0 {
		a.RetirementAgeMale = d.RetirementAgeMale
	}
	if a.RetirementAgeFemale == 0 {
		a.RetirementAgeFemale = d.RetirementAgeFemale
	}
	if a.MinAnnuityAge == 0 {
		a.MinAnnuityAge = d.MinAnnuityAge
	}
	if a.MaxAnnuityAge == 0 {
		a.MaxAnnuityAge = d.MaxAnnuityAge
	}
	return a
}

// RetirementAge returns the base retirement age for the gender
func (a Assumptions) RetirementAge(g Gender) int {
	if g == GenderFemale {
		return a.RetirementAgeFemale
	}
	return a.RetirementAgeMale
}
