package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// NoticeLevel grades a non-fatal diagnostic
type NoticeLevel string

const (
	NoticeInfo    NoticeLevel = "INFO"
	NoticeWarning NoticeLevel = "WARNING"
)

// Notice codes emitted by the engine
const (
	CodeMissingWageGrowth    = "MISSING_WAGE_GROWTH"
	CodeMissingAverageSalary = "MISSING_AVERAGE_SALARY"
	CodeContributionCapped   = "CONTRIBUTION_CAPPED"
	CodeContributionFloored  = "CONTRIBUTION_FLOORED"
	CodeDelayedOutOfRange    = "DELAYED_OUT_OF_RANGE"
	CodeTargetUnreachable    = "TARGET_UNREACHABLE"
)

// Notice is a non-fatal diagnostic produced while projecting, e.g. a year that
// fell back to zero wage growth because the table had no entry for it.
type Notice struct {
	Level   NoticeLevel `json:"level"`
	Code    string      `json:"code"`
	Year    int         `json:"year,omitempty"`
	Message string      `json:"message"`
}

// ProjectionOptions toggles the optional parts of a projection
type ProjectionOptions struct {
	IncludeSickDays bool             `yaml:"include_sick_days" json:"includeSickDays"`
	SickDaysPerYear *decimal.Decimal `yaml:"sick_days_per_year,omitempty" json:"sickDaysPerYear,omitempty"`
	DelayYears      int              `yaml:"delay_years,omitempty" json:"delayYears,omitempty"`
	TargetPension   *decimal.Decimal `yaml:"target_pension,omitempty" json:"targetPension,omitempty"`
	IncludeTimeline bool             `yaml:"include_timeline" json:"includeTimeline"`
}

// DefaultDelayYears is how far the delayed-retirement variant looks ahead when
// the input does not say otherwise.
const DefaultDelayYears = 5

// ProjectionInput is one projection request: the parameters, options and
// life events of a single person, as read from an input file or API body.
type ProjectionInput struct {
	Name          string               `yaml:"name" json:"name"`
	Parameters    ProjectionParameters `yaml:"parameters" json:"parameters"`
	Options       ProjectionOptions    `yaml:"options" json:"options"`
	Events        []EventSpec          `yaml:"events,omitempty" json:"events,omitempty"`
	Assumptions   *Assumptions         `yaml:"assumptions,omitempty" json:"assumptions,omitempty"`
	ReferenceData string               `yaml:"reference_data,omitempty" json:"-"`
	Age           int                  `yaml:"age,omitempty" json:"age,omitempty"`
	PostalCode    string               `yaml:"postal_code,omitempty" json:"postalCode,omitempty"`
}

// DeepCopy returns an independent copy safe to modify
func (in *ProjectionInput) DeepCopy() *ProjectionInput {
	if in == nil {
		return nil
	}
	out := *in
	if in.Options.SickDaysPerYear != nil {
		v := *in.Options.SickDaysPerYear
		out.Options.SickDaysPerYear = &v
	}
	if in.Options.TargetPension != nil {
		v := *in.Options.TargetPension
		out.Options.TargetPension = &v
	}
	if in.Events != nil {
		out.Events = make([]EventSpec, len(in.Events))
		for i, e := range in.Events {
			out.Events[i] = e
			if e.Amount != nil {
				v := *e.Amount
				out.Events[i].Amount = &v
			}
		}
	}
	if in.Assumptions != nil {
		a := *in.Assumptions
		out.Assumptions = &a
	}
	return &out
}

// EffectiveDelayYears returns DelayYears or the default when unset
func (o ProjectionOptions) EffectiveDelayYears() int {
	if o.DelayYears > 0 {
		return o.DelayYears
	}
	return DefaultDelayYears
}

// DelayedRetirementResult is the outcome of working past the base retirement year
type DelayedRetirementResult struct {
	BaseYear       int             `json:"baseYear"`
	DelayedYear    int             `json:"delayedYear"`
	BaseAge        int             `json:"baseAge"`
	DelayedAge     int             `json:"delayedAge"`
	BaseTotal      decimal.Decimal `json:"baseTotal"`
	ExtensionTotal decimal.Decimal `json:"extensionTotal"`
	Total          decimal.Decimal `json:"total"`
	MonthlyPension decimal.Decimal `json:"monthlyPension"`
}

// TargetGap is the result of solving for the extra working years needed to
// reach a target monthly pension.
type TargetGap struct {
	TargetPension    decimal.Decimal `json:"targetPension"`
	CurrentPension   decimal.Decimal `json:"currentPension"`
	ProjectedPension decimal.Decimal `json:"projectedPension"`
	YearsNeeded      int             `json:"yearsNeeded"`
	BaseAge          int             `json:"baseAge"`
	FinalAge         int             `json:"finalAge"`
}

// ProjectionReport assembles every figure the presentation layer shows for one input
type ProjectionReport struct {
	Name          string               `json:"name"`
	Parameters    ProjectionParameters `json:"parameters"`
	RetirementAge int                  `json:"retirementAge"`
	FinalSalary   decimal.Decimal      `json:"finalSalary"`
	Assumptions   Assumptions          `json:"assumptions"`

	IndexedTotal   decimal.Decimal `json:"indexedTotal"`
	IndexedMonthly decimal.Decimal `json:"indexedMonthly"`
	RealMonthly    decimal.Decimal `json:"realMonthly"`

	IncludeSickDays     bool            `json:"includeSickDays"`
	SickAdjustedTotal   decimal.Decimal `json:"sickAdjustedTotal"`
	SickAdjustedMonthly decimal.Decimal `json:"sickAdjustedMonthly"`

	Delayed         *DelayedRetirementResult `json:"delayed,omitempty"`
	ReplacementRate int                      `json:"replacementRate"`
	Target          *TargetGap               `json:"target,omitempty"`
	Timeline        *TimelineProjection      `json:"timeline,omitempty"`

	Notices     []Notice  `json:"notices,omitempty"`
	GeneratedAt time.Time `json:"generatedAt"`
}

// UsageReport records one use of the calculator for the admin statistics
type UsageReport struct {
	ID                  string          `json:"id"`
	CreatedAt           time.Time       `json:"createdAt"`
	ExpectedPension     decimal.Decimal `json:"expectedPension"`
	Age                 int             `json:"age"`
	Gender              Gender          `json:"gender"`
	Salary              decimal.Decimal `json:"salary"`
	IncludedSickPeriods bool            `json:"includedSickPeriods"`
	AccountFunds        decimal.Decimal `json:"accountFunds"`
	RealPension         decimal.Decimal `json:"realPension"`
	AdjustedPension     decimal.Decimal `json:"adjustedPension"`
	PostalCode          string          `json:"postalCode,omitempty"`
}
