package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the calendar date format used in input files and the API
const DateLayout = "2006-01-02"

// EventKind identifies a timeline event variant
type EventKind string

const (
	EventSalaryChange      EventKind = "salary"
	EventSickLeave         EventKind = "sickLeave"
	EventSubAccountDeposit EventKind = "subAccountDeposit"
)

// TimelineEvent is a dated life event folded into the yearly accumulation.
// The set of variants is closed: SalaryChange, SickLeave, SubAccountDeposit.
type TimelineEvent interface {
	Kind() EventKind
	Label() string
	timelineEvent()
}

// SalaryChange replaces the monthly salary from its effective year onward
type SalaryChange struct {
	Title         string
	Effective     time.Time
	MonthlyAmount decimal.Decimal
}

// SickLeave is an absence interval; both ends are calendar dates
type SickLeave struct {
	Title string
	Start time.Time
	End   time.Time
}

// SubAccountDeposit adds nominal cash to the sub-account in its effective year
type SubAccountDeposit struct {
	Title     string
	Effective time.Time
	Amount    decimal.Decimal
}

func (SalaryChange) Kind() EventKind      { return EventSalaryChange }
func (SickLeave) Kind() EventKind         { return EventSickLeave }
func (SubAccountDeposit) Kind() EventKind { return EventSubAccountDeposit }

func (e SalaryChange) Label() string      { return e.Title }
func (e SickLeave) Label() string         { return e.Title }
func (e SubAccountDeposit) Label() string { return e.Title }

func (SalaryChange) timelineEvent()      {}
func (SickLeave) timelineEvent()         {}
func (SubAccountDeposit) timelineEvent() {}

// EventSpec is the serialized form of a TimelineEvent in YAML input and JSON requests
type EventSpec struct {
	Type      string           `yaml:"type" json:"type"`
	Title     string           `yaml:"title,omitempty" json:"title,omitempty"`
	Date      string           `yaml:"date,omitempty" json:"date,omitempty"`
	StartDate string           `yaml:"start_date,omitempty" json:"startDate,omitempty"`
	EndDate   string           `yaml:"end_date,omitempty" json:"endDate,omitempty"`
	Amount    *decimal.Decimal `yaml:"amount,omitempty" json:"amount,omitempty"`
}

// ToEvent converts the spec into its typed variant
func (s EventSpec) ToEvent() (TimelineEvent, error) {
	switch EventKind(s.Type) {
	case EventSalaryChange:
		date, err := parseDate("date", s.Date)
		if err != nil {
			return nil, err
		}
		if s.Amount == nil || s.Amount.LessThanOrEqual(decimal.Zero) {
			return nil, fmt.Errorf("salary event %q: amount must be positive", s.Title)
		}
		return SalaryChange{Title: s.Title, Effective: date, MonthlyAmount: *s.Amount}, nil
	case EventSickLeave:
		start, err := parseDate("start_date", s.StartDate)
		if err != nil {
			return nil, err
		}
		end, err := parseDate("end_date", s.EndDate)
		if err != nil {
			return nil, err
		}
		if end.Before(start) {
			return nil, fmt.Errorf("sick leave %q: end_date %s is before start_date %s", s.Title, s.EndDate, s.StartDate)
		}
		return SickLeave{Title: s.Title, Start: start, End: end}, nil
	case EventSubAccountDeposit:
		date, err := parseDate("date", s.Date)
		if err != nil {
			return nil, err
		}
		if s.Amount == nil || s.Amount.LessThanOrEqual(decimal.Zero) {
			return nil, fmt.Errorf("sub-account deposit %q: amount must be positive", s.Title)
		}
		return SubAccountDeposit{Title: s.Title, Effective: date, Amount: *s.Amount}, nil
	default:
		return nil, fmt.Errorf("unknown event type %q (valid: salary, sickLeave, subAccountDeposit)", s.Type)
	}
}

// SpecFromEvent is the inverse of ToEvent
func SpecFromEvent(e TimelineEvent) EventSpec {
	switch ev := e.(type) {
	case SalaryChange:
		amt := ev.MonthlyAmount
		return EventSpec{Type: string(EventSalaryChange), Title: ev.Title, Date: ev.Effective.Format(DateLayout), Amount: &amt}
	case SickLeave:
		return EventSpec{Type: string(EventSickLeave), Title: ev.Title, StartDate: ev.Start.Format(DateLayout), EndDate: ev.End.Format(DateLayout)}
	case SubAccountDeposit:
		amt := ev.Amount
		return EventSpec{Type: string(EventSubAccountDeposit), Title: ev.Title, Date: ev.Effective.Format(DateLayout), Amount: &amt}
	}
	return EventSpec{}
}

// ParseEvents converts every spec, reporting the index of the first bad one
func ParseEvents(specs []EventSpec) ([]TimelineEvent, error) {
	events := make([]TimelineEvent, 0, len(specs))
	for i, s := range specs {
		ev, err := s.ToEvent()
		if err != nil {
			return nil, fmt.Errorf("event %d: %w", i, err)
		}
		events = append(events, ev)
	}
	return events, nil
}

func parseDate(field, value string) (time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return time.Time{}, fmt.Errorf("%s is required", field)
	}
	t, err := time.Parse(DateLayout, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, fmt.Errorf("%s %q: expected YYYY-MM-DD", field, value)
	}
	return t, nil
}

// YearlyBalance is one simulated year of the timeline projection
type YearlyBalance struct {
	Year         int             `json:"year"`
	MainBalance  decimal.Decimal `json:"mainBalance"`
	SubBalance   decimal.Decimal `json:"subBalance"`
	Salary       decimal.Decimal `json:"salary"`
	Contribution decimal.Decimal `json:"contribution"`
	SickDays     decimal.Decimal `json:"sickDays"`
}

// Total returns main plus sub-account balance
func (b YearlyBalance) Total() decimal.Decimal {
	return b.MainBalance.Add(b.SubBalance)
}

// TimelineProjection is the ordered output of the timeline balance projector
type TimelineProjection struct {
	Balances         []YearlyBalance `json:"balances"`
	TotalMainBalance decimal.Decimal `json:"totalMainBalance"`
	TotalSubBalance  decimal.Decimal `json:"totalSubBalance"`
	Notices          []Notice        `json:"notices,omitempty"`
}
