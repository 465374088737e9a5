package transform

import (
	"fmt"
	"time"

	"github.com/rgehrsitz/pengo/internal/domain"
	"github.com/shopspring/decimal"
)

// SetSickDays turns sick-day accounting on or off. With DaysPerYear set, the
// yearly average used for years without recorded leave is replaced too.
type SetSickDays struct {
	Include     bool
	DaysPerYear *decimal.Decimal
}

func (ss *SetSickDays) Name() string {
	return "set_sick_days"
}

func (ss *SetSickDays) Description() string {
	if !ss.Include {
		return "Ignore sick leave"
	}
	if ss.DaysPerYear != nil {
		return fmt.Sprintf("Account for %s sick days per year", ss.DaysPerYear.String())
	}
	return "Account for average sick leave"
}

func (ss *SetSickDays) Validate(base *domain.ProjectionInput) error {
	if ss.DaysPerYear != nil && (ss.DaysPerYear.IsNegative() || ss.DaysPerYear.GreaterThan(decimal.NewFromInt(366))) {
		return NewTransformError(ss.Name(), "validate", fmt.Sprintf("days per year must be between 0 and 366, got %s", ss.DaysPerYear.String()), nil)
	}
	return requireBase(ss.Name(), base)
}

func (ss *SetSickDays) Apply(base *domain.ProjectionInput) (*domain.ProjectionInput, error) {
	modified := base.DeepCopy()
	modified.Options.IncludeSickDays = ss.Include
	if ss.DaysPerYear != nil {
		days := *ss.DaysPerYear
		modified.Options.SickDaysPerYear = &days
	}
	return modified, nil
}

// AddSickLeave appends a recorded sick-leave interval to the timeline
type AddSickLeave struct {
	Start time.Time
	End   time.Time
}

func (asl *AddSickLeave) Name() string {
	return "add_sick_leave"
}

func (asl *AddSickLeave) Description() string {
	return fmt.Sprintf("Sick leave %s to %s", asl.Start.Format(domain.DateLayout), asl.End.Format(domain.DateLayout))
}

func (asl *AddSickLeave) Validate(base *domain.ProjectionInput) error {
	if asl.Start.IsZero() || asl.End.IsZero() {
		return NewTransformError(asl.Name(), "validate", "start and end dates are required", nil)
	}
	if asl.End.Before(asl.Start) {
		return NewTransformError(asl.Name(), "validate", "end date is before start date", nil)
	}
	return requireBase(asl.Name(), base)
}

func (asl *AddSickLeave) Apply(base *domain.ProjectionInput) (*domain.ProjectionInput, error) {
	modified := base.DeepCopy()
	modified.Events = append(modified.Events, domain.SpecFromEvent(domain.SickLeave{
		Title: "what-if sick leave",
		Start: asl.Start,
		End:   asl.End,
	}))
	modified.Options.IncludeSickDays = true
	return modified, nil
}
