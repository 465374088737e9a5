package transform

import (
	"fmt"

	"github.com/rgehrsitz/pengo/internal/domain"
)

// PostponeRetirement moves the retirement year later by a number of years.
// The retirement age moves with it, so the capital is annuitized with the
// life expectancy of the later age.
type PostponeRetirement struct {
	Years int // Number of years to postpone (positive integer)
}

func (pt *PostponeRetirement) Name() string {
	return "postpone_retirement"
}

func (pt *PostponeRetirement) Description() string {
	if pt.Years == 1 {
		return "Postpone retirement by 1 year"
	}
	return fmt.Sprintf("Postpone retirement by %d years", pt.Years)
}

func (pt *PostponeRetirement) Validate(base *domain.ProjectionInput) error {
	if pt.Years < 0 {
		return NewTransformError(pt.Name(), "validate", fmt.Sprintf("years must be non-negative, got %d", pt.Years), nil)
	}
	if err := requireBase(pt.Name(), base); err != nil {
		return err
	}
	return checkRetirementShift(pt.Name(), base, pt.Years)
}

func (pt *PostponeRetirement) Apply(base *domain.ProjectionInput) (*domain.ProjectionInput, error) {
	return shiftRetirement(base, pt.Years), nil
}

// SetRetirementYear sets the retirement year to an absolute value.
// Unlike PostponeRetirement which is relative, this sets an exact year.
type SetRetirementYear struct {
	Year int
}

func (sry *SetRetirementYear) Name() string {
	return "set_retirement_year"
}

func (sry *SetRetirementYear) Description() string {
	return fmt.Sprintf("Retire in %d", sry.Year)
}

func (sry *SetRetirementYear) Validate(base *domain.ProjectionInput) error {
	if err := requireBase(sry.Name(), base); err != nil {
		return err
	}
	if sry.Year <= base.Parameters.YearWorkStart {
		return NewTransformError(sry.Name(), "validate",
			fmt.Sprintf("retirement year %d must be after work start %d", sry.Year, base.Parameters.YearWorkStart), nil)
	}
	return checkRetirementShift(sry.Name(), base, sry.Year-base.Parameters.YearRetirement)
}

func (sry *SetRetirementYear) Apply(base *domain.ProjectionInput) (*domain.ProjectionInput, error) {
	return shiftRetirement(base, sry.Year-base.Parameters.YearRetirement), nil
}

// checkRetirementShift rejects shifts that move the retirement age out of the annuity tables
func checkRetirementShift(name string, base *domain.ProjectionInput, years int) error {
	a := domain.DefaultAssumptions()
	if base.Assumptions != nil {
		a = base.Assumptions.WithDefaults()
	}
	age := a.RetirementAge(base.Parameters.Gender) + years
	if age < a.MinAnnuityAge || age > a.MaxAnnuityAge {
		return NewTransformError(name, "validate",
			fmt.Sprintf("retirement age %d outside %d-%d", age, a.MinAnnuityAge, a.MaxAnnuityAge), nil)
	}
	return nil
}

func shiftRetirement(base *domain.ProjectionInput, years int) *domain.ProjectionInput {
	modified := base.DeepCopy()
	if years == 0 {
		return modified
	}
	if modified.Assumptions == nil {
		modified.Assumptions = &domain.Assumptions{}
	}
	effective := modified.Assumptions.WithDefaults()
	modified.Assumptions.RetirementAgeMale = effective.RetirementAgeMale + years
	modified.Assumptions.RetirementAgeFemale = effective.RetirementAgeFemale + years
	modified.Parameters.YearRetirement += years
	return modified
}
