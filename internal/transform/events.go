package transform

import (
	"fmt"
	"time"

	"github.com/rgehrsitz/pengo/internal/domain"
	"github.com/shopspring/decimal"
)

// AddSubAccountDeposit adds a one-off sub-account deposit on 1 January of Year
type AddSubAccountDeposit struct {
	Year   int
	Amount decimal.Decimal
}

func (ad *AddSubAccountDeposit) Name() string {
	return "add_deposit"
}

func (ad *AddSubAccountDeposit) Description() string {
	return fmt.Sprintf("Deposit %s to the sub-account in %d", ad.Amount.StringFixed(2), ad.Year)
}

func (ad *AddSubAccountDeposit) Validate(base *domain.ProjectionInput) error {
	if ad.Amount.LessThanOrEqual(decimal.Zero) {
		return NewTransformError(ad.Name(), "validate", "amount must be positive", nil)
	}
	if err := requireBase(ad.Name(), base); err != nil {
		return err
	}
	p := base.Parameters
	if ad.Year < p.YearWorkStart || ad.Year >= p.YearRetirement {
		return NewTransformError(ad.Name(), "validate",
			fmt.Sprintf("year %d is outside the working years %d-%d", ad.Year, p.YearWorkStart, p.YearRetirement-1), nil)
	}
	return nil
}

func (ad *AddSubAccountDeposit) Apply(base *domain.ProjectionInput) (*domain.ProjectionInput, error) {
	modified := base.DeepCopy()
	modified.Events = append(modified.Events, domain.SpecFromEvent(domain.SubAccountDeposit{
		Title:     "what-if deposit",
		Effective: time.Date(ad.Year, time.January, 1, 0, 0, 0, 0, time.UTC),
		Amount:    ad.Amount,
	}))
	modified.Options.IncludeTimeline = true
	return modified, nil
}

// ChangeSalaryFrom replaces the monthly salary from 1 January of Year onward
type ChangeSalaryFrom struct {
	Year   int
	Amount decimal.Decimal
}

func (cs *ChangeSalaryFrom) Name() string {
	return "change_salary"
}

func (cs *ChangeSalaryFrom) Description() string {
	return fmt.Sprintf("Earn %s per month from %d", cs.Amount.StringFixed(2), cs.Year)
}

func (cs *ChangeSalaryFrom) Validate(base *domain.ProjectionInput) error {
	if cs.Amount.LessThanOrEqual(decimal.Zero) {
		return NewTransformError(cs.Name(), "validate", "amount must be positive", nil)
	}
	return requireBase(cs.Name(), base)
}

func (cs *ChangeSalaryFrom) Apply(base *domain.ProjectionInput) (*domain.ProjectionInput, error) {
	modified := base.DeepCopy()
	modified.Events = append(modified.Events, domain.SpecFromEvent(domain.SalaryChange{
		Title:         "what-if salary",
		Effective:     time.Date(cs.Year, time.January, 1, 0, 0, 0, 0, time.UTC),
		MonthlyAmount: cs.Amount,
	}))
	modified.Options.IncludeTimeline = true
	return modified, nil
}
