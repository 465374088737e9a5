package transform

import (
	"fmt"

	"github.com/rgehrsitz/pengo/internal/domain"
	"github.com/shopspring/decimal"
)

// AdjustIncome scales the starting monthly income by a relative change
// (0.10 for a 10% raise, -0.10 for a 10% cut).
type AdjustIncome struct {
	Change decimal.Decimal
}

func (ai *AdjustIncome) Name() string {
	return "adjust_income"
}

func (ai *AdjustIncome) Description() string {
	pct := ai.Change.Mul(decimal.NewFromInt(100))
	if ai.Change.IsNegative() {
		return fmt.Sprintf("Cut starting income by %s%%", pct.Neg().StringFixed(0))
	}
	return fmt.Sprintf("Raise starting income by %s%%", pct.StringFixed(0))
}

func (ai *AdjustIncome) Validate(base *domain.ProjectionInput) error {
	if ai.Change.LessThanOrEqual(decimal.NewFromInt(-1)) {
		return NewTransformError(ai.Name(), "validate", fmt.Sprintf("change must be above -100%%, got %s", ai.Change.String()), nil)
	}
	return requireBase(ai.Name(), base)
}

func (ai *AdjustIncome) Apply(base *domain.ProjectionInput) (*domain.ProjectionInput, error) {
	modified := base.DeepCopy()
	factor := decimal.NewFromInt(1).Add(ai.Change)
	modified.Parameters.MonthlyIncome = modified.Parameters.MonthlyIncome.Mul(factor).Round(2)
	return modified, nil
}

// SetIncome replaces the starting monthly income
type SetIncome struct {
	Amount decimal.Decimal
}

func (si *SetIncome) Name() string {
	return "set_income"
}

func (si *SetIncome) Description() string {
	return fmt.Sprintf("Set starting income to %s", si.Amount.StringFixed(2))
}

func (si *SetIncome) Validate(base *domain.ProjectionInput) error {
	if si.Amount.LessThanOrEqual(decimal.Zero) {
		return NewTransformError(si.Name(), "validate", "amount must be positive", nil)
	}
	return requireBase(si.Name(), base)
}

func (si *SetIncome) Apply(base *domain.ProjectionInput) (*domain.ProjectionInput, error) {
	modified := base.DeepCopy()
	modified.Parameters.MonthlyIncome = si.Amount
	return modified, nil
}
