package transform

import (
	"fmt"

	"github.com/rgehrsitz/pengo/internal/domain"
	"github.com/shopspring/decimal"
)

// ModifyInflation changes the inflation constant used when compounding salaries.
// A zero rate is recorded explicitly so defaults do not bring inflation back.
type ModifyInflation struct {
	NewRate decimal.Decimal // New inflation rate (e.g., 0.025 for 2.5%)
}

func (mi *ModifyInflation) Name() string {
	return "modify_inflation"
}

func (mi *ModifyInflation) Description() string {
	percentage := mi.NewRate.Mul(decimal.NewFromInt(100))
	return fmt.Sprintf("Change inflation rate to %s%%", percentage.StringFixed(1))
}

func (mi *ModifyInflation) Validate(base *domain.ProjectionInput) error {
	if mi.NewRate.LessThan(decimal.Zero) || mi.NewRate.GreaterThan(decimal.NewFromFloat(0.10)) {
		return NewTransformError(mi.Name(), "validate", fmt.Sprintf("inflation rate must be between 0 and 0.10, got %s", mi.NewRate.String()), nil)
	}
	return requireBase(mi.Name(), base)
}

func (mi *ModifyInflation) Apply(base *domain.ProjectionInput) (*domain.ProjectionInput, error) {
	modified := base.DeepCopy()
	if modified.Assumptions == nil {
		modified.Assumptions = &domain.Assumptions{}
	}
	modified.Assumptions.InflationRate = mi.NewRate
	modified.Assumptions.ZeroInflation = mi.NewRate.IsZero()
	return modified, nil
}

// ModifyContributionRate changes the share of salary paid into the pension account
type ModifyContributionRate struct {
	NewRate decimal.Decimal
}

func (mc *ModifyContributionRate) Name() string {
	return "modify_contribution_rate"
}

func (mc *ModifyContributionRate) Description() string {
	percentage := mc.NewRate.Mul(decimal.NewFromInt(100))
	return fmt.Sprintf("Change contribution rate to %s%%", percentage.StringFixed(2))
}

func (mc *ModifyContributionRate) Validate(base *domain.ProjectionInput) error {
	if !mc.NewRate.IsPositive() || mc.NewRate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return NewTransformError(mc.Name(), "validate", fmt.Sprintf("contribution rate must be between 0 and 1, got %s", mc.NewRate.String()), nil)
	}
	return requireBase(mc.Name(), base)
}

func (mc *ModifyContributionRate) Apply(base *domain.ProjectionInput) (*domain.ProjectionInput, error) {
	modified := base.DeepCopy()
	if modified.Assumptions == nil {
		modified.Assumptions = &domain.Assumptions{}
	}
	modified.Assumptions.ContributionRate = mc.NewRate
	return modified, nil
}
