package output

import (
	"fmt"

	"github.com/rgehrsitz/pengo/internal/domain"
	"github.com/shopspring/decimal"
)

// DescribeAssumptions lists the constants a report was computed with, for the
// detailed outputs.
func DescribeAssumptions(a domain.Assumptions) []string {
	hundred := decimal.NewFromInt(100)
	return []string{
		fmt.Sprintf("Contribution rate: %s of gross salary", FormatPercentage(a.ContributionRate.Mul(hundred))),
		fmt.Sprintf("Inflation: %s annually", FormatPercentage(a.InflationRate.Mul(hundred))),
		fmt.Sprintf("Contribution cap: %sx the average monthly salary", a.ContributionCapMultiplier.String()),
		fmt.Sprintf("Sick leave: %s days per year, %s working days per month", a.DefaultSickDaysPerYear.String(), a.WorkingDaysPerMonth.String()),
		fmt.Sprintf("Retirement age: %d (men), %d (women)", a.RetirementAgeMale, a.RetirementAgeFemale),
		fmt.Sprintf("Life expectancy tables: ages %d-%d", a.MinAnnuityAge, a.MaxAnnuityAge),
	}
}
