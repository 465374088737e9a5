package calculation

import (
	"github.com/rgehrsitz/pengo/internal/domain"
	"github.com/shopspring/decimal"
)

var decimalFour = decimal.NewFromInt(4)

// LatestBalance returns the last yearly snapshot, or false for an empty series
func LatestBalance(balances []domain.YearlyBalance) (domain.YearlyBalance, bool) {
	if len(balances) == 0 {
		return domain.YearlyBalance{}, false
	}
	return balances[len(balances)-1], true
}

// BalanceAt returns the snapshot for year
func BalanceAt(balances []domain.YearlyBalance, year int) (domain.YearlyBalance, bool) {
	for _, b := range balances {
		if b.Year == year {
			return b, true
		}
	}
	return domain.YearlyBalance{}, false
}

// ChartPoint is one year of a balance chart
type ChartPoint struct {
	Year int             `json:"year"`
	Main decimal.Decimal `json:"main"`
	Sub  decimal.Decimal `json:"sub"`
}

// ChartSeries flattens the balances into chart points, in year order
func ChartSeries(balances []domain.YearlyBalance) []ChartPoint {
	points := make([]ChartPoint, 0, len(balances))
	for _, b := range balances {
		points = append(points, ChartPoint{Year: b.Year, Main: roundMoney(b.MainBalance), Sub: roundMoney(b.SubBalance)})
	}
	return points
}

// Capitalization selects how often sub-account interest is credited
type Capitalization string

const (
	CapitalizeAnnually  Capitalization = "annual"
	CapitalizeQuarterly Capitalization = "quarterly"
)

// SubAccountGrowth is the outcome of CapitalizeSubAccount
type SubAccountGrowth struct {
	Final   decimal.Decimal         `json:"final"`
	ByYear  map[int]decimal.Decimal `json:"byYear"`
	Periods int                     `json:"periods"`
}

// CapitalizeSubAccount grows a sub-account balance at a yearly interest rate
// over [startYear, endYear). Quarterly capitalization credits rate/4 four times
// per year. ByYear holds the balance at the end of each year.
func CapitalizeSubAccount(initial, rate decimal.Decimal, startYear, endYear int, mode Capitalization) (*SubAccountGrowth, error) {
	const op = "capitalize_sub_account"
	if initial.LessThan(decimalZero) {
		return nil, newError(op, ErrInvalidParameters, "initial amount must not be negative, got %s", initial.String())
	}
	if endYear < startYear {
		return nil, newError(op, ErrInvalidParameters, "end year %d is before start year %d", endYear, startYear)
	}

	perYear, periodRate := 1, rate
	switch mode {
	case CapitalizeAnnually, "":
	case CapitalizeQuarterly:
		perYear, periodRate = 4, rate.Div(decimalFour)
	default:
		return nil, newError(op, ErrInvalidParameters, "unknown capitalization %q (valid: annual, quarterly)", mode)
	}

	growth := &SubAccountGrowth{ByYear: make(map[int]decimal.Decimal, endYear-startYear)}
	amount := initial
	for year := startYear; year < endYear; year++ {
		for i := 0; i < perYear; i++ {
			amount = amount.Mul(decimalOne.Add(periodRate))
			growth.Periods++
		}
		growth.ByYear[year] = roundMoney(amount)
	}
	growth.Final = roundMoney(amount)
	return growth, nil
}
