package domain

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// WageGrowthTable maps a year to its wage growth as a fractional delta
// (0.075 means 7.5% growth). Any year may be absent.
type WageGrowthTable map[int]decimal.Decimal

// AverageSalaryTable maps a year to the nationwide average salary used as the
// contribution-base ceiling for that year.
type AverageSalaryTable map[int]decimal.Decimal

// LifeExpectancyTable maps a retirement age to remaining life expectancy in months
type LifeExpectancyTable map[int]decimal.Decimal

// ReferenceData is the read-only set of tables a projection runs against.
// It is never mutated once handed to the engine.
type ReferenceData struct {
	WageGrowth     WageGrowthTable     `json:"wageGrowth"`
	AverageSalary  AverageSalaryTable  `json:"averageSalary"`
	LifeExpectancy LifeExpectancyTable `json:"lifeExpectancy"`

	Source   string    `json:"source,omitempty"`
	LoadedAt time.Time `json:"loadedAt"`
}

// Rate returns the growth delta for year and whether the year has data
func (t WageGrowthTable) Rate(year int) (decimal.Decimal, bool) {
	r, ok := t[year]
	return r, ok
}

// Ceiling returns the average salary for year and whether the year has data
func (t AverageSalaryTable) Ceiling(year int) (decimal.Decimal, bool) {
	v, ok := t[year]
	return v, ok
}

// Months returns life expectancy in months for age and whether the age has data
func (t LifeExpectancyTable) Months(age int) (decimal.Decimal, bool) {
	v, ok := t[age]
	return v, ok
}

// Span returns the smallest and largest key present, or ok=false when empty
func (t WageGrowthTable) Span() (first, last int, ok bool) {
	return span(t)
}

// Span returns the smallest and largest key present, or ok=false when empty
func (t AverageSalaryTable) Span() (first, last int, ok bool) {
	return span(t)
}

// Span returns the smallest and largest key present, or ok=false when empty
func (t LifeExpectancyTable) Span() (first, last int, ok bool) {
	return span(t)
}

func span[M ~map[int]decimal.Decimal](m M) (int, int, bool) {
	keys := sortedKeys(m)
	if len(keys) == 0 {
		return 0, 0, false
	}
	return keys[0], keys[len(keys)-1], true
}

func sortedKeys[M ~map[int]decimal.Decimal](m M) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
