package refdata

import (
	"time"

	"github.com/rgehrsitz/pengo/internal/domain"
)

// Span is the inclusive key range of one table
type Span struct {
	First   int `json:"first"`
	Last    int `json:"last"`
	Entries int `json:"entries"`
	Gaps    int `json:"gaps"`
}

// Summary describes a loaded set of tables
type Summary struct {
	Source         string    `json:"source"`
	LoadedAt       time.Time `json:"loadedAt"`
	WageGrowth     Span      `json:"wageGrowth"`
	AverageSalary  Span      `json:"averageSalary"`
	LifeExpectancy Span      `json:"lifeExpectancy"`
}

// Summarize reports the coverage of each table; gaps are keys missing inside the span
func Summarize(ref *domain.ReferenceData) Summary {
	s := Summary{Source: ref.Source, LoadedAt: ref.LoadedAt}
	if first, last, ok := ref.WageGrowth.Span(); ok {
		s.WageGrowth = newSpan(first, last, len(ref.WageGrowth))
	}
	if first, last, ok := ref.AverageSalary.Span(); ok {
		s.AverageSalary = newSpan(first, last, len(ref.AverageSalary))
	}
	if first, last, ok := ref.LifeExpectancy.Span(); ok {
		s.LifeExpectancy = newSpan(first, last, len(ref.LifeExpectancy))
	}
	return s
}

func newSpan(first, last, entries int) Span {
	return Span{First: first, Last: last, Entries: entries, Gaps: last - first + 1 - entries}
}
