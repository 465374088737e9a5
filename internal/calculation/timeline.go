package calculation

import (
	"sort"
	"time"

	"github.com/rgehrsitz/pengo/internal/domain"
	"github.com/shopspring/decimal"
)

// TimelineOptions controls sick-day accounting for the timeline projection
type TimelineOptions struct {
	IncludeSickDays bool
}

// ProjectTimeline folds dated life events into the yearly accumulation and
// returns one YearlyBalance per year in [YearWorkStart, YearRetirement).
//
// Per year: a salary change effective that year replaces the compounded
// salary; recorded sick leave (or the yearly average when none is recorded)
// reduces the contribution, which is then capped and added to the main
// account; sub-account deposits are added as nominal cash.
func (ce *Engine) ProjectTimeline(params domain.ProjectionParameters, events []domain.TimelineEvent, ref *domain.ReferenceData, opts TimelineOptions) (*domain.TimelineProjection, error) {
	if err := validateParameters("project_timeline", params); err != nil {
		return nil, err
	}
	sink := ce.newSink()
	projection := ce.projectTimeline(params, events, tablesOrEmpty(ref), opts, sink)
	projection.Notices = sink.list()
	return projection, nil
}

func (ce *Engine) projectTimeline(params domain.ProjectionParameters, events []domain.TimelineEvent, ref *domain.ReferenceData, opts TimelineOptions, sink *noticeSink) *domain.TimelineProjection {
	salaryChanges := salaryChangesByYear(events)
	sickDays := sickDaysByYear(events)
	deposits := depositsByYear(events)

	balances := make([]domain.YearlyBalance, 0, params.WorkYears())
	salary := params.MonthlyIncome
	main, sub := decimalZero, decimalZero

	for year := params.YearWorkStart; year < params.YearRetirement; year++ {
		if amount, ok := salaryChanges[year]; ok {
			salary = amount
		}

		effectiveSick := decimalZero
		if opts.IncludeSickDays {
			// a year whose recorded leave spans zero days counts as a year without leave
			if days, ok := sickDays[year]; ok && days > 0 {
				effectiveSick = decimal.NewFromInt(int64(days))
			} else {
				effectiveSick = ce.Assumptions.DefaultSickDaysPerYear
			}
		}

		contribution := ce.yearlyContribution(year, salary, effectiveSick, ref, sink)
		main = main.Add(contribution)
		sub = sub.Add(deposits[year])

		balances = append(balances, domain.YearlyBalance{
			Year:         year,
			MainBalance:  roundMoney(main),
			SubBalance:   roundMoney(sub),
			Salary:       roundMoney(salary),
			Contribution: roundMoney(contribution),
			SickDays:     effectiveSick,
		})

		salary = salary.Mul(decimalOne.Add(ce.growthRate(year, ref, true, sink)))
	}

	return &domain.TimelineProjection{
		Balances:         balances,
		TotalMainBalance: roundMoney(main),
		TotalSubBalance:  roundMoney(sub),
	}
}

// salaryChangesByYear keeps, for each year, the latest-dated salary change
func salaryChangesByYear(events []domain.TimelineEvent) map[int]decimal.Decimal {
	var changes []domain.SalaryChange
	for _, e := range events {
		if sc, ok := e.(domain.SalaryChange); ok {
			changes = append(changes, sc)
		}
	}
	sort.SliceStable(changes, func(i, j int) bool { return changes[i].Effective.Before(changes[j].Effective) })

	out := make(map[int]decimal.Decimal, len(changes))
	for _, sc := range changes {
		out[sc.Effective.Year()] = sc.MonthlyAmount
	}
	return out
}

// sickDaysByYear splits every sick leave across the calendar years it touches.
// Each year receives the day difference between the leave's clipped start and
// end, using 1 January of the following year as the clip boundary, so the
// per-year parts always add up to the leave's total span.
func sickDaysByYear(events []domain.TimelineEvent) map[int]int {
	out := map[int]int{}
	for _, e := range events {
		leave, ok := e.(domain.SickLeave)
		if !ok {
			continue
		}
		for year := leave.Start.Year(); year <= leave.End.Year(); year++ {
			from := laterOf(leave.Start, yearStart(year))
			to := earlierOf(leave.End, yearStart(year+1))
			if days := daysBetween(from, to); days > 0 {
				out[year] += days
			}
		}
	}
	return out
}

func depositsByYear(events []domain.TimelineEvent) map[int]decimal.Decimal {
	out := map[int]decimal.Decimal{}
	for _, e := range events {
		if d, ok := e.(domain.SubAccountDeposit); ok {
			year := d.Effective.Year()
			out[year] = out[year].Add(d.Amount)
		}
	}
	return out
}

func yearStart(year int) time.Time {
	return time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
}

// daysBetween counts calendar days from a to b, ignoring time of day and zone
func daysBetween(a, b time.Time) int {
	da := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	db := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(db.Sub(da).Hours() / 24)
}

func laterOf(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func earlierOf(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
