package calculation

import (
	"errors"
	"time"

	"github.com/rgehrsitz/pengo/internal/domain"
	"github.com/shopspring/decimal"
)

// ForInput returns the engine an input should run on: its assumption
// overrides and average sick-day count applied, logger and debug kept.
func (ce *Engine) ForInput(input *domain.ProjectionInput) *Engine {
	derived := ce
	if input.Assumptions != nil {
		derived = NewEngineWithAssumptions(*input.Assumptions)
		derived.Logger = ce.Logger
		derived.Debug = ce.Debug
	}
	if input.Options.SickDaysPerYear != nil {
		derived = derived.WithSickDaysPerYear(*input.Options.SickDaysPerYear)
	}
	return derived
}

// RealValue discounts a nominal amount by the inflation constant over years
func (ce *Engine) RealValue(amount decimal.Decimal, years int) decimal.Decimal {
	factor := decimalOne
	growth := decimalOne.Add(ce.Assumptions.InflationRate)
	for i := 0; i < years; i++ {
		factor = factor.Mul(growth)
	}
	return roundMoney(amount.Div(factor))
}

// BuildReport runs every projection an input asks for and assembles the result
// screen figures. Failures of the base projection are returned as errors; a
// delayed variant outside the annuity domain or an unreachable target only add
// a notice, since the rest of the report is still meaningful.
func (ce *Engine) BuildReport(input *domain.ProjectionInput, ref *domain.ReferenceData) (*domain.ProjectionReport, error) {
	const op = "build_report"
	if input == nil {
		return nil, newError(op, ErrInvalidParameters, "input is required")
	}
	params := input.Parameters
	if params.Gender != domain.GenderMale && params.Gender != domain.GenderFemale {
		return nil, newError(op, ErrInvalidParameters, "unknown gender %q", params.Gender)
	}
	if err := validateParameters(op, params); err != nil {
		return nil, err
	}

	engine := ce.ForInput(input)
	ref = tablesOrEmpty(ref)
	sink := engine.newSink()
	opts := input.Options

	report := &domain.ProjectionReport{
		Name:            input.Name,
		Parameters:      params,
		RetirementAge:   engine.RetirementAge(params),
		Assumptions:     engine.Assumptions,
		IncludeSickDays: opts.IncludeSickDays,
		GeneratedAt:     time.Now().UTC(),
	}

	report.FinalSalary = roundMoney(engine.indexAmount(params.MonthlyIncome, params.YearWorkStart, params.YearRetirement, ref, false, sink))

	var err error
	if report.IndexedTotal, err = engine.totalAccumulation(params, ref, false, sink); err != nil {
		return nil, err
	}
	if report.IndexedMonthly, err = engine.MonthlyPension(report.IndexedTotal, report.RetirementAge, ref); err != nil {
		return nil, err
	}
	report.RealMonthly = engine.RealValue(report.IndexedMonthly, params.WorkYears())

	report.SickAdjustedTotal, report.SickAdjustedMonthly = report.IndexedTotal, report.IndexedMonthly
	if opts.IncludeSickDays {
		if report.SickAdjustedTotal, err = engine.totalAccumulation(params, ref, true, sink); err != nil {
			return nil, err
		}
		if report.SickAdjustedMonthly, err = engine.MonthlyPension(report.SickAdjustedTotal, report.RetirementAge, ref); err != nil {
			return nil, err
		}
	}

	if report.ReplacementRate, err = engine.replacementRate(params, ref, opts.IncludeSickDays, sink); err != nil {
		return nil, err
	}

	delay := DelayOptions{BaseSickDays: opts.IncludeSickDays, ExtensionSickDays: opts.IncludeSickDays}
	delayed, err := engine.delayedRetirement(params, ref, opts.EffectiveDelayYears(), delay, sink)
	switch {
	case err == nil:
		report.Delayed = delayed
	case errors.Is(err, ErrOutOfRange), errors.Is(err, ErrMissingReferenceData):
		sink.add(domain.NoticeWarning, domain.CodeDelayedOutOfRange, params.YearRetirement+opts.EffectiveDelayYears(),
			"no delayed retirement figure for %d extra years: %s", opts.EffectiveDelayYears(), err.Error())
	default:
		return nil, err
	}

	if opts.TargetPension != nil {
		gap, err := engine.yearsToTarget(params, ref, opts.IncludeSickDays, *opts.TargetPension, engine.Assumptions.MaxAnnuityAge, sink)
		switch {
		case err == nil:
			report.Target = gap
		case errors.Is(err, ErrTargetUnreachable):
			sink.add(domain.NoticeWarning, domain.CodeTargetUnreachable, 0, "%s", err.Error())
		default:
			return nil, err
		}
	}

	if opts.IncludeTimeline || len(input.Events) > 0 {
		events, err := domain.ParseEvents(input.Events)
		if err != nil {
			return nil, &ProjectionError{Op: op, Kind: ErrInvalidParameters, Message: "bad timeline event", Cause: err}
		}
		report.Timeline = engine.projectTimeline(params, events, ref, TimelineOptions{IncludeSickDays: opts.IncludeSickDays}, sink)
	}

	report.Notices = sink.list()
	return report, nil
}

// UsageFor summarizes a report as a usage record
func UsageFor(input *domain.ProjectionInput, report *domain.ProjectionReport) domain.UsageReport {
	usage := domain.UsageReport{
		CreatedAt:           report.GeneratedAt,
		Age:                 input.Age,
		Gender:              report.Parameters.Gender,
		Salary:              report.Parameters.MonthlyIncome,
		IncludedSickPeriods: report.IncludeSickDays,
		AccountFunds:        report.SickAdjustedTotal,
		RealPension:         report.RealMonthly,
		AdjustedPension:     report.SickAdjustedMonthly,
		PostalCode:          input.PostalCode,
	}
	if input.Options.TargetPension != nil {
		usage.ExpectedPension = *input.Options.TargetPension
	}
	return usage
}
