package calculation

import (
	"fmt"

	"github.com/rgehrsitz/pengo/internal/domain"
	"github.com/shopspring/decimal"
)

var (
	decimalZero    = decimal.Zero
	decimalOne     = decimal.NewFromInt(1)
	decimalTwelve  = decimal.NewFromInt(12)
	decimalHundred = decimal.NewFromInt(100)
)

// Engine runs pension projections. It holds only constants and a logger;
// reference tables are passed to every call and never retained, so one Engine
// can serve concurrent projections.
type Engine struct {
	Assumptions domain.Assumptions
	Logger      Logger
	Debug       bool
}

// NewEngine creates an engine with the statutory assumptions
func NewEngine() *Engine {
	return NewEngineWithAssumptions(domain.DefaultAssumptions())
}

// NewEngineWithAssumptions creates an engine with overridden constants; unset
// fields keep their defaults.
func NewEngineWithAssumptions(a domain.Assumptions) *Engine {
	return &Engine{
		Assumptions: a.WithDefaults(),
		Logger:      NopLogger{},
	}
}

// SetLogger sets the diagnostics logger; nil restores the no-op logger
func (ce *Engine) SetLogger(l Logger) {
	if l == nil {
		ce.Logger = NopLogger{}
		return
	}
	ce.Logger = l
}

// WithSickDaysPerYear returns a copy of the engine using a different average
// number of sick days for years without recorded leave.
func (ce *Engine) WithSickDaysPerYear(days decimal.Decimal) *Engine {
	clone := *ce
	clone.Assumptions.DefaultSickDaysPerYear = days
	return &clone
}

// RetirementAge returns the base retirement age for the parameters' gender
func (ce *Engine) RetirementAge(params domain.ProjectionParameters) int {
	return ce.Assumptions.RetirementAge(params.Gender)
}

// validateParameters is the single entry check every accumulator variant runs
// before touching any table.
func validateParameters(op string, params domain.ProjectionParameters) error {
	if params.MonthlyIncome.LessThanOrEqual(decimalZero) {
		return newError(op, ErrInvalidParameters, "monthly income must be positive, got %s", params.MonthlyIncome.String())
	}
	if params.YearWorkStart >= params.YearRetirement {
		return newError(op, ErrInvalidParameters, "work start year %d must be before retirement year %d",
			params.YearWorkStart, params.YearRetirement)
	}
	return nil
}

func tablesOrEmpty(ref *domain.ReferenceData) *domain.ReferenceData {
	if ref == nil {
		return &domain.ReferenceData{}
	}
	return ref
}

// noticeSink forwards soft diagnostics to the logger and keeps one copy of
// each (code, year) pair for callers that return them.
type noticeSink struct {
	logger  Logger
	seen    map[string]struct{}
	notices []domain.Notice
}

func (ce *Engine) newSink() *noticeSink {
	return &noticeSink{logger: ce.Logger, seen: map[string]struct{}{}}
}

func (s *noticeSink) add(level domain.NoticeLevel, code string, year int, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	key := fmt.Sprintf("%s/%d", code, year)
	if _, dup := s.seen[key]; dup {
		return
	}
	s.seen[key] = struct{}{}
	if level == domain.NoticeWarning {
		s.logger.Warnf("%s", msg)
	} else {
		s.logger.Debugf("%s", msg)
	}
	s.notices = append(s.notices, domain.Notice{Level: level, Code: code, Year: year, Message: msg})
}

func (s *noticeSink) list() []domain.Notice {
	if len(s.notices) == 0 {
		return nil
	}
	out := make([]domain.Notice, len(s.notices))
	copy(out, s.notices)
	return out
}

// roundMoney rounds to the cent, half away from zero (half up for the
// non-negative amounts the engine produces)
func roundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
