package refdata

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// RateStyle says how a wage growth file writes its rates
type RateStyle string

const (
	// StyleIndex writes growth as an index over the previous year: "105.3%" or "1.053"
	StyleIndex RateStyle = "index"
	// StyleDelta writes growth as the change itself: "5.3%" or "0.053"
	StyleDelta RateStyle = "delta"
)

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)

	// an index below this is almost certainly a delta written without style: delta
	minIndex = decimal.RequireFromString("0.5")
)

// ParseRate converts a rate string into the canonical fractional delta, so
// "105.3%" (index) and "5.3%" (delta) both become 0.053. A trailing percent
// sign divides by 100. A missing style means index; an index under 50% is
// rejected rather than read as a collapse in wages. Every table rate passes
// through here exactly once.
func ParseRate(raw string, style RateStyle) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	percent := strings.HasSuffix(s, "%")
	s = strings.TrimSpace(strings.TrimSuffix(s, "%"))
	s = strings.ReplaceAll(s, ",", ".")

	value, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid rate %q: %w", raw, err)
	}
	if percent {
		value = value.Div(hundred)
	}

	switch style {
	case StyleIndex, "":
		if value.LessThan(minIndex) {
			return decimal.Zero, fmt.Errorf("index rate %q is below 50%%; a growth delta needs style: delta", raw)
		}
		value = value.Sub(one)
	case StyleDelta:
	default:
		return decimal.Zero, fmt.Errorf("unknown rate style %q (valid: index, delta)", style)
	}

	if value.LessThanOrEqual(one.Neg()) {
		return decimal.Zero, fmt.Errorf("rate %q would wipe out the salary", raw)
	}
	return value, nil
}

// parseAmount reads a positive decimal, accepting a comma decimal separator
func parseAmount(raw string) (decimal.Decimal, error) {
	s := strings.ReplaceAll(strings.TrimSpace(raw), ",", ".")
	s = strings.ReplaceAll(s, " ", "")
	value, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", raw, err)
	}
	if value.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, fmt.Errorf("amount %q must be positive", raw)
	}
	return value, nil
}
