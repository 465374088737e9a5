package calculation

import (
	"errors"
	"testing"

	"github.com/rgehrsitz/pengo/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonthlyPension(t *testing.T) {
	engine := NewEngine()

	monthly, err := engine.MonthlyPension(dec("532896"), 65, testRef())
	require.NoError(t, err)
	assert.Equal(t, "2327.06", monthly.StringFixed(2))
}

func TestMonthlyPension_RoundsLifeExpectancy(t *testing.T) {
	engine := NewEngine()
	ref := &domain.ReferenceData{LifeExpectancy: domain.LifeExpectancyTable{65: dec("199.6")}}

	monthly, err := engine.MonthlyPension(dec("1000"), 65, ref)
	require.NoError(t, err)
	assert.Equal(t, "5.00", monthly.StringFixed(2), "199.6 months rounds to 200")
}

func TestMonthlyPension_Errors(t *testing.T) {
	engine := NewEngine()

	tests := []struct {
		name  string
		total decimal.Decimal
		age   int
		ref   *domain.ReferenceData
		kind  error
	}{
		{"zero total", decimal.Zero, 65, testRef(), ErrInvalidParameters},
		{"negative total", dec("-5"), 65, testRef(), ErrInvalidParameters},
		{"age below range", dec("1000"), 59, testRef(), ErrOutOfRange},
		{"age above range", dec("1000"), 91, testRef(), ErrOutOfRange},
		{"age missing from table", dec("1000"), 65, &domain.ReferenceData{LifeExpectancy: domain.LifeExpectancyTable{66: dec("200")}}, ErrMissingReferenceData},
		{"no table at all", dec("1000"), 65, nil, ErrMissingReferenceData},
		{"zero months", dec("1000"), 65, &domain.ReferenceData{LifeExpectancy: domain.LifeExpectancyTable{65: dec("0.2")}}, ErrMissingReferenceData},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := engine.MonthlyPension(tt.total, tt.age, tt.ref)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.kind), "got %v", err)
		})
	}
}

func TestBasePension(t *testing.T) {
	engine := zeroInflationEngine()

	monthly, err := engine.BasePension(testParams(), testRef(), false)
	require.NoError(t, err)
	assert.Equal(t, "2327.06", monthly.StringFixed(2))

	params := testParams()
	params.Gender = domain.GenderFemale
	ref := testRef()
	delete(ref.LifeExpectancy, 60)
	_, err = engine.BasePension(params, ref, false)
	assert.True(t, errors.Is(err, ErrMissingReferenceData))
}

func TestReplacementRate(t *testing.T) {
	engine := zeroInflationEngine()

	rate, err := engine.ReplacementRate(testParams(), testRef(), false)
	require.NoError(t, err)
	assert.Equal(t, 36, rate, "2327.06 / 6500")
}

func TestReplacementRate_StableAcrossRuns(t *testing.T) {
	engine := NewEngine()
	ref := testRef()
	for year := 2020; year < 2055; year++ {
		ref.WageGrowth[year] = dec("0.031")
	}

	first, err := engine.ReplacementRate(testParams(), ref, true)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := engine.ReplacementRate(testParams(), ref, true)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}
