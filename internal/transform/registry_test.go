package transform

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_List(t *testing.T) {
	names := NewTransformRegistry().List()
	assert.Len(t, names, 10)
	assert.Equal(t, "add_deposit", names[0])
	assert.Contains(t, names, "postpone_retirement")
	assert.Contains(t, names, "modify_inflation")
}

func TestRegistry_ParseTransformSpec(t *testing.T) {
	r := NewTransformRegistry()

	tests := []struct {
		spec string
		want ProjectionTransform
	}{
		{"postpone_retirement:years=2", &PostponeRetirement{Years: 2}},
		{"set_retirement_year:year=2060", &SetRetirementYear{Year: 2060}},
		{"set_income: amount = 9000", &SetIncome{Amount: decimal.NewFromInt(9000)}},
		{"add_deposit:year=2035,amount=1500.50", &AddSubAccountDeposit{Year: 2035, Amount: decimal.RequireFromString("1500.50")}},
		{"change_salary:year=2040,amount=12000", &ChangeSalaryFrom{Year: 2040, Amount: decimal.NewFromInt(12000)}},
		{"modify_contribution_rate:rate=0.2", &ModifyContributionRate{NewRate: decimal.RequireFromString("0.2")}},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			got, err := r.ParseTransformSpec(tt.spec)
			require.NoError(t, err)
			assert.Equal(t, tt.want.Name(), got.Name())
			assert.Equal(t, tt.want.Description(), got.Description())
		})
	}
}

func TestRegistry_AdjustIncomePercent(t *testing.T) {
	got, err := NewTransformRegistry().ParseTransformSpec("adjust_income:percent=-15")
	require.NoError(t, err)
	ai, ok := got.(*AdjustIncome)
	require.True(t, ok)
	assert.True(t, ai.Change.Equal(decimal.RequireFromString("-0.15")), ai.Change.String())
}

func TestRegistry_SetSickDays(t *testing.T) {
	r := NewTransformRegistry()

	got, err := r.ParseTransformSpec("set_sick_days:include=true,days=12")
	require.NoError(t, err)
	ss := got.(*SetSickDays)
	assert.True(t, ss.Include)
	require.NotNil(t, ss.DaysPerYear)
	assert.True(t, ss.DaysPerYear.Equal(decimal.NewFromInt(12)))

	got, err = r.ParseTransformSpec("set_sick_days:include=false")
	require.NoError(t, err)
	assert.Nil(t, got.(*SetSickDays).DaysPerYear)
}

func TestRegistry_AddSickLeave(t *testing.T) {
	got, err := NewTransformRegistry().ParseTransformSpec("add_sick_leave:start=2030-12-15,end=2031-01-15")
	require.NoError(t, err)
	asl := got.(*AddSickLeave)
	assert.Equal(t, 2030, asl.Start.Year())
	assert.Equal(t, 15, asl.End.Day())
}

func TestRegistry_Errors(t *testing.T) {
	r := NewTransformRegistry()

	tests := []struct {
		spec    string
		wantErr string
	}{
		{"postpone_retirement", "expected 'name:params'"},
		{"unknown:x=1", "unknown transform"},
		{"postpone_retirement:years", "expected 'key=value'"},
		{"postpone_retirement:", "requires 'years'"},
		{"postpone_retirement:years=two", "invalid years value"},
		{"set_income:amount=lots", "invalid amount value"},
		{"set_sick_days:include=maybe", "invalid include value"},
		{"add_sick_leave:start=15.12.2030,end=2031-01-15", "expected YYYY-MM-DD"},
		{"add_deposit:year=2030", "requires 'amount'"},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			_, err := r.ParseTransformSpec(tt.spec)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestTemplates_BuiltIn(t *testing.T) {
	registry := CreateBuiltInTemplates()

	names := registry.List()
	for _, want := range []string{"postpone_1yr", "postpone_2yr", "postpone_5yr", "with_sick_leave", "no_sick_leave", "raise_10pct", "cut_10pct", "zero_inflation"} {
		assert.Contains(t, names, want)
	}

	tmpl, ok := registry.Get("Postpone_5YR")
	require.True(t, ok, "lookup is case-insensitive")

	out, err := ApplyTemplate(createTestInput(), tmpl)
	require.NoError(t, err)
	assert.Equal(t, 2060, out.Parameters.YearRetirement)

	combo, ok := registry.Get("postpone_2yr_raise_10pct")
	require.True(t, ok)
	out, err = ApplyTemplate(createTestInput(), combo)
	require.NoError(t, err)
	assert.Equal(t, 2057, out.Parameters.YearRetirement)
	assert.True(t, out.Parameters.MonthlyIncome.Equal(decimal.NewFromInt(7150)))
}

func TestTemplates_EmptyTemplateCopies(t *testing.T) {
	base := createTestInput()
	out, err := ApplyTemplate(base, Template{Name: "noop"})
	require.NoError(t, err)
	assert.NotSame(t, base, out)
	assert.Equal(t, base.Parameters, out.Parameters)
}

func TestParseTemplateList(t *testing.T) {
	assert.Nil(t, ParseTemplateList(""))
	assert.Equal(t, []string{"postpone_1yr", "raise_10pct"}, ParseTemplateList(" postpone_1yr, ,raise_10pct "))
}

func TestGetTemplateHelp(t *testing.T) {
	assert.Equal(t, "No templates registered", GetTemplateHelp(NewTemplateRegistry()))

	help := GetTemplateHelp(CreateBuiltInTemplates())
	for _, section := range []string{"Retirement Timing:", "Sick Leave:", "Salary:", "Inflation:", "Combination Strategies:", "Usage:"} {
		assert.Contains(t, help, section)
	}
	timing := help[strings.Index(help, "Retirement Timing:"):strings.Index(help, "Sick Leave:")]
	assert.NotContains(t, timing, "postpone_2yr_raise_10pct")
}
