package transform

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rgehrsitz/pengo/internal/domain"
	"github.com/shopspring/decimal"
)

// TransformRegistry provides a central registry for all available transforms.
// It enables creation of transforms from string parameters, useful for CLI commands.
type TransformRegistry struct {
	factories map[string]TransformFactory
}

// TransformFactory is a function that creates a transform from parameters.
type TransformFactory func(params map[string]string) (ProjectionTransform, error)

// NewTransformRegistry creates a new registry with all built-in transforms registered.
func NewTransformRegistry() *TransformRegistry {
	registry := &TransformRegistry{
		factories: make(map[string]TransformFactory),
	}

	registry.Register("postpone_retirement", createPostponeRetirement)
	registry.Register("set_retirement_year", createSetRetirementYear)
	registry.Register("adjust_income", createAdjustIncome)
	registry.Register("set_income", createSetIncome)
	registry.Register("set_sick_days", createSetSickDays)
	registry.Register("add_sick_leave", createAddSickLeave)
	registry.Register("add_deposit", createAddSubAccountDeposit)
	registry.Register("change_salary", createChangeSalaryFrom)
	registry.Register("modify_inflation", createModifyInflation)
	registry.Register("modify_contribution_rate", createModifyContributionRate)

	return registry
}

// Register adds a transform factory to the registry.
func (r *TransformRegistry) Register(name string, factory TransformFactory) {
	r.factories[name] = factory
}

// Create creates a transform by name with the given parameters.
func (r *TransformRegistry) Create(name string, params map[string]string) (ProjectionTransform, error) {
	factory, exists := r.factories[name]
	if !exists {
		return nil, fmt.Errorf("unknown transform: %s", name)
	}

	return factory(params)
}

// List returns the names of all registered transforms in alphabetical order.
func (r *TransformRegistry) List() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ParseTransformSpec parses a transform specification string.
// Format: "transform_name:param1=value1,param2=value2"
// Example: "postpone_retirement:years=2"
func (r *TransformRegistry) ParseTransformSpec(spec string) (ProjectionTransform, error) {
	parts := strings.SplitN(spec, ":", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid transform spec format, expected 'name:params', got: %s", spec)
	}

	name := strings.TrimSpace(parts[0])
	paramsStr := strings.TrimSpace(parts[1])

	params := make(map[string]string)
	if paramsStr != "" {
		for _, paramPair := range strings.Split(paramsStr, ",") {
			kv := strings.SplitN(paramPair, "=", 2)
			if len(kv) != 2 {
				return nil, fmt.Errorf("invalid parameter format, expected 'key=value', got: %s", paramPair)
			}
			params[strings.TrimSpace(kv[0])] = strings.TrimSpace(kv[1])
		}
	}

	return r.Create(name, params)
}

func requireParam(transform, key string, params map[string]string) (string, error) {
	v, ok := params[key]
	if !ok || v == "" {
		return "", fmt.Errorf("%s requires '%s' parameter", transform, key)
	}
	return v, nil
}

func intParam(transform, key string, params map[string]string) (int, error) {
	raw, err := requireParam(transform, key, params)
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return v, nil
}

func decimalParam(transform, key string, params map[string]string) (decimal.Decimal, error) {
	raw, err := requireParam(transform, key, params)
	if err != nil {
		return decimal.Zero, err
	}
	v, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return v, nil
}

func dateParam(transform, key string, params map[string]string) (time.Time, error) {
	raw, err := requireParam(transform, key, params)
	if err != nil {
		return time.Time{}, err
	}
	v, err := time.Parse(domain.DateLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format, expected YYYY-MM-DD: %w", err)
	}
	return v, nil
}

// Factory functions for each transform

func createPostponeRetirement(params map[string]string) (ProjectionTransform, error) {
	years, err := intParam("postpone_retirement", "years", params)
	if err != nil {
		return nil, err
	}
	return &PostponeRetirement{Years: years}, nil
}

func createSetRetirementYear(params map[string]string) (ProjectionTransform, error) {
	year, err := intParam("set_retirement_year", "year", params)
	if err != nil {
		return nil, err
	}
	return &SetRetirementYear{Year: year}, nil
}

func createAdjustIncome(params map[string]string) (ProjectionTransform, error) {
	pct, err := decimalParam("adjust_income", "percent", params)
	if err != nil {
		return nil, err
	}
	return &AdjustIncome{Change: pct.Div(decimal.NewFromInt(100))}, nil
}

func createSetIncome(params map[string]string) (ProjectionTransform, error) {
	amount, err := decimalParam("set_income", "amount", params)
	if err != nil {
		return nil, err
	}
	return &SetIncome{Amount: amount}, nil
}

func createSetSickDays(params map[string]string) (ProjectionTransform, error) {
	raw, err := requireParam("set_sick_days", "include", params)
	if err != nil {
		return nil, err
	}
	include, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid include value: %w", err)
	}

	t := &SetSickDays{Include: include}
	if _, ok := params["days"]; ok {
		days, err := decimalParam("set_sick_days", "days", params)
		if err != nil {
			return nil, err
		}
		t.DaysPerYear = &days
	}
	return t, nil
}

func createAddSickLeave(params map[string]string) (ProjectionTransform, error) {
	start, err := dateParam("add_sick_leave", "start", params)
	if err != nil {
		return nil, err
	}
	end, err := dateParam("add_sick_leave", "end", params)
	if err != nil {
		return nil, err
	}
	return &AddSickLeave{Start: start, End: end}, nil
}

func createAddSubAccountDeposit(params map[string]string) (ProjectionTransform, error) {
	year, err := intParam("add_deposit", "year", params)
	if err != nil {
		return nil, err
	}
	amount, err := decimalParam("add_deposit", "amount", params)
	if err != nil {
		return nil, err
	}
	return &AddSubAccountDeposit{Year: year, Amount: amount}, nil
}

func createChangeSalaryFrom(params map[string]string) (ProjectionTransform, error) {
	year, err := intParam("change_salary", "year", params)
	if err != nil {
		return nil, err
	}
	amount, err := decimalParam("change_salary", "amount", params)
	if err != nil {
		return nil, err
	}
	return &ChangeSalaryFrom{Year: year, Amount: amount}, nil
}

func createModifyInflation(params map[string]string) (ProjectionTransform, error) {
	rate, err := decimalParam("modify_inflation", "rate", params)
	if err != nil {
		return nil, err
	}
	return &ModifyInflation{NewRate: rate}, nil
}

func createModifyContributionRate(params map[string]string) (ProjectionTransform, error) {
	rate, err := decimalParam("modify_contribution_rate", "rate", params)
	if err != nil {
		return nil, err
	}
	return &ModifyContributionRate{NewRate: rate}, nil
}
