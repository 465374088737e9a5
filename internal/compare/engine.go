package compare

import (
	"context"
	"fmt"

	"github.com/rgehrsitz/pengo/internal/calculation"
	"github.com/rgehrsitz/pengo/internal/domain"
	"github.com/rgehrsitz/pengo/internal/transform"
)

// CompareEngine orchestrates what-if comparison
type CompareEngine struct {
	CalcEngine        *calculation.Engine
	MetricsCalculator *MetricsCalculator
	TemplateRegistry  *transform.TemplateRegistry
	TransformRegistry *transform.TransformRegistry
}

// NewCompareEngine creates a new comparison engine
func NewCompareEngine(calcEngine *calculation.Engine) *CompareEngine {
	return &CompareEngine{
		CalcEngine:        calcEngine,
		MetricsCalculator: NewMetricsCalculator(),
		TemplateRegistry:  transform.CreateBuiltInTemplates(),
		TransformRegistry: transform.NewTransformRegistry(),
	}
}

// CompareOptions configures comparison behavior
type CompareOptions struct {
	Templates  []string // List of template names to apply
	Transforms []string // Ad-hoc transform specs, each one its own alternative
	InputPath  string   // Shown in the report header
}

// Compare projects the base input and one alternative per template or transform spec
func (ce *CompareEngine) Compare(
	ctx context.Context,
	base *domain.ProjectionInput,
	ref *domain.ReferenceData,
	options CompareOptions,
) (*ComparisonSet, error) {

	if base == nil {
		return nil, fmt.Errorf("base input cannot be nil")
	}

	baseName := scenarioName(base)
	baseResult, err := ce.project(baseName, base, ref)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate base projection: %w", err)
	}

	alternatives := []ComparisonResult{}

	for _, templateName := range options.Templates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		template, ok := ce.TemplateRegistry.Get(templateName)
		if !ok {
			return nil, fmt.Errorf("template %s not found", templateName)
		}

		modified, err := transform.ApplyTemplate(base, template)
		if err != nil {
			return nil, fmt.Errorf("failed to apply template %s: %w", templateName, err)
		}

		altResult, err := ce.project(baseName+"_"+template.Name, modified, ref)
		if err != nil {
			return nil, fmt.Errorf("failed to calculate scenario %s: %w", templateName, err)
		}
		altResult.Description = template.Description
		alternatives = append(alternatives, ce.MetricsCalculator.CalculateComparison(altResult, baseResult))
	}

	for _, spec := range options.Transforms {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		t, err := ce.TransformRegistry.ParseTransformSpec(spec)
		if err != nil {
			return nil, fmt.Errorf("invalid transform %q: %w", spec, err)
		}

		modified, err := transform.ApplyTransforms(base, []transform.ProjectionTransform{t})
		if err != nil {
			return nil, err
		}

		altResult, err := ce.project(baseName+"_"+t.Name(), modified, ref)
		if err != nil {
			return nil, fmt.Errorf("failed to calculate scenario %s: %w", spec, err)
		}
		altResult.Description = t.Description()
		alternatives = append(alternatives, ce.MetricsCalculator.CalculateComparison(altResult, baseResult))
	}

	compSet := &ComparisonSet{
		BaseScenarioName:   baseName,
		BaseResult:         &baseResult,
		AlternativeResults: alternatives,
		InputPath:          options.InputPath,
	}

	compSet.Recommendations = GenerateRecommendations(compSet)

	return compSet, nil
}

// CompareInputs compares explicit inputs (not using templates)
func (ce *CompareEngine) CompareInputs(
	ctx context.Context,
	base *domain.ProjectionInput,
	alternatives []*domain.ProjectionInput,
	ref *domain.ReferenceData,
) (*ComparisonSet, error) {

	if base == nil {
		return nil, fmt.Errorf("base input cannot be nil")
	}

	baseName := scenarioName(base)
	baseResult, err := ce.project(baseName, base, ref)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate base projection: %w", err)
	}

	results := []ComparisonResult{}

	for i, alt := range alternatives {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		name := scenarioName(alt)
		if name == baseName {
			name = fmt.Sprintf("%s_%d", name, i+1)
		}

		altResult, err := ce.project(name, alt, ref)
		if err != nil {
			return nil, fmt.Errorf("failed to calculate scenario %s: %w", name, err)
		}
		results = append(results, ce.MetricsCalculator.CalculateComparison(altResult, baseResult))
	}

	compSet := &ComparisonSet{
		BaseScenarioName:   baseName,
		BaseResult:         &baseResult,
		AlternativeResults: results,
	}

	compSet.Recommendations = GenerateRecommendations(compSet)

	return compSet, nil
}

func (ce *CompareEngine) project(name string, input *domain.ProjectionInput, ref *domain.ReferenceData) (ComparisonResult, error) {
	if input == nil {
		return ComparisonResult{}, fmt.Errorf("input cannot be nil")
	}
	report, err := ce.CalcEngine.BuildReport(input, ref)
	if err != nil {
		return ComparisonResult{}, err
	}
	return ce.MetricsCalculator.CalculateMetrics(name, report), nil
}

func scenarioName(input *domain.ProjectionInput) string {
	if input == nil || input.Name == "" {
		return "base"
	}
	return input.Name
}
