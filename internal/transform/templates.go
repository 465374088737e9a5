package transform

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rgehrsitz/pengo/internal/domain"
	"github.com/shopspring/decimal"
)

// TemplateRegistry manages built-in what-if templates
type TemplateRegistry struct {
	templates map[string]Template
}

// Template represents a named collection of transforms
type Template struct {
	Name        string
	Description string
	Transforms  []ProjectionTransform
}

// NewTemplateRegistry creates an empty template registry
func NewTemplateRegistry() *TemplateRegistry {
	return &TemplateRegistry{
		templates: make(map[string]Template),
	}
}

// Register adds a template to the registry
func (tr *TemplateRegistry) Register(t Template) {
	tr.templates[strings.ToLower(t.Name)] = t
}

// Get retrieves a template by name (case-insensitive)
func (tr *TemplateRegistry) Get(name string) (Template, bool) {
	t, ok := tr.templates[strings.ToLower(strings.TrimSpace(name))]
	return t, ok
}

// List returns all registered template names, sorted
func (tr *TemplateRegistry) List() []string {
	names := make([]string, 0, len(tr.templates))
	for name := range tr.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CreateBuiltInTemplates creates a template registry with the common what-if questions
// a worker asks about their pension.
func CreateBuiltInTemplates() *TemplateRegistry {
	registry := NewTemplateRegistry()

	for _, years := range []int{1, 2, 5} {
		registry.Register(Template{
			Name:        fmt.Sprintf("postpone_%dyr", years),
			Description: (&PostponeRetirement{Years: years}).Description(),
			Transforms: []ProjectionTransform{
				&PostponeRetirement{Years: years},
			},
		})
	}

	registry.Register(Template{
		Name:        "with_sick_leave",
		Description: "Account for the average yearly sick leave",
		Transforms: []ProjectionTransform{
			&SetSickDays{Include: true},
		},
	})

	registry.Register(Template{
		Name:        "no_sick_leave",
		Description: "Assume no sick leave at all",
		Transforms: []ProjectionTransform{
			&SetSickDays{Include: false},
		},
	})

	registry.Register(Template{
		Name:        "raise_10pct",
		Description: "Start with a 10% higher salary",
		Transforms: []ProjectionTransform{
			&AdjustIncome{Change: decimal.NewFromFloat(0.10)},
		},
	})

	registry.Register(Template{
		Name:        "cut_10pct",
		Description: "Start with a 10% lower salary",
		Transforms: []ProjectionTransform{
			&AdjustIncome{Change: decimal.NewFromFloat(-0.10)},
		},
	})

	registry.Register(Template{
		Name:        "zero_inflation",
		Description: "Project in today's money (no inflation)",
		Transforms: []ProjectionTransform{
			&ModifyInflation{NewRate: decimal.Zero},
		},
	})

	registry.Register(Template{
		Name:        "high_inflation",
		Description: "Project with 5% yearly inflation",
		Transforms: []ProjectionTransform{
			&ModifyInflation{NewRate: decimal.NewFromFloat(0.05)},
		},
	})

	registry.Register(Template{
		Name:        "postpone_2yr_raise_10pct",
		Description: "Postpone retirement 2 years + 10% higher salary",
		Transforms: []ProjectionTransform{
			&PostponeRetirement{Years: 2},
			&AdjustIncome{Change: decimal.NewFromFloat(0.10)},
		},
	})

	return registry
}

// ApplyTemplate applies a template to a base input
func ApplyTemplate(base *domain.ProjectionInput, template Template) (*domain.ProjectionInput, error) {
	if len(template.Transforms) == 0 {
		return base.DeepCopy(), nil
	}
	return ApplyTransforms(base, template.Transforms)
}

// ParseTemplateList parses a comma-separated list of template names
func ParseTemplateList(templateList string) []string {
	if templateList == "" {
		return nil
	}

	parts := strings.Split(templateList, ",")
	templates := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			templates = append(templates, trimmed)
		}
	}
	return templates
}

// GetTemplateHelp returns formatted help text for all templates
func GetTemplateHelp(registry *TemplateRegistry) string {
	if len(registry.templates) == 0 {
		return "No templates registered"
	}

	var sb strings.Builder
	sb.WriteString("Available Templates:\n\n")

	order := []string{"Retirement Timing", "Sick Leave", "Salary", "Inflation", "Combination Strategies"}
	categories := make(map[string][]Template, len(order))

	for _, name := range registry.List() {
		template := registry.templates[name]
		switch {
		case strings.Count(name, "_") > 1 && strings.HasPrefix(name, "postpone_"):
			categories["Combination Strategies"] = append(categories["Combination Strategies"], template)
		case strings.HasPrefix(name, "postpone_"):
			categories["Retirement Timing"] = append(categories["Retirement Timing"], template)
		case strings.HasSuffix(name, "sick_leave"):
			categories["Sick Leave"] = append(categories["Sick Leave"], template)
		case strings.HasPrefix(name, "raise_"), strings.HasPrefix(name, "cut_"):
			categories["Salary"] = append(categories["Salary"], template)
		case strings.HasSuffix(name, "_inflation"):
			categories["Inflation"] = append(categories["Inflation"], template)
		default:
			categories["Combination Strategies"] = append(categories["Combination Strategies"], template)
		}
	}

	for _, category := range order {
		templates := categories[category]
		if len(templates) == 0 {
			continue
		}

		sb.WriteString(fmt.Sprintf("%s:\n", category))
		for _, t := range templates {
			sb.WriteString(fmt.Sprintf("  %-30s %s\n", t.Name, t.Description))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("Usage:\n")
	sb.WriteString("  pengo compare worker.yaml --with postpone_1yr,with_sick_leave\n")
	sb.WriteString("  pengo compare worker.yaml --with raise_10pct,zero_inflation\n")

	return sb.String()
}
