package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/rgehrsitz/pengo/internal/breakeven"
	"github.com/rgehrsitz/pengo/internal/calculation"
	"github.com/rgehrsitz/pengo/internal/domain"
	"github.com/rgehrsitz/pengo/internal/store"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var timelineCmd = &cobra.Command{
	Use:   "timeline [input-file]",
	Short: "Project year-by-year account balances from the input's life events",
	Long: `Fold the input's salary changes, sick-leave periods and sub-account
deposits into a year-by-year balance series.

Examples:
  pengo timeline examples/worker.yaml
  pengo timeline examples/worker.yaml --format csv
  pengo timeline examples/worker.yaml --export balances.json
`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		input, ref, err := loadProjection(cmd, args[0])
		if err != nil {
			return err
		}
		events, err := domain.ParseEvents(input.Events)
		if err != nil {
			return err
		}

		engine := newEngine(cmd).ForInput(input)
		projection, err := engine.ProjectTimeline(input.Parameters, events, ref, calculation.TimelineOptions{
			IncludeSickDays: input.Options.IncludeSickDays,
		})
		if err != nil {
			return err
		}

		if exportPath, _ := cmd.Flags().GetString("export"); exportPath != "" {
			if err := store.NewBalanceFileExporter(exportPath).Export(projection.Balances); err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Balances written to %s\n", exportPath)
		}

		outputFormat, _ := cmd.Flags().GetString("format")
		return writeTimeline(cmd.OutOrStdout(), projection, outputFormat)
	},
}

func writeTimeline(w io.Writer, projection *domain.TimelineProjection, outputFormat string) error {
	switch strings.ToLower(outputFormat) {
	case "json":
		data, err := json.MarshalIndent(projection, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err

	case "csv":
		cw := csv.NewWriter(w)
		if err := cw.Write([]string{"Year", "Salary", "Contribution", "SickDays", "MainBalance", "SubBalance"}); err != nil {
			return err
		}
		for _, b := range projection.Balances {
			if err := cw.Write([]string{
				strconv.Itoa(b.Year),
				b.Salary.StringFixed(2),
				b.Contribution.StringFixed(2),
				b.SickDays.String(),
				b.MainBalance.StringFixed(2),
				b.SubBalance.StringFixed(2),
			}); err != nil {
				return err
			}
		}
		cw.Flush()
		return cw.Error()

	case "table", "console", "":
		fmt.Fprintln(w, "BALANCE TIMELINE")
		fmt.Fprintln(w, strings.Repeat("=", 84))
		fmt.Fprintf(w, "%-6s %14s %14s %10s %18s %16s\n", "Year", "Salary", "Contribution", "Sick days", "Main account", "Sub-account")
		fmt.Fprintln(w, strings.Repeat("-", 84))
		for _, b := range projection.Balances {
			fmt.Fprintf(w, "%-6d %14s %14s %10s %18s %16s\n",
				b.Year, b.Salary.StringFixed(2), b.Contribution.StringFixed(2), b.SickDays.String(),
				b.MainBalance.StringFixed(2), b.SubBalance.StringFixed(2))
		}
		fmt.Fprintln(w, strings.Repeat("-", 84))
		fmt.Fprintf(w, "Total main account: %s PLN\n", projection.TotalMainBalance.StringFixed(2))
		fmt.Fprintf(w, "Total sub-account:  %s PLN\n", projection.TotalSubBalance.StringFixed(2))
		for _, n := range projection.Notices {
			fmt.Fprintf(w, "%s: %s\n", strings.ToUpper(string(n.Level)), n.Message)
		}
		return nil

	default:
		return fmt.Errorf("unknown output format: %s (valid: table, csv, json)", outputFormat)
	}
}

var targetCmd = &cobra.Command{
	Use:   "target [input-file]",
	Short: "Find how many extra working years reach a target monthly pension",
	Long: `Delay retirement one year at a time until the monthly pension reaches the
target, bounded by the oldest age the life-expectancy table covers.

Examples:
  pengo target examples/worker.yaml --pension 4500
  pengo target examples/worker.yaml --pension 4500 --max-age 70
  pengo target examples/worker.yaml --sweep 3000,3500,4000,4500
`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		input, ref, err := loadProjection(cmd, args[0])
		if err != nil {
			return err
		}

		options := breakeven.DefaultSolverOptions()
		if maxAge, _ := cmd.Flags().GetInt("max-age"); maxAge > 0 {
			options.MaxAge = maxAge
		}
		solver := breakeven.NewSolver(newEngine(cmd).ForInput(input), options)

		if sweep, _ := cmd.Flags().GetString("sweep"); sweep != "" {
			targets, err := parseDecimalList(sweep)
			if err != nil {
				return err
			}
			points, err := solver.SweepTargets(cmd.Context(), input, ref, targets)
			if err != nil {
				return err
			}
			return writeSolverOutput(cmd, func(tf *breakeven.TableFormatter) (string, error) {
				return tf.FormatSweep(points), nil
			}, func(jf *breakeven.JSONFormatter) (string, error) {
				return jf.FormatSweep(points)
			})
		}

		target, err := pensionFlag(cmd, input)
		if err != nil {
			return err
		}

		gap, err := solver.YearsToTarget(input.Parameters, ref, input.Options.IncludeSickDays, target)
		if errors.Is(err, calculation.ErrTargetUnreachable) {
			fmt.Fprintf(cmd.OutOrStdout(), "Target %s PLN cannot be reached within the age limit: %v\n", target.StringFixed(2), err)
			return nil
		}
		if err != nil {
			return err
		}
		printTargetGap(cmd.OutOrStdout(), gap)
		return nil
	},
}

func printTargetGap(w io.Writer, gap *domain.TargetGap) {
	fmt.Fprintln(w, "TARGET PENSION")
	fmt.Fprintln(w, strings.Repeat("=", 40))
	fmt.Fprintf(w, "Target:            %s PLN\n", gap.TargetPension.StringFixed(2))
	fmt.Fprintf(w, "At age %d:         %s PLN\n", gap.BaseAge, gap.CurrentPension.StringFixed(2))
	if gap.YearsNeeded == 0 {
		fmt.Fprintln(w, "Already reached at the base retirement age")
		return
	}
	fmt.Fprintf(w, "Extra years:       %d\n", gap.YearsNeeded)
	fmt.Fprintf(w, "Retire at age:     %d\n", gap.FinalAge)
	fmt.Fprintf(w, "Projected pension: %s PLN\n", gap.ProjectedPension.StringFixed(2))
}

var optimizeCmd = &cobra.Command{
	Use:   "optimize [input-file]",
	Short: "Solve for the retirement delay, starting income or sick days that meet a pension goal",
	Long: `Search one parameter at a time for the value that reaches a target pension,
or the highest pension the constraints allow.

Examples:
  pengo optimize examples/worker.yaml --target income --pension 5000
  pengo optimize examples/worker.yaml --target retirement_delay --goal maximize_pension --max-age 70
  pengo optimize examples/worker.yaml --target all --pension 5000 --format json
`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		input, ref, err := loadProjection(cmd, args[0])
		if err != nil {
			return err
		}

		targetStr, _ := cmd.Flags().GetString("target")
		goalStr, _ := cmd.Flags().GetString("goal")
		goal := breakeven.OptimizationGoal(goalStr)
		if goal != breakeven.GoalMatchPension && goal != breakeven.GoalMaximizePension {
			return fmt.Errorf("unknown goal: %s (valid: match_pension, maximize_pension)", goalStr)
		}

		constraints, err := constraintsFromFlags(cmd, input, goal)
		if err != nil {
			return err
		}

		solver := breakeven.NewDefaultSolver(newEngine(cmd))
		target := breakeven.OptimizationTarget(targetStr)

		if target == breakeven.OptimizeAll {
			result, err := solver.OptimizeAllTargets(cmd.Context(), input, ref, constraints, goal)
			if err != nil {
				return err
			}
			return writeSolverOutput(cmd, func(tf *breakeven.TableFormatter) (string, error) {
				return tf.FormatMultiDimensional(result), nil
			}, func(jf *breakeven.JSONFormatter) (string, error) {
				return jf.FormatMultiDimensional(result)
			})
		}

		result, err := solver.Optimize(cmd.Context(), breakeven.OptimizationRequest{
			Base:        input,
			Reference:   ref,
			Target:      target,
			Goal:        goal,
			Constraints: constraints,
		})
		if err != nil {
			return err
		}
		return writeSolverOutput(cmd, func(tf *breakeven.TableFormatter) (string, error) {
			return tf.Format(result), nil
		}, func(jf *breakeven.JSONFormatter) (string, error) {
			return jf.Format(result)
		})
	},
}

// constraintsFromFlags builds solver constraints from the flags that were set
func constraintsFromFlags(cmd *cobra.Command, input *domain.ProjectionInput, goal breakeven.OptimizationGoal) (breakeven.Constraints, error) {
	flags := cmd.Flags()
	constraints := breakeven.DefaultConstraints()

	if flags.Changed("max-age") {
		maxAge, _ := flags.GetInt("max-age")
		constraints.MaxRetirementAge = &maxAge
	}
	if flags.Changed("max-sick-days") {
		maxSick, _ := flags.GetInt("max-sick-days")
		constraints.MaxSickDays = &maxSick
	}
	for _, bound := range []struct {
		flag string
		dst  **decimal.Decimal
	}{
		{"min-income", &constraints.MinIncome},
		{"max-income", &constraints.MaxIncome},
	} {
		if !flags.Changed(bound.flag) {
			continue
		}
		raw, _ := flags.GetString(bound.flag)
		v, err := decimal.NewFromString(raw)
		if err != nil {
			return constraints, fmt.Errorf("invalid --%s %q: %w", bound.flag, raw, err)
		}
		*bound.dst = &v
	}

	if goal == breakeven.GoalMatchPension {
		target, err := pensionFlag(cmd, input)
		if err != nil {
			return constraints, err
		}
		constraints.TargetPension = &target
	}
	return constraints, constraints.Validate()
}

// pensionFlag returns --pension, falling back to the input's target pension
func pensionFlag(cmd *cobra.Command, input *domain.ProjectionInput) (decimal.Decimal, error) {
	raw, _ := cmd.Flags().GetString("pension")
	if raw == "" {
		if input.Options.TargetPension != nil {
			return *input.Options.TargetPension, nil
		}
		return decimal.Zero, fmt.Errorf("--pension is required when the input has no target_pension")
	}
	target, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid --pension %q: %w", raw, err)
	}
	if !target.IsPositive() {
		return decimal.Zero, fmt.Errorf("--pension must be positive, got %s", raw)
	}
	return target, nil
}

func parseDecimalList(list string) ([]decimal.Decimal, error) {
	var values []decimal.Decimal
	for _, part := range strings.Split(list, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		v, err := decimal.NewFromString(part)
		if err != nil {
			return nil, fmt.Errorf("invalid amount %q: %w", part, err)
		}
		values = append(values, v)
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("no amounts in %q", list)
	}
	return values, nil
}

// writeSolverOutput prints a solver result as a table or JSON per --format
func writeSolverOutput(cmd *cobra.Command, table func(*breakeven.TableFormatter) (string, error), asJSON func(*breakeven.JSONFormatter) (string, error)) error {
	outputFormat, _ := cmd.Flags().GetString("format")
	var (
		out string
		err error
	)
	switch strings.ToLower(outputFormat) {
	case "json":
		out, err = asJSON(&breakeven.JSONFormatter{Pretty: true})
	case "table", "console", "":
		out, err = table(&breakeven.TableFormatter{})
	default:
		return fmt.Errorf("unknown output format: %s (valid: table, json)", outputFormat)
	}
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), out)
	return nil
}

var capitalizeCmd = &cobra.Command{
	Use:   "capitalize [amount]",
	Short: "Grow a sub-account balance at a yearly interest rate",
	Long: `Capitalize a sub-account balance yearly or quarterly over [from, to).

Example:
  pengo capitalize 15000 --rate 0.05 --from 2035 --to 2055 --mode quarterly
`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		amount, err := decimal.NewFromString(args[0])
		if err != nil {
			return fmt.Errorf("invalid amount %q: %w", args[0], err)
		}
		rateStr, _ := cmd.Flags().GetString("rate")
		rate, err := decimal.NewFromString(rateStr)
		if err != nil {
			return fmt.Errorf("invalid --rate %q: %w", rateStr, err)
		}
		from, _ := cmd.Flags().GetInt("from")
		to, _ := cmd.Flags().GetInt("to")
		mode, _ := cmd.Flags().GetString("mode")

		growth, err := calculation.CapitalizeSubAccount(amount, rate, from, to, calculation.Capitalization(mode))
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		for year := from; year < to; year++ {
			fmt.Fprintf(w, "%-6d %16s\n", year, growth.ByYear[year].StringFixed(2))
		}
		fmt.Fprintf(w, "Final balance: %s PLN\n", growth.Final.StringFixed(2))
		return nil
	},
}

func init() {
	timelineCmd.Flags().StringP("format", "f", "table", "Output format (table, csv, json)")
	timelineCmd.Flags().String("export", "", "Also write the balances to a JSON file keyed by year")

	targetCmd.Flags().String("pension", "", "Target monthly pension (default: the input's target_pension)")
	targetCmd.Flags().Int("max-age", 0, "Latest retirement age to consider (default: oldest age in the life-expectancy table)")
	targetCmd.Flags().String("sweep", "", "Comma-separated target pensions to solve in one run")
	targetCmd.Flags().StringP("format", "f", "table", "Output format for --sweep (table, json)")

	optimizeCmd.Flags().String("target", string(breakeven.OptimizeIncome), "Parameter to solve for (income, retirement_delay, sick_days, all)")
	optimizeCmd.Flags().String("goal", string(breakeven.GoalMatchPension), "Goal (match_pension, maximize_pension)")
	optimizeCmd.Flags().String("pension", "", "Target monthly pension for match_pension (default: the input's target_pension)")
	optimizeCmd.Flags().Int("max-age", 70, "Latest retirement age the delay search may use")
	optimizeCmd.Flags().String("min-income", "", "Lowest starting monthly income to consider")
	optimizeCmd.Flags().String("max-income", "", "Highest starting monthly income to consider")
	optimizeCmd.Flags().Int("max-sick-days", 180, "Highest yearly sick days to consider")
	optimizeCmd.Flags().StringP("format", "f", "table", "Output format (table, json)")

	capitalizeCmd.Flags().String("rate", "0", "Yearly interest rate as a fraction (0.05 for 5%)")
	capitalizeCmd.Flags().Int("from", 0, "First capitalized year")
	capitalizeCmd.Flags().Int("to", 0, "Year capitalization stops (exclusive)")
	capitalizeCmd.Flags().String("mode", string(calculation.CapitalizeAnnually), "Capitalization (annual, quarterly)")

	rootCmd.AddCommand(timelineCmd)
	rootCmd.AddCommand(targetCmd)
	rootCmd.AddCommand(optimizeCmd)
	rootCmd.AddCommand(capitalizeCmd)
}
