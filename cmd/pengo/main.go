package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"runtime/debug"
	"strings"

	"github.com/rgehrsitz/pengo/internal/calculation"
	"github.com/rgehrsitz/pengo/internal/compare"
	"github.com/rgehrsitz/pengo/internal/config"
	"github.com/rgehrsitz/pengo/internal/domain"
	"github.com/rgehrsitz/pengo/internal/output"
	"github.com/rgehrsitz/pengo/internal/refdata"
	"github.com/rgehrsitz/pengo/internal/transform"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

// simpleCLILogger implements calculation.Logger using the standard log package
type simpleCLILogger struct{}

func (simpleCLILogger) Debugf(format string, args ...any) { log.Printf("DEBUG: "+format, args...) }
func (simpleCLILogger) Infof(format string, args ...any)  { log.Printf("INFO: "+format, args...) }
func (simpleCLILogger) Warnf(format string, args ...any)  { log.Printf("WARN: "+format, args...) }
func (simpleCLILogger) Errorf(format string, args ...any) { log.Printf("ERROR: "+format, args...) }

// serverLogger always reports warnings and errors; debug lines need --debug
type serverLogger struct {
	simpleCLILogger
	debug bool
}

func (l serverLogger) Debugf(format string, args ...any) {
	if l.debug {
		l.simpleCLILogger.Debugf(format, args...)
	}
}

// newServerLogger returns the logger the HTTP handlers report storage failures to
func newServerLogger(cmd *cobra.Command) calculation.Logger {
	debugMode, _ := cmd.Flags().GetBool("debug")
	return serverLogger{debug: debugMode}
}

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "pengo %s (commit %s, built %s)\n", version, commit, date)
			if info := buildInfo(); info != "" {
				fmt.Fprintln(cmd.OutOrStdout(), info)
			}
		},
	}
}

func buildInfo() string {
	if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
		return bi.String()
	}
	return ""
}

var rootCmd = &cobra.Command{
	Use:   "pengo",
	Short: "Polish pension projection CLI",
	Long: `Projects the monthly old-age pension from the contributions a salary
history pays into the main and sub-account, with optional sick leave,
delayed retirement and a target pension.`,
	SilenceUsage: true,
}

// newEngine creates the engine shared by every command, logging when --debug is set
func newEngine(cmd *cobra.Command) *calculation.Engine {
	engine := calculation.NewEngine()
	if debugMode, _ := cmd.Flags().GetBool("debug"); debugMode {
		engine.SetLogger(simpleCLILogger{})
		engine.Debug = true
	}
	return engine
}

// loadReference picks the reference tables: --data first, then the input's
// reference_data directory, then the tables built into the binary.
func loadReference(cmd *cobra.Command, input *domain.ProjectionInput) (*domain.ReferenceData, error) {
	dir, _ := cmd.Flags().GetString("data")
	if dir == "" && input != nil {
		dir = input.ReferenceData
	}
	if dir == "" {
		return refdata.LoadDefault()
	}
	return refdata.LoadDir(dir)
}

// loadProjection reads an input file and the tables it runs against
func loadProjection(cmd *cobra.Command, inputFile string) (*domain.ProjectionInput, *domain.ReferenceData, error) {
	input, err := config.NewInputParser().LoadFromFile(inputFile)
	if err != nil {
		return nil, nil, err
	}
	ref, err := loadReference(cmd, input)
	if err != nil {
		return nil, nil, err
	}
	return input, ref, nil
}

var calculateCmd = &cobra.Command{
	Use:   "calculate [input-file]",
	Short: "Project the pension for an input file",
	Long: `Project the pension for an input file and print the report.

Examples:
  pengo calculate examples/worker.yaml
  pengo calculate examples/worker.yaml --format json
  pengo calculate examples/worker.yaml --delay 3 --target 4500
  pengo calculate examples/worker.yaml --format pdf --write
`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		input, ref, err := loadProjection(cmd, args[0])
		if err != nil {
			return err
		}
		if err := applyCalculateOverrides(cmd, input); err != nil {
			return err
		}

		report, err := newEngine(cmd).BuildReport(input, ref)
		if err != nil {
			return err
		}

		outputFormat, _ := cmd.Flags().GetString("format")
		f := output.GetFormatterByName(outputFormat)
		if f == nil {
			return fmt.Errorf("unknown output format: %s (valid: %s)", outputFormat,
				strings.Join(append(output.AvailableFormatterNames(), output.AvailableFormatAliases()...), ", "))
		}

		write, _ := cmd.Flags().GetBool("write")
		if write || f.Name() == "pdf" {
			filename, err := output.WriteFormatted(f, report, output.Extension(f))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", filename)
			return nil
		}

		data, err := f.Format(report)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

// applyCalculateOverrides lets flags replace the input's options for one run
func applyCalculateOverrides(cmd *cobra.Command, input *domain.ProjectionInput) error {
	flags := cmd.Flags()
	if flags.Changed("delay") {
		input.Options.DelayYears, _ = flags.GetInt("delay")
	}
	if flags.Changed("target") {
		raw, _ := flags.GetString("target")
		target, err := decimal.NewFromString(raw)
		if err != nil {
			return fmt.Errorf("invalid --target %q: %w", raw, err)
		}
		input.Options.TargetPension = &target
	}
	if flags.Changed("sick") {
		input.Options.IncludeSickDays, _ = flags.GetBool("sick")
	}
	if flags.Changed("timeline") {
		input.Options.IncludeTimeline, _ = flags.GetBool("timeline")
	}
	return config.NewInputParser().ValidateProjectionInput(input)
}

var validateCmd = &cobra.Command{
	Use:   "validate [input-file]",
	Short: "Validate an input file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := config.NewInputParser().LoadFromFile(args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Input file %s is valid\n", args[0])
		return nil
	},
}

var compareCmd = &cobra.Command{
	Use:   "compare [input-file]",
	Short: "Compare an input against what-if templates and transforms",
	Long: `Compare a base projection against alternatives built from templates or
ad-hoc transforms.

Examples:
  pengo compare examples/worker.yaml --with postpone_2yr,no_sick_leave
  pengo compare examples/worker.yaml --transform "adjust_income:percent=5"
  pengo compare examples/worker.yaml --with raise_10pct --format csv
  pengo compare --list-templates
`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if listTemplates, _ := cmd.Flags().GetBool("list-templates"); listTemplates {
			fmt.Fprint(cmd.OutOrStdout(), transform.GetTemplateHelp(transform.CreateBuiltInTemplates()))
			return nil
		}
		if len(args) == 0 {
			return fmt.Errorf("input file required for comparison (use --list-templates to see available templates)")
		}

		templatesStr, _ := cmd.Flags().GetString("with")
		transformSpecs, _ := cmd.Flags().GetStringArray("transform")
		templateNames := transform.ParseTemplateList(templatesStr)
		if len(templateNames) == 0 && len(transformSpecs) == 0 {
			return fmt.Errorf("--with or --transform is required (use --list-templates)")
		}

		input, ref, err := loadProjection(cmd, args[0])
		if err != nil {
			return err
		}

		comparisonSet, err := compare.NewCompareEngine(newEngine(cmd)).Compare(cmd.Context(), input, ref, compare.CompareOptions{
			Templates:  templateNames,
			Transforms: transformSpecs,
			InputPath:  args[0],
		})
		if err != nil {
			return fmt.Errorf("comparison failed: %w", err)
		}

		outputFormat, _ := cmd.Flags().GetString("format")
		return writeComparison(cmd.OutOrStdout(), comparisonSet, outputFormat)
	},
}

func writeComparison(w io.Writer, comparisonSet *compare.ComparisonSet, outputFormat string) error {
	switch strings.ToLower(outputFormat) {
	case "csv":
		formatter := &compare.CSVFormatter{}
		out, err := formatter.Format(comparisonSet)
		if err != nil {
			return fmt.Errorf("failed to format CSV: %w", err)
		}
		fmt.Fprint(w, out)
	case "json":
		formatter := &compare.JSONFormatter{Pretty: true}
		out, err := formatter.Format(comparisonSet)
		if err != nil {
			return fmt.Errorf("failed to format JSON: %w", err)
		}
		fmt.Fprint(w, out)
	case "compact":
		formatter := &compare.TableFormatter{}
		fmt.Fprint(w, formatter.FormatCompact(comparisonSet))
	case "table", "console", "":
		formatter := &compare.TableFormatter{}
		fmt.Fprint(w, formatter.Format(comparisonSet))
	default:
		return fmt.Errorf("unknown output format: %s (valid: table, compact, csv, json)", outputFormat)
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().Bool("debug", false, "Log calculation details to stderr")
	rootCmd.PersistentFlags().String("data", "", "Directory with reference tables (default: input's reference_data, then built-in tables)")

	calculateCmd.Flags().StringP("format", "f", "console-lite", "Output format ("+strings.Join(output.AvailableFormatterNames(), ", ")+")")
	calculateCmd.Flags().Bool("write", false, "Write the report to a timestamped file instead of stdout")
	calculateCmd.Flags().Int("delay", 0, "Years of delayed retirement to project")
	calculateCmd.Flags().String("target", "", "Target monthly pension to solve for")
	calculateCmd.Flags().Bool("sick", false, "Account for sick leave")
	calculateCmd.Flags().Bool("timeline", false, "Include the year-by-year balance timeline")

	compareCmd.Flags().String("with", "", "Comma-separated list of templates to compare")
	compareCmd.Flags().StringArray("transform", nil, "Ad-hoc transform spec (name:key=value,...); repeatable")
	compareCmd.Flags().StringP("format", "f", "table", "Output format (table, compact, csv, json)")
	compareCmd.Flags().Bool("list-templates", false, "List all available what-if templates")

	rootCmd.AddCommand(calculateCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(versionCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
