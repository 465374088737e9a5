package main

import (
	"bytes"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgehrsitz/pengo/internal/refdata"
)

var workerInput = filepath.Join("..", "..", "examples", "worker.yaml")

// resetFlags puts every flag back to its default; the commands are package
// globals shared by all tests.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if !f.Changed {
			return
		}
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestRootCommand(t *testing.T) {
	assert.Equal(t, "pengo", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("debug"))
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("data"))
}

func TestRootCommand_Help(t *testing.T) {
	out, err := run(t)
	require.NoError(t, err)
	assert.Contains(t, out, "calculate")

	out, err = run(t, "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "pengo")
}

func TestCommandSubcommands(t *testing.T) {
	expected := []string{
		"calculate", "timeline", "target", "optimize", "compare",
		"capitalize", "validate", "refdata", "serve", "version",
	}
	for _, name := range expected {
		found := false
		for _, c := range rootCmd.Commands() {
			if c.Name() == name {
				found = true
				break
			}
		}
		assert.True(t, found, "command %q not registered", name)
	}
}

func TestRootCommand_InvalidInput(t *testing.T) {
	_, err := run(t, "invalid-command")
	assert.Error(t, err)

	_, err = run(t, "--invalid-flag")
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "pengo dev")
}

func TestValidate(t *testing.T) {
	out, err := run(t, "validate", workerInput)
	require.NoError(t, err)
	assert.Contains(t, out, "is valid")

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("parameters:\n  monthly_income: 0\n  year_work_start: 2020\n  year_retirement: 2055\n  gender: male\n"), 0644))
	_, err = run(t, "validate", bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "monthly income must be positive")

	_, err = run(t, "validate", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestCalculate(t *testing.T) {
	out, err := run(t, "calculate", workerInput)
	require.NoError(t, err)
	assert.Contains(t, out, "PENSION PROJECTION SUMMARY")
	assert.Contains(t, out, "Name: Anna, office worker")
	assert.Contains(t, out, "Retirement: 2055 at age 60")
}

func TestCalculate_JSONWithOverrides(t *testing.T) {
	out, err := run(t, "calculate", workerInput, "--format", "json", "--delay", "2", "--target", "100")
	require.NoError(t, err)

	var report struct {
		Delayed *struct {
			DelayedAge int `json:"delayedAge"`
		} `json:"delayed"`
		Target *struct {
			TargetPension string `json:"targetPension"`
		} `json:"target"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	require.NotNil(t, report.Delayed)
	assert.Equal(t, 62, report.Delayed.DelayedAge)
	require.NotNil(t, report.Target)
	assert.Equal(t, "100", report.Target.TargetPension)
}

func TestCalculate_Errors(t *testing.T) {
	_, err := run(t, "calculate", workerInput, "--format", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown output format")

	_, err = run(t, "calculate", workerInput, "--target", "lots")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid --target")

	_, err = run(t, "calculate", workerInput, "--data", t.TempDir())
	assert.Error(t, err, "an empty table directory cannot be loaded")
}

func TestTimeline_CSVAndExport(t *testing.T) {
	exportPath := filepath.Join(t.TempDir(), "balances.json")
	out, err := run(t, "timeline", workerInput, "--format", "csv", "--export", exportPath)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	// the export notice shares the buffer with stdout
	var rows []string
	for _, l := range lines {
		if strings.Contains(l, ",") {
			rows = append(rows, l)
		}
	}
	require.Len(t, rows, 36, "header plus 2020..2054")
	assert.Equal(t, "Year,Salary,Contribution,SickDays,MainBalance,SubBalance", rows[0])
	assert.True(t, strings.HasPrefix(rows[1], "2020,6500.00,"))
	assert.True(t, strings.HasPrefix(rows[35], "2054,"))

	data, err := os.ReadFile(exportPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"2054"`)
}

func TestTimeline_Table(t *testing.T) {
	out, err := run(t, "timeline", workerInput)
	require.NoError(t, err)
	assert.Contains(t, out, "BALANCE TIMELINE")
	assert.Contains(t, out, "Total sub-account:")
}

func TestTarget(t *testing.T) {
	out, err := run(t, "target", workerInput)
	require.NoError(t, err)
	assert.Contains(t, out, "4000.00", "falls back to the input's target pension")

	out, err = run(t, "target", workerInput, "--sweep", "100,1000000")
	require.NoError(t, err)
	assert.Contains(t, out, "unreachable")

	_, err = run(t, "target", workerInput, "--pension", "-5")
	assert.Error(t, err)
}

func TestOptimize(t *testing.T) {
	out, err := run(t, "optimize", workerInput, "--target", "income", "--pension", "5000")
	require.NoError(t, err)
	assert.Contains(t, out, "BREAK-EVEN OPTIMIZATION RESULTS")
	assert.Contains(t, out, "income")

	_, err = run(t, "optimize", workerInput, "--goal", "biggest")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown goal")

	_, err = run(t, "optimize", workerInput, "--min-income", "9000", "--max-income", "1000")
	assert.Error(t, err)
}

func TestCompare(t *testing.T) {
	out, err := run(t, "compare", "--list-templates")
	require.NoError(t, err)
	assert.Contains(t, out, "postpone_1yr")

	_, err = run(t, "compare")
	assert.Error(t, err)

	_, err = run(t, "compare", workerInput)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--with or --transform")

	out, err = run(t, "compare", workerInput, "--with", "postpone_2yr", "--transform", "adjust_income:percent=5", "--format", "csv")
	require.NoError(t, err)
	assert.Contains(t, out, "postpone_2yr")

	_, err = run(t, "compare", workerInput, "--with", "postpone_2yr", "--format", "yaml")
	assert.Error(t, err)
}

func TestCapitalize(t *testing.T) {
	out, err := run(t, "capitalize", "1000", "--rate", "0.1", "--from", "2020", "--to", "2022")
	require.NoError(t, err)
	assert.Contains(t, out, "1100.00")
	assert.Contains(t, out, "Final balance: 1210.00 PLN")

	_, err = run(t, "capitalize", "1000", "--rate", "0.1", "--from", "2020", "--to", "2022", "--mode", "monthly")
	assert.Error(t, err)
}

func TestRefdata(t *testing.T) {
	out, err := run(t, "refdata", "--format", "json")
	require.NoError(t, err)

	var summary refdata.Summary
	require.NoError(t, json.Unmarshal([]byte(out), &summary))
	assert.Equal(t, 60, summary.LifeExpectancy.First)
	assert.Equal(t, 90, summary.LifeExpectancy.Last)

	out, err = run(t, "refdata")
	require.NoError(t, err)
	assert.Contains(t, out, "Life expectancy")
}

func TestServe_InvalidConfig(t *testing.T) {
	t.Setenv("PENGO_RELOAD_CRON", "@daily")
	t.Setenv("PENGO_DATA_DIR", "")
	_, err := run(t, "serve")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reload_cron requires data_dir")
}

func TestServerLogger_ReportsWarningsWithoutDebug(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	cmd := &cobra.Command{Use: "serve"}
	cmd.Flags().Bool("debug", false, "")

	logger := newServerLogger(cmd)
	logger.Warnf("record usage %s: %v", "u-1", "disk full")
	logger.Errorf("write usage csv: %v", "broken pipe")
	logger.Debugf("timeline for %d years", 35)

	out := buf.String()
	assert.Contains(t, out, "WARN: record usage u-1: disk full")
	assert.Contains(t, out, "ERROR: write usage csv: broken pipe")
	assert.NotContains(t, out, "timeline for")

	require.NoError(t, cmd.Flags().Set("debug", "true"))
	buf.Reset()
	newServerLogger(cmd).Debugf("timeline for %d years", 35)
	assert.Contains(t, buf.String(), "DEBUG: timeline for 35 years")
}
