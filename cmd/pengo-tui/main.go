package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/rgehrsitz/pengo/internal/calculation"
	"github.com/rgehrsitz/pengo/internal/refdata"
	"github.com/rgehrsitz/pengo/internal/tui"
)

// launchFunc starts the explorer for an input file and a reference table directory
type launchFunc func(inputPath, dataDir string) error

func newRootCmd(launch launchFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "pengo-tui <input-file>",
		Short:        "Interactive what-if explorer for a pension projection",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(args[0]); os.IsNotExist(err) {
				return fmt.Errorf("input file not found: %s", args[0])
			}
			dataDir, _ := cmd.Flags().GetString("data")
			return launch(args[0], dataDir)
		},
	}
	cmd.Flags().String("data", "", "Directory with reference tables (default: built-in tables)")
	return cmd
}

func runTUI(inputPath, dataDir string) error {
	provider, err := refdata.NewProvider(dataDir)
	if err != nil {
		return fmt.Errorf("loading reference tables: %w", err)
	}

	p := tea.NewProgram(
		tui.NewModel(inputPath, calculation.NewEngine(), provider),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running TUI: %w", err)
	}
	return nil
}

func main() {
	if err := newRootCmd(runTUI).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
