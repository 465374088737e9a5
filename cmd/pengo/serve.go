package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/goccy/go-json"
	"github.com/rgehrsitz/pengo/internal/api"
	"github.com/rgehrsitz/pengo/internal/config"
	"github.com/rgehrsitz/pengo/internal/refdata"
	"github.com/rgehrsitz/pengo/internal/store"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
)

var refdataCmd = &cobra.Command{
	Use:   "refdata",
	Short: "Show the coverage of the reference tables",
	Long: `Load the wage-growth, average-salary and life-expectancy tables and report
the years and ages each one covers.

Examples:
  pengo refdata
  pengo refdata --data ./tables --format json
`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ref, err := loadReference(cmd, nil)
		if err != nil {
			return err
		}
		summary := refdata.Summarize(ref)

		outputFormat, _ := cmd.Flags().GetString("format")
		switch strings.ToLower(outputFormat) {
		case "json":
			data, err := json.MarshalIndent(summary, "", "  ")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
		case "table", "console", "":
			printSummary(cmd.OutOrStdout(), summary)
		default:
			return fmt.Errorf("unknown output format: %s (valid: table, json)", outputFormat)
		}
		return nil
	},
}

func printSummary(w io.Writer, s refdata.Summary) {
	fmt.Fprintf(w, "Reference tables: %s\n", s.Source)
	fmt.Fprintln(w, strings.Repeat("=", 56))
	fmt.Fprintf(w, "%-18s %8s %8s %9s %6s\n", "Table", "First", "Last", "Entries", "Gaps")
	fmt.Fprintln(w, strings.Repeat("-", 56))
	for _, row := range []struct {
		name string
		span refdata.Span
	}{
		{"Wage growth", s.WageGrowth},
		{"Average salary", s.AverageSalary},
		{"Life expectancy", s.LifeExpectancy},
	} {
		fmt.Fprintf(w, "%-18s %8d %8d %9d %6d\n", row.name, row.span.First, row.span.Last, row.span.Entries, row.span.Gaps)
	}
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve projections over HTTP",
	Long: `Run the HTTP API. Settings come from the config file, then PENGO_*
environment variables, then defaults.

Examples:
  pengo serve
  pengo serve --config server.yaml
  PENGO_ADDR=:9090 PENGO_DB=usage.db pengo serve
`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		cfg, err := config.LoadServerConfig(configPath)
		if err != nil {
			return err
		}
		if dir, _ := cmd.Flags().GetString("data"); dir != "" {
			cfg.DataDir = dir
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("server config: %w", err)
		}
		return runServer(cmd, cfg)
	},
}

func runServer(cmd *cobra.Command, cfg *config.ServerConfig) error {
	provider, err := refdata.NewProvider(cfg.DataDir)
	if err != nil {
		return err
	}

	var recorder store.Recorder = store.NewNoopRecorder()
	if cfg.DBPath != "" {
		sqliteRecorder, err := store.NewSQLiteRecorder(cfg.DBPath)
		if err != nil {
			return fmt.Errorf("open usage store: %w", err)
		}
		recorder = sqliteRecorder
	}
	defer func() {
		if err := recorder.Close(); err != nil {
			log.Printf("[WARN] close usage store: %v", err)
		}
	}()

	engine := newEngine(cmd)
	handler := api.NewHandler(engine, provider, recorder)
	handler.Logger = newServerLogger(cmd)
	if cfg.BalanceExport != "" {
		handler.Exporter = store.NewBalanceFileExporter(cfg.BalanceExport)
	}

	var scheduler *cron.Cron
	if cfg.ReloadCron != "" {
		scheduler = cron.New(cron.WithSeconds())
		if _, err := scheduler.AddFunc(cfg.ReloadCron, func() {
			if err := provider.Reload(); err != nil {
				log.Printf("[WARN] %v", err)
				return
			}
			log.Printf("[INFO] reference tables reloaded from %s", provider.Source())
		}); err != nil {
			return fmt.Errorf("register reload schedule: %w", err)
		}
		scheduler.Start()
		log.Printf("[INFO] reference reload scheduled: %s", cfg.ReloadCron)
	}

	server := &http.Server{
		Addr:    cfg.Addr,
		Handler: api.NewRouter(handler, cfg.AllowedOrigins),
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Printf("[INFO] serving projections on %s (tables: %s)", cfg.Addr, provider.Source())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-quit:
	}

	log.Println("[INFO] shutting down server...")
	if scheduler != nil {
		<-scheduler.Stop().Done()
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	log.Println("[INFO] server stopped")
	return nil
}

func init() {
	refdataCmd.Flags().StringP("format", "f", "table", "Output format (table, json)")

	serveCmd.Flags().String("config", "", "Server config file (YAML)")

	rootCmd.AddCommand(refdataCmd)
	rootCmd.AddCommand(serveCmd)
}
