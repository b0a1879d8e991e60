// Package main provides the setupflow binary: a terminal wizard that
// walks a machine through application, repository and environment setup.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/jask/setupflow/internal/config"
	"github.com/jask/setupflow/internal/database"
	"github.com/jask/setupflow/internal/database/repository"
	flowlog "github.com/jask/setupflow/internal/log"
	"github.com/jask/setupflow/internal/metrics"
	"github.com/jask/setupflow/internal/pages"
	"github.com/jask/setupflow/internal/resources"
	"github.com/jask/setupflow/internal/telemetry"
	"github.com/jask/setupflow/internal/tui"
)

const (
	Version = "0.1.0"
	appName = "setupflow"
)

type rootOptions struct {
	configPath string
	logLevel   string
	navigate   string
	file       string
	query      string
}

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var opts rootOptions

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Guided machine setup",
		Long: `setupflow walks through installing applications, cloning
repositories, applying configuration files and creating environments.

Without flags it opens on the main page. --file, --query and --navigate
start a flow directly.`,
		SilenceUsage: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
				slog.Debug("Failed to load .env file", flowlog.Error(err))
			}
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), opts)
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Config file path (TOML)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	cmd.Flags().StringVar(&opts.navigate, "navigate", "", "Navigation request, e.g. StartCreationFlow;Environments")
	cmd.Flags().StringVar(&opts.file, "file", "", "Configuration file to apply")
	cmd.Flags().StringVar(&opts.query, "query", "", "Open app management searching for query")
	cmd.MarkFlagsMutuallyExclusive("navigate", "file", "query")

	cmd.AddCommand(
		versionCmd(),
		configCmd(&opts),
		eventsCmd(&opts),
		routeCmd(&opts),
	)
	return cmd
}

func run(ctx context.Context, opts rootOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	logger, closeLog, err := openLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer closeLog()
	slog.SetDefault(logger)

	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		return fmt.Errorf("mkdir db dir: %w", err)
	}
	db, err := database.OpenMigrated(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer db.Close()

	recorder := telemetry.NewRecorder(repository.NewFlowEventRepo(db), logger)
	defer recorder.Close()

	reg := prometheus.NewRegistry()
	flowMetrics, err := metrics.NewFlow(reg)
	if err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}
	if cfg.Metrics.Addr != "" {
		shutdown := serveMetrics(cfg.Metrics.Addr, reg, logger)
		defer shutdown()
	}

	strs, err := resources.Load(cfg.Strings.Path)
	if err != nil {
		return err
	}
	pages.SetAccent(cfg.UI.Accent)

	w, err := wire(ctx, cfg, wiringDeps{
		strings:   strs,
		telemetry: recorder,
		metrics:   flowMetrics,
		logger:    logger,
	})
	if err != nil {
		return err
	}
	defer w.flow.Close()

	switch {
	case opts.file != "":
		if err := w.flow.StartFileActivationFlow(ctx, opts.file); err != nil {
			return err
		}
	case opts.query != "":
		w.flow.StartAppManagementFlow(opts.query)
	case opts.navigate != "":
		w.flow.Navigate(opts.navigate)
	}

	app := tui.New(ctx, w.flow, w.player, logger)
	defer app.Close()
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}

func loadConfig(opts rootOptions) (config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return config.Config{}, err
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	return cfg, nil
}

// openLogger logs to cfg.Path; the terminal belongs to the UI.
func openLogger(cfg config.LogConfig) (*slog.Logger, func(), error) {
	if cfg.Path == "" {
		return flowlog.New(io.Discard, cfg.Level, cfg.Format), func() {}, nil
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("mkdir log dir: %w", err)
	}
	f, err := os.OpenFile(cfg.Path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return flowlog.New(f, cfg.Level, cfg.Format), func() { _ = f.Close() }, nil
}

func serveMetrics(addr string, reg *prometheus.Registry, logger *slog.Logger) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Metrics server stopped", flowlog.Error(err))
		}
	}()
	logger.Info("Serving metrics", slog.String("addr", addr))
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}
