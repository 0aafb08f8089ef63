package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/fittrack/internal/buildinfo"
	"github.com/dmitrijs2005/fittrack/internal/client/cli"
	"github.com/dmitrijs2005/fittrack/internal/client/config"
	"github.com/dmitrijs2005/fittrack/internal/logging"
	"github.com/dmitrijs2005/fittrack/internal/telemetry"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

type flagValues struct {
	configPath  string
	server      string
	dbPath      string
	ephemeral   bool
	logLevel    string
	logBackend  string
	metricsAddr string
}

func newRootCommand() *cobra.Command {
	var fv flagValues

	cmd := &cobra.Command{
		Use:           "fittrack",
		Short:         "Interactive client for the fittrack fitness API",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			cfg, err := loadConfig(cmd, &fv)
			if err != nil {
				return err
			}
			return run(ctx, cfg)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&fv.configPath, "config", "c", "", "path to a JSON or YAML config file")
	f.StringVarP(&fv.server, "server", "a", "", "base URL of the fitness API")
	f.StringVar(&fv.dbPath, "db", "", "path of the local credential database")
	f.BoolVar(&fv.ephemeral, "ephemeral", false, "keep the session in memory only")
	f.StringVar(&fv.logLevel, "log-level", "", "log level: debug, info, warn or error")
	f.StringVar(&fv.logBackend, "log-backend", "", "log backend: slog or zap")
	f.StringVar(&fv.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address")

	cmd.AddCommand(newVersionCommand())
	return cmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Run: func(cmd *cobra.Command, args []string) {
			buildinfo.PrintBuildData(cmd.OutOrStdout())
		},
	}
}

// loadConfig applies defaults, then the config file, then explicitly set flags.
func loadConfig(cmd *cobra.Command, fv *flagValues) (*config.Config, error) {
	cfg, err := config.LoadConfig(fv.configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("server") {
		cfg.ServerURL = fv.server
	}
	if flags.Changed("db") {
		cfg.DBPath = fv.dbPath
	}
	if flags.Changed("ephemeral") {
		cfg.Ephemeral = fv.ephemeral
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = fv.logLevel
	}
	if flags.Changed("log-backend") {
		cfg.LogBackend = fv.logBackend
	}
	if flags.Changed("metrics-addr") {
		cfg.MetricsAddr = fv.metricsAddr
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func run(ctx context.Context, cfg *config.Config) error {
	buildinfo.PrintBuildData(os.Stdout)

	logger, err := logging.New(cfg.LogBackend, cfg.LogLevel, os.Stderr)
	if err != nil {
		return err
	}

	shutdown, err := telemetry.Init(ctx, cfg.ServiceName, cfg.OTLPEndpoint)
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			logger.Warn(ctx, "telemetry shutdown", "error", err)
		}
	}()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())

	if cfg.MetricsAddr != "" {
		addr, errc, err := telemetry.ServeMetrics(ctx, cfg.MetricsAddr, reg)
		if err != nil {
			return fmt.Errorf("metrics listener: %w", err)
		}
		logger.Info(ctx, "serving metrics", "addr", addr.String())
		go watchMetrics(ctx, logger, errc)
	}

	app, err := cli.NewApp(ctx, cfg, reg, cli.WithLogger(logger))
	if err != nil {
		return err
	}
	return app.Run(ctx)
}

// watchMetrics logs a metrics server that stops with an error. The REPL keeps
// running without it.
func watchMetrics(ctx context.Context, logger logging.Logger, errc <-chan error) {
	if err := <-errc; err != nil {
		logger.Error(ctx, "metrics server stopped", "error", err)
	}
}
