package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"syscall"

	"github.com/skovtunenko/graterm"
	"github.com/spf13/cobra"

	"mercator-hq/harbor/pkg/cli"
	"mercator-hq/harbor/pkg/config"
	"mercator-hq/harbor/pkg/server"
	"mercator-hq/harbor/pkg/shutdown"
	"mercator-hq/harbor/pkg/telemetry/health"
	"mercator-hq/harbor/pkg/telemetry/logging"
	"mercator-hq/harbor/pkg/telemetry/metrics"
	"mercator-hq/harbor/pkg/telemetry/tracing"
)

// Cleanup hook order. Lower runs first; equal orders run in parallel.
const (
	orderConnections graterm.Order = 1
	orderWatcher     graterm.Order = 1
	orderTracing     graterm.Order = 2
)

var runFlags struct {
	port     int
	logLevel string
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the harbor HTTP server",
	Long: `Start the harbor HTTP server with the specified configuration.

The server runs until GET /shutdown is called or the process receives SIGINT
or SIGTERM. It then stops accepting connections, waits for every in-flight
request to finish and reports how long that took.

Examples:
  # Start with built-in defaults ($PORT or 3000)
  harbor run

  # Start with a config file
  harbor run --config /etc/harbor/harbor.yaml

  # Bind an ephemeral port with debug logging
  harbor run --port 0 --log-level debug`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().IntVarP(&runFlags.port, "port", "p", 0, "override listen port (0 binds an ephemeral port)")
	runCmd.Flags().StringVar(&runFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := loadRunConfig(cmd)
	if err != nil {
		return err
	}

	lc := cfg.Telemetry.Logging
	logger, err := logging.New(logging.Config{
		Level:     lc.Level,
		Format:    lc.Format,
		AddSource: lc.AddSource,
		Writer:    os.Stdout,
	})
	if err != nil {
		return cli.NewConfigError(cfgFile, err.Error())
	}
	slog.SetDefault(logger.Slog())

	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)

	tracer, err := tracing.New(&cfg.Telemetry.Tracing, tracing.WithServiceVersion(Version))
	if err != nil {
		return cli.NewCommandError("run", fmt.Errorf("failed to initialize tracing: %w", err))
	}

	coord := shutdown.NewCoordinator(
		shutdown.WithLogger(logger.Slog()),
		shutdown.WithRecorder(collector),
	)

	appCtx, cancelApp := context.WithCancel(context.Background())
	defer cancelApp()

	term, sigCtx := graterm.NewWithSignals(appCtx, os.Interrupt, syscall.SIGTERM)
	term.SetLogger(logger.LogLogger())
	coord.WatchSignals(sigCtx)

	srv := server.New(cfg,
		server.WithLogger(logger.Slog()),
		server.WithCoordinator(coord),
		server.WithMetrics(collector),
		server.WithTracer(tracer),
		server.WithHealth(health.New(health.DefaultCheckTimeout)),
	)
	if err := srv.Listen(); err != nil {
		return cli.NewCommandError("run", err)
	}

	hookTimeout := cfg.Shutdown.HookTimeout
	term.WithOrder(orderConnections).
		WithName("downstream connections").
		Register(hookTimeout, func(context.Context) {
			srv.Downstream().CloseIdleConnections()
		})
	term.WithOrder(orderTracing).
		WithName("tracer").
		Register(hookTimeout, func(ctx context.Context) {
			if err := tracer.Shutdown(ctx); err != nil {
				logger.Slog().Warn("tracer shutdown failed", "error", err)
			}
		})

	if cfg.Watch && cfgFile != "" {
		if err := startConfigWatcher(appCtx, term, cfg, logger); err != nil {
			logger.Slog().Warn("config watching disabled", "error", err)
		}
	}

	logger.Slog().Info("harbor started",
		"version", Version,
		"address", srv.Addr().String(),
		"port", srv.Port(),
		"url", srv.URL(),
		"metrics", collector.Enabled(),
		"tracing", tracer.Enabled(),
	)

	took, err := srv.Serve()
	if err != nil {
		return cli.NewCommandError("run", err)
	}

	logger.Slog().Info("server gracefully shutdown", "took", took.String())
	fmt.Fprintf(cmd.OutOrStdout(), "Server gracefully shutdown, taking %v\n", took)

	// Serve only returns after the drain, so this starts the cleanup hooks
	// whether the trigger was a signal or /shutdown.
	cancelApp()
	if err := term.Wait(sigCtx, cfg.Shutdown.CleanupTimeout); err != nil {
		logger.Slog().Warn("cleanup did not finish", "error", err)
	}
	return nil
}

// loadRunConfig loads the file, environment and flag overrides in that order.
func loadRunConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, cli.NewConfigError(cfgFile, err.Error())
	}

	if cmd.Flags().Changed("port") {
		cfg.Server.Port = runFlags.port
	}
	if runFlags.logLevel != "" {
		cfg.Telemetry.Logging.Level = runFlags.logLevel
	}
	if err := config.Validate(cfg); err != nil {
		return nil, cli.NewConfigError(cfgFile, err.Error())
	}
	return cfg, nil
}

// startConfigWatcher applies log level changes from the config file while
// the server runs. Listener settings need a restart.
func startConfigWatcher(ctx context.Context, term *graterm.Terminator, cfg *config.Config, logger *logging.Logger) error {
	watcher, err := config.NewWatcher(cfgFile, logger.Slog())
	if err != nil {
		return err
	}

	term.WithOrder(orderWatcher).
		WithName("config watcher").
		Register(cfg.Shutdown.HookTimeout, func(context.Context) {
			if err := watcher.Stop(); err != nil {
				logger.Slog().Warn("config watcher stop failed", "error", err)
			}
		})

	go func() {
		err := watcher.Watch(ctx, func(next *config.Config) {
			if err := logger.SetLevel(next.Telemetry.Logging.Level); err != nil {
				logger.Slog().Warn("ignoring invalid log level", "level", next.Telemetry.Logging.Level)
			} else {
				logger.Slog().Info("log level updated", "level", next.Telemetry.Logging.Level)
			}
			if next.Server.Address() != cfg.Server.Address() {
				logger.Slog().Warn("listener change ignored until restart",
					"current", cfg.Server.Address(),
					"configured", next.Server.Address(),
				)
			}
		})
		if err != nil {
			logger.Slog().Error("config watcher failed", "error", err)
		}
	}()
	return nil
}
