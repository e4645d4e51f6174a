// Package main is the entry point for the CosVM Explorer.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/fd1az/cosvm-explorer/business/blockchain"
	"github.com/fd1az/cosvm-explorer/business/explorer"
	explorerApp "github.com/fd1az/cosvm-explorer/business/explorer/app"
	explorerDI "github.com/fd1az/cosvm-explorer/business/explorer/di"
	"github.com/fd1az/cosvm-explorer/business/explorer/infra/reporter"
	"github.com/fd1az/cosvm-explorer/business/staking"
	"github.com/fd1az/cosvm-explorer/internal/apm"
	"github.com/fd1az/cosvm-explorer/internal/config"
	"github.com/fd1az/cosvm-explorer/internal/health"
	"github.com/fd1az/cosvm-explorer/internal/logger"
	"github.com/fd1az/cosvm-explorer/internal/metrics"
	"github.com/fd1az/cosvm-explorer/internal/monolith"
	"github.com/fd1az/cosvm-explorer/pkg/ui"
)

var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

func main() {
	// Load .env file if present (ignore error if not found)
	_ = godotenv.Load()

	configPath := flag.String("config", "", "Path to configuration file")
	cliMode := flag.Bool("cli", false, "Run in CLI mode with logs (no TUI)")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *showVersion {
		fmt.Printf("cosvm-explorer %s (commit: %s, built: %s)\n", version, commit, buildDate)
		os.Exit(0)
	}

	tuiMode := !*cliMode

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		if !tuiMode {
			fmt.Fprintf(os.Stderr, "received shutdown signal: %v\n", sig)
		}
		cancel()
	}()

	if err := run(ctx, *configPath, tuiMode); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath string, tuiMode bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg.App.TUIMode = tuiMode

	// The TUI owns the terminal, so logs are discarded there.
	out := io.Writer(os.Stderr)
	if tuiMode {
		out = io.Discard
	}
	log := logger.New(out, logger.ParseLevel(cfg.App.LogLevel), cfg.App.Name, logger.OtelTraceID)
	defer log.Sync()

	log.Info(ctx, "starting CosVM Explorer",
		"version", version,
		"environment", cfg.App.Environment,
	)

	var traceProvider apm.TraceProvider
	if cfg.Telemetry.Enabled {
		traceProvider, err = apm.NewTraceProvider(log,
			apm.WithProvider(apm.Provider(cfg.Telemetry.TraceProvider), cfg.Telemetry.TraceEndpoint, log),
			apm.WithServiceName(cfg.Telemetry.ServiceName),
		)
		if err != nil {
			log.Warn(ctx, "tracing disabled", "error", err)
		}

		if _, err := metrics.NewMetricProvider(
			metrics.WithServiceName(cfg.Telemetry.ServiceName),
			metrics.WithProviderConfig(metrics.ProviderCfg{
				Provider: metrics.PrometheusProvider,
			}),
		); err != nil {
			log.Warn(ctx, "metrics disabled", "error", err)
		} else {
			go metrics.ServePrometheusMetrics(log, metrics.WithPort(strconv.Itoa(cfg.Telemetry.PrometheusPort)))
		}
	}
	defer func() {
		if traceProvider != nil {
			traceProvider.Stop()
		}
	}()

	healthServer := health.NewServer(cfg.Health.Port, version, log)
	if err := healthServer.Start(); err != nil {
		log.Warn(ctx, "failed to start health server", "error", err)
	} else {
		log.Info(ctx, "health server started", "port", cfg.Health.Port)
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		healthServer.Stop(stopCtx)
	}()

	mono := monolith.New(cfg, log, healthServer)
	defer func() {
		if err := mono.Close(); err != nil {
			log.Warn(context.Background(), "shutdown", "error", err)
		}
	}()

	// Modules in dependency order
	modules := []monolith.Module{
		&blockchain.Module{}, // stream, status and gas
		&staking.Module{},    // validator set
		&explorer.Module{},   // reducer and dashboard, depends on both
	}

	if err := mono.RegisterModules(modules...); err != nil {
		return fmt.Errorf("failed to register modules: %w", err)
	}

	loc, err := cfg.Explorer.Location()
	if err != nil {
		return fmt.Errorf("invalid time location: %w", err)
	}

	if tuiMode {
		start := func(runCtx context.Context, p explorerApp.Presenter) error {
			if err := mono.StartModules(runCtx, modules...); err != nil {
				return fmt.Errorf("failed to start modules: %w", err)
			}
			return explorerDI.GetDashboard(mono.Services()).Run(runCtx, p)
		}
		return runTUI(ctx, ui.Options{Location: loc, TokenExponent: cfg.Staking.TokenExponent}, start)
	}

	if err := mono.StartModules(ctx, modules...); err != nil {
		return fmt.Errorf("failed to start modules: %w", err)
	}
	return runCLI(ctx, explorerDI.GetDashboard(mono.Services()), loc, log)
}

func runCLI(ctx context.Context, dash *explorerApp.Dashboard, loc *time.Location, log *logger.Logger) error {
	log.Info(ctx, "all modules started, streaming blocks and transactions")

	console := reporter.NewConsolePresenter(loc)
	console.Start()
	defer console.Stop()

	if err := dash.Run(ctx, console); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("dashboard: %w", err)
	}

	log.Info(ctx, "shutting down")
	return nil
}

func runTUI(ctx context.Context, opts ui.Options, start func(context.Context, explorerApp.Presenter) error) error {
	runCtx, stop := context.WithCancel(ctx)
	defer stop()

	startSignal := make(chan struct{}, 1)
	opts.OnStart = func() {
		select {
		case startSignal <- struct{}{}:
		default:
		}
	}

	p := tea.NewProgram(ui.New(opts), tea.WithAltScreen(), tea.WithContext(ctx))
	presenter := ui.NewPresenter(p)

	errCh := make(chan error, 1)
	go func() {
		select {
		case <-startSignal:
		case <-runCtx.Done():
			errCh <- nil
			return
		}

		err := start(runCtx, presenter)
		if err != nil && runCtx.Err() == nil {
			presenter.Notice(err)
		}
		errCh <- err
	}()

	_, runErr := p.Run()
	stop()
	botErr := <-errCh

	if runErr != nil && !errors.Is(runErr, tea.ErrProgramKilled) {
		return fmt.Errorf("TUI error: %w", runErr)
	}
	if botErr != nil && !errors.Is(botErr, context.Canceled) {
		return botErr
	}
	return nil
}
