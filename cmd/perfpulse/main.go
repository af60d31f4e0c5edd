package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/HerbHall/perfpulse/internal/config"
	"github.com/HerbHall/perfpulse/internal/metrics"
	"github.com/HerbHall/perfpulse/internal/perf"
	"github.com/HerbHall/perfpulse/internal/probe"
	"github.com/HerbHall/perfpulse/internal/runstate"
)

func main() {
	configPath := flag.String("config", "", "path to configuration file")
	target := flag.String("target", "", "probe target (overrides probe.target)")
	flag.Parse()

	// Load configuration (before logger, so log level/format can be configured).
	viperCfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if *target != "" {
		viperCfg.Set("probe.target", *target)
	}
	settings := config.New(viperCfg)

	logger, err := config.NewLogger(viperCfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	runID := uuid.New().String()
	logger = logger.With(zap.String("run_id", runID))
	logger.Info("perfpulse starting", zap.String("target", viperCfg.GetString("probe.target")))

	if f := viperCfg.ConfigFileUsed(); f != "" {
		settings.Watch()
		logger.Info("configuration loaded", zap.String("source", f))
	} else {
		logger.Warn("no configuration file found, using defaults")
	}

	states := runstate.NewPublisher(logger.Named("runstate"))

	rtt, err := perf.New(perf.Options{
		Name:       "probe_rtt",
		Source:     settings,
		LogName:    "probe_rtt.log",
		LogDir:     settings.LogDir(),
		LogEnabled: settings.LogSamples,
		States:     states,
	}, logger.Named("perf"))
	if err != nil {
		logger.Fatal("failed to create rtt tracker", zap.Error(err))
	}
	defer rtt.Close()

	cadence, err := perf.New(perf.Options{
		Name:   "probe_cadence",
		Source: settings,
		States: states,
	}, logger.Named("perf"))
	if err != nil {
		logger.Fatal("failed to create cadence tracker", zap.Error(err))
	}
	defer cadence.Close()

	prometheus.MustRegister(
		metrics.NewTrackerCollector(rtt),
		metrics.NewTrackerCollector(cadence),
	)

	mux := http.NewServeMux()
	mux.Handle("GET /metrics", promhttp.Handler())
	metricsServer := &http.Server{
		Addr:         viperCfg.GetString("metrics.listen"),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		logger.Info("metrics server listening", zap.String("addr", metricsServer.Addr))
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", zap.Error(err))
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// SIGUSR1 pauses sample ingestion, SIGUSR2 resumes it; INT/TERM shut down.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGUSR1, syscall.SIGUSR2)
	go func() {
		for sig := range sigCh {
			switch sig {
			case syscall.SIGUSR1:
				logger.Info("pausing ingestion")
				states.Set(runstate.Paused)
			case syscall.SIGUSR2:
				logger.Info("resuming ingestion")
				states.Set(runstate.Running)
			default:
				logger.Info("received shutdown signal", zap.String("signal", sig.String()))
				cancel()
				return
			}
		}
	}()

	states.Set(runstate.Running)

	prober := probe.New(probe.Config{
		Target:     viperCfg.GetString("probe.target"),
		Interval:   viperCfg.GetDuration("probe.interval"),
		Timeout:    viperCfg.GetDuration("probe.timeout"),
		Privileged: viperCfg.GetBool("probe.privileged"),
	}, rtt, cadence, logger.Named("probe"))

	if err := prober.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal("probe loop error", zap.Error(err))
	}

	states.Set(runstate.Stopping)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("metrics server shutdown failed", zap.Error(err))
	}

	logger.Info("perfpulse stopped",
		zap.Float64("rate_avg_hz", rtt.RateAvg()),
		zap.Duration("value_avg", rtt.ValueAvg()),
		zap.Duration("value_stddev", rtt.ValueStdDev()),
	)
}
