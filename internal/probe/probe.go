// Package probe drives a tracker pair from ICMP round-trip measurements: one
// tracker ingests each RTT as an overridden value, the other tracks the probe
// cadence itself.
package probe

import (
	"context"
	"errors"
	"runtime"
	"time"

	probing "github.com/prometheus-community/pro-bing"
	"go.uber.org/zap"

	"github.com/HerbHall/perfpulse/internal/perf"
)

// Config holds probe loop settings.
type Config struct {
	Target     string
	Interval   time.Duration
	Timeout    time.Duration
	Privileged bool
}

// Prober pings a target on a fixed interval and feeds the results into the
// given trackers.
type Prober struct {
	cfg     Config
	rtt     *perf.Tracker
	cadence *perf.Tracker
	logger  *zap.Logger
}

// New creates a Prober. rtt receives each round-trip time as an overridden
// sample value; cadence counts every probe attempt, successful or not.
func New(cfg Config, rtt, cadence *perf.Tracker, logger *zap.Logger) *Prober {
	return &Prober{
		cfg:     cfg,
		rtt:     rtt,
		cadence: cadence,
		logger:  logger,
	}
}

// Run probes until the context is cancelled.
func (p *Prober) Run(ctx context.Context) error {
	p.logger.Info("starting probe loop",
		zap.String("target", p.cfg.Target),
		zap.Duration("interval", p.cfg.Interval),
	)

	ticker := time.NewTicker(p.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			p.probeOnce(ctx)
		}
	}
}

func (p *Prober) probeOnce(ctx context.Context) {
	p.cadence.Count()

	rtt, err := p.ping(ctx)
	if err != nil {
		p.logger.Debug("probe failed", zap.String("target", p.cfg.Target), zap.Error(err))
		return
	}
	p.rtt.CountValue(rtt)
}

func (p *Prober) ping(ctx context.Context) (time.Duration, error) {
	pinger, err := probing.NewPinger(p.cfg.Target)
	if err != nil {
		return 0, err
	}

	pinger.Count = 1
	pinger.Timeout = p.cfg.Timeout
	pinger.SetPrivileged(p.cfg.Privileged || runtime.GOOS == "windows")

	// Run with context for cancellation support.
	done := make(chan struct{})
	var runErr error
	go func() {
		defer close(done)
		runErr = pinger.Run()
	}()

	select {
	case <-done:
	case <-ctx.Done():
		pinger.Stop()
		return 0, ctx.Err()
	}
	if runErr != nil {
		return 0, runErr
	}

	stats := pinger.Statistics()
	if stats.PacketsRecv == 0 {
		return 0, errors.New("no reply")
	}
	return stats.AvgRtt, nil
}
