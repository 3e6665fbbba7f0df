package api

import (
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// PerfMonitor counts requests and failed requests and logs the totals once per
// interval, starting each interval from zero.
type PerfMonitor struct {
	accesses atomic.Int64
	errors   atomic.Int64
	interval time.Duration
	logger   *zap.Logger
}

// NewPerfMonitor creates a monitor; a non-positive interval disables Run
func NewPerfMonitor(interval time.Duration, logger *zap.Logger) *PerfMonitor {
	return &PerfMonitor{interval: interval, logger: logger}
}

// RecordAccess counts one request
func (p *PerfMonitor) RecordAccess() {
	p.accesses.Add(1)
}

// RecordError counts one failed request
func (p *PerfMonitor) RecordError() {
	p.errors.Add(1)
}

// Counts returns the current totals without resetting them
func (p *PerfMonitor) Counts() (accesses, errors int64) {
	return p.accesses.Load(), p.errors.Load()
}

// Tick logs and resets the counters
func (p *PerfMonitor) Tick() (accesses, errors int64) {
	accesses = p.accesses.Swap(0)
	errors = p.errors.Swap(0)
	p.logger.Info("performance",
		zap.Int64("accesses", accesses),
		zap.Int64("errors", errors),
		zap.Duration("interval", p.interval),
	)
	return accesses, errors
}

// Run ticks every interval until ctx is done
func (p *PerfMonitor) Run(ctx context.Context) {
	if p.interval <= 0 {
		return
	}
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.Tick()
		}
	}
}
