package api

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestPerfMonitor_TickResets(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	perf := NewPerfMonitor(time.Second, zap.New(core))

	for i := 0; i < 5; i++ {
		perf.RecordAccess()
	}
	perf.RecordError()
	perf.RecordError()

	accesses, errs := perf.Tick()
	assert.Equal(t, int64(5), accesses)
	assert.Equal(t, int64(2), errs)

	accesses, errs = perf.Counts()
	assert.Zero(t, accesses)
	assert.Zero(t, errs)

	entries := logs.FilterMessage("performance").All()
	if assert.Len(t, entries, 1) {
		fields := entries[0].ContextMap()
		assert.Equal(t, int64(5), fields["accesses"])
		assert.Equal(t, int64(2), fields["errors"])
	}
}

func TestPerfMonitor_RunTicksUntilCancelled(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	perf := NewPerfMonitor(10*time.Millisecond, zap.New(core))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		perf.Run(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool {
		return logs.FilterMessage("performance").Len() >= 2
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestPerfMonitor_DisabledInterval(t *testing.T) {
	perf := NewPerfMonitor(0, zap.NewNop())

	done := make(chan struct{})
	go func() {
		perf.Run(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run with zero interval should return immediately")
	}
}
