package worker_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/route-search-service/internal/worker"
)

type countingWorker struct {
	*worker.BaseWorker
	steps atomic.Int32
}

func newCountingWorker(name string) *countingWorker {
	return &countingWorker{BaseWorker: worker.NewBaseWorker(name, "group", zap.NewNop())}
}

func (w *countingWorker) Start(ctx context.Context) error {
	return w.Loop(ctx, time.Millisecond, func(context.Context) (int, error) {
		w.steps.Add(1)
		return 0, nil
	})
}

func TestWorkerManager_StartStop(t *testing.T) {
	m := worker.NewWorkerManager(zap.NewNop())
	a, b := newCountingWorker("a"), newCountingWorker("b")
	m.Register(a)
	m.Register(b)

	require.NoError(t, m.Start(context.Background()))
	assert.Eventually(t, func() bool {
		return a.steps.Load() > 0 && b.steps.Load() > 0
	}, time.Second, 5*time.Millisecond)

	assert.Equal(t, worker.StateRunning, m.States()["a"])

	require.NoError(t, m.Stop())
	assert.True(t, a.IsStopped())
	assert.True(t, b.IsStopped())
	assert.Equal(t, map[string]worker.State{"a": worker.StateStopped, "b": worker.StateStopped}, m.States())
}

// flakyWorker fails its first Start calls, then runs until stopped.
type flakyWorker struct {
	*worker.BaseWorker
	failures int32
	starts   atomic.Int32
}

func (w *flakyWorker) Start(ctx context.Context) error {
	if w.starts.Add(1) <= w.failures {
		return errors.New("consumer group unavailable")
	}
	return w.Loop(ctx, time.Millisecond, func(context.Context) (int, error) { return 0, nil })
}

func TestWorkerManager_RestartsFailedWorker(t *testing.T) {
	m := worker.NewWorkerManager(zap.NewNop())
	m.SetRestartDelay(time.Millisecond)

	w := &flakyWorker{BaseWorker: worker.NewBaseWorker("flaky", "group", zap.NewNop()), failures: 2}
	m.Register(w)
	assert.Equal(t, worker.StateRegistered, m.States()["flaky"])

	require.NoError(t, m.Start(context.Background()))
	assert.Eventually(t, func() bool {
		return w.starts.Load() == 3 && m.States()["flaky"] == worker.StateRunning
	}, time.Second, 5*time.Millisecond)

	require.NoError(t, m.Stop())
	assert.Equal(t, worker.StateStopped, m.States()["flaky"])
}

func TestWorkerManager_StopDuringRestartDelay(t *testing.T) {
	m := worker.NewWorkerManager(zap.NewNop())
	m.SetRestartDelay(time.Hour)

	w := &flakyWorker{BaseWorker: worker.NewBaseWorker("down", "group", zap.NewNop()), failures: 100}
	m.Register(w)

	require.NoError(t, m.Start(context.Background()))
	assert.Eventually(t, func() bool {
		return m.States()["down"] == worker.StateRestarting
	}, time.Second, 5*time.Millisecond)

	require.NoError(t, m.Stop())
	assert.Equal(t, int32(1), w.starts.Load())
}

func TestWorkerManager_NoWorkers(t *testing.T) {
	m := worker.NewWorkerManager(zap.NewNop())
	assert.Error(t, m.Start(context.Background()))
}

func TestBaseWorker_LoopStopsOnContext(t *testing.T) {
	w := newCountingWorker("ctx")
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- w.Start(ctx) }()
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("loop did not exit")
	}
}
