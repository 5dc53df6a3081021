package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	// shutdownTimeout - максимальное время ожидания завершения воркеров
	shutdownTimeout = 15 * time.Second

	defaultRestartDelay = 5 * time.Second
)

// WorkerManager запускает воркеры, перезапускает упавшие и останавливает все разом
type WorkerManager struct {
	workers      []Worker
	states       map[string]State
	restartDelay time.Duration
	stopping     chan struct{}
	stopOnce     sync.Once
	logger       *zap.Logger
	wg           sync.WaitGroup
	mu           sync.Mutex
}

// NewWorkerManager создает новый WorkerManager
func NewWorkerManager(logger *zap.Logger) *WorkerManager {
	return &WorkerManager{
		states:       make(map[string]State),
		restartDelay: defaultRestartDelay,
		stopping:     make(chan struct{}),
		logger:       logger,
	}
}

// SetRestartDelay sets the pause before a failed worker is started again.
func (m *WorkerManager) SetRestartDelay(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.restartDelay = d
}

// Register регистрирует воркер; имена должны быть уникальны
func (m *WorkerManager) Register(w Worker) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.workers = append(m.workers, w)
	m.states[w.Name()] = StateRegistered
	m.logger.Info("Worker registered", zap.String("name", w.Name()))
}

// States returns a snapshot of worker states by name.
func (m *WorkerManager) States() map[string]State {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make(map[string]State, len(m.states))
	for name, s := range m.states {
		out[name] = s
	}
	return out
}

func (m *WorkerManager) setState(name string, s State) {
	m.mu.Lock()
	m.states[name] = s
	m.mu.Unlock()
}

func (m *WorkerManager) snapshot() []Worker {
	m.mu.Lock()
	defer m.mu.Unlock()
	workers := make([]Worker, len(m.workers))
	copy(workers, m.workers)
	return workers
}

// Start запускает все зарегистрированные воркеры и сразу возвращается
func (m *WorkerManager) Start(ctx context.Context) error {
	workers := m.snapshot()
	if len(workers) == 0 {
		return fmt.Errorf("no workers registered")
	}

	m.logger.Info("Starting workers", zap.Int("count", len(workers)))

	for _, w := range workers {
		m.wg.Add(1)
		go func(w Worker) {
			defer m.wg.Done()
			m.supervise(ctx, w)
		}(w)
	}

	return nil
}

// supervise runs w until it stops cleanly, restarting it after failures.
func (m *WorkerManager) supervise(ctx context.Context, w Worker) {
	log := m.logger.With(zap.String("name", w.Name()))

	for attempt := 1; ; attempt++ {
		m.setState(w.Name(), StateRunning)
		log.Info("Starting worker", zap.Int("attempt", attempt))

		err := w.Start(ctx)
		if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			m.setState(w.Name(), StateStopped)
			return
		}

		log.Error("Worker failed", zap.Int("attempt", attempt), zap.Error(err))
		m.setState(w.Name(), StateRestarting)

		m.mu.Lock()
		delay := m.restartDelay
		m.mu.Unlock()

		timer := time.NewTimer(delay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			m.setState(w.Name(), StateStopped)
			return
		case <-m.stopping:
			timer.Stop()
			m.setState(w.Name(), StateStopped)
			return
		}
	}
}

// Stop сигнализирует всем воркерам и ждёт их завершения не дольше shutdownTimeout
func (m *WorkerManager) Stop() error {
	workers := m.snapshot()
	m.logger.Info("Stopping workers", zap.Int("count", len(workers)))

	m.stopOnce.Do(func() { close(m.stopping) })

	for _, w := range workers {
		if err := w.Stop(); err != nil {
			m.logger.Error("Failed to stop worker",
				zap.String("name", w.Name()),
				zap.Error(err))
		}
	}

	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		m.logger.Info("All workers stopped gracefully")
	case <-time.After(shutdownTimeout):
		m.logger.Warn("Workers shutdown timed out, pending stream messages stay unacked",
			zap.Duration("timeout", shutdownTimeout))
		return fmt.Errorf("workers shutdown timed out after %v", shutdownTimeout)
	}

	return nil
}
