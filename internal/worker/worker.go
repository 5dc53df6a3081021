package worker

import (
	"context"
)

// Worker - фоновый процесс под управлением WorkerManager.
// Start blocks until the worker stops; it returns nil after Stop and
// ctx.Err() after cancellation. Any other error is a failure and the
// manager restarts the worker.
type Worker interface {
	Start(ctx context.Context) error
	Stop() error
	Name() string
}

// State - состояние воркера в менеджере
type State string

const (
	StateRegistered State = "registered"
	StateRunning    State = "running"
	StateRestarting State = "restarting"
	StateStopped    State = "stopped"
)
