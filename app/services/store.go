package services

import (
	"context"
	"errors"
	"fmt"

	"flowy/app/models"
)

// ErrNotFound is returned by GetTask when no task is stored under the id.
var ErrNotFound = errors.New("task not found")

// TaskStore persists tasks. Implementations must be safe for concurrent use.
type TaskStore interface {
	SetTask(ctx context.Context, task *models.Task) error
	GetTask(ctx context.Context, id string) (*models.Task, error)
	DeleteTask(ctx context.Context, id string) error
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// StoreError is a failure reported by the backend (connection refused,
// command error, type mismatch). It never wraps ErrNotFound.
type StoreError struct {
	Op  string
	Key string
	Err error
}

func (e *StoreError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("store %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("store %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

func storeErr(op, key string, err error) error {
	return &StoreError{Op: op, Key: key, Err: err}
}
