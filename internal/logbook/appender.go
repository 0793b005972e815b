package logbook

import (
	"context"
	"errors"
	"fmt"

	"github.com/2beens/vibefit/internal/workout"

	"go.uber.org/multierr"
)

type Appender interface {
	// Name identifies the target store in logs and metrics.
	Name() string
	// Append writes exactly one row for the entry.
	Append(ctx context.Context, entry workout.LogEntry) error
}

// PersistenceError is a failed append to a remote store. It is surfaced to the
// user as a warning; the local log keeps the entry either way.
type PersistenceError struct {
	Store string
	Err   error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("append to %s: %s", e.Store, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func IsPersistenceError(err error) bool {
	var pErr *PersistenceError
	return errors.As(err, &pErr)
}

// Multi appends to every target, even after one of them failed.
type Multi struct {
	appenders []Appender
}

func NewMulti(appenders ...Appender) *Multi {
	return &Multi{appenders: appenders}
}

func (m *Multi) Name() string {
	return "multi"
}

func (m *Multi) Len() int {
	return len(m.appenders)
}

func (m *Multi) Append(ctx context.Context, entry workout.LogEntry) error {
	var err error
	for _, a := range m.appenders {
		if appendErr := a.Append(ctx, entry); appendErr != nil {
			if !IsPersistenceError(appendErr) {
				appendErr = &PersistenceError{Store: a.Name(), Err: appendErr}
			}
			err = multierr.Append(err, appendErr)
		}
	}
	return err
}
