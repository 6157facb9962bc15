// SPDX-License-Identifier: EPL-2.0

// Package worker runs the background capture and playback goroutines with a
// per-kind concurrency limit.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// Kind names a class of background work.
type Kind string

const (
	Capture  Kind = "capture"
	Playback Kind = "playback"
)

var (
	// ErrUnavailable is returned when a kind is already at its limit.
	ErrUnavailable = errors.New("no worker available")
	// ErrUnknownKind is returned for a kind the runner was not built with.
	ErrUnknownKind = errors.New("unknown worker kind")
)

// pool runs the tasks of one kind. slots is nil when the kind is unlimited.
type pool struct {
	slots *semaphore.Weighted
	group errgroup.Group
}

// Runner owns one pool per kind.
type Runner struct {
	logger *slog.Logger
	pools  map[Kind]*pool
}

// NewRunner builds a runner; a limit below 1 means unlimited.
func NewRunner(limits map[Kind]int, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}

	r := &Runner{
		logger: logger,
		pools:  make(map[Kind]*pool, len(limits)),
	}
	for kind, n := range limits {
		p := new(pool)
		if n > 0 {
			p.slots = semaphore.NewWeighted(int64(n))
		}
		r.pools[kind] = p
	}
	return r
}

// Go starts fn without blocking, or fails with ErrUnavailable when kind is at
// its limit. ctx is handed to fn untouched. The slot is free again by the
// time the Task reports done.
func (r *Runner) Go(ctx context.Context, kind Kind, fn func(ctx context.Context) error) (*Task, error) {
	p, ok := r.pools[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	if p.slots != nil && !p.slots.TryAcquire(1) {
		return nil, fmt.Errorf("%w: %s", ErrUnavailable, kind)
	}

	t := &Task{kind: kind, done: make(chan struct{})}
	p.group.Go(func() error {
		t.err = fn(ctx)
		if p.slots != nil {
			p.slots.Release(1)
		}
		close(t.done)

		if t.err != nil {
			r.logger.Debug("worker finished with error",
				slog.String("kind", string(kind)),
				slog.Any("error", t.err),
			)
		}
		return t.err
	})
	return t, nil
}

// Wait blocks until every started task has returned and reports the first
// error of each kind.
func (r *Runner) Wait() error {
	var errs []error
	for _, p := range r.pools {
		errs = append(errs, p.group.Wait())
	}
	return errors.Join(errs...)
}

// Task is the handle to one running function.
type Task struct {
	kind Kind
	done chan struct{}
	err  error
}

func (t *Task) Kind() Kind { return t.kind }

// Done is closed when the function returns.
func (t *Task) Done() <-chan struct{} { return t.done }

// Wait blocks until the function returns and yields its error.
func (t *Task) Wait() error {
	<-t.done
	return t.err
}

