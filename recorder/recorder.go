// SPDX-License-Identifier: EPL-2.0

package recorder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ik5/audrev/device"
	"github.com/ik5/audrev/internal/worker"
)

const (
	DefaultChunkSize            = 2048
	DefaultMaxConsecutiveErrors = 32
	DefaultErrorBackoff         = 10 * time.Millisecond

	// idleWait paces the loop when the device returns no data without blocking.
	idleWait = time.Millisecond
)

// Options tune a capture session. The zero value uses the defaults above.
type Options struct {
	// ChunkSize is the number of bytes requested per device read.
	ChunkSize int
	// MaxConsecutiveErrors aborts the session after that many failed reads
	// or writes in a row. Negative means never abort.
	MaxConsecutiveErrors int
	// ErrorBackoff is waited after a failed read or write.
	ErrorBackoff time.Duration

	Logger *slog.Logger
	// Runner starts the capture loop; nil uses a private runner.
	Runner *worker.Runner
}

func (o Options) withDefaults() Options {
	if o.ChunkSize <= 0 {
		o.ChunkSize = DefaultChunkSize
	}
	if o.MaxConsecutiveErrors == 0 {
		o.MaxConsecutiveErrors = DefaultMaxConsecutiveErrors
	}
	if o.ErrorBackoff <= 0 {
		o.ErrorBackoff = DefaultErrorBackoff
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.Runner == nil {
		o.Runner = worker.NewRunner(map[worker.Kind]int{worker.Capture: 1}, o.Logger)
	}
	return o
}

// Session is one running capture into a scratch file.
type Session struct {
	path   string
	dev    device.Capture
	opts   Options
	logger *slog.Logger

	stop     chan struct{}
	stopOnce sync.Once
	task     *worker.Task

	bytes  atomic.Int64
	failed atomic.Int64
}

// Start truncates path and copies everything dev produces into it on a
// capture worker until Stop is called or ctx is done. The device stays owned
// by the caller and is not closed.
func Start(ctx context.Context, dev device.Capture, path string, opts Options) (*Session, error) {
	if dev == nil {
		return nil, ErrNoDevice
	}
	opts = opts.withDefaults()

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpenScratch, err)
	}
	return start(ctx, dev, f, path, opts)
}

// start runs the capture loop into out, which it closes on exit.
func start(ctx context.Context, dev device.Capture, out io.WriteCloser, path string, opts Options) (*Session, error) {
	s := &Session{
		path:   path,
		dev:    dev,
		opts:   opts,
		logger: opts.Logger.With(slog.String("path", path)),
		stop:   make(chan struct{}),
	}

	task, err := opts.Runner.Go(ctx, worker.Capture, func(ctx context.Context) error {
		return s.run(ctx, out)
	})
	if err != nil {
		out.Close()
		return nil, fmt.Errorf("starting capture loop: %w", err)
	}
	s.task = task

	s.logger.Info("capture started", slog.Int("chunk_size", opts.ChunkSize))
	return s, nil
}

// run writes every chunk straight to out, so a failed write loses only that
// chunk and the next one starts clean.
func (s *Session) run(ctx context.Context, out io.WriteCloser) (err error) {
	defer func() {
		if ferr := out.Close(); ferr != nil {
			s.failed.Add(1)
			err = errors.Join(err, fmt.Errorf("closing scratch file: %w", ferr))
		}
		s.logger.Info("capture finished",
			slog.Int64("bytes", s.bytes.Load()),
			slog.Int64("errors", s.failed.Load()),
		)
	}()

	buf := make([]byte, s.opts.ChunkSize)
	failures := 0

	for {
		select {
		case <-s.stop:
			return nil
		case <-ctx.Done():
			s.logger.Debug("capture context done", slog.Any("cause", context.Cause(ctx)))
			return nil
		default:
		}

		n, rerr := s.dev.Read(buf)
		if rerr != nil {
			failures++
			if abort := s.failure("read", rerr, failures); abort != nil {
				return abort
			}
			continue
		}
		if n <= 0 {
			s.wait(idleWait)
			continue
		}

		m, werr := out.Write(buf[:n])
		s.bytes.Add(int64(m))
		if werr != nil {
			failures++
			if abort := s.failure("write", werr, failures); abort != nil {
				return abort
			}
			continue
		}

		failures = 0
	}
}

// wait sleeps for d or until Stop is called.
func (s *Session) wait(d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-s.stop:
	case <-t.C:
	}
}

// failure logs one failed read or write, backs off and decides whether to give up.
func (s *Session) failure(op string, err error, failures int) error {
	s.failed.Add(1)
	s.logger.Warn("capture "+op+" failed",
		slog.Any("error", err),
		slog.Int("consecutive", failures),
	)

	if limit := s.opts.MaxConsecutiveErrors; limit > 0 && failures >= limit {
		return fmt.Errorf("%w: last %s error: %w", ErrTooManyFailures, op, err)
	}

	s.wait(s.opts.ErrorBackoff)
	return nil
}

// Stop signals the loop and waits for it to exit. The scratch file is closed
// when Stop returns. Calling Stop again returns the same result.
func (s *Session) Stop() error {
	s.stopOnce.Do(func() { close(s.stop) })
	return s.task.Wait()
}

// Done is closed when the capture loop has exited, whether by Stop, ctx or abort.
func (s *Session) Done() <-chan struct{} { return s.task.Done() }

func (s *Session) Path() string { return s.path }

// Bytes is the number of PCM bytes appended so far.
func (s *Session) Bytes() int64 { return s.bytes.Load() }

// Errors counts failed reads, writes and close errors.
func (s *Session) Errors() int64 { return s.failed.Load() }
