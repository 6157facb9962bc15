// SPDX-License-Identifier: EPL-2.0

package studio

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/ik5/audrev/audio"
	"github.com/ik5/audrev/device"
	"github.com/ik5/audrev/formats/wav"
	"github.com/ik5/audrev/internal/metrics"
	"github.com/ik5/audrev/internal/worker"
	"github.com/ik5/audrev/pcm"
	"github.com/ik5/audrev/player"
	"github.com/ik5/audrev/recorder"
)

// Config is the studio's view of the application configuration.
type Config struct {
	Format  audio.Format
	PCMPath string
	WAVPath string

	// ChunkSize is the capture read size in bytes.
	ChunkSize int
	// MaxConsecutiveErrors aborts a recording after that many failed reads or
	// writes in a row; 0 never aborts.
	MaxConsecutiveErrors int
	// MaxConcurrentPlayback of 0 is treated as 1.
	MaxConcurrentPlayback int
}

// Options are the collaborators of a Studio. Capture and Playback are required.
type Options struct {
	Capture  device.CaptureOpener
	Playback device.PlaybackOpener
	Notifier Notifier
	Logger   *slog.Logger
	// Metrics nil creates a private set.
	Metrics *metrics.Metrics
	// Decoders nil uses DefaultDecoders.
	Decoders *audio.Registry
}

// Studio records, converts and plays back one take at a time.
type Studio struct {
	cfg      Config
	capture  device.CaptureOpener
	notifier Notifier
	logger   *slog.Logger
	metrics  *metrics.Metrics
	decoders *audio.Registry
	runner   *worker.Runner
	player   *player.Player

	mtx     sync.Mutex
	session *recorder.Session
	input   device.Capture
}

// New validates cfg and creates the storage directory.
func New(cfg Config, opts Options) (*Studio, error) {
	if err := cfg.Format.Validate(); err != nil {
		return nil, err
	}
	if cfg.PCMPath == "" || cfg.WAVPath == "" {
		return nil, errors.New("studio: PCMPath and WAVPath are required")
	}
	if opts.Capture == nil || opts.Playback == nil {
		return nil, errors.New("studio: capture and playback openers are required")
	}
	if cfg.MaxConcurrentPlayback < 1 {
		cfg.MaxConcurrentPlayback = 1
	}

	for _, dir := range []string{filepath.Dir(cfg.PCMPath), filepath.Dir(cfg.WAVPath)} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("%w: creating %s: %w", ErrIO, dir, err)
		}
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	m := opts.Metrics
	if m == nil {
		m = metrics.New()
	}
	decoders := opts.Decoders
	if decoders == nil {
		decoders = DefaultDecoders()
	}

	return &Studio{
		cfg:      cfg,
		capture:  opts.Capture,
		notifier: opts.Notifier,
		logger:   logger,
		metrics:  m,
		decoders: decoders,
		runner: worker.NewRunner(map[worker.Kind]int{
			worker.Capture:  1,
			worker.Playback: cfg.MaxConcurrentPlayback,
		}, logger),
		player: player.New(opts.Playback, cfg.Format, logger),
	}, nil
}

// Metrics returns the collectors the studio updates.
func (s *Studio) Metrics() *metrics.Metrics { return s.metrics }

// Recording reports whether a capture session is active.
func (s *Studio) Recording() bool {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	return s.session != nil
}

// StartRecording opens the microphone and starts copying it into the scratch
// file. The session ends on StopRecording or when ctx is done; the take is
// only written by StopRecording.
func (s *Studio) StartRecording(ctx context.Context) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if s.session != nil {
		return s.fail("recording already started", ErrRecordingActive)
	}

	in, err := s.capture.OpenCapture(s.cfg.Format)
	if err != nil {
		if !errors.Is(err, device.ErrDeviceUnavailable) {
			err = fmt.Errorf("%w: %w", device.ErrDeviceUnavailable, err)
		}
		return s.fail("cannot open microphone", err)
	}

	maxErrors := s.cfg.MaxConsecutiveErrors
	if maxErrors == 0 {
		maxErrors = -1
	}
	sess, err := recorder.Start(ctx, in, s.cfg.PCMPath, recorder.Options{
		ChunkSize:            s.cfg.ChunkSize,
		MaxConsecutiveErrors: maxErrors,
		Logger:               s.logger,
		Runner:               s.runner,
	})
	if err != nil {
		if cerr := in.Close(); cerr != nil {
			s.logger.Warn("closing microphone", slog.Any("error", cerr))
		}
		if errors.Is(err, recorder.ErrOpenScratch) {
			err = fmt.Errorf("%w: %w", ErrIO, err)
		}
		return s.fail("cannot start recording", err)
	}

	s.session = sess
	s.input = in
	return nil
}

// StopRecording ends the session, waits for the capture loop, releases the
// microphone and frames the scratch file as the WAV take. Audio captured
// before a capture failure is still converted.
func (s *Studio) StopRecording() error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if s.session == nil {
		return s.fail("stop requested without a recording", ErrNotRecording)
	}
	sess, in := s.session, s.input
	s.session, s.input = nil, nil

	var errs []error
	if err := sess.Stop(); err != nil {
		errs = append(errs, s.fail("capture ended with errors", fmt.Errorf("%w: %w", ErrIO, err)))
	}
	if err := in.Close(); err != nil {
		s.logger.Warn("closing microphone", slog.Any("error", err))
	}

	n, err := wav.ConvertPCMFile(s.cfg.PCMPath, s.cfg.WAVPath, s.cfg.Format)
	if err != nil {
		errs = append(errs, s.fail("cannot write take", fmt.Errorf("%w: %w", ErrIO, err)))
		return errors.Join(errs...)
	}

	s.metrics.RecordRecording(n, sess.Errors())
	s.notify(Recorded, fmt.Sprintf("recorded %d bytes (%s)", n, s.cfg.Format.Duration(n)), nil)
	return errors.Join(errs...)
}

// Play loads the take and renders it, reversed if asked, on a playback
// worker. Load errors are returned before any device is touched; playback
// errors come back through the Task and a notice.
func (s *Studio) Play(ctx context.Context, reverse bool) (*worker.Task, error) {
	if s.Recording() {
		return nil, s.fail("cannot play while recording", ErrRecordingActive)
	}

	f, data, err := wav.ReadFile(s.cfg.WAVPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, s.fail("no take to play", fmt.Errorf("%w: %s", ErrFileNotFound, s.cfg.WAVPath))
	case errors.Is(err, wav.ErrShortHeader):
		return nil, s.fail("take is truncated", fmt.Errorf("%w: %w", ErrMalformedInput, err))
	case err != nil:
		return nil, s.fail("cannot read take", fmt.Errorf("%w: %w", ErrIO, err))
	}
	if f != s.cfg.Format {
		// the header is informational, the configured format wins
		s.logger.Warn("take header format differs",
			slog.String("header", f.String()),
			slog.String("playing_as", s.cfg.Format.String()),
		)
	}

	if reverse {
		if data, err = pcm.Reverse(data); err != nil {
			return nil, s.fail("cannot reverse take", fmt.Errorf("%w: %w", ErrMalformedInput, err))
		}
	}

	task, err := s.runner.Go(ctx, worker.Playback, func(ctx context.Context) error {
		elapsed, err := s.player.Play(ctx, data)
		if err != nil {
			return s.fail("playback failed", err)
		}
		s.metrics.RecordPlayback(reverse, elapsed.Seconds())
		s.notify(PlaybackDone, "played "+metrics.Direction(reverse), nil)
		return nil
	})
	if err != nil {
		return nil, s.fail("cannot start playback", err)
	}
	return task, nil
}

// Info inspects the current take.
func (s *Studio) Info() (wav.Info, error) {
	f, err := os.Open(s.cfg.WAVPath)
	if errors.Is(err, fs.ErrNotExist) {
		return wav.Info{}, s.fail("no take to inspect", fmt.Errorf("%w: %s", ErrFileNotFound, s.cfg.WAVPath))
	}
	if err != nil {
		return wav.Info{}, s.fail("cannot open take", fmt.Errorf("%w: %w", ErrIO, err))
	}
	defer f.Close()

	info, err := wav.Inspect(f)
	if err != nil {
		return wav.Info{}, s.fail("cannot inspect take", fmt.Errorf("%w: %w", ErrMalformedInput, err))
	}
	return info, nil
}

// Close stops an active recording (writing its take) and waits for running
// playbacks.
func (s *Studio) Close() error {
	var errs []error
	if s.Recording() {
		errs = append(errs, s.StopRecording())
	}
	// playback errors were already reported as notices
	_ = s.runner.Wait()
	return errors.Join(errs...)
}
