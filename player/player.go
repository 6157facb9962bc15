// SPDX-License-Identifier: EPL-2.0

package player

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ik5/audrev/audio"
	"github.com/ik5/audrev/device"
)

// State of a single Play call.
type State int

const (
	Idle State = iota
	Opened
	Playing
	Stopped
	Released
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Opened:
		return "opened"
	case Playing:
		return "playing"
	case Stopped:
		return "stopped"
	case Released:
		return "released"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Player renders whole PCM buffers on a fresh output stream per call.
type Player struct {
	opener device.PlaybackOpener
	format audio.Format
	logger *slog.Logger

	// OnState, when set, is called synchronously on every transition.
	OnState func(State)
}

func New(opener device.PlaybackOpener, f audio.Format, logger *slog.Logger) *Player {
	if logger == nil {
		logger = slog.Default()
	}
	return &Player{opener: opener, format: f, logger: logger}
}

func (p *Player) enter(s State) {
	p.logger.Debug("playback state", slog.String("state", s.String()))
	if p.OnState != nil {
		p.OnState(s)
	}
}

// Play opens the device, writes all of data, then stops and releases it.
// ctx is only consulted before the device is opened; once Playing, the
// buffer is rendered to the end. The returned duration is the time spent in
// Write.
func (p *Player) Play(ctx context.Context, data []byte) (time.Duration, error) {
	p.enter(Idle)

	if err := ctx.Err(); err != nil {
		p.enter(Failed)
		return 0, err
	}

	out, err := p.opener.OpenPlayback(p.format)
	if err != nil {
		p.enter(Failed)
		if !errors.Is(err, device.ErrDeviceUnavailable) {
			err = fmt.Errorf("%w: %w", device.ErrDeviceUnavailable, err)
		}
		return 0, err
	}
	p.enter(Opened)

	if err := out.Start(); err != nil {
		p.enter(Failed)
		if cerr := out.Close(); cerr != nil {
			p.logger.Warn("releasing playback after failed start", slog.Any("error", cerr))
		}
		if !errors.Is(err, device.ErrDeviceUnavailable) {
			err = fmt.Errorf("%w: %w", device.ErrDeviceUnavailable, err)
		}
		return 0, err
	}
	p.enter(Playing)

	began := time.Now()
	_, werr := out.Write(data)
	elapsed := time.Since(began)
	if werr != nil {
		werr = fmt.Errorf("writing to playback device: %w", werr)
	}

	serr := out.Stop()
	p.enter(Stopped)

	cerr := out.Close()
	if err := errors.Join(werr, serr, cerr); err != nil {
		p.enter(Failed)
		return elapsed, err
	}
	p.enter(Released)

	p.logger.Debug("playback rendered",
		slog.Int("bytes", len(data)),
		slog.Duration("elapsed", elapsed),
	)
	return elapsed, nil
}
