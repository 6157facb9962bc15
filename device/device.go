// SPDX-License-Identifier: EPL-2.0

package device

import (
	"errors"

	"github.com/ik5/audrev/audio"
)

// ErrDeviceUnavailable wraps every failure to open or start a stream.
var ErrDeviceUnavailable = errors.New("audio device unavailable")

// Capture is an open input stream. Capture starts when the stream is opened.
type Capture interface {
	// Read blocks until at least one chunk of PCM is available or the stream
	// is closed. A zero-length read with a nil error means no data yet.
	Read(p []byte) (int, error)
	Close() error
}

// CaptureOpener opens the default input device.
type CaptureOpener interface {
	OpenCapture(f audio.Format) (Capture, error)
}

// Playback is an open, initially stopped, output stream.
type Playback interface {
	Start() error
	// Write blocks until p has been handed to the device.
	Write(p []byte) (int, error)
	Stop() error
	// Close releases the device.
	Close() error
}

// PlaybackOpener opens the default output device.
type PlaybackOpener interface {
	OpenPlayback(f audio.Format) (Playback, error)
}

// CaptureOpenerFunc adapts a function to CaptureOpener.
type CaptureOpenerFunc func(f audio.Format) (Capture, error)

func (fn CaptureOpenerFunc) OpenCapture(f audio.Format) (Capture, error) { return fn(f) }

// PlaybackOpenerFunc adapts a function to PlaybackOpener.
type PlaybackOpenerFunc func(f audio.Format) (Playback, error)

func (fn PlaybackOpenerFunc) OpenPlayback(f audio.Format) (Playback, error) { return fn(f) }

// Info describes one device known to the host audio system.
type Info struct {
	Name              string
	HostAPI           string
	MaxInputChannels  int
	MaxOutputChannels int
	DefaultSampleRate float64
	DefaultInput      bool
	DefaultOutput     bool
}
