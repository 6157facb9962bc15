// SPDX-License-Identifier: EPL-2.0

package studio

import (
	"errors"
	"log/slog"

	"github.com/ik5/audrev/device"
	"github.com/ik5/audrev/internal/worker"
)

// Kind classifies a Notice.
type Kind string

const (
	DeviceUnavailable  Kind = "DeviceUnavailable"
	WorkerStartFailure Kind = "WorkerStartFailure"
	FileNotFound       Kind = "FileNotFound"
	IOError            Kind = "IOError"
	NotRecording       Kind = "NotRecording"
	RecordingActive    Kind = "RecordingActive"
	MalformedInput     Kind = "MalformedInput"

	// informational
	Recorded     Kind = "Recorded"
	Imported     Kind = "Imported"
	PlaybackDone Kind = "PlaybackDone"
)

// Failure reports whether k is an error notice.
func (k Kind) Failure() bool {
	switch k {
	case Recorded, Imported, PlaybackDone:
		return false
	}
	return true
}

// Notice is what the studio reports back to its caller.
type Notice struct {
	Kind    Kind
	Message string
	Err     error
}

func (n Notice) String() string {
	if n.Err != nil {
		return string(n.Kind) + ": " + n.Message + ": " + n.Err.Error()
	}
	return string(n.Kind) + ": " + n.Message
}

// Notifier receives notices. It may be called from worker goroutines.
type Notifier interface {
	Notify(Notice)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notice)

func (f NotifierFunc) Notify(n Notice) { f(n) }

// kindOf maps an error to the notice kind the caller sees.
func kindOf(err error) Kind {
	switch {
	case errors.Is(err, device.ErrDeviceUnavailable):
		return DeviceUnavailable
	case errors.Is(err, worker.ErrUnavailable):
		return WorkerStartFailure
	case errors.Is(err, ErrFileNotFound):
		return FileNotFound
	case errors.Is(err, ErrRecordingActive):
		return RecordingActive
	case errors.Is(err, ErrNotRecording):
		return NotRecording
	case errors.Is(err, ErrMalformedInput):
		return MalformedInput
	}
	return IOError
}

func (s *Studio) notify(kind Kind, msg string, err error) {
	n := Notice{Kind: kind, Message: msg, Err: err}

	if kind.Failure() {
		s.logger.Warn(msg, slog.String("notice", string(kind)), slog.Any("error", err))
	} else {
		s.logger.Info(msg, slog.String("notice", string(kind)))
	}
	s.metrics.RecordNotice(string(kind))

	if s.notifier != nil {
		s.notifier.Notify(n)
	}
}

// fail reports err as a notice and returns it.
func (s *Studio) fail(msg string, err error) error {
	s.notify(kindOf(err), msg, err)
	return err
}
