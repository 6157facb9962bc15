// SPDX-License-Identifier: EPL-2.0

package studio

import "errors"

var (
	// ErrRecordingActive rejects a second recording, and plays or imports while recording.
	ErrRecordingActive = errors.New("a recording is in progress")

	// ErrNotRecording is returned by StopRecording without an active session.
	ErrNotRecording = errors.New("no recording in progress")

	// ErrFileNotFound is returned when the take or an import source does not exist.
	ErrFileNotFound = errors.New("file not found")

	// ErrIO wraps file system failures on the scratch file or the take.
	ErrIO = errors.New("file I/O failed")

	// ErrMalformedInput is returned for data that cannot be played or imported.
	ErrMalformedInput = errors.New("malformed audio input")
)
