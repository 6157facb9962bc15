// SPDX-License-Identifier: EPL-2.0

// Package studio sequences recording, conversion and playback of a single
// take:
//
//	StartRecording -> StopRecording (writes the WAV take) -> Play / Play reversed
//
// Every failure is returned as an error and also reported to the Notifier as
// a Notice, so an interactive front end only has to display notices. Only
// one recording may be active; playing or importing while recording is
// rejected with ErrRecordingActive.
//
// Import replaces the take with a decoded WAV, MP3, Ogg Vorbis or AIFF file,
// resampled and mixed down to the take format.
package studio
