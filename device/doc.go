// SPDX-License-Identifier: EPL-2.0

// Package device abstracts the microphone and speaker as byte streams of
// 16-bit little-endian PCM.
//
// Capture and Playback are small interfaces so recorder and player can run
// against fakes; PortAudio is the real implementation. Opening failures wrap
// ErrDeviceUnavailable.
package device
