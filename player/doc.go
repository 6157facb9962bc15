// SPDX-License-Identifier: EPL-2.0

// Package player plays one PCM buffer per call:
//
//	Idle -> Opened -> Playing -> Stopped -> Released
//
// Any failure ends in Failed. There is no pause, seek or resume; a new Play
// always opens a new stream.
package player
