// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"time"
)

// Format describes the PCM layout the pipeline records and plays.
// It is fixed for the lifetime of a process.
type Format struct {
	SampleRate    uint32
	Channels      uint8
	BitsPerSample uint8
}

// DefaultFormat is mono, signed 16-bit little-endian at 44.1 kHz.
var DefaultFormat = Format{
	SampleRate:    44100,
	Channels:      1,
	BitsPerSample: 16,
}

// BytesPerSample is the size of one sample of one channel.
func (f Format) BytesPerSample() int { return int(f.BitsPerSample) / 8 }

// BlockAlign is the size of one frame (one sample for every channel).
func (f Format) BlockAlign() uint16 {
	return uint16(f.Channels) * uint16(f.BitsPerSample/8)
}

// ByteRate is the number of bytes per second of audio.
func (f Format) ByteRate() uint32 {
	return f.SampleRate * uint32(f.Channels) * uint32(f.BitsPerSample/8)
}

// Duration returns the playing time of n bytes of PCM.
func (f Format) Duration(n int64) time.Duration {
	rate := int64(f.ByteRate())
	if rate == 0 {
		return 0
	}
	return time.Duration(n * int64(time.Second) / rate)
}

// Validate only accepts the single supported layout: mono 16-bit at a
// positive sample rate.
func (f Format) Validate() error {
	if f.SampleRate == 0 {
		return fmt.Errorf("%w: sample rate must be positive", ErrInvalidFormat)
	}
	if f.Channels != 1 {
		return fmt.Errorf("%w: channels must be 1, got %d", ErrInvalidFormat, f.Channels)
	}
	if f.BitsPerSample != 16 {
		return fmt.Errorf("%w: bits per sample must be 16, got %d", ErrInvalidFormat, f.BitsPerSample)
	}
	return nil
}

func (f Format) String() string {
	return fmt.Sprintf("audio/L%d; rate=%d; channels=%d", f.BitsPerSample, f.SampleRate, f.Channels)
}
