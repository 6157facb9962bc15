// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"fmt"
	"io"
	"time"

	gowav "github.com/go-audio/wav"

	"github.com/ik5/audrev/audio"
)

// Info summarizes a WAV file as parsed by go-audio.
type Info struct {
	Format      audio.Format
	AudioFormat uint16 // 1 is integer PCM
	DataBytes   int64
	Duration    time.Duration
}

// Inspect validates the RIFF structure of rs and reports its format and the
// size of the data chunk.
func Inspect(rs io.ReadSeeker) (Info, error) {
	dec := gowav.NewDecoder(rs)
	if !dec.IsValidFile() {
		return Info{}, ErrNotWavFile
	}
	if err := dec.FwdToPCM(); err != nil {
		return Info{}, fmt.Errorf("locating wav data: %w", err)
	}

	info := Info{
		Format: audio.Format{
			SampleRate:    dec.SampleRate,
			Channels:      uint8(dec.NumChans),
			BitsPerSample: uint8(dec.BitDepth),
		},
		AudioFormat: dec.WavAudioFormat,
		DataBytes:   dec.PCMLen(),
	}
	info.Duration = info.Format.Duration(info.DataBytes)
	return info, nil
}
