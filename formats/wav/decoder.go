// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
	gowav "github.com/go-audio/wav"

	"github.com/ik5/audrev/audio"
)

// frameSource is the part of gowav.Decoder the import path reads from.
type frameSource interface {
	PCMBuffer(buf *goaudio.IntBuffer) (int, error)
}

// importSource turns go-audio integer PCM into [-1, 1] floats. The
// IntBuffer is reused between reads and only grows.
type importSource struct {
	dec    frameSource
	format goaudio.Format
	ints   goaudio.IntBuffer
}

func newImportSource(dec frameSource, rate, channels int) *importSource {
	return &importSource{
		dec:    dec,
		format: goaudio.Format{SampleRate: rate, NumChannels: channels},
	}
}

func (s *importSource) SampleRate() int { return s.format.SampleRate }
func (s *importSource) Channels() int   { return s.format.NumChannels }
func (s *importSource) Close() error    { return nil }

// BufSize is one second of samples until the first read sizes the buffer.
func (s *importSource) BufSize() int {
	if n := cap(s.ints.Data); n > 0 {
		return n
	}
	return s.format.SampleRate * s.format.NumChannels
}

func (s *importSource) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}
	if cap(s.ints.Data) < len(dst) {
		s.ints.Data = make([]int, len(dst))
	}
	s.ints.Data = s.ints.Data[:len(dst)]

	n, err := s.dec.PCMBuffer(&s.ints)
	switch {
	case err == nil, errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
	default:
		return 0, fmt.Errorf("decoding wav: %w", err)
	}
	if n == 0 {
		return 0, io.EOF
	}

	const fullScale = 1 << 15
	for i, v := range s.ints.Data[:n] {
		dst[i] = float32(v) / fullScale
	}
	return n, nil
}

// Decoder reads any RIFF/WAVE file with 16-bit PCM data, skipping unknown
// chunks. It backs file imports; Decode handles the recorder's own files.
type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	// go-audio seeks between chunks
	rs, seekable := r.(io.ReadSeeker)
	if !seekable {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("buffering wav input: %w", err)
		}
		rs = bytes.NewReader(data)
	}

	dec := gowav.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, ErrNotWavFile
	}
	if dec.WavAudioFormat != 1 || dec.BitDepth != 16 {
		return nil, ErrOnlyPCM16bitSupported
	}
	if err := dec.FwdToPCM(); err != nil {
		return nil, fmt.Errorf("seeking to wav data: %w", err)
	}

	return newImportSource(dec, int(dec.SampleRate), int(dec.NumChans)), nil
}
