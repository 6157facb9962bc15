// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	gomp3 "github.com/hajimehoshi/go-mp3"

	"github.com/ik5/audrev/audio"
)

// go-mp3 always renders interleaved stereo, 16-bit little-endian.
const outputChannels = 2

// frameReader is the part of gomp3.Decoder that source needs.
type frameReader interface {
	Read([]byte) (int, error)
	SampleRate() int
}

type source struct {
	dec  frameReader
	buf  []byte
	tail []byte // half a sample left over from the previous Read
	eof  bool
}

func (s *source) SampleRate() int { return s.dec.SampleRate() }
func (s *source) Channels() int   { return outputChannels }
func (s *source) Close() error    { return nil }
func (s *source) BufSize() int    { return cap(s.buf) / 2 }

func (s *source) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}
	if s.eof {
		return 0, io.EOF
	}

	need := len(dst)*2 - len(s.tail)
	if cap(s.buf) < len(dst)*2 {
		s.buf = make([]byte, len(dst)*2)
	}
	s.buf = s.buf[:len(s.tail)+need]
	copy(s.buf, s.tail)

	n, err := s.dec.Read(s.buf[len(s.tail):])
	got := len(s.tail) + n
	if err != nil {
		if !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
			return 0, fmt.Errorf("decoding mp3: %w", err)
		}
		s.eof = true
	}

	samples := got / 2
	for i := range samples {
		dst[i] = float32(int16(binary.LittleEndian.Uint16(s.buf[2*i:]))) / 32768.0
	}
	s.tail = append(s.tail[:0], s.buf[samples*2:got]...)

	if s.eof {
		return samples, io.EOF
	}
	return samples, nil
}

// Decoder turns an MPEG-1/2 Layer III stream into a stereo audio.Source.
type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	dec, err := gomp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotMP3, err)
	}

	return &source{
		dec: dec,
		buf: make([]byte, 8192),
	}, nil
}
