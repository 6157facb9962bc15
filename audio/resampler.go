// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"io"

	"github.com/ik5/audrev/pcm"
)

// Resampler converts src to a new sample rate with cubic interpolation,
// keeping the channel count. Input frames pass through a one-pole low-pass
// filter when downsampling.
type Resampler struct {
	src      Source
	rate     int
	channels int
	step     float64 // source frames consumed per output frame

	// hist[1] is the source frame at index, the output position lies
	// between hist[1] and hist[2].
	hist  [4][]float32
	index int
	read  int // real source frames pulled so far
	pos   float64

	buf    []float32
	bufPos int
	bufLen int
	srcEOF bool

	primed bool
	done   bool
	err    error

	alpha  float32
	filter []float32
}

func NewResampler(src Source, dstRate int) *Resampler {
	channels := max(src.Channels(), 1)
	step := float64(src.SampleRate()) / float64(dstRate)

	r := &Resampler{
		src:      src,
		rate:     dstRate,
		channels: channels,
		step:     step,
		buf:      make([]float32, 1024*channels),
		filter:   make([]float32, channels),
	}
	if step > 1 {
		r.alpha = float32(1 / step)
	}
	for i := range r.hist {
		r.hist[i] = make([]float32, channels)
	}
	return r
}

func (r *Resampler) SampleRate() int { return r.rate }
func (r *Resampler) Channels() int   { return r.channels }
func (r *Resampler) BufSize() int    { return r.src.BufSize() }

func (r *Resampler) Close() error {
	if err := r.src.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}

// next copies the following source frame into frame. It returns false once
// the source is drained or failed.
func (r *Resampler) next(frame []float32) bool {
	for r.bufPos >= r.bufLen {
		if r.srcEOF || r.err != nil {
			return false
		}

		n, err := r.src.ReadSamples(r.buf)
		r.bufPos = 0
		r.bufLen = n - n%r.channels
		if err == io.EOF {
			r.srcEOF = true
		} else if err != nil {
			r.err = fmt.Errorf("%w", err)
		}
	}

	copy(frame, r.buf[r.bufPos:r.bufPos+r.channels])
	r.bufPos += r.channels

	if r.alpha > 0 {
		if r.read == 0 {
			copy(r.filter, frame)
		}
		for c := range frame {
			frame[c] = r.alpha*frame[c] + (1-r.alpha)*r.filter[c]
			r.filter[c] = frame[c]
		}
	}
	r.read++
	return true
}

func (r *Resampler) prime() bool {
	r.primed = true
	if !r.next(r.hist[1]) {
		return false
	}
	copy(r.hist[0], r.hist[1])
	for i := 2; i < 4; i++ {
		if !r.next(r.hist[i]) {
			copy(r.hist[i], r.hist[i-1])
		}
	}
	return true
}

// advance moves the window one source frame forward.
func (r *Resampler) advance() bool {
	first := r.hist[0]
	r.hist[0], r.hist[1], r.hist[2] = r.hist[1], r.hist[2], r.hist[3]
	r.hist[3] = first
	r.index++

	if r.index >= r.read {
		return false
	}
	if !r.next(r.hist[3]) {
		copy(r.hist[3], r.hist[2])
	}
	return true
}

// ReadSamples fills dst with resampled interleaved samples. len(dst) must be a
// multiple of the channel count.
func (r *Resampler) ReadSamples(dst []float32) (int, error) {
	if len(dst)%r.channels != 0 {
		return 0, ErrInvalidDstSize
	}
	if !r.primed && !r.prime() {
		r.done = true
	}

	written := 0
	for !r.done && written+r.channels <= len(dst) {
		for r.pos >= 1 {
			r.pos--
			if !r.advance() {
				r.done = true
				break
			}
		}
		if r.done {
			break
		}

		x := float32(r.pos)
		for c := range r.channels {
			dst[written+c] = pcm.CubicInterpolate(r.hist[0][c], r.hist[1][c], r.hist[2][c], r.hist[3][c], x)
		}
		written += r.channels
		r.pos += r.step
	}

	if r.err != nil {
		return written, r.err
	}
	if r.done {
		return written, io.EOF
	}
	return written, nil
}
