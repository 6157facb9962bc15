// SPDX-License-Identifier: EPL-2.0

package audrev

import (
	"fmt"
	"io"

	"github.com/ik5/audrev/audio"
	"github.com/ik5/audrev/pcm"
)

// ToFormat drains src through a resample -> mono pipeline and returns 16-bit
// samples at f.SampleRate. f must pass audio.Format.Validate.
//
// bufSize is the number of float32 samples read per pull from the pipeline;
// values below 1 fall back to the source's own buffer size.
func ToFormat(src audio.Source, f audio.Format, bufSize int) ([]int16, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	if bufSize < 1 {
		bufSize = max(src.BufSize(), 1)
	}

	mono := audio.NewMonoMixer(audio.NewResampler(src, int(f.SampleRate)))

	// grown on demand, start with roughly one second
	out := make([]int16, 0, int(f.SampleRate))
	buf := make([]float32, bufSize)
	for {
		n, err := mono.ReadSamples(buf)
		for _, x := range buf[:n] {
			out = append(out, pcm.Float32ToInt16(x))
		}
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("converting to %s: %w", f, err)
		}
	}
}
