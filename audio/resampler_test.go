// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"io"
	"math"
	"testing"

	"github.com/ik5/audrev/internal/audiotest"
)

// drain reads src to the end with the given buffer size.
func drain(t *testing.T, src Source, bufSize int) []float32 {
	t.Helper()

	var out []float32
	buf := make([]float32, bufSize)
	for range 1_000_000 {
		n, err := src.ReadSamples(buf)
		out = append(out, buf[:n]...)
		if err == io.EOF {
			return out
		}
		if err != nil {
			t.Fatalf("ReadSamples() error = %v", err)
		}
	}
	t.Fatal("source never reached EOF")
	return nil
}

func TestResampler_Metadata(t *testing.T) {
	t.Parallel()

	r := NewResampler(audiotest.NewSilentSource(44100, 2, 10), 8000)
	if r.SampleRate() != 8000 {
		t.Errorf("SampleRate() = %d, want 8000", r.SampleRate())
	}
	if r.Channels() != 2 {
		t.Errorf("Channels() = %d, want 2", r.Channels())
	}
}

func TestResampler_SameRatePassesThrough(t *testing.T) {
	t.Parallel()

	src := audiotest.NewRampSource(16000, 1, 100)
	got := drain(t, NewResampler(src, 16000), 64)

	if len(got) != 100 {
		t.Fatalf("got %d samples, want 100", len(got))
	}
	for i, v := range got {
		want := float32(i) / 100
		if math.Abs(float64(v-want)) > 1e-5 {
			t.Errorf("sample %d = %v, want %v", i, v, want)
		}
	}
}

func TestResampler_Counts(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		srcRate  int
		dstRate  int
		frames   int
		want     int
		tolerate int
	}{
		{name: "downsample 44.1k to 8k", srcRate: 44100, dstRate: 8000, frames: 44100, want: 8000, tolerate: 2},
		{name: "upsample 8k to 16k", srcRate: 8000, dstRate: 16000, frames: 100, want: 200, tolerate: 2},
		{name: "upsample 22.05k to 44.1k", srcRate: 22050, dstRate: 44100, frames: 22050, want: 44100, tolerate: 2},
		{name: "extreme downsample", srcRate: 48000, dstRate: 1000, frames: 4800, want: 100, tolerate: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			src := audiotest.NewConstantSource(tt.srcRate, 1, tt.frames, 0.5)
			got := drain(t, NewResampler(src, tt.dstRate), 4096)

			if d := len(got) - tt.want; d < -tt.tolerate || d > tt.tolerate {
				t.Errorf("got %d samples, want %d±%d", len(got), tt.want, tt.tolerate)
			}
			for i, v := range got {
				if math.Abs(float64(v-0.5)) > 0.001 {
					t.Fatalf("sample %d = %v, want 0.5", i, v)
				}
			}
		})
	}
}

func TestResampler_StereoPreserved(t *testing.T) {
	t.Parallel()

	src := audiotest.NewMockSource(44100, 2, 441, func(_, ch int) float32 {
		if ch == 0 {
			return 0.25
		}
		return -0.25
	})
	got := drain(t, NewResampler(src, 48000), 512)

	if len(got)%2 != 0 {
		t.Fatalf("odd sample count %d for stereo output", len(got))
	}
	for i := 0; i < len(got); i += 2 {
		if math.Abs(float64(got[i]-0.25)) > 0.001 || math.Abs(float64(got[i+1]+0.25)) > 0.001 {
			t.Fatalf("frame %d = (%v, %v), want (0.25, -0.25)", i/2, got[i], got[i+1])
		}
	}
}

func TestResampler_EmptySource(t *testing.T) {
	t.Parallel()

	r := NewResampler(audiotest.NewSilentSource(8000, 1, 0), 16000)
	n, err := r.ReadSamples(make([]float32, 16))
	if n != 0 || err != io.EOF {
		t.Errorf("ReadSamples() = %d, %v, want 0, EOF", n, err)
	}

	// stays drained
	n, err = r.ReadSamples(make([]float32, 16))
	if n != 0 || err != io.EOF {
		t.Errorf("second ReadSamples() = %d, %v, want 0, EOF", n, err)
	}
}

func TestResampler_InvalidDstSize(t *testing.T) {
	t.Parallel()

	r := NewResampler(audiotest.NewSilentSource(8000, 2, 100), 16000)
	if _, err := r.ReadSamples(make([]float32, 3)); !errors.Is(err, ErrInvalidDstSize) {
		t.Errorf("ReadSamples() error = %v, want ErrInvalidDstSize", err)
	}
}

func TestResampler_SmallBuffer(t *testing.T) {
	t.Parallel()

	src := audiotest.NewRampSource(8000, 1, 50)
	got := drain(t, NewResampler(src, 8000), 1)
	if len(got) != 50 {
		t.Errorf("got %d samples with 1-sample reads, want 50", len(got))
	}
}

func TestResampler_Close(t *testing.T) {
	t.Parallel()

	src := audiotest.NewSilentSource(8000, 1, 10)
	if err := NewResampler(src, 16000).Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if !src.Closed {
		t.Error("Close() did not close the source")
	}
}

func BenchmarkResampler_Downsample(b *testing.B) {
	buf := make([]float32, 4096)
	b.ReportAllocs()
	for range b.N {
		r := NewResampler(audiotest.NewSineSource(48000, 2, 48000, 440), 44100)
		for {
			if _, err := r.ReadSamples(buf); err != nil {
				break
			}
		}
	}
}
