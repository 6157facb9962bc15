// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/ik5/audrev/audio"
)

// chunkSamples bounds the scratch buffer used while encoding samples.
const chunkSamples = 8192

// WriteWAV16 writes a complete 16-bit WAV (header and body) with samples in
// format f.
func WriteWAV16(w io.Writer, f audio.Format, samples []int16) error {
	if err := WriteHeader(w, int64(len(samples))*2, f); err != nil {
		return err
	}
	if len(samples) == 0 {
		return nil
	}

	buf := make([]byte, min(len(samples), chunkSamples)*2)
	for len(samples) > 0 {
		chunk := samples[:min(len(samples), chunkSamples)]
		samples = samples[len(chunk):]

		out := buf[:len(chunk)*2]
		for i, s := range chunk {
			binary.LittleEndian.PutUint16(out[i*2:], uint16(s))
		}
		if _, err := w.Write(out); err != nil {
			return fmt.Errorf("writing WAV samples: %w", err)
		}
	}
	return nil
}
