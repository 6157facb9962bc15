// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/ik5/audrev/audio"
)

// HeaderSize is the length of the canonical RIFF/WAVE/fmt/data header.
const HeaderSize = 44

// maxDataSize keeps the RIFF size field (data + 36) inside a uint32.
const maxDataSize = math.MaxUint32 - (HeaderSize - 8)

// EncodeHeader builds the canonical 44-byte header for pcmLen bytes of PCM in
// format f. All multi-byte fields are little-endian.
func EncodeHeader(pcmLen uint32, f audio.Format) [HeaderSize]byte {
	var h [HeaderSize]byte

	// RIFF chunk
	copy(h[0:4], "RIFF")
	binary.LittleEndian.PutUint32(h[4:8], pcmLen+36)
	copy(h[8:12], "WAVE")

	// fmt chunk
	copy(h[12:16], "fmt ")
	binary.LittleEndian.PutUint32(h[16:20], 16)
	binary.LittleEndian.PutUint16(h[20:22], 1) // PCM
	binary.LittleEndian.PutUint16(h[22:24], uint16(f.Channels))
	binary.LittleEndian.PutUint32(h[24:28], f.SampleRate)
	binary.LittleEndian.PutUint32(h[28:32], f.ByteRate())
	binary.LittleEndian.PutUint16(h[32:34], f.BlockAlign())
	binary.LittleEndian.PutUint16(h[34:36], uint16(f.BitsPerSample))

	// data chunk
	copy(h[36:40], "data")
	binary.LittleEndian.PutUint32(h[40:44], pcmLen)

	return h
}

// WriteHeader writes the header for pcmLen bytes of PCM to w.
func WriteHeader(w io.Writer, pcmLen int64, f audio.Format) error {
	if pcmLen < 0 || pcmLen > maxDataSize {
		return fmt.Errorf("%w: %d bytes", ErrDataTooLarge, pcmLen)
	}

	h := EncodeHeader(uint32(pcmLen), f)
	if _, err := w.Write(h[:]); err != nil {
		return fmt.Errorf("writing WAV header: %w", err)
	}
	return nil
}
