// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/ik5/audrev/audio"
)

// Decode splits a canonical WAV stream into its format and raw PCM body.
//
// It trusts the fixed 44-byte layout written by EncodeHeader: the format is
// taken from the fmt offsets and everything after byte 44 is returned as PCM.
// Chunk tags are not verified; use Decoder or Inspect for arbitrary files.
func Decode(r io.Reader) (audio.Format, []byte, error) {
	var h [HeaderSize]byte
	if _, err := io.ReadFull(r, h[:]); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return audio.Format{}, nil, ErrShortHeader
		}
		return audio.Format{}, nil, fmt.Errorf("reading WAV header: %w", err)
	}

	f := audio.Format{
		SampleRate:    binary.LittleEndian.Uint32(h[24:28]),
		Channels:      uint8(binary.LittleEndian.Uint16(h[22:24])),
		BitsPerSample: uint8(binary.LittleEndian.Uint16(h[34:36])),
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return f, nil, fmt.Errorf("reading WAV data: %w", err)
	}
	return f, data, nil
}

// ReadFile decodes the WAV file at path. A missing file yields an error
// matching fs.ErrNotExist.
func ReadFile(path string) (audio.Format, []byte, error) {
	file, err := os.Open(path)
	if err != nil {
		return audio.Format{}, nil, fmt.Errorf("opening WAV file: %w", err)
	}
	defer file.Close()

	return Decode(file)
}
