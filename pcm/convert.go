// SPDX-License-Identifier: EPL-2.0

package pcm

import (
	"encoding/binary"
	"fmt"
)

// BytesToInt16 decodes little-endian 16-bit samples.
func BytesToInt16(data []byte) ([]int16, error) {
	if len(data)%SampleSize != 0 {
		return nil, fmt.Errorf("%w: got %d bytes", ErrOddLength, len(data))
	}

	out := make([]int16, len(data)/SampleSize)
	for i := range out {
		out[i] = int16(binary.LittleEndian.Uint16(data[i*2:]))
	}
	return out, nil
}

// Int16ToBytes encodes samples as little-endian bytes.
func Int16ToBytes(samples []int16) []byte {
	out := make([]byte, len(samples)*SampleSize)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(out[i*2:], uint16(s))
	}
	return out
}

// Float32ToInt16 clamps x to [-1, 1] and scales it to the int16 range.
func Float32ToInt16(x float32) int16 {
	if x > 1 {
		x = 1
	} else if x < -1 {
		x = -1
	}

	// 32767 keeps +1.0 from overflowing
	return int16(x * 32767.0)
}
