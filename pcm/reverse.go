// SPDX-License-Identifier: EPL-2.0

package pcm

import "fmt"

// SampleSize is the width of one 16-bit sample in bytes.
const SampleSize = 2

// Reverse returns a new buffer holding the samples of data in reverse order.
// The byte order inside each sample is preserved.
func Reverse(data []byte) ([]byte, error) {
	if len(data)%SampleSize != 0 {
		return nil, fmt.Errorf("%w: got %d bytes", ErrOddLength, len(data))
	}

	n := len(data)
	out := make([]byte, n)
	for i := 0; i < n; i += SampleSize {
		out[n-i-2] = data[i]
		out[n-i-1] = data[i+1]
	}
	return out, nil
}
