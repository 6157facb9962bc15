// SPDX-License-Identifier: EPL-2.0

package aiff_test

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/ik5/audrev/formats/aiff"
)

func ExampleDecoder_Decode_errorHandling() {
	_, err := aiff.Decoder{}.Decode(bytes.NewReader([]byte("not an aiff file")))
	if errors.Is(err, aiff.ErrNotAiffFile) {
		fmt.Println("not AIFF")
	}
	// Output: not AIFF
}
