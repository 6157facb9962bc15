// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"fmt"
	"io"
	"os"

	"github.com/ik5/audrev/audio"
)

// ConvertPCMFile frames the headerless PCM file at pcmPath as a WAV file at
// wavPath, replacing any previous file. It returns the number of PCM bytes
// copied.
func ConvertPCMFile(pcmPath, wavPath string, f audio.Format) (n int64, err error) {
	in, err := os.Open(pcmPath)
	if err != nil {
		return 0, fmt.Errorf("opening PCM file: %w", err)
	}
	defer in.Close()

	st, err := in.Stat()
	if err != nil {
		return 0, fmt.Errorf("stat PCM file: %w", err)
	}

	out, err := os.Create(wavPath)
	if err != nil {
		return 0, fmt.Errorf("creating WAV file: %w", err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing WAV file: %w", cerr)
		}
	}()

	if err := WriteHeader(out, st.Size(), f); err != nil {
		return 0, err
	}

	// the header promised st.Size() bytes, copy no more than that
	n, err = io.CopyN(out, in, st.Size())
	if err != nil {
		return n, fmt.Errorf("copying PCM data: %w", err)
	}
	return n, nil
}
