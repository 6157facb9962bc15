// SPDX-License-Identifier: EPL-2.0

package wav

import "errors"

var (
	ErrNotWavFile            = errors.New("not a WAV file")
	ErrOnlyPCM16bitSupported = errors.New("only PCM 16-bit supported")
	ErrShortHeader           = errors.New("WAV header shorter than 44 bytes")
	ErrDataTooLarge          = errors.New("PCM data does not fit a 32-bit WAV size")
)
