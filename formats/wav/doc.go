// SPDX-License-Identifier: EPL-2.0

// Package wav frames raw PCM as canonical WAV files and reads them back.
//
// # Canonical Header
//
// Recorded takes use a fixed 44-byte header (RIFF, fmt, data) followed
// directly by the PCM body:
//
//	offset  size  field
//	0       4     "RIFF"
//	4       4     data length + 36
//	8       4     "WAVE"
//	12      4     "fmt "
//	16      4     16
//	20      2     1 (PCM)
//	22      2     channels
//	24      4     sample rate
//	28      4     byte rate
//	32      2     block align
//	34      2     bits per sample
//	36      4     "data"
//	40      4     data length
//
// All fields are little-endian. With the default format the byte rate is 88200
// and the block align 2, so an empty take is exactly 44 bytes and four bytes of
// PCM make a 48-byte file.
//
// # Writing and Reading Takes
//
// EncodeHeader, WriteHeader and ConvertPCMFile produce that layout, and
// Decode / ReadFile strip it again:
//
//	n, err := wav.ConvertPCMFile("recorded.pcm", "recorded.wav", audio.DefaultFormat)
//	format, body, err := wav.ReadFile("recorded.wav")
//
// Decode(EncodeHeader(len(p), f) ++ p) yields f and p again for any f and p.
// Decode does not verify chunk tags and trusts the fmt offsets.
//
// # Errors
//
//   - ErrShortHeader: fewer than 44 bytes, from Decode and ReadFile
//   - ErrDataTooLarge: a body that does not fit the 32-bit size fields
//   - ErrNotWavFile, ErrOnlyPCM16bitSupported: from Decoder on foreign files
//
// A missing file passed to ReadFile or ConvertPCMFile yields an error that
// matches fs.ErrNotExist, and ConvertPCMFile leaves no WAV behind.
//
// # Foreign Files
//
// Files from elsewhere carry LIST or fact chunks, odd fmt sizes and the like.
// They go through Decoder, an audio.Source built on github.com/go-audio/wav
// that walks real chunk lists, or through Inspect to report their format:
//
//	f, _ := os.Open("memo.wav")
//	info, err := wav.Inspect(f)
//	fmt.Println(info.Format, info.Duration)
//
// WriteWAV16 writes int16 samples as a complete file and is used when
// importing decoded audio:
//
//	err := wav.WriteWAV16(out, audio.DefaultFormat, samples)
package wav
