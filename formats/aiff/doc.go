// SPDX-License-Identifier: EPL-2.0

// Package aiff decodes uncompressed AIFF files for import, using
// github.com/go-audio/aiff.
//
// # Decoding
//
//	f, _ := os.Open("loop.aiff")
//	src, err := aiff.Decoder{}.Decode(f)
//
// go-audio seeks between chunks. Readers that cannot seek are buffered in
// memory first, so Decode works on pipes and network bodies too.
//
// # Errors
//
// Decode reports what is wrong with the file:
//   - ErrNotAiffFile: no FORM/AIFF container
//   - ErrUnsupportedBitDepth: anything other than 8, 16, 24 or 32 bits
//   - ErrUnsupportedAiffLayout: missing format, no channels or no sample rate
//
// # Output
//
// Samples of every supported depth are scaled to float32 in [-1, 1] by the
// depth's full-scale value (128, 32768, 8388608 or 2147483648). AIFF stores
// them big-endian; go-audio hands them over as plain ints so no byte swapping
// happens here. Rate and channel count are the file's own; use
// audrev.ToFormat to turn the Source into take samples.
package aiff
