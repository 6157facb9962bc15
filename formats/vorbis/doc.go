// SPDX-License-Identifier: EPL-2.0

// Package vorbis decodes Ogg Vorbis files for import.
//
// It wraps github.com/jfreymuth/oggvorbis. The studio registers it for both
// the .ogg and .oga extensions.
//
// # Decoding
//
//	f, _ := os.Open("take.ogg")
//	src, err := vorbis.Decoder{}.Decode(f)
//	if err != nil {
//	    return err // wraps ErrNotVorbis
//	}
//	defer src.Close()
//
// Decode reads the stream headers up front, so a file that is not Ogg Vorbis
// fails there with ErrNotVorbis rather than on the first read.
//
// # Output
//
// Samples come out as float32 in [-1, 1], interleaved at the file's own rate
// and channel count. ReadSamples only ever returns whole frames: dst is
// trimmed down to a multiple of the channel count before decoding.
//
// To store one as a take:
//
//	samples, err := audrev.ToFormat(src, audio.DefaultFormat, 0)
//	err = wav.WriteWAV16(out, audio.DefaultFormat, samples)
//
// Encoding Vorbis is not supported.
package vorbis
