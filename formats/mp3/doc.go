// SPDX-License-Identifier: EPL-2.0

// Package mp3 decodes MP3 files for import, using github.com/hajimehoshi/go-mp3.
//
// # Decoding
//
// Decoder turns any io.Reader holding an MPEG-1 Layer III stream into an
// audio.Source:
//
//	f, _ := os.Open("song.mp3")
//	defer f.Close()
//
//	src, err := mp3.Decoder{}.Decode(f)
//	if errors.Is(err, mp3.ErrNotMP3) {
//	    // not something go-mp3 can read
//	}
//
// Input that go-mp3 rejects fails with ErrNotMP3 wrapping the library error.
// Errors in the middle of the stream surface from ReadSamples instead.
//
// # Output
//
// go-mp3 always produces 16-bit interleaved stereo at the stream's own rate,
// mono files included:
//   - Channels: always 2
//   - Sample rate: as encoded, usually 44100 or 48000
//   - Samples: float32 in [-1, 1]
//
// A truncated last frame ends the stream with io.EOF rather than an error, so
// damaged tails still import whatever was decodable.
//
// # Import
//
// Imports pass the Source through audio.NewResampler and audio.NewMonoMixer
// (see audrev.ToFormat) before it is stored as a 16-bit mono take:
//
//	samples, err := audrev.ToFormat(src, audio.DefaultFormat, 0)
//
// Encoding MP3 is not supported.
package mp3
