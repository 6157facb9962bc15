// SPDX-License-Identifier: EPL-2.0

// Package audio holds the pieces shared by the decoders and the take format.
//
// # Format
//
// Format describes raw PCM as it is stored in a take. The only format the
// studio records and plays is DefaultFormat, mono signed 16-bit little-endian
// at 44.1 kHz:
//
//	audio.DefaultFormat.ByteRate()      // 88200
//	audio.DefaultFormat.BlockAlign()    // 2
//	audio.DefaultFormat.Duration(88200) // 1s
//
// Validate rejects anything else with ErrInvalidFormat, so a take never ends
// up with a header the recorder did not write.
//
// # Source
//
// Source is a pull stream of interleaved float32 samples in [-1, 1]:
//
//	type Source interface {
//	    SampleRate() int
//	    Channels() int
//	    ReadSamples(dst []float32) (int, error)
//	    BufSize() int
//	    Close() error
//	}
//
// ReadSamples counts float32 values, not frames. A Source signals the end of
// the stream with io.EOF, possibly together with the last samples:
//
//	for {
//	    n, err := src.ReadSamples(buf)
//	    use(buf[:n])
//	    if err == io.EOF {
//	        break
//	    }
//	    if err != nil {
//	        return err
//	    }
//	}
//
// # Conversion
//
// Every decoder under formats/ returns a Source at the file's own rate and
// channel count. Resampler (cubic interpolation) and MonoMixer (channel
// average) wrap one to bring an imported file down to DefaultFormat:
//
//	dec, _ := registry.ForPath("song.mp3")
//	src, _ := dec.Decode(f)
//	mono := audio.NewMonoMixer(audio.NewResampler(src, 44100))
//
// Resampler needs len(dst) to be a multiple of its channel count and returns
// ErrInvalidDstSize otherwise. MonoMixer always asks its source for whole
// frames, so the two compose in either order.
//
// # Registry
//
// Registry maps file extensions to decoders. Extensions are matched without
// the dot and case-insensitively; ForPath fails with ErrUnsupportedFormat for
// anything unregistered:
//
//	r := audio.NewRegistry()
//	r.Register("wav", wav.Decoder{})
//	r.Register(".MP3", mp3.Decoder{})
//	r.Formats() // [mp3 wav]
package audio
