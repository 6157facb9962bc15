// SPDX-License-Identifier: EPL-2.0

// Package audrev records microphone audio to a canonical WAV file and plays it
// back forward or reversed.
//
// # Packages
//
// The pieces live in subpackages, leaves first:
//   - device: PortAudio capture and playback streams
//   - recorder: the capture loop writing raw PCM to a scratch file
//   - formats/wav: the 44-byte WAV header, conversion and inspection
//   - pcm: sample reversal and int16 helpers
//   - player: one blocking playback with observable states
//   - studio: the orchestrator tying them together and reporting notices
//
// The audrev command (cmd/audrev) drives a studio from the shell.
//
// # Take Format
//
// Takes are always mono, signed 16-bit little-endian, 44.1 kHz
// (audio.DefaultFormat). A take is written over on every recording:
//
//	recorded.pcm   raw capture, appended while recording
//	recorded.wav   44-byte header + the same bytes, written on stop
//
// Reversal works on whole samples of that format: the sample order flips and
// the two bytes inside every sample keep their order.
//
// # Recording and Playback
//
// The usual flow goes through a studio.Studio:
//
//	pa := &device.PortAudio{}
//	s, err := studio.New(cfg, studio.Options{Capture: pa, Playback: pa})
//	if err != nil {
//	    return err
//	}
//	defer s.Close()
//
//	_ = s.StartRecording(ctx)
//	// ... later
//	_ = s.StopRecording()
//
//	task, err := s.Play(ctx, true) // reversed
//	if err == nil {
//	    err = task.Wait()
//	}
//
// Every failure is both returned and reported to the studio's Notifier.
//
// # Importing Other Formats
//
// Files in other formats can be imported through formats/wav, formats/mp3,
// formats/vorbis and formats/aiff. ToFormat resamples and downmixes their
// audio.Source into the take format:
//
//	src, _ := mp3.Decoder{}.Decode(f)
//	samples, err := audrev.ToFormat(src, audio.DefaultFormat, 4096)
//	err = wav.WriteWAV16(out, audio.DefaultFormat, samples)
//
// studio.Studio.Import does the same, picking the decoder by file extension
// and replacing the take only when everything succeeded.
package audrev
