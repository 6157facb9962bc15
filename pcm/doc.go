// SPDX-License-Identifier: EPL-2.0

// Package pcm holds pure transforms over raw PCM byte buffers.
//
// Buffers are interleaved signed 16-bit little-endian samples. Every function
// here allocates its result and never mutates its input.
//
// # Reversal
//
// Reverse inverts the temporal order of samples while keeping the two bytes of
// each sample in their original order, so amplitudes survive unchanged:
//
//	in := []byte{0x01, 0x00, 0x03, 0x02} // samples 0x0001, 0x0203
//	out, _ := pcm.Reverse(in)            // 03 02 01 00
//
// Reverse(Reverse(p)) == p for any even-length p. An odd-length buffer cannot
// hold whole samples and is rejected with ErrOddLength.
//
// # Conversions
//
// BytesToInt16 / Int16ToBytes move between the byte and the sample view, and
// Float32ToInt16 maps normalized float samples from decoders to int16.
package pcm
