// SPDX-License-Identifier: EPL-2.0

package device

import (
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/gordonklaus/portaudio"

	"github.com/ik5/audrev/audio"
)

// DefaultFramesPerBuffer is used when PortAudio.FramesPerBuffer is zero.
const DefaultFramesPerBuffer = 1024

// PortAudio opens the host's default input and output devices through
// github.com/gordonklaus/portaudio. The library is initialized on the first
// open and terminated when the last stream is closed.
type PortAudio struct {
	FramesPerBuffer int
	Logger          *slog.Logger

	mtx  sync.Mutex
	refs int
}

func (p *PortAudio) logger() *slog.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return slog.Default()
}

func (p *PortAudio) frames() int {
	if p.FramesPerBuffer > 0 {
		return p.FramesPerBuffer
	}
	return DefaultFramesPerBuffer
}

func (p *PortAudio) acquire() error {
	p.mtx.Lock()
	defer p.mtx.Unlock()

	if p.refs == 0 {
		if err := portaudio.Initialize(); err != nil {
			return fmt.Errorf("%w: %w", ErrDeviceUnavailable, err)
		}
	}
	p.refs++
	return nil
}

func (p *PortAudio) release() {
	p.mtx.Lock()
	defer p.mtx.Unlock()

	p.refs--
	if p.refs == 0 {
		if err := portaudio.Terminate(); err != nil {
			p.logger().Warn("portaudio terminate", slog.Any("error", err))
		}
	}
}

// OpenCapture opens and starts a mono int16 input stream.
func (p *PortAudio) OpenCapture(f audio.Format) (Capture, error) {
	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDeviceUnavailable, err)
	}
	if err := p.acquire(); err != nil {
		return nil, err
	}

	buf := make([]int16, p.frames()*int(f.Channels))
	stream, err := portaudio.OpenDefaultStream(int(f.Channels), 0, float64(f.SampleRate), p.frames(), buf)
	if err != nil {
		p.release()
		return nil, fmt.Errorf("%w: opening input: %w", ErrDeviceUnavailable, err)
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		p.release()
		return nil, fmt.Errorf("%w: starting input: %w", ErrDeviceUnavailable, err)
	}

	p.logger().Debug("capture opened",
		slog.String("format", f.String()),
		slog.Int("frames_per_buffer", p.frames()),
	)
	return &paCapture{owner: p, stream: stream, buf: buf}, nil
}

// OpenPlayback opens a mono int16 output stream; it is started by Start.
func (p *PortAudio) OpenPlayback(f audio.Format) (Playback, error) {
	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDeviceUnavailable, err)
	}
	if err := p.acquire(); err != nil {
		return nil, err
	}

	buf := make([]int16, p.frames()*int(f.Channels))
	stream, err := portaudio.OpenDefaultStream(0, int(f.Channels), float64(f.SampleRate), p.frames(), buf)
	if err != nil {
		p.release()
		return nil, fmt.Errorf("%w: opening output: %w", ErrDeviceUnavailable, err)
	}

	p.logger().Debug("playback opened", slog.String("format", f.String()))
	return &paPlayback{owner: p, stream: stream, buf: buf}, nil
}

// Devices lists what PortAudio can see.
func (p *PortAudio) Devices() ([]Info, error) {
	if err := p.acquire(); err != nil {
		return nil, err
	}
	defer p.release()

	devs, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("listing devices: %w", err)
	}
	defIn, _ := portaudio.DefaultInputDevice()
	defOut, _ := portaudio.DefaultOutputDevice()

	out := make([]Info, 0, len(devs))
	for _, d := range devs {
		info := Info{
			Name:              d.Name,
			MaxInputChannels:  d.MaxInputChannels,
			MaxOutputChannels: d.MaxOutputChannels,
			DefaultSampleRate: d.DefaultSampleRate,
			DefaultInput:      sameDevice(d, defIn),
			DefaultOutput:     sameDevice(d, defOut),
		}
		if d.HostApi != nil {
			info.HostAPI = d.HostApi.Name
		}
		out = append(out, info)
	}
	return out, nil
}

func sameDevice(a, b *portaudio.DeviceInfo) bool {
	if a == nil || b == nil {
		return false
	}
	if a == b {
		return true
	}
	return a.Name == b.Name && a.HostApi == b.HostApi
}

type paCapture struct {
	owner  *PortAudio
	stream *portaudio.Stream
	buf    []int16

	raw     []byte
	pending []byte // tail of raw not yet returned
	once    sync.Once
	err     error
}

func (c *paCapture) Read(p []byte) (int, error) {
	if len(c.pending) == 0 {
		if err := c.stream.Read(); err != nil && !errors.Is(err, portaudio.InputOverflowed) {
			return 0, err
		}
		c.raw = encodeInt16(c.raw[:0], c.buf)
		c.pending = c.raw
	}

	n := copy(p, c.pending)
	c.pending = c.pending[n:]
	return n, nil
}

func (c *paCapture) Close() error {
	c.once.Do(func() {
		c.err = errors.Join(c.stream.Stop(), c.stream.Close())
		c.owner.release()
	})
	return c.err
}

type paPlayback struct {
	owner  *PortAudio
	stream *portaudio.Stream
	buf    []int16

	once sync.Once
	err  error
}

func (pb *paPlayback) Start() error {
	if err := pb.stream.Start(); err != nil {
		return fmt.Errorf("%w: starting output: %w", ErrDeviceUnavailable, err)
	}
	return nil
}

// Write sends p in device-sized chunks; the last chunk is padded with silence.
// A trailing odd byte is dropped.
func (pb *paPlayback) Write(p []byte) (int, error) {
	chunk := len(pb.buf) * 2
	written := 0
	for written+1 < len(p) {
		end := min(written+chunk, len(p))
		n := decodeInt16(pb.buf, p[written:end])
		clear(pb.buf[n:])

		if err := pb.stream.Write(); err != nil && !errors.Is(err, portaudio.OutputUnderflowed) {
			return written, err
		}
		written += n * 2
	}
	return written, nil
}

func (pb *paPlayback) Stop() error { return pb.stream.Stop() }

func (pb *paPlayback) Close() error {
	pb.once.Do(func() {
		pb.err = pb.stream.Close()
		pb.owner.release()
	})
	return pb.err
}

func encodeInt16(dst []byte, samples []int16) []byte {
	for _, s := range samples {
		dst = binary.LittleEndian.AppendUint16(dst, uint16(s))
	}
	return dst
}

// decodeInt16 fills dst from little-endian bytes and returns the sample count.
func decodeInt16(dst []int16, src []byte) int {
	n := min(len(dst), len(src)/2)
	for i := range n {
		dst[i] = int16(binary.LittleEndian.Uint16(src[2*i:]))
	}
	return n
}
