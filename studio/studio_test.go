// SPDX-License-Identifier: EPL-2.0

package studio

import (
	"bytes"
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/ik5/audrev/audio"
	"github.com/ik5/audrev/device"
	"github.com/ik5/audrev/formats/wav"
	"github.com/ik5/audrev/internal/audiotest"
	"github.com/ik5/audrev/internal/worker"
	"github.com/ik5/audrev/pcm"
)

type noticeLog struct {
	mtx     sync.Mutex
	notices []Notice
}

func (l *noticeLog) Notify(n Notice) {
	l.mtx.Lock()
	defer l.mtx.Unlock()

	l.notices = append(l.notices, n)
}

func (l *noticeLog) kinds() []Kind {
	l.mtx.Lock()
	defer l.mtx.Unlock()

	out := make([]Kind, len(l.notices))
	for i, n := range l.notices {
		out[i] = n.Kind
	}
	return out
}

func (l *noticeLog) has(k Kind) bool { return slices.Contains(l.kinds(), k) }

type rig struct {
	studio   *Studio
	notices  *noticeLog
	mic      *audiotest.FakeCapture
	speakers []*audiotest.FakePlayback
	opens    atomic.Int32
	cfg      Config

	mtx       sync.Mutex
	openErr   error
	nextDelay time.Duration
}

func newRig(t *testing.T, chunks ...[]byte) *rig {
	t.Helper()

	dir := t.TempDir()
	r := &rig{
		notices: &noticeLog{},
		mic:     &audiotest.FakeCapture{Chunks: chunks},
		cfg: Config{
			Format:               audio.DefaultFormat,
			PCMPath:              filepath.Join(dir, "recorded.pcm"),
			WAVPath:              filepath.Join(dir, "recorded.wav"),
			MaxConsecutiveErrors: 4,
		},
	}

	s, err := New(r.cfg, Options{
		Capture: device.CaptureOpenerFunc(func(audio.Format) (device.Capture, error) {
			return r.mic, nil
		}),
		Playback: device.PlaybackOpenerFunc(func(audio.Format) (device.Playback, error) {
			r.opens.Add(1)
			r.mtx.Lock()
			defer r.mtx.Unlock()

			if r.openErr != nil {
				return nil, r.openErr
			}
			out := &audiotest.FakePlayback{Delay: r.nextDelay}
			r.speakers = append(r.speakers, out)
			return out, nil
		}),
		Notifier: r.notices,
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	r.studio = s
	return r
}

func (r *rig) lastSpeaker(t *testing.T) *audiotest.FakePlayback {
	t.Helper()

	r.mtx.Lock()
	defer r.mtx.Unlock()

	if len(r.speakers) == 0 {
		t.Fatal("no playback device was opened")
	}
	return r.speakers[len(r.speakers)-1]
}

func (r *rig) record(t *testing.T) {
	t.Helper()

	if err := r.studio.StartRecording(context.Background()); err != nil {
		t.Fatalf("StartRecording() error = %v", err)
	}
	deadline := time.Now().Add(5 * time.Second)
	for !r.mic.Drained() {
		if time.Now().After(deadline) {
			t.Fatal("capture never drained")
		}
		time.Sleep(time.Millisecond)
	}
	if err := r.studio.StopRecording(); err != nil {
		t.Fatalf("StopRecording() error = %v", err)
	}
}

func (r *rig) play(t *testing.T, reverse bool) []byte {
	t.Helper()

	task, err := r.studio.Play(context.Background(), reverse)
	if err != nil {
		t.Fatalf("Play(%v) error = %v", reverse, err)
	}
	if err := task.Wait(); err != nil {
		t.Fatalf("playback error = %v", err)
	}
	return r.lastSpeaker(t).Written()
}

func TestStudio_RecordAndPlay(t *testing.T) {
	t.Parallel()

	r := newRig(t, []byte{0x01, 0x00}, []byte{0x03, 0x02})
	r.record(t)

	data, err := os.ReadFile(r.cfg.WAVPath)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) != 48 {
		t.Fatalf("take is %d bytes, want 48", len(data))
	}
	if !bytes.Equal(data[wav.HeaderSize:], []byte{0x01, 0x00, 0x03, 0x02}) {
		t.Errorf("take body = % x, want 01 00 03 02", data[wav.HeaderSize:])
	}
	if r.mic.Closes() != 1 {
		t.Errorf("microphone closed %d times, want 1", r.mic.Closes())
	}

	if got := r.play(t, false); !bytes.Equal(got, []byte{0x01, 0x00, 0x03, 0x02}) {
		t.Errorf("forward rendered % x, want 01 00 03 02", got)
	}
	if got := r.play(t, true); !bytes.Equal(got, []byte{0x03, 0x02, 0x01, 0x00}) {
		t.Errorf("reversed rendered % x, want 03 02 01 00", got)
	}

	wantKinds := []Kind{Recorded, PlaybackDone, PlaybackDone}
	if got := r.notices.kinds(); !slices.Equal(got, wantKinds) {
		t.Errorf("notices = %v, want %v", got, wantKinds)
	}

	m := r.studio.Metrics()
	if got := testutil.ToFloat64(m.RecordedBytes); got != 4 {
		t.Errorf("recorded_bytes_total = %v, want 4", got)
	}
	if got := testutil.ToFloat64(m.Playbacks.WithLabelValues("reverse")); got != 1 {
		t.Errorf("reverse playbacks = %v, want 1", got)
	}
}

func TestStudio_PlayMissingTake(t *testing.T) {
	t.Parallel()

	r := newRig(t)
	for _, reverse := range []bool{false, true} {
		if _, err := r.studio.Play(context.Background(), reverse); !errors.Is(err, ErrFileNotFound) {
			t.Errorf("Play(%v) error = %v, want ErrFileNotFound", reverse, err)
		}
	}
	if r.opens.Load() != 0 {
		t.Errorf("playback device opened %d times", r.opens.Load())
	}
	if got := r.notices.kinds(); !slices.Equal(got, []Kind{FileNotFound, FileNotFound}) {
		t.Errorf("notices = %v", got)
	}
}

func TestStudio_StopWithoutRecording(t *testing.T) {
	t.Parallel()

	r := newRig(t)
	if err := r.studio.StopRecording(); !errors.Is(err, ErrNotRecording) {
		t.Errorf("StopRecording() error = %v, want ErrNotRecording", err)
	}
	if !r.notices.has(NotRecording) {
		t.Errorf("notices = %v, want NotRecording", r.notices.kinds())
	}
}

func TestStudio_RecordingIsExclusive(t *testing.T) {
	t.Parallel()

	r := newRig(t)
	ctx := context.Background()
	if err := r.studio.StartRecording(ctx); err != nil {
		t.Fatal(err)
	}
	if !r.studio.Recording() {
		t.Error("Recording() = false during a session")
	}

	if err := r.studio.StartRecording(ctx); !errors.Is(err, ErrRecordingActive) {
		t.Errorf("second StartRecording() error = %v, want ErrRecordingActive", err)
	}
	if _, err := r.studio.Play(ctx, false); !errors.Is(err, ErrRecordingActive) {
		t.Errorf("Play() while recording error = %v, want ErrRecordingActive", err)
	}
	if err := r.studio.Import(ctx, "x.wav"); !errors.Is(err, ErrRecordingActive) {
		t.Errorf("Import() while recording error = %v, want ErrRecordingActive", err)
	}
	if r.opens.Load() != 0 {
		t.Error("playback device opened while recording")
	}

	if err := r.studio.StopRecording(); err != nil {
		t.Fatal(err)
	}
	if r.studio.Recording() {
		t.Error("Recording() = true after stop")
	}
	// an empty take is still a valid WAV
	if st, err := os.Stat(r.cfg.WAVPath); err != nil || st.Size() != wav.HeaderSize {
		t.Errorf("empty take: %v, %v", st, err)
	}
}

func TestStudio_MicrophoneUnavailable(t *testing.T) {
	t.Parallel()

	notices := &noticeLog{}
	dir := t.TempDir()
	s, err := New(Config{
		Format:  audio.DefaultFormat,
		PCMPath: filepath.Join(dir, "r.pcm"),
		WAVPath: filepath.Join(dir, "r.wav"),
	}, Options{
		Capture: device.CaptureOpenerFunc(func(audio.Format) (device.Capture, error) {
			return nil, errors.New("no input device")
		}),
		Playback: device.PlaybackOpenerFunc(func(audio.Format) (device.Playback, error) {
			return &audiotest.FakePlayback{}, nil
		}),
		Notifier: notices,
	})
	if err != nil {
		t.Fatal(err)
	}

	if err := s.StartRecording(context.Background()); !errors.Is(err, device.ErrDeviceUnavailable) {
		t.Errorf("StartRecording() error = %v, want ErrDeviceUnavailable", err)
	}
	if s.Recording() {
		t.Error("Recording() = true after failed start")
	}
	if !notices.has(DeviceUnavailable) {
		t.Errorf("notices = %v, want DeviceUnavailable", notices.kinds())
	}
}

func TestStudio_SpeakerUnavailable(t *testing.T) {
	t.Parallel()

	r := newRig(t, []byte{0x01, 0x00})
	r.record(t)
	r.mtx.Lock()
	r.openErr = errors.New("no output device")
	r.mtx.Unlock()

	task, err := r.studio.Play(context.Background(), false)
	if err != nil {
		t.Fatalf("Play() error = %v", err)
	}
	if err := task.Wait(); !errors.Is(err, device.ErrDeviceUnavailable) {
		t.Errorf("playback error = %v, want ErrDeviceUnavailable", err)
	}
	if !r.notices.has(DeviceUnavailable) {
		t.Errorf("notices = %v, want DeviceUnavailable", r.notices.kinds())
	}
}

func TestStudio_SecondPlaybackRejected(t *testing.T) {
	t.Parallel()

	r := newRig(t, []byte{0x01, 0x00})
	r.record(t)
	r.mtx.Lock()
	r.nextDelay = 200 * time.Millisecond
	r.mtx.Unlock()

	first, err := r.studio.Play(context.Background(), false)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := r.studio.Play(context.Background(), true); !errors.Is(err, worker.ErrUnavailable) {
		t.Errorf("second Play() error = %v, want worker.ErrUnavailable", err)
	}
	if !r.notices.has(WorkerStartFailure) {
		t.Errorf("notices = %v, want WorkerStartFailure", r.notices.kinds())
	}
	if err := first.Wait(); err != nil {
		t.Errorf("first playback error = %v", err)
	}
}

func TestStudio_ReverseOddTake(t *testing.T) {
	t.Parallel()

	r := newRig(t, []byte{0x01, 0x00, 0x03})
	r.record(t)

	if _, err := r.studio.Play(context.Background(), true); !errors.Is(err, ErrMalformedInput) || !errors.Is(err, pcm.ErrOddLength) {
		t.Errorf("Play(reverse) error = %v, want ErrMalformedInput", err)
	}
	if r.opens.Load() != 0 {
		t.Error("device opened for a malformed take")
	}
}

func TestStudio_TruncatedTake(t *testing.T) {
	t.Parallel()

	r := newRig(t)
	if err := os.WriteFile(r.cfg.WAVPath, []byte("RIFF"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := r.studio.Play(context.Background(), false); !errors.Is(err, ErrMalformedInput) {
		t.Errorf("Play() error = %v, want ErrMalformedInput", err)
	}
}

func TestStudio_CaptureFailuresStillConvert(t *testing.T) {
	t.Parallel()

	boom := errors.New("xrun")
	r := newRig(t, []byte{0x01, 0x00})
	r.mic.Errs = []error{nil, boom, boom, boom, boom}

	if err := r.studio.StartRecording(context.Background()); err != nil {
		t.Fatal(err)
	}
	deadline := time.Now().Add(5 * time.Second)
	for !r.mic.Drained() && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}

	err := r.studio.StopRecording()
	if !errors.Is(err, ErrIO) {
		t.Errorf("StopRecording() error = %v, want ErrIO", err)
	}
	data, rerr := os.ReadFile(r.cfg.WAVPath)
	if rerr != nil || len(data) != 46 {
		t.Errorf("take = %d bytes, %v; want 46", len(data), rerr)
	}
	if !r.notices.has(IOError) || !r.notices.has(Recorded) {
		t.Errorf("notices = %v, want IOError and Recorded", r.notices.kinds())
	}
}

func TestStudio_Info(t *testing.T) {
	t.Parallel()

	r := newRig(t, make([]byte, 88200))
	if _, err := r.studio.Info(); !errors.Is(err, ErrFileNotFound) {
		t.Errorf("Info() before recording error = %v, want ErrFileNotFound", err)
	}

	r.record(t)
	info, err := r.studio.Info()
	if err != nil {
		t.Fatalf("Info() error = %v", err)
	}
	if info.Format != audio.DefaultFormat || info.DataBytes != 88200 || info.Duration != time.Second {
		t.Errorf("Info() = %+v", info)
	}
}

func TestStudio_Import(t *testing.T) {
	t.Parallel()

	r := newRig(t)
	src := filepath.Join(t.TempDir(), "tone.wav")

	// one second at 22050 Hz becomes one second at 44100 Hz
	samples := make([]int16, 22050)
	for i := range samples {
		samples[i] = int16(8000 * math.Sin(2*math.Pi*440*float64(i)/22050))
	}
	f, err := os.Create(src)
	if err != nil {
		t.Fatal(err)
	}
	if err := wav.WriteWAV16(f, audio.Format{SampleRate: 22050, Channels: 1, BitsPerSample: 16}, samples); err != nil {
		t.Fatal(err)
	}
	f.Close()

	if err := r.studio.Import(context.Background(), src); err != nil {
		t.Fatalf("Import() error = %v", err)
	}

	info, err := r.studio.Info()
	if err != nil {
		t.Fatal(err)
	}
	if info.Format != audio.DefaultFormat {
		t.Errorf("imported format = %+v", info.Format)
	}
	if d := info.Duration - time.Second; d < -50*time.Millisecond || d > 50*time.Millisecond {
		t.Errorf("imported duration = %v, want ~1s", info.Duration)
	}
	if !r.notices.has(Imported) {
		t.Errorf("notices = %v, want Imported", r.notices.kinds())
	}
	if got := testutil.ToFloat64(r.studio.Metrics().Imports.WithLabelValues("wav")); got != 1 {
		t.Errorf("imports_total{format=wav} = %v", got)
	}
}

func TestStudio_ImportErrors(t *testing.T) {
	t.Parallel()

	r := newRig(t, []byte{0x01, 0x00})
	r.record(t)
	before, _ := os.ReadFile(r.cfg.WAVPath)

	dir := t.TempDir()
	garbage := filepath.Join(dir, "garbage.mp3")
	os.WriteFile(garbage, []byte("definitely not audio"), 0o644)

	tests := []struct {
		name string
		path string
		want error
		kind Kind
	}{
		{name: "unsupported", path: filepath.Join(dir, "notes.txt"), want: audio.ErrUnsupportedFormat, kind: MalformedInput},
		{name: "missing", path: filepath.Join(dir, "missing.ogg"), want: ErrFileNotFound, kind: FileNotFound},
		{name: "undecodable", path: garbage, want: ErrMalformedInput, kind: MalformedInput},
	}
	for _, tt := range tests {
		if err := r.studio.Import(context.Background(), tt.path); !errors.Is(err, tt.want) {
			t.Errorf("%s: Import() error = %v, want %v", tt.name, err, tt.want)
		}
		if k := r.notices.kinds(); k[len(k)-1] != tt.kind {
			t.Errorf("%s: last notice = %v, want %v", tt.name, k[len(k)-1], tt.kind)
		}
	}

	after, _ := os.ReadFile(r.cfg.WAVPath)
	if !bytes.Equal(before, after) {
		t.Error("failed import modified the take")
	}
}

func TestStudio_CloseStopsRecording(t *testing.T) {
	t.Parallel()

	r := newRig(t, []byte{0x01, 0x00})
	if err := r.studio.StartRecording(context.Background()); err != nil {
		t.Fatal(err)
	}
	for !r.mic.Drained() {
		time.Sleep(time.Millisecond)
	}
	if err := r.studio.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if st, err := os.Stat(r.cfg.WAVPath); err != nil || st.Size() != 46 {
		t.Errorf("take after Close: %v, %v", st, err)
	}
}

func TestNew_Validates(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	ok := Options{
		Capture:  device.CaptureOpenerFunc(func(audio.Format) (device.Capture, error) { return nil, nil }),
		Playback: device.PlaybackOpenerFunc(func(audio.Format) (device.Playback, error) { return nil, nil }),
	}
	good := Config{Format: audio.DefaultFormat, PCMPath: filepath.Join(dir, "a.pcm"), WAVPath: filepath.Join(dir, "a.wav")}

	tests := []struct {
		name string
		cfg  Config
		opts Options
	}{
		{"stereo", Config{Format: audio.Format{SampleRate: 44100, Channels: 2, BitsPerSample: 16}, PCMPath: good.PCMPath, WAVPath: good.WAVPath}, ok},
		{"no paths", Config{Format: audio.DefaultFormat}, ok},
		{"no devices", good, Options{}},
	}
	for _, tt := range tests {
		if _, err := New(tt.cfg, tt.opts); err == nil {
			t.Errorf("%s: New() error = nil", tt.name)
		}
	}
	if _, err := New(good, ok); err != nil {
		t.Errorf("New(good) error = %v", err)
	}
}

func TestKindOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		want Kind
	}{
		{device.ErrDeviceUnavailable, DeviceUnavailable},
		{worker.ErrUnavailable, WorkerStartFailure},
		{ErrFileNotFound, FileNotFound},
		{ErrRecordingActive, RecordingActive},
		{ErrNotRecording, NotRecording},
		{ErrMalformedInput, MalformedInput},
		{ErrIO, IOError},
		{errors.New("other"), IOError},
	}
	for _, tt := range tests {
		if got := kindOf(tt.err); got != tt.want {
			t.Errorf("kindOf(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
	if Recorded.Failure() || !IOError.Failure() {
		t.Error("Failure() classification changed")
	}
}

func TestStudio_BackToBackPlayback(t *testing.T) {
	t.Parallel()

	r := newRig(t, []byte{0x01, 0x00})
	r.record(t)

	for i := range 50 {
		if got := r.play(t, i%2 == 1); !bytes.Equal(got, []byte{0x01, 0x00}) {
			t.Fatalf("play #%d rendered % x", i, got)
		}
	}
	if r.notices.has(WorkerStartFailure) {
		t.Error("a playback started after the previous one finished was rejected")
	}
}
