// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"errors"
	"sync"
	"time"
)

// ErrClosed is returned by fakes used after Close.
var ErrClosed = errors.New("audiotest: closed")

// FakeCapture replays Chunks one per Read, then idles with (0, nil) the way a
// quiet device does. Errs[i], when set, is returned instead of chunk i. A
// chunk larger than the read buffer is handed out over several reads.
type FakeCapture struct {
	Chunks [][]byte
	Errs   []error
	// Idle is slept on every read once the chunks are used up.
	Idle time.Duration

	mtx    sync.Mutex
	tail   []byte
	next   int
	reads  int
	closed int
}

func (c *FakeCapture) Read(p []byte) (int, error) {
	c.mtx.Lock()
	if c.closed > 0 {
		c.mtx.Unlock()
		return 0, ErrClosed
	}
	c.reads++
	if len(c.tail) > 0 {
		n := copy(p, c.tail)
		c.tail = c.tail[n:]
		c.mtx.Unlock()
		return n, nil
	}
	i := c.next
	if i >= len(c.Chunks) && i >= len(c.Errs) {
		c.mtx.Unlock()
		time.Sleep(max(c.Idle, time.Millisecond))
		return 0, nil
	}
	c.next++
	defer c.mtx.Unlock()

	if i < len(c.Errs) && c.Errs[i] != nil {
		return 0, c.Errs[i]
	}
	if i < len(c.Chunks) {
		n := copy(p, c.Chunks[i])
		c.tail = c.Chunks[i][n:]
		return n, nil
	}
	return 0, nil
}

func (c *FakeCapture) Close() error {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	c.closed++
	return nil
}

// Drained reports whether every scripted chunk and error has been handed out.
func (c *FakeCapture) Drained() bool {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	return len(c.tail) == 0 && c.next >= len(c.Chunks) && c.next >= len(c.Errs)
}

// Closes returns how many times Close was called.
func (c *FakeCapture) Closes() int {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	return c.closed
}

// FakePlayback records what is written to it and the order of calls.
type FakePlayback struct {
	StartErr error
	WriteErr error
	// Delay is slept inside Write, to hold a playback open.
	Delay time.Duration

	mtx     sync.Mutex
	calls   []string
	written []byte
}

func (p *FakePlayback) record(call string) {
	p.mtx.Lock()
	defer p.mtx.Unlock()

	p.calls = append(p.calls, call)
}

func (p *FakePlayback) Start() error {
	p.record("start")
	return p.StartErr
}

func (p *FakePlayback) Write(b []byte) (int, error) {
	p.record("write")
	if p.Delay > 0 {
		time.Sleep(p.Delay)
	}
	if p.WriteErr != nil {
		return 0, p.WriteErr
	}

	p.mtx.Lock()
	defer p.mtx.Unlock()

	p.written = append(p.written, b...)
	return len(b), nil
}

func (p *FakePlayback) Stop() error {
	p.record("stop")
	return nil
}

func (p *FakePlayback) Close() error {
	p.record("close")
	return nil
}

// Calls returns the recorded method names in call order.
func (p *FakePlayback) Calls() []string {
	p.mtx.Lock()
	defer p.mtx.Unlock()

	return append([]string(nil), p.calls...)
}

// Written returns a copy of every byte passed to Write.
func (p *FakePlayback) Written() []byte {
	p.mtx.Lock()
	defer p.mtx.Unlock()

	return append([]byte(nil), p.written...)
}
