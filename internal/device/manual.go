// SPDX-License-Identifier: EPL-2.0

package device

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"sync"
)

// Manual is an output that only moves when pulled. Pull reads from the most
// recently started stream that is still open, so after an engine switch the
// new mixer is the one heard.
type Manual struct {
	mtx     sync.Mutex
	streams []*manualStream
	opened  int
	last    Format
}

func NewManual() *Manual { return &Manual{} }

func (m *Manual) Open(f Format) (Endpoint, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	m.mtx.Lock()
	defer m.mtx.Unlock()

	m.opened++
	m.last = f

	return &manualEndpoint{out: m, format: f}, nil
}

// Opened is the number of successful Open calls.
func (m *Manual) Opened() int {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	return m.opened
}

// Format is the format of the latest Open.
func (m *Manual) Format() Format {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	return m.last
}

// Active is the format of the stream Pull reads, or the zero Format.
func (m *Manual) Active() Format {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	if len(m.streams) == 0 {
		return Format{}
	}

	return m.streams[len(m.streams)-1].endpoint.format
}

// Streams is the number of open streams.
func (m *Manual) Streams() int {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	return len(m.streams)
}

// Pull fills p from the active stream.
func (m *Manual) Pull(p []byte) (int, error) {
	m.mtx.Lock()
	var s *manualStream
	if len(m.streams) > 0 {
		s = m.streams[len(m.streams)-1]
	}
	m.mtx.Unlock()

	if s == nil {
		return 0, ErrIdle
	}

	return io.ReadFull(s.r, p)
}

// PullFrames pulls n frames and decodes them to float32 samples.
func (m *Manual) PullFrames(n int) ([]float32, error) {
	f := m.Active()
	if f.Channels == 0 {
		return nil, ErrIdle
	}

	raw := make([]byte, n*f.FrameBytes())

	got, err := m.Pull(raw)
	if err != nil {
		return nil, fmt.Errorf("device: pull %d frames: %w", n, err)
	}

	out := make([]float32, got/BytesPerSample)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(raw[i*BytesPerSample:]))
	}

	return out, nil
}

func (m *Manual) remove(s *manualStream) {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	for i, q := range m.streams {
		if q == s {
			m.streams = append(m.streams[:i], m.streams[i+1:]...)
			return
		}
	}
}

type manualEndpoint struct {
	out    *Manual
	format Format

	mtx     sync.Mutex
	streams []*manualStream
	closed  bool
}

func (e *manualEndpoint) Format() Format { return e.format }

func (e *manualEndpoint) Play(r io.Reader) (Stream, error) {
	e.mtx.Lock()
	defer e.mtx.Unlock()

	if e.closed {
		return nil, ErrClosed
	}

	s := &manualStream{endpoint: e, r: r}
	e.streams = append(e.streams, s)

	e.out.mtx.Lock()
	e.out.streams = append(e.out.streams, s)
	e.out.mtx.Unlock()

	return s, nil
}

func (e *manualEndpoint) Close() error {
	e.mtx.Lock()
	streams := e.streams
	e.streams = nil
	e.closed = true
	e.mtx.Unlock()

	for _, s := range streams {
		e.out.remove(s)
	}

	return nil
}

type manualStream struct {
	endpoint *manualEndpoint
	r        io.Reader
}

func (s *manualStream) Close() error {
	s.endpoint.out.remove(s)
	return nil
}
