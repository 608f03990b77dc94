// SPDX-License-Identifier: EPL-2.0

// Package audiotest holds test doubles shared by the package tests: synthetic
// sources and in-memory WAV files. It imports nothing from this module so any
// package can use it from its tests.
package audiotest

import (
	"errors"
	"io"
	"math"
)

// MockSource generates audio from a waveform function.
// It implements the audio.Source interface (without importing it to avoid cycles).
type MockSource struct {
	sampleRate int
	channels   int
	frames     int // total frames to generate
	generated  int // frames generated so far
	waveform   func(frame int, channel int) float32

	closed  bool
	readErr error
}

// NewMockSource creates a source of frames frames.
func NewMockSource(sampleRate, channels, frames int, waveform func(frame int, channel int) float32) *MockSource {
	return &MockSource{
		sampleRate: sampleRate,
		channels:   channels,
		frames:     frames,
		waveform:   waveform,
	}
}

func NewSilentSource(sampleRate, channels, frames int) *MockSource {
	return NewMockSource(sampleRate, channels, frames, func(int, int) float32 { return 0 })
}

func NewSineSource(sampleRate, channels, frames int, frequency float64) *MockSource {
	return NewMockSource(sampleRate, channels, frames, func(frame int, _ int) float32 {
		t := float64(frame) / float64(sampleRate)
		return float32(math.Sin(2 * math.Pi * frequency * t))
	})
}

func NewConstantSource(sampleRate, channels, frames int, value float32) *MockSource {
	return NewMockSource(sampleRate, channels, frames, func(int, int) float32 { return value })
}

// NewRampSource yields frame/frames on every channel, plus channel/100 so
// channels can be told apart.
func NewRampSource(sampleRate, channels, frames int) *MockSource {
	return NewMockSource(sampleRate, channels, frames, func(frame int, ch int) float32 {
		return float32(frame)/float32(frames) + float32(ch)/100
	})
}

// ErrMockRead is returned by a source configured with FailAfter.
var ErrMockRead = errors.New("audiotest: read failed")

// FailAfter makes reads fail with ErrMockRead once frames frames were served.
func (m *MockSource) FailAfter(frames int) *MockSource {
	m.frames = frames
	m.readErr = ErrMockRead
	return m
}

func (m *MockSource) SampleRate() int { return m.sampleRate }
func (m *MockSource) Channels() int   { return m.channels }
func (m *MockSource) BufSize() int    { return 4096 }

func (m *MockSource) Close() error {
	m.closed = true
	return nil
}

// Closed reports whether Close was called.
func (m *MockSource) Closed() bool { return m.closed }

// Reset allows the source to be read again from the start.
func (m *MockSource) Reset() {
	m.generated = 0
}

func (m *MockSource) ReadSamples(dst []float32) (int, error) {
	if m.generated >= m.frames {
		if m.readErr != nil {
			return 0, m.readErr
		}
		return 0, io.EOF
	}

	toWrite := min(len(dst)/m.channels, m.frames-m.generated)

	for frame := range toWrite {
		for ch := range m.channels {
			dst[frame*m.channels+ch] = m.waveform(m.generated+frame, ch)
		}
	}

	m.generated += toWrite
	n := toWrite * m.channels

	if m.generated >= m.frames && m.readErr == nil {
		return n, io.EOF
	}

	return n, nil
}
