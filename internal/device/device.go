// SPDX-License-Identifier: EPL-2.0

// Package device abstracts the process audio output that the backends'
// mastering mixers are pulled by.
//
// An Output is the engine: Open fixes the stream format and returns an
// Endpoint. An Endpoint pulls interleaved float32 little-endian frames from
// the readers handed to Play until the returned Stream is closed.
//
// Two outputs exist. Oto drives the sound card through a single shared oto
// context; Manual never pulls on its own and is advanced with Pull, which is
// how offline rendering and the tests drive the mixers.
package device

import (
	"errors"
	"fmt"
	"io"
)

var (
	ErrOpen           = errors.New("device: cannot open audio output")
	ErrFormatMismatch = errors.New("device: output already running with another format")
	ErrInvalidFormat  = errors.New("device: invalid format")
	ErrClosed         = errors.New("device: endpoint closed")
	ErrIdle           = errors.New("device: no stream to pull from")
)

// BytesPerSample is the size of one float32 sample on the wire.
const BytesPerSample = 4

// Format is the interleaved float32 stream layout.
type Format struct {
	SampleRate int
	Channels   int
}

func (f Format) String() string {
	return fmt.Sprintf("%d Hz/%d ch", f.SampleRate, f.Channels)
}

// Validate rejects non-positive rates and channel counts.
func (f Format) Validate() error {
	if f.SampleRate <= 0 || f.Channels <= 0 {
		return fmt.Errorf("%w: %s", ErrInvalidFormat, f)
	}

	return nil
}

// FrameBytes is the byte size of one interleaved frame.
func (f Format) FrameBytes() int { return f.Channels * BytesPerSample }

type Output interface {
	Open(f Format) (Endpoint, error)
}

type Endpoint interface {
	Format() Format
	// Play starts pulling from r. r must always fill the requested length.
	Play(r io.Reader) (Stream, error)
	// Close stops every stream started on the endpoint.
	Close() error
}

type Stream interface {
	Close() error
}
