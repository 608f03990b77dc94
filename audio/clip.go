// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
	"io"
	"time"
)

// Clip is a fully decoded sample held in memory as interleaved float32.
type Clip struct {
	Samples    []float32
	Channels   int
	SampleRate int
}

// NewClip wraps samples without copying them.
func NewClip(samples []float32, channels, sampleRate int) (*Clip, error) {
	c := &Clip{Samples: samples, Channels: channels, SampleRate: sampleRate}
	if err := c.Validate(); err != nil {
		return nil, err
	}

	return c, nil
}

// Validate checks the format fields and that Samples holds whole frames.
func (c *Clip) Validate() error {
	switch {
	case c == nil:
		return fmt.Errorf("%w: nil", ErrInvalidClip)
	case c.Channels <= 0:
		return fmt.Errorf("%w: %d channels", ErrInvalidClip, c.Channels)
	case c.SampleRate <= 0:
		return fmt.Errorf("%w: sample rate %d", ErrInvalidClip, c.SampleRate)
	case len(c.Samples)%c.Channels != 0:
		return fmt.Errorf("%w: %d samples is not a multiple of %d channels",
			ErrInvalidClip, len(c.Samples), c.Channels)
	}

	return nil
}

// Frames is the number of interleaved frames.
func (c *Clip) Frames() int {
	if c.Channels == 0 {
		return 0
	}

	return len(c.Samples) / c.Channels
}

func (c *Clip) Duration() time.Duration {
	if c.SampleRate == 0 {
		return 0
	}

	return time.Duration(c.Frames()) * time.Second / time.Duration(c.SampleRate)
}

// ReadClip drains src into a Clip and closes it. A trailing partial frame is
// dropped.
func ReadClip(src Source) (*Clip, error) {
	channels := src.Channels()
	rate := src.SampleRate()

	size := src.BufSize()
	if size <= 0 {
		size = 4096
	}
	size -= size % max(channels, 1)
	if size == 0 {
		size = max(channels, 1)
	}
	buf := make([]float32, size)

	var samples []float32
	var readErr error
	for {
		n, err := src.ReadSamples(buf)
		samples = append(samples, buf[:n]...)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			readErr = fmt.Errorf("%w", err)
			break
		}
		if n == 0 {
			break
		}
	}

	closeErr := src.Close()
	if readErr != nil {
		return nil, readErr
	}
	if closeErr != nil {
		return nil, fmt.Errorf("%w", closeErr)
	}

	if channels > 0 {
		samples = samples[:len(samples)-len(samples)%channels]
	}

	return NewClip(samples, channels, rate)
}
