// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
	"io"

	"github.com/ik5/audfx/utils"
)

// Resampler streams from src to a target sample rate using cubic
// interpolation, optionally speeding playback up or down by a ratio.
// Works on interleaved samples; preserves channel count.
// Includes basic anti-aliasing filtering when it consumes source frames
// faster than it produces output.
type Resampler struct {
	src      Source
	srcRate  float64
	dstRate  float64
	speed    float64
	step     float64 // source frames consumed per output frame
	channels int

	// frames[1] and frames[2] bracket the output position; frames[0] and
	// frames[3] are the outer Catmull-Rom points.
	frames [4][]float32
	valid  [4]bool
	primed bool

	// Position between frames[1] and frames[2], in source frames
	pos float64

	srcBuf []float32
	eof    bool

	filterState  []float32
	filterPrimed bool
	filterAlpha  float32
}

func NewResampler(src Source, dstRate int) *Resampler {
	channels := src.Channels()

	r := &Resampler{
		src:         src,
		srcRate:     float64(src.SampleRate()),
		dstRate:     float64(dstRate),
		speed:       1,
		channels:    channels,
		srcBuf:      make([]float32, channels),
		filterState: make([]float32, channels),
		// one-pole low-pass, cutoff roughly at the destination Nyquist
		filterAlpha: 0.5,
	}
	r.step = r.srcRate / r.dstRate

	for i := range r.frames {
		r.frames[i] = make([]float32, channels)
	}

	return r
}

func (r *Resampler) SampleRate() int { return int(r.dstRate) }
func (r *Resampler) Channels() int   { return r.channels }
func (r *Resampler) BufSize() int    { return r.src.BufSize() }

func (r *Resampler) Close() error {
	err := r.src.Close()
	if err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}

// SetRatio sets the playback speed: 2 plays twice as fast and an octave up.
// The change applies from the next output frame.
func (r *Resampler) SetRatio(speed float64) error {
	if !(speed > 0) {
		return fmt.Errorf("%w: %v", ErrInvalidRatio, speed)
	}

	r.speed = speed
	r.step = r.srcRate / r.dstRate * speed

	return nil
}

// Ratio is the playback speed set by SetRatio.
func (r *Resampler) Ratio() float64 { return r.speed }

// Reset drops all buffered frames and filter history. Call it after the
// source has been rewound or replaced.
func (r *Resampler) Reset() {
	for i := range r.frames {
		clear(r.frames[i])
		r.valid[i] = false
	}
	clear(r.filterState)
	r.filterPrimed = false
	r.primed = false
	r.pos = 0
	r.eof = false
}

// readFrame reads one source frame into dst and reports whether it got one.
func (r *Resampler) readFrame(dst []float32) (bool, error) {
	if r.eof {
		return false, nil
	}

	n, err := r.src.ReadSamples(r.srcBuf)
	ok := n >= r.channels
	if ok {
		copy(dst, r.srcBuf)
		if r.step > 1 {
			r.lowpass(dst)
		}
	}

	if errors.Is(err, io.EOF) {
		r.eof = true
	} else if err != nil {
		return ok, fmt.Errorf("%w", err)
	}

	return ok, nil
}

func (r *Resampler) lowpass(frame []float32) {
	if !r.filterPrimed {
		// start from the first sample to avoid a warm-up transient
		copy(r.filterState, frame)
		r.filterPrimed = true
	}

	for c := range frame {
		frame[c] = r.filterAlpha*frame[c] + (1-r.filterAlpha)*r.filterState[c]
		r.filterState[c] = frame[c]
	}
}

func (r *Resampler) prime() error {
	ok, err := r.readFrame(r.frames[1])
	if err != nil {
		return err
	}
	if !ok {
		return io.EOF
	}

	copy(r.frames[0], r.frames[1])
	r.valid[0], r.valid[1] = true, true

	for i := 2; i < 4; i++ {
		ok, err := r.readFrame(r.frames[i])
		if err != nil {
			return err
		}
		if !ok {
			copy(r.frames[i], r.frames[i-1])
		}
		r.valid[i] = ok
	}

	r.primed = true

	return nil
}

// advance shifts the window one source frame forward.
func (r *Resampler) advance() error {
	copy(r.frames[0], r.frames[1])
	copy(r.frames[1], r.frames[2])
	copy(r.frames[2], r.frames[3])
	r.valid[0], r.valid[1], r.valid[2] = r.valid[1], r.valid[2], r.valid[3]

	ok, err := r.readFrame(r.frames[3])
	if err != nil {
		return err
	}
	if !ok {
		copy(r.frames[3], r.frames[2])
	}
	r.valid[3] = ok

	return nil
}

// ReadSamples produces dst samples at the destination rate.
// dst length should be a multiple of r.channels.
func (r *Resampler) ReadSamples(dst []float32) (int, error) {
	if len(dst)%r.channels != 0 {
		return 0, ErrInvalidDstSize
	}

	if !r.primed {
		if err := r.prime(); err != nil {
			return 0, err
		}
	}

	written := 0
	framesNeeded := len(dst) / r.channels

	for written < framesNeeded {
		for r.pos >= 1.0 {
			r.pos -= 1.0
			if err := r.advance(); err != nil {
				return written * r.channels, err
			}
		}

		if !r.valid[1] {
			return written * r.channels, io.EOF
		}

		alpha := float32(r.pos)
		out := dst[written*r.channels:]
		for c := range r.channels {
			out[c] = utils.CubicInterpolate(r.frames[0][c], r.frames[1][c], r.frames[2][c], r.frames[3][c], alpha)
		}

		written++
		r.pos += r.step
	}

	return written * r.channels, nil
}
