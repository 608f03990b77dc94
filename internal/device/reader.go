// SPDX-License-Identifier: EPL-2.0

package device

import (
	"encoding/binary"
	"math"
)

// RenderFunc fills dst with interleaved frames. It must write every sample.
type RenderFunc func(dst []float32)

// NewPullReader adapts a frame renderer to the byte reader an Endpoint
// pulls. Reads of any length are served in full; a frame split across two
// reads is rendered once and its tail kept for the next call.
func NewPullReader(channels int, render RenderFunc) *PullReader {
	return &PullReader{
		channels: channels,
		render:   render,
		scratch:  make([]float32, 1024*channels),
	}
}

type PullReader struct {
	channels int
	render   RenderFunc
	scratch  []float32
	tail     []byte
	pending  []byte // unread part of tail
}

func (r *PullReader) Read(p []byte) (int, error) {
	n := copy(p, r.pending)
	r.pending = r.pending[n:]
	p = p[n:]

	frameBytes := r.channels * BytesPerSample
	for len(p) > 0 {
		frames := (len(p) + frameBytes - 1) / frameBytes
		frames = min(frames, len(r.scratch)/r.channels)
		buf := r.scratch[:frames*r.channels]
		r.render(buf)

		if full := frames * frameBytes; full <= len(p) {
			encode(p, buf)
			p = p[full:]
			n += full
			continue
		}

		// last frame only partly fits; pending is empty here so tail is free
		if cap(r.tail) < frames*frameBytes {
			r.tail = make([]byte, len(r.scratch)*BytesPerSample)
		}
		tail := r.tail[:frames*frameBytes]
		encode(tail, buf)
		c := copy(p, tail)
		r.pending = tail[c:]
		n += c
		p = p[c:]
	}

	return n, nil
}

func encode(dst []byte, src []float32) {
	for i, v := range src {
		binary.LittleEndian.PutUint32(dst[i*BytesPerSample:], math.Float32bits(v))
	}
}
