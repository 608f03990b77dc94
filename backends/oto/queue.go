// SPDX-License-Identifier: EPL-2.0

package oto

import (
	"fmt"
	"io"

	"github.com/ik5/audfx/engine"
)

// queue is a voice's buffer queue read as an audio.Source. Buffers are
// referenced, never copied.
type queue struct {
	channels int
	rate     int
	bufs     [][]float32
	pos      int // offset into bufs[0]
}

func (q *queue) SampleRate() int { return q.rate }
func (q *queue) Channels() int   { return q.channels }
func (q *queue) BufSize() int    { return 4096 }
func (q *queue) Close() error    { return nil }

// submit appends bufs as one submission; nothing is queued if any is
// malformed.
func (q *queue) submit(bufs ...[]float32) error {
	for i, b := range bufs {
		if len(b)%q.channels != 0 {
			return fmt.Errorf("%w: buffer %d holds %d samples for %d channels",
				engine.ErrBufferSubmit, i, len(b), q.channels)
		}
	}

	q.bufs = append(q.bufs, bufs...)

	return nil
}

// flush drops every queued buffer.
func (q *queue) flush() {
	clear(q.bufs)
	q.bufs = q.bufs[:0]
	q.pos = 0
}

func (q *queue) ReadSamples(dst []float32) (int, error) {
	n := 0
	for n < len(dst) && len(q.bufs) > 0 {
		c := copy(dst[n:], q.bufs[0][q.pos:])
		n += c
		q.pos += c
		if q.pos == len(q.bufs[0]) {
			q.bufs[0] = nil
			q.bufs = q.bufs[1:]
			q.pos = 0
		}
	}

	if len(q.bufs) == 0 {
		return n, io.EOF
	}

	return n, nil
}
