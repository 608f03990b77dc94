// SPDX-License-Identifier: EPL-2.0

package beep

import (
	"fmt"

	"github.com/ik5/audfx/engine"
)

// queue streams submitted mono or stereo buffers as beep stereo frames.
type queue struct {
	channels int
	bufs     [][]float32
	pos      int
}

func (q *queue) submit(buf []float32) error {
	if len(buf)%q.channels != 0 {
		return fmt.Errorf("%w: %d samples for %d channels", engine.ErrBufferSubmit, len(buf), q.channels)
	}

	q.bufs = append(q.bufs, buf)

	return nil
}

func (q *queue) flush() {
	clear(q.bufs)
	q.bufs = q.bufs[:0]
	q.pos = 0
}

func (q *queue) Stream(samples [][2]float64) (int, bool) {
	n := 0
	for n < len(samples) && len(q.bufs) > 0 {
		buf := q.bufs[0]
		for n < len(samples) && q.pos < len(buf) {
			l := float64(buf[q.pos])
			r := l
			if q.channels == 2 {
				r = float64(buf[q.pos+1])
			}
			samples[n] = [2]float64{l, r}
			q.pos += q.channels
			n++
		}

		if q.pos >= len(buf) {
			q.bufs[0] = nil
			q.bufs = q.bufs[1:]
			q.pos = 0
		}
	}

	return n, n > 0
}

func (q *queue) Err() error { return nil }
