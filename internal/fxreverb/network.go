// SPDX-License-Identifier: EPL-2.0

package fxreverb

import "math"

type comb struct {
	feedback    float32
	filterStore float32
	dampA       float32
	dampB       float32
	buffer      []float32
	index       int
}

func (c *comb) resize(n int) {
	if len(c.buffer) == n {
		return
	}
	c.buffer = reslice(c.buffer, n)
	c.index = 0
	c.filterStore = 0
}

func (c *comb) setDamp(v float32) {
	c.dampA = v
	c.dampB = 1 - v
}

func (c *comb) process(input float32) float32 {
	output := c.buffer[c.index]
	c.filterStore = output*c.dampB + c.filterStore*c.dampA
	if math.Abs(float64(c.filterStore)) < 1e-23 {
		c.filterStore = 0
	}
	c.buffer[c.index] = input + c.filterStore*c.feedback
	c.index++
	if c.index >= len(c.buffer) {
		c.index = 0
	}

	return output
}

func (c *comb) reset() {
	clear(c.buffer)
	c.index = 0
	c.filterStore = 0
}

type allpass struct {
	feedback float32
	buffer   []float32
	index    int
}

func (a *allpass) resize(n int) {
	if len(a.buffer) == n {
		return
	}
	a.buffer = reslice(a.buffer, n)
	a.index = 0
}

func (a *allpass) process(input float32) float32 {
	bufOut := a.buffer[a.index]
	output := bufOut - input
	a.buffer[a.index] = input + bufOut*a.feedback
	a.index++
	if a.index >= len(a.buffer) {
		a.index = 0
	}

	return output
}

func (a *allpass) reset() {
	clear(a.buffer)
	a.index = 0
}

// delay is a fixed-length FIFO; a zero length passes input through.
type delay struct {
	buffer []float32
	index  int
}

func (d *delay) resize(n int) {
	if len(d.buffer) == n {
		return
	}
	d.buffer = reslice(d.buffer, n)
	d.index = 0
}

func (d *delay) process(input float32) float32 {
	if len(d.buffer) == 0 {
		return input
	}
	output := d.buffer[d.index]
	d.buffer[d.index] = input
	d.index++
	if d.index >= len(d.buffer) {
		d.index = 0
	}

	return output
}

func (d *delay) reset() {
	clear(d.buffer)
	d.index = 0
}

// reslice returns an empty line of length n, reusing buf's backing array
// when it is large enough. Lines are reserved at their longest in New, so
// parameter changes do not allocate.
func reslice(buf []float32, n int) []float32 {
	if cap(buf) < n {
		return make([]float32, n)
	}

	buf = buf[:n]
	clear(buf)

	return buf
}
