// SPDX-License-Identifier: EPL-2.0

package beep

import (
	"errors"
	"fmt"
	"math"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/ik5/audfx/audio"
	"github.com/ik5/audfx/engine"
	"github.com/ik5/audfx/internal/fxreverb"
)

// resampleQuality is the beep.Resampler interpolation width.
const resampleQuality = 4

var errDestroyed = errors.New("beep: voice destroyed")

// voice is added to the master mixer once and stays there until Destroy;
// the mixer drops it on the first Stream after that.
type voice struct {
	dev  *Device
	clip *audio.Clip

	silence []float32
	queue   *queue
	rs      *beep.Resampler
	ratio   float64

	fx    *fxreverb.Processor
	fxBuf []float32

	volume *effects.Volume
	ctrl   *beep.Ctrl

	drained   bool
	destroyed bool
}

func newVoice(d *Device, clip *audio.Clip) *voice {
	v := &voice{
		dev:     d,
		clip:    clip,
		silence: make([]float32, engine.SilenceSamples(clip.Channels)),
		queue:   &queue{channels: clip.Channels},
		ratio:   1,
	}

	v.volume = &effects.Volume{
		Streamer: beep.StreamerFunc(v.streamEffect),
		Base:     2,
	}
	v.ctrl = &beep.Ctrl{Streamer: v.volume, Paused: true}
	v.rs = v.newResampler()

	return v
}

// newResampler converts from the clip rate to the mixing rate, scaled by
// the playback ratio.
func (v *voice) newResampler() *beep.Resampler {
	return beep.ResampleRatio(resampleQuality, v.baseRatio()*v.ratio, v.queue)
}

func (v *voice) baseRatio() float64 {
	return float64(v.clip.SampleRate) / engine.SampleRate
}

func (v *voice) attach(chain engine.EffectChain) error {
	if len(chain) == 0 {
		return nil
	}
	if len(chain) > 1 {
		return fmt.Errorf("beep: one effect supported, got %d", len(chain))
	}

	fx, err := fxreverb.New(engine.SampleRate, 2)
	if err != nil {
		return err
	}
	if err := fx.SetParameters(chain[engine.ReverbIndex].Parameters); err != nil {
		return err
	}
	fx.Enable(chain[engine.ReverbIndex].Enabled)

	v.dev.mtx.Lock()
	defer v.dev.mtx.Unlock()

	v.fx = fx

	return nil
}

// Stream is what the master mixer pulls. A live voice always fills samples
// so the mixer keeps it.
func (v *voice) Stream(samples [][2]float64) (int, bool) {
	if v.destroyed {
		return 0, false
	}

	n := 0
	if !v.ctrl.Paused {
		var ok bool
		n, ok = v.ctrl.Stream(samples)
		if !ok || n < len(samples) {
			v.drained = true
			v.ctrl.Paused = true
		}
	}
	clear(samples[n:])

	return len(samples), true
}

func (v *voice) Err() error { return nil }

// streamEffect pulls the resampler and runs the reverb over the result.
func (v *voice) streamEffect(samples [][2]float64) (int, bool) {
	if v.drained {
		return 0, false
	}

	n, ok := v.rs.Stream(samples)
	if v.fx == nil || !v.fx.Enabled() || n == 0 {
		return n, ok
	}

	if cap(v.fxBuf) < 2*n {
		v.fxBuf = make([]float32, 2*n)
	}
	buf := v.fxBuf[:2*n]
	for i, f := range samples[:n] {
		buf[2*i] = float32(f[0])
		buf[2*i+1] = float32(f[1])
	}
	v.fx.Process(buf)
	for i := range samples[:n] {
		samples[i] = [2]float64{float64(buf[2*i]), float64(buf[2*i+1])}
	}

	return n, ok
}

func (v *voice) lock() error {
	v.dev.mtx.Lock()
	if v.destroyed {
		v.dev.mtx.Unlock()
		return errDestroyed
	}

	return nil
}

func (v *voice) unlock() { v.dev.mtx.Unlock() }

// Play stops and flushes the voice, then queues the clip and the silence
// tail as separate submissions.
func (v *voice) Play() error {
	if err := v.lock(); err != nil {
		return fmt.Errorf("%w: %w", engine.ErrBufferSubmit, err)
	}
	defer v.unlock()

	v.ctrl.Paused = true
	v.queue.flush()

	if err := v.queue.submit(v.clip.Samples); err != nil {
		return err
	}
	if err := v.queue.submit(v.silence); err != nil {
		v.queue.flush()
		return err
	}

	v.rs = v.newResampler()
	if v.fx != nil {
		v.fx.Reset()
	}
	v.drained = false
	v.ctrl.Paused = false

	return nil
}

func (v *voice) Stop() error {
	if err := v.lock(); err != nil {
		return err
	}
	defer v.unlock()

	v.ctrl.Paused = true

	return nil
}

// SetVolume maps the linear amplitude onto effects.Volume's base-2 scale.
func (v *voice) SetVolume(vol float32) error {
	if err := v.lock(); err != nil {
		return err
	}
	defer v.unlock()

	if vol <= 0 {
		v.volume.Silent = true
		return nil
	}
	v.volume.Silent = false
	v.volume.Volume = math.Log2(float64(vol))

	return nil
}

func (v *voice) SetFrequencyRatio(r float32) error {
	if !(r > 0) {
		return fmt.Errorf("%w: %v", engine.ErrInvalidFrequencyRatio, r)
	}

	if err := v.lock(); err != nil {
		return err
	}
	defer v.unlock()

	v.ratio = float64(r)
	v.rs.SetRatio(v.baseRatio() * v.ratio)

	return nil
}

func (v *voice) SetEffectParameters(index int, block []byte) error {
	if err := v.lock(); err != nil {
		return err
	}
	defer v.unlock()

	fx, err := v.effect(index)
	if err != nil {
		return err
	}

	return fx.SetParameters(block)
}

func (v *voice) EnableEffect(index int) error  { return v.enable(index, true) }
func (v *voice) DisableEffect(index int) error { return v.enable(index, false) }

func (v *voice) enable(index int, on bool) error {
	if err := v.lock(); err != nil {
		return err
	}
	defer v.unlock()

	fx, err := v.effect(index)
	if err != nil {
		return err
	}
	fx.Enable(on)

	return nil
}

func (v *voice) effect(index int) (*fxreverb.Processor, error) {
	if index != engine.ReverbIndex || v.fx == nil {
		return nil, fmt.Errorf("beep: no effect at index %d", index)
	}

	return v.fx, nil
}

// Destroy marks the voice so the mixer drops it on its next pass; buffers
// are flushed under the same lock the mixer streams under.
func (v *voice) Destroy() error {
	v.dev.mtx.Lock()
	defer v.dev.mtx.Unlock()

	if v.destroyed {
		return nil
	}
	v.destroyed = true
	v.ctrl.Paused = true
	v.queue.flush()
	if !v.dev.closed {
		v.dev.live--
	}

	return nil
}
