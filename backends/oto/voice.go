// SPDX-License-Identifier: EPL-2.0

package oto

import (
	"errors"
	"fmt"

	"github.com/ik5/audfx/audio"
	"github.com/ik5/audfx/engine"
	"github.com/ik5/audfx/internal/fxreverb"
)

type voice struct {
	dev  *Device
	clip *audio.Clip

	silence []float32
	queue   *queue
	rs      *audio.Resampler
	fx      *fxreverb.Processor
	out     *audio.ChannelMixer

	volume    float32
	running   bool
	destroyed bool
	scratch   []float32
}

func newVoice(d *Device, clip *audio.Clip, fx *fxreverb.Processor) *voice {
	q := &queue{channels: clip.Channels, rate: clip.SampleRate}
	rs := audio.NewResampler(q, engine.SampleRate)

	return &voice{
		dev:     d,
		clip:    clip,
		silence: make([]float32, engine.SilenceSamples(clip.Channels)),
		queue:   q,
		rs:      rs,
		fx:      fx,
		out:     audio.NewChannelMixer(&effectStage{src: rs, fx: fx}, d.layout.Channels()),
		volume:  1,
	}
}

func (v *voice) lock() error {
	v.dev.mtx.Lock()
	if v.destroyed {
		v.dev.mtx.Unlock()
		return errors.New("oto: voice destroyed")
	}

	return nil
}

func (v *voice) unlock() { v.dev.mtx.Unlock() }

func (v *voice) Play() error {
	if err := v.lock(); err != nil {
		return fmt.Errorf("%w: %w", engine.ErrBufferSubmit, err)
	}
	defer v.unlock()

	v.running = false
	v.queue.flush()
	if err := v.queue.submit(v.clip.Samples, v.silence); err != nil {
		return err
	}
	v.rs.Reset()
	v.fx.Reset()
	v.running = true

	return nil
}

func (v *voice) Stop() error {
	if err := v.lock(); err != nil {
		return err
	}
	defer v.unlock()

	v.running = false

	return nil
}

func (v *voice) SetVolume(vol float32) error {
	if err := v.lock(); err != nil {
		return err
	}
	defer v.unlock()

	v.volume = vol

	return nil
}

func (v *voice) SetFrequencyRatio(r float32) error {
	if err := v.lock(); err != nil {
		return err
	}
	defer v.unlock()

	if err := v.rs.SetRatio(float64(r)); err != nil {
		return fmt.Errorf("%w: %w", engine.ErrInvalidFrequencyRatio, err)
	}

	return nil
}

func (v *voice) SetEffectParameters(index int, block []byte) error {
	if err := v.lock(); err != nil {
		return err
	}
	defer v.unlock()

	if index != engine.ReverbIndex {
		return fmt.Errorf("oto: no effect at index %d", index)
	}

	return v.fx.SetParameters(block)
}

func (v *voice) EnableEffect(index int) error  { return v.enable(index, true) }
func (v *voice) DisableEffect(index int) error { return v.enable(index, false) }

func (v *voice) enable(index int, on bool) error {
	if err := v.lock(); err != nil {
		return err
	}
	defer v.unlock()

	if index != engine.ReverbIndex {
		return fmt.Errorf("oto: no effect at index %d", index)
	}
	v.fx.Enable(on)

	return nil
}

// Destroy detaches the voice from the mixer. Its buffers are released only
// after that, so the mixer never reads freed memory.
func (v *voice) Destroy() error {
	v.dev.mtx.Lock()
	defer v.dev.mtx.Unlock()

	if v.destroyed {
		return nil
	}
	v.running = false
	v.destroyed = true
	v.dev.remove(v)
	v.queue.flush()

	return nil
}

// mixInto adds the voice's next len(dst) samples to dst. The caller holds
// the device lock.
func (v *voice) mixInto(dst []float32) {
	if !v.running {
		return
	}

	if cap(v.scratch) < len(dst) {
		v.scratch = make([]float32, len(dst))
	}
	buf := v.scratch[:len(dst)]

	n, err := v.out.ReadSamples(buf)
	for i, s := range buf[:n] {
		dst[i] += s * v.volume
	}

	if err != nil {
		// io.EOF once the silence tail is played; either way the voice goes
		// quiet until the next Play
		v.running = false
	}
}

// effectStage runs the reverb over the resampled stream in place.
type effectStage struct {
	src audio.Source
	fx  *fxreverb.Processor
}

func (s *effectStage) SampleRate() int { return s.src.SampleRate() }
func (s *effectStage) Channels() int   { return s.src.Channels() }
func (s *effectStage) BufSize() int    { return s.src.BufSize() }
func (s *effectStage) Close() error    { return nil }

func (s *effectStage) ReadSamples(dst []float32) (int, error) {
	n, err := s.src.ReadSamples(dst)
	s.fx.Process(dst[:n])

	return n, err
}
