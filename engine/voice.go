// SPDX-License-Identifier: EPL-2.0

package engine

import "fmt"

// Voice is the playing instance of a loaded clip. It belongs to the Context
// that created it and becomes unusable once that context loads another clip
// or shuts down.
type Voice struct {
	ctx    *Context
	native NativeVoice

	playing bool
	volume  float32
	ratio   float32
}

func newVoice(ctx *Context, nv NativeVoice) *Voice {
	return &Voice{ctx: ctx, native: nv, volume: 1, ratio: 1}
}

// Playing reports whether Play succeeded since the voice was created. It
// stays true after the clip runs out.
func (v *Voice) Playing() bool           { return v.playing }
func (v *Voice) Volume() float32         { return v.volume }
func (v *Voice) FrequencyRatio() float32 { return v.ratio }

// Play stops the voice, flushes its queue, resubmits the clip followed by
// the silence tail and starts it again from the first frame.
func (v *Voice) Play() error {
	if v.native == nil {
		return ErrNoVoice
	}

	if err := v.native.Play(); err != nil {
		v.playing = false
		return fmt.Errorf("%w", err)
	}
	v.playing = true

	return nil
}

// Stop halts output without flushing.
func (v *Voice) Stop() error {
	if v.native == nil {
		return ErrNoVoice
	}

	if err := v.native.Stop(); err != nil {
		return fmt.Errorf("%w", err)
	}
	v.playing = false

	return nil
}

// SetVolume sets the linear amplitude multiplier; 1 is unity.
func (v *Voice) SetVolume(vol float32) error {
	if v.native == nil {
		return ErrNoVoice
	}
	if !validVolume(vol) {
		return fmt.Errorf("%w: %v", ErrInvalidVolume, vol)
	}

	if err := v.native.SetVolume(vol); err != nil {
		return fmt.Errorf("%w", err)
	}
	v.volume = vol

	return nil
}

// SetFrequencyRatio changes pitch and speed together; 2 is an octave up.
func (v *Voice) SetFrequencyRatio(r float32) error {
	if v.native == nil {
		return ErrNoVoice
	}
	if !validFrequencyRatio(r) {
		return fmt.Errorf("%w: %v not in (0, %d]", ErrInvalidFrequencyRatio, r, MaxFrequencyRatio)
	}

	if err := v.native.SetFrequencyRatio(r); err != nil {
		return fmt.Errorf("%w", err)
	}
	v.ratio = r

	return nil
}

func (v *Voice) setEffectEnabled(on bool) error {
	var err error
	if on {
		err = v.native.EnableEffect(ReverbIndex)
	} else {
		err = v.native.DisableEffect(ReverbIndex)
	}
	if err != nil {
		return fmt.Errorf("%w: %w", ErrEffectToggle, err)
	}

	return nil
}

func (v *Voice) setEffectParameters(block []byte) error {
	if err := v.native.SetEffectParameters(ReverbIndex, block); err != nil {
		return fmt.Errorf("%w: %w", ErrEffectParameters, err)
	}

	return nil
}

// destroy releases the native voice. The Voice keeps no reference to the
// context afterwards.
func (v *Voice) destroy() error {
	if v.native == nil {
		return nil
	}

	err := v.native.Destroy()
	v.native = nil
	v.ctx = nil
	v.playing = false

	if err != nil {
		return fmt.Errorf("destroying voice: %w", err)
	}

	return nil
}
