// SPDX-License-Identifier: EPL-2.0

package oto

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/ik5/audfx/audio"
	"github.com/ik5/audfx/engine"
	"github.com/ik5/audfx/internal/device"
	"github.com/ik5/audfx/internal/fxreverb"
)

// Backend opens devices on an output; the zero value plays through the
// sound card.
type Backend struct {
	Output device.Output
}

// New returns a backend on out, or on the sound card if out is nil.
func New(out device.Output) *Backend {
	return &Backend{Output: out}
}

func (b *Backend) Kind() engine.Kind { return engine.KindOto }

func (b *Backend) Open(layout engine.ChannelLayout) (engine.Device, error) {
	out := b.Output
	if out == nil {
		out = device.Oto{}
	}

	format := device.Format{SampleRate: engine.SampleRate, Channels: layout.Channels()}

	ep, err := out.Open(format)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", engine.ErrEngineInit, err)
	}

	d := &Device{
		layout:   layout,
		endpoint: ep,
	}

	d.stream, err = ep.Play(device.NewPullReader(format.Channels, d.render))
	if err != nil {
		return nil, errors.Join(fmt.Errorf("%w: %w", engine.ErrMasteringVoice, err), ep.Close())
	}

	return d, nil
}

// Device is an opened output plus the mixer that feeds it. mtx is the commit
// lock: the mixer holds it for each render and every voice call takes it.
type Device struct {
	layout   engine.ChannelLayout
	endpoint device.Endpoint
	stream   device.Stream

	mtx    sync.Mutex
	voices []*voice
	closed bool
}

func (d *Device) Layout() engine.ChannelLayout { return d.layout }

func (d *Device) NewVoice(clip *audio.Clip, chain engine.EffectChain) (engine.NativeVoice, error) {
	if err := clip.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", engine.ErrVoiceCreation, err)
	}
	if clip.Channels > fxreverb.MaxChannels {
		return nil, fmt.Errorf("%w: %d channels", engine.ErrVoiceCreation, clip.Channels)
	}
	// the chain cannot be added to a voice after creation here
	if len(chain) != 1 {
		return nil, fmt.Errorf("%w: need exactly one effect at creation, got %d",
			engine.ErrEffectAttach, len(chain))
	}

	fx, err := fxreverb.New(engine.SampleRate, clip.Channels)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", engine.ErrEffectAttach, err)
	}
	if err := fx.SetParameters(chain[engine.ReverbIndex].Parameters); err != nil {
		return nil, fmt.Errorf("%w: %w", engine.ErrEffectAttach, err)
	}
	fx.Enable(chain[engine.ReverbIndex].Enabled)

	v := newVoice(d, clip, fx)

	d.mtx.Lock()
	defer d.mtx.Unlock()

	if d.closed {
		return nil, fmt.Errorf("%w: device closed", engine.ErrVoiceCreation)
	}
	d.voices = append(d.voices, v)

	return v, nil
}

// Close stops the mastering stream, then the endpoint. Voices still alive
// are dropped.
func (d *Device) Close() error {
	d.mtx.Lock()
	if d.closed {
		d.mtx.Unlock()
		return nil
	}
	d.closed = true
	for _, v := range d.voices {
		v.running = false
	}
	d.voices = nil
	d.mtx.Unlock()

	return errors.Join(d.stream.Close(), d.endpoint.Close())
}

// render is the mastering voice: it sums every running voice into dst.
func (d *Device) render(dst []float32) {
	d.mtx.Lock()
	defer d.mtx.Unlock()

	clear(dst)
	for _, v := range d.voices {
		v.mixInto(dst)
	}
}

func (d *Device) remove(v *voice) {
	d.voices = slices.DeleteFunc(d.voices, func(q *voice) bool { return q == v })
}
