// SPDX-License-Identifier: EPL-2.0

package engine

import (
	"errors"
	"fmt"

	"github.com/ik5/audfx/audio"
	"github.com/ik5/audfx/reverb"
)

// State is the lifecycle stage of a Context.
type State int

const (
	StateUninitialized State = iota
	StateReady
	StateLoaded
	StateDestroyed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateReady:
		return "ready"
	case StateLoaded:
		return "loaded"
	case StateDestroyed:
		return "destroyed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Option configures a Context at construction.
type Option func(*Context)

// WithSampleSource sets where LoadSample finds clips.
func WithSampleSource(s SampleSource) Option {
	return func(c *Context) { c.samples = s }
}

// WithReverb sets the reverb state new voices start with.
func WithReverb(enabled bool, p reverb.Parameters) Option {
	return func(c *Context) {
		c.enabled = enabled
		c.block, _ = p.MarshalBinary()
	}
}

// Context owns one device, the loaded clip, at most one voice and the reverb
// settings every voice is created with.
//
// A Context is not safe for concurrent use.
type Context struct {
	backend Backend
	device  Device
	layout  ChannelLayout
	samples SampleSource
	state   State

	clip  *audio.Clip
	voice *Voice

	// block is the last parameter block sent, native or test sized.
	block   []byte
	enabled bool
}

// New opens a device on backend. On failure no context exists and the error
// wraps ErrEngineInit or ErrMasteringVoice, or ErrEffectParameters when the
// WithReverb parameters are out of range.
func New(backend Backend, layout ChannelLayout, opts ...Option) (*Context, error) {
	c := &Context{
		backend: backend,
		layout:  layout,
	}
	c.block, _ = reverb.DefaultParameters().MarshalBinary()

	for _, opt := range opts {
		opt(c)
	}

	t, err := reverb.ParseBlock(c.block)
	if err == nil {
		err = t.Validate()
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEffectParameters, err)
	}

	dev, err := backend.Open(layout)
	if err != nil {
		return nil, fmt.Errorf("%s backend: %w", backend.Kind(), err)
	}

	c.device = dev
	c.state = StateReady

	return c, nil
}

func (c *Context) Kind() Kind            { return c.backend.Kind() }
func (c *Context) Layout() ChannelLayout { return c.layout }
func (c *Context) State() State          { return c.state }
func (c *Context) Clip() *audio.Clip     { return c.clip }
func (c *Context) ReverbEnabled() bool   { return c.enabled }
func (c *Context) Voice() *Voice         { return c.voice }

// ReverbParameters is the native view of the stored parameter block.
func (c *Context) ReverbParameters() reverb.Parameters {
	t, _ := reverb.ParseBlock(c.block)
	return t.Native()
}

// ReverbTestParameters is the stored block in its tunable form. A native
// block comes back with no tuning.
func (c *Context) ReverbTestParameters() reverb.TestParameters {
	t, _ := reverb.ParseBlock(c.block)
	return t
}

// LoadSample fetches id from the sample source and loads it. A fetch or
// decode failure leaves the current voice in place.
func (c *Context) LoadSample(id int, stereo bool) error {
	if c.state == StateDestroyed {
		return ErrClosed
	}
	if c.samples == nil {
		return ErrNoSampleSource
	}

	clip, err := c.samples.Load(id, stereo)
	if err != nil {
		return fmt.Errorf("loading sample %d: %w", id, err)
	}

	return c.Load(clip)
}

// Load replaces the current voice with one playing clip. The old voice is
// destroyed before the new one is created; if creation fails the context is
// left without a voice.
func (c *Context) Load(clip *audio.Clip) error {
	if c.state == StateDestroyed {
		return ErrClosed
	}
	if err := clip.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrVoiceCreation, err)
	}

	var destroyErr error
	if c.voice != nil {
		destroyErr = c.voice.destroy()
		c.voice = nil
		c.clip = nil
		c.state = StateReady
	}

	chain := EffectChain{{Enabled: c.enabled, Parameters: c.block}}
	nv, err := c.device.NewVoice(clip, chain)
	if err != nil {
		return errors.Join(destroyErr, err)
	}

	c.clip = clip
	c.voice = newVoice(c, nv)
	c.state = StateLoaded

	return destroyErr
}

// Play restarts the loaded clip from its first frame.
func (c *Context) Play() error {
	v, err := c.live()
	if err != nil {
		return err
	}

	return v.Play()
}

func (c *Context) SetVolume(v float32) error {
	voice, err := c.live()
	if err != nil {
		return err
	}

	return voice.SetVolume(v)
}

func (c *Context) SetFrequencyRatio(r float32) error {
	voice, err := c.live()
	if err != nil {
		return err
	}

	return voice.SetFrequencyRatio(r)
}

// ChangeEffect stores p and pushes it to the live voice. The effect is
// toggled only when enabled differs from the stored flag. Parameters are sent
// even while the effect is disabled so re-enabling resumes with them.
//
// Without a voice the settings are only stored; the next Load applies them.
func (c *Context) ChangeEffect(enabled bool, p reverb.Parameters) error {
	if err := p.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrEffectParameters, err)
	}

	block, _ := p.MarshalBinary()

	return c.changeEffect(enabled, block)
}

// ChangeEffectTest is ChangeEffect with the tunable parameter block.
func (c *Context) ChangeEffectTest(enabled bool, t reverb.TestParameters) error {
	if err := t.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrEffectParameters, err)
	}

	block, _ := t.MarshalBinary()

	return c.changeEffect(enabled, block)
}

func (c *Context) changeEffect(enabled bool, block []byte) error {
	if c.state == StateDestroyed {
		return ErrClosed
	}

	c.block = block

	if c.voice == nil {
		c.enabled = enabled
		return nil
	}

	// the flag follows the native effect, so a failed toggle is retried
	// by the next call with the same state
	var toggleErr error
	if enabled != c.enabled {
		toggleErr = c.voice.setEffectEnabled(enabled)
		if toggleErr == nil {
			c.enabled = enabled
		}
	}

	return errors.Join(toggleErr, c.voice.setEffectParameters(block))
}

// Shutdown destroys the voice, then the device. Later calls do nothing.
func (c *Context) Shutdown() error {
	if c.state == StateDestroyed {
		return nil
	}

	var errs []error
	if c.voice != nil {
		errs = append(errs, c.voice.destroy())
		c.voice = nil
	}
	if c.device != nil {
		if err := c.device.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing %s device: %w", c.Kind(), err))
		}
		c.device = nil
	}

	c.clip = nil
	c.state = StateDestroyed

	return errors.Join(errs...)
}

func (c *Context) live() (*Voice, error) {
	if c.state == StateDestroyed {
		return nil, ErrClosed
	}
	if c.voice == nil {
		return nil, ErrNoVoice
	}

	return c.voice, nil
}
