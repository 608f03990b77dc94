// SPDX-License-Identifier: EPL-2.0

package audfx

import (
	"errors"
	"fmt"

	"github.com/ik5/audfx/engine"
	"github.com/ik5/audfx/reverb"
	"github.com/ik5/audfx/samples"
)

var (
	ErrNoContext   = errors.New("audfx: no engine selected")
	ErrPresetIndex = errors.New("audfx: preset index out of range")
)

// CustomPreset is the preset index reported after ChangeEffect.
const CustomPreset = -1

// Player is the control surface over one engine.Context at a time. It keeps
// the user's settings so they survive engine switches and sample loads.
//
// A Player is not safe for concurrent use.
type Player struct {
	opts    Options
	samples engine.SampleSource
	ctx     *engine.Context

	// newBackend is NewBackend; tests replace it
	newBackend func(engine.Kind, Options) (engine.Backend, error)

	sample int
	stereo bool
	volume float32
	ratio  float32

	enabled bool
	preset  int
	params  reverb.Parameters
	test    *reverb.TestParameters
}

// NewPlayer returns a player with no engine selected. src resolves sample
// ids; it may be nil if only Context().Load is used.
func NewPlayer(src engine.SampleSource, opts Options) *Player {
	return &Player{
		opts:       opts,
		samples:    src,
		newBackend: NewBackend,
		sample:     samples.SnareDrum01,
		stereo:     true,
		volume:     1,
		ratio:      1,
		preset:     0,
		params:     reverb.PresetAt(0).Parameters,
	}
}

// Context is the current engine context, or nil.
func (p *Player) Context() *engine.Context { return p.ctx }

// SelectEngine switches to a new context on kind. The new context is built
// before the old one is shut down, so on failure the old one keeps playing.
// The current sample is then reloaded with the current reverb, volume and
// ratio; an error there is returned but the switch stands.
func (p *Player) SelectEngine(kind engine.Kind, layout engine.ChannelLayout) error {
	backend, err := p.newBackend(kind, p.opts)
	if err != nil {
		return err
	}

	opts := []engine.Option{engine.WithReverb(p.enabled, p.params)}
	if p.samples != nil {
		opts = append(opts, engine.WithSampleSource(p.samples))
	}

	ctx, err := engine.New(backend, layout, opts...)
	if err != nil {
		return fmt.Errorf("switching to %s (%s): %w", kind, layout, err)
	}

	var shutdownErr error
	if p.ctx != nil {
		shutdownErr = p.ctx.Shutdown()
	}
	p.ctx = ctx

	if p.samples == nil {
		return shutdownErr
	}

	return errors.Join(shutdownErr, p.reload())
}

// reload loads the current sample into the current context and reapplies
// the settings a fresh voice does not start with.
func (p *Player) reload() error {
	if err := p.ctx.LoadSample(p.sample, p.stereo); err != nil {
		return err
	}

	return p.reapply()
}

func (p *Player) reapply() error {
	var errs []error
	if p.test != nil {
		errs = append(errs, p.ctx.ChangeEffectTest(p.enabled, *p.test))
	}
	if p.volume != 1 {
		errs = append(errs, p.ctx.SetVolume(p.volume))
	}
	if p.ratio != 1 {
		errs = append(errs, p.ctx.SetFrequencyRatio(p.ratio))
	}

	return errors.Join(errs...)
}

// LoadSample replaces the playing sample. If the sample cannot be fetched
// the previous one stays loaded and selected.
func (p *Player) LoadSample(id int, stereo bool) error {
	if p.ctx == nil {
		return ErrNoContext
	}

	if err := p.ctx.LoadSample(id, stereo); err != nil {
		if p.ctx.Voice() == nil {
			// the old voice is gone; the new selection is what a retry loads
			p.sample, p.stereo = id, stereo
		}
		return err
	}
	p.sample, p.stereo = id, stereo

	return p.reapply()
}

// SelectSample is LoadSample when an engine is selected. Before that it only
// records the sample the first SelectEngine loads.
func (p *Player) SelectSample(id int, stereo bool) error {
	if p.ctx == nil {
		p.sample, p.stereo = id, stereo
		return nil
	}

	return p.LoadSample(id, stereo)
}

func (p *Player) Play() error {
	if p.ctx == nil {
		return ErrNoContext
	}

	return p.ctx.Play()
}

// SetVolume sets the voice volume and keeps it for later loads.
func (p *Player) SetVolume(v float32) error {
	if p.ctx == nil {
		return ErrNoContext
	}
	if err := p.ctx.SetVolume(v); err != nil {
		return err
	}
	p.volume = v

	return nil
}

// SetFrequencyRatio sets the playback ratio and keeps it for later loads.
func (p *Player) SetFrequencyRatio(r float32) error {
	if p.ctx == nil {
		return ErrNoContext
	}
	if err := p.ctx.SetFrequencyRatio(r); err != nil {
		return err
	}
	p.ratio = r

	return nil
}

// ChangeEffect applies a native parameter block.
func (p *Player) ChangeEffect(enabled bool, params reverb.Parameters) error {
	return p.changeEffect(enabled, params, CustomPreset)
}

// ChangeEffectTest applies a tunable parameter block.
func (p *Player) ChangeEffectTest(enabled bool, t reverb.TestParameters) error {
	if p.ctx == nil {
		return ErrNoContext
	}
	if err := t.Validate(); err != nil {
		return fmt.Errorf("%w: %w", engine.ErrEffectParameters, err)
	}

	err := p.ctx.ChangeEffectTest(enabled, t)
	p.store(enabled, t.Native(), CustomPreset)
	p.test = &t

	return err
}

// ApplyPreset applies preset i of the reverb preset table.
func (p *Player) ApplyPreset(i int, enabled bool) error {
	if i < 0 || i >= reverb.PresetCount {
		return fmt.Errorf("%w: %d", ErrPresetIndex, i)
	}

	return p.changeEffect(enabled, reverb.PresetAt(i).Parameters, i)
}

// SetReverbEnabled toggles the reverb and keeps the current parameters.
func (p *Player) SetReverbEnabled(enabled bool) error {
	if p.test != nil {
		return p.ChangeEffectTest(enabled, *p.test)
	}

	return p.changeEffect(enabled, p.params, p.preset)
}

func (p *Player) changeEffect(enabled bool, params reverb.Parameters, preset int) error {
	if p.ctx == nil {
		return ErrNoContext
	}
	if err := params.Validate(); err != nil {
		return fmt.Errorf("%w: %w", engine.ErrEffectParameters, err)
	}

	// the context keeps params even when the voice rejects them
	err := p.ctx.ChangeEffect(enabled, params)
	p.store(enabled, params, preset)

	return err
}

func (p *Player) store(enabled bool, params reverb.Parameters, preset int) {
	p.enabled = enabled
	p.params = params
	p.test = nil
	p.preset = preset
}

// Shutdown tears down the current context. It is safe to call repeatedly.
func (p *Player) Shutdown() error {
	if p.ctx == nil {
		return nil
	}

	err := p.ctx.Shutdown()
	p.ctx = nil

	return err
}

// Status is a snapshot of the player for display.
type Status struct {
	Engine        engine.Kind
	Layout        engine.ChannelLayout
	Active        bool
	Loaded        bool
	Playing       bool
	Sample        int
	Stereo        bool
	Volume        float32
	Ratio         float32
	ReverbEnabled bool
	Preset        int
	Parameters    reverb.Parameters
	// Tuned is set when the last change carried tuning overrides.
	Tuned bool
}

func (p *Player) Status() Status {
	s := Status{
		Sample:        p.sample,
		Stereo:        p.stereo,
		Volume:        p.volume,
		Ratio:         p.ratio,
		ReverbEnabled: p.enabled,
		Preset:        p.preset,
		Parameters:    p.params,
		Tuned:         p.test != nil && p.test.Tuned(),
	}

	if p.ctx != nil {
		s.Active = true
		s.Engine = p.ctx.Kind()
		s.Layout = p.ctx.Layout()
		if v := p.ctx.Voice(); v != nil {
			s.Loaded = true
			s.Playing = v.Playing()
		}
	}

	return s
}
