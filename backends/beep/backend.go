// SPDX-License-Identifier: EPL-2.0

package beep

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gopxl/beep"
	"github.com/ik5/audfx/audio"
	"github.com/ik5/audfx/engine"
	"github.com/ik5/audfx/internal/device"
)

// Backend opens beep mixer graphs on an output; the zero value plays through
// the sound card.
type Backend struct {
	Output device.Output
}

// New returns a backend on out, or on the sound card if out is nil.
func New(out device.Output) *Backend {
	return &Backend{Output: out}
}

func (b *Backend) Kind() engine.Kind { return engine.KindBeep }

func (b *Backend) Open(layout engine.ChannelLayout) (engine.Device, error) {
	out := b.Output
	if out == nil {
		out = device.Oto{}
	}

	ep, err := out.Open(device.Format{SampleRate: engine.SampleRate, Channels: 2})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", engine.ErrEngineInit, err)
	}

	if layout != engine.LayoutStereo {
		return nil, errors.Join(
			fmt.Errorf("%w: beep mixes in stereo only, not %s", engine.ErrMasteringVoice, layout),
			ep.Close())
	}

	d := &Device{
		endpoint: ep,
		master:   &beep.Mixer{},
	}

	d.stream, err = ep.Play(device.NewPullReader(2, d.render))
	if err != nil {
		return nil, errors.Join(fmt.Errorf("%w: %w", engine.ErrMasteringVoice, err), ep.Close())
	}

	return d, nil
}

// Device is an opened output whose mastering voice is a beep.Mixer. mtx is
// the commit lock held while the mixer streams.
type Device struct {
	endpoint device.Endpoint
	stream   device.Stream

	mtx    sync.Mutex
	master *beep.Mixer
	frames [][2]float64
	closed bool
	live   int
}

func (d *Device) Layout() engine.ChannelLayout { return engine.LayoutStereo }

// NewVoice creates the voice bare, then attaches chain to it.
func (d *Device) NewVoice(clip *audio.Clip, chain engine.EffectChain) (engine.NativeVoice, error) {
	if err := clip.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", engine.ErrVoiceCreation, err)
	}
	if clip.Channels > 2 {
		return nil, fmt.Errorf("%w: %d channels on a stereo graph", engine.ErrVoiceCreation, clip.Channels)
	}

	d.mtx.Lock()
	if d.closed {
		d.mtx.Unlock()
		return nil, fmt.Errorf("%w: device closed", engine.ErrVoiceCreation)
	}
	v := newVoice(d, clip)
	d.master.Add(v)
	d.live++
	d.mtx.Unlock()

	if err := v.attach(chain); err != nil {
		return nil, errors.Join(fmt.Errorf("%w: %w", engine.ErrEffectAttach, err), v.Destroy())
	}

	return v, nil
}

// Close stops the mastering stream, then the endpoint.
func (d *Device) Close() error {
	d.mtx.Lock()
	if d.closed {
		d.mtx.Unlock()
		return nil
	}
	d.closed = true
	d.master.Clear()
	d.live = 0
	d.mtx.Unlock()

	return errors.Join(d.stream.Close(), d.endpoint.Close())
}

// render streams the mixer into dst as interleaved stereo.
func (d *Device) render(dst []float32) {
	d.mtx.Lock()
	defer d.mtx.Unlock()

	frames := len(dst) / 2
	if cap(d.frames) < frames {
		d.frames = make([][2]float64, frames)
	}
	buf := d.frames[:frames]

	n, _ := d.master.Stream(buf)
	clear(buf[n:])

	for i, f := range buf {
		dst[2*i] = float32(f[0])
		dst[2*i+1] = float32(f[1])
	}
}
