// SPDX-License-Identifier: EPL-2.0

// Package enginetest provides a recording engine.Backend for tests of code
// built on engine.Context.
package enginetest

import (
	"bytes"
	"errors"
	"fmt"
	"sync"

	"github.com/ik5/audfx/audio"
	"github.com/ik5/audfx/engine"
)

// Backend records every call made through the devices and voices it opens.
// Set the Fail fields to inject errors; each wraps the matching engine
// sentinel.
type Backend struct {
	Name engine.Kind

	FailOpen       bool
	FailMastering  bool
	FailVoice      bool
	FailAttach     bool
	FailSubmit     bool
	FailParameters bool
	FailToggle     bool

	mtx     sync.Mutex
	devices []*Device
}

// NewBackend returns a fake reporting kind.
func NewBackend(kind engine.Kind) *Backend { return &Backend{Name: kind} }

func (b *Backend) Kind() engine.Kind { return b.Name }

func (b *Backend) Open(layout engine.ChannelLayout) (engine.Device, error) {
	b.mtx.Lock()
	defer b.mtx.Unlock()

	switch {
	case b.FailOpen:
		return nil, fmt.Errorf("%w: fake", engine.ErrEngineInit)
	case b.FailMastering:
		return nil, fmt.Errorf("%w: fake", engine.ErrMasteringVoice)
	}

	d := &Device{backend: b, layout: layout}
	b.devices = append(b.devices, d)

	return d, nil
}

// Devices lists every device opened so far, closed ones included.
func (b *Backend) Devices() []*Device {
	b.mtx.Lock()
	defer b.mtx.Unlock()

	return append([]*Device(nil), b.devices...)
}

// LastDevice is the most recently opened device, or nil.
func (b *Backend) LastDevice() *Device {
	b.mtx.Lock()
	defer b.mtx.Unlock()

	if len(b.devices) == 0 {
		return nil
	}

	return b.devices[len(b.devices)-1]
}

type Device struct {
	backend *Backend
	layout  engine.ChannelLayout
	closed  bool
	voices  []*Voice
}

func (d *Device) Layout() engine.ChannelLayout { return d.layout }

func (d *Device) NewVoice(clip *audio.Clip, chain engine.EffectChain) (engine.NativeVoice, error) {
	b := d.backend
	b.mtx.Lock()
	defer b.mtx.Unlock()

	switch {
	case d.closed:
		return nil, fmt.Errorf("%w: device closed", engine.ErrVoiceCreation)
	case b.FailVoice:
		return nil, fmt.Errorf("%w: fake", engine.ErrVoiceCreation)
	case b.FailAttach:
		return nil, fmt.Errorf("%w: fake", engine.ErrEffectAttach)
	case len(chain) != 1:
		return nil, fmt.Errorf("%w: chain of %d", engine.ErrEffectAttach, len(chain))
	}

	v := &Voice{
		device:  d,
		Clip:    clip,
		Enabled: chain[0].Enabled,
		Blocks:  [][]byte{bytes.Clone(chain[0].Parameters)},
		Volume:  1,
		Ratio:   1,
	}
	d.voices = append(d.voices, v)

	return v, nil
}

func (d *Device) Close() error {
	d.backend.mtx.Lock()
	defer d.backend.mtx.Unlock()

	d.closed = true
	return nil
}

// Closed reports whether Close was called.
func (d *Device) Closed() bool {
	d.backend.mtx.Lock()
	defer d.backend.mtx.Unlock()

	return d.closed
}

// Voices lists every voice created on d, destroyed ones included.
func (d *Device) Voices() []*Voice {
	d.backend.mtx.Lock()
	defer d.backend.mtx.Unlock()

	return append([]*Voice(nil), d.voices...)
}

// Live counts the voices not yet destroyed.
func (d *Device) Live() int {
	d.backend.mtx.Lock()
	defer d.backend.mtx.Unlock()

	n := 0
	for _, v := range d.voices {
		if !v.Destroyed {
			n++
		}
	}

	return n
}

// Voice records the state a native voice would hold. The counters count
// native calls, not state changes.
type Voice struct {
	device *Device

	Clip      *audio.Clip
	Enabled   bool
	Blocks    [][]byte // every parameter block pushed, the initial one first
	Volume    float32
	Ratio     float32
	Running   bool
	Destroyed bool

	Enables  int
	Disables int
	Plays    int
	Stops    int
	// Submitted counts queued buffers; Play flushes before submitting.
	Submitted int
}

func (v *Voice) lock() func() {
	v.device.backend.mtx.Lock()
	return v.device.backend.mtx.Unlock
}

func (v *Voice) Play() error {
	defer v.lock()()

	v.Running = false
	v.Submitted = 0
	if v.device.backend.FailSubmit {
		return fmt.Errorf("%w: fake", engine.ErrBufferSubmit)
	}

	v.Submitted = 2
	v.Running = true
	v.Plays++

	return nil
}

func (v *Voice) Stop() error {
	defer v.lock()()

	v.Running = false
	v.Stops++

	return nil
}

func (v *Voice) SetVolume(vol float32) error {
	defer v.lock()()

	v.Volume = vol
	return nil
}

func (v *Voice) SetFrequencyRatio(r float32) error {
	defer v.lock()()

	v.Ratio = r
	return nil
}

func (v *Voice) SetEffectParameters(index int, block []byte) error {
	defer v.lock()()

	if index != engine.ReverbIndex || v.device.backend.FailParameters {
		return fmt.Errorf("fake: effect %d rejected parameters", index)
	}
	v.Blocks = append(v.Blocks, bytes.Clone(block))

	return nil
}

func (v *Voice) EnableEffect(int) error {
	defer v.lock()()

	if v.device.backend.FailToggle {
		return errors.New("fake: effect toggle failed")
	}
	v.Enabled = true
	v.Enables++

	return nil
}

func (v *Voice) DisableEffect(int) error {
	defer v.lock()()

	if v.device.backend.FailToggle {
		return errors.New("fake: effect toggle failed")
	}
	v.Enabled = false
	v.Disables++

	return nil
}

func (v *Voice) Destroy() error {
	defer v.lock()()

	v.Running = false
	v.Destroyed = true

	return nil
}

// LastBlock is the most recently pushed parameter block.
func (v *Voice) LastBlock() []byte {
	defer v.lock()()

	return v.Blocks[len(v.Blocks)-1]
}
