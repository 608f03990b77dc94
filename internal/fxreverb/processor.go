// SPDX-License-Identifier: EPL-2.0

// Package fxreverb is the software reverb the native backends attach to a
// voice in place of a platform effect.
//
// It is a Freeverb-style network: per channel, a predelay feeding eight
// parallel damped combs into four series allpasses. The native parameter
// block drives it as follows.
//
//   - WetDryMix sets the wet share; the dry share is the remainder.
//   - ReflectionsDelay + ReverbDelay set the predelay.
//   - RoomSize scales every delay length between 50% and 100%.
//   - DecayTime sets each comb's feedback for a 60 dB decay.
//   - RoomFilterHF and HighEQGain set the high-frequency damping.
//   - RoomFilterMain and ReverbGain set the wet level.
//   - LateDiffusion and Density set the allpass feedback.
//
// A 132-byte block additionally overrides individual comb delays and gains
// and allpass lengths; zero entries keep the computed values.
package fxreverb

import (
	"fmt"
	"math"

	"github.com/ik5/audfx/reverb"
	"github.com/ik5/audfx/utils"
)

const (
	// MaxChannels is the widest interleaved layout accepted (5.1).
	MaxChannels = 6

	fixedGain  = 0.015
	wetScale   = 3
	maxComb    = 0.98
	stereoSkew = 23 // samples at 44.1 kHz between adjacent channels
	tuningRate = 44100
)

// Freeverb tunings in samples at 44.1 kHz.
var (
	combTuning    = [reverb.CombCount]int{1116, 1188, 1277, 1356, 1422, 1491, 1557, 1617}
	allpassTuning = [reverb.DiffusionStageCount]int{556, 441, 341, 225}
)

type channel struct {
	pre     delay
	combs   [reverb.CombCount]comb
	allpass [reverb.DiffusionStageCount]allpass
}

// Processor applies reverb in place to interleaved float32 frames.
// It is not safe for concurrent use; the owning voice serializes calls.
type Processor struct {
	sampleRate int
	channels   []channel
	enabled    bool

	params reverb.TestParameters
	wet    float32
	dry    float32
	gain   float32
}

// New returns an enabled processor configured with the native defaults.
func New(sampleRate, channels int) (*Processor, error) {
	if channels < 1 || channels > MaxChannels {
		return nil, fmt.Errorf("%w: %d", ErrChannels, channels)
	}
	if sampleRate <= 0 {
		return nil, fmt.Errorf("fxreverb: invalid sample rate %d", sampleRate)
	}

	p := &Processor{
		sampleRate: sampleRate,
		channels:   make([]channel, channels),
		enabled:    true,
	}
	p.reserve()
	p.apply(reverb.Extend(reverb.DefaultParameters()))

	return p, nil
}

// reserve allocates every delay line at the longest length any valid
// parameter block can ask for.
func (p *Processor) reserve() {
	fs := float64(p.sampleRate)
	pre := samples(reverb.MaxReflectionsDelay+reverb.MaxReverbDelay, fs)
	combMax := samples(reverb.MaxCombDelay, fs)
	allpassMax := samples(reverb.MaxDiffusionLength, fs)

	for c := range p.channels {
		ch := &p.channels[c]
		ch.pre.buffer = make([]float32, 0, pre)
		skew := stereoSkew * c

		for i := range ch.combs {
			n := max(scaled(combTuning[i]+skew, fs, 1), combMax, 1)
			ch.combs[i].buffer = make([]float32, 0, n)
		}
		for i := range ch.allpass {
			n := max(scaled(allpassTuning[i]+skew, fs, 1), allpassMax, 1)
			ch.allpass[i].buffer = make([]float32, 0, n)
		}
	}
}

// SetParameters decodes and applies a native or tunable block. The previous
// parameters stay in effect when the block is rejected.
func (p *Processor) SetParameters(block []byte) error {
	params, err := reverb.ParseBlock(block)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrParameterSize, err)
	}
	if err := params.Validate(); err != nil {
		return err
	}

	p.apply(params)

	return nil
}

// Parameters returns the block currently in effect, in tunable form.
func (p *Processor) Parameters() reverb.TestParameters { return p.params }

// Enable switches processing on or off. Re-enabling starts from an empty tail.
func (p *Processor) Enable(on bool) {
	if on && !p.enabled {
		p.Reset()
	}
	p.enabled = on
}

// Enabled reports whether Process alters its input.
func (p *Processor) Enabled() bool { return p.enabled }

// Channels is the interleave width expected by Process.
func (p *Processor) Channels() int { return len(p.channels) }

// Reset clears every delay line.
func (p *Processor) Reset() {
	for i := range p.channels {
		ch := &p.channels[i]
		ch.pre.reset()
		for j := range ch.combs {
			ch.combs[j].reset()
		}
		for j := range ch.allpass {
			ch.allpass[j].reset()
		}
	}
}

// Process runs buf through the network. A trailing partial frame is left as is.
func (p *Processor) Process(buf []float32) {
	if !p.enabled {
		return
	}

	n := len(p.channels)
	frames := len(buf) / n
	for f := range frames {
		base := f * n
		for c := range p.channels {
			in := buf[base+c]
			buf[base+c] = in*p.dry + p.channels[c].process(in*p.gain)*p.wet
		}
	}
}

func (ch *channel) process(x float32) float32 {
	x = ch.pre.process(x)

	var acc float32
	for i := range ch.combs {
		acc += ch.combs[i].process(x)
	}
	for i := range ch.allpass {
		acc = ch.allpass[i].process(acc)
	}

	return acc
}

func (p *Processor) apply(t reverb.TestParameters) {
	p.params = t

	p.wet = t.WetDryMix / 100 * wetScale
	p.dry = 1 - t.WetDryMix/100
	p.gain = fixedGain * utils.DBToGain(t.RoomFilterMain+t.ReverbGain)

	fs := float64(p.sampleRate)
	size := 0.5 + float64(t.RoomSize)/200
	decay := max(float64(t.DecayTime), reverb.MinDecayTime)

	hf := float64(-t.RoomFilterHF) / -reverb.MinRoomFilterHF
	eq := float64(reverb.MaxHighEQGain-int(t.HighEQGain)) / reverb.MaxHighEQGain
	damp := utils.Clamp(float32(0.2+0.5*hf+0.25*eq), 0, 0.95)

	apFeedback := utils.Clamp(float32(0.3+0.4*float64(t.LateDiffusion)/reverb.MaxDiffusion)*t.Density/100, 0, 0.9)
	pre := samples(float64(t.ReflectionsDelay)+float64(t.ReverbDelay), fs)

	for c := range p.channels {
		ch := &p.channels[c]
		ch.pre.resize(pre)
		skew := stereoSkew * c

		for i := range ch.combs {
			length := scaled(combTuning[i]+skew, fs, size)
			if t.CombDelay[i] > 0 {
				length = max(samples(float64(t.CombDelay[i]), fs), 1)
			}
			cb := &ch.combs[i]
			cb.resize(length)
			cb.setDamp(damp)
			if t.CombGain[i] > 0 {
				cb.feedback = t.CombGain[i]
			} else {
				cb.feedback = combFeedback(length, decay, fs)
			}
		}

		for i := range ch.allpass {
			length := scaled(allpassTuning[i]+skew, fs, size)
			if t.DiffusionLength[i] > 0 {
				length = max(samples(float64(t.DiffusionLength[i]), fs), 1)
			}
			ch.allpass[i].resize(length)
			ch.allpass[i].feedback = apFeedback
		}
	}
}

// combFeedback is the loop gain giving a 60 dB decay over decay seconds.
func combFeedback(length int, decay, fs float64) float32 {
	g := math.Pow(10, -3*float64(length)/(decay*fs))

	return float32(min(g, maxComb))
}

func scaled(tuning int, fs, size float64) int {
	return max(int(float64(tuning)*fs/tuningRate*size), 1)
}

func samples(ms, fs float64) int {
	return int(ms * fs / 1000)
}
