// SPDX-License-Identifier: EPL-2.0

package engine

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/ik5/audfx/audio"
)

// SampleRate is the mixing rate of every mastering voice.
const SampleRate = 48000

// SilenceDuration is the length of the zero tail submitted after each clip so
// the reverb can ring out.
const SilenceDuration = 2 * time.Second

// MaxFrequencyRatio is the highest accepted playback ratio.
const MaxFrequencyRatio = 1024

// SilenceSamples is the size of the silence tail for a clip with channels
// channels.
func SilenceSamples(channels int) int {
	return int(SilenceDuration/time.Second) * SampleRate * channels
}

// Kind selects a backend implementation.
type Kind int

const (
	KindOto Kind = iota
	KindBeep
)

var kindNames = [...]string{KindOto: "oto", KindBeep: "beep"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}

	return kindNames[k]
}

// Kinds lists every backend kind.
func Kinds() []Kind { return []Kind{KindOto, KindBeep} }

// ParseKind accepts a kind name, case-insensitively.
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for k, name := range kindNames {
		if name == s {
			return Kind(k), nil
		}
	}

	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// ChannelLayout is the speaker layout of a mastering voice. It is fixed when
// the context is created.
type ChannelLayout int

const (
	LayoutStereo ChannelLayout = iota
	Layout51
)

// Channels is the interleaved channel count of the layout.
func (l ChannelLayout) Channels() int {
	if l == Layout51 {
		return 6
	}

	return 2
}

func (l ChannelLayout) String() string {
	switch l {
	case LayoutStereo:
		return "stereo"
	case Layout51:
		return "5.1"
	default:
		return fmt.Sprintf("ChannelLayout(%d)", int(l))
	}
}

// ParseLayout accepts "stereo", "2", "5.1" or "6".
func ParseLayout(s string) (ChannelLayout, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "stereo", "2":
		return LayoutStereo, nil
	case "5.1", "6", "surround":
		return Layout51, nil
	}

	return 0, fmt.Errorf("%w: %q", ErrUnknownLayout, s)
}

// EffectDescriptor is one entry of a voice's effect chain: its initial
// enabled state and parameter block.
type EffectDescriptor struct {
	Enabled    bool
	Parameters []byte
}

// EffectChain lists the effects attached to a voice, in processing order.
type EffectChain []EffectDescriptor

// ReverbIndex is the position of the reverb in every chain built here.
const ReverbIndex = 0

// Backend opens devices of one kind.
type Backend interface {
	Kind() Kind
	// Open initializes the engine and its mastering voice.
	Open(layout ChannelLayout) (Device, error)
}

// Device is an opened engine with its mastering voice.
type Device interface {
	Layout() ChannelLayout
	// NewVoice builds a voice for clip with chain attached and its initial
	// parameters pushed. The clip's samples must stay untouched until the
	// voice is destroyed.
	NewVoice(clip *audio.Clip, chain EffectChain) (NativeVoice, error)
	// Close tears down the mastering voice and then the engine.
	Close() error
}

// NativeVoice is a source voice as the backend sees it. Every mutating call
// commits before it returns.
type NativeVoice interface {
	// Play stops, flushes, submits the clip and its silence tail, and starts.
	Play() error
	Stop() error
	SetVolume(v float32) error
	SetFrequencyRatio(r float32) error
	SetEffectParameters(index int, block []byte) error
	EnableEffect(index int) error
	DisableEffect(index int) error
	Destroy() error
}

// SampleSource resolves a sample id to a decoded clip.
type SampleSource interface {
	Load(id int, stereo bool) (*audio.Clip, error)
}

func validVolume(v float32) bool {
	return v >= 0 && !math.IsInf(float64(v), 0)
}

func validFrequencyRatio(r float32) bool {
	return r > 0 && r <= MaxFrequencyRatio
}
