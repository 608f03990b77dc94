// SPDX-License-Identifier: EPL-2.0

package reverb

import (
	"encoding/binary"
	"fmt"
	"math"
)

const (
	// CombCount is the number of parallel comb filters per channel.
	CombCount = 8
	// DiffusionStageCount is the number of series allpass stages per channel.
	DiffusionStageCount = 4

	// TestSize is the encoded size of TestParameters in bytes.
	TestSize = NativeSize + 4*(2*CombCount+DiffusionStageCount)

	// MaxCombDelay bounds the comb delay overrides, in ms.
	MaxCombDelay = 100
	// MaxDiffusionLength bounds the allpass length overrides, in ms.
	MaxDiffusionLength = 50
)

// TestParameters is the tunable superset of Parameters used for
// experimenting with the processor's internals.
//
// The leading fields repeat Parameters in the same order and widths, so the
// first NativeSize bytes of the encoding are a valid native block. Keep the
// two declarations in sync: Native and Extend copy the shared fields by name.
//
// A zero tuning value leaves the processor's own choice for that element.
type TestParameters struct {
	WetDryMix           float32
	ReflectionsDelay    uint32
	ReverbDelay         uint8
	RearDelay           uint8
	PositionLeft        uint8
	PositionRight       uint8
	PositionMatrixLeft  uint8
	PositionMatrixRight uint8
	EarlyDiffusion      uint8
	LateDiffusion       uint8
	LowEQGain           uint8
	LowEQCutoff         uint8
	HighEQGain          uint8
	HighEQCutoff        uint8
	RoomFilterFreq      float32
	RoomFilterMain      float32
	RoomFilterHF        float32
	ReflectionsGain     float32
	ReverbGain          float32
	DecayTime           float32
	Density             float32
	RoomSize            float32

	CombDelay       [CombCount]float32 // ms
	CombGain        [CombCount]float32 // feedback, 0 <= g < 1
	DiffusionLength [DiffusionStageCount]float32
}

// Extend lifts p into the tunable form with no tuning overrides.
func Extend(p Parameters) TestParameters {
	return TestParameters{
		WetDryMix:           p.WetDryMix,
		ReflectionsDelay:    p.ReflectionsDelay,
		ReverbDelay:         p.ReverbDelay,
		RearDelay:           p.RearDelay,
		PositionLeft:        p.PositionLeft,
		PositionRight:       p.PositionRight,
		PositionMatrixLeft:  p.PositionMatrixLeft,
		PositionMatrixRight: p.PositionMatrixRight,
		EarlyDiffusion:      p.EarlyDiffusion,
		LateDiffusion:       p.LateDiffusion,
		LowEQGain:           p.LowEQGain,
		LowEQCutoff:         p.LowEQCutoff,
		HighEQGain:          p.HighEQGain,
		HighEQCutoff:        p.HighEQCutoff,
		RoomFilterFreq:      p.RoomFilterFreq,
		RoomFilterMain:      p.RoomFilterMain,
		RoomFilterHF:        p.RoomFilterHF,
		ReflectionsGain:     p.ReflectionsGain,
		ReverbGain:          p.ReverbGain,
		DecayTime:           p.DecayTime,
		Density:             p.Density,
		RoomSize:            p.RoomSize,
	}
}

// Native projects t onto the native fields, dropping the tuning.
func (t TestParameters) Native() Parameters {
	return Parameters{
		WetDryMix:           t.WetDryMix,
		ReflectionsDelay:    t.ReflectionsDelay,
		ReverbDelay:         t.ReverbDelay,
		RearDelay:           t.RearDelay,
		PositionLeft:        t.PositionLeft,
		PositionRight:       t.PositionRight,
		PositionMatrixLeft:  t.PositionMatrixLeft,
		PositionMatrixRight: t.PositionMatrixRight,
		EarlyDiffusion:      t.EarlyDiffusion,
		LateDiffusion:       t.LateDiffusion,
		LowEQGain:           t.LowEQGain,
		LowEQCutoff:         t.LowEQCutoff,
		HighEQGain:          t.HighEQGain,
		HighEQCutoff:        t.HighEQCutoff,
		RoomFilterFreq:      t.RoomFilterFreq,
		RoomFilterMain:      t.RoomFilterMain,
		RoomFilterHF:        t.RoomFilterHF,
		ReflectionsGain:     t.ReflectionsGain,
		ReverbGain:          t.ReverbGain,
		DecayTime:           t.DecayTime,
		Density:             t.Density,
		RoomSize:            t.RoomSize,
	}
}

// Tuned reports whether any tuning override is set.
func (t TestParameters) Tuned() bool {
	for i := range t.CombDelay {
		if t.CombDelay[i] != 0 || t.CombGain[i] != 0 {
			return true
		}
	}
	for _, l := range t.DiffusionLength {
		if l != 0 {
			return true
		}
	}

	return false
}

// Validate checks the native fields and then the tuning overrides.
func (t TestParameters) Validate() error {
	if err := t.Native().Validate(); err != nil {
		return err
	}

	for i, d := range t.CombDelay {
		if !inRange(d, 0, MaxCombDelay) {
			return outOfRange(fmt.Sprintf("CombDelay[%d]", i), d)
		}
	}
	for i, g := range t.CombGain {
		if !(g >= 0 && g < 1) {
			return outOfRange(fmt.Sprintf("CombGain[%d]", i), g)
		}
	}
	for i, l := range t.DiffusionLength {
		if !inRange(l, 0, MaxDiffusionLength) {
			return outOfRange(fmt.Sprintf("DiffusionLength[%d]", i), l)
		}
	}

	return nil
}

// MarshalBinary encodes t into its TestSize wire form.
func (t TestParameters) MarshalBinary() ([]byte, error) {
	return t.AppendBinary(make([]byte, 0, TestSize))
}

// AppendBinary appends the native prefix followed by the tuning arrays.
func (t TestParameters) AppendBinary(b []byte) ([]byte, error) {
	native := t.Native()
	b = appendNative(b, &native)

	le := binary.LittleEndian
	for _, v := range t.CombDelay {
		b = le.AppendUint32(b, math.Float32bits(v))
	}
	for _, v := range t.CombGain {
		b = le.AppendUint32(b, math.Float32bits(v))
	}
	for _, v := range t.DiffusionLength {
		b = le.AppendUint32(b, math.Float32bits(v))
	}

	return b, nil
}

// UnmarshalBinary decodes a TestSize wire block into t.
func (t *TestParameters) UnmarshalBinary(data []byte) error {
	if len(data) != TestSize {
		return fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidSize, len(data), TestSize)
	}

	var native Parameters
	decodeNative(data, &native)
	*t = Extend(native)

	le := binary.LittleEndian
	off := NativeSize
	next := func() float32 {
		v := math.Float32frombits(le.Uint32(data[off:]))
		off += 4
		return v
	}
	for i := range t.CombDelay {
		t.CombDelay[i] = next()
	}
	for i := range t.CombGain {
		t.CombGain[i] = next()
	}
	for i := range t.DiffusionLength {
		t.DiffusionLength[i] = next()
	}

	return nil
}

// ParseBlock decodes either wire form. A native block comes back extended
// with no tuning.
func ParseBlock(data []byte) (TestParameters, error) {
	switch len(data) {
	case NativeSize:
		var p Parameters
		decodeNative(data, &p)
		return Extend(p), nil
	case TestSize:
		var t TestParameters
		err := t.UnmarshalBinary(data)
		return t, err
	default:
		return TestParameters{}, fmt.Errorf("%w: got %d bytes, want %d or %d",
			ErrInvalidSize, len(data), NativeSize, TestSize)
	}
}
