// SPDX-License-Identifier: EPL-2.0

package reverb

import (
	"encoding/binary"
	"fmt"
	"math"
)

// NativeSize is the encoded size of Parameters in bytes.
const NativeSize = 52

// Parameter limits accepted by the effect processor.
const (
	MinWetDryMix        = 0
	MaxWetDryMix        = 100
	MaxReflectionsDelay = 300
	MaxReverbDelay      = 85
	MaxRearDelay        = 5
	MaxPosition         = 30
	MaxDiffusion        = 15
	MaxLowEQGain        = 12
	MaxLowEQCutoff      = 9
	MaxHighEQGain       = 8
	MaxHighEQCutoff     = 14
	MinRoomFilterFreq   = 20
	MaxRoomFilterFreq   = 20000
	MinRoomFilterMain   = -100
	MaxRoomFilterMain   = 0
	MinRoomFilterHF     = -100
	MaxRoomFilterHF     = 0
	MinReflectionsGain  = -100
	MaxReflectionsGain  = 20
	MinReverbGain       = -100
	MaxReverbGain       = 20
	MinDecayTime        = 0.1
	MaxDensity          = 100
	MaxRoomSize         = 100
)

// Defaults of the native parameter block.
const (
	DefaultWetDryMix        = 100
	DefaultReflectionsDelay = 5
	DefaultReverbDelay      = 5
	DefaultRearDelay        = 5
	DefaultPosition         = 6
	DefaultPositionMatrix   = 27
	DefaultEarlyDiffusion   = 8
	DefaultLateDiffusion    = 8
	DefaultLowEQGain        = 8
	DefaultLowEQCutoff      = 4
	DefaultHighEQGain       = 8
	DefaultHighEQCutoff     = 4
	DefaultRoomFilterFreq   = 5000
	DefaultRoomFilterMain   = 0
	DefaultRoomFilterHF     = 0
	DefaultReflectionsGain  = 0
	DefaultReverbGain       = 0
	DefaultDecayTime        = 1
	DefaultDensity          = 100
	DefaultRoomSize         = 100
)

// Parameters is the native reverb parameter block.
//
// The field order and widths are a wire contract with the effect processor:
// MarshalBinary writes them in declaration order, little-endian, without
// padding, for a total of NativeSize bytes.
type Parameters struct {
	WetDryMix           float32 // percent of wet signal, 0-100
	ReflectionsDelay    uint32  // ms
	ReverbDelay         uint8   // ms after the early reflections
	RearDelay           uint8   // ms
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
	RoomFilterFreq      float32 // Hz
	RoomFilterMain      float32 // dB
	RoomFilterHF        float32 // dB
	ReflectionsGain     float32 // dB
	ReverbGain          float32 // dB
	DecayTime           float32 // seconds
	Density             float32 // percent
	RoomSize            float32 // feet
}

// DefaultParameters returns the processor defaults.
func DefaultParameters() Parameters {
	return Parameters{
		WetDryMix:           DefaultWetDryMix,
		ReflectionsDelay:    DefaultReflectionsDelay,
		ReverbDelay:         DefaultReverbDelay,
		RearDelay:           DefaultRearDelay,
		PositionLeft:        DefaultPosition,
		PositionRight:       DefaultPosition,
		PositionMatrixLeft:  DefaultPositionMatrix,
		PositionMatrixRight: DefaultPositionMatrix,
		EarlyDiffusion:      DefaultEarlyDiffusion,
		LateDiffusion:       DefaultLateDiffusion,
		LowEQGain:           DefaultLowEQGain,
		LowEQCutoff:         DefaultLowEQCutoff,
		HighEQGain:          DefaultHighEQGain,
		HighEQCutoff:        DefaultHighEQCutoff,
		RoomFilterFreq:      DefaultRoomFilterFreq,
		RoomFilterMain:      DefaultRoomFilterMain,
		RoomFilterHF:        DefaultRoomFilterHF,
		ReflectionsGain:     DefaultReflectionsGain,
		ReverbGain:          DefaultReverbGain,
		DecayTime:           DefaultDecayTime,
		Density:             DefaultDensity,
		RoomSize:            DefaultRoomSize,
	}
}

// Validate reports the first field outside the processor's accepted range.
func (p Parameters) Validate() error {
	switch {
	case !inRange(p.WetDryMix, MinWetDryMix, MaxWetDryMix):
		return outOfRange("WetDryMix", p.WetDryMix)
	case p.ReflectionsDelay > MaxReflectionsDelay:
		return outOfRange("ReflectionsDelay", p.ReflectionsDelay)
	case p.ReverbDelay > MaxReverbDelay:
		return outOfRange("ReverbDelay", p.ReverbDelay)
	case p.RearDelay > MaxRearDelay:
		return outOfRange("RearDelay", p.RearDelay)
	case p.PositionLeft > MaxPosition:
		return outOfRange("PositionLeft", p.PositionLeft)
	case p.PositionRight > MaxPosition:
		return outOfRange("PositionRight", p.PositionRight)
	case p.PositionMatrixLeft > MaxPosition:
		return outOfRange("PositionMatrixLeft", p.PositionMatrixLeft)
	case p.PositionMatrixRight > MaxPosition:
		return outOfRange("PositionMatrixRight", p.PositionMatrixRight)
	case p.EarlyDiffusion > MaxDiffusion:
		return outOfRange("EarlyDiffusion", p.EarlyDiffusion)
	case p.LateDiffusion > MaxDiffusion:
		return outOfRange("LateDiffusion", p.LateDiffusion)
	case p.LowEQGain > MaxLowEQGain:
		return outOfRange("LowEQGain", p.LowEQGain)
	case p.LowEQCutoff > MaxLowEQCutoff:
		return outOfRange("LowEQCutoff", p.LowEQCutoff)
	case p.HighEQGain > MaxHighEQGain:
		return outOfRange("HighEQGain", p.HighEQGain)
	case p.HighEQCutoff > MaxHighEQCutoff:
		return outOfRange("HighEQCutoff", p.HighEQCutoff)
	case !inRange(p.RoomFilterFreq, MinRoomFilterFreq, MaxRoomFilterFreq):
		return outOfRange("RoomFilterFreq", p.RoomFilterFreq)
	case !inRange(p.RoomFilterMain, MinRoomFilterMain, MaxRoomFilterMain):
		return outOfRange("RoomFilterMain", p.RoomFilterMain)
	case !inRange(p.RoomFilterHF, MinRoomFilterHF, MaxRoomFilterHF):
		return outOfRange("RoomFilterHF", p.RoomFilterHF)
	case !inRange(p.ReflectionsGain, MinReflectionsGain, MaxReflectionsGain):
		return outOfRange("ReflectionsGain", p.ReflectionsGain)
	case !inRange(p.ReverbGain, MinReverbGain, MaxReverbGain):
		return outOfRange("ReverbGain", p.ReverbGain)
	case !(p.DecayTime >= MinDecayTime) || math.IsInf(float64(p.DecayTime), 0):
		return outOfRange("DecayTime", p.DecayTime)
	case !inRange(p.Density, 0, MaxDensity):
		return outOfRange("Density", p.Density)
	case !inRange(p.RoomSize, 0, MaxRoomSize):
		return outOfRange("RoomSize", p.RoomSize)
	}

	return nil
}

// MarshalBinary encodes p into its NativeSize wire form.
func (p Parameters) MarshalBinary() ([]byte, error) {
	return p.AppendBinary(make([]byte, 0, NativeSize))
}

// AppendBinary appends the wire form of p to b.
func (p Parameters) AppendBinary(b []byte) ([]byte, error) {
	return appendNative(b, &p), nil
}

// UnmarshalBinary decodes a NativeSize wire block into p.
func (p *Parameters) UnmarshalBinary(data []byte) error {
	if len(data) != NativeSize {
		return fmt.Errorf("%w: got %d bytes, want %d", ErrInvalidSize, len(data), NativeSize)
	}

	decodeNative(data, p)
	return nil
}

func appendNative(b []byte, p *Parameters) []byte {
	le := binary.LittleEndian

	b = le.AppendUint32(b, math.Float32bits(p.WetDryMix))
	b = le.AppendUint32(b, p.ReflectionsDelay)
	b = append(b,
		p.ReverbDelay,
		p.RearDelay,
		p.PositionLeft,
		p.PositionRight,
		p.PositionMatrixLeft,
		p.PositionMatrixRight,
		p.EarlyDiffusion,
		p.LateDiffusion,
		p.LowEQGain,
		p.LowEQCutoff,
		p.HighEQGain,
		p.HighEQCutoff,
	)
	for _, f := range [...]float32{
		p.RoomFilterFreq,
		p.RoomFilterMain,
		p.RoomFilterHF,
		p.ReflectionsGain,
		p.ReverbGain,
		p.DecayTime,
		p.Density,
		p.RoomSize,
	} {
		b = le.AppendUint32(b, math.Float32bits(f))
	}

	return b
}

// decodeNative reads the first NativeSize bytes of data; the caller checks length.
func decodeNative(data []byte, p *Parameters) {
	le := binary.LittleEndian
	f32 := func(off int) float32 { return math.Float32frombits(le.Uint32(data[off:])) }

	p.WetDryMix = f32(0)
	p.ReflectionsDelay = le.Uint32(data[4:])
	p.ReverbDelay = data[8]
	p.RearDelay = data[9]
	p.PositionLeft = data[10]
	p.PositionRight = data[11]
	p.PositionMatrixLeft = data[12]
	p.PositionMatrixRight = data[13]
	p.EarlyDiffusion = data[14]
	p.LateDiffusion = data[15]
	p.LowEQGain = data[16]
	p.LowEQCutoff = data[17]
	p.HighEQGain = data[18]
	p.HighEQCutoff = data[19]
	p.RoomFilterFreq = f32(20)
	p.RoomFilterMain = f32(24)
	p.RoomFilterHF = f32(28)
	p.ReflectionsGain = f32(32)
	p.ReverbGain = f32(36)
	p.DecayTime = f32(40)
	p.Density = f32(44)
	p.RoomSize = f32(48)
}

func inRange(v float32, lo, hi float32) bool {
	// NaN fails both comparisons
	return v >= lo && v <= hi
}

func outOfRange(field string, v any) error {
	return fmt.Errorf("%w: %s = %v", ErrOutOfRange, field, v)
}
