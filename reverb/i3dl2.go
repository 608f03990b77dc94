// SPDX-License-Identifier: EPL-2.0

package reverb

import (
	"math"

	"github.com/ik5/audfx/utils"
)

// I3DL2Parameters is the perceptual (I3DL2) description of a reverb.
// Levels are in millibels, times in seconds.
//
// It shares no layout with Parameters; use Native to convert.
type I3DL2Parameters struct {
	WetDryMix         float32
	Room              int32
	RoomHF            int32
	RoomRolloffFactor float32
	DecayTime         float32
	DecayHFRatio      float32
	Reflections       int32
	ReflectionsDelay  float32
	Reverb            int32
	ReverbDelay       float32
	Diffusion         float32
	Density           float32
	HFReference       float32
}

// Native converts p to the native parameter block.
//
// RoomRolloffFactor has no native counterpart and is ignored. Fields I3DL2
// does not describe (rear delay, positions, room size, EQ cutoffs) take the
// native defaults. A DecayHFRatio above 1 is expressed as a low-frequency cut
// with a proportionally longer decay; below 1 as a high-frequency cut.
func (p I3DL2Parameters) Native() Parameters {
	n := Parameters{
		WetDryMix:           p.WetDryMix,
		RearDelay:           DefaultRearDelay,
		PositionLeft:        DefaultPosition,
		PositionRight:       DefaultPosition,
		PositionMatrixLeft:  DefaultPositionMatrix,
		PositionMatrixRight: DefaultPositionMatrix,
		LowEQCutoff:         4,
		HighEQCutoff:        6,
		RoomFilterFreq:      p.HFReference,
		RoomFilterMain:      utils.MillibelsToDB(p.Room),
		RoomFilterHF:        utils.MillibelsToDB(p.RoomHF),
		ReflectionsGain:     utils.MillibelsToDB(p.Reflections),
		ReverbGain:          utils.MillibelsToDB(p.Reverb),
		Density:             p.Density,
		RoomSize:            DefaultRoomSize,
	}

	if p.DecayHFRatio >= 1 {
		index := max(int32(-4*math.Log10(float64(p.DecayHFRatio))), -8)
		n.LowEQGain = eqGain(index)
		n.HighEQGain = 8
		n.DecayTime = p.DecayTime * p.DecayHFRatio
	} else {
		index := max(int32(4*math.Log10(float64(p.DecayHFRatio))), -8)
		n.LowEQGain = 8
		n.HighEQGain = eqGain(index)
		n.DecayTime = p.DecayTime
	}

	reflectionsDelay := p.ReflectionsDelay * 1000
	if reflectionsDelay >= MaxReflectionsDelay {
		reflectionsDelay = MaxReflectionsDelay - 1
	} else if reflectionsDelay <= 1 {
		reflectionsDelay = 1
	}
	n.ReflectionsDelay = uint32(reflectionsDelay)

	reverbDelay := max(p.ReverbDelay*1000, 0)
	if reverbDelay >= MaxReverbDelay {
		reverbDelay = MaxReverbDelay - 1
	}
	n.ReverbDelay = uint8(reverbDelay)

	n.EarlyDiffusion = uint8(15 * p.Diffusion / 100)
	n.LateDiffusion = n.EarlyDiffusion

	return n
}

func eqGain(index int32) uint8 {
	if index < 0 {
		return uint8(index + 8)
	}

	return 8
}
