// SPDX-License-Identifier: EPL-2.0

package utils

import "math"

// DBToGain converts decibels to a linear amplitude factor.
func DBToGain(db float32) float32 {
	return float32(math.Pow(10, float64(db)/20))
}

// MillibelsToDB converts hundredths of a decibel (the unit of I3DL2 level
// fields) to decibels.
func MillibelsToDB(mb int32) float32 {
	return float32(mb) / 100
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}

	return v
}
