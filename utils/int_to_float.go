// SPDX-License-Identifier: EPL-2.0

package utils

// IntToFloat32 scales a signed integer PCM sample of the given bit depth to
// [-1, 1). Unknown depths are treated as 16-bit.
func IntToFloat32(v int, bitDepth int) float32 {
	switch bitDepth {
	case 8:
		return float32(v) / 128
	case 24:
		return float32(v) / 8388608
	case 32:
		return float32(float64(v) / 2147483648)
	default:
		return float32(v) / 32768
	}
}
