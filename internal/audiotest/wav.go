// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"bytes"
	"encoding/binary"
	"math"
)

// WAV format tags.
const (
	FormatPCM   = 1
	FormatFloat = 3
)

// WAV returns a canonical 44-byte-header WAV file. Samples are written with
// the given bit depth: 8-bit as unsigned, 16/24/32 as signed little-endian.
func WAV(sampleRate, channels, bits int, samples []int32) []byte {
	data := new(bytes.Buffer)
	for _, s := range samples {
		switch bits {
		case 8:
			data.WriteByte(byte(s + 128))
		case 16:
			_ = binary.Write(data, binary.LittleEndian, int16(s))
		case 24:
			data.Write([]byte{byte(s), byte(s >> 8), byte(s >> 16)})
		case 32:
			_ = binary.Write(data, binary.LittleEndian, s)
		}
	}

	return wrap(FormatPCM, sampleRate, channels, bits, data.Bytes())
}

// WAVFloat returns a 32-bit IEEE float WAV file.
func WAVFloat(sampleRate, channels int, samples []float32) []byte {
	data := make([]byte, 4*len(samples))
	for i, s := range samples {
		binary.LittleEndian.PutUint32(data[4*i:], math.Float32bits(s))
	}

	return wrap(FormatFloat, sampleRate, channels, 32, data)
}

// WAV16 is WAV for the common 16-bit case.
func WAV16(sampleRate, channels int, samples []int16) []byte {
	wide := make([]int32, len(samples))
	for i, s := range samples {
		wide[i] = int32(s)
	}

	return WAV(sampleRate, channels, 16, wide)
}

func wrap(format, sampleRate, channels, bits int, data []byte) []byte {
	buf := new(bytes.Buffer)
	le := binary.LittleEndian
	blockAlign := channels * bits / 8

	buf.WriteString("RIFF")
	_ = binary.Write(buf, le, uint32(36+len(data)))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	_ = binary.Write(buf, le, uint32(16))
	_ = binary.Write(buf, le, uint16(format))
	_ = binary.Write(buf, le, uint16(channels))
	_ = binary.Write(buf, le, uint32(sampleRate))
	_ = binary.Write(buf, le, uint32(sampleRate*blockAlign))
	_ = binary.Write(buf, le, uint16(blockAlign))
	_ = binary.Write(buf, le, uint16(bits))

	buf.WriteString("data")
	_ = binary.Write(buf, le, uint32(len(data)))
	buf.Write(data)

	return buf.Bytes()
}
