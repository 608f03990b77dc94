// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"encoding/binary"
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
	gowav "github.com/go-audio/wav"
	"github.com/ik5/audfx/audio"
	"github.com/ik5/audfx/utils"
)

// WriteWAV16 writes interleaved 16-bit PCM with a canonical 44-byte header.
// It needs only an io.Writer, so it can stream to pipes and buffers.
func WriteWAV16(w io.Writer, sampleRate, channels int, samples []int16) error {
	if channels <= 0 {
		return fmt.Errorf("%w: %d channels", ErrUnsupportedWavLayout, channels)
	}

	const bitsPerSample = 16
	blockAlign := channels * bitsPerSample / 8
	dataSize := uint32(len(samples) * 2)

	header := make([]byte, 44)
	le := binary.LittleEndian

	copy(header[0:4], "RIFF")
	le.PutUint32(header[4:8], 36+dataSize)
	copy(header[8:12], "WAVE")

	copy(header[12:16], "fmt ")
	le.PutUint32(header[16:20], 16)
	le.PutUint16(header[20:22], formatPCM)
	le.PutUint16(header[22:24], uint16(channels))
	le.PutUint32(header[24:28], uint32(sampleRate))
	le.PutUint32(header[28:32], uint32(sampleRate*blockAlign))
	le.PutUint16(header[32:34], uint16(blockAlign))
	le.PutUint16(header[34:36], bitsPerSample)

	copy(header[36:40], "data")
	le.PutUint32(header[40:44], dataSize)

	if _, err := w.Write(header); err != nil {
		return fmt.Errorf("%w", err)
	}

	const chunkSize = 8192
	buf := make([]byte, 2*min(len(samples), chunkSize))

	for i := 0; i < len(samples); i += chunkSize {
		chunk := samples[i:min(i+chunkSize, len(samples))]
		out := buf[:2*len(chunk)]
		for j, s := range chunk {
			le.PutUint16(out[2*j:], uint16(s))
		}

		if _, err := w.Write(out); err != nil {
			return fmt.Errorf("%w", err)
		}
	}

	return nil
}

// Encode writes clip as a WAV file of the given integer bit depth
// (16, 24 or 32) through the go-audio encoder, which patches the header
// sizes on Close and therefore needs to seek.
func Encode(w io.WriteSeeker, clip *audio.Clip, bitDepth int) error {
	if err := clip.Validate(); err != nil {
		return err
	}

	var scale float32
	switch bitDepth {
	case 16:
		scale = 32767
	case 24:
		scale = 8388607
	case 32:
		scale = 2147483520 // largest float32 below 2^31
	default:
		return fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, bitDepth)
	}

	enc := gowav.NewEncoder(w, clip.SampleRate, bitDepth, clip.Channels, formatPCM)

	data := make([]int, len(clip.Samples))
	for i, s := range clip.Samples {
		data[i] = int(utils.Clamp(s, -1, 1) * scale)
	}

	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: clip.Channels, SampleRate: clip.SampleRate},
		Data:           data,
		SourceBitDepth: bitDepth,
	}

	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("%w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}

	return nil
}
