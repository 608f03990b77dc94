// SPDX-License-Identifier: EPL-2.0

// Package wav decodes and writes RIFF/WAVE files.
//
// Decoding goes through github.com/go-audio/wav and accepts integer PCM at 8,
// 16, 24 and 32 bits (including WAVE_FORMAT_EXTENSIBLE headers) and 32-bit
// IEEE float. Every encoding comes out as float32 in [-1, 1]:
//
//	src, err := wav.Decoder{}.Decode(file)
//	clip, err := audio.ReadClip(src)
//
// Inputs that are not an io.ReadSeeker are buffered in memory first, since
// the go-audio parser seeks between chunks.
//
// Two writers exist. WriteWAV16 streams 16-bit PCM to any io.Writer with a
// precomputed header. Encode writes a whole audio.Clip at 16, 24 or 32 bits
// through the go-audio encoder and needs an io.WriteSeeker such as *os.File.
//
// Errors:
//   - ErrNotWavFile: no RIFF/WAVE header
//   - ErrUnsupportedEncoding: compressed or otherwise non-PCM format tag
//   - ErrUnsupportedBitDepth: a depth outside the list above
//   - ErrUnsupportedWavLayout: no data chunk, or an invalid channel count
package wav
