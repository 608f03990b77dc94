// SPDX-License-Identifier: EPL-2.0

// Package vorbis decodes Ogg Vorbis through github.com/jfreymuth/oggvorbis.
//
// The Source keeps the stream's channel count and rate and hands out
// interleaved float32 frames:
//
//	src, err := vorbis.Decoder{}.Decode(file)
//	buf := make([]float32, src.BufSize())
//	n, err := src.ReadSamples(buf)
//
// Reads are trimmed to whole frames, so a destination shorter than one frame
// reads nothing and returns a nil error. Register the decoder under "ogg".
package vorbis
