// SPDX-License-Identifier: EPL-2.0

// Package mp3 decodes MPEG-1 Layer III through github.com/hajimehoshi/go-mp3.
//
// go-mp3 always produces 16-bit little-endian stereo, so every Source from
// this package reports two channels whatever the file holds. The sample rate
// is the file's own. Samples arrive as float32 in [-1, 1):
//
//	src, err := mp3.Decoder{}.Decode(file)
//	if err != nil {
//	    return err
//	}
//	clip, err := audio.ReadClip(src)
//
// Mono output needs folding down:
//
//	mono := audio.NewChannelMixer(audio.NewResampler(src, 48000), 1)
//
// A truncated final sample is dropped rather than reported. Other read
// errors are wrapped.
package mp3
