// SPDX-License-Identifier: EPL-2.0

// Package aiff decodes uncompressed AIFF through github.com/go-audio/aiff.
//
// Integer PCM at 8, 16, 24 and 32 bits is accepted, with any channel count
// and rate. AIFF-C is not. Samples are normalized to float32 in [-1, 1) and
// reads stop at whole frames:
//
//	src, err := aiff.Decoder{}.Decode(file)
//	if errors.Is(err, aiff.ErrNotAiffFile) {
//	    // try another decoder
//	}
//	clip, err := audio.ReadClip(src)
//
// Inputs that are not an io.ReadSeeker are read into memory first. The
// common extensions are .aif and .aiff; register the decoder under both.
package aiff
