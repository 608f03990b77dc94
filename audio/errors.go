// SPDX-License-Identifier: EPL-2.0

package audio

import "errors"

var (
	ErrInvalidDstSize  = errors.New("dst size must be multiple of channels")
	ErrInvalidClip     = errors.New("invalid clip")
	ErrInvalidRatio    = errors.New("playback ratio must be positive")
	ErrInvalidChannels = errors.New("channel count must be positive")
	ErrUnknownFormat   = errors.New("no decoder registered for format")
)
