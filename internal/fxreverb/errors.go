// SPDX-License-Identifier: EPL-2.0

package fxreverb

import "errors"

var (
	ErrParameterSize = errors.New("fxreverb: parameter block must be 52 or 132 bytes")
	ErrChannels      = errors.New("fxreverb: unsupported channel count")
)
