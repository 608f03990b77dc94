// SPDX-License-Identifier: EPL-2.0

package reverb

import "errors"

var (
	ErrInvalidSize = errors.New("reverb: invalid parameter block size")
	ErrOutOfRange  = errors.New("reverb: parameter out of range")
)
