// SPDX-License-Identifier: EPL-2.0

package engine

import "errors"

var (
	ErrEngineInit     = errors.New("engine: audio engine initialization failed")
	ErrMasteringVoice = errors.New("engine: mastering voice creation failed")
	ErrVoiceCreation  = errors.New("engine: source voice creation failed")
	ErrEffectAttach   = errors.New("engine: effect chain attach failed")
	ErrBufferSubmit   = errors.New("engine: buffer submission failed")

	ErrEffectParameters      = errors.New("engine: effect parameters rejected")
	ErrEffectToggle          = errors.New("engine: effect enable or disable failed")
	ErrNoVoice               = errors.New("engine: no sample loaded")
	ErrClosed                = errors.New("engine: context is shut down")
	ErrNoSampleSource        = errors.New("engine: no sample source configured")
	ErrInvalidVolume         = errors.New("engine: volume must be finite and non-negative")
	ErrInvalidFrequencyRatio = errors.New("engine: frequency ratio out of range")
	ErrUnknownKind           = errors.New("engine: unknown backend kind")
	ErrUnknownLayout         = errors.New("engine: unknown channel layout")
)
