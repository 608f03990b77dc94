// SPDX-License-Identifier: EPL-2.0

package audfx

import (
	"fmt"
	"time"

	"github.com/ik5/audfx/audio"
	beepbackend "github.com/ik5/audfx/backends/beep"
	otobackend "github.com/ik5/audfx/backends/oto"
	"github.com/ik5/audfx/engine"
	"github.com/ik5/audfx/formats/aiff"
	"github.com/ik5/audfx/formats/mp3"
	"github.com/ik5/audfx/formats/vorbis"
	"github.com/ik5/audfx/formats/wav"
	"github.com/ik5/audfx/internal/device"
	"github.com/ik5/audfx/samples"
)

// Options selects where the backends send their output.
type Options struct {
	// Offline, when set, replaces the sound card.
	Offline *Offline
	// BufferSize is the sound card buffer; zero lets the driver decide.
	BufferSize time.Duration
}

func (o Options) output() device.Output {
	if o.Offline != nil {
		return o.Offline.out
	}

	return device.Oto{BufferSize: o.BufferSize}
}

// NewBackend returns the backend for kind.
func NewBackend(kind engine.Kind, opts Options) (engine.Backend, error) {
	switch kind {
	case engine.KindOto:
		return otobackend.New(opts.output()), nil
	case engine.KindBeep:
		return beepbackend.New(opts.output()), nil
	default:
		return nil, fmt.Errorf("%w: %v", engine.ErrUnknownKind, kind)
	}
}

// DefaultRegistry knows every decoder in formats/.
func DefaultRegistry() *audio.Registry {
	reg := audio.NewRegistry()
	reg.Register("wav", wav.Decoder{})
	reg.Register("aiff", aiff.Decoder{})
	reg.Register("aif", aiff.Decoder{})
	reg.Register("mp3", mp3.Decoder{})
	reg.Register("ogg", vorbis.Decoder{})

	return reg
}

// NewLibrary is a sample library on dir using DefaultRegistry.
func NewLibrary(dir string) *samples.Library {
	return &samples.Library{Dir: dir, Registry: DefaultRegistry()}
}
