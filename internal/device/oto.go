// SPDX-License-Identifier: EPL-2.0

package device

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
)

// oto allows one context per process; it is created by the first Open and
// reused by every later one.
var (
	otoMu     sync.Mutex
	otoCtx    *oto.Context
	otoFormat Format
)

// Oto is the sound card output.
type Oto struct {
	// BufferSize is the driver buffer length; zero lets oto decide.
	BufferSize time.Duration
}

func (o Oto) Open(f Format) (Endpoint, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	otoMu.Lock()
	defer otoMu.Unlock()

	if otoCtx == nil {
		ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
			SampleRate:   f.SampleRate,
			ChannelCount: f.Channels,
			Format:       oto.FormatFloat32LE,
			BufferSize:   o.BufferSize,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrOpen, err)
		}
		<-ready

		otoCtx = ctx
		otoFormat = f
	} else if otoFormat != f {
		return nil, fmt.Errorf("%w: running %s, requested %s", ErrFormatMismatch, otoFormat, f)
	}

	if err := otoCtx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpen, err)
	}

	return &otoEndpoint{ctx: otoCtx, format: f}, nil
}

type otoEndpoint struct {
	ctx    *oto.Context
	format Format

	mtx     sync.Mutex
	players []*oto.Player
	closed  bool
}

func (e *otoEndpoint) Format() Format { return e.format }

func (e *otoEndpoint) Play(r io.Reader) (Stream, error) {
	e.mtx.Lock()
	defer e.mtx.Unlock()

	if e.closed {
		return nil, ErrClosed
	}

	p := e.ctx.NewPlayer(r)
	p.Play()
	e.players = append(e.players, p)

	return &otoStream{endpoint: e, player: p}, nil
}

func (e *otoEndpoint) Close() error {
	e.mtx.Lock()
	defer e.mtx.Unlock()

	if e.closed {
		return nil
	}
	e.closed = true

	var errs []error
	for _, p := range e.players {
		p.Pause()
		if err := p.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	e.players = nil

	return errors.Join(errs...)
}

func (e *otoEndpoint) release(p *oto.Player) {
	e.mtx.Lock()
	defer e.mtx.Unlock()

	for i, q := range e.players {
		if q == p {
			e.players = append(e.players[:i], e.players[i+1:]...)
			break
		}
	}
}

type otoStream struct {
	endpoint *otoEndpoint
	player   *oto.Player
	once     sync.Once
	err      error
}

func (s *otoStream) Close() error {
	s.once.Do(func() {
		s.endpoint.release(s.player)
		s.player.Pause()
		s.err = s.player.Close()
	})

	return s.err
}
