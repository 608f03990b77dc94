// SPDX-License-Identifier: EPL-2.0

package aiff

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	goaiff "github.com/go-audio/aiff"
	goaudio "github.com/go-audio/audio"
	"github.com/ik5/audfx/audio"
	"github.com/ik5/audfx/utils"
)

const defaultBufSize = 4096

// pcmReader is the part of goaiff.Decoder the source reads through.
type pcmReader interface {
	Format() *goaudio.Format
	PCMBuffer(buf *goaudio.IntBuffer) (int, error)
}

type source struct {
	dec        pcmReader
	sampleRate int
	channels   int
	bitDepth   int

	buf goaudio.IntBuffer
	eof bool
}

func (s *source) SampleRate() int { return s.sampleRate }
func (s *source) Channels() int   { return s.channels }
func (s *source) Close() error    { return nil }

func (s *source) BufSize() int {
	if c := cap(s.buf.Data); c > 0 {
		return c
	}
	return defaultBufSize
}

// ReadSamples decodes whole frames only; a dst shorter than one frame
// reads nothing.
func (s *source) ReadSamples(dst []float32) (int, error) {
	if s.eof {
		return 0, io.EOF
	}

	want := len(dst) - len(dst)%max(s.channels, 1)
	if want == 0 {
		return 0, nil
	}

	if cap(s.buf.Data) < want {
		s.buf.Data = make([]int, want)
		s.buf.Format = s.dec.Format()
	}
	s.buf.Data = s.buf.Data[:want]

	n, err := s.dec.PCMBuffer(&s.buf)
	if errors.Is(err, io.EOF) {
		s.eof, err = n == 0, nil
	}
	if err != nil {
		n = 0
	}

	toFloat := sampleConverter(s.bitDepth)
	for i, v := range s.buf.Data[:n] {
		dst[i] = toFloat(v)
	}

	switch {
	case err != nil:
		return 0, fmt.Errorf("decoding aiff: %w", err)
	case n == 0:
		s.eof = true
		return 0, io.EOF
	}

	return n, nil
}

// sampleConverter normalizes a decoded sample of the given depth. The
// reader may widen 8 and 32-bit samples as unsigned, so those are narrowed
// back to their signed width first.
func sampleConverter(bitDepth int) func(int) float32 {
	switch bitDepth {
	case 8:
		return func(v int) float32 { return utils.IntToFloat32(int(int8(uint8(v))), 8) }
	case 32:
		return func(v int) float32 { return utils.IntToFloat32(int(int32(uint32(v))), 32) }
	default:
		return func(v int) float32 { return utils.IntToFloat32(v, bitDepth) }
	}
}

// Decoder reads uncompressed AIFF at 8, 16, 24 or 32 bits per sample.
type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	rs, ok := r.(io.ReadSeeker)
	if !ok {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("reading aiff data: %w", err)
		}
		rs = bytes.NewReader(data)
	}

	dec := goaiff.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, ErrNotAiffFile
	}
	dec.ReadInfo()

	if d := dec.BitDepth; d != 8 && d != 16 && d != 24 && d != 32 {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, d)
	}

	f := dec.Format()
	if f == nil || f.NumChannels <= 0 || f.SampleRate <= 0 {
		return nil, ErrUnsupportedAiffLayout
	}

	return &source{
		dec:        dec,
		sampleRate: f.SampleRate,
		channels:   f.NumChannels,
		bitDepth:   int(dec.BitDepth),
	}, nil
}
