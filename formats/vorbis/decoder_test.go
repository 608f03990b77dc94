// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/ik5/audfx/audio"
)

// mockOggReader hands out at most chunk values per Read.
type mockOggReader struct {
	rate, channels int
	data           []float32
	chunk          int
	err            error
	lastLen        int
}

func (m *mockOggReader) SampleRate() int { return m.rate }
func (m *mockOggReader) Channels() int   { return m.channels }

func (m *mockOggReader) Read(p []float32) (int, error) {
	m.lastLen = len(p)
	if m.err != nil {
		return 0, m.err
	}
	if len(m.data) == 0 {
		return 0, io.EOF
	}

	n := copy(p[:min(len(p), m.chunk)], m.data)
	m.data = m.data[n:]

	return n, nil
}

func TestDecoder_InvalidInput(t *testing.T) {
	t.Parallel()

	for _, data := range [][]byte{nil, []byte("OggS garbage that is not vorbis")} {
		if _, err := (Decoder{}).Decode(bytes.NewReader(data)); err == nil {
			t.Errorf("Decode(%q) succeeded", data)
		}
	}
}

func TestSource_ReadSamples(t *testing.T) {
	t.Parallel()

	dec := &mockOggReader{rate: 22050, channels: 2, data: []float32{0.1, -0.1, 0.2, -0.2, 0.3, -0.3}, chunk: 4}
	src := &source{dec: dec, sampleRate: 22050, channels: 2}

	if src.SampleRate() != 22050 || src.Channels() != 2 {
		t.Fatalf("format = %d Hz/%d ch", src.SampleRate(), src.Channels())
	}

	buf := make([]float32, 8)
	var got []float32
	for {
		n, err := src.ReadSamples(buf)
		got = append(got, buf[:n]...)
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("ReadSamples() error = %v", err)
		}
	}

	want := []float32{0.1, -0.1, 0.2, -0.2, 0.3, -0.3}
	if len(got) != len(want) {
		t.Fatalf("read %d samples, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sample %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestSource_ReadSamples_FrameAligned(t *testing.T) {
	t.Parallel()

	dec := &mockOggReader{rate: 48000, channels: 2, data: make([]float32, 100), chunk: 100}
	src := &source{dec: dec, sampleRate: 48000, channels: 2}

	n, err := src.ReadSamples(make([]float32, 7))
	if err != nil {
		t.Fatalf("ReadSamples() error = %v", err)
	}
	if dec.lastLen != 6 || n != 6 {
		t.Errorf("decoder saw %d values and returned %d, want 6 and 6", dec.lastLen, n)
	}

	if n, err := src.ReadSamples(make([]float32, 1)); n != 0 || err != nil {
		t.Errorf("sub-frame read = %d, %v; want 0, nil", n, err)
	}
}

func TestSource_ReadSamples_Error(t *testing.T) {
	t.Parallel()

	src := &source{dec: &mockOggReader{channels: 1, err: io.ErrUnexpectedEOF}, channels: 1}
	if _, err := src.ReadSamples(make([]float32, 4)); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("ReadSamples() error = %v, want io.ErrUnexpectedEOF", err)
	}
}

var _ audio.Source = (*source)(nil)

func TestSource_AsAudioSource(t *testing.T) {
	t.Parallel()

	tests := []struct {
		channels int
		bufSize  int
	}{
		{1, 4096},
		{2, 4096},
		{6, 4092},
	}

	for _, tt := range tests {
		data := make([]float32, 10*tt.channels)
		for i := range data {
			data[i] = float32(i) / 100
		}

		var src audio.Source = &source{
			dec:        &mockOggReader{rate: 44100, channels: tt.channels, data: data, chunk: 3 * tt.channels},
			sampleRate: 44100,
			channels:   tt.channels,
		}
		if got := src.BufSize(); got != tt.bufSize || got%tt.channels != 0 {
			t.Errorf("%d ch: BufSize() = %d, want %d", tt.channels, got, tt.bufSize)
		}

		clip, err := audio.ReadClip(src)
		if err != nil {
			t.Fatalf("%d ch: ReadClip() error = %v", tt.channels, err)
		}
		if clip.Frames() != 10 || clip.Channels != tt.channels {
			t.Errorf("%d ch: clip has %d frames of %d channels", tt.channels, clip.Frames(), clip.Channels)
		}
		for i, want := range data {
			if clip.Samples[i] != want {
				t.Fatalf("%d ch: sample %d = %v, want %v", tt.channels, i, clip.Samples[i], want)
			}
		}
	}
}

func BenchmarkSource_ReadSamples(b *testing.B) {
	data := make([]float32, 1<<16)
	buf := make([]float32, 4096)

	b.ReportAllocs()
	for b.Loop() {
		src := &source{dec: &mockOggReader{channels: 2, data: data, chunk: 2048}, channels: 2}
		for {
			if _, err := src.ReadSamples(buf); err != nil {
				break
			}
		}
	}
}
