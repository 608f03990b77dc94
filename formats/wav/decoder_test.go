// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"bytes"
	"errors"
	"io"
	"math"
	"testing"

	goaudio "github.com/go-audio/audio"
	"github.com/ik5/audfx/audio"
	"github.com/ik5/audfx/internal/audiotest"
)

func readAll(t *testing.T, src audio.Source) []float32 {
	t.Helper()

	clip, err := audio.ReadClip(src)
	if err != nil {
		t.Fatalf("ReadClip() error = %v", err)
	}

	return clip.Samples
}

func near(a, b float32) bool { return math.Abs(float64(a-b)) < 1e-4 }

func TestDecoder_BitDepths(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    []byte
		want    []float32
		channel int
	}{
		{
			name: "pcm8",
			data: audiotest.WAV(8000, 1, 8, []int32{0, 64, -64, -128}),
			want: []float32{0, 0.5, -0.5, -1},
		},
		{
			name: "pcm16",
			data: audiotest.WAV16(8000, 1, []int16{0, 16384, -16384, -32768}),
			want: []float32{0, 0.5, -0.5, -1},
		},
		{
			name: "pcm24",
			data: audiotest.WAV(8000, 1, 24, []int32{0, 4194304, -4194304, -8388608}),
			want: []float32{0, 0.5, -0.5, -1},
		},
		{
			name: "pcm32",
			data: audiotest.WAV(8000, 1, 32, []int32{0, 1 << 30, -(1 << 30), math.MinInt32}),
			want: []float32{0, 0.5, -0.5, -1},
		},
		{
			name: "float32",
			data: audiotest.WAVFloat(8000, 1, []float32{0, 0.25, -0.75, 1}),
			want: []float32{0, 0.25, -0.75, 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			src, err := Decoder{}.Decode(bytes.NewReader(tt.data))
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			if src.SampleRate() != 8000 || src.Channels() != 1 {
				t.Errorf("format = %d Hz/%d ch, want 8000/1", src.SampleRate(), src.Channels())
			}

			got := readAll(t, src)
			if len(got) != len(tt.want) {
				t.Fatalf("decoded %d samples, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if !near(got[i], tt.want[i]) {
					t.Errorf("sample %d = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestDecoder_Stereo(t *testing.T) {
	t.Parallel()

	data := audiotest.WAV16(44100, 2, []int16{100, -100, 200, -200, 300, -300})

	// plain io.Reader exercises the in-memory fallback
	src, err := Decoder{}.Decode(io.MultiReader(bytes.NewReader(data)))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if src.Channels() != 2 {
		t.Fatalf("Channels() = %d, want 2", src.Channels())
	}

	got := readAll(t, src)
	if len(got) != 6 || got[0] <= 0 || got[1] >= 0 {
		t.Errorf("decoded %v, want interleaved +/- pairs", got)
	}
}

func TestDecoder_Rejects(t *testing.T) {
	t.Parallel()

	adpcm := audiotest.WAV16(8000, 1, []int16{1, 2})
	adpcm[20] = 2 // format tag 2: MS ADPCM

	float64bit := audiotest.WAVFloat(8000, 1, []float32{0})
	float64bit[34] = 64

	pcm12 := audiotest.WAV16(8000, 1, []int16{1, 2})
	pcm12[34] = 12

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"text", []byte("this is not a wav file at all, not even close"), ErrNotWavFile},
		{"empty", nil, ErrNotWavFile},
		{"adpcm", adpcm, ErrUnsupportedEncoding},
		{"float64", float64bit, ErrUnsupportedBitDepth},
		{"pcm12", pcm12, ErrUnsupportedBitDepth},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Decoder{}.Decode(bytes.NewReader(tt.data))
			if !errors.Is(err, tt.want) {
				t.Errorf("Decode() error = %v, want %v", err, tt.want)
			}
		})
	}
}

// fakeReader feeds fixed samples through the source without a file.
type fakeReader struct {
	samples []int
	offset  int
	err     error
}

func (f *fakeReader) Format() *goaudio.Format {
	return &goaudio.Format{SampleRate: 8000, NumChannels: 1}
}

func (f *fakeReader) PCMBuffer(buf *goaudio.IntBuffer) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	n := copy(buf.Data, f.samples[f.offset:])
	f.offset += n

	return n, nil
}

func TestSource_ReadSamples(t *testing.T) {
	t.Parallel()

	src := &source{dec: &fakeReader{samples: []int{16384, -16384, 0}}, sampleRate: 8000, channels: 1, bitDepth: 16}

	buf := make([]float32, 2)
	n, err := src.ReadSamples(buf)
	if n != 2 || err != nil {
		t.Fatalf("ReadSamples() = %d, %v; want 2, nil", n, err)
	}

	n, err = src.ReadSamples(buf)
	if n != 1 || err != nil {
		t.Errorf("short read = %d, %v; want 1, nil", n, err)
	}

	n, err = src.ReadSamples(buf)
	if n != 0 || err != io.EOF {
		t.Errorf("read after end = %d, %v; want 0, io.EOF", n, err)
	}

	if n, err := src.ReadSamples(nil); n != 0 || err != nil {
		t.Errorf("ReadSamples(nil) = %d, %v", n, err)
	}
}

func TestSource_ReadError(t *testing.T) {
	t.Parallel()

	src := &source{dec: &fakeReader{err: io.ErrUnexpectedEOF}, channels: 1, bitDepth: 16}

	if _, err := src.ReadSamples(make([]float32, 4)); !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("ReadSamples() error = %v, want io.ErrUnexpectedEOF", err)
	}
}

func BenchmarkSource_ReadSamples(b *testing.B) {
	samples := make([]int, 1<<16)
	buf := make([]float32, 4096)

	b.ReportAllocs()
	for b.Loop() {
		src := &source{dec: &fakeReader{samples: samples}, channels: 1, bitDepth: 16}
		for {
			if _, err := src.ReadSamples(buf); err != nil {
				break
			}
		}
	}
}
