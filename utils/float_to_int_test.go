// SPDX-License-Identifier: EPL-2.0

package utils

import (
	"math"
	"testing"
)

func TestFloat32ToInt16(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input float32
		want  int16
	}{
		{name: "zero", input: 0, want: 0},
		{name: "max positive", input: 1, want: math.MaxInt16},
		{name: "max negative", input: -1, want: -math.MaxInt16},
		{name: "half", input: 0.5, want: 16383},
		{name: "clamp over max", input: 1.5, want: math.MaxInt16},
		{name: "clamp under min", input: -100, want: -math.MaxInt16},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Float32ToInt16(tt.input)
			if diff := math.Abs(float64(got) - float64(tt.want)); diff > 1 {
				t.Errorf("Float32ToInt16(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestPCM16(t *testing.T) {
	t.Parallel()

	src := []float32{0, 0.5, -0.5, 2}
	dst := make([]int16, 3)

	n := PCM16(dst, src)
	if n != 3 {
		t.Fatalf("PCM16() n = %d, want 3", n)
	}

	want := []int16{0, 16383, -16383}
	for i := range want {
		if dst[i] != want[i] {
			t.Errorf("dst[%d] = %d, want %d", i, dst[i], want[i])
		}
	}
}

func TestPCM16_ZeroAllocs(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping allocation test in short mode")
	}

	src := make([]float32, 1024)
	dst := make([]int16, 1024)

	allocs := testing.AllocsPerRun(100, func() {
		PCM16(dst, src)
	})

	if allocs > 0 {
		t.Errorf("PCM16 allocated %v times, want 0", allocs)
	}
}
