package utils

import "testing"

func TestIntToFloat32(t *testing.T) {
	t.Parallel()

	tests := []struct {
		v     int
		depth int
		want  float32
	}{
		{0, 16, 0},
		{-32768, 16, -1},
		{16384, 16, 0.5},
		{-128, 8, -1},
		{64, 8, 0.5},
		{4194304, 24, 0.5},
		{-8388608, 24, -1},
		{-2147483648, 32, -1},
		{1073741824, 32, 0.5},
		{16384, 12, 0.5},
	}

	for _, tt := range tests {
		if got := IntToFloat32(tt.v, tt.depth); got != tt.want {
			t.Errorf("IntToFloat32(%d, %d) = %v, want %v", tt.v, tt.depth, got, tt.want)
		}
	}
}
