// SPDX-License-Identifier: EPL-2.0

package utils

import (
	"math"
	"testing"
)

func TestDBToGain(t *testing.T) {
	t.Parallel()

	tests := []struct {
		db   float32
		want float32
	}{
		{0, 1},
		{-20, 0.1},
		{20, 10},
		{-6, 0.501},
	}

	for _, tt := range tests {
		got := DBToGain(tt.db)
		if math.Abs(float64(got-tt.want)) > 0.001 {
			t.Errorf("DBToGain(%v) = %v, want %v", tt.db, got, tt.want)
		}
	}
}

func TestMillibelsToDB(t *testing.T) {
	t.Parallel()

	if got := MillibelsToDB(-10000); got != -100 {
		t.Errorf("MillibelsToDB(-10000) = %v, want -100", got)
	}
	if got := MillibelsToDB(250); got != 2.5 {
		t.Errorf("MillibelsToDB(250) = %v, want 2.5", got)
	}
}

func TestClamp(t *testing.T) {
	t.Parallel()

	if got := Clamp(5, 0, 1); got != 1 {
		t.Errorf("Clamp(5, 0, 1) = %v, want 1", got)
	}
	if got := Clamp(-5, 0, 1); got != 0 {
		t.Errorf("Clamp(-5, 0, 1) = %v, want 0", got)
	}
	if got := Clamp(0.3, 0, 1); got != 0.3 {
		t.Errorf("Clamp(0.3, 0, 1) = %v, want 0.3", got)
	}
}
