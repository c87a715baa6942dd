package glyphatlas

import (
	"math"
	"testing"
)

func TestQuantize(t *testing.T) {
	tests := []struct {
		name   string
		pixels float64
		want   QuantizedDim
	}{
		{"zero", 0, 0},
		{"one pixel", 1.0, 10},
		{"tenth", 0.1, 1},
		{"rounds down", 0.24, 2},
		{"rounds up", 0.26, 3},
		{"half away from zero", 0.25, 3},
		{"negative", -0.3, -3},
		{"negative rounds toward larger magnitude", -0.26, -3},
		{"negative half away from zero", -0.25, -3},
		{"typical font size", 16.0, 160},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Quantize(tt.pixels); got != tt.want {
				t.Errorf("Quantize(%v) = %v, want %v", tt.pixels, got, tt.want)
			}
		})
	}
}

func TestQuantizeRoundTripError(t *testing.T) {
	// Round-trip error must stay within half a grid step.
	for p := -2.0; p <= 2.0; p += 0.003 {
		got := Quantize(p).Pixels()
		if diff := math.Abs(got - p); diff > 0.05+1e-9 {
			t.Fatalf("Quantize(%v).Pixels() = %v, error %v exceeds 0.05", p, got, diff)
		}
	}
}

func TestQuantizedDimPixels(t *testing.T) {
	if got := QuantizedDim(15).Pixels(); got != 1.5 {
		t.Errorf("Pixels() = %v, want 1.5", got)
	}
	if got := QuantizedDim(-3).Pixels(); got != -0.3 {
		t.Errorf("Pixels() = %v, want -0.3", got)
	}
}
