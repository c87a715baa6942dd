package glyphatlas

import "math"

// QuantizedDim is a continuous pixel quantity snapped to a 0.1px grid.
// It is the unit used in cache keys: two pixel values that quantize to the
// same QuantizedDim are treated as the same glyph appearance. The grid is
// fine enough that the snap error (at most 0.05px) is visually
// imperceptible, while collapsing floating-point jitter that would
// otherwise explode the key space.
type QuantizedDim int32

// Quantize converts a pixel value to its quantized form, rounding to the
// nearest grid step with halves away from zero. Values may be negative;
// subpixel offsets lie in [-0.5, 0.5).
func Quantize(pixels float64) QuantizedDim {
	return QuantizedDim(math.Round(pixels * 10))
}

// Pixels converts the quantized value back to pixels.
func (q QuantizedDim) Pixels() float64 {
	return float64(q) / 10
}
