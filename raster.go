package glyphatlas

import "image"

// Rasterization is the result of rasterizing one glyph appearance.
type Rasterization struct {
	// Bounds is the integer pixel bounding box of the visible glyph,
	// relative to the glyph origin. An empty rectangle means the glyph
	// has no visible pixels (whitespace, zero-size glyphs) and nothing
	// will be cached or drawn for it.
	Bounds image.Rectangle

	// Coverage walks the covered pixels of the bounding box in row-major
	// order. fn receives coordinates relative to Bounds.Min and a
	// coverage value in [0, 1]. Coverage may be nil when Bounds is empty.
	Coverage func(fn func(x, y int, alpha float64))
}

// Rasterizer turns a glyph appearance into per-pixel coverage.
//
// The cache always calls Rasterize with quantized scale and offset values,
// so identical cache keys produce byte-identical bitmaps. The offset is a
// subpixel offset in [-0.5, 0.5) on each axis.
//
// Implementations are provided by package fontraster; a Rasterizer only
// needs to be consistent, not fast, since each appearance is rasterized
// once.
type Rasterizer interface {
	Rasterize(font FontID, gid GlyphID, scale float64, offset Vec2) (Rasterization, error)
}
