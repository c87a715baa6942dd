package glyphatlas

// FontID is a unique identifier for a font.
// IDs are assigned by the rasterizer backend (see package fontraster) or
// by the caller; the cache only compares them for equality.
type FontID uint64

// GlyphID is a unique identifier for a glyph within a font.
// The glyph ID is assigned by the font file and is font-specific.
type GlyphID uint16

// Glyph describes one positioned glyph to draw, as produced by text
// layout. Position and scale are in pixels.
type Glyph struct {
	// Font identifies the font this glyph belongs to.
	Font FontID

	// GID is the glyph index in the font.
	GID GlyphID

	// Scale is the uniform pixel scale (pixels per em).
	Scale float64

	// Pos is the glyph origin relative to the draw origin passed to
	// MarkUsed and AppendPrimitives. The draw origin plus Pos gives the
	// final screen position; only its fractional part affects the cache
	// key.
	Pos Vec2
}
