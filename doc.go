// Package glyphatlas caches rasterized glyph bitmaps in a bounded set of
// GPU texture atlases and emits textured triangle pairs for drawing them.
//
// The package sits between a text layout engine and a 2D renderer. The
// layout engine hands the cache one positioned glyph at a time; the cache
// rasterizes each distinct glyph appearance once, packs the resulting
// bitmap into a shared atlas texture, and answers later draw requests with
// two clockwise triangles carrying atlas texture coordinates.
//
// Glyph appearances are identified by a quantized cache key: font, glyph,
// uniform scale and subpixel offset, each rounded to a 0.1px grid. Two draw
// requests whose positions differ by less than half a grid step share one
// rasterization and one atlas slot, which keeps the key space bounded under
// floating-point jitter.
//
// Liveness is tracked per frame in two generations. A glyph used in either
// of the last two frames is never evicted; anything older is reclaimed
// lazily, the next time an atlas runs out of space and a full rebuild is
// triggered.
//
// The expected call sequence per frame is:
//
//	for each glyph: cache.MarkUsed(glyph, origin)
//	cache.PrepareForDraw()
//	for each glyph: cache.AppendPrimitives(glyph, origin, color, crop, emit)
//	cache.BeginFrame()
//
// The cache is frame-synchronous and not safe for concurrent use; all
// methods must be called from the rendering goroutine.
//
// GPU access is abstracted behind the Device and Texture interfaces.
// Package gpu provides implementations backed by the gogpu stack; package
// fontraster provides Rasterizer implementations backed by
// golang.org/x/image and go-text/typesetting.
package glyphatlas
