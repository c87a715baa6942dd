package glyphatlas

import (
	"fmt"
	"image"
	"math"
	"sort"
)

// Config holds cache configuration.
type Config struct {
	// AtlasSize is the atlas texture size (width = height) in pixels.
	// Glyphs larger than this in either dimension cannot be cached.
	// Default: 1024
	AtlasSize int
}

// DefaultConfig returns the default cache configuration.
func DefaultConfig() Config {
	return Config{
		AtlasSize: 1024,
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.AtlasSize < 64 {
		return &ConfigError{Field: "AtlasSize", Reason: "must be at least 64"}
	}
	if c.AtlasSize > 8192 {
		return &ConfigError{Field: "AtlasSize", Reason: "must be at most 8192"}
	}
	return nil
}

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return "glyphatlas: invalid config." + e.Field + ": " + e.Reason
}

// spareAtlasesAfterRebuild is how many emptied atlases a rebuild keeps
// around to absorb the next burst without an immediate GPU allocation.
const spareAtlasesAfterRebuild = 1

// cacheKey is the quantized identity of one rasterized glyph appearance.
// Draw requests that agree on font, glyph and scale, and whose subpixel
// offsets fall in the same 0.1px bucket, share one key and one atlas slot.
type cacheKey struct {
	font FontID

	// subpixelX/Y quantize the fractional screen position, each in
	// [-0.5, 0.5) pixels.
	subpixelX QuantizedDim
	subpixelY QuantizedDim

	scale QuantizedDim
	gid   GlyphID
}

// cacheEntry holds one rasterized glyph appearance. Entries are created
// on first use, never mutated afterwards, and removed only during a
// rebuild when absent from both liveness generations.
type cacheEntry struct {
	// bitmap is shared with the atlas the entry is staged through and
	// read-only after creation.
	bitmap *Bitmap

	// boundsOffset is the offset from the glyph's logical origin to the
	// bitmap's top-left corner.
	boundsOffset image.Point

	// atlasIndex is the index of the atlas holding this entry's bitmap,
	// or -1 while the entry is rasterized but not yet placed.
	atlasIndex int
}

// Cache rasterizes glyphs on demand, packs the bitmaps into a bounded set
// of atlas textures and emits textured triangle pairs for drawing.
//
// Cache is frame-synchronous and not safe for concurrent use. See the
// package documentation for the per-frame call sequence.
type Cache struct {
	config     Config
	device     Device
	rasterizer Rasterizer

	// Two-generation liveness: thisFrame accumulates every key touched
	// since the last BeginFrame, lastFrame holds the previous frame's
	// set. A key in neither set is eligible for eviction at the next
	// rebuild.
	lastFrame map[cacheKey]struct{}
	thisFrame map[cacheKey]struct{}

	entries map[cacheKey]*cacheEntry
	atlases []*atlas

	stats CacheStats
}

// New creates a cache with the default configuration.
func New(device Device, rasterizer Rasterizer) *Cache {
	c, err := NewWithConfig(device, rasterizer, DefaultConfig())
	if err != nil {
		// DefaultConfig always validates.
		panic(err)
	}
	return c
}

// NewWithConfig creates a cache with the given configuration.
func NewWithConfig(device Device, rasterizer Rasterizer, config Config) (*Cache, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &Cache{
		config:     config,
		device:     device,
		rasterizer: rasterizer,
		lastFrame:  make(map[cacheKey]struct{}),
		thisFrame:  make(map[cacheKey]struct{}),
		entries:    make(map[cacheKey]*cacheEntry),
	}, nil
}

// keyFor computes the cache key for a glyph drawn at origin.
// The subpixel offset is the fractional part of the final screen position
// relative to the nearest integer pixel.
func keyFor(g Glyph, origin Vec2) cacheKey {
	pos := origin.Add(g.Pos)
	return cacheKey{
		font:      g.Font,
		subpixelX: Quantize(pos.X - math.Round(pos.X)),
		subpixelY: Quantize(pos.Y - math.Round(pos.Y)),
		scale:     Quantize(g.Scale),
		gid:       g.GID,
	}
}

// MarkUsed records that a glyph is drawn this frame and rasterizes it if
// this appearance has not been seen before.
//
// The glyph is re-derived from the quantized scale and subpixel offset,
// not the raw inputs, so identical keys always produce byte-identical
// bitmaps. Glyphs with no visible pixels (e.g. space) create no entry.
// Glyphs larger than one atlas are logged and dropped; they will never
// render.
func (c *Cache) MarkUsed(g Glyph, origin Vec2) {
	key := keyFor(g, origin)
	c.thisFrame[key] = struct{}{}

	if _, ok := c.entries[key]; ok {
		c.stats.Hits++
		return
	}
	c.stats.Misses++

	offset := V2(key.subpixelX.Pixels(), key.subpixelY.Pixels())
	rast, err := c.rasterizer.Rasterize(g.Font, g.GID, key.scale.Pixels(), offset)
	if err != nil {
		Logger().Error("glyph rasterization failed",
			"font", g.Font, "glyph", g.GID, "err", err)
		return
	}

	bounds := rast.Bounds
	if bounds.Empty() {
		// Valid for many glyphs, e.g. space.
		return
	}

	if bounds.Dx() > c.config.AtlasSize || bounds.Dy() > c.config.AtlasSize {
		Logger().Error("glyph too big to render",
			"width", bounds.Dx(), "height", bounds.Dy(), "limit", c.config.AtlasSize)
		return
	}

	bm := NewBitmap(bounds.Dx(), bounds.Dy())
	bm.DrawGlyph(rast)

	c.entries[key] = &cacheEntry{
		bitmap:       bm,
		boundsOffset: bounds.Min,
		atlasIndex:   -1,
	}
}

// AppendPrimitives emits the two clockwise triangles that draw a glyph,
// or nothing when the glyph has no cached bitmap (invisible glyphs) or
// when crop clips it away entirely.
//
// PrepareForDraw must have run since the glyph was first marked used, so
// that its atlas placement exists.
func (c *Cache) AppendPrimitives(g Glyph, origin Vec2, col RGBA, crop *Rect, emit func(Primitive)) {
	key := keyFor(g, origin)

	entry, ok := c.entries[key]
	if !ok || entry.atlasIndex < 0 {
		return
	}

	a := c.atlases[entry.atlasIndex]
	placement := a.placements[key]

	atlasSize := float64(c.config.AtlasSize)
	texRegion := Rect{
		MinX: float64(placement.Min.X) / atlasSize,
		MinY: float64(placement.Min.Y) / atlasSize,
		MaxX: float64(placement.Max.X) / atlasSize,
		MaxY: float64(placement.Max.Y) / atlasSize,
	}

	// The subpixel offset is baked into the bitmap, so the screen
	// rectangle snaps to the nearest integer pixel.
	pos := origin.Add(g.Pos).Round()
	screen := RectFromSize(
		pos.X+float64(entry.boundsOffset.X),
		pos.Y+float64(entry.boundsOffset.Y),
		float64(placement.Dx()),
		float64(placement.Dy()),
	)

	if crop != nil {
		clipped, ok := screen.Intersect(*crop)
		if !ok {
			return
		}

		// Shrink the texture rectangle by the same fraction that was
		// clipped from each screen edge, preserving UV-to-pixel
		// correspondence.
		leftFrac := (clipped.MinX - screen.MinX) / screen.Width()
		rightFrac := (screen.MaxX - clipped.MaxX) / screen.Width()
		topFrac := (clipped.MinY - screen.MinY) / screen.Height()
		bottomFrac := (screen.MaxY - clipped.MaxY) / screen.Height()

		texW := texRegion.Width()
		texH := texRegion.Height()
		texRegion = Rect{
			MinX: texRegion.MinX + texW*leftFrac,
			MinY: texRegion.MinY + texH*topFrac,
			MaxX: texRegion.MaxX - texW*rightFrac,
			MaxY: texRegion.MaxY - texH*bottomFrac,
		}

		screen = clipped
	}

	sc := screen.Corners()
	tc := texRegion.Corners()

	vertex := func(i int) Vertex {
		return Vertex{
			Pos:        sc[i],
			TexCoord:   tc[i],
			Color:      col,
			TextureMix: 1,
			CircleMix:  0,
		}
	}

	// Corners are [top-left, top-right, bottom-right, bottom-left].
	emit(Primitive{
		Texture:  a.texture,
		Vertices: [3]Vertex{vertex(0), vertex(1), vertex(2)},
	})
	emit(Primitive{
		Texture:  a.texture,
		Vertices: [3]Vertex{vertex(2), vertex(3), vertex(0)},
	})
}

// BeginFrame rotates the liveness generations: the finished frame's usage
// becomes the previous generation and a fresh one begins accumulating.
// Call exactly once per frame, after all draw-primitive requests for the
// previous frame and before any MarkUsed calls for the new one.
func (c *Cache) BeginFrame() {
	clear(c.lastFrame)
	c.lastFrame, c.thisFrame = c.thisFrame, c.lastFrame
}

// PrepareForDraw gives every cached glyph an atlas placement and flushes
// changed atlases to the GPU. Call once per frame, after all MarkUsed
// calls and before GPU submission.
//
// Placement is incremental while the existing atlases have space. When
// any pending glyph fails to fit, everything is rebuilt from scratch:
// entries unused for the last two frames are evicted, the survivors are
// repacked tallest-first, and at most one emptied spare atlas is kept.
//
// Errors can only come from the GPU collaborators (texture creation
// during rebuild, upload during revalidation) and abort the call; the
// caller decides whether to abort the frame.
func (c *Cache) PrepareForDraw() error {
	if !c.tryPlacePending() {
		// Not enough space. Rearrange everything.
		if err := c.rebuild(); err != nil {
			return fmt.Errorf("glyphatlas: glyph rearrangement failed: %w", err)
		}
	}

	for _, a := range c.atlases {
		if err := a.revalidate(); err != nil {
			return fmt.Errorf("glyphatlas: revalidate failed: %w", err)
		}
	}

	return nil
}

// tryPlacePending appends every unplaced entry to the first existing
// atlas with room. Reports false as soon as one entry fits nowhere;
// placements made up to that point are reclaimed by the rebuild that
// follows.
func (c *Cache) tryPlacePending() bool {
	for key, entry := range c.entries {
		if entry.atlasIndex >= 0 {
			continue
		}

		idx, ok := c.appendToExisting(key, entry.bitmap)
		if !ok {
			return false
		}
		entry.atlasIndex = idx
	}
	return true
}

// appendToExisting tries each atlas in index order and returns the index
// of the first that accepts the bitmap.
func (c *Cache) appendToExisting(key cacheKey, bm *Bitmap) (int, bool) {
	for i, a := range c.atlases {
		if err := a.tryAppend(key, bm); err == nil {
			return i, true
		}
	}
	return 0, false
}

// rebuild clears every atlas, evicts entries absent from both liveness
// generations and repacks the survivors tallest-first, pulling emptied
// atlases back into service before creating new ones.
func (c *Cache) rebuild() error {
	c.stats.Rebuilds++

	for key, entry := range c.entries {
		entry.atlasIndex = -1

		_, last := c.lastFrame[key]
		_, this := c.thisFrame[key]
		if !last && !this {
			delete(c.entries, key)
			c.stats.Evictions++
		}
	}

	// Sort survivors by bitmap height, tallest first, so rows of mixed
	// glyph heights waste less vertical space.
	type keyedEntry struct {
		key   cacheKey
		entry *cacheEntry
	}
	survivors := make([]keyedEntry, 0, len(c.entries))
	for key, entry := range c.entries {
		survivors = append(survivors, keyedEntry{key, entry})
	}
	sort.Slice(survivors, func(i, j int) bool {
		return survivors[i].entry.bitmap.Height() > survivors[j].entry.bitmap.Height()
	})

	// All current atlases go into a pool of cleared spares; they are
	// pulled back one at a time as the repack fills them.
	pool := c.atlases
	c.atlases = nil
	for _, a := range pool {
		a.clear()
	}

	for _, s := range survivors {
		idx, err := c.placeRebuilt(s.key, s.entry.bitmap, &pool)
		if err != nil {
			return err
		}
		s.entry.atlasIndex = idx
	}

	// Keep at most one spare to absorb the next burst; release the rest.
	if n := len(pool); n > 0 {
		keep := n - spareAtlasesAfterRebuild
		if keep < 0 {
			keep = 0
		}
		for _, a := range pool[:keep] {
			a.destroyTexture()
		}
		c.atlases = append(c.atlases, pool[keep:]...)
	}

	Logger().Debug("atlas rebuild complete",
		"entries", len(c.entries), "atlases", len(c.atlases))

	return nil
}

// placeRebuilt appends a bitmap during rebuild: first into the active
// atlases, then into one pulled from the spare pool, and finally into a
// freshly created atlas. Returns the index of the atlas used.
func (c *Cache) placeRebuilt(key cacheKey, bm *Bitmap, pool *[]*atlas) (int, error) {
	for i, a := range c.atlases {
		if err := a.tryAppend(key, bm); err == nil {
			return i, nil
		}
	}

	if n := len(*pool); n > 0 {
		a := (*pool)[n-1]
		*pool = (*pool)[:n-1]
		c.atlases = append(c.atlases, a)

		if err := a.tryAppend(key, bm); err == nil {
			return len(c.atlases) - 1, nil
		}
	}

	Logger().Info("no more space in existing atlases, creating new",
		"atlases", len(c.atlases))

	a, err := newAtlas(c.device, c.config.AtlasSize)
	if err != nil {
		return 0, err
	}
	c.atlases = append(c.atlases, a)
	c.stats.AtlasesCreated++

	if err := a.tryAppend(key, bm); err != nil {
		// A fresh atlas rejecting a bitmap that passed the size check is
		// a logic bug, not ordinary space exhaustion.
		return 0, fmt.Errorf("internal bug: could not append to new atlas: %w", err)
	}
	return len(c.atlases) - 1, nil
}

// Len returns the number of cached glyph appearances.
func (c *Cache) Len() int {
	return len(c.entries)
}

// AtlasCount returns the number of atlas textures currently held,
// including at most one empty spare.
func (c *Cache) AtlasCount() int {
	return len(c.atlases)
}

