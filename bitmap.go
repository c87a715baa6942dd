package glyphatlas

import (
	"image"
	"math"
)

// Bitmap is a rectangular RGBA8 pixel buffer.
// New bitmaps are fully transparent. Glyph bitmaps are written once via
// DrawGlyph and treated as read-only afterwards, so a single bitmap can be
// shared between a cache entry and the atlas it is staged through.
type Bitmap struct {
	width  int
	height int
	data   []uint8 // RGBA format, 4 bytes per pixel
}

// NewBitmap creates a new transparent bitmap with the given dimensions.
func NewBitmap(width, height int) *Bitmap {
	return &Bitmap{
		width:  width,
		height: height,
		data:   make([]uint8, width*height*4),
	}
}

// Width returns the width of the bitmap.
func (b *Bitmap) Width() int {
	return b.width
}

// Height returns the height of the bitmap.
func (b *Bitmap) Height() int {
	return b.height
}

// Data returns the raw pixel data (RGBA format).
func (b *Bitmap) Data() []uint8 {
	return b.data
}

// Clear resets every pixel to fully transparent.
func (b *Bitmap) Clear() {
	clear(b.data)
}

// DrawGlyph writes rasterized glyph coverage into the bitmap as opaque
// white with coverage as alpha. The bitmap must be at least the size of
// the rasterization's bounding box.
func (b *Bitmap) DrawGlyph(r Rasterization) {
	if r.Coverage == nil {
		return
	}
	r.Coverage(func(x, y int, alpha float64) {
		i := 4 * (y*b.width + x)
		b.data[i+0] = 255
		b.data[i+1] = 255
		b.data[i+2] = 255
		b.data[i+3] = uint8(math.Round(alpha * 255))
	})
}

// Blit copies the full content of src into the bitmap with its top-left
// corner at pos. The destination region must lie inside the bitmap.
// Rows are contiguous same-width spans, so each row is one bulk copy.
func (b *Bitmap) Blit(src *Bitmap, pos image.Point) {
	srcStride := src.width * 4
	dstStride := b.width * 4

	srcOff := 0
	dstOff := pos.Y*dstStride + pos.X*4
	for srcOff < len(src.data) {
		copy(b.data[dstOff:dstOff+srcStride], src.data[srcOff:srcOff+srcStride])
		srcOff += srcStride
		dstOff += dstStride
	}
}

// UploadTo pushes the full pixel buffer to a GPU texture.
func (b *Bitmap) UploadTo(t Texture) error {
	return t.Upload(b.data, b.width, b.height)
}

// ToImage converts the bitmap to an image.RGBA, useful for debugging and
// golden tests.
func (b *Bitmap) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, b.width, b.height))
	copy(img.Pix, b.data)
	return img
}
