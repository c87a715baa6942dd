package glyphatlas

// Texture is one GPU texture owned by an atlas.
//
// Implementations wrap whatever texture object the rendering backend
// uses; the cache only ever uploads full RGBA images to it and hands the
// handle through to emitted primitives. Atlas bitmaps must be sampled
// with nearest-neighbour filtering; the 1px border the packer reserves
// around each glyph exists to keep bilinear-capable samplers from
// bleeding neighbouring glyphs.
type Texture interface {
	// Upload replaces the full texture contents with the given RGBA8
	// pixel buffer. len(pix) must be width*height*4.
	Upload(pix []uint8, width, height int) error
}

// Device creates atlas textures.
//
// The cache calls CreateTexture lazily, only when a rebuild needs more
// atlas space than the existing textures provide. Creation failure is
// surfaced from Cache.PrepareForDraw.
type Device interface {
	CreateTexture(width, height int) (Texture, error)
}

// TextureDestroyer is implemented by textures whose GPU resources can be
// released eagerly. The cache calls Destroy on spare atlas textures it
// discards after a rebuild; textures without the method are simply
// dropped for the garbage collector.
type TextureDestroyer interface {
	Destroy()
}
