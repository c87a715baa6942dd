package glyphatlas

import (
	"fmt"
	"image"
)

// atlas is one fixed-size square cache texture: a CPU-side bitmap, the
// packer describing free space within it, the GPU texture it mirrors, and
// the placements of every glyph appended so far.
type atlas struct {
	bitmap  *Bitmap
	packer  *Packer
	texture Texture
	size    int

	// dirty is set when the bitmap has changed since the last upload.
	dirty bool

	placements map[cacheKey]image.Rectangle
}

// newAtlas creates an empty atlas and its GPU texture.
func newAtlas(device Device, size int) (*atlas, error) {
	texture, err := device.CreateTexture(size, size)
	if err != nil {
		return nil, fmt.Errorf("GPU texture creation failed: %w", err)
	}

	return &atlas{
		bitmap:     NewBitmap(size, size),
		packer:     NewPacker(size, size),
		texture:    texture,
		size:       size,
		placements: make(map[cacheKey]image.Rectangle),
	}, nil
}

// tryAppend packs bm into the atlas and records its placement under key.
// On ErrNotEnoughSpace the atlas is left unchanged.
func (a *atlas) tryAppend(key cacheKey, bm *Bitmap) error {
	placement, err := a.packer.TryAllocate(bm.Width(), bm.Height())
	if err != nil {
		return err
	}

	a.bitmap.Blit(bm, placement.Min)
	a.placements[key] = placement
	a.dirty = true

	return nil
}

// clear drops all placements, resets the packer and zeroes the bitmap.
// The GPU texture handle is kept for reuse.
func (a *atlas) clear() {
	a.dirty = false
	a.packer.Reset()
	clear(a.placements)
	a.bitmap.Clear()
}

// revalidate uploads the bitmap to the GPU texture if it changed since
// the last upload. At most one upload happens per atlas per frame, no
// matter how many glyphs were appended.
func (a *atlas) revalidate() error {
	if !a.dirty {
		return nil
	}
	a.dirty = false
	return a.bitmap.UploadTo(a.texture)
}

// destroyTexture releases the GPU texture if the backend supports eager
// release.
func (a *atlas) destroyTexture() {
	if d, ok := a.texture.(TextureDestroyer); ok {
		d.Destroy()
	}
}
