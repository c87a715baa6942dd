// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package gpu provides glyphatlas.Device implementations: ContextDevice
// bridges to a gpucontext renderer, NativeDevice tracks wgpu texture
// resources directly.
package gpu

import (
	"errors"
	"fmt"

	"github.com/gogpu/gpucontext"

	"github.com/gogpu/glyphatlas"
)

// Device errors.
var (
	// ErrNilCreator is returned when a ContextDevice is created without
	// a texture creator.
	ErrNilCreator = errors.New("gpu: nil texture creator")

	// ErrInvalidDimensions is returned for non-positive texture sizes.
	ErrInvalidDimensions = errors.New("gpu: invalid texture dimensions")

	// ErrSizeMismatch is returned when an uploaded pixel buffer does not
	// match the texture dimensions.
	ErrSizeMismatch = errors.New("gpu: pixel buffer size does not match texture")
)

// ContextDevice creates atlas textures through a gpucontext renderer.
// Obtain the creator from the draw context, e.g.
// dc.AsTextureDrawer().TextureCreator().
type ContextDevice struct {
	creator gpucontext.TextureCreator
}

// NewContextDevice wraps a gpucontext texture creator as an atlas
// texture device.
func NewContextDevice(creator gpucontext.TextureCreator) (*ContextDevice, error) {
	if creator == nil {
		return nil, ErrNilCreator
	}
	return &ContextDevice{creator: creator}, nil
}

// CreateTexture implements glyphatlas.Device. The GPU texture itself is
// created lazily on the first upload, since gpucontext creates textures
// from initial pixel data.
func (d *ContextDevice) CreateTexture(width, height int) (glyphatlas.Texture, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidDimensions
	}
	return &contextTexture{
		creator: d.creator,
		width:   width,
		height:  height,
	}, nil
}

// contextTexture is one atlas texture held by a gpucontext renderer.
type contextTexture struct {
	creator gpucontext.TextureCreator
	width   int
	height  int

	// tex is the renderer's texture object, nil until the first upload.
	tex any
}

// Upload implements glyphatlas.Texture. The first call creates the GPU
// texture; later calls update it in place when the renderer supports
// that, and recreate it otherwise.
func (t *contextTexture) Upload(pix []uint8, width, height int) error {
	if width != t.width || height != t.height {
		return fmt.Errorf("%w: texture %dx%d, buffer %dx%d",
			ErrSizeMismatch, t.width, t.height, width, height)
	}
	if len(pix) != width*height*4 {
		return fmt.Errorf("%w: %d bytes for %dx%d", ErrSizeMismatch, len(pix), width, height)
	}

	if t.tex == nil {
		tex, err := t.creator.NewTextureFromRGBA(width, height, pix)
		if err != nil {
			return fmt.Errorf("gpu: NewTextureFromRGBA failed: %w", err)
		}
		t.tex = tex
		return nil
	}

	if updater, ok := t.tex.(gpucontext.TextureUpdater); ok {
		if err := updater.UpdateData(pix); err != nil {
			return fmt.Errorf("gpu: texture update failed: %w", err)
		}
		return nil
	}

	// No in-place update: recreate. NewTextureFromRGBA waits for the GPU
	// internally, so the old texture is idle and safe to destroy after
	// the new one exists.
	tex, err := t.creator.NewTextureFromRGBA(width, height, pix)
	if err != nil {
		return fmt.Errorf("gpu: NewTextureFromRGBA failed: %w", err)
	}
	old := t.tex
	t.tex = tex
	if destroyer, ok := old.(interface{ Destroy() }); ok {
		destroyer.Destroy()
	}
	return nil
}

// GPUTexture returns the renderer's texture object for drawing, or nil
// before the first upload. The result is typically passed to
// gpucontext.TextureDrawer.DrawTexture.
func (t *contextTexture) GPUTexture() any {
	return t.tex
}

// Destroy implements glyphatlas.TextureDestroyer.
func (t *contextTexture) Destroy() {
	if destroyer, ok := t.tex.(interface{ Destroy() }); ok {
		destroyer.Destroy()
	}
	t.tex = nil
}
