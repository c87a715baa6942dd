// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gpu

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/core"

	"github.com/gogpu/glyphatlas"
)

// ErrTextureReleased is returned when uploading to a destroyed texture.
var ErrTextureReleased = errors.New("gpu: texture has been released")

// AtlasTextureUsage is the wgpu usage for atlas textures: uploaded from
// the CPU and sampled by the glyph shader.
const AtlasTextureUsage = gputypes.TextureUsageCopyDst | gputypes.TextureUsageTextureBinding

// NativeDevice creates atlas textures as wgpu resources and tracks their
// memory. It is safe for concurrent use.
type NativeDevice struct {
	usedBytes    atomic.Uint64
	textureCount atomic.Int64
}

// NewNativeDevice creates a device with no allocated textures.
func NewNativeDevice() *NativeDevice {
	return &NativeDevice{}
}

// CreateTexture implements glyphatlas.Device.
func (d *NativeDevice) CreateTexture(width, height int) (glyphatlas.Texture, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidDimensions
	}

	sizeBytes := uint64(width) * uint64(height) * 4

	// TODO: Actual wgpu texture creation when available
	//
	// desc := &gputypes.TextureDescriptor{
	//     Size: gputypes.Extent3D{
	//         Width:              uint32(width),
	//         Height:             uint32(height),
	//         DepthOrArrayLayers: 1,
	//     },
	//     MipLevelCount: 1,
	//     SampleCount:   1,
	//     Dimension:     gputypes.TextureDimension2D,
	//     Format:        gputypes.TextureFormatRGBA8Unorm,
	//     Usage:         AtlasTextureUsage,
	// }
	// textureID, err := core.CreateTexture(device, desc)

	t := &NativeTexture{
		width:     width,
		height:    height,
		sizeBytes: sizeBytes,
		device:    d,
		// textureID and viewID are zero (stub)
	}

	d.usedBytes.Add(sizeBytes)
	d.textureCount.Add(1)

	glyphatlas.Logger().Debug("atlas texture created",
		"width", width, "height", height, "bytes", sizeBytes)
	return t, nil
}

// UsedBytes returns the total memory of live atlas textures.
func (d *NativeDevice) UsedBytes() uint64 {
	return d.usedBytes.Load()
}

// TextureCount returns the number of live atlas textures.
func (d *NativeDevice) TextureCount() int {
	return int(d.textureCount.Load())
}

// NativeTexture is one atlas texture backed by wgpu resources.
//
// NativeTexture is safe for concurrent read access. Upload and Destroy
// should be synchronized externally; the glyph cache calls both from a
// single goroutine.
type NativeTexture struct {
	mu sync.RWMutex

	// GPU resource IDs (stub - will be real wgpu handles when available)
	textureID core.TextureID
	viewID    core.TextureViewID

	width     int
	height    int
	sizeBytes uint64

	device   *NativeDevice
	released atomic.Bool
}

// Width returns the texture width in pixels.
func (t *NativeTexture) Width() int {
	return t.width
}

// Height returns the texture height in pixels.
func (t *NativeTexture) Height() int {
	return t.height
}

// SizeBytes returns the texture size in bytes.
func (t *NativeTexture) SizeBytes() uint64 {
	return t.sizeBytes
}

// Format returns the wgpu pixel format. Atlas textures are always RGBA8.
func (t *NativeTexture) Format() gputypes.TextureFormat {
	return gputypes.TextureFormatRGBA8Unorm
}

// TextureID returns the underlying wgpu texture ID.
// Returns a zero ID for stub textures.
func (t *NativeTexture) TextureID() core.TextureID {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.textureID
}

// ViewID returns the texture view ID.
// Returns a zero ID for stub textures.
func (t *NativeTexture) ViewID() core.TextureViewID {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.viewID
}

// IsReleased returns true if the texture has been destroyed.
func (t *NativeTexture) IsReleased() bool {
	return t.released.Load()
}

// Upload implements glyphatlas.Texture.
//
// Note: the actual GPU upload is a stub until wgpu queue.WriteTexture
// is available.
func (t *NativeTexture) Upload(pix []uint8, width, height int) error {
	if t.released.Load() {
		return ErrTextureReleased
	}
	if width != t.width || height != t.height {
		return fmt.Errorf("%w: texture %dx%d, buffer %dx%d",
			ErrSizeMismatch, t.width, t.height, width, height)
	}
	if len(pix) != width*height*4 {
		return fmt.Errorf("%w: %d bytes for %dx%d", ErrSizeMismatch, len(pix), width, height)
	}

	// TODO: Actual GPU upload when wgpu queue.WriteTexture is available
	//
	// core.QueueWriteTexture(queue, &gputypes.TexelCopyTextureInfo{
	//     Texture: t.textureID,
	// }, pix, layout, extent)

	return nil
}

// Destroy implements glyphatlas.TextureDestroyer. Destroy is idempotent.
func (t *NativeTexture) Destroy() {
	if !t.released.CompareAndSwap(false, true) {
		return
	}

	t.mu.Lock()
	t.textureID = core.TextureID{}
	t.viewID = core.TextureViewID{}
	t.mu.Unlock()

	t.device.usedBytes.Add(^(t.sizeBytes - 1))
	t.device.textureCount.Add(-1)
}
