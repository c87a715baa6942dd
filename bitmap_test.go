package glyphatlas

import (
	"image"
	"testing"
)

func TestBitmapDrawGlyph(t *testing.T) {
	b := NewBitmap(4, 4)
	b.DrawGlyph(Rasterization{
		Bounds: image.Rect(0, 0, 2, 2),
		Coverage: func(fn func(x, y int, alpha float64)) {
			fn(0, 0, 1)
			fn(1, 1, 0.5)
		},
	})

	// Full coverage: opaque white.
	if got := b.Data()[:4]; got[0] != 255 || got[1] != 255 || got[2] != 255 || got[3] != 255 {
		t.Errorf("pixel (0,0) = %v, want opaque white", got)
	}

	// Half coverage: white with alpha 128.
	i := 4 * (1*4 + 1)
	if got := b.Data()[i : i+4]; got[0] != 255 || got[3] != 128 {
		t.Errorf("pixel (1,1) = %v, want white alpha 128", got)
	}

	// Untouched pixels stay transparent.
	i = 4 * (0*4 + 1)
	if got := b.Data()[i : i+4]; got[3] != 0 {
		t.Errorf("pixel (1,0) = %v, want transparent", got)
	}
}

func TestBitmapBlit(t *testing.T) {
	src := NewBitmap(2, 2)
	for i := range src.Data() {
		src.Data()[i] = uint8(i + 1)
	}

	dst := NewBitmap(4, 4)
	dst.Blit(src, image.Pt(1, 2))

	at := func(x, y int) []uint8 {
		i := 4 * (y*4 + x)
		return dst.Data()[i : i+4]
	}
	if got := at(1, 2); got[0] != 1 || got[1] != 2 || got[2] != 3 || got[3] != 4 {
		t.Errorf("pixel (1,2) = %v, want first source pixel", got)
	}
	if got := at(2, 3); got[0] != 13 {
		t.Errorf("pixel (2,3) = %v, want last source pixel", got)
	}
	if got := at(0, 0); got[3] != 0 {
		t.Errorf("pixel (0,0) = %v, want untouched", got)
	}
	if got := at(3, 2); got[3] != 0 {
		t.Errorf("pixel (3,2) = %v, want untouched", got)
	}
}

func TestBitmapClear(t *testing.T) {
	b := NewBitmap(3, 3)
	for i := range b.Data() {
		b.Data()[i] = 200
	}
	b.Clear()
	for i, v := range b.Data() {
		if v != 0 {
			t.Fatalf("byte %d = %d after Clear, want 0", i, v)
		}
	}
}

func TestBitmapToImage(t *testing.T) {
	b := NewBitmap(2, 1)
	b.DrawGlyph(Rasterization{
		Bounds: image.Rect(0, 0, 2, 1),
		Coverage: func(fn func(x, y int, alpha float64)) {
			fn(1, 0, 1)
		},
	})

	img := b.ToImage()
	if got := img.Bounds(); got != image.Rect(0, 0, 2, 1) {
		t.Fatalf("Bounds = %v, want (0,0)-(2,1)", got)
	}
	if _, _, _, a := img.At(1, 0).RGBA(); a != 0xffff {
		t.Errorf("pixel (1,0) alpha = %#x, want 0xffff", a)
	}
	if _, _, _, a := img.At(0, 0).RGBA(); a != 0 {
		t.Errorf("pixel (0,0) alpha = %#x, want 0", a)
	}
}
