package fontraster

import (
	"errors"
	"image"
	"testing"

	"github.com/gogpu/glyphatlas"
)

func move(x, y float32) pathSegment {
	return pathSegment{op: opMoveTo, args: [3][2]float32{{x, y}}}
}

func line(x, y float32) pathSegment {
	return pathSegment{op: opLineTo, args: [3][2]float32{{x, y}}}
}

func coverageMap(r glyphatlas.Rasterization) map[image.Point]float64 {
	m := make(map[image.Point]float64)
	if r.Coverage != nil {
		r.Coverage(func(x, y int, alpha float64) {
			m[image.Pt(x, y)] = alpha
		})
	}
	return m
}

func TestScanConvertSquare(t *testing.T) {
	segs := []pathSegment{
		move(1, 1),
		line(5, 1),
		line(5, 5),
		line(1, 5),
	}

	r := scanConvert(segs)
	if got, want := r.Bounds, image.Rect(1, 1, 5, 5); got != want {
		t.Fatalf("Bounds = %v, want %v", got, want)
	}

	cov := coverageMap(r)
	if len(cov) != 16 {
		t.Errorf("covered pixels = %d, want 16", len(cov))
	}
	// Coverage coordinates are relative to Bounds.Min.
	if a := cov[image.Pt(0, 0)]; a != 1 {
		t.Errorf("pixel (0,0) alpha = %v, want 1", a)
	}
	if a := cov[image.Pt(3, 3)]; a != 1 {
		t.Errorf("pixel (3,3) alpha = %v, want 1", a)
	}
}

func TestScanConvertFractionalCoverage(t *testing.T) {
	// A 1.5px wide square: the right pixel column is half covered.
	segs := []pathSegment{
		move(0, 0),
		line(1.5, 0),
		line(1.5, 2),
		line(0, 2),
	}

	r := scanConvert(segs)
	if got, want := r.Bounds, image.Rect(0, 0, 2, 2); got != want {
		t.Fatalf("Bounds = %v, want %v", got, want)
	}

	cov := coverageMap(r)
	if a := cov[image.Pt(0, 0)]; a != 1 {
		t.Errorf("full pixel alpha = %v, want 1", a)
	}
	if a := cov[image.Pt(1, 0)]; a < 0.4 || a > 0.6 {
		t.Errorf("half pixel alpha = %v, want ~0.5", a)
	}
}

func TestScanConvertNegativeCoordinates(t *testing.T) {
	// Glyphs above the baseline have negative y bounds.
	segs := []pathSegment{
		move(-2, -3),
		line(0, -3),
		line(0, -1),
		line(-2, -1),
	}

	r := scanConvert(segs)
	if got, want := r.Bounds, image.Rect(-2, -3, 0, -1); got != want {
		t.Fatalf("Bounds = %v, want %v", got, want)
	}
	if a := coverageMap(r)[image.Pt(0, 0)]; a != 1 {
		t.Errorf("pixel (0,0) alpha = %v, want 1", a)
	}
}

func TestScanConvertEmpty(t *testing.T) {
	r := scanConvert(nil)
	if !r.Bounds.Empty() {
		t.Errorf("Bounds = %v, want empty", r.Bounds)
	}
}

func TestSFNTUnknownFont(t *testing.T) {
	r := NewSFNT()
	if _, err := r.Rasterize(1, 10, 16, glyphatlas.V2(0, 0)); !errors.Is(err, ErrUnknownFont) {
		t.Errorf("got %v, want ErrUnknownFont", err)
	}
	if _, err := r.Rasterize(0, 10, 16, glyphatlas.V2(0, 0)); !errors.Is(err, ErrUnknownFont) {
		t.Errorf("font 0: got %v, want ErrUnknownFont", err)
	}
}

func TestGoTextUnknownFont(t *testing.T) {
	r := NewGoText()
	if _, err := r.Rasterize(1, 10, 16, glyphatlas.V2(0, 0)); !errors.Is(err, ErrUnknownFont) {
		t.Errorf("got %v, want ErrUnknownFont", err)
	}
}

func TestSFNTAddFontRejectsGarbage(t *testing.T) {
	r := NewSFNT()
	if _, err := r.AddFont([]byte("not a font")); err == nil {
		t.Error("AddFont accepted garbage data")
	}
}

func TestGoTextAddFontRejectsGarbage(t *testing.T) {
	r := NewGoText()
	if _, err := r.AddFont([]byte("not a font")); err == nil {
		t.Error("AddFont accepted garbage data")
	}
}
