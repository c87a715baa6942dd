// Package fontraster provides glyph rasterizer backends for the glyph
// cache: SFNT on top of golang.org/x/image/font/sfnt and GoText on top
// of go-text/typesetting. Both scan-convert outlines with
// golang.org/x/image/vector.
//
// Backends assign FontIDs sequentially starting at 1 as fonts are added;
// ID 0 is never valid. A backend is safe for concurrent use, though the
// glyph cache itself calls it from a single goroutine.
package fontraster

import (
	"errors"
	"image"
	"image/draw"
	"math"

	"golang.org/x/image/vector"

	"github.com/gogpu/glyphatlas"
)

// Rasterization errors.
var (
	// ErrUnknownFont is returned when a FontID was not issued by this
	// backend.
	ErrUnknownFont = errors.New("fontraster: unknown font")

	// ErrNoOutline is returned for glyphs without vector outlines
	// (embedded bitmaps, SVG glyphs).
	ErrNoOutline = errors.New("fontraster: glyph has no outline")
)

// pathOp is an outline path operation.
type pathOp uint8

const (
	opMoveTo pathOp = iota
	opLineTo
	opQuadTo
	opCubeTo
)

// pathSegment is one outline segment in device space, y-down, with scale
// and subpixel offset already applied. Args usage follows the font
// stacks: MoveTo and LineTo use Args[0], QuadTo has its control point in
// Args[0] and target in Args[1], CubeTo uses all three.
type pathSegment struct {
	op   pathOp
	args [3][2]float32
}

func (s pathSegment) argCount() int {
	switch s.op {
	case opQuadTo:
		return 2
	case opCubeTo:
		return 3
	default:
		return 1
	}
}

// scanConvert turns a device-space outline into per-pixel coverage.
//
// The bounding box is taken over all segment points. For curves this is
// conservative since control points may lie outside the curve, costing
// at most a few blank edge pixels; the packer's rebuild reclaims them
// like any other space.
func scanConvert(segs []pathSegment) glyphatlas.Rasterization {
	if len(segs) == 0 {
		return glyphatlas.Rasterization{}
	}

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, s := range segs {
		for i := 0; i < s.argCount(); i++ {
			x := float64(s.args[i][0])
			y := float64(s.args[i][1])
			minX = math.Min(minX, x)
			minY = math.Min(minY, y)
			maxX = math.Max(maxX, x)
			maxY = math.Max(maxY, y)
		}
	}

	bounds := image.Rect(
		int(math.Floor(minX)), int(math.Floor(minY)),
		int(math.Ceil(maxX)), int(math.Ceil(maxY)),
	)
	if bounds.Empty() {
		return glyphatlas.Rasterization{}
	}

	// The vector rasterizer works in the positive quadrant, so shift
	// every point by the bounding box origin.
	dx := float32(bounds.Min.X)
	dy := float32(bounds.Min.Y)

	z := vector.NewRasterizer(bounds.Dx(), bounds.Dy())
	z.DrawOp = draw.Src
	for _, s := range segs {
		switch s.op {
		case opMoveTo:
			z.MoveTo(s.args[0][0]-dx, s.args[0][1]-dy)
		case opLineTo:
			z.LineTo(s.args[0][0]-dx, s.args[0][1]-dy)
		case opQuadTo:
			z.QuadTo(
				s.args[0][0]-dx, s.args[0][1]-dy,
				s.args[1][0]-dx, s.args[1][1]-dy)
		case opCubeTo:
			z.CubeTo(
				s.args[0][0]-dx, s.args[0][1]-dy,
				s.args[1][0]-dx, s.args[1][1]-dy,
				s.args[2][0]-dx, s.args[2][1]-dy)
		}
	}

	mask := image.NewAlpha(z.Bounds())
	z.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})

	return glyphatlas.Rasterization{
		Bounds: bounds,
		Coverage: func(fn func(x, y int, alpha float64)) {
			w, h := bounds.Dx(), bounds.Dy()
			for y := 0; y < h; y++ {
				row := mask.Pix[y*mask.Stride:]
				for x := 0; x < w; x++ {
					if a := row[x]; a > 0 {
						fn(x, y, float64(a)/255)
					}
				}
			}
		},
	}
}
