package fontraster

import (
	"fmt"
	"math"
	"sync"

	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"

	"github.com/gogpu/glyphatlas"
)

// SFNT rasterizes glyphs using the pure-Go TrueType/OpenType parser from
// golang.org/x/image/font/sfnt.
type SFNT struct {
	mu    sync.Mutex
	fonts []*sfnt.Font

	// buf is reused across LoadGlyph calls, guarded by mu.
	buf sfnt.Buffer
}

// NewSFNT creates an empty SFNT rasterizer. Add fonts with AddFont
// before rasterizing.
func NewSFNT() *SFNT {
	return &SFNT{}
}

// AddFont parses TrueType or OpenType font data and returns the FontID
// to use in glyph descriptors. The data is not copied and must not be
// modified afterwards.
func (r *SFNT) AddFont(data []byte) (glyphatlas.FontID, error) {
	f, err := sfnt.Parse(data)
	if err != nil {
		return 0, fmt.Errorf("fontraster: parse failed: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.fonts = append(r.fonts, f)
	return glyphatlas.FontID(len(r.fonts)), nil
}

// Rasterize implements glyphatlas.Rasterizer. The scale is interpreted
// as pixels per em and the offset shifts the outline by a subpixel
// amount before scan conversion.
func (r *SFNT) Rasterize(font glyphatlas.FontID, gid glyphatlas.GlyphID, scale float64, offset glyphatlas.Vec2) (glyphatlas.Rasterization, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if font == 0 || int(font) > len(r.fonts) {
		return glyphatlas.Rasterization{}, ErrUnknownFont
	}
	f := r.fonts[font-1]

	ppem := fixed.Int26_6(math.Round(scale * 64))
	segments, err := f.LoadGlyph(&r.buf, sfnt.GlyphIndex(gid), ppem, nil)
	if err != nil {
		return glyphatlas.Rasterization{}, fmt.Errorf("fontraster: load glyph %d: %w", gid, err)
	}

	// LoadGlyph yields 26.6 pixel coordinates, already y-down.
	ox := float32(offset.X)
	oy := float32(offset.Y)
	segs := make([]pathSegment, len(segments))
	for i, seg := range segments {
		s := pathSegment{op: sfntOp(seg.Op)}
		for j := 0; j < s.argCount(); j++ {
			s.args[j][0] = float32(seg.Args[j].X)/64 + ox
			s.args[j][1] = float32(seg.Args[j].Y)/64 + oy
		}
		segs[i] = s
	}

	return scanConvert(segs), nil
}

func sfntOp(op sfnt.SegmentOp) pathOp {
	switch op {
	case sfnt.SegmentOpMoveTo:
		return opMoveTo
	case sfnt.SegmentOpLineTo:
		return opLineTo
	case sfnt.SegmentOpQuadTo:
		return opQuadTo
	default:
		return opCubeTo
	}
}
