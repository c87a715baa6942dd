package fontraster

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/go-text/typesetting/font"
	ot "github.com/go-text/typesetting/font/opentype"

	"github.com/gogpu/glyphatlas"
)

// GoText rasterizes glyphs using go-text/typesetting, the same font
// stack HarfBuzz-style shapers produce glyph IDs for. Use it when text
// layout already runs on go-text, so shaping and rasterization read the
// same font tables.
type GoText struct {
	mu sync.Mutex

	// fonts holds the parsed font.Font objects, which are read-only and
	// safe for concurrent use. The per-call font.Face wrappers are not,
	// so one is created per Rasterize call; they are cheap.
	fonts []*font.Font
}

// NewGoText creates an empty GoText rasterizer. Add fonts with AddFont
// before rasterizing.
func NewGoText() *GoText {
	return &GoText{}
}

// AddFont parses TrueType or OpenType font data and returns the FontID
// to use in glyph descriptors.
func (r *GoText) AddFont(data []byte) (glyphatlas.FontID, error) {
	face, err := font.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return 0, fmt.Errorf("fontraster: parse failed: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.fonts = append(r.fonts, face.Font)
	return glyphatlas.FontID(len(r.fonts)), nil
}

// Rasterize implements glyphatlas.Rasterizer.
func (r *GoText) Rasterize(fontID glyphatlas.FontID, gid glyphatlas.GlyphID, scale float64, offset glyphatlas.Vec2) (glyphatlas.Rasterization, error) {
	r.mu.Lock()
	if fontID == 0 || int(fontID) > len(r.fonts) {
		r.mu.Unlock()
		return glyphatlas.Rasterization{}, ErrUnknownFont
	}
	f := r.fonts[fontID-1]
	r.mu.Unlock()

	face := font.NewFace(f)
	data := face.GlyphData(font.GID(gid))
	outline, ok := data.(font.GlyphOutline)
	if !ok {
		return glyphatlas.Rasterization{}, fmt.Errorf("%w: glyph %d", ErrNoOutline, gid)
	}
	if len(outline.Segments) == 0 {
		return glyphatlas.Rasterization{}, nil
	}

	// Font units are y-up; flip to the y-down device space while
	// scaling from the em square to pixels.
	s := float32(scale) / float32(face.Upem())
	ox := float32(offset.X)
	oy := float32(offset.Y)
	segs := make([]pathSegment, len(outline.Segments))
	for i, seg := range outline.Segments {
		ps := pathSegment{op: goTextOp(seg.Op)}
		for j := 0; j < ps.argCount(); j++ {
			ps.args[j][0] = seg.Args[j].X*s + ox
			ps.args[j][1] = -seg.Args[j].Y*s + oy
		}
		segs[i] = ps
	}

	return scanConvert(segs), nil
}

func goTextOp(op ot.SegmentOp) pathOp {
	switch op {
	case ot.SegmentOpMoveTo:
		return opMoveTo
	case ot.SegmentOpLineTo:
		return opLineTo
	case ot.SegmentOpQuadTo:
		return opQuadTo
	default:
		return opCubeTo
	}
}
