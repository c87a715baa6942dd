package glyphatlas

import (
	"errors"
	"image"
)

// ErrNotEnoughSpace is returned by Packer.TryAllocate when no free region
// can hold the requested size. The cache treats it as a signal to rebuild,
// never as a user-visible failure.
var ErrNotEnoughSpace = errors.New("glyphatlas: not enough space")

// Packer allocates rectangular regions out of a fixed-size area.
//
// It is a shelf/guillotine hybrid: each allocation is carved from the
// top-left of a free region, leaving at most one "rest of this row"
// remainder in place and spilling a "next row" remainder below. Free
// regions are never merged, so fragmentation accumulates over repeated
// allocations; the glyph cache mitigates this with full-atlas rebuilds
// rather than incremental compaction.
//
// Every allocation is inflated by a 1px border on all sides, keeping a
// blank separator between neighbouring regions.
type Packer struct {
	width  int
	height int
	free   []image.Rectangle

	usedArea int
}

// NewPacker creates a packer over a width x height area with a single
// free region covering the full area.
func NewPacker(width, height int) *Packer {
	return &Packer{
		width:  width,
		height: height,
		free:   []image.Rectangle{image.Rect(0, 0, width, height)},
	}
}

// TryAllocate finds space for a width x height rectangle and returns its
// placement, excluding the 1px border. Returns ErrNotEnoughSpace when no
// free region is large enough.
//
// A request with a zero dimension succeeds immediately with a zero-area
// rectangle at the origin and consumes no free space.
func (p *Packer) TryAllocate(width, height int) (image.Rectangle, error) {
	if width == 0 || height == 0 {
		return image.Rect(0, 0, width, height), nil
	}

	// One-pixel border on each side.
	width += 2
	height += 2

	best := -1
	for i, r := range p.free {
		if width > r.Dx() || height > r.Dy() {
			continue
		}

		// Best-so-far: a candidate wins only when the current best is at
		// least as large in BOTH dimensions. This is intentionally not a
		// true best-fit; the comparison is part of the packing layout and
		// must stay as is.
		if best < 0 || (p.free[best].Dx() >= r.Dx() && p.free[best].Dy() >= r.Dy()) {
			best = i
		}
	}
	if best < 0 {
		return image.Rectangle{}, ErrNotEnoughSpace
	}

	region := p.free[best]
	topLeft := region.Min
	bottomRight := topLeft.Add(image.Pt(width, height))

	// Split the region: the full-width strip below the allocation, and
	// the remainder of the row to its right.
	underneath := image.Rectangle{
		Min: image.Pt(topLeft.X, bottomRight.Y),
		Max: region.Max,
	}
	right := image.Rectangle{
		Min: image.Pt(bottomRight.X, topLeft.Y),
		Max: image.Pt(region.Max.X, bottomRight.Y),
	}

	if right.Dx() <= 0 || right.Dy() <= 0 {
		p.free[best] = underneath
	} else {
		p.free[best] = right
		if underneath.Dx() > 0 && underneath.Dy() > 0 {
			p.free = append(p.free, underneath)
		}
	}

	p.usedArea += width * height

	return image.Rectangle{
		Min: topLeft.Add(image.Pt(1, 1)),
		Max: bottomRight.Sub(image.Pt(1, 1)),
	}, nil
}

// Reset discards all allocations, restoring a single free region covering
// the full area.
func (p *Packer) Reset() {
	p.free = p.free[:0]
	p.free = append(p.free, image.Rect(0, 0, p.width, p.height))
	p.usedArea = 0
}

// Utilization returns the fraction of total area consumed by allocations,
// including their borders, in [0, 1].
func (p *Packer) Utilization() float64 {
	if p.width <= 0 || p.height <= 0 {
		return 0
	}
	return float64(p.usedArea) / float64(p.width*p.height)
}
