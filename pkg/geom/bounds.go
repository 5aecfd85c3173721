package geom

import (
	"math"

	"seehuhn.de/go/geom/rect"
)

// Bounds accumulates an axis-aligned bounding box. The zero value is empty.
type Bounds struct {
	r   rect.Rect
	set bool
}

// Include grows b to cover the square of half-size margin centred on p.
func (b *Bounds) Include(p Point, margin float64) {
	box := rect.Rect{LLx: p.X - margin, LLy: p.Y - margin, URx: p.X + margin, URy: p.Y + margin}
	if !b.set {
		b.r, b.set = box, true
		return
	}
	b.r.LLx = math.Min(b.r.LLx, box.LLx)
	b.r.LLy = math.Min(b.r.LLy, box.LLy)
	b.r.URx = math.Max(b.r.URx, box.URx)
	b.r.URy = math.Max(b.r.URy, box.URy)
}

// Empty reports whether nothing has been included.
func (b *Bounds) Empty() bool { return !b.set }

// Rect returns the box grown by pad on every side. y grows downwards, so
// LLy is the top edge.
func (b *Bounds) Rect(pad float64) rect.Rect {
	return rect.Rect{LLx: b.r.LLx - pad, LLy: b.r.LLy - pad, URx: b.r.URx + pad, URy: b.r.URy + pad}
}

// RectOrigin returns the minimum corner of r.
func RectOrigin(r rect.Rect) Point { return Point{X: r.LLx, Y: r.LLy} }

// RectSize returns the extent of r.
func RectSize(r rect.Rect) Dimensions { return Dimensions{X: r.URx - r.LLx, Y: r.URy - r.LLy} }
