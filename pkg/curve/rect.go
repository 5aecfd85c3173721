package curve

import (
	"math"

	"github.com/matzehuels/celldraw/pkg/geom"
)

// CornerSegmentLength is the maximum chord length used to approximate the
// rounded corners of a [RoundedRect].
const CornerSegmentLength = 5.0

// MaxCornerSegments caps the chords per corner, however large the radius.
const MaxCornerSegments = 64

// RoundedRect is an axis-aligned rectangle with rounded corners, described by
// its centre. Radius is clamped to half the smaller side.
type RoundedRect struct {
	Centre geom.Point
	Size   geom.Dimensions
	Radius float64
}

// NewRoundedRect returns a rounded rectangle centred on c.
func NewRoundedRect(c geom.Point, size geom.Dimensions, radius float64) RoundedRect {
	return RoundedRect{Centre: c, Size: size, Radius: radius}
}

func (r RoundedRect) radius() float64 {
	return math.Max(0, math.Min(r.Radius, math.Min(r.Size.Width(), r.Size.Height())/2))
}

// Points returns the outline polygon, clockwise in screen coordinates (y
// down), starting at the top-right corner. Corner arcs are split into chords
// no longer than maxSegment.
func (r RoundedRect) Points(maxSegment float64) []geom.Point {
	rad := r.radius()
	hw, hh := r.Size.Width()/2, r.Size.Height()/2
	corners := []struct {
		centre geom.Point
		angle  float64
	}{
		{geom.Pt(hw-rad, -hh+rad), -math.Pi / 2},
		{geom.Pt(hw-rad, hh-rad), 0},
		{geom.Pt(-hw+rad, hh-rad), math.Pi / 2},
		{geom.Pt(-hw+rad, -hh+rad), math.Pi},
	}

	segments := 1
	if rad > 0 && maxSegment > 0 {
		segments = int(geom.Clamp(math.Ceil(math.Pi/2*rad/maxSegment), 1, MaxCornerSegments))
	}

	pts := make([]geom.Point, 0, 4*(segments+1))
	for _, c := range corners {
		if rad == 0 {
			pts = append(pts, r.Centre.Add(c.centre))
			continue
		}
		for i := 0; i <= segments; i++ {
			a := c.angle + float64(i)/float64(segments)*math.Pi/2
			pts = append(pts, r.Centre.Add(c.centre).Add(geom.Polar(rad, a)))
		}
	}
	return pts
}

// Edges calls fn for every edge of the outline polygon, skipping edges shorter
// than geom.Epsilon.
func (r RoundedRect) Edges(fn func(p, q geom.Point)) {
	pts := r.Points(CornerSegmentLength)
	for i := range pts {
		p, q := pts[i], pts[(i+1)%len(pts)]
		if q.Sub(p).Length() < geom.Epsilon {
			continue
		}
		fn(p, q)
	}
}

// Contains reports whether p lies inside or on the rounded rectangle.
func (r RoundedRect) Contains(p geom.Point) bool {
	d := p.Sub(r.Centre)
	hw, hh := r.Size.Width()/2, r.Size.Height()/2
	ax, ay := math.Abs(d.X), math.Abs(d.Y)
	if ax > hw+geom.Epsilon || ay > hh+geom.Epsilon {
		return false
	}
	rad := r.radius()
	cx, cy := hw-rad, hh-rad
	if ax <= cx || ay <= cy {
		return true
	}
	return geom.Pt(ax-cx, ay-cy).Length() <= rad+geom.Epsilon
}
