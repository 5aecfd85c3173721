package curve

import (
	"math"
	"sort"

	"github.com/matzehuels/celldraw/pkg/geom"
)

const (
	// DelineationTolerance is the change in total polyline length, between
	// two refinement passes, below which the arc-length estimate is accepted.
	DelineationTolerance = 0.25

	// maxDelineationPasses bounds refinement at 2^12+1 samples.
	maxDelineationPasses = 12
)

// Bezier is a quadratic curve from Origin, of chord length W in direction
// Angle, whose single control point sits at (W/2, H) in the curve's frame.
// H = 0 is a straight line.
//
// A Bezier caches its arc-length polyline on first use and is not safe for
// concurrent use.
type Bezier struct {
	Origin geom.Point
	W      float64
	H      float64
	Angle  float64

	samples []sample
}

type sample struct {
	t      float64
	length float64
}

// NewBezier returns a quadratic curve starting at origin.
func NewBezier(origin geom.Point, w, h, angle float64) *Bezier {
	return &Bezier{Origin: origin, W: w, H: h, Angle: angle}
}

func (b *Bezier) straight() bool { return math.Abs(b.H) < geom.Epsilon }

// local returns the point at t before rotation and translation.
func (b *Bezier) local(t float64) geom.Point {
	return geom.Pt(t*b.W, 2*t*(1-t)*b.H)
}

// Point returns the point at t.
func (b *Bezier) Point(t float64) geom.Point {
	return geom.Apply(geom.Frame(b.Origin, b.Angle), b.local(t))
}

// Tangent returns the direction of travel at t.
func (b *Bezier) Tangent(t float64) float64 {
	if b.straight() {
		return b.Angle
	}
	return math.Atan2(b.H*(2-4*t), b.W) + b.Angle
}

// Width returns the chord length.
func (b *Bezier) Width() float64 { return b.W }

// Height returns the peak distance from the chord, H/2.
func (b *Bezier) Height() float64 { return math.Abs(b.H) / 2 }

// delineate refines a polyline through the curve until its total length
// changes by less than DelineationTolerance between passes.
func (b *Bezier) delineate() []sample {
	if b.samples != nil {
		return b.samples
	}

	ts := []float64{0, 1}
	prev := polylineLength(b, ts)
	for pass := 0; pass < maxDelineationPasses; pass++ {
		next := make([]float64, 0, 2*len(ts)-1)
		for i := 0; i+1 < len(ts); i++ {
			next = append(next, ts[i], (ts[i]+ts[i+1])/2)
		}
		next = append(next, 1)
		ts = next

		length := polylineLength(b, ts)
		converged := math.Abs(length-prev) < DelineationTolerance
		prev = length
		if converged {
			break
		}
	}

	samples := make([]sample, len(ts))
	for i, t := range ts {
		if i > 0 {
			samples[i].length = samples[i-1].length + b.local(t).Sub(b.local(ts[i-1])).Length()
		}
		samples[i].t = t
	}
	b.samples = samples
	return samples
}

func polylineLength(b *Bezier, ts []float64) float64 {
	var total float64
	for i := 1; i < len(ts); i++ {
		total += b.local(ts[i]).Sub(b.local(ts[i-1])).Length()
	}
	return total
}

// ArcLength returns the length of the curve from 0 to t.
func (b *Bezier) ArcLength(t float64) float64 {
	t = geom.Clamp(t, 0, 1)
	if b.straight() {
		return t * b.W
	}
	s := b.delineate()
	i := sort.Search(len(s), func(i int) bool { return s[i].t >= t })
	if i == 0 {
		return 0
	}
	lo, hi := s[i-1], s[i]
	return lo.length + (hi.length-lo.length)*(t-lo.t)/(hi.t-lo.t)
}

// TAfterLength returns the inverse of ArcLength.
func (b *Bezier) TAfterLength(clamp bool) func(float64) (float64, error) {
	return func(length float64) (float64, error) {
		total := b.ArcLength(1)
		if length < -geom.Epsilon || length > total+geom.Epsilon {
			if !clamp {
				return 0, ErrOutOfRange
			}
		}
		length = geom.Clamp(length, 0, total)
		if total == 0 {
			return 0, nil
		}
		if b.straight() {
			return length / b.W, nil
		}
		s := b.delineate()
		i := sort.Search(len(s), func(i int) bool { return s[i].length >= length })
		if i == 0 {
			return 0, nil
		}
		lo, hi := s[i-1], s[i]
		if hi.length == lo.length {
			return lo.t, nil
		}
		return lo.t + (hi.t-lo.t)*(length-lo.length)/(hi.length-lo.length), nil
	}
}

// IntersectionsWithRoundedRect solves each outline edge against the curve in
// the normalised frame, where the curve is the parabola y = 2x(1-x) over
// x ∈ [0, 1] (or the segment y = 0 when the curve is straight) and x = t.
func (b *Bezier) IntersectionsWithRoundedRect(r RoundedRect, permitContainment bool) ([]geom.CurvePoint, error) {
	var ts []float64
	if b.W >= geom.Epsilon {
		hScale := b.H
		if b.straight() {
			hScale = 1
		}
		toLocal := geom.Unframe(b.Origin, b.Angle)
		norm := func(p geom.Point) geom.Point {
			return geom.Apply(toLocal, p).InvScale(b.W, hScale)
		}
		r.Edges(func(p, q geom.Point) {
			p, q = norm(p), norm(q)
			if b.straight() {
				ts = append(ts, segmentRoots(p, q)...)
			} else {
				ts = append(ts, parabolaRoots(p, q)...)
			}
		})
	}
	return finishIntersections(b, r, ts, permitContainment)
}

// segmentRoots intersects the edge p→q with the unit segment on the x-axis.
func segmentRoots(p, q geom.Point) []float64 {
	d := q.Sub(p)
	if math.Abs(d.Y) < geom.Epsilon {
		return nil
	}
	u := -p.Y / d.Y
	if !inUnit(u) {
		return nil
	}
	x := p.X + u*d.X
	if !inUnit(x) {
		return nil
	}
	return []float64{geom.Clamp(x, 0, 1)}
}

// parabolaRoots intersects the edge p + u(q-p) with y = 2x(1-x), which gives
// 2dx²·u² + (4·px·dx - 2dx + dy)·u + (2px² - 2px + py) = 0.
func parabolaRoots(p, q geom.Point) []float64 {
	d := q.Sub(p)
	a := 2 * d.X * d.X
	bb := 4*p.X*d.X - 2*d.X + d.Y
	c := 2*p.X*p.X - 2*p.X + p.Y

	var ts []float64
	for _, u := range solveQuadratic(a, bb, c) {
		if !inUnit(u) {
			continue
		}
		x := p.X + u*d.X
		if inUnit(x) {
			ts = append(ts, geom.Clamp(x, 0, 1))
		}
	}
	return ts
}
