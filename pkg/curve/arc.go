package curve

import (
	"math"

	"github.com/matzehuels/celldraw/pkg/geom"
)

// Arc is a circular arc from Origin spanning a chord of length Chord in
// direction Angle. The sign of Radius selects the side the arc bulges
// towards (positive: the +y side of the chord frame) and Major selects the
// longer of the two arcs through the chord endpoints.
//
// |Radius| is raised to Chord/2 when smaller. A minor arc whose sagitta is
// below geom.Epsilon is drawn as a straight line.
type Arc struct {
	Origin geom.Point
	Chord  float64
	Major  bool
	Radius float64
	Angle  float64

	r       float64    // |Radius|, at least Chord/2
	dir     float64    // -1 or +1: direction of increasing angle with t
	centre  geom.Point // in the chord frame
	start   float64    // angle of the origin around centre
	sweep   float64    // total swept angle, positive
	sagitta float64

	straight *Bezier
}

// NewArc returns a circular arc starting at origin.
func NewArc(origin geom.Point, chord float64, major bool, radius, angle float64) *Arc {
	a := &Arc{Origin: origin, Chord: chord, Major: major, Radius: radius, Angle: angle}

	sign := 1.0
	if radius < 0 {
		sign = -1
	}
	a.r = math.Max(math.Abs(radius), chord/2)
	d := math.Sqrt(math.Max(a.r*a.r-chord*chord/4, 0))

	if !major && a.r-d < geom.Epsilon {
		a.straight = NewBezier(origin, chord, 0, angle)
		return a
	}

	half := math.Asin(geom.Clamp(chord/(2*a.r), 0, 1))
	if major {
		a.centre = geom.Pt(chord/2, sign*d)
		a.sweep = 2*math.Pi - 2*half
		a.sagitta = a.r + d
	} else {
		a.centre = geom.Pt(chord/2, -sign*d)
		a.sweep = 2 * half
		a.sagitta = a.r - d
	}
	a.start = a.centre.Neg().Angle()
	a.dir = -sign
	return a
}

func (a *Arc) theta(t float64) float64 { return a.start + a.dir*t*a.sweep }

// Point returns the point at t.
func (a *Arc) Point(t float64) geom.Point {
	if a.straight != nil {
		return a.straight.Point(t)
	}
	local := a.centre.Add(geom.Polar(a.r, a.theta(t)))
	return geom.Apply(geom.Frame(a.Origin, a.Angle), local)
}

// Tangent returns the direction of travel at t.
func (a *Arc) Tangent(t float64) float64 {
	if a.straight != nil {
		return a.straight.Tangent(t)
	}
	return a.theta(t) + a.dir*math.Pi/2 + a.Angle
}

// ArcLength returns the length of the arc from 0 to t.
func (a *Arc) ArcLength(t float64) float64 {
	if a.straight != nil {
		return a.straight.ArcLength(t)
	}
	return a.r * a.sweep * geom.Clamp(t, 0, 1)
}

// TAfterLength returns the inverse of ArcLength.
func (a *Arc) TAfterLength(clamp bool) func(float64) (float64, error) {
	if a.straight != nil {
		return a.straight.TAfterLength(clamp)
	}
	return func(length float64) (float64, error) {
		total := a.ArcLength(1)
		if (length < -geom.Epsilon || length > total+geom.Epsilon) && !clamp {
			return 0, ErrOutOfRange
		}
		if total == 0 {
			return 0, nil
		}
		return geom.Clamp(length, 0, total) / total, nil
	}
}

// Width returns the horizontal extent in the chord frame.
func (a *Arc) Width() float64 {
	if a.straight != nil {
		return a.Chord
	}
	if a.Major {
		return 2 * a.r
	}
	return a.Chord
}

// Height returns the sagitta of the drawn arc.
func (a *Arc) Height() float64 { return a.sagitta }

// RadiusAbs returns the effective (unsigned) radius.
func (a *Arc) RadiusAbs() float64 { return a.r }

// Sweep returns the swept angle in radians and whether the arc is drawn
// with increasing angle in screen coordinates.
func (a *Arc) Sweep() (float64, bool) { return a.sweep, a.dir > 0 }

// Straight reports whether the arc degraded to a straight line.
func (a *Arc) Straight() bool { return a.straight != nil }

// angleInArc maps an angle around the centre to the arc parameter, reporting
// false when the angle falls outside the swept span.
func (a *Arc) angleInArc(theta float64) (float64, bool) {
	delta := math.Mod(a.dir*(theta-a.start), 2*math.Pi)
	if delta < 0 {
		delta += 2 * math.Pi
	}
	if delta > 2*math.Pi-geom.Epsilon {
		delta = 0
	}
	if delta > a.sweep+geom.Epsilon {
		return 0, false
	}
	return geom.Clamp(delta/a.sweep, 0, 1), true
}

// IntersectionsWithRoundedRect intersects the supporting circle with each
// outline edge, expressed relative to the arc centre, and keeps the roots
// that lie on both the edge and the arc.
func (a *Arc) IntersectionsWithRoundedRect(r RoundedRect, permitContainment bool) ([]geom.CurvePoint, error) {
	if a.straight != nil {
		return a.straight.IntersectionsWithRoundedRect(r, permitContainment)
	}

	toLocal := geom.Unframe(a.Origin, a.Angle)
	toCentre := func(p geom.Point) geom.Point {
		return geom.Apply(toLocal, p).Sub(a.centre)
	}

	var ts []float64
	r.Edges(func(p, q geom.Point) {
		p, q = toCentre(p), toCentre(q)
		for _, hit := range circleSegment(a.r, p, q) {
			if t, ok := a.angleInArc(hit.Angle()); ok {
				ts = append(ts, t)
			}
		}
	})
	return finishIntersections(a, r, ts, permitContainment)
}

// circleSegment intersects the circle of radius r about the origin with the
// segment p→q using the determinant form.
func circleSegment(r float64, p, q geom.Point) []geom.Point {
	d := q.Sub(p)
	dr2 := d.X*d.X + d.Y*d.Y
	if dr2 < geom.Epsilon*geom.Epsilon {
		return nil
	}
	det := p.X*q.Y - q.X*p.Y
	disc := r*r*dr2 - det*det
	if disc < 0 {
		return nil
	}

	sgn := 1.0
	if d.Y < 0 {
		sgn = -1
	}
	sq := math.Sqrt(disc)
	roots := []geom.Point{
		geom.Pt((det*d.Y+sgn*d.X*sq)/dr2, (-det*d.X+math.Abs(d.Y)*sq)/dr2),
	}
	if sq > geom.Epsilon {
		roots = append(roots, geom.Pt((det*d.Y-sgn*d.X*sq)/dr2, (-det*d.X-math.Abs(d.Y)*sq)/dr2))
	}

	var hits []geom.Point
	for _, h := range roots {
		u := (h.Sub(p).X*d.X + h.Sub(p).Y*d.Y) / dr2
		if inUnit(u) {
			hits = append(hits, h)
		}
	}
	return hits
}
