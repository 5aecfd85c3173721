package curve

import (
	"errors"
	"math"
	"slices"

	"github.com/matzehuels/celldraw/pkg/geom"
)

var (
	// ErrContained is returned by [Curve.IntersectionsWithRoundedRect] when the
	// curve never crosses the rectangle outline, starts inside it, and the
	// caller did not permit containment.
	ErrContained = errors.New("curve fully contained in rectangle")

	// ErrOutOfRange is returned by the non-clamping inverse arc-length map when
	// the requested length lies outside [0, ArcLength(1)].
	ErrOutOfRange = errors.New("length out of range")
)

// Curve is a parametrised geometric primitive over t ∈ [0, 1].
type Curve interface {
	// Point returns the point at parameter t.
	Point(t float64) geom.Point
	// Tangent returns the direction of travel (radians) at t.
	Tangent(t float64) float64
	// ArcLength returns the length of the curve from 0 to t.
	ArcLength(t float64) float64
	// TAfterLength returns the inverse of ArcLength. With clamp set,
	// out-of-range lengths map to 0 or 1; otherwise they yield ErrOutOfRange.
	TAfterLength(clamp bool) func(length float64) (float64, error)
	// Width returns the horizontal extent in the curve's own frame.
	Width() float64
	// Height returns the maximum distance of the curve from its chord.
	Height() float64
	// IntersectionsWithRoundedRect returns the points where the curve crosses
	// the outline of r, sorted by t.
	IntersectionsWithRoundedRect(r RoundedRect, permitContainment bool) ([]geom.CurvePoint, error)
}

// curvePointAt builds the tagged point at t.
func curvePointAt(c Curve, t float64) geom.CurvePoint {
	return geom.CurvePoint{Point: c.Point(t), T: t, Angle: c.Tangent(t)}
}

// finishIntersections deduplicates and sorts ts into curve points, falling back
// to the containment contract when ts is empty.
func finishIntersections(c Curve, r RoundedRect, ts []float64, permit bool) ([]geom.CurvePoint, error) {
	pts := make([]geom.CurvePoint, 0, len(ts))
	for _, t := range ts {
		pts = append(pts, curvePointAt(c, t))
	}
	pts = dedupe(pts)
	if len(pts) > 0 {
		return pts, nil
	}
	if !r.Contains(c.Point(0)) {
		return nil, nil
	}
	if !permit {
		return nil, ErrContained
	}
	return []geom.CurvePoint{{Point: r.Centre, T: 0, Angle: c.Tangent(0)}}, nil
}

// dedupe removes points that coincide within geom.Epsilon and sorts by t.
func dedupe(pts []geom.CurvePoint) []geom.CurvePoint {
	out := pts[:0]
	for _, p := range pts {
		dup := slices.ContainsFunc(out, func(q geom.CurvePoint) bool {
			return q.Point.Approx(p.Point) && geom.ApproxEqual(q.T, p.T)
		})
		if !dup {
			out = append(out, p)
		}
	}
	slices.SortFunc(out, func(a, b geom.CurvePoint) int {
		switch {
		case a.T < b.T:
			return -1
		case a.T > b.T:
			return 1
		}
		return 0
	})
	return out
}

// inUnit reports whether x lies in [0, 1] within geom.Epsilon.
func inUnit(x float64) bool { return x >= -geom.Epsilon && x <= 1+geom.Epsilon }

// solveQuadratic returns the real roots of a·x² + b·x + c = 0. A tangential
// root is reported once.
func solveQuadratic(a, b, c float64) []float64 {
	if math.Abs(a) < geom.Epsilon {
		if math.Abs(b) < geom.Epsilon {
			return nil
		}
		return []float64{-c / b}
	}
	disc := b*b - 4*a*c
	switch {
	case disc < -geom.Epsilon:
		return nil
	case disc < geom.Epsilon:
		return []float64{-b / (2 * a)}
	}
	sq := math.Sqrt(disc)
	return []float64{(-b - sq) / (2 * a), (-b + sq) / (2 * a)}
}
