package geom

import "math"

// Epsilon is the tolerance shared by every fuzzy comparison: intersection
// deduplication, degenerate chords and near-zero curve heights.
const Epsilon = 1e-6

// Point is a 2D point or vector.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Pt is a convenience function to create a Point.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

// Zero returns the origin.
func Zero() Point { return Point{} }

// Polar returns the point at distance r from the origin in direction angle.
func Polar(r, angle float64) Point {
	return Point{X: r * math.Cos(angle), Y: r * math.Sin(angle)}
}

// Add returns p + q.
func (p Point) Add(q Point) Point { return FromVec(p.Vec().Add(q.Vec())) }

// Sub returns p - q.
func (p Point) Sub(q Point) Point { return FromVec(p.Vec().Sub(q.Vec())) }

// Neg returns -p.
func (p Point) Neg() Point { return Point{X: -p.X, Y: -p.Y} }

// Scale multiplies the components independently.
func (p Point) Scale(w, h float64) Point { return Point{X: p.X * w, Y: p.Y * h} }

// InvScale divides the components independently.
func (p Point) InvScale(w, h float64) Point { return Point{X: p.X / w, Y: p.Y / h} }

// Mul returns the point scaled by k.
func (p Point) Mul(k float64) Point { return FromVec(p.Vec().Mul(k)) }

// Div returns the point divided by k.
func (p Point) Div(k float64) Point { return Point{X: p.X / k, Y: p.Y / k} }

// Rotate returns the point rotated by theta radians around the origin.
func (p Point) Rotate(theta float64) Point { return Apply(Rotation(theta), p) }

// Dot returns the scalar product of p and q.
func (p Point) Dot(q Point) float64 { return p.Vec().Dot(q.Vec()) }

// Length returns the Euclidean norm.
func (p Point) Length() float64 { return p.Vec().Length() }

// Angle returns atan2(y, x).
func (p Point) Angle() float64 { return math.Atan2(p.Y, p.X) }

// Lerp interpolates linearly: t=0 returns p, t=1 returns q.
func (p Point) Lerp(q Point, t float64) Point {
	return Point{
		X: p.X + (q.X-p.X)*t,
		Y: p.Y + (q.Y-p.Y)*t,
	}
}

// IsZero reports whether both components are exactly zero.
func (p Point) IsZero() bool { return p.X == 0 && p.Y == 0 }

// Approx reports whether p and q coincide within Epsilon.
func (p Point) Approx(q Point) bool {
	return ApproxEqual(p.X, q.X) && ApproxEqual(p.Y, q.Y)
}

// Dimensions is a Point read as (width, height).
type Dimensions Point

// Dims is a convenience function to create Dimensions.
func Dims(w, h float64) Dimensions { return Dimensions{X: w, Y: h} }

// Width returns the horizontal extent.
func (d Dimensions) Width() float64 { return d.X }

// Height returns the vertical extent.
func (d Dimensions) Height() float64 { return d.Y }

// IsZero reports whether both extents are zero.
func (d Dimensions) IsZero() bool { return d.X == 0 && d.Y == 0 }

// Point returns d as a plain vector.
func (d Dimensions) Point() Point { return Point(d) }

// CurvePoint is a point on a curve, tagged with the curve parameter t and
// the tangent angle (radians) at t.
type CurvePoint struct {
	Point
	T     float64
	Angle float64
}

// ApproxEqual reports whether |a-b| < Epsilon.
func ApproxEqual(a, b float64) bool { return math.Abs(a-b) < Epsilon }

// Finite reports whether x is neither NaN nor infinite.
func Finite(x float64) bool { return !math.IsNaN(x) && !math.IsInf(x, 0) }

// Clamp limits x to [lo, hi].
func Clamp(x, lo, hi float64) float64 { return math.Max(lo, math.Min(hi, x)) }

// Deg converts radians to degrees.
func Deg(rad float64) float64 { return rad * 180 / math.Pi }

// Rad converts degrees to radians.
func Rad(deg float64) float64 { return deg * math.Pi / 180 }

// NormaliseAngle maps an angle into (-π, π].
func NormaliseAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a <= -math.Pi {
		a += 2 * math.Pi
	} else if a > math.Pi {
		a -= 2 * math.Pi
	}
	return a
}
