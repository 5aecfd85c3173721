package geom

import (
	"math"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/geom/vec"
)

// Vec returns p as a vec.Vec2.
func (p Point) Vec() vec.Vec2 { return vec.Vec2{X: p.X, Y: p.Y} }

// FromVec converts v to a Point.
func FromVec(v vec.Vec2) Point { return Point{X: v.X, Y: v.Y} }

// Rotation returns the linear map that rotates by theta radians. With y
// pointing down, positive angles turn clockwise on screen.
func Rotation(theta float64) matrix.Matrix {
	sin, cos := math.Sincos(theta)
	return matrix.Matrix{cos, sin, -sin, cos, 0, 0}
}

// Frame maps coordinates local to a chord (origin at the start, +x along
// angle) into diagram space.
func Frame(origin Point, angle float64) matrix.Matrix {
	return Rotation(angle).Translate(origin.X, origin.Y)
}

// Unframe is the inverse of [Frame].
func Unframe(origin Point, angle float64) matrix.Matrix {
	r := Rotation(-angle)
	o := Apply(r, origin)
	return r.Translate(-o.X, -o.Y)
}

// Apply maps p through m.
func Apply(m matrix.Matrix, p Point) Point {
	return Point{
		X: m[0]*p.X + m[2]*p.Y + m[4],
		Y: m[1]*p.X + m[3]*p.Y + m[5],
	}
}
