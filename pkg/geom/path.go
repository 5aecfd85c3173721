package geom

import (
	"math"
	"strconv"
	"strings"
)

// precision is the number of decimal places kept in serialised numbers.
const precision = 1e3

// Num formats x for path data: rounded to three decimal places, trailing
// zeros trimmed, and negative zero written as "0".
func Num(x float64) string {
	r := math.Round(x*precision) / precision
	if r == 0 {
		return "0"
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}

// Nums formats a list of numbers separated by single spaces.
func Nums(xs ...float64) string {
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = Num(x)
	}
	return strings.Join(parts, " ")
}

// Path accumulates SVG path commands. The zero value is an empty path.
// Relative commands are tracked against the current point so that absolute
// and relative calls may be mixed.
type Path struct {
	cmds []string
	cur  Point
}

// NewPath returns an empty path.
func NewPath() *Path { return &Path{} }

// MoveTo starts a new subpath at p.
func (p *Path) MoveTo(pt Point) *Path {
	p.cmds = append(p.cmds, "M "+Nums(pt.X, pt.Y))
	p.cur = pt
	return p
}

// LineTo draws a straight line to pt.
func (p *Path) LineTo(pt Point) *Path {
	return p.LineBy(pt.Sub(p.cur))
}

// LineBy draws a straight line by the delta d. When one component of d is
// exactly zero the horizontal or vertical shorthand is emitted.
func (p *Path) LineBy(d Point) *Path {
	switch {
	case d.Y == 0:
		p.cmds = append(p.cmds, "h "+Num(d.X))
	case d.X == 0:
		p.cmds = append(p.cmds, "v "+Num(d.Y))
	default:
		p.cmds = append(p.cmds, "l "+Nums(d.X, d.Y))
	}
	p.cur = p.cur.Add(d)
	return p
}

// CurveBy draws a quadratic Bézier with control point c and end point d,
// both relative to the current point.
func (p *Path) CurveBy(c, d Point) *Path {
	p.cmds = append(p.cmds, "q "+Nums(c.X, c.Y, d.X, d.Y))
	p.cur = p.cur.Add(d)
	return p
}

// ArcBy draws an elliptical arc with radii r, x-axis rotation (degrees),
// large-arc and sweep flags, ending at the relative offset d.
func (p *Path) ArcBy(r Point, rotation float64, large, sweep bool, d Point) *Path {
	p.cmds = append(p.cmds, "a "+Nums(r.X, r.Y, rotation)+" "+flag(large)+" "+flag(sweep)+" "+Nums(d.X, d.Y))
	p.cur = p.cur.Add(d)
	return p
}

// ArcTo is ArcBy with an absolute end point.
func (p *Path) ArcTo(r Point, rotation float64, large, sweep bool, pt Point) *Path {
	return p.ArcBy(r, rotation, large, sweep, pt.Sub(p.cur))
}

// Close closes the current subpath.
func (p *Path) Close() *Path {
	p.cmds = append(p.cmds, "z")
	return p
}

// Append copies the commands of q onto p. The current point becomes that of q.
func (p *Path) Append(q *Path) *Path {
	p.cmds = append(p.cmds, q.cmds...)
	if len(q.cmds) > 0 {
		p.cur = q.cur
	}
	return p
}

// Current returns the current point.
func (p *Path) Current() Point { return p.cur }

// Empty reports whether no command has been added.
func (p *Path) Empty() bool { return len(p.cmds) == 0 }

// String serialises the path to SVG path data.
func (p *Path) String() string { return strings.Join(p.cmds, " ") }

func flag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}
