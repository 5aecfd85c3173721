package arrow

import (
	"math"

	"github.com/matzehuels/celldraw/pkg/curve"
	"github.com/matzehuels/celldraw/pkg/geom"
)

// curvePath draws the whole of c, which must be in its local frame.
func curvePath(c curve.Curve) *geom.Path {
	p := geom.NewPath().MoveTo(geom.Zero())
	switch c := c.(type) {
	case *curve.Bezier:
		if math.Abs(c.H) < geom.Epsilon {
			return p.LineBy(geom.Pt(c.W, 0))
		}
		return p.CurveBy(geom.Pt(c.W/2, c.H), geom.Pt(c.W, 0))
	case *curve.Arc:
		if c.Straight() {
			return p.LineBy(geom.Pt(c.Chord, 0))
		}
		sweep, increasing := c.Sweep()
		r := c.RadiusAbs()
		return p.ArcBy(geom.Pt(r, r), 0, sweep > math.Pi, increasing, geom.Pt(c.Chord, 0))
	}
	return p
}

// edgePath returns the body path and whether it is trimmed by the dash
// array. Bodies that are not dashed are drawn over the visible span only.
func (a *Arrow) edgePath(c curve.Curve, sp span) (string, bool) {
	switch a.Style.BodyStyle {
	case BodyLine, BodyProarrow, BodyDoubleProarrow, BodyBulletSolid, BodyBulletHollow:
		return curvePath(c).String(), true
	case BodySquiggly:
		return squiggle(c, sp).String(), false
	case BodyAdjunction:
		return adjunction(c, sp).String(), false
	case BodyNone:
		return "", false
	}
	return "", false
}

// squiggle walks the visible span in half-wavelength steps, bending each
// step alternately to either side of the curve.
func squiggle(c curve.Curve, sp span) *geom.Path {
	inv := c.TAfterLength(true)
	at := func(s float64) (geom.Point, float64) {
		t, _ := inv(s)
		return c.Point(t), c.Tangent(t)
	}

	length := sp.visEnd - sp.visStart
	n := int(geom.Clamp(math.Round(length/(SquigglyWavelength/2)), 1, MaxSquigglySteps))
	step := length / float64(n)

	start, _ := at(sp.visStart)
	p := geom.NewPath().MoveTo(start)
	sign := 1.0
	for i := range n {
		s0 := sp.visStart + float64(i)*step
		mid, tangent := at(s0 + step/2)
		end, _ := at(s0 + step)

		cur := p.Current()
		peak := mid.Add(geom.Polar(sign*SquigglyAmplitude, tangent+math.Pi/2))
		// The control point that makes the quadratic pass through peak.
		ctrl := peak.Mul(2).Sub(cur.Lerp(end, 0.5))
		p.CurveBy(ctrl.Sub(cur), end.Sub(cur))
		sign = -sign
	}
	return p
}

// adjunction draws a fixed-size ⊣ centred on the curve.
func adjunction(c curve.Curve, sp span) *geom.Path {
	t, _ := c.TAfterLength(true)((sp.tailLen + sp.headLen) / 2)
	centre, angle := c.Point(t), c.Tangent(t)
	toCurve := geom.Frame(centre, angle)
	at := func(x, y float64) geom.Point {
		return geom.Apply(toCurve, geom.Pt(x, y))
	}
	hw, hh := AdjunctionWidth/2, AdjunctionHeight/2
	return geom.NewPath().
		MoveTo(at(-hw, 0)).LineTo(at(hw, 0)).
		MoveTo(at(hw, -hh)).LineTo(at(hw, hh))
}

// dashArray builds "0 lead pattern... trail" so that the stroke is invisible
// outside the visible span. The final dash is truncated to fit and a trailing
// partial gap merges into the trail. Spans needing more than MaxDashes
// repetitions are drawn solid.
func dashArray(sp span, pattern []float64) string {
	lead := sp.visStart
	visible := sp.visEnd - sp.visStart
	trail := sp.total - sp.visEnd

	solid := geom.Nums(0, lead, visible, trail)
	if len(pattern) == 0 {
		return solid
	}
	parts := []float64{0, lead}
	remaining := visible
	for range MaxDashes {
		before := remaining
		dash := math.Min(pattern[0], remaining)
		remaining -= dash
		gap := math.Min(pattern[1], remaining)
		remaining -= gap
		if remaining <= geom.Epsilon {
			parts = append(parts, dash, gap+trail)
			return geom.Nums(parts...)
		}
		if remaining >= before {
			// The pattern is lost below the precision of remaining.
			return solid
		}
		parts = append(parts, dash, gap)
	}
	return solid
}
