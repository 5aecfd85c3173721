package arrow

import (
	"math"

	"github.com/matzehuels/celldraw/pkg/curve"
	"github.com/matzehuels/celldraw/pkg/geom"
)

func first(hs []HeadStyle) *HeadStyle {
	if len(hs) == 0 {
		return nil
	}
	return &hs[0]
}

// splitCorners separates corner marks, which sit away from the endpoint,
// from the glyphs stacked at it.
func splitCorners(hs []HeadStyle) (stack, corners []HeadStyle) {
	for _, h := range hs {
		if h == HeadCorner || h == HeadCornerInverse {
			corners = append(corners, h)
		} else {
			stack = append(stack, h)
		}
	}
	return stack, corners
}

// glyphShortening is how far the body stops short of a glyph's anchor so
// that wide bodies do not poke through the tip.
func glyphShortening(h *HeadStyle, m metrics) float64 {
	if h == nil {
		return 0
	}
	switch *h {
	case HeadNormal, HeadHarpoonTop, HeadHarpoonBottom:
		return (m.edgeWidth - StrokeWidth) / 2
	case HeadMono, HeadMapsTo, HeadHookTop, HeadHookBottom, HeadCorner, HeadCornerInverse:
		return 0
	}
	return 0
}

// drawStack places a stack of glyphs starting at arc length at and walking
// inwards (dir = +1 from the tail, -1 from the head). Identical neighbours
// are spaced by HeadSpacing/collapse. In mask mode every glyph is a closed
// silhouette.
func drawStack(c curve.Curve, hs []HeadStyle, at, dir float64, m metrics, mask bool) []Glyph {
	inv := c.TAfterLength(true)
	glyphs := make([]Glyph, 0, len(hs))
	offset := 0.0
	for i, h := range hs {
		if i > 0 {
			step := HeadSpacing
			if hs[i-1] == h {
				step /= collapse
			}
			offset += step
		}
		t, _ := inv(at + dir*offset)
		// Glyph frames point outwards, away from the body.
		angle := c.Tangent(t)
		if dir > 0 {
			angle += math.Pi
		}
		glyphs = append(glyphs, Glyph{
			Style:     h.String(),
			Path:      glyphPath(h, m, dir, mask).String(),
			Transform: transform(c.Point(t), geom.Deg(angle)),
			Filled:    mask,
		})
	}
	return glyphs
}

// glyphPath draws h in its outward frame: the anchor is the origin and +x
// points away from the body. up is the sign of "top" in that frame, which
// flips between the two ends. A mask silhouette is scaled by MaskGlyphScale.
func glyphPath(h HeadStyle, m metrics, up float64, mask bool) *geom.Path {
	k := 1.0
	if mask {
		k = MaskGlyphScale
	}
	w, hh, sw := k*m.headW, k*m.headH/2, k*StrokeWidth
	p := geom.NewPath()
	switch h {
	case HeadNormal:
		p.MoveTo(geom.Pt(-w, -hh)).
			ArcTo(geom.Pt(w, hh), 0, false, false, geom.Zero()).
			ArcTo(geom.Pt(w, hh), 0, false, false, geom.Pt(-w, hh))
	case HeadMono:
		p.MoveTo(geom.Pt(0, -hh)).
			ArcTo(geom.Pt(w, hh), 0, false, false, geom.Pt(-w, 0)).
			ArcTo(geom.Pt(w, hh), 0, false, false, geom.Pt(0, hh))
	case HeadMapsTo:
		if mask {
			return p.MoveTo(geom.Pt(-sw, -hh)).
				LineBy(geom.Pt(2*sw, 0)).
				LineBy(geom.Pt(0, 2*hh)).
				LineBy(geom.Pt(-2*sw, 0)).
				Close()
		}
		p.MoveTo(geom.Pt(0, -hh)).LineBy(geom.Pt(0, 2*hh))
	case HeadHarpoonTop, HeadHarpoonBottom:
		side := sideOf(h, up)
		for _, o := range levelOffsets(m.level) {
			o *= k
			p.MoveTo(geom.Pt(-w, side*hh+o)).
				ArcTo(geom.Pt(w, hh), 0, false, side > 0, geom.Pt(0, o))
			if mask {
				p.Close()
			}
		}
		return p
	case HeadHookTop, HeadHookBottom:
		side := sideOf(h, up)
		r := hh / 2
		for _, o := range levelOffsets(m.level) {
			o *= k
			p.MoveTo(geom.Pt(0, o)).
				ArcBy(geom.Pt(r, r), 0, false, side > 0, geom.Pt(0, 2*r*side))
			if mask {
				p.Close()
			}
		}
		return p
	case HeadCorner, HeadCornerInverse:
		return cornerPath(h)
	}
	if mask {
		p.Close()
	}
	return p
}

// sideOf maps a top/bottom glyph to the y sign of its barb.
func sideOf(h HeadStyle, up float64) float64 {
	switch h {
	case HeadHarpoonTop, HeadHookTop:
		return up
	}
	return -up
}

// levelOffsets returns the y offsets of the strokes of an n-cell.
func levelOffsets(level int) []float64 {
	offsets := make([]float64, level)
	for i := range offsets {
		offsets[i] = (float64(i) - float64(level-1)/2) * (StrokeWidth + LineSpacing)
	}
	return offsets
}

func cornerPath(h HeadStyle) *geom.Path {
	s := CornerSize / 2
	if h == HeadCornerInverse {
		s = -s
	}
	return geom.NewPath().
		MoveTo(geom.Pt(s, -math.Abs(s))).
		LineTo(geom.Zero()).
		LineTo(geom.Pt(s, math.Abs(s)))
}

// drawCorners places corner marks CornerOffset inside the shortened span,
// oriented along the arrow's direction snapped to the nearest 45 degrees.
func drawCorners(c curve.Curve, hs []HeadStyle, sp span, f frame, dir float64) []Glyph {
	if len(hs) == 0 {
		return nil
	}
	at := sp.tailLen + CornerOffset
	if dir < 0 {
		at = sp.headLen - CornerOffset
	}
	at = geom.Clamp(at, sp.tailLen, sp.headLen)
	t, _ := c.TAfterLength(true)(at)

	snapped := math.Round(f.angle/(math.Pi/4)) * math.Pi / 4
	rot := snapped - f.angle
	if dir < 0 {
		rot += math.Pi
	}

	glyphs := make([]Glyph, 0, len(hs))
	for _, h := range hs {
		glyphs = append(glyphs, Glyph{
			Style:     h.String(),
			Path:      cornerPath(h).String(),
			Transform: transform(c.Point(t), geom.Deg(rot)),
		})
	}
	return glyphs
}

// decorations draws proarrow bars and bullets centred between the shortened
// endpoints.
func (a *Arrow) decorations(c curve.Curve, sp span, m metrics) []Glyph {
	mid := (sp.tailLen + sp.headLen) / 2
	switch a.Style.BodyStyle {
	case BodyProarrow:
		return []Glyph{bar(c, mid, m)}
	case BodyDoubleProarrow:
		lo := geom.Clamp(mid-ProarrowSpacing/2, sp.tailLen, sp.headLen)
		hi := geom.Clamp(mid+ProarrowSpacing/2, sp.tailLen, sp.headLen)
		return []Glyph{bar(c, lo, m), bar(c, hi, m)}
	case BodyBulletSolid, BodyBulletHollow:
		return []Glyph{bullet(c, mid, m, a.Style.BodyStyle == BodyBulletSolid)}
	case BodyLine, BodyNone, BodySquiggly, BodyAdjunction:
		return nil
	}
	return nil
}

func bar(c curve.Curve, at float64, m metrics) Glyph {
	t, _ := c.TAfterLength(true)(at)
	hh := m.headH / 2
	return Glyph{
		Style:     "bar",
		Path:      geom.NewPath().MoveTo(geom.Pt(0, -hh)).LineBy(geom.Pt(0, 2*hh)).String(),
		Transform: transform(c.Point(t), geom.Deg(c.Tangent(t))),
	}
}

func bullet(c curve.Curve, at float64, m metrics, solid bool) Glyph {
	t, _ := c.TAfterLength(true)(at)
	r := BulletRadius + (m.edgeWidth-StrokeWidth)/2
	p := geom.NewPath().
		MoveTo(geom.Pt(-r, 0)).
		ArcBy(geom.Pt(r, r), 0, true, false, geom.Pt(2*r, 0)).
		ArcBy(geom.Pt(r, r), 0, true, false, geom.Pt(-2*r, 0)).
		Close()
	return Glyph{
		Style:     "bullet",
		Path:      p.String(),
		Transform: transform(c.Point(t), geom.Deg(c.Tangent(t))),
		Filled:    solid,
	}
}
