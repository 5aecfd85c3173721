package arrow

import (
	"math"

	"github.com/matzehuels/celldraw/pkg/curve"
	"github.com/matzehuels/celldraw/pkg/geom"
)

const (
	maskShow = "white"
	maskHide = "black"
)

// mask builds the occlusion mask for n-cells and labelled arrows: a white
// base, the railroad strokes cut out of the body, black silhouettes under the
// glyphs and a black cutout behind the label.
func (a *Arrow) mask(c curve.Curve, sp span, m metrics, out ComputedArrow, heads, tails []HeadStyle, labelAt geom.Point, labelRot float64) ComputedMask {
	id := "mask"
	if a.ID != "" {
		id = "mask-" + a.ID
	}
	mask := ComputedMask{
		ID:        id,
		Transform: out.Transform,
		Elements:  []MaskElement{{Path: a.maskBounds(c, m).String(), Fill: maskShow}},
	}

	if out.Path != "" {
		width := m.edgeWidth - 2*StrokeWidth
		hide := true
		for width > geom.Epsilon {
			colour := maskShow
			if hide {
				colour = maskHide
			}
			mask.Elements = append(mask.Elements, MaskElement{
				Path:        out.Path,
				Fill:        "none",
				Stroke:      colour,
				StrokeWidth: width,
				DashArray:   out.DashArray,
			})
			if hide {
				width -= 2 * LineSpacing
			} else {
				width -= 2 * StrokeWidth
			}
			hide = !hide
		}
	}

	silhouettes := drawStack(c, tails, sp.tailLen, 1, m, true)
	silhouettes = append(silhouettes, drawStack(c, heads, sp.headLen, -1, m, true)...)
	for _, g := range silhouettes {
		mask.Elements = append(mask.Elements, MaskElement{
			Path:        g.Path,
			Transform:   g.Transform,
			Fill:        maskHide,
			Stroke:      maskHide,
			StrokeWidth: StrokeWidth,
		})
	}

	if a.Label != nil && a.Label.Text != "" {
		w, h := a.Label.Size.Width(), a.Label.Size.Height()
		mask.Elements = append(mask.Elements, MaskElement{
			Path:      rectPath(geom.Pt(-w/2, -h/2), w, h).String(),
			Transform: transform(labelAt, labelRot),
			Fill:      maskHide,
		})
	}
	return mask
}

// maskBounds covers the local curve with enough margin for glyphs and the
// label.
func (a *Arrow) maskBounds(c curve.Curve, m metrics) *geom.Path {
	const samples = 32
	var b geom.Bounds
	for i := 0; i <= samples; i++ {
		b.Include(c.Point(float64(i)/samples), 0)
	}

	margin := m.headH + m.edgeWidth + LabelNudge
	if a.Label != nil {
		margin += math.Max(a.Label.Size.Width(), a.Label.Size.Height())
	}
	r := b.Rect(margin)
	size := geom.RectSize(r)
	return rectPath(geom.RectOrigin(r), size.Width(), size.Height())
}

func rectPath(p geom.Point, w, h float64) *geom.Path {
	return geom.NewPath().
		MoveTo(p).
		LineBy(geom.Pt(w, 0)).
		LineBy(geom.Pt(0, h)).
		LineBy(geom.Pt(-w, 0)).
		Close()
}
