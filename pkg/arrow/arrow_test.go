package arrow

import (
	"reflect"
	"strings"
	"testing"

	"github.com/matzehuels/celldraw/pkg/geom"
)

func node(x, y float64) Shape {
	return RoundedRect(geom.Pt(x, y), geom.Dims(50, 50), 25)
}

func straight(style Style) *Arrow {
	return &Arrow{ID: "a", Source: node(0, 0), Target: node(100, 0), Style: style}
}

func mustCompute(t *testing.T, a *Arrow) *Result {
	t.Helper()
	res, ok := a.Compute()
	if !ok {
		t.Fatal("Compute() reported the arrow undrawable")
	}
	return res
}

func TestShortening(t *testing.T) {
	s := DefaultStyle()
	s.Shorten = Shorten{Tail: 10, Head: 20}
	res := mustCompute(t, straight(s))
	out := res.Arrow

	if out.DashArray != "0 35 20 45" {
		t.Errorf("DashArray = %q, want %q", out.DashArray, "0 35 20 45")
	}
	if out.Path != "M 0 0 h 100" {
		t.Errorf("Path = %q", out.Path)
	}
	if out.Transform != "translate(0 0) rotate(0)" {
		t.Errorf("Transform = %q", out.Transform)
	}
	if !out.SourcePoint.Approx(geom.Pt(25, 0)) || !out.TargetPoint.Approx(geom.Pt(75, 0)) {
		t.Errorf("endpoints = %v, %v", out.SourcePoint, out.TargetPoint)
	}
	if !out.Midpoint.Approx(geom.Pt(50, 0)) {
		t.Errorf("Midpoint = %v, want (50, 0)", out.Midpoint)
	}
	if !geom.ApproxEqual(out.ArcLength, 50) {
		t.Errorf("ArcLength = %v, want 50", out.ArcLength)
	}
	if len(out.Heads) != 1 || out.Heads[0].Transform != "translate(55 0) rotate(0)" {
		t.Errorf("Heads = %+v", out.Heads)
	}
	if len(res.Masks) != 0 || out.Mask != "" {
		t.Errorf("single unlabelled arrow should have no mask, got %+v", res.Masks)
	}
}

func TestDashStyles(t *testing.T) {
	tests := []struct {
		dash DashStyle
		want string
	}{
		{DashSolid, "0 25 50 25"},
		{DashDashed, "0 25 6 4 6 4 6 4 6 4 6 29"},
		{DashDotted, "0 25" + strings.Repeat(" 0 3", 16) + " 0 27"},
	}
	for _, tt := range tests {
		t.Run(tt.dash.String(), func(t *testing.T) {
			s := DefaultStyle()
			s.Heads = nil
			s.DashStyle = tt.dash
			out := mustCompute(t, straight(s)).Arrow
			if out.DashArray != tt.want {
				t.Errorf("DashArray = %q, want %q", out.DashArray, tt.want)
			}
		})
	}
}

func TestDashArrayCoversCurve(t *testing.T) {
	sp := span{total: 123.4, visStart: 20, visEnd: 97.3}
	for _, pattern := range [][]float64{nil, {6, 4}, {0, 3}} {
		parts := strings.Fields(dashArray(sp, pattern))
		if len(parts)%2 != 0 {
			t.Errorf("pattern %v: odd dash array %v", pattern, parts)
		}
		if parts[0] != "0" || parts[1] != "20" {
			t.Errorf("pattern %v: lead = %v", pattern, parts[:2])
		}
	}
}

func TestLongDashedArrow(t *testing.T) {
	tests := []struct {
		name string
		x    float64
	}{
		{"1e5", 1e5},
		{"1e7", 1e7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultStyle()
			s.DashStyle = DashDashed
			a := &Arrow{Source: node(0, 0), Target: node(tt.x, 0), Style: s}
			parts := strings.Fields(mustCompute(t, a).Arrow.DashArray)
			if len(parts) != 4 || parts[0] != "0" {
				t.Errorf("DashArray has %d entries, want a solid 4-entry array", len(parts))
			}
		})
	}
}

func TestDashArrayBounded(t *testing.T) {
	tests := []struct {
		name string
		sp   span
		want int
	}{
		{"short", span{total: 100, visStart: 25, visEnd: 75}, 12},
		{"over the cap", span{total: 1e6, visStart: 25, visEnd: 1e6 - 25}, 4},
		{"below float precision", span{total: 1e17, visStart: 25, visEnd: 1e17 - 25}, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parts := strings.Fields(dashArray(tt.sp, DashDashed.pattern()))
			if len(parts) != tt.want {
				t.Errorf("dashArray has %d entries, want %d", len(parts), tt.want)
			}
		})
	}
}

func TestLongSquiggle(t *testing.T) {
	s := DefaultStyle()
	s.BodyStyle = BodySquiggly
	a := &Arrow{Source: node(0, 0), Target: node(1e6, 0), Style: s}
	out := mustCompute(t, a).Arrow
	if n := strings.Count(out.Path, "q"); n == 0 || n > MaxSquigglySteps {
		t.Errorf("squiggle has %d segments, want 1..%d", n, MaxSquigglySteps)
	}
}

func TestLoop(t *testing.T) {
	a := &Arrow{ID: "loop", Source: node(0, 0), Target: node(0, 0), Style: DefaultStyle()}
	res := mustCompute(t, a)
	out := res.Arrow

	if out.ArcLength <= 0 {
		t.Errorf("ArcLength = %v, want > 0", out.ArcLength)
	}
	if !strings.Contains(out.Path, "a 30 30 0 1 0") {
		t.Errorf("loop should be a major arc, got %q", out.Path)
	}
	if out.SourcePoint.Approx(out.TargetPoint) {
		t.Error("loop endpoints coincide")
	}
	// Angle 0 makes the loop protrude to the right of the node.
	if out.Midpoint.X < 25 {
		t.Errorf("Midpoint = %v, want outside the node on the right", out.Midpoint)
	}

	b := &Arrow{Source: node(0, 0), Target: node(0, 0), Style: DefaultStyle()}
	b.Style.Angle = 3.14159265
	other := mustCompute(t, b).Arrow
	if other.Midpoint.X > -25 {
		t.Errorf("Midpoint = %v, want outside the node on the left", other.Midpoint)
	}
}

func TestEndpointAttachment(t *testing.T) {
	a := &Arrow{
		Source: Endpoint(geom.Pt(50, 0)),
		Target: node(50, 100),
		Style:  DefaultStyle(),
	}
	out := mustCompute(t, a).Arrow
	if out.SourcePoint != geom.Pt(50, 0) {
		t.Errorf("SourcePoint = %v, want exactly (50, 0)", out.SourcePoint)
	}
	if !out.TargetPoint.Approx(geom.Pt(50, 75)) {
		t.Errorf("TargetPoint = %v, want (50, 75)", out.TargetPoint)
	}
}

func TestUndrawable(t *testing.T) {
	// Overlapping nodes: the curve never leaves the target outline.
	a := &Arrow{Source: node(0, 0), Target: node(10, 0), Style: DefaultStyle()}
	if res, ok := a.Compute(); ok || res != nil {
		t.Errorf("Compute() = %+v, %v; want nil, false", res, ok)
	}
}

func TestCurvedArrows(t *testing.T) {
	tests := []struct {
		name  string
		style func(*Style)
		path  string
	}{
		{"bezier", func(s *Style) { s.Curve = 20 }, "M 0 0 q 50 40 100 0"},
		{"arc", func(s *Style) { s.Shape = ShapeArc; s.Radius = 50 }, "M 0 0 a 50 50 0 0 0 100 0"},
		{"flat arc", func(s *Style) { s.Shape = ShapeArc; s.Radius = 1e12 }, "M 0 0 h 100"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultStyle()
			tt.style(&s)
			out := mustCompute(t, straight(s)).Arrow
			if out.Path != tt.path {
				t.Errorf("Path = %q, want %q", out.Path, tt.path)
			}
			if out.InteractionPath != tt.path {
				t.Errorf("InteractionPath = %q, want %q", out.InteractionPath, tt.path)
			}
			if out.ArcLength <= 0 {
				t.Error("ArcLength should be positive")
			}
		})
	}
}

func TestShift(t *testing.T) {
	s := DefaultStyle()
	s.Shift = 10
	out := mustCompute(t, straight(s)).Arrow
	if out.Transform != "translate(0 10) rotate(0)" {
		t.Errorf("Transform = %q", out.Transform)
	}
	if !geom.ApproxEqual(out.Midpoint.Y, 10) {
		t.Errorf("Midpoint = %v, want y = 10", out.Midpoint)
	}
}

func TestLabelPlacement(t *testing.T) {
	tests := []struct {
		align    LabelAlignment
		pos      geom.Point
		rotation float64
	}{
		{AlignLeft, geom.Pt(50, -15), 0},
		{AlignRight, geom.Pt(50, 15), 0},
		{AlignCentre, geom.Pt(50, 0), 0},
		{AlignOver, geom.Pt(0, 50), 90},
	}
	for _, tt := range tests {
		t.Run(tt.align.String(), func(t *testing.T) {
			a := straight(DefaultStyle())
			if tt.align == AlignOver {
				a.Target = node(0, 100)
			}
			a.Label = &Label{Text: "f", Colour: "#ff0000", Alignment: tt.align, Size: geom.Dims(20, 16)}
			res := mustCompute(t, a)
			l := res.Arrow.Label
			if l == nil {
				t.Fatal("missing label")
			}
			if !l.Position.Approx(tt.pos) {
				t.Errorf("Position = %v, want %v", l.Position, tt.pos)
			}
			if !geom.ApproxEqual(l.Rotation, tt.rotation) {
				t.Errorf("Rotation = %v, want %v", l.Rotation, tt.rotation)
			}
			if l.Colour != "#ff0000" || l.Text != "f" {
				t.Errorf("label = %+v", l)
			}
			if len(res.Masks) != 1 || res.Arrow.Mask != "mask-a" {
				t.Fatalf("labelled arrow should carry a mask, got %+v", res.Masks)
			}
			cut := res.Masks[0].Elements[len(res.Masks[0].Elements)-1]
			if cut.Fill != maskHide || cut.Path != "M -10 -8 h 20 v 16 h -20 z" {
				t.Errorf("label cutout = %+v", cut)
			}
		})
	}
}

func TestEmptyLabelHasNoMask(t *testing.T) {
	a := straight(DefaultStyle())
	a.Label = &Label{}
	res := mustCompute(t, a)
	if len(res.Masks) != 0 {
		t.Errorf("Masks = %+v, want none", res.Masks)
	}
	if res.Arrow.Label == nil || res.Arrow.Label.Alignment != "left" {
		t.Errorf("Label = %+v", res.Arrow.Label)
	}
}

func TestLevels(t *testing.T) {
	tests := []struct {
		level   int
		width   float64
		strokes []float64
	}{
		{2, 7.5, []float64{4.5}},
		{3, 13.5, []float64{10.5, 1.5}},
	}
	for _, tt := range tests {
		s := DefaultStyle()
		s.Level = tt.level
		res := mustCompute(t, straight(s))
		if res.Arrow.StrokeWidth != tt.width {
			t.Errorf("level %d: StrokeWidth = %v, want %v", tt.level, res.Arrow.StrokeWidth, tt.width)
		}
		if len(res.Masks) != 1 {
			t.Fatalf("level %d: want one mask, got %d", tt.level, len(res.Masks))
		}
		els := res.Masks[0].Elements
		if els[0].Fill != maskShow {
			t.Errorf("level %d: base = %+v", tt.level, els[0])
		}
		var got []float64
		for _, e := range els[1:] {
			if e.Fill == "none" {
				got = append(got, e.StrokeWidth)
				if e.DashArray != res.Arrow.DashArray {
					t.Errorf("level %d: stroke not trimmed like the body", tt.level)
				}
			}
		}
		if !reflect.DeepEqual(got, tt.strokes) {
			t.Errorf("level %d: strokes = %v, want %v", tt.level, got, tt.strokes)
		}
	}
}

func TestHeadStacking(t *testing.T) {
	s := DefaultStyle()
	s.Heads = Epi()
	s.Tails = []HeadStyle{HeadMono}
	out := mustCompute(t, straight(s)).Arrow

	if len(out.Heads) != 2 {
		t.Fatalf("len(Heads) = %d, want 2", len(out.Heads))
	}
	if out.Heads[0].Transform != "translate(75 0) rotate(0)" ||
		out.Heads[1].Transform != "translate(70 0) rotate(0)" {
		t.Errorf("epi heads at %q, %q", out.Heads[0].Transform, out.Heads[1].Transform)
	}
	if len(out.Tails) != 1 || out.Tails[0].Style != "mono" ||
		out.Tails[0].Transform != "translate(25 0) rotate(180)" {
		t.Errorf("Tails = %+v", out.Tails)
	}
	// A straight body needs no mono padding.
	if out.DashArray != "0 25 50 25" {
		t.Errorf("DashArray = %q", out.DashArray)
	}
}

func TestGlyphs(t *testing.T) {
	for _, h := range []HeadStyle{
		HeadNormal, HeadMono, HeadMapsTo, HeadHarpoonTop, HeadHarpoonBottom,
		HeadHookTop, HeadHookBottom, HeadCorner, HeadCornerInverse,
	} {
		t.Run(h.String(), func(t *testing.T) {
			s := DefaultStyle()
			s.Level = 2
			s.Heads = []HeadStyle{h}
			s.Tails = []HeadStyle{h}
			res := mustCompute(t, straight(s))
			if len(res.Arrow.Heads) != 1 || len(res.Arrow.Tails) != 1 {
				t.Fatalf("heads/tails = %d/%d", len(res.Arrow.Heads), len(res.Arrow.Tails))
			}
			for _, g := range append(res.Arrow.Heads, res.Arrow.Tails...) {
				if g.Style != h.String() || !strings.HasPrefix(g.Path, "M ") {
					t.Errorf("glyph = %+v", g)
				}
			}
		})
	}
}

func TestHarpoonSides(t *testing.T) {
	m := newMetrics(1)
	top := glyphPath(HeadHarpoonTop, m, -1, false).String()
	bottom := glyphPath(HeadHarpoonBottom, m, -1, false).String()
	if !strings.HasPrefix(top, "M -9.75 -6 ") || !strings.HasPrefix(bottom, "M -9.75 6 ") {
		t.Errorf("top = %q, bottom = %q", top, bottom)
	}
	// The tail frame is turned around, so top flips sign.
	if got := glyphPath(HeadHarpoonTop, m, 1, false).String(); !strings.HasPrefix(got, "M -9.75 6 ") {
		t.Errorf("tail top = %q", got)
	}
}

func TestMaskSilhouetteEnlarged(t *testing.T) {
	m := newMetrics(1)
	tests := []struct {
		head   HeadStyle
		stroke string
		mask   string
	}{
		{HeadNormal, "M -9.75 -6 ", "M -11.7 -7.2 "},
		{HeadMono, "M 0 -6 ", "M 0 -7.2 "},
		{HeadMapsTo, "M 0 -6 ", "M -1.8 -7.2 "},
		{HeadHarpoonTop, "M -9.75 -6 ", "M -11.7 -7.2 "},
	}
	for _, tt := range tests {
		t.Run(tt.head.String(), func(t *testing.T) {
			stroke := glyphPath(tt.head, m, -1, false).String()
			mask := glyphPath(tt.head, m, -1, true).String()
			if !strings.HasPrefix(stroke, tt.stroke) {
				t.Errorf("stroke = %q, want prefix %q", stroke, tt.stroke)
			}
			if !strings.HasPrefix(mask, tt.mask) || !strings.HasSuffix(mask, "z") {
				t.Errorf("silhouette = %q, want closed path with prefix %q", mask, tt.mask)
			}
		})
	}
}

func TestCorner(t *testing.T) {
	s := DefaultStyle()
	s.Tails = []HeadStyle{HeadCorner}
	a := straight(s)
	a.Target = node(100, 90)
	out := mustCompute(t, a).Arrow
	if len(out.Tails) != 1 {
		t.Fatalf("Tails = %+v", out.Tails)
	}
	// 42° snaps to 45°: the corner turns 3° relative to the chord.
	if !strings.HasSuffix(out.Tails[0].Transform, "rotate(3.013)") {
		t.Errorf("corner transform = %q", out.Tails[0].Transform)
	}
}

func TestBodies(t *testing.T) {
	tests := []struct {
		body        BodyStyle
		dashed      bool
		decorations int
	}{
		{BodyLine, true, 0},
		{BodyNone, false, 0},
		{BodySquiggly, false, 0},
		{BodyAdjunction, false, 0},
		{BodyProarrow, true, 1},
		{BodyDoubleProarrow, true, 2},
		{BodyBulletSolid, true, 1},
		{BodyBulletHollow, true, 1},
	}
	for _, tt := range tests {
		t.Run(tt.body.String(), func(t *testing.T) {
			s := DefaultStyle()
			s.BodyStyle = tt.body
			out := mustCompute(t, straight(s)).Arrow
			if (out.DashArray != "") != tt.dashed {
				t.Errorf("DashArray = %q", out.DashArray)
			}
			if len(out.Decorations) != tt.decorations {
				t.Errorf("len(Decorations) = %d, want %d", len(out.Decorations), tt.decorations)
			}
			if tt.body == BodyNone && out.Path != "" {
				t.Errorf("Path = %q, want empty", out.Path)
			}
		})
	}
}

func TestSquiggle(t *testing.T) {
	s := DefaultStyle()
	s.BodyStyle = BodySquiggly
	s.Heads = nil
	s.Shorten = Shorten{Head: 2}
	out := mustCompute(t, straight(s)).Arrow
	if !strings.HasPrefix(out.Path, "M 25 0 q ") {
		t.Errorf("Path = %q", out.Path)
	}
	// 48px of body in 4px half waves.
	if n := strings.Count(out.Path, "q "); n != 12 {
		t.Errorf("got %d half waves, want 12", n)
	}
}

func TestBulletPlacement(t *testing.T) {
	s := DefaultStyle()
	s.BodyStyle = BodyBulletSolid
	s.Shorten = Shorten{Tail: 10}
	out := mustCompute(t, straight(s)).Arrow
	b := out.Decorations[0]
	if b.Transform != "translate(55 0) rotate(0)" || !b.Filled {
		t.Errorf("bullet = %+v", b)
	}
}

func TestColour(t *testing.T) {
	s := DefaultStyle()
	if out := mustCompute(t, straight(s)).Arrow; out.Colour != "black" {
		t.Errorf("default Colour = %q", out.Colour)
	}
	s.Colour = "hsl(120, 50%, 50%)"
	if out := mustCompute(t, straight(s)).Arrow; out.Colour != s.Colour {
		t.Errorf("Colour = %q, want %q", out.Colour, s.Colour)
	}
}

func TestComputeDeterministic(t *testing.T) {
	s := DefaultStyle()
	s.Curve = 17.3
	s.Level = 3
	s.Heads = Epi()
	s.Tails = []HeadStyle{HeadHookTop}
	mk := func() *Arrow {
		a := straight(s)
		a.Target = node(140, 63)
		a.Label = &Label{Text: "α", Alignment: AlignOver, Size: geom.Dims(14, 18)}
		return a
	}
	first := mustCompute(t, mk())
	second := mustCompute(t, mk())
	if !reflect.DeepEqual(first, second) {
		t.Error("Compute() is not deterministic")
	}
}
