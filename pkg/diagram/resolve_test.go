package diagram

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/celldraw/pkg/errors"
	"github.com/matzehuels/celldraw/pkg/geom"
)

func fixedMeasurer(w, h float64) Option {
	return WithLabelMeasurer(func(string) (float64, float64) { return w, h })
}

func mustResolve(t *testing.T, src string, opts ...Option) *ComputedDiagram {
	t.Helper()
	d := ResolveJSON([]byte(src), opts...)
	if d.Error != nil {
		t.Fatalf("ResolveJSON() error = %s", *d.Error)
	}
	return d
}

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-6 }

func TestResolveEmpty(t *testing.T) {
	for _, src := range []string{`{}`, `{"version": 1, "nodes": [], "arrows": []}`} {
		d := mustResolve(t, src)
		if len(d.Nodes) != 0 || len(d.Arrows) != 0 || len(d.Masks) != 0 {
			t.Errorf("%s: got %d nodes, %d arrows", src, len(d.Nodes), len(d.Arrows))
		}
		if d.ViewBox != EmptyViewBox {
			t.Errorf("%s: ViewBox = %q, want %q", src, d.ViewBox, EmptyViewBox)
		}

		out, err := json.Marshal(d)
		if err != nil {
			t.Fatal(err)
		}
		want := `{"nodes":[],"arrows":[],"masks":[],"viewBox":"0 0 100 100","error":null}`
		if string(out) != want {
			t.Errorf("json = %s, want %s", out, want)
		}
	}

	if d := Resolve(nil); d.Error != nil || d.ViewBox != EmptyViewBox {
		t.Errorf("Resolve(nil) = %+v", d)
	}
}

func TestResolveShortening(t *testing.T) {
	d := mustResolve(t, `{
		"version": 1,
		"nodes": [{"name": "A", "left": 0, "top": 0}, {"name": "B", "left": 100, "top": 0}],
		"arrows": [{"from": "A", "to": "B", "shorten": {"source": 10, "target": 20}}]
	}`)
	if len(d.Arrows) != 1 {
		t.Fatalf("got %d arrows", len(d.Arrows))
	}
	a := d.Arrows[0]
	if a.ID != "_arrow_0" {
		t.Errorf("ID = %q", a.ID)
	}
	if a.DashArray != "0 35 20 45" {
		t.Errorf("DashArray = %q, want %q", a.DashArray, "0 35 20 45")
	}
	if !a.SourcePoint.Approx(geom.Pt(25, 0)) || !a.TargetPoint.Approx(geom.Pt(75, 0)) {
		t.Errorf("endpoints = %v, %v", a.SourcePoint, a.TargetPoint)
	}
	if !approx(a.ArcLength, 50) {
		t.Errorf("ArcLength = %v, want 50", a.ArcLength)
	}
}

func TestResolveLoop(t *testing.T) {
	d := mustResolve(t, `{
		"nodes": [{"name": "A", "left": 50, "top": 50}],
		"arrows": [{"name": "id", "from": "A", "to": "A", "angle": 90}]
	}`)
	if len(d.Arrows) != 1 {
		t.Fatalf("got %d arrows", len(d.Arrows))
	}
	a := d.Arrows[0]
	if a.ArcLength <= 0 {
		t.Errorf("ArcLength = %v, want > 0", a.ArcLength)
	}
	if !strings.Contains(a.InteractionPath, "a 30 30 0 1") {
		t.Errorf("InteractionPath = %q, want a major arc", a.InteractionPath)
	}
	if a.SourcePoint.Approx(a.TargetPoint) {
		t.Errorf("loop leaves and enters at the same point %v", a.SourcePoint)
	}

	pts := sampleArc(t, a.InteractionPath, 64)
	for i := 0; i+1 < len(pts); i++ {
		for j := i + 2; j+1 < len(pts); j++ {
			if segmentsCross(pts[i], pts[i+1], pts[j], pts[j+1]) {
				t.Fatalf("loop crosses itself between samples %d and %d", i, j)
			}
		}
	}
	var reach float64
	for _, p := range pts {
		reach = math.Max(reach, p.Sub(pts[0]).Length())
	}
	if math.Abs(reach-60) > 0.5 {
		t.Errorf("loop reaches %v from its start, want about one diameter", reach)
	}
}

// sampleArc samples a path of the form "M x y a r r 0 large sweep dx dy"
// at n+1 evenly spaced angles.
func sampleArc(t *testing.T, path string, n int) []geom.Point {
	t.Helper()
	var x, y, rx, ry, rot, dx, dy float64
	var large, sweep int
	if _, err := fmt.Sscanf(path, "M %g %g a %g %g %g %d %d %g %g", &x, &y, &rx, &ry, &rot, &large, &sweep, &dx, &dy); err != nil {
		t.Fatalf("path %q is not a single arc: %v", path, err)
	}
	p0 := geom.Pt(x, y)
	p1 := p0.Add(geom.Pt(dx, dy))
	half := p1.Sub(p0).Length() / 2
	normal := geom.Pt(-dy, dx).Mul(1 / (2 * half))
	h := math.Sqrt(math.Max(0, rx*rx-half*half))
	for _, side := range []float64{1, -1} {
		c := p0.Lerp(p1, 0.5).Add(normal.Mul(side * h))
		start := p0.Sub(c).Angle()
		ext := p1.Sub(c).Angle() - start
		if sweep == 1 && ext < 0 {
			ext += 2 * math.Pi
		}
		if sweep == 0 && ext > 0 {
			ext -= 2 * math.Pi
		}
		if (math.Abs(ext) > math.Pi) != (large == 1) {
			continue
		}
		pts := make([]geom.Point, n+1)
		for i := range pts {
			pts[i] = c.Add(geom.Polar(rx, start+ext*float64(i)/float64(n)))
		}
		return pts
	}
	t.Fatalf("no centre fits %q", path)
	return nil
}

func segmentsCross(p, q, r, s geom.Point) bool {
	orient := func(a, b, c geom.Point) float64 {
		u, v := b.Sub(a), c.Sub(a)
		return u.X*v.Y - u.Y*v.X
	}
	return orient(r, s, p)*orient(r, s, q) < 0 && orient(p, q, r)*orient(p, q, s) < 0
}

func TestResolveCycle(t *testing.T) {
	d := ResolveJSON([]byte(`{
		"nodes": [{"name": "A", "left": 0, "top": 0}, {"name": "B", "left": 100, "top": 0}],
		"arrows": [
			{"name": "ok", "from": "A", "to": "B"},
			{"name": "e0", "from": "A", "to": "e1"},
			{"name": "e1", "from": "e0", "to": "B"}
		]
	}`))
	if d.Error == nil {
		t.Fatal("expected a cycle error")
	}
	if !errors.Is(d.Err(), errors.ErrCodeDependencyCycle) {
		t.Errorf("code = %q, want %q", errors.GetCode(d.Err()), errors.ErrCodeDependencyCycle)
	}
	if !strings.Contains(*d.Error, "e0 -> e1 -> e0") {
		t.Errorf("Error = %q, want the cycle spelled out", *d.Error)
	}
	if len(d.Arrows) != 0 || len(d.Nodes) != 0 {
		t.Errorf("failed diagram should be empty, got %d arrows", len(d.Arrows))
	}
}

func TestResolveSelfReference(t *testing.T) {
	d := ResolveJSON([]byte(`{
		"nodes": [{"name": "A", "left": 0, "top": 0}],
		"arrows": [{"name": "e", "from": "A", "to": "e"}]
	}`))
	if !errors.Is(d.Err(), errors.ErrCodeDependencyCycle) {
		t.Fatalf("Err() = %v, want a cycle", d.Err())
	}
}

func TestResolveArrowToArrow(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})

	d := mustResolve(t, `{
		"nodes": [
			{"name": "A", "left": 0, "top": 0},
			{"name": "B", "left": 100, "top": 0},
			{"name": "C", "left": 50, "top": 100}
		],
		"arrows": [{"name": "e0", "from": "A", "to": "B"}, {"name": "e1", "from": "e0", "to": "C"}]
	}`, WithLogger(logger))

	e0, ok0 := d.ArrowByID("e0")
	e1, ok1 := d.ArrowByID("e1")
	if !ok0 || !ok1 {
		t.Fatalf("arrows = %v", d.Arrows)
	}
	if !e0.Midpoint.Approx(geom.Pt(50, 0)) {
		t.Errorf("e0 midpoint = %v", e0.Midpoint)
	}
	if !e1.SourcePoint.Approx(e0.Midpoint) {
		t.Errorf("e1 source = %v, want e0 midpoint %v", e1.SourcePoint, e0.Midpoint)
	}
	if !e1.TargetPoint.Approx(geom.Pt(50, 75)) {
		t.Errorf("e1 target = %v", e1.TargetPoint)
	}
	if n := strings.Count(buf.String(), "resolution round"); n != 2 {
		t.Errorf("rounds = %d, want 2\n%s", n, buf.String())
	}
}

func TestResolveLabelledAttachment(t *testing.T) {
	d := mustResolve(t, `{
		"nodes": [
			{"name": "A", "left": 0, "top": 0},
			{"name": "B", "left": 100, "top": 0},
			{"name": "C", "left": 50, "top": 100}
		],
		"arrows": [
			{"name": "e0", "from": "A", "to": "B", "label": "f"},
			{"name": "e1", "from": "e0", "to": "C"}
		]
	}`, fixedMeasurer(20, 10))

	e1, ok := d.ArrowByID("e1")
	if !ok {
		t.Fatal("e1 missing")
	}
	// e1 leaves through the bottom of e0's 20x10 label box.
	if !e1.SourcePoint.Approx(geom.Pt(50, 5)) {
		t.Errorf("e1 source = %v, want (50, 5)", e1.SourcePoint)
	}
	e0, _ := d.ArrowByID("e0")
	if e0.Label == nil || e0.Label.Width != 20 || e0.Label.Height != 10 {
		t.Errorf("e0 label = %+v", e0.Label)
	}
	if e0.Mask == "" || len(d.Masks) != 1 {
		t.Errorf("labelled arrow should carry a mask, got %q / %d", e0.Mask, len(d.Masks))
	}
}

func TestResolveUnnamedReference(t *testing.T) {
	d := mustResolve(t, `{
		"nodes": [{"name": "A", "left": 0, "top": 0}, {"name": "B", "left": 100, "top": 0}, {"name": "C", "left": 50, "top": 100}],
		"arrows": [{"from": "A", "to": "B"}, {"from": "_arrow_0", "to": "C", "style": {"level": 2}}]
	}`)
	if len(d.Arrows) != 2 || d.Arrows[1].ID != "_arrow_1" {
		t.Fatalf("arrows = %+v", d.Arrows)
	}
	if d.Arrows[1].StrokeWidth != 7.5 {
		t.Errorf("level 2 stroke width = %v, want 7.5", d.Arrows[1].StrokeWidth)
	}
}

func TestResolveDropped(t *testing.T) {
	// B swallows A's centre, so nothing leaves A into B.
	d := mustResolve(t, `{
		"nodes": [
			{"name": "A", "left": 0, "top": 0},
			{"name": "B", "left": 10, "top": 0},
			{"name": "C", "left": 200, "top": 0}
		],
		"arrows": [
			{"name": "bad", "from": "A", "to": "B"},
			{"name": "child", "from": "bad", "to": "C"},
			{"name": "good", "from": "A", "to": "C"}
		]
	}`)
	if len(d.Arrows) != 1 || d.Arrows[0].ID != "good" {
		t.Errorf("arrows = %+v, want only good", d.Arrows)
	}
}

func TestResolveViewBox(t *testing.T) {
	d := mustResolve(t, `{
		"nodes": [{"name": "A", "left": 0, "top": 0}, {"name": "B", "left": 100, "top": 0}],
		"arrows": [{"from": "A", "to": "B"}]
	}`)
	if want := "-65 -65 230 130"; d.ViewBox != want {
		t.Errorf("ViewBox = %q, want %q", d.ViewBox, want)
	}

	d = mustResolve(t, `{"nodes": [{"name": "A", "left": 10, "top": 20}]}`,
		WithNodeRadius(10), WithViewPadding(0))
	if want := "0 10 20 20"; d.ViewBox != want {
		t.Errorf("ViewBox = %q, want %q", d.ViewBox, want)
	}
}

func TestResolveColours(t *testing.T) {
	d := mustResolve(t, `{
		"nodes": [
			{"name": "A", "left": 0, "top": 0, "color": "#FF0000"},
			{"name": "B", "left": 100, "top": 0}
		],
		"arrows": [{"from": "A", "to": "B", "color": "rebeccapurple", "label": "f", "label_color": "hsl(120, 100%, 50%)"}]
	}`, fixedMeasurer(10, 10))

	if d.Nodes[0].Colour != "#ff0000" || d.Nodes[1].Colour != "black" {
		t.Errorf("node colours = %q, %q", d.Nodes[0].Colour, d.Nodes[1].Colour)
	}
	a := d.Arrows[0]
	if a.Colour != "rebeccapurple" {
		t.Errorf("arrow colour = %q", a.Colour)
	}
	if a.Label == nil || a.Label.Colour != "#00ff00" {
		t.Errorf("label = %+v", a.Label)
	}
	for _, g := range a.Heads {
		if g.Style == "" {
			t.Errorf("head glyph without style: %+v", g)
		}
	}
}

func TestResolveDeterministic(t *testing.T) {
	src := []byte(`{
		"version": 1,
		"nodes": [
			{"name": "A", "left": 0, "top": 0},
			{"name": "B", "left": 150, "top": 30},
			{"name": "C", "left": 60, "top": 140}
		],
		"arrows": [
			{"name": "f", "from": "A", "to": "B", "curve": 20, "label": "f", "style": {"level": 2, "head": {"name": "epi"}}},
			{"name": "g", "from": "B", "to": "C", "style": {"body": {"name": "squiggly"}, "tail": {"name": "mono"}}},
			{"name": "h", "from": "A", "to": "C", "label": "h", "label_alignment": "over", "style": {"body": {"name": "dashed"}}},
			{"name": "a", "from": "f", "to": "h", "style": {"level": 3, "body": {"name": "barred"}}},
			{"name": "l", "from": "C", "to": "C", "angle": 45}
		]
	}`)

	first, err := json.Marshal(ResolveJSON(src))
	if err != nil {
		t.Fatal(err)
	}
	for range 3 {
		again, err := json.Marshal(ResolveJSON(src))
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(first, again) {
			t.Fatal("ResolveJSON() is not deterministic")
		}
	}
	if bytes.Contains(first, []byte("NaN")) {
		t.Error("output contains NaN")
	}
}
