package arrow

import (
	"math"

	"github.com/matzehuels/celldraw/pkg/curve"
	"github.com/matzehuels/celldraw/pkg/geom"
)

// Drawing constants. The loop and delineation constants were tuned by eye and
// may be adjusted freely.
const (
	StrokeWidth = 1.5
	LineSpacing = 4.5

	LoopChord         = 0.01
	LoopThreshold     = 0.1
	DefaultLoopRadius = 30.0

	HeadWidth   = 9.75
	HeadHeight  = 12.0
	HeadSpacing = 10.0
	// MaskGlyphScale enlarges glyph silhouettes in an occlusion mask about
	// their anchor so the gap around a head clears the body strokes.
	MaskGlyphScale = 1.2
	// collapse divides HeadSpacing between identical adjacent glyphs.
	collapse = 2.0

	LabelNudge      = 15.0
	DefaultPosition = 0.5

	CornerOffset    = 24.0
	CornerSize      = 12.0
	ProarrowSpacing = 6.0
	BulletRadius    = 3.0

	SquigglyWavelength = 8.0
	SquigglyAmplitude  = 2.5
	// MaxSquigglySteps caps the half-waves of one squiggly body; longer
	// bodies stretch the wave instead.
	MaxSquigglySteps = 4096
	AdjunctionWidth    = 12.0
	AdjunctionHeight   = 16.0

	DashLength = 6.0
	DashGap    = 4.0
	DotGap     = 3.0
	// MaxDashes caps the dash/gap pairs in one dash array.
	MaxDashes = 2048

	DefaultColour = "black"
)

// Label is the optional text attached to an arrow. Size is the measured
// extent of the text, padding included.
type Label struct {
	Text      string
	Colour    string
	Alignment LabelAlignment
	// Position is the fraction of the visible body at which the label sits.
	// Values outside (0, 1) select DefaultPosition.
	Position float64
	Size     geom.Dimensions
}

// Arrow is a single arrow between two shapes.
type Arrow struct {
	ID     string
	Source Shape
	Target Shape
	Style  Style
	Label  *Label
}

// Glyph is a decoration drawn in the arrow's local frame.
type Glyph struct {
	Style     string `json:"style"`
	Path      string `json:"path"`
	Transform string `json:"transform"`
	Filled    bool   `json:"filled,omitempty"`
}

// ComputedLabel is a placed label. Position is absolute; Rotation is in
// degrees.
type ComputedLabel struct {
	Text      string     `json:"text"`
	Colour    string     `json:"color"`
	Alignment string     `json:"alignment"`
	Position  geom.Point `json:"position"`
	Width     float64    `json:"width"`
	Height    float64    `json:"height"`
	Rotation  float64    `json:"rotation"`
}

// ComputedArrow holds ready-to-render path data. Paths, glyphs and masks are
// expressed in the local frame given by Transform, where the curve runs from
// the origin along the positive x axis. Points are absolute.
type ComputedArrow struct {
	ID              string         `json:"id"`
	Transform       string         `json:"transform"`
	Path            string         `json:"path"`
	DashArray       string         `json:"dashArray,omitempty"`
	StrokeWidth     float64        `json:"strokeWidth"`
	Colour          string         `json:"color"`
	Heads           []Glyph        `json:"heads"`
	Tails           []Glyph        `json:"tails"`
	Decorations     []Glyph        `json:"decorations"`
	Label           *ComputedLabel `json:"label,omitempty"`
	Mask            string         `json:"mask,omitempty"`
	SourcePoint     geom.Point     `json:"sourcePoint"`
	TargetPoint     geom.Point     `json:"targetPoint"`
	Midpoint        geom.Point     `json:"midpoint"`
	ArcLength       float64        `json:"arcLength"`
	InteractionPath string         `json:"interactionPath"`
}

// MaskElement is one painted element of a mask. Fill and Stroke are "white"
// (show) or "black" (hide).
type MaskElement struct {
	Path        string  `json:"path"`
	Transform   string  `json:"transform,omitempty"`
	Fill        string  `json:"fill,omitempty"`
	Stroke      string  `json:"stroke,omitempty"`
	StrokeWidth float64 `json:"strokeWidth,omitempty"`
	DashArray   string  `json:"dashArray,omitempty"`
}

// ComputedMask is an occlusion mask in the same local frame as its arrow.
type ComputedMask struct {
	ID        string        `json:"id"`
	Transform string        `json:"transform"`
	Elements  []MaskElement `json:"elements"`
}

// Result is the output of [Arrow.Compute].
type Result struct {
	Arrow ComputedArrow
	Masks []ComputedMask
}

// frame is the chord an arrow is drawn along.
type frame struct {
	origin geom.Point
	angle  float64
	length float64
	loop   bool
}

// span is the arc-length bookkeeping of one computation.
type span struct {
	total      float64
	start, end geom.CurvePoint
	// startLen and endLen are the arc lengths of the resolved endpoints.
	startLen, endLen float64
	// tailLen and headLen are the endpoints after Style.Shorten.
	tailLen, headLen float64
	// visStart and visEnd bound the stroked body.
	visStart, visEnd float64
}

// metrics are the scalar sizes derived from Style.Level.
type metrics struct {
	level     int
	edgeWidth float64
	headW     float64
	headH     float64
}

func newMetrics(level int) metrics {
	level = max(1, level)
	scale := 1 + float64(level-1)/2
	return metrics{
		level:     level,
		edgeWidth: float64(level)*StrokeWidth + float64(level-1)*LineSpacing,
		headW:     HeadWidth * scale,
		headH:     HeadHeight * scale,
	}
}

// Compute runs the arrow pipeline. It reports false when the arrow cannot be
// drawn with the current geometry, which happens when an end shape is never
// crossed by the curve.
func (a *Arrow) Compute() (*Result, bool) {
	f := a.chord()
	abs := a.buildCurve(f, f.origin, f.angle)
	local := a.buildCurve(f, geom.Zero(), 0)

	start, end, ok := a.findEndpoints(abs)
	if !ok {
		return nil, false
	}

	m := newMetrics(a.Style.Level)
	sp := span{
		total:    local.ArcLength(1),
		start:    start,
		end:      end,
		startLen: local.ArcLength(start.T),
		endLen:   local.ArcLength(end.T),
	}
	sp.tailLen = sp.startLen + a.Style.Shorten.Tail
	sp.headLen = sp.endLen - a.Style.Shorten.Head
	if sp.tailLen > sp.headLen {
		mid := (sp.tailLen + sp.headLen) / 2
		sp.tailLen, sp.headLen = mid, mid
	}

	tails, tailCorners := splitCorners(a.Style.Tails)
	heads, headCorners := splitCorners(a.Style.Heads)

	lead := sp.tailLen + glyphShortening(first(tails), m) + monoPadding(local, sp.tailLen, first(tails), m, 1)
	tail := sp.headLen - glyphShortening(first(heads), m) - monoPadding(local, sp.headLen, first(heads), m, -1)
	sp.visStart = geom.Clamp(lead, 0, sp.total)
	sp.visEnd = geom.Clamp(tail, sp.visStart, sp.total)

	out := ComputedArrow{
		ID:          a.ID,
		Transform:   transform(f.origin, geom.Deg(f.angle)),
		StrokeWidth: m.edgeWidth,
		Colour:      colourOr(a.Style.Colour),
		Heads:       []Glyph{},
		Tails:       []Glyph{},
		Decorations: []Glyph{},
		SourcePoint: start.Point,
		TargetPoint: end.Point,
		ArcLength:   sp.endLen - sp.startLen,
	}

	midT, _ := local.TAfterLength(true)((sp.startLen + sp.endLen) / 2)
	out.Midpoint = abs.Point(midT)
	out.InteractionPath = curvePath(local).String()

	var labelLocal geom.Point
	var labelLocalRot float64
	if a.Label != nil {
		out.Label, labelLocal, labelLocalRot = a.placeLabel(abs, f, sp)
	}

	out.Decorations = append(out.Decorations, a.decorations(local, sp, m)...)
	out.Tails = append(out.Tails, drawStack(local, tails, sp.tailLen, 1, m, false)...)
	out.Tails = append(out.Tails, drawCorners(local, tailCorners, sp, f, 1)...)
	out.Heads = append(out.Heads, drawStack(local, heads, sp.headLen, -1, m, false)...)
	out.Heads = append(out.Heads, drawCorners(local, headCorners, sp, f, -1)...)

	body, dashed := a.edgePath(local, sp)
	out.Path = body
	if dashed {
		out.DashArray = dashArray(sp, a.Style.DashStyle.pattern())
	}

	res := &Result{Arrow: out}
	if m.level > 1 || (a.Label != nil && a.Label.Text != "") {
		mask := a.mask(local, sp, m, out, heads, tails, labelLocal, labelLocalRot)
		res.Arrow.Mask = mask.ID
		res.Masks = []ComputedMask{mask}
	}
	return res, true
}

// chord computes the straight line between the two shape origins. Loops are
// split into a LoopChord-long chord perpendicular to Style.Angle.
func (a *Arrow) chord() frame {
	src, dst := a.Source.Origin, a.Target.Origin
	d := dst.Sub(src)

	var f frame
	if d.Length() < LoopThreshold {
		f.loop = true
		f.angle = a.Style.Angle - math.Pi/2
		f.length = LoopChord
		f.origin = src.Lerp(dst, 0.5).Sub(geom.Polar(LoopChord/2, f.angle))
	} else {
		f.angle = d.Angle()
		f.length = d.Length()
		f.origin = src
	}
	if a.Style.Shift != 0 {
		f.origin = f.origin.Add(geom.Polar(a.Style.Shift, f.angle+math.Pi/2))
	}
	return f
}

func (a *Arrow) buildCurve(f frame, origin geom.Point, angle float64) curve.Curve {
	switch {
	case f.loop:
		r := a.Style.Radius
		if r == 0 {
			r = DefaultLoopRadius
		}
		return curve.NewArc(origin, f.length, true, r, angle)
	case a.Style.Shape == ShapeArc:
		return curve.NewArc(origin, f.length, false, a.Style.Radius, angle)
	default:
		return curve.NewBezier(origin, f.length, 2*a.Style.Curve, angle)
	}
}

// findEndpoints resolves where the curve leaves the source and enters the
// target. Zero-size endpoints clamp to t = 0 and t = 1.
func (a *Arrow) findEndpoints(c curve.Curve) (start, end geom.CurvePoint, ok bool) {
	if start, ok = endpointOn(c, a.Source, true); !ok {
		return start, end, false
	}
	if end, ok = endpointOn(c, a.Target, false); !ok {
		return start, end, false
	}
	return start, end, end.T >= start.T
}

func endpointOn(c curve.Curve, s Shape, source bool) (geom.CurvePoint, bool) {
	switch s.Kind {
	case ShapeEndpoint:
		t := 1.0
		if source {
			t = 0
		}
		return geom.CurvePoint{Point: c.Point(t), T: t, Angle: c.Tangent(t)}, true
	case ShapeRoundedRect:
		r := curve.NewRoundedRect(s.Origin, s.Size, s.Radius)
		pts, err := c.IntersectionsWithRoundedRect(r, source)
		if err != nil || len(pts) == 0 {
			return geom.CurvePoint{}, false
		}
		if source {
			return pts[0], true
		}
		return pts[len(pts)-1], true
	}
	return geom.CurvePoint{}, false
}

// monoPadding is the extra gap left at an end whose first glyph is a mono
// tail, so the wedge meets a curved body cleanly. dir is +1 walking inwards
// from the tail and -1 from the head.
func monoPadding(c curve.Curve, at float64, h *HeadStyle, m metrics, dir float64) float64 {
	if h == nil || *h != HeadMono {
		return 0
	}
	inv := c.TAfterLength(true)
	t0, _ := inv(at)
	t1, _ := inv(at + dir*m.headW)
	delta := geom.NormaliseAngle(c.Tangent(t1) - c.Tangent(t0))
	return m.headW*(1-math.Cos(delta)) + m.headH/2*math.Abs(math.Sin(delta))
}

// placeLabel positions the label at Label.Position along the resolved span.
// It also returns the label centre and rotation in the local frame.
func (a *Arrow) placeLabel(abs curve.Curve, f frame, sp span) (*ComputedLabel, geom.Point, float64) {
	l := a.Label
	pos := l.Position
	if pos <= 0 || pos >= 1 {
		pos = DefaultPosition
	}
	t := sp.start.T + (sp.end.T-sp.start.T)*pos
	p := abs.Point(t)
	tangent := abs.Tangent(t)

	var rotation float64
	switch l.Alignment {
	case AlignOver:
		rotation = geom.Deg(geom.NormaliseAngle(tangent))
	case AlignLeft:
		p = p.Add(geom.Polar(LabelNudge, tangent-math.Pi/2))
	case AlignRight:
		p = p.Add(geom.Polar(LabelNudge, tangent+math.Pi/2))
	case AlignCentre:
	}

	out := &ComputedLabel{
		Text:      l.Text,
		Colour:    colourOr(l.Colour),
		Alignment: l.Alignment.String(),
		Position:  p,
		Width:     l.Size.Width(),
		Height:    l.Size.Height(),
		Rotation:  rotation,
	}
	local := geom.Apply(geom.Unframe(f.origin, f.angle), p)
	return out, local, rotation - geom.Deg(f.angle)
}

func colourOr(c string) string {
	if c == "" {
		return DefaultColour
	}
	return c
}

// transform renders a translate-then-rotate SVG transform.
func transform(p geom.Point, deg float64) string {
	return "translate(" + geom.Nums(p.X, p.Y) + ") rotate(" + geom.Num(deg) + ")"
}
