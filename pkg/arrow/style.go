package arrow

import (
	"fmt"

	"github.com/matzehuels/celldraw/pkg/geom"
)

// CurveShape selects the curve kind used for an arrow body.
type CurveShape int

const (
	ShapeBezier CurveShape = iota
	ShapeArc
)

func (s CurveShape) String() string {
	switch s {
	case ShapeBezier:
		return "bezier"
	case ShapeArc:
		return "arc"
	}
	return fmt.Sprintf("CurveShape(%d)", int(s))
}

// BodyStyle selects how the arrow body is drawn.
type BodyStyle int

const (
	BodyLine BodyStyle = iota
	BodyNone
	BodySquiggly
	BodyAdjunction
	BodyProarrow
	BodyDoubleProarrow
	BodyBulletSolid
	BodyBulletHollow
)

var bodyNames = map[BodyStyle]string{
	BodyLine:           "line",
	BodyNone:           "none",
	BodySquiggly:       "squiggly",
	BodyAdjunction:     "adjunction",
	BodyProarrow:       "proarrow",
	BodyDoubleProarrow: "double-proarrow",
	BodyBulletSolid:    "bullet-solid",
	BodyBulletHollow:   "bullet-hollow",
}

func (b BodyStyle) String() string {
	if s, ok := bodyNames[b]; ok {
		return s
	}
	return fmt.Sprintf("BodyStyle(%d)", int(b))
}

// ParseBodyStyle returns the body style with the given canonical name.
func ParseBodyStyle(s string) (BodyStyle, error) {
	for b, name := range bodyNames {
		if name == s {
			return b, nil
		}
	}
	return 0, fmt.Errorf("unknown body style %q", s)
}

// DashStyle selects the dash pattern of dashable bodies.
type DashStyle int

const (
	DashSolid DashStyle = iota
	DashDashed
	DashDotted
)

func (d DashStyle) String() string {
	switch d {
	case DashSolid:
		return "solid"
	case DashDashed:
		return "dashed"
	case DashDotted:
		return "dotted"
	}
	return fmt.Sprintf("DashStyle(%d)", int(d))
}

// pattern returns the repeating dash/gap lengths, or nil for a solid line.
func (d DashStyle) pattern() []float64 {
	switch d {
	case DashDashed:
		return []float64{DashLength, DashGap}
	case DashDotted:
		return []float64{0, DotGap}
	}
	return nil
}

// HeadStyle is a single glyph drawn at one end of an arrow. Heads and tails
// are ordered stacks of glyphs; the first entry sits at the endpoint.
type HeadStyle int

const (
	HeadNormal HeadStyle = iota
	HeadMono
	HeadMapsTo
	HeadHarpoonTop
	HeadHarpoonBottom
	HeadHookTop
	HeadHookBottom
	HeadCorner
	HeadCornerInverse
)

var headNames = map[HeadStyle]string{
	HeadNormal:        "normal",
	HeadMono:          "mono",
	HeadMapsTo:        "maps-to",
	HeadHarpoonTop:    "harpoon-top",
	HeadHarpoonBottom: "harpoon-bottom",
	HeadHookTop:       "hook-top",
	HeadHookBottom:    "hook-bottom",
	HeadCorner:        "corner",
	HeadCornerInverse: "corner-inverse",
}

func (h HeadStyle) String() string {
	if s, ok := headNames[h]; ok {
		return s
	}
	return fmt.Sprintf("HeadStyle(%d)", int(h))
}

// ParseHeadStyle returns the glyph with the given tag.
func ParseHeadStyle(s string) (HeadStyle, error) {
	for h, name := range headNames {
		if name == s {
			return h, nil
		}
	}
	return 0, fmt.Errorf("unknown head style %q", s)
}

// Epi is the double arrowhead of an epimorphism.
func Epi() []HeadStyle { return []HeadStyle{HeadNormal, HeadNormal} }

// LabelAlignment places a label relative to the arrow body.
type LabelAlignment int

const (
	AlignLeft LabelAlignment = iota
	AlignRight
	AlignOver
	AlignCentre
)

func (a LabelAlignment) String() string {
	switch a {
	case AlignLeft:
		return "left"
	case AlignRight:
		return "right"
	case AlignOver:
		return "over"
	case AlignCentre:
		return "centre"
	}
	return fmt.Sprintf("LabelAlignment(%d)", int(a))
}

// ParseLabelAlignment accepts "left", "right", "over", "centre" and "center".
// The empty string is left.
func ParseLabelAlignment(s string) (LabelAlignment, error) {
	switch s {
	case "", "left":
		return AlignLeft, nil
	case "right":
		return AlignRight, nil
	case "over":
		return AlignOver, nil
	case "centre", "center":
		return AlignCentre, nil
	}
	return 0, fmt.Errorf("unknown label alignment %q", s)
}

// Shorten trims the visible body at each end, in pixels of arc length.
type Shorten struct {
	Tail float64
	Head float64
}

// Style configures a single arrow.
type Style struct {
	// Level is the number of parallel strokes (an n-cell). At least 1.
	Level int
	// Curve is the signed distance of the Bézier peak from the chord.
	Curve float64
	// Angle is the direction (radians) a loop protrudes in.
	Angle float64
	// Shift offsets the whole arrow perpendicular to its chord.
	Shift float64
	// Radius is the signed radius for arc-shaped arrows and loops. Zero
	// selects the default for the shape.
	Radius    float64
	Shorten   Shorten
	Shape     CurveShape
	BodyStyle BodyStyle
	DashStyle DashStyle
	Heads     []HeadStyle
	Tails     []HeadStyle
	Colour    string
}

// DefaultStyle returns a single solid line with a normal arrowhead.
func DefaultStyle() Style {
	return Style{
		Level:  1,
		Shape:  ShapeBezier,
		Heads:  []HeadStyle{HeadNormal},
		Colour: DefaultColour,
	}
}

// ShapeKind discriminates the [Shape] variants.
type ShapeKind int

const (
	// ShapeEndpoint is a zero-size attachment point.
	ShapeEndpoint ShapeKind = iota
	// ShapeRoundedRect is the hit region of a node or labelled arrow.
	ShapeRoundedRect
)

// Shape is what an arrow end attaches to.
type Shape struct {
	Kind   ShapeKind
	Origin geom.Point
	Size   geom.Dimensions
	Radius float64
}

// Endpoint returns a zero-size shape at p.
func Endpoint(p geom.Point) Shape {
	return Shape{Kind: ShapeEndpoint, Origin: p}
}

// RoundedRect returns a rounded rectangle centred on p.
func RoundedRect(p geom.Point, size geom.Dimensions, radius float64) Shape {
	return Shape{Kind: ShapeRoundedRect, Origin: p, Size: size, Radius: radius}
}
