package diagram

import (
	"fmt"

	"github.com/matzehuels/celldraw/pkg/arrow"
	"github.com/matzehuels/celldraw/pkg/colour"
	"github.com/matzehuels/celldraw/pkg/geom"
)

// bodies maps wire body names to a body and dash style.
var bodies = map[string]struct {
	body arrow.BodyStyle
	dash arrow.DashStyle
}{
	"cell":          {arrow.BodyLine, arrow.DashSolid},
	"dashed":        {arrow.BodyLine, arrow.DashDashed},
	"dotted":        {arrow.BodyLine, arrow.DashDotted},
	"squiggly":      {arrow.BodySquiggly, arrow.DashSolid},
	"barred":        {arrow.BodyProarrow, arrow.DashSolid},
	"double barred": {arrow.BodyDoubleProarrow, arrow.DashSolid},
	"bullet solid":  {arrow.BodyBulletSolid, arrow.DashSolid},
	"bullet hollow": {arrow.BodyBulletHollow, arrow.DashSolid},
	"none":          {arrow.BodyNone, arrow.DashSolid},
}

// styleOf translates the wire style of a into an arrow.Style. Colours are
// canonicalised.
func styleOf(a ArrowSpec) (arrow.Style, error) {
	s := arrow.DefaultStyle()
	s.Curve = a.Curve
	s.Shift = a.Shift
	s.Radius = a.Radius
	s.Angle = geom.Rad(a.Angle)
	if a.Shorten != nil {
		s.Shorten = arrow.Shorten{Tail: a.Shorten.Source, Head: a.Shorten.Target}
	}

	switch a.Shape {
	case "":
		// A radius on a non-loop selects an arc.
		if a.Radius != 0 && a.From != a.To {
			s.Shape = arrow.ShapeArc
		}
	case "bezier":
	case "arc":
		s.Shape = arrow.ShapeArc
	default:
		return s, fmt.Errorf("unknown shape %q", a.Shape)
	}

	c, err := colour.Canonical(a.Color)
	if err != nil {
		return s, err
	}
	if c != "" {
		s.Colour = c
	}

	st := a.Style
	if st == nil {
		return s, nil
	}
	if st.Level > 0 {
		s.Level = st.Level
	}

	if st.Body != nil {
		b, ok := bodies[st.Body.Name]
		if !ok {
			return s, fmt.Errorf("unknown body %q", st.Body.Name)
		}
		s.BodyStyle, s.DashStyle = b.body, b.dash
	}
	if st.Head != nil {
		if s.Heads, err = parseHead(*st.Head); err != nil {
			return s, err
		}
	}
	if st.Tail != nil {
		if s.Tails, err = parseTail(*st.Tail); err != nil {
			return s, err
		}
	}

	switch st.Mode {
	case "":
	case "adjunction":
		s.BodyStyle = arrow.BodyAdjunction
		s.Heads, s.Tails = nil, nil
	case "corner":
		s.BodyStyle = arrow.BodyNone
		s.Heads, s.Tails = nil, []arrow.HeadStyle{arrow.HeadCorner}
	case "corner_inverse":
		s.BodyStyle = arrow.BodyNone
		s.Heads, s.Tails = nil, []arrow.HeadStyle{arrow.HeadCornerInverse}
	default:
		return s, fmt.Errorf("unknown mode %q", st.Mode)
	}
	return s, nil
}

func parseHead(t TipSpec) ([]arrow.HeadStyle, error) {
	bottom, err := parseSide(t.Side)
	if err != nil {
		return nil, err
	}
	switch t.Name {
	case "arrowhead":
		return []arrow.HeadStyle{arrow.HeadNormal}, nil
	case "none":
		return nil, nil
	case "epi":
		return arrow.Epi(), nil
	case "harpoon":
		return []arrow.HeadStyle{harpoon(bottom)}, nil
	}
	return nil, fmt.Errorf("unknown head %q", t.Name)
}

func parseTail(t TipSpec) ([]arrow.HeadStyle, error) {
	bottom, err := parseSide(t.Side)
	if err != nil {
		return nil, err
	}
	switch t.Name {
	case "none":
		return nil, nil
	case "mono":
		return []arrow.HeadStyle{arrow.HeadMono}, nil
	case "maps to":
		return []arrow.HeadStyle{arrow.HeadMapsTo}, nil
	case "hook":
		if bottom {
			return []arrow.HeadStyle{arrow.HeadHookBottom}, nil
		}
		return []arrow.HeadStyle{arrow.HeadHookTop}, nil
	case "arrowhead":
		return []arrow.HeadStyle{arrow.HeadNormal}, nil
	case "harpoon":
		return []arrow.HeadStyle{harpoon(bottom)}, nil
	}
	return nil, fmt.Errorf("unknown tail %q", t.Name)
}

func harpoon(bottom bool) arrow.HeadStyle {
	if bottom {
		return arrow.HeadHarpoonBottom
	}
	return arrow.HeadHarpoonTop
}
