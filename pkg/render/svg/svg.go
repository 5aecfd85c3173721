package svg

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/matzehuels/celldraw/pkg/arrow"
	"github.com/matzehuels/celldraw/pkg/diagram"
	"github.com/matzehuels/celldraw/pkg/fonts"
	"github.com/matzehuels/celldraw/pkg/geom"
)

const interactionCSS = `
    .arrow .hit { stroke: transparent; fill: none; stroke-width: 12; pointer-events: stroke; }
    .arrow:hover .body { opacity: 0.7; }
    text { font-family: %s; font-size: %spx; }`

type Option func(*renderer)

type renderer struct {
	embedFont  bool
	outlines   bool
	background string
}

func WithEmbeddedFont() Option       { return func(r *renderer) { r.embedFont = true } }
func WithNodeOutlines() Option       { return func(r *renderer) { r.outlines = true } }
func WithBackground(c string) Option { return func(r *renderer) { r.background = c } }

// Render draws d. A failed diagram renders as an empty document carrying
// the error in a comment.
func Render(d *diagram.ComputedDiagram, opts ...Option) []byte {
	r := renderer{}
	for _, opt := range opts {
		opt(&r)
	}

	vb := d.ViewBox
	if vb == "" {
		vb = diagram.EmptyViewBox
	}
	w, h := viewSize(vb)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="%s" width="%s" height="%s">`+"\n",
		vb, geom.Num(w), geom.Num(h))
	if d.Error != nil {
		fmt.Fprintf(&buf, "  <!-- %s -->\n", escapeComment(*d.Error))
	}

	r.renderDefs(&buf, d)
	if r.background != "" {
		fmt.Fprintf(&buf, `  <rect x="%s" y="%s" width="100%%" height="100%%" fill="%s"/>`+"\n",
			geom.Num(originOf(vb).X), geom.Num(originOf(vb).Y), EscapeXML(r.background))
	}
	for _, n := range d.Nodes {
		r.renderNode(&buf, n)
	}
	for _, a := range d.Arrows {
		renderArrow(&buf, a)
	}
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func (r renderer) renderDefs(buf *bytes.Buffer, d *diagram.ComputedDiagram) {
	buf.WriteString("  <defs>\n")
	buf.WriteString("    <style>")
	if r.embedFont {
		fmt.Fprintf(buf, "\n    @font-face { font-family: '%s'; src: url(data:font/ttf;base64,%s) format('truetype'); }",
			fonts.FontFamily, fonts.GoRegularBase64())
	}
	fmt.Fprintf(buf, interactionCSS, fonts.FallbackFontFamily, geom.Num(fonts.LabelSize))
	buf.WriteString("\n    </style>\n")
	for _, m := range d.Masks {
		renderMask(buf, m)
	}
	buf.WriteString("  </defs>\n")
}

// renderMask writes m in the local frame of its arrow; the masked body sits
// inside the arrow's transformed group, so no transform is repeated here.
func renderMask(buf *bytes.Buffer, m arrow.ComputedMask) {
	fmt.Fprintf(buf, `    <mask id="%s" maskUnits="userSpaceOnUse" x="-100000" y="-100000" width="200000" height="200000">`+"\n",
		EscapeXML(m.ID))
	for _, e := range m.Elements {
		buf.WriteString("      <path")
		attr(buf, "d", e.Path)
		attr(buf, "transform", e.Transform)
		attr(buf, "fill", or(e.Fill, "none"))
		attr(buf, "stroke", e.Stroke)
		if e.StrokeWidth > 0 {
			attr(buf, "stroke-width", geom.Num(e.StrokeWidth))
		}
		attr(buf, "stroke-dasharray", e.DashArray)
		buf.WriteString("/>\n")
	}
	buf.WriteString("    </mask>\n")
}

func (r renderer) renderNode(buf *bytes.Buffer, n diagram.ComputedNode) {
	fmt.Fprintf(buf, `  <g class="node" id="node-%s">`+"\n", EscapeXML(n.Name))
	if r.outlines {
		fmt.Fprintf(buf, `    <rect x="%s" y="%s" width="%s" height="%s" rx="%s" fill="none" stroke="%s" stroke-dasharray="2 2" opacity="0.4"/>`+"\n",
			geom.Num(n.Position.X-n.Radius), geom.Num(n.Position.Y-n.Radius),
			geom.Num(2*n.Radius), geom.Num(2*n.Radius), geom.Num(n.Radius), EscapeXML(n.Colour))
	}
	label := n.Label
	if label == "" {
		label = n.Name
	}
	fmt.Fprintf(buf, `    <text x="%s" y="%s" fill="%s" text-anchor="middle" dominant-baseline="central">%s</text>`+"\n",
		geom.Num(n.Position.X), geom.Num(n.Position.Y), EscapeXML(n.Colour), EscapeXML(label))
	buf.WriteString("  </g>\n")
}

func renderArrow(buf *bytes.Buffer, a arrow.ComputedArrow) {
	fmt.Fprintf(buf, `  <g class="arrow" id="arrow-%s" transform="%s">`+"\n", EscapeXML(a.ID), a.Transform)

	if a.Path != "" {
		buf.WriteString(`    <path class="body"`)
		attr(buf, "d", a.Path)
		attr(buf, "fill", "none")
		attr(buf, "stroke", a.Colour)
		attr(buf, "stroke-width", geom.Num(a.StrokeWidth))
		attr(buf, "stroke-dasharray", a.DashArray)
		if a.Mask != "" {
			attr(buf, "mask", "url(#"+a.Mask+")")
		}
		buf.WriteString("/>\n")
	}
	for _, gs := range [][]arrow.Glyph{a.Decorations, a.Tails, a.Heads} {
		for _, g := range gs {
			renderGlyph(buf, g, a.Colour)
		}
	}
	fmt.Fprintf(buf, `    <path class="hit" d="%s"/>`+"\n", EscapeXML(a.InteractionPath))
	buf.WriteString("  </g>\n")

	if l := a.Label; l != nil && l.Text != "" {
		fmt.Fprintf(buf, `  <text class="label" x="%s" y="%s" fill="%s" text-anchor="middle" dominant-baseline="central"`,
			geom.Num(l.Position.X), geom.Num(l.Position.Y), EscapeXML(l.Colour))
		if l.Rotation != 0 {
			fmt.Fprintf(buf, ` transform="rotate(%s)"`, geom.Nums(l.Rotation, l.Position.X, l.Position.Y))
		}
		fmt.Fprintf(buf, ">%s</text>\n", EscapeXML(l.Text))
	}
}

func renderGlyph(buf *bytes.Buffer, g arrow.Glyph, colour string) {
	fmt.Fprintf(buf, `    <path class="glyph %s"`, EscapeXML(g.Style))
	attr(buf, "d", g.Path)
	attr(buf, "transform", g.Transform)
	if g.Filled {
		attr(buf, "fill", colour)
	} else {
		attr(buf, "fill", "none")
		attr(buf, "stroke", colour)
		attr(buf, "stroke-width", geom.Num(arrow.StrokeWidth))
		attr(buf, "stroke-linecap", "round")
	}
	buf.WriteString("/>\n")
}

// attr writes a quoted attribute, skipping empty values.
func attr(buf *bytes.Buffer, name, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(buf, ` %s="%s"`, name, EscapeXML(value))
}

// EscapeXML escapes s for use in text content and attribute values.
func EscapeXML(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}

func escapeComment(s string) string {
	return strings.ReplaceAll(EscapeXML(s), "--", "- -")
}

func or(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func viewSize(vb string) (w, h float64) {
	var x, y float64
	if _, err := fmt.Sscan(vb, &x, &y, &w, &h); err != nil {
		return 100, 100
	}
	return w, h
}

func originOf(vb string) geom.Point {
	var p geom.Point
	_, _ = fmt.Sscan(vb, &p.X, &p.Y)
	return p
}
