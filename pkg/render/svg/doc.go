// Package svg writes a resolved diagram as a standalone SVG document.
//
// The output is a preview: it draws exactly the path data, glyphs, masks and
// labels in a [diagram.ComputedDiagram] without computing any geometry of
// its own, which makes it useful for checking resolver output by eye.
//
//	d := diagram.ResolveJSON(data)
//	doc := svg.Render(d, svg.WithEmbeddedFont())
//
// Nodes are drawn as their label (or name). Use [WithNodeOutlines] to also
// draw the rounded rectangles arrows attach to.
package svg
