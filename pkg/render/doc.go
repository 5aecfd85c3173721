// Package render holds the output sinks for resolved diagrams.
//
//   - [svg]: a standalone SVG preview of a [diagram.ComputedDiagram]
//   - [nodelink]: the arrow attachment graph as Graphviz DOT or SVG
//
// Neither sink computes geometry. The preview draws the path data the
// resolver produced; the node-link view leaves layout to Graphviz.
//
// [diagram.ComputedDiagram]: github.com/matzehuels/celldraw/pkg/diagram.ComputedDiagram
package render
