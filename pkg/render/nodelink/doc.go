// Package nodelink renders the attachment graph of a diagram as a
// traditional node-link diagram.
//
// # Overview
//
// Every node and arrow of a diagram becomes a vertex; an edge leads from
// whatever an arrow attaches to into the arrow. Diagram nodes are drawn as
// boxes and arrows as ellipses, and vertices that resolve in the same round
// share a rank. The view makes it easy to see why an arrow resolves late, or
// which arrows form a dependency cycle.
//
// # Usage
//
// Build the graph with [diagram.Dependencies], convert it to DOT, then
// render to SVG:
//
//	g := diagram.Dependencies(spec)
//	dot := nodelink.ToDOT(g, nodelink.Options{Detailed: false})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// # Options
//
// The [Options] struct controls diagram generation:
//
//   - Detailed: When true, vertex labels include the round and metadata.
//
// Vertices on a cycle are outlined in red.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering.
//
// [diagram.Dependencies]: github.com/matzehuels/celldraw/pkg/diagram.Dependencies
package nodelink
