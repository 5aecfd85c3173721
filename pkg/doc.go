// Package pkg provides the core libraries for celldraw, a geometry engine
// for string diagrams.
//
// # Overview
//
// A diagram places nodes on a grid and draws arrows between nodes or
// between other arrows (2-cells between 1-cells, and so on). celldraw
// resolves such a diagram into concrete geometry: one SVG path per arrow,
// arrowhead glyphs, label positions and the masks that cut gaps where
// arrows meet their endpoints.
//
// The pkg directory is organized as:
//
//  1. [geom], [curve] - points, shapes and curve primitives
//  2. [arrow] - the geometry of a single arrow between two shapes
//  3. [diagram] - decoding, validation and multi-round resolution
//  4. [dag] - the arrow dependency graph and its transforms
//  5. [render] - SVG previews and Graphviz dependency graphs
//  6. [pipeline], [cache], [config], [server] - orchestration and delivery
//
// # Data Flow
//
//	diagram JSON
//	     ↓
//	[diagram] decode + validate
//	     ↓
//	[diagram] resolve rounds (each uses [arrow] on [geom] shapes)
//	     ↓
//	computed diagram JSON / SVG / DOT
//
// # Quick Start
//
//	d := diagram.ResolveJSON(data)
//	if err := d.Err(); err != nil {
//	    // d.Error holds the message; everything else is empty
//	}
//	svg := svg.Render(d)
package pkg
