// Package arrow turns an abstract arrow description into draw instructions.
//
// An [Arrow] joins two [Shape] values: a node's rounded rectangle or a
// zero-size endpoint (the midpoint of another arrow). [Arrow.Compute] runs a
// fixed pipeline:
//
//  1. find the chord between the shapes, splitting loops into a tiny chord;
//  2. build a [curve.Bezier] or [curve.Arc] along it;
//  3. clip the curve to the shapes;
//  4. derive stroke and glyph sizes from the level;
//  5. place the label;
//  6. draw decorations (proarrow bars, bullets);
//  7. draw the head and tail glyph stacks;
//  8. draw the body, trimmed by an SVG dash array where possible;
//  9. build an occlusion mask for n-cells and labels;
//  10. report absolute endpoints, midpoint and arc length.
//
// Everything except the label and the reported points is expressed in the
// arrow's local frame, given by [ComputedArrow.Transform].
//
// Compute reports false when a shape is never crossed by the curve. Callers
// skip such arrows rather than failing the whole diagram.
package arrow
