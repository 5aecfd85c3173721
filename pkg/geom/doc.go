// Package geom provides the 2D vector and path primitives used by the
// curve and arrow packages.
//
// # Points
//
// [Point] is an immutable value type. All arithmetic returns new values:
//
//	p := geom.Pt(3, 4)
//	q := p.Add(geom.Pt(1, 0)).Rotate(math.Pi / 2)
//	fmt.Println(p.Length()) // 5
//
// [Dimensions] reinterprets a Point as (width, height), and [CurvePoint]
// annotates a Point with the curve parameter t and the local tangent angle.
//
// # Frames and bounds
//
// Points convert to and from seehuhn.de/go/geom/vec.Vec2, which carries the
// arithmetic. [Frame] returns the matrix.Matrix that rotates a local frame
// by an angle and moves it to an origin; [Unframe] is its inverse and
// [Apply] maps a Point through either. [Bounds] grows a rect.Rect around
// points and yields padded boxes for view boxes and masks.
//
// # Paths
//
// [Path] accumulates SVG path commands and serialises them with
// [Path.String]. Relative line commands collapse to the axis-aligned
// shorthand (h/v) when one component of the delta is exactly zero.
//
// # Numeric policy
//
// All fuzzy comparisons in this module go through [Epsilon] and
// [ApproxEqual]. Numbers written into path data pass through [Num], which
// rounds to a fixed precision so that output is byte-identical between runs.
package geom
