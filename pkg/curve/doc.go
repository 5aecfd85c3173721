// Package curve implements the two curve kinds used to draw arrows: a
// quadratic [Bezier] and a circular [Arc].
//
// Both satisfy [Curve]: they are pure functions of a parameter t in [0, 1]
// exposing the point and tangent at t, the cumulative arc length, its
// inverse, and intersections with a [RoundedRect].
//
// # Intersections
//
// Rounded rectangles are intersected edge by edge using their outline
// polygon ([RoundedRect.Points]); corner arcs are approximated by short
// chords. Every curve kind follows the same contract when the curve never
// crosses the outline:
//
//   - the curve starts outside the rectangle: an empty slice;
//   - the curve starts inside and containment is permitted: a single point
//     at the rectangle centre with t = 0;
//   - the curve starts inside and containment is not permitted:
//     [ErrContained].
//
// Near-duplicate results are merged with the shared [geom.Epsilon] policy.
package curve
