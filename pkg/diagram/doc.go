// Package diagram turns a diagram file into ready-to-render geometry.
//
// A diagram is a set of positioned nodes and arrows between them. An arrow
// may start or end on another arrow, in which case it attaches to that
// arrow's midpoint (or to its label, when it has one).
//
// # Wire format
//
// [Decode] reads the JSON form described by [Spec]:
//
//	{
//	  "version": 1,
//	  "nodes":  [{"name": "A", "left": 0, "top": 0}, {"name": "B", "left": 100, "top": 0}],
//	  "arrows": [{"name": "f", "from": "A", "to": "B", "label": "f"}]
//	}
//
// Decoding is strict: unknown fields, unknown style names, duplicate names
// and references to names that do not exist are all [errors.ErrCodeInvalidInput]
// errors.
//
// # Resolution
//
// [Resolve] places arrows in rounds. Each round computes every pending arrow
// whose two ends are already known; a computed arrow becomes an endpoint
// that later arrows can attach to. A round that places nothing means the
// remaining arrows depend on each other, and resolution fails with
// [errors.ErrCodeDependencyCycle]. Arrows whose geometry cannot be drawn
// (for example because the curve never leaves its source) are dropped along
// with everything attached to them.
//
// Resolve never returns an error: failures are reported in
// [ComputedDiagram.Error] and [ComputedDiagram.Err], with an otherwise empty
// diagram. Results are deterministic for identical input.
//
// [errors.ErrCodeInvalidInput]: github.com/matzehuels/celldraw/pkg/errors.ErrCodeInvalidInput
// [errors.ErrCodeDependencyCycle]: github.com/matzehuels/celldraw/pkg/errors.ErrCodeDependencyCycle
package diagram
