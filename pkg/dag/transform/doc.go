// Package transform provides analyses over attachment graphs.
//
// # Cycles
//
// [FindCycle] returns one concrete cycle, such as e0 → e1 → e0, so that a
// resolver that stopped making progress can say which arrows depend on each
// other.
//
// # Layers
//
// [AssignLayers] places each vertex in the row equal to the resolution round
// in which it becomes drawable. Objects are row 0; an arrow between two
// objects is row 1; an arrow attached to that arrow is row 2, and so on.
// Graph renderers use the rows to rank vertices.
package transform
