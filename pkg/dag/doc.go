// Package dag provides the directed graph that records which diagram
// entities an arrow attaches to.
//
// # Overview
//
// In a string diagram an arrow may start or end on another arrow, not only on
// a node. Those attachments form a dependency graph: an arrow can only be
// drawn once everything it attaches to has a position. This package provides
// that graph. Diagram nodes are [NodeKindObject] vertices; arrows are
// [NodeKindArrow] vertices. An edge From → To means "To attaches to From",
// so objects are sources and every arrow sits below its dependencies.
//
// # Basic Usage
//
//	g := dag.New(nil)
//	g.AddNode(dag.Node{ID: "A", Kind: dag.NodeKindObject})
//	g.AddNode(dag.Node{ID: "B", Kind: dag.NodeKindObject})
//	g.AddNode(dag.Node{ID: "f", Kind: dag.NodeKindArrow})
//	g.AddEdge(dag.Edge{From: "A", To: "f"})
//	g.AddEdge(dag.Edge{From: "B", To: "f"})
//
// Use [DAG.Validate] to check for cycles. The [transform] subpackage finds a
// concrete cycle for error messages and assigns each vertex a row equal to
// the resolution round in which it can be placed.
//
// # Determinism
//
// [DAG.Nodes] and [DAG.Edges] return insertion order, so every traversal
// built on them is reproducible.
//
// # Concurrency
//
// DAG instances are not safe for concurrent use. Callers must synchronize
// access if multiple goroutines read or modify the same graph.
//
// [transform]: github.com/matzehuels/celldraw/pkg/dag/transform
package dag
