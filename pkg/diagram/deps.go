package diagram

import (
	"github.com/matzehuels/celldraw/pkg/dag"
)

// Dependencies returns the attachment graph of s: one vertex per node and
// arrow, and an edge from everything an arrow attaches to into the arrow.
// Nodes have no incoming edges, so any cycle runs through arrows only.
//
// s must have passed [Spec.Validate].
func Dependencies(s *Spec) *dag.DAG {
	g := dag.New(dag.Metadata{"version": Version})
	for _, n := range s.Nodes {
		_ = g.AddNode(dag.Node{
			ID:   n.Name,
			Kind: dag.NodeKindObject,
			Meta: dag.Metadata{"label": n.Label, "color": n.Color},
		})
	}
	for i, a := range s.Arrows {
		_ = g.AddNode(dag.Node{
			ID:   s.ArrowName(i),
			Kind: dag.NodeKindArrow,
			Meta: dag.Metadata{"label": a.Label, "color": a.Color, "index": i},
		})
	}
	for i, a := range s.Arrows {
		name := s.ArrowName(i)
		_ = g.AddEdge(dag.Edge{From: a.From, To: name, Meta: dag.Metadata{"end": "source"}})
		if a.To != a.From {
			_ = g.AddEdge(dag.Edge{From: a.To, To: name, Meta: dag.Metadata{"end": "target"}})
		}
	}
	return g
}
