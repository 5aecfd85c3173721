package dag

import (
	"errors"
	"reflect"
	"testing"
)

func TestAddNode(t *testing.T) {
	g := New(nil)
	if err := g.AddNode(Node{ID: "A"}); err != nil {
		t.Fatalf("AddNode() error = %v", err)
	}

	tests := []struct {
		name string
		node Node
		want error
	}{
		{"empty id", Node{}, ErrInvalidNodeID},
		{"duplicate", Node{ID: "A"}, ErrDuplicateNodeID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := g.AddNode(tt.node); !errors.Is(err, tt.want) {
				t.Errorf("AddNode() error = %v, want %v", err, tt.want)
			}
		})
	}

	n, ok := g.Node("A")
	if !ok || n.Meta == nil {
		t.Errorf("Node(A) = %+v, %v", n, ok)
	}
}

func TestAddEdge(t *testing.T) {
	g := New(nil)
	_ = g.AddNode(Node{ID: "A"})
	_ = g.AddNode(Node{ID: "f", Kind: NodeKindArrow})

	if err := g.AddEdge(Edge{From: "missing", To: "f"}); !errors.Is(err, ErrUnknownSourceNode) {
		t.Errorf("unknown source: error = %v", err)
	}
	if err := g.AddEdge(Edge{From: "A", To: "missing"}); !errors.Is(err, ErrUnknownTargetNode) {
		t.Errorf("unknown target: error = %v", err)
	}

	// A loop attaches twice.
	_ = g.AddEdge(Edge{From: "A", To: "f"})
	_ = g.AddEdge(Edge{From: "A", To: "f"})
	if g.EdgeCount() != 2 || g.InDegree("f") != 2 {
		t.Errorf("EdgeCount() = %d, InDegree(f) = %d", g.EdgeCount(), g.InDegree("f"))
	}
}

func TestInsertionOrder(t *testing.T) {
	g := New(nil)
	ids := []string{"z", "a", "m", "b"}
	for _, id := range ids {
		_ = g.AddNode(Node{ID: id})
	}
	if got := NodeIDs(g.Nodes()); !reflect.DeepEqual(got, ids) {
		t.Errorf("Nodes() = %v, want %v", got, ids)
	}
	if got := NodeIDs(g.Sources()); !reflect.DeepEqual(got, ids) {
		t.Errorf("Sources() = %v, want %v", got, ids)
	}
}

func TestSetRows(t *testing.T) {
	g := New(nil)
	_ = g.AddNode(Node{ID: "A"})
	_ = g.AddNode(Node{ID: "f", Kind: NodeKindArrow})
	_ = g.AddNode(Node{ID: "α", Kind: NodeKindArrow})
	g.SetRows(map[string]int{"f": 1, "α": 2})

	if g.MaxRow() != 2 {
		t.Errorf("MaxRow() = %d", g.MaxRow())
	}
	if got := NodeIDs(g.NodesInRow(1)); !reflect.DeepEqual(got, []string{"f"}) {
		t.Errorf("NodesInRow(1) = %v", got)
	}
	if !reflect.DeepEqual(g.RowIDs(), []int{0, 1, 2}) {
		t.Errorf("RowIDs() = %v", g.RowIDs())
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		edges [][2]string
		want  error
	}{
		{"acyclic", [][2]string{{"A", "e0"}, {"e0", "e1"}}, nil},
		{"self", [][2]string{{"e0", "e0"}}, ErrGraphHasCycle},
		{"pair", [][2]string{{"e0", "e1"}, {"e1", "e0"}}, ErrGraphHasCycle},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New(nil)
			for _, id := range []string{"A", "e0", "e1"} {
				_ = g.AddNode(Node{ID: id})
			}
			for _, e := range tt.edges {
				_ = g.AddEdge(Edge{From: e[0], To: e[1]})
			}
			if err := g.Validate(); !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}
