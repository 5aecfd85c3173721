package transform

import "github.com/matzehuels/celldraw/pkg/dag"

// AssignLayers assigns every vertex the row in which it can first be
// resolved: objects (sources) are row 0 and each arrow sits one row below
// the deepest thing it attaches to.
//
// AssignLayers uses a longest-path algorithm via topological sort (Kahn's
// algorithm). Vertices on a cycle never reach zero in-degree and keep row 0;
// use [FindCycle] to report them. Existing row assignments are overwritten.
//
// Time complexity is O(V + E).
func AssignLayers(g *dag.DAG) {
	nodes := g.Nodes()
	inDegree := make(map[string]int, len(nodes))
	rows := make(map[string]int, len(nodes))
	queue := make([]string, 0, len(nodes))

	for _, n := range nodes {
		degree := g.InDegree(n.ID)
		inDegree[n.ID] = degree
		rows[n.ID] = 0
		if degree == 0 {
			queue = append(queue, n.ID)
		}
	}

	for len(queue) > 0 {
		curr := queue[0]
		queue = queue[1:]

		for _, child := range g.Children(curr) {
			if row := rows[curr] + 1; row > rows[child] {
				rows[child] = row
			}
			inDegree[child]--
			if inDegree[child] == 0 {
				queue = append(queue, child)
			}
		}
	}

	g.SetRows(rows)
}
