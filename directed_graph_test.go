package pcfg

import (
	"testing"
)

func TestStrongComponents(t *testing.T) {
	g := NewDirectedGraph()
	// 0 -> 1 -> 2 -> 0 is a cycle, 3 hangs below it
	g.Add(0, 1)
	g.Add(1, 2)
	g.Add(2, 0)
	g.Add(2, 3)

	components := g.StrongComponents()
	if len(components) != 1 {
		t.Fatalf("%d components, 1 expected", len(components))
	}
	if len(components[0]) != 3 {
		t.Fatalf("component %v should have 3 vertices", components[0])
	}
	for _, v := range components[0] {
		if v == 3 {
			t.Fatal("3 is not in the cycle")
		}
	}
	if g.OutDegree(3) != 0 || g.OutDegree(2) != 2 {
		t.Fatal("unexpected out degree")
	}
}

func TestTopologicalSort(t *testing.T) {
	g := NewDirectedGraph()
	g.Add(2, 1)
	g.Add(1, 0)
	g.Add(2, 0)

	order := g.TopologicalSort()
	position := map[Symbol]int{}
	for i, v := range order {
		position[v] = i
	}
	if !(position[2] < position[1] && position[1] < position[0]) {
		t.Fatalf("%v is not a topological order", order)
	}
}
