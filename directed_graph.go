package pcfg

// DirectedGraph is a directed graph over symbols. Vertices and arcs are
// visited in insertion order so every traversal is deterministic
type DirectedGraph struct {
	arcs     map[Symbol][]Symbol
	vertices []Symbol
	seen     map[Symbol]bool
}

// NewDirectedGraph creates a new DirectedGraph
func NewDirectedGraph() *DirectedGraph {
	return &DirectedGraph{
		arcs:     map[Symbol][]Symbol{},
		vertices: []Symbol{},
		seen:     map[Symbol]bool{},
	}
}

func (g *DirectedGraph) addVertex(v Symbol) {
	if !g.seen[v] {
		g.seen[v] = true
		g.vertices = append(g.vertices, v)
	}
}

// Add adds an arc into graph
func (g *DirectedGraph) Add(s, t Symbol) {
	g.addVertex(s)
	g.addVertex(t)
	if !g.HasArc(s, t) {
		g.arcs[s] = append(g.arcs[s], t)
	}
}

// HasArc returns whether arc (s, t) exists in this graph
func (g *DirectedGraph) HasArc(s, t Symbol) bool {
	for _, v := range g.arcs[s] {
		if v == t {
			return true
		}
	}
	return false
}

// OutDegree returns the number of arcs leaving s
func (g *DirectedGraph) OutDegree(s Symbol) int {
	return len(g.arcs[s])
}

// DFS runs depth-first search on graph and returns the vertices visited by
// deep-first order.
// It will not visit the vertices where visited[V] == true.
// After finished, it will update the visited map
func (g *DirectedGraph) DFS(s Symbol, visited map[Symbol]bool) []Symbol {
	if visited[s] || !g.seen[s] {
		return []Symbol{}
	}
	visited[s] = true

	order := []Symbol{s}
	for _, next := range g.arcs[s] {
		order = append(order, g.DFS(next, visited)...)
	}
	return order
}

// postOrder appends vertices reachable from s in post order
func (g *DirectedGraph) postOrder(s Symbol, visited map[Symbol]bool, order []Symbol) []Symbol {
	visited[s] = true
	for _, next := range g.arcs[s] {
		if !visited[next] {
			order = g.postOrder(next, visited, order)
		}
	}
	return append(order, s)
}

// TopologicalSort sorts the graph by topological order. For cyclic graphs it
// returns the reversed finishing order used by Kosaraju's algorithm
func (g *DirectedGraph) TopologicalSort() []Symbol {
	visited := map[Symbol]bool{}
	finished := []Symbol{}
	for _, v := range g.vertices {
		if !visited[v] {
			finished = g.postOrder(v, visited, finished)
		}
	}
	order := make([]Symbol, len(finished))
	for i, v := range finished {
		order[len(finished)-1-i] = v
	}
	return order
}

// Transpose returns the reversed graph of g
func (g *DirectedGraph) Transpose() *DirectedGraph {
	reversed := NewDirectedGraph()
	for _, s := range g.vertices {
		reversed.addVertex(s)
	}
	for _, s := range g.vertices {
		for _, t := range g.arcs[s] {
			reversed.Add(t, s)
		}
	}
	return reversed
}

// StrongComponents find strong connected components with more than one
// vertex
func (g *DirectedGraph) StrongComponents() [][]Symbol {
	visited := map[Symbol]bool{}
	components := [][]Symbol{}
	gt := g.Transpose()
	for _, v := range g.TopologicalSort() {
		if visited[v] {
			continue
		}

		component := gt.DFS(v, visited)
		if len(component) <= 1 {
			continue
		}
		components = append(components, component)
	}
	return components
}
