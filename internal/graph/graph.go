// Package graph models the dependency relation among atomic claims.
// The relation is validated eagerly: a Graph cannot exist with a cycle or
// an edge to an unknown claim, so downstream stages never re-check.
package graph

import "fmt"

// CycleError reports a dependency cycle detected during Build
type CycleError struct {
	Path []string // claim ids along the cycle, first == last
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("dependency cycle: %v", e.Path)
}

// UnknownDependencyError reports an edge to a claim id that was never declared
type UnknownDependencyError struct {
	ClaimID      string
	DependencyID string
}

func (e *UnknownDependencyError) Error() string {
	return fmt.Sprintf("claim %s depends on unknown claim %s", e.ClaimID, e.DependencyID)
}

// node pairs a claim with its dependency edges, preserving declaration order
type node struct {
	statement    string
	dependencies []string
}

// Graph is the validated, read-only dependency graph for one session.
// All traversal is in insertion order so output is reproducible.
type Graph struct {
	order []string
	nodes map[string]*node
}

// Builder input: a minimal view of an atomic claim. Defined locally so the
// package has no dependency on the model package's full claim shape.
type ClaimNode struct {
	ID           string
	Statement    string
	Dependencies []string
}

// Build validates the claims and their dependency edges and returns the
// graph. It fails with *UnknownDependencyError for a dangling edge, a
// duplicate-id error, or *CycleError when depth-first traversal finds a
// back-edge. A Build failure is fatal to the session.
func Build(claims []ClaimNode) (*Graph, error) {
	g := &Graph{nodes: make(map[string]*node, len(claims))}

	for _, c := range claims {
		if c.ID == "" {
			return nil, fmt.Errorf("claim with empty id")
		}
		if _, dup := g.nodes[c.ID]; dup {
			return nil, fmt.Errorf("duplicate claim id %q", c.ID)
		}
		g.order = append(g.order, c.ID)
		deps := make([]string, len(c.Dependencies))
		copy(deps, c.Dependencies)
		g.nodes[c.ID] = &node{statement: c.Statement, dependencies: deps}
	}

	for _, id := range g.order {
		for _, dep := range g.nodes[id].dependencies {
			if _, ok := g.nodes[dep]; !ok {
				return nil, &UnknownDependencyError{ClaimID: id, DependencyID: dep}
			}
			if dep == id {
				return nil, &CycleError{Path: []string{id, id}}
			}
		}
	}

	if cycle := g.findCycle(); cycle != nil {
		return nil, cycle
	}

	return g, nil
}

// findCycle runs a depth-first search with three-color marking. Visiting
// a gray node means a back-edge, i.e. a cycle.
func (g *Graph) findCycle() *CycleError {
	const (
		white = 0 // unvisited
		gray  = 1 // on the current DFS path
		black = 2 // fully explored
	)
	color := make(map[string]int, len(g.order))

	var path []string
	var visit func(id string) *CycleError
	visit = func(id string) *CycleError {
		color[id] = gray
		path = append(path, id)
		for _, dep := range g.nodes[id].dependencies {
			switch color[dep] {
			case gray:
				// Trim path to the cycle entry point for a readable error
				start := 0
				for i, p := range path {
					if p == dep {
						start = i
						break
					}
				}
				cycle := append(append([]string{}, path[start:]...), dep)
				return &CycleError{Path: cycle}
			case white:
				if err := visit(dep); err != nil {
					return err
				}
			}
		}
		path = path[:len(path)-1]
		color[id] = black
		return nil
	}

	for _, id := range g.order {
		if color[id] == white {
			if err := visit(id); err != nil {
				return err
			}
		}
	}
	return nil
}

// Len returns the number of claims in the graph
func (g *Graph) Len() int {
	return len(g.order)
}

// IDs returns all claim ids in insertion order
func (g *Graph) IDs() []string {
	out := make([]string, len(g.order))
	copy(out, g.order)
	return out
}

// Statement returns the statement text for a claim id
func (g *Graph) Statement(id string) (string, bool) {
	n, ok := g.nodes[id]
	if !ok {
		return "", false
	}
	return n.statement, true
}

// Dependencies returns the direct dependency ids of a claim
func (g *Graph) Dependencies(id string) []string {
	n, ok := g.nodes[id]
	if !ok {
		return nil
	}
	out := make([]string, len(n.dependencies))
	copy(out, n.dependencies)
	return out
}

// Foundational returns ids of claims with no dependencies, in insertion order
func (g *Graph) Foundational() []string {
	var out []string
	for _, id := range g.order {
		if len(g.nodes[id].dependencies) == 0 {
			out = append(out, id)
		}
	}
	return out
}

// Derived returns ids of claims with at least one dependency, in insertion order
func (g *Graph) Derived() []string {
	var out []string
	for _, id := range g.order {
		if len(g.nodes[id].dependencies) > 0 {
			out = append(out, id)
		}
	}
	return out
}

// TransitiveDependencies returns every claim id reachable through the
// dependency relation from id, in deterministic (insertion-order BFS) order.
func (g *Graph) TransitiveDependencies(id string) ([]string, error) {
	if _, ok := g.nodes[id]; !ok {
		return nil, fmt.Errorf("unknown claim id %q", id)
	}

	seen := map[string]bool{id: true}
	queue := append([]string{}, g.nodes[id].dependencies...)
	var out []string
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if seen[next] {
			continue
		}
		seen[next] = true
		out = append(out, next)
		queue = append(queue, g.nodes[next].dependencies...)
	}
	return out, nil
}

// Dependents returns ids of claims that directly depend on id, in insertion order
func (g *Graph) Dependents(id string) []string {
	var out []string
	for _, other := range g.order {
		for _, dep := range g.nodes[other].dependencies {
			if dep == id {
				out = append(out, other)
				break
			}
		}
	}
	return out
}

// EvaluationOrder returns all claim ids with every dependency ordered
// before its dependents (foundational claims first). The graph is acyclic
// by construction, so the order always exists.
func (g *Graph) EvaluationOrder() []string {
	placed := make(map[string]bool, len(g.order))
	out := make([]string, 0, len(g.order))

	var place func(id string)
	place = func(id string) {
		if placed[id] {
			return
		}
		placed[id] = true
		for _, dep := range g.nodes[id].dependencies {
			place(dep)
		}
		out = append(out, id)
	}

	for _, id := range g.order {
		place(id)
	}
	return out
}
