package tree

import (
	"fmt"
	"slices"
)

// ReachProbabilities returns, for every node, the probability of arriving there when
// walking from the root and picking each outgoing edge with its stored probability.
// Nodes with no path from the root get 0. The edges must form a DAG.
func (t *Tree) ReachProbabilities() (map[int]float64, error) {
	order, err := t.TopologicalOrder()
	if err != nil {
		return nil, err
	}

	reach := make(map[int]float64, len(t.nodes))
	for id := range t.nodes {
		reach[id] = 0
	}
	reach[t.root.ID] = 1

	for _, id := range order {
		if id == t.root.ID {
			continue
		}
		total := 0.0
		for _, e := range t.EdgesTo(id) {
			total += reach[e.From] * e.Probability()
		}
		reach[id] = total
	}
	return reach, nil
}

// TopologicalOrder lists node ids so every edge points forward.
// Ties are broken by id to keep the order stable.
func (t *Tree) TopologicalOrder() ([]int, error) {
	indegree := make(map[int]int, len(t.nodes))
	for id := range t.nodes {
		indegree[id] = 0
	}
	for _, e := range t.edges {
		indegree[e.To]++
	}

	var ready []int
	for id, d := range indegree {
		if d == 0 {
			ready = append(ready, id)
		}
	}
	slices.Sort(ready)

	order := make([]int, 0, len(t.nodes))
	for len(ready) > 0 {
		id := ready[0]
		ready = ready[1:]
		order = append(order, id)

		var released []int
		for _, e := range t.EdgesFrom(id) {
			indegree[e.To]--
			if indegree[e.To] == 0 {
				released = append(released, e.To)
			}
		}
		ready = append(ready, released...)
		slices.Sort(ready)
	}

	if len(order) != len(t.nodes) {
		return nil, fmt.Errorf("%d of %d states unordered: %w", len(t.nodes)-len(order), len(t.nodes), ErrCycle)
	}
	return order, nil
}

// Leaves returns the ids of nodes without outgoing edges, ordered by id
func (t *Tree) Leaves() []int {
	var leaves []int
	for _, n := range t.Nodes() {
		if len(t.EdgesFrom(n.ID)) == 0 {
			leaves = append(leaves, n.ID)
		}
	}
	return leaves
}

// Reachable returns the ids of nodes some path from the root arrives at,
// whatever the edge probabilities. Cycles are fine.
func (t *Tree) Reachable() map[int]bool {
	seen := map[int]bool{t.root.ID: true}
	queue := []int{t.root.ID}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, e := range t.EdgesFrom(id) {
			if !seen[e.To] {
				seen[e.To] = true
				queue = append(queue, e.To)
			}
		}
	}
	return seen
}
