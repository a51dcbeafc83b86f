package tree

import (
	"math"

	"github.com/jwebster45206/battle-tree/pkg/transition"
)

// Tolerance is the slack allowed when checking that probabilities sum to 1
const Tolerance = 0.001

// AutoBalance redistributes the probabilities of the edges leaving id so they sum to 1.
//
// Edges at exactly 1.0 count as unset. With no explicit edges the weight is split
// evenly. With only explicit edges they are rescaled when off by more than Tolerance.
// Otherwise the unset edges share what the explicit ones leave; if the explicit ones
// already exceed 1 they are rescaled and the unset ones drop to 0.
//
// AddEdge never calls this; callers run it after each edit.
func (t *Tree) AutoBalance(id int) {
	edges := t.EdgesFrom(id)
	if len(edges) == 0 {
		return
	}

	var explicit, defaulted []*transition.Edge
	for _, e := range edges {
		if e.Explicit() {
			explicit = append(explicit, e)
		} else {
			defaulted = append(defaulted, e)
		}
	}

	if len(explicit) == 0 {
		share := 1.0 / float64(len(edges))
		for _, e := range edges {
			e.SetProbability(share)
		}
		return
	}

	total := sum(explicit)

	if len(defaulted) == 0 {
		if math.Abs(total-1.0) > Tolerance {
			rescale(explicit, total)
		}
		return
	}

	remaining := 1.0 - total
	if remaining < 0 {
		rescale(explicit, total)
		for _, e := range defaulted {
			e.SetProbability(0)
		}
		return
	}

	share := remaining / float64(len(defaulted))
	for _, e := range defaulted {
		e.SetProbability(share)
	}
}

// BalanceAll runs AutoBalance on every node
func (t *Tree) BalanceAll() {
	for _, n := range t.Nodes() {
		t.AutoBalance(n.ID)
	}
}

// ValidateProbabilities reports whether the edges leaving id sum to 1 within Tolerance.
// A node without outgoing edges is valid.
func (t *Tree) ValidateProbabilities(id int) bool {
	edges := t.EdgesFrom(id)
	if len(edges) == 0 {
		return true
	}
	return math.Abs(sum(edges)-1.0) < Tolerance
}

// OutgoingTotal returns the sum of probabilities leaving id
func (t *Tree) OutgoingTotal(id int) float64 {
	return sum(t.EdgesFrom(id))
}

func sum(edges []*transition.Edge) float64 {
	total := 0.0
	for _, e := range edges {
		total += e.Probability()
	}
	return total
}

// rescale divides each probability by total. A non-positive total changes nothing.
func rescale(edges []*transition.Edge, total float64) {
	if total <= 0 {
		return
	}
	for _, e := range edges {
		e.SetProbability(e.Probability() / total)
	}
}
