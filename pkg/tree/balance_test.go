package tree

import (
	"testing"

	"github.com/jwebster45206/battle-tree/pkg/transition"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAutoBalance(t *testing.T) {
	tests := []struct {
		name  string
		input []float64
		want  []float64
	}{
		{
			name:  "single default edge",
			input: []float64{1},
			want:  []float64{1},
		},
		{
			name:  "uniform over three defaults",
			input: []float64{1, 1, 1},
			want:  []float64{1.0 / 3, 1.0 / 3, 1.0 / 3},
		},
		{
			name:  "explicit summing to one untouched",
			input: []float64{0.25, 0.75},
			want:  []float64{0.25, 0.75},
		},
		{
			name:  "explicit within tolerance untouched",
			input: []float64{0.5, 0.4995},
			want:  []float64{0.5, 0.4995},
		},
		{
			name:  "explicit under one rescaled",
			input: []float64{0.2, 0.3},
			want:  []float64{0.4, 0.6},
		},
		{
			name:  "mixed defaults share remainder",
			input: []float64{0.2, 1, 0.3, 1},
			want:  []float64{0.2, 0.25, 0.3, 0.25},
		},
		{
			name:  "over-explicit normalized and defaults zeroed",
			input: []float64{0.7, 0.6, 1},
			want:  []float64{0.7 / 1.3, 0.6 / 1.3, 0},
		},
		{
			name:  "explicit exactly one leaves defaults at zero",
			input: []float64{0.5, 0.5, 1},
			want:  []float64{0.5, 0.5, 0},
		},
		{
			name:  "all explicit zero left alone",
			input: []float64{0, 0},
			want:  []float64{0, 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, ids := newTestTree(t)
			var edges []*transition.Edge
			for _, p := range tt.input {
				n := addNode(t, tr, ids, 1)
				edges = append(edges, addEdge(t, tr, 0, n.ID, p))
			}

			tr.AutoBalance(0)

			require.Len(t, edges, len(tt.want))
			for i, e := range edges {
				assert.InDelta(t, tt.want[i], e.Probability(), 1e-9, "edge %d", i)
			}
		})
	}
}

func TestAutoBalance_SumsToOne(t *testing.T) {
	inputs := [][]float64{
		{1, 1, 1},
		{0.2, 0.3, 1, 1},
		{0.7, 0.6, 1},
		{0.1, 0.1},
		{0.9, 0.9, 0.9},
		{0.05, 1},
	}

	for _, input := range inputs {
		tr, ids := newTestTree(t)
		for _, p := range input {
			n := addNode(t, tr, ids, 1)
			addEdge(t, tr, 0, n.ID, p)
		}

		tr.AutoBalance(0)

		assert.True(t, tr.ValidateProbabilities(0), "input %v", input)
		assert.InDelta(t, 1.0, tr.OutgoingTotal(0), Tolerance, "input %v", input)
	}
}

func TestAutoBalance_NoEdgesIsNoop(t *testing.T) {
	tr, ids := newTestTree(t)
	a := addNode(t, tr, ids, 1)
	e := addEdge(t, tr, a.ID, 0, 0.3)

	tr.AutoBalance(0)

	assert.Equal(t, 0.3, e.Probability(), "edges into the node are not touched")
	assert.True(t, tr.ValidateProbabilities(0))
}

func TestAutoBalance_OnlyTouchesThatNode(t *testing.T) {
	tr, ids := newTestTree(t)
	a := addNode(t, tr, ids, 1)
	b := addNode(t, tr, ids, 2)
	c := addNode(t, tr, ids, 2)

	rootEdge := addEdge(t, tr, 0, a.ID, 0.4)
	ab := addEdge(t, tr, a.ID, b.ID, 1)
	ac := addEdge(t, tr, a.ID, c.ID, 1)

	tr.AutoBalance(a.ID)

	assert.Equal(t, 0.4, rootEdge.Probability())
	assert.InDelta(t, 0.5, ab.Probability(), 1e-9)
	assert.InDelta(t, 0.5, ac.Probability(), 1e-9)
}

func TestAutoBalance_RootScenario(t *testing.T) {
	tr, ids := newTestTree(t)
	root := tr.Root()
	require.Equal(t, 0, root.ID)
	require.Equal(t, 0, root.Turn)

	a := addNode(t, tr, ids, 1)
	toA := addEdge(t, tr, root.ID, a.ID, transition.DefaultProbability)
	tr.AutoBalance(root.ID)
	assert.Equal(t, 1.0, toA.Probability())

	b := addNode(t, tr, ids, 1)
	toB := addEdge(t, tr, root.ID, b.ID, transition.DefaultProbability)
	tr.AutoBalance(root.ID)
	assert.InDelta(t, 0.5, toA.Probability(), 1e-9)
	assert.InDelta(t, 0.5, toB.Probability(), 1e-9)
	assert.True(t, tr.ValidateProbabilities(root.ID))
}

func TestBalanceAll(t *testing.T) {
	tr, ids := newTestTree(t)
	a := addNode(t, tr, ids, 1)
	b := addNode(t, tr, ids, 1)
	c := addNode(t, tr, ids, 2)
	addEdge(t, tr, 0, a.ID, 1)
	addEdge(t, tr, 0, b.ID, 1)
	addEdge(t, tr, a.ID, c.ID, 0.2)

	assert.False(t, tr.ValidateProbabilities(0))
	assert.False(t, tr.ValidateProbabilities(a.ID))

	tr.BalanceAll()

	for _, n := range tr.Nodes() {
		assert.True(t, tr.ValidateProbabilities(n.ID), "node %d", n.ID)
	}
}

func TestValidateProbabilities(t *testing.T) {
	tr, ids := newTestTree(t)
	a := addNode(t, tr, ids, 1)
	b := addNode(t, tr, ids, 1)

	assert.True(t, tr.ValidateProbabilities(0), "no edges is vacuously valid")

	e1 := addEdge(t, tr, 0, a.ID, 0.6)
	e2 := addEdge(t, tr, 0, b.ID, 0.3)
	assert.False(t, tr.ValidateProbabilities(0))

	e2.SetProbability(0.4)
	assert.True(t, tr.ValidateProbabilities(0))

	e1.SetProbability(0.6005)
	assert.True(t, tr.ValidateProbabilities(0))

	e1.SetProbability(0.602)
	assert.False(t, tr.ValidateProbabilities(0))
}
