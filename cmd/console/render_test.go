package main

import (
	"testing"

	"github.com/jwebster45206/battle-tree/pkg/project"
	"github.com/stretchr/testify/assert"
)

func TestRenderTree(t *testing.T) {
	half := 0.5
	doc := &project.Document{
		States: []project.StateRecord{
			{ID: 2, Name: "Miss", Turn: 1, Weather: "None"},
			{ID: 0, Name: "Start", Turn: 0, Weather: "Rain"},
			{ID: 1, Name: "Hit", Turn: 1, Weather: "None"},
		},
		Transitions: []project.TransitionRecord{
			{From: 0, To: 1, Probability: &half},
			{From: 0, To: 2, Probability: &half},
		},
	}

	assert.Equal(t, []int{0, 1, 2}, stateIDs(doc))

	out := renderTree(doc, 1, 80)
	assert.Contains(t, out, "Turn 0")
	assert.Contains(t, out, "[0] Start · Rain")
	assert.Contains(t, out, "t2 → [2] Miss  50%")
	assert.Contains(t, out, "▶ [1] Hit")
}

func TestDescribeCombatant(t *testing.T) {
	lo, hi := 40, 70
	c := &project.SnapshotRecord{
		Name:        "Garchomp",
		Item:        "Choice Scarf",
		HPMin:       &lo,
		HPMax:       &hi,
		MajorStatus: "Burn",
		Stats:       map[string]int{"ATK": 2, "SPE": -1},
	}
	assert.Equal(t, "Garchomp @ Choice Scarf · HP 40-70% · Burn · ATK+2 · SPE-1", describeCombatant(c))
}
