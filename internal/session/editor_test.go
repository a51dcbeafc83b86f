package session

import (
	"io"
	"log/slog"
	"testing"

	"github.com/jwebster45206/battle-tree/pkg/combatant"
	"github.com/jwebster45206/battle-tree/pkg/project"
	"github.com/jwebster45206/battle-tree/pkg/state"
	"github.com/jwebster45206/battle-tree/pkg/transition"
	"github.com/jwebster45206/battle-tree/pkg/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func snapshot(t *testing.T, name string) *combatant.Snapshot {
	t.Helper()
	s, err := combatant.New(name, "", false)
	require.NoError(t, err)
	return s
}

// newEditor returns an editor over a project whose root holds Lucario vs Garchomp
func newEditor(t *testing.T) *Editor {
	t.Helper()
	p := project.New()
	root := p.Tree.Root()
	root.SetCombatant(state.SlotSelf, snapshot(t, "Lucario"))
	root.SetCombatant(state.SlotEnemy, snapshot(t, "Garchomp"))
	return NewEditor(p, testLogger)
}

func TestEditor_AddNextTurn(t *testing.T) {
	e := newEditor(t)
	root := e.Tree().Root()

	n, err := e.AddNextTurn(root.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, n.Turn)
	assert.Equal(t, "Turn 1", n.Name)
	assert.Equal(t, root.Arity, n.Arity)
	assert.Equal(t, "Lucario", n.Combatant(state.SlotSelf).Name)
	assert.NotSame(t, root.Combatant(state.SlotSelf), n.Combatant(state.SlotSelf))

	edges := e.Tree().EdgesFrom(root.ID)
	require.Len(t, edges, 1)
	assert.Equal(t, 1.0, edges[0].Probability())

	second, err := e.AddNextTurn(root.ID)
	require.NoError(t, err)
	assert.NotEqual(t, n.ID, second.ID)
	for _, edge := range e.Tree().EdgesFrom(root.ID) {
		assert.InDelta(t, 0.5, edge.Probability(), 1e-9)
	}

	_, err = e.AddNextTurn(99)
	assert.ErrorIs(t, err, tree.ErrMissingReference)
}

func TestEditor_AddPossibility(t *testing.T) {
	e := newEditor(t)
	root := e.Tree().Root()
	next, err := e.AddNextTurn(root.ID)
	require.NoError(t, err)

	crit := 0.2
	n, err := e.AddPossibility(root.ID, "crit", state.ArityDouble, &crit)
	require.NoError(t, err)
	assert.Equal(t, root.Turn, n.Turn)
	assert.Equal(t, "crit", n.Name)
	assert.Equal(t, state.ArityDouble, n.Arity)
	assert.Equal(t, "Garchomp", n.Combatant(state.SlotEnemy).Name)

	probs := map[int]float64{}
	for _, edge := range e.Tree().EdgesFrom(root.ID) {
		probs[edge.To] = edge.Probability()
	}
	assert.InDelta(t, 0.2, probs[n.ID], 1e-9)
	assert.InDelta(t, 0.8, probs[next.ID], 1e-9)

	_, err = e.AddPossibility(root.ID, "  ", "", nil)
	assert.ErrorIs(t, err, ErrInvalidInput)

	dflt, err := e.AddPossibility(n.ID, "miss", "", nil)
	require.NoError(t, err)
	assert.Equal(t, state.ArityDouble, dflt.Arity, "arity defaults to the source's")
}

func TestEditor_AddStateInTurn(t *testing.T) {
	e := newEditor(t)

	n, err := e.AddStateInTurn(3, "switch")
	require.NoError(t, err)
	assert.Equal(t, 3, n.Turn)
	assert.Equal(t, state.AritySingle, n.Arity)
	assert.Empty(t, e.Tree().EdgesTo(n.ID))
	assert.Empty(t, n.ActiveCombatants())

	_, err = e.AddStateInTurn(3, "")
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = e.AddStateInTurn(-1, "x")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestEditor_LinkSetProbabilityUnlink(t *testing.T) {
	e := newEditor(t)
	root := e.Tree().Root()
	a, err := e.AddNextTurn(root.ID)
	require.NoError(t, err)
	b, err := e.AddStateInTurn(1, "b")
	require.NoError(t, err)

	link, err := e.Link(root.ID, b.ID, transition.DefaultProbability, transition.WeatherChange(state.WeatherRain))
	require.NoError(t, err)
	assert.InDelta(t, 0.5, link.Probability(), 1e-9)

	_, err = e.Link(root.ID, b.ID, 1, transition.Effect{Kind: "nonsense"})
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = e.Link(root.ID, 77, 1)
	assert.ErrorIs(t, err, tree.ErrMissingReference)

	// the sibling already holds an explicit 0.5, so both are rescaled
	require.NoError(t, e.SetProbability(link.ID, 0.3))
	assert.InDelta(t, 0.375, link.Probability(), 1e-9)
	assert.True(t, e.Tree().ValidateProbabilities(root.ID))

	require.NoError(t, e.Unlink(link.ID))
	remaining := e.Tree().EdgesFrom(root.ID)
	require.Len(t, remaining, 1)
	assert.Equal(t, a.ID, remaining[0].To)
	assert.InDelta(t, 1.0, remaining[0].Probability(), 1e-9)

	assert.ErrorIs(t, e.Unlink(link.ID), tree.ErrMissingReference)
	assert.ErrorIs(t, e.SetProbability(link.ID, 0.5), tree.ErrMissingReference)
}

func TestEditor_RemoveStateRebalancesParents(t *testing.T) {
	e := newEditor(t)
	root := e.Tree().Root()
	a, err := e.AddNextTurn(root.ID)
	require.NoError(t, err)
	b, err := e.AddNextTurn(root.ID)
	require.NoError(t, err)
	_, err = e.AddNextTurn(a.ID)
	require.NoError(t, err)

	require.NoError(t, e.RemoveState(a.ID))
	remaining := e.Tree().EdgesFrom(root.ID)
	require.Len(t, remaining, 1)
	assert.Equal(t, b.ID, remaining[0].To)
	assert.InDelta(t, 1.0, remaining[0].Probability(), 1e-9)

	assert.ErrorIs(t, e.RemoveState(root.ID), tree.ErrProtectedEntity)
	assert.ErrorIs(t, e.RemoveState(a.ID), tree.ErrMissingReference)
}

func TestEditor_NodeEdits(t *testing.T) {
	e := newEditor(t)
	root := e.Tree().Root()

	require.NoError(t, e.Rename(root.ID, "lead"))
	assert.Equal(t, "lead", root.Name)
	assert.ErrorIs(t, e.Rename(root.ID, " "), ErrInvalidInput)
	assert.ErrorIs(t, e.Rename(42, "x"), tree.ErrMissingReference)

	require.NoError(t, e.SetWeather(root.ID, state.WeatherSunny))
	assert.Equal(t, state.WeatherSunny, root.Weather)
	assert.ErrorIs(t, e.SetWeather(root.ID, "Hail"), ErrInvalidInput)

	require.NoError(t, e.SetArity(root.ID, state.ArityDouble))
	assert.Equal(t, state.ArityDouble, root.Arity)
	assert.ErrorIs(t, e.SetArity(root.ID, "triple"), ErrInvalidInput)
}

func TestEditor_Fire(t *testing.T) {
	e := newEditor(t)
	root := e.Tree().Root()
	n, err := e.AddNextTurn(root.ID)
	require.NoError(t, err)

	edge := e.Tree().EdgesFrom(root.ID)[0]
	require.NoError(t, e.AddEffect(edge.ID, transition.HPChange(state.SlotEnemy, -50, -30)))
	assert.ErrorIs(t, e.AddEffect(edge.ID, transition.Effect{Kind: "nonsense"}), ErrInvalidInput)

	got, err := e.Fire(edge.ID)
	require.NoError(t, err)
	assert.Same(t, n, got)
	assert.Equal(t, 50, got.Combatant(state.SlotEnemy).HPMin)
	assert.Equal(t, 70, got.Combatant(state.SlotEnemy).HPMax)
	assert.Equal(t, 100, root.Combatant(state.SlotEnemy).HPMin, "source state untouched")
}
