package session

import (
	"testing"

	"github.com/jwebster45206/battle-tree/pkg/state"
	"github.com/jwebster45206/battle-tree/pkg/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func editorWithGym(t *testing.T) *Editor {
	t.Helper()
	e := newEditor(t)
	for _, name := range []string{"Roark", "Gardenia", "Maylene", "Wake"} {
		_, err := e.AddTrainer(name, state.AritySingle)
		require.NoError(t, err)
	}
	return e
}

func TestEditor_SelectTrainerResetsTree(t *testing.T) {
	e := editorWithRosters(t)
	_, err := e.AddNextTurn(0)
	require.NoError(t, err)
	require.Equal(t, 2, e.Tree().Len())

	tr, err := e.SelectTrainer("Cynthia")
	require.NoError(t, err)
	assert.Equal(t, "Cynthia", tr.Name)
	assert.Equal(t, 1, e.Tree().Len())
	assert.Zero(t, e.Tree().EdgeCount())
	assert.Equal(t, state.ArityDouble, e.Tree().Root().Arity)
	assert.Equal(t, 1, e.Project().IDs.NextID())
	assert.Equal(t, 2, e.Project().Box.Len(), "box survives a trainer switch")

	_, err = e.SelectTrainer("Nobody")
	assert.ErrorIs(t, err, tree.ErrMissingReference)
	assert.Equal(t, "Cynthia", e.Project().CurrentTrainer)
}

func TestEditor_NextTrainer(t *testing.T) {
	e := editorWithGym(t)

	got, err := e.NextTrainer()
	require.NoError(t, err)
	assert.Equal(t, "Roark", got.Name)

	_, err = e.MarkDefeated()
	require.NoError(t, err)
	got, err = e.NextTrainer()
	require.NoError(t, err)
	assert.Equal(t, "Gardenia", got.Name)

	g, _ := e.Project().Enemies.Trainer("Maylene")
	g.Skipped = true

	got, err = e.NextTrainer()
	require.NoError(t, err)
	assert.Equal(t, "Wake", got.Name)

	_, err = e.NextTrainer()
	assert.ErrorIs(t, err, ErrNoTrainer)
	assert.Equal(t, "Wake", e.Project().CurrentTrainer)

	roark, _ := e.Project().Enemies.Trainer("Roark")
	assert.Equal(t, "Roark [DEFEATED]", roark.Label())
	assert.Equal(t, "Maylene [SKIPPED]", g.Label())

	e.ResetProgress()
	assert.True(t, roark.Active())
	assert.True(t, g.Active())
}

func TestEditor_MarkWithoutTrainer(t *testing.T) {
	e := editorWithGym(t)
	_, err := e.MarkDefeated()
	assert.ErrorIs(t, err, ErrNoTrainer)
	_, err = e.MarkSkipped()
	assert.ErrorIs(t, err, ErrNoTrainer)
}

func TestEditor_MarkSkippedKeepsDefeat(t *testing.T) {
	e := editorWithGym(t)
	_, err := e.SelectTrainer("Wake")
	require.NoError(t, err)

	_, err = e.MarkDefeated()
	require.NoError(t, err)
	tr, err := e.MarkSkipped()
	require.NoError(t, err)
	assert.True(t, tr.Defeated)
	assert.False(t, tr.Skipped)
}

func TestEditor_AddRemoveTrainer(t *testing.T) {
	e := editorWithGym(t)

	_, err := e.AddTrainer("Roark", state.AritySingle)
	assert.ErrorIs(t, err, tree.ErrDuplicateKey)
	_, err = e.AddTrainer("", state.AritySingle)
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = e.AddTrainer("Fantina", "triple")
	assert.ErrorIs(t, err, ErrInvalidInput)

	tr, err := e.AddTrainer("Byron", "")
	require.NoError(t, err)
	assert.Equal(t, state.AritySingle, tr.Arity)

	_, err = e.SelectTrainer("Byron")
	require.NoError(t, err)
	require.NoError(t, e.RemoveTrainer("Byron"))
	assert.Empty(t, e.Project().CurrentTrainer)
	assert.ErrorIs(t, e.RemoveTrainer("Byron"), tree.ErrMissingReference)

	_, ok := e.CurrentTrainer()
	assert.False(t, ok)
	assert.Equal(t, []string{"Roark", "Gardenia", "Maylene", "Wake"}, e.Project().Enemies.TrainerNames())
}
