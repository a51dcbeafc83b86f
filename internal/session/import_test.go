package session

import (
	"strings"
	"testing"

	"github.com/jwebster45206/battle-tree/pkg/roster"
	"github.com/jwebster45206/battle-tree/pkg/state"
	"github.com/jwebster45206/battle-tree/pkg/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const paste = `Garchomp @ Rocky Helmet
Ability: Rough Skin
- Earthquake

Garchomp-Mega @ Garchompite
- Dragon Claw

Toxapex (F) @ Black Sludge
- Recover
`

func TestEditor_ImportShowdownToBox(t *testing.T) {
	e := newEditor(t)
	require.True(t, e.Project().Box.Add("Garchomp", snapshot(t, "Garchomp")))

	res, err := e.ImportShowdownToBox(paste)
	require.NoError(t, err)
	assert.Equal(t, []string{"Garchomp_2", "Garchomp-Mega", "Toxapex"}, res.Imported)

	helmet, ok := e.Project().Box.Get("Garchomp_2")
	require.True(t, ok)
	assert.Equal(t, "Rocky Helmet", helmet.Item)

	mega, _ := e.Project().Box.Get("Garchomp-Mega")
	assert.True(t, mega.IsMega)

	_, err = e.ImportShowdownToBox("\n\n")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestEditor_ImportShowdownToTrainer(t *testing.T) {
	e := editorWithRosters(t)

	res, err := e.ImportShowdownToTrainer("Cynthia", paste, false)
	require.NoError(t, err)
	assert.Len(t, res.Imported, 3)

	cynthia, _ := e.Project().Enemies.Trainer("Cynthia")
	assert.Equal(t, 5, cynthia.Len())

	_, err = e.ImportShowdownToTrainer("Nobody", paste, false)
	assert.ErrorIs(t, err, tree.ErrMissingReference)
}

func TestEditor_ImportRoster(t *testing.T) {
	e := editorWithRosters(t)

	f, err := roster.DecodeFile(strings.NewReader(`
box:
  - key: chomp
    name: Garchomp
  - key: scizor
    name: Scizor
    item: Choice Band
trainers:
  - name: Cynthia
    battle_type: double
  - name: Volkner
    battle_type: single
    team:
      - name: Electivire
`))
	require.NoError(t, err)

	res, err := e.ImportRoster(f, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"scizor", "Volkner"}, res.Imported)
	assert.Equal(t, []string{"chomp", "Cynthia"}, res.Skipped)

	volkner, ok := e.Project().Enemies.Trainer("Volkner")
	require.True(t, ok)
	assert.Equal(t, state.AritySingle, volkner.Arity)
	assert.Equal(t, []string{"Electivire"}, volkner.Names())

	bad := &roster.File{Trainers: []roster.TrainerSpec{{Name: "X", BattleType: "triple"}}}
	_, err = e.ImportRoster(bad, false)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestEditor_ImportReplaces(t *testing.T) {
	e := editorWithRosters(t)
	_, err := e.SelectTrainer("Cynthia")
	require.NoError(t, err)

	res, err := e.ImportShowdownToTrainer("Cynthia", paste, true)
	require.NoError(t, err)
	cynthia, _ := e.Project().Enemies.Trainer("Cynthia")
	assert.Equal(t, len(res.Imported), cynthia.Len())

	f, err := roster.DecodeFile(strings.NewReader(`
box:
  - key: scizor
    name: Scizor
trainers:
  - name: Volkner
    team:
      - name: Electivire
`))
	require.NoError(t, err)

	res, err = e.ImportRoster(f, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"scizor", "Volkner"}, res.Imported)
	assert.Empty(t, res.Skipped)

	p := e.Project()
	assert.Equal(t, []string{"scizor"}, p.Box.List())
	assert.Equal(t, []string{"Volkner"}, p.Enemies.TrainerNames())
	_, selected := e.CurrentTrainer()
	assert.False(t, selected)
}
