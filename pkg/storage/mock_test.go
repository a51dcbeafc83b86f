package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jwebster45206/battle-tree/pkg/project"
	"github.com/jwebster45206/battle-tree/pkg/roster"
	"github.com/jwebster45206/battle-tree/pkg/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockStorage_Projects(t *testing.T) {
	ctx := context.Background()
	m := NewMockStorage()

	p := project.New()
	require.NoError(t, p.Tree.AddNode(p.IDs.NewNode(1, "")))
	rec := project.NewRecord("gym run", p)

	require.NoError(t, m.SaveProject(ctx, rec))

	got, err := m.LoadProject(ctx, rec.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "gym run", got.Name)
	assert.Len(t, got.Document.States, 2)

	// stored data is isolated from the caller
	got.Document.States = nil
	again, err := m.LoadProject(ctx, rec.ID)
	require.NoError(t, err)
	assert.Len(t, again.Document.States, 2)

	list, err := m.ListProjects(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, rec.ID, list[0].ID)
	assert.Equal(t, 2, list[0].States)

	require.NoError(t, m.DeleteProject(ctx, rec.ID))
	missing, err := m.LoadProject(ctx, rec.ID)
	require.NoError(t, err)
	assert.Nil(t, missing)

	missing, err = m.LoadProject(ctx, uuid.New())
	assert.NoError(t, err)
	assert.Nil(t, missing)

	assert.Error(t, m.SaveProject(ctx, nil))
}

func TestMockStorage_Errors(t *testing.T) {
	ctx := context.Background()
	m := NewMockStorage()

	assert.NoError(t, m.Ping(ctx))
	m.SetPingError(errors.New("down"))
	assert.Error(t, m.Ping(ctx))

	m.SetSaveError(errors.New("full"))
	assert.Error(t, m.SaveProject(ctx, project.NewRecord("x", project.New())))
}

func TestMockStorage_Rosters(t *testing.T) {
	ctx := context.Background()
	m := NewMockStorage()
	m.AddRoster("kanto.yaml", &roster.File{Trainers: []roster.TrainerSpec{{Name: "Brock", BattleType: string(state.AritySingle)}}})
	m.AddRoster("johto.yaml", &roster.File{})

	names, err := m.ListRosters(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"johto.yaml", "kanto.yaml"}, names)

	f, err := m.GetRoster(ctx, "kanto.yaml")
	require.NoError(t, err)
	assert.Len(t, f.Trainers, 1)

	// edits to a returned roster stay local
	f.Trainers[0].Name = "Misty"
	again, err := m.GetRoster(ctx, "kanto.yaml")
	require.NoError(t, err)
	assert.Equal(t, "Brock", again.Trainers[0].Name)

	_, err = m.GetRoster(ctx, "hoenn.yaml")
	assert.Error(t, err)
}
