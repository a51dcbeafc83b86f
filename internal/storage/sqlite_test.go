package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tempSQLite(t *testing.T) *SQLiteStorage {
	t.Helper()
	dir := t.TempDir()
	s, err := NewSQLiteStorage(filepath.Join(dir, "db", "projects.db"), dir, testLogger())
	if err != nil {
		t.Fatalf("NewSQLiteStorage: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteStorage_SaveLoadDelete(t *testing.T) {
	s := tempSQLite(t)
	ctx := context.Background()
	require.NoError(t, s.Ping(ctx))

	rec := sampleRecord(t, "gym 1")
	require.NoError(t, s.SaveProject(ctx, rec))

	loaded, err := s.LoadProject(ctx, rec.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, rec.ID, loaded.ID)
	assert.Equal(t, "gym 1", loaded.Name)
	assert.True(t, rec.CreatedAt.Equal(loaded.CreatedAt))
	assert.Len(t, loaded.Document.States, 2)

	require.NoError(t, s.DeleteProject(ctx, rec.ID))
	loaded, err = s.LoadProject(ctx, rec.ID)
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestSQLiteStorage_Upsert(t *testing.T) {
	s := tempSQLite(t)
	ctx := context.Background()

	rec := sampleRecord(t, "draft")
	require.NoError(t, s.SaveProject(ctx, rec))

	p, err := rec.Project()
	require.NoError(t, err)
	require.NoError(t, p.Tree.AddNode(p.IDs.NewNode(2, "")))
	rec.Replace(p)
	rec.Name = "final"
	require.NoError(t, s.SaveProject(ctx, rec))

	list, err := s.ListProjects(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "final", list[0].Name)
	assert.Equal(t, 3, list[0].States)
	assert.Equal(t, rec.ID, list[0].ID)
}

func TestSQLiteStorage_LoadMissing(t *testing.T) {
	s := tempSQLite(t)
	loaded, err := s.LoadProject(context.Background(), uuid.New())
	assert.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestSQLiteStorage_Reopen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "projects.db")
	ctx := context.Background()

	first, err := NewSQLiteStorage(path, dir, testLogger())
	require.NoError(t, err)
	rec := sampleRecord(t, "persisted")
	require.NoError(t, first.SaveProject(ctx, rec))
	require.NoError(t, first.Close())

	second, err := NewSQLiteStorage(path, dir, testLogger())
	require.NoError(t, err)
	defer second.Close()

	loaded, err := second.LoadProject(ctx, rec.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "persisted", loaded.Name)
}

func TestSQLiteStorage_SaveNil(t *testing.T) {
	s := tempSQLite(t)
	assert.Error(t, s.SaveProject(context.Background(), nil))
}
