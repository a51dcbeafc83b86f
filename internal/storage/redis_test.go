package storage

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/jwebster45206/battle-tree/pkg/project"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelError, // Reduce noise in tests
	}))
}

func setupTestRedis(t *testing.T, ttl time.Duration) (*RedisStorage, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}

	store, err := NewRedisStorage("redis://"+mr.Addr(), t.TempDir(), ttl, testLogger())
	if err != nil {
		mr.Close()
		t.Fatalf("Failed to create redis storage: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
		mr.Close()
	})
	return store, mr
}

func sampleRecord(t *testing.T, name string) *project.Record {
	t.Helper()
	p := project.New()
	require.NoError(t, p.Tree.AddNode(p.IDs.NewNode(1, "")))
	return project.NewRecord(name, p)
}

func TestRedisStorage_SaveLoadDelete(t *testing.T) {
	store, mr := setupTestRedis(t, 0)
	ctx := context.Background()

	require.NoError(t, store.Ping(ctx))

	rec := sampleRecord(t, "elite four")
	require.NoError(t, store.SaveProject(ctx, rec))
	assert.True(t, mr.Exists("project:"+rec.ID.String()))

	loaded, err := store.LoadProject(ctx, rec.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "elite four", loaded.Name)
	assert.Len(t, loaded.Document.States, 2)

	p, err := loaded.Project()
	require.NoError(t, err)
	assert.Equal(t, 2, p.Tree.Len())

	require.NoError(t, store.DeleteProject(ctx, rec.ID))
	loaded, err = store.LoadProject(ctx, rec.ID)
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestRedisStorage_LoadMissing(t *testing.T) {
	store, _ := setupTestRedis(t, 0)

	loaded, err := store.LoadProject(context.Background(), uuid.New())
	assert.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestRedisStorage_LoadCorrupt(t *testing.T) {
	store, mr := setupTestRedis(t, 0)
	id := uuid.New()
	require.NoError(t, mr.Set("project:"+id.String(), "{not json"))

	_, err := store.LoadProject(context.Background(), id)
	assert.Error(t, err)
}

func TestRedisStorage_TTL(t *testing.T) {
	store, mr := setupTestRedis(t, time.Hour)
	ctx := context.Background()

	rec := sampleRecord(t, "short lived")
	require.NoError(t, store.SaveProject(ctx, rec))
	assert.Equal(t, time.Hour, mr.TTL("project:"+rec.ID.String()))

	mr.FastForward(2 * time.Hour)
	loaded, err := store.LoadProject(ctx, rec.ID)
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestRedisStorage_ListProjects(t *testing.T) {
	store, mr := setupTestRedis(t, 0)
	ctx := context.Background()

	first := sampleRecord(t, "first")
	second := sampleRecord(t, "second")
	require.NoError(t, store.SaveProject(ctx, first))
	require.NoError(t, store.SaveProject(ctx, second))
	require.NoError(t, mr.Set("project:not-a-uuid", "x"))
	require.NoError(t, mr.Set("other:key", "x"))

	list, err := store.ListProjects(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)

	names := []string{list[0].Name, list[1].Name}
	assert.ElementsMatch(t, []string{"first", "second"}, names)
	assert.False(t, list[0].UpdatedAt.Before(list[1].UpdatedAt))
}

func TestNewRedisStorage_BadURL(t *testing.T) {
	_, err := NewRedisStorage("redis://:bad:port/x", "", 0, testLogger())
	assert.Error(t, err)
}
