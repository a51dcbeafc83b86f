package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRosterFiles(t *testing.T) {
	dir := t.TempDir()
	rosters := filepath.Join(dir, "rosters")
	require.NoError(t, os.MkdirAll(rosters, 0o755))

	kanto := "trainers:\n  - name: Brock\n    team:\n      - name: Onix\n"
	require.NoError(t, os.WriteFile(filepath.Join(rosters, "kanto.yaml"), []byte(kanto), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(rosters, "broken.yml"), []byte("trainers: [\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(rosters, "notes.txt"), []byte("ignored"), 0o644))

	f := newRosterFiles(dir, testLogger())
	ctx := context.Background()

	names, err := f.ListRosters(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"broken.yml", "kanto.yaml"}, names)

	rf, err := f.GetRoster(ctx, "kanto.yaml")
	require.NoError(t, err)
	require.Len(t, rf.Trainers, 1)
	assert.Equal(t, "Brock", rf.Trainers[0].Name)

	_, err = f.GetRoster(ctx, "broken.yml")
	assert.Error(t, err)

	_, err = f.GetRoster(ctx, "johto.yaml")
	assert.Error(t, err)

	_, err = f.GetRoster(ctx, "../secrets.yaml")
	assert.Error(t, err)

	_, err = f.GetRoster(ctx, "notes.txt")
	assert.Error(t, err)
}

func TestRosterFiles_MissingDir(t *testing.T) {
	f := newRosterFiles(t.TempDir(), testLogger())
	names, err := f.ListRosters(context.Background())
	require.NoError(t, err)
	assert.Empty(t, names)
}
