package storage

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/jwebster45206/battle-tree/pkg/roster"
)

// rosterFiles serves YAML roster files from <dataDir>/rosters.
// Both backends embed it.
type rosterFiles struct {
	dataDir string
	logger  *slog.Logger
}

func newRosterFiles(dataDir string, logger *slog.Logger) rosterFiles {
	if dataDir == "" {
		dataDir = "./data"
	}
	return rosterFiles{dataDir: dataDir, logger: logger}
}

func (f rosterFiles) rostersDir() string {
	return filepath.Join(f.dataDir, "rosters")
}

func isRosterFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".yaml" || ext == ".yml"
}

func (f rosterFiles) ListRosters(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(f.rostersDir())
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to read rosters directory: %w", err)
	}

	names := []string{}
	for _, entry := range entries {
		if !entry.IsDir() && isRosterFile(entry.Name()) {
			names = append(names, entry.Name())
		}
	}
	slices.Sort(names)
	return names, nil
}

func (f rosterFiles) GetRoster(ctx context.Context, filename string) (*roster.File, error) {
	if filename != filepath.Base(filename) || !isRosterFile(filename) {
		return nil, fmt.Errorf("invalid roster filename: %q", filename)
	}
	path := filepath.Join(f.rostersDir(), filename)

	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("roster not found: %s", filename)
		}
		return nil, fmt.Errorf("failed to open roster file: %w", err)
	}
	defer file.Close()

	rf, err := roster.DecodeFile(file)
	if err != nil {
		f.logger.Warn("Failed to parse roster file", "path", path, "error", err)
		return nil, fmt.Errorf("roster %s: %w", filename, err)
	}
	return rf, nil
}
