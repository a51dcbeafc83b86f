package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/jwebster45206/battle-tree/pkg/project"
	"github.com/jwebster45206/battle-tree/pkg/storage"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS projects (
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL,
	document    TEXT NOT NULL,
	states      INTEGER NOT NULL,
	transitions INTEGER NOT NULL,
	created_at  TEXT NOT NULL,
	updated_at  TEXT NOT NULL
);
`

// SQLiteStorage keeps projects in a single SQLite file
type SQLiteStorage struct {
	rosterFiles
	db     *sql.DB
	logger *slog.Logger
}

// Ensure SQLiteStorage implements Storage interface
var _ storage.Storage = (*SQLiteStorage)(nil)

// NewSQLiteStorage opens (creating if needed) the database at dbPath and migrates it
func NewSQLiteStorage(dbPath, dataDir string, logger *slog.Logger) (*SQLiteStorage, error) {
	if dir := filepath.Dir(dbPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	logger.Info("SQLite storage ready", "path", dbPath)
	return &SQLiteStorage{
		rosterFiles: newRosterFiles(dataDir, logger),
		db:          db,
		logger:      logger,
	}, nil
}

func (s *SQLiteStorage) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("sqlite ping failed: %w", err)
	}
	return nil
}

func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

func (s *SQLiteStorage) SaveProject(ctx context.Context, rec *project.Record) error {
	if rec == nil {
		return errors.New("project record cannot be nil")
	}
	rec.UpdatedAt = time.Now()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = rec.UpdatedAt
	}

	doc, err := json.Marshal(rec.Document)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}
	sum := rec.Summary()

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO projects (id, name, document, states, transitions, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name = excluded.name,
		   document = excluded.document,
		   states = excluded.states,
		   transitions = excluded.transitions,
		   updated_at = excluded.updated_at`,
		rec.ID.String(), rec.Name, string(doc), sum.States, sum.Transitions,
		rec.CreatedAt.UTC().Format(time.RFC3339Nano), rec.UpdatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		s.logger.Error("Failed to save project", "uuid", rec.ID, "error", err)
		return fmt.Errorf("save project: %w", err)
	}
	return nil
}

func (s *SQLiteStorage) LoadProject(ctx context.Context, id uuid.UUID) (*project.Record, error) {
	var name, doc, created, updated string
	err := s.db.QueryRowContext(ctx,
		`SELECT name, document, created_at, updated_at FROM projects WHERE id = ?`, id.String(),
	).Scan(&name, &doc, &created, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil // Return nil for not found
	}
	if err != nil {
		return nil, fmt.Errorf("load project: %w", err)
	}

	rec := &project.Record{ID: id, Name: name}
	if err := json.Unmarshal([]byte(doc), &rec.Document); err != nil {
		return nil, fmt.Errorf("unmarshal document: %w", err)
	}
	if rec.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if rec.UpdatedAt, err = time.Parse(time.RFC3339Nano, updated); err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}
	return rec, nil
}

func (s *SQLiteStorage) DeleteProject(ctx context.Context, id uuid.UUID) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id.String()); err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	return nil
}

func (s *SQLiteStorage) ListProjects(ctx context.Context) ([]project.Summary, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, states, transitions, updated_at FROM projects`)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	summaries := []project.Summary{}
	for rows.Next() {
		var id, updated string
		var sum project.Summary
		if err := rows.Scan(&id, &sum.Name, &sum.States, &sum.Transitions, &updated); err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		if sum.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("parse project id %q: %w", id, err)
		}
		if sum.UpdatedAt, err = time.Parse(time.RFC3339Nano, updated); err != nil {
			return nil, fmt.Errorf("parse updated_at: %w", err)
		}
		summaries = append(summaries, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}

	project.SortSummaries(summaries)
	return summaries, nil
}
