package storage

import (
	"context"

	"github.com/google/uuid"
	"github.com/jwebster45206/battle-tree/pkg/project"
	"github.com/jwebster45206/battle-tree/pkg/roster"
)

// Storage defines a unified interface for all storage operations.
// Projects live in the configured backend; roster files are read from disk.
type Storage interface {
	// Health and lifecycle
	Ping(ctx context.Context) error
	Close() error

	// Project operations. LoadProject returns nil, nil when the id is unknown.
	SaveProject(ctx context.Context, rec *project.Record) error
	LoadProject(ctx context.Context, id uuid.UUID) (*project.Record, error)
	DeleteProject(ctx context.Context, id uuid.UUID) error
	ListProjects(ctx context.Context) ([]project.Summary, error)

	// Roster files (filesystem-backed)
	ListRosters(ctx context.Context) ([]string, error)
	GetRoster(ctx context.Context, filename string) (*roster.File, error)
}
