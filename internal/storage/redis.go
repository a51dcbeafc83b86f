package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jwebster45206/battle-tree/pkg/project"
	"github.com/jwebster45206/battle-tree/pkg/storage"
	"github.com/redis/go-redis/v9"
)

const projectKeyPrefix = "project:"

// RedisStorage keeps projects in Redis as JSON under "project:<uuid>".
// Roster files come from the data directory.
type RedisStorage struct {
	rosterFiles
	client *redis.Client
	logger *slog.Logger
	ttl    time.Duration
}

// Ensure RedisStorage implements Storage interface
var _ storage.Storage = (*RedisStorage)(nil)

// NewRedisStorage accepts either "host:port" or a redis:// URL.
// A ttl of 0 keeps projects forever.
func NewRedisStorage(redisURL, dataDir string, ttl time.Duration, logger *slog.Logger) (*RedisStorage, error) {
	opts := &redis.Options{Addr: redisURL}
	if strings.Contains(redisURL, "://") {
		parsed, err := redis.ParseURL(redisURL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse redis URL: %w", err)
		}
		opts = parsed
	}

	return &RedisStorage{
		rosterFiles: newRosterFiles(dataDir, logger),
		client:      redis.NewClient(opts),
		logger:      logger,
		ttl:         ttl,
	}, nil
}

func projectKey(id uuid.UUID) string {
	return projectKeyPrefix + id.String()
}

// Health and lifecycle methods

func (r *RedisStorage) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (r *RedisStorage) Close() error {
	if err := r.client.Close(); err != nil {
		r.logger.Error("Failed to close Redis connection", "error", err)
		return err
	}
	r.logger.Info("Redis connection closed")
	return nil
}

// WaitForConnection waits for Redis to become available (used during startup)
func (r *RedisStorage) WaitForConnection(ctx context.Context) error {
	maxRetries := 30
	retryDelay := 2 * time.Second

	for i := 0; i < maxRetries; i++ {
		if err := r.Ping(ctx); err != nil {
			r.logger.Debug("Redis not ready yet", "error", err, "attempt", i+1)

			select {
			case <-ctx.Done():
				return fmt.Errorf("context cancelled while waiting for redis: %w", ctx.Err())
			case <-time.After(retryDelay):
				continue
			}
		}

		r.logger.Info("Redis connection established")
		return nil
	}

	return fmt.Errorf("redis did not become available after %d attempts", maxRetries)
}

// Project operations

func (r *RedisStorage) SaveProject(ctx context.Context, rec *project.Record) error {
	if rec == nil {
		return errors.New("project record cannot be nil")
	}
	rec.UpdatedAt = time.Now()

	data, err := json.Marshal(rec)
	if err != nil {
		r.logger.Error("Failed to marshal project", "uuid", rec.ID, "error", err)
		return fmt.Errorf("failed to marshal project: %w", err)
	}

	if err := r.client.Set(ctx, projectKey(rec.ID), data, r.ttl).Err(); err != nil {
		r.logger.Error("Failed to save project", "uuid", rec.ID, "error", err)
		return fmt.Errorf("failed to save project: %w", err)
	}
	return nil
}

func (r *RedisStorage) LoadProject(ctx context.Context, id uuid.UUID) (*project.Record, error) {
	data, err := r.client.Get(ctx, projectKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			r.logger.Debug("Project not found", "uuid", id)
			return nil, nil // Return nil for not found
		}
		r.logger.Error("Failed to load project", "uuid", id, "error", err)
		return nil, fmt.Errorf("failed to load project: %w", err)
	}

	var rec project.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		r.logger.Error("Failed to unmarshal project", "uuid", id, "error", err)
		return nil, fmt.Errorf("failed to unmarshal project: %w", err)
	}
	return &rec, nil
}

func (r *RedisStorage) DeleteProject(ctx context.Context, id uuid.UUID) error {
	if err := r.client.Del(ctx, projectKey(id)).Err(); err != nil {
		r.logger.Error("Failed to delete project", "uuid", id, "error", err)
		return fmt.Errorf("failed to delete project: %w", err)
	}
	return nil
}

func (r *RedisStorage) ListProjects(ctx context.Context) ([]project.Summary, error) {
	summaries := []project.Summary{}

	iter := r.client.Scan(ctx, 0, projectKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		id, err := uuid.Parse(strings.TrimPrefix(iter.Val(), projectKeyPrefix))
		if err != nil {
			continue
		}
		rec, err := r.LoadProject(ctx, id)
		if err != nil {
			return nil, err
		}
		if rec == nil {
			continue // expired between SCAN and GET
		}
		summaries = append(summaries, rec.Summary())
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	project.SortSummaries(summaries)
	return summaries, nil
}
