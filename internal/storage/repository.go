package storage

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/sandeepkv93/planner/internal/model"
)

var (
	ErrNotFound = errors.New("storage: not found")
	// ErrCorrupt marks a persisted document that could not be decoded. Callers
	// recover by treating the collection as empty.
	ErrCorrupt = errors.New("storage: corrupt document")
)

type EventRepository interface {
	LoadEvents(ctx context.Context) ([]model.Event, error)
	SaveEvents(ctx context.Context, events []model.Event) error
}

type TaskRepository interface {
	LoadTasks(ctx context.Context) ([]model.Task, error)
	SaveTasks(ctx context.Context, tasks []model.Task) error
}

// Repository persists the two collections owned by the scheduling core.
// Every save overwrites the whole collection; there is no cross-process
// locking and the last writer wins.
type Repository interface {
	EventRepository
	TaskRepository
	Close() error
}

const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// Open returns the repository for backend rooted at dataDir.
func Open(backend, dataDir string) (Repository, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", BackendJSON:
		return NewJSONRepository(dataDir), nil
	case BackendSQLite:
		repo, err := OpenSQLite(filepath.Join(dataDir, "planner.db"))
		if err != nil {
			return nil, err
		}
		if err := MigrateUp(repo.db); err != nil {
			_ = repo.Close()
			return nil, err
		}
		return repo, nil
	default:
		return nil, fmt.Errorf("storage: unknown backend %q", backend)
	}
}
