package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/slok/opsq/internal/log"
	"github.com/slok/opsq/internal/model"
)

// RepositoryConfig is the configuration for the memory repository.
type RepositoryConfig struct {
	// Tasks are the seed tasks the store starts with, in order.
	Tasks  []model.Task
	Logger log.Logger
}

func (c *RepositoryConfig) defaults() error {
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "storage.Memory"})
	return nil
}

// Repository is an in-memory implementation of storage.Repository.
type Repository struct {
	snapshot model.Snapshot
	index    map[string]int
	mu       sync.RWMutex
	logger   log.Logger
}

// NewRepository creates a new memory repository seeded with the configured tasks.
func NewRepository(cfg RepositoryConfig) (*Repository, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	index := make(map[string]int, len(cfg.Tasks))
	for i, t := range cfg.Tasks {
		if err := t.Validate(); err != nil {
			return nil, fmt.Errorf("invalid task %q: %w", t.ID, err)
		}
		if _, ok := index[t.ID]; ok {
			return nil, fmt.Errorf("task with id %s: %w", t.ID, model.ErrAlreadyExists)
		}
		index[t.ID] = i
	}

	snap := model.Snapshot{Tasks: cfg.Tasks}.Clone()
	if snap.Tasks == nil {
		snap.Tasks = []model.Task{}
	}

	cfg.Logger.Debugf("Seeded repository with %d tasks", len(snap.Tasks))

	return &Repository{
		snapshot: snap,
		index:    index,
		logger:   cfg.Logger,
	}, nil
}

// GetSnapshot returns a copy of the current snapshot.
func (r *Repository) GetSnapshot(ctx context.Context) (*model.Snapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snap := r.snapshot.Clone()
	return &snap, nil
}

// ListTasks returns all the tasks in seed order.
func (r *Repository) ListTasks(ctx context.Context) ([]model.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.snapshot.Clone().Tasks, nil
}

// GetTask retrieves a task by ID.
func (r *Repository) GetTask(ctx context.Context, id string) (*model.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.index[id]
	if !ok {
		return nil, fmt.Errorf("task %s: %w", id, model.ErrNotFound)
	}

	task := r.snapshot.Tasks[i].Clone()
	return &task, nil
}

// GetTaskByName retrieves the first task with the name.
func (r *Repository) GetTaskByName(ctx context.Context, name string) (*model.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, t := range r.snapshot.Tasks {
		if t.Name == name {
			task := t.Clone()
			return &task, nil
		}
	}

	return nil, fmt.Errorf("task with name %s: %w", name, model.ErrNotFound)
}

// ReplaceSnapshot swaps the whole store with the next snapshot.
//
// The snapshot must be built on top of the current one (version + 1) and keep
// the same tasks in the same order.
func (r *Repository) ReplaceSnapshot(ctx context.Context, s model.Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s.Version != r.snapshot.Version+1 {
		return fmt.Errorf("snapshot version %d is not next to %d: %w", s.Version, r.snapshot.Version, model.ErrConflict)
	}

	if len(s.Tasks) != len(r.snapshot.Tasks) {
		return fmt.Errorf("snapshot has %d tasks, expected %d: %w", len(s.Tasks), len(r.snapshot.Tasks), model.ErrNotValid)
	}
	for i, t := range s.Tasks {
		if t.ID != r.snapshot.Tasks[i].ID {
			return fmt.Errorf("snapshot task %d is %s, expected %s: %w", i, t.ID, r.snapshot.Tasks[i].ID, model.ErrNotValid)
		}
	}

	r.snapshot = s.Clone()
	r.logger.Debugf("Replaced snapshot in repository: v%d", s.Version)

	return nil
}
