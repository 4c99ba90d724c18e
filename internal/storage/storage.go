package storage

import (
	"context"

	"github.com/slok/opsq/internal/model"
)

//go:generate mockery --case underscore --output storagemock --outpkg storagemock --name Repository

// Repository is the interface for the task store.
//
// The store holds a single versioned snapshot of every task, writers replace
// it as a whole so readers never observe a partially updated state.
type Repository interface {
	GetSnapshot(ctx context.Context) (*model.Snapshot, error)
	ListTasks(ctx context.Context) ([]model.Task, error)
	GetTask(ctx context.Context, id string) (*model.Task, error)
	GetTaskByName(ctx context.Context, name string) (*model.Task, error)
	ReplaceSnapshot(ctx context.Context, s model.Snapshot) error
}
