package status

import (
	"context"
	"errors"
	"fmt"

	"github.com/slok/opsq/internal/log"
	"github.com/slok/opsq/internal/model"
	"github.com/slok/opsq/internal/storage"
)

// ServiceConfig is the configuration for the status service.
type ServiceConfig struct {
	Repository storage.Repository
	Logger     log.Logger
}

func (c *ServiceConfig) defaults() error {
	if c.Repository == nil {
		return fmt.Errorf("repository is required")
	}

	if c.Logger == nil {
		c.Logger = log.Noop
	}

	return nil
}

// Service retrieves a single task with its pipeline.
type Service struct {
	repo   storage.Repository
	logger log.Logger
}

// NewService creates a new status service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{
		repo:   cfg.Repository,
		logger: cfg.Logger,
	}, nil
}

// Request represents the status request parameters.
type Request struct {
	// IDOrName is the task ID or name to query.
	IDOrName string
}

// Run retrieves a task by ID, falling back to a name lookup.
func (s *Service) Run(ctx context.Context, req Request) (*model.Task, error) {
	s.logger.Debugf("getting status for task: %s", req.IDOrName)

	task, err := s.repo.GetTask(ctx, req.IDOrName)
	if err == nil {
		return task, nil
	}
	if !errors.Is(err, model.ErrNotFound) {
		return nil, fmt.Errorf("could not get task: %w", err)
	}

	s.logger.Debugf("ID lookup failed, trying name lookup")
	task, err = s.repo.GetTaskByName(ctx, req.IDOrName)
	if err == nil {
		s.logger.Debugf("found task by name: %s", task.ID)
		return task, nil
	}

	if errors.Is(err, model.ErrNotFound) {
		return nil, fmt.Errorf("task not found: %s: %w", req.IDOrName, model.ErrNotFound)
	}

	return nil, fmt.Errorf("could not get task: %w", err)
}
