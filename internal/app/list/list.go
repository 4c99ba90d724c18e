package list

import (
	"context"
	"fmt"

	"github.com/slok/opsq/internal/log"
	"github.com/slok/opsq/internal/model"
	"github.com/slok/opsq/internal/storage"
	"github.com/slok/opsq/internal/view"
)

// ServiceConfig is the configuration for the list service.
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

// Service lists the tasks visible on a scope, optionally matching a search query.
type Service struct {
	repo   storage.Repository
	logger log.Logger
}

// NewService creates a new list service.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{
		repo:   cfg.Repository,
		logger: cfg.Logger,
	}, nil
}

// Request represents the list request parameters.
type Request struct {
	// Scope selects team or individual tasks, defaults to team.
	Scope model.Scope
	// ActiveUser is the identity used by the individual scope.
	ActiveUser string
	// Query is an optional free text search over name, user and LLM.
	Query string
}

// Response is the list result.
type Response struct {
	// Tasks are the scoped and searched tasks in store order.
	Tasks []model.Task
	// Counts are the status counts of the whole store.
	Counts model.Counts
}

// Run lists the scoped tasks.
func (s *Service) Run(ctx context.Context, req Request) (*Response, error) {
	scope := req.Scope
	if scope == "" {
		scope = model.ScopeTeam
	}
	if !scope.Valid() {
		return nil, fmt.Errorf("unknown scope %q: %w", req.Scope, model.ErrNotValid)
	}

	s.logger.Debugf("listing tasks with scope %s, user %q and query %q", scope, req.ActiveUser, req.Query)

	tasks, err := s.repo.ListTasks(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not list tasks: %w", err)
	}

	scoped := view.Search(view.FilterScope(tasks, scope, req.ActiveUser), req.Query)

	s.logger.Debugf("found %d tasks", len(scoped))
	return &Response{
		Tasks:  scoped,
		Counts: view.Count(tasks),
	}, nil
}
