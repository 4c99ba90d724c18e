package dashboard

import (
	"context"
	"fmt"
	"sync"

	"github.com/slok/opsq/internal/app/list"
	"github.com/slok/opsq/internal/conventions"
	"github.com/slok/opsq/internal/log"
	"github.com/slok/opsq/internal/model"
	"github.com/slok/opsq/internal/view"
)

// Lister lists the scoped tasks.
type Lister interface {
	Run(ctx context.Context, req list.Request) (*list.Response, error)
}

// ServiceConfig is the configuration for the dashboard service.
type ServiceConfig struct {
	Lister     Lister
	ActiveUser string
	Scope      model.Scope
	Logger     log.Logger
}

func (c *ServiceConfig) defaults() error {
	if c.Lister == nil {
		return fmt.Errorf("lister is required")
	}

	if c.ActiveUser == "" {
		c.ActiveUser = conventions.DefaultActiveUser
	}

	if c.Scope == "" {
		c.Scope = model.ScopeTeam
	}
	if !c.Scope.Valid() {
		return fmt.Errorf("unknown scope %q", c.Scope)
	}

	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "app.Dashboard"})

	return nil
}

// State is the UI session state.
type State struct {
	Scope      model.Scope
	ActiveUser string
	Query      string
	SelectedID string
}

// View is the projection of the store the dashboard renders.
type View struct {
	Scope model.Scope
	Query string
	// Tasks are the scoped and searched tasks.
	Tasks []model.Task
	// Selected is the resolved selection, nil when there are no tasks.
	Selected *model.Task
	// Counts are the status counts of the whole store.
	Counts model.Counts
}

// Service holds a dashboard session. It only records the UI selections, the
// task store is never modified.
type Service struct {
	lister Lister
	logger log.Logger

	mu    sync.Mutex
	state State
}

// NewService returns a new dashboard session.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Service{
		lister: cfg.Lister,
		logger: cfg.Logger,
		state: State{
			Scope:      cfg.Scope,
			ActiveUser: cfg.ActiveUser,
		},
	}, nil
}

// SetScope switches the visible scope.
func (s *Service) SetScope(scope model.Scope) error {
	if !scope.Valid() {
		return fmt.Errorf("unknown scope %q: %w", scope, model.ErrNotValid)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Scope = scope
	s.logger.Debugf("scope set to %s", scope)

	return nil
}

// ToggleScope switches between the team and individual scopes and returns the new one.
func (s *Service) ToggleScope() model.Scope {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Scope == model.ScopeTeam {
		s.state.Scope = model.ScopeIndividual
	} else {
		s.state.Scope = model.ScopeTeam
	}
	s.logger.Debugf("scope set to %s", s.state.Scope)

	return s.state.Scope
}

// SetSearchQuery sets the free text search query.
func (s *Service) SetSearchQuery(q string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Query = q
}

// SelectTask records the selected task ID.
func (s *Service) SelectTask(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.SelectedID = id
}

// State returns the current session state.
func (s *Service) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// View renders the current session state against the store.
func (s *Service) View(ctx context.Context) (*View, error) {
	st := s.State()

	resp, err := s.lister.Run(ctx, list.Request{
		Scope:      st.Scope,
		ActiveUser: st.ActiveUser,
		Query:      st.Query,
	})
	if err != nil {
		return nil, fmt.Errorf("could not list tasks: %w", err)
	}

	v := &View{
		Scope:  st.Scope,
		Query:  st.Query,
		Tasks:  resp.Tasks,
		Counts: resp.Counts,
	}

	if selected, ok := view.ResolveSelection(resp.Tasks, st.SelectedID); ok {
		v.Selected = &selected
	}

	return v, nil
}
