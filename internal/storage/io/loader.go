package io

import (
	"context"
	"crypto/rand"
	_ "embed"
	"fmt"
	"io/fs"
	"time"

	"github.com/oklog/ulid/v2"
	"gopkg.in/yaml.v3"

	"github.com/slok/opsq/internal/model"
)

//go:embed default_seed.yaml
var defaultSeed []byte

// SeedYAMLRepository loads the seed task dataset from YAML files.
type SeedYAMLRepository struct {
	fs fs.FS
}

// NewSeedYAMLRepository creates a new YAML seed repository.
func NewSeedYAMLRepository(filesystem fs.FS) *SeedYAMLRepository {
	return &SeedYAMLRepository{fs: filesystem}
}

// GetSeed loads the seed tasks from a YAML file and returns validated domain models.
// Start times are resolved relative to now.
func (r *SeedYAMLRepository) GetSeed(ctx context.Context, path string, now time.Time) ([]model.Task, error) {
	data, err := fs.ReadFile(r.fs, path)
	if err != nil {
		return nil, fmt.Errorf("reading seed file: %w", err)
	}

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	return parseSeed(data, now)
}

// DefaultSeed returns the embedded seed dataset.
func DefaultSeed(now time.Time) ([]model.Task, error) {
	return parseSeed(defaultSeed, now)
}

func parseSeed(data []byte, now time.Time) ([]model.Task, error) {
	var seed Seed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}

	tasks, err := seed.toModel(now)
	if err != nil {
		return nil, fmt.Errorf("invalid seed: %w", err)
	}

	return tasks, nil
}

// Seed represents the YAML structure of a seed dataset.
type Seed struct {
	Tasks []TaskSeed `yaml:"tasks"`
}

// TaskSeed represents the YAML structure of a task.
type TaskSeed struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	LLM      string `yaml:"llm"`
	Status   string `yaml:"status"`
	Progress int    `yaml:"progress"`
	// StartedAgo is how long ago the task started (Go duration), defaults to now.
	StartedAgo string     `yaml:"started_ago"`
	Duration   string     `yaml:"duration"`
	Steps      []StepSeed `yaml:"steps"`
}

// StepSeed represents the YAML structure of a step.
type StepSeed struct {
	Name     string `yaml:"name"`
	Status   string `yaml:"status"`
	LLM      string `yaml:"llm"`
	Progress int    `yaml:"progress"`
	Duration string `yaml:"duration"`
}

func (s Seed) toModel(now time.Time) ([]model.Task, error) {
	tasks := make([]model.Task, 0, len(s.Tasks))
	ids := map[string]struct{}{}
	for i, ts := range s.Tasks {
		t, err := ts.toModel(now)
		if err != nil {
			return nil, fmt.Errorf("task %d: %w", i, err)
		}

		if _, ok := ids[t.ID]; ok {
			return nil, fmt.Errorf("task %d: id %s: %w", i, t.ID, model.ErrAlreadyExists)
		}
		ids[t.ID] = struct{}{}

		tasks = append(tasks, t)
	}

	return tasks, nil
}

func (t TaskSeed) toModel(now time.Time) (model.Task, error) {
	id := t.ID
	if id == "" {
		id = ulid.MustNew(ulid.Timestamp(now), rand.Reader).String()
	}

	startTime := now.UTC()
	if t.StartedAgo != "" {
		ago, err := time.ParseDuration(t.StartedAgo)
		if err != nil {
			return model.Task{}, fmt.Errorf("invalid started_ago: %w", err)
		}
		if ago < 0 {
			return model.Task{}, fmt.Errorf("started_ago must not be negative: %w", model.ErrNotValid)
		}
		startTime = startTime.Add(-ago)
	}

	task := model.Task{
		ID:        id,
		Name:      t.Name,
		User:      t.User,
		LLM:       t.LLM,
		StartTime: startTime,
		Status:    statusOrQueued(t.Status),
		Progress:  t.Progress,
		Duration:  t.Duration,
		Steps:     make([]model.Step, 0, len(t.Steps)),
	}
	for _, s := range t.Steps {
		task.Steps = append(task.Steps, model.Step{
			Name:     s.Name,
			Status:   statusOrQueued(s.Status),
			LLM:      s.LLM,
			Progress: s.Progress,
			Duration: s.Duration,
		})
	}

	if err := task.Validate(); err != nil {
		return model.Task{}, err
	}

	return task, nil
}

func statusOrQueued(s string) model.Status {
	if s == "" {
		return model.StatusQueued
	}
	return model.Status(s)
}
