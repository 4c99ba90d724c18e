// Package view has the read only projections the presentation layer uses
// over the tasks. None of them modify the received tasks.
package view

import (
	"strings"

	"github.com/slok/opsq/internal/model"
)

// FilterScope returns every task for the team scope, or only the ones owned by
// user for the individual scope. Unknown scopes behave like the team scope.
func FilterScope(tasks []model.Task, scope model.Scope, user string) []model.Task {
	if scope != model.ScopeIndividual {
		return tasks
	}

	filtered := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.User == user {
			filtered = append(filtered, t)
		}
	}
	return filtered
}

// Search returns the tasks whose name, user or LLM contains the query, case
// insensitive. A blank query returns the tasks unchanged.
func Search(tasks []model.Task, query string) []model.Task {
	if strings.TrimSpace(query) == "" {
		return tasks
	}

	q := strings.ToLower(query)
	found := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if strings.Contains(strings.ToLower(t.Name), q) ||
			strings.Contains(strings.ToLower(t.User), q) ||
			strings.Contains(strings.ToLower(t.LLM), q) {
			found = append(found, t)
		}
	}
	return found
}

// ResolveSelection returns the task with the selected ID if present, falling
// back to the first task. Returns false when there is nothing to select.
func ResolveSelection(tasks []model.Task, selectedID string) (model.Task, bool) {
	if len(tasks) == 0 {
		return model.Task{}, false
	}

	for _, t := range tasks {
		if t.ID == selectedID {
			return t, true
		}
	}
	return tasks[0], true
}

// Count returns the number of tasks per status.
func Count(tasks []model.Task) model.Counts {
	c := model.Counts{Total: len(tasks)}
	for _, t := range tasks {
		switch t.Status {
		case model.StatusRunning:
			c.Running++
		case model.StatusQueued:
			c.Queued++
		case model.StatusComplete:
			c.Complete++
		}
	}
	return c
}
