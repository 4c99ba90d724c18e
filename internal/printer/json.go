package printer

import (
	"encoding/json"
	"io"
	"time"

	"github.com/slok/opsq/internal/model"
)

// JSONPrinter prints task information in JSON format.
type JSONPrinter struct {
	writer io.Writer
}

// NewJSONPrinter creates a new JSON printer.
func NewJSONPrinter(w io.Writer) *JSONPrinter {
	return &JSONPrinter{writer: w}
}

// listItem represents a task in the list output (subset of fields).
type listItem struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	User     string `json:"user"`
	LLM      string `json:"llm"`
	Status   string `json:"status"`
	Progress int    `json:"progress"`
	Duration string `json:"duration"`
}

// countsOutput represents the status counts output.
type countsOutput struct {
	Total    int `json:"total"`
	Running  int `json:"running"`
	Queued   int `json:"queued"`
	Complete int `json:"complete"`
}

// listOutput represents the task list output.
type listOutput struct {
	Tasks  []listItem   `json:"tasks"`
	Counts countsOutput `json:"counts"`
}

// taskOutput represents the full task status output.
type taskOutput struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	User      string       `json:"user"`
	LLM       string       `json:"llm"`
	Status    string       `json:"status"`
	Progress  int          `json:"progress"`
	Duration  string       `json:"duration"`
	StartTime time.Time    `json:"start_time"`
	Elapsed   string       `json:"elapsed"`
	Steps     []stepOutput `json:"steps"`
}

// stepOutput represents a pipeline step output.
type stepOutput struct {
	Name     string `json:"name"`
	LLM      string `json:"llm"`
	Status   string `json:"status"`
	Progress int    `json:"progress"`
	Duration string `json:"duration"`
}

// messageOutput represents a simple message output.
type messageOutput struct {
	Message string `json:"message"`
}

// PrintTaskList prints tasks in JSON format with a subset of fields.
func (j *JSONPrinter) PrintTaskList(tasks []model.Task, counts model.Counts) error {
	output := listOutput{
		Tasks: make([]listItem, len(tasks)),
		Counts: countsOutput{
			Total:    counts.Total,
			Running:  counts.Running,
			Queued:   counts.Queued,
			Complete: counts.Complete,
		},
	}
	for i, t := range tasks {
		output.Tasks[i] = listItem{
			ID:       t.ID,
			Name:     t.Name,
			User:     t.User,
			LLM:      t.LLM,
			Status:   string(t.Status),
			Progress: t.Progress,
			Duration: t.Duration,
		}
	}

	return j.encode(output)
}

// PrintTask prints the detailed task status in JSON format.
func (j *JSONPrinter) PrintTask(task model.Task, now time.Time) error {
	output := taskOutput{
		ID:        task.ID,
		Name:      task.Name,
		User:      task.User,
		LLM:       task.LLM,
		Status:    string(task.Status),
		Progress:  task.Progress,
		Duration:  task.Duration,
		StartTime: task.StartTime.UTC(),
		Elapsed:   TimeAgo(task.StartTime, now),
		Steps:     make([]stepOutput, len(task.Steps)),
	}
	for i, s := range task.Steps {
		output.Steps[i] = stepOutput{
			Name:     s.Name,
			LLM:      s.LLM,
			Status:   string(s.Status),
			Progress: s.Progress,
			Duration: s.Duration,
		}
	}

	return j.encode(output)
}

// PrintMessage prints a simple message in JSON format.
func (j *JSONPrinter) PrintMessage(msg string) error {
	return j.encode(messageOutput{Message: msg})
}

func (j *JSONPrinter) encode(v any) error {
	enc := json.NewEncoder(j.writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
