package printer_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slok/opsq/internal/model"
	"github.com/slok/opsq/internal/printer"
)

var fixtureNow = time.Date(2026, 1, 30, 10, 8, 0, 0, time.UTC)

func taskFixture() model.Task {
	return model.Task{
		ID:        "1",
		Name:      "Product Spec Synthesis",
		User:      "You",
		LLM:       model.LLMClaudeSonnet,
		StartTime: time.Date(2026, 1, 30, 10, 0, 0, 0, time.UTC),
		Status:    model.StatusRunning,
		Progress:  50,
		Duration:  "4m 10s",
		Steps: []model.Step{
			{Name: "Research", Status: model.StatusComplete, LLM: model.LLMClaudeSonnet, Progress: 100, Duration: "1m 5s"},
			{Name: "Draft", Status: model.StatusRunning, LLM: "Mistral Large", Progress: 0, Duration: "1m 30s"},
		},
	}
}

func TestTablePrinterPrintTask(t *testing.T) {
	var buf bytes.Buffer
	p := printer.NewTablePrinter(&buf, false)

	err := p.PrintTask(taskFixture(), fixtureNow)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Name:       Product Spec Synthesis")
	assert.Contains(t, out, "Status:     running")
	assert.Contains(t, out, "Progress:   [##########----------] 50%")
	assert.Contains(t, out, "Started:    2026-01-30 10:00:00 UTC (8 minutes ago)")
	assert.Contains(t, out, "Research")
	assert.Contains(t, out, "[##########] 100%")
	assert.Contains(t, out, "Mistral Large")
}

func TestTablePrinterPrintTaskList(t *testing.T) {
	tests := map[string]struct {
		tasks       []model.Task
		counts      model.Counts
		expContains []string
		expMissing  []string
	}{
		"tasks should be printed with the counts": {
			tasks:  []model.Task{taskFixture()},
			counts: model.Counts{Total: 1, Running: 1},
			expContains: []string{
				"ID  NAME",
				"Product Spec Synthesis",
				model.LLMClaudeSonnet,
				"50%",
				"Total: 1  Running: 1  Queued: 0  Complete: 0",
			},
		},
		"no tasks should print only the counts": {
			counts:      model.Counts{Total: 4, Queued: 4},
			expContains: []string{"Total: 4  Running: 0  Queued: 4  Complete: 0"},
			expMissing:  []string{"NAME"},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)
			require := require.New(t)

			var buf bytes.Buffer
			p := printer.NewTablePrinter(&buf, false)

			err := p.PrintTaskList(test.tasks, test.counts)
			require.NoError(err)

			out := buf.String()
			for _, exp := range test.expContains {
				assert.Contains(out, exp)
			}
			for _, exp := range test.expMissing {
				assert.NotContains(out, exp)
			}
		})
	}
}

func TestJSONPrinterPrintTask(t *testing.T) {
	var buf bytes.Buffer
	p := printer.NewJSONPrinter(&buf)

	err := p.PrintTask(taskFixture(), fixtureNow)
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, `"start_time": "2026-01-30T10:00:00Z"`)
	assert.Contains(t, out, `"elapsed": "8 minutes ago"`)
	assert.Contains(t, out, `"llm": "Mistral Large"`)

	var got map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Len(t, got["steps"], 2)
}

func TestJSONPrinterPrintTaskList(t *testing.T) {
	tests := map[string]struct {
		tasks  []model.Task
		counts model.Counts
		expOut string
	}{
		"empty list should print an empty array": {
			counts: model.Counts{},
			expOut: `{
  "tasks": [],
  "counts": {
    "total": 0,
    "running": 0,
    "queued": 0,
    "complete": 0
  }
}
`,
		},
		"tasks should print the summary fields": {
			tasks:  []model.Task{taskFixture()},
			counts: model.Counts{Total: 1, Running: 1},
			expOut: `{
  "tasks": [
    {
      "id": "1",
      "name": "Product Spec Synthesis",
      "user": "You",
      "llm": "Claude Sonnet 4.5",
      "status": "running",
      "progress": 50,
      "duration": "4m 10s"
    }
  ],
  "counts": {
    "total": 1,
    "running": 1,
    "queued": 0,
    "complete": 0
  }
}
`,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			p := printer.NewJSONPrinter(&buf)

			err := p.PrintTaskList(test.tasks, test.counts)
			require.NoError(t, err)
			assert.Equal(t, test.expOut, buf.String())
		})
	}
}

func TestTablePrinterPrintMessage(t *testing.T) {
	var buf bytes.Buffer
	p := printer.NewTablePrinter(&buf, false)

	err := p.PrintMessage("ok")
	require.NoError(t, err)
	assert.Equal(t, "ok", strings.TrimSpace(buf.String()))
}

func TestStylesWithoutColor(t *testing.T) {
	s := printer.NewStyles(false)

	assert.Equal(t, "running", s.Status(model.StatusRunning))
	assert.Equal(t, "unknown", s.Status("unknown"))
	assert.Equal(t, "Mistral Large", s.LLM("Mistral Large"))
	assert.Equal(t, s.LLMColor("Mistral Large"), s.LLMColor("Other LLM"))
	assert.NotEqual(t, s.LLMColor(model.LLMGPT4), s.LLMColor(model.LLMKimiK2))
}
