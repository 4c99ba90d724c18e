package printer

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/slok/opsq/internal/model"
)

const neutralColor = lipgloss.Color("#6366f1")

var (
	statusColors = map[model.Status]lipgloss.Color{
		model.StatusRunning:  lipgloss.Color("#6366f1"),
		model.StatusQueued:   lipgloss.Color("#f59e0b"),
		model.StatusComplete: lipgloss.Color("#16a34a"),
	}

	llmColors = map[string]lipgloss.Color{
		model.LLMClaudeSonnet: lipgloss.Color("#8b5cf6"),
		model.LLMGPT4:         lipgloss.Color("#22c55e"),
		model.LLMKimiK2:       lipgloss.Color("#22d3ee"),
	}
)

// Styles renders the status and LLM badges. Unknown statuses and LLMs use a
// neutral style.
type Styles struct {
	color bool
}

// NewStyles returns the badge styles, color disables every color when false.
func NewStyles(color bool) Styles {
	return Styles{color: color}
}

// Status renders a status badge.
func (s Styles) Status(st model.Status) string {
	c, ok := statusColors[st]
	if !ok {
		c = neutralColor
	}
	return s.render(c, true, string(st))
}

// LLM renders an LLM name with its color.
func (s Styles) LLM(llm string) string {
	return s.render(s.LLMColor(llm), false, llm)
}

// LLMColor returns the color of an LLM, falling back to the neutral color.
func (s Styles) LLMColor(llm string) lipgloss.Color {
	c, ok := llmColors[llm]
	if !ok {
		return neutralColor
	}
	return c
}

// Muted renders secondary text.
func (s Styles) Muted(text string) string {
	return s.render(lipgloss.Color("#888888"), false, text)
}

// Bar renders a progress bar with the received color.
func (s Styles) Bar(progress, width int, c lipgloss.Color) string {
	return s.render(c, false, ProgressBar(progress, width))
}

func (s Styles) render(c lipgloss.Color, bold bool, text string) string {
	if !s.color {
		return text
	}
	return lipgloss.NewStyle().Foreground(c).Bold(bold).Render(text)
}
