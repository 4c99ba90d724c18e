package printer

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/slok/opsq/internal/model"
)

const progressBarWidth = 20

// TablePrinter prints task information in a table format.
type TablePrinter struct {
	writer io.Writer
	styles Styles
}

// NewTablePrinter creates a new table printer, color enables the status and LLM colors.
func NewTablePrinter(w io.Writer, color bool) *TablePrinter {
	return &TablePrinter{
		writer: w,
		styles: NewStyles(color),
	}
}

// PrintTaskList prints tasks in a table format followed by the status counts.
func (t *TablePrinter) PrintTaskList(tasks []model.Task, counts model.Counts) error {
	if len(tasks) > 0 {
		tw := tabwriter.NewWriter(t.writer, 0, 0, 2, ' ', 0)

		// Print header.
		fmt.Fprintln(tw, "ID\tNAME\tUSER\tLLM\tSTATUS\tPROGRESS\tDURATION")

		// Print rows.
		for _, task := range tasks {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d%%\t%s\n",
				task.ID,
				task.Name,
				task.User,
				t.styles.LLM(task.LLM),
				t.styles.Status(task.Status),
				task.Progress,
				task.Duration,
			)
		}

		if err := tw.Flush(); err != nil {
			return err
		}
		fmt.Fprintln(t.writer)
	}

	fmt.Fprintf(t.writer, "Total: %d  Running: %d  Queued: %d  Complete: %d\n",
		counts.Total, counts.Running, counts.Queued, counts.Complete)

	return nil
}

// PrintTask prints the detailed task status with its pipeline.
func (t *TablePrinter) PrintTask(task model.Task, now time.Time) error {
	fmt.Fprintf(t.writer, "Name:       %s\n", task.Name)
	fmt.Fprintf(t.writer, "ID:         %s\n", task.ID)
	fmt.Fprintf(t.writer, "User:       %s\n", task.User)
	fmt.Fprintf(t.writer, "LLM:        %s\n", t.styles.LLM(task.LLM))
	fmt.Fprintf(t.writer, "Status:     %s\n", t.styles.Status(task.Status))
	fmt.Fprintf(t.writer, "Progress:   %s %d%%\n", t.styles.Bar(task.Progress, progressBarWidth, t.styles.LLMColor(task.LLM)), task.Progress)
	fmt.Fprintf(t.writer, "Duration:   %s\n", task.Duration)
	fmt.Fprintf(t.writer, "Started:    %s (%s)\n", FormatTimestamp(task.StartTime), TimeAgo(task.StartTime, now))

	if len(task.Steps) == 0 {
		return nil
	}

	fmt.Fprintln(t.writer)
	tw := tabwriter.NewWriter(t.writer, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tSTEP\tLLM\tSTATUS\tPROGRESS\tDURATION")
	for i, s := range task.Steps {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s %d%%\t%s\n",
			i+1,
			s.Name,
			t.styles.LLM(s.LLM),
			t.styles.Status(s.Status),
			t.styles.Bar(s.Progress, progressBarWidth/2, t.styles.LLMColor(s.LLM)),
			s.Progress,
			s.Duration,
		)
	}

	return tw.Flush()
}

// PrintMessage prints a simple text message.
func (t *TablePrinter) PrintMessage(msg string) error {
	fmt.Fprintln(t.writer, msg)
	return nil
}
