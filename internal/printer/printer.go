package printer

import (
	"time"

	"github.com/slok/opsq/internal/model"
)

// Printer knows how to print task information in different formats.
type Printer interface {
	PrintTaskList(tasks []model.Task, counts model.Counts) error
	PrintTask(task model.Task, now time.Time) error
	PrintMessage(msg string) error
}
