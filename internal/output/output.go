package output

import (
	"github.com/abatilo/gantry/internal/baseline"
	"github.com/abatilo/gantry/internal/critpath"
	"github.com/abatilo/gantry/internal/deps"
	"github.com/abatilo/gantry/internal/task"
)

// Formatter defines the interface for output formatting.
type Formatter interface {
	FormatTask(t *task.Task) string
	FormatTaskList(tasks []*task.Task) string
	FormatError(err error) string
	FormatMessage(msg string) string
	FormatGraph(nodes []deps.Node) string
	// FormatCriticalPath renders a critical path; a nil result means there
	// were no tasks to schedule.
	FormatCriticalPath(r *critpath.Result) string
	FormatDeviation(r baseline.Report) string
	FormatBaseline(s *baseline.Snapshot) string
	FormatBaselineList(snaps []*baseline.Snapshot) string
}

// New returns the JSON formatter when asJSON is set, otherwise the human
// formatter with or without color.
func New(asJSON, color bool) Formatter {
	if asJSON {
		return NewJSONFormatter()
	}
	return NewHumanFormatter(color)
}
