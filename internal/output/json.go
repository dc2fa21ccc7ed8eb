package output

import (
	"encoding/json"
	"time"

	"github.com/abatilo/gantry/internal/baseline"
	"github.com/abatilo/gantry/internal/critpath"
	"github.com/abatilo/gantry/internal/deps"
	"github.com/abatilo/gantry/internal/task"
)

// JSONFormatter formats output as JSON.
type JSONFormatter struct{}

// marshalJSON marshals a value to indented JSON with a trailing newline.
func marshalJSON(v any) string {
	data, _ := json.MarshalIndent(v, "", "  ")
	return string(data) + "\n"
}

// NewJSONFormatter creates a new JSONFormatter.
func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

// taskJSON is the JSON representation of a task.
type taskJSON struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	ProjectID         string   `json:"project_id,omitempty"`
	Status            string   `json:"status"`
	Priority          string   `json:"priority"`
	Progress          int      `json:"progress"`
	IsMilestone       bool     `json:"is_milestone"`
	StartDate         string   `json:"start_date,omitempty"`
	EndDate           string   `json:"end_date,omitempty"`
	BaselineStartDate string   `json:"baseline_start_date,omitempty"`
	BaselineEndDate   string   `json:"baseline_end_date,omitempty"`
	Duration          float64  `json:"duration"`
	DependencyIDs     []string `json:"dependency_ids,omitempty"`
	CreatedAt         string   `json:"created_at"`
	Description       string   `json:"description,omitempty"`
}

func toTaskJSON(t *task.Task) taskJSON {
	return taskJSON{
		ID:                t.ID,
		Name:              t.Title,
		ProjectID:         t.ProjectID,
		Status:            string(t.Status),
		Priority:          string(t.Priority),
		Progress:          t.Progress,
		IsMilestone:       t.IsMilestone,
		StartDate:         t.StartDate,
		EndDate:           t.EndDate,
		BaselineStartDate: t.BaselineStartDate,
		BaselineEndDate:   t.BaselineEndDate,
		Duration:          t.Duration(),
		DependencyIDs:     t.DependsOn,
		CreatedAt:         t.CreatedAt.Format(time.RFC3339),
		Description:       t.Description,
	}
}

// FormatTask formats a single task as JSON.
func (f *JSONFormatter) FormatTask(t *task.Task) string {
	return marshalJSON(toTaskJSON(t))
}

// FormatTaskList formats a list of tasks as JSON.
func (f *JSONFormatter) FormatTaskList(tasks []*task.Task) string {
	jsonTasks := make([]taskJSON, len(tasks))
	for i, t := range tasks {
		jsonTasks[i] = toTaskJSON(t)
	}
	return marshalJSON(jsonTasks)
}

// errorJSON is the JSON representation of an error.
type errorJSON struct {
	Error string `json:"error"`
}

// FormatError formats an error as JSON.
func (f *JSONFormatter) FormatError(err error) string {
	return marshalJSON(errorJSON{Error: err.Error()})
}

// messageJSON is the JSON representation of a message.
type messageJSON struct {
	Message string `json:"message"`
}

// FormatMessage formats a simple message as JSON.
func (f *JSONFormatter) FormatMessage(msg string) string {
	return marshalJSON(messageJSON{Message: msg})
}

// graphNodeJSON is the JSON representation of a graph node.
type graphNodeJSON struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Status   string          `json:"status"`
	Priority string          `json:"priority"`
	Cycle    bool            `json:"cycle,omitempty"`
	Children []graphNodeJSON `json:"children,omitempty"`
}

func toGraphNodeJSON(node deps.Node) graphNodeJSON {
	children := make([]graphNodeJSON, len(node.Children))
	for i, c := range node.Children {
		children[i] = toGraphNodeJSON(c)
	}
	return graphNodeJSON{
		ID:       node.Task.ID,
		Name:     node.Task.Title,
		Status:   string(node.Task.Status),
		Priority: string(node.Task.Priority),
		Cycle:    node.Cut,
		Children: children,
	}
}

// FormatGraph formats a dependency graph as JSON.
func (f *JSONFormatter) FormatGraph(nodes []deps.Node) string {
	jsonNodes := make([]graphNodeJSON, len(nodes))
	for i, n := range nodes {
		jsonNodes[i] = toGraphNodeJSON(n)
	}
	return marshalJSON(jsonNodes)
}

// FormatCriticalPath formats the critical path summary as JSON.
func (f *JSONFormatter) FormatCriticalPath(r *critpath.Result) string {
	return marshalJSON(critpath.Summarize(r))
}

type deviationJSON struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	StartDays float64 `json:"start_days"`
	EndDays   float64 `json:"end_days"`
	Width     float64 `json:"width"`
	Offset    float64 `json:"offset"`
	Delayed   bool    `json:"delayed"`
}

type reportJSON struct {
	AverageDeviation float64         `json:"average_deviation"`
	TasksDelayed     int             `json:"tasks_delayed"`
	Items            []deviationJSON `json:"items"`
}

// FormatDeviation formats a deviation report as JSON.
func (f *JSONFormatter) FormatDeviation(r baseline.Report) string {
	out := reportJSON{
		AverageDeviation: r.AverageDeviation,
		TasksDelayed:     r.TasksDelayed,
		Items:            make([]deviationJSON, len(r.Items)),
	}
	for i, d := range r.Items {
		out.Items[i] = deviationJSON{
			ID:        d.Task.ID,
			Name:      d.Task.Title,
			StartDays: d.StartDays,
			EndDays:   d.EndDays,
			Width:     d.Metrics.Width,
			Offset:    d.Metrics.Offset,
			Delayed:   d.Delayed(),
		}
	}
	return marshalJSON(out)
}

type entryJSON struct {
	Start string `json:"start,omitempty"`
	End   string `json:"end,omitempty"`
}

type baselineJSON struct {
	ID        string               `json:"id"`
	Name      string               `json:"name"`
	ProjectID string               `json:"project_id,omitempty"`
	Color     string               `json:"color"`
	CreatedAt string               `json:"created_at"`
	Entries   map[string]entryJSON `json:"entries"`
}

func toBaselineJSON(s *baseline.Snapshot) baselineJSON {
	entries := make(map[string]entryJSON, len(s.Entries))
	for id, e := range s.Entries {
		entries[id] = entryJSON{Start: e.Start, End: e.End}
	}
	return baselineJSON{
		ID:        s.ID,
		Name:      s.Name,
		ProjectID: s.ProjectID,
		Color:     s.Color,
		CreatedAt: s.CreatedAt.Format(time.RFC3339),
		Entries:   entries,
	}
}

// FormatBaseline formats a snapshot as JSON.
func (f *JSONFormatter) FormatBaseline(s *baseline.Snapshot) string {
	return marshalJSON(toBaselineJSON(s))
}

// FormatBaselineList formats snapshots as a JSON array.
func (f *JSONFormatter) FormatBaselineList(snaps []*baseline.Snapshot) string {
	out := make([]baselineJSON, len(snaps))
	for i, s := range snaps {
		out[i] = toBaselineJSON(s)
	}
	return marshalJSON(out)
}
