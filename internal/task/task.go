package task

import (
	"time"

	"github.com/abatilo/gantry/internal/dates"
)

// Status represents the current state of a task.
type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in_progress"
	StatusDone       Status = "done"
)

// Priority represents the importance level of a task.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// PriorityOrder returns the sort order for a priority (lower = higher priority).
func PriorityOrder(p Priority) int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	case PriorityLow:
		return 2
	default:
		return 3
	}
}

// Task represents a scheduled unit of project work.
//
// Date fields hold the strings exactly as they were written. They are parsed
// on demand, and a value that does not parse is treated as absent.
type Task struct {
	ID                string    `yaml:"id"`
	Title             string    `yaml:"name"`
	ProjectID         string    `yaml:"project_id,omitempty"`
	Status            Status    `yaml:"status"`
	Priority          Priority  `yaml:"priority"`
	Progress          int       `yaml:"progress"`
	IsMilestone       bool      `yaml:"is_milestone,omitempty"`
	StartDate         string    `yaml:"start_date,omitempty"`
	EndDate           string    `yaml:"end_date,omitempty"`
	BaselineStartDate string    `yaml:"baseline_start_date,omitempty"`
	BaselineEndDate   string    `yaml:"baseline_end_date,omitempty"`
	DependsOn         []string  `yaml:"dependency_ids,omitempty"`
	CreatedAt         time.Time `yaml:"created_at"`
	Description       string    `yaml:"-"` // Stored as markdown body, not frontmatter
}

// Span returns the parsed start and end dates. ok is false when either is
// missing or malformed.
func (t *Task) Span() (start, end time.Time, ok bool) {
	start, okStart := dates.Parse(t.StartDate)
	end, okEnd := dates.Parse(t.EndDate)
	return start, end, okStart && okEnd
}

// BaselineSpan returns the parsed baseline dates; a nil pointer means the
// date is absent or malformed.
func (t *Task) BaselineSpan() (start, end *time.Time) {
	if s, ok := dates.Parse(t.BaselineStartDate); ok {
		start = &s
	}
	if e, ok := dates.Parse(t.BaselineEndDate); ok {
		end = &e
	}
	return start, end
}

// Duration returns the task length in days, never negative. A task with a
// missing or malformed date has zero duration.
func (t *Task) Duration() float64 {
	start, end, ok := t.Span()
	if !ok {
		return 0
	}
	return max(0, dates.Days(start, end))
}

// HasBaseline reports whether both baseline dates are present and valid.
func (t *Task) HasBaseline() bool {
	s, e := t.BaselineSpan()
	return s != nil && e != nil
}

// IsValidStatus checks if a status string is valid.
func IsValidStatus(s Status) bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone:
		return true
	default:
		return false
	}
}

// IsValidPriority checks if a priority string is valid.
func IsValidPriority(p Priority) bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	default:
		return false
	}
}

// FilterProject returns the tasks belonging to projectID. An empty projectID
// selects every task (the consolidated view).
func FilterProject(tasks []*Task, projectID string) []*Task {
	if projectID == "" {
		return tasks
	}
	var out []*Task
	for _, t := range tasks {
		if t.ProjectID == projectID {
			out = append(out, t)
		}
	}
	return out
}
