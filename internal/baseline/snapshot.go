package baseline

import (
	"time"

	"github.com/google/uuid"

	"github.com/abatilo/gantry/internal/task"
)

// DefaultColor is the overlay color given to new snapshots.
const DefaultColor = "#9ca3af"

// Entry is the recorded schedule of one task.
type Entry struct {
	Start string `toml:"start,omitempty"`
	End   string `toml:"end,omitempty"`
}

// Snapshot is a named, point-in-time record of a project's task dates.
type Snapshot struct {
	ID        string           `toml:"id"`
	Name      string           `toml:"name"`
	ProjectID string           `toml:"project_id,omitempty"`
	Color     string           `toml:"color"`
	CreatedAt time.Time        `toml:"created_at"`
	Entries   map[string]Entry `toml:"entries"`
}

// Capture records the current start and end dates of tasks.
func Capture(name, projectID string, tasks []*task.Task, now time.Time) *Snapshot {
	s := &Snapshot{
		ID:        uuid.NewString(),
		Name:      name,
		ProjectID: projectID,
		Color:     DefaultColor,
		CreatedAt: now.UTC(),
		Entries:   make(map[string]Entry, len(tasks)),
	}
	for _, t := range tasks {
		s.Entries[t.ID] = Entry{Start: t.StartDate, End: t.EndDate}
	}
	return s
}

// Apply copies the recorded dates into the tasks' baseline fields. Tasks
// that were not part of the snapshot have their baseline cleared. It returns
// the tasks whose baseline changed.
func (s *Snapshot) Apply(tasks []*task.Task) []*task.Task {
	var changed []*task.Task
	for _, t := range tasks {
		e := s.Entries[t.ID]
		if t.BaselineStartDate == e.Start && t.BaselineEndDate == e.End {
			continue
		}
		t.BaselineStartDate = e.Start
		t.BaselineEndDate = e.End
		changed = append(changed, t)
	}
	return changed
}

// CheckProject returns an error when the snapshot was taken for a project
// other than projectID. Snapshots taken over the consolidated view and an
// empty projectID are accepted.
func (s *Snapshot) CheckProject(projectID string) error {
	if s.ProjectID == "" || projectID == "" || s.ProjectID == projectID {
		return nil
	}
	return ProjectMismatchError{ID: s.ID, Want: projectID, Got: s.ProjectID}
}
