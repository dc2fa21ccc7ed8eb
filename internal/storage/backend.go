package storage

import (
	"sort"
	"time"

	"github.com/abatilo/gantry/internal/dates"
	gantryerrors "github.com/abatilo/gantry/internal/errors"
	"github.com/abatilo/gantry/internal/task"
)

const (
	DriverMarkdown = "markdown"
	DriverSQLite   = "sqlite"

	gantryDir = ".gantry"
)

// Backend is a task data source. Implementations are not safe for
// concurrent use by multiple processes beyond what the underlying medium
// guarantees.
type Backend interface {
	BasePath() string
	IsInitialized() bool
	Init(force bool) error
	Save(t *task.Task) error
	Load(id string) (*task.Task, error)
	Delete(id string) error
	List(filter Filter) ([]*task.Task, error)
	CreateTask(nt NewTask) (*task.Task, error)
	RemoveDependency(depID string) error
	Close() error
}

// Options selects and locates a backend.
type Options struct {
	Driver string
	// Path is the base directory; empty means ~/.gantry/<project-root>.
	Path string
}

// Open returns the backend described by opts. The backend is not created
// on disk until Init is called.
func Open(opts Options) (Backend, error) {
	basePath := opts.Path
	if basePath == "" {
		p, err := DefaultBasePath()
		if err != nil {
			return nil, err
		}
		basePath = p
	}

	switch opts.Driver {
	case "", DriverMarkdown:
		return NewStoreWithPath(basePath), nil
	case DriverSQLite:
		return NewSQLiteStore(basePath), nil
	default:
		return nil, gantryerrors.UnknownDriverError{Driver: opts.Driver}
	}
}

// NewTask holds the user-supplied fields of a task being created.
type NewTask struct {
	Title       string
	Description string
	ProjectID   string
	Priority    task.Priority
	StartDate   string
	EndDate     string
	IsMilestone bool
	DependsOn   []string
}

// buildTask assigns an ID and creation time to nt.
func buildTask(nt NewTask, exists func(string) bool) *task.Task {
	createdAt := time.Now().UTC()
	return &task.Task{
		ID:          task.NewID(nt.Title, nt.ProjectID, createdAt, exists),
		Title:       nt.Title,
		ProjectID:   nt.ProjectID,
		Status:      task.StatusTodo,
		Priority:    nt.Priority,
		StartDate:   nt.StartDate,
		EndDate:     nt.EndDate,
		IsMilestone: nt.IsMilestone,
		DependsOn:   nt.DependsOn,
		CreatedAt:   createdAt,
		Description: nt.Description,
	}
}

// Filter controls which tasks to include in list results.
type Filter struct {
	Todo       bool
	InProgress bool
	Done       bool
	ProjectID  string
}

// Matches returns true if the task should be included.
func (f Filter) Matches(t *task.Task) bool {
	if f.ProjectID != "" && t.ProjectID != f.ProjectID {
		return false
	}
	// If no status filter is set, include all
	if !f.Todo && !f.InProgress && !f.Done {
		return true
	}
	switch t.Status {
	case task.StatusTodo:
		return f.Todo
	case task.StatusInProgress:
		return f.InProgress
	case task.StatusDone:
		return f.Done
	default:
		return false
	}
}

// SortTasks orders tasks by start date (undated last), then priority, then
// creation time, then ID, so list output and critical path tie-breaks are
// stable across backends.
func SortTasks(tasks []*task.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		a, b := tasks[i], tasks[j]
		sa, okA := dates.Parse(a.StartDate)
		sb, okB := dates.Parse(b.StartDate)
		if okA != okB {
			return okA
		}
		if okA && !sa.Equal(sb) {
			return sa.Before(sb)
		}
		pa := task.PriorityOrder(a.Priority)
		pb := task.PriorityOrder(b.Priority)
		if pa != pb {
			return pa < pb
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
}
