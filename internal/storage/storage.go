package storage

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	gantryerrors "github.com/abatilo/gantry/internal/errors"
	"github.com/abatilo/gantry/internal/task"
)

// MarkdownExt is the extension of task files in the markdown store.
const MarkdownExt = ".md"

// Store keeps one markdown file per task in a directory.
type Store struct {
	basePath string
}

// NewStoreWithPath creates a Store with a custom base path.
func NewStoreWithPath(path string) *Store {
	return &Store{basePath: path}
}

// BasePath returns the base path of the store.
func (s *Store) BasePath() string {
	return s.basePath
}

// IsInitialized checks if the task directory exists.
func (s *Store) IsInitialized() bool {
	info, err := os.Stat(s.basePath)
	return err == nil && info.IsDir()
}

// Init creates the task directory.
func (s *Store) Init(force bool) error {
	if s.IsInitialized() && !force {
		return gantryerrors.AlreadyInitializedError{}
	}
	//nolint:gosec // G301: 0755 is appropriate for user-accessible task directory
	return os.MkdirAll(s.basePath, 0o755)
}

// Close is a no-op; the markdown store holds no open handles.
func (s *Store) Close() error {
	return nil
}

// taskPath returns the full path for a task file.
func (s *Store) taskPath(id string) string {
	return filepath.Join(s.basePath, id+MarkdownExt)
}

// Save writes a task to disk.
func (s *Store) Save(t *task.Task) error {
	if !s.IsInitialized() {
		return gantryerrors.NotInitializedError{}
	}
	content, err := SerializeMarkdown(t)
	if err != nil {
		return fmt.Errorf("serialize task %s: %w", t.ID, err)
	}
	//nolint:gosec // G306: 0644 is appropriate for user-readable task files
	return os.WriteFile(s.taskPath(t.ID), content, 0o644)
}

// Load reads a task from disk.
func (s *Store) Load(id string) (*task.Task, error) {
	if !s.IsInitialized() {
		return nil, gantryerrors.NotInitializedError{}
	}
	content, err := os.ReadFile(s.taskPath(id))
	if os.IsNotExist(err) {
		return nil, gantryerrors.TaskNotFoundError{ID: id}
	}
	if err != nil {
		return nil, err
	}
	t, err := ParseMarkdown(content)
	if err != nil {
		return nil, fmt.Errorf("parse task %s: %w", id, err)
	}
	return t, nil
}

// Delete removes a task file.
func (s *Store) Delete(id string) error {
	if !s.IsInitialized() {
		return gantryerrors.NotInitializedError{}
	}
	err := os.Remove(s.taskPath(id))
	if os.IsNotExist(err) {
		return gantryerrors.TaskNotFoundError{ID: id}
	}
	return err
}

// List returns all tasks matching filter, sorted with SortTasks.
func (s *Store) List(filter Filter) ([]*task.Task, error) {
	if !s.IsInitialized() {
		return nil, gantryerrors.NotInitializedError{}
	}

	entries, err := os.ReadDir(s.basePath)
	if err != nil {
		return nil, err
	}

	var tasks []*task.Task
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), MarkdownExt) {
			continue
		}
		id := strings.TrimSuffix(entry.Name(), MarkdownExt)
		t, loadErr := s.Load(id)
		if loadErr != nil {
			slog.Warn("skipping malformed task file", "file", entry.Name(), "err", loadErr)
			continue
		}
		if filter.Matches(t) {
			tasks = append(tasks, t)
		}
	}

	SortTasks(tasks)
	return tasks, nil
}

// AllIDs returns all task IDs (for ID generation collision checking).
func (s *Store) AllIDs() (map[string]bool, error) {
	if !s.IsInitialized() {
		return nil, gantryerrors.NotInitializedError{}
	}

	entries, err := os.ReadDir(s.basePath)
	if err != nil {
		return nil, err
	}

	ids := make(map[string]bool)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), MarkdownExt) {
			continue
		}
		ids[strings.TrimSuffix(entry.Name(), MarkdownExt)] = true
	}
	return ids, nil
}

// RemoveDependency removes a dependency from all tasks that reference it.
func (s *Store) RemoveDependency(depID string) error {
	tasks, err := s.List(Filter{})
	if err != nil {
		return err
	}

	for _, t := range tasks {
		if removeDep(t, depID) {
			if err = s.Save(t); err != nil {
				return err
			}
		}
	}
	return nil
}

// CreateTask creates a new task with generated ID.
func (s *Store) CreateTask(nt NewTask) (*task.Task, error) {
	if !s.IsInitialized() {
		return nil, gantryerrors.NotInitializedError{}
	}

	existingIDs, err := s.AllIDs()
	if err != nil {
		return nil, err
	}
	t := buildTask(nt, func(id string) bool { return existingIDs[id] })

	if err = s.Save(t); err != nil {
		return nil, err
	}
	return t, nil
}

// removeDep drops depID from t.DependsOn, reporting whether it was present.
func removeDep(t *task.Task, depID string) bool {
	modified := false
	newDeps := make([]string, 0, len(t.DependsOn))
	for _, d := range t.DependsOn {
		if d != depID {
			newDeps = append(newDeps, d)
		} else {
			modified = true
		}
	}
	if modified {
		t.DependsOn = newDeps
	}
	return modified
}
