//nolint:revive // Package name intentionally matches stdlib for domain clarity
package errors

import "fmt"

// NotInitializedError indicates the gantry store doesn't exist yet.
type NotInitializedError struct{}

func (e NotInitializedError) Error() string {
	return "gantry not initialized: run 'gantry init' first"
}

// AlreadyInitializedError indicates the gantry store already exists.
type AlreadyInitializedError struct{}

func (e AlreadyInitializedError) Error() string {
	return "gantry already initialized"
}

// TaskNotFoundError indicates the task ID doesn't match any stored task.
type TaskNotFoundError struct {
	ID string
}

func (e TaskNotFoundError) Error() string {
	return fmt.Sprintf("task not found: %s", e.ID)
}

// BaselineNotFoundError indicates the baseline ID doesn't match any snapshot.
type BaselineNotFoundError struct {
	ID string
}

func (e BaselineNotFoundError) Error() string {
	return fmt.Sprintf("baseline not found: %s", e.ID)
}

// BlockedError indicates a task has unfinished dependencies.
type BlockedError struct {
	ID        string
	BlockedBy []string
}

func (e BlockedError) Error() string {
	return fmt.Sprintf("task %s is blocked by: %v", e.ID, e.BlockedBy)
}

// InvalidStatusError indicates the task has the wrong status for the operation.
type InvalidStatusError struct {
	ID       string
	Current  string
	Expected string
}

func (e InvalidStatusError) Error() string {
	return fmt.Sprintf("task %s has status '%s', expected '%s'", e.ID, e.Current, e.Expected)
}

// InvalidStatusValueError indicates an unknown status value.
type InvalidStatusValueError struct {
	Value string
}

func (e InvalidStatusValueError) Error() string {
	return fmt.Sprintf("invalid status: %s (valid: todo, in_progress, done)", e.Value)
}

// InvalidPriorityError indicates an invalid priority value.
type InvalidPriorityError struct {
	Value string
}

func (e InvalidPriorityError) Error() string {
	return fmt.Sprintf("invalid priority: %s (valid: high, medium, low)", e.Value)
}

// InvalidDateError indicates a date typed by the user could not be parsed.
type InvalidDateError struct {
	Field string
	Value string
}

func (e InvalidDateError) Error() string {
	return fmt.Sprintf("invalid %s '%s': use YYYY-MM-DD", e.Field, e.Value)
}

// InvalidProgressError indicates a progress value outside 0-100.
type InvalidProgressError struct {
	Value int
}

func (e InvalidProgressError) Error() string {
	return fmt.Sprintf("invalid progress: %d (valid: 0-100)", e.Value)
}

// NotInRepoError indicates the command was run outside a git repository.
type NotInRepoError struct{}

func (e NotInRepoError) Error() string {
	return "not in a git repository (gantry requires a project root)"
}

// UnknownDriverError indicates an unsupported storage driver was configured.
type UnknownDriverError struct {
	Driver string
}

func (e UnknownDriverError) Error() string {
	return fmt.Sprintf("unknown storage driver: %s (valid: markdown, sqlite)", e.Driver)
}

// ScheduleIntegrityError wraps a failure caused by inconsistent stored task
// data, such as a dependency cycle introduced by hand-editing.
type ScheduleIntegrityError struct {
	Err error
}

func (e ScheduleIntegrityError) Error() string {
	return fmt.Sprintf("schedule data is inconsistent: %v (check dependency_ids)", e.Err)
}

func (e ScheduleIntegrityError) Unwrap() error {
	return e.Err
}
