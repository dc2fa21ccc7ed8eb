//nolint:testpackage // Tests require internal access for thorough testing
package errors

import (
	stderrors "errors"
	"testing"
)

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"not initialized", NotInitializedError{}, "gantry not initialized: run 'gantry init' first"},
		{"already initialized", AlreadyInitializedError{}, "gantry already initialized"},
		{"task not found", TaskNotFoundError{ID: "xyz789"}, "task not found: xyz789"},
		{"baseline not found", BaselineNotFoundError{ID: "b-1"}, "baseline not found: b-1"},
		{
			"blocked",
			BlockedError{ID: "task1", BlockedBy: []string{"task2", "task3"}},
			"task task1 is blocked by: [task2 task3]",
		},
		{
			"invalid status",
			InvalidStatusError{ID: "abc", Current: "done", Expected: "todo"},
			"task abc has status 'done', expected 'todo'",
		},
		{"invalid status value", InvalidStatusValueError{Value: "paused"}, "invalid status: paused (valid: todo, in_progress, done)"},
		{"invalid priority", InvalidPriorityError{Value: "urgent"}, "invalid priority: urgent (valid: high, medium, low)"},
		{"invalid date", InvalidDateError{Field: "start", Value: "soon"}, "invalid start 'soon': use YYYY-MM-DD"},
		{"invalid progress", InvalidProgressError{Value: 120}, "invalid progress: 120 (valid: 0-100)"},
		{"unknown driver", UnknownDriverError{Driver: "mongo"}, "unknown storage driver: mongo (valid: markdown, sqlite)"},
		{
			"schedule integrity",
			ScheduleIntegrityError{Err: stderrors.New("circular dependency detected at task a")},
			"schedule data is inconsistent: circular dependency detected at task a (check dependency_ids)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestScheduleIntegrityErrorUnwrap(t *testing.T) {
	cause := stderrors.New("cycle")
	err := ScheduleIntegrityError{Err: cause}
	if !stderrors.Is(err, cause) {
		t.Error("ScheduleIntegrityError should unwrap to its cause")
	}
}
