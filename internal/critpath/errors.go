package critpath

import "fmt"

// CycleError indicates the dependency graph loops back on itself, so no
// critical path exists until the dependencies are fixed.
type CycleError struct {
	ID string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("circular dependency detected at task %s", e.ID)
}
