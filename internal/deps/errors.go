package deps

import "fmt"

// DependencyCycleError indicates adding a dependency would create a cycle.
type DependencyCycleError struct {
	From string
	To   string
}

func (e DependencyCycleError) Error() string {
	return fmt.Sprintf("adding dependency %s -> %s would create a cycle", e.From, e.To)
}
