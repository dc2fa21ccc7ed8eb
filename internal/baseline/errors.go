package baseline

import "fmt"

// ProjectMismatchError indicates a snapshot was applied to the wrong project.
type ProjectMismatchError struct {
	ID   string
	Want string
	Got  string
}

func (e ProjectMismatchError) Error() string {
	return fmt.Sprintf("baseline %s belongs to project %s, not %s", e.ID, e.Got, e.Want)
}
