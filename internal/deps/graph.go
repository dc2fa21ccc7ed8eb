package deps

import (
	"slices"
	"sort"

	gantryerrors "github.com/abatilo/gantry/internal/errors"
	"github.com/abatilo/gantry/internal/task"
)

// Graph represents the dependency relationships between tasks.
type Graph struct {
	tasks map[string]*task.Task
	order []string
}

// NewGraph creates a Graph from a list of tasks. Iteration follows the
// order of tasks.
func NewGraph(tasks []*task.Task) *Graph {
	g := &Graph{
		tasks: make(map[string]*task.Task, len(tasks)),
	}
	for _, t := range tasks {
		if t == nil {
			continue
		}
		if _, seen := g.tasks[t.ID]; !seen {
			g.order = append(g.order, t.ID)
		}
		g.tasks[t.ID] = t
	}
	return g
}

// Get returns a task by ID.
func (g *Graph) Get(id string) *task.Task {
	return g.tasks[id]
}

// IsBlocked returns true if the task has any unfinished dependencies.
func (g *Graph) IsBlocked(id string) bool {
	return len(g.BlockedBy(id)) > 0
}

// BlockedBy returns the IDs of unfinished tasks that block this task.
// Dangling dependency IDs never block.
func (g *Graph) BlockedBy(id string) []string {
	t := g.tasks[id]
	if t == nil {
		return nil
	}
	var blockers []string
	for _, depID := range t.DependsOn {
		dep := g.tasks[depID]
		if dep == nil {
			continue
		}
		if dep.Status != task.StatusDone {
			blockers = append(blockers, depID)
		}
	}
	return blockers
}

// WouldCreateCycle checks if adding a dependency from -> to would create a cycle.
// Uses BFS from 'to' to see if we can reach 'from'.
func (g *Graph) WouldCreateCycle(from, to string) bool {
	visited := make(map[string]bool)
	queue := []string{to}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if current == from {
			return true
		}
		if visited[current] {
			continue
		}
		visited[current] = true

		if t := g.tasks[current]; t != nil {
			queue = append(queue, t.DependsOn...)
		}
	}
	return false
}

// Ready returns todo tasks whose dependencies are all done, highest priority
// first.
func (g *Graph) Ready() []*task.Task {
	var ready []*task.Task
	for _, id := range g.order {
		t := g.tasks[id]
		if t.Status == task.StatusTodo && !g.IsBlocked(id) {
			ready = append(ready, t)
		}
	}

	sort.SliceStable(ready, func(i, j int) bool {
		return taskLess(ready[i], ready[j])
	})
	return ready
}

// Dependents returns IDs of tasks that depend on the given task.
func (g *Graph) Dependents(id string) []string {
	var dependents []string
	for _, tid := range g.order {
		if slices.Contains(g.tasks[tid].DependsOn, id) {
			dependents = append(dependents, tid)
		}
	}
	return dependents
}

// ValidateAddDep validates adding a dependency from -> to.
func (g *Graph) ValidateAddDep(from, to string) error {
	if g.tasks[from] == nil {
		return gantryerrors.TaskNotFoundError{ID: from}
	}
	if g.tasks[to] == nil {
		return gantryerrors.TaskNotFoundError{ID: to}
	}
	if g.WouldCreateCycle(from, to) {
		return DependencyCycleError{From: from, To: to}
	}
	return nil
}

// Node is one task in the rendered dependency tree. Children are the tasks
// that depend on it.
type Node struct {
	Task     *task.Task
	Children []Node
	// Cut marks a task already on the current branch; its children are
	// omitted.
	Cut bool
}

// BuildTree returns the dependency forest. Roots are tasks with no known
// predecessor. A task reached along several branches is rendered under each
// of them. If every task sits on a cycle, each unvisited task becomes a root.
func (g *Graph) BuildTree() []Node {
	var roots []Node
	reached := make(map[string]bool)

	for _, id := range g.order {
		if g.hasKnownDependency(id) {
			continue
		}
		roots = append(roots, g.subtree(id, map[string]bool{}, reached))
	}

	// Tasks only reachable through a cycle have no root; surface them.
	for _, id := range g.order {
		if !reached[id] {
			roots = append(roots, g.subtree(id, map[string]bool{}, reached))
		}
	}
	return roots
}

func (g *Graph) subtree(id string, onPath, reached map[string]bool) Node {
	reached[id] = true
	n := Node{Task: g.tasks[id]}
	if onPath[id] {
		n.Cut = true
		return n
	}
	onPath[id] = true
	for _, child := range g.Dependents(id) {
		n.Children = append(n.Children, g.subtree(child, onPath, reached))
	}
	delete(onPath, id)
	return n
}

func (g *Graph) hasKnownDependency(id string) bool {
	for _, depID := range g.tasks[id].DependsOn {
		if g.tasks[depID] != nil {
			return true
		}
	}
	return false
}

// taskLess returns true if task a should be sorted before task b.
// Sorts by priority first (high < medium < low), then by creation time.
func taskLess(a, b *task.Task) bool {
	pa := task.PriorityOrder(a.Priority)
	pb := task.PriorityOrder(b.Priority)
	if pa != pb {
		return pa < pb
	}
	return a.CreatedAt.Before(b.CreatedAt)
}
