// Package critpath finds the critical path of a project: the chain of
// dependent tasks with the greatest cumulative duration.
package critpath

import (
	"github.com/abatilo/gantry/internal/task"
)

// Result is the critical path and its total length in days.
type Result struct {
	Path     []*task.Task // earliest predecessor first
	Duration float64
}

// IDs returns the task IDs along the path.
func (r *Result) IDs() []string {
	ids := make([]string, len(r.Path))
	for i, t := range r.Path {
		ids[i] = t.ID
	}
	return ids
}

// Names returns the task titles along the path.
func (r *Result) Names() []string {
	names := make([]string, len(r.Path))
	for i, t := range r.Path {
		names[i] = t.Title
	}
	return names
}

// chain is the longest path ending at a task.
type chain struct {
	duration float64
	path     []*task.Task
}

type visitState int

const (
	unvisited visitState = iota
	inProgress
	finalized
)

// engine holds the per-call lookup, memo and traversal state.
type engine struct {
	byID  map[string]*task.Task
	state map[string]visitState
	memo  map[string]chain
}

// Compute returns the longest-duration dependency chain across tasks.
//
// A task's chain length is its own duration plus the longest chain among its
// known dependencies. Dependency IDs that do not match any task are ignored.
// Ties resolve to the first candidate seen: dependencies in DependsOn order,
// and roots in the order tasks were given. Empty input returns nil with no
// error; a dependency cycle returns a *CycleError.
func Compute(tasks []*task.Task) (*Result, error) {
	e := &engine{
		byID:  make(map[string]*task.Task, len(tasks)),
		state: make(map[string]visitState, len(tasks)),
		memo:  make(map[string]chain, len(tasks)),
	}
	var order []*task.Task
	for _, t := range tasks {
		if t == nil {
			continue
		}
		if _, seen := e.byID[t.ID]; !seen {
			order = append(order, t)
		}
		e.byID[t.ID] = t
	}
	if len(order) == 0 {
		return nil, nil //nolint:nilnil // no tasks means no critical path
	}

	var best chain
	found := false
	for _, t := range order {
		c, err := e.longest(t.ID)
		if err != nil {
			return nil, err
		}
		if !found || c.duration > best.duration {
			best = c
			found = true
		}
	}

	return &Result{Path: best.path, Duration: best.duration}, nil
}

// longest returns the memoized longest chain ending at id.
func (e *engine) longest(id string) (chain, error) {
	switch e.state[id] {
	case finalized:
		return e.memo[id], nil
	case inProgress:
		return chain{}, &CycleError{ID: id}
	case unvisited:
	}

	t := e.byID[id]
	e.state[id] = inProgress

	var best chain
	found := false
	for _, depID := range t.DependsOn {
		if _, ok := e.byID[depID]; !ok {
			continue
		}
		c, err := e.longest(depID)
		if err != nil {
			return chain{}, err
		}
		if !found || c.duration > best.duration {
			best = c
			found = true
		}
	}

	path := make([]*task.Task, len(best.path), len(best.path)+1)
	copy(path, best.path)
	result := chain{
		duration: best.duration + t.Duration(),
		path:     append(path, t),
	}

	e.state[id] = finalized
	e.memo[id] = result
	return result, nil
}
