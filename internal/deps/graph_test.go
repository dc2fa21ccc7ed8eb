//nolint:testpackage // Tests require internal access for thorough testing
package deps

import (
	"errors"
	"reflect"
	"testing"
	"time"

	gantryerrors "github.com/abatilo/gantry/internal/errors"
	"github.com/abatilo/gantry/internal/task"
)

func makeTask(id string, status task.Status, deps ...string) *task.Task {
	return &task.Task{
		ID:        id,
		Title:     "Task " + id,
		Status:    status,
		Priority:  task.PriorityMedium,
		CreatedAt: time.Now(),
		DependsOn: deps,
	}
}

func TestIsBlocked(t *testing.T) {
	tasks := []*task.Task{
		makeTask("a", task.StatusTodo),
		makeTask("b", task.StatusTodo, "a"),
		makeTask("c", task.StatusDone),
		makeTask("d", task.StatusTodo, "c"),       // c is done
		makeTask("e", task.StatusTodo, "missing"), // dangling dependency
	}

	g := NewGraph(tasks)

	tests := []struct {
		id      string
		blocked bool
	}{
		{"a", false},
		{"b", true},
		{"c", false},
		{"d", false},
		{"e", false},
		{"nope", false},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			if got := g.IsBlocked(tt.id); got != tt.blocked {
				t.Errorf("IsBlocked(%q) = %v, want %v", tt.id, got, tt.blocked)
			}
		})
	}
}

func TestBlockedBy(t *testing.T) {
	tasks := []*task.Task{
		makeTask("a", task.StatusTodo),
		makeTask("b", task.StatusInProgress),
		makeTask("d", task.StatusDone),
		makeTask("c", task.StatusTodo, "a", "b", "d"),
	}

	g := NewGraph(tasks)

	if got := g.BlockedBy("c"); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("BlockedBy(c) = %v, want [a b]", got)
	}
}

func TestWouldCreateCycle(t *testing.T) {
	// a depends on b, b depends on c
	tasks := []*task.Task{
		makeTask("a", task.StatusTodo, "b"),
		makeTask("b", task.StatusTodo, "c"),
		makeTask("c", task.StatusTodo),
	}

	g := NewGraph(tasks)

	tests := []struct {
		from, to string
		cycle    bool
	}{
		{"c", "a", true},  // a -> b -> c -> a
		{"c", "b", true},  // b -> c -> b
		{"a", "a", true},  // self dependency
		{"a", "c", false}, // already reachable, no new cycle
		{"c", "d", false}, // d doesn't exist
	}

	for _, tt := range tests {
		t.Run(tt.from+"->"+tt.to, func(t *testing.T) {
			if got := g.WouldCreateCycle(tt.from, tt.to); got != tt.cycle {
				t.Errorf("WouldCreateCycle(%q, %q) = %v, want %v", tt.from, tt.to, got, tt.cycle)
			}
		})
	}
}

func TestReady(t *testing.T) {
	now := time.Now()
	low := makeTask("low", task.StatusTodo)
	low.Priority = task.PriorityLow
	high := makeTask("high", task.StatusTodo, "done")
	high.Priority = task.PriorityHigh
	high.CreatedAt = now.Add(time.Hour)

	tasks := []*task.Task{
		low,
		makeTask("blocked", task.StatusTodo, "low"),
		makeTask("done", task.StatusDone),
		high,
		makeTask("active", task.StatusInProgress),
	}

	g := NewGraph(tasks)
	got := make([]string, 0)
	for _, r := range g.Ready() {
		got = append(got, r.ID)
	}

	if want := []string{"high", "low"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Ready = %v, want %v", got, want)
	}
}

func TestDependents(t *testing.T) {
	tasks := []*task.Task{
		makeTask("a", task.StatusTodo),
		makeTask("b", task.StatusTodo, "a"),
		makeTask("c", task.StatusTodo, "a"),
		makeTask("d", task.StatusTodo, "b"),
	}

	g := NewGraph(tasks)

	tests := []struct {
		id   string
		want []string
	}{
		{"a", []string{"b", "c"}},
		{"b", []string{"d"}},
		{"d", nil},
	}
	for _, tt := range tests {
		if got := g.Dependents(tt.id); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Dependents(%s) = %v, want %v", tt.id, got, tt.want)
		}
	}
}

func TestValidateAddDep(t *testing.T) {
	tasks := []*task.Task{
		makeTask("a", task.StatusTodo, "b"),
		makeTask("b", task.StatusTodo),
	}

	g := NewGraph(tasks)

	var cycleErr DependencyCycleError
	if err := g.ValidateAddDep("b", "a"); !errors.As(err, &cycleErr) {
		t.Errorf("ValidateAddDep(b, a) = %v, want DependencyCycleError", err)
	}

	if err := g.ValidateAddDep("a", "b"); err != nil {
		t.Errorf("Unexpected error: %v", err)
	}

	var notFound gantryerrors.TaskNotFoundError
	if err := g.ValidateAddDep("x", "a"); !errors.As(err, &notFound) || notFound.ID != "x" {
		t.Errorf("ValidateAddDep(x, a) = %v, want TaskNotFoundError for x", err)
	}
	if err := g.ValidateAddDep("a", "y"); !errors.As(err, &notFound) || notFound.ID != "y" {
		t.Errorf("ValidateAddDep(a, y) = %v, want TaskNotFoundError for y", err)
	}
}

// render flattens a forest into "depth:id" strings, marking cut nodes.
func render(nodes []Node, depth int, out *[]string) {
	for _, n := range nodes {
		s := string(rune('0'+depth)) + ":" + n.Task.ID
		if n.Cut {
			s += "*"
		}
		*out = append(*out, s)
		render(n.Children, depth+1, out)
	}
}

func TestBuildTree(t *testing.T) {
	tests := []struct {
		name  string
		tasks []*task.Task
		want  []string
	}{
		{
			name: "diamond renders shared task under each branch",
			tasks: []*task.Task{
				makeTask("a", task.StatusTodo),
				makeTask("b", task.StatusTodo, "a"),
				makeTask("c", task.StatusTodo, "a"),
				makeTask("d", task.StatusTodo, "b", "c"),
			},
			want: []string{"0:a", "1:b", "2:d", "1:c", "2:d"},
		},
		{
			name: "dangling dependency makes a root",
			tasks: []*task.Task{
				makeTask("a", task.StatusTodo, "gone"),
				makeTask("b", task.StatusTodo),
			},
			want: []string{"0:a", "0:b"},
		},
		{
			name: "cycle is cut",
			tasks: []*task.Task{
				makeTask("a", task.StatusTodo, "b"),
				makeTask("b", task.StatusTodo, "a"),
				makeTask("c", task.StatusTodo),
			},
			want: []string{"0:c", "0:a", "1:b", "2:a*"},
		},
		{
			name:  "empty",
			tasks: nil,
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			render(NewGraph(tt.tasks).BuildTree(), 0, &got)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("BuildTree = %v, want %v", got, tt.want)
			}
		})
	}
}
