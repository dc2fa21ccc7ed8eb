//nolint:testpackage // Tests require internal access for thorough testing
package baseline

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/abatilo/gantry/internal/dates"
	"github.com/abatilo/gantry/internal/task"
)

func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, ok := dates.Parse(s)
	if !ok {
		t.Fatalf("bad test date %q", s)
	}
	return d
}

func ptr(t time.Time) *time.Time {
	return &t
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestCompute(t *testing.T) {
	start := day(t, "2024-01-01")
	end := day(t, "2024-01-11")

	tests := []struct {
		name       string
		start, end time.Time
		bs, be     *time.Time
		want       Metrics
	}{
		{
			name:  "baseline of three days starting on day one",
			start: start, end: end,
			bs: ptr(day(t, "2024-01-02")), be: ptr(day(t, "2024-01-05")),
			want: Metrics{Width: 30, Offset: 10},
		},
		{
			name:  "baseline equals current range",
			start: start, end: end,
			bs: ptr(start), be: ptr(end),
			want: Metrics{Width: 100, Offset: 0},
		},
		{
			name:  "missing baseline start",
			start: start, end: end,
			bs: nil, be: ptr(day(t, "2024-01-05")),
			want: Metrics{},
		},
		{
			name:  "missing baseline end",
			start: start, end: end,
			bs: ptr(day(t, "2024-01-02")), be: nil,
			want: Metrics{},
		},
		{
			name:  "zero current duration",
			start: start, end: start,
			bs: ptr(day(t, "2024-01-02")), be: ptr(day(t, "2024-01-05")),
			want: Metrics{},
		},
		{
			name:  "negative current duration",
			start: end, end: start,
			bs: ptr(day(t, "2024-01-02")), be: ptr(day(t, "2024-01-05")),
			want: Metrics{},
		},
		{
			name:  "baseline earlier and longer is not clamped",
			start: start, end: end,
			bs: ptr(day(t, "2023-12-27")), be: ptr(day(t, "2024-01-16")),
			want: Metrics{Width: 200, Offset: -50},
		},
		{
			name:  "baseline after current range",
			start: start, end: end,
			bs: ptr(day(t, "2024-01-21")), be: ptr(day(t, "2024-01-26")),
			want: Metrics{Width: 50, Offset: 200},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compute(tt.start, tt.end, tt.bs, tt.be)
			if !approx(got.Width, tt.want.Width) || !approx(got.Offset, tt.want.Offset) {
				t.Errorf("Compute() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestForTask(t *testing.T) {
	tests := []struct {
		name string
		task task.Task
		want Metrics
	}{
		{
			name: "full dates",
			task: task.Task{
				StartDate: "2024-01-01", EndDate: "2024-01-11",
				BaselineStartDate: "2024-01-02", BaselineEndDate: "2024-01-05",
			},
			want: Metrics{Width: 30, Offset: 10},
		},
		{
			name: "no baseline",
			task: task.Task{StartDate: "2024-01-01", EndDate: "2024-01-11"},
			want: Metrics{},
		},
		{
			name: "malformed baseline treated as absent",
			task: task.Task{
				StartDate: "2024-01-01", EndDate: "2024-01-11",
				BaselineStartDate: "later", BaselineEndDate: "2024-01-05",
			},
			want: Metrics{},
		},
		{
			name: "missing current end",
			task: task.Task{
				StartDate:         "2024-01-01",
				BaselineStartDate: "2024-01-02", BaselineEndDate: "2024-01-05",
			},
			want: Metrics{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ForTask(&tt.task)
			if !approx(got.Width, tt.want.Width) || !approx(got.Offset, tt.want.Offset) {
				t.Errorf("ForTask() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestAnalyze(t *testing.T) {
	tasks := []*task.Task{
		{
			ID: "late", StartDate: "2024-01-03", EndDate: "2024-01-10",
			BaselineStartDate: "2024-01-01", BaselineEndDate: "2024-01-06",
		},
		{
			ID: "early", StartDate: "2024-01-01", EndDate: "2024-01-04",
			BaselineStartDate: "2024-01-01", BaselineEndDate: "2024-01-06",
		},
		{ID: "unplanned", StartDate: "2024-01-01", EndDate: "2024-01-04"},
		{
			ID: "on-time", StartDate: "2024-01-01", EndDate: "2024-01-06",
			BaselineStartDate: "2024-01-01", BaselineEndDate: "2024-01-06",
		},
		{ID: "end-only", EndDate: "2024-01-08", BaselineEndDate: "2024-01-07"},
	}

	report := Analyze(tasks)

	if len(report.Items) != 4 {
		t.Fatalf("Items length = %d, want 4", len(report.Items))
	}
	wantOrder := []string{"late", "end-only", "on-time", "early"}
	for i, id := range wantOrder {
		if report.Items[i].Task.ID != id {
			t.Errorf("Items[%d] = %s, want %s", i, report.Items[i].Task.ID, id)
		}
	}

	late := report.Items[0]
	if late.EndDays != 4 || late.StartDays != 2 {
		t.Errorf("late deviation = start %v end %v, want 2/4", late.StartDays, late.EndDays)
	}
	if report.Items[1].StartDays != 0 {
		t.Errorf("end-only StartDays = %v, want 0", report.Items[1].StartDays)
	}
	if report.TasksDelayed != 2 {
		t.Errorf("TasksDelayed = %d, want 2", report.TasksDelayed)
	}
	// (4 + 1 + 0 - 2) / 4
	if !approx(report.AverageDeviation, 0.75) {
		t.Errorf("AverageDeviation = %v, want 0.75", report.AverageDeviation)
	}
}

func TestAnalyzeEmpty(t *testing.T) {
	report := Analyze(nil)
	if len(report.Items) != 0 || report.AverageDeviation != 0 || report.TasksDelayed != 0 {
		t.Errorf("Analyze(nil) = %+v, want zero report", report)
	}
}

func TestCaptureAndApply(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	tasks := []*task.Task{
		{ID: "a", StartDate: "2024-01-01", EndDate: "2024-01-05"},
		{ID: "b", StartDate: "2024-01-05", EndDate: ""},
	}

	snap := Capture("Kickoff plan", "p1", tasks, now)
	if snap.ID == "" {
		t.Error("snapshot ID should not be empty")
	}
	if snap.Color != DefaultColor {
		t.Errorf("Color = %q, want %q", snap.Color, DefaultColor)
	}
	if !snap.CreatedAt.Equal(now) {
		t.Errorf("CreatedAt = %v, want %v", snap.CreatedAt, now)
	}
	if len(snap.Entries) != 2 {
		t.Fatalf("Entries length = %d, want 2", len(snap.Entries))
	}

	// Schedule slips after the snapshot.
	tasks[0].EndDate = "2024-01-09"
	tasks = append(tasks, &task.Task{
		ID: "c", StartDate: "2024-01-09", EndDate: "2024-01-10",
		BaselineStartDate: "2023-12-01", BaselineEndDate: "2023-12-02",
	})

	changed := snap.Apply(tasks)
	if len(changed) != 3 {
		t.Errorf("changed length = %d, want 3", len(changed))
	}
	if tasks[0].BaselineStartDate != "2024-01-01" || tasks[0].BaselineEndDate != "2024-01-05" {
		t.Errorf("task a baseline = %q..%q", tasks[0].BaselineStartDate, tasks[0].BaselineEndDate)
	}
	if tasks[2].BaselineStartDate != "" || tasks[2].BaselineEndDate != "" {
		t.Errorf("task c baseline should be cleared, got %q..%q",
			tasks[2].BaselineStartDate, tasks[2].BaselineEndDate)
	}

	if again := snap.Apply(tasks); len(again) != 0 {
		t.Errorf("second Apply changed %d tasks, want 0", len(again))
	}
}

func TestCheckProject(t *testing.T) {
	snap := &Snapshot{ID: "s1", ProjectID: "p1"}

	if err := snap.CheckProject("p1"); err != nil {
		t.Errorf("same project: unexpected error %v", err)
	}
	if err := snap.CheckProject(""); err != nil {
		t.Errorf("consolidated: unexpected error %v", err)
	}

	err := snap.CheckProject("p2")
	var mismatch ProjectMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("CheckProject(p2) = %v, want ProjectMismatchError", err)
	}
	want := "baseline s1 belongs to project p1, not p2"
	if err.Error() != want {
		t.Errorf("error = %q, want %q", err.Error(), want)
	}
}
