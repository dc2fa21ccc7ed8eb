package baseline

import (
	"sort"

	"github.com/abatilo/gantry/internal/dates"
	"github.com/abatilo/gantry/internal/task"
)

// Deviation is the schedule drift of one task against its baseline.
type Deviation struct {
	Task *task.Task
	// StartDays is current start minus baseline start; positive means the
	// task now starts later than planned.
	StartDays float64
	// EndDays is current end minus baseline end; positive means delayed.
	EndDays float64
	Metrics Metrics
}

// Delayed reports whether the task now finishes after its baseline end.
func (d Deviation) Delayed() bool {
	return d.EndDays > 0
}

// Report aggregates deviations across a set of tasks.
type Report struct {
	Items            []Deviation
	AverageDeviation float64
	TasksDelayed     int
}

// Analyze measures every task that has both a current and a baseline end
// date. Items are ordered by EndDays, largest delay first; equal delays keep
// input order.
func Analyze(tasks []*task.Task) Report {
	var report Report
	var total float64
	for _, t := range tasks {
		end, okEnd := dates.Parse(t.EndDate)
		baseEnd, okBaseEnd := dates.Parse(t.BaselineEndDate)
		if !okEnd || !okBaseEnd {
			continue
		}

		d := Deviation{
			Task:    t,
			EndDays: dates.Days(baseEnd, end),
			Metrics: ForTask(t),
		}
		start, okStart := dates.Parse(t.StartDate)
		baseStart, okBaseStart := dates.Parse(t.BaselineStartDate)
		if okStart && okBaseStart {
			d.StartDays = dates.Days(baseStart, start)
		}

		report.Items = append(report.Items, d)
		total += d.EndDays
		if d.Delayed() {
			report.TasksDelayed++
		}
	}

	if len(report.Items) > 0 {
		report.AverageDeviation = total / float64(len(report.Items))
	}
	sort.SliceStable(report.Items, func(i, j int) bool {
		return report.Items[i].EndDays > report.Items[j].EndDays
	})
	return report
}
