// Package baseline compares a task's current schedule with a recorded
// baseline snapshot of it.
package baseline

import (
	"time"

	"github.com/abatilo/gantry/internal/task"
)

const percent = 100

// Metrics positions a baseline bar relative to the current task bar. Both
// values are percentages of the current task span and are not clamped.
type Metrics struct {
	Width  float64 `json:"width"`
	Offset float64 `json:"offset"`
}

// Compute returns the baseline width and offset relative to the current
// span [start, end]. It returns zero metrics when either baseline date is
// nil or the current span is not positive.
func Compute(start, end time.Time, baselineStart, baselineEnd *time.Time) Metrics {
	if baselineStart == nil || baselineEnd == nil {
		return Metrics{}
	}
	span := end.Sub(start)
	if span <= 0 {
		return Metrics{}
	}
	return Metrics{
		Width:  float64(baselineEnd.Sub(*baselineStart)) / float64(span) * percent,
		Offset: float64(baselineStart.Sub(start)) / float64(span) * percent,
	}
}

// ForTask computes metrics from the task's stored dates. Missing or
// malformed current dates yield zero metrics.
func ForTask(t *task.Task) Metrics {
	start, end, ok := t.Span()
	if !ok {
		return Metrics{}
	}
	bs, be := t.BaselineSpan()
	return Compute(start, end, bs, be)
}
