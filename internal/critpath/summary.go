package critpath

// SummaryTask is one step of the critical path in report form.
type SummaryTask struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	StartDate string  `json:"start_date,omitempty"`
	EndDate   string  `json:"end_date,omitempty"`
	Duration  float64 `json:"duration"`
}

// Summary is the serializable form of a Result handed to report consumers.
type Summary struct {
	Tasks         []SummaryTask `json:"tasks"`
	TotalDuration float64       `json:"total_duration"`
}

// Summarize converts r into its report form. A nil result yields an empty
// summary.
func Summarize(r *Result) Summary {
	s := Summary{Tasks: []SummaryTask{}}
	if r == nil {
		return s
	}
	for _, t := range r.Path {
		s.Tasks = append(s.Tasks, SummaryTask{
			ID:        t.ID,
			Name:      t.Title,
			StartDate: t.StartDate,
			EndDate:   t.EndDate,
			Duration:  t.Duration(),
		})
	}
	s.TotalDuration = r.Duration
	return s
}
