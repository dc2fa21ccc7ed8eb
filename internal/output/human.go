package output

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/abatilo/gantry/internal/baseline"
	"github.com/abatilo/gantry/internal/critpath"
	"github.com/abatilo/gantry/internal/deps"
	"github.com/abatilo/gantry/internal/task"
)

// HumanFormatter formats output for human-readable terminal display.
type HumanFormatter struct {
	color bool
}

// NewHumanFormatter creates a new HumanFormatter. With color unset all
// output is plain text.
func NewHumanFormatter(color bool) *HumanFormatter {
	return &HumanFormatter{color: color}
}

func (f *HumanFormatter) paint(style lipgloss.Style, s string) string {
	if !f.color {
		return s
	}
	return style.Render(s)
}

// FormatTask formats a single task for display.
func (f *HumanFormatter) FormatTask(t *task.Task) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "[%s] %s\n", t.ID, f.paint(styleHeading, t.Title))
	if t.ProjectID != "" {
		fmt.Fprintf(&sb, "  Project:  %s\n", t.ProjectID)
	}
	fmt.Fprintf(&sb, "  Status:   %s\n", t.Status)
	fmt.Fprintf(&sb, "  Priority: %s\n", t.Priority)
	fmt.Fprintf(&sb, "  Progress: %d%%\n", t.Progress)
	if t.IsMilestone {
		sb.WriteString("  Milestone\n")
	}
	if t.StartDate != "" || t.EndDate != "" {
		fmt.Fprintf(&sb, "  Dates:    %s\n", dateRange(t.StartDate, t.EndDate))
	}
	if t.HasBaseline() {
		fmt.Fprintf(&sb, "  Baseline: %s\n", dateRange(t.BaselineStartDate, t.BaselineEndDate))
		m := baseline.ForTask(t)
		fmt.Fprintf(&sb, "  Drift:    width %s%%, offset %s%%\n", formatNumber(m.Width), formatNumber(m.Offset))
	}
	fmt.Fprintf(&sb, "  Created:  %s\n", t.CreatedAt.Format("2006-01-02 15:04"))
	if len(t.DependsOn) > 0 {
		fmt.Fprintf(&sb, "  Depends:  %s\n", strings.Join(t.DependsOn, ", "))
	}
	if t.Description != "" {
		sb.WriteString("\n")
		sb.WriteString(t.Description)
		sb.WriteString("\n")
	}

	return sb.String()
}

// FormatTaskList formats a list of tasks for display.
func (f *HumanFormatter) FormatTaskList(tasks []*task.Task) string {
	if len(tasks) == 0 {
		return "No tasks found.\n"
	}

	var sb strings.Builder
	for _, t := range tasks {
		sb.WriteString(f.formatTaskLine(t))
	}
	return sb.String()
}

// formatTaskLine formats a single task as a compact one-liner.
func (f *HumanFormatter) formatTaskLine(t *task.Task) string {
	title := t.Title
	if t.IsMilestone {
		title = "◆ " + title
	}
	when := ""
	if t.StartDate != "" || t.EndDate != "" {
		when = " " + f.paint(styleMuted, dateRange(t.StartDate, t.EndDate))
	}
	after := ""
	if len(t.DependsOn) > 0 {
		after = fmt.Sprintf(" [after: %s]", strings.Join(t.DependsOn, ", "))
	}
	return fmt.Sprintf("%s %s [%s] %s%s%s\n",
		statusIcon(t.Status), priorityMark(t.Priority), t.ID, title, when, after)
}

func statusIcon(s task.Status) string {
	switch s {
	case task.StatusTodo:
		return "[ ]"
	case task.StatusInProgress:
		return "[~]"
	case task.StatusDone:
		return "[x]"
	default:
		return "[?]"
	}
}

func priorityMark(p task.Priority) string {
	switch p {
	case task.PriorityHigh:
		return "P1"
	case task.PriorityMedium:
		return "P2"
	case task.PriorityLow:
		return "P3"
	default:
		return "P?"
	}
}

// FormatError formats an error for display.
func (f *HumanFormatter) FormatError(err error) string {
	return fmt.Sprintf("Error: %s\n", err.Error())
}

// FormatMessage formats a simple message.
func (f *HumanFormatter) FormatMessage(msg string) string {
	return msg + "\n"
}

// FormatGraph formats a dependency graph as ASCII art.
func (f *HumanFormatter) FormatGraph(nodes []deps.Node) string {
	if len(nodes) == 0 {
		return "No tasks found.\n"
	}

	var sb strings.Builder
	for _, node := range nodes {
		f.formatGraphNode(&sb, node, "", true, true)
	}
	return sb.String()
}

func (f *HumanFormatter) formatGraphNode(sb *strings.Builder, node deps.Node, prefix string, isLast, isRoot bool) {
	connector := "├── "
	if isLast {
		connector = "└── "
	}
	if isRoot {
		connector = ""
	}

	suffix := ""
	if node.Cut {
		suffix = " " + f.paint(styleCritical, "(cycle)")
	}
	fmt.Fprintf(sb, "%s%s%s [%s] %s%s\n", prefix, connector, statusIcon(node.Task.Status), node.Task.ID, node.Task.Title, suffix)

	childPrefix := prefix
	if !isRoot {
		if isLast {
			childPrefix += "    "
		} else {
			childPrefix += "│   "
		}
	}

	for i, child := range node.Children {
		f.formatGraphNode(sb, child, childPrefix, i == len(node.Children)-1, false)
	}
}

// FormatCriticalPath lists the critical path in order with its total length.
func (f *HumanFormatter) FormatCriticalPath(r *critpath.Result) string {
	if r == nil {
		return "No tasks to schedule.\n"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s\n",
		f.paint(styleHeading, "Critical path:"),
		f.paint(styleCritical, formatNumber(r.Duration)+" days"))
	for i, t := range r.Path {
		fmt.Fprintf(&sb, "%3d. [%s] %s", i+1, t.ID, t.Title)
		if t.StartDate != "" || t.EndDate != "" {
			fmt.Fprintf(&sb, " %s", f.paint(styleMuted, dateRange(t.StartDate, t.EndDate)))
		}
		fmt.Fprintf(&sb, " (%s days)\n", formatNumber(t.Duration()))
	}
	return sb.String()
}

// FormatDeviation summarizes baseline drift, largest delay first.
func (f *HumanFormatter) FormatDeviation(r baseline.Report) string {
	if len(r.Items) == 0 {
		return "No tasks with a baseline.\n"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s days, %d of %d tasks delayed\n",
		f.paint(styleHeading, "Average deviation:"),
		signed(r.AverageDeviation), r.TasksDelayed, len(r.Items))

	for _, d := range r.Items {
		drift := signed(d.EndDays) + " days"
		switch {
		case d.Delayed():
			drift = f.paint(styleLate, drift)
		case d.EndDays < 0:
			drift = f.paint(styleEarly, drift)
		}
		fmt.Fprintf(&sb, "  [%s] %s: end %s, start %s days, width %s%%, offset %s%%\n",
			d.Task.ID, d.Task.Title, drift, signed(d.StartDays),
			formatNumber(d.Metrics.Width), formatNumber(d.Metrics.Offset))
	}
	return sb.String()
}

// FormatBaseline formats a single snapshot.
func (f *HumanFormatter) FormatBaseline(s *baseline.Snapshot) string {
	swatch := "■"
	if f.color {
		swatch = lipgloss.NewStyle().Foreground(lipgloss.Color(s.Color)).Render(swatch)
	}
	details := fmt.Sprintf("%d tasks, %s", len(s.Entries), s.CreatedAt.Format("2006-01-02 15:04"))
	if s.ProjectID != "" {
		details = "project " + s.ProjectID + ", " + details
	}
	return fmt.Sprintf("%s [%s] %s (%s)\n", swatch, s.ID, s.Name, details)
}

// FormatBaselineList formats snapshots one per line.
func (f *HumanFormatter) FormatBaselineList(snaps []*baseline.Snapshot) string {
	if len(snaps) == 0 {
		return "No baselines found.\n"
	}
	var sb strings.Builder
	for _, s := range snaps {
		sb.WriteString(f.FormatBaseline(s))
	}
	return sb.String()
}

func dateRange(start, end string) string {
	if start == "" {
		start = "?"
	}
	if end == "" {
		end = "?"
	}
	return start + " → " + end
}

// formatNumber rounds to one decimal and drops a trailing ".0".
func formatNumber(v float64) string {
	return strconv.FormatFloat(math.Round(v*10)/10, 'f', -1, 64)
}

func signed(v float64) string {
	s := formatNumber(v)
	if v > 0 && s != "0" {
		return "+" + s
	}
	return s
}
