package storage

import (
	"bytes"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/abatilo/gantry/internal/task"
)

const frontmatterDelimiter = "---"

// taskFrontmatter is the YAML-serializable portion of a task.
type taskFrontmatter struct {
	ID                string        `yaml:"id"`
	Name              string        `yaml:"name"`
	ProjectID         string        `yaml:"project_id,omitempty"`
	Status            task.Status   `yaml:"status"`
	Priority          task.Priority `yaml:"priority"`
	Progress          int           `yaml:"progress"`
	IsMilestone       bool          `yaml:"is_milestone,omitempty"`
	StartDate         string        `yaml:"start_date,omitempty"`
	EndDate           string        `yaml:"end_date,omitempty"`
	BaselineStartDate string        `yaml:"baseline_start_date,omitempty"`
	BaselineEndDate   string        `yaml:"baseline_end_date,omitempty"`
	DependencyIDs     []string      `yaml:"dependency_ids,omitempty"`
	CreatedAt         string        `yaml:"created_at"`
}

// ParseMarkdown parses a markdown file with YAML frontmatter into a Task.
// Date fields are kept verbatim; they are validated when used.
func ParseMarkdown(content []byte) (*task.Task, error) {
	lines := strings.Split(string(content), "\n")
	if len(lines) < 2 || strings.TrimSpace(lines[0]) != frontmatterDelimiter {
		return nil, &parseError{"missing YAML frontmatter"}
	}

	// Find closing delimiter
	var frontmatterEnd int
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == frontmatterDelimiter {
			frontmatterEnd = i
			break
		}
	}
	if frontmatterEnd == 0 {
		return nil, &parseError{"unclosed YAML frontmatter"}
	}

	yamlContent := strings.Join(lines[1:frontmatterEnd], "\n")
	var fm taskFrontmatter
	if err := yaml.Unmarshal([]byte(yamlContent), &fm); err != nil {
		return nil, &parseError{"invalid YAML: " + err.Error()}
	}
	if fm.ID == "" {
		return nil, &parseError{"missing id"}
	}

	createdAt, err := parseTime(fm.CreatedAt)
	if err != nil {
		return nil, &parseError{"invalid created_at: " + err.Error()}
	}

	// Extract description (everything after frontmatter)
	var description string
	if frontmatterEnd+1 < len(lines) {
		description = strings.TrimSpace(strings.Join(lines[frontmatterEnd+1:], "\n"))
	}

	return &task.Task{
		ID:                fm.ID,
		Title:             fm.Name,
		ProjectID:         fm.ProjectID,
		Status:            fm.Status,
		Priority:          fm.Priority,
		Progress:          fm.Progress,
		IsMilestone:       fm.IsMilestone,
		StartDate:         fm.StartDate,
		EndDate:           fm.EndDate,
		BaselineStartDate: fm.BaselineStartDate,
		BaselineEndDate:   fm.BaselineEndDate,
		DependsOn:         fm.DependencyIDs,
		CreatedAt:         createdAt,
		Description:       description,
	}, nil
}

// SerializeMarkdown converts a Task to markdown with YAML frontmatter.
func SerializeMarkdown(t *task.Task) ([]byte, error) {
	fm := taskFrontmatter{
		ID:                t.ID,
		Name:              t.Title,
		ProjectID:         t.ProjectID,
		Status:            t.Status,
		Priority:          t.Priority,
		Progress:          t.Progress,
		IsMilestone:       t.IsMilestone,
		StartDate:         t.StartDate,
		EndDate:           t.EndDate,
		BaselineStartDate: t.BaselineStartDate,
		BaselineEndDate:   t.BaselineEndDate,
		DependencyIDs:     t.DependsOn,
		CreatedAt:         t.CreatedAt.Format(time.RFC3339),
	}

	var buf bytes.Buffer
	buf.WriteString(frontmatterDelimiter + "\n")

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(fm); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}

	buf.WriteString(frontmatterDelimiter + "\n")

	if t.Description != "" {
		buf.WriteString("\n")
		buf.WriteString(t.Description)
		buf.WriteString("\n")
	}

	return buf.Bytes(), nil
}

// parseError represents a parsing error.
type parseError struct {
	msg string
}

func (e *parseError) Error() string {
	return e.msg
}

// parseTime tries to parse a time string in common formats.
func parseTime(s string) (time.Time, error) {
	formats := []string{
		time.RFC3339,
		time.RFC3339Nano,
		"2006-01-02T15:04:05Z",
		"2006-01-02",
	}
	for _, f := range formats {
		if t, err := time.Parse(f, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, &parseError{"unrecognized time format"}
}
