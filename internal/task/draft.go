package task

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Draft carries the caller-supplied fields for a new task. Zero-value
// fields fall back to defaults in New.
type Draft struct {
	Title     string
	Kind      Kind
	Date      string
	ProjectID string
	StartMin  *int
	EndMin    *int
	Priority  string
	Notes     string
}

// New validates a draft and constructs a task with a fresh id and
// timestamps. Timed drafts require a start minute and, when an end
// minute is present, a strictly later end. Creation is stricter than
// update: equal start and end fail here but pass through Apply.
func New(d Draft, now time.Time) (*Task, error) {
	if strings.TrimSpace(d.Title) == "" {
		return nil, validationErrorf("title", "required")
	}
	if !d.Kind.Valid() {
		return nil, validationErrorf("type", "unknown kind %q", d.Kind)
	}
	if d.Kind != KindSomeday && d.Date == "" {
		return nil, validationErrorf("date", "required for %s tasks", d.Kind)
	}
	if d.Kind == KindTimed {
		if d.StartMin == nil {
			return nil, validationErrorf("startMin", "required for timed tasks")
		}
		if err := validMinute("startMin", *d.StartMin); err != nil {
			return nil, err
		}
		if d.EndMin != nil {
			if err := validMinute("endMin", *d.EndMin); err != nil {
				return nil, err
			}
			if *d.StartMin >= *d.EndMin {
				return nil, validationErrorf("endMin", "must be after start")
			}
		}
	}
	priority := d.Priority
	if priority == "" {
		priority = "m"
	}
	t := &Task{
		ID:        uuid.NewString(),
		ProjectID: d.ProjectID,
		Title:     d.Title,
		Kind:      d.Kind,
		Date:      d.Date,
		StartMin:  copyMin(d.StartMin),
		EndMin:    copyMin(d.EndMin),
		Priority:  priority,
		Notes:     d.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}
	t.Normalize()
	return t, nil
}

// ProjectDraft carries the caller-supplied fields for a new project.
type ProjectDraft struct {
	Name     string
	Color    string
	Deadline string
	Memo     string
}

// NewProject validates a draft and constructs a project.
func NewProject(d ProjectDraft, now time.Time) (*Project, error) {
	if strings.TrimSpace(d.Name) == "" {
		return nil, validationErrorf("name", "required")
	}
	color := d.Color
	if color == "" {
		color = DefaultColor
	}
	return &Project{
		ID:        uuid.NewString(),
		Name:      d.Name,
		Color:     color,
		Deadline:  d.Deadline,
		Memo:      d.Memo,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

func validMinute(field string, m int) error {
	if m < 0 || m >= MinutesPerDay {
		return validationErrorf(field, "minute %d out of range [0,%d)", m, MinutesPerDay)
	}
	return nil
}

func copyMin(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
