// Package task defines the task, project, and settings model and the
// minute-of-day time rules shared by the scheduler and layout code.
package task

import (
	"time"
)

// Kind represents a task's scheduling category.
type Kind string

const (
	KindSomeday Kind = "someday"
	KindDay     Kind = "day"
	KindTimed   Kind = "timed"
)

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	switch k {
	case KindSomeday, KindDay, KindTimed:
		return true
	}
	return false
}

// Task is a single task. Date is a YYYY-MM-DD string and is empty for
// someday tasks. StartMin/EndMin are minutes since midnight and are only
// set for timed tasks; a timed task may omit EndMin (open-ended).
type Task struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"projectId,omitempty"`
	Title     string    `json:"title"`
	Kind      Kind      `json:"type"`
	Date      string    `json:"date,omitempty"`
	StartMin  *int      `json:"startMin,omitempty"`
	EndMin    *int      `json:"endMin,omitempty"`
	Done      bool      `json:"done"`
	Priority  string    `json:"priority,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// IsZero returns true if the task is empty (has no ID).
func (t *Task) IsZero() bool {
	return t.ID == ""
}

// Timed reports whether the task has both a start and an end minute.
// Open-ended timed tasks (no EndMin) are excluded from conflict checks
// and lane packing.
func (t *Task) Timed() bool {
	return t.Kind == KindTimed && t.StartMin != nil && t.EndMin != nil
}

// Project groups tasks by a weak reference: tasks hold a ProjectID,
// projects never hold task lists. Deleting a project unassigns its
// tasks, it never cascades.
type Project struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	Deadline  string    `json:"deadline,omitempty"`
	Memo      string    `json:"memo,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// DefaultColor is the theme token assigned when a project is created
// without an explicit color.
const DefaultColor = "theme/pastel/blue"

// DefaultTimeUnit is the snap granularity in minutes.
const DefaultTimeUnit = 15

// Settings holds per-document options. LastOpenedYMD is the carry-over
// watermark: the last date a session processed.
type Settings struct {
	CarryOver     bool   `json:"carryOver"`
	LastOpenedYMD string `json:"lastOpenedYMD,omitempty"`
	TimeUnitMin   int    `json:"timeUnitMin,omitempty"`
	Theme         string `json:"theme,omitempty"`
}

// DefaultSettings returns the settings for a fresh document.
func DefaultSettings() Settings {
	return Settings{
		CarryOver:   true,
		TimeUnitMin: DefaultTimeUnit,
		Theme:       "dark",
	}
}

// Document is the persisted state: one schema-versioned object holding
// all projects, tasks, and settings.
type Document struct {
	SchemaVersion int       `json:"schemaVersion"`
	Projects      []Project `json:"projects"`
	Tasks         []Task    `json:"tasks"`
	Settings      Settings  `json:"settings"`
}
