// Package repo provides the in-memory repository owning all task and
// project state. Collaborators read snapshots and mutate only through
// repository methods; the document itself is never shared mutable.
package repo

import (
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/dandori-app/dandori/internal/task"
)

var errRequired = errors.New("required")

// Repository owns a document for the lifetime of a session. It is not
// safe for concurrent use; the application runs a single logical
// writer at a time.
type Repository struct {
	doc   *task.Document
	dirty bool
	now   func() time.Time
}

// Option configures a Repository.
type Option func(*Repository)

// WithClock overrides the timestamp source, for tests.
func WithClock(now func() time.Time) Option {
	return func(r *Repository) {
		r.now = now
	}
}

// New wraps a loaded document. The repository takes ownership: callers
// must not mutate doc afterwards.
func New(doc *task.Document, opts ...Option) *Repository {
	r := &Repository{
		doc: doc,
		now: func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Document returns the owned document for persistence. The store
// serializes it; nothing else should touch it.
func (r *Repository) Document() *task.Document {
	return r.doc
}

// Dirty reports whether any mutation happened since the last ClearDirty.
func (r *Repository) Dirty() bool {
	return r.dirty
}

// ClearDirty marks the document as flushed.
func (r *Repository) ClearDirty() {
	r.dirty = false
}

// CreateTask validates a draft and appends the new task.
func (r *Repository) CreateTask(d task.Draft) (*task.Task, error) {
	t, err := task.New(d, r.now())
	if err != nil {
		return nil, err
	}
	r.doc.Tasks = append(r.doc.Tasks, *t)
	r.dirty = true
	return t, nil
}

// UpdateTask merges a patch into the task with the given id and
// returns the updated copy. Returns ErrTaskNotFound if the id is
// unknown; no mutation happens in that case.
func (r *Repository) UpdateTask(id string, p task.Patch) (*task.Task, error) {
	for i := range r.doc.Tasks {
		if r.doc.Tasks[i].ID == id {
			r.doc.Tasks[i].Apply(p, r.now())
			r.dirty = true
			t := r.doc.Tasks[i]
			return &t, nil
		}
	}
	return nil, task.ErrTaskNotFound
}

// DeleteTask removes the task with the given id. Deletion is
// idempotent: a missing id returns false without error.
func (r *Repository) DeleteTask(id string) bool {
	for i := range r.doc.Tasks {
		if r.doc.Tasks[i].ID == id {
			r.doc.Tasks = append(r.doc.Tasks[:i], r.doc.Tasks[i+1:]...)
			r.dirty = true
			return true
		}
	}
	return false
}

// ToggleDone flips the done flag and refreshes the timestamp.
func (r *Repository) ToggleDone(id string) (*task.Task, error) {
	for i := range r.doc.Tasks {
		if r.doc.Tasks[i].ID == id {
			done := !r.doc.Tasks[i].Done
			r.doc.Tasks[i].Apply(task.Patch{Done: &done}, r.now())
			r.dirty = true
			t := r.doc.Tasks[i]
			return &t, nil
		}
	}
	return nil, task.ErrTaskNotFound
}

// Task returns a copy of the task with the given id.
func (r *Repository) Task(id string) (*task.Task, error) {
	for i := range r.doc.Tasks {
		if r.doc.Tasks[i].ID == id {
			t := r.doc.Tasks[i]
			return &t, nil
		}
	}
	return nil, task.ErrTaskNotFound
}

// TasksOn returns copies of all tasks dated with the given YYYY-MM-DD,
// done or not, timed tasks first sorted by start minute.
func (r *Repository) TasksOn(date string) []task.Task {
	var out []task.Task
	for _, t := range r.doc.Tasks {
		if t.Date == date {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return startKey(&out[i]) < startKey(&out[j])
	})
	return out
}

// startKey orders timed tasks by start minute and pushes day tasks
// (no start) after every timed one.
func startKey(t *task.Task) int {
	if t.StartMin == nil {
		return task.MinutesPerDay + 1
	}
	return *t.StartMin
}

// Someday returns copies of all someday tasks.
func (r *Repository) Someday() []task.Task {
	var out []task.Task
	for _, t := range r.doc.Tasks {
		if t.Kind == task.KindSomeday {
			out = append(out, t)
		}
	}
	return out
}

// Completed returns up to limit done tasks, most recently updated
// first. A non-positive limit returns all of them.
func (r *Repository) Completed(limit int) []task.Task {
	var out []task.Task
	for _, t := range r.doc.Tasks {
		if t.Done {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// HasOverlapOn reports whether the interval [start,end) on date
// conflicts with any task other than excludeID. A nil end never
// conflicts, matching the open-ended policy of the conflict predicate.
func (r *Repository) HasOverlapOn(date string, start int, end *int, excludeID string) bool {
	probe := task.Task{Kind: task.KindTimed, StartMin: &start, EndMin: end}
	for i := range r.doc.Tasks {
		t := &r.doc.Tasks[i]
		if t.ID == excludeID || t.Date != date || t.Done {
			continue
		}
		if task.HasConflict(&probe, t) {
			return true
		}
	}
	return false
}

// Settings returns a snapshot of the document settings.
func (r *Repository) Settings() task.Settings {
	return r.doc.Settings
}

// UpdateSettings applies a mutation to the stored settings.
func (r *Repository) UpdateSettings(fn func(*task.Settings)) {
	fn(&r.doc.Settings)
	r.dirty = true
}

// CreateProject validates a draft and appends the new project.
func (r *Repository) CreateProject(d task.ProjectDraft) (*task.Project, error) {
	p, err := task.NewProject(d, r.now())
	if err != nil {
		return nil, err
	}
	r.doc.Projects = append(r.doc.Projects, *p)
	r.dirty = true
	return p, nil
}

// UpdateProject merges a patch into the project with the given id.
// An empty name on the patch is rejected as a validation error.
func (r *Repository) UpdateProject(id string, p task.ProjectPatch) (*task.Project, error) {
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return nil, &task.ValidationError{Field: "name", Err: errRequired}
	}
	for i := range r.doc.Projects {
		if r.doc.Projects[i].ID == id {
			r.doc.Projects[i].Apply(p, r.now())
			r.dirty = true
			proj := r.doc.Projects[i]
			return &proj, nil
		}
	}
	return nil, task.ErrProjectNotFound
}

// DeleteProject removes the project and clears the ProjectID of every
// referencing task. Tasks are never deleted with their project.
func (r *Repository) DeleteProject(id string) bool {
	idx := -1
	for i := range r.doc.Projects {
		if r.doc.Projects[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}
	r.doc.Projects = append(r.doc.Projects[:idx], r.doc.Projects[idx+1:]...)
	now := r.now()
	for i := range r.doc.Tasks {
		if r.doc.Tasks[i].ProjectID == id {
			r.doc.Tasks[i].ProjectID = ""
			r.doc.Tasks[i].UpdatedAt = now
		}
	}
	r.dirty = true
	return true
}

// Project returns a copy of the project with the given id.
func (r *Repository) Project(id string) (*task.Project, error) {
	for i := range r.doc.Projects {
		if r.doc.Projects[i].ID == id {
			p := r.doc.Projects[i]
			return &p, nil
		}
	}
	return nil, task.ErrProjectNotFound
}

// Projects returns copies of all projects.
func (r *Repository) Projects() []task.Project {
	out := make([]task.Project, len(r.doc.Projects))
	copy(out, r.doc.Projects)
	return out
}

// Progress is a project together with its task completion counters.
type Progress struct {
	task.Project
	TotalTasks     int
	CompletedTasks int
	// Percent is completed/total * 100, 0 for an empty project.
	Percent float64
}

// ProjectsWithProgress returns every project with its task counts and
// completion ratio. A task whose ProjectID points at no live project
// is treated as unassigned and counted nowhere.
func (r *Repository) ProjectsWithProgress() []Progress {
	out := make([]Progress, 0, len(r.doc.Projects))
	for _, p := range r.doc.Projects {
		prog := Progress{Project: p}
		for _, t := range r.doc.Tasks {
			if t.ProjectID != p.ID {
				continue
			}
			prog.TotalTasks++
			if t.Done {
				prog.CompletedTasks++
			}
		}
		if prog.TotalTasks > 0 {
			prog.Percent = float64(prog.CompletedTasks) / float64(prog.TotalTasks) * 100
		}
		out = append(out, prog)
	}
	return out
}
