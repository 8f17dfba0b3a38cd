package task

import "time"

// Patch is a partial update. Nil fields are left untouched. Changing
// the kind strips fields invalid for the new kind (see Normalize);
// time values set on a patch are not re-validated against each other,
// so an equal start and end passes through an update even though New
// rejects it.
type Patch struct {
	Title     *string
	Kind      *Kind
	Date      *string
	ProjectID *string
	StartMin  *int
	EndMin    *int
	// ClearEnd removes the end minute, making a timed task open-ended.
	ClearEnd  bool
	Done      *bool
	Priority  *string
	Notes     *string
}

// Apply merges the patch into the task, normalizes the result for its
// kind, and refreshes UpdatedAt.
func (t *Task) Apply(p Patch, now time.Time) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Kind != nil {
		t.Kind = *p.Kind
	}
	if p.Date != nil {
		t.Date = *p.Date
	}
	if p.ProjectID != nil {
		t.ProjectID = *p.ProjectID
	}
	if p.StartMin != nil {
		t.StartMin = copyMin(p.StartMin)
	}
	if p.ClearEnd {
		t.EndMin = nil
	} else if p.EndMin != nil {
		t.EndMin = copyMin(p.EndMin)
	}
	if p.Done != nil {
		t.Done = *p.Done
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.Notes != nil {
		t.Notes = *p.Notes
	}
	t.Normalize()
	t.UpdatedAt = now
}

// Normalize strips fields that are invalid for the task's kind:
// someday tasks carry no date or times, day tasks carry a date but no
// times. Timed tasks keep whatever times they have (EndMin optional).
func (t *Task) Normalize() {
	switch t.Kind {
	case KindSomeday:
		t.Date = ""
		t.StartMin = nil
		t.EndMin = nil
	case KindDay:
		t.StartMin = nil
		t.EndMin = nil
	}
}

// ProjectPatch is a partial project update. Nil fields are untouched.
type ProjectPatch struct {
	Name     *string
	Color    *string
	Deadline *string
	Memo     *string
}

// Apply merges the patch into the project and refreshes UpdatedAt.
// An empty name on the patch is rejected by the repository before it
// reaches here.
func (p *Project) Apply(patch ProjectPatch, now time.Time) {
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Color != nil {
		p.Color = *patch.Color
	}
	if patch.Deadline != nil {
		p.Deadline = *patch.Deadline
	}
	if patch.Memo != nil {
		p.Memo = *patch.Memo
	}
	p.UpdatedAt = now
}
