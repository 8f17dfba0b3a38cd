package schedule

import (
	"fmt"

	"github.com/dandori-app/dandori/internal/task"
)

// Deps are the carry-over collaborators, injected so the scheduler can
// run against any repository (or a test double) without reaching into
// shared state.
type Deps struct {
	// Settings returns the current settings snapshot.
	Settings func() task.Settings
	// UpdateSettings applies a mutation to the stored settings.
	UpdateSettings func(func(*task.Settings))
	// TasksOn returns all tasks dated with the given YYYY-MM-DD.
	TasksOn func(date string) []task.Task
	// HasOverlapOn reports whether [start,end) on date conflicts with
	// any task other than excludeID. A nil end never conflicts.
	HasOverlapOn func(date string, start int, end *int, excludeID string) bool
	// UpdateTask applies a patch to the task with the given id.
	UpdateTask func(id string, p task.Patch) error
}

// CarryOver rolls unfinished day and timed tasks forward from the
// watermark date to today. A timed task whose slot is already occupied
// today is demoted to a day task (times cleared); otherwise it keeps
// its start and end. The watermark is advanced to today exactly once
// per run, so a second call on the same day is a no-op.
//
// Returns the number of tasks moved.
func CarryOver(today string, deps Deps) (int, error) {
	settings := deps.Settings()
	if !settings.CarryOver {
		return 0, nil
	}
	last := settings.LastOpenedYMD
	if last == today {
		return 0, nil
	}
	if last == "" {
		// First run: nothing to draw from, just record the watermark.
		deps.UpdateSettings(func(s *task.Settings) { s.LastOpenedYMD = today })
		return 0, nil
	}

	moved := 0
	for _, t := range deps.TasksOn(last) {
		if t.Done || (t.Kind != task.KindDay && t.Kind != task.KindTimed) {
			continue
		}
		var patch task.Patch
		switch t.Kind {
		case task.KindDay:
			patch = task.Patch{Kind: kindPtr(task.KindDay), Date: strPtr(today)}
		case task.KindTimed:
			if t.StartMin != nil && deps.HasOverlapOn(today, *t.StartMin, t.EndMin, t.ID) {
				// Slot taken: demote, Normalize clears the times.
				patch = task.Patch{Kind: kindPtr(task.KindDay), Date: strPtr(today)}
			} else {
				patch = task.Patch{Kind: kindPtr(task.KindTimed), Date: strPtr(today)}
			}
		}
		if err := deps.UpdateTask(t.ID, patch); err != nil {
			return moved, fmt.Errorf("carry over task %s: %w", t.ID, err)
		}
		moved++
	}

	deps.UpdateSettings(func(s *task.Settings) { s.LastOpenedYMD = today })
	return moved, nil
}

func kindPtr(k task.Kind) *task.Kind { return &k }
func strPtr(s string) *string        { return &s }
