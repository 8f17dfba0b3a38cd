package schedule

import (
	"fmt"
	"testing"

	"github.com/dandori-app/dandori/internal/task"
)

func intp(v int) *int { return &v }

func timedTask(id string, start, end int) task.Task {
	return task.Task{
		ID: id, Title: id, Kind: task.KindTimed, Date: "2025-03-09",
		StartMin: intp(start), EndMin: intp(end),
	}
}

func TestLanesSingleTask(t *testing.T) {
	out := Lanes([]task.Task{timedTask("a", 540, 600)})
	p := out["a"]
	if p.Lane != 0 || p.Lanes != 1 {
		t.Errorf("got %+v, want lane 0, lanes 1", p)
	}
}

func TestLanesDisjointTasksShareLaneZero(t *testing.T) {
	out := Lanes([]task.Task{
		timedTask("a", 540, 600),
		timedTask("b", 600, 660),
	})
	for _, id := range []string{"a", "b"} {
		p := out[id]
		if p.Lane != 0 || p.Lanes != 1 {
			t.Errorf("%s: got %+v, want lane 0, lanes 1", id, p)
		}
	}
}

func TestLanesMutualOverlap(t *testing.T) {
	// N tasks all sharing an instant must get N distinct lanes.
	const n = 5
	var tasks []task.Task
	for i := 0; i < n; i++ {
		tasks = append(tasks, timedTask(fmt.Sprintf("t%d", i), 500+i*10, 700))
	}
	out := Lanes(tasks)
	seen := make(map[int]bool)
	for id, p := range out {
		if p.Lanes != n {
			t.Errorf("%s: lanes = %d, want %d", id, p.Lanes, n)
		}
		if p.Lane < 0 || p.Lane >= n {
			t.Errorf("%s: lane %d out of [0,%d)", id, p.Lane, n)
		}
		if seen[p.Lane] {
			t.Errorf("%s: lane %d assigned twice", id, p.Lane)
		}
		seen[p.Lane] = true
	}
}

func TestLanesIdenticalIntervals(t *testing.T) {
	out := Lanes([]task.Task{
		timedTask("a", 540, 600),
		timedTask("b", 540, 600),
	})
	if out["a"].Lane == out["b"].Lane {
		t.Error("identical intervals must get distinct lanes")
	}
	if out["a"].Lanes != 2 || out["b"].Lanes != 2 {
		t.Errorf("lanes = %d/%d, want 2/2", out["a"].Lanes, out["b"].Lanes)
	}
}

func TestLanesIdleGapResetsCluster(t *testing.T) {
	// Two overlapping tasks in the morning, one lone task after a gap.
	// The lone task must not inherit the morning's lane count.
	out := Lanes([]task.Task{
		timedTask("m1", 540, 600),
		timedTask("m2", 570, 630),
		timedTask("pm", 900, 960),
	})
	if out["pm"].Lane != 0 || out["pm"].Lanes != 1 {
		t.Errorf("pm: got %+v, want lane 0, lanes 1", out["pm"])
	}
	if out["m1"].Lanes != 2 || out["m2"].Lanes != 2 {
		t.Errorf("morning lanes = %d/%d, want 2/2", out["m1"].Lanes, out["m2"].Lanes)
	}
}

func TestLanesFreedLaneReused(t *testing.T) {
	// c starts after a ended; within the still-open cluster (b spans
	// it) c takes lane 0 again.
	out := Lanes([]task.Task{
		timedTask("a", 540, 570),
		timedTask("b", 550, 640),
		timedTask("c", 580, 620),
	})
	if out["a"].Lane != 0 || out["b"].Lane != 1 || out["c"].Lane != 0 {
		t.Errorf("lanes = a:%d b:%d c:%d, want 0/1/0",
			out["a"].Lane, out["b"].Lane, out["c"].Lane)
	}
	for _, id := range []string{"a", "b", "c"} {
		if out[id].Lanes != 2 {
			t.Errorf("%s: lanes = %d, want 2", id, out[id].Lanes)
		}
	}
}

func TestLanesIgnoresUntimedAndOpenEnded(t *testing.T) {
	dayTask := task.Task{ID: "d", Title: "d", Kind: task.KindDay, Date: "2025-03-09"}
	openEnded := task.Task{
		ID: "o", Title: "o", Kind: task.KindTimed, Date: "2025-03-09",
		StartMin: intp(540),
	}
	out := Lanes([]task.Task{dayTask, openEnded, timedTask("a", 540, 600)})
	if _, ok := out["d"]; ok {
		t.Error("day task must not be placed")
	}
	if _, ok := out["o"]; ok {
		t.Error("open-ended task must not be placed")
	}
	if p := out["a"]; p.Lane != 0 || p.Lanes != 1 {
		t.Errorf("a: got %+v, want lane 0, lanes 1", p)
	}
}

func TestLanesDeterministicTieBreak(t *testing.T) {
	// Equal starts: the shorter task sorts first and takes lane 0.
	out := Lanes([]task.Task{
		timedTask("long", 540, 660),
		timedTask("short", 540, 570),
	})
	if out["short"].Lane != 0 || out["long"].Lane != 1 {
		t.Errorf("lanes = short:%d long:%d, want 0/1",
			out["short"].Lane, out["long"].Lane)
	}
}
