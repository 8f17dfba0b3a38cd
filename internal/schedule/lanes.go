// Package schedule implements the carry-over scheduler and the lane
// packing used to lay out overlapping timed tasks side by side.
package schedule

import (
	"sort"

	"github.com/dandori-app/dandori/internal/task"
)

// Placement is the layout slot for one timed task: a 0-based column
// and the total column count of its overlap cluster.
type Placement struct {
	Lane  int
	Lanes int
}

// Lanes assigns a lane to every timed task in one day's task list,
// greedy first-fit over an active list. Tasks are processed in
// (start, end) order; a task leaves the active list once its end is at
// or before the current start, and an empty active list starts a new
// cluster so an idle gap resets the column count. Timed tasks without
// an end minute are skipped: they have no span to place on the grid.
//
// The result maps task id to its placement, where Lanes is the cluster
// max lane + 1 and sizes the visual width.
func Lanes(tasks []task.Task) map[string]Placement {
	timed := make([]task.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.Timed() {
			timed = append(timed, t)
		}
	}
	sort.SliceStable(timed, func(i, j int) bool {
		if *timed[i].StartMin != *timed[j].StartMin {
			return *timed[i].StartMin < *timed[j].StartMin
		}
		return *timed[i].EndMin < *timed[j].EndMin
	})

	type slot struct {
		end  int
		lane int
	}
	var active []slot
	type placed struct {
		lane    int
		cluster int
	}
	byID := make(map[string]placed, len(timed))
	clusterMax := make(map[int]int)
	cluster := 0

	for _, t := range timed {
		start := *t.StartMin
		kept := active[:0]
		for _, s := range active {
			if s.end > start {
				kept = append(kept, s)
			}
		}
		active = kept
		if len(active) == 0 {
			cluster++
		}
		used := make(map[int]bool, len(active))
		for _, s := range active {
			used[s.lane] = true
		}
		lane := 0
		for used[lane] {
			lane++
		}
		active = append(active, slot{end: *t.EndMin, lane: lane})
		byID[t.ID] = placed{lane: lane, cluster: cluster}
		if lane > clusterMax[cluster] {
			clusterMax[cluster] = lane
		}
	}

	out := make(map[string]Placement, len(byID))
	for id, p := range byID {
		out[id] = Placement{Lane: p.lane, Lanes: clusterMax[p.cluster] + 1}
	}
	return out
}
