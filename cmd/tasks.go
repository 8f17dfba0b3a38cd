package cmd

import (
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/dandori-app/dandori/internal/config"
	"github.com/dandori-app/dandori/internal/repo"
	"github.com/dandori-app/dandori/internal/schedule"
	"github.com/dandori-app/dandori/internal/task"
)

// lsCommand lists tasks for a date, plus someday/done lists on request.
func lsCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("dandori ls", flag.ContinueOnError)
	someday := fs.Bool("someday", false, "List someday tasks instead of a date")
	done := fs.Bool("done", false, "List completed tasks, most recent first")
	limit := fs.Int("limit", 100, "Max completed tasks to list")
	if err := fs.Parse(args); err != nil {
		return err
	}

	logger := newLogger(cfg)
	r, err := openSession(cfg, logger)
	if err != nil {
		return err
	}

	switch {
	case *someday:
		printTasks(r.Someday(), nil)
	case *done:
		printTasks(r.Completed(*limit), nil)
	default:
		date, err := resolveDate(firstArg(fs.Args()))
		if err != nil {
			return err
		}
		tasks := r.TasksOn(date)
		fmt.Println(date)
		printTasks(tasks, schedule.Lanes(tasks))
	}

	return flush(cfg, logger, r)
}

// addCommand creates a task.
func addCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("dandori add", flag.ContinueOnError)
	date := fs.String("date", "", "Date (YYYY-MM-DD, today, tomorrow); empty with -at means today")
	at := fs.String("at", "", "Time span HH:MM-HH:MM, or HH:MM for open-ended")
	someday := fs.Bool("someday", false, "Create a someday task")
	project := fs.String("project", "", "Project id (or unique prefix)")
	priority := fs.String("priority", "", "Priority (h, m, l)")
	notes := fs.String("notes", "", "Notes")
	snap := fs.Bool("snap", false, "Snap times to the configured unit")
	if err := fs.Parse(args); err != nil {
		return err
	}
	title := strings.Join(fs.Args(), " ")

	logger := newLogger(cfg)
	r, err := openSession(cfg, logger)
	if err != nil {
		return err
	}

	d := task.Draft{
		Title:    title,
		Kind:     task.KindSomeday,
		Priority: *priority,
		Notes:    *notes,
	}
	if *project != "" {
		p, err := resolveProject(r, *project)
		if err != nil {
			return err
		}
		d.ProjectID = p.ID
	}
	if !*someday {
		if *date != "" || *at != "" {
			resolved, err := resolveDate(*date)
			if err != nil {
				return err
			}
			d.Date = resolved
			d.Kind = task.KindDay
		}
		if *at != "" {
			start, end, err := parseSpan(*at)
			if err != nil {
				return err
			}
			if *snap {
				unit := r.Settings().TimeUnitMin
				snapped := task.Snap(*start, unit)
				start = &snapped
				if end != nil {
					e := task.Snap(*end, unit)
					end = &e
				}
			}
			d.Kind = task.KindTimed
			d.StartMin = start
			d.EndMin = end
		}
	}

	t, err := r.CreateTask(d)
	if err != nil {
		return err
	}
	printTask(t, nil)
	return flush(cfg, logger, r)
}

// doneCommand toggles a task's done state.
func doneCommand(cfg *config.Config, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: dandori done <id>")
	}
	logger := newLogger(cfg)
	r, err := openSession(cfg, logger)
	if err != nil {
		return err
	}
	t, err := resolveTask(r, args[0])
	if err != nil {
		return err
	}
	updated, err := r.ToggleDone(t.ID)
	if err != nil {
		return err
	}
	printTask(updated, nil)
	return flush(cfg, logger, r)
}

// rmCommand deletes a task.
func rmCommand(cfg *config.Config, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: dandori rm <id>")
	}
	logger := newLogger(cfg)
	r, err := openSession(cfg, logger)
	if err != nil {
		return err
	}
	t, err := resolveTask(r, args[0])
	if err != nil {
		return err
	}
	if !r.DeleteTask(t.ID) {
		// Already gone: deletes are idempotent.
		logger.Warn("task already deleted", "id", t.ID)
	}
	return flush(cfg, logger, r)
}

// mvCommand reschedules a task: new date, new time span, or someday.
func mvCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("dandori mv", flag.ContinueOnError)
	date := fs.String("date", "", "New date (YYYY-MM-DD, today, tomorrow)")
	at := fs.String("at", "", "New time span HH:MM-HH:MM, or HH:MM for open-ended")
	someday := fs.Bool("someday", false, "Move to the someday list")
	snap := fs.Bool("snap", false, "Snap times to the configured unit")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: dandori mv [flags] <id>")
	}

	logger := newLogger(cfg)
	r, err := openSession(cfg, logger)
	if err != nil {
		return err
	}
	t, err := resolveTask(r, fs.Arg(0))
	if err != nil {
		return err
	}

	var patch task.Patch
	switch {
	case *someday:
		kind := task.KindSomeday
		patch.Kind = &kind
	case *at != "":
		start, end, err := parseSpan(*at)
		if err != nil {
			return err
		}
		if *snap {
			unit := r.Settings().TimeUnitMin
			snapped := task.Snap(*start, unit)
			start = &snapped
			if end != nil {
				e := task.Snap(*end, unit)
				end = &e
			}
		}
		kind := task.KindTimed
		patch.Kind = &kind
		patch.StartMin = start
		patch.EndMin = end
		patch.ClearEnd = end == nil
		resolved, err := resolveDate(*date)
		if err != nil {
			return err
		}
		patch.Date = &resolved
	case *date != "":
		resolved, err := resolveDate(*date)
		if err != nil {
			return err
		}
		patch.Date = &resolved
		if t.Kind == task.KindSomeday {
			kind := task.KindDay
			patch.Kind = &kind
		}
	default:
		return fmt.Errorf("nothing to change: pass -date, -at, or -someday")
	}

	updated, err := r.UpdateTask(t.ID, patch)
	if err != nil {
		return err
	}
	printTask(updated, nil)
	return flush(cfg, logger, r)
}

// resolveDate maps "", "today", "tomorrow", or YYYY-MM-DD to a date
// string, validating the format.
func resolveDate(arg string) (string, error) {
	now := time.Now()
	switch arg {
	case "", "today":
		return task.FormatYMD(now), nil
	case "tomorrow":
		return task.FormatYMD(now.AddDate(0, 0, 1)), nil
	}
	if _, err := task.ParseYMD(arg); err != nil {
		return "", err
	}
	return arg, nil
}

// parseSpan parses "HH:MM-HH:MM" or a lone "HH:MM" (open-ended).
func parseSpan(s string) (*int, *int, error) {
	from, to, found := strings.Cut(s, "-")
	start, err := task.ClockToMinutes(from)
	if err != nil {
		return nil, nil, err
	}
	if !found || to == "" {
		return &start, nil, nil
	}
	end, err := task.ClockToMinutes(to)
	if err != nil {
		return nil, nil, err
	}
	return &start, &end, nil
}

// resolveTask finds a task by id or unique prefix.
func resolveTask(r *repo.Repository, prefix string) (*task.Task, error) {
	if t, err := r.Task(prefix); err == nil {
		return t, nil
	}
	var match *task.Task
	for _, t := range r.Document().Tasks {
		if strings.HasPrefix(t.ID, prefix) {
			if match != nil {
				return nil, fmt.Errorf("id prefix %q is ambiguous", prefix)
			}
			t := t
			match = &t
		}
	}
	if match == nil {
		return nil, task.ErrTaskNotFound
	}
	return match, nil
}

// resolveProject finds a project by id, unique id prefix, or name.
func resolveProject(r *repo.Repository, key string) (*task.Project, error) {
	if p, err := r.Project(key); err == nil {
		return p, nil
	}
	var match *task.Project
	for _, p := range r.Projects() {
		if strings.HasPrefix(p.ID, key) || p.Name == key {
			if match != nil {
				return nil, fmt.Errorf("project %q is ambiguous", key)
			}
			p := p
			match = &p
		}
	}
	if match == nil {
		return nil, task.ErrProjectNotFound
	}
	return match, nil
}

func firstArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return ""
}

func printTasks(tasks []task.Task, placements map[string]schedule.Placement) {
	if len(tasks) == 0 {
		fmt.Println("  (no tasks)")
		return
	}
	for i := range tasks {
		printTask(&tasks[i], placements)
	}
}

func printTask(t *task.Task, placements map[string]schedule.Placement) {
	mark := " "
	if t.Done {
		mark = "x"
	}
	span := ""
	if t.StartMin != nil {
		span = " " + task.MinutesToClock(*t.StartMin)
		if t.EndMin != nil {
			span += "-" + task.MinutesToClock(*t.EndMin)
		}
	}
	lane := ""
	if p, ok := placements[t.ID]; ok && p.Lanes > 1 {
		lane = fmt.Sprintf("  [lane %d/%d]", p.Lane+1, p.Lanes)
	}
	fmt.Printf("  [%s] %s%s %s%s\n", mark, shortID(t.ID), span, t.Title, lane)
}

// shortID abbreviates a uuid for display.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
