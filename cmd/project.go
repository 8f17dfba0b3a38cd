package cmd

import (
	"flag"
	"fmt"
	"strings"

	"github.com/dandori-app/dandori/internal/config"
	"github.com/dandori-app/dandori/internal/task"
)

// projectCommand dispatches the project subcommands.
func projectCommand(cfg *config.Config, args []string) error {
	sub := "list"
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		sub = args[0]
		args = args[1:]
	}
	switch sub {
	case "list", "ls":
		return projectListCommand(cfg, args)
	case "add":
		return projectAddCommand(cfg, args)
	case "rm":
		return projectRmCommand(cfg, args)
	default:
		return fmt.Errorf("unknown project command: %s", sub)
	}
}

func projectListCommand(cfg *config.Config, args []string) error {
	logger := newLogger(cfg)
	r, err := openSession(cfg, logger)
	if err != nil {
		return err
	}
	progress := r.ProjectsWithProgress()
	if len(progress) == 0 {
		fmt.Println("  (no projects)")
		return flush(cfg, logger, r)
	}
	for _, p := range progress {
		deadline := ""
		if p.Deadline != "" {
			deadline = "  due " + p.Deadline
		}
		fmt.Printf("  %s %s  %d/%d (%.0f%%)%s\n",
			shortID(p.ID), p.Name, p.CompletedTasks, p.TotalTasks, p.Percent, deadline)
	}
	return flush(cfg, logger, r)
}

func projectAddCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("dandori project add", flag.ContinueOnError)
	color := fs.String("color", "", "Theme color token")
	deadline := fs.String("deadline", "", "Deadline (YYYY-MM-DD)")
	memo := fs.String("memo", "", "Memo")
	if err := fs.Parse(args); err != nil {
		return err
	}
	name := strings.Join(fs.Args(), " ")

	logger := newLogger(cfg)
	r, err := openSession(cfg, logger)
	if err != nil {
		return err
	}
	p, err := r.CreateProject(task.ProjectDraft{
		Name:     name,
		Color:    *color,
		Deadline: *deadline,
		Memo:     *memo,
	})
	if err != nil {
		return err
	}
	fmt.Printf("  %s %s\n", shortID(p.ID), p.Name)
	return flush(cfg, logger, r)
}

func projectRmCommand(cfg *config.Config, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: dandori project rm <id>")
	}
	logger := newLogger(cfg)
	r, err := openSession(cfg, logger)
	if err != nil {
		return err
	}
	p, err := resolveProject(r, args[0])
	if err != nil {
		return err
	}
	// Tasks survive: the repository only unassigns them.
	if r.DeleteProject(p.ID) {
		logger.Info("project deleted, tasks unassigned", "name", p.Name)
	}
	return flush(cfg, logger, r)
}
