package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/dandori-app/dandori/internal/config"
	"github.com/dandori-app/dandori/internal/repo"
	"github.com/dandori-app/dandori/internal/schedule"
	"github.com/dandori-app/dandori/internal/store"
	"github.com/dandori-app/dandori/internal/task"
	"github.com/dandori-app/dandori/internal/ui"
)

// carryCommand runs carry-over explicitly, even when the config
// disables it at session start.
func carryCommand(cfg *config.Config, args []string) error {
	logger := newLogger(cfg)
	doc, err := store.Load(cfg.DataFile)
	if err != nil {
		if errors.Is(err, store.ErrNotExist) {
			logger.Info("no document yet, nothing to carry")
			return nil
		}
		return err
	}

	r := repo.New(doc)
	today := task.FormatYMD(time.Now())
	moved, err := schedule.CarryOver(today, schedule.Deps{
		Settings:       r.Settings,
		UpdateSettings: r.UpdateSettings,
		TasksOn:        r.TasksOn,
		HasOverlapOn:   r.HasOverlapOn,
		UpdateTask: func(id string, p task.Patch) error {
			_, err := r.UpdateTask(id, p)
			return err
		},
	})
	if err != nil {
		return err
	}
	logger.Info("carry-over complete", "moved", moved, "date", today)
	return flush(cfg, logger, r)
}

// validateCommand checks the document on disk and reports problems.
func validateCommand(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("dandori validate", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	path := cfg.DataFile
	if fs.NArg() == 1 {
		path = fs.Arg(0)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read document: %w", err)
	}
	if _, err := store.Import(data); err != nil {
		return err
	}
	fmt.Printf("%s: valid\n", path)
	return nil
}

// exportCommand writes a backup of the document.
func exportCommand(cfg *config.Config, args []string) error {
	out := fmt.Sprintf("dandori_backup_%s.json", task.FormatYMD(time.Now()))
	if len(args) == 1 {
		out = args[0]
	}
	doc, err := store.Load(cfg.DataFile)
	if err != nil {
		return err
	}
	data, err := store.Export(doc)
	if err != nil {
		return err
	}
	if err := os.WriteFile(out, data, 0644); err != nil {
		return fmt.Errorf("write backup: %w", err)
	}
	fmt.Printf("exported to %s\n", out)
	return nil
}

// importCommand replaces the document from a backup after validation.
func importCommand(cfg *config.Config, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: dandori import <path>")
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read backup: %w", err)
	}
	doc, err := store.Import(data)
	if err != nil {
		return err
	}
	if err := store.Save(cfg.DataFile, doc); err != nil {
		return err
	}
	fmt.Printf("imported %d tasks, %d projects\n", len(doc.Tasks), len(doc.Projects))
	return nil
}

// tuiCommand opens the interactive day view.
func tuiCommand(ctx context.Context, cfg *config.Config, args []string) error {
	logger := newLogger(cfg)
	r, err := openSession(cfg, logger)
	if err != nil {
		return err
	}
	if err := ui.RunDayView(ctx, cfg, r); err != nil {
		return err
	}
	return flush(cfg, logger, r)
}
