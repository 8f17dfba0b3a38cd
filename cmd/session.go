package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/dandori-app/dandori/internal/config"
	"github.com/dandori-app/dandori/internal/repo"
	"github.com/dandori-app/dandori/internal/schedule"
	"github.com/dandori-app/dandori/internal/store"
	"github.com/dandori-app/dandori/internal/task"
)

// newLogger builds the console logger from config.
func newLogger(cfg *config.Config) *log.Logger {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = log.InfoLevel
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		Level:           level,
		ReportTimestamp: cfg.LogTimestamps,
		Prefix:          "dandori",
	})
}

// openSession loads (or seeds) the document, wraps it in a repository,
// and runs carry-over. Carry-over must finish before any view reads
// task lists, so it happens here, synchronously, not in a command.
func openSession(cfg *config.Config, logger *log.Logger) (*repo.Repository, error) {
	doc, err := store.Load(cfg.DataFile)
	if err != nil {
		if !errors.Is(err, store.ErrNotExist) {
			return nil, err
		}
		logger.Debug("no document yet, seeding", "path", cfg.DataFile)
		doc = store.Seed()
		doc.Settings.TimeUnitMin = cfg.TimeUnitMin
		doc.Settings.Theme = cfg.Theme
	}

	r := repo.New(doc)
	if cfg.CarryOver {
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
			return nil, fmt.Errorf("carry-over: %w", err)
		}
		if moved > 0 {
			logger.Info("carried over unfinished tasks", "count", moved)
		}
	}
	return r, nil
}

// flush persists the document if anything changed.
func flush(cfg *config.Config, logger *log.Logger, r *repo.Repository) error {
	if !r.Dirty() {
		return nil
	}
	if err := store.Save(cfg.DataFile, r.Document()); err != nil {
		return fmt.Errorf("saving document: %w", err)
	}
	r.ClearDirty()
	logger.Debug("document saved", "path", cfg.DataFile)
	return nil
}
