package cmd

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/dandori-app/dandori/internal/config"
	"github.com/dandori-app/dandori/internal/store"
	"github.com/dandori-app/dandori/internal/task"
)

func intp(v int) *int { return &v }

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		DataFile:    filepath.Join(t.TempDir(), "tasks.json"),
		CarryOver:   true,
		TimeUnitMin: 15,
		Theme:       "dark",
		LogLevel:    "error",
	}
}

func TestResolveDate(t *testing.T) {
	today := task.FormatYMD(time.Now())
	tomorrow := task.FormatYMD(time.Now().AddDate(0, 0, 1))

	tests := []struct {
		arg     string
		want    string
		wantErr bool
	}{
		{"", today, false},
		{"today", today, false},
		{"tomorrow", tomorrow, false},
		{"2025-03-09", "2025-03-09", false},
		{"yesterday", "", true},
		{"03/09/2025", "", true},
	}
	for _, tt := range tests {
		got, err := resolveDate(tt.arg)
		if tt.wantErr {
			if err == nil {
				t.Errorf("resolveDate(%q) should fail", tt.arg)
			}
			continue
		}
		if err != nil {
			t.Errorf("resolveDate(%q): %v", tt.arg, err)
			continue
		}
		if got != tt.want {
			t.Errorf("resolveDate(%q) = %q, want %q", tt.arg, got, tt.want)
		}
	}
}

func TestParseSpan(t *testing.T) {
	start, end, err := parseSpan("09:00-10:30")
	if err != nil {
		t.Fatalf("parseSpan: %v", err)
	}
	if *start != 540 || end == nil || *end != 630 {
		t.Errorf("span = %v-%v", *start, end)
	}

	start, end, err = parseSpan("22:00")
	if err != nil {
		t.Fatalf("parseSpan open-ended: %v", err)
	}
	if *start != 1320 || end != nil {
		t.Errorf("open-ended span = %v-%v", *start, end)
	}

	if _, _, err := parseSpan("25:00-26:00"); err == nil {
		t.Error("out-of-range span should fail")
	}
}

func TestShortID(t *testing.T) {
	if got := shortID("0123456789abcdef"); got != "01234567" {
		t.Errorf("shortID = %q", got)
	}
	if got := shortID("abc"); got != "abc" {
		t.Errorf("shortID = %q", got)
	}
}

func TestAddAndListRoundTrip(t *testing.T) {
	cfg := testConfig(t)
	if err := addCommand(cfg, []string{"-date", "2025-03-09", "-at", "09:00-10:00", "water", "plants"}); err != nil {
		t.Fatalf("addCommand: %v", err)
	}

	doc, err := store.Load(cfg.DataFile)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(doc.Tasks) != 1 {
		t.Fatalf("tasks = %d, want 1", len(doc.Tasks))
	}
	got := doc.Tasks[0]
	if got.Title != "water plants" {
		t.Errorf("title = %q", got.Title)
	}
	if got.Kind != task.KindTimed || got.StartMin == nil || *got.StartMin != 540 {
		t.Errorf("task = %+v", got)
	}

	if err := lsCommand(cfg, []string{"2025-03-09"}); err != nil {
		t.Fatalf("lsCommand: %v", err)
	}
}

func TestAddRejectsEmptyTitle(t *testing.T) {
	cfg := testConfig(t)
	if err := addCommand(cfg, []string{"-someday"}); err == nil {
		t.Fatal("empty title should fail")
	}
	if _, err := store.Load(cfg.DataFile); err == nil {
		t.Error("failed add must not create a document")
	}
}

func TestDoneTogglesByPrefix(t *testing.T) {
	cfg := testConfig(t)
	if err := addCommand(cfg, []string{"-someday", "read", "a", "book"}); err != nil {
		t.Fatalf("addCommand: %v", err)
	}
	doc, err := store.Load(cfg.DataFile)
	if err != nil {
		t.Fatal(err)
	}
	prefix := doc.Tasks[0].ID[:8]

	if err := doneCommand(cfg, []string{prefix}); err != nil {
		t.Fatalf("doneCommand: %v", err)
	}
	doc, err = store.Load(cfg.DataFile)
	if err != nil {
		t.Fatal(err)
	}
	if !doc.Tasks[0].Done {
		t.Error("task not marked done")
	}
}

func TestOpenSessionRunsCarryOver(t *testing.T) {
	cfg := testConfig(t)
	yesterday := task.FormatYMD(time.Now().AddDate(0, 0, -1))
	now := time.Now().UTC()

	doc := store.Seed()
	doc.Settings.LastOpenedYMD = yesterday
	doc.Tasks = append(doc.Tasks, task.Task{
		ID: "carrytest", Title: "unfinished", Kind: task.KindTimed, Date: yesterday,
		StartMin: intp(540), EndMin: intp(600), Priority: "m",
		CreatedAt: now, UpdatedAt: now,
	})
	if err := store.Save(cfg.DataFile, doc); err != nil {
		t.Fatalf("Save: %v", err)
	}

	logger := newLogger(cfg)
	r, err := openSession(cfg, logger)
	if err != nil {
		t.Fatalf("openSession: %v", err)
	}
	got, err := r.Task("carrytest")
	if err != nil {
		t.Fatal(err)
	}
	today := task.FormatYMD(time.Now())
	if got.Date != today {
		t.Errorf("date = %q, want %q", got.Date, today)
	}
	if r.Settings().LastOpenedYMD != today {
		t.Error("watermark not advanced")
	}
	if err := flush(cfg, logger, r); err != nil {
		t.Fatalf("flush: %v", err)
	}
}
