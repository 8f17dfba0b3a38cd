package config

import (
	"flag"
	"os"
	"path/filepath"
	"testing"
)

// isolate points HOME at an empty temp dir so user config files and
// real env vars cannot leak into the test.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	for _, key := range []string{
		"DANDORI_DATA_FILE", "DANDORI_CARRY_OVER", "DANDORI_TIME_UNIT_MIN",
		"DANDORI_THEME", "DANDORI_LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(cwd) })
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cfg, err := Load(fs, nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.CarryOver {
		t.Error("carry-over should default on")
	}
	if cfg.TimeUnitMin != DefaultTimeUnit {
		t.Errorf("TimeUnitMin = %d", cfg.TimeUnitMin)
	}
	if cfg.LogLevel != DefaultLogLevel {
		t.Errorf("LogLevel = %q", cfg.LogLevel)
	}
	if filepath.Base(cfg.DataFile) != "tasks.json" {
		t.Errorf("DataFile = %q", cfg.DataFile)
	}
	if cfg.DataFile[0] == '~' {
		t.Error("home dir not expanded")
	}
}

func TestLoadFlagsOverrideEnv(t *testing.T) {
	isolate(t)
	t.Setenv("DANDORI_DATA_FILE", "/env/tasks.json")
	t.Setenv("DANDORI_TIME_UNIT_MIN", "30")

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cfg, err := Load(fs, []string{"-data-file", "/flag/tasks.json"})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DataFile != "/flag/tasks.json" {
		t.Errorf("DataFile = %q, flag should win over env", cfg.DataFile)
	}
	if cfg.TimeUnitMin != 30 {
		t.Errorf("TimeUnitMin = %d, env should win over default", cfg.TimeUnitMin)
	}
}

func TestLoadProjectConfigFile(t *testing.T) {
	isolate(t)
	body := "data_file = \"project-tasks.json\"\ncarry_over = false\ntime_unit_min = 10\n"
	if err := os.WriteFile("dandori.toml", []byte(body), 0644); err != nil {
		t.Fatal(err)
	}

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cfg, err := Load(fs, nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DataFile != "project-tasks.json" {
		t.Errorf("DataFile = %q", cfg.DataFile)
	}
	if cfg.CarryOver {
		t.Error("carry_over=false from file ignored")
	}
	if cfg.TimeUnitMin != 10 {
		t.Errorf("TimeUnitMin = %d", cfg.TimeUnitMin)
	}
}

func TestExpandHome(t *testing.T) {
	t.Setenv("HOME", "/home/sample")
	got, err := ExpandHome("~/.dandori/tasks.json")
	if err != nil {
		t.Fatalf("ExpandHome: %v", err)
	}
	if got != "/home/sample/.dandori/tasks.json" {
		t.Errorf("got %q", got)
	}
	got, err = ExpandHome("/absolute/path")
	if err != nil || got != "/absolute/path" {
		t.Errorf("absolute path changed: %q, %v", got, err)
	}
}
