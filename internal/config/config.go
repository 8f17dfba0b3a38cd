// Package config handles configuration loading and defaults.
package config

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
)

// Default values.
const (
	DefaultDataFile = "~/.dandori/tasks.json"
	DefaultTimeUnit = 15
	DefaultLogLevel = "info"
	DefaultTheme    = "dark"
)

// Config holds the full configuration for dandori.
type Config struct {
	// Paths
	DataFile string `toml:"data_file"`

	// Scheduling
	CarryOver   bool `toml:"carry_over"`
	TimeUnitMin int  `toml:"time_unit_min"`

	// Display
	Theme string `toml:"theme"`

	// Logging
	LogLevel      string `toml:"log_level"`
	LogTimestamps bool   `toml:"log_timestamps"`
}

// Load loads configuration from multiple sources in priority order:
// 1. Defaults
// 2. User config file (~/.dandori/dandori.toml or OS config dir)
// 3. Project config file (dandori.toml or .dandori.toml in cwd)
// 4. Environment variables
// 5. CLI flags
func Load(fs *flag.FlagSet, args []string) (*Config, error) {
	cfg := &Config{}
	setDefaults(cfg)

	if userFile := findUserConfigFile(); userFile != "" {
		if err := loadConfigFile(cfg, userFile); err != nil {
			return nil, fmt.Errorf("loading user config file %s: %w", userFile, err)
		}
	}
	if projFile := findProjectConfigFile(); projFile != "" {
		if err := loadConfigFile(cfg, projFile); err != nil {
			return nil, fmt.Errorf("loading project config file %s: %w", projFile, err)
		}
	}

	loadFromEnv(cfg)

	if err := parseFlags(cfg, fs, args); err != nil {
		return nil, fmt.Errorf("parsing flags: %w", err)
	}

	if err := finalize(cfg); err != nil {
		return nil, fmt.Errorf("finalizing config: %w", err)
	}
	return cfg, nil
}

func setDefaults(cfg *Config) {
	cfg.DataFile = DefaultDataFile
	cfg.CarryOver = true
	cfg.TimeUnitMin = DefaultTimeUnit
	cfg.Theme = DefaultTheme
	cfg.LogLevel = DefaultLogLevel
}

// findUserConfigFile returns the first existing user-level config file.
func findUserConfigFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	candidates := []string{
		filepath.Join(home, ".dandori", "dandori.toml"),
	}
	if configDir, err := os.UserConfigDir(); err == nil {
		candidates = append(candidates, filepath.Join(configDir, "dandori", "dandori.toml"))
	}
	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c
		}
	}
	return ""
}

// findProjectConfigFile returns a config file in the current directory.
func findProjectConfigFile() string {
	for _, c := range []string{"dandori.toml", ".dandori.toml"} {
		if _, err := os.Stat(c); err == nil {
			return c
		}
	}
	return ""
}

func loadConfigFile(cfg *Config, path string) error {
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return err
	}
	return nil
}

func loadFromEnv(cfg *Config) {
	if v := os.Getenv("DANDORI_DATA_FILE"); v != "" {
		cfg.DataFile = v
	}
	if v := os.Getenv("DANDORI_CARRY_OVER"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.CarryOver = b
		}
	}
	if v := os.Getenv("DANDORI_TIME_UNIT_MIN"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.TimeUnitMin = n
		}
	}
	if v := os.Getenv("DANDORI_THEME"); v != "" {
		cfg.Theme = v
	}
	if v := os.Getenv("DANDORI_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
}

func parseFlags(cfg *Config, fs *flag.FlagSet, args []string) error {
	fs.StringVar(&cfg.DataFile, "data-file", cfg.DataFile, "Path to the task document")
	fs.BoolVar(&cfg.CarryOver, "carry-over", cfg.CarryOver, "Roll unfinished tasks forward on startup")
	fs.IntVar(&cfg.TimeUnitMin, "time-unit", cfg.TimeUnitMin, "Snap granularity in minutes")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	return fs.Parse(args)
}

func finalize(cfg *Config) error {
	expanded, err := ExpandHome(cfg.DataFile)
	if err != nil {
		return err
	}
	cfg.DataFile = expanded
	if cfg.TimeUnitMin <= 0 {
		cfg.TimeUnitMin = DefaultTimeUnit
	}
	return nil
}

// ExpandHome expands a leading ~ to the user's home directory.
func ExpandHome(path string) (string, error) {
	if len(path) == 0 || path[0] != '~' {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home dir: %w", err)
	}
	if path == "~" {
		return home, nil
	}
	return filepath.Join(home, path[1:]), nil
}
