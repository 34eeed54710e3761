package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	DefaultActivity        = "Activity"
	DefaultRefreshSchedule = "@every 1h"
	appDir                 = "habitr"
)

type Config struct {
	// Activity is the label shown for the tracked habit.
	Activity        string `yaml:"activity"`
	DBPath          string `yaml:"db_path"`
	LogFile         string `yaml:"log_file"`
	RefreshSchedule string `yaml:"refresh_schedule"`
}

func Default() *Config {
	dir := Dir()
	return &Config{
		Activity:        DefaultActivity,
		DBPath:          filepath.Join(dir, "habitr.db"),
		LogFile:         filepath.Join(dir, "habitr.log"),
		RefreshSchedule: DefaultRefreshSchedule,
	}
}

// Dir returns ~/.config/habitr, or the platform equivalent.
func Dir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		home, _ := os.UserHomeDir()
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, appDir)
}

func DefaultPath() string {
	return filepath.Join(Dir(), "config.yaml")
}

// Load reads the YAML config at path, or DefaultPath when path is empty.
// A missing file yields the defaults. HABITR_DB overrides db_path.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if db := os.Getenv("HABITR_DB"); db != "" {
		cfg.DBPath = db
	}

	def := Default()
	if cfg.Activity == "" {
		cfg.Activity = def.Activity
	}
	if cfg.DBPath == "" {
		cfg.DBPath = def.DBPath
	}
	if cfg.LogFile == "" {
		cfg.LogFile = def.LogFile
	}
	if cfg.RefreshSchedule == "" {
		cfg.RefreshSchedule = def.RefreshSchedule
	}
	return cfg, nil
}

// Save writes cfg as YAML to path, creating its directory.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
