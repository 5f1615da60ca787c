// Package config loads the wldtool YAML config file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	// DataDir holds the index database and op log when their paths are
	// left empty.
	DataDir string `yaml:"data_dir"`

	// PolicyPath is an optional version table overlay.
	PolicyPath string `yaml:"policy_path,omitempty"`

	Backups BackupSpec `yaml:"backups"`
	Index   IndexSpec  `yaml:"index"`
	OpLog   OpLogSpec  `yaml:"oplog"`
	Log     LogSpec    `yaml:"log"`

	Cache CacheSpec `yaml:"cache"`
}

type BackupSpec struct {
	Enabled bool `yaml:"enabled"`
	Keep    int  `yaml:"keep"`
}

type IndexSpec struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

type OpLogSpec struct {
	Enabled bool   `yaml:"enabled"`
	Dir     string `yaml:"dir"`
}

type LogSpec struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`

	// File enables rotated file output in addition to stderr.
	File       string `yaml:"file,omitempty"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

type CacheSpec struct {
	// MaxSummaries bounds the Inspect cache by entry count.
	MaxSummaries int64 `yaml:"max_summaries"`
}

func Load(path string) (Config, error) {
	cfg := Defaults()
	if strings.TrimSpace(path) == "" {
		cfg.Normalize()
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return cfg, nil
}

func Defaults() Config {
	return Config{
		DataDir: "./data",
		Backups: BackupSpec{Enabled: true, Keep: 10},
		Index:   IndexSpec{Enabled: true},
		OpLog:   OpLogSpec{Enabled: true},
		Log: LogSpec{
			Level:      "info",
			Format:     "text",
			MaxSizeMB:  50,
			MaxBackups: 5,
			MaxAgeDays: 30,
		},
		Cache: CacheSpec{MaxSummaries: 1024},
	}
}

// Normalize fills derived paths and lower-cases enum fields.
func (c *Config) Normalize() {
	if c == nil {
		return
	}
	c.DataDir = strings.TrimSpace(c.DataDir)
	if c.DataDir == "" {
		c.DataDir = "./data"
	}
	if strings.TrimSpace(c.Index.Path) == "" {
		c.Index.Path = filepath.Join(c.DataDir, "index", "wldkit.sqlite")
	}
	if strings.TrimSpace(c.OpLog.Dir) == "" {
		c.OpLog.Dir = filepath.Join(c.DataDir, "ops")
	}
	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	c.Log.Format = strings.ToLower(strings.TrimSpace(c.Log.Format))
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.Cache.MaxSummaries <= 0 {
		c.Cache.MaxSummaries = 1024
	}
}

func (c Config) Validate() error {
	c.Normalize()
	if c.Backups.Keep < 0 {
		return fmt.Errorf("backups.keep must be >= 0")
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format %q must be text or json", c.Log.Format)
	}
	switch c.Log.Level {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal", "panic":
	default:
		return fmt.Errorf("log.level %q is not a level", c.Log.Level)
	}
	if c.Log.File != "" && c.Log.MaxSizeMB <= 0 {
		return fmt.Errorf("log.max_size_mb must be > 0 when log.file is set")
	}
	if c.Log.MaxBackups < 0 || c.Log.MaxAgeDays < 0 {
		return fmt.Errorf("log.max_backups and log.max_age_days must be >= 0")
	}
	return nil
}
