// Package config loads the lifeorg configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fentz26/lifeorg/internal/scheduler"
	"gopkg.in/yaml.v3"
)

// Config is the deployment configuration. Every field has a usable
// default; the file is optional.
type Config struct {
	// DBPath locates the SQLite database.
	DBPath string `yaml:"db_path"`
	// UTCOffsetMinutes fixes the deployment's single time zone offset.
	// The system does not handle time zones beyond this offset.
	UTCOffsetMinutes int `yaml:"utc_offset_minutes"`
	// DefaultForecast is the horizon used when a command omits one,
	// in the "<N> D" grammar.
	DefaultForecast string `yaml:"default_forecast"`
	// LogLevel is a zerolog level name (debug, info, warn, error).
	LogLevel string `yaml:"log_level"`

	Scheduler SchedulerConfig `yaml:"scheduler"`
}

// SchedulerConfig mirrors scheduler.Config with file-friendly units.
type SchedulerConfig struct {
	UrgencyWeight   float64 `yaml:"urgency_weight"`
	DueFloorSec     int64   `yaml:"due_floor_sec"`
	SlotPaddingSec  int64   `yaml:"slot_padding_sec"`
	MinSlotSec      int64   `yaml:"min_slot_sec"`
}

// Default returns the default configuration.
func Default() *Config {
	homeDir, _ := os.UserHomeDir()
	sched := scheduler.DefaultConfig()
	return &Config{
		DBPath:          filepath.Join(homeDir, ".lifeorg", "lifeorg.db"),
		DefaultForecast: "7 D",
		LogLevel:        "info",
		Scheduler: SchedulerConfig{
			UrgencyWeight: sched.UrgencyWeight,
			DueFloorSec:   int64(sched.DueFloor / time.Second),
		},
	}
}

// Load reads a YAML config file over the defaults. A missing file is not
// an error; the defaults apply.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// DefaultPath returns the conventional config file location.
func DefaultPath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".lifeorg", "config.yaml")
}

func (c *Config) validate() error {
	if c.DBPath == "" {
		return fmt.Errorf("config: db_path must not be empty")
	}
	if c.UTCOffsetMinutes < -14*60 || c.UTCOffsetMinutes > 14*60 {
		return fmt.Errorf("config: utc_offset_minutes out of range")
	}
	if c.Scheduler.UrgencyWeight <= 0 {
		return fmt.Errorf("config: scheduler.urgency_weight must be positive")
	}
	if c.Scheduler.DueFloorSec <= 0 {
		return fmt.Errorf("config: scheduler.due_floor_sec must be positive")
	}
	if c.Scheduler.SlotPaddingSec < 0 || c.Scheduler.MinSlotSec < 0 {
		return fmt.Errorf("config: scheduler paddings must not be negative")
	}
	return nil
}

// Location returns the fixed zone implied by UTCOffsetMinutes.
func (c *Config) Location() *time.Location {
	if c.UTCOffsetMinutes == 0 {
		return time.UTC
	}
	name := fmt.Sprintf("UTC%+d:%02d", c.UTCOffsetMinutes/60, abs(c.UTCOffsetMinutes%60))
	return time.FixedZone(name, c.UTCOffsetMinutes*60)
}

// SchedulerConfig converts the file units into a scheduler.Config.
func (c *Config) SchedulerConfig() *scheduler.Config {
	return &scheduler.Config{
		UrgencyWeight: c.Scheduler.UrgencyWeight,
		DueFloor:      time.Duration(c.Scheduler.DueFloorSec) * time.Second,
		SlotPadding:   time.Duration(c.Scheduler.SlotPaddingSec) * time.Second,
		MinSlot:       time.Duration(c.Scheduler.MinSlotSec) * time.Second,
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
