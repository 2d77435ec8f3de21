package main

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/fentz26/lifeorg/internal/config"
	"github.com/fentz26/lifeorg/internal/store"
	"github.com/fentz26/lifeorg/internal/timeparse"
)

var rootCmd = &cobra.Command{
	Use:   "lifeorg",
	Short: "lifeorg - personal time organizer",
	Long:  `lifeorg stores events, tasks and availability blocks, and automatically schedules pending tasks into free time.`,
	// No RunE - defaults to showing help when no subcommand is provided
}

var (
	configPath string
	dbOverride string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath(), "Path to config file")
	rootCmd.PersistentFlags().StringVar(&dbOverride, "db", "", "Path to SQLite database (overrides config)")

	// Add subcommands
	rootCmd.AddCommand(eventCmd)
	rootCmd.AddCommand(taskCmd)
	rootCmd.AddCommand(blockCmd)
	rootCmd.AddCommand(scheduleCmd)
	rootCmd.AddCommand(viewCmd)
	rootCmd.AddCommand(daemonCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup loads the configuration and opens the store. The caller owns the
// returned store and must close it.
func setup() (*config.Config, *store.Store, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	if dbOverride != "" {
		cfg.DBPath = dbOverride
	}

	s, err := store.New(cfg.DBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}
	return cfg, s, nil
}

// resolveForecast parses the forecast flag, falling back to the
// configured default, and returns the horizon with the current time in
// the configured zone.
func resolveForecast(cfg *config.Config, override string) (time.Duration, time.Time, error) {
	raw := override
	if raw == "" {
		raw = cfg.DefaultForecast
	}
	horizon, err := timeparse.ParseForecast(raw)
	if err != nil {
		return 0, time.Time{}, err
	}
	return horizon, time.Now().In(cfg.Location()), nil
}

// newLogger builds the console logger at the configured level.
func newLogger(cfg *config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	out := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}
