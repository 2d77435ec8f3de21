package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fentz26/lifeorg/internal/audit"
	"github.com/fentz26/lifeorg/internal/scheduler"
	"github.com/fentz26/lifeorg/internal/view"
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Place pending tasks into free time",
	Long:  `Finds free slots between events inside availability blocks, ranks pending tasks by urgency and due-date pressure, and commits the resulting placements.`,
	RunE:  runSchedule,
}

var scheduleForecast string

func init() {
	scheduleCmd.Flags().StringVar(&scheduleForecast, "forecast", "", `Horizon as "<N> D" (default from config)`)
}

func runSchedule(cmd *cobra.Command, args []string) error {
	cfg, s, err := setup()
	if err != nil {
		return err
	}
	defer s.Close()

	horizon, _, err := resolveForecast(cfg, scheduleForecast)
	if err != nil {
		return err
	}

	engine := scheduler.New(s, audit.NewWriter(s), cfg.SchedulerConfig(), cfg.Location(), newLogger(cfg))
	res, err := engine.Schedule(horizon)
	if err != nil {
		return err
	}

	fmt.Print(view.ScheduleResult(res, cfg.Location()))
	return nil
}
