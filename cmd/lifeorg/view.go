package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/fentz26/lifeorg/internal/ics"
	"github.com/fentz26/lifeorg/internal/view"
)

var viewCmd = &cobra.Command{
	Use:   "view",
	Short: "Show the agenda for the coming days",
	RunE:  runView,
}

var (
	viewForecast string
	viewICSPath  string
)

func init() {
	viewCmd.Flags().StringVar(&viewForecast, "forecast", "", `Horizon as "<N> D" (default from config)`)
	viewCmd.Flags().StringVar(&viewICSPath, "ics", "", "Also write the agenda to an iCalendar file")
}

func runView(cmd *cobra.Command, args []string) error {
	cfg, s, err := setup()
	if err != nil {
		return err
	}
	defer s.Close()

	horizon, now, err := resolveForecast(cfg, viewForecast)
	if err != nil {
		return err
	}

	events, err := s.ListEvents(now, now.Add(horizon))
	if err != nil {
		return err
	}

	fmt.Print(view.Agenda(events, int(horizon/(24*time.Hour)), cfg.Location()))

	if viewICSPath != "" {
		payload := ics.Export(events, now)
		if err := os.WriteFile(viewICSPath, []byte(payload), 0o644); err != nil {
			return fmt.Errorf("write ics file: %w", err)
		}
		fmt.Printf("Wrote %d event(s) to %s\n", len(events), viewICSPath)
	}
	return nil
}
