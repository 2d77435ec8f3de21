package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/fentz26/lifeorg/internal/audit"
	"github.com/fentz26/lifeorg/internal/scheduler"
)

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Run scheduling on a recurring timer",
	Long:  `Runs a scheduling pass on a cron timer so new tasks get placed without manual intervention. Stops on SIGINT or SIGTERM.`,
	RunE:  runDaemon,
}

var (
	daemonCron     string
	daemonForecast string
)

func init() {
	daemonCmd.Flags().StringVar(&daemonCron, "cron", "0 * * * *", "Cron expression for scheduling passes")
	daemonCmd.Flags().StringVar(&daemonForecast, "forecast", "", `Horizon as "<N> D" (default from config)`)
}

func runDaemon(cmd *cobra.Command, args []string) error {
	cfg, s, err := setup()
	if err != nil {
		return err
	}
	defer s.Close()

	horizon, _, err := resolveForecast(cfg, daemonForecast)
	if err != nil {
		return err
	}

	log := newLogger(cfg)
	engine := scheduler.New(s, audit.NewWriter(s), cfg.SchedulerConfig(), cfg.Location(), log)

	runPass := func() {
		res, err := engine.Schedule(horizon)
		if err != nil {
			log.Error().Err(err).Msg("scheduling pass failed")
			return
		}
		log.Info().
			Int("placed", len(res.Placed)).
			Int("unplaced", len(res.Unplaced)).
			Msg("scheduling pass complete")
	}

	c := cron.New(cron.WithLocation(cfg.Location()))
	if _, err := c.AddFunc(daemonCron, runPass); err != nil {
		return err
	}

	// One pass at startup so a restart never leaves tasks waiting for
	// the next tick.
	runPass()

	log.Info().Str("cron", daemonCron).Msg("daemon started")
	c.Start()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Info().Msg("shutting down")
	ctx := c.Stop()
	<-ctx.Done()
	return nil
}
