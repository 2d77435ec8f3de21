package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/fentz26/lifeorg/internal/timeparse"
)

var eventCmd = &cobra.Command{
	Use:   "event",
	Short: "Manage calendar events",
}

var eventAddCmd = &cobra.Command{
	Use:   "add [name]",
	Short: "Add a new event",
	Args:  cobra.ExactArgs(1),
	RunE:  runEventAdd,
}

var eventRemoveCmd = &cobra.Command{
	Use:   "remove [name]",
	Short: "Remove an event",
	Args:  cobra.ExactArgs(1),
	RunE:  runEventRemove,
}

var eventModifyCmd = &cobra.Command{
	Use:   "modify [name]",
	Short: "Modify an event's description or times",
	Args:  cobra.ExactArgs(1),
	RunE:  runEventModify,
}

var eventDoneCmd = &cobra.Command{
	Use:   "done [name]",
	Short: "Mark an event as completed",
	Args:  cobra.ExactArgs(1),
	RunE:  runEventDone,
}

var eventListCmd = &cobra.Command{
	Use:   "list",
	Short: "List events within the forecast horizon",
	RunE:  runEventList,
}

var (
	eventStart    string
	eventEnd      string
	eventDesc     string
	eventForecast string
)

func init() {
	eventCmd.AddCommand(eventAddCmd, eventRemoveCmd, eventModifyCmd, eventDoneCmd, eventListCmd)

	eventAddCmd.Flags().StringVar(&eventStart, "start", "", `Start as "DD/MM/YYYY HH:MM" (required)`)
	eventAddCmd.Flags().StringVar(&eventEnd, "end", "", `End as "DD/MM/YYYY HH:MM" (required)`)
	eventAddCmd.Flags().StringVar(&eventDesc, "desc", "", "Event description")
	eventAddCmd.MarkFlagRequired("start")
	eventAddCmd.MarkFlagRequired("end")

	eventModifyCmd.Flags().StringVar(&eventStart, "start", "", `New start as "DD/MM/YYYY HH:MM"`)
	eventModifyCmd.Flags().StringVar(&eventEnd, "end", "", `New end as "DD/MM/YYYY HH:MM"`)
	eventModifyCmd.Flags().StringVar(&eventDesc, "desc", "", "New description")

	eventListCmd.Flags().StringVar(&eventForecast, "forecast", "", `Horizon as "<N> D" (default from config)`)
}

func runEventAdd(cmd *cobra.Command, args []string) error {
	cfg, s, err := setup()
	if err != nil {
		return err
	}
	defer s.Close()

	loc := cfg.Location()
	start, err := timeparse.ParseClock(eventStart, loc)
	if err != nil {
		return err
	}
	end, err := timeparse.ParseClock(eventEnd, loc)
	if err != nil {
		return err
	}

	if _, err := s.CreateEvent(args[0], eventDesc, start, end); err != nil {
		return err
	}
	fmt.Printf("%s added successfully.\n", args[0])
	return nil
}

func runEventRemove(cmd *cobra.Command, args []string) error {
	_, s, err := setup()
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.RemoveEvent(args[0]); err != nil {
		return err
	}
	fmt.Printf("%s deleted successfully.\n", args[0])
	return nil
}

func runEventModify(cmd *cobra.Command, args []string) error {
	cfg, s, err := setup()
	if err != nil {
		return err
	}
	defer s.Close()

	name := args[0]
	changed := false
	loc := cfg.Location()

	if cmd.Flags().Changed("desc") {
		if err := s.UpdateEventDescription(name, eventDesc); err != nil {
			return err
		}
		changed = true
	}

	if eventStart != "" || eventEnd != "" {
		current, err := s.GetEvent(name)
		if err != nil {
			return err
		}
		start, end := current.Start, current.End
		if eventStart != "" {
			if start, err = timeparse.ParseClock(eventStart, loc); err != nil {
				return err
			}
		}
		if eventEnd != "" {
			if end, err = timeparse.ParseClock(eventEnd, loc); err != nil {
				return err
			}
		}
		if err := s.UpdateEventTimes(name, start, end); err != nil {
			return err
		}
		changed = true
	}

	if !changed {
		return fmt.Errorf("nothing to modify: pass --desc, --start or --end")
	}
	fmt.Printf("%s modified successfully.\n", name)
	return nil
}

func runEventDone(cmd *cobra.Command, args []string) error {
	_, s, err := setup()
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.CompleteEvent(args[0]); err != nil {
		return err
	}
	fmt.Printf("%s completed.\n", args[0])
	return nil
}

func runEventList(cmd *cobra.Command, args []string) error {
	cfg, s, err := setup()
	if err != nil {
		return err
	}
	defer s.Close()

	horizon, now, err := resolveForecast(cfg, eventForecast)
	if err != nil {
		return err
	}

	events, err := s.ListEvents(now, now.Add(horizon))
	if err != nil {
		return err
	}
	if len(events) == 0 {
		fmt.Println("No events found")
		return nil
	}

	loc := cfg.Location()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tSTART\tEND\tKIND")
	for _, ev := range events {
		kind := "event"
		if ev.IsTask {
			kind = "task"
		}
		fmt.Fprintf(w, "%s\t%s %s\t%s %s\t%s\n",
			ev.Name,
			timeparse.ShortHumanTime(ev.Start.In(loc)), timeparse.HumanHour(ev.Start.In(loc)),
			timeparse.ShortHumanTime(ev.End.In(loc)), timeparse.HumanHour(ev.End.In(loc)),
			kind)
	}
	w.Flush()
	return nil
}
