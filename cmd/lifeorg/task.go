package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/fentz26/lifeorg/internal/store"
	"github.com/fentz26/lifeorg/internal/timeparse"
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage schedulable tasks",
}

var taskAddCmd = &cobra.Command{
	Use:   "add [name]",
	Short: "Add a new task",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskAdd,
}

var taskRemoveCmd = &cobra.Command{
	Use:   "remove [name]",
	Short: "Remove a task and any placement it holds",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskRemove,
}

var taskModifyCmd = &cobra.Command{
	Use:   "modify [name]",
	Short: "Modify a task; a scheduled task returns to pending",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskModify,
}

var taskDoneCmd = &cobra.Command{
	Use:   "done [name]",
	Short: "Mark a task as completed",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskDone,
}

var taskListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks",
	RunE:  runTaskList,
}

var (
	taskDuration string
	taskDue      string
	taskUrgency  int
	taskPending  bool
)

func init() {
	taskCmd.AddCommand(taskAddCmd, taskRemoveCmd, taskModifyCmd, taskDoneCmd, taskListCmd)

	taskAddCmd.Flags().StringVar(&taskDuration, "duration", "", `Duration as "H:MM" (required)`)
	taskAddCmd.Flags().StringVar(&taskDue, "due", "", `Due date as "DD/MM/YYYY HH:MM" (required)`)
	taskAddCmd.Flags().IntVar(&taskUrgency, "urgency", 3, "Urgency from 1 (lowest) to 5 (highest)")
	taskAddCmd.MarkFlagRequired("duration")
	taskAddCmd.MarkFlagRequired("due")

	taskModifyCmd.Flags().StringVar(&taskDuration, "duration", "", `New duration as "H:MM"`)
	taskModifyCmd.Flags().StringVar(&taskDue, "due", "", `New due date as "DD/MM/YYYY HH:MM"`)
	taskModifyCmd.Flags().IntVar(&taskUrgency, "urgency", 0, "New urgency from 1 to 5")

	taskListCmd.Flags().BoolVar(&taskPending, "pending", false, "Only show tasks awaiting scheduling")
}

func runTaskAdd(cmd *cobra.Command, args []string) error {
	cfg, s, err := setup()
	if err != nil {
		return err
	}
	defer s.Close()

	duration, err := timeparse.ParseDuration(taskDuration)
	if err != nil {
		return err
	}
	due, err := timeparse.ParseClock(taskDue, cfg.Location())
	if err != nil {
		return err
	}

	if _, err := s.CreateTask(args[0], duration, taskUrgency, due); err != nil {
		return err
	}
	fmt.Printf("%s added successfully.\n", args[0])
	return nil
}

func runTaskRemove(cmd *cobra.Command, args []string) error {
	_, s, err := setup()
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.RemoveTask(args[0]); err != nil {
		return err
	}
	fmt.Printf("%s deleted successfully.\n", args[0])
	return nil
}

func runTaskModify(cmd *cobra.Command, args []string) error {
	cfg, s, err := setup()
	if err != nil {
		return err
	}
	defer s.Close()

	var upd store.TaskUpdate
	if taskDuration != "" {
		duration, err := timeparse.ParseDuration(taskDuration)
		if err != nil {
			return err
		}
		upd.Duration = &duration
	}
	if taskDue != "" {
		due, err := timeparse.ParseClock(taskDue, cfg.Location())
		if err != nil {
			return err
		}
		upd.DueDate = &due
	}
	if cmd.Flags().Changed("urgency") {
		upd.Urgency = &taskUrgency
	}
	if upd.Duration == nil && upd.DueDate == nil && upd.Urgency == nil {
		return fmt.Errorf("nothing to modify: pass --duration, --due or --urgency")
	}

	if err := s.UpdateTask(args[0], upd); err != nil {
		return err
	}
	fmt.Printf("%s modified successfully.\n", args[0])
	return nil
}

func runTaskDone(cmd *cobra.Command, args []string) error {
	_, s, err := setup()
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.CompleteTask(args[0]); err != nil {
		return err
	}
	fmt.Printf("%s completed.\n", args[0])
	return nil
}

func runTaskList(cmd *cobra.Command, args []string) error {
	cfg, s, err := setup()
	if err != nil {
		return err
	}
	defer s.Close()

	list := s.ListTasks
	if taskPending {
		list = s.ListPendingTasks
	}
	result, err := list()
	if err != nil {
		return err
	}
	if len(result) == 0 {
		fmt.Println("No tasks found")
		return nil
	}

	loc := cfg.Location()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tDURATION\tURGENCY\tDUE\tSTATE")
	for _, task := range result {
		state := "pending"
		if task.Scheduled {
			state = "scheduled"
		}
		due := task.DueDate.In(loc)
		fmt.Fprintf(w, "%s\t%d:%02d\t%d\t%s %s\t%s\n",
			task.Name,
			int(task.Duration.Hours()), int(task.Duration.Minutes())%60,
			task.Urgency,
			timeparse.ShortHumanTime(due), timeparse.HumanHour(due),
			state)
	}
	w.Flush()
	return nil
}
