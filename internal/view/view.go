// Package view renders agenda and scheduling output for the terminal.
package view

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/fentz26/lifeorg/internal/models"
	"github.com/fentz26/lifeorg/internal/scheduler"
	"github.com/fentz26/lifeorg/internal/timeparse"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	dayStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	taskStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("13"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	unplacedHdr = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("9"))
)

// Agenda formats events grouped by day. Events must be ordered by start
// time; the store's ListEvents already guarantees that.
func Agenda(events []models.Event, forecastDays int, loc *time.Location) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("Events in the next %d days:", forecastDays)))
	b.WriteString("\n")

	if len(events) == 0 {
		b.WriteString(mutedStyle.Render("Nothing scheduled."))
		b.WriteString("\n")
		return b.String()
	}

	currentDay := ""
	for _, ev := range events {
		start := ev.Start.In(loc)
		day := timeparse.ShortHumanTime(start)
		if day != currentDay {
			currentDay = day
			b.WriteString(dayStyle.Render(fmt.Sprintf("Events on %s:", day)))
			b.WriteString("\n")
		}

		line := fmt.Sprintf("  %s from %s to %s", ev.Name, timeparse.HumanHour(start), timeparse.HumanHour(ev.End.In(loc)))
		if ev.IsTask {
			line = taskStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	return b.String()
}

// ScheduleResult formats the outcome of a scheduling run. Unplaced tasks
// are always reported, never hidden.
func ScheduleResult(res *scheduler.Result, loc *time.Location) string {
	var b strings.Builder

	if len(res.Placed) == 0 && len(res.Unplaced) == 0 {
		b.WriteString(mutedStyle.Render("No pending tasks to schedule."))
		b.WriteString("\n")
		return b.String()
	}

	if len(res.Placed) > 0 {
		b.WriteString(titleStyle.Render(fmt.Sprintf("Scheduled %d task(s):", len(res.Placed))))
		b.WriteString("\n")
		for _, p := range res.Placed {
			start := p.Event.Start.In(loc)
			b.WriteString(fmt.Sprintf("  %s on %s from %s to %s\n",
				p.Task.Name,
				timeparse.ShortHumanTime(start),
				timeparse.HumanHour(start),
				timeparse.HumanHour(p.Event.End.In(loc))))
		}
	}

	if len(res.Unplaced) > 0 {
		b.WriteString(unplacedHdr.Render(fmt.Sprintf("Could not fit %d task(s):", len(res.Unplaced))))
		b.WriteString("\n")
		for _, task := range res.Unplaced {
			b.WriteString(fmt.Sprintf("  %s (%s, due %s)\n",
				task.Name, formatDuration(task.Duration), timeparse.ShortHumanTime(task.DueDate.In(loc))))
		}
	}

	return b.String()
}

// TaskList formats tasks for `task list`.
func TaskList(tasks []models.Task, loc *time.Location) string {
	if len(tasks) == 0 {
		return mutedStyle.Render("No tasks.") + "\n"
	}

	var b strings.Builder
	for _, task := range tasks {
		state := "pending"
		if task.Scheduled {
			state = "scheduled"
		}
		b.WriteString(fmt.Sprintf("%s\t%s\turgency %d\tdue %s %s\t%s\n",
			task.Name,
			formatDuration(task.Duration),
			task.Urgency,
			timeparse.ShortHumanTime(task.DueDate.In(loc)),
			timeparse.HumanHour(task.DueDate.In(loc)),
			state))
	}
	return b.String()
}

// BlockList formats weekly availability blocks for `block list`.
func BlockList(blocks []models.Block) string {
	if len(blocks) == 0 {
		return mutedStyle.Render("No availability blocks.") + "\n"
	}

	days := []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

	var b strings.Builder
	for _, block := range blocks {
		startDay := int(block.Start / (24 * time.Hour))
		if startDay > 6 {
			startDay = 6
		}
		b.WriteString(fmt.Sprintf("%s\t%s  %s - %s\n",
			block.ID[:8],
			days[startDay],
			weekClock(block.Start),
			weekClock(block.End)))
	}
	return b.String()
}

// weekClock formats a week offset as HH:MM within its day.
func weekClock(offset time.Duration) string {
	rem := offset % (24 * time.Hour)
	return fmt.Sprintf("%02d:%02d", int(rem/time.Hour), int(rem%time.Hour/time.Minute))
}

func formatDuration(d time.Duration) string {
	return fmt.Sprintf("%d:%02d", int(d/time.Hour), int(d%time.Hour/time.Minute))
}
