package view

import (
	"strings"
	"testing"
	"time"

	"github.com/fentz26/lifeorg/internal/models"
	"github.com/fentz26/lifeorg/internal/scheduler"
)

func TestAgendaGroupsByDay(t *testing.T) {
	mon := time.Date(2024, time.March, 4, 9, 0, 0, 0, time.UTC)
	tue := mon.Add(24 * time.Hour)

	events := []models.Event{
		{Name: "standup", Start: mon, End: mon.Add(time.Hour)},
		{Name: "review", Start: mon.Add(2 * time.Hour), End: mon.Add(3 * time.Hour)},
		{Name: "dentist", Start: tue, End: tue.Add(time.Hour)},
	}

	out := Agenda(events, 7, time.UTC)

	if !strings.Contains(out, "Events in the next 7 days:") {
		t.Error("Missing agenda title")
	}
	// One header per distinct day.
	if got := strings.Count(out, "Events on Monday, March 4:"); got != 1 {
		t.Errorf("Expected 1 Monday header, got %d", got)
	}
	if got := strings.Count(out, "Events on Tuesday, March 5:"); got != 1 {
		t.Errorf("Expected 1 Tuesday header, got %d", got)
	}
	if !strings.Contains(out, "standup from 09:00 AM to 10:00 AM") {
		t.Errorf("Missing event line in output:\n%s", out)
	}
}

func TestAgendaEmpty(t *testing.T) {
	out := Agenda(nil, 7, time.UTC)
	if !strings.Contains(out, "Nothing scheduled.") {
		t.Error("Empty agenda should say so")
	}
}

func TestScheduleResult(t *testing.T) {
	mon := time.Date(2024, time.March, 4, 9, 0, 0, 0, time.UTC)
	res := &scheduler.Result{
		Placed: []models.Placement{
			{
				Task:  models.Task{Name: "report", Duration: 2 * time.Hour},
				Event: models.Event{Name: "report", Start: mon, End: mon.Add(2 * time.Hour)},
			},
		},
		Unplaced: []models.Task{
			{Name: "huge", Duration: 9 * time.Hour, DueDate: mon.Add(48 * time.Hour)},
		},
	}

	out := ScheduleResult(res, time.UTC)
	if !strings.Contains(out, "Scheduled 1 task(s):") {
		t.Error("Missing placed header")
	}
	if !strings.Contains(out, "Could not fit 1 task(s):") {
		t.Error("Unplaced tasks must be reported")
	}
	if !strings.Contains(out, "huge (9:00, due") {
		t.Errorf("Missing unplaced detail:\n%s", out)
	}
}

func TestBlockList(t *testing.T) {
	blocks := []models.Block{
		{ID: "0123456789ab", Start: 24*time.Hour + 9*time.Hour, End: 24*time.Hour + 17*time.Hour},
	}
	out := BlockList(blocks)
	if !strings.Contains(out, "Tuesday") {
		t.Errorf("Expected Tuesday block, got:\n%s", out)
	}
	if !strings.Contains(out, "09:00 - 17:00") {
		t.Errorf("Expected block times, got:\n%s", out)
	}
}
