package scheduler

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/fentz26/lifeorg/internal/audit"
	"github.com/fentz26/lifeorg/internal/store"
	"github.com/rs/zerolog"
)

// monday is 2024-03-04 00:00 UTC, the start of the test week.
var monday = time.Date(2024, time.March, 4, 0, 0, 0, 0, time.UTC)

func newTestEngine(t *testing.T, now time.Time) (*Engine, *store.Store) {
	t.Helper()
	s, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })

	e := New(s, audit.NewWriter(s), DefaultConfig(), time.UTC, zerolog.Nop())
	e.now = func() time.Time { return now }
	return e, s
}

func TestScheduleSingleTask(t *testing.T) {
	now := monday.Add(8 * time.Hour)
	e, s := newTestEngine(t, now)

	// Block Monday 09:00-17:00, one 2h task due this evening.
	if _, err := s.AddBlock(9*time.Hour, 17*time.Hour); err != nil {
		t.Fatalf("AddBlock failed: %v", err)
	}
	if _, err := s.CreateTask("write report", 2*time.Hour, 5, monday.Add(20*time.Hour)); err != nil {
		t.Fatalf("CreateTask failed: %v", err)
	}

	res, err := e.Schedule(24 * time.Hour)
	if err != nil {
		t.Fatalf("Schedule failed: %v", err)
	}
	if len(res.Placed) != 1 || len(res.Unplaced) != 0 {
		t.Fatalf("Expected 1 placed, 0 unplaced; got %d/%d", len(res.Placed), len(res.Unplaced))
	}

	p := res.Placed[0]
	if !p.Event.Start.Equal(monday.Add(9 * time.Hour)) || !p.Event.End.Equal(monday.Add(11 * time.Hour)) {
		t.Errorf("Expected placement [09:00,11:00), got [%v, %v)", p.Event.Start, p.Event.End)
	}
	if !p.Event.IsTask {
		t.Error("Placement event must be marked as a task")
	}
	if p.Event.TaskID != p.Task.ID {
		t.Error("Placement event must reference the originating task")
	}

	// The placement and the scheduled flag are persisted.
	task, err := s.GetTask("write report")
	if err != nil {
		t.Fatalf("GetTask failed: %v", err)
	}
	if !task.Scheduled {
		t.Error("Task should be scheduled after the run")
	}
	events, _ := s.ListEvents(now, now.Add(24*time.Hour))
	if len(events) != 1 {
		t.Fatalf("Expected 1 persisted event, got %d", len(events))
	}
	if !events[0].IsTask || events[0].TaskID != task.ID {
		t.Error("Persisted event should be the task placement")
	}
}

func TestScheduleAroundExistingEvent(t *testing.T) {
	now := monday.Add(8 * time.Hour)
	e, s := newTestEngine(t, now)

	s.AddBlock(9*time.Hour, 17*time.Hour)
	if _, err := s.CreateEvent("standup", "", monday.Add(9*time.Hour), monday.Add(10*time.Hour)); err != nil {
		t.Fatalf("CreateEvent failed: %v", err)
	}
	s.CreateTask("write report", 2*time.Hour, 5, monday.Add(20*time.Hour))

	res, err := e.Schedule(24 * time.Hour)
	if err != nil {
		t.Fatalf("Schedule failed: %v", err)
	}
	if len(res.Placed) != 1 {
		t.Fatalf("Expected 1 placement, got %d", len(res.Placed))
	}

	p := res.Placed[0]
	if !p.Event.Start.Equal(monday.Add(10 * time.Hour)) || !p.Event.End.Equal(monday.Add(12 * time.Hour)) {
		t.Errorf("Expected placement [10:00,12:00), got [%v, %v)", p.Event.Start, p.Event.End)
	}
}

func TestScheduleCapacityExhausted(t *testing.T) {
	now := monday.Add(8 * time.Hour)
	e, s := newTestEngine(t, now)

	// One-hour block cannot hold a two-hour task.
	s.AddBlock(9*time.Hour, 10*time.Hour)
	s.CreateTask("write report", 2*time.Hour, 5, monday.Add(20*time.Hour))

	res, err := e.Schedule(24 * time.Hour)
	if err != nil {
		t.Fatalf("Capacity exhaustion must not be an error: %v", err)
	}
	if len(res.Placed) != 0 {
		t.Errorf("Expected no placements, got %d", len(res.Placed))
	}
	if len(res.Unplaced) != 1 || res.Unplaced[0].Name != "write report" {
		t.Fatalf("Expected the task unplaced, got %v", res.Unplaced)
	}

	// Nothing was persisted: the task is never truncated or split.
	task, _ := s.GetTask("write report")
	if task.Scheduled {
		t.Error("Unplaced task must stay pending")
	}
	events, _ := s.ListEvents(now, now.Add(24*time.Hour))
	if len(events) != 0 {
		t.Errorf("Expected no events, got %d", len(events))
	}
}

func TestSchedulePriorityOrder(t *testing.T) {
	now := monday.Add(8 * time.Hour)
	e, s := newTestEngine(t, now)

	s.AddBlock(9*time.Hour, 11*time.Hour)
	// B created first: rank order, not insertion order, decides.
	s.CreateTask("b", time.Hour, 1, monday.Add(30*24*time.Hour))
	s.CreateTask("a", time.Hour, 5, monday.Add(24*time.Hour))

	res, err := e.Schedule(24 * time.Hour)
	if err != nil {
		t.Fatalf("Schedule failed: %v", err)
	}
	if len(res.Placed) != 2 {
		t.Fatalf("Expected both tasks placed, got %d", len(res.Placed))
	}

	first, second := res.Placed[0], res.Placed[1]
	if first.Task.Name != "a" || second.Task.Name != "b" {
		t.Errorf("Expected a before b, got %s then %s", first.Task.Name, second.Task.Name)
	}
	if !first.Event.Start.Equal(monday.Add(9 * time.Hour)) {
		t.Errorf("Expected a at 09:00, got %v", first.Event.Start)
	}
	if !second.Event.Start.Equal(monday.Add(10 * time.Hour)) {
		t.Errorf("Expected b at 10:00, got %v", second.Event.Start)
	}
}

func TestScheduleNoDoublePlacement(t *testing.T) {
	now := monday.Add(8 * time.Hour)
	e, s := newTestEngine(t, now)

	s.AddBlock(9*time.Hour, 17*time.Hour)
	s.CreateTask("once", time.Hour, 3, monday.Add(20*time.Hour))

	if _, err := e.Schedule(24 * time.Hour); err != nil {
		t.Fatalf("First run failed: %v", err)
	}

	// A second run sees no pending tasks and creates nothing new.
	res, err := e.Schedule(24 * time.Hour)
	if err != nil {
		t.Fatalf("Second run failed: %v", err)
	}
	if len(res.Placed) != 0 || len(res.Unplaced) != 0 {
		t.Errorf("Second run should be a no-op, got %d placed, %d unplaced", len(res.Placed), len(res.Unplaced))
	}

	events, _ := s.ListEvents(now, now.Add(24*time.Hour))
	if len(events) != 1 {
		t.Errorf("Expected exactly one placement across runs, got %d", len(events))
	}
}

func TestScheduleProperties(t *testing.T) {
	now := monday.Add(8 * time.Hour)
	e, s := newTestEngine(t, now)

	// Two blocks with a fixed commitment in the first one.
	s.AddBlock(9*time.Hour, 12*time.Hour)
	s.AddBlock(14*time.Hour, 18*time.Hour)
	s.CreateEvent("standup", "", monday.Add(10*time.Hour), monday.Add(11*time.Hour))

	s.CreateTask("one", 90*time.Minute, 5, monday.Add(20*time.Hour))
	s.CreateTask("two", 2*time.Hour, 4, monday.Add(22*time.Hour))
	s.CreateTask("three", time.Hour, 2, monday.Add(3*24*time.Hour))
	s.CreateTask("huge", 9*time.Hour, 1, monday.Add(5*24*time.Hour))

	res, err := e.Schedule(48 * time.Hour)
	if err != nil {
		t.Fatalf("Schedule failed: %v", err)
	}

	// Capacity floor: "huge" exceeds every slot and stays unplaced.
	foundHuge := false
	for _, u := range res.Unplaced {
		if u.Name == "huge" {
			foundHuge = true
		}
	}
	if !foundHuge {
		t.Error("Oversized task must end up unplaced")
	}

	// Non-overlap among all events in the horizon, placements included.
	events, _ := s.ListEvents(now, now.Add(48*time.Hour))
	for i := 0; i < len(events); i++ {
		for j := i + 1; j < len(events); j++ {
			a, b := events[i], events[j]
			if a.Start.Before(b.End) && b.Start.Before(a.End) {
				t.Errorf("Events %q and %q overlap", a.Name, b.Name)
			}
		}
	}

	// Containment: every placement lies inside an expanded block.
	blocks, _ := s.ListBlocks()
	windows := ExpandBlocks(blocks, monday, Window{Start: now, End: now.Add(48 * time.Hour)})
	for _, p := range res.Placed {
		contained := false
		for _, w := range windows {
			if !p.Event.Start.Before(w.Start) && !p.Event.End.After(w.End) {
				contained = true
				break
			}
		}
		if !contained {
			t.Errorf("Placement %q [%v, %v) is outside every block", p.Task.Name, p.Event.Start, p.Event.End)
		}
	}
}

func TestScheduleWeeklyBlockRecurrence(t *testing.T) {
	now := monday.Add(8 * time.Hour)
	e, s := newTestEngine(t, now)

	// Monday 09:00-10:00 recurs next week inside a 10 day horizon.
	s.AddBlock(9*time.Hour, 10*time.Hour)
	s.CreateTask("first", time.Hour, 5, monday.Add(24*time.Hour))
	s.CreateTask("second", time.Hour, 1, monday.Add(20*24*time.Hour))

	res, err := e.Schedule(10 * 24 * time.Hour)
	if err != nil {
		t.Fatalf("Schedule failed: %v", err)
	}
	if len(res.Placed) != 2 {
		t.Fatalf("Expected both tasks placed, got %d placed / %d unplaced", len(res.Placed), len(res.Unplaced))
	}

	// The lower-priority task lands on next Monday's occurrence.
	if !res.Placed[1].Event.Start.Equal(monday.Add(7*24*time.Hour + 9*time.Hour)) {
		t.Errorf("Expected second placement next Monday 09:00, got %v", res.Placed[1].Event.Start)
	}
}

func TestScheduleInvalidHorizon(t *testing.T) {
	e, _ := newTestEngine(t, monday)
	if _, err := e.Schedule(0); err == nil {
		t.Error("Expected error for non-positive horizon")
	}
}
