package scheduler

import (
	"fmt"
	"sync"
	"time"

	"github.com/fentz26/lifeorg/internal/audit"
	"github.com/fentz26/lifeorg/internal/models"
	"github.com/fentz26/lifeorg/internal/store"
	"github.com/fentz26/lifeorg/internal/timeparse"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Result reports the outcome of a scheduling run. A non-empty Unplaced
// list is a normal outcome, not a failure: those tasks did not fit any
// free slot and remain pending.
type Result struct {
	Placed   []models.Placement
	Unplaced []models.Task
	Slots    []models.FreeSlot
}

// Engine assigns pending tasks to free slots and commits the resulting
// placements. Runs are serialized; two concurrent Schedule calls cannot
// double-book the same free slot.
type Engine struct {
	store *store.Store
	audit *audit.Writer
	cfg   *Config
	loc   *time.Location
	log   zerolog.Logger

	mu sync.Mutex

	// now is a test hook; defaults to time.Now.
	now func() time.Time
}

// New creates an assignment engine over the given store. loc is the
// deployment's single configured zone, used to resolve week-relative
// blocks.
func New(s *store.Store, aud *audit.Writer, cfg *Config, loc *time.Location, logger zerolog.Logger) *Engine {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Engine{
		store: s,
		audit: aud,
		cfg:   cfg,
		loc:   loc,
		log:   logger,
		now:   time.Now,
	}
}

// Schedule runs one greedy scheduling pass over the forecast horizon
// [now, now+horizon): it loads pending tasks, events and blocks, derives
// free slots, ranks the tasks, assigns them first-fit in rank order, and
// commits all placements in a single transaction. A storage failure
// aborts the run with no partial commit; the caller can safely retry.
func (e *Engine) Schedule(horizon time.Duration) (*Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if horizon <= 0 {
		return nil, fmt.Errorf("schedule: horizon must be positive")
	}

	now := e.now().In(e.loc)
	window := Window{Start: now, End: now.Add(horizon)}

	tasks, err := e.store.ListPendingTasks()
	if err != nil {
		return nil, fmt.Errorf("load pending tasks: %w", err)
	}
	events, err := e.store.ListEvents(window.Start, window.End)
	if err != nil {
		return nil, fmt.Errorf("load events: %w", err)
	}
	blocks, err := e.store.ListBlocks()
	if err != nil {
		return nil, fmt.Errorf("load blocks: %w", err)
	}

	weekStart := timeparse.StartOfWeek(now)
	windows := ExpandBlocks(blocks, weekStart, window)
	slots := FindSlots(windows, events, window, e.cfg.SlotPadding, e.cfg.MinSlot)
	ranked := Rank(tasks, now, e.cfg)

	result := e.assign(ranked, slots)

	if err := e.store.CommitPlacements(result.Placed); err != nil {
		e.log.Error().Err(err).Msg("scheduling run aborted, no placements committed")
		if e.audit != nil {
			e.audit.Record("schedule.run", auditInputs(horizon, tasks, events, blocks), "failure", err.Error())
		}
		return nil, fmt.Errorf("commit placements: %w", err)
	}

	e.log.Info().
		Int("placed", len(result.Placed)).
		Int("unplaced", len(result.Unplaced)).
		Int("slots", len(result.Slots)).
		Dur("horizon", horizon).
		Msg("scheduling run complete")

	if e.audit != nil {
		details := fmt.Sprintf("placed=%d unplaced=%d slots=%d", len(result.Placed), len(result.Unplaced), len(result.Slots))
		e.audit.Record("schedule.run", auditInputs(horizon, tasks, events, blocks), "success", details)
	}

	return result, nil
}

// assign walks the ranked tasks and fills slots first-fit. Each slot
// keeps a cursor past its last placement; a task is placed whole at the
// first slot with enough remaining capacity or not at all.
func (e *Engine) assign(ranked []models.Task, slots []models.FreeSlot) *Result {
	result := &Result{Slots: slots}

	cursors := make([]time.Time, len(slots))
	for i, slot := range slots {
		cursors[i] = slot.Start
	}

	for _, task := range ranked {
		placed := false
		for i, slot := range slots {
			if slot.End.Sub(cursors[i]) < task.Duration {
				continue
			}

			start := cursors[i]
			end := start.Add(task.Duration)
			cursors[i] = end

			ev := models.Event{
				ID:   uuid.New().String(),
				Name: task.Name,
				Description: fmt.Sprintf("Due on %s at %s. Level %d urgency",
					timeparse.ShortHumanTime(task.DueDate.In(e.loc)),
					timeparse.HumanHour(task.DueDate.In(e.loc)),
					task.Urgency),
				Start:  start,
				End:    end,
				IsTask: true,
				TaskID: task.ID,
			}
			result.Placed = append(result.Placed, models.Placement{Task: task, Event: ev})

			e.log.Debug().
				Str("task", task.Name).
				Time("start", start).
				Time("end", end).
				Msg("task placed")

			placed = true
			break
		}

		if !placed {
			result.Unplaced = append(result.Unplaced, task)
			e.log.Debug().Str("task", task.Name).Msg("no slot fits task")
		}
	}

	return result
}

// auditInputs summarizes a run's input snapshot for the audit hash.
func auditInputs(horizon time.Duration, tasks []models.Task, events []models.Event, blocks []models.Block) map[string]interface{} {
	return map[string]interface{}{
		"horizon_sec": int64(horizon / time.Second),
		"tasks":       len(tasks),
		"events":      len(events),
		"blocks":      len(blocks),
	}
}
