// Package store provides SQLite-backed persistence for lifeorg.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fentz26/lifeorg/internal/models"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// week is the length of the recurring block cycle.
const week = 7 * 24 * time.Hour

// Sentinel errors surfaced by record accessors.
var (
	ErrNotFound      = errors.New("record not found")
	ErrDuplicateName = errors.New("name already in use")
	ErrTaskChanged   = errors.New("task changed during scheduling run")
)

// StorageError wraps a failure of the underlying record store.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func storageErr(op string, err error) error {
	return &StorageError{Op: op, Err: err}
}

// Store provides access to the lifeorg SQLite database.
type Store struct {
	db *sql.DB
}

// New creates a new Store and runs migrations.
func New(dbPath string) (*Store, error) {
	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	// Open with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	// SQLite only supports one writer at a time
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks the database connection is alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// migrate runs idempotent schema migrations.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS events (
		id          TEXT PRIMARY KEY,
		name        TEXT NOT NULL,
		description TEXT,
		start_sec   INTEGER NOT NULL,
		end_sec     INTEGER NOT NULL,
		is_task     INTEGER NOT NULL DEFAULT 0,
		task_id     TEXT,
		completed   INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS tasks (
		id           TEXT PRIMARY KEY,
		name         TEXT NOT NULL,
		duration_sec INTEGER NOT NULL,
		urgency      INTEGER NOT NULL,
		due_sec      INTEGER NOT NULL,
		scheduled    INTEGER NOT NULL DEFAULT 0,
		completed    INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS blocks (
		id        TEXT PRIMARY KEY,
		start_sec INTEGER NOT NULL,
		end_sec   INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS audit_log (
		id          TEXT PRIMARY KEY,
		action      TEXT NOT NULL,
		inputs_hash TEXT NOT NULL,
		outcome     TEXT NOT NULL,
		details     TEXT,
		timestamp   DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_events_start ON events(start_sec);
	CREATE INDEX IF NOT EXISTS idx_events_task_id ON events(task_id);
	CREATE INDEX IF NOT EXISTS idx_tasks_pending ON tasks(scheduled, completed);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_events_active_name ON events(name) WHERE completed = 0;
	CREATE UNIQUE INDEX IF NOT EXISTS idx_tasks_active_name ON tasks(name) WHERE completed = 0;
	`

	_, err := s.db.Exec(schema)
	return err
}

// isUniqueViolation reports whether err is a SQLite UNIQUE constraint error.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint") || strings.Contains(msg, "unique constraint")
}

// --- Event Operations ---

// CreateEvent inserts a new calendar event. The name must be unique among
// non-completed events.
func (s *Store) CreateEvent(name, description string, start, end time.Time) (*models.Event, error) {
	if !start.Before(end) {
		return nil, fmt.Errorf("event %q: start must be before end", name)
	}

	ev := &models.Event{
		ID:          uuid.New().String(),
		Name:        name,
		Description: description,
		Start:       start,
		End:         end,
	}

	_, err := s.db.Exec(
		`INSERT INTO events (id, name, description, start_sec, end_sec, is_task, task_id, completed) VALUES (?, ?, ?, ?, ?, 0, NULL, 0)`,
		ev.ID, ev.Name, ev.Description, ev.Start.Unix(), ev.End.Unix(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("event %q: %w", name, ErrDuplicateName)
		}
		return nil, storageErr("insert event", err)
	}
	return ev, nil
}

// GetEvent retrieves an active event by name.
func (s *Store) GetEvent(name string) (*models.Event, error) {
	row := s.db.QueryRow(
		`SELECT id, name, description, start_sec, end_sec, is_task, task_id, completed FROM events WHERE name = ? AND completed = 0`,
		name,
	)
	ev, err := scanEvent(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("event %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, storageErr("query event", err)
	}
	return ev, nil
}

// ListEvents returns active events overlapping [horizonStart, horizonEnd),
// ordered by start time ascending.
func (s *Store) ListEvents(horizonStart, horizonEnd time.Time) ([]models.Event, error) {
	rows, err := s.db.Query(
		`SELECT id, name, description, start_sec, end_sec, is_task, task_id, completed
		 FROM events WHERE end_sec > ? AND start_sec < ? AND completed = 0 ORDER BY start_sec ASC`,
		horizonStart.Unix(), horizonEnd.Unix(),
	)
	if err != nil {
		return nil, storageErr("query events", err)
	}
	defer rows.Close()

	var events []models.Event
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, storageErr("scan event", err)
		}
		events = append(events, *ev)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterate events", err)
	}
	return events, nil
}

// RemoveEvent deletes an active event by name. If the event is a task
// placement the originating task is returned to the pending pool.
func (s *Store) RemoveEvent(name string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return storageErr("begin transaction", err)
	}
	defer tx.Rollback()

	var id string
	var taskID sql.NullString
	err = tx.QueryRow(`SELECT id, task_id FROM events WHERE name = ? AND completed = 0`, name).Scan(&id, &taskID)
	if err == sql.ErrNoRows {
		return fmt.Errorf("event %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return storageErr("query event", err)
	}

	if _, err := tx.Exec(`DELETE FROM events WHERE id = ?`, id); err != nil {
		return storageErr("delete event", err)
	}
	if taskID.Valid {
		if _, err := tx.Exec(`UPDATE tasks SET scheduled = 0 WHERE id = ?`, taskID.String); err != nil {
			return storageErr("unschedule task", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return storageErr("commit transaction", err)
	}
	return nil
}

// UpdateEventDescription replaces the description of an active event.
func (s *Store) UpdateEventDescription(name, description string) error {
	return s.updateEvent(name, `UPDATE events SET description = ? WHERE name = ? AND completed = 0`, description, name)
}

// UpdateEventTimes replaces the interval of an active event.
func (s *Store) UpdateEventTimes(name string, start, end time.Time) error {
	if !start.Before(end) {
		return fmt.Errorf("event %q: start must be before end", name)
	}
	return s.updateEvent(name, `UPDATE events SET start_sec = ?, end_sec = ? WHERE name = ? AND completed = 0`, start.Unix(), end.Unix(), name)
}

// CompleteEvent marks an active event as completed.
func (s *Store) CompleteEvent(name string) error {
	return s.updateEvent(name, `UPDATE events SET completed = 1 WHERE name = ? AND completed = 0`, name)
}

func (s *Store) updateEvent(name, query string, args ...interface{}) error {
	res, err := s.db.Exec(query, args...)
	if err != nil {
		return storageErr("update event", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return storageErr("check rows affected", err)
	}
	if n == 0 {
		return fmt.Errorf("event %q: %w", name, ErrNotFound)
	}
	return nil
}

// --- Task Operations ---

// CreateTask inserts a new task. The name must be unique among
// non-completed tasks.
func (s *Store) CreateTask(name string, duration time.Duration, urgency int, dueDate time.Time) (*models.Task, error) {
	if duration <= 0 {
		return nil, fmt.Errorf("task %q: duration must be positive", name)
	}
	if urgency < models.UrgencyMin || urgency > models.UrgencyMax {
		return nil, fmt.Errorf("task %q: urgency must be between %d and %d", name, models.UrgencyMin, models.UrgencyMax)
	}

	task := &models.Task{
		ID:       uuid.New().String(),
		Name:     name,
		Duration: duration,
		Urgency:  urgency,
		DueDate:  dueDate,
	}

	_, err := s.db.Exec(
		`INSERT INTO tasks (id, name, duration_sec, urgency, due_sec, scheduled, completed) VALUES (?, ?, ?, ?, ?, 0, 0)`,
		task.ID, task.Name, int64(task.Duration/time.Second), task.Urgency, task.DueDate.Unix(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("task %q: %w", name, ErrDuplicateName)
		}
		return nil, storageErr("insert task", err)
	}
	return task, nil
}

// GetTask retrieves an active task by name.
func (s *Store) GetTask(name string) (*models.Task, error) {
	row := s.db.QueryRow(
		`SELECT id, name, duration_sec, urgency, due_sec, scheduled, completed FROM tasks WHERE name = ? AND completed = 0`,
		name,
	)
	task, err := scanTask(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("task %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, storageErr("query task", err)
	}
	return task, nil
}

// ListPendingTasks returns tasks with scheduled = false and
// completed = false. Order is unspecified; ranking is the caller's job.
func (s *Store) ListPendingTasks() ([]models.Task, error) {
	return s.listTasks(`SELECT id, name, duration_sec, urgency, due_sec, scheduled, completed FROM tasks WHERE scheduled = 0 AND completed = 0`)
}

// ListTasks returns all non-completed tasks.
func (s *Store) ListTasks() ([]models.Task, error) {
	return s.listTasks(`SELECT id, name, duration_sec, urgency, due_sec, scheduled, completed FROM tasks WHERE completed = 0 ORDER BY due_sec ASC`)
}

func (s *Store) listTasks(query string) ([]models.Task, error) {
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, storageErr("query tasks", err)
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, storageErr("scan task", err)
		}
		tasks = append(tasks, *task)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterate tasks", err)
	}
	return tasks, nil
}

// RemoveTask deletes an active task and any placement event derived
// from it.
func (s *Store) RemoveTask(name string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return storageErr("begin transaction", err)
	}
	defer tx.Rollback()

	var id string
	err = tx.QueryRow(`SELECT id FROM tasks WHERE name = ? AND completed = 0`, name).Scan(&id)
	if err == sql.ErrNoRows {
		return fmt.Errorf("task %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return storageErr("query task", err)
	}

	if _, err := tx.Exec(`DELETE FROM events WHERE task_id = ?`, id); err != nil {
		return storageErr("delete placement", err)
	}
	if _, err := tx.Exec(`DELETE FROM tasks WHERE id = ?`, id); err != nil {
		return storageErr("delete task", err)
	}

	if err := tx.Commit(); err != nil {
		return storageErr("commit transaction", err)
	}
	return nil
}

// CompleteTask marks an active task as completed, along with its
// placement event if one exists.
func (s *Store) CompleteTask(name string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return storageErr("begin transaction", err)
	}
	defer tx.Rollback()

	var id string
	err = tx.QueryRow(`SELECT id FROM tasks WHERE name = ? AND completed = 0`, name).Scan(&id)
	if err == sql.ErrNoRows {
		return fmt.Errorf("task %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return storageErr("query task", err)
	}

	if _, err := tx.Exec(`UPDATE events SET completed = 1 WHERE task_id = ?`, id); err != nil {
		return storageErr("complete placement", err)
	}
	if _, err := tx.Exec(`UPDATE tasks SET completed = 1 WHERE id = ?`, id); err != nil {
		return storageErr("complete task", err)
	}

	if err := tx.Commit(); err != nil {
		return storageErr("commit transaction", err)
	}
	return nil
}

// TaskUpdate carries optional field changes for UpdateTask. Nil fields
// are left untouched.
type TaskUpdate struct {
	Duration *time.Duration
	Urgency  *int
	DueDate  *time.Time
}

// UpdateTask modifies an active task. If the task was already scheduled
// its placement event is deleted and the task returns to the pending
// pool, so the next scheduling run can place it with the new values.
func (s *Store) UpdateTask(name string, upd TaskUpdate) error {
	if upd.Duration != nil && *upd.Duration <= 0 {
		return fmt.Errorf("task %q: duration must be positive", name)
	}
	if upd.Urgency != nil && (*upd.Urgency < models.UrgencyMin || *upd.Urgency > models.UrgencyMax) {
		return fmt.Errorf("task %q: urgency must be between %d and %d", name, models.UrgencyMin, models.UrgencyMax)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return storageErr("begin transaction", err)
	}
	defer tx.Rollback()

	var id string
	err = tx.QueryRow(`SELECT id FROM tasks WHERE name = ? AND completed = 0`, name).Scan(&id)
	if err == sql.ErrNoRows {
		return fmt.Errorf("task %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return storageErr("query task", err)
	}

	if upd.Duration != nil {
		if _, err := tx.Exec(`UPDATE tasks SET duration_sec = ? WHERE id = ?`, int64(*upd.Duration/time.Second), id); err != nil {
			return storageErr("update duration", err)
		}
	}
	if upd.Urgency != nil {
		if _, err := tx.Exec(`UPDATE tasks SET urgency = ? WHERE id = ?`, *upd.Urgency, id); err != nil {
			return storageErr("update urgency", err)
		}
	}
	if upd.DueDate != nil {
		if _, err := tx.Exec(`UPDATE tasks SET due_sec = ? WHERE id = ?`, upd.DueDate.Unix(), id); err != nil {
			return storageErr("update due date", err)
		}
	}

	// Drop any stale placement so no orphaned event survives the change.
	if _, err := tx.Exec(`DELETE FROM events WHERE task_id = ?`, id); err != nil {
		return storageErr("delete placement", err)
	}
	if _, err := tx.Exec(`UPDATE tasks SET scheduled = 0 WHERE id = ?`, id); err != nil {
		return storageErr("unschedule task", err)
	}

	if err := tx.Commit(); err != nil {
		return storageErr("commit transaction", err)
	}
	return nil
}

// --- Block Operations ---

// AddBlock inserts an availability window. Offsets are relative to the
// start of the week (Monday 00:00) and must fit inside one week.
func (s *Store) AddBlock(start, end time.Duration) (*models.Block, error) {
	if start < 0 || end > week || !(start < end) {
		return nil, fmt.Errorf("block: want 0 <= start < end <= %v", week)
	}

	block := &models.Block{
		ID:    uuid.New().String(),
		Start: start,
		End:   end,
	}

	_, err := s.db.Exec(
		`INSERT INTO blocks (id, start_sec, end_sec) VALUES (?, ?, ?)`,
		block.ID, int64(block.Start/time.Second), int64(block.End/time.Second),
	)
	if err != nil {
		return nil, storageErr("insert block", err)
	}
	return block, nil
}

// ListBlocks returns all availability blocks ordered by week offset.
func (s *Store) ListBlocks() ([]models.Block, error) {
	rows, err := s.db.Query(`SELECT id, start_sec, end_sec FROM blocks ORDER BY start_sec ASC`)
	if err != nil {
		return nil, storageErr("query blocks", err)
	}
	defer rows.Close()

	var blocks []models.Block
	for rows.Next() {
		var b models.Block
		var startSec, endSec int64
		if err := rows.Scan(&b.ID, &startSec, &endSec); err != nil {
			return nil, storageErr("scan block", err)
		}
		b.Start = time.Duration(startSec) * time.Second
		b.End = time.Duration(endSec) * time.Second
		blocks = append(blocks, b)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("iterate blocks", err)
	}
	return blocks, nil
}

// RemoveBlock deletes a block by id.
func (s *Store) RemoveBlock(id string) error {
	res, err := s.db.Exec(`DELETE FROM blocks WHERE id = ?`, id)
	if err != nil {
		return storageErr("delete block", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return storageErr("check rows affected", err)
	}
	if n == 0 {
		return fmt.Errorf("block %q: %w", id, ErrNotFound)
	}
	return nil
}

// ClearBlocks deletes all availability blocks.
func (s *Store) ClearBlocks() error {
	if _, err := s.db.Exec(`DELETE FROM blocks`); err != nil {
		return storageErr("clear blocks", err)
	}
	return nil
}

// --- Scheduling Commit ---

// CommitPlacements persists a scheduling run in a single transaction:
// every placement event is inserted and its task marked scheduled, or
// nothing is. A task that was scheduled, completed or removed since the
// run's snapshot was taken aborts the whole commit with ErrTaskChanged.
func (s *Store) CommitPlacements(placements []models.Placement) error {
	if len(placements) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return storageErr("begin transaction", err)
	}
	defer tx.Rollback()

	for _, p := range placements {
		ev := p.Event
		_, err := tx.Exec(
			`INSERT INTO events (id, name, description, start_sec, end_sec, is_task, task_id, completed) VALUES (?, ?, ?, ?, ?, 1, ?, 0)`,
			ev.ID, ev.Name, ev.Description, ev.Start.Unix(), ev.End.Unix(), ev.TaskID,
		)
		if err != nil {
			return storageErr("insert placement", err)
		}

		res, err := tx.Exec(
			`UPDATE tasks SET scheduled = 1 WHERE id = ? AND scheduled = 0 AND completed = 0`,
			p.Task.ID,
		)
		if err != nil {
			return storageErr("mark task scheduled", err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return storageErr("check rows affected", err)
		}
		if n == 0 {
			return fmt.Errorf("task %q: %w", p.Task.Name, ErrTaskChanged)
		}
	}

	if err := tx.Commit(); err != nil {
		return storageErr("commit transaction", err)
	}
	return nil
}

// --- Audit Operations ---

// WriteAudit appends an entry to the audit trail.
func (s *Store) WriteAudit(action, inputsHash, outcome, details string) (*models.AuditEntry, error) {
	entry := &models.AuditEntry{
		ID:         uuid.New().String(),
		Action:     action,
		InputsHash: inputsHash,
		Outcome:    outcome,
		Details:    details,
		Timestamp:  time.Now().UTC(),
	}

	_, err := s.db.Exec(
		`INSERT INTO audit_log (id, action, inputs_hash, outcome, details, timestamp) VALUES (?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.Action, entry.InputsHash, entry.Outcome, entry.Details, entry.Timestamp,
	)
	if err != nil {
		return nil, storageErr("insert audit entry", err)
	}
	return entry, nil
}

// --- Scan Helpers ---

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanEvent(row rowScanner) (*models.Event, error) {
	var ev models.Event
	var startSec, endSec int64
	var taskID sql.NullString
	var description sql.NullString

	err := row.Scan(&ev.ID, &ev.Name, &description, &startSec, &endSec, &ev.IsTask, &taskID, &ev.Completed)
	if err != nil {
		return nil, err
	}
	if description.Valid {
		ev.Description = description.String
	}
	if taskID.Valid {
		ev.TaskID = taskID.String
	}
	ev.Start = time.Unix(startSec, 0).UTC()
	ev.End = time.Unix(endSec, 0).UTC()
	return &ev, nil
}

func scanTask(row rowScanner) (*models.Task, error) {
	var task models.Task
	var durationSec, dueSec int64

	err := row.Scan(&task.ID, &task.Name, &durationSec, &task.Urgency, &dueSec, &task.Scheduled, &task.Completed)
	if err != nil {
		return nil, err
	}
	task.Duration = time.Duration(durationSec) * time.Second
	task.DueDate = time.Unix(dueSec, 0).UTC()
	return &task, nil
}
