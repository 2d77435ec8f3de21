package scheduler

import (
	"sort"
	"time"

	"github.com/fentz26/lifeorg/internal/models"
)

// Window is an absolute half-open interval [Start, End).
type Window struct {
	Start time.Time
	End   time.Time
}

// FindSlots computes the free intervals within horizon: the union of
// blocks, clipped to the horizon and normalized, minus every event that
// overlaps it. Blocks may arrive unsorted or overlapping; the output is
// sorted by start, non-overlapping, and contains no empty intervals.
//
// padding is removed from both ends of each resulting slot and slots
// shorter than minSlot are dropped; both are zero in the default
// configuration.
//
// The computation is pure: identical input yields identical output.
func FindSlots(blocks []Window, events []models.Event, horizon Window, padding, minSlot time.Duration) []models.FreeSlot {
	// Clip blocks to the horizon, discarding non-intersecting ones.
	clipped := make([]Window, 0, len(blocks))
	for _, b := range blocks {
		start, end := b.Start, b.End
		if start.Before(horizon.Start) {
			start = horizon.Start
		}
		if end.After(horizon.End) {
			end = horizon.End
		}
		if start.Before(end) {
			clipped = append(clipped, Window{Start: start, End: end})
		}
	}

	sort.Slice(clipped, func(i, j int) bool { return clipped[i].Start.Before(clipped[j].Start) })

	// Merge overlapping or adjacent coverage so duplicate availability
	// collapses into one window.
	merged := make([]Window, 0, len(clipped))
	for _, b := range clipped {
		if n := len(merged); n > 0 && !b.Start.After(merged[n-1].End) {
			if b.End.After(merged[n-1].End) {
				merged[n-1].End = b.End
			}
			continue
		}
		merged = append(merged, b)
	}

	// Subtract events from each window. Events are already ordered by
	// start when they come from the store, but sort a copy anyway so the
	// finder does not depend on caller discipline.
	busy := make([]Window, 0, len(events))
	for _, ev := range events {
		busy = append(busy, Window{Start: ev.Start, End: ev.End})
	}
	sort.Slice(busy, func(i, j int) bool { return busy[i].Start.Before(busy[j].Start) })

	var slots []models.FreeSlot
	for _, block := range merged {
		cursor := block.Start
		for _, ev := range busy {
			if !ev.End.After(cursor) || !ev.Start.Before(block.End) {
				continue
			}
			if ev.Start.After(cursor) {
				emitSlot(&slots, cursor, ev.Start, padding, minSlot)
			}
			if ev.End.After(cursor) {
				cursor = ev.End
			}
			if !cursor.Before(block.End) {
				break
			}
		}
		if cursor.Before(block.End) {
			emitSlot(&slots, cursor, block.End, padding, minSlot)
		}
	}

	return slots
}

// emitSlot appends [start, end) after applying padding, dropping empty
// or sub-minimum results.
func emitSlot(slots *[]models.FreeSlot, start, end time.Time, padding, minSlot time.Duration) {
	start = start.Add(padding)
	end = end.Add(-padding)
	if !start.Before(end) {
		return
	}
	if minSlot > 0 && end.Sub(start) < minSlot {
		return
	}
	*slots = append(*slots, models.FreeSlot{Start: start, End: end})
}

// ExpandBlocks materializes weekly availability blocks into absolute
// windows for every week that intersects the horizon. weekStart must be
// the Monday 00:00 of the week containing the horizon start.
func ExpandBlocks(blocks []models.Block, weekStart time.Time, horizon Window) []Window {
	const weekLen = 7 * 24 * time.Hour

	var out []Window
	for ws := weekStart; ws.Before(horizon.End); ws = ws.Add(weekLen) {
		for _, b := range blocks {
			w := Window{Start: ws.Add(b.Start), End: ws.Add(b.End)}
			if w.End.After(horizon.Start) && w.Start.Before(horizon.End) {
				out = append(out, w)
			}
		}
	}
	return out
}
