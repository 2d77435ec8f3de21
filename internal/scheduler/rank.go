package scheduler

import (
	"sort"
	"time"

	"github.com/fentz26/lifeorg/internal/models"
)

// Score computes the placement priority of a task at the given instant.
// Higher scores place first. Declared urgency dominates; the remaining
// time until the due date adds pressure, clamped to cfg.DueFloor so
// overdue tasks stay finite.
func Score(task models.Task, now time.Time, cfg *Config) float64 {
	remaining := task.DueDate.Sub(now)
	if remaining < cfg.DueFloor {
		remaining = cfg.DueFloor
	}
	return cfg.UrgencyWeight*float64(task.Urgency) + 1/remaining.Seconds()
}

// Rank returns the tasks ordered by descending score. Ties break by
// earliest due date, then by name, so a fixed snapshot always ranks the
// same way. The input slice is not modified.
func Rank(tasks []models.Task, now time.Time, cfg *Config) []models.Task {
	ranked := make([]models.Task, len(tasks))
	copy(ranked, tasks)

	sort.SliceStable(ranked, func(i, j int) bool {
		si, sj := Score(ranked[i], now, cfg), Score(ranked[j], now, cfg)
		if si != sj {
			return si > sj
		}
		if !ranked[i].DueDate.Equal(ranked[j].DueDate) {
			return ranked[i].DueDate.Before(ranked[j].DueDate)
		}
		return ranked[i].Name < ranked[j].Name
	})

	return ranked
}
