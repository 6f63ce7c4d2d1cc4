package service

import (
	"context"
	"time"

	"spasta/internal/model"
	"spasta/internal/store"
)

// Rollover re-opens completed recurring tasks whose due date has passed:
// the due date advances by whole periods until it lies in the future, the
// completion date is cleared, progress returns to zero and the task moves
// back to the first flow of its category.
type Rollover struct {
	tasks      *store.TaskStore
	categories *store.CategoryStore
	now        func() time.Time
}

func NewRollover(tasks *store.TaskStore, categories *store.CategoryStore) *Rollover {
	return &Rollover{tasks: tasks, categories: categories, now: time.Now}
}

// SetClock overrides the clock used to decide which tasks are due.
func (r *Rollover) SetClock(now func() time.Time) {
	r.now = now
}

// Run scans the cached tasks once and rolls forward every recurring task
// that is complete and overdue. Returns the number of tasks re-opened. A
// failing update aborts the scan; already rolled tasks stay rolled.
func (r *Rollover) Run(ctx context.Context) (int, error) {
	now := r.now()
	rolled := 0
	for _, t := range r.tasks.Items() {
		if !t.IsRecurring || t.RecurringPeriod == "" {
			continue
		}
		if t.CompletedDate == nil || t.DueDate == nil {
			continue
		}
		if t.DueDate.After(now) {
			continue
		}

		next := nextDue(*t.DueDate, t.RecurringPeriod, now)
		zeroProgress := 0
		patch := store.TaskPatch{
			DueDate:       &next,
			Progress:      &zeroProgress,
			CompletedDate: &time.Time{}, // zero time clears the field
		}
		if cat, ok := r.categories.Get(t.CategoryID); ok && len(cat.Flows) > 0 {
			first := cat.Flows[0].ID
			patch.FlowID = &first
		}

		if err := r.tasks.Update(ctx, t.ID, patch); err != nil {
			return rolled, err
		}
		rolled++
	}
	return rolled, nil
}

// nextDue advances due by whole periods until it lands after now.
func nextDue(due time.Time, period model.RecurringPeriod, now time.Time) time.Time {
	for !due.After(now) {
		switch period {
		case model.RecurDaily:
			due = due.AddDate(0, 0, 1)
		case model.RecurWeekly:
			due = due.AddDate(0, 0, 7)
		case model.RecurMonthly:
			due = due.AddDate(0, 1, 0)
		default:
			due = due.AddDate(1, 0, 0)
		}
	}
	return due
}
