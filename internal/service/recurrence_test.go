package service

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spasta/internal/auth"
	"spasta/internal/model"
	"spasta/internal/remote"
	"spasta/internal/store"
)

func newTestStores(t *testing.T) *store.Stores {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := remote.Open(fmt.Sprintf("file:service_%s?mode=memory&cache=shared", name))
	require.NoError(t, err)
	session := &auth.MemorySession{}
	session.SignIn("user-1")
	return store.NewStores(remote.NewSQLiteGateway(db), session)
}

func addRecurring(t *testing.T, s *store.Stores, catID string, due time.Time, period model.RecurringPeriod) model.Task {
	t.Helper()
	task, err := s.Tasks.Add(context.Background(), model.Task{
		Title:           "water plants",
		CategoryID:      catID,
		FlowID:          "done",
		Progress:        100,
		IsRecurring:     true,
		RecurringPeriod: period,
		DueDate:         &due,
	})
	require.NoError(t, err)

	completed := due
	require.NoError(t, s.Tasks.Update(context.Background(), task.ID, store.TaskPatch{
		CompletedDate: &completed,
	}))
	got, ok := s.Tasks.Get(task.ID)
	require.True(t, ok)
	return got
}

func TestRolloverReopensOverdueRecurringTask(t *testing.T) {
	s := newTestStores(t)
	ctx := context.Background()

	cat, err := s.Categories.Add(ctx, model.Category{
		Name: "Chores",
		Flows: []model.Flow{
			{ID: "todo", Name: "To Do", Order: 0},
			{ID: "done", Name: "Done", Order: 1},
		},
	})
	require.NoError(t, err)

	due := time.Date(2026, 8, 24, 9, 0, 0, 0, time.UTC)
	task := addRecurring(t, s, cat.ID, due, model.RecurWeekly)

	r := NewRollover(s.Tasks, s.Categories)
	r.SetClock(func() time.Time { return time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC) })

	rolled, err := r.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, rolled)

	got, ok := s.Tasks.Get(task.ID)
	require.True(t, ok)
	assert.Equal(t, 0, got.Progress)
	assert.Nil(t, got.CompletedDate, "rolling forward clears the completion date")
	assert.Equal(t, "todo", got.FlowID, "the task returns to the first flow")
	require.NotNil(t, got.DueDate)
	assert.Equal(t, due.AddDate(0, 0, 7), got.DueDate.UTC())
}

func TestRolloverSkipsFutureAndIncompleteTasks(t *testing.T) {
	s := newTestStores(t)
	ctx := context.Background()

	cat, err := s.Categories.Add(ctx, model.Category{
		Name:  "Chores",
		Flows: []model.Flow{{ID: "todo", Name: "To Do", Order: 0}},
	})
	require.NoError(t, err)

	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	// Due in the future.
	future := now.AddDate(0, 0, 3)
	addRecurring(t, s, cat.ID, future, model.RecurDaily)

	// Overdue but never completed.
	past := now.AddDate(0, 0, -3)
	_, err = s.Tasks.Add(ctx, model.Task{
		Title:           "not done yet",
		CategoryID:      cat.ID,
		FlowID:          "todo",
		IsRecurring:     true,
		RecurringPeriod: model.RecurDaily,
		DueDate:         &past,
	})
	require.NoError(t, err)

	// Overdue and completed but not recurring.
	completed := past
	oneOff, err := s.Tasks.Add(ctx, model.Task{
		Title:      "one-off",
		CategoryID: cat.ID,
		FlowID:     "todo",
		DueDate:    &past,
	})
	require.NoError(t, err)
	require.NoError(t, s.Tasks.Update(ctx, oneOff.ID, store.TaskPatch{CompletedDate: &completed}))

	r := NewRollover(s.Tasks, s.Categories)
	r.SetClock(func() time.Time { return now })

	rolled, err := r.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, rolled)
}

func TestRolloverAdvancesPastMultipleMissedPeriods(t *testing.T) {
	s := newTestStores(t)
	ctx := context.Background()

	cat, err := s.Categories.Add(ctx, model.Category{
		Name:  "Chores",
		Flows: []model.Flow{{ID: "todo", Name: "To Do", Order: 0}},
	})
	require.NoError(t, err)

	due := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)
	task := addRecurring(t, s, cat.ID, due, model.RecurMonthly)

	r := NewRollover(s.Tasks, s.Categories)
	r.SetClock(func() time.Time { return time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC) })

	_, err = r.Run(ctx)
	require.NoError(t, err)

	got, ok := s.Tasks.Get(task.ID)
	require.True(t, ok)
	require.NotNil(t, got.DueDate)
	assert.Equal(t, time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC), got.DueDate.UTC(),
		"the due date skips the missed months in one pass")
}

func TestNextDue(t *testing.T) {
	now := time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
	due := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)

	assert.Equal(t, due.AddDate(0, 0, 1), nextDue(due, model.RecurDaily, now))
	assert.Equal(t, due.AddDate(0, 0, 7), nextDue(due, model.RecurWeekly, now))
	assert.Equal(t, due.AddDate(0, 1, 0), nextDue(due, model.RecurMonthly, now))
	assert.Equal(t, due.AddDate(1, 0, 0), nextDue(due, model.RecurYearly, now))
}

func TestBuildDailySpec(t *testing.T) {
	spec, err := buildDailySpec("07:30")
	require.NoError(t, err)
	assert.Equal(t, "0 30 7 * * *", spec)

	for _, bad := range []string{"7", "25:00", "12:60", "a:b"} {
		_, err := buildDailySpec(bad)
		assert.Error(t, err, bad)
	}
}
