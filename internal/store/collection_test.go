package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spasta/internal/model"
)

func TestFetchAllSignedOutClearsCacheWithoutError(t *testing.T) {
	s, _, session := newTestStores(t)
	ctx := context.Background()

	cat := seedCategory(t, s, "Work", "To Do", "Done")
	seedTask(t, s, cat, "alpha")
	require.NoError(t, s.Tasks.FetchAll(ctx))
	require.NotEmpty(t, s.Tasks.Items())

	session.SignOut()
	require.NoError(t, s.Tasks.FetchAll(ctx))
	assert.Empty(t, s.Tasks.Items(), "signed-out fetch empties the cache")
}

func TestFetchAllScopesToCurrentUser(t *testing.T) {
	s, _, session := newTestStores(t)
	ctx := context.Background()

	cat := seedCategory(t, s, "Work", "To Do", "Done")
	seedTask(t, s, cat, "mine")

	session.SignIn("user-2")
	require.NoError(t, s.Tasks.FetchAll(ctx))
	assert.Empty(t, s.Tasks.Items(), "another user sees none of user-1's tasks")
}

func TestAddRequiresSession(t *testing.T) {
	s, _, session := newTestStores(t)
	session.SignOut()

	_, err := s.Tasks.Add(context.Background(), model.Task{Title: "x"})
	assert.ErrorIs(t, err, ErrAuthenticationRequired)
}

func TestAddStampsOwnerAndTimestamps(t *testing.T) {
	s, _, _ := newTestStores(t)
	cat := seedCategory(t, s, "Work", "To Do", "Done")

	task := seedTask(t, s, cat, "alpha")
	assert.NotEmpty(t, task.ID)
	assert.Equal(t, "user-1", task.OwnerID)
	assert.WithinDuration(t, time.Now(), task.CreatedAt, time.Second)
	assert.WithinDuration(t, time.Now(), task.UpdatedAt, time.Second)

	cached, ok := s.Tasks.Get(task.ID)
	require.True(t, ok, "added entity appears in the cache without a fetch")
	assert.Equal(t, "alpha", cached.Title)
}

func TestUpdateNotFound(t *testing.T) {
	s, _, _ := newTestStores(t)
	title := "y"
	err := s.Tasks.Update(context.Background(), "missing-id", TaskPatch{Title: &title})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateUnauthorizedLeavesCacheUnchanged(t *testing.T) {
	s, _, session := newTestStores(t)
	ctx := context.Background()

	cat := seedCategory(t, s, "Work", "To Do", "Done")
	task := seedTask(t, s, cat, "alpha")

	// The attacker's session still holds user-1's optimistic cache entry;
	// the guard runs against the remote record, not the cache.
	session.SignIn("user-2")
	title := "hijacked"
	err := s.Tasks.Update(ctx, task.ID, TaskPatch{Title: &title})
	assert.ErrorIs(t, err, ErrUnauthorized)

	cached, ok := s.Tasks.Get(task.ID)
	require.True(t, ok)
	assert.Equal(t, "alpha", cached.Title, "failed update must not patch the cache")
}

func TestDeleteUnauthorized(t *testing.T) {
	s, _, session := newTestStores(t)
	ctx := context.Background()

	cat := seedCategory(t, s, "Work", "To Do", "Done")
	task := seedTask(t, s, cat, "alpha")

	session.SignIn("user-2")
	assert.ErrorIs(t, s.Tasks.Delete(ctx, task.ID), ErrUnauthorized)

	session.SignIn("user-1")
	require.NoError(t, s.Tasks.FetchAll(ctx))
	_, ok := s.Tasks.Get(task.ID)
	assert.True(t, ok, "record survives the rejected delete")
}

func TestUpdatePatchesCacheInPlace(t *testing.T) {
	s, _, _ := newTestStores(t)
	ctx := context.Background()

	cat := seedCategory(t, s, "Work", "To Do", "Done")
	task := seedTask(t, s, cat, "alpha")

	title := "beta"
	progress := 40
	require.NoError(t, s.Tasks.Update(ctx, task.ID, TaskPatch{Title: &title, Progress: &progress}))

	cached, ok := s.Tasks.Get(task.ID)
	require.True(t, ok)
	assert.Equal(t, "beta", cached.Title)
	assert.Equal(t, 40, cached.Progress)
	assert.Equal(t, cat.ID, cached.CategoryID, "unpatched fields survive")
}

func TestUpdateClampsProgress(t *testing.T) {
	s, _, _ := newTestStores(t)
	ctx := context.Background()

	cat := seedCategory(t, s, "Work", "To Do", "Done")
	task := seedTask(t, s, cat, "alpha")

	for patch, want := range map[int]int{150: 100, -5: 0} {
		p := patch
		require.NoError(t, s.Tasks.Update(ctx, task.ID, TaskPatch{Progress: &p}))

		cached, _ := s.Tasks.Get(task.ID)
		assert.Equal(t, want, cached.Progress)

		require.NoError(t, s.Tasks.FetchAll(ctx))
		fetched, ok := s.Tasks.Get(task.ID)
		require.True(t, ok)
		assert.Equal(t, want, fetched.Progress, "remote copy is clamped too")
	}
}

func TestUpdateCanClearDueDate(t *testing.T) {
	s, _, _ := newTestStores(t)
	ctx := context.Background()

	cat := seedCategory(t, s, "Work", "To Do", "Done")
	due := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)
	task, err := s.Tasks.Add(ctx, model.Task{
		Title:      "with due",
		CategoryID: cat.ID,
		FlowID:     cat.Flows[0].ID,
		DueDate:    &due,
	})
	require.NoError(t, err)

	require.NoError(t, s.Tasks.Update(ctx, task.ID, TaskPatch{DueDate: &time.Time{}}))

	cached, _ := s.Tasks.Get(task.ID)
	assert.Nil(t, cached.DueDate)

	require.NoError(t, s.Tasks.FetchAll(ctx))
	fetched, ok := s.Tasks.Get(task.ID)
	require.True(t, ok)
	assert.Nil(t, fetched.DueDate)
}

func TestRemoteFailureLeavesCacheUntouched(t *testing.T) {
	s, gw, session := newTestStores(t)
	ctx := context.Background()

	cat := seedCategory(t, s, "Work", "To Do", "Done")
	task := seedTask(t, s, cat, "alpha")

	// Rebuild the stores over a gateway whose update calls fail, sharing
	// the same backing database and kept caches warm by a fetch.
	failing := &failingGateway{Gateway: gw, failUpdate: true}
	s2 := NewStores(failing, session)
	require.NoError(t, s2.Tasks.FetchAll(ctx))

	title := "beta"
	err := s2.Tasks.Update(ctx, task.ID, TaskPatch{Title: &title})

	var re *RemoteError
	require.ErrorAs(t, err, &re)
	cached, ok := s2.Tasks.Get(task.ID)
	require.True(t, ok)
	assert.Equal(t, "alpha", cached.Title)
}

func TestDueDateRoundTrip(t *testing.T) {
	s, _, _ := newTestStores(t)
	ctx := context.Background()

	cat := seedCategory(t, s, "Work", "To Do", "Done")
	due := time.Date(2025, 9, 15, 18, 45, 12, 0, time.Local)
	_, err := s.Tasks.Add(ctx, model.Task{
		Title:      "round trip",
		CategoryID: cat.ID,
		FlowID:     cat.Flows[0].ID,
		DueDate:    &due,
	})
	require.NoError(t, err)

	require.NoError(t, s.Tasks.FetchAll(ctx))
	items := s.Tasks.Items()
	require.Len(t, items, 1)
	require.NotNil(t, items[0].DueDate)
	assert.True(t, items[0].DueDate.Truncate(time.Second).Equal(due.Truncate(time.Second)),
		"due date survives the store round-trip to second precision")
}

func TestCategoryAddRejectsDuplicateFlowIDs(t *testing.T) {
	s, _, _ := newTestStores(t)

	_, err := s.Categories.Add(context.Background(), model.Category{
		Name: "Broken",
		Flows: []model.Flow{
			{ID: "f1", Name: "A"},
			{ID: "f1", Name: "B"},
		},
	})
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestExpenseRequiresAccountAndCategory(t *testing.T) {
	s, _, _ := newTestStores(t)
	ctx := context.Background()

	_, err := s.Expenses.Add(ctx, model.Expense{Amount: 12.5, Date: time.Now()})
	assert.ErrorIs(t, err, ErrValidationFailed)

	exp, err := s.Expenses.Add(ctx, model.Expense{
		Amount:   12.5,
		Account:  "cash",
		Category: "food",
		Date:     time.Now(),
	})
	require.NoError(t, err)

	empty := ""
	assert.ErrorIs(t, s.Expenses.Update(ctx, exp.ID, ExpensePatch{Account: &empty}), ErrValidationFailed)
}

func TestSubTaskRequiresParent(t *testing.T) {
	s, _, _ := newTestStores(t)
	_, err := s.SubTasks.Add(context.Background(), model.SubTask{Title: "orphan"})
	assert.ErrorIs(t, err, ErrValidationFailed)
}
