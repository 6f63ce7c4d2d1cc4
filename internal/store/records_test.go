package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spasta/internal/model"
)

func TestGoalSetCompleted(t *testing.T) {
	s, _, _ := newTestStores(t)
	ctx := context.Background()

	goal, err := s.Goals.Add(ctx, model.Goal{
		Title:      "ship v1",
		CategoryID: "cat-1",
		Priority:   model.PriorityHigh,
		Checklist: []model.ChecklistItem{
			{ID: "c1", Title: "write it"},
			{ID: "c2", Title: "test it"},
		},
	})
	require.NoError(t, err)

	require.NoError(t, s.Goals.SetCompleted(ctx, goal.ID, true))

	got, ok := s.Goals.Get(goal.ID)
	require.True(t, ok)
	assert.True(t, got.Completed)
	assert.Len(t, got.Checklist, 2, "toggling completion leaves the checklist alone")

	require.NoError(t, s.Goals.FetchAll(ctx))
	fetched, ok := s.Goals.Get(goal.ID)
	require.True(t, ok)
	assert.True(t, fetched.Completed)
}

func TestGoalsByCategory(t *testing.T) {
	s, _, _ := newTestStores(t)
	ctx := context.Background()

	_, err := s.Goals.Add(ctx, model.Goal{Title: "a", CategoryID: "work"})
	require.NoError(t, err)
	_, err = s.Goals.Add(ctx, model.Goal{Title: "b", CategoryID: "work"})
	require.NoError(t, err)
	_, err = s.Goals.Add(ctx, model.Goal{Title: "c", CategoryID: "home"})
	require.NoError(t, err)

	grouped := s.Goals.ByCategory()
	assert.Len(t, grouped["work"], 2)
	assert.Len(t, grouped["home"], 1)
}

func TestNoteRoundTrip(t *testing.T) {
	s, _, _ := newTestStores(t)
	ctx := context.Background()

	note, err := s.Notes.Add(ctx, model.Note{
		Title:    "standup",
		Content:  "notes from today",
		Tags:     []string{"meeting", "daily"},
		Keywords: []string{"standup"},
		Tasks: []model.NoteTask{
			{ID: "n1", Title: "follow up", Completed: false},
		},
	})
	require.NoError(t, err)

	require.NoError(t, s.Notes.FetchAll(ctx))
	got, ok := s.Notes.Get(note.ID)
	require.True(t, ok)
	assert.Equal(t, []string{"meeting", "daily"}, got.Tags)
	require.Len(t, got.Tasks, 1)
	assert.Equal(t, "follow up", got.Tasks[0].Title)
}

func TestExpenseFilters(t *testing.T) {
	s, _, _ := newTestStores(t)
	ctx := context.Background()

	add := func(account, category string, amount float64) {
		_, err := s.Expenses.Add(ctx, model.Expense{
			Amount: amount, Account: account, Category: category, Date: time.Now(),
		})
		require.NoError(t, err)
	}
	add("cash", "food", 10)
	add("cash", "transport", 5)
	add("card", "food", 30)

	assert.Len(t, s.Expenses.ByAccount("cash"), 2)
	assert.Len(t, s.Expenses.ByCategory("food"), 2)
	assert.Empty(t, s.Expenses.ByAccount("crypto"))
}

func TestTradeSideRoundTrip(t *testing.T) {
	s, _, _ := newTestStores(t)
	ctx := context.Background()

	trade, err := s.Trades.Add(ctx, model.Trade{
		Symbol:   "AAPL",
		Side:     model.TradeSell,
		Entry:    180.5,
		Exit:     190,
		Quantity: 10,
		Profit:   95,
		Date:     time.Now(),
	})
	require.NoError(t, err)

	require.NoError(t, s.Trades.FetchAll(ctx))
	got, ok := s.Trades.Get(trade.ID)
	require.True(t, ok)
	assert.Equal(t, model.TradeSell, got.Side)
	assert.InDelta(t, 95, got.Profit, 0.001)
}
