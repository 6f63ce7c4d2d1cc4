package store

import (
	"context"
	"errors"

	"spasta/internal/auth"
	"spasta/internal/remote"
)

// Stores bundles every cache store over one gateway and session. It is
// built once at process start and passed by reference to whatever needs it;
// there is no hidden global lookup.
type Stores struct {
	Categories *CategoryStore
	Tasks      *TaskStore
	SubTasks   *SubTaskStore
	Goals      *GoalStore
	Notes      *NoteStore
	Expenses   *ExpenseStore
	Workouts   *WorkoutStore
	Trades     *TradeStore
}

func NewStores(gw remote.Gateway, session auth.Session) *Stores {
	subTasks := NewSubTaskStore(gw, session)
	tasks := NewTaskStore(gw, session, subTasks)
	categories := NewCategoryStore(gw, session)

	cascade := &Cascader{
		gw:         gw,
		session:    session,
		categories: categories,
		tasks:      tasks,
		subTasks:   subTasks,
	}
	tasks.cascade = cascade
	categories.cascade = cascade

	return &Stores{
		Categories: categories,
		Tasks:      tasks,
		SubTasks:   subTasks,
		Goals:      NewGoalStore(gw, session),
		Notes:      NewNoteStore(gw, session),
		Expenses:   NewExpenseStore(gw, session),
		Workouts:   NewWorkoutStore(gw, session),
		Trades:     NewTradeStore(gw, session),
	}
}

// FetchAll refreshes every cache. Task fetching covers subtasks.
func (s *Stores) FetchAll(ctx context.Context) error {
	return errors.Join(
		s.Categories.FetchAll(ctx),
		s.Tasks.FetchAll(ctx),
		s.Goals.FetchAll(ctx),
		s.Notes.FetchAll(ctx),
		s.Expenses.FetchAll(ctx),
		s.Workouts.FetchAll(ctx),
		s.Trades.FetchAll(ctx),
	)
}
