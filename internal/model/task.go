package model

import "time"

// Priority levels for tasks, goals and similar records.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// RecurringPeriod is the cadence of a recurring task or expense.
type RecurringPeriod string

const (
	RecurDaily   RecurringPeriod = "daily"
	RecurWeekly  RecurringPeriod = "weekly"
	RecurMonthly RecurringPeriod = "monthly"
	RecurYearly  RecurringPeriod = "yearly"
)

// TimeEntry records hours logged against a task or subtask on a given day.
type TimeEntry struct {
	Date        time.Time
	Hours       float64
	Description string
}

// Task is a single item moving through its category's flow pipeline.
// Progress stays within 0..100; CompletedDate is set exactly when the task
// sits in its category's terminal flow.
type Task struct {
	Meta
	Title           string
	Description     string
	CategoryID      string
	FlowID          string
	Priority        Priority
	Tags            []string
	Progress        int
	EstimatedHours  float64
	ActualHours     float64
	DueDate         *time.Time
	StartDate       *time.Time
	CompletedDate   *time.Time
	IsRecurring     bool
	RecurringPeriod RecurringPeriod
	TimeEntries     []TimeEntry

	// SubTasks is derived state attached at fetch time, never persisted
	// with the task record.
	SubTasks []SubTask
}

// HoursSpent sums the task's logged time entries.
func (t Task) HoursSpent() float64 {
	var total float64
	for _, e := range t.TimeEntries {
		total += e.Hours
	}
	return total
}

// ClampProgress bounds p to the valid 0..100 range.
func ClampProgress(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
