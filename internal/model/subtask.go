package model

import "time"

// SubTask is a child item of exactly one task. It never outlives its
// parent: deleting the task removes its subtasks first.
type SubTask struct {
	Meta
	ParentTaskID   string
	Title          string
	Description    string
	Completed      bool
	EstimatedHours float64
	ActualHours    float64
	StartDate      *time.Time
	DueDate        *time.Time
	TimeEntries    []TimeEntry
}
