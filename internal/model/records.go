package model

import "time"

// The sibling record types below share the task/category persistence shape
// (owner id, audit timestamps, per-user collections) without participating
// in the flow pipeline.

// ChecklistItem is one step of a goal's checklist.
type ChecklistItem struct {
	ID        string
	Title     string
	Completed bool
}

// Goal is a longer-horizon objective grouped by category.
type Goal struct {
	Meta
	CategoryID  string
	Title       string
	Description string
	Priority    Priority
	Completed   bool
	Checklist   []ChecklistItem
}

// NoteTask is an inline to-do embedded in a note.
type NoteTask struct {
	ID        string
	Title     string
	Completed bool
}

// Note is a free-form text record with optional inline tasks.
type Note struct {
	Meta
	Title      string
	Content    string
	CategoryID string
	Tags       []string
	Keywords   []string
	Remarks    string
	Tasks      []NoteTask
}

// Expense is a financial record. Account and Category classification are
// required on every write.
type Expense struct {
	Meta
	Amount          float64
	Account         string
	Category        string
	Description     string
	Date            time.Time
	IsRecurring     bool
	RecurringPeriod RecurringPeriod
}

// Exercise is one movement inside a workout.
type Exercise struct {
	Name     string
	Sets     int
	Reps     int
	Weight   float64
	Duration int // minutes
}

// Workout is a single training session.
type Workout struct {
	Meta
	Name      string
	Date      time.Time
	Type      string
	Duration  int // minutes
	Exercises []Exercise
	Notes     string
}

// TradeSide is the direction of a trade.
type TradeSide string

const (
	TradeBuy  TradeSide = "buy"
	TradeSell TradeSide = "sell"
)

// Trade is one journaled trade with its review fields.
type Trade struct {
	Meta
	Symbol   string
	Side     TradeSide
	Entry    float64
	Exit     float64
	Quantity float64
	Profit   float64
	Reason   string
	Strategy string
	Mistakes string
	Lessons  string
	Date     time.Time
}
