package store

import (
	"context"
	"sort"
	"time"

	"spasta/internal/auth"
	"spasta/internal/model"
	"spasta/internal/remote"
)

// TaskPatch is a partial task update. Nil pointers leave fields untouched;
// a pointer to a zero time clears that date. Non-nil slices replace the
// stored sequence. Progress never moves FlowID and vice versa.
type TaskPatch struct {
	Title           *string
	Description     *string
	CategoryID      *string
	FlowID          *string
	Priority        *model.Priority
	Tags            []string
	Progress        *int
	EstimatedHours  *float64
	ActualHours     *float64
	DueDate         *time.Time
	StartDate       *time.Time
	CompletedDate   *time.Time
	IsRecurring     *bool
	RecurringPeriod *model.RecurringPeriod
	TimeEntries     []model.TimeEntry
}

type taskCodec struct{}

func (taskCodec) Collection() string { return tasksCollection }

func (taskCodec) Decode(rec remote.Record) model.Task {
	f := rec.Fields
	priority := model.Priority(f.String("priority"))
	if priority == "" {
		priority = model.PriorityMedium
	}
	return model.Task{
		Meta:            metaFromRecord(rec),
		Title:           f.String("title"),
		Description:     f.String("description"),
		CategoryID:      f.String("categoryId"),
		FlowID:          f.String("flowId"),
		Priority:        priority,
		Tags:            f.Strings("tags"),
		Progress:        model.ClampProgress(f.Int("progress")),
		EstimatedHours:  f.Float("estimatedHours"),
		ActualHours:     f.Float("actualHours"),
		DueDate:         f.Time("dueDate"),
		StartDate:       f.Time("startDate"),
		CompletedDate:   f.Time("completedDate"),
		IsRecurring:     f.Bool("isRecurring"),
		RecurringPeriod: model.RecurringPeriod(f.String("recurringPeriod")),
		TimeEntries:     decodeTimeEntries(f.List("timeEntries")),
	}
}

func (taskCodec) Encode(t model.Task) remote.Fields {
	priority := t.Priority
	if priority == "" {
		priority = model.PriorityMedium
	}
	return remote.Fields{
		"title":           t.Title,
		"description":     t.Description,
		"categoryId":      t.CategoryID,
		"flowId":          t.FlowID,
		"priority":        string(priority),
		"tags":            t.Tags,
		"progress":        model.ClampProgress(t.Progress),
		"estimatedHours":  t.EstimatedHours,
		"actualHours":     t.ActualHours,
		"dueDate":         encodeOptionalTime(t.DueDate),
		"startDate":       encodeOptionalTime(t.StartDate),
		"isRecurring":     t.IsRecurring,
		"recurringPeriod": string(t.RecurringPeriod),
		"timeEntries":     encodeTimeEntries(t.TimeEntries),
	}
}

func (taskCodec) EncodePatch(p TaskPatch) remote.Fields {
	fields := remote.Fields{}
	if p.Title != nil {
		fields["title"] = *p.Title
	}
	if p.Description != nil {
		fields["description"] = *p.Description
	}
	if p.CategoryID != nil {
		fields["categoryId"] = *p.CategoryID
	}
	if p.FlowID != nil {
		fields["flowId"] = *p.FlowID
	}
	if p.Priority != nil {
		fields["priority"] = string(*p.Priority)
	}
	if p.Tags != nil {
		fields["tags"] = p.Tags
	}
	if p.Progress != nil {
		fields["progress"] = model.ClampProgress(*p.Progress)
	}
	if p.EstimatedHours != nil {
		fields["estimatedHours"] = *p.EstimatedHours
	}
	if p.ActualHours != nil {
		fields["actualHours"] = *p.ActualHours
	}
	if p.DueDate != nil {
		fields["dueDate"] = encodeClearableTime(*p.DueDate)
	}
	if p.StartDate != nil {
		fields["startDate"] = encodeClearableTime(*p.StartDate)
	}
	if p.CompletedDate != nil {
		fields["completedDate"] = encodeClearableTime(*p.CompletedDate)
	}
	if p.IsRecurring != nil {
		fields["isRecurring"] = *p.IsRecurring
	}
	if p.RecurringPeriod != nil {
		fields["recurringPeriod"] = string(*p.RecurringPeriod)
	}
	if p.TimeEntries != nil {
		fields["timeEntries"] = encodeTimeEntries(p.TimeEntries)
	}
	return fields
}

func (taskCodec) Merge(t model.Task, p TaskPatch) model.Task {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.CategoryID != nil {
		t.CategoryID = *p.CategoryID
	}
	if p.FlowID != nil {
		t.FlowID = *p.FlowID
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.Tags != nil {
		t.Tags = p.Tags
	}
	if p.Progress != nil {
		t.Progress = model.ClampProgress(*p.Progress)
	}
	if p.EstimatedHours != nil {
		t.EstimatedHours = *p.EstimatedHours
	}
	if p.ActualHours != nil {
		t.ActualHours = *p.ActualHours
	}
	if p.DueDate != nil {
		t.DueDate = mergeClearableTime(*p.DueDate)
	}
	if p.StartDate != nil {
		t.StartDate = mergeClearableTime(*p.StartDate)
	}
	if p.CompletedDate != nil {
		t.CompletedDate = mergeClearableTime(*p.CompletedDate)
	}
	if p.IsRecurring != nil {
		t.IsRecurring = *p.IsRecurring
	}
	if p.RecurringPeriod != nil {
		t.RecurringPeriod = *p.RecurringPeriod
	}
	if p.TimeEntries != nil {
		t.TimeEntries = p.TimeEntries
	}
	return t
}

func (taskCodec) Stamped(t model.Task, m model.Meta) model.Task {
	t.Meta = m
	return t
}

func encodeOptionalTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return remote.FromTime(*t)
}

// encodeClearableTime maps the zero time to null, which clears the field.
func encodeClearableTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return remote.FromTime(t)
}

func mergeClearableTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func encodeTimeEntries(entries []model.TimeEntry) []remote.Fields {
	out := make([]remote.Fields, 0, len(entries))
	for _, e := range entries {
		out = append(out, remote.Fields{
			"date":        remote.FromTime(e.Date),
			"hours":       e.Hours,
			"description": e.Description,
		})
	}
	return out
}

func decodeTimeEntries(list []remote.Fields) []model.TimeEntry {
	var out []model.TimeEntry
	for _, f := range list {
		out = append(out, model.TimeEntry{
			Date:        f.TimeOrNow("date"),
			Hours:       f.Float("hours"),
			Description: f.String("description"),
		})
	}
	return out
}

// TaskStore manages the task cache and the flow-transition rule that
// completes a task when it reaches its category's terminal flow.
type TaskStore struct {
	*Collection[model.Task, TaskPatch]
	subTasks *SubTaskStore
	cascade  *Cascader
}

func NewTaskStore(gw remote.Gateway, session auth.Session, subTasks *SubTaskStore) *TaskStore {
	return &TaskStore{
		Collection: NewCollection[model.Task, TaskPatch](gw, session, taskCodec{}),
		subTasks:   subTasks,
	}
}

// FetchAll loads tasks, refreshes the subtask cache, then attaches each
// task's subtasks. The attachment is derived state rebuilt on every fetch.
func (s *TaskStore) FetchAll(ctx context.Context) error {
	if err := s.Collection.FetchAll(ctx); err != nil {
		return err
	}
	if err := s.subTasks.FetchAll(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	for i := range s.items {
		s.items[i].SubTasks = s.subTasks.ByTask(s.items[i].ID)
	}
	s.mu.Unlock()
	return nil
}

// MoveTask moves a task to another flow of its category. Landing on the
// terminal flow marks the task complete in the same update: progress 100
// and a server-stamped completion date. Moving away from the terminal flow
// later does not undo either. When the category record is gone (deleted
// concurrently), the flow change still applies and only the completion
// check is skipped.
func (s *TaskStore) MoveTask(ctx context.Context, taskID, flowID string) error {
	rec, err := s.guardedFetch(ctx, taskID)
	if err != nil {
		return err
	}

	fields := remote.Fields{
		"flowId":    flowID,
		"updatedAt": remote.ServerTime,
	}

	terminal := false
	if catID := rec.Fields.String("categoryId"); catID != "" {
		catRec, err := s.gw.GetByID(ctx, categoriesCollection, catID)
		if err == nil {
			flows := catRec.Fields.List("flows")
			if len(flows) > 0 && flows[len(flows)-1].String("id") == flowID {
				terminal = true
				fields["completedDate"] = remote.ServerTime
				fields["progress"] = 100
			}
		}
	}

	if err := s.gw.Update(ctx, tasksCollection, taskID, fields); err != nil {
		return remoteErr("update", tasksCollection, err)
	}

	now := time.Now()
	s.mu.Lock()
	for i := range s.items {
		if s.items[i].ID != taskID {
			continue
		}
		s.items[i].FlowID = flowID
		s.items[i].UpdatedAt = now
		if terminal {
			completed := now
			s.items[i].Progress = 100
			s.items[i].CompletedDate = &completed
		}
		break
	}
	s.mu.Unlock()
	return nil
}

// Delete removes the task and its subtasks, children first.
func (s *TaskStore) Delete(ctx context.Context, id string) error {
	return s.cascade.DeleteTask(ctx, id)
}

// HighPriority returns the cached high-priority tasks ordered by due date.
// Tasks without a due date keep their relative cache order.
func (s *TaskStore) HighPriority() []model.Task {
	var out []model.Task
	for _, t := range s.Items() {
		if t.Priority == model.PriorityHigh {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].DueDate == nil || out[j].DueDate == nil {
			return false
		}
		return out[i].DueDate.Before(*out[j].DueDate)
	})
	return out
}

// ByPriority groups the cached tasks by priority.
func (s *TaskStore) ByPriority() map[model.Priority][]model.Task {
	grouped := map[model.Priority][]model.Task{}
	for _, t := range s.Items() {
		grouped[t.Priority] = append(grouped[t.Priority], t)
	}
	return grouped
}

// OverallProgress averages progress across the cached tasks, rounded to the
// nearest integer. An empty cache reports zero.
func (s *TaskStore) OverallProgress() int {
	items := s.Items()
	if len(items) == 0 {
		return 0
	}
	total := 0
	for _, t := range items {
		total += t.Progress
	}
	return (total + len(items)/2) / len(items)
}

// HoursLogged sums time entries across the cached tasks.
func (s *TaskStore) HoursLogged() float64 {
	var total float64
	for _, t := range s.Items() {
		total += t.HoursSpent()
	}
	return total
}
