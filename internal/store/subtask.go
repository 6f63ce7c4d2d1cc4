package store

import (
	"context"
	"fmt"
	"time"

	"spasta/internal/auth"
	"spasta/internal/model"
	"spasta/internal/remote"
)

// SubTaskPatch is a partial subtask update. Nil pointers leave fields
// untouched; a pointer to a zero time clears that date.
type SubTaskPatch struct {
	Title          *string
	Description    *string
	Completed      *bool
	EstimatedHours *float64
	ActualHours    *float64
	StartDate      *time.Time
	DueDate        *time.Time
	TimeEntries    []model.TimeEntry
}

type subTaskCodec struct{}

func (subTaskCodec) Collection() string { return subTasksCollection }

func (subTaskCodec) Decode(rec remote.Record) model.SubTask {
	f := rec.Fields
	return model.SubTask{
		Meta:           metaFromRecord(rec),
		ParentTaskID:   f.String("parentTaskId"),
		Title:          f.String("title"),
		Description:    f.String("description"),
		Completed:      f.Bool("completed"),
		EstimatedHours: f.Float("estimatedHours"),
		ActualHours:    f.Float("actualHours"),
		StartDate:      f.Time("startDate"),
		DueDate:        f.Time("dueDate"),
		TimeEntries:    decodeTimeEntries(f.List("timeEntries")),
	}
}

func (subTaskCodec) Encode(st model.SubTask) remote.Fields {
	return remote.Fields{
		"parentTaskId":   st.ParentTaskID,
		"title":          st.Title,
		"description":    st.Description,
		"completed":      st.Completed,
		"estimatedHours": st.EstimatedHours,
		"actualHours":    st.ActualHours,
		"startDate":      encodeOptionalTime(st.StartDate),
		"dueDate":        encodeOptionalTime(st.DueDate),
		"timeEntries":    encodeTimeEntries(st.TimeEntries),
	}
}

func (subTaskCodec) EncodePatch(p SubTaskPatch) remote.Fields {
	fields := remote.Fields{}
	if p.Title != nil {
		fields["title"] = *p.Title
	}
	if p.Description != nil {
		fields["description"] = *p.Description
	}
	if p.Completed != nil {
		fields["completed"] = *p.Completed
	}
	if p.EstimatedHours != nil {
		fields["estimatedHours"] = *p.EstimatedHours
	}
	if p.ActualHours != nil {
		fields["actualHours"] = *p.ActualHours
	}
	if p.StartDate != nil {
		fields["startDate"] = encodeClearableTime(*p.StartDate)
	}
	if p.DueDate != nil {
		fields["dueDate"] = encodeClearableTime(*p.DueDate)
	}
	if p.TimeEntries != nil {
		fields["timeEntries"] = encodeTimeEntries(p.TimeEntries)
	}
	return fields
}

func (subTaskCodec) Merge(st model.SubTask, p SubTaskPatch) model.SubTask {
	if p.Title != nil {
		st.Title = *p.Title
	}
	if p.Description != nil {
		st.Description = *p.Description
	}
	if p.Completed != nil {
		st.Completed = *p.Completed
	}
	if p.EstimatedHours != nil {
		st.EstimatedHours = *p.EstimatedHours
	}
	if p.ActualHours != nil {
		st.ActualHours = *p.ActualHours
	}
	if p.StartDate != nil {
		st.StartDate = mergeClearableTime(*p.StartDate)
	}
	if p.DueDate != nil {
		st.DueDate = mergeClearableTime(*p.DueDate)
	}
	if p.TimeEntries != nil {
		st.TimeEntries = p.TimeEntries
	}
	return st
}

func (subTaskCodec) Stamped(st model.SubTask, m model.Meta) model.SubTask {
	st.Meta = m
	return st
}

// SubTaskStore manages the subtask cache.
type SubTaskStore struct {
	*Collection[model.SubTask, SubTaskPatch]
}

func NewSubTaskStore(gw remote.Gateway, session auth.Session) *SubTaskStore {
	return &SubTaskStore{
		Collection: NewCollection[model.SubTask, SubTaskPatch](gw, session, subTaskCodec{}),
	}
}

// Add requires a parent task reference.
func (s *SubTaskStore) Add(ctx context.Context, draft model.SubTask) (model.SubTask, error) {
	if draft.ParentTaskID == "" {
		return model.SubTask{}, fmt.Errorf("%w: subtask requires a parent task", ErrValidationFailed)
	}
	return s.Collection.Add(ctx, draft)
}

// ByTask returns the cached subtasks of one task.
func (s *SubTaskStore) ByTask(taskID string) []model.SubTask {
	var out []model.SubTask
	for _, st := range s.Items() {
		if st.ParentTaskID == taskID {
			out = append(out, st)
		}
	}
	return out
}

// CompletionByTask returns the completed percentage of a task's subtasks,
// zero when the task has none.
func (s *SubTaskStore) CompletionByTask(taskID string) int {
	subs := s.ByTask(taskID)
	if len(subs) == 0 {
		return 0
	}
	done := 0
	for _, st := range subs {
		if st.Completed {
			done++
		}
	}
	return (done*100 + len(subs)/2) / len(subs)
}

// DeleteByTask removes every subtask of the given task in one batched
// remote delete, then filters them out of the cache. The id set comes from
// a remote query scoped to the current user, not the cache, so stale local
// state cannot leave remote orphans behind.
func (s *SubTaskStore) DeleteByTask(ctx context.Context, taskID string) error {
	uid, ok := s.session.CurrentUserID()
	if !ok {
		return ErrAuthenticationRequired
	}
	recs, err := s.gw.QueryByOwnerAndField(ctx, subTasksCollection, uid, "parentTaskId", taskID)
	if err != nil {
		return remoteErr("query", subTasksCollection, err)
	}
	ids := make([]string, 0, len(recs))
	for _, rec := range recs {
		ids = append(ids, rec.ID)
	}
	if err := s.gw.BatchDelete(ctx, subTasksCollection, ids); err != nil {
		return remoteErr("batch delete", subTasksCollection, err)
	}
	s.prune(func(st model.SubTask) bool { return st.ParentTaskID != taskID })
	return nil
}
