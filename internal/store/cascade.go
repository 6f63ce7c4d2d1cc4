package store

import (
	"context"

	"spasta/internal/auth"
	"spasta/internal/model"
	"spasta/internal/remote"
)

// Cascader propagates parent deletions to dependents. The remote side uses
// batched deletes, atomic per batch, but there is no transaction across
// batches: a failure mid-cascade leaves a partially deleted tree that the
// next fetch reconciles.
type Cascader struct {
	gw      remote.Gateway
	session auth.Session

	categories *CategoryStore
	tasks      *TaskStore
	subTasks   *SubTaskStore
}

// DeleteTask removes one task, its subtasks first. If the task delete fails
// after the subtasks are gone, the result is a childless task, not a
// rollback.
func (d *Cascader) DeleteTask(ctx context.Context, id string) error {
	if _, err := d.tasks.guardedFetch(ctx, id); err != nil {
		return err
	}
	if err := d.subTasks.DeleteByTask(ctx, id); err != nil {
		return err
	}
	if err := d.gw.Delete(ctx, tasksCollection, id); err != nil {
		return remoteErr("delete", tasksCollection, err)
	}
	d.tasks.removeCached(id)
	return nil
}

// DeleteCategory removes a category and everything under it: the category's
// tasks in one batched delete, those tasks' subtasks in another, then the
// category record itself. The dependent id sets come from remote queries,
// not the caches, so the batches cover exactly what the store holds.
func (d *Cascader) DeleteCategory(ctx context.Context, id string) error {
	if _, err := d.categories.guardedFetch(ctx, id); err != nil {
		return err
	}
	uid, _ := d.session.CurrentUserID()

	taskRecs, err := d.gw.QueryByOwnerAndField(ctx, tasksCollection, uid, "categoryId", id)
	if err != nil {
		return remoteErr("query", tasksCollection, err)
	}
	taskIDs := recordIDs(taskRecs)

	var subIDs []string
	for _, taskID := range taskIDs {
		subRecs, err := d.gw.QueryByOwnerAndField(ctx, subTasksCollection, uid, "parentTaskId", taskID)
		if err != nil {
			return remoteErr("query", subTasksCollection, err)
		}
		subIDs = append(subIDs, recordIDs(subRecs)...)
	}

	if err := d.gw.BatchDelete(ctx, subTasksCollection, subIDs); err != nil {
		return remoteErr("batch delete", subTasksCollection, err)
	}
	if err := d.gw.BatchDelete(ctx, tasksCollection, taskIDs); err != nil {
		return remoteErr("batch delete", tasksCollection, err)
	}
	if err := d.gw.Delete(ctx, categoriesCollection, id); err != nil {
		return remoteErr("delete", categoriesCollection, err)
	}

	gone := make(map[string]struct{}, len(taskIDs))
	for _, taskID := range taskIDs {
		gone[taskID] = struct{}{}
	}
	d.subTasks.prune(func(st model.SubTask) bool {
		_, dropped := gone[st.ParentTaskID]
		return !dropped
	})
	d.tasks.prune(func(t model.Task) bool { return t.CategoryID != id })
	d.categories.removeCached(id)
	return nil
}

func recordIDs(recs []remote.Record) []string {
	ids := make([]string, 0, len(recs))
	for _, rec := range recs {
		ids = append(ids, rec.ID)
	}
	return ids
}
