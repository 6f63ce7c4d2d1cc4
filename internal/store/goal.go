package store

import (
	"context"

	"spasta/internal/auth"
	"spasta/internal/model"
	"spasta/internal/remote"
)

// GoalPatch is a partial goal update. A non-nil Checklist replaces the
// stored list.
type GoalPatch struct {
	Title       *string
	Description *string
	CategoryID  *string
	Priority    *model.Priority
	Completed   *bool
	Checklist   []model.ChecklistItem
}

type goalCodec struct{}

func (goalCodec) Collection() string { return goalsCollection }

func (goalCodec) Decode(rec remote.Record) model.Goal {
	f := rec.Fields
	priority := model.Priority(f.String("priority"))
	if priority == "" {
		priority = model.PriorityMedium
	}
	var checklist []model.ChecklistItem
	for _, cf := range f.List("checklist") {
		checklist = append(checklist, model.ChecklistItem{
			ID:        cf.String("id"),
			Title:     cf.String("title"),
			Completed: cf.Bool("completed"),
		})
	}
	return model.Goal{
		Meta:        metaFromRecord(rec),
		CategoryID:  f.String("categoryId"),
		Title:       f.String("title"),
		Description: f.String("description"),
		Priority:    priority,
		Completed:   f.Bool("completed"),
		Checklist:   checklist,
	}
}

func (goalCodec) Encode(g model.Goal) remote.Fields {
	return remote.Fields{
		"categoryId":  g.CategoryID,
		"title":       g.Title,
		"description": g.Description,
		"priority":    string(g.Priority),
		"completed":   g.Completed,
		"checklist":   encodeChecklist(g.Checklist),
	}
}

func (goalCodec) EncodePatch(p GoalPatch) remote.Fields {
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
	if p.Priority != nil {
		fields["priority"] = string(*p.Priority)
	}
	if p.Completed != nil {
		fields["completed"] = *p.Completed
	}
	if p.Checklist != nil {
		fields["checklist"] = encodeChecklist(p.Checklist)
	}
	return fields
}

func (goalCodec) Merge(g model.Goal, p GoalPatch) model.Goal {
	if p.Title != nil {
		g.Title = *p.Title
	}
	if p.Description != nil {
		g.Description = *p.Description
	}
	if p.CategoryID != nil {
		g.CategoryID = *p.CategoryID
	}
	if p.Priority != nil {
		g.Priority = *p.Priority
	}
	if p.Completed != nil {
		g.Completed = *p.Completed
	}
	if p.Checklist != nil {
		g.Checklist = p.Checklist
	}
	return g
}

func (goalCodec) Stamped(g model.Goal, m model.Meta) model.Goal {
	g.Meta = m
	return g
}

func encodeChecklist(items []model.ChecklistItem) []remote.Fields {
	out := make([]remote.Fields, 0, len(items))
	for _, it := range items {
		out = append(out, remote.Fields{
			"id":        it.ID,
			"title":     it.Title,
			"completed": it.Completed,
		})
	}
	return out
}

// GoalStore manages the goal cache.
type GoalStore struct {
	*Collection[model.Goal, GoalPatch]
}

func NewGoalStore(gw remote.Gateway, session auth.Session) *GoalStore {
	return &GoalStore{
		Collection: NewCollection[model.Goal, GoalPatch](gw, session, goalCodec{}),
	}
}

// SetCompleted toggles a goal's completion flag.
func (s *GoalStore) SetCompleted(ctx context.Context, id string, completed bool) error {
	return s.Update(ctx, id, GoalPatch{Completed: &completed})
}

// ByCategory groups the cached goals by category id.
func (s *GoalStore) ByCategory() map[string][]model.Goal {
	grouped := map[string][]model.Goal{}
	for _, g := range s.Items() {
		grouped[g.CategoryID] = append(grouped[g.CategoryID], g)
	}
	return grouped
}
