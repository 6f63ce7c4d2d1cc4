package store

import (
	"context"
	"fmt"

	"spasta/internal/auth"
	"spasta/internal/model"
	"spasta/internal/remote"
)

// CategoryPatch is a partial category update. Nil pointers leave fields
// untouched; a non-nil Flows slice replaces the whole pipeline.
type CategoryPatch struct {
	Name        *string
	Description *string
	Color       *string
	Flows       []model.Flow
}

type categoryCodec struct{}

func (categoryCodec) Collection() string { return categoriesCollection }

func (categoryCodec) Decode(rec remote.Record) model.Category {
	f := rec.Fields
	var flows []model.Flow
	for _, ff := range f.List("flows") {
		flows = append(flows, model.Flow{
			ID:    ff.String("id"),
			Name:  ff.String("name"),
			Order: ff.Int("order"),
		})
	}
	return model.Category{
		Meta:        metaFromRecord(rec),
		Name:        f.String("name"),
		Description: f.String("description"),
		Color:       f.String("color"),
		Flows:       flows,
	}
}

func (categoryCodec) Encode(c model.Category) remote.Fields {
	return remote.Fields{
		"name":        c.Name,
		"description": c.Description,
		"color":       c.Color,
		"flows":       encodeFlows(c.Flows),
	}
}

func (categoryCodec) EncodePatch(p CategoryPatch) remote.Fields {
	fields := remote.Fields{}
	if p.Name != nil {
		fields["name"] = *p.Name
	}
	if p.Description != nil {
		fields["description"] = *p.Description
	}
	if p.Color != nil {
		fields["color"] = *p.Color
	}
	if p.Flows != nil {
		fields["flows"] = encodeFlows(p.Flows)
	}
	return fields
}

func (categoryCodec) Merge(c model.Category, p CategoryPatch) model.Category {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Description != nil {
		c.Description = *p.Description
	}
	if p.Color != nil {
		c.Color = *p.Color
	}
	if p.Flows != nil {
		c.Flows = p.Flows
	}
	return c
}

func (categoryCodec) Stamped(c model.Category, m model.Meta) model.Category {
	c.Meta = m
	return c
}

func encodeFlows(flows []model.Flow) []remote.Fields {
	out := make([]remote.Fields, 0, len(flows))
	for _, f := range flows {
		out = append(out, remote.Fields{"id": f.ID, "name": f.Name, "order": f.Order})
	}
	return out
}

// CategoryStore manages the category cache. Deleting a category cascades to
// its tasks and their subtasks through the coordinator.
type CategoryStore struct {
	*Collection[model.Category, CategoryPatch]
	cascade *Cascader
}

func NewCategoryStore(gw remote.Gateway, session auth.Session) *CategoryStore {
	return &CategoryStore{
		Collection: NewCollection[model.Category, CategoryPatch](gw, session, categoryCodec{}),
	}
}

// Add validates the flow pipeline before inserting.
func (s *CategoryStore) Add(ctx context.Context, draft model.Category) (model.Category, error) {
	if err := draft.ValidateFlows(); err != nil {
		return model.Category{}, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}
	return s.Collection.Add(ctx, draft)
}

// Update validates a replacement pipeline before applying the patch.
func (s *CategoryStore) Update(ctx context.Context, id string, patch CategoryPatch) error {
	if patch.Flows != nil {
		probe := model.Category{Flows: patch.Flows}
		if err := probe.ValidateFlows(); err != nil {
			return fmt.Errorf("%w: %v", ErrValidationFailed, err)
		}
	}
	return s.Collection.Update(ctx, id, patch)
}

// Delete removes the category and every task under it, subtasks included.
func (s *CategoryStore) Delete(ctx context.Context, id string) error {
	return s.cascade.DeleteCategory(ctx, id)
}
