package store

import (
	"spasta/internal/auth"
	"spasta/internal/model"
	"spasta/internal/remote"
)

// NotePatch is a partial note update. Non-nil slices replace the stored
// sequences.
type NotePatch struct {
	Title      *string
	Content    *string
	CategoryID *string
	Remarks    *string
	Tags       []string
	Keywords   []string
	Tasks      []model.NoteTask
}

type noteCodec struct{}

func (noteCodec) Collection() string { return notesCollection }

func (noteCodec) Decode(rec remote.Record) model.Note {
	f := rec.Fields
	var tasks []model.NoteTask
	for _, tf := range f.List("tasks") {
		tasks = append(tasks, model.NoteTask{
			ID:        tf.String("id"),
			Title:     tf.String("title"),
			Completed: tf.Bool("completed"),
		})
	}
	return model.Note{
		Meta:       metaFromRecord(rec),
		Title:      f.String("title"),
		Content:    f.String("content"),
		CategoryID: f.String("categoryId"),
		Tags:       f.Strings("tags"),
		Keywords:   f.Strings("keywords"),
		Remarks:    f.String("remarks"),
		Tasks:      tasks,
	}
}

func (noteCodec) Encode(n model.Note) remote.Fields {
	return remote.Fields{
		"title":      n.Title,
		"content":    n.Content,
		"categoryId": n.CategoryID,
		"tags":       n.Tags,
		"keywords":   n.Keywords,
		"remarks":    n.Remarks,
		"tasks":      encodeNoteTasks(n.Tasks),
	}
}

func (noteCodec) EncodePatch(p NotePatch) remote.Fields {
	fields := remote.Fields{}
	if p.Title != nil {
		fields["title"] = *p.Title
	}
	if p.Content != nil {
		fields["content"] = *p.Content
	}
	if p.CategoryID != nil {
		fields["categoryId"] = *p.CategoryID
	}
	if p.Remarks != nil {
		fields["remarks"] = *p.Remarks
	}
	if p.Tags != nil {
		fields["tags"] = p.Tags
	}
	if p.Keywords != nil {
		fields["keywords"] = p.Keywords
	}
	if p.Tasks != nil {
		fields["tasks"] = encodeNoteTasks(p.Tasks)
	}
	return fields
}

func (noteCodec) Merge(n model.Note, p NotePatch) model.Note {
	if p.Title != nil {
		n.Title = *p.Title
	}
	if p.Content != nil {
		n.Content = *p.Content
	}
	if p.CategoryID != nil {
		n.CategoryID = *p.CategoryID
	}
	if p.Remarks != nil {
		n.Remarks = *p.Remarks
	}
	if p.Tags != nil {
		n.Tags = p.Tags
	}
	if p.Keywords != nil {
		n.Keywords = p.Keywords
	}
	if p.Tasks != nil {
		n.Tasks = p.Tasks
	}
	return n
}

func (noteCodec) Stamped(n model.Note, m model.Meta) model.Note {
	n.Meta = m
	return n
}

func encodeNoteTasks(tasks []model.NoteTask) []remote.Fields {
	out := make([]remote.Fields, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, remote.Fields{
			"id":        t.ID,
			"title":     t.Title,
			"completed": t.Completed,
		})
	}
	return out
}

// NoteStore manages the note cache.
type NoteStore = Collection[model.Note, NotePatch]

func NewNoteStore(gw remote.Gateway, session auth.Session) *NoteStore {
	return NewCollection[model.Note, NotePatch](gw, session, noteCodec{})
}
