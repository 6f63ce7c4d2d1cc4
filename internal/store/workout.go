package store

import (
	"time"

	"spasta/internal/auth"
	"spasta/internal/model"
	"spasta/internal/remote"
)

// WorkoutPatch is a partial workout update. A non-nil Exercises slice
// replaces the stored list.
type WorkoutPatch struct {
	Name      *string
	Date      *time.Time
	Type      *string
	Duration  *int
	Notes     *string
	Exercises []model.Exercise
}

type workoutCodec struct{}

func (workoutCodec) Collection() string { return workoutsCollection }

func (workoutCodec) Decode(rec remote.Record) model.Workout {
	f := rec.Fields
	var exercises []model.Exercise
	for _, ef := range f.List("exercises") {
		exercises = append(exercises, model.Exercise{
			Name:     ef.String("name"),
			Sets:     ef.Int("sets"),
			Reps:     ef.Int("reps"),
			Weight:   ef.Float("weight"),
			Duration: ef.Int("duration"),
		})
	}
	return model.Workout{
		Meta:      metaFromRecord(rec),
		Name:      f.String("name"),
		Date:      f.TimeOrNow("date"),
		Type:      f.String("type"),
		Duration:  f.Int("duration"),
		Exercises: exercises,
		Notes:     f.String("notes"),
	}
}

func (workoutCodec) Encode(w model.Workout) remote.Fields {
	return remote.Fields{
		"name":      w.Name,
		"date":      remote.FromTime(w.Date),
		"type":      w.Type,
		"duration":  w.Duration,
		"exercises": encodeExercises(w.Exercises),
		"notes":     w.Notes,
	}
}

func (workoutCodec) EncodePatch(p WorkoutPatch) remote.Fields {
	fields := remote.Fields{}
	if p.Name != nil {
		fields["name"] = *p.Name
	}
	if p.Date != nil {
		fields["date"] = remote.FromTime(*p.Date)
	}
	if p.Type != nil {
		fields["type"] = *p.Type
	}
	if p.Duration != nil {
		fields["duration"] = *p.Duration
	}
	if p.Notes != nil {
		fields["notes"] = *p.Notes
	}
	if p.Exercises != nil {
		fields["exercises"] = encodeExercises(p.Exercises)
	}
	return fields
}

func (workoutCodec) Merge(w model.Workout, p WorkoutPatch) model.Workout {
	if p.Name != nil {
		w.Name = *p.Name
	}
	if p.Date != nil {
		w.Date = *p.Date
	}
	if p.Type != nil {
		w.Type = *p.Type
	}
	if p.Duration != nil {
		w.Duration = *p.Duration
	}
	if p.Notes != nil {
		w.Notes = *p.Notes
	}
	if p.Exercises != nil {
		w.Exercises = p.Exercises
	}
	return w
}

func (workoutCodec) Stamped(w model.Workout, m model.Meta) model.Workout {
	w.Meta = m
	return w
}

func encodeExercises(exercises []model.Exercise) []remote.Fields {
	out := make([]remote.Fields, 0, len(exercises))
	for _, e := range exercises {
		out = append(out, remote.Fields{
			"name":     e.Name,
			"sets":     e.Sets,
			"reps":     e.Reps,
			"weight":   e.Weight,
			"duration": e.Duration,
		})
	}
	return out
}

// WorkoutStore manages the workout cache.
type WorkoutStore = Collection[model.Workout, WorkoutPatch]

func NewWorkoutStore(gw remote.Gateway, session auth.Session) *WorkoutStore {
	return NewCollection[model.Workout, WorkoutPatch](gw, session, workoutCodec{})
}
