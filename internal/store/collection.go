package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"spasta/internal/auth"
	"spasta/internal/model"
	"spasta/internal/remote"
)

// Collection names of the document store.
const (
	categoriesCollection = "categories"
	tasksCollection      = "tasks"
	subTasksCollection   = "subTasks"
	goalsCollection      = "goals"
	notesCollection      = "notes"
	expensesCollection   = "expenses"
	workoutsCollection   = "workouts"
	tradesCollection     = "trades"
)

// Codec translates between a domain entity and its stored field map. One
// codec exists per collection; the generic Collection store does the rest.
type Codec[T model.Entity, P any] interface {
	Collection() string
	Decode(rec remote.Record) T
	Encode(t T) remote.Fields
	EncodePatch(p P) remote.Fields
	Merge(t T, p P) T
	Stamped(t T, m model.Meta) T
}

// Collection is the in-memory system of record for one entity type, kept
// eventually consistent with the remote gateway. Mutations hit the gateway
// first and touch the cache only after the remote call succeeds. Operations
// are not serialized against each other; concurrent calls race and the last
// cache write wins, which a later fetch reconciles.
type Collection[T model.Entity, P any] struct {
	gw      remote.Gateway
	session auth.Session
	codec   Codec[T, P]

	mu      sync.RWMutex
	items   []T
	loading bool
}

func NewCollection[T model.Entity, P any](gw remote.Gateway, session auth.Session, codec Codec[T, P]) *Collection[T, P] {
	return &Collection[T, P]{gw: gw, session: session, codec: codec}
}

// FetchAll replaces the cache with the current user's records. With no
// session it clears the cache and reports success: signed-out is a normal
// state, not an error.
func (c *Collection[T, P]) FetchAll(ctx context.Context) error {
	uid, ok := c.session.CurrentUserID()
	if !ok {
		c.replace(nil)
		return nil
	}
	c.setLoading(true)
	defer c.setLoading(false)

	recs, err := c.gw.QueryByOwner(ctx, c.codec.Collection(), uid)
	if err != nil {
		return remoteErr("query", c.codec.Collection(), err)
	}
	items := make([]T, 0, len(recs))
	for _, rec := range recs {
		items = append(items, c.codec.Decode(rec))
	}
	c.replace(items)
	return nil
}

// Add inserts the draft remotely with server-stamped audit timestamps, then
// appends an optimistic local copy. The local copy carries locally-computed
// timestamps which may trail the server-resolved value by a sub-second
// amount until the next fetch.
func (c *Collection[T, P]) Add(ctx context.Context, draft T) (T, error) {
	var zero T
	uid, ok := c.session.CurrentUserID()
	if !ok {
		return zero, ErrAuthenticationRequired
	}

	fields := c.codec.Encode(draft)
	fields["userId"] = uid
	fields["createdAt"] = remote.ServerTime
	fields["updatedAt"] = remote.ServerTime

	id, err := c.gw.Insert(ctx, c.codec.Collection(), fields)
	if err != nil {
		return zero, remoteErr("insert", c.codec.Collection(), err)
	}

	now := time.Now()
	ent := c.codec.Stamped(draft, model.Meta{ID: id, OwnerID: uid, CreatedAt: now, UpdatedAt: now})
	c.mu.Lock()
	c.items = append(c.items, ent)
	c.mu.Unlock()
	return ent, nil
}

// Update applies a partial patch after re-verifying ownership against the
// freshly fetched remote record, then patches the cached entry in place (a
// no-op when the id is not cached).
func (c *Collection[T, P]) Update(ctx context.Context, id string, patch P) error {
	if _, err := c.guardedFetch(ctx, id); err != nil {
		return err
	}
	fields := c.codec.EncodePatch(patch)
	fields["updatedAt"] = remote.ServerTime
	if err := c.gw.Update(ctx, c.codec.Collection(), id, fields); err != nil {
		return remoteErr("update", c.codec.Collection(), err)
	}
	c.patchCached(id, patch)
	return nil
}

// Delete removes the record after the same guard sequence as Update, then
// filters the id out of the cache.
func (c *Collection[T, P]) Delete(ctx context.Context, id string) error {
	if _, err := c.guardedFetch(ctx, id); err != nil {
		return err
	}
	if err := c.gw.Delete(ctx, c.codec.Collection(), id); err != nil {
		return remoteErr("delete", c.codec.Collection(), err)
	}
	c.removeCached(id)
	return nil
}

// guardedFetch retrieves the current remote record and verifies ownership.
func (c *Collection[T, P]) guardedFetch(ctx context.Context, id string) (remote.Record, error) {
	uid, ok := c.session.CurrentUserID()
	if !ok {
		return remote.Record{}, ErrAuthenticationRequired
	}
	rec, err := c.gw.GetByID(ctx, c.codec.Collection(), id)
	switch {
	case errors.Is(err, remote.ErrNoDocument):
		return remote.Record{}, ErrNotFound
	case err != nil:
		return remote.Record{}, remoteErr("get", c.codec.Collection(), err)
	}
	if err := assertOwned(rec, uid); err != nil {
		return remote.Record{}, err
	}
	return rec, nil
}

// Items returns a snapshot copy of the cache.
func (c *Collection[T, P]) Items() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]T(nil), c.items...)
}

// Get returns the cached entity with the given id.
func (c *Collection[T, P]) Get(id string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, it := range c.items {
		if it.EntityMeta().ID == id {
			return it, true
		}
	}
	var zero T
	return zero, false
}

// Loading reports whether a fetch is in flight.
func (c *Collection[T, P]) Loading() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loading
}

func (c *Collection[T, P]) setLoading(b bool) {
	c.mu.Lock()
	c.loading = b
	c.mu.Unlock()
}

func (c *Collection[T, P]) replace(items []T) {
	c.mu.Lock()
	c.items = items
	c.mu.Unlock()
}

func (c *Collection[T, P]) patchCached(id string, patch P) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, it := range c.items {
		if it.EntityMeta().ID != id {
			continue
		}
		merged := c.codec.Merge(it, patch)
		m := merged.EntityMeta()
		m.UpdatedAt = time.Now()
		c.items[i] = c.codec.Stamped(merged, m)
		return
	}
}

func (c *Collection[T, P]) removeCached(id string) {
	c.prune(func(it T) bool { return it.EntityMeta().ID != id })
}

// prune drops cached entries failing keep. Cascade deletion uses it to
// filter dependents out of sibling caches.
func (c *Collection[T, P]) prune(keep func(T) bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	kept := c.items[:0]
	for _, it := range c.items {
		if keep(it) {
			kept = append(kept, it)
		}
	}
	c.items = kept
}

// metaFromRecord extracts the shared identity fields of a fetched record.
func metaFromRecord(rec remote.Record) model.Meta {
	return model.Meta{
		ID:        rec.ID,
		OwnerID:   rec.OwnerID,
		CreatedAt: rec.Fields.TimeOrNow("createdAt"),
		UpdatedAt: rec.Fields.TimeOrNow("updatedAt"),
	}
}
