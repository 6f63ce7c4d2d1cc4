package remote

import (
	"context"
	"errors"
	"time"
)

// ErrNoDocument reports a lookup for an id that does not exist in the
// collection.
var ErrNoDocument = errors.New("document not found")

// Fields is the flat field map of one stored document.
type Fields map[string]any

// Record is one stored document with its owner denormalized out of the
// field map for guard checks.
type Record struct {
	ID      string
	OwnerID string
	Fields  Fields
}

// Gateway is the remote document store the cache stores synchronize
// against. Every operation is scoped to a named collection; BatchDelete is
// atomic as a set. Implementations resolve ServerTime markers on writes.
type Gateway interface {
	QueryByOwner(ctx context.Context, collection, ownerID string) ([]Record, error)
	QueryByOwnerAndField(ctx context.Context, collection, ownerID, field string, value any) ([]Record, error)
	GetByID(ctx context.Context, collection, id string) (Record, error)
	Insert(ctx context.Context, collection string, fields Fields) (string, error)
	Update(ctx context.Context, collection, id string, fields Fields) error
	Delete(ctx context.Context, collection, id string) error
	BatchDelete(ctx context.Context, collection string, ids []string) error
}

// Accessors below tolerate the loose typing of JSON-decoded field maps:
// numbers come back as float64, lists as []any.

func (f Fields) String(key string) string {
	s, _ := f[key].(string)
	return s
}

func (f Fields) Int(key string) int {
	n, _ := asInt64(f[key])
	return int(n)
}

func (f Fields) Float(key string) float64 {
	switch n := f[key].(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	}
	return 0
}

func (f Fields) Bool(key string) bool {
	b, _ := f[key].(bool)
	return b
}

func (f Fields) Strings(key string) []string {
	switch v := f[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// List returns the nested documents stored under key.
func (f Fields) List(key string) []Fields {
	switch v := f[key].(type) {
	case []Fields:
		return v
	case []any:
		out := make([]Fields, 0, len(v))
		for _, e := range v {
			if m, ok := e.(map[string]any); ok {
				out = append(out, Fields(m))
			}
		}
		return out
	}
	return nil
}

// Time returns the normalized timestamp under key, or nil when the field is
// absent or null.
func (f Fields) Time(key string) *time.Time {
	v, ok := f[key]
	if !ok || v == nil {
		return nil
	}
	t := ToLocal(v)
	return &t
}

// TimeOrNow normalizes the timestamp under key, falling back to now for
// absent or unrecognized values.
func (f Fields) TimeOrNow(key string) time.Time {
	return ToLocal(f[key])
}
