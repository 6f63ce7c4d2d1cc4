package remote

import (
	"encoding/json"
	"time"
)

// serverStamp marks a field the gateway must resolve with its own clock at
// write time. Reads never observe the marker; it is replaced before the
// document is stored.
type serverStamp struct{}

// ServerTime is the marker value for server-authoritative timestamps
// (createdAt, updatedAt, completedDate on flow completion).
var ServerTime = serverStamp{}

// timePair is the persisted encoding of a concrete timestamp: epoch seconds
// plus nanoseconds, matching the wire shape of the document store.
type timePair struct {
	Seconds     int64 `json:"seconds"`
	Nanoseconds int64 `json:"nanoseconds"`
}

// FromTime encodes a user-supplied timestamp (due dates, start dates, entry
// dates) for storage.
func FromTime(t time.Time) any {
	return timePair{Seconds: t.Unix(), Nanoseconds: int64(t.Nanosecond())}
}

// ToLocal normalizes any remote timestamp shape to a local time.Time.
// Recognized shapes are concrete time.Time values, seconds/nanoseconds
// pairs (typed or JSON-decoded maps) and ISO-8601 strings. Anything else,
// including nil, falls back to the current time so one malformed record
// never blocks a fetch.
func ToLocal(v any) time.Time {
	switch tv := v.(type) {
	case time.Time:
		return tv
	case timePair:
		return time.Unix(tv.Seconds, tv.Nanoseconds)
	case map[string]any:
		if sec, ok := asInt64(tv["seconds"]); ok {
			nsec, _ := asInt64(tv["nanoseconds"])
			return time.Unix(sec, nsec)
		}
	case string:
		if t, err := time.Parse(time.RFC3339Nano, tv); err == nil {
			return t
		}
	}
	return time.Now()
}

func asInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case float64:
		return int64(n), true
	case json.Number:
		i, err := n.Int64()
		return i, err == nil
	}
	return 0, false
}
