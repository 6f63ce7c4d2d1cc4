package store

import "spasta/internal/remote"

// assertOwned rejects mutations on records the current user does not own.
// It always runs against a record freshly fetched from the gateway, never a
// cached copy, so a concurrent ownership change or deletion surfaces as a
// failure here instead of silently succeeding against stale state.
func assertOwned(rec remote.Record, userID string) error {
	if userID == "" || rec.OwnerID != userID {
		return ErrUnauthorized
	}
	return nil
}
