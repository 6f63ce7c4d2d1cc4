package model

import "time"

// Meta carries the identity and audit fields shared by every stored
// entity. The owner id scopes all reads and writes to one user.
type Meta struct {
	ID        string
	OwnerID   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// EntityMeta returns the shared identity fields; embedding Meta satisfies
// Entity for free.
func (m Meta) EntityMeta() Meta { return m }

// Entity is anything the cache stores can hold.
type Entity interface {
	EntityMeta() Meta
}
