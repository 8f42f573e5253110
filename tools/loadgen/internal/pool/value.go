package pool

import "time"

// Kind names the semantic role of a pooled value. Scenarios publish the
// identifiers they create under a kind and later draw random values of the
// same kind, so traffic keeps referencing entities that actually exist on
// the server under test.
type Kind string

const (
	// KindSession holds authenticated sessions (bearer token plus the id
	// of the user it belongs to).
	KindSession Kind = "auth.session"
	// KindUser holds user ids.
	KindUser Kind = "entity.user.id"
	// KindProject holds project references together with an owner session.
	KindProject Kind = "entity.project.id"
	// KindTask holds task references together with a session allowed to
	// touch them.
	KindTask Kind = "entity.task.id"
	// KindTeam holds team references.
	KindTeam Kind = "entity.team.id"
	// KindTag holds tag ids.
	KindTag Kind = "entity.tag.id"
	// KindTimeLog holds time log ids.
	KindTimeLog Kind = "entity.timelog.id"
	// KindEmail holds registered login emails.
	KindEmail Kind = "auth.email"
)

// Value is a single pooled parameter with its bookkeeping.
type Value struct {
	Data      any
	Kind      Kind
	CreatedAt time.Time
	ExpiresAt time.Time // zero means the value never expires
}

// Expired reports whether the value has outlived its TTL at the given
// instant.
func (v Value) Expired(now time.Time) bool {
	return !v.ExpiresAt.IsZero() && now.After(v.ExpiresAt)
}
