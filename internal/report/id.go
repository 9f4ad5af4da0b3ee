package report

import "github.com/google/uuid"

// RunIDGenerator produces run identifiers. Production uses
// UUIDv7Generator; tests substitute a fixed generator so golden
// fixtures stay byte-identical.
type RunIDGenerator interface {
	NewRunID() string
}

// UUIDv7Generator issues time-ordered UUIDs, so stored run history
// sorts by creation time even when several processes share a database.
//
// Thread-safety: stateless and safe for concurrent use.
type UUIDv7Generator struct{}

// NewRunID returns a fresh UUIDv7 string.
func (UUIDv7Generator) NewRunID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// NewV7 fails only if the entropy source does; fall back to v4
		// rather than aborting a finished run's bookkeeping.
		return uuid.New().String()
	}
	return id.String()
}
