// Package testutil provides deterministic stand-ins for the
// generators production code pulls from the environment.
package testutil

import (
	"fmt"
	"sync"
)

// FixedRunIDGenerator returns the same run ID on every call.
//
// Recording the same logical run always produces the same row, which
// is what the store's idempotent-write tests need.
//
// Thread-safety: stateless after construction, safe for concurrent use.
type FixedRunIDGenerator struct {
	id string
}

// NewFixedRunIDGenerator creates a generator pinned to id. An empty id
// falls back to a recognizable placeholder.
func NewFixedRunIDGenerator(id string) *FixedRunIDGenerator {
	if id == "" {
		id = "run-00000000-0000-0000-0000-000000000000"
	}
	return &FixedRunIDGenerator{id: id}
}

// NewRunID implements report.RunIDGenerator.
func (g *FixedRunIDGenerator) NewRunID() string {
	return g.id
}

// SequentialRunIDGenerator returns "<prefix>-0001", "<prefix>-0002",
// and so on. Unlike FixedRunIDGenerator, every call yields a distinct
// ID, so tests can record several runs into one store and still know
// each ID in advance.
//
// Thread-safety: safe for concurrent use via internal mutex.
type SequentialRunIDGenerator struct {
	mu     sync.Mutex
	prefix string
	n      int
}

// NewSequentialRunIDGenerator creates a generator with the given
// prefix. An empty prefix falls back to "run".
func NewSequentialRunIDGenerator(prefix string) *SequentialRunIDGenerator {
	if prefix == "" {
		prefix = "run"
	}
	return &SequentialRunIDGenerator{prefix: prefix}
}

// NewRunID implements report.RunIDGenerator.
func (g *SequentialRunIDGenerator) NewRunID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("%s-%04d", g.prefix, g.n)
}
