// Package registry interns opaque namespaced names (block and biome names)
// to small, stable integer IDs and back, the way original_source's
// biome_registry.rs keeps a single mutex-guarded Registry{biomes, ids} per
// namespace instead of scattering well-known handles across the codebase.
package registry

import (
	"fmt"
	"sync"
)

// ID is the small integer handle a name interns to.
type ID uint16

// ErrOutOfRange is returned by Name when asked for an ID beyond the
// registry's current size.
type ErrOutOfRange struct {
	ID   ID
	Size int
}

func (e *ErrOutOfRange) Error() string {
	return fmt.Sprintf("registry: id %d out of range (size %d)", e.ID, e.Size)
}

// Table is a bidirectional name<->ID namespace. Insertions are linearized
// under mu so concurrent Intern callers never observe two different IDs for
// the same name.
type Table struct {
	mu    sync.Mutex
	names []string
	byID  map[string]ID
}

// New creates a Table with wellKnown names pre-registered in the given
// order, so their IDs are stable across process runs.
func New(wellKnown ...string) *Table {
	t := &Table{
		byID: make(map[string]ID, len(wellKnown)),
	}
	for _, name := range wellKnown {
		t.Intern(name)
	}
	return t
}

// Intern returns the existing ID for name, or assigns and returns the next
// sequential ID.
func (t *Table) Intern(name string) ID {
	t.mu.Lock()
	defer t.mu.Unlock()
	if id, ok := t.byID[name]; ok {
		return id
	}
	id := ID(len(t.names))
	t.names = append(t.names, name)
	t.byID[name] = id
	return id
}

// Name returns the name for a previously interned id.
func (t *Table) Name(id ID) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if int(id) >= len(t.names) {
		return "", &ErrOutOfRange{ID: id, Size: len(t.names)}
	}
	return t.names[id], nil
}

// ID looks up the ID already assigned to name, reporting whether it exists.
func (t *Table) ID(name string) (ID, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	id, ok := t.byID[name]
	return id, ok
}

// Len reports how many names are currently registered.
func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.names)
}
