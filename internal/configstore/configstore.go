// Package configstore holds the pipeline's registration state as an
// immutable, versioned snapshot. Every registration produces a new snapshot
// and atomically replaces the current one, so readers never need a lock and
// a snapshot handed out once never changes underneath its holder.
package configstore

import "sync/atomic"

// Snapshot maps a section name (e.g. "transformers", "preprocessors") to
// that section's key/value mapping. A Snapshot is immutable once published;
// treat everything reachable from it as read-only.
type Snapshot map[string]map[string]interface{}

// Section returns the named section, or nil if it was never written.
func (s Snapshot) Section(name string) map[string]interface{} {
	return s[name]
}

// Get returns the value stored at section/key, or nil.
func (s Snapshot) Get(section, key string) interface{} {
	return s[section][key]
}

// Store is the single shared mutable cell: a reference to the current
// Snapshot. Reads are lock-free; writers are expected to be serialized by
// the caller (registration happens in single-writer setup phases).
type Store struct {
	current atomic.Value // Snapshot
}

// New creates a Store holding an empty snapshot.
func New() *Store {
	s := &Store{}
	s.current.Store(Snapshot{})
	return s
}

// Snapshot returns the current snapshot. The returned value stays valid and
// unchanged even while later updates replace the store's current snapshot.
func (s *Store) Snapshot() Snapshot {
	return s.current.Load().(Snapshot)
}

// Section returns the named section of the current snapshot.
func (s *Store) Section(name string) map[string]interface{} {
	return s.Snapshot().Section(name)
}

// Get returns the value at section/key in the current snapshot.
func (s *Store) Get(section, key string) interface{} {
	return s.Snapshot().Get(section, key)
}

// Update applies fn to the value at section/key (nil if absent) and
// publishes a new snapshot identical to the current one except for that
// single path. The prior snapshot and all of its sections are left intact.
// fn must return a fresh value rather than mutating the old one.
func (s *Store) Update(section, key string, fn func(old interface{}) interface{}) {
	old := s.Snapshot()

	next := make(Snapshot, len(old)+1)
	for name, sec := range old {
		next[name] = sec
	}

	sec := make(map[string]interface{}, len(old[section])+1)
	for k, v := range old[section] {
		sec[k] = v
	}
	sec[key] = fn(sec[key])
	next[section] = sec

	s.current.Store(next)
}
