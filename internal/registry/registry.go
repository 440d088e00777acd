// Package registry manages the ordered per-mime-type processor lists
// (preprocessors, postprocessors, bundle processors) and the bidirectional
// dependency URI mappings the external caching layer keys off.
package registry

import (
	"github.com/assetforge/forge/internal/configstore"
	"github.com/assetforge/forge/internal/processor"
)

// Role names a processor list. The value doubles as the config store
// section the list lives in.
type Role string

const (
	RolePreprocessor    Role = "preprocessors"
	RolePostprocessor   Role = "postprocessors"
	RoleBundleProcessor Role = "bundle_processors"
)

// Registry holds the ordered processor lists. Lists are LIFO: the newest
// registration runs first.
type Registry struct {
	store *configstore.Store
}

// New creates a Registry backed by the given store.
func New(store *configstore.Store) *Registry {
	return &Registry{store: store}
}

// List returns the ordered processor list for role/mimeType. The returned
// slice is read-only.
func (r *Registry) List(role Role, mimeType string) []*processor.Processor {
	if v := r.store.Get(string(role), mimeType); v != nil {
		return v.([]*processor.Processor)
	}
	return nil
}

// Register prepends p to the list for role/mimeType and returns the
// position ordinal the processor was registered at (the list length before
// insertion) for dependency URI derivation.
func (r *Registry) Register(role Role, mimeType string, p *processor.Processor) int {
	pos := len(r.List(role, mimeType))
	r.store.Update(string(role), mimeType, func(old interface{}) interface{} {
		var prev []*processor.Processor
		if old != nil {
			prev = old.([]*processor.Processor)
		}
		next := make([]*processor.Processor, 0, len(prev)+1)
		next = append(next, p)
		next = append(next, prev...)
		return next
	})
	return pos
}

// Unregister removes at most one entry from the list for role/mimeType.
// ref may be a *Processor (matched by identity), a processor identity
// token, or a string matched against display names — directly or as the
// identifier embedded in a wrapped legacy processor's synthesized name.
// Removing an absent entry is a no-op.
func (r *Registry) Unregister(role Role, mimeType string, ref interface{}) {
	r.store.Update(string(role), mimeType, func(old interface{}) interface{} {
		if old == nil {
			return []*processor.Processor(nil)
		}
		prev := old.([]*processor.Processor)
		for i, p := range prev {
			if !matches(p, ref) {
				continue
			}
			next := make([]*processor.Processor, 0, len(prev)-1)
			next = append(next, prev[:i]...)
			next = append(next, prev[i+1:]...)
			return next
		}
		return prev
	})
}

func matches(p *processor.Processor, ref interface{}) bool {
	switch t := ref.(type) {
	case *processor.Processor:
		return p == t
	case string:
		return p.Name() == t || p.Name() == processor.LegacyName(t) || p.ID() == t
	default:
		return false
	}
}
