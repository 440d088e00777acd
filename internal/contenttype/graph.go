// Package contenttype maintains the bidirectional mime-type transform graph
// and performs content negotiation over it: picking the best output type for
// an accept preference list and expanding accept lists with types reachable
// through one transformation hop.
package contenttype

import (
	"sort"

	"github.com/assetforge/forge/internal/configstore"
	"github.com/assetforge/forge/internal/processor"
)

// Config store sections owned by this package.
const (
	SectionTransformers = "transformers"
	SectionInverted     = "inverted_transformers"
)

// Graph is the transform graph: a forward map (source type -> target type
// -> transformer) and its inverse, kept in sync on every registration.
type Graph struct {
	store *configstore.Store
}

// NewGraph creates a Graph backed by the given store.
func NewGraph(store *configstore.Store) *Graph {
	return &Graph{store: store}
}

// Register adds the directed edge from -> to. Both the forward and inverse
// mappings are updated, referencing the same processor instance; a prior
// edge for the same pair is overwritten.
func (g *Graph) Register(from, to string, p *processor.Processor) {
	g.store.Update(SectionTransformers, from, func(old interface{}) interface{} {
		m := copyEdges(old)
		m[to] = p
		return m
	})
	g.store.Update(SectionInverted, to, func(old interface{}) interface{} {
		m := copyEdges(old)
		m[from] = p
		return m
	})
}

// Transformers returns the forward edges out of the given source type.
// The returned map is read-only.
func (g *Graph) Transformers(from string) map[string]*processor.Processor {
	return edges(g.store.Get(SectionTransformers, from))
}

// InvertedTransformers returns the inverse edges into the given target
// type: every source type that can be transformed to it.
func (g *Graph) InvertedTransformers(to string) map[string]*processor.Processor {
	return edges(g.store.Get(SectionInverted, to))
}

// SourceTypes returns every source type with at least one outgoing edge,
// sorted for deterministic iteration.
func (g *Graph) SourceTypes() []string {
	sec := g.store.Section(SectionTransformers)
	types := make([]string, 0, len(sec))
	for t := range sec {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

func edges(v interface{}) map[string]*processor.Processor {
	if v == nil {
		return nil
	}
	return v.(map[string]*processor.Processor)
}

func copyEdges(old interface{}) map[string]*processor.Processor {
	prev := edges(old)
	m := make(map[string]*processor.Processor, len(prev)+1)
	for k, v := range prev {
		m[k] = v
	}
	return m
}

// sortedKeys returns the map's keys in sorted order. Edge maps have no
// registration-order memory, so sorted order is the deterministic ordering
// used wherever edge sets are enumerated.
func sortedKeys(m map[string]*processor.Processor) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
