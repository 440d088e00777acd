// Package pipeline composes the config store, transform graph, processor
// registry and reducer engine into one Environment: the registration and
// query surface the surrounding build layer talks to.
package pipeline

import (
	"fmt"
	"time"

	"github.com/assetforge/forge/internal/bundle"
	"github.com/assetforge/forge/internal/configstore"
	"github.com/assetforge/forge/internal/contenttype"
	"github.com/assetforge/forge/internal/metrics"
	"github.com/assetforge/forge/internal/processor"
	"github.com/assetforge/forge/internal/registry"
	"github.com/assetforge/forge/pkg/assetapi"
)

// Environment owns one config store and everything registered against it.
// Distinct Environments share nothing: each holds its own snapshot chain.
type Environment struct {
	store    *configstore.Store
	graph    *contenttype.Graph
	registry *registry.Registry
	reducers *bundle.Engine
	cache    assetapi.Cache
}

// New creates an empty Environment.
func New() *Environment {
	store := configstore.New()
	return &Environment{
		store:    store,
		graph:    contenttype.NewGraph(store),
		registry: registry.New(store),
		reducers: bundle.NewEngine(store),
	}
}

// Store exposes the underlying config store, mainly for tests and
// introspection.
func (e *Environment) Store() *configstore.Store { return e.store }

// SetCache wires the compiled-output cache the surrounding layer uses.
func (e *Environment) SetCache(c assetapi.Cache) { e.cache = c }

// Cache returns the wired compiled-output cache, or nil.
func (e *Environment) Cache() assetapi.Cache { return e.cache }

// --- Registration API ---

// RegisterTransformer registers a transformation edge from one mime type to
// another. v may be any shape processor.Adapt accepts.
func (e *Environment) RegisterTransformer(from, to string, v interface{}) error {
	p, err := processor.Adapt(v)
	if err != nil {
		return fmt.Errorf("register transformer %s -> %s: %w", from, to, err)
	}
	uri := registry.TransformerURI(from, to, p)
	registry.RecordDependencyURI(e.store, uri, p)
	e.graph.Register(from, to, p)
	metrics.TransformersRegistered.WithLabelValues(from, to).Inc()
	return nil
}

// RegisterPreprocessor registers a processor that runs before any
// transformation for the given mime type.
func (e *Environment) RegisterPreprocessor(mimeType string, v interface{}) error {
	return e.registerProcessor(registry.RolePreprocessor, mimeType, v)
}

// RegisterPostprocessor registers a processor that runs after
// transformation for the given mime type.
func (e *Environment) RegisterPostprocessor(mimeType string, v interface{}) error {
	return e.registerProcessor(registry.RolePostprocessor, mimeType, v)
}

// RegisterBundleProcessor registers a processor that runs over a whole
// concatenated bundle of the given mime type.
func (e *Environment) RegisterBundleProcessor(mimeType string, v interface{}) error {
	return e.registerProcessor(registry.RoleBundleProcessor, mimeType, v)
}

func (e *Environment) registerProcessor(role registry.Role, mimeType string, v interface{}) error {
	p, err := processor.Adapt(v)
	if err != nil {
		return fmt.Errorf("register %s for %s: %w", role, mimeType, err)
	}
	pos := len(e.registry.List(role, mimeType))
	uri := registry.TypeURI(role, mimeType, pos, p)
	registry.RecordDependencyURI(e.store, uri, p)
	e.registry.Register(role, mimeType, p)
	metrics.ProcessorsRegistered.WithLabelValues(string(role), mimeType).Inc()
	return nil
}

// UnregisterPreprocessor removes at most one matching preprocessor; ref may
// be a *Processor, an identity token, or a registered (legacy) name.
func (e *Environment) UnregisterPreprocessor(mimeType string, ref interface{}) {
	e.registry.Unregister(registry.RolePreprocessor, mimeType, ref)
}

// UnregisterPostprocessor removes at most one matching postprocessor.
func (e *Environment) UnregisterPostprocessor(mimeType string, ref interface{}) {
	e.registry.Unregister(registry.RolePostprocessor, mimeType, ref)
}

// UnregisterBundleProcessor removes at most one matching bundle processor.
func (e *Environment) UnregisterBundleProcessor(mimeType string, ref interface{}) {
	e.registry.Unregister(registry.RoleBundleProcessor, mimeType, ref)
}

// RegisterBundleMetadataReducer registers a per-mime-type, per-key bundle
// metadata reducer; see bundle.Engine.Register for the accepted shapes.
func (e *Environment) RegisterBundleMetadataReducer(mimeType, key string, args ...interface{}) error {
	if err := e.reducers.Register(mimeType, key, args...); err != nil {
		return err
	}
	metrics.ReducersRegistered.WithLabelValues(mimeType).Inc()
	return nil
}

// --- Query API ---

// Transformers returns the forward transform edges out of a source type.
func (e *Environment) Transformers(from string) map[string]*processor.Processor {
	return e.graph.Transformers(from)
}

// InvertedTransformers returns the transform edges into a target type.
func (e *Environment) InvertedTransformers(to string) map[string]*processor.Processor {
	return e.graph.InvertedTransformers(to)
}

// TransformSourceTypes lists every registered transform source type.
func (e *Environment) TransformSourceTypes() []string {
	return e.graph.SourceTypes()
}

// Preprocessors returns the ordered preprocessor list for a mime type.
func (e *Environment) Preprocessors(mimeType string) []*processor.Processor {
	return e.registry.List(registry.RolePreprocessor, mimeType)
}

// Postprocessors returns the ordered postprocessor list for a mime type.
func (e *Environment) Postprocessors(mimeType string) []*processor.Processor {
	return e.registry.List(registry.RolePostprocessor, mimeType)
}

// BundleProcessors returns the ordered bundle processor list for a mime type.
func (e *Environment) BundleProcessors(mimeType string) []*processor.Processor {
	return e.registry.List(registry.RoleBundleProcessor, mimeType)
}

// ResolveTransformType picks the best output type for a source type and an
// accept preference list. ok is false when nothing acceptable exists.
func (e *Environment) ResolveTransformType(typ, accept string) (string, bool) {
	resolved, ok := e.graph.ResolveTransformType(typ, accept)
	outcome := "matched"
	if !ok {
		outcome = "no_match"
	}
	metrics.TransformResolutions.WithLabelValues(outcome).Inc()
	return resolved, ok
}

// ExpandTransformAccepts expands a parsed accept list with one-hop
// transformable source types at a fixed quality discount.
func (e *Environment) ExpandTransformAccepts(parsed []contenttype.Accept) []contenttype.Accept {
	return e.graph.ExpandTransformAccepts(parsed)
}

// BundleReducers returns the effective reducer set for a mime type, with
// wildcard defaults merged under specific-type overrides.
func (e *Environment) BundleReducers(mimeType string) map[string]bundle.Reducer {
	return e.reducers.Reducers(mimeType)
}

// ProcessBundleReducers folds the reducer set over the assets in order.
func (e *Environment) ProcessBundleReducers(assets []assetapi.Asset, reducers map[string]bundle.Reducer) (map[string]interface{}, error) {
	start := time.Now()
	out, err := e.reducers.Process(assets, reducers)
	metrics.BundleReductionDuration.Observe(time.Since(start).Seconds())
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	metrics.BundleReductions.WithLabelValues(outcome).Inc()
	return out, err
}

// ResolveProcessorCacheKeyURI returns the cache key of the processor
// registered under the given dependency URI, when its underlying object
// exposes one. This is the only point where processor identity is exposed
// to the external caching layer.
func (e *Environment) ResolveProcessorCacheKeyURI(uri string) (string, bool) {
	return registry.ResolveCacheKeyURI(e.store, uri)
}

// ProcessorDependencyURI returns the dependency URI recorded for a
// registered processor.
func (e *Environment) ProcessorDependencyURI(p *processor.Processor) (string, bool) {
	return registry.URIForProcessor(e.store, p)
}
