// Package assetapi defines the contracts between the forge processing core
// and its collaborators: assets flowing through a build, the uniform
// processor calling convention, template engines, and compiled-output caches.
// The core only ever depends on these interfaces; concrete implementations
// live with the surrounding build layer.
package assetapi

import "context"

// MimeWildcard matches every mime type. Registrations under it act as
// defaults that specific-type registrations override.
const MimeWildcard = "*/*"

// Asset is a single file participating in a build. Source returns the raw
// (or compiled) content; Metadata returns the per-asset metadata collected
// while processing it.
type Asset interface {
	Source() []byte
	Metadata() map[string]interface{}
}

// Input is the uniform calling convention for processors. It carries the
// deferred content plus the context the surrounding layer collected for
// the asset being processed.
type Input struct {
	// Name is the logical asset name (e.g. "application").
	Name string
	// ContentType is the mime type of Data.
	ContentType string
	// LoadPath is the root the asset was resolved against, if any.
	LoadPath string
	// Data is the content being processed.
	Data []byte
	// Metadata accumulates per-asset metadata across the processor chain.
	Metadata map[string]interface{}
	// Cache is the compiled-output cache wired by the surrounding layer.
	// May be nil; processors must treat it as optional.
	Cache Cache
}

// Result is what a processor hands back: replacement content and any
// metadata to merge into the asset's metadata.
type Result struct {
	Data     []byte
	Metadata map[string]interface{}
}

// CacheKeyer is optionally implemented by objects wrapped into processors
// (typically template engines). The key participates in external cache-key
// composition; the core never computes or stores cache keys itself.
type CacheKeyer interface {
	CacheKey() string
}

// Engine is a template/compiler engine adapted into a processor. Render is
// the engine's native entry point; the adapter presents it through the
// uniform Input/Result convention.
type Engine interface {
	Name() string
	Render(ctx context.Context, input *Input) (*Result, error)
}

// Cache stores compiled output keyed by the surrounding layer's composed
// cache keys. Get reports a miss with ok == false rather than an error.
type Cache interface {
	Get(key string) (value []byte, ok bool)
	Set(key string, value []byte) error
	Close() error
}
