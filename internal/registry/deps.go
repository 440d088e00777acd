package registry

import (
	"fmt"
	"net/url"

	"github.com/assetforge/forge/internal/configstore"
	"github.com/assetforge/forge/internal/processor"
)

// Config store sections for the bidirectional URI mappings. The inverse
// side is keyed by processor identity token rather than the processor
// itself, so both sides live in plain string-keyed sections.
const (
	SectionDependencyURIs = "processor_dependency_uris"
	SectionURIIndex       = "processor_uri_index"
)

// TransformerURI derives the canonical dependency URI for a transformer
// registration.
func TransformerURI(from, to string, p *processor.Processor) string {
	return fmt.Sprintf("processor:transformer?from=%s&to=%s&id=%s",
		url.QueryEscape(from), url.QueryEscape(to), p.ID())
}

// TypeURI derives the canonical dependency URI for a processor registered
// against a mime type at a given position ordinal.
func TypeURI(role Role, mimeType string, pos int, p *processor.Processor) string {
	return fmt.Sprintf("processor:%s?type=%s&pos=%d&id=%s",
		role, url.QueryEscape(mimeType), pos, p.ID())
}

// RecordDependencyURI records uri -> processor and processor -> uri.
func RecordDependencyURI(store *configstore.Store, uri string, p *processor.Processor) {
	store.Update(SectionDependencyURIs, uri, func(interface{}) interface{} { return p })
	store.Update(SectionURIIndex, p.ID(), func(interface{}) interface{} { return uri })
}

// ProcessorForURI looks up the processor registered under uri.
func ProcessorForURI(store *configstore.Store, uri string) (*processor.Processor, bool) {
	if v := store.Get(SectionDependencyURIs, uri); v != nil {
		return v.(*processor.Processor), true
	}
	return nil, false
}

// URIForProcessor looks up the dependency URI recorded for p.
func URIForProcessor(store *configstore.Store, p *processor.Processor) (string, bool) {
	if v := store.Get(SectionURIIndex, p.ID()); v != nil {
		return v.(string), true
	}
	return "", false
}

// ResolveCacheKeyURI returns the cache key of the processor registered
// under uri, if the underlying object exposes one. An unknown URI or a
// processor without a cache key yields an absent result, never an error.
func ResolveCacheKeyURI(store *configstore.Store, uri string) (string, bool) {
	p, ok := ProcessorForURI(store, uri)
	if !ok {
		return "", false
	}
	return processor.CacheKey(p)
}
