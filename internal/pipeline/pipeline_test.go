package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/assetforge/forge/internal/contenttype"
	"github.com/assetforge/forge/internal/processor"
	"github.com/assetforge/forge/pkg/assetapi"
)

func identity(name string) *processor.Processor {
	return processor.NewFunc(name, func(ctx context.Context, input *assetapi.Input) (*assetapi.Result, error) {
		return &assetapi.Result{Data: input.Data}, nil
	})
}

type fakeAsset struct {
	source   string
	metadata map[string]interface{}
}

func (a *fakeAsset) Source() []byte                   { return []byte(a.source) }
func (a *fakeAsset) Metadata() map[string]interface{} { return a.metadata }

type versionedEngine struct{ version string }

func (e *versionedEngine) Name() string { return "versioned" }
func (e *versionedEngine) Render(ctx context.Context, input *assetapi.Input) (*assetapi.Result, error) {
	return &assetapi.Result{Data: input.Data}, nil
}
func (e *versionedEngine) CacheKey() string { return e.version }

func TestRegisterTransformerRecordsEverything(t *testing.T) {
	env := New()
	p := identity("coffee")

	require.NoError(t, env.RegisterTransformer("text/coffeescript", "application/javascript", p))

	assert.Same(t, p, env.Transformers("text/coffeescript")["application/javascript"])
	assert.Same(t, p, env.InvertedTransformers("application/javascript")["text/coffeescript"])

	uri, ok := env.ProcessorDependencyURI(p)
	require.True(t, ok)
	assert.Contains(t, uri, "transformer")
}

func TestProcessorRegistrationOrderAndUnregister(t *testing.T) {
	env := New()
	p1 := identity("p1")
	p2 := identity("p2")

	require.NoError(t, env.RegisterPreprocessor("text/css", p1))
	require.NoError(t, env.RegisterPreprocessor("text/css", p2))

	list := env.Preprocessors("text/css")
	require.Len(t, list, 2)
	assert.Same(t, p2, list[0])
	assert.Same(t, p1, list[1])

	env.UnregisterPreprocessor("text/css", p2)
	list = env.Preprocessors("text/css")
	require.Len(t, list, 1)
	assert.Same(t, p1, list[0])

	// Unregistering something absent changes nothing.
	env.UnregisterPreprocessor("text/css", "ghost")
	assert.Len(t, env.Preprocessors("text/css"), 1)
}

func TestRegisterAdaptsRawShapes(t *testing.T) {
	env := New()

	err := env.RegisterPostprocessor("application/javascript",
		func(ctx context.Context, input *assetapi.Input) (*assetapi.Result, error) {
			return &assetapi.Result{Data: input.Data}, nil
		})
	require.NoError(t, err)
	require.Len(t, env.Postprocessors("application/javascript"), 1)

	err = env.RegisterBundleProcessor("text/css", 42)
	assert.Error(t, err)
}

func TestResolveAndExpandThroughEnvironment(t *testing.T) {
	env := New()
	require.NoError(t, env.RegisterTransformer("text/coffeescript", "application/javascript", identity("coffee")))

	resolved, ok := env.ResolveTransformType("text/coffeescript", "application/javascript")
	require.True(t, ok)
	assert.Equal(t, "application/javascript", resolved)

	_, ok = env.ResolveTransformType("text/css", "image/png")
	assert.False(t, ok)

	expanded := env.ExpandTransformAccepts([]contenttype.Accept{{Type: "application/javascript", Quality: 1.0}})
	require.Len(t, expanded, 2)
	assert.Equal(t, "text/coffeescript", expanded[1].Type)
}

func TestEnvironmentsAreIsolated(t *testing.T) {
	a := New()
	b := New()

	require.NoError(t, a.RegisterTransformer("text/scss", "text/css", identity("scss")))

	assert.NotEmpty(t, a.Transformers("text/scss"))
	assert.Empty(t, b.Transformers("text/scss"))
}

func TestBundleReducersThroughEnvironment(t *testing.T) {
	env := New()
	require.NoError(t, env.RegisterBundleMetadataReducer(assetapi.MimeWildcard, "count", 0, "+"))
	require.NoError(t, env.RegisterBundleMetadataReducer("text/css", "count", 100, "+"))

	reducers := env.BundleReducers("text/css")
	require.Len(t, reducers, 1)
	assert.Equal(t, 100, reducers["count"].Initial)

	out, err := env.ProcessBundleReducers([]assetapi.Asset{
		&fakeAsset{metadata: map[string]interface{}{"count": 2}},
		&fakeAsset{metadata: map[string]interface{}{"count": 3}},
	}, reducers)
	require.NoError(t, err)
	assert.Equal(t, 105, out["count"])

	err = env.RegisterBundleMetadataReducer("text/css", "bad", 1, "+", "+")
	assert.Error(t, err)
}

func TestResolveProcessorCacheKeyURI(t *testing.T) {
	env := New()
	engine := &versionedEngine{version: "v7"}
	p := processor.NewEngine(engine)
	require.NoError(t, env.RegisterPreprocessor("text/css", p))

	uri, ok := env.ProcessorDependencyURI(p)
	require.True(t, ok)

	key, ok := env.ResolveProcessorCacheKeyURI(uri)
	require.True(t, ok)
	assert.Equal(t, "v7", key)

	_, ok = env.ResolveProcessorCacheKeyURI("processor:preprocessors?type=unknown")
	assert.False(t, ok)
}

func TestSetCache(t *testing.T) {
	env := New()
	assert.Nil(t, env.Cache())
}
