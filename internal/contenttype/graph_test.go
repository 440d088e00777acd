package contenttype

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/assetforge/forge/internal/configstore"
	"github.com/assetforge/forge/internal/processor"
	"github.com/assetforge/forge/pkg/assetapi"
)

func noopProcessor(name string) *processor.Processor {
	return processor.NewFunc(name, func(ctx context.Context, input *assetapi.Input) (*assetapi.Result, error) {
		return &assetapi.Result{Data: input.Data}, nil
	})
}

func TestRegisterKeepsForwardAndInverseInSync(t *testing.T) {
	g := NewGraph(configstore.New())
	p := noopProcessor("coffee")

	g.Register("text/coffeescript", "application/javascript", p)

	forward := g.Transformers("text/coffeescript")
	require.Len(t, forward, 1)
	assert.Same(t, p, forward["application/javascript"])

	inverse := g.InvertedTransformers("application/javascript")
	require.Len(t, inverse, 1)
	assert.Same(t, p, inverse["text/coffeescript"])
}

func TestRegisterOverwritesSamePair(t *testing.T) {
	g := NewGraph(configstore.New())
	first := noopProcessor("v1")
	second := noopProcessor("v2")

	g.Register("text/scss", "text/css", first)
	g.Register("text/scss", "text/css", second)

	assert.Same(t, second, g.Transformers("text/scss")["text/css"])
	assert.Same(t, second, g.InvertedTransformers("text/css")["text/scss"])
}

func TestUnrelatedRegistrationsPreserveExistingEdges(t *testing.T) {
	g := NewGraph(configstore.New())
	p := noopProcessor("coffee")

	g.Register("text/coffeescript", "application/javascript", p)
	g.Register("text/scss", "text/css", noopProcessor("scss"))
	g.Register("text/less", "text/css", noopProcessor("less"))

	assert.Same(t, p, g.Transformers("text/coffeescript")["application/javascript"])
	assert.Same(t, p, g.InvertedTransformers("application/javascript")["text/coffeescript"])

	inverse := g.InvertedTransformers("text/css")
	assert.Len(t, inverse, 2)
}

func TestSourceTypesSorted(t *testing.T) {
	g := NewGraph(configstore.New())
	g.Register("text/scss", "text/css", noopProcessor("scss"))
	g.Register("text/coffeescript", "application/javascript", noopProcessor("coffee"))

	assert.Equal(t, []string{"text/coffeescript", "text/scss"}, g.SourceTypes())
}
