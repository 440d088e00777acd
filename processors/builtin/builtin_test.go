package builtin

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/assetforge/forge/internal/pipeline"
	"github.com/assetforge/forge/internal/processor"
	"github.com/assetforge/forge/pkg/assetapi"
)

func run(t *testing.T, p *processor.Processor, data []byte) []byte {
	t.Helper()
	result, err := p.Call(context.Background(), &assetapi.Input{
		Name:        "app.css",
		ContentType: "text/css",
		Data:        data,
	})
	require.NoError(t, err)
	return result.Data
}

func TestFactoriesRegistered(t *testing.T) {
	names := pipeline.FactoryNames()
	for _, want := range []string{"banner", "strip-comments", "charset-tag", "stamp"} {
		assert.Contains(t, names, want)
	}
}

func TestBanner(t *testing.T) {
	p, err := pipeline.NewProcessor("banner", map[string]interface{}{"text": "generated"})
	require.NoError(t, err)

	out := run(t, p, []byte("body{}"))
	assert.Equal(t, "/* generated */\nbody{}", string(out))
}

func TestBannerRequiresText(t *testing.T) {
	_, err := pipeline.NewProcessor("banner", map[string]interface{}{})
	require.Error(t, err)
}

func TestStripComments(t *testing.T) {
	p, err := pipeline.NewProcessor("strip-comments", nil)
	require.NoError(t, err)
	assert.Equal(t, processor.LegacyName("strip-comments"), p.Name())

	out := run(t, p, []byte("a{}/* one */b{}/* two */c{}"))
	assert.Equal(t, "a{}b{}c{}", string(out))

	// An unterminated comment is left alone.
	out = run(t, p, []byte("a{}/* open"))
	assert.Equal(t, "a{}/* open", string(out))
}

func TestCharsetTag(t *testing.T) {
	p, err := pipeline.NewProcessor("charset-tag", nil)
	require.NoError(t, err)

	out := run(t, p, []byte("body{}"))
	assert.Equal(t, "@charset \"utf-8\";\nbody{}", string(out))

	// Already tagged output is untouched.
	out = run(t, p, out)
	assert.Equal(t, "@charset \"utf-8\";\nbody{}", string(out))
}

func TestStampEngine(t *testing.T) {
	p, err := pipeline.NewProcessor("stamp", map[string]interface{}{"version": "2"})
	require.NoError(t, err)
	assert.Equal(t, "stamp", p.Name())

	key, ok := processor.CacheKey(p)
	require.True(t, ok)
	assert.Equal(t, "stamp-2", key)

	out := run(t, p, []byte("/* {{name}} ({{content_type}}) */"))
	assert.Equal(t, "/* app.css (text/css) */", string(out))
}
