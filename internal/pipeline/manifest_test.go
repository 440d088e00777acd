package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v2"

	"github.com/assetforge/forge/internal/processor"
	"github.com/assetforge/forge/pkg/assetapi"
)

// SampleManifest is a YAML representation of a full set of registrations.
const SampleManifest = `
transformers:
  - from: "text/coffeescript"
    to: "application/javascript"
    type: "dummy"
  - from: "text/scss"
    to: "text/css"
    type: "dummy"
processors:
  - role: "preprocessor"
    mime_type: "text/css"
    type: "dummy"
    config:
      label: "first"
  - role: "postprocessor"
    mime_type: "application/javascript"
    type: "dummy"
  - role: "bundle_processor"
    mime_type: "text/css"
    type: "dummy"
reducers:
  - mime_type: "*/*"
    key: "links"
    operator: "+"
  - mime_type: "text/css"
    key: "count"
    operator: "+"
    initial: 0
`

func registerDummyFactory(t *testing.T) {
	t.Helper()
	RegisterFactory("dummy", func(config map[string]interface{}) (*processor.Processor, error) {
		name := "dummy"
		if label, ok := config["label"].(string); ok {
			name = "dummy-" + label
		}
		return processor.NewFunc(name, func(ctx context.Context, input *assetapi.Input) (*assetapi.Result, error) {
			return &assetapi.Result{Data: input.Data}, nil
		}), nil
	})
}

func TestApplyManifest(t *testing.T) {
	registerDummyFactory(t)

	var m Manifest
	require.NoError(t, yaml.Unmarshal([]byte(SampleManifest), &m))

	env := New()
	require.NoError(t, env.Apply(&m))

	assert.Len(t, env.Transformers("text/coffeescript"), 1)
	assert.Len(t, env.Transformers("text/scss"), 1)
	require.Len(t, env.Preprocessors("text/css"), 1)
	assert.Equal(t, "dummy-first", env.Preprocessors("text/css")[0].Name())
	assert.Len(t, env.Postprocessors("application/javascript"), 1)
	assert.Len(t, env.BundleProcessors("text/css"), 1)

	reducers := env.BundleReducers("text/css")
	require.Len(t, reducers, 2)
	assert.True(t, reducers["count"].HasInitial)
	assert.False(t, reducers["links"].HasInitial)
}

func TestApplyManifestUnknownType(t *testing.T) {
	var m Manifest
	require.NoError(t, yaml.Unmarshal([]byte(`
processors:
  - role: "preprocessor"
    mime_type: "text/css"
    type: "no-such-processor"
`), &m))

	env := New()
	err := env.Apply(&m)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownProcessorType)
}

func TestApplyManifestUnknownRole(t *testing.T) {
	registerDummyFactory(t)

	var m Manifest
	require.NoError(t, yaml.Unmarshal([]byte(`
processors:
  - role: "sideprocessor"
    mime_type: "text/css"
    type: "dummy"
`), &m))

	env := New()
	err := env.Apply(&m)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sideprocessor")
}

func TestLoadManifestFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "manifest.yaml")
	require.NoError(t, os.WriteFile(path, []byte(SampleManifest), 0o644))

	m, err := LoadManifest(path)
	require.NoError(t, err)
	assert.Len(t, m.Transformers, 2)
	assert.Len(t, m.Processors, 3)
	assert.Len(t, m.Reducers, 2)

	_, err = LoadManifest(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestFactoryNames(t *testing.T) {
	registerDummyFactory(t)
	assert.Contains(t, FactoryNames(), "dummy")
}
