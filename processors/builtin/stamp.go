package builtin

import (
	"context"
	"fmt"
	"strings"

	"github.com/assetforge/forge/internal/processor"
	"github.com/assetforge/forge/pkg/assetapi"
)

// StampEngine is a minimal template engine: it replaces {{name}} and
// {{content_type}} placeholders in the source with the input's values.
// It carries a version so registrations can participate in cache key
// resolution.
type StampEngine struct {
	version string
}

// NewStampEngine creates an engine with the given version string.
func NewStampEngine(version string) *StampEngine {
	return &StampEngine{version: version}
}

// Name implements assetapi.Engine.
func (e *StampEngine) Name() string { return "stamp" }

// CacheKey ties compiled output to the engine version.
func (e *StampEngine) CacheKey() string {
	return fmt.Sprintf("stamp-%s", e.version)
}

// Render implements assetapi.Engine.
func (e *StampEngine) Render(ctx context.Context, input *assetapi.Input) (*assetapi.Result, error) {
	body := string(input.Data)
	body = strings.ReplaceAll(body, "{{name}}", input.Name)
	body = strings.ReplaceAll(body, "{{content_type}}", input.ContentType)
	return &assetapi.Result{Data: []byte(body)}, nil
}

func newStamp(config map[string]interface{}) (*processor.Processor, error) {
	version, _ := config["version"].(string)
	if version == "" {
		version = "1"
	}
	return processor.NewEngine(NewStampEngine(version)), nil
}
