// Package builtin ships the stock processors. Importing the package (blank
// import is enough) registers every factory with the pipeline, making the
// processors available to manifest files by type name.
package builtin

import (
	"bytes"
	"context"
	"fmt"

	"github.com/assetforge/forge/internal/pipeline"
	"github.com/assetforge/forge/internal/processor"
	"github.com/assetforge/forge/pkg/assetapi"
)

func init() {
	pipeline.RegisterFactory("banner", newBanner)
	pipeline.RegisterFactory("strip-comments", newStripComments)
	pipeline.RegisterFactory("charset-tag", newCharsetTag)
	pipeline.RegisterFactory("stamp", newStamp)
}

// newBanner builds a preprocessor that prepends a comment banner to the
// asset body. Config key "text" sets the banner content.
func newBanner(config map[string]interface{}) (*processor.Processor, error) {
	text, _ := config["text"].(string)
	if text == "" {
		return nil, fmt.Errorf("banner: config key %q is required", "text")
	}
	banner := []byte("/* " + text + " */\n")
	return processor.NewFunc("banner", func(ctx context.Context, input *assetapi.Input) (*assetapi.Result, error) {
		out := make([]byte, 0, len(banner)+len(input.Data))
		out = append(out, banner...)
		out = append(out, input.Data...)
		return &assetapi.Result{Data: out}, nil
	}), nil
}

// newStripComments builds a processor that removes /* ... */ block comments.
// It keeps the legacy two-argument shape to exercise the wrapping path.
func newStripComments(config map[string]interface{}) (*processor.Processor, error) {
	return processor.NewLegacy("strip-comments", func(ctx context.Context, input *assetapi.Input, data []byte) ([]byte, error) {
		return stripBlockComments(data), nil
	}), nil
}

func stripBlockComments(data []byte) []byte {
	out := make([]byte, 0, len(data))
	for {
		start := bytes.Index(data, []byte("/*"))
		if start < 0 {
			out = append(out, data...)
			return out
		}
		end := bytes.Index(data[start+2:], []byte("*/"))
		if end < 0 {
			out = append(out, data...)
			return out
		}
		out = append(out, data[:start]...)
		data = data[start+2+end+2:]
	}
}

// newCharsetTag builds a bundle processor that prefixes concatenated CSS
// with an @charset declaration when one is not already present.
func newCharsetTag(config map[string]interface{}) (*processor.Processor, error) {
	charset, _ := config["charset"].(string)
	if charset == "" {
		charset = "utf-8"
	}
	tag := []byte(fmt.Sprintf("@charset %q;\n", charset))
	return processor.NewFunc("charset-tag", func(ctx context.Context, input *assetapi.Input) (*assetapi.Result, error) {
		if bytes.HasPrefix(input.Data, []byte("@charset")) {
			return &assetapi.Result{Data: input.Data}, nil
		}
		out := make([]byte, 0, len(tag)+len(input.Data))
		out = append(out, tag...)
		out = append(out, input.Data...)
		return &assetapi.Result{Data: out}, nil
	}), nil
}
