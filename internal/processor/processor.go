// Package processor normalizes the shapes a unit of pipeline work can be
// registered as — a plain function, a legacy two-argument function, or a
// template engine — into one uniform invocable Processor. Detection happens
// once at registration; invocation never type-switches.
package processor

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/assetforge/forge/pkg/assetapi"
)

// Func is the modern processor shape: one input in, one result out.
type Func func(ctx context.Context, input *assetapi.Input) (*assetapi.Result, error)

// LegacyFunc is the older two-argument convention that received the input
// context and the raw data separately. Wrapped processors present the
// uniform convention externally and destructure internally.
type LegacyFunc func(ctx context.Context, input *assetapi.Input, data []byte) ([]byte, error)

// Processor is a normalized unit of work. Every Processor carries a stable
// opaque identity token issued at wrap time; the token, not the display
// name, is what dependency URI tracking keys on.
type Processor struct {
	name    string
	id      string
	call    Func
	wrapped interface{}
}

// NewFunc wraps a plain function. The function itself is the processor;
// there is no underlying wrapped object.
func NewFunc(name string, fn Func) *Processor {
	p := &Processor{name: name, id: uuid.NewString(), call: fn}
	if p.name == "" {
		p.name = "processor-" + p.id[:8]
	}
	return p
}

// NewLegacy wraps a two-argument legacy function. The display name embeds
// the registered identifier so the processor can later be unregistered
// symbolically by that identifier.
func NewLegacy(name string, fn LegacyFunc) *Processor {
	p := &Processor{
		name:    LegacyName(name),
		id:      uuid.NewString(),
		wrapped: fn,
	}
	p.call = func(ctx context.Context, input *assetapi.Input) (*assetapi.Result, error) {
		data, err := fn(ctx, input, input.Data)
		if err != nil {
			return nil, err
		}
		return &assetapi.Result{Data: data}, nil
	}
	return p
}

// NewEngine wraps a template engine behind the uniform convention,
// delegating every call to the engine's native Render.
func NewEngine(engine assetapi.Engine) *Processor {
	p := &Processor{
		name:    engine.Name(),
		id:      uuid.NewString(),
		wrapped: engine,
	}
	p.call = func(ctx context.Context, input *assetapi.Input) (*assetapi.Result, error) {
		return engine.Render(ctx, input)
	}
	return p
}

// LegacyName is the display name synthesized for a wrapped legacy function
// registered under the given identifier.
func LegacyName(identifier string) string {
	return fmt.Sprintf("legacy(%s)", identifier)
}

// Name returns the processor's display name.
func (p *Processor) Name() string { return p.name }

// ID returns the identity token issued at wrap time.
func (p *Processor) ID() string { return p.id }

// Call invokes the processor through the uniform convention.
func (p *Processor) Call(ctx context.Context, input *assetapi.Input) (*assetapi.Result, error) {
	return p.call(ctx, input)
}

// Adapt normalizes any accepted registration shape into a Processor.
// Already-normalized processors pass through unchanged.
func Adapt(v interface{}) (*Processor, error) {
	switch t := v.(type) {
	case *Processor:
		return t, nil
	case Func:
		return NewFunc("", t), nil
	case func(ctx context.Context, input *assetapi.Input) (*assetapi.Result, error):
		return NewFunc("", t), nil
	case LegacyFunc:
		return NewLegacy("anonymous", t), nil
	case func(ctx context.Context, input *assetapi.Input, data []byte) ([]byte, error):
		return NewLegacy("anonymous", t), nil
	case assetapi.Engine:
		return NewEngine(t), nil
	default:
		return nil, fmt.Errorf("processor: cannot adapt %T into a processor", v)
	}
}

// Unwrap returns the adapter's wrapped original (the legacy function or the
// template engine), or the processor itself when nothing was wrapped. It
// exists solely so dependency URI resolution can reach an underlying
// cache-key-bearing object; it never affects invocation.
func Unwrap(p *Processor) interface{} {
	if p.wrapped != nil {
		return p.wrapped
	}
	return p
}

// CacheKey reports the cache key of the processor's underlying object, if
// it exposes one.
func CacheKey(p *Processor) (string, bool) {
	if ck, ok := Unwrap(p).(assetapi.CacheKeyer); ok {
		return ck.CacheKey(), true
	}
	return "", false
}
