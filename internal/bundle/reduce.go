// Package bundle folds per-asset metadata across the ordered assets of a
// bundle into a single aggregate, using per-mime-type, per-key reducer
// registrations with wildcard-scoped defaults.
package bundle

import (
	"errors"
	"fmt"

	"github.com/assetforge/forge/internal/configstore"
	"github.com/assetforge/forge/pkg/assetapi"
)

// Section is the config store section reducer registrations live in.
const Section = "bundle_reducers"

// DataKey is the reserved metadata key whose contribution is the asset's
// raw content rather than a metadata value.
const DataKey = "data"

// ErrInvalidReducerArgs reports a reducer registration with an unsupported
// argument shape. This is a programmer error surfaced at registration time,
// never deferred to fold time.
var ErrInvalidReducerArgs = errors.New("bundle: invalid reducer registration arguments")

// Combinator folds one asset's contribution into the running value.
// Combinators are not assumed commutative; callers rely on fold order.
type Combinator func(acc, value interface{}) (interface{}, error)

// Reducer is one registered reduction: an optional initial value and the
// combinator folding contributions into it.
type Reducer struct {
	Initial    interface{}
	HasInitial bool
	Combine    Combinator
}

// Engine registers and applies bundle metadata reducers.
type Engine struct {
	store *configstore.Store
}

// NewEngine creates an Engine backed by the given store.
func NewEngine(store *configstore.Store) *Engine {
	return &Engine{store: store}
}

// Register stores a reducer for mimeType/key. args must take one of four
// shapes:
//
//	Register(mt, key, combinator)          — combinator only, no initial
//	Register(mt, key, operator)            — operator shorthand, no initial
//	Register(mt, key, initial, combinator) — explicit initial value
//	Register(mt, key, initial, operator)   — initial plus shorthand
//
// A Combinator or Operator (or its string form) fills the combinator slot;
// anything else in that slot, or any other argument count, fails with
// ErrInvalidReducerArgs. Operator shorthands resolve to combinators here,
// so an unknown operator also fails at registration time.
func (e *Engine) Register(mimeType, key string, args ...interface{}) error {
	var red Reducer
	switch len(args) {
	case 1:
		combine, err := toCombinator(args[0])
		if err != nil {
			return err
		}
		red.Combine = combine
	case 2:
		combine, err := toCombinator(args[1])
		if err != nil {
			return err
		}
		red.Combine = combine
		if args[0] != nil {
			red.Initial = args[0]
			red.HasInitial = true
		}
	default:
		return fmt.Errorf("%w: got %d reducer arguments for %s/%s",
			ErrInvalidReducerArgs, len(args), mimeType, key)
	}

	e.store.Update(Section, mimeType, func(old interface{}) interface{} {
		var prev map[string]Reducer
		if old != nil {
			prev = old.(map[string]Reducer)
		}
		next := make(map[string]Reducer, len(prev)+1)
		for k, v := range prev {
			next[k] = v
		}
		next[key] = red
		return next
	})
	return nil
}

func toCombinator(v interface{}) (Combinator, error) {
	switch t := v.(type) {
	case Combinator:
		return t, nil
	case func(acc, value interface{}) (interface{}, error):
		return t, nil
	case Operator:
		return t.Combinator()
	case string:
		return Operator(t).Combinator()
	default:
		return nil, fmt.Errorf("%w: %T is neither a combinator nor an operator shorthand",
			ErrInvalidReducerArgs, v)
	}
}

// Reducers returns the effective reducer set for a mime type: the wildcard
// defaults merged under the specific type's entries. A specific entry for a
// key replaces the wildcard entry wholesale; combinators are never merged.
func (e *Engine) Reducers(mimeType string) map[string]Reducer {
	merged := map[string]Reducer{}
	for key, red := range e.section(assetapi.MimeWildcard) {
		merged[key] = red
	}
	for key, red := range e.section(mimeType) {
		merged[key] = red
	}
	return merged
}

func (e *Engine) section(mimeType string) map[string]Reducer {
	if v := e.store.Get(Section, mimeType); v != nil {
		return v.(map[string]Reducer)
	}
	return nil
}

// Process folds the reducer set over the assets in exact sequence order.
// Keys with an explicit initial value seed the accumulator; otherwise the
// first contributing asset seeds it and later assets fold in through the
// combinator. An asset whose metadata lacks a key contributes nothing for
// that key. A combinator error aborts the fold.
func (e *Engine) Process(assets []assetapi.Asset, reducers map[string]Reducer) (map[string]interface{}, error) {
	out := make(map[string]interface{}, len(reducers))
	for key, red := range reducers {
		if red.HasInitial {
			out[key] = red.Initial
		}
	}

	for _, asset := range assets {
		for key, red := range reducers {
			var value interface{}
			if key == DataKey {
				value = asset.Source()
			} else {
				var ok bool
				value, ok = asset.Metadata()[key]
				if !ok {
					continue
				}
			}

			if current, seeded := out[key]; seeded {
				folded, err := red.Combine(current, value)
				if err != nil {
					return nil, fmt.Errorf("bundle: reducing %q: %w", key, err)
				}
				out[key] = folded
			} else {
				out[key] = value
			}
		}
	}
	return out, nil
}
