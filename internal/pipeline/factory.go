package pipeline

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/assetforge/forge/internal/processor"
)

// Factory builds a processor from a manifest config block.
type Factory func(config map[string]interface{}) (*processor.Processor, error)

// ErrUnknownProcessorType is returned when a manifest names a processor
// type no factory was registered for.
var ErrUnknownProcessorType = errors.New("pipeline: unknown processor type")

var (
	factoryMu sync.RWMutex
	factories = make(map[string]Factory)
)

// RegisterFactory registers a processor factory under a type name.
// Processor packages register themselves via init(), so importing a
// package is enough to make its processors available to manifests.
func RegisterFactory(name string, f Factory) {
	factoryMu.Lock()
	defer factoryMu.Unlock()
	factories[name] = f
}

// NewProcessor builds a processor of the named type.
func NewProcessor(name string, config map[string]interface{}) (*processor.Processor, error) {
	factoryMu.RLock()
	f, ok := factories[name]
	factoryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProcessorType, name)
	}
	p, err := f(config)
	if err != nil {
		return nil, fmt.Errorf("building processor %s: %w", name, err)
	}
	return p, nil
}

// FactoryNames lists the registered processor type names, sorted.
func FactoryNames() []string {
	factoryMu.RLock()
	defer factoryMu.RUnlock()
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
