package pipeline

import (
	"fmt"
	"log"
	"os"

	"gopkg.in/yaml.v2"

	"github.com/assetforge/forge/internal/bundle"
)

// Manifest is the declarative registration file applied at startup:
// transformers, processors and reducers, each resolved through the factory
// registry.
type Manifest struct {
	Transformers []TransformerDef `yaml:"transformers"`
	Processors   []ProcessorDef   `yaml:"processors"`
	Reducers     []ReducerDef     `yaml:"reducers"`
}

// TransformerDef declares one transform edge.
type TransformerDef struct {
	From   string                 `yaml:"from"`
	To     string                 `yaml:"to"`
	Type   string                 `yaml:"type"`
	Config map[string]interface{} `yaml:"config"`
}

// ProcessorDef declares one preprocessor, postprocessor or bundle
// processor registration.
type ProcessorDef struct {
	Role     string                 `yaml:"role"` // preprocessor | postprocessor | bundle_processor
	MimeType string                 `yaml:"mime_type"`
	Type     string                 `yaml:"type"`
	Config   map[string]interface{} `yaml:"config"`
}

// ReducerDef declares one bundle metadata reducer using an operator
// shorthand. A nil Initial means "no initial value".
type ReducerDef struct {
	MimeType string      `yaml:"mime_type"`
	Key      string      `yaml:"key"`
	Operator string      `yaml:"operator"`
	Initial  interface{} `yaml:"initial"`
}

// LoadManifest reads and parses a manifest file.
func LoadManifest(filename string) (*Manifest, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", filename, err)
	}

	log.Printf("Loaded manifest %s: %d transformers, %d processors, %d reducers",
		filename, len(m.Transformers), len(m.Processors), len(m.Reducers))

	return &m, nil
}

// Apply registers everything the manifest declares against the
// environment. The first failing entry aborts the apply.
func (e *Environment) Apply(m *Manifest) error {
	for _, def := range m.Transformers {
		p, err := NewProcessor(def.Type, def.Config)
		if err != nil {
			return fmt.Errorf("transformer %s -> %s: %w", def.From, def.To, err)
		}
		if err := e.RegisterTransformer(def.From, def.To, p); err != nil {
			return err
		}
	}

	for _, def := range m.Processors {
		p, err := NewProcessor(def.Type, def.Config)
		if err != nil {
			return fmt.Errorf("%s for %s: %w", def.Role, def.MimeType, err)
		}
		switch def.Role {
		case "preprocessor":
			err = e.RegisterPreprocessor(def.MimeType, p)
		case "postprocessor":
			err = e.RegisterPostprocessor(def.MimeType, p)
		case "bundle_processor":
			err = e.RegisterBundleProcessor(def.MimeType, p)
		default:
			return fmt.Errorf("unknown processor role %q for type %s", def.Role, def.Type)
		}
		if err != nil {
			return err
		}
	}

	for _, def := range m.Reducers {
		var err error
		if def.Initial != nil {
			err = e.RegisterBundleMetadataReducer(def.MimeType, def.Key, def.Initial, bundle.Operator(def.Operator))
		} else {
			err = e.RegisterBundleMetadataReducer(def.MimeType, def.Key, bundle.Operator(def.Operator))
		}
		if err != nil {
			return fmt.Errorf("reducer %s/%s: %w", def.MimeType, def.Key, err)
		}
	}

	return nil
}
