package server

import (
	"sort"

	"github.com/graphql-go/graphql"

	"github.com/assetforge/forge/internal/pipeline"
)

// buildSchema constructs the GraphQL query schema over an environment's
// registration state. Mutations are deliberately absent; registration
// happens in-process or through the manifest.
func buildSchema(env *pipeline.Environment) (*graphql.Schema, error) {
	transformerType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Transformer",
		Fields: graphql.Fields{
			"from":      &graphql.Field{Type: graphql.String},
			"to":        &graphql.Field{Type: graphql.String},
			"processor": &graphql.Field{Type: graphql.String},
			"uri":       &graphql.Field{Type: graphql.String},
		},
	})

	processorType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Processor",
		Fields: graphql.Fields{
			"name":     &graphql.Field{Type: graphql.String},
			"id":       &graphql.Field{Type: graphql.String},
			"position": &graphql.Field{Type: graphql.Int},
			"uri":      &graphql.Field{Type: graphql.String},
		},
	})

	reducerType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Reducer",
		Fields: graphql.Fields{
			"key":        &graphql.Field{Type: graphql.String},
			"hasInitial": &graphql.Field{Type: graphql.Boolean},
		},
	})

	fields := graphql.Fields{}

	fields["health"] = &graphql.Field{
		Type: graphql.String,
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			return "OK", nil
		},
	}

	fields["transformers"] = &graphql.Field{
		Type: graphql.NewList(transformerType),
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			var edges []TransformerInfo
			for _, from := range env.TransformSourceTypes() {
				targets := env.Transformers(from)
				tos := make([]string, 0, len(targets))
				for to := range targets {
					tos = append(tos, to)
				}
				sort.Strings(tos)
				for _, to := range tos {
					proc := targets[to]
					uri, _ := env.ProcessorDependencyURI(proc)
					edges = append(edges, TransformerInfo{
						From:      from,
						To:        to,
						Processor: proc.Name(),
						URI:       uri,
					})
				}
			}
			return edges, nil
		},
	}

	fields["processors"] = &graphql.Field{
		Type: graphql.NewList(processorType),
		Args: graphql.FieldConfigArgument{
			"role":     &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: "preprocessor"},
			"mimeType": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
		},
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			mimeType, _ := p.Args["mimeType"].(string)
			role, _ := p.Args["role"].(string)

			var procs = env.Preprocessors(mimeType)
			switch role {
			case "postprocessor":
				procs = env.Postprocessors(mimeType)
			case "bundle_processor":
				procs = env.BundleProcessors(mimeType)
			}

			var list []ProcessorInfo
			for i, proc := range procs {
				uri, _ := env.ProcessorDependencyURI(proc)
				list = append(list, ProcessorInfo{Name: proc.Name(), ID: proc.ID(), Position: i, URI: uri})
			}
			return list, nil
		},
	}

	fields["reducers"] = &graphql.Field{
		Type: graphql.NewList(reducerType),
		Args: graphql.FieldConfigArgument{
			"mimeType": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
		},
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			mimeType, _ := p.Args["mimeType"].(string)

			reducers := env.BundleReducers(mimeType)
			keys := make([]string, 0, len(reducers))
			for key := range reducers {
				keys = append(keys, key)
			}
			sort.Strings(keys)

			var list []ReducerInfo
			for _, key := range keys {
				red := reducers[key]
				list = append(list, ReducerInfo{Key: key, Initial: red.Initial, HasInitial: red.HasInitial})
			}
			return list, nil
		},
	}

	fields["resolveTransformType"] = &graphql.Field{
		Type: graphql.String,
		Args: graphql.FieldConfigArgument{
			"type":   &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
			"accept": &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: ""},
		},
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			sourceType, _ := p.Args["type"].(string)
			accept, _ := p.Args["accept"].(string)
			resolved, ok := env.ResolveTransformType(sourceType, accept)
			if !ok {
				return nil, nil
			}
			return resolved, nil
		},
	}

	schemaConfig := graphql.SchemaConfig{
		Query: graphql.NewObject(graphql.ObjectConfig{
			Name:   "Query",
			Fields: fields,
		}),
	}

	schema, err := graphql.NewSchema(schemaConfig)
	if err != nil {
		return nil, err
	}

	return &schema, nil
}
