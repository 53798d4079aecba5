// Package modules holds the built-in transforming modules and wires every
// built-in module, readers and writers included, into a registry.
package modules

import (
	"fmt"

	"github.com/cognicore/biotag/pkg/biotag/corpus"
	"github.com/cognicore/biotag/pkg/biotag/dictionary"
	"github.com/cognicore/biotag/pkg/biotag/disambiguate"
	"github.com/cognicore/biotag/pkg/biotag/internalerr"
	"github.com/cognicore/biotag/pkg/biotag/pipeline"
	"github.com/cognicore/biotag/pkg/biotag/readers"
	"github.com/cognicore/biotag/pkg/biotag/resources"
	"github.com/cognicore/biotag/pkg/biotag/store"
	"github.com/cognicore/biotag/pkg/biotag/writers"
)

// Deps are the shared, read-only components module constructors draw on.
type Deps struct {
	ParserLevel  corpus.ParserLevel
	Dictionaries []*dictionary.Dictionary
	// ModelLevels maps each pooled model to the parser level it needs.
	ModelLevels map[string]corpus.ParserLevel
	// Store is optional; the persist module fails to build without it.
	Store store.Store
}

// NewRegistry returns a registry holding every built-in module.
func NewRegistry(deps Deps) (*pipeline.Registry, error) {
	reg := pipeline.NewRegistry()
	if err := readers.Register(reg); err != nil {
		return nil, err
	}
	if err := writers.Register(reg); err != nil {
		return nil, err
	}
	if err := Register(reg, deps); err != nil {
		return nil, err
	}
	return reg, nil
}

// Register adds the transforming modules to reg.
func Register(reg *pipeline.Registry, deps Deps) error {
	ctors := map[string]pipeline.Constructor{
		"sentences": func(pipeline.Args) (pipeline.Module, error) {
			return Sentences{}, nil
		},
		"nlp": func(args pipeline.Args) (pipeline.Module, error) {
			level := deps.ParserLevel
			if name := args.String("level", ""); name != "" {
				l, err := corpus.ParseLevel(name)
				if err != nil {
					return nil, err
				}
				level = l
			}
			return NewNLP(level), nil
		},
		"dictionaries": func(args pipeline.Args) (pipeline.Module, error) {
			lemmas, err := args.Bool("lemmas", false)
			if err != nil {
				return nil, err
			}
			return NewDictionaries(deps.Dictionaries, lemmas, DefaultDictionaryScore), nil
		},
		"model": func(args pipeline.Args) (pipeline.Module, error) {
			name := args.String("name", "")
			if name == "" {
				return nil, fmt.Errorf("model needs a name argument: %w", internalerr.ErrInvalidConfig)
			}
			level, ok := deps.ModelLevels[name]
			if !ok {
				return nil, fmt.Errorf("model %q: %w", name, internalerr.ErrNotFound)
			}
			return NewModel(name, level), nil
		},
		"disambiguate": func(args pipeline.Args) (pipeline.Module, error) {
			opts, err := disambiguateOptions(args)
			if err != nil {
				return nil, err
			}
			return NewDisambiguate(opts), nil
		},
		"persist": func(pipeline.Args) (pipeline.Module, error) {
			if deps.Store == nil {
				return nil, fmt.Errorf("persist needs a store: %w", internalerr.ErrInvalidConfig)
			}
			return NewPersist(deps.Store), nil
		},
	}
	for _, name := range []string{"sentences", "nlp", "dictionaries", "model", "disambiguate", "persist"} {
		if err := reg.Register(name, ctors[name]); err != nil {
			return err
		}
	}
	return nil
}

func disambiguateOptions(args pipeline.Args) (disambiguate.Options, error) {
	var opts disambiguate.Options
	var err error
	if opts.DuplicateIDs, err = args.Bool("duplicates", false); err != nil {
		return opts, err
	}
	if opts.NestedSameGroup, err = args.Bool("nested", false); err != nil {
		return opts, err
	}
	if opts.MaxDepth, err = args.Int("depth", 0); err != nil {
		return opts, err
	}
	opts.Priority = args.List("priority")
	return opts, nil
}

func resourcesOf(env *pipeline.Env) (*resources.ResourceSet, error) {
	if env == nil || env.Resources == nil {
		return nil, fmt.Errorf("no resource set: %w", internalerr.ErrResourceUnavailable)
	}
	return env.Resources, nil
}

func missingResource(kind string) error {
	return fmt.Errorf("resource set has no %s: %w", kind, internalerr.ErrResourceUnavailable)
}
