package config

import (
	"fmt"
	"path/filepath"

	"github.com/cognicore/biotag/pkg/biotag/corpus"
	"github.com/cognicore/biotag/pkg/biotag/dictionary"
	"github.com/cognicore/biotag/pkg/biotag/lexicon"
	"github.com/cognicore/biotag/pkg/biotag/nlp"
	"github.com/cognicore/biotag/pkg/biotag/resources"
	"github.com/cognicore/biotag/pkg/biotag/stoplist"
)

// Loader loads all resource files and constructs components
type Loader struct {
	LexiconPath     string
	DictionariesDir string
	ModelsDir       string
	StopwordsPath   string
}

// Components holds the loaded, read-only components shared by all workers
type Components struct {
	Lexicon      *lexicon.Lexicon
	Stops        *stoplist.Manager
	Dictionaries []*dictionary.Dictionary
	Models       []resources.ModelSpec
	ModelLevels  map[string]corpus.ParserLevel
}

// Load reads all resource files and returns initialized components
func (l *Loader) Load() (*Components, error) {
	comp := &Components{ModelLevels: make(map[string]corpus.ParserLevel)}

	// Lexicon is loaded here only to fail fast; parsers load their own copy.
	if l.LexiconPath != "" {
		lex, err := lexicon.LoadFromYAML(l.LexiconPath)
		if err != nil {
			return nil, fmt.Errorf("load lexicon: %w", err)
		}
		comp.Lexicon = lex
	} else {
		comp.Lexicon = lexicon.New()
	}

	if l.StopwordsPath != "" {
		stops, err := stoplist.Load(l.StopwordsPath)
		if err != nil {
			return nil, fmt.Errorf("load stopwords: %w", err)
		}
		comp.Stops = stops
	} else {
		comp.Stops = stoplist.NewManager(nil)
	}

	if l.DictionariesDir != "" {
		dicts, err := dictionary.LoadAll(l.DictionariesDir, comp.Stops)
		if err != nil {
			return nil, fmt.Errorf("load dictionaries: %w", err)
		}
		comp.Dictionaries = dicts
	}

	if l.ModelsDir != "" {
		if err := l.loadModels(comp); err != nil {
			return nil, fmt.Errorf("load models: %w", err)
		}
	}

	return comp, nil
}

// loadModels reads the model descriptions listed in the models priority file.
// Only the description is read here; each pooled instance compiles its own.
func (l *Loader) loadModels(comp *Components) error {
	names, err := dictionary.LoadPriorityFile(filepath.Join(l.ModelsDir, dictionary.PriorityFile))
	if err != nil {
		return fmt.Errorf("read priority: %w", err)
	}
	for _, file := range names {
		path := filepath.Join(l.ModelsDir, file)
		m, err := nlp.LoadPatternModel(path)
		if err != nil {
			return err
		}
		level := corpus.LevelTokenization
		if m.Level != "" {
			if level, err = corpus.ParseLevel(m.Level); err != nil {
				return fmt.Errorf("model %s: %w", m.Name, err)
			}
		}
		name := m.Name
		comp.ModelLevels[name] = level
		comp.Models = append(comp.Models, resources.ModelSpec{
			Name: name,
			New:  func() (nlp.Tagger, error) { return nlp.NewPatternTagger(name, path), nil },
		})
	}
	return nil
}

// Resources describes the pooled resources of a run: the rule parser at the
// configured level, the rule splitter and every loaded model.
func (c *Config) Resources(comp *Components) resources.Config {
	level := c.Level()
	lexiconPath := c.Lexicon
	abbreviations := append([]string(nil), c.Abbreviations...)
	return resources.Config{
		NewParser: func() (nlp.Parser, error) {
			return nlp.NewRuleParser(level, lexiconPath), nil
		},
		NewSplitter: func() (nlp.SentenceSplitter, error) {
			return nlp.NewRuleSplitter(abbreviations), nil
		},
		Models: comp.Models,
	}
}
