package nlp

import (
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/biotag/pkg/biotag/corpus"
	"github.com/cognicore/biotag/pkg/biotag/internalerr"
)

// PatternModel is the YAML description of a pattern tagger.
type PatternModel struct {
	Name     string    `yaml:"name"`
	Group    string    `yaml:"group"`
	Source   string    `yaml:"source"`
	Level    string    `yaml:"level"`
	Score    float64   `yaml:"score"`
	Patterns []Pattern `yaml:"patterns"`
}

// Pattern is one expression of a model. A match becomes an annotation only
// when it starts and ends on token boundaries.
type Pattern struct {
	Regex    string `yaml:"regex"`
	ID       string `yaml:"id"`
	Subgroup string `yaml:"subgroup"`
}

// LoadPatternModel reads a model description.
func LoadPatternModel(path string) (*PatternModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m PatternModel
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	if m.Name == "" || m.Group == "" {
		return nil, fmt.Errorf("model %s: name and group are required: %w", path, internalerr.ErrInvalidConfig)
	}
	if m.Source == "" {
		m.Source = m.Name
	}
	if m.Score == 0 {
		m.Score = 1
	}
	return &m, nil
}

type compiledPattern struct {
	re *regexp.Regexp
	id corpus.Identifier
}

// PatternTagger is a tagger model driven by regular expressions. It is
// loaded from disk on Launch and keeps per-call scratch state, so one
// instance must not be shared between goroutines.
type PatternTagger struct {
	name  string
	path  string
	model *PatternModel
	level corpus.ParserLevel

	patterns []compiledPattern
	starts   map[int]int
	ends     map[int]int
}

// NewPatternTagger creates a tagger for the model file at path. The name is
// the model's registry name and overrides the one in the file.
func NewPatternTagger(name, path string) *PatternTagger {
	return &PatternTagger{name: name, path: path}
}

// Launch loads and compiles the model.
func (t *PatternTagger) Launch() error {
	m, err := LoadPatternModel(t.path)
	if err != nil {
		return err
	}
	level := corpus.LevelTokenization
	if m.Level != "" {
		if level, err = corpus.ParseLevel(m.Level); err != nil {
			return fmt.Errorf("model %s: %w", t.name, err)
		}
	}
	patterns := make([]compiledPattern, 0, len(m.Patterns))
	for _, p := range m.Patterns {
		re, err := regexp.Compile(p.Regex)
		if err != nil {
			return fmt.Errorf("model %s: pattern %q: %w", t.name, p.Regex, err)
		}
		patterns = append(patterns, compiledPattern{
			re: re,
			id: corpus.Identifier{Source: m.Source, ID: p.ID, Subgroup: p.Subgroup, Group: m.Group},
		})
	}
	t.model = m
	t.level = level
	t.patterns = patterns
	t.starts = make(map[int]int)
	t.ends = make(map[int]int)
	return nil
}

// Close drops the compiled model.
func (t *PatternTagger) Close() error {
	t.model = nil
	t.patterns = nil
	t.starts = nil
	t.ends = nil
	return nil
}

// Name returns the model name.
func (t *PatternTagger) Name() string { return t.name }

// Level returns the parser level required by the model.
func (t *PatternTagger) Level() corpus.ParserLevel { return t.level }

// Tag inserts one annotation per token-aligned match. A match over a span
// that is already annotated adds its identifier to the existing annotation.
func (t *PatternTagger) Tag(s *corpus.Sentence) error {
	if t.model == nil {
		return fmt.Errorf("model %s used before launch: %w", t.name, internalerr.ErrNotInitialized)
	}
	clear(t.starts)
	clear(t.ends)
	for i, tok := range s.Tokens {
		t.starts[tok.Start] = i
		t.ends[tok.End] = i
	}

	text := s.Text()
	for _, p := range t.patterns {
		for _, m := range p.re.FindAllStringIndex(text, -1) {
			first, okStart := t.starts[m[0]]
			last, okEnd := t.ends[m[1]]
			if !okStart || !okEnd || first > last {
				continue
			}
			a := corpus.NewAnnotation(s, first, last, t.model.Score, p.id)
			if n := s.Tree().Find(a); n != nil && n != s.Tree().Root() {
				n.Annotation().AddID(p.id)
				continue
			}
			if err := s.Insert(a); err != nil {
				return err
			}
		}
	}
	return nil
}
