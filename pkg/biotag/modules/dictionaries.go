package modules

import (
	"context"

	"github.com/cognicore/biotag/pkg/biotag/corpus"
	"github.com/cognicore/biotag/pkg/biotag/dictionary"
	"github.com/cognicore/biotag/pkg/biotag/pipeline"
)

// DefaultDictionaryScore is the score given to dictionary annotations.
const DefaultDictionaryScore = 1.0

// Dictionaries annotates sentences with every loaded dictionary, in
// priority order. Dictionaries are read-only and shared by all workers.
type Dictionaries struct {
	matchers []*dictionary.Matcher
	lemmas   bool
	score    float64
}

// NewDictionaries creates the module. With lemmas set, tokens are matched
// by lemma and the module requires Lemmas.
func NewDictionaries(dicts []*dictionary.Dictionary, lemmas bool, score float64) *Dictionaries {
	m := &Dictionaries{lemmas: lemmas, score: score}
	for _, d := range dicts {
		m.matchers = append(m.matchers, dictionary.NewMatcher(d, lemmas))
	}
	return m
}

func (m *Dictionaries) Name() string { return "dictionaries" }

func (m *Dictionaries) Contract() *pipeline.Contract {
	requires := []pipeline.ResourceKind{pipeline.Tokens}
	if m.lemmas {
		requires = append(requires, pipeline.Lemmas)
	}
	return &pipeline.Contract{
		Requires: requires,
		Provides: []pipeline.ResourceKind{pipeline.Annotations},
	}
}

// TransformSentence inserts each match. A match over an annotated span adds
// its identifiers to the existing annotation.
func (m *Dictionaries) TransformSentence(ctx context.Context, env *pipeline.Env, s *corpus.Sentence) error {
	tree := s.Tree()
	for _, matcher := range m.matchers {
		for _, hit := range matcher.Match(s) {
			a := corpus.NewAnnotation(s, hit.Start, hit.End, m.score, hit.IDs...)
			if n := tree.Find(a); n != nil && n != tree.Root() {
				for _, id := range hit.IDs {
					n.Annotation().AddID(id)
				}
				continue
			}
			if err := s.Insert(a); err != nil {
				return err
			}
		}
	}
	return nil
}
