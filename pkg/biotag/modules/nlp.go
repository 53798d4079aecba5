package modules

import (
	"context"
	"fmt"

	"github.com/cognicore/biotag/pkg/biotag/corpus"
	"github.com/cognicore/biotag/pkg/biotag/internalerr"
	"github.com/cognicore/biotag/pkg/biotag/pipeline"
)

// NLP runs the pooled parser over every sentence.
type NLP struct {
	level corpus.ParserLevel
}

// NewNLP creates the module; level is the depth of analysis it promises.
func NewNLP(level corpus.ParserLevel) *NLP {
	return &NLP{level: level}
}

func (m *NLP) Name() string { return "nlp" }

func (m *NLP) Contract() *pipeline.Contract {
	return &pipeline.Contract{
		Requires: []pipeline.ResourceKind{pipeline.Sentences},
		Provides: []pipeline.ResourceKind{pipeline.DynamicNLP},
	}
}

// NLPLevel reports the level the module provides.
func (m *NLP) NLPLevel() corpus.ParserLevel { return m.level }

func (m *NLP) TransformSentence(ctx context.Context, env *pipeline.Env, s *corpus.Sentence) error {
	rs, err := resourcesOf(env)
	if err != nil {
		return err
	}
	if rs.Parser == nil {
		return missingResource("parser")
	}
	if got := rs.Parser.Level(); !got.Covers(m.level) {
		return fmt.Errorf("parser runs at %s, module promises %s: %w", got, m.level, internalerr.ErrInvalidConfig)
	}
	return rs.Parser.Parse(s)
}
