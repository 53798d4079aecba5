package modules

import (
	"context"
	"fmt"

	"github.com/cognicore/biotag/pkg/biotag/corpus"
	"github.com/cognicore/biotag/pkg/biotag/internalerr"
	"github.com/cognicore/biotag/pkg/biotag/pipeline"
)

// Model runs one pooled tagger model over every sentence.
type Model struct {
	model string
	level corpus.ParserLevel
}

// NewModel creates the module for the named model, which needs parser
// output at level.
func NewModel(name string, level corpus.ParserLevel) *Model {
	return &Model{model: name, level: level}
}

func (m *Model) Name() string { return "model:" + m.model }

func (m *Model) Contract() *pipeline.Contract {
	return &pipeline.Contract{
		Requires: []pipeline.ResourceKind{pipeline.DynamicNLP},
		Provides: []pipeline.ResourceKind{pipeline.Annotations},
	}
}

// NLPLevel reports the parser level the model requires.
func (m *Model) NLPLevel() corpus.ParserLevel { return m.level }

func (m *Model) TransformSentence(ctx context.Context, env *pipeline.Env, s *corpus.Sentence) error {
	rs, err := resourcesOf(env)
	if err != nil {
		return err
	}
	tg, ok := rs.Tagger(m.model)
	if !ok {
		return fmt.Errorf("model %s is not pooled: %w", m.model, internalerr.ErrResourceUnavailable)
	}
	return tg.Tag(s)
}
