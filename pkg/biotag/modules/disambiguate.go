package modules

import (
	"context"

	"github.com/cognicore/biotag/pkg/biotag/corpus"
	"github.com/cognicore/biotag/pkg/biotag/disambiguate"
	"github.com/cognicore/biotag/pkg/biotag/pipeline"
)

// Disambiguate prunes every sentence tree with the configured strategies.
type Disambiguate struct {
	opts disambiguate.Options
}

func NewDisambiguate(opts disambiguate.Options) *Disambiguate {
	return &Disambiguate{opts: opts}
}

func (m *Disambiguate) Name() string { return "disambiguate" }

func (m *Disambiguate) Contract() *pipeline.Contract {
	return &pipeline.Contract{
		Requires: []pipeline.ResourceKind{pipeline.Annotations},
	}
}

func (m *Disambiguate) TransformSentence(ctx context.Context, env *pipeline.Env, s *corpus.Sentence) error {
	disambiguate.ApplySentence(s, m.opts)
	return nil
}
