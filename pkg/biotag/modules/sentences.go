package modules

import (
	"context"

	"github.com/cognicore/biotag/pkg/biotag/corpus"
	"github.com/cognicore/biotag/pkg/biotag/pipeline"
)

// Sentences splits every passage with the pooled sentence splitter.
type Sentences struct{}

func (Sentences) Name() string { return "sentences" }

func (Sentences) Contract() *pipeline.Contract {
	return &pipeline.Contract{
		Requires: []pipeline.ResourceKind{pipeline.Passages},
		Provides: []pipeline.ResourceKind{pipeline.Sentences},
	}
}

// TransformPassage adds one sentence per split span. Original offsets are
// shifted by the passage's original start; a passage without one (-1) leaves
// them equal to the text offsets.
func (Sentences) TransformPassage(ctx context.Context, env *pipeline.Env, p corpus.Passage) error {
	rs, err := resourcesOf(env)
	if err != nil {
		return err
	}
	if rs.Splitter == nil {
		return missingResource("splitter")
	}
	for _, span := range rs.Splitter.Split(env.Corpus.PassageText(p)) {
		s := env.Corpus.AddSentence(p.Start+span[0], p.Start+span[1])
		if p.OriginalStart >= 0 {
			s.OriginalStart = p.OriginalStart + span[0]
			s.OriginalEnd = p.OriginalStart + span[1]
		}
	}
	return nil
}
