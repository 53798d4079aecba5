package modules

import (
	"context"

	"github.com/cognicore/biotag/pkg/biotag/pipeline"
	"github.com/cognicore/biotag/pkg/biotag/store"
)

// Persist saves each finished document to a store.
type Persist struct {
	store store.Store
}

func NewPersist(st store.Store) *Persist {
	return &Persist{store: st}
}

func (m *Persist) Name() string { return "persist" }

func (m *Persist) Contract() *pipeline.Contract {
	return &pipeline.Contract{
		Requires: []pipeline.ResourceKind{pipeline.Annotations},
	}
}

func (m *Persist) TransformDocument(ctx context.Context, env *pipeline.Env) error {
	return m.store.SaveCorpus(ctx, env.Corpus)
}
