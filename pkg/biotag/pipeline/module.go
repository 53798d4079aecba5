package pipeline

import (
	"context"
	"io"

	"github.com/cognicore/biotag/pkg/biotag/corpus"
	"github.com/cognicore/biotag/pkg/biotag/resources"
	"github.com/cognicore/biotag/pkg/biotag/stats"
)

// Contract is a module's static declaration of what it consumes and produces.
type Contract struct {
	Requires []ResourceKind
	Provides []ResourceKind
}

// Module is a pipeline step. A nil Contract is a configuration error.
// Modules are shared by every worker and must keep no per-document state;
// stateful resources come from Env.Resources.
type Module interface {
	Name() string
	Contract() *Contract
}

// LevelReporter is implemented by modules that require or provide DynamicNLP.
type LevelReporter interface {
	NLPLevel() corpus.ParserLevel
}

// Env is the per-document state handed to every module call.
type Env struct {
	Corpus    *corpus.Corpus
	Resources *resources.ResourceSet
	Stats     *stats.Collector
}

// Reads is implemented by modules that fill an empty corpus from raw input.
type Reads interface {
	Module
	Read(ctx context.Context, env *Env, r io.Reader) error
}

// Writes is implemented by modules that serialize a finished corpus.
type Writes interface {
	Module
	Extension() string
	Write(ctx context.Context, env *Env, w io.Writer) error
}

// A module transforms the corpus in place by implementing at least one of
// PassageTransformer, SentenceTransformer or DocumentTransformer.

// PassageTransformer fires once per passage.
type PassageTransformer interface {
	TransformPassage(ctx context.Context, env *Env, p corpus.Passage) error
}

// SentenceTransformer fires once per sentence.
type SentenceTransformer interface {
	TransformSentence(ctx context.Context, env *Env, s *corpus.Sentence) error
}

// DocumentTransformer fires once per document.
type DocumentTransformer interface {
	TransformDocument(ctx context.Context, env *Env) error
}
