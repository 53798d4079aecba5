package pipeline

import (
	"github.com/cognicore/biotag/pkg/biotag/corpus"
)

// ResourceKind is a kind of data a module consumes or produces.
type ResourceKind string

const (
	Tokens       ResourceKind = "Tokens"
	Lemmas       ResourceKind = "Lemmas"
	POS          ResourceKind = "POS"
	Chunks       ResourceKind = "Chunks"
	Dependencies ResourceKind = "Dependencies"
	Annotations  ResourceKind = "Annotations"
	Relations    ResourceKind = "Relations"
	Sentences    ResourceKind = "Sentences"
	Passages     ResourceKind = "Passages"

	// DynamicNLP stands for the kinds produced by the parser levels the
	// module reports through LevelReporter.
	DynamicNLP ResourceKind = "DynamicNLP"
)

// multiProvider kinds may be provided by any number of modules.
var multiProvider = map[ResourceKind]bool{
	Annotations: true,
	Relations:   true,
}

// sentenceLevel kinds only exist inside sentences, so requiring one of them
// also requires Sentences.
var sentenceLevel = map[ResourceKind]bool{
	Tokens:       true,
	Lemmas:       true,
	POS:          true,
	Chunks:       true,
	Dependencies: true,
	Annotations:  true,
	Relations:    true,
}

// KindsForLevel returns the kinds produced by a parser running at level.
func KindsForLevel(level corpus.ParserLevel) []ResourceKind {
	kinds := []ResourceKind{Tokens}
	if level.Covers(corpus.LevelPOS) {
		kinds = append(kinds, POS)
	}
	if level.Covers(corpus.LevelLemmatization) {
		kinds = append(kinds, Lemmas)
	}
	if level.Covers(corpus.LevelChunking) {
		kinds = append(kinds, Chunks)
	}
	if level.Covers(corpus.LevelDependency) {
		kinds = append(kinds, Dependencies)
	}
	return kinds
}

// KindsOf inspects a corpus and returns the kinds it already carries, for
// seeding a Validator with pre-processed input.
func KindsOf(c *corpus.Corpus) []ResourceKind {
	var kinds []ResourceKind
	if len(c.Passages) > 0 {
		kinds = append(kinds, Passages)
	}
	if len(c.Sentences) == 0 {
		return kinds
	}
	kinds = append(kinds, Sentences)

	features := map[string]ResourceKind{
		corpus.FeaturePOS:    POS,
		corpus.FeatureLemma:  Lemmas,
		corpus.FeatureChunk:  Chunks,
		corpus.FeatureDepTag: Dependencies,
	}
	found := make(map[ResourceKind]bool)
	annotated := false
	for _, s := range c.Sentences {
		if len(s.Tokens) > 0 {
			found[Tokens] = true
		}
		for i := range s.Tokens {
			for key, kind := range features {
				if s.Tokens[i].Has(key) {
					found[kind] = true
				}
			}
		}
		if s.Tree().Size() > 1 {
			annotated = true
		}
	}
	for _, k := range []ResourceKind{Tokens, POS, Lemmas, Chunks, Dependencies} {
		if found[k] {
			kinds = append(kinds, k)
		}
	}
	if annotated {
		kinds = append(kinds, Annotations)
	}
	return kinds
}
