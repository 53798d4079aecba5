// Package writers holds the modules that serialize a finished corpus.
package writers

import (
	"github.com/cognicore/biotag/pkg/biotag/corpus"
	"github.com/cognicore/biotag/pkg/biotag/pipeline"
)

// Register adds the writers to reg.
func Register(reg *pipeline.Registry) error {
	ctors := []struct {
		name string
		mod  pipeline.Module
	}{
		{"a1", A1{}},
		{"json", JSON{}},
		{"conll", CoNLL{}},
	}
	for _, c := range ctors {
		mod := c.mod
		if err := reg.Register(c.name, func(pipeline.Args) (pipeline.Module, error) { return mod, nil }); err != nil {
			return err
		}
	}
	return nil
}

func requires(kinds ...pipeline.ResourceKind) *pipeline.Contract {
	return &pipeline.Contract{Requires: kinds}
}

// sourceSpan returns the source character offsets of an annotation.
func sourceSpan(s *corpus.Sentence, a *corpus.Annotation) (int, int) {
	return s.OriginalStart + s.Tokens[a.Start].Start, s.OriginalStart + s.Tokens[a.End].End
}

func firstGroup(a *corpus.Annotation) string {
	if len(a.IDs) == 0 {
		return ""
	}
	return a.IDs[0].Group
}
