package writers

import (
	"bufio"
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/cognicore/biotag/pkg/biotag/corpus"
	"github.com/cognicore/biotag/pkg/biotag/pipeline"
)

// CoNLL writes one tab-separated row per token: index, text, lemma, chunk,
// POS, identifiers of the covering annotations, dependency head and label,
// and two unused columns. Sentences end with a blank line.
type CoNLL struct{}

func (CoNLL) Name() string                 { return "conll" }
func (CoNLL) Extension() string            { return ".conll" }
func (CoNLL) Contract() *pipeline.Contract { return requires(pipeline.Tokens) }

func (CoNLL) Write(ctx context.Context, env *pipeline.Env, w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, s := range env.Corpus.Sentences {
		anns := s.Annotations()
		for i := range s.Tokens {
			t := &s.Tokens[i]
			cols := []string{
				strconv.Itoa(i + 1),
				t.Text,
				feature(t, corpus.FeatureLemma),
				feature(t, corpus.FeatureChunk),
				feature(t, corpus.FeaturePOS),
				tokenIDs(anns, i),
				feature(t, corpus.FeatureDepTok),
				feature(t, corpus.FeatureDepTag),
				"_",
				"_",
			}
			bw.WriteString(strings.Join(cols, "\t"))
			bw.WriteByte('\n')
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

func feature(t *corpus.Token, key string) string {
	if v, ok := t.Get(key); ok && v != "" {
		return v
	}
	return "_"
}

// tokenIDs lists the identifiers of every annotation covering token i, or
// "0" when there are none.
func tokenIDs(anns []*corpus.Annotation, i int) string {
	var ids []string
	for _, a := range anns {
		if i < a.Start || i > a.End {
			continue
		}
		for _, id := range a.IDs {
			ids = append(ids, id.String())
		}
	}
	if len(ids) == 0 {
		return "0"
	}
	return strings.Join(ids, "|")
}
