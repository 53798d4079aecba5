package writers

import (
	"context"
	"encoding/json"
	"io"

	"github.com/cognicore/biotag/pkg/biotag/corpus"
	"github.com/cognicore/biotag/pkg/biotag/pipeline"
)

// JSONSentence is one sentence of the JSON output.
type JSONSentence struct {
	ID    int        `json:"id"`
	Start int        `json:"start"`
	End   int        `json:"end"`
	Text  string     `json:"text"`
	Terms []JSONTerm `json:"terms"`
}

// JSONTerm is one annotation; nested annotations are listed under Terms.
type JSONTerm struct {
	ID    int        `json:"id"`
	Start int        `json:"start"`
	End   int        `json:"end"`
	Text  string     `json:"text"`
	IDs   string     `json:"ids"`
	Score float64    `json:"score"`
	Tag   string     `json:"tag"`
	Terms []JSONTerm `json:"terms,omitempty"`
}

// JSON writes every sentence with its annotation tree.
type JSON struct{}

func (JSON) Name() string                 { return "json" }
func (JSON) Extension() string            { return ".json" }
func (JSON) Contract() *pipeline.Contract { return requires(pipeline.Annotations) }

func (JSON) Write(ctx context.Context, env *pipeline.Env, w io.Writer) error {
	out := make([]JSONSentence, 0, len(env.Corpus.Sentences))
	for i, s := range env.Corpus.Sentences {
		out = append(out, JSONSentence{
			ID:    i,
			Start: s.OriginalStart,
			End:   s.OriginalEnd,
			Text:  s.Text(),
			Terms: jsonTerms(s, s.Tree().Root()),
		})
	}
	enc := json.NewEncoder(w)
	return enc.Encode(out)
}

func jsonTerms(s *corpus.Sentence, n *corpus.Node) []JSONTerm {
	children := n.Children()
	if len(children) == 0 {
		return nil
	}
	terms := make([]JSONTerm, 0, len(children))
	for i, c := range children {
		a := c.Annotation()
		start, end := sourceSpan(s, a)
		terms = append(terms, JSONTerm{
			ID:    i,
			Start: start,
			End:   end,
			Text:  a.Text(),
			IDs:   corpus.FormatIdentifiers(a.IDs),
			Score: a.Score,
			Tag:   a.Tag().String(),
			Terms: jsonTerms(s, c),
		})
	}
	return terms
}
