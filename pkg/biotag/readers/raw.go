package readers

import (
	"context"
	"io"

	"github.com/cognicore/biotag/pkg/biotag/corpus"
	"github.com/cognicore/biotag/pkg/biotag/pipeline"
)

// Raw reads plain text. Blank lines separate passages and the corpus text is
// the input unchanged.
type Raw struct{}

func (Raw) Name() string                 { return "raw" }
func (Raw) Contract() *pipeline.Contract { return readerContract() }

func (Raw) Read(ctx context.Context, env *pipeline.Env, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	c := env.Corpus
	c.Text = string(data)

	start := 0
	for start < len(c.Text) {
		end, next := paragraphEnd(c.Text, start)
		addRawPassage(env, start, end)
		start = next
	}
	return nil
}

func addRawPassage(env *pipeline.Env, start, end int) {
	text := env.Corpus.Text
	for start < end && isSpace(text[start]) {
		start++
	}
	for end > start && isSpace(text[end-1]) {
		end--
	}
	if start == end {
		return
	}
	env.Corpus.AddPassage(corpus.Passage{
		Start:         start,
		End:           end,
		OriginalStart: start,
		OriginalEnd:   end,
		Kind:          "paragraph",
	})
}

// paragraphEnd returns the end of the paragraph starting at start and the
// offset after the blank line(s) that close it.
func paragraphEnd(text string, start int) (int, int) {
	i := start
	for i < len(text) {
		if text[i] != '\n' {
			i++
			continue
		}
		j := i + 1
		for j < len(text) && (text[j] == ' ' || text[j] == '\t' || text[j] == '\r') {
			j++
		}
		if j < len(text) && text[j] == '\n' {
			next := j
			for next < len(text) && isSpace(text[next]) {
				next++
			}
			return i, next
		}
		i = j
	}
	return len(text), len(text)
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\r' || b == '\n'
}
