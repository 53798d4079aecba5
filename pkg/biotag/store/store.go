package store

import (
	"context"
	"encoding/hex"
	"time"

	"github.com/zeebo/blake3"

	"github.com/cognicore/biotag/pkg/biotag/corpus"
)

// Store persists annotated documents and answers concept queries.
type Store interface {
	Close() error

	// SaveCorpus inserts or replaces the document keyed by the corpus id.
	SaveCorpus(ctx context.Context, c *corpus.Corpus) error
	// GetDocument returns internalerr.ErrNotFound for unknown ids.
	GetDocument(ctx context.Context, id string) (Document, error)
	// FindByConcept lists mentions whose identifiers carry the concept id.
	FindByConcept(ctx context.Context, concept string, limit int) ([]Mention, error)
}

// Document is the stored form of one processed corpus.
type Document struct {
	ID        string
	Hash      string
	Sentences int
	StoredAt  time.Time
	Mentions  []Mention
}

// Mention is one stored annotation. Start and End are character offsets
// into the source document.
type Mention struct {
	DocumentID string
	Sentence   int
	Start      int
	End        int
	Text       string
	Group      string
	Tag        string
	Score      float64
	IDs        []corpus.Identifier
}

// HasConcept reports whether any identifier of m has the given id.
func (m Mention) HasConcept(concept string) bool {
	for _, id := range m.IDs {
		if id.ID == concept {
			return true
		}
	}
	return false
}

// Hash returns the hex blake3 digest of the corpus text.
func Hash(text string) string {
	sum := blake3.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// FromCorpus flattens c into its stored form.
func FromCorpus(c *corpus.Corpus, now time.Time) Document {
	doc := Document{
		ID:        c.ID,
		Hash:      Hash(c.Text),
		Sentences: len(c.Sentences),
		StoredAt:  now.UTC(),
	}
	for i, s := range c.Sentences {
		for _, a := range s.Annotations() {
			if a.Start < 0 || a.End >= len(s.Tokens) {
				continue
			}
			ids := make([]corpus.Identifier, len(a.IDs))
			copy(ids, a.IDs)
			doc.Mentions = append(doc.Mentions, Mention{
				DocumentID: c.ID,
				Sentence:   i,
				Start:      s.OriginalStart + s.Tokens[a.Start].Start,
				End:        s.OriginalStart + s.Tokens[a.End].End,
				Text:       a.Text(),
				Group:      a.Group(),
				Tag:        a.Tag().String(),
				Score:      a.Score,
				IDs:        ids,
			})
		}
	}
	return doc
}
