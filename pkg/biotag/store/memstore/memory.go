package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/cognicore/biotag/pkg/biotag/corpus"
	"github.com/cognicore/biotag/pkg/biotag/internalerr"
	"github.com/cognicore/biotag/pkg/biotag/store"
)

// Store is an in-memory implementation of store.Store for tests.
type Store struct {
	mu   sync.RWMutex
	docs map[string]store.Document
	now  func() time.Time
}

// New creates a new in-memory store.
func New() *Store {
	return &Store{
		docs: make(map[string]store.Document),
		now:  time.Now,
	}
}

// Close implements store.Store.
func (s *Store) Close() error { return nil }

// SaveCorpus replaces any document stored under the corpus id.
func (s *Store) SaveCorpus(ctx context.Context, c *corpus.Corpus) error {
	if c == nil || c.ID == "" {
		return internalerr.ErrInvalidInput
	}
	doc := store.FromCorpus(c, s.now())

	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[doc.ID] = doc
	return nil
}

// GetDocument returns a copy of the stored document.
func (s *Store) GetDocument(ctx context.Context, id string) (store.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.docs[id]
	if !ok {
		return store.Document{}, internalerr.ErrNotFound
	}
	return copyDocument(doc), nil
}

// FindByConcept returns mentions ordered by document id and offset.
func (s *Store) FindByConcept(ctx context.Context, concept string, limit int) ([]store.Mention, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 100
	}

	var out []store.Mention
	for _, doc := range s.docs {
		for _, m := range doc.Mentions {
			if m.HasConcept(concept) {
				out = append(out, copyMention(m))
			}
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DocumentID != out[j].DocumentID {
			return out[i].DocumentID < out[j].DocumentID
		}
		if out[i].Start != out[j].Start {
			return out[i].Start < out[j].Start
		}
		return out[i].End < out[j].End
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func copyDocument(d store.Document) store.Document {
	out := d
	out.Mentions = make([]store.Mention, len(d.Mentions))
	for i, m := range d.Mentions {
		out.Mentions[i] = copyMention(m)
	}
	return out
}

func copyMention(m store.Mention) store.Mention {
	ids := make([]corpus.Identifier, len(m.IDs))
	copy(ids, m.IDs)
	m.IDs = ids
	return m
}
