// Package stats aggregates annotation statistics. A Collector is owned by a
// single worker; the batch driver merges worker collectors at the end of a run.
package stats

import (
	"sort"

	"github.com/cognicore/biotag/pkg/biotag/corpus"
)

// Collector aggregates document-level annotation counts.
type Collector struct {
	docs        int64
	sentences   int64
	tokens      int64
	annotations int64
	byGroup     map[string]int64
	bySource    map[string]int64
	byTag       map[string]int64
	conceptDF   map[string]int64 // documents mentioning each identifier
	groupPairs  map[pair]int64   // groups co-occurring in one sentence
}

type pair struct {
	A string
	B string
}

func newPair(a, b string) pair {
	if a > b {
		a, b = b, a
	}
	return pair{A: a, B: b}
}

// NewCollector creates an empty collector.
func NewCollector() *Collector {
	return &Collector{
		byGroup:    make(map[string]int64),
		bySource:   make(map[string]int64),
		byTag:      make(map[string]int64),
		conceptDF:  make(map[string]int64),
		groupPairs: make(map[pair]int64),
	}
}

// Process consumes one finished document.
func (c *Collector) Process(doc *corpus.Corpus) {
	c.docs++
	seen := make(map[string]struct{})

	for _, s := range doc.Sentences {
		c.sentences++
		c.tokens += int64(len(s.Tokens))

		groups := make(map[string]struct{})
		for _, a := range s.Annotations() {
			c.annotations++
			c.byTag[a.Tag().String()]++
			if g := a.Group(); g != "" {
				c.byGroup[g]++
				groups[g] = struct{}{}
			}
			sources := make(map[string]struct{}, len(a.IDs))
			for _, id := range a.IDs {
				if _, ok := sources[id.Source]; !ok {
					sources[id.Source] = struct{}{}
					c.bySource[id.Source]++
				}
				key := id.String()
				if _, ok := seen[key]; !ok {
					seen[key] = struct{}{}
					c.conceptDF[key]++
				}
			}
		}

		unique := make([]string, 0, len(groups))
		for g := range groups {
			unique = append(unique, g)
		}
		sort.Strings(unique)
		for i := 0; i < len(unique); i++ {
			for j := i + 1; j < len(unique); j++ {
				c.groupPairs[newPair(unique[i], unique[j])]++
			}
		}
	}
}

// Merge adds the counts of other into c.
func (c *Collector) Merge(other *Collector) {
	if other == nil {
		return
	}
	c.docs += other.docs
	c.sentences += other.sentences
	c.tokens += other.tokens
	c.annotations += other.annotations
	mergeCounts(c.byGroup, other.byGroup)
	mergeCounts(c.bySource, other.bySource)
	mergeCounts(c.byTag, other.byTag)
	mergeCounts(c.conceptDF, other.conceptDF)
	for p, n := range other.groupPairs {
		c.groupPairs[p] += n
	}
}

func mergeCounts(dst, src map[string]int64) {
	for k, n := range src {
		dst[k] += n
	}
}

// Snapshot exposes the aggregated counts.
type Snapshot struct {
	Documents   int64
	Sentences   int64
	Tokens      int64
	Annotations int64
	ByGroup     map[string]int64
	BySource    map[string]int64
	ByTag       map[string]int64
	ConceptDF   map[string]int64
	GroupPairs  []GroupPair
}

// GroupPair counts sentences in which two groups were both annotated.
type GroupPair struct {
	A     string
	B     string
	Count int64
}

// Snapshot returns a copy of the accumulated statistics.
func (c *Collector) Snapshot() Snapshot {
	pairs := make([]GroupPair, 0, len(c.groupPairs))
	for p, n := range c.groupPairs {
		pairs = append(pairs, GroupPair{A: p.A, B: p.B, Count: n})
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].Count != pairs[j].Count {
			return pairs[i].Count > pairs[j].Count
		}
		if pairs[i].A != pairs[j].A {
			return pairs[i].A < pairs[j].A
		}
		return pairs[i].B < pairs[j].B
	})
	return Snapshot{
		Documents:   c.docs,
		Sentences:   c.sentences,
		Tokens:      c.tokens,
		Annotations: c.annotations,
		ByGroup:     copyCounts(c.byGroup),
		BySource:    copyCounts(c.bySource),
		ByTag:       copyCounts(c.byTag),
		ConceptDF:   copyCounts(c.conceptDF),
		GroupPairs:  pairs,
	}
}

func copyCounts(m map[string]int64) map[string]int64 {
	out := make(map[string]int64, len(m))
	for k, n := range m {
		out[k] = n
	}
	return out
}

// ConceptCount is one entry of TopConcepts.
type ConceptCount struct {
	Concept   string
	Documents int64
}

// TopConcepts returns the k identifiers found in the most documents.
func (s Snapshot) TopConcepts(k int) []ConceptCount {
	out := make([]ConceptCount, 0, len(s.ConceptDF))
	for c, n := range s.ConceptDF {
		out = append(out, ConceptCount{Concept: c, Documents: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Documents != out[j].Documents {
			return out[i].Documents > out[j].Documents
		}
		return out[i].Concept < out[j].Concept
	})
	if k > 0 && len(out) > k {
		out = out[:k]
	}
	return out
}
