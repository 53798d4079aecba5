// Package disambiguate prunes sentence annotation trees.
//
// Every strategy is idempotent and touches only the tree of the sentence it
// is given.
package disambiguate

import (
	"github.com/cognicore/biotag/pkg/biotag/corpus"
)

// Options selects the strategies run by Apply.
type Options struct {
	DuplicateIDs    bool
	Priority        []string
	NestedSameGroup bool
	// MaxDepth truncates trees below this depth when positive.
	MaxDepth int
}

// Apply runs the enabled strategies over every sentence of c, in the order
// duplicate ids, priority, nested same group, depth.
func Apply(c *corpus.Corpus, opts Options) {
	for _, s := range c.Sentences {
		ApplySentence(s, opts)
	}
}

// ApplySentence runs the enabled strategies over one sentence.
func ApplySentence(s *corpus.Sentence, opts Options) {
	if opts.DuplicateIDs {
		DiscardDuplicateIDs(s)
	}
	if len(opts.Priority) > 0 {
		DiscardSameGroupByPriority(s, opts.Priority)
	}
	if opts.NestedSameGroup {
		DiscardNestedSameGroup(s)
	}
	if opts.MaxDepth > 0 {
		DiscardByDepth(s, opts.MaxDepth)
	}
}

// DiscardNestedSameGroup removes every annotation whose identifiers share the
// group of its parent's identifiers. Grandchildren move up to the parent.
func DiscardNestedSameGroup(s *corpus.Sentence) {
	tree := s.Tree()
	for {
		var victim *corpus.Annotation
		tree.Walk(corpus.PreOrder, false, func(n *corpus.Node, depth int) bool {
			if depth < 2 {
				return true
			}
			if n.Parent().Annotation().SameGroup(n.Annotation()) {
				victim = n.Annotation()
				return false
			}
			return true
		})
		if victim == nil {
			return
		}
		tree.Remove(victim)
	}
}

// DiscardByDepth removes every annotation deeper than maxDepth (root = 0).
// Children of a removed node would land below the same ancestor and exceed
// the limit again, so the whole subtree goes.
func DiscardByDepth(s *corpus.Sentence, maxDepth int) {
	if maxDepth < 0 {
		maxDepth = 0
	}
	tree := s.Tree()
	var cut []*corpus.Annotation
	tree.Walk(corpus.PreOrder, false, func(n *corpus.Node, depth int) bool {
		if depth == maxDepth+1 {
			cut = append(cut, n.Annotation())
		}
		return true
	})
	for _, a := range cut {
		tree.RemoveWithChildren(a)
	}
}

// DiscardSameGroupByPriority resolves overlapping siblings of one group. The
// annotation whose identifier source appears first in priority wins; sources
// missing from the list rank last. Ties keep the longer span, then the
// earlier one. The loser is removed and its children promoted. Same-group
// siblings that do not overlap are distinct mentions and are all kept.
func DiscardSameGroupByPriority(s *corpus.Sentence, priority []string) {
	rank := make(map[string]int, len(priority))
	for i, p := range priority {
		if _, ok := rank[p]; !ok {
			rank[p] = i
		}
	}
	tree := s.Tree()
	for {
		loser := findLoser(tree, rank, len(priority))
		if loser == nil {
			return
		}
		tree.Remove(loser)
	}
}

func findLoser(tree *corpus.Tree, rank map[string]int, last int) *corpus.Annotation {
	var loser *corpus.Annotation
	tree.Walk(corpus.PreOrder, true, func(n *corpus.Node, _ int) bool {
		kids := n.Children()
		for i := 0; i < len(kids); i++ {
			for j := i + 1; j < len(kids); j++ {
				a, b := kids[i].Annotation(), kids[j].Annotation()
				if !a.SameGroup(b) || !a.Intersects(b) {
					continue
				}
				if beats(b, a, rank, last) {
					loser = a
				} else {
					loser = b
				}
				return false
			}
		}
		return true
	})
	return loser
}

// beats reports whether a should be kept over b.
func beats(a, b *corpus.Annotation, rank map[string]int, last int) bool {
	ra, rb := sourceRank(a, rank, last), sourceRank(b, rank, last)
	if ra != rb {
		return ra < rb
	}
	if a.Len() != b.Len() {
		return a.Len() > b.Len()
	}
	return a.Start < b.Start
}

func sourceRank(a *corpus.Annotation, rank map[string]int, last int) int {
	best := last
	for _, id := range a.IDs {
		if r, ok := rank[id.Source]; ok && r < best {
			best = r
		}
	}
	return best
}

// DiscardDuplicateIDs drops identifiers that repeat the group and id of an
// earlier identifier on the same annotation with a different subgroup.
func DiscardDuplicateIDs(s *corpus.Sentence) {
	for _, a := range s.Annotations() {
		type key struct{ id, group string }
		seen := make(map[key]bool, len(a.IDs))
		kept := a.IDs[:0]
		for _, id := range a.IDs {
			k := key{id.ID, id.Group}
			if seen[k] {
				continue
			}
			seen[k] = true
			kept = append(kept, id)
		}
		a.IDs = kept
	}
}
