package disambiguate

import (
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/cognicore/biotag/pkg/biotag/corpus"
)

func newSentence(n int) *corpus.Sentence {
	words := make([]string, n)
	for i := range words {
		words[i] = fmt.Sprintf("t%d", i)
	}
	c := corpus.New("doc")
	c.Text = strings.Join(words, " ")
	s := c.AddSentence(0, len(c.Text))
	tokens := make([]corpus.Token, n)
	offset := 0
	for i, w := range words {
		tokens[i] = corpus.Token{Start: offset, End: offset + len(w), Text: w}
		offset += len(w) + 1
	}
	s.SetTokens(tokens)
	return s
}

func id(source, group string) corpus.Identifier {
	return corpus.Identifier{Source: source, ID: source + "-" + group, Group: group}
}

func insert(t *testing.T, s *corpus.Sentence, start, end int, ids ...corpus.Identifier) *corpus.Annotation {
	t.Helper()
	a := corpus.NewAnnotation(s, start, end, 1, ids...)
	if err := s.Insert(a); err != nil {
		t.Fatalf("insert (%d,%d): %v", start, end, err)
	}
	return a
}

// shape renders the tree as (start,end)@depth entries.
func shape(s *corpus.Sentence) []string {
	var out []string
	for _, da := range s.Tree().TraverseWithDepth(corpus.PreOrder, false) {
		out = append(out, fmt.Sprintf("(%d,%d)@%d", da.Annotation.Start, da.Annotation.End, da.Depth))
	}
	return out
}

func TestDiscardNestedSameGroup(t *testing.T) {
	s := newSentence(12)
	insert(t, s, 0, 6, id("UMLS", "PRGE"))
	insert(t, s, 1, 4, id("UMLS", "PRGE"))
	insert(t, s, 2, 2, id("UMLS", "DISO"))
	insert(t, s, 3, 3, id("UMLS", "PRGE"))
	insert(t, s, 8, 9, id("UMLS", "PRGE"))

	DiscardNestedSameGroup(s)

	want := []string{"(0,6)@1", "(2,2)@2", "(8,9)@1"}
	if got := shape(s); !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestDiscardNestedSameGroupIgnoresMixedGroups(t *testing.T) {
	s := newSentence(6)
	insert(t, s, 0, 4, id("A", "PRGE"), id("B", "DISO"))
	insert(t, s, 1, 2, id("A", "PRGE"))
	insert(t, s, 3, 3)

	DiscardNestedSameGroup(s)
	if got := len(shape(s)); got != 3 {
		t.Errorf("mixed or empty groups must not be discarded, got %d nodes", got)
	}
}

func TestDiscardByDepth(t *testing.T) {
	s := newSentence(12)
	insert(t, s, 0, 8)
	insert(t, s, 1, 6)
	insert(t, s, 2, 4)
	insert(t, s, 3, 3)
	insert(t, s, 10, 11)

	DiscardByDepth(s, 2)
	want := []string{"(0,8)@1", "(1,6)@2", "(10,11)@1"}
	if got := shape(s); !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}

	DiscardByDepth(s, 0)
	if got := shape(s); len(got) != 0 {
		t.Errorf("depth 0 should leave only the root, got %v", got)
	}
}

func TestDiscardSameGroupByPriority(t *testing.T) {
	s := newSentence(12)
	insert(t, s, 0, 3, id("ML", "PRGE"))
	insert(t, s, 2, 5, id("DICT", "PRGE"))
	insert(t, s, 4, 7, id("ML", "DISO"))
	insert(t, s, 9, 10, id("ML", "PRGE"))

	DiscardSameGroupByPriority(s, []string{"DICT", "ML"})

	want := []string{"(2,5)@1", "(4,7)@1", "(9,10)@1"}
	if got := shape(s); !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestDiscardSameGroupByPriorityTieKeepsLonger(t *testing.T) {
	s := newSentence(12)
	insert(t, s, 0, 2, id("X", "PRGE"))
	insert(t, s, 1, 5, id("Y", "PRGE"))

	DiscardSameGroupByPriority(s, []string{"DICT"})
	want := []string{"(1,5)@1"}
	if got := shape(s); !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestPriorityThenNestedSameGroup(t *testing.T) {
	s := newSentence(14)
	insert(t, s, 1, 12, id("DICT", "PRGE"))
	insert(t, s, 0, 9, id("ML", "PRGE"))
	insert(t, s, 2, 5, id("ML", "PRGE"))

	ApplySentence(s, Options{Priority: []string{"DICT", "ML"}, NestedSameGroup: true})
	if got, want := shape(s), []string{"(1,12)@1"}; !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestDiscardSameGroupByPriorityKeepsDisjointSiblings(t *testing.T) {
	s := newSentence(10)
	insert(t, s, 0, 2, id("ML", "PRGE"))
	insert(t, s, 5, 7, id("DICT", "PRGE"))

	DiscardSameGroupByPriority(s, []string{"DICT", "ML"})
	if got, want := shape(s), []string{"(0,2)@1", "(5,7)@1"}; !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestDiscardDuplicateIDs(t *testing.T) {
	s := newSentence(4)
	a := insert(t, s, 0, 1,
		corpus.Identifier{Source: "UMLS", ID: "C1", Subgroup: "T1", Group: "PRGE"},
		corpus.Identifier{Source: "UMLS", ID: "C1", Subgroup: "T2", Group: "PRGE"},
		corpus.Identifier{Source: "UMLS", ID: "C2", Subgroup: "T1", Group: "PRGE"},
	)
	DiscardDuplicateIDs(s)
	if len(a.IDs) != 2 || a.IDs[0].Subgroup != "T1" || a.IDs[1].ID != "C2" {
		t.Errorf("unexpected ids %v", a.IDs)
	}
}

func TestStrategiesIdempotent(t *testing.T) {
	build := func() *corpus.Sentence {
		s := newSentence(16)
		insert(t, s, 0, 9, id("DICT", "PRGE"))
		insert(t, s, 1, 5, id("ML", "PRGE"))
		insert(t, s, 4, 8, id("DICT", "PRGE"))
		insert(t, s, 2, 3, id("ML", "DISO"))
		insert(t, s, 2, 2, id("ML", "DISO"))
		insert(t, s, 11, 14, id("ML", "CHED"))
		insert(t, s, 13, 15, id("DICT", "CHED"))
		return s
	}
	strategies := map[string]func(*corpus.Sentence){
		"nested":   DiscardNestedSameGroup,
		"depth":    func(s *corpus.Sentence) { DiscardByDepth(s, 2) },
		"priority": func(s *corpus.Sentence) { DiscardSameGroupByPriority(s, []string{"DICT", "ML"}) },
		"ids":      DiscardDuplicateIDs,
	}
	for name, apply := range strategies {
		t.Run(name, func(t *testing.T) {
			s := build()
			apply(s)
			once := shape(s)
			apply(s)
			if twice := shape(s); !reflect.DeepEqual(once, twice) {
				t.Errorf("not idempotent: %v then %v", once, twice)
			}
		})
	}
}

func TestApply(t *testing.T) {
	s := newSentence(10)
	insert(t, s, 0, 5, id("DICT", "PRGE"))
	insert(t, s, 1, 2, id("ML", "PRGE"))
	insert(t, s, 7, 8, id("ML", "DISO"))

	Apply(s.Corpus(), Options{NestedSameGroup: true, MaxDepth: 1})
	want := []string{"(0,5)@1", "(7,8)@1"}
	if got := shape(s); !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}
