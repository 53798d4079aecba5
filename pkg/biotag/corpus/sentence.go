package corpus

// Sentence is a region of the corpus text with its tokens and annotation tree.
// Start and End are character offsets into the corpus text; the Original
// offsets locate the same region in the unmodified source.
type Sentence struct {
	Start         int
	End           int
	OriginalStart int
	OriginalEnd   int
	Tokens        []Token

	corpus *Corpus
	tree   *Tree
}

// Text returns the sentence text.
func (s *Sentence) Text() string {
	if s.corpus == nil || s.Start < 0 || s.End > len(s.corpus.Text) || s.Start > s.End {
		return ""
	}
	return s.corpus.Text[s.Start:s.End]
}

// Corpus returns the owning corpus.
func (s *Sentence) Corpus() *Corpus { return s.corpus }

// Tree returns the annotation tree of the sentence.
func (s *Sentence) Tree() *Tree { return s.tree }

// SetTokens replaces the tokens and resets the tree to cover them.
func (s *Sentence) SetTokens(tokens []Token) {
	for i := range tokens {
		tokens[i].Index = i
	}
	s.Tokens = tokens
	s.tree = newTree(s)
}

// Annotations returns the sentence annotations in pre-order.
func (s *Sentence) Annotations() []*Annotation {
	return s.tree.Traverse(PreOrder, false)
}

// Insert adds an annotation to the tree. See Tree.Insert.
func (s *Sentence) Insert(a *Annotation) error {
	return s.tree.Insert(a)
}
