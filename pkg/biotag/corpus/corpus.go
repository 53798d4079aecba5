package corpus

// Passage is a structural region of the corpus text produced by a reader.
type Passage struct {
	Start         int
	End           int
	OriginalStart int
	OriginalEnd   int
	Kind          string
}

// Corpus is one document being processed.
type Corpus struct {
	ID        string
	Text      string
	Passages  []Passage
	Sentences []*Sentence
}

// New creates an empty corpus.
func New(id string) *Corpus {
	return &Corpus{ID: id}
}

// PassageText returns the text of p.
func (c *Corpus) PassageText(p Passage) string {
	if p.Start < 0 || p.End > len(c.Text) || p.Start > p.End {
		return ""
	}
	return c.Text[p.Start:p.End]
}

// AddPassage records a passage over Text[start:end].
func (c *Corpus) AddPassage(p Passage) {
	c.Passages = append(c.Passages, p)
}

// AddSentence creates a sentence over Text[start:end]. Original offsets
// default to the text offsets.
func (c *Corpus) AddSentence(start, end int) *Sentence {
	s := &Sentence{
		Start:         start,
		End:           end,
		OriginalStart: start,
		OriginalEnd:   end,
		corpus:        c,
	}
	s.tree = newTree(s)
	c.Sentences = append(c.Sentences, s)
	return s
}

// Annotations returns every annotation of the corpus, sentence by sentence.
func (c *Corpus) Annotations() []*Annotation {
	var all []*Annotation
	for _, s := range c.Sentences {
		all = append(all, s.Annotations()...)
	}
	return all
}
