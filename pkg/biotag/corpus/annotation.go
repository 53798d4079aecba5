package corpus

// Tag classifies an annotation by its position in the tree.
type Tag int

const (
	TagLeaf Tag = iota
	TagNested
	TagIntersection
)

func (t Tag) String() string {
	switch t {
	case TagNested:
		return "NESTED"
	case TagIntersection:
		return "INTERSECTION"
	default:
		return "LEAF"
	}
}

// Annotation labels the inclusive token span [Start, End] of one sentence.
type Annotation struct {
	Start      int
	End        int
	Score      float64
	IDs        []Identifier
	Normalized bool

	sentence *Sentence
	tag      Tag
}

// NewAnnotation creates an annotation over tokens start..end of s. The
// annotation owns a copy of ids.
func NewAnnotation(s *Sentence, start, end int, score float64, ids ...Identifier) *Annotation {
	return &Annotation{
		Start:      start,
		End:        end,
		Score:      score,
		IDs:        append([]Identifier(nil), ids...),
		Normalized: len(ids) > 0,
		sentence:   s,
	}
}

// Sentence returns the owning sentence.
func (a *Annotation) Sentence() *Sentence { return a.sentence }

// Tag returns the classification assigned by the tree.
func (a *Annotation) Tag() Tag { return a.tag }

// Len is the number of tokens covered.
func (a *Annotation) Len() int { return a.End - a.Start + 1 }

// Text returns the covered sentence text.
func (a *Annotation) Text() string {
	s := a.sentence
	if s == nil || a.Start < 0 || a.End >= len(s.Tokens) || a.Start > a.End {
		return ""
	}
	return s.Text()[s.Tokens[a.Start].Start:s.Tokens[a.End].End]
}

// AddID attaches an identifier unless an equal one is already present.
func (a *Annotation) AddID(id Identifier) {
	for _, existing := range a.IDs {
		if existing == id {
			return
		}
	}
	a.IDs = append(a.IDs, id)
	a.Normalized = true
}

// Equal reports structural equality: same sentence span and same token span.
func (a *Annotation) Equal(b *Annotation) bool {
	if a == nil || b == nil {
		return a == b
	}
	return sameSentence(a.sentence, b.sentence) && a.Start == b.Start && a.End == b.End
}

// Contains reports whether b lies within a without being equal to it.
func (a *Annotation) Contains(b *Annotation) bool {
	if !sameSentence(a.sentence, b.sentence) || a.Equal(b) {
		return false
	}
	return a.Start <= b.Start && a.End >= b.End
}

// Nested reports whether a lies within b without being equal to it.
func (a *Annotation) Nested(b *Annotation) bool {
	return b.Contains(a)
}

// Intersects reports whether a and b share tokens while neither contains the other.
func (a *Annotation) Intersects(b *Annotation) bool {
	if !sameSentence(a.sentence, b.sentence) || a.Equal(b) {
		return false
	}
	if a.Contains(b) || b.Contains(a) {
		return false
	}
	return a.Start <= b.End && b.Start <= a.End
}

// Group returns the semantic group shared by all identifiers, or "" when the
// annotation has none or mixes groups.
func (a *Annotation) Group() string {
	if len(a.IDs) == 0 {
		return ""
	}
	g := a.IDs[0].Group
	for _, id := range a.IDs[1:] {
		if id.Group != g {
			return ""
		}
	}
	return g
}

// SameGroup reports whether every identifier of a and b belongs to one group.
func (a *Annotation) SameGroup(b *Annotation) bool {
	g := a.Group()
	return g != "" && g == b.Group()
}

func sameSentence(x, y *Sentence) bool {
	if x == y {
		return true
	}
	if x == nil || y == nil {
		return false
	}
	return x.Start == y.Start && x.End == y.End && x.Text() == y.Text()
}
