// Package nlp defines the pooled language resources (parsers, sentence
// splitters and tagger models) and the rule-based implementations shipped
// with biotag.
package nlp

import "github.com/cognicore/biotag/pkg/biotag/corpus"

// Resource is an expensive, stateful object used by one worker at a time.
type Resource interface {
	Launch() error
	Close() error
}

// Parser tokenizes a sentence and annotates its tokens up to Level.
type Parser interface {
	Resource
	Level() corpus.ParserLevel
	Parse(s *corpus.Sentence) error
}

// SentenceSplitter finds sentence boundaries in a text. Each span is a
// [start, end) byte range.
type SentenceSplitter interface {
	Resource
	Split(text string) [][2]int
}

// Tagger recognizes concepts in a parsed sentence and inserts them into its
// annotation tree.
type Tagger interface {
	Resource
	Name() string
	// Level is the parser level the model needs its input tokens at.
	Level() corpus.ParserLevel
	Tag(s *corpus.Sentence) error
}
