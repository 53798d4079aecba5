package nlp

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"github.com/cognicore/biotag/pkg/biotag/corpus"
	"github.com/cognicore/biotag/pkg/biotag/internalerr"
	"github.com/cognicore/biotag/pkg/biotag/lexicon"
)

// RuleParser tokenizes text with character rules, assigns shape-based POS
// tags and lexicon lemmas. It supports levels up to lemmatization.
type RuleParser struct {
	level       corpus.ParserLevel
	lexiconPath string
	lexicon     *lexicon.Lexicon
}

// NewRuleParser creates a parser for the given level. lexiconPath may be empty,
// in which case lemmas are the lowercased token text.
func NewRuleParser(level corpus.ParserLevel, lexiconPath string) *RuleParser {
	return &RuleParser{level: level, lexiconPath: lexiconPath}
}

// Launch loads the lexicon.
func (p *RuleParser) Launch() error {
	if p.level > corpus.LevelLemmatization {
		return fmt.Errorf("rule parser does not support %s: %w", p.level, internalerr.ErrInvalidConfig)
	}
	if p.lexiconPath == "" {
		p.lexicon = lexicon.New()
		return nil
	}
	lex, err := lexicon.LoadFromYAML(p.lexiconPath)
	if err != nil {
		return fmt.Errorf("load lexicon: %w", err)
	}
	p.lexicon = lex
	return nil
}

// Close releases the lexicon.
func (p *RuleParser) Close() error {
	p.lexicon = nil
	return nil
}

// Level returns the configured level.
func (p *RuleParser) Level() corpus.ParserLevel { return p.level }

// Parse replaces the sentence tokens.
func (p *RuleParser) Parse(s *corpus.Sentence) error {
	if p.lexicon == nil {
		return fmt.Errorf("rule parser used before launch: %w", internalerr.ErrNotInitialized)
	}
	tokens := Tokenize(s.Text())
	for i := range tokens {
		tok := &tokens[i]
		if p.level.Covers(corpus.LevelPOS) {
			tok.Set(corpus.FeaturePOS, shapeTag(tok.Text))
		}
		if p.level.Covers(corpus.LevelLemmatization) {
			tok.Set(corpus.FeatureLemma, p.lexicon.Lemma(tok.Text))
		}
	}
	s.SetTokens(tokens)
	return nil
}

// Tokenize splits text into tokens with byte offsets. Runs of letters and
// digits form a token; a hyphen between two such runs joins them (IL-2);
// every other non-space rune is a token of its own.
func Tokenize(text string) []corpus.Token {
	var tokens []corpus.Token
	start := -1

	flush := func(end int) {
		if start >= 0 {
			tokens = append(tokens, corpus.Token{Start: start, End: end, Text: text[start:end]})
			start = -1
		}
	}

	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		switch {
		case isWordRune(r):
			if start < 0 {
				start = i
			}
		case r == '-' && start >= 0 && nextIsWord(text, i+size):
			// joined
		default:
			flush(i)
			if !unicode.IsSpace(r) {
				tokens = append(tokens, corpus.Token{Start: i, End: i + size, Text: text[i : i+size]})
			}
		}
		i += size
	}
	flush(len(text))

	for i := range tokens {
		tokens[i].Index = i
	}
	return tokens
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsNumber(r)
}

func nextIsWord(text string, i int) bool {
	if i >= len(text) {
		return false
	}
	r, _ := utf8.DecodeRuneInString(text[i:])
	return isWordRune(r)
}

// shapeTag guesses a Penn-style tag from the token's characters.
func shapeTag(text string) string {
	var letters, digits, upper, other int
	for _, r := range text {
		switch {
		case unicode.IsDigit(r):
			digits++
		case unicode.IsLetter(r):
			letters++
			if unicode.IsUpper(r) {
				upper++
			}
		default:
			other++
		}
	}
	switch {
	case letters == 0 && digits > 0:
		return "CD"
	case letters == 0 && digits == 0:
		if utf8.RuneCountInString(text) == 1 && unicode.IsPunct([]rune(text)[0]) {
			return text
		}
		return "SYM"
	case digits > 0 || upper > 1:
		return "NNP"
	default:
		return "NN"
	}
}
