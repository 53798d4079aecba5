package nlp

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// RuleSplitter ends sentences at '.', '!' or '?' followed by whitespace and an
// upper-case letter or digit, unless the word before the period is a known
// abbreviation.
type RuleSplitter struct {
	abbreviations map[string]struct{}
	configured    []string
}

// NewRuleSplitter creates a splitter. Abbreviations are matched with their
// trailing period ("e.g.", "Fig.") and ignore case.
func NewRuleSplitter(abbreviations []string) *RuleSplitter {
	return &RuleSplitter{configured: abbreviations}
}

// Launch builds the abbreviation set.
func (sp *RuleSplitter) Launch() error {
	sp.abbreviations = make(map[string]struct{}, len(sp.configured))
	for _, a := range sp.configured {
		sp.abbreviations[strings.ToLower(strings.TrimSpace(a))] = struct{}{}
	}
	return nil
}

// Close drops the abbreviation set.
func (sp *RuleSplitter) Close() error {
	sp.abbreviations = nil
	return nil
}

// Split returns the sentence spans of text, trimmed of surrounding space.
func (sp *RuleSplitter) Split(text string) [][2]int {
	var spans [][2]int
	start := 0

	emit := func(end int) {
		s, e := trimSpan(text, start, end)
		if s < e {
			spans = append(spans, [2]int{s, e})
		}
		start = end
	}

	for i := 0; i < len(text); i++ {
		c := text[i]
		if c != '.' && c != '!' && c != '?' {
			continue
		}
		end := i + 1
		if !boundaryFollows(text, end) {
			continue
		}
		if c == '.' && sp.isAbbreviation(text[start:end]) {
			continue
		}
		emit(end)
	}
	emit(len(text))
	return spans
}

func (sp *RuleSplitter) isAbbreviation(sentence string) bool {
	word := sentence
	if i := strings.LastIndexFunc(sentence, unicode.IsSpace); i >= 0 {
		word = sentence[i+1:]
	}
	word = strings.TrimLeftFunc(word, func(r rune) bool { return !unicode.IsLetter(r) })
	_, ok := sp.abbreviations[strings.ToLower(word)]
	return ok
}

// boundaryFollows reports whether text[i:] starts with whitespace followed by
// an upper-case letter or digit, or is empty.
func boundaryFollows(text string, i int) bool {
	if i >= len(text) {
		return true
	}
	r, size := utf8.DecodeRuneInString(text[i:])
	if !unicode.IsSpace(r) {
		return false
	}
	for j := i + size; j < len(text); {
		r, size = utf8.DecodeRuneInString(text[j:])
		if unicode.IsSpace(r) {
			j += size
			continue
		}
		return unicode.IsUpper(r) || unicode.IsDigit(r)
	}
	return true
}

func trimSpan(text string, start, end int) (int, int) {
	for start < end {
		r, size := utf8.DecodeRuneInString(text[start:end])
		if !unicode.IsSpace(r) {
			break
		}
		start += size
	}
	for end > start {
		r, size := utf8.DecodeLastRuneInString(text[start:end])
		if !unicode.IsSpace(r) {
			break
		}
		end -= size
	}
	return start, end
}
