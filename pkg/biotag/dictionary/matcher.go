package dictionary

import (
	"github.com/cognicore/biotag/pkg/biotag/corpus"
)

// Match is a dictionary hit over tokens Start..End (inclusive).
type Match struct {
	Start int
	End   int
	IDs   []corpus.Identifier
}

// Matcher applies greedy longest-match lookup of one dictionary.
type Matcher struct {
	dict   *Dictionary
	lemmas bool
}

// NewMatcher creates a matcher. With lemmas set, tokens are looked up by
// their LEMMA feature when they carry one.
func NewMatcher(d *Dictionary, lemmas bool) *Matcher {
	return &Matcher{dict: d, lemmas: lemmas}
}

// Match scans the sentence left to right, taking the longest name starting
// at each position and resuming after it.
func (m *Matcher) Match(s *corpus.Sentence) []Match {
	var matches []Match
	tokens := s.Tokens
	form := m.form

	i := 0
	for i < len(tokens) {
		maxPhrase := m.dict.maxLen
		if remaining := len(tokens) - i; maxPhrase > remaining {
			maxPhrase = remaining
		}
		matched := 0
		for n := maxPhrase; n >= 1; n-- {
			key := joinTokens(tokens[i:i+n], form)
			if ids, ok := m.dict.entries[key]; ok {
				matches = append(matches, Match{Start: i, End: i + n - 1, IDs: ids})
				matched = n
				break
			}
		}
		if matched > 0 {
			i += matched
		} else {
			i++
		}
	}
	return matches
}

func (m *Matcher) form(t corpus.Token) string {
	if m.lemmas {
		if lemma, ok := t.Get(corpus.FeatureLemma); ok {
			return lemma
		}
	}
	return t.Text
}
