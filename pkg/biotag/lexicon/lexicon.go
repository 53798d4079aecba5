package lexicon

import (
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Lexicon maps inflected word forms to their lemma:
// - Forms: explicit form → lemma entries (mice → mouse)
// - Suffix rules: fallback rewrites tried longest suffix first (ies → y)
//
// Lookups are case-insensitive; lemmas are returned lowercase.
type Lexicon struct {
	// lemma -> all forms (including lemma itself)
	forms map[string][]string

	// form -> lemma
	reverseIndex map[string]string

	rules []SuffixRule
}

// SuffixRule rewrites a trailing suffix when no explicit form matches.
type SuffixRule struct {
	Suffix  string `yaml:"suffix"`
	Replace string `yaml:"replace"`
	// MinStem is the shortest stem the rule may leave behind.
	MinStem int `yaml:"min_stem"`
}

// New creates an empty lexicon.
func New() *Lexicon {
	return &Lexicon{
		forms:        make(map[string][]string),
		reverseIndex: make(map[string]string),
	}
}

// LoadFromYAML loads lemma mappings from a YAML file.
//
// Expected format:
//
//	lemmas:
//	  - lemma: mouse
//	    forms: [mice]
//	  - lemma: bind
//	    forms: [binds, binding, bound]
//	suffixes:
//	  - {suffix: ies, replace: y, min_stem: 2}
//	  - {suffix: s, replace: "", min_stem: 3}
func LoadFromYAML(path string) (*Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var config struct {
		Lemmas []struct {
			Lemma string   `yaml:"lemma"`
			Forms []string `yaml:"forms"`
		} `yaml:"lemmas"`
		Suffixes []SuffixRule `yaml:"suffixes"`
	}

	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	lex := New()
	for _, entry := range config.Lemmas {
		lex.AddForms(entry.Lemma, entry.Forms)
	}
	for _, r := range config.Suffixes {
		lex.AddSuffixRule(r)
	}
	return lex, nil
}

// AddForms registers forms of lemma. Re-adding a lemma replaces its forms.
func (l *Lexicon) AddForms(lemma string, forms []string) {
	lemma = strings.ToLower(lemma)

	if old, exists := l.forms[lemma]; exists {
		for _, f := range old {
			delete(l.reverseIndex, f)
		}
	}

	all := make([]string, 0, len(forms)+1)
	seen := map[string]bool{lemma: true}
	all = append(all, lemma)
	for _, f := range forms {
		f = strings.ToLower(f)
		if !seen[f] {
			all = append(all, f)
			seen[f] = true
		}
	}

	l.forms[lemma] = all
	for _, f := range all {
		l.reverseIndex[f] = lemma
	}
}

// AddSuffixRule registers a fallback rule. Longer suffixes are tried first.
func (l *Lexicon) AddSuffixRule(r SuffixRule) {
	r.Suffix = strings.ToLower(r.Suffix)
	l.rules = append(l.rules, r)
	sort.SliceStable(l.rules, func(i, j int) bool {
		return len(l.rules[i].Suffix) > len(l.rules[j].Suffix)
	})
}

// Lemma returns the lemma of a word form. Unknown forms go through the
// suffix rules and otherwise come back lowercased.
//
// Examples:
//   - Lemma("Mice") -> "mouse"
//   - Lemma("kinases") -> "kinase" (with an "s" rule)
func (l *Lexicon) Lemma(form string) string {
	form = strings.ToLower(form)
	if lemma, ok := l.reverseIndex[form]; ok {
		return lemma
	}
	for _, r := range l.rules {
		if r.Suffix == "" || !strings.HasSuffix(form, r.Suffix) {
			continue
		}
		stem := form[:len(form)-len(r.Suffix)]
		if len(stem) < r.MinStem {
			continue
		}
		return stem + r.Replace
	}
	return form
}

// Forms returns every known form of a word's lemma, the lemma first.
func (l *Lexicon) Forms(word string) []string {
	lemma := l.Lemma(word)
	if forms, ok := l.forms[lemma]; ok {
		return forms
	}
	return []string{lemma}
}

// Known reports whether the form has an explicit entry.
func (l *Lexicon) Known(form string) bool {
	_, ok := l.reverseIndex[strings.ToLower(form)]
	return ok
}

// Stats holds counts about lexicon contents.
type Stats struct {
	Lemmas      int
	Forms       int
	SuffixRules int
}

// Stats returns counts about the lexicon contents.
func (l *Lexicon) Stats() Stats {
	return Stats{Lemmas: len(l.forms), Forms: len(l.reverseIndex), SuffixRules: len(l.rules)}
}
