// Package dictionary loads concept dictionaries and matches their names
// against sentence tokens.
package dictionary

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cognicore/biotag/pkg/biotag/corpus"
	"github.com/cognicore/biotag/pkg/biotag/internalerr"
	"github.com/cognicore/biotag/pkg/biotag/nlp"
	"github.com/cognicore/biotag/pkg/biotag/stoplist"
)

// Dictionary maps normalized names to concept identifiers.
type Dictionary struct {
	Name  string
	Group string

	entries map[string][]corpus.Identifier // key → identifiers
	maxLen  int                            // longest name, in tokens
}

// New creates an empty dictionary.
func New(name, group string) *Dictionary {
	return &Dictionary{Name: name, Group: group, entries: make(map[string][]corpus.Identifier), maxLen: 1}
}

// Add registers a name for the given identifiers.
func (d *Dictionary) Add(name string, ids []corpus.Identifier) {
	tokens := nlp.Tokenize(name)
	if len(tokens) == 0 {
		return
	}
	key := joinTokens(tokens, func(t corpus.Token) string { return t.Text })
	existing := d.entries[key]
	for _, id := range ids {
		if !containsID(existing, id) {
			existing = append(existing, id)
		}
	}
	d.entries[key] = existing
	if len(tokens) > d.maxLen {
		d.maxLen = len(tokens)
	}
}

// Size is the number of distinct names.
func (d *Dictionary) Size() int { return len(d.entries) }

// Lookup returns a copy of the identifiers of a name.
func (d *Dictionary) Lookup(name string) []corpus.Identifier {
	tokens := nlp.Tokenize(name)
	ids := d.entries[joinTokens(tokens, func(t corpus.Token) string { return t.Text })]
	return append([]corpus.Identifier(nil), ids...)
}

// Load reads a dictionary file. Each line holds '|' separated identifiers,
// a tab, and '|' separated names:
//
//	UMLS:C0079419:T116:PRGE	p53|TP53|tumor protein p53
//
// The group comes from the first identifier. Names in stops are skipped.
func Load(path string, stops *stoplist.Manager) (*Dictionary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	d := New(filepath.Base(path), "")
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 64*1024), 4*1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.SplitN(line, "\t", 2)
		if len(fields) != 2 {
			return nil, fmt.Errorf("%s:%d: expected ids<TAB>names: %w", path, lineNo, internalerr.ErrInvalidInput)
		}
		ids, err := corpus.ParseIdentifiers(fields[0])
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", path, lineNo, err)
		}
		if len(ids) == 0 {
			return nil, fmt.Errorf("%s:%d: no identifiers: %w", path, lineNo, internalerr.ErrInvalidInput)
		}
		if d.Group == "" {
			d.Group = ids[0].Group
		}
		for _, name := range strings.Split(fields[1], "|") {
			name = strings.TrimSpace(name)
			if name == "" || stops.IsStop(name) {
				continue
			}
			d.Add(name, ids)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return d, nil
}

// LoadAll loads the dictionaries listed in dir's priority file, in order.
func LoadAll(dir string, stops *stoplist.Manager) ([]*Dictionary, error) {
	names, err := LoadPriorityFile(filepath.Join(dir, PriorityFile))
	if err != nil {
		return nil, fmt.Errorf("read priority: %w", err)
	}
	dicts := make([]*Dictionary, 0, len(names))
	for _, name := range names {
		d, err := Load(filepath.Join(dir, name), stops)
		if err != nil {
			return nil, fmt.Errorf("load dictionary %s: %w", name, err)
		}
		dicts = append(dicts, d)
	}
	return dicts, nil
}

func containsID(ids []corpus.Identifier, id corpus.Identifier) bool {
	for _, existing := range ids {
		if existing == id {
			return true
		}
	}
	return false
}

// joinTokens builds a lookup key: lowercased token forms joined by a space
// where the source text had whitespace between them and directly otherwise,
// so "IL 2" and "IL-2" stay distinct while spacing variations collapse.
func joinTokens(tokens []corpus.Token, form func(corpus.Token) string) string {
	var b strings.Builder
	for i, t := range tokens {
		if i > 0 && t.Start > tokens[i-1].End {
			b.WriteByte(' ')
		}
		b.WriteString(strings.ToLower(form(t)))
	}
	return b.String()
}
