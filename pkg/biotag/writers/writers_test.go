package writers

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/cognicore/biotag/pkg/biotag/corpus"
	"github.com/cognicore/biotag/pkg/biotag/nlp"
	"github.com/cognicore/biotag/pkg/biotag/pipeline"
)

func id(concept, group string) corpus.Identifier {
	return corpus.Identifier{Source: "UMLS", ID: concept, Subgroup: "T1", Group: group}
}

func sample(t *testing.T) *pipeline.Env {
	t.Helper()
	c := corpus.New("doc")
	c.Text = "Inhaled corticosteroids (ICS) treat asthma."
	s := c.AddSentence(0, len(c.Text))
	s.OriginalStart, s.OriginalEnd = 100, 100+len(c.Text)
	s.SetTokens(nlp.Tokenize(s.Text()))
	s.Tokens[1].Set(corpus.FeatureLemma, "corticosteroid")
	s.Tokens[1].Set(corpus.FeaturePOS, "NNS")

	anns := []*corpus.Annotation{
		corpus.NewAnnotation(s, 0, 1, 1, id("C1", "CHEM")),
		corpus.NewAnnotation(s, 1, 1, 0.5, id("C2", "CHEM")),
		corpus.NewAnnotation(s, 3, 3, 1, id("C1", "CHEM")),
		corpus.NewAnnotation(s, 6, 6, 1, id("C3", "DISO")),
	}
	for _, a := range anns {
		if err := s.Insert(a); err != nil {
			t.Fatalf("Insert: %v", err)
		}
	}
	return &pipeline.Env{Corpus: c}
}

func write(t *testing.T, w pipeline.Writes, env *pipeline.Env) string {
	t.Helper()
	var buf bytes.Buffer
	if err := w.Write(context.Background(), env, &buf); err != nil {
		t.Fatalf("%s: %v", w.Name(), err)
	}
	return buf.String()
}

func TestA1(t *testing.T) {
	got := write(t, A1{}, sample(t))
	want := strings.Join([]string{
		"T0\tCHEM 100 123\tInhaled corticosteroids",
		"N0\tReference T0 UMLS:C1:T1:CHEM\tInhaled corticosteroids",
		"T1\tCHEM 108 123\tcorticosteroids",
		"N1\tReference T1 UMLS:C2:T1:CHEM\tcorticosteroids",
		"T2\tCHEM 125 128\tICS",
		"N2\tReference T2 UMLS:C1:T1:CHEM\tICS",
		"T3\tDISO 136 142\tasthma",
		"N3\tReference T3 UMLS:C3:T1:DISO\tasthma",
	}, "\n") + "\n"
	if got != want {
		t.Fatalf("A1 output:\n%s\nwant:\n%s", got, want)
	}
}

func TestCoNLL(t *testing.T) {
	lines := strings.Split(write(t, CoNLL{}, sample(t)), "\n")
	// 8 tokens, the blank sentence separator and the final empty split.
	if len(lines) != 10 {
		t.Fatalf("expected 10 lines, got %d: %q", len(lines), lines)
	}
	want := []string{
		"1\tInhaled\t_\t_\t_\tUMLS:C1:T1:CHEM\t_\t_\t_\t_",
		"2\tcorticosteroids\tcorticosteroid\t_\tNNS\tUMLS:C1:T1:CHEM|UMLS:C2:T1:CHEM\t_\t_\t_\t_",
		"3\t(\t_\t_\t_\t0\t_\t_\t_\t_",
	}
	for i, w := range want {
		if lines[i] != w {
			t.Errorf("line %d = %q, want %q", i, lines[i], w)
		}
	}
	if lines[8] != "" {
		t.Errorf("sentence not closed by a blank line: %q", lines[8])
	}
}

func TestJSON(t *testing.T) {
	var out []JSONSentence
	if err := json.Unmarshal([]byte(write(t, JSON{}, sample(t))), &out); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("expected one sentence, got %d", len(out))
	}
	s := out[0]
	if s.Start != 100 || s.Text != "Inhaled corticosteroids (ICS) treat asthma." {
		t.Errorf("unexpected sentence header %+v", s)
	}
	if len(s.Terms) != 3 {
		t.Fatalf("expected 3 top-level terms, got %d", len(s.Terms))
	}
	outer := s.Terms[0]
	if outer.Text != "Inhaled corticosteroids" || outer.Tag != "LEAF" || len(outer.Terms) != 1 {
		t.Fatalf("unexpected outer term %+v", outer)
	}
	inner := outer.Terms[0]
	if inner.IDs != "UMLS:C2:T1:CHEM" || inner.Tag != "NESTED" || inner.Score != 0.5 {
		t.Errorf("unexpected nested term %+v", inner)
	}
}

func TestRegister(t *testing.T) {
	reg := pipeline.NewRegistry()
	if err := Register(reg); err != nil {
		t.Fatalf("Register: %v", err)
	}
	mods, err := reg.Build([]pipeline.Spec{{Name: "a1"}, {Name: "json"}, {Name: "conll"}})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	exts := map[string]string{"a1": ".a1", "json": ".json", "conll": ".conll"}
	for _, m := range mods {
		w, ok := m.(pipeline.Writes)
		if !ok {
			t.Fatalf("%s is not a writer", m.Name())
		}
		if w.Extension() != exts[m.Name()] {
			t.Errorf("%s extension = %q", m.Name(), w.Extension())
		}
	}
}
