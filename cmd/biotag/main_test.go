package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cognicore/biotag/pkg/biotag/internalerr"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

// project lays out resources, two input documents and a configuration that
// persists to a SQLite store. It returns the config path.
func project(t *testing.T, pipeline string) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "dicts", "_priority"), "genes.tsv\n")
	writeFile(t, filepath.Join(dir, "dicts", "genes.tsv"), "UMLS:C1:T028:PRGE\tp53\n")
	writeFile(t, filepath.Join(dir, "in", "a.txt"), "The p53 protein was found.\n")
	writeFile(t, filepath.Join(dir, "in", "b.txt"), "Loss of p53 was observed.\n\nNothing here.\n")

	cfg := `threads: 2
dictionaries: dicts
store: biotag.db
input:
  dir: in
  pattern: "*.txt"
output:
  dir: out
log:
  level: error
pipeline:
` + pipeline
	path := filepath.Join(dir, "biotag.yaml")
	writeFile(t, path, cfg)
	return path
}

const fullPipeline = `  - name: raw
  - name: sentences
  - name: nlp
  - name: dictionaries
  - name: persist
  - name: a1
`

func TestRunAndQuery(t *testing.T) {
	path := project(t, fullPipeline)
	dir := filepath.Dir(path)

	var out bytes.Buffer
	run := &RunCmd{Config: path, NoProgress: true, Top: 5}
	if err := run.run(context.Background(), &out); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out.String(), "Processed 2 documents, 0 failed") {
		t.Errorf("unexpected summary:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "UMLS:C1:T028:PRGE") {
		t.Errorf("top concepts missing:\n%s", out.String())
	}

	for _, id := range []string{"a", "b"} {
		data, err := os.ReadFile(filepath.Join(dir, "out", id+".a1"))
		if err != nil {
			t.Fatalf("output %s: %v", id, err)
		}
		if !strings.Contains(string(data), "PRGE") {
			t.Errorf("%s.a1 has no annotation: %q", id, data)
		}
	}

	out.Reset()
	q := &ConceptsCmd{Store: filepath.Join(dir, "biotag.db"), Limit: 10, Concept: "C1"}
	if err := q.run(context.Background(), &out); err != nil {
		t.Fatalf("concepts: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 || !strings.HasPrefix(lines[0], "a\t") || !strings.HasPrefix(lines[1], "b\t") {
		t.Errorf("unexpected mentions:\n%s", out.String())
	}

	out.Reset()
	q.Concept = "C404"
	if err := q.run(context.Background(), &out); err != nil {
		t.Fatalf("concepts: %v", err)
	}
	if !strings.Contains(out.String(), "No mentions of C404") {
		t.Errorf("unexpected output %q", out.String())
	}
}

func TestValidateCommand(t *testing.T) {
	var out bytes.Buffer
	cmd := &ValidateCmd{Config: project(t, fullPipeline)}
	if err := cmd.run(context.Background(), &out); err != nil {
		t.Fatalf("validate: %v", err)
	}
	for _, want := range []string{"sentences", "dictionaries", "Dictionaries: 1", "Pipeline OK"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
}

func TestValidateRejectsBrokenPipeline(t *testing.T) {
	// dictionaries needs tokens, which nothing provides.
	broken := `  - name: raw
  - name: sentences
  - name: dictionaries
  - name: a1
`
	cmd := &ValidateCmd{Config: project(t, broken)}
	err := cmd.run(context.Background(), &bytes.Buffer{})
	if !errors.Is(err, internalerr.ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestAnnotateCommand(t *testing.T) {
	path := project(t, fullPipeline)
	var out bytes.Buffer
	cmd := &AnnotateCmd{Config: path, File: filepath.Join(filepath.Dir(path), "in", "a.txt")}
	if err := cmd.run(context.Background(), &out); err != nil {
		t.Fatalf("annotate: %v", err)
	}
	if !strings.HasPrefix(out.String(), "T0\tPRGE 4 7\tp53") {
		t.Errorf("unexpected a1 output %q", out.String())
	}
}
