package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/cognicore/biotag/pkg/biotag/corpus"
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

// fixture lays out a complete resource tree and returns the config path.
func fixture(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "lexicon.yaml"), "lemmas:\n  - lemma: mouse\n    forms: [mice]\n")
	writeFile(t, filepath.Join(dir, "stopwords.yaml"), "terms: [was]\n")
	writeFile(t, filepath.Join(dir, "dicts", "_priority"), "genes.tsv\n")
	writeFile(t, filepath.Join(dir, "dicts", "genes.tsv"),
		"UMLS:C1:T028:PRGE\tp53|TP53\nUMLS:C2:T028:PRGE\tWAS\n")
	writeFile(t, filepath.Join(dir, "models", "_priority"), "disease.yaml\n")
	writeFile(t, filepath.Join(dir, "models", "disease.yaml"),
		"name: disease\ngroup: DISO\nlevel: pos\npatterns:\n  - {regex: tumou?r, id: C9, subgroup: T191}\n")

	cfg := `threads: 4
parser_level: lemmatization
lexicon: lexicon.yaml
dictionaries: dicts
models: models
stopwords: stopwords.yaml
abbreviations: [e.g., Fig.]
input:
  dir: in
  pattern: "*.txt"
output:
  dir: out
pipeline:
  - name: raw
  - name: sentences
  - name: nlp
  - name: dictionaries
    args:
      lemmas: "true"
  - name: model
    args:
      name: disease
  - name: a1
`
	path := filepath.Join(dir, "biotag.yaml")
	writeFile(t, path, cfg)
	return path
}

func TestLoadConfig(t *testing.T) {
	path := fixture(t)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	dir := filepath.Dir(path)

	if cfg.Threads != 4 || cfg.Level() != corpus.LevelLemmatization {
		t.Errorf("unexpected threads/level: %d %s", cfg.Threads, cfg.Level())
	}
	if cfg.Input.Dir != filepath.Join(dir, "in") || cfg.Input.Pattern != "*.txt" {
		t.Errorf("input not resolved: %+v", cfg.Input)
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "text" {
		t.Errorf("log defaults not applied: %+v", cfg.Log)
	}
	if len(cfg.Pipeline) != 6 || cfg.Pipeline[3].Args.String("lemmas", "") != "true" {
		t.Errorf("unexpected pipeline %+v", cfg.Pipeline)
	}
	if len(cfg.Abbreviations) != 2 {
		t.Errorf("unexpected abbreviations %v", cfg.Abbreviations)
	}
}

func TestLoadDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "min.yaml")
	writeFile(t, path, "pipeline:\n  - name: raw\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Threads != 1 || cfg.Level() != corpus.LevelTokenization || cfg.Input.Pattern != "*" {
		t.Errorf("defaults not applied: %+v", cfg)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"negative threads", "threads: -1\npipeline: [{name: raw}]\n"},
		{"unknown level", "parser_level: semantics\npipeline: [{name: raw}]\n"},
		{"unknown log level", "log: {level: loud}\npipeline: [{name: raw}]\n"},
		{"unknown log format", "log: {format: xml}\npipeline: [{name: raw}]\n"},
		{"empty pipeline", "threads: 2\n"},
		{"unnamed module", "pipeline: [{args: {a: b}}]\n"},
		{"broken yaml", "pipeline: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "c.yaml")
			writeFile(t, path, tt.yaml)
			if _, err := Load(path); !errors.Is(err, internalerr.ErrInvalidConfig) {
				t.Fatalf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestLoaderComponents(t *testing.T) {
	cfg, err := Load(fixture(t))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	loader := cfg.Loader()
	comp, err := loader.Load()
	if err != nil {
		t.Fatalf("Loader.Load: %v", err)
	}

	if comp.Lexicon.Lemma("mice") != "mouse" {
		t.Errorf("lexicon not loaded")
	}
	if !comp.Stops.IsStop("was") {
		t.Errorf("stopwords not loaded")
	}
	if len(comp.Dictionaries) != 1 || comp.Dictionaries[0].Size() != 2 {
		t.Fatalf("unexpected dictionaries %+v", comp.Dictionaries)
	}
	if len(comp.Models) != 1 || comp.Models[0].Name != "disease" || comp.ModelLevels["disease"] != corpus.LevelPOS {
		t.Fatalf("unexpected models %+v %v", comp.Models, comp.ModelLevels)
	}

	tagger, err := comp.Models[0].New()
	if err != nil {
		t.Fatalf("model constructor: %v", err)
	}
	if err := tagger.Launch(); err != nil {
		t.Fatalf("Launch: %v", err)
	}
	defer tagger.Close()
	if tagger.Name() != "disease" || tagger.Level() != corpus.LevelPOS {
		t.Errorf("unexpected tagger %s at %s", tagger.Name(), tagger.Level())
	}

	rcfg := cfg.Resources(comp)
	parser, err := rcfg.NewParser()
	if err != nil {
		t.Fatalf("NewParser: %v", err)
	}
	if parser.Level() != corpus.LevelLemmatization {
		t.Errorf("parser level = %s", parser.Level())
	}
	if err := parser.Launch(); err != nil {
		t.Fatalf("parser Launch: %v", err)
	}
	parser.Close()
}

func TestLoaderEmpty(t *testing.T) {
	loader := Loader{}
	comp, err := loader.Load()
	if err != nil {
		t.Fatalf("Empty loader should succeed: %v", err)
	}
	if comp.Lexicon == nil || comp.Stops == nil {
		t.Error("Should have empty lexicon and stoplist")
	}
	if len(comp.Dictionaries) != 0 || len(comp.Models) != 0 {
		t.Error("Should have no dictionaries or models")
	}
}

func TestLoaderMissingFiles(t *testing.T) {
	tests := map[string]Loader{
		"lexicon":      {LexiconPath: "/nonexistent/lexicon.yaml"},
		"stopwords":    {StopwordsPath: "/nonexistent/stop.yaml"},
		"dictionaries": {DictionariesDir: "/nonexistent/dicts"},
		"models":       {ModelsDir: "/nonexistent/models"},
	}
	for name, loader := range tests {
		if _, err := loader.Load(); err == nil {
			t.Errorf("%s: should error on missing files", name)
		}
	}
}
