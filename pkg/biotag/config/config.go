// Package config loads the YAML run configuration and the resource files it
// points to.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/biotag/internal/logging"
	"github.com/cognicore/biotag/pkg/biotag/corpus"
	"github.com/cognicore/biotag/pkg/biotag/internalerr"
	"github.com/cognicore/biotag/pkg/biotag/pipeline"
)

// Config is the YAML run configuration.
type Config struct {
	Threads       int      `yaml:"threads"`
	ParserLevel   string   `yaml:"parser_level"`
	Lexicon       string   `yaml:"lexicon"`
	Abbreviations []string `yaml:"abbreviations"`
	Dictionaries  string   `yaml:"dictionaries"`
	Models        string   `yaml:"models"`
	Stopwords     string   `yaml:"stopwords"`
	Store         string   `yaml:"store"`

	Input struct {
		Dir     string `yaml:"dir"`
		Pattern string `yaml:"pattern"`
	} `yaml:"input"`

	Output struct {
		Dir string `yaml:"dir"`
	} `yaml:"output"`

	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`

	Pipeline []pipeline.Spec `yaml:"pipeline"`
}

// Load reads a configuration file, fills defaults and validates it.
// Relative paths are resolved against the file's directory.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %v: %w", path, err, internalerr.ErrInvalidConfig)
	}
	cfg.applyDefaults()
	cfg.resolve(filepath.Dir(path))
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Threads == 0 {
		c.Threads = 1
	}
	if c.ParserLevel == "" {
		c.ParserLevel = corpus.LevelTokenization.String()
	}
	if c.Input.Pattern == "" {
		c.Input.Pattern = "*"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

func (c *Config) resolve(base string) {
	for _, p := range []*string{&c.Lexicon, &c.Dictionaries, &c.Models, &c.Stopwords, &c.Store, &c.Input.Dir, &c.Output.Dir} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(base, *p)
		}
	}
}

// Validate checks the fields that have no usable default.
func (c *Config) Validate() error {
	if c.Threads < 1 {
		return fmt.Errorf("threads must be at least 1, got %d: %w", c.Threads, internalerr.ErrInvalidConfig)
	}
	if _, err := corpus.ParseLevel(c.ParserLevel); err != nil {
		return fmt.Errorf("parser_level: %v: %w", err, internalerr.ErrInvalidConfig)
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %v: %w", err, internalerr.ErrInvalidConfig)
	}
	if _, err := logging.ParseFormat(c.Log.Format); err != nil {
		return fmt.Errorf("log.format: %v: %w", err, internalerr.ErrInvalidConfig)
	}
	if len(c.Pipeline) == 0 {
		return fmt.Errorf("pipeline is empty: %w", internalerr.ErrInvalidConfig)
	}
	for i, s := range c.Pipeline {
		if s.Name == "" {
			return fmt.Errorf("pipeline[%d] has no name: %w", i, internalerr.ErrInvalidConfig)
		}
	}
	return nil
}

// Level returns the parsed parser level. Call after Validate.
func (c *Config) Level() corpus.ParserLevel {
	l, _ := corpus.ParseLevel(c.ParserLevel)
	return l
}

// Loader returns a component loader for the configured paths.
func (c *Config) Loader() Loader {
	return Loader{
		LexiconPath:     c.Lexicon,
		DictionariesDir: c.Dictionaries,
		ModelsDir:       c.Models,
		StopwordsPath:   c.Stopwords,
	}
}
