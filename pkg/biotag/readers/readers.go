// Package readers holds the modules that fill an empty corpus from raw input,
// and the input opener used by the batch driver.
package readers

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ulikunitz/xz"

	"github.com/cognicore/biotag/pkg/biotag/corpus"
	"github.com/cognicore/biotag/pkg/biotag/pipeline"
)

// passageSeparator joins passages in the corpus text of structured inputs.
const passageSeparator = "\n\n"

// Register adds the readers to reg.
func Register(reg *pipeline.Registry) error {
	if err := reg.Register("raw", func(pipeline.Args) (pipeline.Module, error) {
		return Raw{}, nil
	}); err != nil {
		return err
	}
	if err := reg.Register("html", func(pipeline.Args) (pipeline.Module, error) {
		return HTML{}, nil
	}); err != nil {
		return err
	}
	return reg.Register("xml", func(args pipeline.Args) (pipeline.Module, error) {
		return NewXML(args.String("xpath", DefaultXPath))
	})
}

func readerContract() *pipeline.Contract {
	return &pipeline.Contract{Provides: []pipeline.ResourceKind{pipeline.Passages}}
}

// Open opens an input file, decompressing it when the name ends in .xz.
func Open(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(filepath.Ext(path), ".xz") {
		return f, nil
	}
	zr, err := xz.NewReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return &xzFile{Reader: zr, f: f}, nil
}

type xzFile struct {
	*xz.Reader
	f *os.File
}

func (x *xzFile) Close() error { return x.f.Close() }

// appendPassage adds text to the corpus as a passage of its own.
// Leading and trailing space is dropped and origStart moved accordingly;
// a negative origStart marks an unknown source position.
func appendPassage(c *corpus.Corpus, text, kind string, origStart int) {
	trimmed := strings.TrimLeft(text, " \t\r\n")
	lead := len(text) - len(trimmed)
	trimmed = strings.TrimRight(trimmed, " \t\r\n")
	if trimmed == "" {
		return
	}
	if len(c.Passages) > 0 {
		c.Text += passageSeparator
	}
	p := corpus.Passage{
		Start:         len(c.Text),
		End:           len(c.Text) + len(trimmed),
		OriginalStart: -1,
		OriginalEnd:   -1,
		Kind:          kind,
	}
	if origStart >= 0 {
		p.OriginalStart = origStart + lead
		p.OriginalEnd = p.OriginalStart + len(trimmed)
	}
	c.Text += trimmed
	c.AddPassage(p)
}
