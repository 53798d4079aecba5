// Package pipeline assembles modules into a validated chain and drives them
// over one document at a time.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// OutputFunc opens the destination of one writer.
type OutputFunc func(w Writes) (io.WriteCloser, error)

// Pipeline is a validated module chain: an optional reader, transforming
// modules, then writers.
type Pipeline struct {
	modules    []Module
	reader     Reads
	transforms []Module
	writers    []Writes
}

// New validates modules against seed and splits them by capability. A reader
// may only come first and writers only last.
func New(modules []Module, seed ...ResourceKind) (*Pipeline, error) {
	if err := Validate(modules, seed...); err != nil {
		return nil, err
	}

	p := &Pipeline{modules: modules}
	for i, m := range modules {
		switch mod := m.(type) {
		case Reads:
			if i != 0 {
				return nil, &MissingContractError{Module: m.Name(), Reason: "reader must be the first module"}
			}
			p.reader = mod
		case Writes:
			p.writers = append(p.writers, mod)
		default:
			if !transforms(m) {
				return nil, &MissingContractError{Module: m.Name(), Reason: "module reads, writes or transforms nothing"}
			}
			if len(p.writers) > 0 {
				return nil, &MissingContractError{Module: m.Name(), Reason: "transforming module placed after a writer"}
			}
			p.transforms = append(p.transforms, m)
		}
	}
	return p, nil
}

// Modules returns the chain in order.
func (p *Pipeline) Modules() []Module {
	return append([]Module(nil), p.modules...)
}

// Writers returns the writers in order.
func (p *Pipeline) Writers() []Writes {
	return append([]Writes(nil), p.writers...)
}

// Run processes one document. The reader consumes in; each transforming
// module then fires once per passage, sentence or document, in document
// order; each writer finally gets its own output from out.
func (p *Pipeline) Run(ctx context.Context, env *Env, in io.Reader, out OutputFunc) error {
	if p.reader != nil {
		if err := p.reader.Read(ctx, env, in); err != nil {
			return fmt.Errorf("%s: %w", p.reader.Name(), err)
		}
	}

	for _, m := range p.transforms {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := runTransform(ctx, env, m); err != nil {
			return fmt.Errorf("%s: %w", m.Name(), err)
		}
	}

	for _, w := range p.writers {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := runWriter(ctx, env, w, out); err != nil {
			return fmt.Errorf("%s: %w", w.Name(), err)
		}
	}
	return nil
}

func runTransform(ctx context.Context, env *Env, m Module) error {
	c := env.Corpus
	if pt, ok := m.(PassageTransformer); ok {
		for _, passage := range c.Passages {
			if err := pt.TransformPassage(ctx, env, passage); err != nil {
				return err
			}
		}
	}
	if st, ok := m.(SentenceTransformer); ok {
		for _, s := range c.Sentences {
			if err := st.TransformSentence(ctx, env, s); err != nil {
				return err
			}
		}
	}
	if dt, ok := m.(DocumentTransformer); ok {
		if err := dt.TransformDocument(ctx, env); err != nil {
			return err
		}
	}
	return nil
}

func runWriter(ctx context.Context, env *Env, w Writes, out OutputFunc) (err error) {
	if out == nil {
		return errors.New("no output for writer")
	}
	wc, err := out(w)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := wc.Close(); err == nil {
			err = cerr
		}
	}()
	return w.Write(ctx, env, wc)
}

func transforms(m Module) bool {
	switch m.(type) {
	case PassageTransformer, SentenceTransformer, DocumentTransformer:
		return true
	}
	return false
}
