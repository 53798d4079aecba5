package readers

import (
	"context"
	"fmt"
	"io"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"

	"github.com/cognicore/biotag/pkg/biotag/internalerr"
	"github.com/cognicore/biotag/pkg/biotag/pipeline"
)

// DefaultXPath selects every leaf element.
const DefaultXPath = "//*[not(*)]"

// XML reads an XML document; every node selected by the expression becomes
// a passage. Source offsets are not tracked.
type XML struct {
	expr     string
	compiled *xpath.Expr
}

// NewXML compiles expr once; the reader is shared by all workers.
func NewXML(expr string) (*XML, error) {
	compiled, err := xpath.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("xpath %q: %v: %w", expr, err, internalerr.ErrInvalidConfig)
	}
	return &XML{expr: expr, compiled: compiled}, nil
}

func (x *XML) Name() string                 { return "xml" }
func (x *XML) Contract() *pipeline.Contract { return readerContract() }

func (x *XML) Read(ctx context.Context, env *pipeline.Env, r io.Reader) error {
	doc, err := xmlquery.Parse(r)
	if err != nil {
		return fmt.Errorf("parsing XML: %w", err)
	}
	for _, n := range xmlquery.QuerySelectorAll(doc, x.compiled) {
		kind := n.Data
		if n.Type != xmlquery.ElementNode && n.Parent != nil {
			kind = n.Parent.Data
		}
		appendPassage(env.Corpus, n.InnerText(), kind, -1)
	}
	return nil
}
