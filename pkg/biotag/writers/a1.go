package writers

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/cognicore/biotag/pkg/biotag/corpus"
	"github.com/cognicore/biotag/pkg/biotag/pipeline"
)

// A1 writes brat standoff: one T line per annotation, in pre-order, followed
// by an N line holding its identifiers.
type A1 struct{}

func (A1) Name() string                 { return "a1" }
func (A1) Extension() string            { return ".a1" }
func (A1) Contract() *pipeline.Contract { return requires(pipeline.Annotations) }

func (A1) Write(ctx context.Context, env *pipeline.Env, w io.Writer) error {
	bw := bufio.NewWriter(w)
	n := 0
	for _, s := range env.Corpus.Sentences {
		for _, a := range s.Annotations() {
			start, end := sourceSpan(s, a)
			text := a.Text()
			fmt.Fprintf(bw, "T%d\t%s %d %d\t%s\n", n, firstGroup(a), start, end, text)
			fmt.Fprintf(bw, "N%d\tReference T%d %s\t%s\n", n, n, corpus.FormatIdentifiers(a.IDs), text)
			n++
		}
	}
	return bw.Flush()
}
