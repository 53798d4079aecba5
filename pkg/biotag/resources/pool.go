package resources

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/cognicore/biotag/pkg/biotag/internalerr"
	"github.com/cognicore/biotag/pkg/biotag/nlp"
)

// pool holds the interchangeable instances of one resource kind. The channel
// capacity always equals the number of live instances, so returning an
// instance never blocks.
type pool[T nlp.Resource] struct {
	kind   string
	create func() (T, error)
	ch     chan T
	all    []T
	closed int
	out    atomic.Int64
}

func newPool[T nlp.Resource](kind string, create func() (T, error)) *pool[T] {
	return &pool[T]{kind: kind, create: create, ch: make(chan T)}
}

// grow constructs instances until the pool holds n. It must not run while
// any instance is checked out.
func (p *pool[T]) grow(n int) error {
	if n <= len(p.all) {
		return nil
	}
	ch := make(chan T, n)
	for len(p.ch) > 0 {
		ch <- <-p.ch
	}
	p.ch = ch
	for len(p.all) < n {
		r, err := p.create()
		if err != nil {
			return &ResourceAcquisitionError{Kind: p.kind, Err: err}
		}
		if err := r.Launch(); err != nil {
			r.Close()
			return &ResourceAcquisitionError{Kind: p.kind, Err: err}
		}
		p.all = append(p.all, r)
		p.ch <- r
	}
	return nil
}

// take removes one instance, waiting until one is free.
func (p *pool[T]) take(ctx context.Context, closing <-chan struct{}) (T, error) {
	var zero T
	select {
	case <-closing:
		return zero, fmt.Errorf("take %s: %w", p.kind, internalerr.ErrTerminated)
	default:
	}
	select {
	case r := <-p.ch:
		p.out.Add(1)
		return r, nil
	case <-closing:
		return zero, fmt.Errorf("take %s: %w", p.kind, internalerr.ErrTerminated)
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

func (p *pool[T]) put(r T) {
	p.out.Add(-1)
	p.ch <- r
}

// drain closes every instance still owned by the pool, waiting for checked
// out ones to come back.
func (p *pool[T]) drain(ctx context.Context) []error {
	var errs []error
	for p.closed < len(p.all) {
		select {
		case r := <-p.ch:
			p.closed++
			if err := r.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close %s: %w", p.kind, err))
			}
		case <-ctx.Done():
			return append(errs, ctx.Err())
		}
	}
	return errs
}

// closeAll closes the instances built so far; used when Initialize fails.
func (p *pool[T]) closeAll() {
	for _, r := range p.all {
		r.Close()
	}
	p.all = nil
	p.ch = make(chan T)
}

func (p *pool[T]) stats() KindStats {
	return KindStats{
		Kind:       p.kind,
		Available:  len(p.ch),
		CheckedOut: int(p.out.Load()),
		Total:      len(p.all) - p.closed,
	}
}
