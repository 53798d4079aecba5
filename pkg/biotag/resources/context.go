// Package resources pools the expensive, single-consumer language resources
// shared by concurrent document workers.
package resources

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/oklog/ulid/v2"

	"github.com/cognicore/biotag/internal/logging"
	"github.com/cognicore/biotag/pkg/biotag/internalerr"
	"github.com/cognicore/biotag/pkg/biotag/nlp"
)

// State is the lifecycle state of a Context. Transitions only move forward.
type State int

const (
	StateUninitialized State = iota
	StateInitialized
	StateMultiThreaded
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StateInitialized:
		return "INITIALIZED"
	case StateMultiThreaded:
		return "MULTI_THREADED"
	case StateTerminated:
		return "TERMINATED"
	default:
		return "UNINITIALIZED"
	}
}

// ModelSpec names a tagger model and how to build one instance of it.
type ModelSpec struct {
	Name string
	New  func() (nlp.Tagger, error)
}

// Config lists the resource kinds a Context pools. A nil parser or splitter
// constructor leaves that kind out of every ResourceSet.
type Config struct {
	NewParser   func() (nlp.Parser, error)
	NewSplitter func() (nlp.SentenceSplitter, error)
	Models      []ModelSpec
}

// KindStats is a snapshot of one pool.
type KindStats struct {
	Kind       string
	Available  int
	CheckedOut int
	Total      int
}

// Context owns one pool per resource kind: the parser, the sentence splitter
// and one per tagger model.
type Context struct {
	mu      sync.Mutex
	drainMu sync.Mutex
	state   State

	parser   *pool[nlp.Parser]
	splitter *pool[nlp.SentenceSplitter]
	models   []*pool[nlp.Tagger]

	leased    map[string]*ResourceSet
	entropy   *ulid.MonotonicEntropy
	closing   chan struct{}
	closeOnce sync.Once
}

// New creates an uninitialized Context. Models are pooled in name order.
func New(cfg Config) (*Context, error) {
	c := &Context{
		leased:  make(map[string]*ResourceSet),
		entropy: ulid.Monotonic(rand.Reader, 0),
		closing: make(chan struct{}),
	}
	if cfg.NewParser != nil {
		c.parser = newPool("parser", cfg.NewParser)
	}
	if cfg.NewSplitter != nil {
		c.splitter = newPool("splitter", cfg.NewSplitter)
	}
	models := append([]ModelSpec(nil), cfg.Models...)
	sort.SliceStable(models, func(i, j int) bool { return models[i].Name < models[j].Name })
	seen := make(map[string]bool, len(models))
	for _, m := range models {
		if m.Name == "" || m.New == nil {
			return nil, fmt.Errorf("model spec %q: %w", m.Name, internalerr.ErrInvalidConfig)
		}
		if seen[m.Name] {
			return nil, fmt.Errorf("model %q: %w", m.Name, internalerr.ErrDuplicate)
		}
		seen[m.Name] = true
		c.models = append(c.models, newPool("model:"+m.Name, m.New))
	}
	return c, nil
}

// State returns the lifecycle state.
func (c *Context) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Initialize builds one instance of every kind. Calling it again is a no-op.
// On failure every instance built so far is closed and the Context stays
// uninitialized.
func (c *Context) Initialize() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.state {
	case StateInitialized, StateMultiThreaded:
		return nil
	case StateTerminated:
		return fmt.Errorf("initialize: %w", internalerr.ErrTerminated)
	}

	if err := c.growAll(1); err != nil {
		c.closeAll()
		return err
	}
	c.state = StateInitialized
	logging.PoolEvent("initialized", "kinds", c.kindCount())
	return nil
}

// AddMultiThreadingSupport grows every pool to n instances. It must complete
// before workers start taking resource sets.
func (c *Context) AddMultiThreadingSupport(n int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.state {
	case StateUninitialized:
		return &NotInitializedError{Op: "add multi-threading support", State: c.state}
	case StateTerminated:
		return fmt.Errorf("add multi-threading support: %w", internalerr.ErrTerminated)
	}
	if n < 1 {
		return fmt.Errorf("pool size %d: %w", n, internalerr.ErrInvalidInput)
	}
	if len(c.leased) > 0 {
		return fmt.Errorf("pool size change with %d sets checked out: %w", len(c.leased), internalerr.ErrInvalidInput)
	}
	if err := c.growAll(n); err != nil {
		return err
	}
	c.state = StateMultiThreaded
	logging.PoolEvent("resized", "size", n)
	return nil
}

// Take blocks until one instance of every kind is free and returns them as a
// ResourceSet. Kinds are acquired in a fixed order (parser, splitter, models
// by name) so concurrent takers cannot deadlock on each other. If ctx ends or
// the Context terminates first, the instances acquired so far go back.
func (c *Context) Take(ctx context.Context) (*ResourceSet, error) {
	c.mu.Lock()
	switch c.state {
	case StateUninitialized:
		c.mu.Unlock()
		return nil, &NotInitializedError{Op: "take", State: c.state}
	case StateTerminated:
		c.mu.Unlock()
		return nil, fmt.Errorf("take: %w", internalerr.ErrTerminated)
	}
	c.mu.Unlock()

	rs := &ResourceSet{owner: c, taggers: make(map[string]nlp.Tagger, len(c.models))}
	fail := func(err error) (*ResourceSet, error) {
		c.release(rs)
		return nil, err
	}

	if c.parser != nil {
		p, err := c.parser.take(ctx, c.closing)
		if err != nil {
			return fail(err)
		}
		rs.Parser = p
	}
	if c.splitter != nil {
		sp, err := c.splitter.take(ctx, c.closing)
		if err != nil {
			return fail(err)
		}
		rs.Splitter = sp
	}
	for _, m := range c.models {
		tg, err := m.take(ctx, c.closing)
		if err != nil {
			return fail(err)
		}
		rs.order = append(rs.order, tg)
		rs.taggers[m.kind[len("model:"):]] = tg
	}

	c.mu.Lock()
	rs.ID = ulid.MustNew(ulid.Now(), c.entropy).String()
	c.leased[rs.ID] = rs
	c.mu.Unlock()
	return rs, nil
}

// Put returns every instance of rs to its pool. Returning a set twice, or a
// set taken from another Context, fails with ErrInvalidInput.
func (c *Context) Put(rs *ResourceSet) error {
	if rs == nil || rs.owner != c {
		return fmt.Errorf("put foreign resource set: %w", internalerr.ErrInvalidInput)
	}
	c.mu.Lock()
	if c.state == StateUninitialized {
		c.mu.Unlock()
		return &NotInitializedError{Op: "put", State: c.state}
	}
	if _, ok := c.leased[rs.ID]; !ok {
		c.mu.Unlock()
		return fmt.Errorf("put resource set %s twice: %w", rs.ID, internalerr.ErrInvalidInput)
	}
	delete(c.leased, rs.ID)
	c.mu.Unlock()

	c.release(rs)
	return nil
}

// Terminate waits for every checked out set to come back, closes all
// instances and moves to TERMINATED. Takers blocked when it starts fail with
// ErrTerminated. If ctx ends first, the instances closed so far stay closed
// and a later call resumes the wait.
func (c *Context) Terminate(ctx context.Context) error {
	c.mu.Lock()
	switch c.state {
	case StateTerminated:
		c.mu.Unlock()
		return nil
	case StateUninitialized:
		c.state = StateTerminated
		c.mu.Unlock()
		c.closeOnce.Do(func() { close(c.closing) })
		return nil
	}
	c.mu.Unlock()
	c.closeOnce.Do(func() { close(c.closing) })

	c.drainMu.Lock()
	defer c.drainMu.Unlock()

	var errs []error
	if c.parser != nil {
		errs = append(errs, c.parser.drain(ctx)...)
	}
	if c.splitter != nil {
		errs = append(errs, c.splitter.drain(ctx)...)
	}
	for _, m := range c.models {
		errs = append(errs, m.drain(ctx)...)
	}
	if ctx.Err() != nil {
		return errors.Join(errs...)
	}

	c.mu.Lock()
	c.state = StateTerminated
	c.mu.Unlock()
	logging.PoolEvent("terminated")
	return errors.Join(errs...)
}

// Stats returns one snapshot per pooled kind.
func (c *Context) Stats() []KindStats {
	var out []KindStats
	if c.parser != nil {
		out = append(out, c.parser.stats())
	}
	if c.splitter != nil {
		out = append(out, c.splitter.stats())
	}
	for _, m := range c.models {
		out = append(out, m.stats())
	}
	return out
}

// Models returns the pooled model names in acquisition order.
func (c *Context) Models() []string {
	names := make([]string, len(c.models))
	for i, m := range c.models {
		names[i] = m.kind[len("model:"):]
	}
	return names
}

func (c *Context) release(rs *ResourceSet) {
	if rs.Parser != nil {
		c.parser.put(rs.Parser)
		rs.Parser = nil
	}
	if rs.Splitter != nil {
		c.splitter.put(rs.Splitter)
		rs.Splitter = nil
	}
	for i, tg := range rs.order {
		c.models[i].put(tg)
	}
	rs.order = nil
	rs.taggers = nil
}

func (c *Context) growAll(n int) error {
	if c.parser != nil {
		if err := c.parser.grow(n); err != nil {
			return err
		}
	}
	if c.splitter != nil {
		if err := c.splitter.grow(n); err != nil {
			return err
		}
	}
	for _, m := range c.models {
		if err := m.grow(n); err != nil {
			return err
		}
	}
	return nil
}

func (c *Context) closeAll() {
	if c.parser != nil {
		c.parser.closeAll()
	}
	if c.splitter != nil {
		c.splitter.closeAll()
	}
	for _, m := range c.models {
		m.closeAll()
	}
}

func (c *Context) kindCount() int {
	n := len(c.models)
	if c.parser != nil {
		n++
	}
	if c.splitter != nil {
		n++
	}
	return n
}
