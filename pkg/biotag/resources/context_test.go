package resources

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cognicore/biotag/pkg/biotag/corpus"
	"github.com/cognicore/biotag/pkg/biotag/internalerr"
	"github.com/cognicore/biotag/pkg/biotag/nlp"
)

// fakeResource tracks launches, closes and concurrent use of one instance.
type fakeResource struct {
	launched atomic.Bool
	closed   atomic.Bool
	inUse    atomic.Int32
}

func (f *fakeResource) Launch() error { f.launched.Store(true); return nil }
func (f *fakeResource) Close() error  { f.closed.Store(true); return nil }

func (f *fakeResource) use(t *testing.T) {
	if f.inUse.Add(1) != 1 {
		t.Error("resource used by two workers at once")
	}
	time.Sleep(time.Millisecond)
	f.inUse.Add(-1)
}

type fakeParser struct{ fakeResource }

func (p *fakeParser) Level() corpus.ParserLevel      { return corpus.LevelTokenization }
func (p *fakeParser) Parse(s *corpus.Sentence) error { return nil }

type fakeSplitter struct{ fakeResource }

func (s *fakeSplitter) Split(text string) [][2]int { return nil }

type fakeTagger struct {
	fakeResource
	name string
}

func (t *fakeTagger) Name() string                 { return t.name }
func (t *fakeTagger) Level() corpus.ParserLevel    { return corpus.LevelTokenization }
func (t *fakeTagger) Tag(s *corpus.Sentence) error { return nil }

type registry struct {
	mu        sync.Mutex
	resources []*fakeResource
}

func (r *registry) track(f *fakeResource) {
	r.mu.Lock()
	r.resources = append(r.resources, f)
	r.mu.Unlock()
}

func newTestContext(t *testing.T, models ...string) (*Context, *registry) {
	t.Helper()
	reg := &registry{}
	cfg := Config{
		NewParser: func() (nlp.Parser, error) {
			p := &fakeParser{}
			reg.track(&p.fakeResource)
			return p, nil
		},
		NewSplitter: func() (nlp.SentenceSplitter, error) {
			s := &fakeSplitter{}
			reg.track(&s.fakeResource)
			return s, nil
		},
	}
	for _, name := range models {
		name := name
		cfg.Models = append(cfg.Models, ModelSpec{Name: name, New: func() (nlp.Tagger, error) {
			tg := &fakeTagger{name: name}
			reg.track(&tg.fakeResource)
			return tg, nil
		}})
	}
	c, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c, reg
}

func checkConservation(t *testing.T, c *Context) {
	t.Helper()
	for _, st := range c.Stats() {
		if st.Available+st.CheckedOut != st.Total {
			t.Errorf("%s: available %d + checked out %d != total %d", st.Kind, st.Available, st.CheckedOut, st.Total)
		}
	}
}

func TestLifecycleOrder(t *testing.T) {
	c, _ := newTestContext(t, "genes")
	ctx := context.Background()

	if err := c.AddMultiThreadingSupport(2); !errors.Is(err, internalerr.ErrNotInitialized) {
		t.Errorf("AddMultiThreadingSupport before Initialize: %v", err)
	}
	var nie *NotInitializedError
	if _, err := c.Take(ctx); !errors.As(err, &nie) || nie.Op != "take" {
		t.Errorf("Take before Initialize: %v", err)
	}

	if err := c.Initialize(); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if err := c.Initialize(); err != nil {
		t.Fatalf("second Initialize: %v", err)
	}
	for _, st := range c.Stats() {
		if st.Total != 1 {
			t.Errorf("%s: total %d after Initialize, want 1", st.Kind, st.Total)
		}
	}
	if c.State() != StateInitialized {
		t.Errorf("state = %s", c.State())
	}

	if err := c.AddMultiThreadingSupport(3); err != nil {
		t.Fatalf("AddMultiThreadingSupport: %v", err)
	}
	for _, st := range c.Stats() {
		if st.Total != 3 || st.Available != 3 {
			t.Errorf("%s: %+v, want 3 available", st.Kind, st)
		}
	}

	if err := c.Terminate(ctx); err != nil {
		t.Fatalf("Terminate: %v", err)
	}
	if c.State() != StateTerminated {
		t.Errorf("state = %s", c.State())
	}
	if _, err := c.Take(ctx); !errors.Is(err, internalerr.ErrTerminated) {
		t.Errorf("Take after Terminate: %v", err)
	}
	if err := c.Initialize(); !errors.Is(err, internalerr.ErrTerminated) {
		t.Errorf("Initialize after Terminate: %v", err)
	}
}

func TestTakeBundlesEveryKind(t *testing.T) {
	c, _ := newTestContext(t, "species", "genes")
	c.Initialize()

	rs, err := c.Take(context.Background())
	if err != nil {
		t.Fatalf("Take: %v", err)
	}
	if rs.ID == "" || rs.Parser == nil || rs.Splitter == nil {
		t.Fatalf("incomplete set %+v", rs)
	}
	taggers := rs.Taggers()
	if len(taggers) != 2 || taggers[0].Name() != "genes" || taggers[1].Name() != "species" {
		t.Errorf("taggers not in name order: %v", c.Models())
	}
	if _, ok := rs.Tagger("species"); !ok {
		t.Error("species tagger missing")
	}
	checkConservation(t, c)
	if err := c.Put(rs); err != nil {
		t.Fatalf("Put: %v", err)
	}
	checkConservation(t, c)
}

func TestPutGuards(t *testing.T) {
	c, _ := newTestContext(t)
	other, _ := newTestContext(t)
	c.Initialize()
	other.Initialize()
	ctx := context.Background()

	rs, _ := c.Take(ctx)
	if err := other.Put(rs); !errors.Is(err, internalerr.ErrInvalidInput) {
		t.Errorf("foreign Put: %v", err)
	}
	if err := c.Put(rs); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := c.Put(rs); !errors.Is(err, internalerr.ErrInvalidInput) {
		t.Errorf("double Put: %v", err)
	}
	checkConservation(t, c)
}

func TestTakeBlocksUntilPut(t *testing.T) {
	c, _ := newTestContext(t, "genes")
	c.Initialize()
	ctx := context.Background()

	first, _ := c.Take(ctx)
	got := make(chan *ResourceSet)
	go func() {
		rs, err := c.Take(ctx)
		if err != nil {
			t.Errorf("blocked Take: %v", err)
		}
		got <- rs
	}()

	select {
	case <-got:
		t.Fatal("Take should block while the only set is out")
	case <-time.After(20 * time.Millisecond):
	}

	parser := first.Parser
	c.Put(first)
	second := <-got
	if second.Parser != parser {
		t.Error("the returned instance should be handed to the waiter")
	}
	c.Put(second)
}

func TestTakeCancelReturnsPartial(t *testing.T) {
	c, _ := newTestContext(t, "genes")
	c.Initialize()

	held, _ := c.Take(context.Background())
	// Put the parser and splitter back by hand so a second taker can get
	// them but then blocks on the model.
	c.parser.put(held.Parser)
	c.splitter.put(held.Splitter)
	held.Parser, held.Splitter = nil, nil

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := c.Take(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline, got %v", err)
	}
	for _, st := range c.Stats()[:2] {
		if st.Available != 1 || st.CheckedOut != 0 {
			t.Errorf("%s not returned after cancel: %+v", st.Kind, st)
		}
	}
	c.Put(held)
	checkConservation(t, c)
}

func TestConcurrentWorkersNeverShare(t *testing.T) {
	const workers = 4
	c, _ := newTestContext(t, "genes", "chemicals")
	c.Initialize()
	c.AddMultiThreadingSupport(workers)

	var wg sync.WaitGroup
	for w := 0; w < workers*2; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 20; i++ {
				rs, err := c.Take(context.Background())
				if err != nil {
					t.Errorf("Take: %v", err)
					return
				}
				rs.Parser.(*fakeParser).use(t)
				for _, tg := range rs.Taggers() {
					tg.(*fakeTagger).use(t)
				}
				if err := c.Put(rs); err != nil {
					t.Errorf("Put: %v", err)
				}
			}
		}()
	}
	wg.Wait()
	checkConservation(t, c)
	for _, st := range c.Stats() {
		if st.Available != workers {
			t.Errorf("%s: %d available after run, want %d", st.Kind, st.Available, workers)
		}
	}
}

func TestTerminateWaitsForCheckedOut(t *testing.T) {
	c, reg := newTestContext(t, "genes")
	c.Initialize()
	c.AddMultiThreadingSupport(2)
	ctx := context.Background()

	rs, _ := c.Take(ctx)
	done := make(chan error)
	go func() { done <- c.Terminate(ctx) }()

	select {
	case <-done:
		t.Fatal("Terminate returned while a set was checked out")
	case <-time.After(20 * time.Millisecond):
	}
	if rs.Parser.(*fakeParser).closed.Load() {
		t.Fatal("checked out parser closed early")
	}

	c.Put(rs)
	if err := <-done; err != nil {
		t.Fatalf("Terminate: %v", err)
	}
	for _, r := range reg.resources {
		if !r.launched.Load() || !r.closed.Load() {
			t.Error("every resource should be launched and closed")
		}
	}
}

func TestTerminateReleasesBlockedTakers(t *testing.T) {
	c, _ := newTestContext(t)
	c.Initialize()
	ctx := context.Background()

	rs, _ := c.Take(ctx)
	errc := make(chan error)
	go func() {
		_, err := c.Take(ctx)
		errc <- err
	}()
	time.Sleep(10 * time.Millisecond)

	term := make(chan error)
	go func() { term <- c.Terminate(ctx) }()

	if err := <-errc; !errors.Is(err, internalerr.ErrTerminated) {
		t.Errorf("blocked taker: %v", err)
	}
	c.Put(rs)
	if err := <-term; err != nil {
		t.Fatalf("Terminate: %v", err)
	}
}

func TestInitializeFailureIsAcquisitionError(t *testing.T) {
	boom := errors.New("model file missing")
	var built []*fakeParser
	c, err := New(Config{
		NewParser: func() (nlp.Parser, error) {
			p := &fakeParser{}
			built = append(built, p)
			return p, nil
		},
		Models: []ModelSpec{{Name: "genes", New: func() (nlp.Tagger, error) { return nil, boom }}},
	})
	if err != nil {
		t.Fatal(err)
	}

	err = c.Initialize()
	var acq *ResourceAcquisitionError
	if !errors.As(err, &acq) || acq.Kind != "model:genes" {
		t.Fatalf("expected ResourceAcquisitionError, got %v", err)
	}
	if !errors.Is(err, boom) || !errors.Is(err, internalerr.ErrResourceUnavailable) {
		t.Error("error should wrap the cause and ErrResourceUnavailable")
	}
	if c.State() != StateUninitialized {
		t.Errorf("state = %s after failed Initialize", c.State())
	}
	if len(built) != 1 || !built[0].closed.Load() {
		t.Error("partially built resources should be closed")
	}
}

func TestNewRejectsDuplicateModels(t *testing.T) {
	mk := func() (nlp.Tagger, error) { return &fakeTagger{}, nil }
	_, err := New(Config{Models: []ModelSpec{{Name: "a", New: mk}, {Name: "a", New: mk}}})
	if !errors.Is(err, internalerr.ErrDuplicate) {
		t.Errorf("expected ErrDuplicate, got %v", err)
	}
}

func TestAddMultiThreadingSupportWhileInUse(t *testing.T) {
	c, _ := newTestContext(t)
	c.Initialize()
	rs, _ := c.Take(context.Background())
	if err := c.AddMultiThreadingSupport(2); !errors.Is(err, internalerr.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
	c.Put(rs)
}
