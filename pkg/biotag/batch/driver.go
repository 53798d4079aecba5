// Package batch runs a validated pipeline over many documents with a fixed
// number of workers sharing one resource context.
package batch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/cognicore/biotag/internal/logging"
	"github.com/cognicore/biotag/pkg/biotag/corpus"
	"github.com/cognicore/biotag/pkg/biotag/internalerr"
	"github.com/cognicore/biotag/pkg/biotag/pipeline"
	"github.com/cognicore/biotag/pkg/biotag/resources"
	"github.com/cognicore/biotag/pkg/biotag/stats"
)

// ErrPanic marks a document whose module panicked. The worker recovers and
// moves on to the next document.
var ErrPanic = errors.New("module panicked")

// DocumentError records a document whose pipeline run failed.
type DocumentError struct {
	ID  string
	Err error
}

func (e *DocumentError) Error() string {
	return fmt.Sprintf("document %s: %v", e.ID, e.Err)
}

func (e *DocumentError) Unwrap() error { return e.Err }

// Report summarizes a run.
type Report struct {
	Processed int
	Failed    []*DocumentError
	Stats     stats.Snapshot
	Elapsed   time.Duration
}

// Driver processes jobs with Threads workers. Each worker holds one
// resource set per document and returns it before the next.
type Driver struct {
	Pipeline  *pipeline.Pipeline
	Resources *resources.Context
	Threads   int
	// OnDone is called after every document, from the worker goroutine.
	OnDone func(id string, err error)
}

// Run prepares the resource context for Threads workers, processes every
// job and terminates the context. Failed documents are reported, not
// returned; the error is for setup failures and cancellation.
func (d *Driver) Run(ctx context.Context, jobs []Job) (Report, error) {
	start := time.Now()
	if d.Pipeline == nil || d.Resources == nil {
		return Report{}, fmt.Errorf("driver needs a pipeline and resources: %w", internalerr.ErrInvalidConfig)
	}
	threads := d.Threads
	if threads < 1 {
		threads = 1
	}
	if threads > len(jobs) && len(jobs) > 0 {
		threads = len(jobs)
	}

	if d.Resources.State() == resources.StateUninitialized {
		if err := d.Resources.Initialize(); err != nil {
			return Report{}, err
		}
	}
	if threads > 1 {
		if err := d.Resources.AddMultiThreadingSupport(threads); err != nil {
			d.Resources.Terminate(context.WithoutCancel(ctx))
			return Report{}, err
		}
	}

	queue := make(chan Job)
	collectors := make([]*stats.Collector, threads)
	var (
		mu     sync.Mutex
		report Report
		wg     sync.WaitGroup
	)
	for w := 0; w < threads; w++ {
		collectors[w] = stats.NewCollector()
		wg.Add(1)
		go func(worker int, coll *stats.Collector) {
			defer wg.Done()
			for job := range queue {
				err := d.process(ctx, worker, job, coll)
				mu.Lock()
				if err != nil {
					report.Failed = append(report.Failed, &DocumentError{ID: job.ID, Err: err})
				} else {
					report.Processed++
				}
				mu.Unlock()
				if d.OnDone != nil {
					d.OnDone(job.ID, err)
				}
			}
		}(w, collectors[w])
	}

	var runErr error
feed:
	for _, job := range jobs {
		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}
		select {
		case queue <- job:
		case <-ctx.Done():
			runErr = ctx.Err()
			break feed
		}
	}
	close(queue)
	wg.Wait()

	total := stats.NewCollector()
	for _, c := range collectors {
		total.Merge(c)
	}
	report.Stats = total.Snapshot()

	if err := d.Resources.Terminate(context.WithoutCancel(ctx)); err != nil && runErr == nil {
		runErr = err
	}
	report.Elapsed = time.Since(start)
	logging.RunSummary(report.Processed, len(report.Failed), report.Elapsed)
	return report, runErr
}

// process runs one document. The resource set goes back to the pool on
// every path, panics included.
func (d *Driver) process(ctx context.Context, worker int, job Job, coll *stats.Collector) (err error) {
	ctx = logging.WithDocument(ctx, job.ID)
	defer func() {
		if err != nil {
			logging.DocumentFailed(ctx, worker, err)
		}
	}()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrPanic, r)
		}
	}()

	rs, err := d.Resources.Take(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if perr := d.Resources.Put(rs); perr != nil && err == nil {
			err = perr
		}
	}()

	if job.Open == nil {
		return fmt.Errorf("job has no input: %w", internalerr.ErrInvalidInput)
	}
	in, err := job.Open()
	if err != nil {
		return err
	}
	defer in.Close()

	env := &pipeline.Env{Corpus: corpus.New(job.ID), Resources: rs, Stats: coll}
	if err := d.Pipeline.Run(ctx, env, in, job.Output); err != nil {
		return err
	}
	coll.Process(env.Corpus)
	return nil
}
