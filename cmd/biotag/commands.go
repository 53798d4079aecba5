package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gosuri/uiprogress"

	"github.com/cognicore/biotag/internal/logging"
	"github.com/cognicore/biotag/pkg/biotag/batch"
	"github.com/cognicore/biotag/pkg/biotag/corpus"
	"github.com/cognicore/biotag/pkg/biotag/pipeline"
	"github.com/cognicore/biotag/pkg/biotag/store/sqlite"
)

// RunCmd annotates every input document of a configuration.
type RunCmd struct {
	Config     string `short:"c" required:"" help:"Configuration file" type:"existingfile"`
	NoProgress bool   `name:"no-progress" help:"Disable the progress bar"`
	Top        int    `default:"10" help:"Number of top concepts to print"`
}

func (c *RunCmd) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return c.run(ctx, os.Stdout)
}

func (c *RunCmd) run(ctx context.Context, out io.Writer) error {
	a, err := setup(ctx, c.Config)
	if err != nil {
		return err
	}
	defer a.Close()

	jobs, err := batch.FileJobs(a.cfg.Input.Dir, a.cfg.Input.Pattern, a.cfg.Output.Dir)
	if err != nil {
		return err
	}
	if a.cfg.Output.Dir != "" {
		if err := os.MkdirAll(a.cfg.Output.Dir, 0o755); err != nil {
			return err
		}
	}
	rc, err := a.Resources()
	if err != nil {
		return err
	}

	logging.Info("starting run", "documents", len(jobs), "threads", a.cfg.Threads, "input", a.cfg.Input.Dir)
	d := &batch.Driver{Pipeline: a.pipeline, Resources: rc, Threads: a.cfg.Threads}
	if !c.NoProgress && len(jobs) > 0 {
		uiprogress.Start()
		bar := uiprogress.AddBar(len(jobs))
		bar.AppendCompleted()
		bar.PrependElapsed()
		d.OnDone = func(string, error) { bar.Incr() }
	}

	report, err := d.Run(ctx, jobs)
	if d.OnDone != nil {
		uiprogress.Stop()
	}

	fmt.Fprintf(out, "Processed %d documents, %d failed in %s\n", report.Processed, len(report.Failed), report.Elapsed.Round(1e6))
	for _, f := range report.Failed {
		fmt.Fprintf(out, "  failed: %v\n", f)
	}
	fmt.Fprintf(out, "Sentences: %d  Tokens: %d  Annotations: %d\n",
		report.Stats.Sentences, report.Stats.Tokens, report.Stats.Annotations)
	for _, cc := range report.Stats.TopConcepts(c.Top) {
		fmt.Fprintf(out, "  %-40s %d\n", cc.Concept, cc.Documents)
	}
	return err
}

// ValidateCmd builds and validates the configured pipeline.
type ValidateCmd struct {
	Config string `short:"c" required:"" help:"Configuration file" type:"existingfile"`
}

func (c *ValidateCmd) Run() error {
	return c.run(context.Background(), os.Stdout)
}

func (c *ValidateCmd) run(ctx context.Context, out io.Writer) error {
	a, err := setup(ctx, c.Config)
	if err != nil {
		return err
	}
	defer a.Close()

	for i, m := range a.pipeline.Modules() {
		contract := m.Contract()
		fmt.Fprintf(out, "%2d. %-16s requires [%s] provides [%s]\n", i+1, m.Name(),
			joinKinds(contract.Requires, m), joinKinds(contract.Provides, m))
	}
	lex := a.comp.Lexicon.Stats()
	fmt.Fprintf(out, "Dictionaries: %d  Models: %d  Lexicon lemmas: %d\n",
		len(a.comp.Dictionaries), len(a.comp.Models), lex.Lemmas)
	fmt.Fprintln(out, "Pipeline OK")
	return nil
}

func joinKinds(kinds []pipeline.ResourceKind, m pipeline.Module) string {
	parts := make([]string, 0, len(kinds))
	for _, k := range kinds {
		s := string(k)
		if lr, ok := m.(pipeline.LevelReporter); ok && k == pipeline.DynamicNLP {
			s += "@" + lr.NLPLevel().String()
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, " ")
}

// AnnotateCmd annotates one file and writes every writer's output to stdout.
type AnnotateCmd struct {
	Config string `short:"c" required:"" help:"Configuration file" type:"existingfile"`
	File   string `arg:"" help:"Input file" type:"existingfile"`
}

func (c *AnnotateCmd) Run() error {
	return c.run(context.Background(), os.Stdout)
}

func (c *AnnotateCmd) run(ctx context.Context, out io.Writer) error {
	a, err := setup(ctx, c.Config)
	if err != nil {
		return err
	}
	defer a.Close()

	rc, err := a.Resources()
	if err != nil {
		return err
	}
	job := batch.FileJob(c.File, "")
	job.Output = batch.WriterOutput(out)

	d := &batch.Driver{Pipeline: a.pipeline, Resources: rc, Threads: 1}
	report, err := d.Run(ctx, []batch.Job{job})
	if err != nil {
		return err
	}
	if len(report.Failed) > 0 {
		return report.Failed[0]
	}
	return nil
}

// ConceptsCmd lists stored mentions of a concept.
type ConceptsCmd struct {
	Store   string `required:"" help:"SQLite store" type:"existingfile"`
	Limit   int    `default:"20" help:"Maximum number of mentions"`
	Concept string `arg:"" help:"Concept id, e.g. C0079419"`
}

func (c *ConceptsCmd) Run() error {
	return c.run(context.Background(), os.Stdout)
}

func (c *ConceptsCmd) run(ctx context.Context, out io.Writer) error {
	st, err := sqlite.OpenSQLite(ctx, c.Store)
	if err != nil {
		return err
	}
	defer st.Close()

	mentions, err := st.FindByConcept(ctx, c.Concept, c.Limit)
	if err != nil {
		return err
	}
	if len(mentions) == 0 {
		fmt.Fprintf(out, "No mentions of %s\n", c.Concept)
		return nil
	}
	for _, m := range mentions {
		fmt.Fprintf(out, "%s\t%d-%d\t%s\t%s\t%s\n", m.DocumentID, m.Start, m.End, m.Group, m.Text, corpus.FormatIdentifiers(m.IDs))
	}
	return nil
}
