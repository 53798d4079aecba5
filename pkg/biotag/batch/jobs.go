package batch

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cognicore/biotag/pkg/biotag/internalerr"
	"github.com/cognicore/biotag/pkg/biotag/pipeline"
	"github.com/cognicore/biotag/pkg/biotag/readers"
)

// Job is one document to process.
type Job struct {
	ID     string
	Open   func() (io.ReadCloser, error)
	Output pipeline.OutputFunc
}

// FileJobs lists the files of inDir matching pattern. Writers of each job
// create <outDir>/<id><extension>; an empty outDir discards writer output.
func FileJobs(inDir, pattern, outDir string) ([]Job, error) {
	if pattern == "" {
		pattern = "*"
	}
	paths, err := filepath.Glob(filepath.Join(inDir, pattern))
	if err != nil {
		return nil, fmt.Errorf("input pattern %q: %v: %w", pattern, err, internalerr.ErrInvalidConfig)
	}
	sort.Strings(paths)

	var jobs []Job
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, err
		}
		if info.IsDir() {
			continue
		}
		jobs = append(jobs, FileJob(path, outDir))
	}
	return jobs, nil
}

// FileJob builds the job for a single input file.
func FileJob(path, outDir string) Job {
	id := DocumentID(path)
	return Job{
		ID:     id,
		Open:   func() (io.ReadCloser, error) { return readers.Open(path) },
		Output: FileOutput(outDir, id),
	}
}

// FileOutput creates one file per writer under dir.
func FileOutput(dir, id string) pipeline.OutputFunc {
	return func(w pipeline.Writes) (io.WriteCloser, error) {
		if dir == "" {
			return discard{}, nil
		}
		return os.Create(filepath.Join(dir, id+w.Extension()))
	}
}

// WriterOutput sends every writer to w, leaving it open.
func WriterOutput(w io.Writer) pipeline.OutputFunc {
	return func(pipeline.Writes) (io.WriteCloser, error) {
		return nopCloser{w}, nil
	}
}

// DocumentID is the base name of path without extensions; .xz is stripped
// first so doc.txt.xz and doc.txt share an id.
func DocumentID(path string) string {
	base := filepath.Base(path)
	if strings.EqualFold(filepath.Ext(base), ".xz") {
		base = strings.TrimSuffix(base, filepath.Ext(base))
	}
	if i := strings.Index(base, "."); i > 0 {
		base = base[:i]
	}
	return base
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }
func (discard) Close() error                { return nil }

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
