package runner

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"github.com/yaklabco/structparse/pkg/pipeline"
)

// Runner processes many files with a shared pipeline.
type Runner struct {
	Pipeline *pipeline.Pipeline
}

// New creates a Runner.
func New(p *pipeline.Pipeline) *Runner {
	return &Runner{Pipeline: p}
}

// Run discovers files and processes them with a pool of opts.Jobs
// workers. Outcomes are returned in path order regardless of completion
// order. On cancellation the partial result is returned with the error.
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	files, err := Discover(ctx, opts)
	if err != nil {
		return nil, err
	}

	return r.RunFiles(ctx, files, opts.Jobs)
}

// RunFiles processes an explicit list of files. Outcomes keep the order
// of files.
func (r *Runner) RunFiles(ctx context.Context, files []string, jobs int) (*Result, error) {
	result := &Result{
		Files: make([]FileOutcome, 0, len(files)),
		Stats: newStats(),
	}
	result.Stats.FilesDiscovered = len(files)

	if len(files) == 0 {
		return result, nil
	}

	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	jobs = min(jobs, len(files))

	workCh := make(chan int)
	outCh := make(chan indexedOutcome)

	var wg sync.WaitGroup
	for range jobs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.worker(ctx, files, workCh, outCh)
		}()
	}

	go func() {
		defer close(workCh)
		for idx := range files {
			select {
			case <-ctx.Done():
				return
			case workCh <- idx:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(outCh)
	}()

	outcomes := make([]*FileOutcome, len(files))
	for out := range outCh {
		outcomes[out.index] = &out.outcome
	}

	for _, outcome := range outcomes {
		if outcome != nil {
			result.accumulate(*outcome)
		}
	}

	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("run cancelled: %w", err)
	}

	return result, nil
}

// RunContent processes in-memory content, such as standard input, as a
// single-file run named name.
func (r *Runner) RunContent(ctx context.Context, name string, content []byte) *Result {
	result := &Result{Stats: newStats()}
	result.Stats.FilesDiscovered = 1

	outcome := FileOutcome{Path: name}
	outcome.Result, outcome.Error = r.Pipeline.ProcessContent(ctx, name, content)
	result.accumulate(outcome)

	return result
}

type indexedOutcome struct {
	index   int
	outcome FileOutcome
}

func (r *Runner) worker(ctx context.Context, files []string, workCh <-chan int, outCh chan<- indexedOutcome) {
	for idx := range workCh {
		if ctx.Err() != nil {
			return
		}

		outcome := FileOutcome{Path: files[idx]}
		outcome.Result, outcome.Error = r.Pipeline.ProcessFile(ctx, files[idx])

		select {
		case <-ctx.Done():
			return
		case outCh <- indexedOutcome{index: idx, outcome: outcome}:
		}
	}
}
