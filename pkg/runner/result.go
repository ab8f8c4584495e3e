package runner

import "github.com/yaklabco/structparse/pkg/pipeline"

// FileOutcome is the processing result for one discovered file.
type FileOutcome struct {
	// Path is the absolute file path.
	Path string

	// Result is nil when Error is set.
	Result *pipeline.Result

	// Error is a file-level failure such as an unreadable or binary file.
	Error error
}

// Stats aggregates a run.
type Stats struct {
	FilesDiscovered int
	FilesProcessed  int
	FilesErrored    int

	// FilesWithErrors counts files with at least one diagnostic.
	FilesWithErrors int

	// FilesChanged counts files whose canonical form differs from disk.
	FilesChanged int

	// FilesWritten counts files rewritten in place.
	FilesWritten int

	// FilesSkipped counts abandoned rewrites.
	FilesSkipped int

	StructsParsed    int
	FieldsParsed     int
	DiagnosticsTotal int

	// DiagnosticsByCode maps diagnostic codes to counts.
	DiagnosticsByCode map[pipeline.Code]int
}

// Result is the overall outcome of a run.
type Result struct {
	// Files is ordered by path.
	Files []FileOutcome
	Stats Stats
}

// HasFailures reports whether any file had diagnostics or could not be read.
func (r *Result) HasFailures() bool {
	if r == nil {
		return false
	}
	return r.Stats.DiagnosticsTotal > 0 || r.Stats.FilesErrored > 0
}

// Diagnostics returns all diagnostics in file order.
func (r *Result) Diagnostics() []pipeline.Diagnostic {
	var all []pipeline.Diagnostic
	for _, outcome := range r.Files {
		if outcome.Result != nil {
			all = append(all, outcome.Result.Diagnostics...)
		}
	}
	return all
}

func newStats() Stats {
	return Stats{DiagnosticsByCode: make(map[pipeline.Code]int)}
}

func (r *Result) accumulate(outcome FileOutcome) {
	r.Files = append(r.Files, outcome)

	if outcome.Error != nil {
		r.Stats.FilesErrored++
		return
	}

	res := outcome.Result
	if res == nil {
		return
	}

	r.Stats.FilesProcessed++

	if res.Changed {
		r.Stats.FilesChanged++
	}
	if res.Written {
		r.Stats.FilesWritten++
	}
	if res.Skipped {
		r.Stats.FilesSkipped++
	}

	for _, s := range res.Structs() {
		r.Stats.StructsParsed++
		r.Stats.FieldsParsed += len(s.Fields)
	}

	if len(res.Diagnostics) > 0 {
		r.Stats.FilesWithErrors++
	}
	r.Stats.DiagnosticsTotal += len(res.Diagnostics)
	for _, diag := range res.Diagnostics {
		r.Stats.DiagnosticsByCode[diag.Code]++
	}
}
