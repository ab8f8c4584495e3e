package reporter

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"

	"github.com/yaklabco/structparse/pkg/ast"
	"github.com/yaklabco/structparse/pkg/pipeline"
	"github.com/yaklabco/structparse/pkg/runner"
)

// jsonSchemaVersion versions the JSON document layout.
const jsonSchemaVersion = "1.0.0"

// Type kinds in JSON output.
const (
	jsonKindIdent = "ident"
	jsonKindArray = "array"
)

// JSONOutput is the top-level JSON structure.
type JSONOutput struct {
	Version string           `json:"version"`
	Files   []JSONFileResult `json:"files"`
	Summary JSONSummary      `json:"summary"`
}

// JSONFileResult represents a single file's results.
type JSONFileResult struct {
	Path        string           `json:"path"`
	Kind        string           `json:"kind,omitempty"`
	Structs     []JSONStruct     `json:"structs,omitempty"`
	Diagnostics []JSONDiagnostic `json:"diagnostics"`
	Changed     bool             `json:"changed,omitempty"`
	Written     bool             `json:"written,omitempty"`
	Error       string           `json:"error,omitempty"`
}

// JSONStruct is a parsed struct definition.
type JSONStruct struct {
	Name   string      `json:"name"`
	Fields []JSONField `json:"fields"`
}

// JSONField is a named, typed field.
type JSONField struct {
	Name string   `json:"name"`
	Type JSONType `json:"type"`
}

// JSONType is a type expression. Kind is "ident" or "array"; arrays carry
// Len and Elem, identifiers carry Name.
type JSONType struct {
	Kind string    `json:"kind"`
	Name string    `json:"name,omitempty"`
	Len  *uint64   `json:"len,omitempty"`
	Elem *JSONType `json:"elem,omitempty"`
}

// JSONSpan is a half-open byte range.
type JSONSpan struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// JSONDiagnostic represents a single diagnostic.
type JSONDiagnostic struct {
	Code        string   `json:"code"`
	Message     string   `json:"message"`
	Span        JSONSpan `json:"span"`
	StartLine   int      `json:"startLine"`
	StartColumn int      `json:"startColumn"`
	EndLine     int      `json:"endLine"`
	EndColumn   int      `json:"endColumn"`
}

// JSONSummary contains aggregate statistics.
type JSONSummary struct {
	FilesChecked    int            `json:"filesChecked"`
	FilesWithErrors int            `json:"filesWithErrors"`
	FilesErrored    int            `json:"filesErrored"`
	FilesChanged    int            `json:"filesChanged"`
	FilesWritten    int            `json:"filesWritten"`
	Structs         int            `json:"structs"`
	Fields          int            `json:"fields"`
	TotalErrors     int            `json:"totalErrors"`
	ByCode          map[string]int `json:"byCode"`
}

// JSONReporter formats results as JSON.
type JSONReporter struct {
	opts Options
	bw   *bufio.Writer
}

// NewJSONReporter creates a new JSON reporter.
func NewJSONReporter(opts Options) *JSONReporter {
	return &JSONReporter{
		opts: opts,
		bw:   bufio.NewWriterSize(opts.Writer, bufWriterSize),
	}
}

// Report implements Reporter.
func (r *JSONReporter) Report(_ context.Context, result *runner.Result) (_ int, err error) {
	defer func() {
		if flushErr := r.bw.Flush(); err == nil {
			err = flushErr
		}
	}()

	output := r.buildOutput(result)

	encoder := json.NewEncoder(r.bw)
	if !r.opts.Compact {
		encoder.SetIndent("", "  ")
	}

	if err := encoder.Encode(output); err != nil {
		return 0, fmt.Errorf("encode JSON: %w", err)
	}

	return output.Summary.TotalErrors, nil
}

func (r *JSONReporter) buildOutput(result *runner.Result) *JSONOutput {
	output := &JSONOutput{
		Version: jsonSchemaVersion,
		Files:   make([]JSONFileResult, 0),
		Summary: JSONSummary{ByCode: make(map[string]int)},
	}

	if result == nil {
		return output
	}

	output.Files = make([]JSONFileResult, 0, len(result.Files))
	for _, file := range result.Files {
		output.Files = append(output.Files, r.buildFile(file))
	}

	stats := result.Stats
	output.Summary.FilesChecked = stats.FilesProcessed
	output.Summary.FilesWithErrors = stats.FilesWithErrors
	output.Summary.FilesErrored = stats.FilesErrored
	output.Summary.FilesChanged = stats.FilesChanged
	output.Summary.FilesWritten = stats.FilesWritten
	output.Summary.Structs = stats.StructsParsed
	output.Summary.Fields = stats.FieldsParsed
	output.Summary.TotalErrors = stats.DiagnosticsTotal
	for code, n := range stats.DiagnosticsByCode {
		output.Summary.ByCode[string(code)] = n
	}

	return output
}

func (r *JSONReporter) buildFile(file runner.FileOutcome) JSONFileResult {
	fileResult := JSONFileResult{
		Path:        displayPath(r.opts.WorkingDir, file.Path),
		Diagnostics: make([]JSONDiagnostic, 0),
	}

	if file.Error != nil {
		fileResult.Error = file.Error.Error()
		return fileResult
	}

	res := file.Result
	if res == nil {
		return fileResult
	}

	fileResult.Kind = res.Kind.String()
	fileResult.Changed = res.Changed
	fileResult.Written = res.Written

	if r.opts.ShowAST {
		fileResult.Structs = make([]JSONStruct, 0)
		for _, st := range res.Structs() {
			fileResult.Structs = append(fileResult.Structs, newJSONStruct(st))
		}
	}

	for _, diag := range res.Diagnostics {
		fileResult.Diagnostics = append(fileResult.Diagnostics, newJSONDiagnostic(diag))
	}

	return fileResult
}

func newJSONDiagnostic(diag pipeline.Diagnostic) JSONDiagnostic {
	return JSONDiagnostic{
		Code:        string(diag.Code),
		Message:     diag.Message,
		Span:        JSONSpan{Start: diag.Span.Start, End: diag.Span.End},
		StartLine:   diag.StartLine,
		StartColumn: diag.StartColumn,
		EndLine:     diag.EndLine,
		EndColumn:   diag.EndColumn,
	}
}

func newJSONStruct(st *ast.Struct) JSONStruct {
	out := JSONStruct{
		Name:   st.Name,
		Fields: make([]JSONField, 0, len(st.Fields)),
	}
	for _, field := range st.Fields {
		out.Fields = append(out.Fields, JSONField{Name: field.Name, Type: newJSONType(field.Type)})
	}
	return out
}

func newJSONType(ty ast.Ty) JSONType {
	switch t := ty.(type) {
	case ast.Array:
		length := t.Len
		elem := newJSONType(t.Elem)
		return JSONType{Kind: jsonKindArray, Len: &length, Elem: &elem}
	case ast.Ident:
		return JSONType{Kind: jsonKindIdent, Name: t.Name}
	default:
		return JSONType{}
	}
}
