package runner_test

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/structparse/pkg/fsutil"
	"github.com/yaklabco/structparse/pkg/pipeline"
	"github.com/yaklabco/structparse/pkg/runner"
)

func TestRunner_Run(t *testing.T) {
	t.Parallel()

	root := tree(t, map[string]string{
		"a.sdef":   "struct A { x: u8, y: u8 }",
		"b.sdef":   "struct B { x: }",
		"c.struct": "struct C {} struct D { z: [u8; 3] }",
		"d.sdef":   "struct \x00 {}",
		"e.md":     "```sdef\nstruct E { e: u8 }\n```\n",
	})

	r := runner.New(pipeline.New(pipeline.Options{Markdown: true}))
	result, err := r.Run(context.Background(), runner.Options{WorkingDir: root, Markdown: true, Jobs: 3})
	require.NoError(t, err)

	assert.Equal(t, []string{"a.sdef", "b.sdef", "c.struct", "d.sdef", "e.md"}, rel(t, root, paths(result)))

	stats := result.Stats
	assert.Equal(t, 5, stats.FilesDiscovered)
	assert.Equal(t, 4, stats.FilesProcessed)
	assert.Equal(t, 1, stats.FilesErrored)
	assert.Equal(t, 1, stats.FilesWithErrors)
	assert.Equal(t, 4, stats.StructsParsed)
	assert.Equal(t, 4, stats.FieldsParsed)
	assert.Equal(t, 1, stats.DiagnosticsTotal)
	assert.Equal(t, 1, stats.DiagnosticsByCode[pipeline.CodeUnexpectedToken])

	assert.ErrorIs(t, result.Files[3].Error, fsutil.ErrBinary)
	assert.True(t, result.HasFailures())
	require.Len(t, result.Diagnostics(), 1)
	assert.Equal(t, result.Files[1].Path, result.Diagnostics()[0].Path)
}

func TestRunner_Run_NoFiles(t *testing.T) {
	t.Parallel()

	root := tree(t, map[string]string{"readme.txt": "nothing"})

	result, err := runner.New(pipeline.New(pipeline.Options{})).Run(context.Background(), runner.Options{WorkingDir: root})
	require.NoError(t, err)
	assert.Empty(t, result.Files)
	assert.False(t, result.HasFailures())
}

func TestRunner_SerialVsParallelConsistency(t *testing.T) {
	t.Parallel()

	files := make(map[string]string, 40)
	for i := range 40 {
		content := fmt.Sprintf("struct S%d { f: [u8; %d] }", i, i)
		if i%7 == 0 {
			content = fmt.Sprintf("struct S%d { f: [u8; ] }", i)
		}
		files[fmt.Sprintf("f%02d.sdef", i)] = content
	}
	root := tree(t, files)

	r := runner.New(pipeline.New(pipeline.Options{}))

	serial, err := r.Run(context.Background(), runner.Options{WorkingDir: root, Jobs: 1})
	require.NoError(t, err)

	parallel, err := r.Run(context.Background(), runner.Options{WorkingDir: root, Jobs: 8})
	require.NoError(t, err)

	assert.Equal(t, serial.Stats, parallel.Stats)
	assert.Equal(t, paths(serial), paths(parallel))
	assert.Equal(t, serial.Diagnostics(), parallel.Diagnostics())
	assert.Equal(t, 6, serial.Stats.DiagnosticsTotal)
}

func TestRunner_RunFiles_KeepsInputOrder(t *testing.T) {
	t.Parallel()

	root := tree(t, map[string]string{"a.sdef": "struct A {}", "b.sdef": "struct B {}"})
	files := []string{filepath.Join(root, "b.sdef"), filepath.Join(root, "a.sdef")}

	result, err := runner.New(pipeline.New(pipeline.Options{})).RunFiles(context.Background(), files, 0)
	require.NoError(t, err)
	assert.Equal(t, files, paths(result))
}

func TestRunner_Run_Write(t *testing.T) {
	t.Parallel()

	root := tree(t, map[string]string{
		"messy.sdef": "struct A{x:u8}",
		"clean.sdef": "struct B {}\n",
	})

	r := runner.New(pipeline.New(pipeline.Options{Format: true, Write: true}))
	result, err := r.Run(context.Background(), runner.Options{WorkingDir: root})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Stats.FilesChanged)
	assert.Equal(t, 1, result.Stats.FilesWritten)
	assert.Equal(t, 0, result.Stats.FilesSkipped)
}

func TestRunner_Run_ContextCancellation(t *testing.T) {
	t.Parallel()

	root := tree(t, map[string]string{"a.sdef": "struct A {}"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := runner.New(pipeline.New(pipeline.Options{})).Run(ctx, runner.Options{WorkingDir: root})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestResult_HasFailures(t *testing.T) {
	t.Parallel()

	var nilResult *runner.Result
	assert.False(t, nilResult.HasFailures())
	assert.False(t, (&runner.Result{}).HasFailures())
	assert.True(t, (&runner.Result{Stats: runner.Stats{FilesErrored: 1}}).HasFailures())
	assert.True(t, (&runner.Result{Stats: runner.Stats{DiagnosticsTotal: 2}}).HasFailures())
}

func paths(result *runner.Result) []string {
	out := make([]string, 0, len(result.Files))
	for _, f := range result.Files {
		out = append(out, f.Path)
	}
	return out
}

func TestRunner_RunContent(t *testing.T) {
	t.Parallel()

	r := runner.New(pipeline.New(pipeline.Options{}))

	result := r.RunContent(context.Background(), "<stdin>", []byte("struct A { a: u8 } struct B {"))
	require.Len(t, result.Files, 1)
	assert.Equal(t, "<stdin>", result.Files[0].Path)
	assert.Equal(t, 1, result.Stats.FilesProcessed)
	assert.Equal(t, 1, result.Stats.DiagnosticsTotal)
	assert.Equal(t, 1, result.Stats.DiagnosticsByCode[pipeline.CodeUnexpectedEnd])
	assert.True(t, result.HasFailures())
}
