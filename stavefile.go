//go:build stave

package main

import (
	"bytes"
	"cmp"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/yaklabco/stave/pkg/sh"
	"github.com/yaklabco/stave/pkg/st"
	"github.com/yaklabco/stave/pkg/target"
)

const binary = "bin/structparse"

// smokeDefinition is formatted by fmt --diff, so it must not be canonical.
const smokeDefinition = "struct Packet { id: u32, data: [u8; 16] }\n"

// Default target runs build.
var Default = Build

// Aliases for common targets.
var Aliases = map[string]any{
	"b":  Build,
	"t":  Test.Default,
	"l":  Lint.Default,
	"c":  Check,
	"fz": Bench.Fuzz,
	"sm": Smoke,
}

// releasePlatforms are the GOOS/GOARCH pairs CI cross-compiles.
var releasePlatforms = [][2]string{
	{"linux", "amd64"},
	{"linux", "arm64"},
	{"darwin", "arm64"},
	{"windows", "amd64"},
}

type (
	Test  st.Namespace
	Lint  st.Namespace
	CI    st.Namespace
	Bench st.Namespace
)

// Build compiles bin/structparse with version info when sources changed.
func Build() error {
	rebuild, err := target.Dir(binary, "cmd/", "pkg/", "internal/", "go.mod")
	if err != nil {
		return err
	}
	if !rebuild {
		fmt.Println(binary, "is up to date")
		return nil
	}
	fmt.Println("Building structparse...")
	return sh.RunV("go", "build", "-ldflags", ldflags(), "-o", binary, "./cmd/structparse")
}

// Check formats, lints and tests.
func Check() {
	st.SerialDeps(Lint.Fmt, Lint.Default, Test.Default)
}

// Clean removes build and coverage output.
func Clean() error {
	for _, path := range []string{"bin", "coverage.out"} {
		if err := sh.Rm(path); err != nil {
			return err
		}
	}
	return nil
}

// Install runs go install with version info.
func Install() error {
	return sh.RunV("go", "install", "-ldflags", ldflags(), "./cmd/structparse")
}

// Smoke runs every processing command of the built binary over a sample file.
func Smoke() error {
	st.Deps(Build)

	dir, err := os.MkdirTemp("", "structparse-smoke")
	if err != nil {
		return fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "packet.sdef")
	if err := os.WriteFile(path, []byte(smokeDefinition), 0o600); err != nil {
		return fmt.Errorf("write sample: %w", err)
	}

	for _, args := range [][]string{
		{"check", path},
		{"parse", "--format", "json", path},
		{"fmt", "--diff", path},
		{"tokens", path},
	} {
		if err := sh.RunV(binary, args...); err != nil {
			return fmt.Errorf("structparse %s: %w", strings.Join(args, " "), err)
		}
	}

	out, err := sh.Output(binary, "check", "--format", "summary", dir)
	if err != nil {
		return fmt.Errorf("structparse check %s: %w\n%s", dir, err, out)
	}
	fmt.Println("✓ smoke passed")
	return nil
}

// Default runs the test suite with race detection and coverage.
func (Test) Default() error {
	return gotestsum("pkgname-and-test-fails", "-race", "./...",
		"-coverprofile=coverage.out", "-covermode=atomic")
}

// Parser runs only the tokenizer and parser tests, verbosely.
func (Test) Parser() error {
	return gotestsum("standard-verbose", "./pkg/ast/...", "./pkg/parser/...")
}

// Default runs golangci-lint with auto-fix.
func (Lint) Default() error {
	return sh.RunV("golangci-lint", "run", "--fix", "./...")
}

// CI runs golangci-lint without fixes.
func (Lint) CI() error {
	return sh.RunV("golangci-lint", "run", "./...")
}

// Fmt formats all Go code.
func (Lint) Fmt() error {
	return sh.RunV("gofmt", "-w", ".")
}

// FmtCheck fails if any Go file is not gofmt-clean.
func (Lint) FmtCheck() error {
	out, err := sh.Output("gofmt", "-l", ".")
	if err != nil {
		return fmt.Errorf("gofmt: %w", err)
	}
	if out != "" {
		return fmt.Errorf("unformatted files:\n%s", out)
	}
	return nil
}

// Gate is the full CI run.
func (CI) Gate() error {
	st.SerialDeps(Lint.FmtCheck, Lint.CI, Build, Test.Default, CI.ModTidy, CI.Cross, Smoke)
	fmt.Println("✓ gate passed")
	return nil
}

// ModTidy fails if go mod tidy changes go.mod.
func (CI) ModTidy() error {
	before, err := os.ReadFile("go.mod")
	if err != nil {
		return fmt.Errorf("read go.mod: %w", err)
	}
	if err := sh.RunV("go", "mod", "tidy"); err != nil {
		return err
	}
	after, err := os.ReadFile("go.mod")
	if err != nil {
		return fmt.Errorf("read go.mod: %w", err)
	}
	if !bytes.Equal(before, after) {
		return errors.New("go.mod is not tidy")
	}
	return nil
}

// Cross builds the binary for every release platform.
func (CI) Cross() error {
	for _, platform := range releasePlatforms {
		goos, goarch := platform[0], platform[1]
		env := map[string]string{"GOOS": goos, "GOARCH": goarch, "CGO_ENABLED": "0"}
		if err := sh.RunWith(env, "go", "build", "-o", os.DevNull, "./cmd/structparse"); err != nil {
			return fmt.Errorf("build %s/%s: %w", goos, goarch, err)
		}
	}
	return nil
}

// Default runs the tokenizer and parser benchmarks.
func (Bench) Default() error {
	return sh.RunV("go", "test", "-run=^$", "-bench=.", "-benchmem", "./pkg/parser")
}

// Fuzz runs each parser fuzz target for STAVE_FUZZ_TIME (default 30s).
func (Bench) Fuzz() error {
	fuzzTime := cmp.Or(os.Getenv("STAVE_FUZZ_TIME"), "30s")
	for _, fuzz := range []string{"FuzzParse", "FuzzTokenize"} {
		fmt.Printf("Fuzzing %s for %s...\n", fuzz, fuzzTime)
		err := sh.RunV("go", "test", "-run=^$", "-fuzz=^"+fuzz+"$", "-fuzztime="+fuzzTime, "./pkg/parser")
		if err != nil {
			return fmt.Errorf("fuzz %s: %w", fuzz, err)
		}
	}
	return nil
}

// gotestsum runs go test through gotestsum with the given output format.
func gotestsum(format string, args ...string) error {
	nCores := cmp.Or(os.Getenv("STAVE_NUM_PROCESSORS"), "4")
	cmdArgs := append([]string{"tool", "gotestsum", "-f", format, "--", "-p", nCores, "-parallel", nCores}, args...)
	return sh.RunV("go", cmdArgs...)
}

func gitOutput(args ...string) string {
	out, err := sh.Output("git", args...)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(out)
}

// ldflags injects version, commit and build date into cmd/structparse.
func ldflags() string {
	version := cmp.Or(gitOutput("describe", "--tags", "--always", "--dirty"), "dev")
	commit := cmp.Or(gitOutput("rev-parse", "--short", "HEAD"), "none")
	date := time.Now().UTC().Format(time.RFC3339)
	return fmt.Sprintf("-X main.version=%s -X main.commit=%s -X main.date=%s", version, commit, date)
}
