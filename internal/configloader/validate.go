package configloader

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/yaklabco/structparse/pkg/config"
)

// maxJobsPerCPU bounds the worker count before a warning is emitted.
const maxJobsPerCPU = 8

// ValidationError represents a configuration validation error.
type ValidationError struct {
	// Field is the path to the invalid field (e.g., "markdown.extensions[0]").
	Field string

	// Value is the invalid value.
	Value any

	// Message describes the validation error.
	Message string

	// FilePath is the config file containing the error (if known).
	FilePath string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	var parts []string

	if e.FilePath != "" {
		parts = append(parts, e.FilePath)
	}
	if e.Field != "" {
		parts = append(parts, e.Field)
	}
	parts = append(parts, e.Message)

	return strings.Join(parts, ": ")
}

// ValidationResult contains all validation findings.
type ValidationResult struct {
	// Errors are validation failures that prevent loading.
	Errors []ValidationError

	// Warnings are non-fatal issues.
	Warnings []ValidationError
}

// Valid returns true if there are no errors.
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// HasWarnings returns true if there are any warnings.
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// AllMessages returns all error and warning messages combined.
func (r *ValidationResult) AllMessages() []string {
	messages := make([]string, 0, len(r.Errors)+len(r.Warnings))
	for _, e := range r.Errors {
		messages = append(messages, "error: "+e.Error())
	}
	for _, w := range r.Warnings {
		messages = append(messages, "warning: "+w.Error())
	}
	return messages
}

func (r *ValidationResult) addError(field string, value any, format string, args ...any) {
	r.Errors = append(r.Errors, ValidationError{Field: field, Value: value, Message: fmt.Sprintf(format, args...)})
}

func (r *ValidationResult) addWarning(field string, value any, format string, args ...any) {
	r.Warnings = append(r.Warnings, ValidationError{Field: field, Value: value, Message: fmt.Sprintf(format, args...)})
}

// Validate checks a configuration for errors and warnings.
func Validate(cfg *config.Config) *ValidationResult {
	result := &ValidationResult{}
	if cfg == nil {
		return result
	}

	if cfg.Format != "" && !cfg.Format.IsValid() {
		result.addError("format", cfg.Format,
			"invalid format %q; must be one of: text, json, sarif, summary, diff", cfg.Format)
	}

	if cfg.Jobs < 0 {
		result.addError("jobs", cfg.Jobs, "jobs must be >= 0 (0 means auto)")
	} else if limit := maxJobsPerCPU * runtime.NumCPU(); cfg.Jobs > limit {
		result.addWarning("jobs", cfg.Jobs, "jobs %d is more than %d per CPU", cfg.Jobs, maxJobsPerCPU)
	}

	if strings.Trim(cfg.Indent, " \t") != "" {
		result.addError("indent", cfg.Indent, "indent %q must contain only spaces and tabs", cfg.Indent)
	}

	validateExtensions("extensions", cfg.Extensions, result)
	validateExtensions("markdown.extensions", cfg.Markdown.Extensions, result)

	for i, info := range cfg.Markdown.InfoStrings {
		if info == "" || strings.ContainsAny(info, " \t\n`~") {
			result.addError(fmt.Sprintf("markdown.info_strings[%d]", i), info,
				"invalid info string %q; must be a single word", info)
		}
	}

	validateIgnorePatterns(cfg, result)

	return result
}

// validateExtensions checks that every extension starts with a dot.
func validateExtensions(field string, extensions []string, result *ValidationResult) {
	for i, ext := range extensions {
		if len(ext) < 2 || ext[0] != '.' || strings.ContainsAny(ext, `/\`) {
			result.addError(fmt.Sprintf("%s[%d]", field, i), ext,
				"invalid extension %q; must start with a dot, e.g. \".sdef\"", ext)
		}
	}
}

// validateIgnorePatterns checks that ignore patterns are valid globs.
func validateIgnorePatterns(cfg *config.Config, result *ValidationResult) {
	for i, pattern := range cfg.Ignore {
		// filepath.Match returns an error only for malformed patterns.
		_, err := filepath.Match(strings.ReplaceAll(pattern, "**", "*"), "")
		if err != nil {
			result.addError(fmt.Sprintf("ignore[%d]", i), pattern, "invalid glob pattern: %v", err)
		}
	}
}

// ValidateWithFile validates configuration and includes file path in errors.
func ValidateWithFile(cfg *config.Config, filePath string) *ValidationResult {
	result := Validate(cfg)

	for i := range result.Errors {
		result.Errors[i].FilePath = filePath
	}
	for i := range result.Warnings {
		result.Warnings[i].FilePath = filePath
	}

	return result
}

// IsValidFormat returns true if the format is valid.
func IsValidFormat(f config.OutputFormat) bool {
	return f.IsValid()
}
