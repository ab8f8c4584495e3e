package logging

// Field name constants for structured logging.
const (
	// Common fields.
	FieldError      = "error"
	FieldPath       = "path"
	FieldPaths      = "paths"
	FieldFiles      = "files"
	FieldWorkingDir = "working_dir"
	FieldConfig     = "config"
	FieldWarning    = "warning"
	FieldCommand    = "command"

	// Run fields.
	FieldJobs     = "jobs"
	FieldFormat   = "format"
	FieldMarkdown = "markdown"
	FieldWrite    = "write"

	// Diagnostic code fields.
	FieldCode        = "code"
	FieldDescription = "description"

	// Statistics fields.
	FieldFilesDiscovered  = "files_discovered"
	FieldFilesProcessed   = "files_processed"
	FieldFilesWithErrors  = "files_with_errors"
	FieldFilesWritten     = "files_written"
	FieldStructs          = "structs"
	FieldFields           = "fields"
	FieldDiagnosticsTotal = "diagnostics_total"
	FieldTokens           = "tokens"

	// Version fields.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"
)
