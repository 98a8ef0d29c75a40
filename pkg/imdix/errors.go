package imdix

import (
	"errors"
	"strings"
)

// Sentinel errors for common failure scenarios.
// These enable callers to distinguish error types using errors.Is().
//
// Example usage:
//
//	result, err := coordinator.Run(ctx, project, cfg, onProgress)
//	if errors.Is(err, imdix.ErrSchemaValidation) {
//	    // Show the validation report
//	}
var (
	// ErrInvalidConfig indicates the provided configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrProjectNotFound indicates the project folder or its project file is missing.
	ErrProjectNotFound = errors.New("project not found")

	// ErrSchemaValidation indicates a document failed XML Schema validation.
	ErrSchemaValidation = errors.New("schema validation failed")

	// ErrSchemaNotFound indicates a schema file could not be loaded.
	ErrSchemaNotFound = errors.New("schema not found")

	// ErrOutputPreparation indicates the output root could not be cleared or created.
	ErrOutputPreparation = errors.New("output preparation failed")

	// ErrCancelled indicates the export was cancelled before completion.
	ErrCancelled = errors.New("export cancelled")

	// ErrOverwriteDenied indicates the user declined clearing a non-empty output folder.
	ErrOverwriteDenied = errors.New("overwrite of output folder denied")

	// ErrWrongFolderKind indicates a generator was handed a folder of the wrong kind.
	// This is a programming error, not a data problem.
	ErrWrongFolderKind = errors.New("wrong folder kind")
)

// ExitCodeForError returns the appropriate exit code for an error.
// Returns ExitSuccess (0) for nil errors, semantic codes for known errors,
// and ExitGeneralError (1) for unclassified errors.
func ExitCodeForError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	switch {
	case errors.Is(err, ErrInvalidConfig):
		return ExitConfigError
	case errors.Is(err, ErrProjectNotFound):
		return ExitProjectError
	case errors.Is(err, ErrSchemaValidation):
		return ExitValidationFailed
	case errors.Is(err, ErrSchemaNotFound):
		return ExitSchemaUnavailable
	case errors.Is(err, ErrOutputPreparation):
		return ExitOutputError
	case errors.Is(err, ErrCancelled):
		return ExitCancelled
	case errors.Is(err, ErrOverwriteDenied):
		return ExitOverwriteDenied
	}

	// cobra reports usage problems as plain errors
	errStr := err.Error()
	for _, marker := range usageErrorMarkers {
		if strings.Contains(errStr, marker) {
			return ExitUsageError
		}
	}

	return ExitGeneralError
}

var usageErrorMarkers = []string{
	"unknown flag",
	"unknown shorthand flag",
	"unknown command",
	"accepts ",
	"requires at least",
	"required flag",
	"missing required argument",
	"invalid argument",
}
