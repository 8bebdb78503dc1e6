package main

import (
	"errors"
	"os"

	csv2docx "github.com/alnah/go-csv2docx"
)

// Exit codes for the csv2docx CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, 3=I/O.
const (
	ExitSuccess = 0 // Successful conversion
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // File not found, permission denied, write failure
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrReadInput) ||
		errors.Is(err, csv2docx.ErrOpenTemplate) ||
		errors.Is(err, csv2docx.ErrWriteDocument) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, ErrUsage) ||
		errors.Is(err, ErrUnsupportedInput) ||
		errors.Is(err, ErrEmptyInput) ||
		errors.Is(err, csv2docx.ErrConfigNotFound) ||
		errors.Is(err, csv2docx.ErrConfigParse) ||
		errors.Is(err, csv2docx.ErrMissingStartTemplate) ||
		errors.Is(err, csv2docx.ErrTemplateFileNotFound) ||
		errors.Is(err, csv2docx.ErrUnknownTemplate) ||
		errors.Is(err, csv2docx.ErrEmptyTemplateID) ||
		errors.Is(err, csv2docx.ErrNoRows) {
		return ExitUsage
	}

	return ExitGeneral
}
