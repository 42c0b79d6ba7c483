package reader

import (
	"errors"
	"fmt"
)

// Common errors for the reader core.
var (
	// Initialization errors. These are fatal to a document session: no
	// loader or scheduler is started when they occur.
	ErrNoPages        = errors.New("document has no pages")
	ErrProviderFailed = errors.New("page text provider failed to open source")

	// Extraction errors. One page could not be obtained; the page is
	// marked failed and the pipeline continues.
	ErrExtraction = errors.New("page text extraction failed")

	// Configuration errors.
	ErrInvalidRate    = errors.New("words-per-minute rate must be positive")
	ErrUnknownProfile = errors.New("unknown pause profile")

	// Scheduler errors.
	ErrNoSequence      = errors.New("no sequence attached")
	ErrEmptySequence   = errors.New("sequence has no tokens")
	ErrSchedulerClosed = errors.New("scheduler has been closed")

	// Loader errors.
	ErrLoaderClosed      = errors.New("loader has been closed")
	ErrOrdinalOutOfRange = errors.New("page ordinal out of range")
)

// ErrorSeverity represents the severity of a reader error.
type ErrorSeverity int

const (
	// SeverityWarning is for conditions that do not interrupt playback.
	SeverityWarning ErrorSeverity = iota
	// SeverityError is for errors that degrade the session.
	SeverityError
	// SeverityFatal is for errors that end the session.
	SeverityFatal
)

// String returns the string representation of the severity.
func (s ErrorSeverity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityFatal:
		return "fatal"
	default:
		return "unknown"
	}
}

// ReaderError carries the component and action context of a failure.
type ReaderError struct {
	Err       error
	Component string // "loader", "scheduler", "pacing", "provider"
	Action    string // what was being done when the error occurred
	Ordinal   int    // page ordinal for page-scoped errors, 0 otherwise
	Severity  ErrorSeverity
}

// Error implements the error interface.
func (e *ReaderError) Error() string {
	if e.Ordinal > 0 {
		return fmt.Sprintf("%s/%s (page %d): %v", e.Component, e.Action, e.Ordinal, e.Err)
	}
	return fmt.Sprintf("%s/%s: %v", e.Component, e.Action, e.Err)
}

// Unwrap returns the underlying error.
func (e *ReaderError) Unwrap() error {
	return e.Err
}

// IsRecoverable reports whether the pipeline continues past the error.
// Extraction failures are page-scoped and recoverable; initialization
// failures are not.
func (e *ReaderError) IsRecoverable() bool {
	return e.Severity != SeverityFatal
}

// NewExtractionError wraps a per-page extraction failure.
func NewExtractionError(ordinal int, err error) *ReaderError {
	return &ReaderError{
		Err:       fmt.Errorf("%w: %w", ErrExtraction, err),
		Component: "loader",
		Action:    "fetch_page",
		Ordinal:   ordinal,
		Severity:  SeverityWarning,
	}
}

// NewInitializationError wraps a fatal source-open failure.
func NewInitializationError(err error) *ReaderError {
	return &ReaderError{
		Err:       err,
		Component: "loader",
		Action:    "open_source",
		Severity:  SeverityFatal,
	}
}

// IsInitializationError reports whether err is fatal to the session.
func IsInitializationError(err error) bool {
	var re *ReaderError
	if errors.As(err, &re) {
		return re.Severity == SeverityFatal
	}
	return false
}
