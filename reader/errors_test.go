package reader

import (
	"errors"
	"strings"
	"testing"
)

func TestReaderErrorMessage(t *testing.T) {
	err := &ReaderError{
		Err:       ErrExtraction,
		Component: "loader",
		Action:    "fetch_page",
		Ordinal:   4,
		Severity:  SeverityWarning,
	}
	msg := err.Error()
	for _, part := range []string{"loader", "fetch_page", "page 4"} {
		if !strings.Contains(msg, part) {
			t.Errorf("Error() = %q, missing %q", msg, part)
		}
	}

	// Without an ordinal the page suffix is omitted.
	err.Ordinal = 0
	if strings.Contains(err.Error(), "page") {
		t.Errorf("Error() = %q, should omit page context", err.Error())
	}
}

func TestErrorWrapping(t *testing.T) {
	cause := errors.New("socket closed")
	err := NewExtractionError(2, cause)

	if !errors.Is(err, ErrExtraction) {
		t.Error("extraction error should wrap ErrExtraction")
	}
	if !errors.Is(err, cause) {
		t.Error("extraction error should wrap its cause")
	}

	var re *ReaderError
	if !errors.As(err, &re) {
		t.Fatal("errors.As failed to find *ReaderError")
	}
	if re.Ordinal != 2 {
		t.Errorf("ordinal = %d, want 2", re.Ordinal)
	}
}

func TestErrorSeverity(t *testing.T) {
	ext := NewExtractionError(1, errors.New("bad page"))
	if !ext.IsRecoverable() {
		t.Error("extraction errors are recoverable")
	}
	if ext.Severity != SeverityWarning {
		t.Errorf("extraction severity = %v, want warning", ext.Severity)
	}

	init := NewInitializationError(ErrNoPages)
	if init.IsRecoverable() {
		t.Error("initialization errors are not recoverable")
	}
	if !IsInitializationError(init) {
		t.Error("IsInitializationError should report true")
	}
	if IsInitializationError(ext) {
		t.Error("IsInitializationError should report false for extraction errors")
	}
	if IsInitializationError(errors.New("plain")) {
		t.Error("IsInitializationError should report false for plain errors")
	}
}

func TestSeverityString(t *testing.T) {
	tests := []struct {
		s    ErrorSeverity
		want string
	}{
		{SeverityWarning, "warning"},
		{SeverityError, "error"},
		{SeverityFatal, "fatal"},
		{ErrorSeverity(9), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.s.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", tt.s, got, tt.want)
		}
	}
}
