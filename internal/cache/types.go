// Package cache persists recently read documents so they can be
// reopened without their original source. Failures here are never
// fatal: callers log and continue, playback is unaffected.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"
)

// Common errors for store operations.
var (
	// ErrDocumentTooLarge is returned when a document exceeds the
	// store capacity.
	ErrDocumentTooLarge = errors.New("document too large for store")

	// ErrMiss is returned when a document is not in the store.
	ErrMiss = errors.New("document not in store")

	// ErrCorrupted is returned when stored data cannot be decoded.
	ErrCorrupted = errors.New("stored document corrupted")
)

// Document is a persisted reading source.
type Document struct {
	Name        string
	Text        string
	Fingerprint string
	WordCount   int
	SavedAt     time.Time
	LastOpened  time.Time
}

// Stats holds store metrics.
type Stats struct {
	Capacity  int64
	Size      int64
	Documents int
	Hits      int64
	Misses    int64
	Evictions int64
}

// Fingerprint derives the content identity of a document text.
func Fingerprint(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
