// Package reader implements the core of a rapid serial visual presentation
// reader: a pacing engine that turns tokens into display durations and a
// playback scheduler that advances a cursor over a token sequence, which
// may still be growing while playback is underway.
package reader

import (
	"time"
	"unicode"
)

// Token is a word-like display unit with its trailing punctuation
// attached. Immutable once produced.
type Token struct {
	Text           string
	IsParagraphEnd bool
}

// TrailingRune returns the last rune of the token text, or 0 for an
// empty token.
func (t Token) TrailingRune() rune {
	var last rune
	for _, r := range t.Text {
		last = r
	}
	return last
}

// WordLength counts only the letter and digit runes of the token.
func (t Token) WordLength() int {
	n := 0
	for _, r := range t.Text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			n++
		}
	}
	return n
}

// ContainsDigit reports whether any rune of the token is a digit.
func (t Token) ContainsDigit() bool {
	for _, r := range t.Text {
		if unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

// IsSentenceEnd reports whether the token ends a sentence.
func (t Token) IsSentenceEnd() bool {
	switch t.TrailingRune() {
	case '.', '!', '?':
		return true
	}
	return false
}

// IsClauseEnd reports whether the token ends a clause with a comma-class
// pause. Sentence-ending tokens are not clause-ending; the sentence
// check takes priority.
func (t Token) IsClauseEnd() bool {
	if t.IsSentenceEnd() {
		return false
	}
	switch t.TrailingRune() {
	case ',', ';', ':':
		return true
	}
	return false
}

// Page holds the tokens contributed by one page of the source document.
// Owned by the loader once created; read-only to everyone else.
type Page struct {
	Ordinal     int // 1-based page number
	Tokens      []Token
	LoadLatency time.Duration
}

// WordRange is the contiguous slice of the aggregated token sequence
// contributed by one page. Ranges never overlap, and sorting them by
// page ordinal yields sorted, contiguous index ranges.
type WordRange struct {
	PageOrdinal int
	StartIndex  int
	EndIndex    int // inclusive
}

// LoadState tracks the lifecycle of a single page ordinal.
type LoadState int

const (
	// LoadNotRequested means no fetch has been issued for the page.
	LoadNotRequested LoadState = iota
	// LoadInFlight means a fetch is outstanding.
	LoadInFlight
	// LoadDone means the page is loaded and aggregated.
	LoadDone
	// LoadFailed is terminal: the page is skipped, never retried.
	LoadFailed
)

// String returns the string representation of the load state.
func (s LoadState) String() string {
	switch s {
	case LoadNotRequested:
		return "not-requested"
	case LoadInFlight:
		return "loading"
	case LoadDone:
		return "loaded"
	case LoadFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Cursor is the scheduler's position within the active sequence.
type Cursor struct {
	Index       int
	IsPlaying   bool
	LoopEnabled bool
}

// Frame is what a renderer consumes on every advance.
type Frame struct {
	Token         Token
	Index         int
	Length        int // tokens currently available
	TotalEstimate int // advisory total, drives progress math only
}
