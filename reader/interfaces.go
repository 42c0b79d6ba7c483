package reader

import "context"

// PageText is the raw extraction result for one page.
type PageText struct {
	Text     string
	LayoutOk bool
}

// PageTextProvider supplies per-page text from a paginated source.
// FetchPage is idempotent: fetching the same ordinal twice is safe and
// returns the same result, so concurrent duplicate requests may be
// coalesced.
type PageTextProvider interface {
	// Init opens the source and returns the total page count.
	Init(ctx context.Context) (int, error)

	// FetchPage extracts the text of one 1-based page ordinal.
	FetchPage(ctx context.Context, ordinal int) (PageText, error)
}

// Sequence is an ordered, index-stable token sequence. Implementations
// must never reassign the token at an index once it has been handed
// out, even if the sequence is still growing.
type Sequence interface {
	// TokenAt returns the token at index i, or false when i is out of
	// range for the tokens currently available.
	TokenAt(i int) (Token, bool)

	// Len returns the number of tokens currently available.
	Len() int
}

// GrowingSequence is a Sequence that is still being produced. The
// scheduler polls NeedsMore before arming each dwell and suspends on
// WaitForContent when it has caught up to the producer.
type GrowingSequence interface {
	Sequence

	// NeedsMore reports whether the consumer at index i is within the
	// lookahead distance of the end of the available tokens while more
	// pages remain to load.
	NeedsMore(i int) bool

	// WaitForContent returns a channel that is closed once no page
	// fetch is outstanding and no background loading step is in
	// flight. All concurrent waiters are released by the same event.
	WaitForContent() <-chan struct{}

	// EstimatedTotal returns the advisory total token count.
	EstimatedTotal() int
}

// TextSequence is a static token sequence over fully available text.
type TextSequence struct {
	tokens []Token
}

// NewTextSequence wraps a pre-tokenized text.
func NewTextSequence(tokens []Token) *TextSequence {
	return &TextSequence{tokens: tokens}
}

// TokenAt returns the token at index i.
func (s *TextSequence) TokenAt(i int) (Token, bool) {
	if i < 0 || i >= len(s.tokens) {
		return Token{}, false
	}
	return s.tokens[i], true
}

// Len returns the number of tokens.
func (s *TextSequence) Len() int {
	return len(s.tokens)
}
