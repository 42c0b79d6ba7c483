// Package provider implements page text providers over local sources.
package provider

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/rogerjs93/rsvp/reader"
)

var paragraphBreak = regexp.MustCompile(`\n{2,}`)

// Paginated serves a plain-text document as fixed-size pages of whole
// paragraphs, so the loading pipeline behaves the same for local text
// as it would for a paginated document format.
type Paginated struct {
	pages   []string
	latency time.Duration
}

// Option configures a Paginated provider.
type Option func(*Paginated)

// WithLatency adds a simulated per-page extraction delay, useful for
// demos and for exercising backpressure in tests.
func WithLatency(d time.Duration) Option {
	return func(p *Paginated) { p.latency = d }
}

// NewPaginated splits text into pages of paragraphsPerPage paragraphs.
func NewPaginated(text string, paragraphsPerPage int, opts ...Option) *Paginated {
	if paragraphsPerPage < 1 {
		paragraphsPerPage = 1
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	var paragraphs []string
	for _, para := range paragraphBreak.Split(text, -1) {
		if strings.TrimSpace(para) != "" {
			paragraphs = append(paragraphs, para)
		}
	}

	p := &Paginated{}
	for start := 0; start < len(paragraphs); start += paragraphsPerPage {
		end := start + paragraphsPerPage
		if end > len(paragraphs) {
			end = len(paragraphs)
		}
		p.pages = append(p.pages, strings.Join(paragraphs[start:end], "\n\n"))
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Init reports the page count.
func (p *Paginated) Init(_ context.Context) (int, error) {
	return len(p.pages), nil
}

// FetchPage returns the text of one 1-based page. Idempotent.
func (p *Paginated) FetchPage(ctx context.Context, ordinal int) (reader.PageText, error) {
	if ordinal < 1 || ordinal > len(p.pages) {
		return reader.PageText{}, reader.ErrOrdinalOutOfRange
	}
	if p.latency > 0 {
		select {
		case <-time.After(p.latency):
		case <-ctx.Done():
			return reader.PageText{}, ctx.Err()
		}
	}
	return reader.PageText{Text: p.pages[ordinal-1], LayoutOk: true}, nil
}
