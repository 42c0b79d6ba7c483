// Package loader turns a paginated source into a continuously growing,
// index-stable token sequence. A background task supplies pages one at
// a time while consumers read by index; when a consumer catches up to
// the producer it suspends on a wait/notify contract instead of
// polling.
package loader

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	"github.com/rogerjs93/rsvp/reader"
	"github.com/rogerjs93/rsvp/reader/token"
)

// tokensPerPageEstimate seeds the advisory total before any page has
// loaded.
const tokensPerPageEstimate = 250

// Options configure a loader.
type Options struct {
	// Lookahead is the backpressure distance: a consumer within this
	// many tokens of the end of the aggregated sequence needs more.
	Lookahead int

	// YieldDelay is the pause between background page loads, so the
	// consumer is never starved of scheduling opportunities.
	YieldDelay time.Duration

	// FailureDelay is the longer pause after a failed page load.
	FailureDelay time.Duration
}

// DefaultOptions returns the standard loader tuning.
func DefaultOptions() Options {
	return Options{
		Lookahead:    10,
		YieldDelay:   50 * time.Millisecond,
		FailureDelay: 500 * time.Millisecond,
	}
}

// Event is implemented by every loader event.
type Event interface{ isLoaderEvent() }

// PageLoadedEvent is emitted after a page is tokenized and aggregated.
type PageLoadedEvent struct {
	Ordinal    int
	TokenCount int
	Latency    time.Duration
}

// PageFailedEvent is emitted when a page's text cannot be extracted.
// The page is skipped; the pipeline continues.
type PageFailedEvent struct {
	Ordinal int
	Err     error
}

// CompleteEvent is emitted exactly once, when every ordinal has been
// attempted.
type CompleteEvent struct{}

func (PageLoadedEvent) isLoaderEvent() {}
func (PageFailedEvent) isLoaderEvent() {}
func (CompleteEvent) isLoaderEvent()   {}

// snapshot is the aggregated sequence at one point in time. Snapshots
// are immutable once published: every rebuild swaps in a fresh one, so
// readers always see either a complete pre-update or complete
// post-update view.
type snapshot struct {
	tokens   []reader.Token
	ranges   []reader.WordRange
	estimate int
}

// Loader owns the page cache, the word-range index and the waiter
// queue for one document session.
type Loader struct {
	provider   reader.PageTextProvider
	totalPages int

	ctx    context.Context
	cancel context.CancelFunc

	limiter      *rate.Limiter
	failureDelay time.Duration
	lookahead    int

	mu       sync.Mutex
	pages    map[int]*reader.Page
	states   map[int]reader.LoadState
	fails    map[int]error
	inflight map[int]chan struct{}
	waiters  []chan struct{}
	snap     *snapshot

	bgStarted bool
	bgRunning bool
	complete  bool

	completeCh chan struct{}
	events     chan Event
}

var closedChan = func() chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}()

// Open initializes the source and creates a loader for it. A provider
// failure or a zero-page source is fatal to the session.
func Open(ctx context.Context, provider reader.PageTextProvider, opts Options) (*Loader, error) {
	total, err := provider.Init(ctx)
	if err != nil {
		return nil, reader.NewInitializationError(fmt.Errorf("%w: %w", reader.ErrProviderFailed, err))
	}
	if total <= 0 {
		return nil, reader.NewInitializationError(reader.ErrNoPages)
	}
	if opts.Lookahead <= 0 {
		opts.Lookahead = DefaultOptions().Lookahead
	}
	if opts.YieldDelay <= 0 {
		opts.YieldDelay = DefaultOptions().YieldDelay
	}
	if opts.FailureDelay <= 0 {
		opts.FailureDelay = DefaultOptions().FailureDelay
	}

	lctx, cancel := context.WithCancel(context.Background())
	l := &Loader{
		provider:     provider,
		totalPages:   total,
		ctx:          lctx,
		cancel:       cancel,
		limiter:      rate.NewLimiter(rate.Every(opts.YieldDelay), 1),
		failureDelay: opts.FailureDelay,
		lookahead:    opts.Lookahead,
		pages:        make(map[int]*reader.Page),
		states:       make(map[int]reader.LoadState),
		fails:        make(map[int]error),
		inflight:     make(map[int]chan struct{}),
		snap:         &snapshot{estimate: total * tokensPerPageEstimate},
		completeCh:   make(chan struct{}),
		events:       make(chan Event, 32),
	}
	log.Debug("loader opened", "pages", total)
	return l, nil
}

// Close discards the loader. In-flight fetches are allowed to complete
// but their results are ignored by anyone who has moved on; waiters are
// released so no consumer stays suspended on a dead loader.
func (l *Loader) Close() {
	l.cancel()
	l.mu.Lock()
	l.releaseWaitersLocked()
	l.mu.Unlock()
}

// Events returns the loader's event stream.
func (l *Loader) Events() <-chan Event {
	return l.events
}

// TotalPages returns the page count reported by the provider.
func (l *Loader) TotalPages() int {
	return l.totalPages
}

// LoadedPages returns how many pages are currently aggregated.
func (l *Loader) LoadedPages() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.pages)
}

// PageState returns the load state of one ordinal.
func (l *Loader) PageState(ordinal int) reader.LoadState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.states[ordinal]
}

// Done returns a channel closed once background loading has attempted
// every ordinal.
func (l *Loader) Done() <-chan struct{} {
	return l.completeCh
}

// TokenAt returns the token at index i of the aggregated sequence.
// Index identity is stable: once assigned, i always refers to the same
// token even as later pages extend the sequence.
func (l *Loader) TokenAt(i int) (reader.Token, bool) {
	snap := l.current()
	if i < 0 || i >= len(snap.tokens) {
		return reader.Token{}, false
	}
	return snap.tokens[i], true
}

// Len returns the number of tokens currently aggregated.
func (l *Loader) Len() int {
	return len(l.current().tokens)
}

// Tokens returns the aggregated token sequence. The returned slice is
// an immutable snapshot; later loads publish a new one.
func (l *Loader) Tokens() []reader.Token {
	return l.current().tokens
}

// WordRanges returns the per-page index spans, sorted by ordinal.
func (l *Loader) WordRanges() []reader.WordRange {
	return l.current().ranges
}

// EstimatedTotal returns the advisory total token count: pages × 250
// before anything has loaded, refined to the loaded-page average after
// each aggregation. It drives progress math only, never indexing.
func (l *Loader) EstimatedTotal() int {
	return l.current().estimate
}

// NeedsMore reports whether the consumer at index i is within the
// lookahead distance of the end of the aggregated sequence while pages
// remain unattempted. This is the backpressure signal the scheduler
// polls before arming each dwell.
func (l *Loader) NeedsMore(i int) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.allAttemptedLocked() {
		return false
	}
	return i >= len(l.snap.tokens)-l.lookahead
}

// WaitForContent returns a channel closed once no page fetch is
// outstanding and no background loading step is in flight. If nothing
// more will arrive without another explicit trigger, the channel is
// already closed. All concurrent waiters are released, in registration
// order, by the same completion event.
func (l *Loader) WaitForContent() <-chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.allAttemptedLocked() || (len(l.inflight) == 0 && !l.bgRunning) {
		return closedChan
	}
	ch := make(chan struct{})
	l.waiters = append(l.waiters, ch)
	return ch
}

// LoadPage loads one ordinal. Already-loaded pages return immediately;
// if a fetch for the ordinal is in flight the caller joins it rather
// than issuing a duplicate, so at most one fetch per ordinal is ever
// outstanding. A failed page is terminal: subsequent calls return the
// recorded extraction error without retrying.
func (l *Loader) LoadPage(ctx context.Context, ordinal int) error {
	if ordinal < 1 || ordinal > l.totalPages {
		return fmt.Errorf("%w: %d of %d", reader.ErrOrdinalOutOfRange, ordinal, l.totalPages)
	}

	l.mu.Lock()
	switch l.states[ordinal] {
	case reader.LoadDone:
		l.mu.Unlock()
		return nil
	case reader.LoadFailed:
		err := l.fails[ordinal]
		l.mu.Unlock()
		return err
	case reader.LoadInFlight:
		join := l.inflight[ordinal]
		l.mu.Unlock()
		select {
		case <-join:
		case <-ctx.Done():
			return ctx.Err()
		case <-l.ctx.Done():
			return reader.ErrLoaderClosed
		}
		l.mu.Lock()
		err := l.fails[ordinal]
		l.mu.Unlock()
		return err
	}

	done := make(chan struct{})
	l.states[ordinal] = reader.LoadInFlight
	l.inflight[ordinal] = done
	l.mu.Unlock()

	return l.fetch(ordinal, done)
}

// fetch performs the single outstanding request for an ordinal and
// publishes the result. It runs on the loader's own context so joiners
// are not cancelled by the first caller's context.
func (l *Loader) fetch(ordinal int, done chan struct{}) error {
	start := time.Now()
	pt, err := l.provider.FetchPage(l.ctx, ordinal)
	latency := time.Since(start)

	l.mu.Lock()
	delete(l.inflight, ordinal)

	if err != nil {
		extractErr := reader.NewExtractionError(ordinal, err)
		l.states[ordinal] = reader.LoadFailed
		l.fails[ordinal] = extractErr
		close(done)
		l.releaseWaitersIfIdleLocked()
		l.mu.Unlock()

		log.Warn("page load failed", "ordinal", ordinal, "err", err)
		l.emit(PageFailedEvent{Ordinal: ordinal, Err: extractErr})
		return extractErr
	}

	if !pt.LayoutOk {
		log.Debug("page layout degraded, using text anyway", "ordinal", ordinal)
	}

	page := &reader.Page{
		Ordinal:     ordinal,
		Tokens:      token.Tokenize(pt.Text),
		LoadLatency: latency,
	}
	l.pages[ordinal] = page
	l.states[ordinal] = reader.LoadDone
	l.rebuildLocked()
	close(done)
	l.releaseWaitersIfIdleLocked()
	l.mu.Unlock()

	l.emit(PageLoadedEvent{Ordinal: ordinal, TokenCount: len(page.Tokens), Latency: latency})
	return nil
}

// LoadInitial sequentially loads pages 1..min(count, totalPages) for
// fast first paint. Extraction failures are skipped, not fatal.
func (l *Loader) LoadInitial(ctx context.Context, count int) error {
	if count > l.totalPages {
		count = l.totalPages
	}
	for ordinal := 1; ordinal <= count; ordinal++ {
		if err := l.LoadPage(ctx, ordinal); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			// Page-scoped failure; neighbors still load.
			continue
		}
	}
	return nil
}

// StartBackgroundLoading begins the self-rescheduling load of every
// remaining page. Idempotent: calling it while running or after
// completion is a no-op.
func (l *Loader) StartBackgroundLoading() {
	l.mu.Lock()
	if l.bgStarted || l.complete {
		l.mu.Unlock()
		return
	}
	l.bgStarted = true
	l.bgRunning = true
	l.mu.Unlock()

	go l.backgroundLoop()
}

// backgroundLoop loads the next unattempted ordinal, yields, and
// repeats; a failed page is skipped after a longer backoff rather than
// retried. Terminates once every ordinal has been attempted and signals
// completion exactly once.
func (l *Loader) backgroundLoop() {
	for ordinal := 1; ordinal <= l.totalPages; ordinal++ {
		l.mu.Lock()
		state := l.states[ordinal]
		l.mu.Unlock()
		if state == reader.LoadDone || state == reader.LoadFailed {
			continue
		}

		err := l.LoadPage(l.ctx, ordinal)
		if l.ctx.Err() != nil {
			l.abandonBackground()
			return
		}
		if err != nil {
			select {
			case <-time.After(l.failureDelay):
			case <-l.ctx.Done():
				l.abandonBackground()
				return
			}
			continue
		}

		if err := l.limiter.Wait(l.ctx); err != nil {
			l.abandonBackground()
			return
		}
	}
	l.finishBackground()
}

func (l *Loader) abandonBackground() {
	l.mu.Lock()
	l.bgRunning = false
	l.releaseWaitersLocked()
	l.mu.Unlock()
}

func (l *Loader) finishBackground() {
	l.mu.Lock()
	l.bgRunning = false
	first := !l.complete
	l.complete = true
	l.releaseWaitersLocked()
	l.mu.Unlock()

	if first {
		close(l.completeCh)
		// Completion must reach the consumer even when the event buffer
		// is full of page events, so this send blocks until the consumer
		// drains or the loader closes.
		select {
		case l.events <- CompleteEvent{}:
		case <-l.ctx.Done():
		}
		log.Debug("background loading complete",
			"loaded", l.LoadedPages(), "total", l.totalPages)
	}
}

// rebuildLocked re-aggregates all loaded pages in ordinal order and
// publishes a fresh snapshot. Re-aggregation is by sorted ordinal, not
// arrival order, so index identity is deterministic even when a lower
// ordinal lands after a higher one.
func (l *Loader) rebuildLocked() {
	ordinals := make([]int, 0, len(l.pages))
	total := 0
	for ord, p := range l.pages {
		ordinals = append(ordinals, ord)
		total += len(p.Tokens)
	}
	sort.Ints(ordinals)

	tokens := make([]reader.Token, 0, total)
	ranges := make([]reader.WordRange, 0, len(ordinals))
	for _, ord := range ordinals {
		page := l.pages[ord]
		start := len(tokens)
		tokens = append(tokens, page.Tokens...)
		ranges = append(ranges, reader.WordRange{
			PageOrdinal: ord,
			StartIndex:  start,
			EndIndex:    len(tokens) - 1,
		})
	}

	estimate := l.totalPages * tokensPerPageEstimate
	if len(ordinals) > 0 {
		avg := float64(total) / float64(len(ordinals))
		estimate = int(math.Ceil(avg * float64(l.totalPages)))
	}

	l.snap = &snapshot{tokens: tokens, ranges: ranges, estimate: estimate}
}

// releaseWaitersIfIdleLocked releases every registered waiter once no
// fetch is outstanding, in registration order.
func (l *Loader) releaseWaitersIfIdleLocked() {
	if len(l.inflight) > 0 {
		return
	}
	l.releaseWaitersLocked()
}

func (l *Loader) releaseWaitersLocked() {
	for _, ch := range l.waiters {
		close(ch)
	}
	l.waiters = nil
}

func (l *Loader) allAttemptedLocked() bool {
	attempted := 0
	for _, st := range l.states {
		if st == reader.LoadDone || st == reader.LoadFailed {
			attempted++
		}
	}
	return attempted >= l.totalPages
}

func (l *Loader) current() *snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snap
}

func (l *Loader) emit(ev Event) {
	select {
	case l.events <- ev:
	default:
		log.Debug("loader event dropped", "event", fmt.Sprintf("%T", ev))
	}
}
