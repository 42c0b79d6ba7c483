package reader

import (
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// Scheduler drives a cursor over the active token sequence at the
// configured rate. All cursor and timer state is owned by a single
// goroutine; API calls are serialized onto it, so at most one dwell
// timer is armed at any instant and a stale timer can never act on a
// cursor it no longer describes.
type Scheduler struct {
	cmds   chan schedCmd
	done   chan struct{}
	events chan Event

	closeOnce sync.Once

	// Everything below is owned by the run goroutine.
	machine *StateMachine
	cursor  Cursor
	seq     Sequence
	wpm     int
	profile PauseProfile

	timer   *time.Timer
	timerC  <-chan time.Time
	starveC <-chan struct{}
}

type schedCmd struct {
	fn    func() error
	reply chan error
}

// NewScheduler creates a scheduler in the paused state with no sequence
// attached and starts its run goroutine.
func NewScheduler(wpm int, profile PauseProfile) *Scheduler {
	s := &Scheduler{
		cmds:    make(chan schedCmd),
		done:    make(chan struct{}),
		events:  make(chan Event, 64),
		machine: NewStateMachine(),
		wpm:     wpm,
		profile: profile,
	}
	go s.run()
	return s
}

// Events returns the scheduler's event stream. The channel is closed
// when the scheduler is closed.
func (s *Scheduler) Events() <-chan Event {
	return s.events
}

// Close stops the run goroutine and closes the event stream. Safe to
// call more than once.
func (s *Scheduler) Close() {
	s.closeOnce.Do(func() { close(s.done) })
}

// AttachSequence makes seq the active sequence and resets the cursor to
// index zero. Any armed timer is cancelled and any starvation wait on a
// previous sequence becomes inert.
func (s *Scheduler) AttachSequence(seq Sequence) error {
	return s.do(func() error {
		s.stopTimer()
		s.starveC = nil
		s.transition(StatePaused)
		s.seq = seq
		s.cursor.Index = 0
		s.cursor.IsPlaying = false
		if seq != nil && seq.Len() > 0 {
			s.emit(AdvancedEvent{Frame: s.frame()})
		}
		return nil
	})
}

// Play starts playback from the current index. A no-op when already
// playing. Fails without leaving the paused state when no sequence is
// attached, the sequence is empty, or the configured rate yields no
// defined dwell.
func (s *Scheduler) Play() error {
	return s.do(func() error {
		if s.machine.Current() != StatePaused {
			return nil
		}
		if s.seq == nil {
			return ErrNoSequence
		}
		if s.seq.Len() == 0 {
			return ErrEmptySequence
		}
		if _, ok := BaseInterval(s.wpm); !ok {
			return s.configurationError("play")
		}
		s.transition(StatePlaying)
		s.cursor.IsPlaying = true
		return s.armCurrent()
	})
}

// Pause cancels any armed timer and any starvation wait. Idempotent.
func (s *Scheduler) Pause() error {
	return s.do(func() error {
		s.stopTimer()
		s.starveC = nil
		s.transition(StatePaused)
		s.cursor.IsPlaying = false
		return nil
	})
}

// Seek moves the cursor to the target index, clamped to the bounds of
// the active sequence. Allowed in either state; while playing the
// in-flight timer is cancelled and scheduling restarts from the new
// index.
func (s *Scheduler) Seek(target int) error {
	return s.do(func() error {
		if s.seq == nil {
			return ErrNoSequence
		}
		n := s.seq.Len()
		if n == 0 {
			return ErrEmptySequence
		}
		if target < 0 {
			target = 0
		}
		if target > n-1 {
			target = n - 1
		}
		s.cursor.Index = target
		s.emit(AdvancedEvent{Frame: s.frame()})
		switch s.machine.Current() {
		case StatePlaying:
			s.stopTimer()
			return s.armCurrent()
		case StateStarved:
			s.starveC = nil
			s.transition(StatePlaying)
			return s.armCurrent()
		}
		return nil
	})
}

// SetRate changes the words-per-minute rate. While playing the pending
// timer is cancelled and a new dwell is computed for the current index,
// so the change takes effect on the very next tick without skipping or
// repeating a token. A non-positive rate is reported as a configuration
// error and pauses playback instead of spinning.
func (s *Scheduler) SetRate(wpm int) error {
	return s.do(func() error {
		s.wpm = wpm
		if _, ok := BaseInterval(wpm); !ok {
			if s.machine.Current() != StatePaused {
				s.stopTimer()
				s.starveC = nil
				s.transition(StatePaused)
				s.cursor.IsPlaying = false
			}
			return s.configurationError("set_rate")
		}
		if s.machine.Current() == StatePlaying {
			s.stopTimer()
			return s.armCurrent()
		}
		return nil
	})
}

// SetProfile selects a pause profile by name. While playing, the change
// applies from the current index like a rate change.
func (s *Scheduler) SetProfile(name string) error {
	return s.do(func() error {
		p, err := ProfileByName(name)
		if err != nil {
			return err
		}
		s.profile = p
		if s.machine.Current() == StatePlaying {
			s.stopTimer()
			return s.armCurrent()
		}
		return nil
	})
}

// SetLoop toggles wrap-around at the end of the sequence.
func (s *Scheduler) SetLoop(enabled bool) error {
	return s.do(func() error {
		s.cursor.LoopEnabled = enabled
		return nil
	})
}

// State returns the current scheduler state.
func (s *Scheduler) State() StateType {
	var state StateType
	_ = s.do(func() error {
		state = s.machine.Current()
		return nil
	})
	return state
}

// Position returns a copy of the playback cursor.
func (s *Scheduler) Position() Cursor {
	var cur Cursor
	_ = s.do(func() error {
		cur = s.cursor
		return nil
	})
	return cur
}

// do runs fn on the scheduler goroutine and returns its result.
func (s *Scheduler) do(fn func() error) error {
	cmd := schedCmd{fn: fn, reply: make(chan error, 1)}
	select {
	case s.cmds <- cmd:
	case <-s.done:
		return ErrSchedulerClosed
	}
	select {
	case err := <-cmd.reply:
		return err
	case <-s.done:
		return ErrSchedulerClosed
	}
}

func (s *Scheduler) run() {
	for {
		select {
		case <-s.done:
			s.stopTimer()
			close(s.events)
			return
		case cmd := <-s.cmds:
			cmd.reply <- cmd.fn()
		case <-s.timerC:
			s.timerC = nil
			s.onTick()
		case <-s.starveC:
			s.starveC = nil
			s.onContent()
		}
	}
}

// onTick handles the dwell timer firing. A pause issued while the timer
// was pending has already cleared the playing state, so the fire is a
// no-op then.
func (s *Scheduler) onTick() {
	if s.machine.Current() != StatePlaying {
		return
	}
	if g, ok := s.seq.(GrowingSequence); ok && g.NeedsMore(s.cursor.Index) {
		s.transition(StateStarved)
		s.emit(StarvedEvent{Index: s.cursor.Index})
		s.starveC = g.WaitForContent()
		return
	}
	s.advance()
}

// onContent handles the producer releasing a starvation wait. Playback
// resumes by re-arming at the current index; the next tick either
// advances into the newly available tokens or starves again.
func (s *Scheduler) onContent() {
	if s.machine.Current() != StateStarved {
		return
	}
	s.transition(StatePlaying)
	if err := s.armCurrent(); err != nil {
		s.emit(ErrorEvent{Err: err})
	}
}

func (s *Scheduler) advance() {
	n := s.seq.Len()
	if n == 0 {
		s.transition(StatePaused)
		s.cursor.IsPlaying = false
		return
	}
	if s.cursor.Index >= n-1 {
		if !s.cursor.LoopEnabled {
			s.transition(StatePaused)
			s.cursor.IsPlaying = false
			s.emit(FinishedEvent{Index: s.cursor.Index})
			return
		}
		s.cursor.Index = 0
	} else {
		s.cursor.Index++
	}
	s.emit(AdvancedEvent{Frame: s.frame()})
	if err := s.armCurrent(); err != nil {
		s.emit(ErrorEvent{Err: err})
	}
}

// armCurrent computes the dwell for the token at the cursor and arms
// the one-shot timer. Falls back to paused on an undefined dwell.
func (s *Scheduler) armCurrent() error {
	tok, ok := s.seq.TokenAt(s.cursor.Index)
	if !ok {
		s.transition(StatePaused)
		s.cursor.IsPlaying = false
		return ErrEmptySequence
	}
	base, ok := BaseInterval(s.wpm)
	if !ok {
		s.transition(StatePaused)
		s.cursor.IsPlaying = false
		return s.configurationError("arm_timer")
	}
	d, ok := Dwell(tok, s.profile, base)
	if !ok {
		s.transition(StatePaused)
		s.cursor.IsPlaying = false
		return s.configurationError("arm_timer")
	}
	s.timer = time.NewTimer(d)
	s.timerC = s.timer.C
	return nil
}

func (s *Scheduler) stopTimer() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.timerC = nil
}

func (s *Scheduler) transition(to StateType) {
	from := s.machine.Current()
	if from == to {
		return
	}
	if !s.machine.Transition(to) {
		log.Debug("invalid scheduler transition", "from", from, "to", to)
		return
	}
	s.emit(StateChangedEvent{From: from, To: to})
}

func (s *Scheduler) frame() Frame {
	tok, _ := s.seq.TokenAt(s.cursor.Index)
	total := s.seq.Len()
	if g, ok := s.seq.(GrowingSequence); ok {
		total = g.EstimatedTotal()
	}
	return Frame{
		Token:         tok,
		Index:         s.cursor.Index,
		Length:        s.seq.Len(),
		TotalEstimate: total,
	}
}

func (s *Scheduler) emit(ev Event) {
	select {
	case s.events <- ev:
	default:
		log.Debug("scheduler event dropped", "event", fmt.Sprintf("%T", ev))
	}
}

func (s *Scheduler) configurationError(action string) error {
	return &ReaderError{
		Err:       fmt.Errorf("%w: %d", ErrInvalidRate, s.wpm),
		Component: "scheduler",
		Action:    action,
		Severity:  SeverityError,
	}
}
