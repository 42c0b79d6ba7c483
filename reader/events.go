package reader

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Events emitted by the scheduler. Consumers receive them from
// Scheduler.Events; the scheduler never blocks on a slow consumer.

// Event is implemented by every scheduler event.
type Event interface{ isEvent() }

// AdvancedEvent is emitted every time the current token changes, and
// once when a sequence is attached or a seek lands, so a renderer
// always has the current frame.
type AdvancedEvent struct {
	Frame Frame
}

// StateChangedEvent is emitted on every scheduler state transition.
type StateChangedEvent struct {
	From StateType
	To   StateType
}

// StarvedEvent is emitted when the scheduler catches up to the producer
// and suspends until more tokens arrive.
type StarvedEvent struct {
	Index int
}

// FinishedEvent is emitted when the sequence is exhausted without loop.
type FinishedEvent struct {
	Index int
}

// ErrorEvent carries recoverable errors reported during playback.
type ErrorEvent struct {
	Err error
}

func (AdvancedEvent) isEvent()     {}
func (StateChangedEvent) isEvent() {}
func (StarvedEvent) isEvent()      {}
func (FinishedEvent) isEvent()     {}
func (ErrorEvent) isEvent()        {}

// Bubble Tea messages mirroring the events above, for UI integration.

// AdvancedMsg mirrors AdvancedEvent.
type AdvancedMsg struct{ Frame Frame }

// StateChangedMsg mirrors StateChangedEvent.
type StateChangedMsg struct {
	From StateType
	To   StateType
}

// StarvedMsg mirrors StarvedEvent.
type StarvedMsg struct{ Index int }

// FinishedMsg mirrors FinishedEvent.
type FinishedMsg struct{ Index int }

// PlaybackErrorMsg mirrors ErrorEvent.
type PlaybackErrorMsg struct{ Err error }

// EventsClosedMsg indicates the scheduler event stream has ended.
type EventsClosedMsg struct{}

// WaitForEvent returns a command that delivers the next scheduler event
// as a Bubble Tea message. Re-issue it after every delivery.
func WaitForEvent(events <-chan Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return EventsClosedMsg{}
		}
		switch ev := ev.(type) {
		case AdvancedEvent:
			return AdvancedMsg{Frame: ev.Frame}
		case StateChangedEvent:
			return StateChangedMsg{From: ev.From, To: ev.To}
		case StarvedEvent:
			return StarvedMsg{Index: ev.Index}
		case FinishedEvent:
			return FinishedMsg{Index: ev.Index}
		case ErrorEvent:
			return PlaybackErrorMsg{Err: ev.Err}
		default:
			return nil
		}
	}
}
