package reader

// StateType represents the playback scheduler state.
type StateType int

const (
	// StatePaused indicates no timer is armed.
	StatePaused StateType = iota
	// StatePlaying indicates a dwell timer is armed for the current token.
	StatePlaying
	// StateStarved indicates playback is suspended waiting for the
	// producer to supply more tokens.
	StateStarved
)

// String returns the string representation of the state.
func (s StateType) String() string {
	switch s {
	case StatePaused:
		return "paused"
	case StatePlaying:
		return "playing"
	case StateStarved:
		return "starved"
	default:
		return "unknown"
	}
}

// StateMachine validates playback state transitions.
type StateMachine struct {
	current     StateType
	transitions map[StateType][]StateType
	onEnter     map[StateType]func()
}

// NewStateMachine creates a state machine starting in StatePaused.
func NewStateMachine() *StateMachine {
	return &StateMachine{
		current: StatePaused,
		transitions: map[StateType][]StateType{
			StatePaused:  {StatePlaying},
			StatePlaying: {StatePaused, StateStarved},
			StateStarved: {StatePlaying, StatePaused},
		},
		onEnter: make(map[StateType]func()),
	}
}

// Transition attempts to move to the given state, returning false when
// the transition is not allowed. Transitioning to the current state is
// a no-op that succeeds, which keeps Pause idempotent.
func (sm *StateMachine) Transition(to StateType) bool {
	if to == sm.current {
		return true
	}
	valid := false
	for _, next := range sm.transitions[sm.current] {
		if next == to {
			valid = true
			break
		}
	}
	if !valid {
		return false
	}
	sm.current = to
	if fn, ok := sm.onEnter[to]; ok && fn != nil {
		fn()
	}
	return true
}

// Current returns the current state.
func (sm *StateMachine) Current() StateType {
	return sm.current
}

// OnEnter registers a callback for entering a state.
func (sm *StateMachine) OnEnter(state StateType, fn func()) {
	sm.onEnter[state] = fn
}
