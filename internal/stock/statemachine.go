package stock

// The save lifecycle is an explicit state machine so the control flow can be
// tested without any store:
//
//	Idle → Submitting → {Succeeded, Conflicted, Failed}
//	Conflicted → Submitting (retry) | Failed (ceiling reached)
//
// Succeeded and Failed are terminal.

type saveState int

const (
	stateIdle saveState = iota
	stateSubmitting
	stateConflicted
	stateSucceeded
	stateFailed
)

func (s saveState) String() string {
	switch s {
	case stateIdle:
		return "idle"
	case stateSubmitting:
		return "submitting"
	case stateConflicted:
		return "conflicted"
	case stateSucceeded:
		return "succeeded"
	case stateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

type saveEvent int

const (
	eventSubmit saveEvent = iota
	eventWriteOK
	eventConflict
	eventStoreError
	eventRetry
	eventGiveUp
)

// transition is the pure state transition function. Undefined (state, event)
// pairs land in Failed rather than panicking.
func transition(state saveState, event saveEvent) saveState {
	switch state {
	case stateIdle:
		if event == eventSubmit {
			return stateSubmitting
		}
	case stateSubmitting:
		switch event {
		case eventWriteOK:
			return stateSucceeded
		case eventConflict:
			return stateConflicted
		case eventStoreError:
			return stateFailed
		}
	case stateConflicted:
		switch event {
		case eventRetry:
			return stateSubmitting
		case eventGiveUp, eventStoreError:
			return stateFailed
		}
	case stateSucceeded, stateFailed:
		return state
	}
	return stateFailed
}
