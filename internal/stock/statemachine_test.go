package stock

import "testing"

func TestTransition(t *testing.T) {
	tests := []struct {
		name  string
		state saveState
		event saveEvent
		want  saveState
	}{
		{"idle submits", stateIdle, eventSubmit, stateSubmitting},
		{"write succeeds", stateSubmitting, eventWriteOK, stateSucceeded},
		{"write conflicts", stateSubmitting, eventConflict, stateConflicted},
		{"write fails", stateSubmitting, eventStoreError, stateFailed},
		{"conflict retries", stateConflicted, eventRetry, stateSubmitting},
		{"conflict gives up", stateConflicted, eventGiveUp, stateFailed},
		{"resubmit without retry fails closed", stateConflicted, eventSubmit, stateFailed},
		{"refetch fails", stateConflicted, eventStoreError, stateFailed},
		{"succeeded is terminal", stateSucceeded, eventConflict, stateSucceeded},
		{"failed is terminal", stateFailed, eventSubmit, stateFailed},
		{"undefined pair fails closed", stateIdle, eventWriteOK, stateFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := transition(tt.state, tt.event); got != tt.want {
				t.Errorf("transition(%v, %v) = %v, want %v", tt.state, tt.event, got, tt.want)
			}
		})
	}
}

func TestStateStrings(t *testing.T) {
	states := map[saveState]string{
		stateIdle:       "idle",
		stateSubmitting: "submitting",
		stateConflicted: "conflicted",
		stateSucceeded:  "succeeded",
		stateFailed:     "failed",
	}
	for state, want := range states {
		if got := state.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", state, got, want)
		}
	}
}
