package proxy

import "testing"

func TestProcessState_String(t *testing.T) {
	tests := []struct {
		state    ProcessState
		expected string
	}{
		{StateInitial, "initial"},
		{StateRunning, "running"},
		{StateStoppedPartially, "stopped partially"},
		{StateStopped, "stopped"},
		{StateError, "error"},
		{ProcessState(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.state.String(); got != tt.expected {
				t.Errorf("ProcessState.String() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestProcessState_IconKey(t *testing.T) {
	tests := []struct {
		state    ProcessState
		expected string
	}{
		{StateInitial, "stopped"},
		{StateRunning, "running"},
		{StateStoppedPartially, "stopped_partially"},
		{StateStopped, "stopped"},
		{StateError, "error"},
		{ProcessState(99), "stopped"},
	}

	for _, tt := range tests {
		if got := tt.state.IconKey(); got != tt.expected {
			t.Errorf("ProcessState(%d).IconKey() = %v, want %v", tt.state, got, tt.expected)
		}
	}
}

func TestStateFromExitCode(t *testing.T) {
	tests := []struct {
		rc       int
		expected ProcessState
	}{
		{0, StateRunning},
		{2, StateStoppedPartially},
		{3, StateStopped},
		{1, StateError},
		{4, StateError},
		{9, StateError},
		{127, StateError},
		{-1, StateError},
	}

	for _, tt := range tests {
		if got := StateFromExitCode(tt.rc); got != tt.expected {
			t.Errorf("StateFromExitCode(%d) = %v, want %v", tt.rc, got, tt.expected)
		}
	}
}

// Every exit code outside the protocol set must classify as an error.
func TestStateFromExitCode_Total(t *testing.T) {
	for rc := -10; rc <= 255; rc++ {
		if rc == 0 || rc == 2 || rc == 3 {
			continue
		}
		if got := StateFromExitCode(rc); got != StateError {
			t.Fatalf("StateFromExitCode(%d) = %v, want StateError", rc, got)
		}
	}
}
