// Package proxy drives the external susops CLI and reconciles its state.
// This file contains the ProcessState enumeration and the exit-code
// classifier.
package proxy

// ProcessState represents the observed state of the susops proxy process.
type ProcessState int

const (
	// StateInitial is the state before the first status query completes.
	StateInitial ProcessState = iota
	// StateRunning indicates all configured connections are up.
	StateRunning
	// StateStoppedPartially indicates some connections are up, some down.
	StateStoppedPartially
	// StateStopped indicates the proxy is not running.
	StateStopped
	// StateError indicates the status query failed or the CLI reported
	// an unexpected condition.
	StateError
)

// stateInfo carries the presentation data attached to each state. Kept as
// a plain table so the mapping stays unit-testable away from any UI.
type stateInfo struct {
	label   string
	dot     string
	iconKey string
}

var stateTable = map[ProcessState]stateInfo{
	StateInitial:          {"initial", "⚫", "stopped"},
	StateRunning:          {"running", "🟢", "running"},
	StateStoppedPartially: {"stopped partially", "🟠", "stopped_partially"},
	StateStopped:          {"stopped", "⚫", "stopped"},
	StateError:            {"error", "🔴", "error"},
}

// String returns the human-readable label for the state.
func (s ProcessState) String() string {
	if info, ok := stateTable[s]; ok {
		return info.label
	}
	return "unknown"
}

// Dot returns the colored status glyph shown in the menu status row.
// Emoji are immune to icon-theme overrides, hence the choice.
func (s ProcessState) Dot() string {
	if info, ok := stateTable[s]; ok {
		return info.dot
	}
	return "⚫"
}

// IconKey returns the per-state icon asset name (without extension).
func (s ProcessState) IconKey() string {
	if info, ok := stateTable[s]; ok {
		return info.iconKey
	}
	return "stopped"
}

// StateFromExitCode classifies a susops CLI exit code into a ProcessState.
// The mapping is a fixed protocol with the CLI and must not be changed
// without coordinating a CLI release.
func StateFromExitCode(rc int) ProcessState {
	switch rc {
	case 0:
		return StateRunning
	case 2:
		return StateStoppedPartially
	case 3:
		return StateStopped
	default:
		return StateError
	}
}
