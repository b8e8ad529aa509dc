// Package proxy drives the external susops CLI and reconciles its state
// into the tray UI.
//
// The package has four pieces:
//
//   - Runner executes one CLI invocation with a timeout and captures its
//     combined output and exit code. It is the only code that touches the
//     OS process boundary.
//   - Dispatcher serializes callbacks onto a single goroutine (or onto the
//     GTK main loop, via any implementation of the Dispatcher interface).
//   - Executor runs a CLI invocation on a worker goroutine and delivers the
//     result back through the Dispatcher, so callbacks never overlap.
//   - Controller owns the displayed ProcessState, runs the startup check
//     and the periodic poll, and funnels every transition through a single
//     apply path so the UI never shows a torn state.
//
// Exit codes are a fixed protocol with the susops CLI: 0 running, 2 stopped
// partially, 3 stopped, anything else an error.
package proxy
