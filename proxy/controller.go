// Package proxy drives the external susops CLI and reconciles its state.
// This file contains the Controller, the single authority for the
// displayed process state.
package proxy

import (
	"strings"
	"sync"
	"time"

	"github.com/susops/susops-tray/common"
)

// Action identifies a user-initiated proxy transition.
type Action int

const (
	ActionStart Action = iota
	ActionStop
	ActionRestart
)

// TransientLabel returns the in-progress status text shown while the
// action's command is outstanding. These labels are cosmetic and are not
// ProcessStates.
func (a Action) TransientLabel() string {
	switch a {
	case ActionStart:
		return "starting…"
	case ActionStop:
		return "stopping…"
	case ActionRestart:
		return "restarting…"
	default:
		return "working…"
	}
}

// Hooks are the controller's outbound edges into the UI shell. Every hook
// is optional and every hook is invoked on the dispatch context. The
// controller calls StateChanged and then MenuSensitivity before committing
// a new state, so a failing UI update leaves the previous state
// authoritative.
type Hooks struct {
	// StateChanged pushes a committed state's label and icon.
	StateChanged func(s ProcessState)
	// MenuSensitivity enables/disables proxy controls. startEnabled covers
	// Start; actionEnabled covers Stop, Restart and Test.
	MenuSensitivity func(startEnabled, actionEnabled bool)
	// ActionStarted fires before an action's command is issued; the shell
	// disables the triggering affordance and shows the transient label.
	ActionStarted func(a Action)
	// CommandFailed surfaces a failed user action's output.
	CommandFailed func(output string)
	// FirstRun fires at most once per process lifetime when the startup
	// check finds an unconfigured installation.
	FirstRun func()
}

// Controller owns the current ProcessState and is the only component that
// pushes state into the UI. All mutation happens on the dispatch context,
// so no lock guards the state itself.
type Controller struct {
	executor   *Executor
	dispatcher Dispatcher
	hooks      Hooks
	interval   time.Duration

	// keepPorts reports whether `stop` should pass --keep-ports
	// (ephemeral ports disabled in settings).
	keepPorts func() bool

	state        ProcessState
	welcomeShown bool

	mu       sync.Mutex
	polling  bool
	stopChan chan struct{}
}

// ControllerOption customizes a Controller.
type ControllerOption func(*Controller)

// WithKeepPorts sets the provider consulted when building the stop command.
func WithKeepPorts(fn func() bool) ControllerOption {
	return func(c *Controller) { c.keepPorts = fn }
}

// WithPollInterval overrides the status poll interval. Exposed for tests.
func WithPollInterval(d time.Duration) ControllerOption {
	return func(c *Controller) { c.interval = d }
}

// NewController creates a Controller in StateInitial. hooks may contain
// nil members.
func NewController(executor *Executor, dispatcher Dispatcher, hooks Hooks, opts ...ControllerOption) *Controller {
	c := &Controller{
		executor:   executor,
		dispatcher: dispatcher,
		hooks:      hooks,
		interval:   common.PollInterval,
		state:      StateInitial,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns the committed state. Only meaningful on the dispatch
// context.
func (c *Controller) State() ProcessState {
	return c.state
}

// apply pushes a state change into the UI and commits it. A repeated state
// is a no-op so the menu is not churned by every poll tick. UI updates run
// before the commit; if a hook panics the previous state stays
// authoritative.
func (c *Controller) apply(s ProcessState) {
	if s == c.state {
		return
	}
	c.publish(s)
	c.state = s
}

// publish fires the state and sensitivity hooks for s without committing.
func (c *Controller) publish(s ProcessState) {
	if h := c.hooks.StateChanged; h != nil {
		h(s)
	}

	running := s == StateRunning
	partial := s == StateStoppedPartially
	errored := s == StateError
	if h := c.hooks.MenuSensitivity; h != nil {
		h(!running && !errored, running || partial)
	}
}

// Republish re-fires the hooks for the current state. The tray calls it
// once its menu items exist, picking up any state committed while the
// hooks had nothing to update. Must be invoked on the dispatch context.
func (c *Controller) Republish() {
	c.publish(c.state)
}

// StartupCheck queries the proxy state once, synchronously, and applies
// it. When the result is an error whose output carries the unconfigured
// signature, the first-run hook fires, at most once per process lifetime.
// Must be invoked on the dispatch context.
func (c *Controller) StartupCheck() {
	res := c.executor.Runner().Run([]string{"ps"}, common.StatusTimeout)
	s := StateFromExitCode(res.ExitCode)
	c.apply(s)

	if s == StateError && strings.Contains(res.Output, common.WelcomeSignature) && !c.welcomeShown {
		c.welcomeShown = true
		common.LogInfo("No connection configured yet, showing first-run guidance")
		if h := c.hooks.FirstRun; h != nil {
			h()
		}
	}
}

// Poll issues one asynchronous status query and applies the classified
// result. Safe to call from any goroutine.
func (c *Controller) Poll() {
	c.executor.Go([]string{"ps"}, common.StatusTimeout, func(res Result) {
		c.apply(StateFromExitCode(res.ExitCode))
	})
}

// StartPolling begins the periodic status poll.
func (c *Controller) StartPolling() {
	c.mu.Lock()
	if c.polling {
		c.mu.Unlock()
		return
	}
	c.polling = true
	c.stopChan = make(chan struct{})
	stopChan := c.stopChan
	c.mu.Unlock()

	common.LogInfo("Status polling started (interval: %v)", c.interval)

	go func() {
		ticker := time.NewTicker(c.interval)
		defer ticker.Stop()
		for {
			select {
			case <-stopChan:
				return
			case <-ticker.C:
				c.Poll()
			}
		}
	}()
}

// StopPolling stops the periodic status poll.
func (c *Controller) StopPolling() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.polling {
		return
	}
	c.polling = false
	close(c.stopChan)
	common.LogInfo("Status polling stopped")
}

// StartProxy runs `susops start`. Safe to call from any goroutine.
func (c *Controller) StartProxy() {
	c.dispatcher.Invoke(func() {
		c.beginAction(ActionStart, []string{"start"}, common.StartTimeout)
	})
}

// StopProxy runs `susops stop`, passing --keep-ports when ephemeral ports
// are disabled. Safe to call from any goroutine.
func (c *Controller) StopProxy() {
	c.dispatcher.Invoke(func() {
		args := []string{"stop"}
		if c.keepPorts != nil && c.keepPorts() {
			args = append(args, "--keep-ports")
		}
		c.beginAction(ActionStop, args, common.StopTimeout)
	})
}

// RestartProxy runs `susops restart`. Safe to call from any goroutine.
func (c *Controller) RestartProxy() {
	c.dispatcher.Invoke(func() {
		c.beginAction(ActionRestart, []string{"restart"}, common.StartTimeout)
	})
}

func (c *Controller) beginAction(a Action, args []string, timeout time.Duration) {
	if h := c.hooks.ActionStarted; h != nil {
		h(a)
	}
	c.executor.Go(args, timeout, func(res Result) { c.afterAction(res) })
}

// afterAction runs when a user action's command completes, regardless of
// outcome. The command's own exit code is deliberately not trusted for
// display: the state is forgotten and a fresh poll supplies ground truth.
// Forgetting also guarantees the next apply re-runs even when the polled
// state equals the pre-action state, re-enabling the menu items the
// transient label disabled.
func (c *Controller) afterAction(res Result) {
	c.state = StateInitial
	c.Poll()
	if res.ExitCode != 0 && res.Output != "" {
		common.LogWarn("Proxy command failed (rc=%d): %s", res.ExitCode, res.Output)
		if h := c.hooks.CommandFailed; h != nil {
			h(res.Output)
		}
	}
}

// QueryStatus fetches the raw `ps` output asynchronously for display.
func (c *Controller) QueryStatus(done func(Result)) {
	c.executor.Go([]string{"ps"}, common.StatusTimeout, done)
}

// ListAll fetches the `ls` overview of domains and forwards.
func (c *Controller) ListAll(done func(Result)) {
	c.executor.Go([]string{"ls"}, common.StopTimeout, done)
}

// Test checks a single domain or port through the proxy.
func (c *Controller) Test(target string, done func(Result)) {
	c.executor.Go([]string{"test", target}, common.TestTimeout, done)
}

// TestAll checks every configured endpoint.
func (c *Controller) TestAll(done func(Result)) {
	c.executor.Go([]string{"test", "--all"}, common.TestAllTimeout, done)
}

// Reset wipes the susops configuration, then re-polls. done runs before
// the poll so callers can reload config-derived UI first.
func (c *Controller) Reset(done func(Result)) {
	c.executor.Go([]string{"reset", "--force"}, common.StopTimeout, func(res Result) {
		if done != nil {
			done(res)
		}
		c.Poll()
	})
}

// StopOnQuit synchronously stops the proxy while keeping its ports, used
// on application exit when the stop-on-quit setting is active.
func (c *Controller) StopOnQuit() {
	c.executor.Runner().Run([]string{"stop", "--keep-ports"}, common.QuitStopTimeout)
}
