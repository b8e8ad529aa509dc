package proxy

import (
	"strconv"
	"strings"
	"testing"
	"time"
)

func TestCapture_StdoutPreferred(t *testing.T) {
	res := Capture("/bin/sh", []string{"-c", "echo out; echo err 1>&2"}, 5*time.Second)

	if res.ExitCode != 0 {
		t.Errorf("ExitCode = %d, want 0", res.ExitCode)
	}
	if res.Output != "out" {
		t.Errorf("Output = %q, want %q", res.Output, "out")
	}
}

func TestCapture_StderrFallback(t *testing.T) {
	res := Capture("/bin/sh", []string{"-c", "echo err 1>&2; exit 5"}, 5*time.Second)

	if res.ExitCode != 5 {
		t.Errorf("ExitCode = %d, want 5", res.ExitCode)
	}
	if res.Output != "err" {
		t.Errorf("Output = %q, want %q", res.Output, "err")
	}
}

func TestCapture_ExitCode(t *testing.T) {
	tests := []int{0, 2, 3, 9, 127}
	for _, rc := range tests {
		res := Capture("/bin/sh", []string{"-c", "exit " + strconv.Itoa(rc)}, 5*time.Second)
		if res.ExitCode != rc {
			t.Errorf("exit %d: ExitCode = %d, want %d", rc, res.ExitCode, rc)
		}
	}
}

func TestCapture_Timeout(t *testing.T) {
	start := time.Now()
	res := Capture("/bin/sh", []string{"-c", "sleep 5"}, 150*time.Millisecond)

	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("Capture took %v, timeout not enforced", elapsed)
	}
	if res.ExitCode != 1 {
		t.Errorf("ExitCode = %d, want 1", res.ExitCode)
	}
	if res.Output != TimedOutMessage {
		t.Errorf("Output = %q, want %q", res.Output, TimedOutMessage)
	}
}

func TestCapture_TimeoutWithForkedChild(t *testing.T) {
	// A background child inherits the output pipes, the way susops.sh
	// backgrounds ssh. The timeout must not wait for the grandchild.
	start := time.Now()
	res := Capture("/bin/sh", []string{"-c", "sleep 5 & wait"}, 150*time.Millisecond)

	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("Capture took %v, timeout not enforced with a forked child", elapsed)
	}
	if res.ExitCode != 1 {
		t.Errorf("ExitCode = %d, want 1", res.ExitCode)
	}
	if res.Output != TimedOutMessage {
		t.Errorf("Output = %q, want %q", res.Output, TimedOutMessage)
	}
}

func TestCapture_ExitWithLingeringChild(t *testing.T) {
	// The command exits within the timeout but leaves a background child
	// holding stdout open. Its own exit status and output must stand.
	start := time.Now()
	res := Capture("/bin/sh", []string{"-c", "echo ready; sleep 5 & exit 0"}, 5*time.Second)

	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("Capture took %v, pipe grace not enforced", elapsed)
	}
	if res.ExitCode != 0 {
		t.Errorf("ExitCode = %d, want 0", res.ExitCode)
	}
	if res.Output != "ready" {
		t.Errorf("Output = %q, want %q", res.Output, "ready")
	}
}

func TestCapture_ExitCodeWithLingeringChild(t *testing.T) {
	res := Capture("/bin/sh", []string{"-c", "echo failed 1>&2; sleep 5 & exit 3"}, 5*time.Second)

	if res.ExitCode != 3 {
		t.Errorf("ExitCode = %d, want 3", res.ExitCode)
	}
	if res.Output != "failed" {
		t.Errorf("Output = %q, want %q", res.Output, "failed")
	}
}

func TestCapture_LaunchFailure(t *testing.T) {
	res := Capture("/nonexistent/susops-test-binary", nil, time.Second)

	if res.ExitCode != 1 {
		t.Errorf("ExitCode = %d, want 1", res.ExitCode)
	}
	if res.Output == "" {
		t.Error("Output should carry the launch error message")
	}
}

func TestRunner_Run(t *testing.T) {
	r := NewRunnerWithExecutable("/bin/echo")
	res := r.Run([]string{"hello", "world"}, time.Second)

	if res.ExitCode != 0 {
		t.Errorf("ExitCode = %d, want 0", res.ExitCode)
	}
	if !strings.Contains(res.Output, "hello world") {
		t.Errorf("Output = %q, want it to contain %q", res.Output, "hello world")
	}
}

func TestRunner_Available(t *testing.T) {
	if !NewRunnerWithExecutable("/bin/sh").Available() {
		t.Error("Available() should be true for /bin/sh")
	}
	if NewRunnerWithExecutable("/nonexistent/susops-test-binary").Available() {
		t.Error("Available() should be false for a missing path")
	}
	if NewRunnerWithExecutable("definitely-not-on-path-xyz").Available() {
		t.Error("Available() should be false for a missing PATH entry")
	}
}
