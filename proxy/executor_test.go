package proxy

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"
)

func newTestExecutor(t *testing.T) (*Executor, *LoopDispatcher) {
	t.Helper()
	d := NewLoopDispatcher()
	go d.Run()
	t.Cleanup(d.Close)
	return NewExecutor(NewRunnerWithExecutable("/bin/sh"), d), d
}

func TestLoopDispatcher_Serializes(t *testing.T) {
	d := NewLoopDispatcher()
	go d.Run()
	defer d.Close()

	var order []int
	done := make(chan struct{})
	for i := 0; i < 10; i++ {
		i := i
		d.Invoke(func() { order = append(order, i) })
	}
	d.Invoke(func() { close(done) })

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("dispatcher did not drain")
	}

	if len(order) != 10 {
		t.Fatalf("executed %d callbacks, want 10", len(order))
	}
	for i, v := range order {
		if v != i {
			t.Errorf("order[%d] = %d, want %d", i, v, i)
		}
	}
}

func TestLoopDispatcher_InvokeAfterClose(t *testing.T) {
	d := NewLoopDispatcher()
	go d.Run()
	d.Close()

	// Must not panic or block.
	d.Invoke(func() { t.Error("callback ran after Close") })
	time.Sleep(50 * time.Millisecond)
}

// N concurrent invocations with distinct delays must deliver N callbacks,
// each exactly once, with no two callbacks overlapping in execution.
func TestExecutor_ConcurrentDelivery(t *testing.T) {
	e, _ := newTestExecutor(t)

	const n = 6
	var active int32
	var delivered int32
	seen := make(map[int]int)
	done := make(chan struct{})

	for i := 0; i < n; i++ {
		i := i
		// Distinct artificial delays so completions interleave.
		script := fmt.Sprintf("sleep 0.0%d; exit %d", i+1, i)
		e.Go([]string{"-c", script}, 5*time.Second, func(res Result) {
			if !atomic.CompareAndSwapInt32(&active, 0, 1) {
				t.Error("callbacks overlapped")
			}
			seen[res.ExitCode]++
			time.Sleep(time.Millisecond)
			atomic.StoreInt32(&active, 0)
			if atomic.AddInt32(&delivered, 1) == n {
				close(done)
			}
		})
	}

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("not all callbacks delivered")
	}

	for i := 0; i < n; i++ {
		if seen[i] != 1 {
			t.Errorf("callback for invocation %d delivered %d times, want 1", i, seen[i])
		}
	}
}

// Callbacks arrive in completion order, not submission order.
func TestExecutor_CompletionOrder(t *testing.T) {
	e, _ := newTestExecutor(t)

	var order []string
	done := make(chan struct{})

	e.Go([]string{"-c", "sleep 0.3; echo slow"}, 5*time.Second, func(res Result) {
		order = append(order, res.Output)
		close(done)
	})
	e.Go([]string{"-c", "echo fast"}, 5*time.Second, func(res Result) {
		order = append(order, res.Output)
	})

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("slow callback never delivered")
	}

	if len(order) != 2 || order[0] != "fast" || order[1] != "slow" {
		t.Errorf("delivery order = %v, want [fast slow]", order)
	}
}
