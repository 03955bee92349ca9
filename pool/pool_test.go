package pool

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("timed out waiting for condition")
}

func TestSubmitConcurrent(t *testing.T) {
	p := New(4)
	defer p.Close()

	var ran atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				if err := p.Submit(func() { ran.Add(1) }); err != nil {
					t.Error(err)
				}
			}
		}()
	}
	wg.Wait()
	waitFor(t, func() bool { return ran.Load() == 800 })

	st := p.Stats()
	if st.Submitted != 800 || st.Workers != 4 {
		t.Errorf("stats = %+v", st)
	}
}

func TestExecuteDoesNotBlock(t *testing.T) {
	release := make(chan struct{})
	var started atomic.Int64
	p := New(1, WithSpawner(func(string) error {
		started.Add(1)
		<-release
		return nil
	}))
	defer func() { close(release); p.Close() }()

	begin := time.Now()
	for i := 0; i < 5; i++ {
		p.Execute("slow")
	}
	if took := time.Since(begin); took > 50*time.Millisecond {
		t.Errorf("Execute blocked for %v", took)
	}
	waitFor(t, func() bool { return started.Load() == 1 })
	if st := p.Stats(); st.Pending != 4 {
		t.Errorf("Pending = %d, want 4", st.Pending)
	}
}

func TestSpawnFailureIsSwallowed(t *testing.T) {
	var calls atomic.Int64
	p := New(2, WithSpawner(func(script string) error {
		calls.Add(1)
		if script == "bad" {
			return &SpawnError{Script: script, Err: errors.New("exec format error")}
		}
		return nil
	}))
	defer p.Close()

	p.Execute("bad")
	p.Execute("good")
	p.Execute("good")
	waitFor(t, func() bool { return calls.Load() == 3 })
	waitFor(t, func() bool { return p.Stats().Completed == 3 })
	if st := p.Stats(); st.Failed != 1 {
		t.Errorf("Failed = %d, want 1", st.Failed)
	}
}

func TestPanicKeepsWorkerAlive(t *testing.T) {
	p := New(1)
	defer p.Close()

	done := make(chan struct{})
	p.Submit(func() { panic("boom") })
	p.Submit(func() { close(done) })
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker died after panic")
	}
}

func TestClose(t *testing.T) {
	p := New(2)
	p.Close()
	p.Close() // idempotent

	if err := p.Submit(func() {}); !errors.Is(err, ErrClosed) {
		t.Errorf("err = %v, want ErrClosed", err)
	}
	p.Execute("echo after close") // must not panic
}

func TestSpawnErrorUnwrap(t *testing.T) {
	inner := errors.New("permission denied")
	err := error(&SpawnError{Script: "x", Err: inner})
	if !errors.Is(err, inner) {
		t.Error("SpawnError should unwrap to its cause")
	}
	if err.Error() != `spawn "x": permission denied` {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestSpawnRunsScript(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses /bin/sh")
	}
	out := filepath.Join(t.TempDir(), "out.txt")
	p := New(1)
	defer p.Close()

	p.Execute("echo hi > " + out)
	waitFor(t, func() bool {
		data, err := os.ReadFile(out)
		return err == nil && string(data) == "hi\n"
	})
}

func TestSpawnReturnsBeforeScriptCompletes(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses /bin/sh")
	}
	begin := time.Now()
	if err := Spawn("sleep 2"); err != nil {
		t.Fatal(err)
	}
	if took := time.Since(begin); took > time.Second {
		t.Errorf("Spawn waited %v for the script", took)
	}
}

func TestNoConcurrencyLimit(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses /bin/sh")
	}
	dir := t.TempDir()
	p := New(1)
	defer p.Close()

	// one worker, three slow scripts: all must be running at once
	for _, name := range []string{"a", "b", "c"} {
		p.Execute("touch " + filepath.Join(dir, name) + "; sleep 3")
	}
	waitFor(t, func() bool {
		entries, _ := os.ReadDir(dir)
		return len(entries) == 3
	})
}
