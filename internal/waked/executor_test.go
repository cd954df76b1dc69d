package waked

import (
	"errors"
	"testing"
	"time"

	"github.com/gowake/wakesim/internal/wake"
)

func newTestExecutor() (*RunStore, *RunExecutor) {
	store := NewRunStore()
	return store, NewRunExecutor(store, wake.NewSolver())
}

func TestExecutorStartValidations(t *testing.T) {
	_, exec := newTestExecutor()

	if _, err := exec.Start(""); !errors.Is(err, ErrRunIDMissing) {
		t.Fatalf("expected ErrRunIDMissing, got %v", err)
	}
	if _, err := exec.Start("missing"); !errors.Is(err, ErrRunNotFound) {
		t.Fatalf("expected ErrRunNotFound, got %v", err)
	}
}

func TestExecutorStartTerminalRun(t *testing.T) {
	store, exec := newTestExecutor()
	if _, err := store.Create("done", testCaseYAML); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := store.SetStatus("done", StatusCompleted, ""); err != nil {
		t.Fatalf("SetStatus failed: %v", err)
	}
	if _, err := exec.Start("done"); !errors.Is(err, ErrRunTerminal) {
		t.Fatalf("expected ErrRunTerminal, got %v", err)
	}
}

func TestExecutorCompletesRun(t *testing.T) {
	store, exec := newTestExecutor()
	if _, err := store.Create("ok", testCaseYAML); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	rec, err := exec.Start("ok")
	if err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if rec.Status != StatusRunning {
		t.Fatalf("expected RUNNING, got %s", rec.Status)
	}

	rec = waitForTerminal(t, store, "ok")
	if rec.Status != StatusCompleted {
		t.Fatalf("expected COMPLETED, got %s (%s)", rec.Status, rec.Error)
	}
	if rec.Table == nil || len(rec.Table) != 1 {
		t.Fatalf("expected 1 result row, got %v", rec.Table)
	}

	// The background goroutine must deregister itself.
	deadline := time.Now().Add(5 * time.Second)
	for exec.running("ok") {
		if time.Now().After(deadline) {
			t.Fatalf("cancel func never cleaned up")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestExecutorFailsOnBadCase(t *testing.T) {
	store, exec := newTestExecutor()
	if _, err := store.Create("bad", "turbine_types: []"); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if _, err := exec.Start("bad"); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	rec := waitForTerminal(t, store, "bad")
	if rec.Status != StatusFailed {
		t.Fatalf("expected FAILED, got %s", rec.Status)
	}
	if rec.Error == "" {
		t.Fatalf("expected error message on failed run")
	}
}

func TestExecutorStopValidations(t *testing.T) {
	_, exec := newTestExecutor()
	if _, err := exec.Stop(""); !errors.Is(err, ErrRunIDMissing) {
		t.Fatalf("expected ErrRunIDMissing, got %v", err)
	}
	if _, err := exec.Stop("missing"); !errors.Is(err, ErrRunNotFound) {
		t.Fatalf("expected ErrRunNotFound, got %v", err)
	}
}
