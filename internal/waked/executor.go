package waked

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/gowake/wakesim/internal/optimize"
	"github.com/gowake/wakesim/internal/wake"
	"github.com/gowake/wakesim/pkg/config"
	"github.com/gowake/wakesim/pkg/logger"
)

// RunExecutor manages asynchronous optimization runs and per-run
// cancellation.
type RunExecutor struct {
	store  *RunStore
	solver *wake.Solver

	// MaxParallel, when positive, caps scenario parallelism for every run
	// regardless of what the case asks for.
	MaxParallel int

	mu      sync.Mutex
	cancels map[string]context.CancelFunc
}

var (
	ErrRunNotFound  = errors.New("run not found")
	ErrRunTerminal  = errors.New("run is terminal")
	ErrRunIDMissing = errors.New("run_id is required")
)

func NewRunExecutor(store *RunStore, solver *wake.Solver) *RunExecutor {
	return &RunExecutor{
		store:   store,
		solver:  solver,
		cancels: make(map[string]context.CancelFunc),
	}
}

// Start begins executing a run asynchronously.
// Returns the updated run state (RUNNING) or an error.
func (e *RunExecutor) Start(runID string) (*RunRecord, error) {
	if runID == "" {
		return nil, ErrRunIDMissing
	}

	rec, ok := e.store.Get(runID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}

	switch rec.Status {
	case StatusRunning:
		return rec, nil
	case StatusCompleted, StatusFailed, StatusCancelled:
		return nil, fmt.Errorf("%w: %s", ErrRunTerminal, runID)
	}

	updated, err := e.store.SetStatus(runID, StatusRunning, "")
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(context.Background())
	e.mu.Lock()
	if old, exists := e.cancels[runID]; exists {
		old()
	}
	e.cancels[runID] = cancel
	e.mu.Unlock()

	go e.runOptimization(ctx, runID)
	return updated, nil
}

// Stop requests cancellation for a running run and marks it cancelled.
func (e *RunExecutor) Stop(runID string) (*RunRecord, error) {
	if runID == "" {
		return nil, ErrRunIDMissing
	}

	e.mu.Lock()
	cancel, ok := e.cancels[runID]
	e.mu.Unlock()

	if ok {
		cancel()
	}

	if _, exists := e.store.Get(runID); !exists {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	return e.store.SetStatus(runID, StatusCancelled, "")
}

// running reports whether the run's background goroutine is still
// registered.
func (e *RunExecutor) running(runID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, ok := e.cancels[runID]
	return ok
}

func (e *RunExecutor) cleanup(runID string) {
	e.mu.Lock()
	if cancel, ok := e.cancels[runID]; ok {
		cancel()
		delete(e.cancels, runID)
	}
	e.mu.Unlock()
}

func (e *RunExecutor) runOptimization(ctx context.Context, runID string) {
	defer e.cleanup(runID)

	rec, ok := e.store.Get(runID)
	if !ok {
		logger.Error("run not found", "run_id", runID)
		return
	}

	c, err := config.ParseCaseYAMLString(rec.CaseYAML)
	if err != nil {
		e.fail(runID, fmt.Sprintf("invalid case: %v", err))
		return
	}
	batch, err := config.BuildBatch(c)
	if err != nil {
		e.fail(runID, fmt.Sprintf("case build failed: %v", err))
		return
	}

	opts := config.BuildOptions(c)
	if e.MaxParallel > 0 && opts.MaxParallel > e.MaxParallel {
		opts.MaxParallel = e.MaxParallel
	}
	opt := optimize.New(e.solver, opts)

	logger.Info("starting optimization", "run_id", runID,
		"turbines", batch.Layout.Len(), "scenarios", len(batch.Scenarios))
	table, err := opt.Optimize(ctx, batch)
	if err != nil {
		if ctx.Err() != nil {
			logger.Info("optimization cancelled", "run_id", runID)
			return
		}
		e.fail(runID, err.Error())
		return
	}

	if err := e.store.SetTable(runID, table); err != nil {
		logger.Error("failed to store results", "run_id", runID, "error", err)
	}

	// Mark as completed if still running.
	rec, ok = e.store.Get(runID)
	if ok && rec.Status == StatusRunning {
		if _, err := e.store.SetStatus(runID, StatusCompleted, ""); err != nil {
			logger.Error("failed to set completed status", "run_id", runID, "error", err)
		} else {
			logger.Info("run completed", "run_id", runID,
				"scenarios", len(table), "weighted_uplift_w", table.WeightedUplift())
		}
	}
}

func (e *RunExecutor) fail(runID, msg string) {
	logger.Error("optimization failed", "run_id", runID, "error", msg)
	if _, err := e.store.SetStatus(runID, StatusFailed, msg); err != nil {
		logger.Error("failed to set failed status", "run_id", runID, "error", err)
	}
}
