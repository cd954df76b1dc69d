// Package waked is the optimization daemon: an in-memory run store, an
// asynchronous run executor and the HTTP surface over both.
package waked

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gowake/wakesim/internal/optimize"
	"github.com/gowake/wakesim/pkg/utils"
)

// RunStatus is the lifecycle state of an optimization run.
type RunStatus string

const (
	StatusPending   RunStatus = "PENDING"
	StatusRunning   RunStatus = "RUNNING"
	StatusCompleted RunStatus = "COMPLETED"
	StatusFailed    RunStatus = "FAILED"
	StatusCancelled RunStatus = "CANCELLED"
)

// Terminal reports whether the status is final.
func (s RunStatus) Terminal() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusCancelled:
		return true
	}
	return false
}

// ParseRunStatus parses a status string; unknown strings map to "".
func ParseRunStatus(s string) RunStatus {
	switch strings.ToUpper(s) {
	case "PENDING":
		return StatusPending
	case "RUNNING":
		return StatusRunning
	case "COMPLETED":
		return StatusCompleted
	case "FAILED":
		return StatusFailed
	case "CANCELLED":
		return StatusCancelled
	default:
		return ""
	}
}

// RunRecord is one optimization run: its identity and lifecycle, the case
// payload it was created with and, once completed, the results table.
type RunRecord struct {
	ID              string
	Status          RunStatus
	CreatedAtUnixMs int64
	StartedAtUnixMs int64
	EndedAtUnixMs   int64
	Error           string

	CaseYAML string
	Table    optimize.Table
}

// RunStore is the in-memory run registry.
type RunStore struct {
	mu   sync.RWMutex
	runs map[string]*RunRecord
	ids  []string // creation order
}

func NewRunStore() *RunStore {
	return &RunStore{
		runs: make(map[string]*RunRecord),
	}
}

func nowUnixMs() int64 {
	return time.Now().UTC().UnixMilli()
}

func (s *RunStore) Create(runID, caseYAML string) (*RunRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if runID == "" {
		runID = utils.GenerateRunID()
	}
	if strings.ContainsAny(runID, "/:") {
		return nil, fmt.Errorf("run ID cannot contain '/' or ':': %s", runID)
	}
	if _, exists := s.runs[runID]; exists {
		return nil, fmt.Errorf("run already exists: %s", runID)
	}

	rec := &RunRecord{
		ID:              runID,
		Status:          StatusPending,
		CreatedAtUnixMs: nowUnixMs(),
		CaseYAML:        caseYAML,
	}
	s.runs[runID] = rec
	s.ids = append(s.ids, runID)
	return rec, nil
}

func (s *RunStore) Get(runID string) (*RunRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.runs[runID]
	return rec, ok
}

// ListFiltered returns runs in creation order, optionally filtered by
// status, with offset/limit pagination.
func (s *RunStore) ListFiltered(limit, offset int, status RunStatus) []*RunRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 50
	}
	out := make([]*RunRecord, 0, limit)
	skipped := 0
	for _, id := range s.ids {
		rec := s.runs[id]
		if status != "" && rec.Status != status {
			continue
		}
		if skipped < offset {
			skipped++
			continue
		}
		out = append(out, rec)
		if len(out) >= limit {
			break
		}
	}
	return out
}

func (s *RunStore) SetStatus(runID string, status RunStatus, errMsg string) (*RunRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.runs[runID]
	if !ok {
		return nil, fmt.Errorf("run not found: %s", runID)
	}

	rec.Status = status
	if errMsg != "" {
		rec.Error = errMsg
	}

	switch status {
	case StatusRunning:
		if rec.StartedAtUnixMs == 0 {
			rec.StartedAtUnixMs = nowUnixMs()
		}
	case StatusCompleted, StatusFailed, StatusCancelled:
		rec.EndedAtUnixMs = nowUnixMs()
	}

	return rec, nil
}

func (s *RunStore) SetTable(runID string, table optimize.Table) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.runs[runID]
	if !ok {
		return fmt.Errorf("run not found: %s", runID)
	}
	rec.Table = table
	return nil
}
