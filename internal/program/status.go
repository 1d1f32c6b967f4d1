package program

import (
	"sync"
	"time"
)

// Run states reported by Status.
const (
	StateIdle     = "idle"
	StateRunning  = "running"
	StateFinished = "finished"
	StateFailed   = "failed"
)

// Snapshot is a point-in-time view of a program's progress.
type Snapshot struct {
	RunID      string    `json:"run_id,omitempty"`
	State      string    `json:"state"`
	Steps      int64     `json:"steps"`
	Subroutine string    `json:"subroutine,omitempty"`
	Node       string    `json:"node,omitempty"`
	StartedAt  time.Time `json:"started_at,omitempty"`
	Error      string    `json:"error,omitempty"`
}

// Status tracks the progress of the current run. It is safe for concurrent
// readers such as the health endpoint.
type Status struct {
	mu   sync.RWMutex
	snap Snapshot
}

func newStatus() *Status {
	return &Status{snap: Snapshot{State: StateIdle}}
}

func (s *Status) begin(runID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = Snapshot{RunID: runID, State: StateRunning, StartedAt: time.Now()}
}

func (s *Status) step(subroutine, node string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap.Steps++
	s.snap.Subroutine = subroutine
	s.snap.Node = node
}

func (s *Status) end(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.snap.State = StateFailed
		s.snap.Error = err.Error()
		return
	}
	s.snap.State = StateFinished
}

// Snapshot returns the current progress.
func (s *Status) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}
