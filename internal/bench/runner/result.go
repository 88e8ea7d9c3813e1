package runner

import (
	"time"

	"github.com/google/uuid"
)

// Status is the terminal outcome of one backend's invocation.
type Status string

const (
	StatusSuccess           Status = "success"
	StatusComputationFailed Status = "computation_failed"
	StatusLaunchFailed      Status = "launch_failed"
	StatusTimeout           Status = "timeout"
	StatusMalformedOutput   Status = "malformed_output"
)

// Result is the user-facing outcome for one backend. Failures are data,
// not errors: a run always yields exactly one Result per requested
// backend.
type Result struct {
	Name   string `json:"name"`
	Status Status `json:"status"`
	// Energy is the backend-reported potential energy, passed through
	// unconverted. Present only on success.
	Energy *float64 `json:"energy,omitempty"`
	// Elapsed is the orchestrator-measured wall clock for the whole
	// invocation, startup overhead included. This is the authoritative
	// timing.
	Elapsed time.Duration `json:"elapsed"`
	// WorkerSeconds is the worker's self-reported compute time, kept as
	// supplementary diagnostic data.
	WorkerSeconds *float64 `json:"worker_seconds,omitempty"`
	Detail        string   `json:"detail,omitempty"`
}

func (r Result) OK() bool { return r.Status == StatusSuccess }

// BenchmarkResult aggregates one run. Results are ordered by request
// order, never by completion order.
type BenchmarkResult struct {
	RunID       uuid.UUID
	InputPath   string
	GeneratedAt time.Time
	Results     []Result
}
