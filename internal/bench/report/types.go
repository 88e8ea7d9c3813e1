package report

import (
	"runtime"
	"time"

	"github.com/google/uuid"

	"github.com/manuelarcer/mlip-platform/internal/bench/runner"
)

// Report is the presentation-facing view of one benchmark run: the raw
// ordered results plus metadata about when and where they were produced.
type Report struct {
	Meta    Meta            `json:"meta"`
	Input   string          `json:"input_path"`
	Results []runner.Result `json:"results"`
}

type Meta struct {
	RunID       uuid.UUID       `json:"run_id"`
	Timestamp   time.Time       `json:"timestamp"`
	Environment EnvironmentInfo `json:"environment"`
}

type EnvironmentInfo struct {
	GoVersion string `json:"go_version"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
	NumCPU    int    `json:"num_cpu"`
}

func NewEnvironmentInfo() EnvironmentInfo {
	return EnvironmentInfo{
		GoVersion: runtime.Version(),
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
		NumCPU:    runtime.NumCPU(),
	}
}

// Build wraps a finished run into a Report. Result order is carried
// over untouched.
func Build(br *runner.BenchmarkResult) *Report {
	return &Report{
		Meta: Meta{
			RunID:       br.RunID,
			Timestamp:   br.GeneratedAt,
			Environment: NewEnvironmentInfo(),
		},
		Input:   br.InputPath,
		Results: br.Results,
	}
}

// SuccessCount returns how many backends produced a usable energy.
func (r *Report) SuccessCount() int {
	n := 0
	for _, res := range r.Results {
		if res.OK() {
			n++
		}
	}
	return n
}
