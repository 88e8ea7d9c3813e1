package main

import (
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/manuelarcer/mlip-platform/internal/bench/spec"
)

type cliConfig struct {
	PlanPath  string
	Structure string
	Backends  string
	Timeout   time.Duration
	Parallel  int
	Output    string
	CSV       string
	StoreConn string
}

func parseFlags() cliConfig {
	cfg := cliConfig{}

	flag.StringVar(&cfg.PlanPath, "plan", "", "Path to benchmark plan YAML")
	flag.StringVar(&cfg.Structure, "structure", "", "Path to the structure file (quick mode)")
	flag.StringVar(&cfg.Backends, "backends", "", "Backends as name=exec[:model], comma-separated (quick mode)")
	flag.DurationVar(&cfg.Timeout, "timeout", 0, "Per-backend timeout (overrides plan)")
	flag.IntVar(&cfg.Parallel, "parallel", 0, "Backends run in parallel (overrides plan)")
	flag.StringVar(&cfg.Output, "output", "", "Write the full report as JSON to this path")
	flag.StringVar(&cfg.CSV, "csv", "", "Write the comparison as CSV to this path")
	flag.StringVar(&cfg.StoreConn, "store", "", "PostgreSQL connection string to persist the report")

	flag.Parse()
	return cfg
}

// loadPlan resolves the benchmark plan from either a plan file or the
// quick-mode flags, with explicit flags overriding plan values.
func (c cliConfig) loadPlan() (*spec.Plan, error) {
	var (
		p   *spec.Plan
		err error
	)
	if c.PlanPath != "" {
		p, err = spec.LoadFromFile(c.PlanPath)
		if err != nil {
			return nil, err
		}
	} else {
		if c.Structure == "" || c.Backends == "" {
			return nil, fmt.Errorf("quick mode requires -structure and -backends (or use -plan)")
		}
		backends, err := parseBackends(c.Backends)
		if err != nil {
			return nil, err
		}
		p = &spec.Plan{
			Structure: c.Structure,
			Timeout:   spec.Duration(spec.DefaultTimeout),
			Parallel:  spec.DefaultParallel,
			Backends:  backends,
		}
	}

	if c.Timeout > 0 {
		p.Timeout = spec.Duration(c.Timeout)
	}
	if c.Parallel > 0 {
		p.Parallel = c.Parallel
	}
	if c.Structure != "" {
		p.Structure = c.Structure
	}
	return p, nil
}

func parseBackends(raw string) ([]spec.Backend, error) {
	var backends []spec.Backend
	seen := make(map[string]bool)
	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		name, execSpec, ok := strings.Cut(entry, "=")
		if !ok || name == "" || execSpec == "" {
			return nil, fmt.Errorf("invalid backend %q, want name=exec[:model]", entry)
		}
		execPath, model, _ := strings.Cut(execSpec, ":")
		if seen[name] {
			return nil, fmt.Errorf("duplicate backend name %q", name)
		}
		seen[name] = true
		backends = append(backends, spec.Backend{Name: name, Exec: execPath, Model: model})
	}
	if len(backends) == 0 {
		return nil, fmt.Errorf("no backends given")
	}
	return backends, nil
}
