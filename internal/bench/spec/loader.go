package spec

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultTimeout  = 5 * time.Minute
	DefaultParallel = 1
)

func LoadFromFile(path string) (*Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read plan file: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Plan, error) {
	var p Plan
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse plan YAML: %w", err)
	}
	if err := validate(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

func validate(p *Plan) error {
	if p.Structure == "" {
		return fmt.Errorf("plan has no structure file")
	}
	if len(p.Backends) == 0 {
		return fmt.Errorf("plan has no backends")
	}
	seen := make(map[string]bool, len(p.Backends))
	for i, b := range p.Backends {
		if b.Name == "" {
			return fmt.Errorf("backend at index %d has no name", i)
		}
		if b.Exec == "" {
			return fmt.Errorf("backend %q has no exec", b.Name)
		}
		if seen[b.Name] {
			return fmt.Errorf("duplicate backend name %q", b.Name)
		}
		seen[b.Name] = true
	}
	if p.Timeout <= 0 {
		p.Timeout = Duration(DefaultTimeout)
	}
	if p.Parallel <= 0 {
		p.Parallel = DefaultParallel
	}
	return nil
}
