package spec

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/DjordjeVuckovic/vm-bench/internal/bench/report"
	"gopkg.in/yaml.v3"
)

const (
	DefaultIterations = 20
	DefaultTimeout    = 10 * time.Minute
	DefaultZ          = 1.96
	DefaultOutputDir  = "benchmark_results"
)

func LoadFromFile(path string) (*BenchSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read spec file: %w", err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, err
	}
	base, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("resolve spec dir: %w", err)
	}
	s.resolve(base)
	return s, nil
}

func Parse(data []byte) (*BenchSpec, error) {
	var s BenchSpec
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse spec YAML: %w", err)
	}
	if err := validate(&s); err != nil {
		return nil, err
	}
	return &s, nil
}

var validSinkTypes = map[string]bool{
	"none":          true,
	"memory":        true,
	"postgres":      true,
	"elasticsearch": true,
}

func validate(s *BenchSpec) error {
	if len(s.Configurations) == 0 {
		return fmt.Errorf("spec has no configurations")
	}
	if len(s.Suites) == 0 {
		return fmt.Errorf("spec has no suites")
	}

	configNames := make(map[string]bool, len(s.Configurations))
	for i := range s.Configurations {
		c := &s.Configurations[i]
		if c.Dir == "" {
			return fmt.Errorf("configuration at index %d has no dir", i)
		}
		if c.Executable == "" {
			return fmt.Errorf("configuration %q has no executable", c.Dir)
		}
		if c.Name == "" {
			c.Name = filepath.Base(filepath.Clean(c.Dir))
		}
		if configNames[c.Name] {
			return fmt.Errorf("duplicate configuration %q", c.Name)
		}
		configNames[c.Name] = true
	}

	suiteNames := make(map[string]bool, len(s.Suites))
	for i, st := range s.Suites {
		if st.Name == "" {
			return fmt.Errorf("suite at index %d has no name", i)
		}
		if suiteNames[st.Name] {
			return fmt.Errorf("duplicate suite %q", st.Name)
		}
		suiteNames[st.Name] = true
		if len(st.Benchmarks) == 0 {
			return fmt.Errorf("suite %q has no benchmarks", st.Name)
		}
		seen := make(map[string]string, len(st.Benchmarks))
		for _, b := range st.Benchmarks {
			id := report.Identity(b)
			if id == "" {
				return fmt.Errorf("suite %q: benchmark %q has no name", st.Name, b)
			}
			if prev, ok := seen[id]; ok {
				return fmt.Errorf("suite %q: benchmarks %q and %q are both named %q", st.Name, prev, b, id)
			}
			seen[id] = b
		}
	}

	if s.Runs.Iterations < 0 {
		return fmt.Errorf("runs.iterations must not be negative, got %d", s.Runs.Iterations)
	}
	if s.Runs.Iterations == 0 {
		s.Runs.Iterations = DefaultIterations
	}
	if s.Runs.Timeout <= 0 {
		s.Runs.Timeout = DefaultTimeout
	}
	if s.Stats.Z <= 0 {
		s.Stats.Z = DefaultZ
	}
	if s.Output.Dir == "" {
		s.Output.Dir = DefaultOutputDir
	}
	if s.Sink != nil {
		if s.Sink.Type == "" {
			s.Sink.Type = "none"
		}
		if !validSinkTypes[s.Sink.Type] {
			return fmt.Errorf("sink has invalid type %q", s.Sink.Type)
		}
		if (s.Sink.Type == "postgres" || s.Sink.Type == "elasticsearch") && s.Sink.Connection == "" {
			return fmt.Errorf("sink %q has no connection", s.Sink.Type)
		}
		if s.Sink.MaxConns < 0 {
			return fmt.Errorf("sink.max_conns must not be negative, got %d", s.Sink.MaxConns)
		}
	}
	return nil
}

func (s *BenchSpec) resolve(base string) {
	s.BaseDir = base
	for i := range s.Configurations {
		s.Configurations[i].Dir = absJoin(base, s.Configurations[i].Dir)
	}
	s.Output.Dir = absJoin(base, s.Output.Dir)
}

func absJoin(base, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(base, p)
}
