package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Settings represents the top-level alpine.yaml configuration.
type Settings struct {
	// Solver tunes the constraint solver.
	Solver SolverSettings `yaml:"solver"`

	// Output controls how diagnostics are rendered.
	Output OutputSettings `yaml:"output"`
}

// SolverSettings configures constraint solving.
type SolverSettings struct {
	// Timeout bounds the wall-clock time of one solve. Zero disables it.
	Timeout time.Duration `yaml:"timeout,omitempty"`

	// ParallelDisjunctions explores the branches of a disjunction
	// concurrently. Results are still aggregated in branch order.
	ParallelDisjunctions bool `yaml:"parallel_disjunctions,omitempty"`

	// MaxParallel bounds the number of branches explored at once.
	// Defaults to 4. Only meaningful with ParallelDisjunctions.
	MaxParallel int `yaml:"max_parallel,omitempty"`

	// Trace logs every solver step at debug level.
	Trace bool `yaml:"trace,omitempty"`
}

// OutputSettings configures diagnostics rendering.
type OutputSettings struct {
	// Color is one of "auto", "always", "never". Defaults to "auto".
	Color string `yaml:"color,omitempty"`
}

// Color modes
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// DefaultMaxParallel is used when max_parallel is omitted.
const DefaultMaxParallel = 4

// DefaultSettings returns the settings used when no alpine.yaml exists.
func DefaultSettings() *Settings {
	s := &Settings{}
	s.setDefaults()
	return s
}

// LoadConfig reads and parses an alpine.yaml file.
func LoadConfig(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	return ParseConfig(data, path)
}

// ParseConfig parses alpine.yaml content. path is only used in messages.
func ParseConfig(data []byte, path string) (*Settings, error) {
	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := s.validate(path); err != nil {
		return nil, err
	}
	s.setDefaults()
	return &s, nil
}

// FindConfig walks up from dir looking for alpine.yaml (or alpine.yml).
// Returns "" without error when none is found.
func FindConfig(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving directory: %w", err)
	}

	for {
		for _, name := range ConfigFileNames {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

func (s *Settings) validate(path string) error {
	if s.Solver.Timeout < 0 {
		return fmt.Errorf("%s: solver.timeout must not be negative", path)
	}
	if s.Solver.MaxParallel < 0 {
		return fmt.Errorf("%s: solver.max_parallel must not be negative", path)
	}
	switch s.Output.Color {
	case "", ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("%s: output.color %q is not one of auto, always, never", path, s.Output.Color)
	}
	return nil
}

func (s *Settings) setDefaults() {
	if s.Solver.MaxParallel == 0 {
		s.Solver.MaxParallel = DefaultMaxParallel
	}
	if s.Output.Color == "" {
		s.Output.Color = ColorAuto
	}
}
