package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/cwbudde/algo-levy/core"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const (
	defaultParticles       = 500
	defaultInitialVariance = 1.0
	defaultSteps           = 100
	defaultDt              = 1.0
)

// Default returns a two-axis scenario whose axes share one driver.
func Default() *Scenario {
	return &Scenario{
		Drivers: map[string]DriverConfig{
			"shared": {Alpha: 1.4, C: 1, SigmaW2: 1, NoiseCase: "gaussian", Seed: 1},
		},
		Axes: []AxisConfig{
			{Theta: 0.5, Driver: "shared"},
			{Theta: 0.5, Driver: "shared"},
		},
		Measurement: MeasurementConfig{Variance: 4},
		Filter: FilterConfig{
			Particles:       defaultParticles,
			Resampler:       "systematic",
			InitialVariance: defaultInitialVariance,
			Seed:            1,
		},
		Simulation: SimulationConfig{Dt: defaultDt, Steps: defaultSteps, Seed: 1},
	}
}

// Load reads and validates a scenario file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return Parse(data)
}

// Parse decodes and validates a YAML scenario. Unknown fields are rejected.
func Parse(data []byte) (*Scenario, error) {
	var s Scenario
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: %v: %w", err, core.ErrConfiguration)
	}

	s.applyDefaults()
	if err := s.Validate(); err != nil {
		return nil, err
	}

	return &s, nil
}

func (s *Scenario) applyDefaults() {
	if s.Filter.Particles == 0 {
		s.Filter.Particles = defaultParticles
	}

	if s.Filter.InitialVariance == 0 {
		s.Filter.InitialVariance = defaultInitialVariance
	}

	if s.Simulation.Dt == 0 {
		s.Simulation.Dt = defaultDt
	}

	if s.Simulation.Steps == 0 {
		s.Simulation.Steps = defaultSteps
	}
}

// Validate checks field ranges and that every axis names a defined driver.
func (s *Scenario) Validate() error {
	v := validator.New()
	if err := v.Struct(s); err != nil {
		return fmt.Errorf("config: %v: %w", err, core.ErrConfiguration)
	}

	for i, a := range s.Axes {
		if a.Driver == "" {
			continue
		}

		if _, ok := s.Drivers[a.Driver]; !ok {
			return fmt.Errorf("config: axis %d references unknown driver %q (have %v): %w", i, a.Driver, s.driverNames(), core.ErrConfiguration)
		}
	}

	return nil
}

func (s *Scenario) driverNames() []string {
	names := make([]string, 0, len(s.Drivers))
	for name := range s.Drivers {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// Marshal encodes s as YAML.
func (s *Scenario) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}

	if err := enc.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
