package config

// DriverConfig describes one Lévy driving process.
type DriverConfig struct {
	Alpha     float64 `yaml:"alpha" validate:"gt=0,lt=2"`
	C         float64 `yaml:"c" validate:"gt=0"`
	MuW       float64 `yaml:"mu_w"`
	SigmaW2   float64 `yaml:"sigma_w2" validate:"gt=0"`
	NoiseCase string  `yaml:"noise_case" validate:"omitempty,oneof=none gaussian partial"`
	Horizon   float64 `yaml:"horizon" validate:"gte=0"`
	Level     string  `yaml:"residual_level" validate:"omitempty,oneof=horizon path"`
	Seed      uint64  `yaml:"seed"`
}

// AxisConfig describes one Langevin axis. An empty Driver makes the axis
// noiseless.
type AxisConfig struct {
	Theta  float64  `yaml:"theta" validate:"gt=0"`
	Driver string   `yaml:"driver,omitempty"`
	MuW    *float64 `yaml:"mu_w,omitempty"`
}

// MeasurementConfig describes the position measurement.
type MeasurementConfig struct {
	Variance float64 `yaml:"variance" validate:"gte=0"`
}

// FilterConfig holds particle filter settings.
type FilterConfig struct {
	Particles       int     `yaml:"particles" validate:"gt=0"`
	Workers         int     `yaml:"workers" validate:"gte=0"`
	Resampler       string  `yaml:"resampler" validate:"omitempty,oneof=systematic stratified multinomial"`
	Regularization  float64 `yaml:"regularization" validate:"gte=0"`
	MinESS          float64 `yaml:"min_ess" validate:"gte=0"`
	InitialVariance float64 `yaml:"initial_variance" validate:"gte=0"`
	Seed            uint64  `yaml:"seed"`
}

// SimulationConfig holds the ground-truth simulation settings.
type SimulationConfig struct {
	Dt    float64 `yaml:"dt" validate:"gt=0"`
	Steps int     `yaml:"steps" validate:"gt=0"`
	Seed  uint64  `yaml:"seed"`
}

// Scenario is the root configuration structure.
type Scenario struct {
	Drivers     map[string]DriverConfig `yaml:"drivers" validate:"dive"`
	Axes        []AxisConfig            `yaml:"axes" validate:"required,min=1,dive"`
	Measurement MeasurementConfig       `yaml:"measurement"`
	Filter      FilterConfig            `yaml:"filter"`
	Simulation  SimulationConfig        `yaml:"simulation"`
}
