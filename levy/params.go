package levy

import (
	"fmt"
	"math"
	"strings"

	"github.com/cwbudde/algo-levy/core"
)

const (
	// DefaultHorizon is the epoch truncation bound; on average this many
	// jumps are simulated per interval.
	DefaultHorizon = 100.0
	defaultSeed    = 1
)

// NoiseCase selects how the jumps omitted by truncation are accounted for.
type NoiseCase int

const (
	NoiseNone NoiseCase = iota
	NoiseGaussian
	NoisePartial
)

// Valid reports whether nc is a known case.
func (nc NoiseCase) Valid() bool {
	return nc >= NoiseNone && nc <= NoisePartial
}

func (nc NoiseCase) String() string {
	switch nc {
	case NoiseNone:
		return "none"
	case NoiseGaussian:
		return "gaussian"
	case NoisePartial:
		return "partial"
	default:
		return fmt.Sprintf("NoiseCase(%d)", int(nc))
	}
}

// ParseNoiseCase maps "none", "gaussian" and "partial" (case-insensitive) to a NoiseCase.
func ParseNoiseCase(s string) (NoiseCase, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return NoiseNone, nil
	case "gaussian", "gaussianapprox":
		return NoiseGaussian, nil
	case "partial", "partialgaussianapprox":
		return NoisePartial, nil
	}

	return 0, fmt.Errorf("levy: unknown noise case %q: %w", s, core.ErrConfiguration)
}

// ResidualLevel selects the truncation size ε that the residual and the
// compensating drift are evaluated at.
type ResidualLevel int

const (
	// LevelFromHorizon uses ε = (α·horizon/(c·dt))^(-1/α), independent of the
	// realized epochs.
	LevelFromHorizon ResidualLevel = iota
	// LevelFromPath uses the smallest simulated jump, so the residual reuses
	// the epochs of the path (and of every axis sharing it).
	LevelFromPath
)

// Valid reports whether l is a known level.
func (l ResidualLevel) Valid() bool {
	return l == LevelFromHorizon || l == LevelFromPath
}

func (l ResidualLevel) String() string {
	switch l {
	case LevelFromHorizon:
		return "horizon"
	case LevelFromPath:
		return "path"
	default:
		return fmt.Sprintf("ResidualLevel(%d)", int(l))
	}
}

// ParseResidualLevel maps "horizon" and "path" (case-insensitive) to a
// ResidualLevel. The empty string selects LevelFromHorizon.
func ParseResidualLevel(s string) (ResidualLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "horizon":
		return LevelFromHorizon, nil
	case "path":
		return LevelFromPath, nil
	}

	return 0, fmt.Errorf("levy: unknown residual level %q: %w", s, core.ErrConfiguration)
}

// Params configures a Driver. Zero Horizon and Seed select the defaults.
type Params struct {
	Alpha     float64
	C         float64
	MuW       float64
	SigmaW2   float64
	NoiseCase NoiseCase
	Seed      uint64
	Horizon   float64
	Level     ResidualLevel
}

// Validate checks parameter ranges. Errors wrap core.ErrConfiguration.
func (p Params) Validate() error {
	switch {
	case !(p.Alpha > 0 && p.Alpha < 2):
		return fmt.Errorf("levy: alpha must be in (0, 2): %v: %w", p.Alpha, core.ErrConfiguration)
	case !(p.C > 0) || math.IsInf(p.C, 0):
		return fmt.Errorf("levy: c must be > 0 and finite: %v: %w", p.C, core.ErrConfiguration)
	case !(p.SigmaW2 > 0) || math.IsInf(p.SigmaW2, 0):
		return fmt.Errorf("levy: sigma_W2 must be > 0 and finite: %v: %w", p.SigmaW2, core.ErrConfiguration)
	case !core.IsFinite(p.MuW):
		return fmt.Errorf("levy: mu_W must be finite: %v: %w", p.MuW, core.ErrConfiguration)
	case p.Horizon < 0 || !core.IsFinite(p.Horizon):
		return fmt.Errorf("levy: horizon must be >= 0 and finite: %v: %w", p.Horizon, core.ErrConfiguration)
	case !p.NoiseCase.Valid():
		return fmt.Errorf("levy: invalid noise case %d: %w", p.NoiseCase, core.ErrConfiguration)
	case !p.Level.Valid():
		return fmt.Errorf("levy: invalid residual level %d: %w", p.Level, core.ErrConfiguration)
	}

	return nil
}

func (p Params) withDefaults() Params {
	if p.Horizon == 0 {
		p.Horizon = DefaultHorizon
	}

	if p.Seed == 0 {
		p.Seed = defaultSeed
	}

	return p
}

// TruncationSize returns the jump size below which the series is truncated
// for an interval of length dt.
func (p Params) TruncationSize(dt float64) float64 {
	p = p.withDefaults()
	return math.Pow(p.Alpha*p.Horizon/(p.C*dt), -1/p.Alpha)
}
