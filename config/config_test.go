package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/cwbudde/algo-levy/core"
	"github.com/cwbudde/algo-levy/levy"
	"github.com/stretchr/testify/require"
)

func TestLoadScenario(t *testing.T) {
	s, err := Load(filepath.Join("testdata", "maneuver.yaml"))
	require.NoError(t, err)

	require.Len(t, s.Axes, 3)
	require.Equal(t, 200, s.Filter.Particles)
	require.Equal(t, 1.0, s.Filter.InitialVariance)
	require.Equal(t, 60, s.Simulation.Steps)

	p, err := s.Drivers["shared"].DriverParams(10)
	require.NoError(t, err)
	require.Equal(t, levy.NoisePartial, p.NoiseCase)
	require.Equal(t, levy.LevelFromPath, p.Level)
	require.Equal(t, uint64(13), p.Seed)

	m, err := s.Model(0)
	require.NoError(t, err)
	require.Equal(t, 6, m.Dim())
	require.Same(t, m.Axis(0).Driver(), m.Axis(1).Driver())
	require.Nil(t, m.Axis(2).Driver())
	require.Equal(t, 0.5, m.Axis(0).MuW())
	require.Equal(t, -0.5, m.Axis(1).MuW())

	other, err := s.Model(1)
	require.NoError(t, err)
	require.NotSame(t, m.Axis(0).Driver(), other.Axis(0).Driver())

	meas, err := s.MeasurementFor(m)
	require.NoError(t, err)
	require.Equal(t, 3, meas.Dim())

	opts, err := s.FilterOptions(nil)
	require.NoError(t, err)
	require.Len(t, opts, 3)

	ens, err := s.InitialEnsemble(time.Unix(0, 0), m.Dim())
	require.NoError(t, err)
	require.Equal(t, 200, ens.Len())
}

func TestParseDefaultsAndRoundTrip(t *testing.T) {
	data, err := Default().Marshal()
	require.NoError(t, err)
	s, err := Parse(data)
	require.NoError(t, err)
	require.Equal(t, Default(), s)
}

func TestParseRejectsInvalid(t *testing.T) {
	for name, doc := range map[string]string{
		"alpha range":    "drivers: {d: {alpha: 2, c: 1, sigma_w2: 1}}\naxes: [{theta: 1, driver: d}]\n",
		"noise case":     "drivers: {d: {alpha: 1, c: 1, sigma_w2: 1, noise_case: laplace}}\naxes: [{theta: 1, driver: d}]\n",
		"no axes":        "measurement: {variance: 1}\n",
		"theta":          "axes: [{theta: 0}]\n",
		"unknown driver": "axes: [{theta: 1, driver: missing}]\n",
		"unknown field":  "axes: [{theta: 1}]\nparticles: 3\n",
		"resampler":      "axes: [{theta: 1}]\nfilter: {resampler: residual}\n",
		"variance":       "axes: [{theta: 1}]\nmeasurement: {variance: -1}\n",
		"syntax":         "axes: [\n",
	} {
		_, err := Parse([]byte(doc))
		require.ErrorIs(t, err, core.ErrConfiguration, name)
	}
}

func TestNoiselessAxisOnly(t *testing.T) {
	s, err := Parse([]byte("axes: [{theta: 0.3}]\n"))
	require.NoError(t, err)
	m, err := s.Model(0)
	require.NoError(t, err)
	require.Equal(t, 2, m.Dim())
	require.Nil(t, m.Axis(0).Driver())
}
