package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/cwbudde/algo-levy/config"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestConfigCommandPrintsLoadableScenario(t *testing.T) {
	out, err := execute(t, "config")
	require.NoError(t, err)
	s, err := config.Parse([]byte(out))
	require.NoError(t, err)
	require.Equal(t, config.Default(), s)
}

func TestRunCommand(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scenario.yaml")
	doc := `drivers:
  d: {alpha: 1.2, c: 1, sigma_w2: 1, noise_case: gaussian, horizon: 20, seed: 2}
axes:
  - {theta: 0.5, driver: d}
measurement: {variance: 1}
filter: {particles: 20, workers: 2, seed: 3}
simulation: {dt: 1, steps: 12, seed: 4}
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))
	logFile := filepath.Join(dir, "run.log")

	out, err := execute(t, "run", "--every", "4", "--log-file", logFile, "--log-level", "debug", path)
	require.NoError(t, err)
	require.Contains(t, out, "position RMSE")
	require.Contains(t, out, "Ljung-Box p-value")
	require.Contains(t, out, "ESS")

	logged, err := os.ReadFile(logFile)
	require.NoError(t, err)
	require.Contains(t, string(logged), "filter finished")
}

func TestRunCommandRejectsBadInput(t *testing.T) {
	_, err := execute(t, "run", filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	_, err = execute(t, "run", "--log-level", "loud", "--steps", "2")
	require.Error(t, err)
}

func TestMomentsCommand(t *testing.T) {
	out, err := execute(t, "moments", "--alpha", "0.7", "--draws", "3", "--style", "default")
	require.NoError(t, err)
	require.Contains(t, out, "JUMPS")
	require.Contains(t, out, "EPSILON")

	_, err = execute(t, "moments", "--alpha", "2.5")
	require.Error(t, err)
	_, err = execute(t, "moments", "--noise-case", "laplace")
	require.Error(t, err)
}
