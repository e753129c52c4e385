package filter

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-levy/core"
	"github.com/stretchr/testify/require"
)

func TestWeightConstructors(t *testing.T) {
	w, err := WeightFromProb(0.25)
	require.NoError(t, err)
	require.InDelta(t, 0.25, w.Prob(), 1e-15)
	require.InDelta(t, math.Log(0.25), w.Log(), 1e-15)

	z, err := WeightFromProb(0)
	require.NoError(t, err)
	require.True(t, z.IsZero())
	require.True(t, ZeroWeight().IsZero())

	for _, bad := range []float64{-1, math.NaN(), math.Inf(1)} {
		_, err := WeightFromProb(bad)
		require.ErrorIs(t, err, core.ErrConfiguration, "p=%v", bad)
	}
	_, err = WeightFromLog(math.Inf(1))
	require.ErrorIs(t, err, core.ErrConfiguration)
	_, err = WeightFromLog(math.NaN())
	require.ErrorIs(t, err, core.ErrConfiguration)

	var one Weight
	require.Equal(t, 1.0, one.Prob())
}

func TestWeightMulStaysInLogDomain(t *testing.T) {
	w, _ := WeightFromLog(-800)
	w = w.MulLog(-800)
	require.Equal(t, -1600.0, w.Log())
	require.Zero(t, w.Prob())
	require.False(t, w.IsZero())

	require.True(t, w.MulLog(math.NaN()).IsZero())
	require.True(t, ZeroWeight().Mul(w).IsZero())
}

func TestNormalizeTinyWeights(t *testing.T) {
	ws := []Weight{{log: -1000}, {log: -1000 + math.Log(3)}}
	total, err := Normalize(ws)
	require.NoError(t, err)
	require.InDelta(t, -1000+math.Log(4), total, 1e-9)
	require.InDelta(t, 0.25, ws[0].Prob(), 1e-12)
	require.InDelta(t, 0.75, ws[1].Prob(), 1e-12)

	_, err = Normalize([]Weight{ZeroWeight(), ZeroWeight()})
	require.ErrorIs(t, err, core.ErrDegenerateEnsemble)
}

func TestEffectiveSampleSize(t *testing.T) {
	ws := make([]Weight, 8)
	for i := range ws {
		ws[i] = UniformWeight(len(ws))
	}
	require.InDelta(t, 8, EffectiveSampleSize(ws), 1e-12)

	// Scale does not matter.
	for i := range ws {
		ws[i] = ws[i].MulLog(-500)
	}
	require.InDelta(t, 8, EffectiveSampleSize(ws), 1e-9)

	single := []Weight{{log: 0}, ZeroWeight(), ZeroWeight()}
	require.Equal(t, 1.0, EffectiveSampleSize(single))
	require.Zero(t, EffectiveSampleSize([]Weight{ZeroWeight()}))
	require.Zero(t, EffectiveSampleSize(nil))
}

func TestProbsReusesBuffer(t *testing.T) {
	buf := make([]float64, 0, 4)
	out := Probs(buf, []Weight{{log: 0}, ZeroWeight()})
	require.Equal(t, []float64{1, 0}, out)
	require.Equal(t, cap(buf), cap(out))
}
