package filter

import (
	"runtime"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func benchmarkStep(b *testing.B, particles, workers int) {
	m := newTracker(b, 1.2, 1)
	meas, err := NewUpdater(mustPositionMeasurement(b, m), WithWorkers(workers))
	if err != nil {
		b.Fatal(err)
	}
	pred, err := NewPredictor(m, WithWorkers(workers))
	if err != nil {
		b.Fatal(err)
	}
	ens, err := NewEnsemble(epoch, mat.NewVecDense(4, nil), diagSym(1, 1, 1, 1), particles)
	if err != nil {
		b.Fatal(err)
	}
	z := mat.NewVecDense(2, nil)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		prior, err := pred.Predict(ens, at(float64(i+1)))
		if err != nil {
			b.Fatal(err)
		}
		if ens, err = meas.Update(prior, z); err != nil && ens == nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkStep100(b *testing.B)          { benchmarkStep(b, 100, 1) }
func BenchmarkStep1000(b *testing.B)         { benchmarkStep(b, 1000, 1) }
func BenchmarkStep1000Parallel(b *testing.B) { benchmarkStep(b, 1000, runtime.GOMAXPROCS(0)) }
