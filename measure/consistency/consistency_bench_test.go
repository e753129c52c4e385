package consistency

import (
	"math/rand/v2"
	"testing"
)

func BenchmarkWhiteness(b *testing.B) {
	rng := rand.New(rand.NewPCG(1, 1))
	x := make([]float64, 4096)
	for i := range x {
		x[i] = rng.NormFloat64()
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Whiteness(x, Config{MaxLag: 40}); err != nil {
			b.Fatal(err)
		}
	}
}
