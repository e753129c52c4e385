package resample

import "testing"

func BenchmarkSystematic(b *testing.B) {
	w := make([]float64, 1000)
	for i := range w {
		w[i] = float64(i%7+1) / 4000
	}
	r := NewSystematic(1)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := r.Resample(w, len(w)); err != nil {
			b.Fatal(err)
		}
	}
}
