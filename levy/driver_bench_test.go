package levy

import "testing"

func BenchmarkSampleMoments(b *testing.B) {
	for _, nc := range []NoiseCase{NoiseNone, NoisePartial, NoiseGaussian} {
		b.Run(nc.String(), func(b *testing.B) {
			p := baseParams()
			p.NoiseCase = nc
			d, err := NewDriver(p)
			if err != nil {
				b.Fatal(err)
			}
			k := dampedKernel{theta: 0.15}
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := d.SampleMoments(1, k); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
