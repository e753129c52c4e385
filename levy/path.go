package levy

// Jump is one term of the shot-noise series.
type Jump struct {
	Time float64 // relative time in [0, dt)
	Size float64 // subordinator jump size s > 0
}

// JumpPath is the set of jumps drawn for one interval. Jumps are ordered by
// decreasing size (increasing epoch), not by time.
type JumpPath struct {
	Dt      float64
	Jumps   []Jump
	Epsilon float64 // truncation size used for compensation and residual
}

// Len returns the number of simulated jumps.
func (p *JumpPath) Len() int {
	if p == nil {
		return 0
	}

	return len(p.Jumps)
}

// Total returns Σ sᵢ, the simulated subordinator increment.
func (p *JumpPath) Total() float64 {
	if p == nil {
		return 0
	}

	sum := 0.0
	for _, j := range p.Jumps {
		sum += j.Size
	}

	return sum
}
