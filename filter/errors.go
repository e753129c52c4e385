package filter

import (
	"fmt"

	"github.com/cwbudde/algo-levy/core"
)

// DegenerateError reports an update whose weights collapsed. Ensemble holds
// the resampled result when one could be formed, and is nil when every
// weight was zero.
type DegenerateError struct {
	ESS      float64
	Ensemble *Ensemble
}

func (e *DegenerateError) Error() string {
	return fmt.Sprintf("filter: effective sample size %.3g: %v", e.ESS, core.ErrDegenerateEnsemble)
}

// Unwrap makes errors.Is(err, core.ErrDegenerateEnsemble) hold.
func (e *DegenerateError) Unwrap() error { return core.ErrDegenerateEnsemble }
