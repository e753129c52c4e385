package filter

import (
	"fmt"
	"time"

	"github.com/cwbudde/algo-levy/core"
	"gonum.org/v1/gonum/mat"
)

// Track is an append-only sequence of ensembles with strictly increasing
// timestamps.
type Track struct {
	ensembles []*Ensemble
}

// Append adds e to the end of the track.
func (t *Track) Append(e *Ensemble) error {
	if e == nil {
		return fmt.Errorf("filter: cannot append nil ensemble: %w", core.ErrConfiguration)
	}

	if last := t.Last(); last != nil {
		if !e.Time.After(last.Time) {
			return fmt.Errorf("filter: track ends at %s, got %s: %w",
				last.Time.Format(time.RFC3339Nano), e.Time.Format(time.RFC3339Nano), core.ErrTemporalOrder)
		}

		if e.Dim() != last.Dim() {
			return fmt.Errorf("filter: track dimension %d, got %d: %w", last.Dim(), e.Dim(), core.ErrDimensionMismatch)
		}
	}

	t.ensembles = append(t.ensembles, e)

	return nil
}

// Len returns the number of stored ensembles.
func (t *Track) Len() int { return len(t.ensembles) }

// At returns the i-th ensemble.
func (t *Track) At(i int) *Ensemble { return t.ensembles[i] }

// Last returns the newest ensemble, or nil for an empty track.
func (t *Track) Last() *Ensemble {
	if len(t.ensembles) == 0 {
		return nil
	}

	return t.ensembles[len(t.ensembles)-1]
}

// Times returns the timestamps in order.
func (t *Track) Times() []time.Time {
	out := make([]time.Time, len(t.ensembles))
	for i, e := range t.ensembles {
		out[i] = e.Time
	}

	return out
}

// Means returns the weighted posterior mean of every ensemble.
func (t *Track) Means() []*mat.VecDense {
	out := make([]*mat.VecDense, len(t.ensembles))
	for i, e := range t.ensembles {
		out[i] = e.Mean()
	}

	return out
}
