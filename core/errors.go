package core

import "errors"

var (
	ErrConfiguration        = errors.New("configuration error")
	ErrDimensionMismatch    = errors.New("dimension mismatch")
	ErrNumericalSingularity = errors.New("numerical singularity")
	ErrDegenerateEnsemble   = errors.New("degenerate ensemble")
	ErrTemporalOrder        = errors.New("timestamp not later than current time")
)
