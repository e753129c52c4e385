// Package consistency provides statistical checks for tracking filters.
//
// Error measures:
//   - RMSE and PositionRMSE compare estimates against ground truth
//   - NEES and NIS normalize estimation and innovation errors by their
//     predicted covariance; for a consistent filter they follow χ² laws
//
// Innovation whiteness:
//   - Autocorrelation computes the normalized sample autocorrelation with an
//     FFT of the zero-padded sequence
//   - Whiteness applies the Ljung–Box portmanteau test to it
package consistency
