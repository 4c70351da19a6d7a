// Package acf implements the autocorrelation period estimate used to
// cross-check the spectral method. Spot patterns repeat once per rotation, so
// the first qualifying autocorrelation peak is a direct period read that is
// immune to the half-period aliasing the periodogram suffers on
// double-spotted stars.
package acf

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/dsp/fourier"
)

// ErrTooFewSamples is returned when the light curve is too short for a
// meaningful autocorrelation.
var ErrTooFewSamples = errors.New("too few samples for autocorrelation")

// MinSamples is the shortest series Compute accepts.
const MinSamples = 16

// Function is a sampled autocorrelation: Value[k] is the correlation at lag
// LagDays[k], normalized so Value[0] == 1.
type Function struct {
	LagDays []float64
	Value   []float64
}

// Compute evaluates the autocorrelation of the flux series via FFT, assuming
// the samples are (approximately) evenly spaced at cadenceDays. The series is
// mean-subtracted and zero-padded to the next power of two so the circular
// convolution does not wrap.
func Compute(flux []float64, cadenceDays float64) (*Function, error) {
	n := len(flux)
	if n < MinSamples {
		return nil, fmt.Errorf("%w: have %d, need %d", ErrTooFewSamples, n, MinSamples)
	}
	if cadenceDays <= 0 {
		return nil, fmt.Errorf("cadence must be positive, got %f days", cadenceDays)
	}

	var mean float64
	for _, v := range flux {
		mean += v
	}
	mean /= float64(n)

	// Pad to at least 2n so lags up to n-1 are linear, not circular.
	padded := 1
	for padded < 2*n {
		padded <<= 1
	}
	seq := make([]float64, padded)
	for i, v := range flux {
		seq[i] = v - mean
	}

	fft := fourier.NewFFT(padded)
	coeffs := fft.Coefficients(nil, seq)
	for i, c := range coeffs {
		// Power spectrum; its inverse transform is the autocorrelation.
		re := real(c)
		im := imag(c)
		coeffs[i] = complex(re*re+im*im, 0)
	}
	ac := fft.Sequence(nil, coeffs)

	if ac[0] == 0 {
		return nil, errors.New("flux has zero variance")
	}

	out := &Function{
		LagDays: make([]float64, n),
		Value:   make([]float64, n),
	}
	for k := 0; k < n; k++ {
		out.LagDays[k] = float64(k) * cadenceDays
		out.Value[k] = ac[k] / ac[0]
	}
	return out, nil
}
