package acf

import (
	"errors"
	"fmt"
)

// ErrNoPeak is returned when no autocorrelation peak clears the height and
// lag requirements. Callers treat this as "ACF method failed" and fall back
// to the spectral period alone.
var ErrNoPeak = errors.New("no qualifying autocorrelation peak")

// PeakParams tunes the peak search. Height is the minimum peak value on the
// autocorrelation, which is normalized to 1 at lag zero, Separation is the
// minimum spacing between accepted peaks in lag steps, and MinLagDays rejects
// the correlated-noise shoulder near zero lag.
type PeakParams struct {
	Height     float64
	Separation int
	MinLagDays float64
}

// Peak is a local maximum of the autocorrelation.
type Peak struct {
	LagDays float64
	Value   float64
}

// FirstPeak returns the earliest qualifying peak, which is the
// autocorrelation period estimate.
func (f *Function) FirstPeak(p PeakParams) (*Peak, error) {
	peaks, err := f.Peaks(p)
	if err != nil {
		return nil, err
	}
	return &peaks[0], nil
}

// Peaks returns the local maxima beyond MinLagDays whose value is at least
// Height, with at least Separation lag steps between accepted peaks. Returns
// ErrNoPeak if none qualify.
func (f *Function) Peaks(p PeakParams) ([]Peak, error) {
	if p.Separation < 1 {
		p.Separation = 1
	}
	if p.Height <= 0 || p.Height > 1 {
		return nil, fmt.Errorf("peak height must be in (0, 1], got %f", p.Height)
	}

	type candidate struct {
		idx   int
		value float64
	}
	var cands []candidate
	for i := 1; i < len(f.Value)-1; i++ {
		if f.LagDays[i] <= p.MinLagDays {
			continue
		}
		if f.Value[i] <= f.Value[i-1] || f.Value[i] < f.Value[i+1] {
			continue
		}
		cands = append(cands, candidate{i, f.Value[i]})
	}
	if len(cands) == 0 {
		return nil, ErrNoPeak
	}

	var peaks []Peak
	lastIdx := -p.Separation
	for _, c := range cands {
		if c.value < p.Height {
			continue
		}
		if c.idx-lastIdx < p.Separation {
			// Too close to the previous accepted peak; keep the taller one.
			if len(peaks) > 0 && c.value > peaks[len(peaks)-1].Value {
				peaks[len(peaks)-1] = Peak{f.LagDays[c.idx], c.value}
				lastIdx = c.idx
			}
			continue
		}
		peaks = append(peaks, Peak{f.LagDays[c.idx], c.value})
		lastIdx = c.idx
	}
	if len(peaks) == 0 {
		return nil, ErrNoPeak
	}
	return peaks, nil
}
