// Package lightcurve provides the light-curve container and the gentle
// preprocessing steps used ahead of period estimation: invalid-sample
// removal, median normalization, and time binning. Aggressive detrending is
// deliberately not offered because it suppresses the rotational signal the
// pipeline is trying to measure.
package lightcurve

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// LightCurve is a time-ordered sequence of flux samples. Time is in days,
// flux in whatever units the source product uses until Normalize is applied.
// Instances are treated as read-only: every operation returns a new curve.
type LightCurve struct {
	Time []float64
	Flux []float64
}

var (
	// ErrEmpty is returned when an operation needs samples and has none.
	ErrEmpty = errors.New("light curve has no usable samples")

	// ErrNonPositiveMedian is returned by Normalize when the median flux is
	// not positive, which makes a relative normalization meaningless.
	ErrNonPositiveMedian = errors.New("median flux is not positive")
)

// New builds a LightCurve from parallel time and flux slices.
func New(time, flux []float64) (*LightCurve, error) {
	if len(time) != len(flux) {
		return nil, fmt.Errorf("time and flux length mismatch: %d vs %d", len(time), len(flux))
	}
	return &LightCurve{Time: time, Flux: flux}, nil
}

// Len returns the number of samples.
func (lc *LightCurve) Len() int {
	return len(lc.Time)
}

// Span returns the total time baseline in days.
func (lc *LightCurve) Span() float64 {
	if len(lc.Time) < 2 {
		return 0
	}
	return lc.Time[len(lc.Time)-1] - lc.Time[0]
}

// Clean returns a copy with NaN/Inf samples removed and the remainder sorted
// by time. Gaps are left as-is; downstream methods tolerate uneven sampling.
func (lc *LightCurve) Clean() *LightCurve {
	out := &LightCurve{
		Time: make([]float64, 0, len(lc.Time)),
		Flux: make([]float64, 0, len(lc.Flux)),
	}
	for i := range lc.Time {
		if math.IsNaN(lc.Time[i]) || math.IsInf(lc.Time[i], 0) {
			continue
		}
		if math.IsNaN(lc.Flux[i]) || math.IsInf(lc.Flux[i], 0) {
			continue
		}
		out.Time = append(out.Time, lc.Time[i])
		out.Flux = append(out.Flux, lc.Flux[i])
	}
	sort.Sort(byTime{out})
	return out
}

// Normalize returns a copy with flux divided by the median flux, so a quiet
// star sits at 1.0. Returns ErrNonPositiveMedian for degenerate input.
func (lc *LightCurve) Normalize() (*LightCurve, error) {
	if len(lc.Flux) == 0 {
		return nil, ErrEmpty
	}
	med := medianOf(lc.Flux)
	if med <= 0 || math.IsNaN(med) {
		return nil, ErrNonPositiveMedian
	}
	out := &LightCurve{
		Time: append([]float64(nil), lc.Time...),
		Flux: make([]float64, len(lc.Flux)),
	}
	for i, f := range lc.Flux {
		out.Flux[i] = f / med
	}
	return out, nil
}

// Bin returns a copy rebinned into fixed-width time bins of the given width
// in hours, with mean flux and mean time per bin. Empty bins are skipped, so
// data gaps survive binning.
func (lc *LightCurve) Bin(hours float64) (*LightCurve, error) {
	if hours <= 0 {
		return nil, fmt.Errorf("bin width must be positive, got %f hours", hours)
	}
	if len(lc.Time) == 0 {
		return nil, ErrEmpty
	}

	width := hours / 24.0
	t0 := lc.Time[0]

	type accum struct {
		sumT, sumF float64
		n          int
	}
	bins := make(map[int]*accum)
	maxIdx := 0
	for i := range lc.Time {
		idx := int((lc.Time[i] - t0) / width)
		a, ok := bins[idx]
		if !ok {
			a = &accum{}
			bins[idx] = a
		}
		a.sumT += lc.Time[i]
		a.sumF += lc.Flux[i]
		a.n++
		if idx > maxIdx {
			maxIdx = idx
		}
	}

	out := &LightCurve{
		Time: make([]float64, 0, len(bins)),
		Flux: make([]float64, 0, len(bins)),
	}
	for idx := 0; idx <= maxIdx; idx++ {
		a, ok := bins[idx]
		if !ok {
			continue
		}
		out.Time = append(out.Time, a.sumT/float64(a.n))
		out.Flux = append(out.Flux, a.sumF/float64(a.n))
	}
	return out, nil
}

// Variability is the sample standard deviation of the flux. On a normalized
// curve this is the relative variability used for the plot-emission cut.
func (lc *LightCurve) Variability() float64 {
	if len(lc.Flux) < 2 {
		return 0
	}
	return stat.StdDev(lc.Flux, nil)
}

// MedianCadence returns the median spacing between consecutive samples in
// days. This is the lag step for the autocorrelation axis.
func (lc *LightCurve) MedianCadence() float64 {
	if len(lc.Time) < 2 {
		return 0
	}
	diffs := make([]float64, 0, len(lc.Time)-1)
	for i := 1; i < len(lc.Time); i++ {
		diffs = append(diffs, lc.Time[i]-lc.Time[i-1])
	}
	return medianOf(diffs)
}

// medianOf computes the median without mutating the input.
func medianOf(xs []float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	sorted := append([]float64(nil), xs...)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return 0.5 * (sorted[n/2-1] + sorted[n/2])
}

// byTime sorts a light curve in place by time, keeping flux aligned.
type byTime struct{ lc *LightCurve }

func (b byTime) Len() int           { return len(b.lc.Time) }
func (b byTime) Less(i, j int) bool { return b.lc.Time[i] < b.lc.Time[j] }
func (b byTime) Swap(i, j int) {
	b.lc.Time[i], b.lc.Time[j] = b.lc.Time[j], b.lc.Time[i]
	b.lc.Flux[i], b.lc.Flux[j] = b.lc.Flux[j], b.lc.Flux[i]
}
