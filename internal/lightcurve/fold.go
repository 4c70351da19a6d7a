package lightcurve

import (
	"fmt"
	"math"
	"sort"
)

// Folded holds a phase-folded view of a light curve: phases in [0, 1)
// against the original flux values, ordered by phase.
type Folded struct {
	Phase []float64
	Flux  []float64
}

// Fold phase-folds the curve at the given period in days. The epoch is the
// first time sample.
func (lc *LightCurve) Fold(period float64) (*Folded, error) {
	if period <= 0 {
		return nil, fmt.Errorf("fold period must be positive, got %f", period)
	}
	if len(lc.Time) == 0 {
		return nil, ErrEmpty
	}

	t0 := lc.Time[0]
	out := &Folded{
		Phase: make([]float64, len(lc.Time)),
		Flux:  append([]float64(nil), lc.Flux...),
	}
	for i, t := range lc.Time {
		cycles := (t - t0) / period
		phase := cycles - math.Floor(cycles)
		out.Phase[i] = phase
	}
	sortFolded(out)
	return out, nil
}

// BinPhases reduces the folded curve to n equal-width phase bins with the
// mean flux per bin. Empty bins are skipped. This is the red "binned mean"
// overlay on the diagnostic plots.
func (f *Folded) BinPhases(n int) (*Folded, error) {
	if n <= 0 {
		return nil, fmt.Errorf("phase bin count must be positive, got %d", n)
	}
	if len(f.Phase) == 0 {
		return nil, ErrEmpty
	}

	sums := make([]float64, n)
	counts := make([]int, n)
	for i, p := range f.Phase {
		idx := int(p * float64(n))
		if idx >= n {
			idx = n - 1
		}
		sums[idx] += f.Flux[i]
		counts[idx]++
	}

	out := &Folded{}
	for i := 0; i < n; i++ {
		if counts[i] == 0 {
			continue
		}
		center := (float64(i) + 0.5) / float64(n)
		out.Phase = append(out.Phase, center)
		out.Flux = append(out.Flux, sums[i]/float64(counts[i]))
	}
	return out, nil
}

// Amplitude returns max-min of the flux, a crude strength measure for a
// binned phase profile. Comparing the profile amplitude at P against P/2 is
// the statistical side of the half-period diagnostic.
func (f *Folded) Amplitude() float64 {
	if len(f.Flux) == 0 {
		return 0
	}
	min, max := f.Flux[0], f.Flux[0]
	for _, v := range f.Flux[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return max - min
}

func sortFolded(f *Folded) {
	sort.Sort(sortByPhase{f})
}

type sortByPhase struct{ f *Folded }

func (s sortByPhase) Len() int           { return len(s.f.Phase) }
func (s sortByPhase) Less(i, j int) bool { return s.f.Phase[i] < s.f.Phase[j] }
func (s sortByPhase) Swap(i, j int) {
	s.f.Phase[i], s.f.Phase[j] = s.f.Phase[j], s.f.Phase[i]
	s.f.Flux[i], s.f.Flux[j] = s.f.Flux[j], s.f.Flux[i]
}
