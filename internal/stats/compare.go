package stats

import (
	"fmt"
	"math/rand"
	"sort"
)

// Comparison is the outcome of comparing two period distributions.
type Comparison struct {
	NameA   string
	NameB   string
	NA      int
	NB      int
	MedianA float64
	MedianB float64
	KS      KSResult
	AD      ADResult
}

// Compare runs both two-sample tests on the named distributions.
func Compare(nameA string, a []float64, nameB string, b []float64) (*Comparison, error) {
	ks, err := KolmogorovSmirnov(a, b)
	if err != nil {
		return nil, fmt.Errorf("%s vs %s: KS: %w", nameA, nameB, err)
	}
	ad, err := AndersonDarling(a, b)
	if err != nil {
		return nil, fmt.Errorf("%s vs %s: AD: %w", nameA, nameB, err)
	}
	return &Comparison{
		NameA:   nameA,
		NameB:   nameB,
		NA:      len(a),
		NB:      len(b),
		MedianA: Median(a),
		MedianB: Median(b),
		KS:      *ks,
		AD:      *ad,
	}, nil
}

// Distinguishable reports whether both tests reject the shared-distribution
// null at the given level.
func (c *Comparison) Distinguishable(alpha float64) bool {
	return c.KS.PValue < alpha && c.AD.PValue < alpha
}

// Median returns the sample median, or zero for an empty sample.
func Median(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sorted := append([]float64(nil), xs...)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return 0.5 * (sorted[n/2-1] + sorted[n/2])
}

// MatchedControl draws a seeded random subsample of size n without
// replacement, for building a size-matched comparison set. Returns the whole
// input when it has n or fewer values.
func MatchedControl(xs []float64, n int, seed int64) []float64 {
	if n <= 0 || len(xs) <= n {
		return append([]float64(nil), xs...)
	}
	perm := rand.New(rand.NewSource(seed)).Perm(len(xs))
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = xs[perm[i]]
	}
	return out
}
