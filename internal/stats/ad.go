package stats

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
)

// ADResult is a two-sample Anderson-Darling outcome in the Scholz-Stephens
// formulation. The normalized statistic is what the p-value is interpolated
// from; PValue is clamped to [0.001, 0.25] because the published critical
// values only span that range.
type ADResult struct {
	Statistic  float64 // A2akN, midrank version
	Normalized float64
	PValue     float64
}

// Scholz-Stephens critical-value fit coefficients: the critical value at
// each significance level is b0 + b1/sqrt(m) + b2/m with m = k-1.
var (
	adSigLevels = []float64{0.25, 0.10, 0.05, 0.025, 0.01, 0.005, 0.001}
	adB0        = []float64{0.675, 1.281, 1.645, 1.960, 2.326, 2.573, 3.085}
	adB1        = []float64{-0.245, 0.250, 0.678, 1.149, 1.822, 2.364, 3.615}
	adB2        = []float64{-0.105, -0.305, -0.362, -0.391, -0.396, -0.345, -0.154}
)

// AndersonDarling runs the k=2 Scholz-Stephens test with the midrank
// (tie-aware) statistic.
func AndersonDarling(a, b []float64) (*ADResult, error) {
	if len(a) < 2 || len(b) < 2 {
		return nil, fmt.Errorf("%w: have %d and %d", ErrTooFewValues, len(a), len(b))
	}

	samples := [][]float64{a, b}
	pooled := make([]float64, 0, len(a)+len(b))
	pooled = append(pooled, a...)
	pooled = append(pooled, b...)
	sort.Float64s(pooled)
	n := float64(len(pooled))

	// Unique pooled values with tie counts.
	var zstar []float64
	var ties []float64
	for i := 0; i < len(pooled); {
		j := i
		for j < len(pooled) && pooled[j] == pooled[i] {
			j++
		}
		zstar = append(zstar, pooled[i])
		ties = append(ties, float64(j-i))
		i = j
	}
	if len(zstar) < 2 {
		return nil, fmt.Errorf("pooled sample is constant")
	}

	a2 := 0.0
	for _, sample := range samples {
		sorted := append([]float64(nil), sample...)
		sort.Float64s(sorted)
		ni := float64(len(sorted))

		inner := 0.0
		bCum := 0.0
		mCum := 0.0
		for j, z := range zstar {
			lj := ties[j]
			fij := countEqual(sorted, z)
			// Midrank counts: everything strictly below plus half the ties.
			maij := mCum + fij/2
			baj := bCum + lj/2
			mCum += fij
			bCum += lj

			denom := baj*(n-baj) - n*lj/4
			if denom <= 0 {
				continue
			}
			diff := n*maij - ni*baj
			inner += (lj / n) * diff * diff / denom
		}
		a2 += inner / ni
	}
	a2 *= (n - 1) / n

	sigma := adSigma([]int{len(a), len(b)})
	norm := (a2 - 1.0) / sigma // k-1 = 1 for the two-sample case

	return &ADResult{
		Statistic:  a2,
		Normalized: norm,
		PValue:     adPValue(norm),
	}, nil
}

func countEqual(sorted []float64, v float64) float64 {
	lo := sort.SearchFloat64s(sorted, v)
	hi := sort.Search(len(sorted), func(i int) bool { return sorted[i] > v })
	return float64(hi - lo)
}

// adSigma evaluates the Scholz-Stephens standard deviation of A2akN under
// the null hypothesis.
func adSigma(sizes []int) float64 {
	total := 0
	hSum := 0.0
	for _, sz := range sizes {
		total += sz
		hSum += 1.0 / float64(sz)
	}
	n := float64(total)
	k := float64(len(sizes))

	h := 0.0
	for i := 1; i < total; i++ {
		h += 1.0 / float64(i)
	}
	g := 0.0
	for i := 1; i <= total-2; i++ {
		for j := i + 1; j <= total-1; j++ {
			g += 1.0 / ((n - float64(i)) * float64(j))
		}
	}

	a := (4*g-6)*(k-1) + (10-6*g)*hSum
	b := (2*g-4)*k*k + 8*h*k + (2*g-14*h-4)*hSum - 8*h + 4*g - 6
	c := (6*h+2*g-2)*k*k + (4*h-4*g+6)*k + (2*h-6)*hSum + 4*h
	d := (2*h+6)*k*k - 4*h*k
	variance := (a*n*n*n + b*n*n + c*n + d) / ((n - 1) * (n - 2) * (n - 3))
	return math.Sqrt(variance)
}

// adPValue interpolates the p-value for a normalized statistic by fitting a
// quadratic in the published critical values against log significance. The
// fit is only trusted inside the span of the table: beyond the 0.001-level
// critical value the quadratic turns back up, so anything past it reports
// the 0.001 floor directly.
func adPValue(norm float64) float64 {
	crit := make([]float64, len(adSigLevels))
	logSig := make([]float64, len(adSigLevels))
	for i := range adSigLevels {
		// m = k-1 = 1 for the two-sample test.
		crit[i] = adB0[i] + adB1[i] + adB2[i]
		logSig[i] = math.Log(adSigLevels[i])
	}
	if norm >= crit[len(crit)-1] {
		return adSigLevels[len(adSigLevels)-1]
	}

	c0, c1, c2 := fitQuadratic(crit, logSig)
	p := math.Exp(c0 + c1*norm + c2*norm*norm)

	if p < 0.001 {
		return 0.001
	}
	if p > 0.25 {
		return 0.25
	}
	return p
}

// fitQuadratic least-squares fits y = c0 + c1 x + c2 x^2.
func fitQuadratic(x, y []float64) (c0, c1, c2 float64) {
	rows := len(x)
	design := mat.NewDense(rows, 3, nil)
	for i, v := range x {
		design.Set(i, 0, 1)
		design.Set(i, 1, v)
		design.Set(i, 2, v*v)
	}
	rhs := mat.NewVecDense(rows, append([]float64(nil), y...))

	var qr mat.QR
	qr.Factorize(design)
	var coef mat.VecDense
	if err := qr.SolveVecTo(&coef, false, rhs); err != nil {
		// The design matrix is fixed and well conditioned; this cannot
		// happen for the published critical values.
		return 0, 0, 0
	}
	return coef.AtVec(0), coef.AtVec(1), coef.AtVec(2)
}
