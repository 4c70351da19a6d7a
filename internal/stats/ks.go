// Package stats implements the two-sample hypothesis tests used to compare
// the rotation-period distributions of single- and multi-planet hosts.
package stats

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// ErrTooFewValues is returned when a sample is too small for a meaningful
// test.
var ErrTooFewValues = errors.New("too few values for two-sample test")

// KSResult is a two-sample Kolmogorov-Smirnov outcome.
type KSResult struct {
	Statistic float64 // maximum CDF distance D
	PValue    float64
}

// KolmogorovSmirnov runs the two-sample KS test. The p-value uses the
// asymptotic Kolmogorov distribution with the standard small-sample
// correction on the effective sample size.
func KolmogorovSmirnov(a, b []float64) (*KSResult, error) {
	if len(a) < 2 || len(b) < 2 {
		return nil, fmt.Errorf("%w: have %d and %d", ErrTooFewValues, len(a), len(b))
	}

	x := append([]float64(nil), a...)
	y := append([]float64(nil), b...)
	sort.Float64s(x)
	sort.Float64s(y)

	d := stat.KolmogorovSmirnov(x, nil, y, nil)

	ne := float64(len(a)) * float64(len(b)) / float64(len(a)+len(b))
	sqrtNe := math.Sqrt(ne)
	lambda := (sqrtNe + 0.12 + 0.11/sqrtNe) * d

	return &KSResult{Statistic: d, PValue: kolmogorovQ(lambda)}, nil
}

// kolmogorovQ evaluates the Kolmogorov survival function
// Q(lambda) = 2 * sum_{j>=1} (-1)^(j-1) exp(-2 j^2 lambda^2).
func kolmogorovQ(lambda float64) float64 {
	if lambda <= 0 {
		return 1
	}
	sum := 0.0
	sign := 1.0
	for j := 1; j <= 100; j++ {
		term := math.Exp(-2 * float64(j*j) * lambda * lambda)
		sum += sign * term
		if term < 1e-10 {
			break
		}
		sign = -sign
	}
	p := 2 * sum
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}
