// Package periodogram implements the Lomb-Scargle spectral period estimate
// used as the primary rotation-period method. The search range is bounded in
// period space and detections are gated on a bootstrap false-alarm
// probability.
package periodogram

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// MinSamples is the smallest light curve the estimator will accept. Below
// this the periodogram is dominated by the window function.
const MinSamples = 16

var (
	// ErrTooFewSamples is returned when the light curve is too short.
	ErrTooFewSamples = errors.New("too few samples for period estimation")

	// ErrZeroVariance is returned for a constant light curve.
	ErrZeroVariance = errors.New("flux has zero variance")
)

// Params bounds the period search and configures the significance gate.
type Params struct {
	MinPeriodDays       float64
	MaxPeriodDays       float64
	Oversample          int
	FAPThreshold        float64
	BootstrapIterations int
	Seed                int64
}

// Estimate is a spectral period detection. Significant reports whether the
// false-alarm probability cleared the configured threshold; callers must not
// treat an insignificant period as a rotation detection.
type Estimate struct {
	PeriodDays  float64
	Power       float64
	FAP         float64
	Significant bool
}

// Periodogram is the evaluated power spectrum, ordered from short to long
// periods.
type Periodogram struct {
	PeriodDays []float64
	Power      []float64
}

// Compute evaluates the Lomb-Scargle power spectrum of (t, y) on a frequency
// grid covering [MinPeriodDays, MaxPeriodDays] with the configured
// oversampling. The input need not be evenly sampled.
func Compute(t, y []float64, p Params) (*Periodogram, error) {
	if len(t) != len(y) {
		return nil, fmt.Errorf("time and flux length mismatch: %d vs %d", len(t), len(y))
	}
	if len(t) < MinSamples {
		return nil, fmt.Errorf("%w: have %d, need %d", ErrTooFewSamples, len(t), MinSamples)
	}
	if p.MinPeriodDays <= 0 || p.MaxPeriodDays <= p.MinPeriodDays {
		return nil, fmt.Errorf("invalid period window [%f, %f]", p.MinPeriodDays, p.MaxPeriodDays)
	}

	span := floats.Max(t) - floats.Min(t)
	if span <= 0 {
		return nil, errors.New("time span is zero")
	}

	mean, variance := stat.MeanVariance(y, nil)
	if variance == 0 {
		return nil, ErrZeroVariance
	}

	centered := make([]float64, len(y))
	for i, v := range y {
		centered[i] = v - mean
	}

	oversample := p.Oversample
	if oversample < 1 {
		oversample = 1
	}

	// Linear frequency grid; resolution set by the baseline.
	fMin := 1.0 / p.MaxPeriodDays
	fMax := 1.0 / p.MinPeriodDays
	df := 1.0 / (float64(oversample) * span)
	n := int((fMax-fMin)/df) + 1

	pg := &Periodogram{
		PeriodDays: make([]float64, 0, n),
		Power:      make([]float64, 0, n),
	}
	// Walk from high to low frequency so periods come out ascending.
	for i := n - 1; i >= 0; i-- {
		f := fMin + float64(i)*df
		if f > fMax {
			continue
		}
		omega := 2 * math.Pi * f
		pg.PeriodDays = append(pg.PeriodDays, 1.0/f)
		pg.Power = append(pg.Power, lombScarglePower(t, centered, variance, omega))
	}
	return pg, nil
}

// Peak returns the period and power at maximum power.
func (pg *Periodogram) Peak() (periodDays, power float64) {
	idx := floats.MaxIdx(pg.Power)
	return pg.PeriodDays[idx], pg.Power[idx]
}

// maxPower returns the maximum power over the grid without allocating a
// Periodogram; used by the bootstrap.
func maxPower(t, centered []float64, variance float64, p Params, span float64) float64 {
	oversample := p.Oversample
	if oversample < 1 {
		oversample = 1
	}
	fMin := 1.0 / p.MaxPeriodDays
	fMax := 1.0 / p.MinPeriodDays
	df := 1.0 / (float64(oversample) * span)
	n := int((fMax-fMin)/df) + 1

	best := 0.0
	for i := 0; i < n; i++ {
		f := fMin + float64(i)*df
		if f > fMax {
			break
		}
		if pw := lombScarglePower(t, centered, variance, 2*math.Pi*f); pw > best {
			best = pw
		}
	}
	return best
}

// lombScarglePower evaluates the classic normalized Lomb-Scargle power at
// angular frequency omega for mean-subtracted flux. The tau offset makes the
// estimate invariant to time-axis shifts.
func lombScarglePower(t, centered []float64, variance, omega float64) float64 {
	var s2, c2 float64
	for _, ti := range t {
		s2 += math.Sin(2 * omega * ti)
		c2 += math.Cos(2 * omega * ti)
	}
	tau := math.Atan2(s2, c2) / (2 * omega)

	var cSum, sSum, cc, ss float64
	for i, ti := range t {
		arg := omega * (ti - tau)
		c := math.Cos(arg)
		s := math.Sin(arg)
		cSum += centered[i] * c
		sSum += centered[i] * s
		cc += c * c
		ss += s * s
	}

	var power float64
	if cc > 0 {
		power += cSum * cSum / cc
	}
	if ss > 0 {
		power += sSum * sSum / ss
	}
	return power / (2 * variance)
}
