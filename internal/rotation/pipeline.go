package rotation

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/stellar-data/rotation.report/internal/acf"
	"github.com/stellar-data/rotation.report/internal/catalog"
	"github.com/stellar-data/rotation.report/internal/config"
	"github.com/stellar-data/rotation.report/internal/lightcurve"
	"github.com/stellar-data/rotation.report/internal/monitoring"
	"github.com/stellar-data/rotation.report/internal/periodogram"
)

// Result is the per-star outcome of the rotation analysis.
type Result struct {
	TICID         int64
	Teff          float64
	Logg          float64
	Tmag          float64
	LSPeriodDays  float64
	LSPower       float64
	LSFAP         float64
	ACFPeriodDays float64 // zero when the ACF method failed
	FinalPeriod   float64
	Flag          Flag
	Variability   float64
	LSSignificant bool
}

// BatchResult is the outcome of a pipeline run over a sample directory.
type BatchResult struct {
	RunID      string
	Kind       string // "batch" for sample runs, "validate" for benchmarks
	ParamsJSON string // tuning parameters in effect, for provenance
	StartedAt  time.Time
	Duration   time.Duration
	Results    []Result
	FlagCounts map[Flag]int
	Skipped    []string // light-curve files that errored, with reasons
	Quiet      int      // results below the variability cut (kept in Results)
}

// Pipeline runs the full per-star analysis with thresholds from the tuning
// config.
type Pipeline struct {
	cfg *config.TuningConfig
}

// NewPipeline builds a pipeline around a tuning config. A nil config uses
// the built-in defaults.
func NewPipeline(cfg *config.TuningConfig) *Pipeline {
	if cfg == nil {
		cfg = &config.TuningConfig{}
	}
	return &Pipeline{cfg: cfg}
}

// AnalyzeStar runs the preprocessing and both period estimates on one light
// curve and combines them into a Result. The star metadata is carried
// through untouched. Quiet stars are measured like any other; the
// variability cut only gates the diagnostic plots downstream.
func (p *Pipeline) AnalyzeStar(star catalog.Star, lc *lightcurve.LightCurve) (*Result, error) {
	cleaned := lc.Clean()
	normalized, err := cleaned.Normalize()
	if err != nil {
		return nil, fmt.Errorf("TIC %d: normalize: %w", star.TICID, err)
	}
	binned, err := normalized.Bin(p.cfg.GetBinHours())
	if err != nil {
		return nil, fmt.Errorf("TIC %d: bin: %w", star.TICID, err)
	}

	variability := binned.Variability()

	est, err := periodogram.EstimatePeriod(binned.Time, binned.Flux, periodogram.Params{
		MinPeriodDays:       p.cfg.GetMinPeriodDays(),
		MaxPeriodDays:       p.cfg.GetMaxPeriodDays(),
		Oversample:          p.cfg.GetOversample(),
		FAPThreshold:        p.cfg.GetFAPThreshold(),
		BootstrapIterations: p.cfg.GetBootstrapIterations(),
		Seed:                p.cfg.GetSeed(),
	})
	if err != nil {
		return nil, fmt.Errorf("TIC %d: periodogram: %w", star.TICID, err)
	}

	// ACF failure is expected for gapped or noisy curves and is not fatal:
	// the star is kept with the spectral period only.
	acfPeriod := 0.0
	fn, err := acf.Compute(binned.Flux, binned.MedianCadence())
	if err == nil {
		peak, perr := fn.FirstPeak(acf.PeakParams{
			Height:     p.cfg.GetACFPeakHeight(),
			Separation: p.cfg.GetACFPeakSeparation(),
			MinLagDays: p.cfg.GetACFMinLagDays(),
		})
		if perr == nil {
			acfPeriod = peak.LagDays
		} else if !errors.Is(perr, acf.ErrNoPeak) {
			return nil, fmt.Errorf("TIC %d: acf peaks: %w", star.TICID, perr)
		}
	} else if !errors.Is(err, acf.ErrTooFewSamples) {
		monitoring.Logf("TIC %d: acf unavailable: %v", star.TICID, err)
	}

	final, flag, err := ChoosePeriod(est.PeriodDays, acfPeriod, DecisionParams{
		HarmonicLow:     p.cfg.GetHarmonicRatioLow(),
		HarmonicHigh:    p.cfg.GetHarmonicRatioHigh(),
		SubharmonicLow:  p.cfg.GetSubharmonicRatioLow(),
		SubharmonicHigh: p.cfg.GetSubharmonicRatioHigh(),
	})
	if err != nil {
		return nil, fmt.Errorf("TIC %d: %w", star.TICID, err)
	}

	return &Result{
		TICID:         star.TICID,
		Teff:          star.Teff,
		Logg:          star.Logg,
		Tmag:          star.Tmag,
		LSPeriodDays:  est.PeriodDays,
		LSPower:       est.Power,
		LSFAP:         est.FAP,
		ACFPeriodDays: acfPeriod,
		FinalPeriod:   final,
		Flag:          flag,
		Variability:   variability,
		LSSignificant: est.Significant,
	}, nil
}

// RunBatch analyzes every light-curve CSV in dir whose filename carries a
// TIC identifier present in the sample. Per-star failures are logged and
// recorded, never fatal: a batch survives individual bad files.
func (p *Pipeline) RunBatch(dir string, sample []catalog.Star) (*BatchResult, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read light-curve directory: %w", err)
	}

	idx := catalog.Index(sample)
	params, _ := json.Marshal(p.cfg)
	batch := &BatchResult{
		RunID:      uuid.NewString(),
		Kind:       "batch",
		ParamsJSON: string(params),
		StartedAt:  time.Now(),
		FlagCounts: make(map[Flag]int),
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(strings.ToLower(e.Name()), ".csv") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	monitoring.Logf("run %s: %d light-curve files, %d sample stars",
		batch.RunID, len(names), len(sample))

	for _, name := range names {
		tic, err := catalog.TICFromFilename(name)
		if err != nil {
			monitoring.Logf("skipping %s: %v", name, err)
			batch.Skipped = append(batch.Skipped, fmt.Sprintf("%s: %v", name, err))
			continue
		}
		star, ok := idx[tic]
		if !ok {
			continue // not in the sample
		}

		lc, err := lightcurve.ReadCSVFile(filepath.Join(dir, name))
		if err != nil {
			monitoring.Logf("skipping TIC %d: %v", tic, err)
			batch.Skipped = append(batch.Skipped, fmt.Sprintf("%s: %v", name, err))
			continue
		}

		res, err := p.AnalyzeStar(star, lc)
		if err != nil {
			monitoring.Logf("skipping TIC %d: %v", tic, err)
			batch.Skipped = append(batch.Skipped, fmt.Sprintf("%s: %v", name, err))
			continue
		}
		if res.Variability < p.cfg.GetVariabilityCut() {
			batch.Quiet++
		}

		batch.Results = append(batch.Results, *res)
		batch.FlagCounts[res.Flag]++
		monitoring.Logf("TIC %d: P=%.3f d (%s, FAP=%.4f)",
			res.TICID, res.FinalPeriod, res.Flag, res.LSFAP)
	}

	batch.Duration = time.Since(batch.StartedAt)
	monitoring.Logf("run %s: %d measured, %d quiet, %d skipped in %s",
		batch.RunID, len(batch.Results), batch.Quiet, len(batch.Skipped),
		batch.Duration.Round(time.Millisecond))
	return batch, nil
}
