// Package plotting renders the per-star diagnostic figures: the binned light
// curve, the periodogram with detected and reference periods marked, and the
// phase folds at the detected period and its half.
package plotting

import (
	"fmt"
	"os"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/stellar-data/rotation.report/internal/lightcurve"
	"github.com/stellar-data/rotation.report/internal/periodogram"
)

const (
	plotWidth  = 8 * vg.Inch
	plotHeight = 4 * vg.Inch
)

func xyPoints(xs, ys []float64) plotter.XYs {
	pts := make(plotter.XYs, len(xs))
	for i := range xs {
		pts[i].X = xs[i]
		pts[i].Y = ys[i]
	}
	return pts
}

// SaveLightCurve renders the light curve as a scatter plot.
func SaveLightCurve(lc *lightcurve.LightCurve, title, path string) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Time [days]"
	p.Y.Label.Text = "Relative flux"

	s, err := plotter.NewScatter(xyPoints(lc.Time, lc.Flux))
	if err != nil {
		return fmt.Errorf("build light-curve scatter: %w", err)
	}
	s.GlyphStyle.Radius = vg.Points(1)
	s.GlyphStyle.Color = plotutil.Color(0)
	p.Add(s)

	if err := p.Save(plotWidth, plotHeight, path); err != nil {
		return fmt.Errorf("save light-curve plot: %w", err)
	}
	return nil
}

// SavePeriodogram renders the power spectrum with a vertical marker at the
// detected period and, when positive, a second marker at a reference period
// (for benchmark stars with a literature value).
func SavePeriodogram(pg *periodogram.Periodogram, detected, reference float64, title, path string) error {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Period [days]"
	p.Y.Label.Text = "Lomb-Scargle power"

	line, err := plotter.NewLine(xyPoints(pg.PeriodDays, pg.Power))
	if err != nil {
		return fmt.Errorf("build periodogram line: %w", err)
	}
	line.Color = plotutil.Color(0)
	p.Add(line)
	p.Legend.Add("power", line)

	if detected > 0 {
		marker := verticalLine(detected, pg.Power)
		marker.Color = plotutil.Color(1)
		marker.Dashes = plotutil.Dashes(1)
		p.Add(marker)
		p.Legend.Add(fmt.Sprintf("detected %.3f d", detected), marker)
	}
	if reference > 0 {
		marker := verticalLine(reference, pg.Power)
		marker.Color = plotutil.Color(2)
		marker.Dashes = plotutil.Dashes(2)
		p.Add(marker)
		p.Legend.Add(fmt.Sprintf("reference %.3f d", reference), marker)
	}
	p.Legend.Top = true

	if err := p.Save(plotWidth, plotHeight, path); err != nil {
		return fmt.Errorf("save periodogram plot: %w", err)
	}
	return nil
}

func verticalLine(x float64, power []float64) *plotter.Line {
	top := 0.0
	for _, v := range power {
		if v > top {
			top = v
		}
	}
	line, _ := plotter.NewLine(plotter.XYs{{X: x, Y: 0}, {X: x, Y: top}})
	return line
}

// SaveFoldPair renders the phase folds at the adopted period and at half
// that period side by side in one tall figure. When the adopted period is
// right, the full-period panel shows the cleaner single-humped profile.
func SaveFoldPair(lc *lightcurve.LightCurve, periodDays float64, profileBins int, title, path string) error {
	folds := []struct {
		period float64
		label  string
	}{
		{periodDays, fmt.Sprintf("P = %.3f d", periodDays)},
		{periodDays / 2, fmt.Sprintf("P/2 = %.3f d", periodDays/2)},
	}

	plots := make([][]*plot.Plot, len(folds))
	for i, f := range folds {
		folded, err := lc.Fold(f.period)
		if err != nil {
			return fmt.Errorf("fold at %.3f d: %w", f.period, err)
		}

		p := plot.New()
		p.Title.Text = f.label
		if i == 0 && title != "" {
			p.Title.Text = title + "  " + f.label
		}
		p.X.Label.Text = "Phase"
		p.Y.Label.Text = "Relative flux"

		s, err := plotter.NewScatter(xyPoints(folded.Phase, folded.Flux))
		if err != nil {
			return fmt.Errorf("build fold scatter: %w", err)
		}
		s.GlyphStyle.Radius = vg.Points(1)
		s.GlyphStyle.Color = plotutil.Color(0)
		p.Add(s)

		if profile, err := folded.BinPhases(profileBins); err == nil {
			line, lerr := plotter.NewLine(xyPoints(profile.Phase, profile.Flux))
			if lerr == nil {
				line.Color = plotutil.Color(1)
				line.Width = vg.Points(2)
				p.Add(line)
			}
		}

		plots[i] = []*plot.Plot{p}
	}

	img := vgimg.New(plotWidth, 2*plotHeight)
	dc := draw.New(img)
	canvases := plot.Align(plots, draw.Tiles{Rows: len(folds), Cols: 1}, dc)
	for i := range plots {
		plots[i][0].Draw(canvases[i][0])
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create fold plot %s: %w", path, err)
	}
	defer f.Close()

	png := vgimg.PngCanvas{Canvas: img}
	if _, err := png.WriteTo(f); err != nil {
		return fmt.Errorf("write fold plot: %w", err)
	}
	return nil
}
