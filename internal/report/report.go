// Package report renders the batch summary as a standalone HTML page:
// period histograms split by planet multiplicity, the decision-flag tally,
// and the two-sample test outcomes.
package report

import (
	"fmt"
	"io"
	"math"
	"os"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/stellar-data/rotation.report/internal/rotation"
	"github.com/stellar-data/rotation.report/internal/stats"
)

// Input bundles everything the report page shows. Comparison may be nil when
// no host table was supplied.
type Input struct {
	Title      string
	Results    []rotation.Result
	Single     []float64 // adopted periods of single-planet hosts
	Multi      []float64 // adopted periods of multi-planet hosts
	Comparison *stats.Comparison
}

// Render writes the report page.
func Render(w io.Writer, in *Input) error {
	if len(in.Results) == 0 {
		return fmt.Errorf("no results to report")
	}

	page := components.NewPage()
	page.PageTitle = in.Title

	page.AddCharts(
		periodHistogram(in),
		flagBar(in.Results),
	)
	if in.Comparison != nil {
		page.AddCharts(comparisonBar(in.Comparison))
	}

	return page.Render(w)
}

// RenderFile writes the report page to disk.
func RenderFile(path string, in *Input) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report %s: %w", path, err)
	}
	defer f.Close()
	return Render(f, in)
}

// histogramBins buckets periods into fixed-width bins across the sample
// range and returns labels plus per-series counts.
func histogramBins(width float64, series ...[]float64) (labels []string, counts [][]int) {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, s := range series {
		for _, v := range s {
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
	}
	if math.IsInf(lo, 1) {
		return nil, nil
	}

	first := int(math.Floor(lo / width))
	last := int(math.Floor(hi / width))
	n := last - first + 1

	labels = make([]string, n)
	for i := 0; i < n; i++ {
		labels[i] = fmt.Sprintf("%.1f", float64(first+i)*width)
	}
	counts = make([][]int, len(series))
	for si, s := range series {
		counts[si] = make([]int, n)
		for _, v := range s {
			counts[si][int(math.Floor(v/width))-first]++
		}
	}
	return labels, counts
}

func periodHistogram(in *Input) *charts.Bar {
	all := make([]float64, 0, len(in.Results))
	for _, r := range in.Results {
		all = append(all, r.FinalPeriod)
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "900px", Height: "420px"}),
		charts.WithTitleOpts(opts.Title{
			Title:    "Rotation period distribution",
			Subtitle: fmt.Sprintf("%d stars, 1-day bins", len(all)),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Period (d)"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Stars"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
	)

	labels, counts := histogramBins(1.0, all, in.Single, in.Multi)
	bar.SetXAxis(labels)

	names := []string{"all", "single hosts", "multi hosts"}
	for si, name := range names {
		if si > 0 && len(counts[si]) == 0 {
			continue
		}
		data := make([]opts.BarData, len(counts[si]))
		total := 0
		for i, c := range counts[si] {
			data[i] = opts.BarData{Value: c}
			total += c
		}
		if si > 0 && total == 0 {
			continue
		}
		bar.AddSeries(name, data)
	}
	return bar
}

func flagBar(results []rotation.Result) *charts.Bar {
	tally := make(map[rotation.Flag]int)
	for _, r := range results {
		tally[r.Flag]++
	}
	flags := make([]rotation.Flag, 0, len(tally))
	for f := range tally {
		flags = append(flags, f)
	}
	sort.Slice(flags, func(i, j int) bool { return flags[i] < flags[j] })

	labels := make([]string, len(flags))
	data := make([]opts.BarData, len(flags))
	for i, f := range flags {
		labels[i] = f.String()
		data[i] = opts.BarData{Value: tally[f]}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "900px", Height: "420px"}),
		charts.WithTitleOpts(opts.Title{Title: "Harmonic decision flags"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Stars"}),
	)
	bar.SetXAxis(labels)
	bar.AddSeries("flags", data,
		charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"}))
	return bar
}

func comparisonBar(c *stats.Comparison) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "900px", Height: "420px"}),
		charts.WithTitleOpts(opts.Title{
			Title: fmt.Sprintf("%s (n=%d) vs %s (n=%d)", c.NameA, c.NA, c.NameB, c.NB),
			Subtitle: fmt.Sprintf("medians %.2f d / %.2f d; KS D=%.3f p=%.4f; AD A2=%.3f p=%.4f",
				c.MedianA, c.MedianB, c.KS.Statistic, c.KS.PValue, c.AD.Statistic, c.AD.PValue),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithYAxisOpts(opts.YAxis{Name: "p-value"}),
	)
	bar.SetXAxis([]string{"KS", "Anderson-Darling"})
	bar.AddSeries("p-values", []opts.BarData{
		{Value: c.KS.PValue},
		{Value: c.AD.PValue},
	}, charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"}))
	return bar
}
