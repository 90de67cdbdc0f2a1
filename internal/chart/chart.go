package chart

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/stellarlinkco/mbpp-tools/internal/analyze"
	"github.com/stellarlinkco/mbpp-tools/internal/textstat"
)

const histBins = 20

// Renderer draws the optional charts for one dataset metric. Callers treat
// a nil Renderer as "charts disabled" and skip rendering silently.
type Renderer interface {
	RenderStats(dataset, metric string, stats textstat.Stats) error
	RenderHistogram(dataset, metric string, values []int) error
}

// Metrics whose histograms get a 75th-percentile marker.
var p75Metrics = map[string]bool{
	analyze.MetricCodeLines:   true,
	analyze.MetricPromptWords: true,
}

// PNG renders charts as <dataset>_<metric>_<kind>.png files under one
// directory.
type PNG struct {
	dir string
}

func NewPNG(dir string) (*PNG, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, errors.New("chart: empty plots dir")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("chart: create %q: %w", dir, err)
	}
	return &PNG{dir: dir}, nil
}

// RenderStats draws a bar chart over the five summary statistics.
func (p *PNG) RenderStats(dataset, metric string, stats textstat.Stats) error {
	pl := plot.New()
	pl.Title.Text = fmt.Sprintf("%s %s summary", dataset, metric)
	pl.Y.Label.Text = "value"

	values := plotter.Values{
		float64(stats.Count),
		float64(stats.Min),
		stats.Median,
		stats.Avg,
		float64(stats.Max),
	}
	bars, err := plotter.NewBarChart(values, vg.Points(30))
	if err != nil {
		return fmt.Errorf("chart: bar chart %s/%s: %w", dataset, metric, err)
	}
	pl.Add(bars)
	pl.NominalX("count", "min", "median", "avg", "max")

	return p.save(pl, dataset, metric, "stats")
}

// RenderHistogram draws the sample distribution with mean and median
// markers. Metrics in p75Metrics get an extra marker labelled with the
// share of samples at or below the 75th percentile. No samples, no file.
func (p *PNG) RenderHistogram(dataset, metric string, values []int) error {
	if len(values) == 0 {
		return nil
	}

	vs := make(plotter.Values, len(values))
	for i, v := range values {
		vs[i] = float64(v)
	}

	pl := plot.New()
	pl.Title.Text = fmt.Sprintf("%s %s distribution", dataset, metric)
	pl.X.Label.Text = metric
	pl.Y.Label.Text = "files"

	hist, err := plotter.NewHist(vs, histBins)
	if err != nil {
		return fmt.Errorf("chart: histogram %s/%s: %w", dataset, metric, err)
	}
	pl.Add(hist)

	top := maxBinWeight(hist)
	stats := textstat.Describe(values)

	mean, err := marker(stats.Avg, top, color.RGBA{R: 0xd6, G: 0x2a, B: 0x2a, A: 0xff})
	if err != nil {
		return fmt.Errorf("chart: mean marker %s/%s: %w", dataset, metric, err)
	}
	pl.Add(mean)
	pl.Legend.Add("mean "+trimFloat(stats.Avg), mean)

	med, err := marker(stats.Median, top, color.RGBA{B: 0xd6, G: 0x2a, R: 0x2a, A: 0xff})
	if err != nil {
		return fmt.Errorf("chart: median marker %s/%s: %w", dataset, metric, err)
	}
	pl.Add(med)
	pl.Legend.Add("median "+trimFloat(stats.Median), med)

	if p75Metrics[metric] {
		p75 := textstat.Percentile(values, 75)
		share := textstat.AtOrBelow(values, p75) * 100

		ln, err := marker(p75, top, color.RGBA{G: 0x8a, R: 0x2a, B: 0x2a, A: 0xff})
		if err != nil {
			return fmt.Errorf("chart: p75 marker %s/%s: %w", dataset, metric, err)
		}
		pl.Add(ln)
		pl.Legend.Add(fmt.Sprintf("p75 %s (%.0f%% at or below)", trimFloat(p75), share), ln)
	}

	pl.Legend.Top = true

	return p.save(pl, dataset, metric, "hist")
}

func (p *PNG) save(pl *plot.Plot, dataset, metric, kind string) error {
	name := fmt.Sprintf("%s_%s_%s.png", dataset, metric, kind)
	path := filepath.Join(p.dir, name)
	if err := pl.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("chart: save %q: %w", path, err)
	}
	return nil
}

// marker builds a dashed vertical line spanning the histogram height at x.
func marker(x, top float64, c color.Color) (*plotter.Line, error) {
	ln, err := plotter.NewLine(plotter.XYs{{X: x, Y: 0}, {X: x, Y: top}})
	if err != nil {
		return nil, err
	}
	ln.LineStyle.Color = c
	ln.LineStyle.Width = vg.Points(1.5)
	ln.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
	return ln, nil
}

func maxBinWeight(h *plotter.Histogram) float64 {
	top := 0.0
	for _, b := range h.Bins {
		if b.Weight > top {
			top = b.Weight
		}
	}
	if top == 0 {
		top = 1
	}
	return top
}

func trimFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
