package decayplot

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

var ErrUnsupportedFormat = errors.New("unsupported plot format")

type Options struct {
	// Channel is shown in the title, e.g. "R".
	Channel string
	// Width and Height of raster output. Zero uses 6x4 inches.
	Width, Height vg.Length
}

func (o Options) title() string {
	if o.Channel == "" {
		return "Singular Values Dropoff"
	}
	return fmt.Sprintf("Singular Values Dropoff (%s channel)", o.Channel)
}

const (
	xLabel = "Index"
	yLabel = "Singular value (log scale)"
)

// Render draws values against their index on a logarithmic Y axis and writes the chart to path.
// ".html" produces an interactive page. Other extensions (png, jpg, svg, pdf, eps, tif) are
// rendered as images, and a path without extension is written as PNG.
// Non-positive values cannot be placed on a log axis and are skipped.
func Render(path string, values []float64, o Options) error {
	if strings.EqualFold(filepath.Ext(path), ".html") {
		return renderHTML(path, values, o)
	}
	return renderImage(path, values, o)
}

func positive(values []float64) plotter.XYs {
	xys := make(plotter.XYs, 0, len(values))
	for i, v := range values {
		if v > 0 {
			xys = append(xys, plotter.XY{X: float64(i), Y: v})
		}
	}
	return xys
}

// yRange is a strictly positive, non-empty Y range covering xys, as a log axis requires.
func yRange(xys plotter.XYs) (lo, hi float64) {
	lo, hi = 1, 10
	if len(xys) > 0 {
		_, _, lo, hi = plotter.XYRange(xys)
	}
	if lo == hi {
		lo, hi = lo/10, hi*10
	}
	return lo, hi
}

func renderImage(path string, values []float64, o Options) error {
	p := plot.New()
	p.Title.Text = o.title()
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	p.Y.Scale = plot.LogScale{}
	p.Y.Tick.Marker = plot.LogTicks{Prec: -1}
	p.Add(plotter.NewGrid())

	xys := positive(values)
	if len(xys) > 0 {
		line, points, err := plotter.NewLinePoints(xys)
		if err != nil {
			return err
		}
		p.Add(line, points)
	}

	p.Y.Min, p.Y.Max = yRange(xys)
	p.X.Min, p.X.Max = 0, float64(max(len(values)-1, 1))

	w, h := o.Width, o.Height
	if w == 0 || h == 0 {
		w, h = 6*vg.Inch, 4*vg.Inch
	}
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if format == "" {
		format = "png"
	}
	wt, err := p.WriterTo(w, h, format)
	if err != nil {
		return fmt.Errorf("%w %q: %w", ErrUnsupportedFormat, format, err)
	}
	return writeFile(path, wt.WriteTo)
}

func renderHTML(path string, values []float64, o Options) error {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: o.title(),
		}),
		charts.WithTitleOpts(opts.Title{
			Title: o.title(),
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "axis",
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Name:      xLabel,
			Type:      "value",
			SplitLine: &opts.SplitLine{Show: opts.Bool(true)},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Name:      yLabel,
			Type:      "log",
			SplitLine: &opts.SplitLine{Show: opts.Bool(true)},
		}),
	)

	xys := positive(values)
	data := make([]opts.LineData, len(xys))
	for i, xy := range xys {
		data[i] = opts.LineData{Value: []any{int(xy.X), xy.Y}}
	}
	line.AddSeries(o.Channel, data,
		charts.WithLineChartOpts(opts.LineChart{
			ShowSymbol: opts.Bool(true),
			Symbol:     "circle",
		}),
	)

	return writeFile(path, func(w io.Writer) (int64, error) {
		return 0, line.Render(w)
	})
}

func writeFile(path string, write func(io.Writer) (int64, error)) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to render %s: %w", path, err)
	}
	return f.Close()
}
