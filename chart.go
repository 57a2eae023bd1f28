package bitweaver

import (
	"io"

	"github.com/pkg/errors"
	"github.com/wcharczuk/go-chart/v2"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// ErrNotEnoughData is returned for histograms too small to plot.
var ErrNotEnoughData = errors.New("histogram needs at least 2 distinct values")

// WriteHistogram renders hist as an SVG scatter plot of count against value.
func WriteHistogram(w io.Writer, title string, hist map[int]int) error {
	keys := maps.Keys(hist)
	if len(keys) < 2 {
		return errors.Wrapf(ErrNotEnoughData, "%d", len(keys))
	}
	slices.Sort(keys)

	xvals := make([]float64, 0, len(keys))
	yvals := make([]float64, 0, len(keys))
	var top int
	for _, k := range keys {
		xvals = append(xvals, float64(k))
		yvals = append(yvals, float64(hist[k]))
		if hist[k] > top {
			top = hist[k]
		}
	}
	graph := chart.Chart{
		Title: title,
		XAxis: chart.XAxis{Name: "value"},
		YAxis: chart.YAxis{
			Name: "count",
			// A fixed range also plots histograms whose counts are all equal.
			Range: &chart.ContinuousRange{Min: 0, Max: float64(top)},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Style: chart.Style{
					DotWidth: 3,
				},
				XValues: xvals,
				YValues: yvals,
			},
		},
	}
	if err := graph.Render(chart.SVG, w); err != nil {
		return errors.Wrap(err, "")
	}
	return nil
}
