package visual

import (
	"fmt"
	"math"
	"sort"

	"github.com/go-gota/gota/dataframe"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/dataweft/dataweft-cli/internal/dataset"
)

const histogramBins = 16

func numericValues(df dataframe.DataFrame, col string) (plotter.Values, error) {
	vals := dataset.NonMissingFloats(df, col)
	if len(vals) == 0 {
		return nil, fmt.Errorf("column %s has no numeric values", col)
	}
	return plotter.Values(vals), nil
}

func addHistogram(p *plot.Plot, df dataframe.DataFrame, col string, logScale bool) error {
	vals, err := numericValues(df, col)
	if err != nil {
		return err
	}
	if logScale {
		scaled := make(plotter.Values, 0, len(vals))
		for _, v := range vals {
			if v >= 0 {
				scaled = append(scaled, math.Log1p(v))
			}
		}
		if len(scaled) == 0 {
			return fmt.Errorf("column %s has no non-negative values for log scale", col)
		}
		vals = scaled
		p.X.Label.Text = "log1p"
	}
	h, err := plotter.NewHist(vals, histogramBins)
	if err != nil {
		return err
	}
	p.Add(h)
	return nil
}

func addBoxplot(p *plot.Plot, df dataframe.DataFrame, col string) error {
	vals, err := numericValues(df, col)
	if err != nil {
		return err
	}
	b, err := plotter.NewBoxPlot(vg.Points(40), 0, vals)
	if err != nil {
		return err
	}
	p.Add(b)
	p.NominalX(col)
	return nil
}

func categoryCounts(df dataframe.DataFrame, col string) ([]string, []float64) {
	counts := map[string]int{}
	total := 0
	for _, r := range dataset.NonMissingRecords(df, col) {
		counts[r]++
		total++
	}
	labels := make([]string, 0, len(counts))
	for l := range counts {
		labels = append(labels, l)
	}
	sort.Strings(labels)
	vals := make([]float64, len(labels))
	for i, l := range labels {
		vals[i] = float64(counts[l])
	}
	return labels, vals
}

func addBarplot(p *plot.Plot, df dataframe.DataFrame, col string, proportions bool) error {
	labels, vals := categoryCounts(df, col)
	if len(labels) == 0 {
		return fmt.Errorf("column %s has no categories", col)
	}
	if proportions {
		total := 0.0
		for _, v := range vals {
			total += v
		}
		for i := range vals {
			vals[i] /= total
		}
	}
	bars, err := plotter.NewBarChart(plotter.Values(vals), vg.Points(20))
	if err != nil {
		return err
	}
	p.Add(bars)
	p.NominalX(labels...)
	return nil
}

// addPareto is a barplot with categories sorted by descending count.
func addPareto(p *plot.Plot, df dataframe.DataFrame, col string) error {
	labels, vals := categoryCounts(df, col)
	if len(labels) == 0 {
		return fmt.Errorf("column %s has no categories", col)
	}
	idx := make([]int, len(labels))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return vals[idx[a]] > vals[idx[b]] })

	ordered := make([]float64, len(idx))
	orderedLabels := make([]string, len(idx))
	for i, j := range idx {
		ordered[i] = vals[j]
		orderedLabels[i] = labels[j]
	}
	bars, err := plotter.NewBarChart(plotter.Values(ordered), vg.Points(20))
	if err != nil {
		return err
	}
	p.Add(bars)
	p.NominalX(orderedLabels...)
	return nil
}

// addLineplot draws values against row index, rows with missing values
// omitted.
func addLineplot(p *plot.Plot, df dataframe.DataFrame, col string) error {
	vals := dataset.Floats(df, col)
	pts := make(plotter.XYs, 0, len(vals))
	for i, v := range vals {
		if !math.IsNaN(v) {
			pts = append(pts, plotter.XY{X: float64(i), Y: v})
		}
	}
	if len(pts) == 0 {
		return fmt.Errorf("column %s has no numeric values", col)
	}
	l, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	p.Add(l)
	p.X.Label.Text = "row"
	return nil
}

func completePairs(df dataframe.DataFrame, x, y string) plotter.XYs {
	xs := dataset.Floats(df, x)
	ys := dataset.Floats(df, y)
	pts := make(plotter.XYs, 0, len(xs))
	for i := range xs {
		if !math.IsNaN(xs[i]) && !math.IsNaN(ys[i]) {
			pts = append(pts, plotter.XY{X: xs[i], Y: ys[i]})
		}
	}
	return pts
}

func addScatter(p *plot.Plot, df dataframe.DataFrame, x, y string, withTrend bool) error {
	pts := completePairs(df, x, y)
	if len(pts) == 0 {
		return fmt.Errorf("no complete %s/%s pairs", x, y)
	}
	s, err := plotter.NewScatter(pts)
	if err != nil {
		return err
	}
	p.Add(s)

	if withTrend && len(pts) >= 2 {
		xs := make([]float64, len(pts))
		ys := make([]float64, len(pts))
		minX, maxX := pts[0].X, pts[0].X
		for i, pt := range pts {
			xs[i], ys[i] = pt.X, pt.Y
			minX = math.Min(minX, pt.X)
			maxX = math.Max(maxX, pt.X)
		}
		alpha, beta := stat.LinearRegression(xs, ys, nil, false)
		line, err := plotter.NewLine(plotter.XYs{
			{X: minX, Y: alpha + beta*minX},
			{X: maxX, Y: alpha + beta*maxX},
		})
		if err != nil {
			return err
		}
		p.Add(line)
	}
	return nil
}

// addGroupMeans draws the mean of a numeric column per category of a
// categorical column.
func addGroupMeans(p *plot.Plot, df dataframe.DataFrame, catCol, numCol string) error {
	recs := dataset.Records(df, catCol)
	vals := dataset.Floats(df, numCol)

	sums := map[string]float64{}
	counts := map[string]int{}
	for i, r := range recs {
		if dataset.IsMissing(r) || math.IsNaN(vals[i]) {
			continue
		}
		sums[r] += vals[i]
		counts[r]++
	}
	if len(counts) == 0 {
		return fmt.Errorf("no complete %s/%s pairs", catCol, numCol)
	}

	labels := make([]string, 0, len(counts))
	for l := range counts {
		labels = append(labels, l)
	}
	sort.Strings(labels)
	means := make([]float64, len(labels))
	for i, l := range labels {
		means[i] = sums[l] / float64(counts[l])
	}

	bars, err := plotter.NewBarChart(plotter.Values(means), vg.Points(20))
	if err != nil {
		return err
	}
	p.Add(bars)
	p.NominalX(labels...)
	p.Y.Label.Text = "mean " + numCol
	return nil
}

// addPairLine draws second against first, sorted by first. Used for
// datetime-indexed bivariate lineplots, with the datetime mapped to
// its parse order.
func addPairLine(p *plot.Plot, df dataframe.DataFrame, first, second string) error {
	firstRecs := dataset.Records(df, first)
	ys := dataset.Floats(df, second)

	type pt struct {
		order float64
		y     float64
	}
	pts := make([]pt, 0, len(firstRecs))
	for i, r := range firstRecs {
		if math.IsNaN(ys[i]) {
			continue
		}
		if ts, ok := dataset.ParseTime(r); ok {
			pts = append(pts, pt{order: float64(ts.Unix()), y: ys[i]})
			continue
		}
		xs := dataset.Floats(df, first)
		if !math.IsNaN(xs[i]) {
			pts = append(pts, pt{order: xs[i], y: ys[i]})
		}
	}
	if len(pts) == 0 {
		return fmt.Errorf("no complete %s/%s pairs", first, second)
	}
	sort.Slice(pts, func(a, b int) bool { return pts[a].order < pts[b].order })

	xys := make(plotter.XYs, len(pts))
	for i, q := range pts {
		xys[i] = plotter.XY{X: q.order, Y: q.y}
	}
	l, err := plotter.NewLine(xys)
	if err != nil {
		return err
	}
	p.Add(l)
	return nil
}
