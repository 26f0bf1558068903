package visual

import (
	"fmt"
	"math"
	"sort"

	"github.com/go-gota/gota/dataframe"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"

	"github.com/dataweft/dataweft-cli/internal/dataset"
	"github.com/dataweft/dataweft-cli/internal/profile"
)

// corrGrid adapts a correlation matrix to plotter.GridXYZ.
type corrGrid struct {
	cols   []string
	matrix [][]float64
}

func (g corrGrid) Dims() (int, int)   { return len(g.cols), len(g.cols) }
func (g corrGrid) X(c int) float64    { return float64(c) }
func (g corrGrid) Y(r int) float64    { return float64(r) }
func (g corrGrid) Z(c, r int) float64 { return g.matrix[r][c] }

func numericColumns(df dataframe.DataFrame, stats map[string]profile.ColumnSchema) []string {
	var cols []string
	for _, name := range profile.SortedColumns(stats) {
		if stats[name].Type == profile.Numeric && dataset.HasColumn(df, name) {
			cols = append(cols, name)
		}
	}
	return cols
}

// pairCorrelation is the Pearson correlation over complete cases of
// the two columns, 0 when undefined.
func pairCorrelation(df dataframe.DataFrame, a, b string) float64 {
	xa := dataset.Floats(df, a)
	xb := dataset.Floats(df, b)
	var xs, ys []float64
	for i := range xa {
		if !math.IsNaN(xa[i]) && !math.IsNaN(xb[i]) {
			xs = append(xs, xa[i])
			ys = append(ys, xb[i])
		}
	}
	if len(xs) < 2 {
		return 0
	}
	c := stat.Correlation(xs, ys, nil)
	if math.IsNaN(c) {
		return 0
	}
	return c
}

func correlationMatrix(df dataframe.DataFrame, cols []string) [][]float64 {
	m := make([][]float64, len(cols))
	for i := range cols {
		m[i] = make([]float64, len(cols))
		m[i][i] = 1
	}
	for i := 0; i < len(cols); i++ {
		for j := i + 1; j < len(cols); j++ {
			c := pairCorrelation(df, cols[i], cols[j])
			m[i][j], m[j][i] = c, c
		}
	}
	return m
}

// clusterOrder sorts columns by their mean absolute correlation with
// the others, so strongly related columns sit together at one end of
// the heatmap.
func clusterOrder(cols []string, m [][]float64) []int {
	strength := make([]float64, len(cols))
	for i := range cols {
		for j := range cols {
			if i != j {
				strength[i] += math.Abs(m[i][j])
			}
		}
	}
	idx := make([]int, len(cols))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return strength[idx[a]] > strength[idx[b]] })
	return idx
}

func (v *Visualizer) renderCorrelation(df dataframe.DataFrame, stats map[string]profile.ColumnSchema, clustered bool) (string, error) {
	cols := numericColumns(df, stats)
	if len(cols) < 2 {
		return "", fmt.Errorf("need at least 2 numeric columns, have %d", len(cols))
	}
	m := correlationMatrix(df, cols)

	key := "numeric_correlation"
	if clustered {
		key = "clustered_correlation"
		idx := clusterOrder(cols, m)
		ordered := make([]string, len(cols))
		om := make([][]float64, len(cols))
		for i, a := range idx {
			ordered[i] = cols[a]
			om[i] = make([]float64, len(cols))
			for j, b := range idx {
				om[i][j] = m[a][b]
			}
		}
		cols, m = ordered, om
	}

	cm := moreland.SmoothBlueRed()
	cm.SetMin(-1)
	cm.SetMax(1)

	p := plot.New()
	p.Title.Text = "correlation"
	p.Add(plotter.NewHeatMap(corrGrid{cols: cols, matrix: m}, cm.Palette(255)))

	ticks := make([]plot.Tick, len(cols))
	for i, c := range cols {
		ticks[i] = plot.Tick{Value: float64(i), Label: c}
	}
	p.X.Tick.Marker = plot.ConstantTicks(ticks)
	p.Y.Tick.Marker = plot.ConstantTicks(ticks)

	return v.save(p, key, "heatmap")
}
