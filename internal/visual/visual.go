// Package visual renders a visualization plan to image files with
// gonum/plot. Rendering degrades gracefully: a chart whose columns are
// missing or whose type is unimplemented is skipped and logged, never
// fatal for the batch.
package visual

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"

	"github.com/dataweft/dataweft-cli/internal/dataset"
	"github.com/dataweft/dataweft-cli/internal/profile"
	"github.com/dataweft/dataweft-cli/internal/utils"
	"github.com/dataweft/dataweft-cli/internal/visrules"
)

// VisualizationError reports a batch-level rendering failure, such as
// an unwritable output directory.
type VisualizationError struct {
	Err error
}

func (e *VisualizationError) Error() string {
	return fmt.Sprintf("visualization failed: %v", e.Err)
}

func (e *VisualizationError) Unwrap() error { return e.Err }

// Visualizer renders plans into OutputDir.
type Visualizer struct {
	OutputDir string
	Width     vg.Length
	Height    vg.Length
}

// New returns a Visualizer with the default 6x4 inch canvas.
func New(outputDir string) *Visualizer {
	return &Visualizer{
		OutputDir: outputDir,
		Width:     6 * vg.Inch,
		Height:    4 * vg.Inch,
	}
}

// SetSizeInches overrides the canvas size. Non-positive dimensions
// keep the current value.
func (v *Visualizer) SetSizeInches(w, h float64) {
	if w > 0 {
		v.Width = vg.Length(w) * vg.Inch
	}
	if h > 0 {
		v.Height = vg.Length(h) * vg.Inch
	}
}

// Render draws every renderable chart in the plan and returns the
// image paths per feature key. Per-chart failures are logged and
// skipped; only batch-level failures return an error.
func (v *Visualizer) Render(df dataframe.DataFrame, plan visrules.Plan, stats map[string]profile.ColumnSchema) (map[string][]string, error) {
	if err := utils.EnsureDir(v.OutputDir); err != nil {
		return nil, &VisualizationError{Err: err}
	}

	keys := make([]string, 0, len(plan))
	for k := range plan {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make(map[string][]string)
	for _, key := range keys {
		for _, entry := range plan[key] {
			p, err := v.renderChart(df, key, entry.Chart, stats)
			if err != nil {
				slog.Warn("skipping chart", "feature", key, "chart", entry.Chart, "reason", err)
				continue
			}
			if p == "" {
				continue
			}
			out[key] = append(out[key], p)
		}
	}
	return out, nil
}

func (v *Visualizer) renderChart(df dataframe.DataFrame, key, chart string, stats map[string]profile.ColumnSchema) (string, error) {
	switch key {
	case visrules.KeyNumericCorrelation:
		return v.renderCorrelation(df, stats, false)
	case visrules.KeyClusteredCorrelation:
		return v.renderCorrelation(df, stats, true)
	case visrules.KeyPairplot:
		slog.Debug("chart type not implemented", "chart", chart)
		return "", nil
	}

	if first, second, ok := splitPair(key); ok {
		return v.renderPair(df, first, second, chart)
	}
	return v.renderSingle(df, key, chart)
}

func splitPair(key string) (first, second string, ok bool) {
	i := strings.Index(key, visrules.PairSep)
	if i < 0 {
		return "", "", false
	}
	return key[:i], key[i+len(visrules.PairSep):], true
}

func (v *Visualizer) renderSingle(df dataframe.DataFrame, col, chart string) (string, error) {
	if !dataset.HasColumn(df, col) {
		return "", fmt.Errorf("column %s not in frame", col)
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s (%s)", col, chart)

	var err error
	switch chart {
	case visrules.ChartHistogram:
		err = addHistogram(p, df, col, false)
	case visrules.ChartHistogramLog:
		err = addHistogram(p, df, col, true)
	case visrules.ChartBoxplot:
		err = addBoxplot(p, df, col)
	case visrules.ChartBarplot, visrules.ChartProportion:
		err = addBarplot(p, df, col, chart == visrules.ChartProportion)
	case visrules.ChartPareto:
		err = addPareto(p, df, col)
	case visrules.ChartLineplot:
		err = addLineplot(p, df, col)
	default:
		slog.Debug("chart type not implemented", "chart", chart, "column", col)
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return v.save(p, col, chart)
}

func (v *Visualizer) renderPair(df dataframe.DataFrame, first, second, chart string) (string, error) {
	if !dataset.HasColumn(df, first) || !dataset.HasColumn(df, second) {
		return "", fmt.Errorf("pair %s/%s not fully present in frame", first, second)
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s vs %s", first, second)
	p.X.Label.Text = first
	p.Y.Label.Text = second

	var err error
	switch chart {
	case visrules.ChartScatter, visrules.ChartScatterTrend:
		err = addScatter(p, df, first, second, chart == visrules.ChartScatterTrend)
	case visrules.ChartBarplot:
		err = addGroupMeans(p, df, first, second)
	case visrules.ChartLineplot:
		err = addPairLine(p, df, first, second)
	default:
		slog.Debug("chart type not implemented", "chart", chart, "pair", first+"/"+second)
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return v.save(p, first+visrules.PairSep+second, chart)
}

func (v *Visualizer) save(p *plot.Plot, key, chart string) (string, error) {
	name := fmt.Sprintf("%s_%s.png", sanitize(key), sanitize(chart))
	path := filepath.Join(v.OutputDir, name)
	if err := p.Save(v.Width, v.Height, path); err != nil {
		return "", err
	}
	return path, nil
}

func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ' ', ':':
			return '-'
		}
		return r
	}, s)
}
