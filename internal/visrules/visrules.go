// Package visrules selects which charts to render for a dataset. The
// plan is purely declarative: feature key to an ordered list of chart
// entries tiered by cost and usefulness. Rendering lives in the visual
// package.
package visrules

import (
	"math"

	"github.com/go-gota/gota/dataframe"

	"github.com/dataweft/dataweft-cli/internal/profile"
)

// Tier grades a chart by cost and diagnostic depth.
type Tier string

const (
	TierBasic      Tier = "BASIC"
	TierDiagnostic Tier = "DIAGNOSTIC"
	TierAdvanced   Tier = "ADVANCED"
)

// TaskType conditions the bivariate chart matrix.
type TaskType string

const (
	TaskRegression     TaskType = "regression"
	TaskClassification TaskType = "classification"
	TaskTimeSeries     TaskType = "time-series"
)

// PairSep separates the two column names in a bivariate or cross
// feature key.
const PairSep = "_vs_"

// Multivariate feature keys.
const (
	KeyNumericCorrelation   = "numeric_correlation"
	KeyClusteredCorrelation = "clustered_correlation"
	KeyPairplot             = "pairplot"
)

// Chart names understood by the plan. The visual package renders a
// subset of these and skips the rest.
const (
	ChartHistogram        = "histogram"
	ChartHistogramKDE     = "histogram_kde"
	ChartHistogramLog     = "histogram_log_scale"
	ChartBoxplot          = "boxplot"
	ChartBarplot          = "barplot"
	ChartPareto           = "pareto_chart"
	ChartProportion       = "proportion_chart"
	ChartLineplot         = "lineplot"
	ChartRollingAvg       = "rolling_avg_plot"
	ChartSeasonal         = "seasonal_decompose"
	ChartClassBalance     = "class_balance_plot"
	ChartScatter          = "scatterplot"
	ChartScatterTrend     = "scatter_with_trend"
	ChartGroupedBoxplot   = "grouped_boxplot"
	ChartViolin           = "violin_plot"
	ChartClassDensity     = "class_density"
	ChartStackedBar       = "stacked_bar"
	ChartGroupedBar       = "grouped_bar"
	ChartLagPlot          = "lag_plot"
	ChartHeatmap          = "correlation_heatmap"
	ChartClusteredHeatmap = "clustered_heatmap"
	ChartPairplot         = "pairplot"
)

// Entry is one chart to render for a feature key.
type Entry struct {
	Chart string `json:"chart"`
	Tier  Tier   `json:"tier"`
}

// Plan maps a feature key (column, pair, or multivariate key) to its
// chart entries, in render order.
type Plan map[string][]Entry

// DefaultPairplotMaxRows guards the quadratic pairplot cost.
const DefaultPairplotMaxRows = 1000

// Build computes the full visualization plan for the frame. target and
// task are optional; bivariate entries appear only when both are set.
func Build(df dataframe.DataFrame, stats map[string]profile.ColumnSchema, target string, task TaskType) Plan {
	return BuildLimited(df, stats, target, task, DefaultPairplotMaxRows)
}

// BuildLimited is Build with an explicit pairplot row guard.
func BuildLimited(df dataframe.DataFrame, stats map[string]profile.ColumnSchema, target string, task TaskType, pairplotMaxRows int) Plan {
	plan := Plan{}
	addUnivariate(plan, df, stats, target)
	if target != "" && task != "" {
		addBivariate(plan, stats, target, task)
	}
	addMultivariate(plan, df, stats, pairplotMaxRows)
	return plan
}

func addUnivariate(plan Plan, df dataframe.DataFrame, stats map[string]profile.ColumnSchema, target string) {
	for _, name := range profile.SortedColumns(stats) {
		if name == target {
			continue
		}
		switch stats[name].Type {
		case profile.Numeric:
			entries := []Entry{
				{ChartHistogram, TierBasic},
				{ChartHistogramKDE, TierDiagnostic},
			}
			if math.Abs(profile.Recompute(df, name).Skew) > 1 {
				entries = append(entries, Entry{ChartHistogramLog, TierAdvanced})
			}
			entries = append(entries, Entry{ChartBoxplot, TierBasic})
			plan[name] = entries
		case profile.Categorical:
			plan[name] = []Entry{
				{ChartBarplot, TierBasic},
				{ChartPareto, TierDiagnostic},
				{ChartProportion, TierAdvanced},
			}
		case profile.Datetime:
			plan[name] = []Entry{
				{ChartLineplot, TierBasic},
				{ChartRollingAvg, TierDiagnostic},
				{ChartSeasonal, TierAdvanced},
			}
		case profile.Boolean:
			plan[name] = []Entry{
				{ChartBarplot, TierBasic},
				{ChartClassBalance, TierDiagnostic},
			}
		}
	}
}

// bivariateMatrix maps task type and candidate column type to the
// charts relating the column to the target.
var bivariateMatrix = map[TaskType]map[profile.ColType][]Entry{
	TaskRegression: {
		profile.Numeric:     {{ChartScatter, TierBasic}, {ChartScatterTrend, TierDiagnostic}},
		profile.Categorical: {{ChartGroupedBoxplot, TierBasic}, {ChartViolin, TierDiagnostic}},
		profile.Boolean:     {{ChartGroupedBoxplot, TierBasic}},
		profile.Datetime:    {{ChartLineplot, TierBasic}},
	},
	TaskClassification: {
		profile.Numeric:     {{ChartGroupedBoxplot, TierBasic}, {ChartClassDensity, TierDiagnostic}},
		profile.Categorical: {{ChartStackedBar, TierBasic}, {ChartGroupedBar, TierDiagnostic}},
		profile.Boolean:     {{ChartStackedBar, TierBasic}},
		profile.Datetime:    {{ChartLineplot, TierBasic}},
	},
	TaskTimeSeries: {
		profile.Numeric:     {{ChartLineplot, TierBasic}, {ChartRollingAvg, TierDiagnostic}, {ChartLagPlot, TierAdvanced}},
		profile.Categorical: {{ChartStackedBar, TierBasic}},
		profile.Boolean:     {{ChartLineplot, TierBasic}},
		profile.Datetime:    {{ChartLineplot, TierBasic}},
	},
}

func addBivariate(plan Plan, stats map[string]profile.ColumnSchema, target string, task TaskType) {
	matrix, ok := bivariateMatrix[task]
	if !ok {
		return
	}
	for _, name := range profile.SortedColumns(stats) {
		if name == target {
			continue
		}
		entries, ok := matrix[stats[name].Type]
		if !ok {
			continue
		}
		plan[name+PairSep+target] = append([]Entry(nil), entries...)
	}
}

func addMultivariate(plan Plan, df dataframe.DataFrame, stats map[string]profile.ColumnSchema, pairplotMaxRows int) {
	var numeric, categorical []string
	for _, name := range profile.SortedColumns(stats) {
		switch stats[name].Type {
		case profile.Numeric:
			numeric = append(numeric, name)
		case profile.Categorical:
			categorical = append(categorical, name)
		}
	}

	if len(numeric) >= 2 {
		plan[KeyNumericCorrelation] = []Entry{{ChartHeatmap, TierDiagnostic}}
		plan[KeyClusteredCorrelation] = []Entry{{ChartClusteredHeatmap, TierAdvanced}}
		if df.Nrow() < pairplotMaxRows {
			plan[KeyPairplot] = []Entry{{ChartPairplot, TierAdvanced}}
		}
	}

	// Bivariate target entries own their key; cross entries never
	// overwrite them.
	for _, c := range categorical {
		for _, n := range numeric {
			setIfAbsent(plan, c+PairSep+n, Entry{ChartBarplot, TierDiagnostic})
		}
	}
	for i := 0; i < len(categorical); i++ {
		for j := i + 1; j < len(categorical); j++ {
			setIfAbsent(plan, categorical[i]+PairSep+categorical[j], Entry{ChartStackedBar, TierDiagnostic})
		}
	}
}

func setIfAbsent(plan Plan, key string, e Entry) {
	if _, ok := plan[key]; !ok {
		plan[key] = []Entry{e}
	}
}
