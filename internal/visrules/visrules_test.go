package visrules

import (
	"fmt"
	"strings"
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dataweft/dataweft-cli/internal/profile"
)

func frameFromCSV(t *testing.T, csv string) dataframe.DataFrame {
	t.Helper()
	df := dataframe.ReadCSV(strings.NewReader(csv))
	require.NoError(t, df.Error())
	return df
}

func schemaMap(types map[string]profile.ColType) map[string]profile.ColumnSchema {
	stats := make(map[string]profile.ColumnSchema, len(types))
	for name, typ := range types {
		stats[name] = profile.ColumnSchema{Name: name, Type: typ}
	}
	return stats
}

func mixedFixture(t *testing.T, rows int) (dataframe.DataFrame, map[string]profile.ColumnSchema) {
	t.Helper()
	var b strings.Builder
	b.WriteString("n1,n2,n3,c1,c2\n")
	for i := 0; i < rows; i++ {
		fmt.Fprintf(&b, "%d,%.2f,%.2f,a%d,b%d\n",
			i+1, float64(i)*0.5, float64(i%7)+0.25, i%3, i%4)
	}
	df := frameFromCSV(t, b.String())
	stats := schemaMap(map[string]profile.ColType{
		"n1": profile.Numeric,
		"n2": profile.Numeric,
		"n3": profile.Numeric,
		"c1": profile.Categorical,
		"c2": profile.Categorical,
	})
	return df, stats
}

func charts(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Chart
	}
	return out
}

func TestBuildMultivariateCounts(t *testing.T) {
	df, stats := mixedFixture(t, 60)

	plan := Build(df, stats, "", "")

	assert.Len(t, plan[KeyNumericCorrelation], 1)
	assert.Len(t, plan[KeyClusteredCorrelation], 1)

	// 2 categorical x 3 numeric cross entries.
	crossNum := 0
	for _, c := range []string{"c1", "c2"} {
		for _, n := range []string{"n1", "n2", "n3"} {
			if _, ok := plan[c+PairSep+n]; ok {
				crossNum++
			}
		}
	}
	assert.Equal(t, 6, crossNum)

	// Exactly one unordered categorical pair.
	_, fwd := plan["c1"+PairSep+"c2"]
	_, rev := plan["c2"+PairSep+"c1"]
	assert.True(t, fwd)
	assert.False(t, rev, "pairs are unordered, no duplicates")
}

func TestBuildPairplotRowGuard(t *testing.T) {
	small, stats := mixedFixture(t, 60)
	assert.Contains(t, Build(small, stats, "", ""), KeyPairplot)

	big, stats := mixedFixture(t, 1200)
	assert.NotContains(t, Build(big, stats, "", ""), KeyPairplot)
}

func TestUnivariateNumericSkewGate(t *testing.T) {
	var b strings.Builder
	b.WriteString("flat,spiky\n")
	for i := 0; i < 60; i++ {
		spiky := 10
		if i >= 57 {
			spiky = 5000
		}
		fmt.Fprintf(&b, "%d,%d\n", i, spiky)
	}
	df := frameFromCSV(t, b.String())
	stats := schemaMap(map[string]profile.ColType{
		"flat":  profile.Numeric,
		"spiky": profile.Numeric,
	})

	plan := Build(df, stats, "", "")

	assert.NotContains(t, charts(plan["flat"]), ChartHistogramLog)
	assert.Contains(t, charts(plan["spiky"]), ChartHistogramLog)
	for _, col := range []string{"flat", "spiky"} {
		assert.Contains(t, charts(plan[col]), ChartHistogram)
		assert.Contains(t, charts(plan[col]), ChartBoxplot)
	}
}

func TestUnivariateByType(t *testing.T) {
	csv := strings.Join([]string{
		"cat,when,flag",
		"a,2024-01-01,true",
		"b,2024-01-02,false",
		"a,2024-01-03,true",
	}, "\n")
	df := frameFromCSV(t, csv)
	stats := schemaMap(map[string]profile.ColType{
		"cat":  profile.Categorical,
		"when": profile.Datetime,
		"flag": profile.Boolean,
	})

	plan := Build(df, stats, "", "")

	assert.Equal(t, []string{ChartBarplot, ChartPareto, ChartProportion}, charts(plan["cat"]))
	assert.Equal(t, []string{ChartLineplot, ChartRollingAvg, ChartSeasonal}, charts(plan["when"]))
	assert.Equal(t, []string{ChartBarplot, ChartClassBalance}, charts(plan["flag"]))
}

func TestBivariateNeedsTargetAndTask(t *testing.T) {
	df, stats := mixedFixture(t, 60)

	noTask := Build(df, stats, "n1", "")
	assert.NotContains(t, noTask, "n2"+PairSep+"n1", "no bivariate entries without a task type")
	assert.Equal(t, []string{ChartBarplot}, charts(noTask["c1"+PairSep+"n1"]), "cross entry only")

	plan := Build(df, stats, "n1", TaskRegression)
	assert.Equal(t, []string{ChartScatter, ChartScatterTrend}, charts(plan["n2"+PairSep+"n1"]))
	assert.Equal(t, []string{ChartGroupedBoxplot, ChartViolin}, charts(plan["c1"+PairSep+"n1"]))
	assert.NotContains(t, plan, "n1", "target gets no univariate entry")
}

func TestBivariateMatricesDifferByTask(t *testing.T) {
	df, stats := mixedFixture(t, 60)

	cls := Build(df, stats, "c1", TaskClassification)
	assert.Equal(t, []string{ChartGroupedBoxplot, ChartClassDensity}, charts(cls["n1"+PairSep+"c1"]))
	assert.Equal(t, []string{ChartStackedBar, ChartGroupedBar}, charts(cls["c2"+PairSep+"c1"]))

	ts := Build(df, stats, "n1", TaskTimeSeries)
	assert.Equal(t, []string{ChartLineplot, ChartRollingAvg, ChartLagPlot}, charts(ts["n2"+PairSep+"n1"]))
}
