package pipeline

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dataweft/dataweft-cli/internal/dataset"
	"github.com/dataweft/dataweft-cli/internal/profile"
	"github.com/dataweft/dataweft-cli/internal/rules"
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

func TestRunEndToEnd(t *testing.T) {
	var b strings.Builder
	b.WriteString("id,age,city,is_active\n")
	for i := 0; i < 60; i++ {
		age := fmt.Sprintf("%d", 20+i%30)
		if i < 3 {
			age = "NaN"
		}
		city := fmt.Sprintf("c%d", i%4)
		if i == 10 || i == 11 {
			city = "NA"
		}
		active := "false"
		if i%2 == 0 {
			active = "true"
		}
		fmt.Fprintf(&b, "%d,%s,%s,%s\n", i+1, age, city, active)
	}
	df := frameFromCSV(t, b.String())
	stats := schemaMap(map[string]profile.ColType{
		"id":        profile.Numeric,
		"age":       profile.Numeric,
		"city":      profile.Categorical,
		"is_active": profile.Boolean,
	})

	dir := t.TempDir()
	opts := DefaultOptions()
	opts.OutputDir = dir

	res, err := Run(df, stats, opts)
	require.NoError(t, err)

	names := res.Frame.Names()
	assert.NotContains(t, names, "id", "identifier-like column dropped")
	assert.NotContains(t, names, "city", "one-hot replaces the original column")
	assert.Contains(t, names, "age")
	assert.Contains(t, names, "is_active")
	for _, v := range []string{"c0", "c1", "c2", "c3"} {
		assert.Contains(t, names, "city_"+v)
	}

	// No missing cells anywhere in the processed frame.
	for _, col := range names {
		for _, r := range dataset.Records(res.Frame, col) {
			assert.False(t, dataset.IsMissing(r), "column %s still has missing values", col)
		}
	}

	// Booleans became 0/1 integers.
	for _, r := range dataset.Records(res.Frame, "is_active") {
		assert.Contains(t, []string{"0", "1"}, r)
	}

	// Indicator columns are exclusive per row.
	for i := 0; i < res.Frame.Nrow(); i++ {
		sum := 0.0
		for _, v := range []string{"c0", "c1", "c2", "c3"} {
			sum += dataset.Floats(res.Frame, "city_"+v)[i]
		}
		assert.InDelta(t, 1, sum, 1e-9, "row %d", i)
	}

	assert.Equal(t, 60, res.RowsBefore)
	assert.Equal(t, 60, res.RowsAfter)

	out := filepath.Join(dir, OutputFilename)
	assert.Equal(t, out, res.OutputPath)
	_, statErr := os.Stat(out)
	assert.NoError(t, statErr, "processed dataset persisted")

	for _, family := range []string{StageMissing, StageOutliers, StageEncoding, StageTransform} {
		_, ok := res.Applied[family]
		assert.True(t, ok, "applied decisions recorded for %s", family)
	}
}

func TestApplyMissingValues(t *testing.T) {
	csv := strings.Join([]string{
		"sparse,skewed,sym,cat",
		"1,1,1,a",
		"NaN,1,2,b",
		"NaN,1,3,a",
		"NaN,1,4,NA",
		"NaN,10,5,b",
		"2,NaN,NaN,a",
	}, "\n")
	df := frameFromCSV(t, csv)
	stats := schemaMap(map[string]profile.ColType{
		"sparse": profile.Numeric,
		"skewed": profile.Numeric,
		"sym":    profile.Numeric,
		"cat":    profile.Categorical,
	})

	out, applied, err := applyMissingValues(df, stats, DefaultOptions())
	require.NoError(t, err)

	assert.NotContains(t, out.Names(), "sparse", "mostly missing column dropped")
	assert.Equal(t, rules.DropColumn, applied["sparse"])

	skewed := dataset.Floats(out, "skewed")
	assert.InDelta(t, 1, skewed[5], 1e-9, "median imputation")

	sym := dataset.Floats(out, "sym")
	assert.InDelta(t, 3, sym[5], 1e-9, "mean imputation")

	cat := dataset.Records(out, "cat")
	assert.Equal(t, "a", cat[3], "mode imputation")
}

func TestRemoveOutlierRows(t *testing.T) {
	var b strings.Builder
	b.WriteString("mild\n")
	for i := 1; i <= 19; i++ {
		fmt.Fprintf(&b, "%d\n", i)
	}
	b.WriteString("1000\n")
	df := frameFromCSV(t, b.String())

	out := removeOutlierRows(df, "mild")
	require.NoError(t, out.Error())
	assert.Equal(t, 19, out.Nrow())
	for _, v := range dataset.Floats(out, "mild") {
		assert.LessOrEqual(t, v, 30.0)
	}
}

func TestCapColumn(t *testing.T) {
	var b strings.Builder
	b.WriteString("v\n")
	for i := 1; i <= 100; i++ {
		fmt.Fprintf(&b, "%d\n", i)
	}
	df := frameFromCSV(t, b.String())

	out := capColumn(df, "v")
	require.NoError(t, out.Error())
	assert.Equal(t, 100, out.Nrow(), "capping never drops rows")

	vals := dataset.Floats(out, "v")
	for _, v := range vals {
		assert.GreaterOrEqual(t, v, 5.0)
		assert.LessOrEqual(t, v, 95.0)
	}
}

func TestOneHotEncodeAddsOneColumnPerValue(t *testing.T) {
	var b strings.Builder
	b.WriteString("city,n\n")
	for i := 0; i < 20; i++ {
		fmt.Fprintf(&b, "c%d,%d\n", i%5, i)
	}
	df := frameFromCSV(t, b.String())

	out := oneHotEncode(df, "city")
	require.NoError(t, out.Error())

	names := out.Names()
	assert.NotContains(t, names, "city")
	assert.Len(t, names, 6, "5 indicators plus the untouched column")
	for i := 0; i < 5; i++ {
		assert.Contains(t, names, fmt.Sprintf("city_c%d", i))
	}
}

func TestTargetEncode(t *testing.T) {
	csv := strings.Join([]string{
		"cat,y",
		"a,1", "a,2", "a,3", "a,4", "a,5",
		"b,20", "b,20", "b,20", "b,20", "b,20",
	}, "\n")
	df := frameFromCSV(t, csv)

	t.Run("unsmoothed", func(t *testing.T) {
		out, err := targetEncode(df, "cat", Options{TargetColumn: "y"})
		require.NoError(t, err)
		enc := dataset.Floats(out, "cat")
		assert.InDelta(t, 3, enc[0], 1e-9)
		assert.InDelta(t, 20, enc[5], 1e-9)
	})

	t.Run("smoothed shrinks toward global mean", func(t *testing.T) {
		out, err := targetEncode(df, "cat", Options{TargetColumn: "y", Smoothing: 10})
		require.NoError(t, err)
		enc := dataset.Floats(out, "cat")
		global := 11.5
		assert.Greater(t, enc[0], 3.0)
		assert.Less(t, enc[0], global)
		assert.Less(t, enc[5], 20.0)
		assert.Greater(t, enc[5], global)
	})

	t.Run("leave one out excludes own row", func(t *testing.T) {
		out, err := targetEncode(df, "cat", Options{TargetColumn: "y", LeakageSafeTargetEncoding: true})
		require.NoError(t, err)
		enc := dataset.Floats(out, "cat")
		// category a sums to 15; excluding y=1 leaves 14 over 4 rows.
		assert.InDelta(t, 3.5, enc[0], 1e-9)
	})

	t.Run("missing target column", func(t *testing.T) {
		_, err := targetEncode(df, "cat", Options{})
		assert.Error(t, err)
		_, err = targetEncode(df, "cat", Options{TargetColumn: "nope"})
		assert.Error(t, err)
	})
}

func TestRunTargetEncodeWithoutTargetFails(t *testing.T) {
	var b strings.Builder
	b.WriteString("cat\n")
	for i := 0; i < 60; i++ {
		fmt.Fprintf(&b, "g%d\n", i%20)
	}
	df := frameFromCSV(t, b.String())
	stats := schemaMap(map[string]profile.ColType{"cat": profile.Categorical})

	opts := DefaultOptions()
	opts.SaveOutput = false

	_, err := Run(df, stats, opts)
	require.Error(t, err)
	var perr *PreprocessError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, StageEncoding, perr.Stage)
}

func TestExtractDateParts(t *testing.T) {
	csv := strings.Join([]string{
		"when",
		"2024-03-05",
		"2023-12-31",
		"NA",
	}, "\n")
	df := frameFromCSV(t, csv)

	out := extractDateParts(df, "when")
	require.NoError(t, out.Error())

	assert.Contains(t, out.Names(), "when", "original column retained")
	for _, part := range []string{"year", "month", "day", "weekday", "hour"} {
		assert.Contains(t, out.Names(), "when_"+part)
	}

	years := dataset.Floats(out, "when_year")
	assert.InDelta(t, 2024, years[0], 1e-9)
	assert.InDelta(t, 2023, years[1], 1e-9)
	assert.True(t, math.IsNaN(years[2]), "missing date yields missing parts")

	days := dataset.Floats(out, "when_day")
	assert.InDelta(t, 5, days[0], 1e-9)
	weekdays := dataset.Floats(out, "when_weekday")
	assert.InDelta(t, 2, weekdays[0], 1e-9, "2024-03-05 is a Tuesday")
}

func TestFrequencyEncode(t *testing.T) {
	csv := strings.Join([]string{"cat", "a", "a", "a", "b"}, "\n")
	df := frameFromCSV(t, csv)

	out := frequencyEncode(df, "cat")
	require.NoError(t, out.Error())
	enc := dataset.Floats(out, "cat")
	assert.InDelta(t, 0.75, enc[0], 1e-9)
	assert.InDelta(t, 0.25, enc[3], 1e-9)
}
