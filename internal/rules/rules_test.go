package rules

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

func TestMissingValueRules(t *testing.T) {
	var b strings.Builder
	b.WriteString("full,sparse,skewed,ltail,sym,cat,dt\n")
	rows := []string{
		"1,1,1,10,1,a,2024-01-01",
		"2,NaN,1,10,2,b,2024-01-01",
		"3,NaN,1,10,3,a,2024-01-02",
		"4,NaN,1,10,4,NA,NA",
		"5,NaN,10,1,5,b,2024-01-03",
		"6,2,NaN,NaN,NaN,a,2024-01-04",
	}
	b.WriteString(strings.Join(rows, "\n"))
	df := frameFromCSV(t, b.String())

	stats := schemaMap(map[string]profile.ColType{
		"full":   profile.Numeric,
		"sparse": profile.Numeric,
		"skewed": profile.Numeric,
		"ltail":  profile.Numeric,
		"sym":    profile.Numeric,
		"cat":    profile.Categorical,
		"dt":     profile.Datetime,
	})

	got, err := MissingValueRules(df, stats)
	require.NoError(t, err)

	want := map[string]string{
		"full":   NoAction,
		"sparse": DropColumn,
		"skewed": ImputeMedian,
		"ltail":  ImputeMean,
		"sym":    ImputeMean,
		"cat":    ImputeMode,
		"dt":     ImputeMostFreqDate,
	}
	assert.Equal(t, want, got, "only a right tail justifies the median")
}

func TestMissingValueRulesSkipsAbsentColumn(t *testing.T) {
	df := frameFromCSV(t, "a\n1\n2")
	stats := schemaMap(map[string]profile.ColType{
		"a":    profile.Numeric,
		"gone": profile.Numeric,
	})

	got, err := MissingValueRules(df, stats)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"a": NoAction}, got)
}

func TestOutlierRules(t *testing.T) {
	var b strings.Builder
	b.WriteString("clean,heavy,mild,label\n")
	for i := 0; i < 20; i++ {
		heavy := i + 1
		if i >= 15 {
			heavy = 10000
		}
		mild := i + 1
		if i == 19 {
			mild = 1000
		}
		fmt.Fprintf(&b, "%d,%d,%d,x\n", i+1, heavy, mild)
	}
	df := frameFromCSV(t, b.String())

	stats := schemaMap(map[string]profile.ColType{
		"clean": profile.Numeric,
		"heavy": profile.Numeric,
		"mild":  profile.Numeric,
		"label": profile.Categorical,
	})

	got, err := OutlierRules(df, stats)
	require.NoError(t, err)

	want := map[string]string{
		"clean": NoAction,
		"heavy": CapAtPercentiles,
		"mild":  RemoveOutliers,
	}
	assert.Equal(t, want, got, "categorical columns must not appear")
}

func TestIQRBounds(t *testing.T) {
	vals := make([]float64, 20)
	for i := range vals {
		vals[i] = float64(i + 1)
	}
	lower, upper := IQRBounds(vals)
	assert.InDelta(t, -10, lower, 1e-9)
	assert.InDelta(t, 30, upper, 1e-9)
}

func TestEncodingRules(t *testing.T) {
	var b strings.Builder
	b.WriteString("city,ten,fifty,uid,n\n")
	for i := 0; i < 60; i++ {
		fmt.Fprintf(&b, "c%d,t%d,f%d,u%02d,%d\n", i%5, i%10, i%50, i, i)
	}
	df := frameFromCSV(t, b.String())

	stats := schemaMap(map[string]profile.ColType{
		"city":  profile.Categorical,
		"ten":   profile.Categorical,
		"fifty": profile.Categorical,
		"uid":   profile.Categorical,
		"n":     profile.Numeric,
	})

	got, err := EncodingRules(df, stats)
	require.NoError(t, err)

	want := map[string]string{
		"city":  OneHotEncode,
		"ten":   OneHotEncode,
		"fifty": TargetEncode,
		"uid":   EmbeddingEncode,
	}
	assert.Equal(t, want, got, "numeric columns must not appear")
}

func transformFixture(t *testing.T) (dataframe.DataFrame, map[string]profile.ColumnSchema) {
	t.Helper()
	var b strings.Builder
	b.WriteString("id,count,age,pct,price,reading,balanced,empty,constant,dt,flag\n")
	// Column shapes: id unique ints, count 4 distinct ints, age 30
	// values in [20,49], pct in [0,1), price positive and right-skewed,
	// reading a wide uniform range, balanced symmetric around zero.
	for i := 0; i < 60; i++ {
		price := 10 + i%3
		if i >= 57 {
			price = 5000
		}
		flag := "false"
		if i%2 == 0 {
			flag = "true"
		}
		fmt.Fprintf(&b, "%d,%d,%d,%.4f,%d,%.1f,%.1f,NA,x,2024-01-%02d,%s\n",
			i+1, i%4, 20+i%30, float64(i)/60, price,
			100.5+float64(i)*80, -6+float64(i%12)+0.5, 1+i%28, flag)
	}
	df := frameFromCSV(t, b.String())

	stats := schemaMap(map[string]profile.ColType{
		"id":       profile.Numeric,
		"count":    profile.Numeric,
		"age":      profile.Numeric,
		"pct":      profile.Numeric,
		"price":    profile.Numeric,
		"reading":  profile.Numeric,
		"balanced": profile.Numeric,
		"empty":    profile.Categorical,
		"constant": profile.Categorical,
		"dt":       profile.Datetime,
		"flag":     profile.Boolean,
	})
	return df, stats
}

func TestTransformationRules(t *testing.T) {
	df, stats := transformFixture(t)

	got, err := TransformationRules(df, stats)
	require.NoError(t, err)

	want := map[string]string{
		"id":       DropIdentifier,
		"count":    KeepCountLike,
		"age":      KeepAgeLike,
		"pct":      KeepPercentage,
		"price":    LogTransform,
		"reading":  StandardScaling,
		"balanced": MinMaxScaling,
		"empty":    DropEmpty,
		"constant": DropConstant,
		"dt":       ExtractDateParts,
		"flag":     BoolToInt,
	}
	assert.Equal(t, want, got)
}

func TestRunProducesAllFamilies(t *testing.T) {
	df, stats := transformFixture(t)

	dm, err := Run(df, stats)
	require.NoError(t, err)

	for _, family := range []string{FamilyMissing, FamilyOutliers, FamilyEncodings, FamilyTransformations} {
		_, ok := dm[family]
		assert.True(t, ok, "family %s missing from decision map", family)
	}

	assert.Equal(t, DropColumn, dm[FamilyMissing]["empty"], "fully missing column")
	assert.Equal(t, NoAction, dm[FamilyMissing]["id"])
	assert.Equal(t, OneHotEncode, dm[FamilyEncodings]["constant"])
	assert.NotContains(t, dm[FamilyOutliers], "constant", "outlier family is numeric only")
}

func TestRunCleanDatasetIsAllKeep(t *testing.T) {
	var b strings.Builder
	b.WriteString("age,count,pct,int01\n")
	for i := 0; i < 60; i++ {
		fmt.Fprintf(&b, "%d,%d,%.4f,%d\n", 20+i%30, i%4, float64(i)/60, i%2)
	}
	df := frameFromCSV(t, b.String())
	stats := schemaMap(map[string]profile.ColType{
		"age":   profile.Numeric,
		"count": profile.Numeric,
		"pct":   profile.Numeric,
		"int01": profile.Numeric,
	})

	dm, err := Run(df, stats)
	require.NoError(t, err)

	for family, decisions := range dm {
		for col, d := range decisions {
			ok := d == NoAction || strings.HasPrefix(d, "no-transform")
			assert.True(t, ok, "%s/%s got %q", family, col, d)
		}
	}
}

func TestRuleErrorMessage(t *testing.T) {
	err := &RuleError{Family: FamilyOutliers, Err: fmt.Errorf("boom")}
	assert.Contains(t, err.Error(), FamilyOutliers)
	assert.ErrorContains(t, err, "boom")
}
