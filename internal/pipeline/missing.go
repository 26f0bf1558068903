package pipeline

import (
	"fmt"
	"log/slog"
	"math"
	"sort"

	"github.com/go-gota/gota/dataframe"

	"github.com/dataweft/dataweft-cli/internal/dataset"
	"github.com/dataweft/dataweft-cli/internal/profile"
	"github.com/dataweft/dataweft-cli/internal/rules"
)

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func applyMissingValues(df dataframe.DataFrame, stats map[string]profile.ColumnSchema, _ Options) (dataframe.DataFrame, map[string]string, error) {
	decisions, err := rules.MissingValueRules(df, stats)
	if err != nil {
		return df, nil, err
	}

	for _, col := range sortedKeys(decisions) {
		switch d := decisions[col]; d {
		case rules.NoAction:
		case rules.DropColumn:
			df = dataset.DropColumn(df, col)
		case rules.ImputeMean:
			df = imputeNumeric(df, col, meanOf)
		case rules.ImputeMedian:
			df = imputeNumeric(df, col, medianOf)
		case rules.ImputeMode, rules.ImputeMostFreqDate:
			mode, ok := dataset.Mode(df, col)
			if !ok {
				slog.Warn("no mode available, leaving column as is", "column", col)
				continue
			}
			df = imputeRecords(df, col, mode)
		default:
			return df, nil, fmt.Errorf("unknown missing-value decision %q for column %s", d, col)
		}
		if df.Error() != nil {
			return df, nil, df.Error()
		}
	}
	return df, decisions, nil
}

func meanOf(vals []float64) float64 {
	if len(vals) == 0 {
		return math.NaN()
	}
	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

func medianOf(vals []float64) float64 {
	return profile.Quantile(0.5, vals)
}

func imputeNumeric(df dataframe.DataFrame, col string, fill func([]float64) float64) dataframe.DataFrame {
	vals := dataset.Floats(df, col)
	v := fill(dataset.NonMissingFloats(df, col))
	if math.IsNaN(v) {
		return df
	}
	for i, x := range vals {
		if math.IsNaN(x) {
			vals[i] = v
		}
	}
	return dataset.ReplaceFloats(df, col, vals)
}

func imputeRecords(df dataframe.DataFrame, col, fill string) dataframe.DataFrame {
	recs := dataset.Records(df, col)
	for i, r := range recs {
		if dataset.IsMissing(r) {
			recs[i] = fill
		}
	}
	return dataset.ReplaceStrings(df, col, recs)
}
