package pipeline

import (
	"fmt"
	"math"

	"github.com/go-gota/gota/dataframe"

	"github.com/dataweft/dataweft-cli/internal/dataset"
	"github.com/dataweft/dataweft-cli/internal/profile"
	"github.com/dataweft/dataweft-cli/internal/rules"
)

// Percentiles used by cap-at-percentiles.
const (
	capLowerQuantile = 0.05
	capUpperQuantile = 0.95
)

func applyOutliers(df dataframe.DataFrame, stats map[string]profile.ColumnSchema, _ Options) (dataframe.DataFrame, map[string]string, error) {
	decisions, err := rules.OutlierRules(df, stats)
	if err != nil {
		return df, nil, err
	}

	for _, col := range sortedKeys(decisions) {
		switch d := decisions[col]; d {
		case rules.NoAction:
		case rules.CapAtPercentiles:
			df = capColumn(df, col)
		case rules.RemoveOutliers:
			df = removeOutlierRows(df, col)
		default:
			return df, nil, fmt.Errorf("unknown outlier decision %q for column %s", d, col)
		}
		if df.Error() != nil {
			return df, nil, df.Error()
		}
	}
	return df, decisions, nil
}

// capColumn clips the column into [p5, p95]. Row count is preserved.
func capColumn(df dataframe.DataFrame, col string) dataframe.DataFrame {
	nonMissing := dataset.NonMissingFloats(df, col)
	if len(nonMissing) == 0 {
		return df
	}
	lower := profile.Quantile(capLowerQuantile, nonMissing)
	upper := profile.Quantile(capUpperQuantile, nonMissing)

	vals := dataset.Floats(df, col)
	for i, v := range vals {
		switch {
		case math.IsNaN(v):
		case v < lower:
			vals[i] = lower
		case v > upper:
			vals[i] = upper
		}
	}
	return dataset.ReplaceFloats(df, col, vals)
}

// removeOutlierRows keeps only rows whose value lies inside the Tukey
// fences. Rows with a missing value in the column are dropped too;
// the missing-value stage runs first, so in a full pipeline run none
// remain by this point.
func removeOutlierRows(df dataframe.DataFrame, col string) dataframe.DataFrame {
	nonMissing := dataset.NonMissingFloats(df, col)
	if len(nonMissing) == 0 {
		return df
	}
	lower, upper := rules.IQRBounds(nonMissing)

	vals := dataset.Floats(df, col)
	keep := make([]int, 0, len(vals))
	for i, v := range vals {
		if v >= lower && v <= upper {
			keep = append(keep, i)
		}
	}
	if len(keep) == len(vals) {
		return df
	}
	return dataset.KeepRows(df, keep)
}
