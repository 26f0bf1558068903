package rules

import (
	"log/slog"

	"github.com/go-gota/gota/dataframe"

	"github.com/dataweft/dataweft-cli/internal/dataset"
	"github.com/dataweft/dataweft-cli/internal/profile"
)

// OutlierRules decides per numeric column how to treat IQR outliers.
// Bounds are Q1-1.5*IQR and Q3+1.5*IQR over the non-missing values of
// the current frame. Non-numeric columns are not inspected.
func OutlierRules(df dataframe.DataFrame, stats map[string]profile.ColumnSchema) (map[string]string, error) {
	decisions := make(map[string]string)
	for _, name := range profile.SortedColumns(stats) {
		cs := stats[name]
		if cs.Type != profile.Numeric {
			continue
		}
		if !dataset.HasColumn(df, name) {
			slog.Warn("outlier rules: column not in frame, skipping", "column", name)
			continue
		}
		vals := dataset.NonMissingFloats(df, name)
		if len(vals) == 0 {
			decisions[name] = NoAction
			continue
		}
		lower, upper := IQRBounds(vals)
		outliers := 0
		for _, v := range vals {
			if v < lower || v > upper {
				outliers++
			}
		}
		switch {
		case outliers == 0:
			decisions[name] = NoAction
		case float64(outliers)/float64(len(vals)) > 0.2:
			decisions[name] = CapAtPercentiles
		default:
			decisions[name] = RemoveOutliers
		}
	}
	return decisions, nil
}

// IQRBounds returns the Tukey fences for vals.
func IQRBounds(vals []float64) (lower, upper float64) {
	q1 := profile.Quantile(0.25, vals)
	q3 := profile.Quantile(0.75, vals)
	iqr := q3 - q1
	return q1 - 1.5*iqr, q3 + 1.5*iqr
}
