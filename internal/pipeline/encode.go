package pipeline

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/go-gota/gota/dataframe"

	"github.com/dataweft/dataweft-cli/internal/dataset"
	"github.com/dataweft/dataweft-cli/internal/profile"
	"github.com/dataweft/dataweft-cli/internal/rules"
)

func applyEncodings(df dataframe.DataFrame, stats map[string]profile.ColumnSchema, opts Options) (dataframe.DataFrame, map[string]string, error) {
	if !opts.EncodeViaEncodingRules {
		// Encoding is deferred to the transformation stage.
		return df, map[string]string{}, nil
	}

	decisions, err := rules.EncodingRules(df, stats)
	if err != nil {
		return df, nil, err
	}

	for _, col := range sortedKeys(decisions) {
		switch d := decisions[col]; d {
		case rules.OneHotEncode:
			df = oneHotEncode(df, col)
		case rules.TargetEncode:
			df, err = targetEncode(df, col, opts)
			if err != nil {
				return df, nil, err
			}
		case rules.EmbeddingEncode:
			slog.Warn("embedding encoding not implemented, column left as is", "column", col)
		default:
			return df, nil, fmt.Errorf("unknown encoding decision %q for column %s", d, col)
		}
		if df.Error() != nil {
			return df, nil, df.Error()
		}
	}
	return df, decisions, nil
}

// oneHotEncode expands col into one 0/1 indicator column per distinct
// value and removes the original. Indicator names are <col>_<value>.
func oneHotEncode(df dataframe.DataFrame, col string) dataframe.DataFrame {
	values := dataset.Unique(df, col)
	if len(values) == 0 {
		return dataset.DropColumn(df, col)
	}
	recs := dataset.Records(df, col)
	for _, v := range values {
		indicator := make([]int, len(recs))
		for i, r := range recs {
			if r == v {
				indicator[i] = 1
			}
		}
		df = dataset.ReplaceInts(df, fmt.Sprintf("%s_%s", col, v), indicator)
		if df.Error() != nil {
			return df
		}
	}
	return dataset.DropColumn(df, col)
}

// targetEncode replaces each category with a smoothed mean of the
// target column: (n*catMean + m*globalMean) / (n + m), with m the
// smoothing pseudo-count. With LeakageSafeTargetEncoding the row's own
// target value is excluded from its category statistic.
func targetEncode(df dataframe.DataFrame, col string, opts Options) (dataframe.DataFrame, error) {
	if opts.TargetColumn == "" {
		return df, fmt.Errorf("target encoding for column %s requires a target column", col)
	}
	if !dataset.HasColumn(df, opts.TargetColumn) {
		return df, fmt.Errorf("target column %s not found in dataset", opts.TargetColumn)
	}

	target := dataset.Floats(df, opts.TargetColumn)
	recs := dataset.Records(df, col)

	var globalSum float64
	var globalN int
	catSum := map[string]float64{}
	catN := map[string]int{}
	for i, r := range recs {
		y := target[i]
		if dataset.IsMissing(r) || math.IsNaN(y) {
			continue
		}
		globalSum += y
		globalN++
		catSum[r] += y
		catN[r]++
	}
	if globalN == 0 {
		return df, fmt.Errorf("target column %s has no usable values", opts.TargetColumn)
	}
	globalMean := globalSum / float64(globalN)

	m := opts.Smoothing
	encoded := make([]float64, len(recs))
	for i, r := range recs {
		if dataset.IsMissing(r) {
			encoded[i] = globalMean
			continue
		}
		sum, n := catSum[r], float64(catN[r])
		if opts.LeakageSafeTargetEncoding && !math.IsNaN(target[i]) {
			sum -= target[i]
			n--
		}
		encoded[i] = (sum + m*globalMean) / (n + m)
	}
	return dataset.ReplaceFloats(df, col, encoded), nil
}

// frequencyEncode replaces each category with its relative frequency
// among non-missing values.
func frequencyEncode(df dataframe.DataFrame, col string) dataframe.DataFrame {
	recs := dataset.Records(df, col)
	counts := map[string]int{}
	total := 0
	for _, r := range recs {
		if dataset.IsMissing(r) {
			continue
		}
		counts[r]++
		total++
	}
	if total == 0 {
		return df
	}

	encoded := make([]float64, len(recs))
	for i, r := range recs {
		if dataset.IsMissing(r) {
			encoded[i] = math.NaN()
			continue
		}
		encoded[i] = float64(counts[r]) / float64(total)
	}
	return dataset.ReplaceFloats(df, col, encoded)
}
