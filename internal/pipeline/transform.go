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

func applyTransformations(df dataframe.DataFrame, stats map[string]profile.ColumnSchema, opts Options) (dataframe.DataFrame, map[string]string, error) {
	decisions, err := rules.TransformationRules(df, stats)
	if err != nil {
		return df, nil, err
	}

	for _, col := range sortedKeys(decisions) {
		switch d := decisions[col]; d {
		case rules.DropEmpty, rules.DropConstant, rules.DropIdentifier:
			df = dataset.DropColumn(df, col)
		case rules.KeepCountLike, rules.KeepAgeLike, rules.KeepPercentage, rules.NoAction:
		case rules.LogTransform:
			df = mapColumn(df, col, math.Log1p)
		case rules.StandardScaling:
			df = standardScale(df, col)
		case rules.MinMaxScaling:
			df = minMaxScale(df, col)
		case rules.OneHotEncode:
			if opts.EncodeViaEncodingRules {
				continue // already handled by the encoding stage
			}
			df = oneHotEncode(df, col)
		case rules.TargetFreqEncode:
			if opts.EncodeViaEncodingRules {
				continue
			}
			if opts.TargetColumn != "" {
				df, err = targetEncode(df, col, opts)
				if err != nil {
					return df, nil, err
				}
			} else {
				df = frequencyEncode(df, col)
			}
		case rules.EmbeddingEncode:
			slog.Warn("embedding encoding not implemented, column left as is", "column", col)
		case rules.ExtractDateParts:
			df = extractDateParts(df, col)
		case rules.BoolToInt:
			df = boolToInt(df, col)
		default:
			return df, nil, fmt.Errorf("unknown transformation decision %q for column %s", d, col)
		}
		if df.Error() != nil {
			return df, nil, df.Error()
		}
	}
	return df, decisions, nil
}

func mapColumn(df dataframe.DataFrame, col string, f func(float64) float64) dataframe.DataFrame {
	vals := dataset.Floats(df, col)
	for i, v := range vals {
		if !math.IsNaN(v) {
			vals[i] = f(v)
		}
	}
	return dataset.ReplaceFloats(df, col, vals)
}

func standardScale(df dataframe.DataFrame, col string) dataframe.DataFrame {
	nonMissing := dataset.NonMissingFloats(df, col)
	mean := meanOf(nonMissing)
	std := stdOf(nonMissing, mean)
	if std == 0 || math.IsNaN(std) {
		return df
	}
	return mapColumn(df, col, func(v float64) float64 { return (v - mean) / std })
}

func minMaxScale(df dataframe.DataFrame, col string) dataframe.DataFrame {
	nonMissing := dataset.NonMissingFloats(df, col)
	if len(nonMissing) == 0 {
		return df
	}
	min, max := nonMissing[0], nonMissing[0]
	for _, v := range nonMissing {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	if max == min {
		return df
	}
	return mapColumn(df, col, func(v float64) float64 { return (v - min) / (max - min) })
}

func stdOf(vals []float64, mean float64) float64 {
	if len(vals) < 2 {
		return 0
	}
	var ss float64
	for _, v := range vals {
		d := v - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(vals)-1))
}

// extractDateParts adds year, month, day, weekday and hour columns
// derived from col. The original column is retained. Unparseable or
// missing cells yield missing date parts.
func extractDateParts(df dataframe.DataFrame, col string) dataframe.DataFrame {
	recs := dataset.Records(df, col)

	parts := map[string][]float64{
		"year": make([]float64, len(recs)), "month": make([]float64, len(recs)),
		"day": make([]float64, len(recs)), "weekday": make([]float64, len(recs)),
		"hour": make([]float64, len(recs)),
	}
	for i, r := range recs {
		ts, ok := dataset.ParseTime(r)
		if !ok {
			for _, p := range parts {
				p[i] = math.NaN()
			}
			continue
		}
		parts["year"][i] = float64(ts.Year())
		parts["month"][i] = float64(ts.Month())
		parts["day"][i] = float64(ts.Day())
		parts["weekday"][i] = float64(ts.Weekday())
		parts["hour"][i] = float64(ts.Hour())
	}

	for _, name := range []string{"year", "month", "day", "weekday", "hour"} {
		df = dataset.ReplaceFloats(df, fmt.Sprintf("%s_%s", col, name), parts[name])
		if df.Error() != nil {
			return df
		}
	}
	return df
}

var boolTrueTokens = map[string]bool{
	"true": true, "True": true, "TRUE": true,
	"yes": true, "Yes": true, "1": true,
}

func boolToInt(df dataframe.DataFrame, col string) dataframe.DataFrame {
	recs := dataset.Records(df, col)
	vals := make([]int, len(recs))
	for i, r := range recs {
		if boolTrueTokens[r] {
			vals[i] = 1
		}
	}
	return dataset.ReplaceInts(df, col, vals)
}
