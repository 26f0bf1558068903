package rules

import (
	"log/slog"
	"math"

	"github.com/go-gota/gota/dataframe"

	"github.com/dataweft/dataweft-cli/internal/dataset"
	"github.com/dataweft/dataweft-cli/internal/profile"
)

// TransformationRules decides one feature transformation per column.
// Empty and constant columns are dropped regardless of type; for the
// rest the decision depends on the profiled type, with numeric columns
// routed through the semantic classifiers in priority order.
func TransformationRules(df dataframe.DataFrame, stats map[string]profile.ColumnSchema) (map[string]string, error) {
	decisions := make(map[string]string, len(stats))
	for _, name := range profile.SortedColumns(stats) {
		cs := stats[name]
		if !dataset.HasColumn(df, name) {
			slog.Warn("transformation rules: column not in frame, skipping", "column", name)
			continue
		}
		local := profile.Recompute(df, name)

		switch {
		case local.NonMissing == 0 && local.Cardinality == 0:
			decisions[name] = DropEmpty
		case local.Cardinality == 1:
			decisions[name] = DropConstant
		default:
			decisions[name] = transformDecision(df, name, cs, local)
		}
	}
	return decisions, nil
}

func transformDecision(df dataframe.DataFrame, name string, cs profile.ColumnSchema, local profile.LocalStats) string {
	switch cs.Type {
	case profile.Numeric:
		return numericTransform(df, name, cs, local)
	case profile.Categorical:
		switch {
		case local.Cardinality <= oneHotMaxCardinality:
			return OneHotEncode
		case local.Cardinality <= targetMaxCardinality:
			return TargetFreqEncode
		default:
			return EmbeddingEncode
		}
	case profile.Datetime:
		return ExtractDateParts
	case profile.Boolean:
		return BoolToInt
	default:
		return NoAction
	}
}

// numericTransform walks the semantic classifiers in priority order and
// falls through to a distribution-based scaling choice.
func numericTransform(df dataframe.DataFrame, name string, cs profile.ColumnSchema, local profile.LocalStats) string {
	vals := dataset.NonMissingFloats(df, name)
	integer := cs.IsIntegerDType() || allIntegral(vals)

	switch {
	case isIDLike(vals, integer):
		return DropIdentifier
	case isCountLike(vals, integer):
		return KeepCountLike
	case isAgeLike(name, vals):
		return KeepAgeLike
	case isPercentageLike(vals):
		return KeepPercentage
	case isMoneyLike(name):
		if math.Abs(local.Skew) > 1 && local.AllPositive {
			return LogTransform
		}
		return StandardScaling
	}

	switch {
	case math.Abs(local.Skew) > 1 && local.AllPositive:
		return LogTransform
	case local.Max-local.Min > 1000:
		return StandardScaling
	default:
		return MinMaxScaling
	}
}
