package rules

import (
	"log/slog"

	"github.com/go-gota/gota/dataframe"

	"github.com/dataweft/dataweft-cli/internal/dataset"
	"github.com/dataweft/dataweft-cli/internal/profile"
)

// MissingValueRules decides how to treat missing cells per column.
// Missingness and skew are recomputed from the current frame so the
// same rules can be replayed mid-pipeline; only the column type comes
// from the profile.
func MissingValueRules(df dataframe.DataFrame, stats map[string]profile.ColumnSchema) (map[string]string, error) {
	decisions := make(map[string]string, len(stats))
	for _, name := range profile.SortedColumns(stats) {
		cs := stats[name]
		if !dataset.HasColumn(df, name) {
			slog.Warn("missing value rules: column not in frame, skipping", "column", name)
			continue
		}
		local := profile.Recompute(df, name)

		switch {
		case local.MissingPct == 0:
			decisions[name] = NoAction
		case local.MissingPct > 50:
			decisions[name] = DropColumn
		default:
			decisions[name] = imputeDecision(cs.Type, local)
		}
	}
	return decisions, nil
}

func imputeDecision(t profile.ColType, local profile.LocalStats) string {
	switch t {
	case profile.Numeric:
		if local.NonMissing == 0 {
			return NoAction
		}
		if local.Skew > 1 {
			return ImputeMedian
		}
		return ImputeMean
	case profile.Categorical, profile.Boolean:
		return ImputeMode
	case profile.Datetime:
		return ImputeMostFreqDate
	default:
		return NoAction
	}
}
