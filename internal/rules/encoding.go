package rules

import (
	"log/slog"

	"github.com/go-gota/gota/dataframe"

	"github.com/dataweft/dataweft-cli/internal/dataset"
	"github.com/dataweft/dataweft-cli/internal/profile"
)

// Cardinality thresholds for categorical encoding.
const (
	oneHotMaxCardinality = 10
	targetMaxCardinality = 50
)

// EncodingRules decides an encoding per categorical column based on its
// cardinality in the current frame.
func EncodingRules(df dataframe.DataFrame, stats map[string]profile.ColumnSchema) (map[string]string, error) {
	decisions := make(map[string]string)
	for _, name := range profile.SortedColumns(stats) {
		cs := stats[name]
		if cs.Type != profile.Categorical {
			continue
		}
		if !dataset.HasColumn(df, name) {
			slog.Warn("encoding rules: column not in frame, skipping", "column", name)
			continue
		}
		card := profile.Recompute(df, name).Cardinality
		switch {
		case card <= oneHotMaxCardinality:
			decisions[name] = OneHotEncode
		case card <= targetMaxCardinality:
			decisions[name] = TargetEncode
		default:
			decisions[name] = EmbeddingEncode
		}
	}
	return decisions, nil
}
