package rules

import (
	"github.com/go-gota/gota/dataframe"

	"github.com/dataweft/dataweft-cli/internal/profile"
)

// Run evaluates all four rule families against the same frame and
// schema snapshot and returns the consolidated DecisionMap. Run never
// mutates the frame; a failing family aborts with a *RuleError naming
// it.
func Run(df dataframe.DataFrame, stats map[string]profile.ColumnSchema) (DecisionMap, error) {
	dm := make(DecisionMap, 4)

	missing, err := MissingValueRules(df, stats)
	if err != nil {
		return nil, &RuleError{Family: FamilyMissing, Err: err}
	}
	dm[FamilyMissing] = missing

	outliers, err := OutlierRules(df, stats)
	if err != nil {
		return nil, &RuleError{Family: FamilyOutliers, Err: err}
	}
	dm[FamilyOutliers] = outliers

	encodings, err := EncodingRules(df, stats)
	if err != nil {
		return nil, &RuleError{Family: FamilyEncodings, Err: err}
	}
	dm[FamilyEncodings] = encodings

	transforms, err := TransformationRules(df, stats)
	if err != nil {
		return nil, &RuleError{Family: FamilyTransformations, Err: err}
	}
	dm[FamilyTransformations] = transforms

	return dm, nil
}
