// Package rules is the statistics-driven decision engine: four rule
// families map each column to a deterministic action string given the
// profiled column schema and the current data. The engine only decides;
// applying the decisions is the pipeline's job.
package rules

import (
	"fmt"
)

// Rule family names, used as DecisionMap keys and in error context.
const (
	FamilyMissing         = "missing_values"
	FamilyOutliers        = "outliers"
	FamilyEncodings       = "encodings"
	FamilyTransformations = "transformations"
)

// Decision strings shared across families.
const (
	NoAction = "no-action"

	// missing values
	DropColumn         = "drop-column"
	ImputeMean         = "impute-mean"
	ImputeMedian       = "impute-median"
	ImputeMode         = "impute-mode"
	ImputeMostFreqDate = "impute-most-frequent-date"

	// outliers
	CapAtPercentiles = "cap-at-percentiles"
	RemoveOutliers   = "remove-outliers"

	// encodings
	OneHotEncode    = "one-hot-encode"
	TargetEncode    = "target-encode"
	EmbeddingEncode = "embedding-encode"

	// transformations
	DropEmpty        = "drop (empty column)"
	DropConstant     = "drop (constant feature)"
	DropIdentifier   = "drop (identifier-like)"
	KeepCountLike    = "no-transform (count-like)"
	KeepAgeLike      = "no-transform (age-like)"
	KeepPercentage   = "no-transform (percentage/ratio)"
	LogTransform     = "log-transform"
	StandardScaling  = "standard-scaling"
	MinMaxScaling    = "min-max-scaling"
	TargetFreqEncode = "target/frequency-encode"
	ExtractDateParts = "extract date parts (year, month, day, weekday, hour)"
	BoolToInt        = "convert to int (0/1)"
)

// DecisionMap is the consolidated output of the rules engine:
// family -> column -> decision.
type DecisionMap map[string]map[string]string

// RuleError wraps a failure inside one rule family.
type RuleError struct {
	Family string
	Err    error
}

func (e *RuleError) Error() string {
	return fmt.Sprintf("rule family %q failed: %v", e.Family, e.Err)
}

func (e *RuleError) Unwrap() error { return e.Err }
