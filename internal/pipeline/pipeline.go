// Package pipeline applies preprocessing decisions to a frame in a
// fixed stage order: missing values, outliers, encoding, then feature
// transformations. Each stage re-derives its decisions from the
// current frame so earlier stages cannot leave later ones acting on
// stale statistics.
package pipeline

import (
	"fmt"
	"path/filepath"

	"github.com/go-gota/gota/dataframe"

	"github.com/dataweft/dataweft-cli/internal/dataset"
	"github.com/dataweft/dataweft-cli/internal/profile"
	"github.com/dataweft/dataweft-cli/internal/rules"
)

// Stage names, used in error context and the run report.
const (
	StageMissing   = "missing_values"
	StageOutliers  = "outliers"
	StageEncoding  = "encoding"
	StageTransform = "transformations"
)

// OutputFilename is the name of the persisted processed dataset.
const OutputFilename = "preprocessed_dataset.csv"

// Options control a pipeline run.
type Options struct {
	// SaveOutput persists the processed frame to OutputDir.
	SaveOutput bool
	OutputDir  string

	// EncodeViaEncodingRules makes the encoding stage the single
	// owner of categorical encoding; the transformation stage then
	// skips its redundant one-hot/target decisions. Disabling it
	// moves encoding into the transformation stage instead.
	EncodeViaEncodingRules bool

	// TargetColumn is required when any column is target-encoded.
	TargetColumn string

	// Smoothing is the pseudo-count used by target encoding. Zero
	// means DefaultSmoothing.
	Smoothing float64

	// LeakageSafeTargetEncoding excludes each row's own target value
	// from its category statistic.
	LeakageSafeTargetEncoding bool
}

// DefaultSmoothing is the target-encoding pseudo-count.
const DefaultSmoothing = 10

// DefaultOptions returns the options used by the CLI when no flags
// override them.
func DefaultOptions() Options {
	return Options{
		SaveOutput:             true,
		EncodeViaEncodingRules: true,
		Smoothing:              DefaultSmoothing,
	}
}

// Result reports what a pipeline run did.
type Result struct {
	Frame      dataframe.DataFrame
	Applied    rules.DecisionMap
	RowsBefore int
	RowsAfter  int
	OutputPath string
}

// PreprocessError names the stage that aborted the pipeline.
type PreprocessError struct {
	Stage string
	Err   error
}

func (e *PreprocessError) Error() string {
	return fmt.Sprintf("preprocessing stage %q failed: %v", e.Stage, e.Err)
}

func (e *PreprocessError) Unwrap() error { return e.Err }

// Run executes all four stages against df and returns the processed
// frame. Column types are trusted from stats; everything else is
// recomputed per stage. A stage failure aborts the run.
func Run(df dataframe.DataFrame, stats map[string]profile.ColumnSchema, opts Options) (*Result, error) {
	if opts.Smoothing <= 0 {
		opts.Smoothing = DefaultSmoothing
	}

	res := &Result{
		Applied:    make(rules.DecisionMap, 4),
		RowsBefore: df.Nrow(),
	}

	stages := []struct {
		name  string
		apply func(dataframe.DataFrame, map[string]profile.ColumnSchema, Options) (dataframe.DataFrame, map[string]string, error)
	}{
		{StageMissing, applyMissingValues},
		{StageOutliers, applyOutliers},
		{StageEncoding, applyEncodings},
		{StageTransform, applyTransformations},
	}

	for _, stage := range stages {
		next, applied, err := stage.apply(df, stats, opts)
		if err != nil {
			return nil, &PreprocessError{Stage: stage.name, Err: err}
		}
		if next.Error() != nil {
			return nil, &PreprocessError{Stage: stage.name, Err: next.Error()}
		}
		df = next
		res.Applied[stage.name] = applied
	}

	res.Frame = df
	res.RowsAfter = df.Nrow()

	if opts.SaveOutput {
		path := filepath.Join(opts.OutputDir, OutputFilename)
		if err := dataset.SaveCSV(df, path); err != nil {
			return nil, fmt.Errorf("persist processed dataset: %w", err)
		}
		res.OutputPath = path
	}
	return res, nil
}
