package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dataweft/dataweft-cli/internal/dataset"
	"github.com/dataweft/dataweft-cli/internal/pipeline"
)

var (
	prepProfilePath  string
	prepOutputDir    string
	prepTarget       string
	prepSmoothing    float64
	prepLeakageSafe  bool
	prepNoSave       bool
	prepViaTransform bool
)

var preprocessCmd = &cobra.Command{
	Use:   "preprocess <file>",
	Short: "Apply the preprocessing pipeline and persist the processed dataset",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		df, _, err := dataset.Load(path)
		if err != nil {
			return err
		}
		stats, err := columnStats(df, path, prepProfilePath)
		if err != nil {
			return err
		}

		opts := pipeline.DefaultOptions()
		opts.OutputDir = prepOutputDir
		if opts.OutputDir == "" {
			opts.OutputDir = artifactsDir()
		}
		opts.TargetColumn = prepTarget
		if prepNoSave {
			opts.SaveOutput = false
		}
		if prepViaTransform {
			opts.EncodeViaEncodingRules = false
		}
		if cfg != nil {
			if !cmd.Flags().Changed("smoothing") {
				prepSmoothing = cfg.TargetEncodeSmoothing
			}
			if !cmd.Flags().Changed("leakage-safe") {
				prepLeakageSafe = cfg.LeakageSafeEncoding
			}
			if !cmd.Flags().Changed("no-save") {
				opts.SaveOutput = cfg.SaveOutput
			}
			if !cmd.Flags().Changed("encode-via-transform") {
				opts.EncodeViaEncodingRules = cfg.EncodeViaEncodingRules
			}
		}
		opts.Smoothing = prepSmoothing
		opts.LeakageSafeTargetEncoding = prepLeakageSafe

		res, err := pipeline.Run(df, stats, opts)
		if err != nil {
			return err
		}

		fmt.Printf("✓ Preprocessed %s: %d -> %d rows, %d columns\n",
			path, res.RowsBefore, res.RowsAfter, res.Frame.Ncol())
		if res.OutputPath != "" {
			fmt.Printf("✓ Wrote %s\n", res.OutputPath)
		}
		for _, stage := range []string{pipeline.StageMissing, pipeline.StageOutliers, pipeline.StageEncoding, pipeline.StageTransform} {
			applied := 0
			for _, d := range res.Applied[stage] {
				if d != "no-action" {
					applied++
				}
			}
			fmt.Printf("  %s: %d column(s) changed\n", stage, applied)
		}
		return nil
	},
}

func init() {
	preprocessCmd.Flags().StringVar(&prepProfilePath, "profile", "", "existing profile report JSON (default: profile on the fly)")
	preprocessCmd.Flags().StringVarP(&prepOutputDir, "output", "o", "", "output directory (default: artifacts dir)")
	preprocessCmd.Flags().StringVar(&prepTarget, "target", "", "target column for target encoding")
	preprocessCmd.Flags().Float64Var(&prepSmoothing, "smoothing", pipeline.DefaultSmoothing, "target encoding smoothing pseudo-count")
	preprocessCmd.Flags().BoolVar(&prepLeakageSafe, "leakage-safe", false, "exclude each row's own target value from its encoding")
	preprocessCmd.Flags().BoolVar(&prepNoSave, "no-save", false, "do not persist the processed dataset")
	preprocessCmd.Flags().BoolVar(&prepViaTransform, "encode-via-transform", false, "apply categorical encodings in the transformation stage instead of the encoding stage")
	rootCmd.AddCommand(preprocessCmd)
}
