package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dataweft/dataweft-cli/internal/dataset"
	"github.com/dataweft/dataweft-cli/internal/profile"
)

var profOutputDir string

var profileCmd = &cobra.Command{
	Use:   "profile <file>",
	Short: "Profile a dataset and write its column statistics report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		df, meta, err := dataset.Load(path)
		if err != nil {
			return err
		}

		outDir := profOutputDir
		if outDir == "" {
			outDir = artifactsDir()
		}
		p := profile.NewProfiler(outDir)
		jsonPath, err := p.Generate(df, datasetName(path))
		if err != nil {
			return err
		}
		fmt.Printf("✓ Profiled %s (%d rows, %d columns)\n", meta.Filename, meta.NumRows, meta.NumColumns)
		fmt.Printf("✓ Report written to %s\n", jsonPath)
		return nil
	},
}

func init() {
	profileCmd.Flags().StringVarP(&profOutputDir, "output", "o", "", "output directory (default: artifacts dir)")
	rootCmd.AddCommand(profileCmd)
}
