package cmd

import (
	"fmt"
	"os"

	"github.com/go-gota/gota/dataframe"
	"github.com/spf13/cobra"

	"github.com/dataweft/dataweft-cli/internal/dataset"
	"github.com/dataweft/dataweft-cli/internal/profile"
	"github.com/dataweft/dataweft-cli/internal/rules"
	"github.com/dataweft/dataweft-cli/internal/utils"
)

var (
	rulesProfilePath string
	rulesOutputPath  string
)

var rulesCmd = &cobra.Command{
	Use:   "rules <file>",
	Short: "Show the preprocessing decisions for a dataset without applying them",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		df, _, err := dataset.Load(path)
		if err != nil {
			return err
		}
		stats, err := columnStats(df, path, rulesProfilePath)
		if err != nil {
			return err
		}

		dm, err := rules.Run(df, stats)
		if err != nil {
			return err
		}

		b, err := utils.PrettyJSON(dm)
		if err != nil {
			return err
		}
		if rulesOutputPath != "" {
			if err := utils.SafeWriteFile(rulesOutputPath, b); err != nil {
				return err
			}
			fmt.Printf("✓ Wrote decisions to %s\n", rulesOutputPath)
			return nil
		}
		fmt.Println(string(b))
		return nil
	},
}

func init() {
	rulesCmd.Flags().StringVar(&rulesProfilePath, "profile", "", "existing profile report JSON (default: profile on the fly)")
	rulesCmd.Flags().StringVarP(&rulesOutputPath, "output", "o", "", "write decisions JSON to this path instead of stdout")
	rootCmd.AddCommand(rulesCmd)
}

// columnStats loads the schema from an existing profile report, or
// profiles the frame into the artifacts dir first.
func columnStats(df dataframe.DataFrame, path, profilePath string) (map[string]profile.ColumnSchema, error) {
	if profilePath == "" {
		p := profile.NewProfiler(artifactsDir())
		jsonPath, err := p.Generate(df, datasetName(path))
		if err != nil {
			return nil, err
		}
		fmt.Fprintf(os.Stderr, "profiled dataset into %s\n", jsonPath)
		profilePath = jsonPath
	}
	return profile.ExtractColumnStats(profilePath)
}
