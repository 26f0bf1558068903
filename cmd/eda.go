package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/dataweft/dataweft-cli/internal/ai"
	"github.com/dataweft/dataweft-cli/internal/dataset"
	"github.com/dataweft/dataweft-cli/internal/eda"
	"github.com/dataweft/dataweft-cli/internal/utils"
	"github.com/dataweft/dataweft-cli/internal/visrules"
)

var (
	edaProfilePath string
	edaTarget      string
	edaTask        string
	edaOutputDir   string
	edaSummaryMode string
	edaModel       string
)

var edaCmd = &cobra.Command{
	Use:   "eda <file>",
	Short: "Run a full exploratory analysis: summary, plots, optional importance",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		df, _, err := dataset.Load(path)
		if err != nil {
			return err
		}
		stats, err := columnStats(df, path, edaProfilePath)
		if err != nil {
			return err
		}

		outDir := edaOutputDir
		if outDir == "" {
			outDir = artifactsDir()
		}

		var task visrules.TaskType
		switch edaTask {
		case "":
		case "regression":
			task = visrules.TaskRegression
		case "classification":
			task = visrules.TaskClassification
		case "time-series", "timeseries":
			task = visrules.TaskTimeSeries
		default:
			return fmt.Errorf("unsupported --task: %s (use regression|classification|time-series)", edaTask)
		}
		if task != "" && edaTarget == "" {
			return fmt.Errorf("--task requires --target")
		}

		opts := eda.Options{Target: edaTarget, Task: task}
		if cfg != nil {
			opts.PairplotMaxRows = cfg.PairplotMaxRows
		}

		mode := edaSummaryMode
		if mode == "" && cfg != nil {
			mode = cfg.SummaryMode
		}
		if mode == "llm" {
			host, model := "", edaModel
			timeout := 60 * time.Second
			retryMax, baseMs, maxMs := 0, 0, 0
			if cfg != nil {
				host = cfg.OllamaHost
				if model == "" {
					model = cfg.OllamaModel
				}
				timeout = time.Duration(cfg.OllamaTimeoutSec) * time.Second
				retryMax = cfg.RetryMaxAttempts
				baseMs = cfg.RetryBaseDelayMs
				maxMs = cfg.RetryMaxDelayMs
				opts.SummaryTimeout = time.Duration(cfg.SummaryTimeoutSec) * time.Second
			}
			opts.Summarizer = ai.NewClient(host, model, timeout, retryMax,
				time.Duration(baseMs)*time.Millisecond, time.Duration(maxMs)*time.Millisecond)
		}

		engine := eda.New(filepath.Join(outDir, "plots"))
		if cfg != nil {
			engine.Visualizer.SetSizeInches(cfg.PlotWidthInches, cfg.PlotHeightInches)
		}
		res, err := engine.Run(context.Background(), df, stats, opts)
		if err != nil {
			return err
		}

		resultPath := filepath.Join(outDir, "eda_result.json")
		b, err := utils.PrettyJSON(res)
		if err != nil {
			return err
		}
		if err := utils.SafeWriteFile(resultPath, b); err != nil {
			return err
		}

		fmt.Printf("✓ EDA run %s finished\n", res.RunID)
		for _, section := range []string{eda.SectionText, eda.SectionOverview, eda.SectionFeatureTypes, eda.SectionMissing, eda.SectionIssues} {
			if text, ok := res.Summary[section]; ok {
				fmt.Printf("  %s: %s\n", section, text)
			}
		}
		plots := 0
		for _, paths := range res.Plots {
			plots += len(paths)
		}
		fmt.Printf("✓ Rendered %d plot(s) into %s\n", plots, filepath.Join(outDir, "plots"))
		fmt.Printf("✓ Result written to %s\n", resultPath)
		return nil
	},
}

func init() {
	edaCmd.Flags().StringVar(&edaProfilePath, "profile", "", "existing profile report JSON (default: profile on the fly)")
	edaCmd.Flags().StringVar(&edaTarget, "target", "", "target column for bivariate plots")
	edaCmd.Flags().StringVar(&edaTask, "task", "", "task type: regression|classification|time-series")
	edaCmd.Flags().StringVarP(&edaOutputDir, "output", "o", "", "output directory (default: artifacts dir)")
	edaCmd.Flags().StringVar(&edaSummaryMode, "summary", "", "summary mode: rules|llm (default from config)")
	edaCmd.Flags().StringVar(&edaModel, "model", "", "Ollama model for llm summaries (default from config)")
	rootCmd.AddCommand(edaCmd)
}
