package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	cfgpkg "github.com/dataweft/dataweft-cli/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set Dataweft configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil {
			fmt.Println("No config loaded")
			return nil
		}
		fmt.Printf("artifacts_dir: %s\n", cfg.ArtifactsDir)
		fmt.Printf("save_output: %t\n", cfg.SaveOutput)
		fmt.Printf("encode_via_encoding_rules: %t\n", cfg.EncodeViaEncodingRules)
		fmt.Printf("target_encode_smoothing: %.3f\n", cfg.TargetEncodeSmoothing)
		fmt.Printf("leakage_safe_encoding: %t\n", cfg.LeakageSafeEncoding)
		fmt.Printf("plot_width_inches: %.1f\n", cfg.PlotWidthInches)
		fmt.Printf("plot_height_inches: %.1f\n", cfg.PlotHeightInches)
		fmt.Printf("pairplot_max_rows: %d\n", cfg.PairplotMaxRows)
		fmt.Printf("summary_mode: %s\n", cfg.SummaryMode)
		fmt.Printf("summary_timeout_sec: %d\n", cfg.SummaryTimeoutSec)
		fmt.Printf("ollama_host: %s\n", cfg.OllamaHost)
		fmt.Printf("ollama_model: %s\n", cfg.OllamaModel)
		fmt.Printf("ollama_timeout_sec: %d\n", cfg.OllamaTimeoutSec)
		fmt.Printf("retry_max_attempts: %d\n", cfg.RetryMaxAttempts)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, val := args[0], args[1]
		if cfg == nil {
			c, err := cfgpkg.Load(cfgFile)
			if err != nil {
				return err
			}
			cfg = c
		}
		switch key {
		case "artifacts_dir":
			cfg.ArtifactsDir = val
		case "save_output":
			b, err := strconv.ParseBool(val)
			if err != nil {
				return fmt.Errorf("invalid save_output: %s", val)
			}
			cfg.SaveOutput = b
		case "encode_via_encoding_rules":
			b, err := strconv.ParseBool(val)
			if err != nil {
				return fmt.Errorf("invalid encode_via_encoding_rules: %s", val)
			}
			cfg.EncodeViaEncodingRules = b
		case "target_encode_smoothing":
			f, err := strconv.ParseFloat(val, 64)
			if err != nil || f < 0 {
				return fmt.Errorf("invalid target_encode_smoothing: %s", val)
			}
			cfg.TargetEncodeSmoothing = f
		case "leakage_safe_encoding":
			b, err := strconv.ParseBool(val)
			if err != nil {
				return fmt.Errorf("invalid leakage_safe_encoding: %s", val)
			}
			cfg.LeakageSafeEncoding = b
		case "plot_width_inches":
			f, err := strconv.ParseFloat(val, 64)
			if err != nil || f <= 0 {
				return fmt.Errorf("invalid plot_width_inches: %s", val)
			}
			cfg.PlotWidthInches = f
		case "plot_height_inches":
			f, err := strconv.ParseFloat(val, 64)
			if err != nil || f <= 0 {
				return fmt.Errorf("invalid plot_height_inches: %s", val)
			}
			cfg.PlotHeightInches = f
		case "pairplot_max_rows":
			n, err := strconv.Atoi(val)
			if err != nil || n <= 0 {
				return fmt.Errorf("invalid pairplot_max_rows: %s", val)
			}
			cfg.PairplotMaxRows = n
		case "summary_mode":
			if val != "rules" && val != "llm" {
				return fmt.Errorf("invalid summary_mode: %s (use rules or llm)", val)
			}
			cfg.SummaryMode = val
		case "summary_timeout_sec":
			n, err := strconv.Atoi(val)
			if err != nil || n <= 0 {
				return fmt.Errorf("invalid summary_timeout_sec: %s", val)
			}
			cfg.SummaryTimeoutSec = n
		case "ollama_host":
			cfg.OllamaHost = val
		case "ollama_model":
			cfg.OllamaModel = val
		case "ollama_timeout_sec":
			n, err := strconv.Atoi(val)
			if err != nil || n <= 0 {
				return fmt.Errorf("invalid ollama_timeout_sec: %s", val)
			}
			cfg.OllamaTimeoutSec = n
		case "retry_max_attempts":
			n, err := strconv.Atoi(val)
			if err != nil || n < 0 {
				return fmt.Errorf("invalid retry_max_attempts: %s", val)
			}
			cfg.RetryMaxAttempts = n
		default:
			return fmt.Errorf("unknown config key: %s", key)
		}
		if err := cfgpkg.Save(cfg, cfgFile); err != nil {
			return err
		}
		fmt.Printf("✓ Saved %s\n", key)
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}
