package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/dataweft/dataweft-cli/internal/utils"
)

// Global configuration structure.
type Global struct {
	ArtifactsDir string `mapstructure:"artifacts_dir" yaml:"artifacts_dir"`

	// Preprocessing
	SaveOutput             bool    `mapstructure:"save_output" yaml:"save_output"`
	EncodeViaEncodingRules bool    `mapstructure:"encode_via_encoding_rules" yaml:"encode_via_encoding_rules"`
	TargetEncodeSmoothing  float64 `mapstructure:"target_encode_smoothing" yaml:"target_encode_smoothing"`
	LeakageSafeEncoding    bool    `mapstructure:"leakage_safe_encoding" yaml:"leakage_safe_encoding"`

	// Visualization
	PlotWidthInches  float64 `mapstructure:"plot_width_inches" yaml:"plot_width_inches"`
	PlotHeightInches float64 `mapstructure:"plot_height_inches" yaml:"plot_height_inches"`
	PairplotMaxRows  int     `mapstructure:"pairplot_max_rows" yaml:"pairplot_max_rows"`

	// Summary generation: "rules" or "llm"
	SummaryMode       string `mapstructure:"summary_mode" yaml:"summary_mode"`
	SummaryTimeoutSec int    `mapstructure:"summary_timeout_sec" yaml:"summary_timeout_sec"`

	// HTTP/Retry configuration
	RetryMaxAttempts int `mapstructure:"retry_max_attempts" yaml:"retry_max_attempts"`
	RetryBaseDelayMs int `mapstructure:"retry_base_delay_ms" yaml:"retry_base_delay_ms"`
	RetryMaxDelayMs  int `mapstructure:"retry_max_delay_ms" yaml:"retry_max_delay_ms"`

	// Local runtimes (Ollama)
	OllamaHost       string `mapstructure:"ollama_host" yaml:"ollama_host"`
	OllamaModel      string `mapstructure:"ollama_model" yaml:"ollama_model"`
	OllamaTimeoutSec int    `mapstructure:"ollama_timeout_sec" yaml:"ollama_timeout_sec"`
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.dataweft/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	var path string
	if cfgFile != "" {
		path = cfgFile
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".dataweft")
		if err := utils.EnsureDir(dir); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix("DATAWEFT")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("save_output", true)
	v.SetDefault("encode_via_encoding_rules", true)
	v.SetDefault("target_encode_smoothing", 10.0)
	v.SetDefault("leakage_safe_encoding", false)
	v.SetDefault("plot_width_inches", 6.0)
	v.SetDefault("plot_height_inches", 4.0)
	v.SetDefault("pairplot_max_rows", 1000)
	v.SetDefault("summary_mode", "rules")
	v.SetDefault("summary_timeout_sec", 60)
	// HTTP/retry defaults
	v.SetDefault("retry_max_attempts", 3)
	v.SetDefault("retry_base_delay_ms", 500)
	v.SetDefault("retry_max_delay_ms", 4000)
	// Ollama defaults
	v.SetDefault("ollama_host", "http://127.0.0.1:11434")
	v.SetDefault("ollama_model", "llama3")
	v.SetDefault("ollama_timeout_sec", 60)

	// Config file
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		dir := filepath.Join(home, ".dataweft")
		_ = utils.EnsureDir(dir)
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	// Resolve artifacts_dir default: ~/.dataweft/artifacts
	if c.ArtifactsDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		c.ArtifactsDir = filepath.Join(home, ".dataweft", "artifacts")
	}
	return &c, nil
}
