// Package eda orchestrates a full exploratory analysis run: column
// statistics, summary, visualization plan, rendered plots, and
// optional feature importance, aggregated into one result.
package eda

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/google/uuid"

	"github.com/dataweft/dataweft-cli/internal/profile"
	"github.com/dataweft/dataweft-cli/internal/utils"
	"github.com/dataweft/dataweft-cli/internal/visrules"
	"github.com/dataweft/dataweft-cli/internal/visual"
)

// promptTokenLimit bounds the statistics prompt sent to the model.
const promptTokenLimit = 4096

// TextSummarizer is the optional text-generation collaborator.
type TextSummarizer interface {
	Summarize(ctx context.Context, prompt string) (string, error)
}

// Options configure one EDA run.
type Options struct {
	Target string
	Task   visrules.TaskType

	// Summarizer switches the summary to LLM mode when set. On error
	// or timeout the run falls back to the rule-based summary.
	Summarizer     TextSummarizer
	SummaryTimeout time.Duration

	// Explainer computes feature importance; requires Target.
	Explainer Explainer

	// PairplotMaxRows overrides the pairplot row guard when positive.
	PairplotMaxRows int
}

// DefaultSummaryTimeout caps the wall-clock time of one LLM summary
// call.
const DefaultSummaryTimeout = 60 * time.Second

// Result aggregates everything one run produced.
type Result struct {
	RunID             string              `json:"run_id"`
	Summary           map[string]string   `json:"summary"`
	Plots             map[string][]string `json:"plots"`
	FeatureImportance []FeatureScore      `json:"feature_importance,omitempty"`
}

// Engine runs EDA against one frame at a time.
type Engine struct {
	Visualizer *visual.Visualizer
}

// New returns an engine rendering plots into plotsDir.
func New(plotsDir string) *Engine {
	return &Engine{Visualizer: visual.New(plotsDir)}
}

// Run executes the full EDA sequence. Stage failures are logged and
// returned; there is no partial result on error. A failing LLM summary
// is the one recoverable stage: it degrades to the rule-based summary.
func (e *Engine) Run(ctx context.Context, df dataframe.DataFrame, stats map[string]profile.ColumnSchema, opts Options) (*Result, error) {
	res := &Result{RunID: uuid.NewString()}

	summary, err := e.summarize(ctx, df, stats, opts)
	if err != nil {
		slog.Error("summarization failed", "error", err)
		return nil, &SummarizationError{Err: err}
	}
	res.Summary = summary

	pairLimit := opts.PairplotMaxRows
	if pairLimit <= 0 {
		pairLimit = visrules.DefaultPairplotMaxRows
	}
	plan := visrules.BuildLimited(df, stats, opts.Target, opts.Task, pairLimit)
	plots, err := e.Visualizer.Render(df, plan, stats)
	if err != nil {
		slog.Error("plot rendering failed", "error", err)
		return nil, err
	}
	res.Plots = plots

	if opts.Explainer != nil && opts.Target != "" {
		features := numericFeatures(stats, opts.Target)
		scores, err := opts.Explainer.Explain(df, features, opts.Target)
		if err != nil {
			slog.Error("feature importance failed", "error", err)
			return nil, &FeatureImportanceError{Err: err}
		}
		res.FeatureImportance = scores
	}
	return res, nil
}

func (e *Engine) summarize(ctx context.Context, df dataframe.DataFrame, stats map[string]profile.ColumnSchema, opts Options) (map[string]string, error) {
	if opts.Summarizer == nil {
		return RuleBasedSummary(df, stats), nil
	}

	timeout := opts.SummaryTimeout
	if timeout <= 0 {
		timeout = DefaultSummaryTimeout
	}
	llmCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	prompt := utils.TruncateToTokenLimit(BuildPrompt(df, stats), promptTokenLimit)
	slog.Debug("llm summary prompt built", "tokens", utils.CountTokens(prompt))
	text, err := opts.Summarizer.Summarize(llmCtx, prompt)
	if err != nil {
		slog.Warn("falling back to rule-based summary", "error", &LLMError{Err: err})
		return RuleBasedSummary(df, stats), nil
	}
	return map[string]string{SectionText: text}, nil
}

func numericFeatures(stats map[string]profile.ColumnSchema, target string) []string {
	var features []string
	for _, name := range profile.SortedColumns(stats) {
		if name != target && stats[name].Type == profile.Numeric {
			features = append(features, name)
		}
	}
	return features
}
