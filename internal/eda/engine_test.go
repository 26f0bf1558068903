package eda

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dataweft/dataweft-cli/internal/profile"
	"github.com/dataweft/dataweft-cli/internal/visrules"
)

func fixture(t *testing.T) (dataframe.DataFrame, map[string]profile.ColumnSchema) {
	t.Helper()
	var b strings.Builder
	b.WriteString("x1,x2,y,grp\n")
	for i := 0; i < 50; i++ {
		x1 := float64(i)
		x2 := float64((i * 7) % 13)
		fmt.Fprintf(&b, "%.1f,%.1f,%.1f,g%d\n", x1, x2, 2*x1, i%3)
	}
	df := dataframe.ReadCSV(strings.NewReader(b.String()))
	require.NoError(t, df.Error())

	stats := map[string]profile.ColumnSchema{
		"x1":  {Name: "x1", Type: profile.Numeric},
		"x2":  {Name: "x2", Type: profile.Numeric},
		"y":   {Name: "y", Type: profile.Numeric},
		"grp": {Name: "grp", Type: profile.Categorical, Unique: 3},
	}
	return df, stats
}

type stubSummarizer struct {
	text string
	err  error
}

func (s stubSummarizer) Summarize(_ context.Context, prompt string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	if prompt == "" {
		return "", fmt.Errorf("empty prompt")
	}
	return s.text, nil
}

// firstFeatureModel predicts from the first feature only.
type firstFeatureModel struct{}

func (firstFeatureModel) Predict(rows [][]float64) []float64 {
	out := make([]float64, len(rows))
	for i, r := range rows {
		out[i] = 2 * r[0]
	}
	return out
}

func TestRunRuleBasedSummary(t *testing.T) {
	df, stats := fixture(t)
	e := New(t.TempDir())

	res, err := e.Run(context.Background(), df, stats, Options{})
	require.NoError(t, err)

	assert.NotEmpty(t, res.RunID)
	assert.Contains(t, res.Summary[SectionOverview], "50 rows")
	assert.Contains(t, res.Summary[SectionOverview], "4 columns")
	assert.NotEmpty(t, res.Plots, "plots rendered")
	assert.Nil(t, res.FeatureImportance)
}

func TestRunLLMSummary(t *testing.T) {
	df, stats := fixture(t)
	e := New(t.TempDir())

	res, err := e.Run(context.Background(), df, stats, Options{
		Summarizer: stubSummarizer{text: "a tidy dataset"},
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{SectionText: "a tidy dataset"}, res.Summary)
}

func TestRunLLMFailureFallsBack(t *testing.T) {
	df, stats := fixture(t)
	e := New(t.TempDir())

	res, err := e.Run(context.Background(), df, stats, Options{
		Summarizer:     stubSummarizer{err: fmt.Errorf("runtime down")},
		SummaryTimeout: time.Second,
	})
	require.NoError(t, err, "LLM failure must not fail the run")
	assert.Contains(t, res.Summary, SectionOverview, "rule-based fallback")
}

func TestRunFeatureImportance(t *testing.T) {
	df, stats := fixture(t)
	e := New(t.TempDir())

	res, err := e.Run(context.Background(), df, stats, Options{
		Target: "y",
		Task:   visrules.TaskRegression,
		Explainer: &PermutationExplainer{
			Model:  firstFeatureModel{},
			Metric: NegMSE,
			Seed:   1,
		},
	})
	require.NoError(t, err)

	require.Len(t, res.FeatureImportance, 2)
	assert.Equal(t, "x1", res.FeatureImportance[0].Feature, "importances sorted descending")
	assert.Greater(t, res.FeatureImportance[0].Score, 0.0)
	assert.InDelta(t, 0, res.FeatureImportance[1].Score, 1e-9, "ignored feature has no importance")
}

func TestRunFeatureImportanceFailure(t *testing.T) {
	df, stats := fixture(t)
	e := New(t.TempDir())

	_, err := e.Run(context.Background(), df, stats, Options{
		Target:    "nope",
		Explainer: &PermutationExplainer{Model: firstFeatureModel{}, Metric: NegMSE},
	})
	require.Error(t, err)
	var fe *FeatureImportanceError
	assert.ErrorAs(t, err, &fe)
}

func TestRuleBasedSummaryIssues(t *testing.T) {
	csv := strings.Join([]string{
		"a,b",
		"1,x",
		"2,x",
		"3,x",
	}, "\n")
	df := dataframe.ReadCSV(strings.NewReader(csv))
	require.NoError(t, df.Error())

	stats := map[string]profile.ColumnSchema{
		"a": {Name: "a", Type: profile.Numeric, Unique: 3},
		"b": {Name: "b", Type: profile.Categorical, Unique: 1},
		"c": {Name: "c", Type: profile.Numeric, MissingPct: 80, Unique: 2},
	}

	summary := RuleBasedSummary(df, stats)
	assert.Contains(t, summary[SectionIssues], "b is constant")
	assert.Contains(t, summary[SectionIssues], "c is mostly missing")
	assert.Contains(t, summary[SectionMissing], "c: 80.0% missing")
}

func TestBuildPromptListsColumns(t *testing.T) {
	df, stats := fixture(t)
	prompt := BuildPrompt(df, stats)
	for name := range stats {
		assert.Contains(t, prompt, name)
	}
	assert.Contains(t, prompt, "Rows: 50")
}
