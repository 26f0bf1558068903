package eda

import (
	"fmt"
	"strings"

	"github.com/go-gota/gota/dataframe"

	"github.com/dataweft/dataweft-cli/internal/profile"
)

// Summary section keys produced by the rule-based summarizer.
const (
	SectionOverview     = "overview"
	SectionFeatureTypes = "feature_types"
	SectionMissing      = "missing_values"
	SectionIssues       = "potential_issues"

	// SectionText holds the free-text summary in LLM mode.
	SectionText = "summary"
)

// RuleBasedSummary builds a deterministic structured summary from the
// column schema and the current frame.
func RuleBasedSummary(df dataframe.DataFrame, stats map[string]profile.ColumnSchema) map[string]string {
	summary := map[string]string{}

	typeCounts := map[profile.ColType]int{}
	var missingLines, issueLines []string

	for _, name := range profile.SortedColumns(stats) {
		cs := stats[name]
		typeCounts[cs.Type]++

		if cs.MissingPct > 0 {
			missingLines = append(missingLines,
				fmt.Sprintf("%s: %.1f%% missing", name, cs.MissingPct))
		}
		switch {
		case cs.MissingPct > 50:
			issueLines = append(issueLines,
				fmt.Sprintf("%s is mostly missing (%.1f%%) and is a drop candidate", name, cs.MissingPct))
		case cs.Unique == 1:
			issueLines = append(issueLines,
				fmt.Sprintf("%s is constant and carries no information", name))
		case cs.Unique == 0:
			issueLines = append(issueLines,
				fmt.Sprintf("%s is empty", name))
		}
	}

	summary[SectionOverview] = fmt.Sprintf("The dataset has %d rows and %d columns.",
		df.Nrow(), len(stats))

	var types []string
	for _, t := range []profile.ColType{profile.Numeric, profile.Categorical, profile.Datetime, profile.Boolean} {
		if n := typeCounts[t]; n > 0 {
			types = append(types, fmt.Sprintf("%d %s", n, strings.ToLower(string(t))))
		}
	}
	summary[SectionFeatureTypes] = strings.Join(types, ", ")

	if len(missingLines) == 0 {
		summary[SectionMissing] = "No missing values detected."
	} else {
		summary[SectionMissing] = strings.Join(missingLines, "; ")
	}

	if len(issueLines) == 0 {
		summary[SectionIssues] = "No structural issues detected."
	} else {
		summary[SectionIssues] = strings.Join(issueLines, "; ")
	}
	return summary
}

// BuildPrompt renders the column statistics into the prompt sent to
// the text-generation service.
func BuildPrompt(df dataframe.DataFrame, stats map[string]profile.ColumnSchema) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are a data analyst. Summarize the following tabular dataset in a short paragraph, ")
	b.WriteString("mentioning notable data quality problems and what kind of modeling it could support.\n\n")
	fmt.Fprintf(&b, "Rows: %d\nColumns:\n", df.Nrow())
	for _, name := range profile.SortedColumns(stats) {
		cs := stats[name]
		fmt.Fprintf(&b, "- %s: type=%s unique=%d missing=%.1f%%", name, cs.Type, cs.Unique, cs.MissingPct)
		if cs.Type == profile.Numeric {
			fmt.Fprintf(&b, " min=%.4g max=%.4g mean=%.4g", cs.Min, cs.Max, cs.Mean)
		}
		b.WriteString("\n")
	}
	return b.String()
}
