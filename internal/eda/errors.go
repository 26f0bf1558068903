package eda

import "fmt"

// SummarizationError indicates the summary could not be produced at
// all, rule-based fallback included.
type SummarizationError struct {
	Err error
}

func (e *SummarizationError) Error() string {
	return fmt.Sprintf("summarization failed: %v", e.Err)
}

func (e *SummarizationError) Unwrap() error { return e.Err }

// LLMError wraps a text-generation failure. It is logged and recovered
// from by falling back to the rule-based summary.
type LLMError struct {
	Err error
}

func (e *LLMError) Error() string { return fmt.Sprintf("llm summary failed: %v", e.Err) }

func (e *LLMError) Unwrap() error { return e.Err }

// FeatureImportanceError indicates the explainability computation
// failed.
type FeatureImportanceError struct {
	Err error
}

func (e *FeatureImportanceError) Error() string {
	return fmt.Sprintf("feature importance failed: %v", e.Err)
}

func (e *FeatureImportanceError) Unwrap() error { return e.Err }
