// Package profile produces and consumes per-column statistics: it can
// generate a JSON profile report for a frame and extract the column
// schema map every rules engine reads.
package profile

// ColType classifies a column for rule evaluation. The classification
// comes from the profiling run and is trusted for the whole pipeline;
// everything else about a column is recomputed locally when needed.
type ColType string

const (
	Numeric     ColType = "NUMERIC"
	Categorical ColType = "CATEGORICAL"
	Datetime    ColType = "DATETIME"
	Boolean     ColType = "BOOLEAN"
	Unknown     ColType = "UNKNOWN"
)

// ColumnSchema is one column's profile record. Immutable after
// extraction.
type ColumnSchema struct {
	Name       string  `json:"name"`
	Type       ColType `json:"type"`
	MissingPct float64 `json:"missing_pct"`
	Unique     int     `json:"unique"`
	DType      string  `json:"dtype,omitempty"`

	// Numeric summary, populated when Type == NUMERIC.
	Min  float64 `json:"min,omitempty"`
	Max  float64 `json:"max,omitempty"`
	Mean float64 `json:"mean,omitempty"`
	Std  float64 `json:"std,omitempty"`
}

// IsIntegerDType reports whether the profiled dtype is an integer kind.
func (c ColumnSchema) IsIntegerDType() bool {
	switch c.DType {
	case "int", "int32", "int64":
		return true
	}
	return false
}

// Report is the on-disk profile document.
type Report struct {
	Dataset struct {
		Filename   string `json:"filename"`
		NumRows    int    `json:"num_rows"`
		NumColumns int    `json:"num_columns"`
	} `json:"dataset"`
	Columns map[string]ColumnSchema `json:"columns"`
}
