// Package dataset is the ingestion boundary: it loads tabular files into
// gota dataframes and provides the column helpers the rest of the tool
// builds on.
package dataset

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/google/uuid"

	"github.com/dataweft/dataweft-cli/internal/utils"
)

// DocType enumerates the supported document formats.
type DocType string

const (
	DocCSV     DocType = "csv"
	DocJSON    DocType = "json"
	DocXLSX    DocType = "xlsx"
	DocParquet DocType = "parquet"
	DocUnknown DocType = "unknown"
)

// Metadata describes a loaded dataset.
type Metadata struct {
	DatasetID   string    `json:"dataset_id"`
	Filename    string    `json:"filename"`
	FileType    DocType   `json:"file_type"`
	UploadTime  time.Time `json:"upload_time"`
	NumRows     int       `json:"num_rows"`
	NumColumns  int       `json:"num_columns"`
	ColumnNames []string  `json:"column_names"`
}

// Detect maps a file extension to a DocType.
func Detect(path string) DocType {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".tsv":
		return DocCSV
	case ".json":
		return DocJSON
	case ".xlsx":
		return DocXLSX
	case ".parquet":
		return DocParquet
	default:
		return DocUnknown
	}
}

// Load reads a dataset from disk, dispatching on the file extension.
// XLSX and parquet are recognized but not implemented.
func Load(path string) (dataframe.DataFrame, *Metadata, error) {
	var df dataframe.DataFrame

	data, err := os.ReadFile(path)
	if err != nil {
		return df, nil, &FileLoadError{Path: path, Err: err}
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return df, nil, &FileEmptyError{Path: path}
	}

	kind := Detect(path)
	switch kind {
	case DocCSV:
		df = dataframe.ReadCSV(bytes.NewReader(data), dataframe.WithDelimiter(sniffDelimiter(path)))
	case DocJSON:
		df = dataframe.ReadJSON(bytes.NewReader(data))
	case DocXLSX, DocParquet:
		return df, nil, &FileLoadError{Path: path, Err: fmt.Errorf("%s: %w", kind, ErrUnsupportedFormat)}
	default:
		return df, nil, &FileLoadError{Path: path, Err: ErrUnsupportedFormat}
	}
	if df.Error() != nil {
		return df, nil, &FileLoadError{Path: path, Err: df.Error()}
	}
	if df.Nrow() == 0 || df.Ncol() == 0 {
		return df, nil, &FileEmptyError{Path: path}
	}

	meta := &Metadata{
		DatasetID:   uuid.NewString(),
		Filename:    filepath.Base(path),
		FileType:    kind,
		UploadTime:  time.Now().UTC(),
		NumRows:     df.Nrow(),
		NumColumns:  df.Ncol(),
		ColumnNames: df.Names(),
	}
	return df, meta, nil
}

func sniffDelimiter(path string) rune {
	if strings.HasSuffix(strings.ToLower(path), ".tsv") {
		return '\t'
	}
	return ','
}

// SaveCSV persists a frame with a header row using an atomic write.
func SaveCSV(df dataframe.DataFrame, path string) error {
	var buf bytes.Buffer
	if err := df.WriteCSV(&buf); err != nil {
		return fmt.Errorf("encode csv: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir output dir: %w", err)
	}
	return utils.SafeWriteFile(path, buf.Bytes())
}

// IsMissing reports whether a record value represents a missing cell.
func IsMissing(rec string) bool {
	switch strings.TrimSpace(rec) {
	case "", "NA", "NaN", "nan", "<nil>", "null":
		return true
	}
	return false
}

// HasColumn reports whether the frame contains the named column.
func HasColumn(df dataframe.DataFrame, name string) bool {
	for _, n := range df.Names() {
		if n == name {
			return true
		}
	}
	return false
}

// Records returns the raw string cells of a column.
func Records(df dataframe.DataFrame, name string) []string {
	return df.Col(name).Records()
}

// Floats returns a column as float64 values, NaN for missing or
// non-numeric cells.
func Floats(df dataframe.DataFrame, name string) []float64 {
	recs := df.Col(name).Records()
	out := make([]float64, len(recs))
	for i, r := range recs {
		if IsMissing(r) {
			out[i] = math.NaN()
			continue
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(r), 64)
		if err != nil {
			out[i] = math.NaN()
			continue
		}
		out[i] = f
	}
	return out
}

// NonMissingFloats returns the numeric values of a column with missing
// and unparseable cells removed.
func NonMissingFloats(df dataframe.DataFrame, name string) []float64 {
	vals := Floats(df, name)
	out := vals[:0]
	for _, v := range vals {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

// NonMissingRecords returns the string cells of a column with missing
// cells removed.
func NonMissingRecords(df dataframe.DataFrame, name string) []string {
	recs := df.Col(name).Records()
	out := make([]string, 0, len(recs))
	for _, r := range recs {
		if !IsMissing(r) {
			out = append(out, r)
		}
	}
	return out
}

// Unique returns the distinct non-missing values of a column.
func Unique(df dataframe.DataFrame, name string) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, r := range df.Col(name).Records() {
		if IsMissing(r) {
			continue
		}
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}
	sort.Strings(out)
	return out
}

// Mode returns the most frequent non-missing value of a column; ties
// break toward the lexicographically smaller value, matching the
// deterministic contract of the rules engine.
func Mode(df dataframe.DataFrame, name string) (string, bool) {
	counts := map[string]int{}
	for _, r := range NonMissingRecords(df, name) {
		counts[r]++
	}
	if len(counts) == 0 {
		return "", false
	}
	best, bestN := "", -1
	for v, n := range counts {
		if n > bestN || (n == bestN && v < best) {
			best, bestN = v, n
		}
	}
	return best, true
}

// DropColumn removes a column by name.
func DropColumn(df dataframe.DataFrame, name string) dataframe.DataFrame {
	return df.Drop(name)
}

// ReplaceFloats swaps a column for the given float values, preserving
// its position by name.
func ReplaceFloats(df dataframe.DataFrame, name string, vals []float64) dataframe.DataFrame {
	return df.Mutate(series.New(vals, series.Float, name))
}

// ReplaceInts swaps a column for the given int values.
func ReplaceInts(df dataframe.DataFrame, name string, vals []int) dataframe.DataFrame {
	return df.Mutate(series.New(vals, series.Int, name))
}

// ReplaceStrings swaps a column for the given string values.
func ReplaceStrings(df dataframe.DataFrame, name string, vals []string) dataframe.DataFrame {
	return df.Mutate(series.New(vals, series.String, name))
}

// KeepRows subsets the frame to the given row indices, in order.
func KeepRows(df dataframe.DataFrame, idx []int) dataframe.DataFrame {
	return df.Subset(idx)
}

var timeLayouts = []string{
	time.RFC3339, "2006-01-02", "2006/01/02", "02/01/2006", "01/02/2006",
	"2006-01-02 15:04", "2006-01-02 15:04:05", "1/2/2006 15:04", "1/2/2006 15:04:05",
}

// ParseTime attempts the common datetime layouts.
func ParseTime(s string) (time.Time, bool) {
	for _, l := range timeLayouts {
		if t, err := time.Parse(l, strings.TrimSpace(s)); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
