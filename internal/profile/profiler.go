package profile

import (
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"gonum.org/v1/gonum/stat"

	"github.com/dataweft/dataweft-cli/internal/dataset"
	"github.com/dataweft/dataweft-cli/internal/utils"
)

// Profiler generates and persists profile reports for a frame.
type Profiler struct {
	OutputDir string
}

// NewProfiler returns a Profiler writing under dir.
func NewProfiler(dir string) *Profiler {
	return &Profiler{OutputDir: dir}
}

// Generate profiles every column of df and writes <name>.json plus a
// small <name>.md companion. It returns the JSON report path.
func (p *Profiler) Generate(df dataframe.DataFrame, name string) (string, error) {
	if err := utils.EnsureDir(p.OutputDir); err != nil {
		return "", fmt.Errorf("mkdir profile dir: %w", err)
	}

	rep := Report{Columns: make(map[string]ColumnSchema, df.Ncol())}
	rep.Dataset.Filename = name
	rep.Dataset.NumRows = df.Nrow()
	rep.Dataset.NumColumns = df.Ncol()

	for _, col := range df.Names() {
		rep.Columns[col] = profileColumn(df, col)
	}

	jsonPath := filepath.Join(p.OutputDir, name+".json")
	b, err := utils.PrettyJSON(rep)
	if err != nil {
		return "", err
	}
	if err := utils.SafeWriteFile(jsonPath, b); err != nil {
		return "", err
	}

	mdPath := filepath.Join(p.OutputDir, name+".md")
	if err := utils.SafeWriteFile(mdPath, []byte(rep.Markdown())); err != nil {
		return "", err
	}
	return jsonPath, nil
}

// profileColumn infers the column type by the predominant parsed kind
// of its non-missing values, then fills the summary statistics.
func profileColumn(df dataframe.DataFrame, col string) ColumnSchema {
	recs := dataset.Records(df, col)
	total := len(recs)

	var missing, numCnt, dtCnt, boolCnt, txtCnt int
	uniq := map[string]struct{}{}
	allIntegral := true
	var vals []float64

	for _, r := range recs {
		if dataset.IsMissing(r) {
			missing++
			continue
		}
		uniq[r] = struct{}{}
		switch strings.ToLower(strings.TrimSpace(r)) {
		case "true", "false":
			boolCnt++
			continue
		}
		if f, err := strconv.ParseFloat(strings.TrimSpace(r), 64); err == nil {
			numCnt++
			vals = append(vals, f)
			if f != math.Trunc(f) {
				allIntegral = false
			}
			continue
		}
		if _, ok := dataset.ParseTime(r); ok {
			dtCnt++
			continue
		}
		txtCnt++
	}

	cs := ColumnSchema{Name: col, Unique: len(uniq)}
	if total > 0 {
		cs.MissingPct = float64(missing) * 100 / float64(total)
	}

	nonMissing := total - missing
	switch {
	case nonMissing == 0:
		cs.Type = Unknown
	case boolCnt == nonMissing:
		cs.Type = Boolean
		cs.DType = "bool"
	case numCnt >= dtCnt && numCnt >= txtCnt && numCnt > 0:
		cs.Type = Numeric
		if allIntegral {
			cs.DType = "int64"
		} else {
			cs.DType = "float64"
		}
		cs.Min, cs.Max = vals[0], vals[0]
		for _, v := range vals {
			cs.Min = math.Min(cs.Min, v)
			cs.Max = math.Max(cs.Max, v)
		}
		cs.Mean = stat.Mean(vals, nil)
		if len(vals) > 1 {
			cs.Std = stat.StdDev(vals, nil)
		}
	case dtCnt >= txtCnt && dtCnt > 0:
		cs.Type = Datetime
		cs.DType = "datetime64"
	default:
		cs.Type = Categorical
		cs.DType = "object"
	}
	return cs
}

// Markdown renders a compact human-readable view of the report.
func (r Report) Markdown() string {
	var b strings.Builder
	b.WriteString("[DATASET PROFILE]\n")
	fmt.Fprintf(&b, "File: %s\n", r.Dataset.Filename)
	fmt.Fprintf(&b, "Rows: %d\nColumns: %d\n\n[SCHEMA]\n", r.Dataset.NumRows, r.Dataset.NumColumns)
	for _, col := range sortedColumns(r.Columns) {
		c := r.Columns[col]
		fmt.Fprintf(&b, "- %s: %s (missing %.1f%%, unique %d)", c.Name, c.Type, c.MissingPct, c.Unique)
		if c.Type == Numeric {
			fmt.Fprintf(&b, ", min %.4g, max %.4g, mean %.4g, std %.4g", c.Min, c.Max, c.Mean, c.Std)
		}
		b.WriteString("\n")
	}
	return b.String()
}
