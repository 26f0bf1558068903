package profile

import (
	"math"
	"sort"

	"github.com/go-gota/gota/dataframe"
	"gonum.org/v1/gonum/stat"

	"github.com/dataweft/dataweft-cli/internal/dataset"
)

// Skewness returns the sample skewness of vals, 0 when there is not
// enough data to measure asymmetry.
func Skewness(vals []float64) float64 {
	if len(vals) < 3 {
		return 0
	}
	s := stat.Skew(vals, nil)
	if math.IsNaN(s) || math.IsInf(s, 0) {
		return 0
	}
	return s
}

// Quantile returns the linearly interpolated p-quantile of vals.
func Quantile(p float64, vals []float64) float64 {
	if len(vals) == 0 {
		return math.NaN()
	}
	cp := make([]float64, len(vals))
	copy(cp, vals)
	sort.Float64s(cp)
	return stat.Quantile(p, stat.LinInterp, cp, nil)
}

// LocalStats are the lightweight statistics a pipeline stage recomputes
// from the current frame instead of trusting the pre-pipeline profile.
type LocalStats struct {
	Skew        float64
	Cardinality int
	MissingPct  float64
	Min         float64
	Max         float64
	NonMissing  int
	AllPositive bool
}

// Recompute derives LocalStats for one column of the current frame.
func Recompute(df dataframe.DataFrame, col string) LocalStats {
	recs := dataset.Records(df, col)
	total := len(recs)
	missing := 0
	uniq := map[string]struct{}{}
	for _, r := range recs {
		if dataset.IsMissing(r) {
			missing++
			continue
		}
		uniq[r] = struct{}{}
	}

	ls := LocalStats{
		Cardinality: len(uniq),
		Min:         math.NaN(),
		Max:         math.NaN(),
	}
	if total > 0 {
		ls.MissingPct = float64(missing) * 100 / float64(total)
	}

	vals := dataset.NonMissingFloats(df, col)
	ls.NonMissing = len(vals)
	if len(vals) == 0 {
		return ls
	}
	ls.Skew = Skewness(vals)
	ls.AllPositive = true
	ls.Min, ls.Max = vals[0], vals[0]
	for _, v := range vals {
		if v < ls.Min {
			ls.Min = v
		}
		if v > ls.Max {
			ls.Max = v
		}
		if v <= 0 {
			ls.AllPositive = false
		}
	}
	return ls
}
