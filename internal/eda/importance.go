package eda

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/go-gota/gota/dataframe"

	"github.com/dataweft/dataweft-cli/internal/dataset"
)

// Model scores feature rows; each inner slice holds one row's feature
// values in the order the explainer was given them.
type Model interface {
	Predict(rows [][]float64) []float64
}

// Metric compares predictions to the truth; higher is better.
type Metric func(pred, truth []float64) float64

// FeatureScore is one feature's importance.
type FeatureScore struct {
	Feature string  `json:"feature"`
	Score   float64 `json:"score"`
}

// Explainer computes per-feature importance for a model on a frame.
type Explainer interface {
	Explain(df dataframe.DataFrame, features []string, target string) ([]FeatureScore, error)
}

// PermutationExplainer measures importance as the mean absolute metric
// drop when one feature column is shuffled.
type PermutationExplainer struct {
	Model  Model
	Metric Metric
	Rounds int
	Seed   int64
}

func (e *PermutationExplainer) Explain(df dataframe.DataFrame, features []string, target string) ([]FeatureScore, error) {
	if e.Model == nil || e.Metric == nil {
		return nil, fmt.Errorf("permutation explainer needs a model and a metric")
	}
	if len(features) == 0 {
		return nil, fmt.Errorf("no numeric feature columns to explain")
	}
	if !dataset.HasColumn(df, target) {
		return nil, fmt.Errorf("target column %s not in frame", target)
	}

	truth := dataset.Floats(df, target)
	cols := make([][]float64, len(features))
	for i, f := range features {
		if !dataset.HasColumn(df, f) {
			return nil, fmt.Errorf("feature column %s not in frame", f)
		}
		cols[i] = dataset.Floats(df, f)
	}

	// Complete cases only.
	var keep []int
	for r := range truth {
		if math.IsNaN(truth[r]) {
			continue
		}
		ok := true
		for _, c := range cols {
			if math.IsNaN(c[r]) {
				ok = false
				break
			}
		}
		if ok {
			keep = append(keep, r)
		}
	}
	if len(keep) < 2 {
		return nil, fmt.Errorf("not enough complete rows to explain")
	}

	rows := make([][]float64, len(keep))
	y := make([]float64, len(keep))
	for i, r := range keep {
		row := make([]float64, len(cols))
		for j, c := range cols {
			row[j] = c[r]
		}
		rows[i] = row
		y[i] = truth[r]
	}

	baseline := e.Metric(e.Model.Predict(rows), y)

	rounds := e.Rounds
	if rounds <= 0 {
		rounds = 5
	}
	rng := rand.New(rand.NewSource(e.Seed))

	scores := make([]FeatureScore, len(features))
	for j, f := range features {
		var drop float64
		for r := 0; r < rounds; r++ {
			shuffled := permuteColumn(rows, j, rng)
			drop += math.Abs(baseline - e.Metric(e.Model.Predict(shuffled), y))
		}
		scores[j] = FeatureScore{Feature: f, Score: drop / float64(rounds)}
	}

	sort.SliceStable(scores, func(a, b int) bool {
		return math.Abs(scores[a].Score) > math.Abs(scores[b].Score)
	})
	return scores, nil
}

// permuteColumn returns a copy of rows with column j shuffled.
func permuteColumn(rows [][]float64, j int, rng *rand.Rand) [][]float64 {
	perm := rng.Perm(len(rows))
	out := make([][]float64, len(rows))
	for i, row := range rows {
		cp := make([]float64, len(row))
		copy(cp, row)
		cp[j] = rows[perm[i]][j]
		out[i] = cp
	}
	return out
}

// NegMSE is a ready-made regression metric: the negated mean squared
// error, so that higher is better.
func NegMSE(pred, truth []float64) float64 {
	if len(pred) == 0 || len(pred) != len(truth) {
		return math.Inf(-1)
	}
	var ss float64
	for i := range pred {
		d := pred[i] - truth[i]
		ss += d * d
	}
	return -ss / float64(len(pred))
}
