package rules

import (
	"math"
	"strings"
)

// Keyword lists for name-based numeric classification. Matching is a
// case-insensitive substring test on the column name.
var (
	ageKeywords   = []string{"age", "yrs", "years", "yr", "age_in_years"}
	moneyKeywords = []string{"price", "cost", "revenue", "income", "amount", "salary"}
)

func nameContainsAny(name string, keywords []string) bool {
	lower := strings.ToLower(name)
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func distinctCount(vals []float64) int {
	seen := make(map[float64]struct{}, len(vals))
	for _, v := range vals {
		seen[v] = struct{}{}
	}
	return len(seen)
}

func allIntegral(vals []float64) bool {
	for _, v := range vals {
		if v != math.Trunc(v) {
			return false
		}
	}
	return len(vals) > 0
}

// isIDLike reports whether a numeric column looks like a row identifier:
// integer-valued, nearly all distinct, and with enough distinct values
// that a categorical reading is implausible.
func isIDLike(vals []float64, integerDType bool) bool {
	if !integerDType || len(vals) == 0 {
		return false
	}
	distinct := distinctCount(vals)
	ratio := float64(distinct) / float64(len(vals))
	return ratio > 0.98 && distinct > 50
}

// isCountLike reports whether a numeric column holds small discrete
// counts: integer-valued with fewer than 20 distinct values.
func isCountLike(vals []float64, integerDType bool) bool {
	if !integerDType || len(vals) == 0 {
		return false
	}
	return distinctCount(vals) < 20
}

// isAgeLike matches either by name keyword or because at least 80% of
// the values fall in the human-age range [0, 120].
func isAgeLike(name string, vals []float64) bool {
	if nameContainsAny(name, ageKeywords) {
		return true
	}
	if len(vals) == 0 {
		return false
	}
	inRange := 0
	for _, v := range vals {
		if v >= 0 && v <= 120 {
			inRange++
		}
	}
	return float64(inRange)/float64(len(vals)) >= 0.8
}

// isPercentageLike matches columns fully contained in [0, 1] or [0, 100].
func isPercentageLike(vals []float64) bool {
	if len(vals) == 0 {
		return false
	}
	min, max := vals[0], vals[0]
	for _, v := range vals {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return (min >= 0 && max <= 1) || (min >= 0 && max <= 100)
}

// isMoneyLike matches purely on column name.
func isMoneyLike(name string) bool {
	return nameContainsAny(name, moneyKeywords)
}
