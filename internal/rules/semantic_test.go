package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func seqFloats(n int) []float64 {
	vals := make([]float64, n)
	for i := range vals {
		vals[i] = float64(i + 1)
	}
	return vals
}

func TestIsIDLike(t *testing.T) {
	assert.True(t, isIDLike(seqFloats(100), true), "100 distinct integers")
	assert.False(t, isIDLike(seqFloats(100), false), "non-integer dtype")
	assert.False(t, isIDLike(seqFloats(40), true), "too few distinct values")

	repeated := make([]float64, 100)
	for i := range repeated {
		repeated[i] = float64(i % 60)
	}
	assert.False(t, isIDLike(repeated, true), "distinct ratio too low")
}

func TestIsCountLike(t *testing.T) {
	counts := []float64{0, 1, 2, 3, 1, 0, 2, 2}
	assert.True(t, isCountLike(counts, true))
	assert.False(t, isCountLike(counts, false), "non-integer dtype")
	assert.False(t, isCountLike(seqFloats(25), true), "too many distinct values")
}

func TestIsAgeLike(t *testing.T) {
	assert.True(t, isAgeLike("customer_age", []float64{500, 600}), "keyword wins regardless of values")
	assert.True(t, isAgeLike("x", []float64{20, 35, 47, 62, 80}), "all values in human range")
	assert.False(t, isAgeLike("x", []float64{20, 35, 470, 620, 810}), "too many out of range")

	// 4 of 5 in range is exactly 80%.
	assert.True(t, isAgeLike("x", []float64{20, 35, 47, 62, 810}))
}

func TestIsPercentageLike(t *testing.T) {
	assert.True(t, isPercentageLike([]float64{0.1, 0.5, 0.99}))
	assert.True(t, isPercentageLike([]float64{12, 55, 99.5}))
	assert.False(t, isPercentageLike([]float64{12, 55, 101}))
	assert.False(t, isPercentageLike([]float64{-0.1, 0.5}))
}

func TestIsMoneyLike(t *testing.T) {
	assert.True(t, isMoneyLike("unit_price"))
	assert.True(t, isMoneyLike("Salary"))
	assert.False(t, isMoneyLike("temperature"))
}
