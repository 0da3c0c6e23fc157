package policy

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvaluate_Flexible_24HoursBoundary(t *testing.T) {
	res := Evaluate(Flexible, 24, 1, "")
	assert.True(t, res.Eligible)
	assert.Equal(t, 100, res.Percentage)

	res = Evaluate(Flexible, 23, 0.95, "")
	assert.False(t, res.Eligible)
	assert.Equal(t, 0, res.Percentage)
}

func TestEvaluate_Modere_Tiers(t *testing.T) {
	res := Evaluate(Modere, 7*24, 7, "")
	assert.True(t, res.Eligible)
	assert.Equal(t, 100, res.Percentage)

	res = Evaluate(Modere, 3*24, 3, "")
	assert.True(t, res.Eligible)
	assert.Equal(t, 50, res.Percentage)

	res = Evaluate(Modere, 12, 0.5, "")
	assert.False(t, res.Eligible)
	assert.Equal(t, 0, res.Percentage)
}

func TestEvaluate_Strict_ReasonLength(t *testing.T) {
	short := strings.Repeat("a", 19)
	long := strings.Repeat("a", 20)

	res := Evaluate(Strict, 100, 10, short)
	assert.False(t, res.Eligible)
	assert.False(t, res.RequiresReview)

	res = Evaluate(Strict, 100, 10, long)
	assert.True(t, res.Eligible)
	assert.Equal(t, 0, res.Percentage)
	assert.True(t, res.RequiresReview)
}

func TestEvaluate_Strict_CountsRunesNotBytes(t *testing.T) {
	// 20 two-byte runes must qualify
	reason := strings.Repeat("é", 20)
	res := Evaluate(Strict, 100, 10, reason)
	assert.True(t, res.Eligible)
}

func TestEvaluate_UnknownPolicy_FallsBackToFlexible(t *testing.T) {
	res := Evaluate(Kind("Premium"), 48, 2, "")
	assert.True(t, res.Eligible)
	assert.Equal(t, 100, res.Percentage)

	res = Evaluate(Kind(""), 2, 0, "")
	assert.False(t, res.Eligible)
}

func TestEvaluate_Deterministic(t *testing.T) {
	a := Evaluate(Modere, 80, 3.33, "changed my mind about the session")
	b := Evaluate(Modere, 80, 3.33, "changed my mind about the session")
	assert.Equal(t, a, b)
}
