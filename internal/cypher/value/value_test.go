package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruthiness(t *testing.T) {
	assert.False(t, Null.IsTruthy())
	assert.False(t, Bool(false).IsTruthy())
	assert.True(t, Bool(true).IsTruthy())
	assert.False(t, Int(0).IsTruthy())
	assert.True(t, Int(1).IsTruthy())
	assert.False(t, Float(0).IsTruthy())
	assert.False(t, String("").IsTruthy())
	assert.True(t, String("x").IsTruthy())
	assert.False(t, List(nil).IsTruthy())
	assert.False(t, Map(nil).IsTruthy())
}

func TestEqualEpsilonCrossType(t *testing.T) {
	assert.True(t, Equal(Int(3), Float(3.0)))
	assert.True(t, Equal(Float(3.0000000001), Int(3)))
	assert.False(t, Equal(Int(3), Float(3.1)))
	assert.False(t, Equal(Int(3), String("3")))
}

func TestCompareForSortNullsLast(t *testing.T) {
	assert.Equal(t, Greater, CompareForSort(Null, Int(1)))
	assert.Equal(t, Less, CompareForSort(Int(1), Null))
	assert.Equal(t, EqualTo, CompareForSort(Null, Null))
}

func TestCompareForSortNumericInterconvert(t *testing.T) {
	assert.Equal(t, Less, CompareForSort(Int(1), Float(2.5)))
	assert.Equal(t, Greater, CompareForSort(Float(3.5), Int(2)))
}

func TestCompareForFilterIncomparable(t *testing.T) {
	_, ok := CompareForFilter(Int(1), String("a"))
	assert.False(t, ok)
	ord, ok := CompareForFilter(Int(1), Float(2))
	assert.True(t, ok)
	assert.Equal(t, Less, ord)
}

func TestFromJSONIntVsFloat(t *testing.T) {
	assert.Equal(t, KindInteger, FromJSON(float64(3)).Kind)
	assert.Equal(t, KindFloat, FromJSON(float64(3.5)).Kind)
}
