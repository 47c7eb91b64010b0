package trace

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecimate_NoDecimation(t *testing.T) {
	vals := []float64{0.1, 0.2, 0.3, 0.4, 0.5}

	// Nil dst allocates
	result := Decimate(nil, vals, 10)
	require.Equal(t, 5, len(result))
	assert.Equal(t, vals, result)

	// Sufficient capacity dst is reused
	dst := make([]float64, 0, 10)
	result = Decimate(dst, vals, 10)
	require.Equal(t, 5, len(result))
	assert.Equal(t, vals, result)
	assert.Equal(t, cap(dst), cap(result))
}

func TestDecimate_WithDecimation(t *testing.T) {
	vals := make([]float64, 100)
	for i := range vals {
		vals[i] = float64(i) * 0.01
	}

	result := Decimate(nil, vals, 10)
	require.Equal(t, 10, len(result))

	// First value always survives
	assert.Equal(t, vals[0], result[0])

	// Last kept value should come from the tail of the window
	assert.GreaterOrEqual(t, result[len(result)-1], 0.8)
}

func TestDecimate_DestinationReuse(t *testing.T) {
	first := []float64{0.1, 0.2}
	second := []float64{0.3, 0.4, 0.5}

	dst := make([]float64, 0, 10)
	result1 := Decimate(dst, first, 10)
	require.Equal(t, 2, len(result1))

	result2 := Decimate(result1, second, 10)
	require.Equal(t, 3, len(result2))

	// Same underlying array both times
	assert.Equal(t, cap(result1), cap(result2))
}

func TestDecimate_ExactMaxPoints(t *testing.T) {
	vals := make([]float64, 10)
	for i := range vals {
		vals[i] = float64(i)
	}

	result := Decimate(nil, vals, 10)
	require.Equal(t, 10, len(result))
	assert.Equal(t, vals, result)
}

func TestDecimate_EmptyInput(t *testing.T) {
	result := Decimate(nil, []float64{}, 10)
	assert.Equal(t, 0, len(result))
}

func TestDecimate_PreservesOrder(t *testing.T) {
	vals := make([]float64, 50)
	for i := range vals {
		vals[i] = float64(i)
	}

	result := Decimate(nil, vals, 7)
	require.Equal(t, 7, len(result))
	for i := 1; i < len(result); i++ {
		assert.Greater(t, result[i], result[i-1])
	}
}
