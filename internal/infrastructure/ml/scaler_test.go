package ml_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fake-review-detector/internal/infrastructure/ml"
)

func TestScaler(t *testing.T) {
	t.Run("standardizes with population statistics", func(t *testing.T) {
		s := ml.NewScaler()
		require.NoError(t, s.Fit([][]float64{
			{1, 10},
			{2, 20},
			{3, 30},
		}))

		assert.True(t, s.Fitted())
		assert.Equal(t, []float64{2, 20}, s.Mean)
		require.Len(t, s.Std, 2)
		assert.InDelta(t, math.Sqrt(2.0/3.0), s.Std[0], 1e-9)

		out, err := s.Transform([][]float64{{2, 20}, {3, 30}})
		require.NoError(t, err)

		assert.InDelta(t, 0, out[0][0], 1e-9)
		assert.InDelta(t, 0, out[0][1], 1e-9)
		assert.InDelta(t, math.Sqrt(1.5), out[1][0], 1e-9)
		assert.InDelta(t, math.Sqrt(1.5), out[1][1], 1e-9)
	})

	t.Run("zero-variance columns map to zero", func(t *testing.T) {
		s := ml.NewScaler()
		require.NoError(t, s.Fit([][]float64{
			{5, 1},
			{5, 2},
			{5, 3},
		}))

		out, err := s.Transform([][]float64{{99, 2}})
		require.NoError(t, err)

		assert.Equal(t, 0.0, out[0][0])
		assert.InDelta(t, 0, out[0][1], 1e-9)
	})

	t.Run("transform before fit is a usage error", func(t *testing.T) {
		_, err := ml.NewScaler().Transform([][]float64{{1}})
		assert.ErrorIs(t, err, ml.ErrScalerNotFitted)
	})

	t.Run("row width must match the fitted columns", func(t *testing.T) {
		s := ml.NewScaler()
		require.NoError(t, s.Fit([][]float64{{1, 2}, {3, 4}}))

		_, err := s.Transform([][]float64{{1, 2, 3}})
		assert.ErrorIs(t, err, ml.ErrDimensionMismatch)
	})

	t.Run("empty training block is rejected", func(t *testing.T) {
		err := ml.NewScaler().Fit(nil)
		assert.ErrorIs(t, err, ml.ErrNoTrainingData)
	})
}
