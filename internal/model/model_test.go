package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMinMaxScalerFitTransform(t *testing.T) {
	scaler := &MinMaxScaler{}
	err := scaler.Fit([][]float64{
		{1, 10, 5},
		{3, 20, 5},
		{2, 30, 5},
	})
	require.NoError(t, err)

	tests := []struct {
		name     string
		input    []float64
		expected []float64
	}{
		{
			name:     "values inside the fitted range",
			input:    []float64{2, 20, 5},
			expected: []float64{0.5, 0.5, 0},
		},
		{
			name:     "fitted minimum maps to zero",
			input:    []float64{1, 10, 5},
			expected: []float64{0, 0, 0},
		},
		{
			name:     "fitted maximum maps to one",
			input:    []float64{3, 30, 5},
			expected: []float64{1, 1, 0},
		},
		{
			name:     "values outside the range extrapolate",
			input:    []float64{5, 40, 5},
			expected: []float64{2, 1.5, 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := scaler.Transform(tt.input)
			require.NoError(t, err)
			assert.InDeltaSlice(t, tt.expected, out, 1e-12)
		})
	}
}

func TestMinMaxScalerRejectsMismatch(t *testing.T) {
	scaler := &MinMaxScaler{}
	require.NoError(t, scaler.Fit([][]float64{{1, 2}, {3, 4}}))

	_, err := scaler.Transform([]float64{1, 2, 3})
	assert.Error(t, err)
}

func TestMinMaxScalerEmptyMatrix(t *testing.T) {
	scaler := &MinMaxScaler{}
	assert.Error(t, scaler.Fit(nil))
	assert.Error(t, scaler.Fit([][]float64{}))
}

func TestLinearModelPredict(t *testing.T) {
	m := &LinearModel{
		Weights: [][]float64{
			{1, 0},
			{0, 2},
			{1, 1},
			{-1, 0},
		},
		Bias: []float64{0, 1, 0, 5},
	}

	out, err := m.Predict([]float64{3, 4})
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 9, 7, 2}, out)
}

func TestLinearModelPredictMismatch(t *testing.T) {
	m := &LinearModel{
		Weights: [][]float64{{1, 2, 3}},
		Bias:    []float64{0},
	}

	_, err := m.Predict([]float64{1, 2})
	assert.Error(t, err)
}

func TestTrainLearnsSimpleRelation(t *testing.T) {
	// y0 = x0, y1 = 1 - x0: learnable exactly by a linear model.
	x := [][]float64{{0}, {0.25}, {0.5}, {0.75}, {1}}
	y := [][]float64{{0, 1}, {0.25, 0.75}, {0.5, 0.5}, {0.75, 0.25}, {1, 0}}

	m, err := Train(x, y, TrainConfig{LearningRate: 0.5, Epochs: 5000})
	require.NoError(t, err)

	pred, err := m.Predict([]float64{0.5})
	require.NoError(t, err)
	assert.InDelta(t, 0.5, pred[0], 0.02)
	assert.InDelta(t, 0.5, pred[1], 0.02)

	mse, err := MSE(m, x, y)
	require.NoError(t, err)
	assert.Less(t, mse, 0.001)
}

func TestTrainIsDeterministic(t *testing.T) {
	x := [][]float64{{0.1, 0.9}, {0.4, 0.2}, {0.8, 0.5}}
	y := [][]float64{{1, 0, 0, 0}, {0, 1, 0, 0}, {0, 0, 0, 1}}

	first, err := Train(x, y, DefaultTrainConfig())
	require.NoError(t, err)

	second, err := Train(x, y, DefaultTrainConfig())
	require.NoError(t, err)

	assert.Equal(t, first.Weights, second.Weights)
	assert.Equal(t, first.Bias, second.Bias)
}

func TestTrainRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		x    [][]float64
		y    [][]float64
		cfg  TrainConfig
	}{
		{
			name: "empty dataset",
			x:    nil,
			y:    nil,
			cfg:  DefaultTrainConfig(),
		},
		{
			name: "row count mismatch",
			x:    [][]float64{{1}, {2}},
			y:    [][]float64{{1}},
			cfg:  DefaultTrainConfig(),
		},
		{
			name: "zero learning rate",
			x:    [][]float64{{1}},
			y:    [][]float64{{1}},
			cfg:  TrainConfig{LearningRate: 0, Epochs: 10},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Train(tt.x, tt.y, tt.cfg)
			assert.Error(t, err)
		})
	}
}
