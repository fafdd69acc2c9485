package model

import "fmt"

// TrainConfig controls the gradient descent fit.
type TrainConfig struct {
	LearningRate float64
	Epochs       int
}

// DefaultTrainConfig returns settings that converge well on the small,
// min-max scaled incident matrices this model is fitted on.
func DefaultTrainConfig() TrainConfig {
	return TrainConfig{
		LearningRate: 0.05,
		Epochs:       2000,
	}
}

// Train fits a multi-output linear regression on a scaled feature matrix and
// a one-hot target matrix via full-batch gradient descent on mean squared
// error. Weights start at zero, so training is deterministic: the same
// dataset always yields the same model.
func Train(x, y [][]float64, cfg TrainConfig) (*LinearModel, error) {
	if len(x) == 0 || len(y) == 0 {
		return nil, fmt.Errorf("cannot train on empty dataset")
	}
	if len(x) != len(y) {
		return nil, fmt.Errorf("row count mismatch: %d feature rows, %d target rows", len(x), len(y))
	}
	if cfg.LearningRate <= 0 || cfg.Epochs <= 0 {
		return nil, fmt.Errorf("invalid training config: lr=%v epochs=%d", cfg.LearningRate, cfg.Epochs)
	}

	features := len(x[0])
	outputs := len(y[0])

	m := &LinearModel{
		Weights: make([][]float64, outputs),
		Bias:    make([]float64, outputs),
	}
	for k := range m.Weights {
		m.Weights[k] = make([]float64, features)
	}

	n := float64(len(x))
	for epoch := 0; epoch < cfg.Epochs; epoch++ {
		gradW := make([][]float64, outputs)
		gradB := make([]float64, outputs)
		for k := range gradW {
			gradW[k] = make([]float64, features)
		}

		for i, row := range x {
			if len(row) != features {
				return nil, fmt.Errorf("ragged feature matrix at row %d", i)
			}
			if len(y[i]) != outputs {
				return nil, fmt.Errorf("ragged target matrix at row %d", i)
			}

			pred, err := m.Predict(row)
			if err != nil {
				return nil, err
			}

			for k := 0; k < outputs; k++ {
				diff := pred[k] - y[i][k]
				for j, v := range row {
					gradW[k][j] += diff * v
				}
				gradB[k] += diff
			}
		}

		for k := 0; k < outputs; k++ {
			for j := 0; j < features; j++ {
				m.Weights[k][j] -= cfg.LearningRate * gradW[k][j] / n
			}
			m.Bias[k] -= cfg.LearningRate * gradB[k] / n
		}
	}

	return m, nil
}

// MSE reports mean squared error of the model over a dataset, used to log
// fit quality after training.
func MSE(m *LinearModel, x, y [][]float64) (float64, error) {
	if len(x) == 0 {
		return 0, fmt.Errorf("cannot evaluate on empty dataset")
	}

	total := 0.0
	count := 0
	for i, row := range x {
		pred, err := m.Predict(row)
		if err != nil {
			return 0, err
		}
		for k, p := range pred {
			diff := p - y[i][k]
			total += diff * diff
			count++
		}
	}
	return total / float64(count), nil
}
