package model

import "fmt"

// LinearModel is a multi-output linear regression: one weight row and one
// bias per priority level. Predict is a pure function of its inputs and
// mutates no shared state, so a loaded model is safe for concurrent use.
type LinearModel struct {
	// Weights[k][j] is the weight of feature j for output k.
	Weights [][]float64 `json:"weights"`
	Bias    []float64   `json:"bias"`
}

// Outputs returns the number of output values per prediction.
func (m *LinearModel) Outputs() int {
	return len(m.Bias)
}

// Features returns the number of input features the model was trained on.
func (m *LinearModel) Features() int {
	if len(m.Weights) == 0 {
		return 0
	}
	return len(m.Weights[0])
}

// Predict computes the raw output vector for a single scaled feature vector.
// The output carries no non-negativity or sum guarantee; those are imposed
// downstream by the normalizer.
func (m *LinearModel) Predict(row []float64) ([]float64, error) {
	if len(m.Weights) != len(m.Bias) {
		return nil, fmt.Errorf("malformed model: %d weight rows, %d biases", len(m.Weights), len(m.Bias))
	}
	if len(row) != m.Features() {
		return nil, fmt.Errorf("feature count mismatch: vector has %d features, model expects %d", len(row), m.Features())
	}

	out := make([]float64, len(m.Bias))
	for k, w := range m.Weights {
		sum := m.Bias[k]
		for j, v := range row {
			sum += w[j] * v
		}
		out[k] = sum
	}
	return out, nil
}
