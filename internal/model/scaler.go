package model

import "fmt"

// MinMaxScaler rescales each feature to [0, 1] using per-feature minimum and
// maximum frozen at fit time. The statistics are never refit at inference;
// the fitted scaler is persisted alongside the model and reapplied verbatim.
type MinMaxScaler struct {
	Min []float64 `json:"min"`
	Max []float64 `json:"max"`
}

// Fit computes per-feature minimum and maximum over the training matrix.
func (s *MinMaxScaler) Fit(x [][]float64) error {
	if len(x) == 0 || len(x[0]) == 0 {
		return fmt.Errorf("cannot fit scaler on empty matrix")
	}

	cols := len(x[0])
	s.Min = make([]float64, cols)
	s.Max = make([]float64, cols)
	copy(s.Min, x[0])
	copy(s.Max, x[0])

	for _, row := range x {
		if len(row) != cols {
			return fmt.Errorf("ragged matrix: row has %d features, want %d", len(row), cols)
		}
		for j, v := range row {
			if v < s.Min[j] {
				s.Min[j] = v
			}
			if v > s.Max[j] {
				s.Max[j] = v
			}
		}
	}
	return nil
}

// Transform rescales a single feature vector using the frozen statistics.
// Features with zero range at fit time map to 0.
func (s *MinMaxScaler) Transform(row []float64) ([]float64, error) {
	if len(row) != len(s.Min) {
		return nil, fmt.Errorf("feature count mismatch: vector has %d features, scaler was fitted on %d", len(row), len(s.Min))
	}

	out := make([]float64, len(row))
	for j, v := range row {
		span := s.Max[j] - s.Min[j]
		if span == 0 {
			out[j] = 0
			continue
		}
		out[j] = (v - s.Min[j]) / span
	}
	return out, nil
}

// TransformMatrix rescales every row of a training matrix.
func (s *MinMaxScaler) TransformMatrix(x [][]float64) ([][]float64, error) {
	out := make([][]float64, len(x))
	for i, row := range x {
		scaled, err := s.Transform(row)
		if err != nil {
			return nil, err
		}
		out[i] = scaled
	}
	return out, nil
}
