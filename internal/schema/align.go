package schema

import (
	"fmt"
	"time"
)

// UnknownCategoryError reports an assignment group with no one-hot column in
// the feature schema. Predicting against an all-zero one-hot context is a
// meaningless operating point, so alignment refuses rather than defaulting.
type UnknownCategoryError struct {
	Label string
}

func (e *UnknownCategoryError) Error() string {
	return fmt.Sprintf("assignment group %q was not seen during training", e.Label)
}

// Align maps a single inference request onto a feature vector conforming to
// the schema: exactly Len() values, all zero except the three date fields and
// the one-hot column for the supplied assignment group.
//
// Align only shapes data. No scaling or model invocation happens here.
func (s *Schema) Align(date time.Time, group string) ([]float64, error) {
	col := GroupColumn(group)
	groupIdx, ok := s.index[col]
	if !ok {
		return nil, &UnknownCategoryError{Label: group}
	}

	vec := make([]float64, len(s.columns))
	vec[s.index[ColDay]] = float64(date.Day())
	vec[s.index[ColMonth]] = float64(int(date.Month()))
	vec[s.index[ColYear]] = float64(date.Year())
	vec[groupIdx] = 1

	return vec, nil
}
