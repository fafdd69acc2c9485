package schema

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Column names for the date parts extracted from an incident date.
const (
	ColDay   = "day"
	ColMonth = "month"
	ColYear  = "year"
)

// GroupPrefix is the naming convention for assignment group one-hot columns.
// Both the builder and the aligner derive column names through GroupColumn so
// the two code paths can never drift apart.
const GroupPrefix = "Assignment_group_"

// Priorities is the fixed output order of the model. Every raw output vector
// and every priority distribution follows this order.
var Priorities = []string{"P1", "P2", "P3", "P4"}

// GroupColumn returns the one-hot column name for an assignment group label.
// Exact string match, case-sensitive.
func GroupColumn(label string) string {
	return GroupPrefix + label
}

// Schema is the frozen, ordered list of feature column names fixed at
// training time. The order is the join key between training-time and
// inference-time vectors and must never be recomputed.
type Schema struct {
	columns []string
	index   map[string]int
}

// New builds a Schema from an ordered column list. Columns must be unique and
// must include the three date columns.
func New(columns []string) (*Schema, error) {
	index := make(map[string]int, len(columns))
	for i, col := range columns {
		if _, dup := index[col]; dup {
			return nil, fmt.Errorf("duplicate feature column %q", col)
		}
		index[col] = i
	}

	for _, required := range []string{ColDay, ColMonth, ColYear} {
		if _, ok := index[required]; !ok {
			return nil, fmt.Errorf("feature schema missing required column %q", required)
		}
	}

	cols := append([]string(nil), columns...)
	return &Schema{columns: cols, index: index}, nil
}

// Len returns the number of feature columns.
func (s *Schema) Len() int {
	return len(s.columns)
}

// Columns returns a copy of the ordered column list.
func (s *Schema) Columns() []string {
	return append([]string(nil), s.columns...)
}

// Index returns the position of a column, if present.
func (s *Schema) Index(column string) (int, bool) {
	i, ok := s.index[column]
	return i, ok
}

// HasGroup reports whether an assignment group was observed during training.
func (s *Schema) HasGroup(label string) bool {
	_, ok := s.index[GroupColumn(label)]
	return ok
}

// Groups returns the assignment group labels encoded in the schema, in
// column order.
func (s *Schema) Groups() []string {
	groups := make([]string, 0, len(s.columns))
	for _, col := range s.columns {
		if strings.HasPrefix(col, GroupPrefix) {
			groups = append(groups, strings.TrimPrefix(col, GroupPrefix))
		}
	}
	return groups
}

// MarshalJSON serializes the schema as its plain ordered column list, which
// is the exact shape persisted in the feature-schema artifact.
func (s *Schema) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.columns)
}

// UnmarshalJSON restores a schema from a persisted column list, rebuilding
// the lookup index and re-validating the invariants.
func (s *Schema) UnmarshalJSON(data []byte) error {
	var columns []string
	if err := json.Unmarshal(data, &columns); err != nil {
		return err
	}

	restored, err := New(columns)
	if err != nil {
		return err
	}

	*s = *restored
	return nil
}
