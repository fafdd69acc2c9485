package schema

import (
	"errors"
	"sort"
	"time"
)

// Record is one cleaned historical incident. Ingestion discards rows missing
// any of the three fields before they reach the builder.
type Record struct {
	Date            time.Time
	Priority        string
	AssignmentGroup string
}

// ErrNoRecords is returned when no usable historical records remain after
// cleaning.
var ErrNoRecords = errors.New("no historical records to build a feature schema from")

// TrainingSet is the aligned output of the builder: the frozen schema, the
// feature matrix X (one row per record, in schema column order) and the
// one-hot priority target matrix Y (columns in Priorities order).
type TrainingSet struct {
	Schema *Schema
	X      [][]float64
	Y      [][]float64
}

// Build derives the feature schema and the aligned training matrices from
// historical records. Column order is deterministic: the three date columns
// followed by the assignment group columns sorted lexicographically.
//
// Records whose priority is not one of Priorities are dropped; they carry no
// usable target.
func Build(records []Record) (*TrainingSet, error) {
	valid := make([]Record, 0, len(records))
	seen := make(map[string]struct{})
	for _, r := range records {
		if r.Date.IsZero() || r.Priority == "" || r.AssignmentGroup == "" {
			continue
		}
		if priorityIndex(r.Priority) < 0 {
			continue
		}
		valid = append(valid, r)
		seen[r.AssignmentGroup] = struct{}{}
	}
	if len(valid) == 0 {
		return nil, ErrNoRecords
	}

	groups := make([]string, 0, len(seen))
	for g := range seen {
		groups = append(groups, g)
	}
	sort.Strings(groups)

	columns := make([]string, 0, 3+len(groups))
	columns = append(columns, ColDay, ColMonth, ColYear)
	for _, g := range groups {
		columns = append(columns, GroupColumn(g))
	}

	s, err := New(columns)
	if err != nil {
		return nil, err
	}

	x := make([][]float64, len(valid))
	y := make([][]float64, len(valid))
	for i, r := range valid {
		// Every group is in the schema by construction, so alignment cannot
		// fail here. Reusing Align keeps training and inference encoding on
		// one code path.
		row, err := s.Align(r.Date, r.AssignmentGroup)
		if err != nil {
			return nil, err
		}
		x[i] = row

		target := make([]float64, len(Priorities))
		target[priorityIndex(r.Priority)] = 1
		y[i] = target
	}

	return &TrainingSet{Schema: s, X: x, Y: y}, nil
}

func priorityIndex(priority string) int {
	for i, p := range Priorities {
		if p == priority {
			return i
		}
	}
	return -1
}
