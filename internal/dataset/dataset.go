// Package dataset ingests historical incident exports. The source is a CSV
// with at least the Date, Priority and Assignment_group columns; rows with
// a missing or unparseable value in any of the three are dropped, matching
// the cleaning the training pipeline has always done.
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/telephonyinc/incident-forecaster/internal/schema"
)

// Required column headers, exact match.
const (
	ColDate     = "Date"
	ColPriority = "Priority"
	ColGroup    = "Assignment_group"
)

// Date layouts accepted in the Date column, tried in order.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"01/02/2006",
}

// MissingColumnsError reports required columns absent from the source
// header. Schema construction must not proceed with a partial schema.
type MissingColumnsError struct {
	Missing []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("historical data missing required columns: %s", strings.Join(e.Missing, ", "))
}

// Load reads and cleans historical incident records from a CSV file.
func Load(path string) ([]schema.Record, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer file.Close()

	records, err := Read(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset %s: %w", path, err)
	}
	return records, nil
}

// Read parses historical incident records from CSV content.
func Read(r io.Reader) ([]schema.Record, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, &MissingColumnsError{Missing: []string{ColDate, ColPriority, ColGroup}}
	}
	if err != nil {
		return nil, err
	}

	idx := map[string]int{}
	for i, name := range header {
		idx[strings.TrimSpace(name)] = i
	}

	var missing []string
	for _, required := range []string{ColDate, ColPriority, ColGroup} {
		if _, ok := idx[required]; !ok {
			missing = append(missing, required)
		}
	}
	if len(missing) > 0 {
		return nil, &MissingColumnsError{Missing: missing}
	}

	dateIdx, priorityIdx, groupIdx := idx[ColDate], idx[ColPriority], idx[ColGroup]

	var records []schema.Record
	dropped := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Malformed row, same treatment as a row with missing values.
			dropped++
			continue
		}
		if len(row) <= dateIdx || len(row) <= priorityIdx || len(row) <= groupIdx {
			dropped++
			continue
		}

		rawDate := strings.TrimSpace(row[dateIdx])
		priority := strings.TrimSpace(row[priorityIdx])
		group := strings.TrimSpace(row[groupIdx])
		if rawDate == "" || priority == "" || group == "" {
			dropped++
			continue
		}

		date, ok := parseDate(rawDate)
		if !ok {
			dropped++
			continue
		}

		records = append(records, schema.Record{
			Date:            date,
			Priority:        priority,
			AssignmentGroup: group,
		})
	}

	if dropped > 0 {
		slog.Warn("Dropped unusable historical records", "dropped", dropped, "kept", len(records))
	}

	return records, nil
}

func parseDate(raw string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
