package dataset

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRead(t *testing.T) {
	csvData := strings.Join([]string{
		"Incident_ID,Date,Priority,Assignment_group",
		"INC001,2023-05-01,P1,Network",
		"INC002,2023-05-02,P3,Database",
		"INC003,2023-05-03,P2,Network",
	}, "\n")

	records, err := Read(strings.NewReader(csvData))
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC), records[0].Date)
	assert.Equal(t, "P1", records[0].Priority)
	assert.Equal(t, "Network", records[0].AssignmentGroup)
	assert.Equal(t, "Database", records[1].AssignmentGroup)
}

func TestReadDropsUnusableRows(t *testing.T) {
	tests := []struct {
		name string
		rows []string
		kept int
	}{
		{
			name: "missing date",
			rows: []string{",P1,Network", "2023-05-01,P1,Network"},
			kept: 1,
		},
		{
			name: "missing priority",
			rows: []string{"2023-05-01,,Network", "2023-05-01,P1,Network"},
			kept: 1,
		},
		{
			name: "missing group",
			rows: []string{"2023-05-01,P1,", "2023-05-01,P1,Network"},
			kept: 1,
		},
		{
			name: "unparseable date",
			rows: []string{"not-a-date,P1,Network", "2023-05-01,P1,Network"},
			kept: 1,
		},
		{
			name: "short row",
			rows: []string{"2023-05-01,P1", "2023-05-01,P1,Network"},
			kept: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			csvData := "Date,Priority,Assignment_group\n" + strings.Join(tt.rows, "\n")
			records, err := Read(strings.NewReader(csvData))
			require.NoError(t, err)
			assert.Len(t, records, tt.kept)
		})
	}
}

func TestReadMissingColumns(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		missing []string
	}{
		{
			name:    "no priority column",
			header:  "Date,Assignment_group",
			missing: []string{"Priority"},
		},
		{
			name:    "no date or group column",
			header:  "Priority,Severity",
			missing: []string{"Date", "Assignment_group"},
		},
		{
			name:    "headers are case sensitive",
			header:  "date,priority,assignment_group",
			missing: []string{"Date", "Priority", "Assignment_group"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.header + "\n"))

			var colErr *MissingColumnsError
			require.ErrorAs(t, err, &colErr)
			assert.Equal(t, tt.missing, colErr.Missing)
		})
	}
}

func TestReadEmptyInput(t *testing.T) {
	_, err := Read(strings.NewReader(""))

	var colErr *MissingColumnsError
	assert.ErrorAs(t, err, &colErr)
}

func TestReadAcceptsAlternateDateLayouts(t *testing.T) {
	csvData := strings.Join([]string{
		"Date,Priority,Assignment_group",
		"2023-05-01 14:30:00,P1,Network",
		"05/20/2023,P2,Database",
	}, "\n")

	records, err := Read(strings.NewReader(csvData))
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, 1, records[0].Date.Day())
	assert.Equal(t, 20, records[1].Date.Day())
}
