package report

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"jira-sprints/jira"

	"github.com/stretchr/testify/require"
)

func TestFormatJSONSortsKeys(t *testing.T) {
	raw := json.RawMessage(`{"name":"b","id":12345678901234,"a":[1,2]}`)
	data, err := FormatJSON(raw)
	require.NoError(t, err)
	require.Equal(t, "{\n    \"a\": [\n        1,\n        2\n    ],\n    \"id\": 12345678901234,\n    \"name\": \"b\"\n}", string(data))
}

func TestPrintJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PrintJSON(&buf, jira.Sprint{ID: 1, Name: "S1", OriginBoardID: 2}))
	require.True(t, strings.HasSuffix(buf.String(), "}\n"))
	require.Contains(t, buf.String(), `    "originBoardId": 2`)
}

func TestSprintsCSV(t *testing.T) {
	sprints := []jira.Sprint{
		{ID: 1, Name: "2021-W01", State: "future", StartDate: "2021-01-09T00:00:00.000Z", EndDate: "2021-01-15T23:59:59.000Z", OriginBoardID: 3},
		{ID: 2, Name: "with, comma", OriginBoardID: 3, Goal: "ship"},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteSprintsCSV(&buf, sprints))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	require.Equal(t, "ID,Name,State,Start,End,Board,Goal", lines[0])
	require.Equal(t, `2,"with, comma",,,,3,ship`, lines[2])

	path := filepath.Join(t.TempDir(), "sprints.csv")
	require.NoError(t, ExportSprintsToCSV(sprints, path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, buf.String(), string(data))
}

func TestPrintSprintsSummary(t *testing.T) {
	var buf bytes.Buffer
	PrintSprintsSummary(&buf, "board 3", nil)
	require.Contains(t, buf.String(), "BOARD 3")
	require.Contains(t, buf.String(), "No sprints.")

	buf.Reset()
	PrintSprintsSummary(&buf, "board 3", []jira.Sprint{{ID: 9, Name: "S9", Goal: "ship"}})
	require.Contains(t, buf.String(), "goal: ship")
	require.Contains(t, buf.String(), "Total: 1")
}
