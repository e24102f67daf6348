package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"jira-sprints/jira"

	"github.com/cockroachdb/errors"
)

// Indent matches the four-space layout of the service's own console tools.
const Indent = "    "

// FormatJSON renders v as indented JSON with object keys sorted.
func FormatJSON(v interface{}) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}

	// Round trip through a generic value so map keys come out sorted.
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var generic interface{}
	if err := dec.Decode(&generic); err != nil {
		return nil, err
	}
	return json.MarshalIndent(generic, "", Indent)
}

// PrintJSON writes v to w as indented JSON.
func PrintJSON(w io.Writer, v interface{}) error {
	data, err := FormatJSON(v)
	if err != nil {
		return errors.Wrap(err, "formatting JSON")
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// ExportToJSON saves v to a JSON file
func ExportToJSON(v interface{}, filename string) error {
	data, err := FormatJSON(v)
	if err != nil {
		return err
	}
	return os.WriteFile(filename, data, 0644)
}

// WriteSprintsCSV writes one row per sprint.
func WriteSprintsCSV(w io.Writer, sprints []jira.Sprint) error {
	writer := csv.NewWriter(w)

	writer.Write([]string{"ID", "Name", "State", "Start", "End", "Board", "Goal"})
	for _, s := range sprints {
		writer.Write([]string{
			strconv.Itoa(s.ID), s.Name, s.State, s.StartDate, s.EndDate,
			strconv.Itoa(s.OriginBoardID), s.Goal,
		})
	}

	writer.Flush()
	return writer.Error()
}

// ExportSprintsToCSV saves sprints to a CSV file
func ExportSprintsToCSV(sprints []jira.Sprint, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	return WriteSprintsCSV(file, sprints)
}

// PrintSprintsSummary displays a formatted sprint list
func PrintSprintsSummary(w io.Writer, title string, sprints []jira.Sprint) {
	fmt.Fprintln(w, "\n"+strings.Repeat("=", 60))
	fmt.Fprintln(w, strings.ToUpper(title))
	fmt.Fprintln(w, strings.Repeat("=", 60))

	if len(sprints) == 0 {
		fmt.Fprintln(w, "No sprints.")
		return
	}

	for _, s := range sprints {
		state := s.State
		if state == "" {
			state = "-"
		}
		fmt.Fprintf(w, "%-6d %-30s %-8s %s .. %s\n", s.ID, s.Name, state, s.StartDate, s.EndDate)
		if s.Goal != "" {
			fmt.Fprintf(w, "       goal: %s\n", s.Goal)
		}
	}

	fmt.Fprintln(w, strings.Repeat("=", 60))
	fmt.Fprintf(w, "Total: %d\n", len(sprints))
}
