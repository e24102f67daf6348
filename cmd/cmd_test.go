package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"jira-sprints/jira"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

type fakeService struct {
	mu      sync.Mutex
	sprints []map[string]interface{}
	issues  []map[string]interface{}
}

func (f *fakeService) handler() http.Handler {
	r := chi.NewRouter()
	r.Get("/rest/agile/1.0/board", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"isLast":true,"values":[{"id":3,"name":"Team"}]}`)
	})
	r.Get("/rest/agile/1.0/board/{boardID}/sprint", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"expand":"schema","isLast":true,"values":[`+
			`{"id":7,"name":"S7","state":"future","originBoardId":3,"createdDate":"2021-01-02T10:00:00.000Z"}]}`)
	})
	r.Get("/rest/agile/1.0/sprint/{sprintID}", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"id":%s,"name":"S%s","originBoardId":3}`, chi.URLParam(r, "sprintID"), chi.URLParam(r, "sprintID"))
	})
	r.Post("/rest/agile/1.0/sprint", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		json.NewDecoder(r.Body).Decode(&body)
		f.mu.Lock()
		f.sprints = append(f.sprints, body)
		body["id"] = len(f.sprints)
		f.mu.Unlock()
		json.NewEncoder(w).Encode(body)
	})
	r.Post("/rest/api/3/issue", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		json.NewDecoder(r.Body).Decode(&body)
		f.mu.Lock()
		f.issues = append(f.issues, body)
		f.mu.Unlock()
		io.WriteString(w, `{"id":"1","key":"PROJ-1"}`)
	})
	return r
}

func setup(t *testing.T) (*fakeService, string) {
	t.Helper()
	fake := &fakeService{}
	srv := httptest.NewServer(fake.handler())
	t.Cleanup(srv.Close)

	path := filepath.Join(t.TempDir(), "credentials.json")
	creds := fmt.Sprintf(`{"root_url":%q,"username":"a","token":"b","board_id":3,"project_key":"PROJ"}`, srv.URL)
	require.NoError(t, os.WriteFile(path, []byte(creds), 0600))
	return fake, path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestWeeksCommand(t *testing.T) {
	out, err := run(t, "weeks", "2020", "2021")
	require.NoError(t, err)
	require.Equal(t, "2020\t53\n2021\t52\n", out)

	_, err = run(t, "weeks", "twenty")
	require.Error(t, err)
}

func TestBoardList(t *testing.T) {
	_, path := setup(t)

	out, err := run(t, "--config", path, "board", "list")
	require.NoError(t, err)
	var page jira.Page[jira.Board]
	require.NoError(t, json.Unmarshal([]byte(out), &page))
	require.Len(t, page.Values, 1)
}

func TestSprintGet(t *testing.T) {
	_, path := setup(t)

	out, err := run(t, "--config", path, "sprint", "get", "1", "2")
	require.NoError(t, err)
	require.Contains(t, out, `"name": "S1"`)
	require.Contains(t, out, `"name": "S2"`)

	_, err = run(t, "--config", path, "sprint", "get", "x")
	require.Error(t, err)
}

func TestSprintSeed(t *testing.T) {
	fake, path := setup(t)

	out, err := run(t, "--config", path, "sprint", "seed", "--year", "2021", "--first-week", "1", "--weeks", "0", "--dry-run")
	require.NoError(t, err)
	var plan []jira.SprintRequest
	require.NoError(t, json.Unmarshal([]byte(out), &plan))
	require.Len(t, plan, 51)
	require.Empty(t, fake.sprints)

	out, err = run(t, "--config", path, "sprint", "seed", "--year", "2021", "--first-week", "51", "--weeks", "0", "--dry-run=false")
	require.NoError(t, err)
	require.Len(t, fake.sprints, 1)
	require.Equal(t, "2021-W51", fake.sprints[0]["name"])
	require.Equal(t, "2021-12-25T00:00:00.000Z", fake.sprints[0]["startDate"])
	require.Equal(t, 3.0, fake.sprints[0]["originBoardId"])
	require.Contains(t, out, "Total: 1")
}

func TestSprintCreate(t *testing.T) {
	fake, path := setup(t)

	_, err := run(t, "--config", path, "sprint", "create", "--name", "Hardening", "--start", "2021-06-05", "--end", "2021-06-11")
	require.NoError(t, err)
	require.Len(t, fake.sprints, 1)
	require.Equal(t, "2021-06-05T00:00:00.000Z", fake.sprints[0]["startDate"])
	require.Equal(t, "2021-06-11T23:59:59.000Z", fake.sprints[0]["endDate"])
	require.NotContains(t, fake.sprints[0], "goal")
}

func TestIssueCreate(t *testing.T) {
	fake, path := setup(t)

	out, err := run(t, "--config", path, "issue", "create", "--summary", "Plan Q3", "--due", "2021-07-01")
	require.NoError(t, err)
	require.Contains(t, out, "PROJ-1")
	require.Len(t, fake.issues, 1)
	fields := fake.issues[0]["fields"].(map[string]interface{})
	require.Equal(t, "2021-07-01", fields["duedate"])
	require.Equal(t, map[string]interface{}{"id": "10002"}, fields["issuetype"])
	require.Equal(t, map[string]interface{}{"key": "PROJ"}, fields["project"])

	_, err = run(t, "--config", path, "issue", "create", "--summary", "Plan Q3", "--due", "July")
	require.Error(t, err)
}

func TestConfigInitAndShow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "creds.yaml")

	out, err := run(t, "config", "init", path)
	require.NoError(t, err)
	require.Contains(t, out, path)

	_, err = run(t, "config", "init", path)
	require.Error(t, err)

	out, err = run(t, "--config", path, "config", "show")
	require.NoError(t, err)
	require.Contains(t, out, "API Token: your...oken")
	require.False(t, strings.Contains(out, "your-api-token"))
	require.Contains(t, out, "Location: UTC\n")

	warsaw := filepath.Join(t.TempDir(), "creds.json")
	require.NoError(t, os.WriteFile(warsaw, []byte(`{"root_url":"http://x","username":"u","token":"t","location":"Europe/Warsaw"}`), 0600))
	out, err = run(t, "--config", warsaw, "config", "show")
	require.NoError(t, err)
	require.Contains(t, out, "Location: Europe/Warsaw\n")
}

func TestSprintListExports(t *testing.T) {
	_, path := setup(t)
	dir := t.TempDir()
	jsonFile := filepath.Join(dir, "sprints.json")
	csvFile := filepath.Join(dir, "sprints.csv")
	t.Cleanup(func() {
		sprintListCmd.Flags().Set("json", "")
		sprintListCmd.Flags().Set("csv", "")
	})

	out, err := run(t, "--config", path, "sprint", "list", "--json", jsonFile, "--csv", csvFile)
	require.NoError(t, err)
	require.Contains(t, out, `"createdDate": "2021-01-02T10:00:00.000Z"`)

	data, err := os.ReadFile(jsonFile)
	require.NoError(t, err)
	require.Equal(t, out, string(data)+"\n")
	require.Contains(t, string(data), `"expand": "schema"`)

	data, err = os.ReadFile(csvFile)
	require.NoError(t, err)
	require.Contains(t, string(data), "S7")

	_, err = run(t, "--config", path, "sprint", "list", "--json", filepath.Join(dir, "missing", "x.json"))
	require.Error(t, err)
}

func TestParseDate(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Warsaw")
	require.NoError(t, err)

	d, err := parseDate("2021-03-01", false, loc)
	require.NoError(t, err)
	require.Equal(t, time.Date(2021, time.March, 1, 0, 0, 0, 0, loc), d)

	d, err = parseDate("2021-03-01", true, loc)
	require.NoError(t, err)
	require.Equal(t, time.Date(2021, time.March, 1, 23, 59, 59, 0, loc), d)

	d, err = parseDate("2021-03-01T10:00:00Z", true, loc)
	require.NoError(t, err)
	require.Equal(t, 10, d.Hour())

	_, err = parseDate("soon", false, loc)
	require.Error(t, err)
}
