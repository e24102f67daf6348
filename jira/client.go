package jira

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"jira-sprints/calendar"
	"jira-sprints/config"

	gojira "github.com/andygrunwald/go-jira"
	"github.com/cockroachdb/errors"
	"github.com/google/go-querystring/query"
	"github.com/rs/zerolog"
)

const (
	boardsPath       = "/rest/agile/1.0/board"
	boardSprintsPath = "/rest/agile/1.0/board/%d/sprint"
	sprintPath       = "/rest/agile/1.0/sprint/%d"
	sprintsPath      = "/rest/agile/1.0/sprint"
	issuesPath       = "/rest/api/3/issue"

	// Fixed listing window; the service caps it further on its side.
	listStartAt    = 0
	listMaxResults = 1000
	boardType      = "scrum"
)

const (
	// DateTimeLayout formats sprint start and end dates.
	DateTimeLayout = "2006-01-02T15:04:05.000Z07:00"
	// DateLayout formats issue due dates.
	DateLayout = "2006-01-02"
	// DefaultSprintNameFormat names seeded sprints from year and ISO week.
	DefaultSprintNameFormat = "%d-W%02d"
)

// Client handles Jira API operations
type Client struct {
	config     config.Config
	session    *http.Client
	transport  http.RoundTripper
	logger     zerolog.Logger
	loc        *time.Location
	nameFormat string
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger requests and responses are reported to.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithTransport replaces the underlying round tripper. Authentication is
// still added on top of it.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) { c.transport = rt }
}

// WithLocation sets the time zone sprint dates are expressed in.
func WithLocation(loc *time.Location) Option {
	return func(c *Client) {
		if loc != nil {
			c.loc = loc
		}
	}
}

// WithSprintNameFormat sets the fmt format used to name seeded sprints. It
// receives the year and the ISO week number.
func WithSprintNameFormat(format string) Option {
	return func(c *Client) {
		if format != "" {
			c.nameFormat = format
		}
	}
}

// NewClient creates a new Jira client. The returned client owns one HTTP
// session that is reused by every call; it is not meant for concurrent use.
func NewClient(cfg config.Config, opts ...Option) *Client {
	c := &Client{
		config:     cfg,
		logger:     zerolog.Nop(),
		loc:        time.UTC,
		nameFormat: DefaultSprintNameFormat,
	}
	if loc, err := cfg.TimeLocation(); err == nil {
		c.loc = loc
	}
	for _, opt := range opts {
		opt(c)
	}

	auth := &gojira.BasicAuthTransport{
		Username:  cfg.Username,
		Password:  cfg.Token,
		Transport: c.transport,
	}
	c.session = auth.Client()
	c.session.Timeout = cfg.RequestTimeout()
	c.session.CheckRedirect = sameHostRedirect
	return c
}

// sameHostRedirect stops redirects to other hosts: the auth transport would
// otherwise send the credentials along.
func sameHostRedirect(req *http.Request, via []*http.Request) error {
	if len(via) >= 10 {
		return errors.New("stopped after 10 redirects")
	}
	if req.URL.Host != via[0].URL.Host {
		return errors.Newf("refusing redirect from %s to %s", via[0].URL.Host, req.URL.Host)
	}
	return nil
}

// Location returns the time zone sprint dates are expressed in.
func (c *Client) Location() *time.Location { return c.loc }

// makeRequest makes an HTTP request with proper authentication and returns
// the raw response body. Non-2xx answers become *APIError.
func (c *Client) makeRequest(ctx context.Context, method, path string, params url.Values, payload interface{}) ([]byte, error) {
	u := c.config.RootURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, errors.Wrap(err, "encoding request body")
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, errors.Wrapf(err, "building request for %s", u)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.Info().Str("method", method).Str("url", u).Msg("request")

	resp, err := c.session.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "%s %s", method, u)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrapf(err, "reading response of %s %s", method, u)
	}

	c.logger.Debug().Int("status", resp.StatusCode).Bytes("body", data).Msg("response")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{Method: method, URL: u, StatusCode: resp.StatusCode, Body: data}
	}
	return data, nil
}

// do performs a request and decodes a JSON answer into v.
func (c *Client) do(ctx context.Context, method, path string, payload, v interface{}) error {
	data, err := c.makeRequest(ctx, method, path, nil, payload)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return errors.Wrapf(err, "decoding response of %s %s", method, path)
	}
	return nil
}

// listPage fetches one listing page. A body that is not valid JSON yields an
// empty page instead of an error; valid JSON of the wrong shape is an error.
func listPage[T any](ctx context.Context, c *Client, path string, opts listOptions) (*Page[T], error) {
	params, err := query.Values(opts)
	if err != nil {
		return nil, errors.Wrap(err, "encoding listing options")
	}

	data, err := c.makeRequest(ctx, http.MethodGet, path, params, opts)
	if err != nil {
		return nil, err
	}

	if !json.Valid(data) {
		c.logger.Debug().Str("path", path).Msg("listing is not valid JSON, returning empty page")
		return &Page[T]{Values: []T{}}, nil
	}

	var page Page[T]
	if err := json.Unmarshal(data, &page); err != nil {
		return nil, errors.Wrapf(err, "decoding listing %s", path)
	}
	if page.Values == nil {
		page.Values = []T{}
	}
	page.Raw = data
	return &page, nil
}

// ListBoards retrieves the scrum boards visible to the user.
func (c *Client) ListBoards(ctx context.Context) (*Page[Board], error) {
	return listPage[Board](ctx, c, boardsPath, listOptions{
		StartAt:    listStartAt,
		MaxResults: listMaxResults,
		Type:       boardType,
	})
}

// ListSprints retrieves the sprints of a board.
func (c *Client) ListSprints(ctx context.Context, boardID int) (*Page[Sprint], error) {
	return listPage[Sprint](ctx, c, fmt.Sprintf(boardSprintsPath, boardID), listOptions{
		StartAt:    listStartAt,
		MaxResults: listMaxResults,
	})
}

// GetSprint retrieves a single sprint.
func (c *Client) GetSprint(ctx context.Context, sprintID int) (*Sprint, error) {
	var sprint Sprint
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf(sprintPath, sprintID), nil, &sprint); err != nil {
		return nil, err
	}
	return &sprint, nil
}

// CreateSprint creates a sprint on the request's origin board.
func (c *Client) CreateSprint(ctx context.Context, req SprintRequest) (*Sprint, error) {
	var sprint Sprint
	if err := c.do(ctx, http.MethodPost, sprintsPath, req, &sprint); err != nil {
		return nil, errors.Wrapf(err, "creating sprint %q", req.Name)
	}
	return &sprint, nil
}

// NewSprintRequest builds a sprint creation request spanning start to end.
// An empty goal is left out of the payload.
func (c *Client) NewSprintRequest(name string, start, end time.Time, boardID int, goal string) SprintRequest {
	req := SprintRequest{
		Name:          name,
		StartDate:     start.In(c.loc).Format(DateTimeLayout),
		EndDate:       end.In(c.loc).Format(DateTimeLayout),
		OriginBoardID: boardID,
	}
	if goal != "" {
		req.Goal = &goal
	}
	return req
}

// CreateIssue creates an issue in the project with the fixed issue type.
func (c *Client) CreateIssue(ctx context.Context, projectKey, summary string, dueDate time.Time) (*CreatedIssue, error) {
	req := issueRequest{Fields: issueFields{
		Summary:   summary,
		DueDate:   dueDate.Format(DateLayout),
		Project:   issueProject{Key: projectKey},
		IssueType: issueType{ID: IssueTypeID},
	}}

	var issue CreatedIssue
	if err := c.do(ctx, http.MethodPost, issuesPath, req, &issue); err != nil {
		return nil, errors.Wrapf(err, "creating issue in %s", projectKey)
	}
	return &issue, nil
}

// PlanSprintsForYear returns the creation requests CreateSprintsForYear
// would send, without calling the service.
func (c *Client) PlanSprintsForYear(boardID, year, firstWeek, numWeeks int) ([]SprintRequest, error) {
	windows, err := calendar.WeeklySprints(year, firstWeek, numWeeks, c.loc)
	if err != nil {
		return nil, err
	}

	reqs := make([]SprintRequest, 0, len(windows))
	for _, w := range windows {
		name := fmt.Sprintf(c.nameFormat, w.Year, w.Week)
		reqs = append(reqs, c.NewSprintRequest(name, w.Start, w.End, boardID, ""))
	}
	return reqs, nil
}

// CreateSprintsForYear creates one sprint per ISO week of year, starting at
// firstWeek. numWeeks of 0 runs through the end of the year. On failure the
// sprints created so far are returned along with the error.
func (c *Client) CreateSprintsForYear(ctx context.Context, boardID, year, firstWeek, numWeeks int) ([]*Sprint, error) {
	reqs, err := c.PlanSprintsForYear(boardID, year, firstWeek, numWeeks)
	if err != nil {
		return nil, err
	}

	created := make([]*Sprint, 0, len(reqs))
	for _, req := range reqs {
		sprint, err := c.CreateSprint(ctx, req)
		if err != nil {
			return created, err
		}
		c.logger.Info().Int("id", sprint.ID).Str("name", req.Name).Str("start", req.StartDate).Msg("sprint created")
		created = append(created, sprint)
	}
	return created, nil
}
