package jira

import "encoding/json"

// types.go - Data structures for the Jira agile and issue APIs

// IssueTypeID is the issue type every created issue gets.
const IssueTypeID = "10002"

// Page is one page of an agile API listing. Raw holds the body as the
// service sent it and is what the page marshals back to.
type Page[T any] struct {
	MaxResults int  `json:"maxResults"`
	StartAt    int  `json:"startAt"`
	Total      int  `json:"total,omitempty"`
	IsLast     bool `json:"isLast"`
	Values     []T  `json:"values"`

	Raw json.RawMessage `json:"-"`
}

func (p Page[T]) MarshalJSON() ([]byte, error) {
	if len(p.Raw) > 0 {
		return p.Raw, nil
	}
	return json.Marshal(struct {
		MaxResults int  `json:"maxResults"`
		StartAt    int  `json:"startAt"`
		Total      int  `json:"total,omitempty"`
		IsLast     bool `json:"isLast"`
		Values     []T  `json:"values"`
	}{p.MaxResults, p.StartAt, p.Total, p.IsLast, p.Values})
}

// Board is passed through verbatim.
type Board = json.RawMessage

// Sprint represents a Jira sprint
type Sprint struct {
	ID            int    `json:"id"`
	Self          string `json:"self,omitempty"`
	State         string `json:"state,omitempty"`
	Name          string `json:"name"`
	StartDate     string `json:"startDate,omitempty"`
	EndDate       string `json:"endDate,omitempty"`
	CompleteDate  string `json:"completeDate,omitempty"`
	OriginBoardID int    `json:"originBoardId"`
	Goal          string `json:"goal,omitempty"`

	// Raw is the sprint as received, including fields not mapped above.
	Raw json.RawMessage `json:"-"`
}

type sprintFields Sprint

func (s *Sprint) UnmarshalJSON(data []byte) error {
	var f sprintFields
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*s = Sprint(f)
	s.Raw = append(json.RawMessage(nil), data...)
	return nil
}

func (s Sprint) MarshalJSON() ([]byte, error) {
	if len(s.Raw) > 0 {
		return s.Raw, nil
	}
	return json.Marshal(sprintFields(s))
}

// SprintRequest is the body of a sprint creation call. A nil Goal is left
// out of the payload.
type SprintRequest struct {
	Name          string  `json:"name"`
	StartDate     string  `json:"startDate"`
	EndDate       string  `json:"endDate"`
	OriginBoardID int     `json:"originBoardId"`
	Goal          *string `json:"goal,omitempty"`
}

// CreatedIssue is the service's answer to an issue creation call.
type CreatedIssue struct {
	ID   string `json:"id"`
	Key  string `json:"key"`
	Self string `json:"self"`
}

// Issue creation payload
type issueRequest struct {
	Fields issueFields `json:"fields"`
}

type issueFields struct {
	Summary   string       `json:"summary"`
	DueDate   string       `json:"duedate"`
	Project   issueProject `json:"project"`
	IssueType issueType    `json:"issuetype"`
}

type issueProject struct {
	Key string `json:"key"`
}

type issueType struct {
	ID string `json:"id"`
}

// listOptions are the pagination hints sent with listing calls.
type listOptions struct {
	StartAt    int    `url:"startAt" json:"startAt"`
	MaxResults int    `url:"maxResults" json:"maxResults"`
	Type       string `url:"type,omitempty" json:"type,omitempty"`
}
