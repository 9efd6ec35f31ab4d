// Package client is the Go counterpart of the study-group SPA's data layer:
// a cookie-jar HTTP client over the server API and the session state machine
// that gates access to protected views.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/groupstudy/server/core/assignment"
	"github.com/groupstudy/server/core/submission"
)

// APIError is a non-2xx response decoded from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %d %s", e.StatusCode, e.Message)
}

type Client struct {
	baseURL string
	http    *http.Client
}

// New returns a Client against baseURL. The underlying cookie jar carries the
// session cookie issued by IssueToken across subsequent calls.
func New(baseURL string) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, errors.Wrap(err, "creating cookie jar")
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Jar:     jar,
			Timeout: 30 * time.Second,
		},
	}, nil
}

// IssueToken exchanges an authenticated identity's email for a session
// cookie. The token itself never appears in the response body.
func (c *Client) IssueToken(ctx context.Context, email string) error {
	body := map[string]string{"email": email}
	return c.do(ctx, http.MethodPost, "/jwt", body, nil)
}

// Assignments

func (c *Client) Assignments(ctx context.Context) ([]assignment.Assignment, error) {
	var assignments []assignment.Assignment
	err := c.do(ctx, http.MethodGet, "/assignments", nil, &assignments)
	return assignments, err
}

func (c *Client) SearchAssignments(ctx context.Context, q string) ([]assignment.Assignment, error) {
	var assignments []assignment.Assignment
	err := c.do(ctx, http.MethodGet, "/assignments/search?q="+url.QueryEscape(q), nil, &assignments)
	return assignments, err
}

func (c *Client) AssignmentsByDifficulty(ctx context.Context, level string) ([]assignment.Assignment, error) {
	var assignments []assignment.Assignment
	err := c.do(ctx, http.MethodGet, "/assignments/difficulty/"+level, nil, &assignments)
	return assignments, err
}

func (c *Client) Assignment(ctx context.Context, id string) (assignment.Assignment, error) {
	var a assignment.Assignment
	err := c.do(ctx, http.MethodGet, "/assignments/"+id, nil, &a)
	return a, err
}

func (c *Client) CreateAssignment(ctx context.Context, na assignment.NewAssignment) (string, error) {
	var resp struct {
		AssignmentID string `json:"assignmentId"`
	}
	err := c.do(ctx, http.MethodPost, "/assignments", na, &resp)
	return resp.AssignmentID, err
}

func (c *Client) UpdateAssignment(ctx context.Context, id string, ua assignment.UpdateAssignment) (assignment.Assignment, error) {
	var a assignment.Assignment
	err := c.do(ctx, http.MethodPut, "/assignments/"+id, ua, &a)
	return a, err
}

func (c *Client) DeleteAssignment(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/assignments/"+id, nil, nil)
}

// Submissions

func (c *Client) CreateSubmission(ctx context.Context, ns submission.NewSubmission) (string, error) {
	var resp struct {
		SubmissionID string `json:"submissionId"`
	}
	err := c.do(ctx, http.MethodPost, "/submissions", ns, &resp)
	return resp.SubmissionID, err
}

func (c *Client) MySubmissions(ctx context.Context, email string) ([]submission.Submission, error) {
	var submissions []submission.Submission
	err := c.do(ctx, http.MethodGet, "/submissions/by-email/"+email, nil, &submissions)
	return submissions, err
}

func (c *Client) PendingSubmissions(ctx context.Context, email string) ([]submission.Submission, error) {
	var submissions []submission.Submission
	err := c.do(ctx, http.MethodGet, "/submissions/pending/"+email, nil, &submissions)
	return submissions, err
}

func (c *Client) UpdateSubmission(ctx context.Context, id string, us submission.UpdateSubmission) (submission.Submission, error) {
	var s submission.Submission
	err := c.do(ctx, http.MethodPatch, "/submissions/"+id, us, &s)
	return s, err
}

// GradeSubmission applies the grading transition: marks, feedback and
// status=completed in one atomic update.
func (c *Client) GradeSubmission(ctx context.Context, id string, marks int, feedback string) (submission.Submission, error) {
	status := submission.StatusCompleted
	return c.UpdateSubmission(ctx, id, submission.UpdateSubmission{
		ObtainedMarks: &marks,
		Feedback:      &feedback,
		Status:        &status,
	})
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return errors.Wrap(err, "encoding request body")
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return errors.Wrap(err, "creating request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrapf(err, "%s %s", method, path)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return decodeAPIError(resp)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return errors.Wrap(err, "decoding response body")
		}
	}
	return nil
}

// decodeAPIError extracts a message from an error body; plain messages come
// as {"error": msg}, input errors as a {field: msg} map.
func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}

	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return apiErr
	}
	if msg, ok := body["error"]; ok {
		apiErr.Message = msg
		return apiErr
	}
	if msg, ok := body["message"]; ok {
		apiErr.Message = msg
		return apiErr
	}
	if len(body) > 0 { // field error map
		parts := make([]string, 0, len(body))
		for fld, msg := range body {
			parts = append(parts, fld+": "+msg)
		}
		apiErr.Message = strings.Join(parts, "; ")
	}
	return apiErr
}
