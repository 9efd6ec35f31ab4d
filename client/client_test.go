package client_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	echoapi "github.com/groupstudy/server/apps/api/echo"
	"github.com/groupstudy/server/client"
	"github.com/groupstudy/server/core"
	"github.com/groupstudy/server/core/assignment"
	"github.com/groupstudy/server/core/submission"
	inmemdb "github.com/groupstudy/server/storage/database/inmem"
)

func newTestServer(t *testing.T) *httptest.Server {
	db, err := inmemdb.Open()
	if err != nil {
		t.Fatalf("inmemdb.Open(): %v", err)
	}

	conf := core.Conf
	conf.Debug = false
	conf.TestMode = true

	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	validate := validator.New()
	core.InitValidators(validate, translator)
	assignment.InitValidators(validate, translator)

	app := echoapi.NewServer(echoapi.ServerDeps{
		Conf:           conf,
		Logger:         discardLogger(),
		AssignmentSvc:  assignment.NewService(inmemdb.NewAssignmentRepository(db)),
		SubmissionSvc:  submission.NewService(inmemdb.NewSubmissionRepository(db)),
		Validate:       validate,
		Translator:     translator,
		DisableReqLogs: true,
	})

	srv := httptest.NewServer(app)
	t.Cleanup(srv.Close)
	return srv
}

func wantAPIError(t *testing.T, err error, code int, message string) {
	t.Helper()
	apiErr, ok := err.(*client.APIError)
	if !ok {
		t.Fatalf("err = %v; want *APIError", err)
	}
	if apiErr.StatusCode != code {
		t.Errorf("status = %d; want %d", apiErr.StatusCode, code)
	}
	if message != "" && apiErr.Message != message {
		t.Errorf("message = %q; want %q", apiErr.Message, message)
	}
}

func TestClientEndToEnd(t *testing.T) {
	ctx := context.Background()
	srv := newTestServer(t)
	api := newAPIClient(t, srv.URL)

	if err := api.IssueToken(ctx, "prof@x.com"); err != nil {
		t.Fatalf("IssueToken(): %v", err)
	}

	// publish an assignment and find it back
	id, err := api.CreateAssignment(ctx, assignment.NewAssignment{
		Title:          "Algebra",
		Description:    "Solve 10 problems on linear algebra basics",
		Marks:          50,
		Difficulty:     "easy",
		Email:          "prof@x.com",
		Username:       "Prof",
		SubmissionDate: time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("CreateAssignment(): %v", err)
	}

	a, err := api.Assignment(ctx, id)
	if err != nil || a.Title != "Algebra" {
		t.Fatalf("Assignment() = %+v, %v", a, err)
	}
	found, err := api.SearchAssignments(ctx, "algebra")
	if err != nil || len(found) != 1 {
		t.Errorf("SearchAssignments() = %d, %v; want 1", len(found), err)
	}
	easy, err := api.AssignmentsByDifficulty(ctx, "easy")
	if err != nil || len(easy) != 1 {
		t.Errorf("AssignmentsByDifficulty() = %d, %v; want 1", len(easy), err)
	}

	// take the assignment once; the second take conflicts
	ns := submission.NewSubmission{
		AssignmentID:    id,
		AssignmentTitle: a.Title,
		ExamineeName:    "Prof",
		SubmittedBy:     "prof@x.com",
		TotalMarks:      a.Marks,
	}
	sid, err := api.CreateSubmission(ctx, ns)
	if err != nil {
		t.Fatalf("CreateSubmission(): %v", err)
	}
	_, err = api.CreateSubmission(ctx, ns)
	wantAPIError(t, err, http.StatusConflict, "assignment is already taken")

	pending, err := api.PendingSubmissions(ctx, "prof@x.com")
	if err != nil || len(pending) != 1 {
		t.Fatalf("PendingSubmissions() = %d, %v; want 1", len(pending), err)
	}

	// grading completes the submission and empties the pending view
	graded, err := api.GradeSubmission(ctx, sid, 45, "well done")
	if err != nil {
		t.Fatalf("GradeSubmission(): %v", err)
	}
	if graded.Status != submission.StatusCompleted || graded.ObtainedMarks == nil || *graded.ObtainedMarks != 45 {
		t.Errorf("graded = %+v; want completed with 45 marks", graded)
	}
	pending, err = api.PendingSubmissions(ctx, "prof@x.com")
	if err != nil || len(pending) != 0 {
		t.Errorf("PendingSubmissions(after grading) = %d, %v; want 0", len(pending), err)
	}
	mine, err := api.MySubmissions(ctx, "prof@x.com")
	if err != nil || len(mine) != 1 || mine[0].Feedback == nil || *mine[0].Feedback != "well done" {
		t.Errorf("MySubmissions() = %+v, %v; want the graded submission", mine, err)
	}

	// submission views are scoped to the cookie's identity
	_, err = api.PendingSubmissions(ctx, "other@x.com")
	wantAPIError(t, err, http.StatusForbidden, "forbidden access")

	if err = api.DeleteAssignment(ctx, id); err != nil {
		t.Fatalf("DeleteAssignment(): %v", err)
	}
	_, err = api.Assignment(ctx, id)
	wantAPIError(t, err, http.StatusNotFound, "not found")
}

func TestClientWithoutSessionCookie(t *testing.T) {
	ctx := context.Background()
	srv := newTestServer(t)
	api := newAPIClient(t, srv.URL)

	// reads are open
	if _, err := api.Assignments(ctx); err != nil {
		t.Errorf("Assignments(): %v", err)
	}

	// submission views are not
	_, err := api.PendingSubmissions(ctx, "prof@x.com")
	wantAPIError(t, err, http.StatusUnauthorized, "missing or malformed jwt")
}
