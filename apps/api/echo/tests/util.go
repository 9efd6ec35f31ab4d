package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"

	. "github.com/groupstudy/server/apps/api/echo"
	"github.com/groupstudy/server/core"
	"github.com/groupstudy/server/core/assignment"
	"github.com/groupstudy/server/core/submission"
	logsvc "github.com/groupstudy/server/services/logger"
	inmemdb "github.com/groupstudy/server/storage/database/inmem"
)

var errMissingToken = httpErr{Error: "missing or malformed jwt"}

type testEnv struct {
	app            *Server
	assignmentRepo assignment.Repository
	submissionRepo submission.Repository
}

func setup(t *testing.T) testEnv {
	db, err := inmemdb.Open()
	if err != nil {
		t.Fatalf("setup(): %v", err)
	}
	assignmentRepo := inmemdb.NewAssignmentRepository(db)
	submissionRepo := inmemdb.NewSubmissionRepository(db)

	conf := core.Conf
	conf.Debug = false
	conf.TestMode = true

	validate := validator.New()
	translator := newTranslator()
	core.InitValidators(validate, translator)
	assignment.InitValidators(validate, translator)

	app := NewServer(ServerDeps{
		Conf:           conf,
		Logger:         logsvc.NewConsoleLogger(log.New(io.Discard, "", 0)),
		AssignmentSvc:  assignment.NewService(assignmentRepo),
		SubmissionSvc:  submission.NewService(submissionRepo),
		Validate:       validate,
		Translator:     translator,
		DisableReqLogs: true,
	})
	return testEnv{app: app, assignmentRepo: assignmentRepo, submissionRepo: submissionRepo}
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
	extra    interface{}
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.AddCookie(&http.Cookie{Name: "token", Value: token})
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func getToken(t *testing.T, email string) string {
	claims := GetIdentityClaims(email)
	token, err := GenerateToken(claims)
	if err != nil {
		t.Fatalf("getToken(): %v", err)
	}
	return token
}

func createAssignment(t *testing.T, repo assignment.Repository, title, description string, marks int, difficulty, email string) assignment.Assignment {
	svc := assignment.NewService(repo)
	a, err := svc.Create(context.Background(), assignment.NewAssignment{
		Title:       title,
		Description: description,
		Marks:       marks,
		Difficulty:  difficulty,
		Email:       email,
	})
	if err != nil {
		t.Fatalf("createAssignment(): %v", err)
	}
	return a
}

func createSubmission(t *testing.T, repo submission.Repository, assignmentID, submittedBy string) submission.Submission {
	svc := submission.NewService(repo)
	s, err := svc.Create(context.Background(), submission.NewSubmission{
		AssignmentID: assignmentID,
		SubmittedBy:  submittedBy,
	})
	if err != nil {
		t.Fatalf("createSubmission(): %v", err)
	}
	return s
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj(): %v", err)
	}
	return data
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	if j1 == nil || j2 == nil {
		return false, nil
	}
	return assert.ElementsMatch(t, j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
