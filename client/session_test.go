package client_test

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/groupstudy/server/client"
	logsvc "github.com/groupstudy/server/services/logger"
)

// fakeProvider is a controllable IdentityProvider for session tests.
type fakeProvider struct {
	mu       sync.Mutex
	cb       func(*client.Identity)
	current  *client.Identity
	signOuts int
}

func (p *fakeProvider) OnIdentityChanged(cb func(*client.Identity)) func() {
	p.mu.Lock()
	p.cb = cb
	current := p.current
	p.mu.Unlock()

	cb(current)
	return func() {
		p.mu.Lock()
		p.cb = nil
		p.mu.Unlock()
	}
}

func (p *fakeProvider) SignOut() error {
	p.mu.Lock()
	p.signOuts++
	p.current = nil
	p.mu.Unlock()
	return nil
}

func (p *fakeProvider) signIn(identity *client.Identity) {
	p.mu.Lock()
	p.current = identity
	cb := p.cb
	p.mu.Unlock()
	if cb != nil {
		cb(identity)
	}
}

func discardLogger() *logsvc.ConsoleLogger {
	return logsvc.NewConsoleLogger(log.New(io.Discard, "", 0))
}

func newAPIClient(t *testing.T, baseURL string) *client.Client {
	api, err := client.New(baseURL)
	if err != nil {
		t.Fatalf("client.New(): %v", err)
	}
	return api
}

func TestSessionStateMachine(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	provider := &fakeProvider{} // starts signed out
	session := client.NewSession(provider, newAPIClient(t, srv.URL), discardLogger())
	defer session.Close()

	if got := session.State(); got != client.StateAnonymous {
		t.Fatalf("initial state = %v; want anonymous", got)
	}
	if session.Authenticated() {
		t.Fatal("anonymous session must not be authenticated")
	}

	states := session.Subscribe()

	provider.signIn(&client.Identity{Email: "prof@x.com", DisplayName: "Prof"})
	if got := <-states; got != client.StateAuthenticated {
		t.Fatalf("state after sign-in = %v; want authenticated", got)
	}
	if !session.Authenticated() {
		t.Error("signed-in session must be authenticated")
	}
	if identity := session.Identity(); identity == nil || identity.Email != "prof@x.com" {
		t.Errorf("identity = %+v; want prof@x.com", identity)
	}

	session.Logout(provider)
	if got := <-states; got != client.StateAnonymous {
		t.Fatalf("state after logout = %v; want anonymous", got)
	}
	if provider.signOuts != 1 {
		t.Errorf("provider sign-outs = %d; want 1", provider.signOuts)
	}
	if session.Identity() != nil {
		t.Error("identity must be cleared on logout")
	}

	session.Close()
	if _, open := <-states; open {
		t.Error("subscription channel must be closed on Close")
	}
}

func TestSessionTokenIssuance(t *testing.T) {
	var mu sync.Mutex
	var issued []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/jwt" {
			http.NotFound(w, r)
			return
		}
		var body struct {
			Email string `json:"email"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		mu.Lock()
		issued = append(issued, body.Email)
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	provider := &fakeProvider{current: &client.Identity{Email: "prof@x.com"}}
	session := client.NewSession(provider, newAPIClient(t, srv.URL), discardLogger())
	defer session.Close()

	// resolution is synchronous with the provider callback
	if !session.Authenticated() {
		t.Fatal("session must resolve to authenticated")
	}
	mu.Lock()
	got := append([]string(nil), issued...)
	mu.Unlock()
	if len(got) != 1 || got[0] != "prof@x.com" {
		t.Errorf("issued tokens = %v; want one for prof@x.com", got)
	}
}

func TestSessionTokenIssuanceFailureIsNonFatal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": "boom"}`, http.StatusInternalServerError)
	}))
	defer srv.Close()

	provider := &fakeProvider{}
	session := client.NewSession(provider, newAPIClient(t, srv.URL), discardLogger())
	defer session.Close()

	provider.signIn(&client.Identity{Email: "prof@x.com"})
	if !session.Authenticated() {
		t.Error("token issuance failure must not flip the session to anonymous")
	}
}
