package client

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/groupstudy/server/core"
)

// State is the session lifecycle state. Resolution of the external identity
// is asynchronous, so consumers must handle the transient states explicitly
// instead of reading ad hoc user/loading flags.
type State int

const (
	StateUnknown State = iota
	StateResolving
	StateAuthenticated
	StateAnonymous
)

func (s State) String() string {
	switch s {
	case StateResolving:
		return "resolving"
	case StateAuthenticated:
		return "authenticated"
	case StateAnonymous:
		return "anonymous"
	}
	return "unknown"
}

// Identity is the signed-in identity delivered by the external provider.
type Identity struct {
	Email       string
	DisplayName string
}

// IdentityProvider is the external authentication boundary (eg. Firebase).
// Only its interface is in scope here.
type IdentityProvider interface {
	// OnIdentityChanged registers cb, invoked with the current identity on
	// registration and again on every sign-in/sign-out event; nil means
	// signed out. It returns an unregister function.
	OnIdentityChanged(cb func(*Identity)) (unsubscribe func())
	SignOut() error
}

// Session tracks the authenticated identity and exchanges it for a session
// cookie on sign-in. State moves Unknown -> Resolving -> Authenticated|Anonymous.
type Session struct {
	api    *Client
	logger core.Logger

	mu          sync.RWMutex
	state       State
	identity    *Identity
	subs        []chan State
	unsubscribe func()
}

// NewSession subscribes to the provider and starts resolving the identity.
func NewSession(provider IdentityProvider, api *Client, logger core.Logger) *Session {
	s := &Session{
		api:    api,
		logger: logger,
		state:  StateUnknown,
	}
	s.setState(StateResolving, nil)
	s.unsubscribe = provider.OnIdentityChanged(s.handleIdentity)
	return s
}

func (s *Session) handleIdentity(identity *Identity) {
	if identity == nil {
		s.setState(StateAnonymous, nil)
		return
	}
	s.setState(StateAuthenticated, identity)

	// exchange the identity for a session cookie, once per sign-in event.
	// Issuance failure is non-fatal: the identity stays authenticated and
	// protected calls will fail with 401 until the next sign-in.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.api.IssueToken(ctx, identity.Email); err != nil {
		s.logger.Warn(fmt.Sprintf("issuing session token: %v", err), err)
	}
}

// Logout clears the local identity state. The session cookie is not revoked
// server-side; it dies by expiry.
func (s *Session) Logout(provider IdentityProvider) {
	if err := provider.SignOut(); err != nil {
		s.logger.Warn(fmt.Sprintf("signing out: %v", err), err)
	}
	s.setState(StateAnonymous, nil)
}

func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *Session) Identity() *Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.identity
}

// Authenticated reports whether a protected view may be entered.
func (s *Session) Authenticated() bool {
	return s.State() == StateAuthenticated
}

// Subscribe is the single subscription point for state transitions. The
// channel is buffered; a subscriber that falls behind loses oldest events.
func (s *Session) Subscribe() <-chan State {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch := make(chan State, 8)
	s.subs = append(s.subs, ch)
	return ch
}

// Close detaches from the provider and closes all subscriptions.
func (s *Session) Close() {
	if s.unsubscribe != nil {
		s.unsubscribe()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ch := range s.subs {
		close(ch)
	}
	s.subs = nil
}

func (s *Session) setState(state State, identity *Identity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == state && identity == s.identity {
		return
	}
	s.state = state
	s.identity = identity
	for _, ch := range s.subs {
		select {
		case ch <- state:
		default: // drop for slow subscribers
		}
	}
}
