package store

import (
	"context"
	"sync"

	"bookbazaar/internal/api"
	"bookbazaar/internal/model"
	"bookbazaar/internal/notify"
)

// Session fallback strings, used when the server response carries no message.
const (
	fallbackRegisterFailed = "Registration failed!"
	fallbackLoginFailed    = "Login failed!"
	fallbackLogoutFailed   = "Logout failed!"

	msgRegistered = "Account created successfully"
	msgLoggedIn   = "Login successful"
	msgLoggedOut  = "Logout successful"
)

// SessionState is the point-in-time view of the authentication slice.
// Invariant: IsAuthenticated is true exactly when AuthUser is non-nil,
// with one exception: a failed Logout leaves IsAuthenticated untouched
// while recording the error.
type SessionState struct {
	AuthUser        *model.User
	IsAuthenticated bool
	Loading         bool
	Err             string
	Message         string
}

// Session holds the current authentication identity and status. All writes
// happen inside its own operations; readers use Snapshot.
type Session struct {
	mu     sync.Mutex
	state  SessionState
	client SessionClient
	sink   notify.Sink
}

func NewSession(client SessionClient, sink notify.Sink) *Session {
	return &Session{client: client, sink: sink}
}

// Snapshot returns a copy of the current state safe to render from.
func (s *Session) Snapshot() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state
	if st.AuthUser != nil {
		u := *st.AuthUser
		st.AuthUser = &u
	}
	return st
}

// Register creates an account and, on success, signs the session in.
func (s *Session) Register(ctx context.Context, email, password string) error {
	s.pending()

	user, msg, err := s.client.Register(ctx, model.Credentials{Email: email, Password: password})
	if err != nil {
		text := api.ErrorMessage(err, fallbackRegisterFailed)
		s.authFailed(text)
		s.sink.Error(text)
		return err
	}

	s.authSucceeded(user)
	s.sink.Success(messageOr(msg, msgRegistered))
	return nil
}

// Login authenticates against an existing account.
func (s *Session) Login(ctx context.Context, email, password string) error {
	s.pending()

	user, msg, err := s.client.Login(ctx, model.Credentials{Email: email, Password: password})
	if err != nil {
		text := api.ErrorMessage(err, fallbackLoginFailed)
		s.authFailed(text)
		s.sink.Error(text)
		return err
	}

	s.authSucceeded(user)
	s.sink.Success(messageOr(msg, msgLoggedIn))
	return nil
}

// Logout ends the session. It has no pending phase: the call fires directly.
// On failure the error is recorded but IsAuthenticated is left as-is.
func (s *Session) Logout(ctx context.Context) error {
	msg, err := s.client.Logout(ctx)
	if err != nil {
		text := api.ErrorMessage(err, fallbackLogoutFailed)
		s.mu.Lock()
		s.state.Loading = false
		s.state.Err = text
		s.mu.Unlock()
		s.sink.Error(text)
		return err
	}

	s.mu.Lock()
	s.state = SessionState{Message: msg}
	s.mu.Unlock()
	s.sink.Success(messageOr(msg, msgLoggedOut))
	return nil
}

// LoadCurrentUser is the silent "am I logged in" probe run once at startup.
// Success behaves like Login; failure clears the session without notifying.
func (s *Session) LoadCurrentUser(ctx context.Context) error {
	s.pending()

	user, err := s.client.CurrentUser(ctx)
	if err != nil {
		s.authFailed(api.ErrorMessage(err, ""))
		return err
	}

	s.authSucceeded(user)
	return nil
}

// ClearErrors resets the error field. Synchronous, no network call.
func (s *Session) ClearErrors() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Err = ""
}

func (s *Session) pending() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Loading = true
	s.state.Err = ""
}

func (s *Session) authSucceeded(user *model.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Loading = false
	s.state.AuthUser = user
	s.state.IsAuthenticated = user != nil
	s.state.Err = ""
}

func (s *Session) authFailed(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Loading = false
	s.state.AuthUser = nil
	s.state.IsAuthenticated = false
	s.state.Err = text
}
