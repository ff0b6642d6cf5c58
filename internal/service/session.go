package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/mmcdole/newsdesk/internal/domain"
)

// minPasswordLength is the shortest password the forms accept
const minPasswordLength = 6

// SessionState is the authentication state of the client
type SessionState int

const (
	// Unauthenticated means no token is held
	Unauthenticated SessionState = iota
	// Resolving means a stored token exists but has not been validated yet
	Resolving
	// Authenticated means the token was validated and the user is known
	Authenticated
)

func (s SessionState) String() string {
	switch s {
	case Unauthenticated:
		return "unauthenticated"
	case Resolving:
		return "resolving"
	case Authenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// RegisterInput holds the registration form
type RegisterInput struct {
	Email    string
	Username string
	Password string
	Confirm  string
}

// Session owns the authentication state. It is built once per process run
// and passed to every consumer; logging out tears the whole run down.
type Session struct {
	repo   domain.AuthRepository
	creds  domain.TokenStore
	logger *slog.Logger
	now    func() time.Time

	mu        sync.RWMutex
	state     SessionState
	user      *domain.User
	observers map[int]func(SessionState)
	nextObsID int
}

// NewSession creates a session from the stored credentials. The session
// starts Resolving when a token is stored and Unauthenticated otherwise.
func NewSession(repo domain.AuthRepository, creds domain.TokenStore, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Session{
		repo:      repo,
		creds:     creds,
		logger:    logger,
		now:       time.Now,
		state:     Unauthenticated,
		observers: make(map[int]func(SessionState)),
	}
	if _, ok := creds.Token(); ok {
		s.state = Resolving
	}
	return s
}

// State returns the current state
func (s *Session) State() SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// IsAuthenticated reports whether the session holds a validated token
func (s *Session) IsAuthenticated() bool {
	return s.State() == Authenticated
}

// IsResolving reports whether a stored token is still being validated.
// Callers must not treat this as logged out.
func (s *Session) IsResolving() bool {
	return s.State() == Resolving
}

// User returns the authenticated user, or nil unless Authenticated
func (s *Session) User() *domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// Subscribe registers fn for state changes and returns a function that
// removes it. fn runs outside the session lock.
func (s *Session) Subscribe(fn func(SessionState)) func() {
	s.mu.Lock()
	id := s.nextObsID
	s.nextObsID++
	s.observers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.observers, id)
		s.mu.Unlock()
	}
}

// transition sets the state and user, then notifies observers on change
func (s *Session) transition(state SessionState, user *domain.User) {
	s.mu.Lock()
	changed := s.state != state
	s.state = state
	s.user = user
	observers := make([]func(SessionState), 0, len(s.observers))
	for _, fn := range s.observers {
		observers = append(observers, fn)
	}
	s.mu.Unlock()

	if !changed {
		return
	}
	s.logger.Info("session state changed", "state", state.String())
	for _, fn := range observers {
		fn(state)
	}
}

// Resolve validates the stored token. It is a no-op unless Resolving.
//
//	Resolving -> Authenticated    the server returns the profile
//	Resolving -> Unauthenticated  the token is expired or rejected; it is purged
//	Resolving -> Unauthenticated  the server is unreachable or ctx is canceled;
//	                              the token is kept for the next run
func (s *Session) Resolve(ctx context.Context) error {
	if s.State() != Resolving {
		return nil
	}

	token, ok := s.creds.Token()
	if !ok {
		s.transition(Unauthenticated, nil)
		return nil
	}

	if tokenExpired(token, s.now()) {
		s.logger.Info("stored token expired")
		s.purge()
		return domain.ErrUnauthorized
	}

	user, err := s.repo.CurrentUser(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrServerOffline) || errors.Is(err, context.Canceled) {
			s.logger.Warn("could not validate token", "error", err)
			s.transition(Unauthenticated, nil)
			return err
		}
		s.logger.Info("stored token rejected", "error", err)
		s.purge()
		return err
	}

	s.transition(Authenticated, user)
	return nil
}

// tokenExpired reports whether token is a JWT whose exp claim has passed.
// Opaque tokens are left for the server to judge.
func tokenExpired(token string, now time.Time) bool {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	return claims.ExpiresAt != nil && !claims.ExpiresAt.After(now)
}

// Login authenticates with email and password
func (s *Session) Login(ctx context.Context, email, password string) (*domain.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, &domain.ValidationError{Field: "email", Message: "Email and password are required"}
	}

	res, err := s.repo.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if res.Token == "" {
		return nil, errors.New("login response carried no token")
	}

	if err := s.establish(res); err != nil {
		return nil, err
	}
	return s.User(), nil
}

// Register creates an account and logs in when the server hands back a
// token. It returns true when the new account is now logged in.
func (s *Session) Register(ctx context.Context, in RegisterInput) (bool, error) {
	in.Email = strings.TrimSpace(in.Email)
	in.Username = strings.TrimSpace(in.Username)
	switch {
	case in.Email == "" || in.Username == "" || in.Password == "":
		return false, &domain.ValidationError{Field: "email", Message: "All fields are required"}
	case len(in.Password) < minPasswordLength:
		return false, &domain.ValidationError{Field: "password", Message: "Password must be at least 6 characters"}
	case in.Password != in.Confirm:
		return false, &domain.ValidationError{Field: "confirm", Message: "Passwords do not match"}
	}

	res, err := s.repo.Register(ctx, in.Email, in.Password, in.Username)
	if err != nil {
		return false, err
	}
	if res.Token == "" {
		s.logger.Info("registered without login", "email", in.Email)
		return false, nil
	}
	if err := s.establish(res); err != nil {
		return false, err
	}
	return true, nil
}

// establish persists the token and enters Authenticated
func (s *Session) establish(res *domain.AuthResult) error {
	if err := s.creds.SaveToken(res.Token); err != nil {
		return err
	}
	user := res.User
	s.transition(Authenticated, &user)
	return nil
}

// Logout purges the token and clears the user. The caller is expected to
// discard all in-memory state afterwards (see domain.ErrSessionReset).
func (s *Session) Logout() error {
	err := s.creds.ClearToken()
	s.transition(Unauthenticated, nil)
	return err
}

// purge drops the token and the user after a rejected token
func (s *Session) purge() {
	if err := s.creds.ClearToken(); err != nil {
		s.logger.Error("failed to clear token", "error", err)
	}
	s.transition(Unauthenticated, nil)
}

// HandleUnauthorized is the hook the API client runs when the server ends
// the session. The client has already purged the token.
func (s *Session) HandleUnauthorized() {
	s.purge()
}

// ChangePassword validates the form and updates the password
func (s *Session) ChangePassword(ctx context.Context, current, next, confirm string) error {
	switch {
	case !s.IsAuthenticated():
		return domain.ErrLoginRequired
	case current == "" || next == "" || confirm == "":
		return &domain.ValidationError{Field: "current", Message: "All fields are required"}
	case next != confirm:
		return &domain.ValidationError{Field: "confirm", Message: "New passwords do not match"}
	case len(next) < minPasswordLength:
		return &domain.ValidationError{Field: "new", Message: "Password must be at least 6 characters"}
	}
	return s.repo.ChangePassword(ctx, current, next)
}

// DeleteAccount deletes the account and logs out
func (s *Session) DeleteAccount(ctx context.Context, password string) error {
	if !s.IsAuthenticated() {
		return domain.ErrLoginRequired
	}
	if password == "" {
		return &domain.ValidationError{Field: "password", Message: "Password is required"}
	}
	if err := s.repo.DeleteAccount(ctx, password); err != nil {
		return err
	}
	return s.Logout()
}
