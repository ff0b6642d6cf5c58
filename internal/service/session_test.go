package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/mmcdole/newsdesk/internal/domain"
	"github.com/mmcdole/newsdesk/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAuthRepo struct {
	loginResult    *domain.AuthResult
	registerResult *domain.AuthResult
	me             *domain.User
	meErr          error
	meCalls        int
	changeCalls    int
	deleteCalls    int
	err            error
}

func (f *fakeAuthRepo) Login(ctx context.Context, email, password string) (*domain.AuthResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.loginResult, nil
}

func (f *fakeAuthRepo) Register(ctx context.Context, email, password, username string) (*domain.AuthResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.registerResult, nil
}

func (f *fakeAuthRepo) CurrentUser(ctx context.Context) (*domain.User, error) {
	f.meCalls++
	if f.meErr != nil {
		return nil, f.meErr
	}
	return f.me, nil
}

func (f *fakeAuthRepo) ChangePassword(ctx context.Context, currentPassword, newPassword string) error {
	f.changeCalls++
	return f.err
}

func (f *fakeAuthRepo) DeleteAccount(ctx context.Context, password string) error {
	f.deleteCalls++
	return f.err
}

func newCreds(t *testing.T, token string) *store.SessionStore {
	t.Helper()
	creds, err := store.NewSessionStore("", "")
	require.NoError(t, err)
	if token != "" {
		require.NoError(t, creds.SaveToken(token))
	}
	return creds
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "1",
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return token
}

func TestSessionInitialState(t *testing.T) {
	assert.Equal(t, Unauthenticated, NewSession(&fakeAuthRepo{}, newCreds(t, ""), nil).State())

	s := NewSession(&fakeAuthRepo{}, newCreds(t, "opaque"), nil)
	assert.Equal(t, Resolving, s.State())
	assert.True(t, s.IsResolving())
	assert.False(t, s.IsAuthenticated())
	assert.Nil(t, s.User(), "no user until the token is validated")
}

func TestSessionResolve(t *testing.T) {
	t.Run("valid token authenticates", func(t *testing.T) {
		repo := &fakeAuthRepo{me: &domain.User{ID: 1, Email: "a@b.c", Username: "a"}}
		s := NewSession(repo, newCreds(t, "opaque"), nil)

		var seen []SessionState
		s.Subscribe(func(st SessionState) { seen = append(seen, st) })

		require.NoError(t, s.Resolve(context.Background()))
		assert.True(t, s.IsAuthenticated())
		assert.Equal(t, "a", s.User().Username)
		assert.Equal(t, []SessionState{Authenticated}, seen)
	})

	t.Run("rejected token is purged", func(t *testing.T) {
		repo := &fakeAuthRepo{meErr: domain.ErrUnauthorized}
		creds := newCreds(t, "opaque")
		s := NewSession(repo, creds, nil)

		assert.ErrorIs(t, s.Resolve(context.Background()), domain.ErrUnauthorized)
		assert.Equal(t, Unauthenticated, s.State())
		_, ok := creds.Token()
		assert.False(t, ok)
	})

	t.Run("offline keeps token for next run", func(t *testing.T) {
		repo := &fakeAuthRepo{meErr: domain.ErrServerOffline}
		creds := newCreds(t, "opaque")
		s := NewSession(repo, creds, nil)

		assert.ErrorIs(t, s.Resolve(context.Background()), domain.ErrServerOffline)
		assert.Equal(t, Unauthenticated, s.State())
		_, ok := creds.Token()
		assert.True(t, ok)
	})

	t.Run("expired jwt is purged without a request", func(t *testing.T) {
		repo := &fakeAuthRepo{me: &domain.User{ID: 1}}
		creds := newCreds(t, signedToken(t, time.Now().Add(-time.Hour)))
		s := NewSession(repo, creds, nil)

		assert.ErrorIs(t, s.Resolve(context.Background()), domain.ErrUnauthorized)
		assert.Zero(t, repo.meCalls)
		_, ok := creds.Token()
		assert.False(t, ok)
	})

	t.Run("live jwt is validated by the server", func(t *testing.T) {
		repo := &fakeAuthRepo{me: &domain.User{ID: 1}}
		s := NewSession(repo, newCreds(t, signedToken(t, time.Now().Add(time.Hour))), nil)

		require.NoError(t, s.Resolve(context.Background()))
		assert.Equal(t, 1, repo.meCalls)
		assert.True(t, s.IsAuthenticated())
	})

	t.Run("no-op when not resolving", func(t *testing.T) {
		repo := &fakeAuthRepo{}
		s := NewSession(repo, newCreds(t, ""), nil)
		require.NoError(t, s.Resolve(context.Background()))
		assert.Zero(t, repo.meCalls)
	})
}

func TestSessionLoginLogout(t *testing.T) {
	repo := &fakeAuthRepo{loginResult: &domain.AuthResult{
		Token: "tok",
		User:  domain.User{ID: 2, Email: "u@x.io", Username: "u"},
	}}
	creds := newCreds(t, "")
	s := NewSession(repo, creds, nil)

	user, err := s.Login(context.Background(), " u@x.io ", "secret")
	require.NoError(t, err)
	assert.Equal(t, int64(2), user.ID)
	assert.True(t, s.IsAuthenticated())
	token, _ := creds.Token()
	assert.Equal(t, "tok", token)

	require.NoError(t, s.Logout())
	assert.False(t, s.IsAuthenticated())
	assert.Nil(t, s.User())
	_, ok := creds.Token()
	assert.False(t, ok, "no durable token after logout")
}

func TestSessionLoginFailureStaysLoggedOut(t *testing.T) {
	repo := &fakeAuthRepo{err: &domain.APIError{Status: 401, Message: "bad credentials", Path: "/auth/login"}}
	s := NewSession(repo, newCreds(t, ""), nil)

	_, err := s.Login(context.Background(), "u@x.io", "wrong")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.Equal(t, "bad credentials", domain.UserMessage(err, "fallback"))
	assert.Equal(t, Unauthenticated, s.State())

	_, err = s.Login(context.Background(), "", "")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestSessionRegister(t *testing.T) {
	tests := []struct {
		name     string
		in       RegisterInput
		result   *domain.AuthResult
		wantErr  string
		loggedIn bool
	}{
		{
			name:    "short password",
			in:      RegisterInput{Email: "a@b.c", Username: "a", Password: "12345", Confirm: "12345"},
			wantErr: "Password must be at least 6 characters",
		},
		{
			name:    "mismatched confirmation",
			in:      RegisterInput{Email: "a@b.c", Username: "a", Password: "123456", Confirm: "123457"},
			wantErr: "Passwords do not match",
		},
		{
			name:   "no token leaves session logged out",
			in:     RegisterInput{Email: "a@b.c", Username: "a", Password: "123456", Confirm: "123456"},
			result: &domain.AuthResult{User: domain.User{ID: 3}},
		},
		{
			name:     "token logs in",
			in:       RegisterInput{Email: "a@b.c", Username: "a", Password: "123456", Confirm: "123456"},
			result:   &domain.AuthResult{Token: "t", User: domain.User{ID: 3}},
			loggedIn: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSession(&fakeAuthRepo{registerResult: tt.result}, newCreds(t, ""), nil)
			loggedIn, err := s.Register(context.Background(), tt.in)
			if tt.wantErr != "" {
				assert.ErrorIs(t, err, domain.ErrValidation)
				assert.EqualError(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.loggedIn, loggedIn)
			assert.Equal(t, tt.loggedIn, s.IsAuthenticated())
		})
	}
}

func authenticatedSession(t *testing.T, repo *fakeAuthRepo) (*Session, *store.SessionStore) {
	t.Helper()
	repo.loginResult = &domain.AuthResult{Token: "tok", User: domain.User{ID: 1}}
	creds := newCreds(t, "")
	s := NewSession(repo, creds, nil)
	_, err := s.Login(context.Background(), "a@b.c", "secret")
	require.NoError(t, err)
	return s, creds
}

func TestSessionChangePassword(t *testing.T) {
	repo := &fakeAuthRepo{}
	s, _ := authenticatedSession(t, repo)
	ctx := context.Background()

	assert.EqualError(t, s.ChangePassword(ctx, "", "abcdef", "abcdef"), "All fields are required")
	assert.EqualError(t, s.ChangePassword(ctx, "old", "abcdef", "abcdeg"), "New passwords do not match")
	assert.EqualError(t, s.ChangePassword(ctx, "old", "abc", "abc"), "Password must be at least 6 characters")
	assert.Zero(t, repo.changeCalls)

	require.NoError(t, s.ChangePassword(ctx, "old", "abcdef", "abcdef"))
	assert.Equal(t, 1, repo.changeCalls)
	assert.True(t, s.IsAuthenticated())
}

func TestSessionDeleteAccountLogsOut(t *testing.T) {
	repo := &fakeAuthRepo{}
	s, creds := authenticatedSession(t, repo)

	require.NoError(t, s.DeleteAccount(context.Background(), "pw"))
	assert.Equal(t, 1, repo.deleteCalls)
	assert.False(t, s.IsAuthenticated())
	_, ok := creds.Token()
	assert.False(t, ok)
}

func TestSessionDeleteAccountFailureKeepsSession(t *testing.T) {
	repo := &fakeAuthRepo{}
	s, _ := authenticatedSession(t, repo)
	repo.err = errors.New("wrong password")

	assert.Error(t, s.DeleteAccount(context.Background(), "pw"))
	assert.True(t, s.IsAuthenticated())
}

func TestSessionHandleUnauthorized(t *testing.T) {
	s, creds := authenticatedSession(t, &fakeAuthRepo{})

	var seen []SessionState
	unsubscribe := s.Subscribe(func(st SessionState) { seen = append(seen, st) })
	s.HandleUnauthorized()
	unsubscribe()
	s.HandleUnauthorized()

	assert.Equal(t, []SessionState{Unauthenticated}, seen)
	assert.Nil(t, s.User())
	_, ok := creds.Token()
	assert.False(t, ok)
}

func TestSessionProtectedActionsRequireLogin(t *testing.T) {
	s := NewSession(&fakeAuthRepo{}, newCreds(t, ""), nil)
	assert.ErrorIs(t, s.ChangePassword(context.Background(), "a", "bbbbbb", "bbbbbb"), domain.ErrLoginRequired)
	assert.ErrorIs(t, s.DeleteAccount(context.Background(), "a"), domain.ErrLoginRequired)
}
