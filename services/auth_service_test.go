package services

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"cloud.google.com/go/auth/credentials/idtoken"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/vnkhanh/kids-story-backend/models"
	apperrors "github.com/vnkhanh/kids-story-backend/pkg/errors"
	"github.com/vnkhanh/kids-story-backend/pkg/logger"
	"github.com/vnkhanh/kids-story-backend/repository"
	"github.com/vnkhanh/kids-story-backend/utils"
)

type memAccounts struct {
	mu       sync.Mutex
	users    map[string]*models.User
	sessions map[uuid.UUID]*models.Session
}

func newMemAccounts() *memAccounts {
	return &memAccounts{users: map[string]*models.User{}, sessions: map[uuid.UUID]*models.Session{}}
}

var _ repository.AccountStore = (*memAccounts)(nil)

func (m *memAccounts) FindUserByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[email]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memAccounts) CreateUser(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	cp := *user
	m.users[user.Email] = &cp
	return nil
}

func (m *memAccounts) CreateSession(_ context.Context, session *models.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *session
	m.sessions[session.ID] = &cp
	return nil
}

func (m *memAccounts) GetSession(_ context.Context, id uuid.UUID) (*models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *s
	for _, u := range m.users {
		if u.ID == s.UserID {
			cp.User = *u
		}
	}
	return &cp, nil
}

func (m *memAccounts) ExtendSession(_ context.Context, id uuid.UUID, expiresAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return repository.ErrNotFound
	}
	s.ExpiresAt = expiresAt
	return nil
}

func (m *memAccounts) DeleteSession(_ context.Context, id uuid.UUID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return 0, nil
	}
	delete(m.sessions, id)
	return 1, nil
}

func (m *memAccounts) DeleteExpiredSessions(_ context.Context, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for id, s := range m.sessions {
		if s.ExpiresAt.Before(now) {
			delete(m.sessions, id)
			n++
		}
	}
	return n, nil
}

type sessionEvent struct {
	userID uuid.UUID
	event  SessionEvent
}

type recordingNotifier struct {
	events []sessionEvent
}

func (r *recordingNotifier) NotifySession(userID uuid.UUID, event SessionEvent, session *Session) {
	if session != nil && session.Token != "" {
		panic("token leaked into notification")
	}
	r.events = append(r.events, sessionEvent{userID, event})
}

func newTestAuth(t *testing.T) (*AuthService, *memAccounts, *recordingNotifier) {
	t.Helper()
	accounts := newMemAccounts()
	notifier := &recordingNotifier{}

	auth := NewAuthService(accounts, utils.NewJWT("test-secret"), notifier, AuthConfig{
		SessionTTL:     time.Hour,
		GoogleClientID: "client-id",
		AdminEmails:    []string{" Boss@Example.com "},
	}, logger.NewNop())
	return auth, accounts, notifier
}

func addPasswordUser(t *testing.T, accounts *memAccounts, email, password string, role models.UserRole) *models.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{ID: uuid.New(), Email: email, Password: string(hashed), Provider: ProviderPassword, Role: role}
	require.NoError(t, accounts.CreateUser(context.Background(), user))
	return user
}

func TestSignIn(t *testing.T) {
	auth, accounts, notifier := newTestAuth(t)
	user := addPasswordUser(t, accounts, "editor@example.com", "secret123", models.RoleEditor)

	session, err := auth.SignIn(context.Background(), " Editor@Example.com", "secret123", ClientMeta{IPAddress: "10.0.0.1"})
	require.NoError(t, err)

	assert.Equal(t, user.ID, session.UserID)
	assert.Equal(t, models.RoleEditor, session.Role)
	assert.NotEmpty(t, session.Token)
	assert.True(t, session.CanAuthor())
	assert.Equal(t, []sessionEvent{{user.ID, EventSignedIn}}, notifier.events)

	current, err := auth.CurrentSession(context.Background(), session.Token)
	require.NoError(t, err)
	assert.Equal(t, session.ID, current.ID)
	assert.Equal(t, "editor@example.com", current.Email)
}

func TestSignIn_BadCredentials(t *testing.T) {
	auth, accounts, _ := newTestAuth(t)
	addPasswordUser(t, accounts, "editor@example.com", "secret123", models.RoleEditor)
	require.NoError(t, accounts.CreateUser(context.Background(), &models.User{Email: "google@example.com", Provider: ProviderGoogle}))

	for _, tc := range []struct{ email, password string }{
		{"editor@example.com", "wrong"},
		{"nobody@example.com", "secret123"},
		{"google@example.com", ""},
	} {
		_, err := auth.SignIn(context.Background(), tc.email, tc.password, ClientMeta{})
		assert.Equal(t, http.StatusUnauthorized, apperrors.HTTPStatus(err), tc.email)
	}
}

func TestSignInGoogle_CreatesAccount(t *testing.T) {
	auth, accounts, _ := newTestAuth(t)

	auth.validateGoogle = func(_ context.Context, token, audience string) (*idtoken.Payload, error) {
		assert.Equal(t, "client-id", audience)
		email := map[string]string{"reader-token": "kid@example.com", "admin-token": "boss@example.com"}[token]
		return &idtoken.Payload{Claims: map[string]interface{}{"email": email, "name": "Someone"}}, nil
	}

	reader, err := auth.SignInGoogle(context.Background(), "reader-token", ClientMeta{})
	require.NoError(t, err)
	assert.Equal(t, models.RoleReader, reader.Role)
	assert.False(t, reader.CanAuthor())

	admin, err := auth.SignInGoogle(context.Background(), "admin-token", ClientMeta{})
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, admin.Role)

	again, err := auth.SignInGoogle(context.Background(), "reader-token", ClientMeta{})
	require.NoError(t, err)
	assert.Equal(t, reader.UserID, again.UserID, "existing account is reused")
	assert.Len(t, accounts.users, 2)
}

func TestSignInGoogle_InvalidToken(t *testing.T) {
	auth, _, _ := newTestAuth(t)
	auth.validateGoogle = func(context.Context, string, string) (*idtoken.Payload, error) {
		return nil, errors.New("bad signature")
	}

	_, err := auth.SignInGoogle(context.Background(), "forged", ClientMeta{})
	assert.Equal(t, http.StatusUnauthorized, apperrors.HTTPStatus(err))
}

func TestCurrentSession_Rejects(t *testing.T) {
	auth, accounts, _ := newTestAuth(t)
	addPasswordUser(t, accounts, "editor@example.com", "secret123", models.RoleEditor)

	session, err := auth.SignIn(context.Background(), "editor@example.com", "secret123", ClientMeta{})
	require.NoError(t, err)

	_, err = auth.CurrentSession(context.Background(), "not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, apperrors.HTTPStatus(err))

	auth.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = auth.CurrentSession(context.Background(), session.Token)
	assert.Equal(t, http.StatusUnauthorized, apperrors.HTTPStatus(err), "row expired")
}

func TestRefreshAndSignOut(t *testing.T) {
	auth, accounts, notifier := newTestAuth(t)
	user := addPasswordUser(t, accounts, "editor@example.com", "secret123", models.RoleEditor)

	session, err := auth.SignIn(context.Background(), "editor@example.com", "secret123", ClientMeta{})
	require.NoError(t, err)

	refreshed, err := auth.Refresh(context.Background(), session.Token)
	require.NoError(t, err)
	assert.Equal(t, session.ID, refreshed.ID)
	assert.False(t, refreshed.ExpiresAt.Before(session.ExpiresAt))

	require.NoError(t, auth.SignOut(context.Background(), refreshed.Token))

	_, err = auth.CurrentSession(context.Background(), refreshed.Token)
	assert.Error(t, err, "session row is gone")

	assert.Equal(t, []sessionEvent{
		{user.ID, EventSignedIn},
		{user.ID, EventTokenRefreshed},
		{user.ID, EventSignedOut},
	}, notifier.events)
}

func TestCleanupExpired(t *testing.T) {
	auth, accounts, _ := newTestAuth(t)
	ctx := context.Background()

	require.NoError(t, accounts.CreateSession(ctx, &models.Session{ID: uuid.New(), ExpiresAt: time.Now().Add(-time.Minute)}))
	require.NoError(t, accounts.CreateSession(ctx, &models.Session{ID: uuid.New(), ExpiresAt: time.Now().Add(time.Hour)}))

	deleted, err := auth.CleanupExpired(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, deleted)
	assert.Len(t, accounts.sessions, 1)
}

func TestEnsureAdmin(t *testing.T) {
	auth, accounts, _ := newTestAuth(t)
	ctx := context.Background()

	require.NoError(t, auth.EnsureAdmin(ctx, "", ""))
	assert.Empty(t, accounts.users)

	require.NoError(t, auth.EnsureAdmin(ctx, "Admin@Example.com", "pa55word"))
	require.NoError(t, auth.EnsureAdmin(ctx, "admin@example.com", "other"))
	require.Len(t, accounts.users, 1)

	session, err := auth.SignIn(ctx, "admin@example.com", "pa55word", ClientMeta{})
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, session.Role)
}
