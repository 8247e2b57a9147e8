package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"cloud.google.com/go/auth/credentials/idtoken"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/vnkhanh/kids-story-backend/models"
	apperrors "github.com/vnkhanh/kids-story-backend/pkg/errors"
	"github.com/vnkhanh/kids-story-backend/pkg/logger"
	"github.com/vnkhanh/kids-story-backend/repository"
	"github.com/vnkhanh/kids-story-backend/utils"
)

const (
	ProviderPassword = "password"
	ProviderGoogle   = "google"
)

// Session is the signed-in principal handed to authoring operations.
type Session struct {
	ID        uuid.UUID       `json:"id"`
	UserID    uuid.UUID       `json:"user_id"`
	Email     string          `json:"email"`
	FullName  string          `json:"full_name"`
	Role      models.UserRole `json:"role"`
	Provider  string          `json:"provider"`
	ExpiresAt time.Time       `json:"expires_at"`
	Token     string          `json:"token,omitempty"`
}

func (s *Session) Valid(now time.Time) bool {
	return s != nil && s.UserID != uuid.Nil && now.Before(s.ExpiresAt)
}

func (s *Session) CanAuthor() bool {
	return s != nil && (s.Role == models.RoleAdmin || s.Role == models.RoleEditor)
}

type SessionEvent string

const (
	EventSignedIn       SessionEvent = "SIGNED_IN"
	EventTokenRefreshed SessionEvent = "TOKEN_REFRESHED"
	EventSignedOut      SessionEvent = "SIGNED_OUT"
)

// SessionNotifier receives session changes of a user
type SessionNotifier interface {
	NotifySession(userID uuid.UUID, event SessionEvent, session *Session)
}

// ClientMeta describes where a sign-in came from
type ClientMeta struct {
	UserAgent string
	IPAddress string
}

type GoogleValidator func(ctx context.Context, token, audience string) (*idtoken.Payload, error)

type AuthConfig struct {
	SessionTTL     time.Duration
	GoogleClientID string
	AdminEmails    []string
}

type AuthService struct {
	accounts repository.AccountStore
	jwt      *utils.JWT
	notifier SessionNotifier
	log      logger.Logger

	ttl            time.Duration
	googleClientID string
	adminEmails    map[string]struct{}

	validateGoogle GoogleValidator
	now            func() time.Time
}

func NewAuthService(accounts repository.AccountStore, jwt *utils.JWT, notifier SessionNotifier, cfg AuthConfig, log logger.Logger) *AuthService {
	admins := make(map[string]struct{}, len(cfg.AdminEmails))
	for _, email := range cfg.AdminEmails {
		if email = normalizeEmail(email); email != "" {
			admins[email] = struct{}{}
		}
	}

	return &AuthService{
		accounts:       accounts,
		jwt:            jwt,
		notifier:       notifier,
		log:            log.WithComponent("AuthService"),
		ttl:            cfg.SessionTTL,
		googleClientID: cfg.GoogleClientID,
		adminEmails:    admins,
		validateGoogle: idtoken.Validate,
		now:            time.Now,
	}
}

var errBadCredentials = apperrors.WrapWithCode(apperrors.ErrUnauthorized, "credentials", "Invalid email or password.")

func (a *AuthService) SignIn(ctx context.Context, email, password string, meta ClientMeta) (*Session, error) {
	user, err := a.accounts.FindUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errBadCredentials
		}
		return nil, err
	}

	if user.Password == "" {
		return nil, errBadCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, errBadCredentials
	}

	return a.startSession(ctx, user, ProviderPassword, meta)
}

// SignInGoogle validates a Google ID token and signs the account in,
// creating it on first use.
func (a *AuthService) SignInGoogle(ctx context.Context, token string, meta ClientMeta) (*Session, error) {
	if a.googleClientID == "" {
		return nil, apperrors.WrapWithCode(apperrors.ErrUnauthorized, "google", "Google sign-in is not configured.")
	}

	payload, err := a.validateGoogle(ctx, token, a.googleClientID)
	if err != nil {
		a.log.Warn("Google token rejected", "error", err)
		return nil, apperrors.WrapWithCode(apperrors.ErrUnauthorized, "google", "Invalid Google token.")
	}

	email, _ := payload.Claims["email"].(string)
	fullName, _ := payload.Claims["name"].(string)
	email = normalizeEmail(email)
	if email == "" {
		return nil, apperrors.WrapWithCode(apperrors.ErrUnauthorized, "google", "Google account has no email.")
	}

	user, err := a.accounts.FindUserByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		user = &models.User{
			ID:       uuid.New(),
			Email:    email,
			FullName: fullName,
			Provider: ProviderGoogle,
			Role:     models.RoleReader,
		}
		if _, ok := a.adminEmails[email]; ok {
			user.Role = models.RoleAdmin
		}
		if err := a.accounts.CreateUser(ctx, user); err != nil {
			return nil, apperrors.WrapWithCode(errors.Join(apperrors.ErrWrite, err), "user", "Could not create account.")
		}
		a.log.Info("Created Google account", "user_id", user.ID, "role", user.Role)
	} else if err != nil {
		return nil, err
	}

	return a.startSession(ctx, user, ProviderGoogle, meta)
}

// CurrentSession resolves an access token to its live session
func (a *AuthService) CurrentSession(ctx context.Context, token string) (*Session, error) {
	claims, err := a.jwt.VerifyToken(token)
	if err != nil {
		return nil, apperrors.WrapWithCode(apperrors.ErrUnauthorized, "token", "Invalid or expired token.")
	}

	sessionID, err := uuid.Parse(claims.ID)
	if err != nil {
		return nil, apperrors.WrapWithCode(apperrors.ErrUnauthorized, "token", "Invalid or expired token.")
	}

	row, err := a.accounts.GetSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.WrapWithCode(apperrors.ErrUnauthorized, "session", "Session not found.")
		}
		return nil, err
	}

	if row.IsExpired(a.now()) {
		return nil, apperrors.WrapWithCode(apperrors.ErrUnauthorized, "session", "Session expired.")
	}
	if row.UserID.String() != claims.UserID {
		return nil, apperrors.WrapWithCode(apperrors.ErrUnauthorized, "token", "Invalid or expired token.")
	}

	session := toSession(row)
	session.Token = token
	return session, nil
}

// Refresh extends the session behind token and issues a new token for it
func (a *AuthService) Refresh(ctx context.Context, token string) (*Session, error) {
	session, err := a.CurrentSession(ctx, token)
	if err != nil {
		return nil, err
	}

	expiresAt := a.now().Add(a.ttl)
	if err := a.accounts.ExtendSession(ctx, session.ID, expiresAt); err != nil {
		return nil, err
	}

	session.ExpiresAt = expiresAt
	if session.Token, err = a.jwt.GenerateToken(session.ID.String(), session.UserID.String(), string(session.Role), expiresAt); err != nil {
		return nil, err
	}

	a.notify(session.UserID, EventTokenRefreshed, session)
	return session, nil
}

func (a *AuthService) SignOut(ctx context.Context, token string) error {
	session, err := a.CurrentSession(ctx, token)
	if err != nil {
		return err
	}

	if _, err := a.accounts.DeleteSession(ctx, session.ID); err != nil {
		return err
	}

	a.notify(session.UserID, EventSignedOut, nil)
	return nil
}

// CleanupExpired removes every session past its expiry
func (a *AuthService) CleanupExpired(ctx context.Context) (int64, error) {
	return a.accounts.DeleteExpiredSessions(ctx, a.now())
}

// EnsureAdmin creates a password admin account unless the email is taken
func (a *AuthService) EnsureAdmin(ctx context.Context, email, password string) error {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil
	}

	_, err := a.accounts.FindUserByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	user := &models.User{
		FullName: "Administrator",
		Email:    email,
		Password: string(hashed),
		Provider: ProviderPassword,
		Role:     models.RoleAdmin,
	}
	if err := a.accounts.CreateUser(ctx, user); err != nil {
		return err
	}

	a.log.Info("Created admin account", "email", email)
	return nil
}

func (a *AuthService) startSession(ctx context.Context, user *models.User, provider string, meta ClientMeta) (*Session, error) {
	row := &models.Session{
		ID:        uuid.New(),
		UserID:    user.ID,
		Provider:  provider,
		UserAgent: meta.UserAgent,
		IPAddress: meta.IPAddress,
		ExpiresAt: a.now().Add(a.ttl),
	}
	if err := a.accounts.CreateSession(ctx, row); err != nil {
		return nil, apperrors.WrapWithCode(errors.Join(apperrors.ErrWrite, err), "session", "Could not start session.")
	}
	row.User = *user

	session := toSession(row)
	token, err := a.jwt.GenerateToken(row.ID.String(), user.ID.String(), string(user.Role), row.ExpiresAt)
	if err != nil {
		return nil, err
	}
	session.Token = token

	a.log.Info("Signed in", "user_id", user.ID, "provider", provider)
	a.notify(user.ID, EventSignedIn, session)
	return session, nil
}

func (a *AuthService) notify(userID uuid.UUID, event SessionEvent, session *Session) {
	if a.notifier == nil {
		return
	}
	var payload *Session
	if session != nil {
		s := *session
		s.Token = ""
		payload = &s
	}
	a.notifier.NotifySession(userID, event, payload)
}

func toSession(row *models.Session) *Session {
	return &Session{
		ID:        row.ID,
		UserID:    row.UserID,
		Email:     row.User.Email,
		FullName:  row.User.FullName,
		Role:      row.User.Role,
		Provider:  row.Provider,
		ExpiresAt: row.ExpiresAt,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
