package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vnkhanh/kids-story-backend/models"
)

// AccountStore keeps users and their sign-in sessions
type AccountStore interface {
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	CreateUser(ctx context.Context, user *models.User) error

	CreateSession(ctx context.Context, session *models.Session) error
	// GetSession preloads the session user
	GetSession(ctx context.Context, id uuid.UUID) (*models.Session, error)
	ExtendSession(ctx context.Context, id uuid.UUID, expiresAt time.Time) error
	DeleteSession(ctx context.Context, id uuid.UUID) (int64, error)
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error)
}

type AccountGorm struct {
	db *gorm.DB
}

func NewAccountGorm(db *gorm.DB) *AccountGorm {
	return &AccountGorm{db: db}
}

var _ AccountStore = (*AccountGorm)(nil)

func (a *AccountGorm) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := a.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (a *AccountGorm) CreateUser(ctx context.Context, user *models.User) error {
	return a.db.WithContext(ctx).Create(user).Error
}

func (a *AccountGorm) CreateSession(ctx context.Context, session *models.Session) error {
	return a.db.WithContext(ctx).Omit("User").Create(session).Error
}

func (a *AccountGorm) GetSession(ctx context.Context, id uuid.UUID) (*models.Session, error) {
	var session models.Session
	if err := a.db.WithContext(ctx).Preload("User").First(&session, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &session, nil
}

func (a *AccountGorm) ExtendSession(ctx context.Context, id uuid.UUID, expiresAt time.Time) error {
	result := a.db.WithContext(ctx).
		Model(&models.Session{}).
		Where("id = ?", id).
		Update("expires_at", expiresAt)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (a *AccountGorm) DeleteSession(ctx context.Context, id uuid.UUID) (int64, error) {
	result := a.db.WithContext(ctx).Delete(&models.Session{}, "id = ?", id)
	return result.RowsAffected, result.Error
}

func (a *AccountGorm) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	result := a.db.WithContext(ctx).Where("expires_at < ?", now).Delete(&models.Session{})
	return result.RowsAffected, result.Error
}
